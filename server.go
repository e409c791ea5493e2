package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/tailscale/tailsql/server/tailsql"
	"tailscale.com/tsweb"

	"github.com/banshee-data/scene.report/internal/monitoring"
	"github.com/banshee-data/scene.report/internal/render/echarts"
	renderplot "github.com/banshee-data/scene.report/internal/render/plot"
	"github.com/banshee-data/scene.report/internal/scene"
)

// Server exposes stored scenes over HTTP: a JSON scene list, rendered frame
// pages, and a tailsql debug console over the scene database.
type Server struct {
	store *scene.Store
}

// NewServer creates a Server over the given store.
func NewServer(store *scene.Store) *Server {
	return &Server{store: store}
}

// ServeMux builds the route table.
func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /scenes", s.listScenes)
	mux.HandleFunc("GET /scenes/{id}", s.renderScene)
	s.attachDebugRoutes(mux)
	return mux
}

// listScenes returns the stored scene records as JSON.
func (s *Server) listScenes(w http.ResponseWriter, r *http.Request) {
	recs, err := s.store.ListScenes()
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to list scenes: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(recs); err != nil {
		monitoring.Logf("failed to encode scene list: %v", err)
	}
}

// renderScene converts a scene on demand and renders one frame. Query
// params: frame (default 0), format (html or png, default html).
func (s *Server) renderScene(w http.ResponseWriter, r *http.Request) {
	sceneID := r.PathValue("id")

	frameIdx := 0
	if v := r.URL.Query().Get("frame"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			http.Error(w, "frame must be a non-negative integer", http.StatusBadRequest)
			return
		}
		frameIdx = n
	}

	frames, err := convertScene(s.store, sceneID)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to convert scene: %v", err), http.StatusInternalServerError)
		return
	}
	if frameIdx >= len(frames) {
		http.Error(w, fmt.Sprintf("frame %d out of range: scene has %d frames", frameIdx, len(frames)), http.StatusNotFound)
		return
	}

	title := fmt.Sprintf("Scene %s", sceneID)
	switch r.URL.Query().Get("format") {
	case "png":
		w.Header().Set("Content-Type", "image/png")
		err = renderplot.RenderFrame(w, title, frames[frameIdx])
	case "", "html":
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		err = echarts.RenderFrame(w, title, frameIdx, frames[frameIdx])
	default:
		http.Error(w, "format must be html or png", http.StatusBadRequest)
		return
	}
	if err != nil {
		monitoring.Logf("failed to render scene %s frame %d: %v", sceneID, frameIdx, err)
	}
}

// attachDebugRoutes mounts the tsweb debugger with a tailSQL console
// pointed at the scene database.
func (s *Server) attachDebugRoutes(mux *http.ServeMux) {
	debug := tsweb.Debugger(mux)

	tsql, err := tailsql.NewServer(tailsql.Options{
		RoutePrefix: "/debug/tailsql/",
	})
	if err != nil {
		monitoring.Logf("failed to create tailsql server: %v", err)
		return
	}
	tsql.SetDB("sqlite://scene_data.db", s.store.DB, &tailsql.DBOptions{
		Label: "Scene DB",
	})
	debug.Handle("tailsql/", "SQL live debugging", tsql.NewMux())
}

// runServe starts the HTTP server.
func runServe(store *scene.Store) error {
	srv := NewServer(store)
	monitoring.Logf("serving scenes on %s", *listen)
	return http.ListenAndServe(*listen, srv.ServeMux())
}
