package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/banshee-data/scene.report/internal/monitoring"
	"github.com/banshee-data/scene.report/internal/render/echarts"
	renderplot "github.com/banshee-data/scene.report/internal/render/plot"
	"github.com/banshee-data/scene.report/internal/scene"
	"github.com/banshee-data/scene.report/internal/scene/vis"
)

// runImport loads a JSON scene dump into the store.
func runImport(store *scene.Store, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: import <dump.json>")
	}
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open scene dump: %w", err)
	}
	defer f.Close()

	ids, err := store.ImportJSON(f)
	if err != nil {
		return err
	}
	for _, id := range ids {
		fmt.Println(id)
	}
	return nil
}

// runListScenes prints the stored scene records.
func runListScenes(store *scene.Store) error {
	recs, err := store.ListScenes()
	if err != nil {
		return err
	}
	for _, r := range recs {
		fmt.Printf("%s\t%d frames\t%s\n", r.SceneID, r.FrameInterval.Len(), r.Description)
	}
	return nil
}

// runRender converts one scene and writes the requested frame (default 0)
// to an HTML or PNG file depending on the output extension.
func runRender(store *scene.Store, args []string) error {
	if len(args) < 2 || len(args) > 3 {
		return fmt.Errorf("usage: render <scene-id> <out.html|out.png> [frame]")
	}
	sceneID, outPath := args[0], args[1]
	frameIdx := 0
	if len(args) == 3 {
		n, err := strconv.Atoi(args[2])
		if err != nil || n < 0 {
			return fmt.Errorf("frame must be a non-negative integer, got %q", args[2])
		}
		frameIdx = n
	}

	frames, err := convertScene(store, sceneID)
	if err != nil {
		return err
	}
	if frameIdx >= len(frames) {
		return fmt.Errorf("frame %d out of range: scene has %d frames", frameIdx, len(frames))
	}

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer out.Close()

	title := fmt.Sprintf("Scene %s", sceneID)
	switch filepath.Ext(outPath) {
	case ".png":
		err = renderplot.RenderFrame(out, title, frames[frameIdx])
	case ".html":
		err = echarts.RenderFrame(out, title, frameIdx, frames[frameIdx])
	default:
		return fmt.Errorf("unsupported output extension %q (want .html or .png)", filepath.Ext(outPath))
	}
	if err != nil {
		return err
	}
	monitoring.Logf("rendered scene %s frame %d to %s", sceneID, frameIdx, outPath)
	return nil
}

// runMigrate applies schema migrations from a directory.
func runMigrate(store *scene.Store, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: migrate <up|down|version> <migrations-dir>")
	}
	op, dir := args[0], args[1]
	switch op {
	case "up":
		return store.MigrateUp(dir)
	case "down":
		return store.MigrateDown(dir)
	case "version":
		version, dirty, err := store.MigrateVersion(dir)
		if err != nil {
			return err
		}
		fmt.Printf("version=%d dirty=%v\n", version, dirty)
		return nil
	default:
		return fmt.Errorf("unknown migrate operation %q", op)
	}
}

// convertScene loads a scene, the map and the config and runs the pipeline.
func convertScene(store *scene.Store, sceneID string) ([]vis.FrameVisualization, error) {
	cfg, err := pipelineConfig()
	if err != nil {
		return nil, err
	}
	m, err := semanticMap()
	if err != nil {
		return nil, err
	}
	ds, err := store.LoadScene(sceneID)
	if err != nil {
		return nil, err
	}
	return vis.NewBuilder(m, cfg).ConvertScene(ds)
}
