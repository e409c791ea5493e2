// Command scene-report converts recorded driving scenes into a frame-indexed
// visualization model and renders it through the echarts or gonum/plot
// backends. Scenes live in a SQLite database; the semantic map is loaded
// from JSON.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/banshee-data/scene.report/internal/config"
	"github.com/banshee-data/scene.report/internal/monitoring"
	"github.com/banshee-data/scene.report/internal/scene"
	"github.com/banshee-data/scene.report/internal/scene/mapapi"
	"github.com/banshee-data/scene.report/internal/scene/vis"
	"github.com/banshee-data/scene.report/internal/version"
)

var (
	dbPath      = flag.String("db", "scene_data.db", "Path to the scene SQLite database")
	mapPath     = flag.String("map", "", "Path to the semantic map JSON file")
	configPath  = flag.String("config", "", "Optional pipeline config JSON (partial overrides)")
	listen      = flag.String("listen", ":8080", "Listen address for serve")
	verbose     = flag.Bool("verbose", false, "Enable debug logging")
	showVersion = flag.Bool("version", false, "Print version information and exit")
)

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: scene-report [flags] <command> [args]

Commands:
  import <dump.json>          Import a scene dump into the database
  scenes                      List stored scenes
  render <scene-id> <out>     Convert a scene and write HTML (.html) or PNG (.png)
  serve                       Serve scenes over HTTP with a debug SQL console
  migrate <up|down|version> <dir>  Run schema migrations from a directory

Flags:
`)
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()
	monitoring.SetVerbose(*verbose)

	if *showVersion {
		fmt.Println("scene-report", version.String())
		return
	}

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	store, err := scene.OpenStore(*dbPath)
	if err != nil {
		log.Fatalf("failed to open scene database: %v", err)
	}
	defer store.Close()

	var runErr error
	switch args[0] {
	case "import":
		runErr = runImport(store, args[1:])
	case "scenes":
		runErr = runListScenes(store)
	case "render":
		runErr = runRender(store, args[1:])
	case "serve":
		runErr = runServe(store)
	case "migrate":
		runErr = runMigrate(store, args[1:])
	default:
		usage()
		os.Exit(2)
	}
	if runErr != nil {
		log.Fatalf("%s failed: %v", args[0], runErr)
	}
}

// pipelineConfig loads the optional config file and materializes the
// pipeline configuration.
func pipelineConfig() (vis.Config, error) {
	if *configPath == "" {
		return vis.DefaultConfig(), nil
	}
	cfg, err := config.LoadVisualConfig(*configPath)
	if err != nil {
		return vis.Config{}, err
	}
	return cfg.Pipeline(), nil
}

// semanticMap loads the map file named by -map.
func semanticMap() (*mapapi.InMemoryMap, error) {
	if *mapPath == "" {
		return nil, fmt.Errorf("a semantic map is required (-map)")
	}
	return mapapi.LoadJSON(*mapPath)
}
