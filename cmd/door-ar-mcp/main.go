package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ironsheep/door-ar-mcp/internal/config"
	"github.com/ironsheep/door-ar-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("door-ar-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("door-ar-mcp - MCP server for door detection, measurement and AR compositing")
			fmt.Println()
			fmt.Println("Usage: door-ar-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  DOOR_AR_LOG_LEVEL=debug            Enable debug logging")
			fmt.Println("  DOOR_AR_DETECT_WIDTH=320           Detection buffer width")
			fmt.Println("  DOOR_AR_SMOOTH_ALPHA=0.2           Quad smoothing factor")
			fmt.Println("  DOOR_AR_DETECT_EVERY_N=6           Render ticks per detection")
			fmt.Println("  DOOR_AR_RENDER_INTERVAL=16ms       Session render tick")
			fmt.Println("  DOOR_AR_FIRST_FRAME_TIMEOUT=5s     Wait for a session's first frame")
			fmt.Println("  DOOR_AR_SCALE_FILE=~/.door-ar/scale.json  Stored calibration")
			fmt.Println("  DOOR_AR_MIN_SIDE_PX=24             Shortest allowed quad side")
			fmt.Println("  DOOR_AR_EDGE_LOW=50                Canny low threshold")
			fmt.Println("  DOOR_AR_EDGE_HIGH=150              Canny high threshold")
			fmt.Println("  DOOR_AR_SAMPLING=nearest           Compositor sampling (nearest, bilinear)")
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			return
		}
	}

	// stdout carries the MCP protocol
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}
	if cfg.Debug() {
		log.Printf("Door AR MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
		log.Printf("Config: %+v", *cfg)
	}

	server.Version = Version
	srv, err := server.New(cfg)
	if err != nil {
		log.Fatalf("Server error: %v", err)
	}
	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
