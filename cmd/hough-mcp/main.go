package main

import (
	"fmt"
	"os"

	"github.com/ironsheep/hough-tools-mcp/internal/config"
	"github.com/ironsheep/hough-tools-mcp/internal/logger"
	"github.com/ironsheep/hough-tools-mcp/internal/server"
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
			fmt.Printf("hough-tools-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("hough-tools-mcp - MCP server for Hough line detection")
			fmt.Println()
			fmt.Println("Usage: hough-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  HOUGH_MCP_LOG_LEVEL=info         debug, info, warn, error")
			fmt.Println("  HOUGH_MCP_LOG_FORMAT=console     console or json")
			fmt.Println("  HOUGH_MCP_OVERLAY_COLOR=#FF0000  default line color")
			fmt.Println("  HOUGH_MCP_THRESHOLD=0.5          default peak threshold (0.0-1.0)")
			fmt.Println("  HOUGH_MCP_MAX_DIMENSION=0        downscale limit, 0 disables")
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			fmt.Println("Configure it in your MCP client.")
			return
		}
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(2)
	}

	// Logs go to stderr; stdout is for the MCP protocol.
	log, err := logger.New(os.Stderr, cfg.LogFormat, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(2)
	}

	log.Debug().
		Str("version", Version).
		Str("build_time", BuildTime).
		Str("commit", GitCommit).
		Float64("threshold", cfg.Threshold).
		Str("overlay_color", cfg.OverlayColor).
		Int("max_dimension", cfg.MaxDimension).
		Msg("starting hough MCP server")

	server.Version = Version
	srv := server.New(cfg, log)
	if err := srv.Run(); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}
