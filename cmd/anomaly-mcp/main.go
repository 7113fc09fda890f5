package main

import (
	"fmt"
	"os"

	"github.com/ironsheep/color-anomaly-mcp/internal/logger"
	"github.com/ironsheep/color-anomaly-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("color-anomaly-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("color-anomaly-mcp - MCP server for finding pixels in a color range")
			fmt.Println()
			fmt.Println("Usage: color-anomaly-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  ANOMALY_MCP_LOG_LEVEL=debug|info|warn|error      Log level (default info)")
			fmt.Println("  ANOMALY_MCP_LOG_FORMAT=console                   Human-readable logs instead of JSON")
			fmt.Println("  ANOMALY_MCP_BOUND_ORDERING=as-given|normalized   How two colors become a range (default as-given)")
			fmt.Println("  ANOMALY_MCP_SENSITIVITY=N                        Default sensitivity (default 0)")
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			fmt.Println("Logs are written to stderr.")
			return
		}
	}

	// stdout is for MCP protocol
	level, levelErr := logger.ParseLevel(os.Getenv("ANOMALY_MCP_LOG_LEVEL"))
	log := logger.New(os.Stderr, level, os.Getenv("ANOMALY_MCP_LOG_FORMAT") == "console")
	if levelErr != nil {
		log.Warn().Err(levelErr).Msg("falling back to info level")
	}

	cfg, err := server.ConfigFromEnv(os.Getenv)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	log.Debug().
		Str("version", Version).
		Str("build_time", BuildTime).
		Str("commit", GitCommit).
		Str("bound_ordering", cfg.BoundOrdering.String()).
		Int("sensitivity", cfg.DefaultSensitivity).
		Msg("starting color-anomaly-mcp")

	srv := server.NewWithConfig(cfg, log)
	if err := srv.Run(); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}
