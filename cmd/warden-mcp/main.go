package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/peterkuimelis/warden/internal/config"
	wardenmcp "github.com/peterkuimelis/warden/internal/mcp"
)

func main() {
	cfg, err := config.Parse(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	// stdout carries the protocol; zap's production config logs to stderr.
	logger, err := cfg.Logger()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer logger.Sync()

	engine, err := cfg.Engine()
	if err != nil {
		return err
	}
	narrator := cfg.Narrator(logger)
	defer narrator.Close()

	wardenmcp.Configure(engine, narrator, logger)

	s := server.NewMCPServer("warden", "1.0.0")
	wardenmcp.RegisterTools(s)
	return server.ServeStdio(s)
}
