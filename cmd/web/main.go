package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/peterkuimelis/warden/internal/config"
	wardenotel "github.com/peterkuimelis/warden/internal/otel"
	"github.com/peterkuimelis/warden/internal/web"
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
	logger, err := cfg.Logger()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer logger.Sync()

	ctx := context.Background()
	shutdown, err := wardenotel.Setup(ctx, "warden-web", cfg.OTelEndpoint)
	if err != nil {
		return fmt.Errorf("setup tracing: %w", err)
	}
	defer func() {
		if err := shutdown(ctx); err != nil {
			logger.Warn("tracing shutdown", zap.Error(err))
		}
	}()

	engine, err := cfg.Engine()
	if err != nil {
		return err
	}
	narrator := cfg.Narrator(logger)
	defer narrator.Close()

	srv := web.NewServer(engine, narrator, logger)
	logger.Info("warden web listening", zap.String("addr", cfg.HTTPAddr))
	fmt.Printf("warden web listening on %s\n", cfg.HTTPAddr)
	return srv.ListenAndServe(cfg.HTTPAddr)
}
