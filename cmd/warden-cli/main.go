package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"go.uber.org/zap"

	"github.com/peterkuimelis/warden/internal/config"
	wardennet "github.com/peterkuimelis/warden/internal/net"
	wardenotel "github.com/peterkuimelis/warden/internal/otel"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var err error
	switch os.Args[1] {
	case "play":
		err = runServer(ctx, "play", os.Args[2:], true)
	case "host":
		err = runServer(ctx, "host", os.Args[2:], false)
	case "join":
		err = runJoin(ctx, os.Args[2:])
	default:
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  warden play [--catalog FILE] [--rules FILE] [--seed N] [--journal FILE]")
	fmt.Println("  warden host [--port P] [--catalog FILE] [--rules FILE] [--seed N] [--journal FILE]")
	fmt.Println("  warden join [--addr ADDR]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  play    Play against the Warden in this terminal")
	fmt.Println("  host    Host a game and wait for a wanderer to join")
	fmt.Println("  join    Connect to a hosted game")
}

func runServer(ctx context.Context, name string, args []string, local bool) error {
	cfg, err := config.Parse(flag.NewFlagSet(name, flag.ExitOnError), args)
	if err != nil {
		return err
	}
	logger, err := cfg.Logger()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer logger.Sync()

	shutdown, err := wardenotel.Setup(ctx, "warden-cli", cfg.OTelEndpoint)
	if err != nil {
		return fmt.Errorf("setup tracing: %w", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			logger.Warn("tracing shutdown", zap.Error(err))
		}
	}()

	engine, err := cfg.Engine()
	if err != nil {
		return err
	}
	narrator := cfg.Narrator(logger)
	defer narrator.Close()

	journal, closeJournal, err := cfg.Journal()
	if err != nil {
		return err
	}
	defer closeJournal()

	srv := &wardennet.Server{
		Engine:   engine,
		Narrator: narrator,
		Logger:   logger,
		Journal:  journal,
		Port:     cfg.TCPPort,
	}
	if local {
		fmt.Println("Type 'help' for commands.")
		return srv.Local(ctx, os.Stdin, os.Stdout)
	}
	return srv.Run(ctx)
}

func runJoin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("join", flag.ExitOnError)
	addr := fs.String("addr", "localhost:9000", "server address to connect to")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return wardennet.Connect(ctx, *addr)
}
