// Package config loads process configuration from WARDEN_* environment
// variables, overridden by command-line flags.
package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"go.uber.org/zap"

	"github.com/peterkuimelis/warden/internal/game"
	"github.com/peterkuimelis/warden/internal/log"
	"github.com/peterkuimelis/warden/internal/narrative"
)

// Config holds everything a warden command needs to start.
type Config struct {
	CatalogFile string `env:"WARDEN_CATALOG"`
	RulesFile   string `env:"WARDEN_RULES"`
	Seed        int64  `env:"WARDEN_SEED"`
	JournalFile string `env:"WARDEN_JOURNAL"`

	NarrativeEndpoint string        `env:"WARDEN_NARRATIVE_ENDPOINT"`
	NarrativeAPIKey   string        `env:"WARDEN_NARRATIVE_API_KEY"`
	NarrativeModel    string        `env:"WARDEN_NARRATIVE_MODEL"`
	NarrativeTimeout  time.Duration `env:"WARDEN_NARRATIVE_TIMEOUT" envDefault:"4s"`

	HTTPAddr string `env:"WARDEN_HTTP_ADDR" envDefault:":8080"`
	TCPPort  string `env:"WARDEN_TCP_PORT" envDefault:"9000"`

	OTelEndpoint string `env:"WARDEN_OTEL_ENDPOINT"`
	Verbose      bool   `env:"WARDEN_VERBOSE"`
}

// Parse loads the environment, then registers flags on fs defaulting to the
// environment values and parses args.
func Parse(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	fs.StringVar(&cfg.CatalogFile, "catalog", cfg.CatalogFile, "card catalog YAML (default: embedded catalog)")
	fs.StringVar(&cfg.RulesFile, "rules", cfg.RulesFile, "rules YAML overlaid on the defaults")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "random seed (0: time based)")
	fs.StringVar(&cfg.JournalFile, "journal", cfg.JournalFile, "write the game event log to this file")
	fs.StringVar(&cfg.NarrativeEndpoint, "narrative-endpoint", cfg.NarrativeEndpoint, "OpenAI-compatible API base URL")
	fs.StringVar(&cfg.NarrativeModel, "narrative-model", cfg.NarrativeModel, "chat model for warden lines")
	fs.DurationVar(&cfg.NarrativeTimeout, "narrative-timeout", cfg.NarrativeTimeout, "timeout for a single warden line")
	fs.StringVar(&cfg.HTTPAddr, "addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.TCPPort, "port", cfg.TCPPort, "TCP port")
	fs.StringVar(&cfg.OTelEndpoint, "otel-endpoint", cfg.OTelEndpoint, "OTLP/HTTP traces endpoint (empty: tracing off)")
	fs.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "debug logging")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Engine loads the catalog and rules and builds an engine over them.
func (c Config) Engine() (*game.Engine, error) {
	cat, err := game.LoadCatalog(c.CatalogFile)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	rules, err := game.LoadRules(c.RulesFile)
	if err != nil {
		return nil, fmt.Errorf("load rules: %w", err)
	}
	return game.NewEngine(cat, rules, game.NewRand(c.Seed)), nil
}

// Logger builds the operational logger. Only warnings and errors are
// written unless Verbose is set.
func (c Config) Logger() (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	if c.Verbose {
		zc = zap.NewDevelopmentConfig()
	}
	return zc.Build()
}

// NarrativeService returns the remote client when an endpoint or key is
// configured, and the offline service otherwise.
func (c Config) NarrativeService() narrative.Service {
	if c.NarrativeEndpoint == "" && c.NarrativeAPIKey == "" {
		return narrative.Static{}
	}
	return narrative.NewClient(c.NarrativeEndpoint, c.NarrativeAPIKey, c.NarrativeModel)
}

// Narrator builds the asynchronous narrator. Callers Close it on shutdown.
func (c Config) Narrator(logger *zap.Logger) *narrative.Requester {
	return narrative.NewRequester(c.NarrativeService(), c.NarrativeTimeout, logger)
}

// Journal opens the event journal file. It returns a nil logger when no
// journal is configured.
func (c Config) Journal() (log.EventLogger, func() error, error) {
	if c.JournalFile == "" {
		return nil, func() error { return nil }, nil
	}
	f, err := os.Create(c.JournalFile)
	if err != nil {
		return nil, nil, fmt.Errorf("open journal: %w", err)
	}
	return log.NewTextLogger(f), f.Close, nil
}
