// Package uuidforge parses server command flags and selects stdio or HTTP
// transport.
package uuidforge

import (
	"context"
	"flag"
	"log"
	"time"

	app "github.com/louisbranch/uuidforge/internal/app/uuidforge"
	"github.com/louisbranch/uuidforge/internal/platform/config"
	"github.com/louisbranch/uuidforge/internal/platform/otel"
)

// Config holds server command configuration.
type Config struct {
	Transport  string        `env:"UUIDFORGE_TRANSPORT"   envDefault:"stdio"`
	HTTPAddr   string        `env:"UUIDFORGE_HTTP_ADDR"   envDefault:"localhost:8081"`
	SessionTTL time.Duration `env:"UUIDFORGE_SESSION_TTL" envDefault:"1h"`
}

// configKeys are the environment variables ParseConfig consults.
var configKeys = []string{
	"UUIDFORGE_TRANSPORT",
	"UUIDFORGE_HTTP_ADDR",
	"UUIDFORGE_SESSION_TTL",
}

// ParseConfig parses environment and flags into a Config. Flags override
// environment values.
func ParseConfig(fs *flag.FlagSet, args []string, lookupEnv func(string) (string, bool)) (Config, error) {
	environment := make(map[string]string, len(configKeys))
	for _, key := range configKeys {
		if value, ok := lookupEnv(key); ok {
			environment[key] = value
		}
	}

	var cfg Config
	if err := config.ParseEnvFrom(&cfg, environment); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.Transport, "transport", cfg.Transport, "Transport type: stdio or http")
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP server address (for HTTP transport)")
	fs.DurationVar(&cfg.SessionTTL, "session-ttl", cfg.SessionTTL, "Idle HTTP session expiry; negative disables")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the identifier server.
func Run(ctx context.Context, cfg Config) error {
	shutdown, err := otel.Setup(ctx, "uuidforge")
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			log.Printf("otel shutdown: %v", err)
		}
	}()

	return app.Run(ctx, cfg.Transport, cfg.HTTPAddr, cfg.SessionTTL)
}
