package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	uuidforgecmd "github.com/louisbranch/uuidforge/internal/cmd/uuidforge"
	"github.com/louisbranch/uuidforge/internal/platform/config"
)

// main starts the identifier server on stdio or HTTP.
func main() {
	cfg, err := uuidforgecmd.ParseConfig(flag.CommandLine, os.Args[1:], func(key string) (string, bool) {
		value, ok := os.LookupEnv(key)
		return value, ok
	})
	if err != nil {
		config.Exitf("parse flags: %v", err)
	}
	log.SetPrefix("[uuidforge] ")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := uuidforgecmd.Run(ctx, cfg); err != nil {
		log.Fatalf("failed to serve: %v", err)
	}
}
