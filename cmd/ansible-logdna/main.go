// Command ansible-logdna reads ansible-runner job events as JSON lines on
// stdin and ships each task result to the LogDNA ingestion API.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/logdna/ansible-logdna/internal/config"
	"github.com/logdna/ansible-logdna/internal/logging"
	"github.com/logdna/ansible-logdna/internal/router"
	"github.com/logdna/ansible-logdna/internal/stream"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logging.Init(logging.ParseLevel(cfg.LogLevel))

	rt := router.NewFromConfig(cfg, "", nil)
	reader := stream.New(os.Stdin, rt)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Fprintf(os.Stderr, "\nreceived %v, shutting down...\n", sig)
		cancel()
	}()

	if err := reader.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("event stream error: %v", err)
	}
}
