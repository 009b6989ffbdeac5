// Command pooja-relay serves the chat relay the assistant talks to. It
// keeps the OpenRouter key server-side and forwards completion requests.
package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/vanshgarg/go-pooja/internal/config"
	"github.com/vanshgarg/go-pooja/internal/log"
	"github.com/vanshgarg/go-pooja/pkg/relay"
)

func main() {
	envFile := pflag.String("env", ".env", "env file to load")
	logLevel := pflag.String("log-level", "", "log level (debug, info, warn, error)")
	addr := pflag.String("addr", "", "listen address")
	pflag.Parse()

	cfg := config.Load(*envFile)
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if *addr != "" {
		cfg.RelayAddr = *addr
	}

	log.Init(cfg.LogLevel)

	if cfg.OpenRouterKey == "" {
		log.Warn("OPENROUTER_API_KEY not set, only requests with custom keys will succeed")
	}

	srv := relay.NewServer(relay.NewOpenRouterUpstream(), cfg.OpenRouterKey,
		relay.WithServerLogger(log.L()),
	)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		log.Info("shutting down")
		if err := srv.Shutdown(); err != nil {
			log.Error("shutdown failed", "error", err)
		}
	}()

	if err := srv.Listen(cfg.RelayAddr); err != nil {
		log.Error("relay server failed", "error", err)
		os.Exit(1)
	}
}
