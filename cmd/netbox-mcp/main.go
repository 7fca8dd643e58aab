// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

// Command netbox-mcp exposes a NetBox instance as Model Context Protocol
// tools, over stdio or HTTP.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	netbox "github.com/netascode/go-netbox"
	"github.com/netascode/go-netbox/internal/config"
	"github.com/netascode/go-netbox/internal/mcp"
)

const bootstrapTimeout = 30 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "netbox-mcp:", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to optional YAML config file")
	listen := flag.String("listen", "", "HTTP listen address (overrides NETBOX_MCP_LISTEN; empty selects stdio)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *listen != "" {
		cfg.Listen = *listen
	}

	// Logs always go to stderr: stdout belongs to the stdio transport.
	log := newLogger(cfg.LogLevel)

	client, err := netbox.NewClient(cfg.URL, cfg.Token,
		netbox.Insecure(cfg.TLSInsecure),
		netbox.WithLogger(zerologAdapter{log: log}),
	)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bootCtx, cancel := context.WithTimeout(ctx, bootstrapTimeout)
	adapter := netbox.Bootstrap(bootCtx, client, cfg.EnableV4, cfg.WrapListResults)
	cancel()

	log.Info().
		Int("object_types", adapter.Catalog().Len()).
		Bool("mac_endpoint", adapter.Capabilities().HasMACEndpoint).
		Msg("adapter ready")

	srv := mcp.NewServer(mcp.Tools(adapter), log)

	if cfg.Listen != "" {
		return srv.ListenAndServe(ctx, cfg.Listen)
	}
	return srv.ServeStdio(ctx, os.Stdin, os.Stdout)
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(os.Stderr).Level(lvl).With().Timestamp().Logger()
}

// zerologAdapter bridges the client's logger interface onto zerolog
type zerologAdapter struct {
	log zerolog.Logger
}

func (a zerologAdapter) Debug(_ context.Context, msg string, kv ...any) {
	a.emit(a.log.Debug(), msg, kv)
}

func (a zerologAdapter) Info(_ context.Context, msg string, kv ...any) {
	a.emit(a.log.Info(), msg, kv)
}

func (a zerologAdapter) Warn(_ context.Context, msg string, kv ...any) {
	a.emit(a.log.Warn(), msg, kv)
}

func (a zerologAdapter) Error(_ context.Context, msg string, kv ...any) {
	a.emit(a.log.Error(), msg, kv)
}

func (a zerologAdapter) emit(e *zerolog.Event, msg string, kv []any) {
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			key = fmt.Sprint(kv[i])
		}
		e = e.Interface(key, kv[i+1])
	}
	e.Msg(msg)
}
