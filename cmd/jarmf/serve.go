package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/epithet-ssh/jarmf/pkg/config"
	"github.com/epithet-ssh/jarmf/pkg/mfserver"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// ServeCLI runs the manifest HTTP API.
type ServeCLI struct {
	Listen       string `help:"Address to listen on" short:"l" env:"PORT" default:"127.0.0.1:8080"`
	MaxBodySize  int64  `help:"Maximum request body size in bytes" default:"1048576"`
	ServerConfig string `help:"Server config file (YAML, JSON or CUE); its values override flags" type:"existingfile" placeholder:"PATH"`
}

func (c *ServeCLI) serverConfig(g *Globals) (mfserver.Config, error) {
	cfg := mfserver.Config{
		Listen:        c.Listen,
		MaxBodySize:   c.MaxBodySize,
		MaxLineLength: g.MaxLineLength,
	}
	if c.ServerConfig == "" {
		return cfg, nil
	}

	loaded, err := config.LoadFromFile[mfserver.Config](c.ServerConfig)
	if err != nil {
		return cfg, err
	}
	if loaded.Listen != "" {
		cfg.Listen = loaded.Listen
	}
	if loaded.MaxBodySize > 0 {
		cfg.MaxBodySize = loaded.MaxBodySize
	}
	if loaded.MaxLineLength > 0 {
		cfg.MaxLineLength = loaded.MaxLineLength
	}
	cfg.Timeout = loaded.Timeout
	return cfg, nil
}

func (c *ServeCLI) handler(logger *slog.Logger, cfg mfserver.Config) (http.Handler, error) {
	timeout, err := cfg.RequestTimeout()
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Timeout(timeout))
	r.Mount("/", mfserver.New(logger, cfg.Options()...))
	return r, nil
}

func (c *ServeCLI) Run(logger *slog.Logger, g *Globals) error {
	cfg, err := c.serverConfig(g)
	if err != nil {
		return err
	}
	h, err := c.handler(logger, cfg)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	server := &http.Server{
		Addr:              cfg.Listen,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()
	logger.Info("listening", "address", cfg.Listen)

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("http server error: %w", err)
		}
		return nil
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	return server.Shutdown(shutdownCtx)
}
