package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jaminalder/minimax-tic-tac-toe/internal/app"
	"github.com/jaminalder/minimax-tic-tac-toe/internal/web"
)

func main() {
	cfg, err := loadConfig(os.Args[1:], os.Getenv)
	if err != nil {
		slog.Error("config", "err", err)
		os.Exit(2)
	}
	log := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(log)

	svc := app.NewServiceWithOptions(app.Options{ComputerDelay: cfg.ComputerDelay, Logger: log})
	defer svc.Close()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           web.NewServerWithLogger(svc, log),
		ReadHeaderTimeout: 5 * time.Second,
	}
	// end event streams and websockets so Shutdown doesn't wait on them
	srv.RegisterOnShutdown(svc.Close)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", cfg.Addr, "computer_delay", cfg.ComputerDelay)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", "err", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("shutdown", "err", err)
		}
	}
}
