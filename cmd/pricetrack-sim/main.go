// Package main boots the price-tracker API simulator HTTP server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pricetrack/internal/config"
	"pricetrack/internal/obs"
	"pricetrack/internal/sim"
)

func main() {
	cfg := config.LoadSim()
	obs.InitLogger()
	obs.Logger.Info("simulator_starting")

	st := sim.NewState()
	ref := sim.NewRefresher(st, cfg.RefreshWorkers, cfg.RefreshBuffer)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ref.Start(ctx)

	srvApp := sim.NewServer(cfg, st, ref)
	handler := sim.NewRouter(srvApp)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		obs.Logger.Info("http_listen", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			obs.Logger.Error("http_server_error", "error", err)
			os.Exit(1)
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	s := <-sigc
	obs.Logger.Info("shutdown_signal", "signal", s.String())

	ref.CloseIntake()
	obs.Logger.Info("shutdown_drain_begin", "backlog_size", ref.BacklogSize())

	ctxDrain, cancelDrain := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancelDrain()
	if drained := ref.DrainUntil(ctxDrain); !drained {
		obs.Logger.Warn("shutdown_drain_timeout")
	} else {
		obs.Logger.Info("shutdown_drain_complete")
	}

	ctxSrv, cancelSrv := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelSrv()
	if err := srv.Shutdown(ctxSrv); err != nil {
		obs.Logger.Error("http_shutdown_error", "error", err)
	}
	ref.Stop()
	obs.Logger.Info("simulator_stopped")
}
