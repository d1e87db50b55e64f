package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pribylovaa/shopping-assistant/internal/apiclient"
	"github.com/pribylovaa/shopping-assistant/internal/bridge"
	"github.com/pribylovaa/shopping-assistant/internal/commands"
	"github.com/pribylovaa/shopping-assistant/internal/config"
	"github.com/pribylovaa/shopping-assistant/internal/keychain"
	"github.com/pribylovaa/shopping-assistant/internal/metrics"
	"github.com/pribylovaa/shopping-assistant/internal/session"
	"github.com/pribylovaa/shopping-assistant/internal/tray"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "path to config file")
	flag.Parse()

	cfg := config.MustLoad(configPath)

	log := setupLogger(cfg.Env)
	slog.SetDefault(log)
	log.Info("starting desktop backend", "env", cfg.Env, "api", cfg.API.BaseURL)

	rootCtx, rootCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer rootCancel()

	m := metrics.New(prometheus.DefaultRegisterer)

	tokens := keychain.NewTokenStore(keychain.OSBackend{}, cfg.Keyring.Service, cfg.Keyring.Account)
	api := apiclient.New(cfg.API.BaseURL, tokens, apiclient.Options{
		UserAgent: cfg.API.UserAgent,
		Timeout:   cfg.API.Timeout,
		Logger:    log,
		Metrics:   m,
	})
	state := session.New()

	surface := commands.New(tokens, api, state, m)
	trayCtl := tray.New(logWindow{log: log}, rootCancel)

	bridgeHandler := bridge.NewRouter(surface, trayCtl, bridge.Options{
		Logger:  log,
		Secret:  cfg.Bridge.Secret,
		Timeout: cfg.Bridge.Timeout,
	})

	var ready int32 // 0 — not ready; 1 — ready

	mux := http.NewServeMux()
	mux.HandleFunc("/livez", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if atomic.LoadInt32(&ready) == 1 {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
			return
		}

		http.Error(w, "not ready", http.StatusServiceUnavailable)
	})

	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", bridgeHandler)

	addr := cfg.Bridge.Addr()
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		log.Error("bridge_listen_failed", slog.String("addr", addr), slog.String("err", err.Error()))
		os.Exit(1)
	}

	log.Info("bridge_listen_start", slog.String("addr", addr), slog.Bool("auth", cfg.Bridge.Secret != ""))

	serveErrCh := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErrCh <- err
		}
		close(serveErrCh)
	}()

	atomic.StoreInt32(&ready, 1)
	log.Info("backend_ready", slog.Any("commands", surface.Names()))

	select {
	case <-rootCtx.Done():
		log.Info("shutdown_requested")
	case err := <-serveErrCh:
		if err != nil {
			log.Error("bridge_serve_failed", slog.String("err", err.Error()))
		}
	}

	atomic.StoreInt32(&ready, 0)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("bridge_shutdown_incomplete", slog.String("err", err.Error()))
	} else {
		log.Info("bridge_stopped")
	}

	log.Info("backend_stopped")
}

// logWindow — окном владеет нативная оболочка; бэкенд только фиксирует запрос.
type logWindow struct {
	log *slog.Logger
}

func (w logWindow) Show() error {
	w.log.Info("window_show_requested")
	return nil
}

func (w logWindow) SetFocus() error {
	w.log.Info("window_focus_requested")
	return nil
}

func setupLogger(env string) *slog.Logger {
	switch env {
	case envLocal:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envDev:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envProd:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}
