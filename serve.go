package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/twomark/panel/database"
	"github.com/twomark/panel/middleware"
	"github.com/twomark/panel/pkg/access"
	"github.com/twomark/panel/pkg/relay"
	"github.com/twomark/panel/ws"
)

const (
	shutdownTimeout      = 5 * time.Second
	sessionPurgeInterval = time.Hour
)

// runServe, bağımlılıkları kurar ve sunucuyu sinyal gelene kadar çalıştırır.
//
// Sıra: config → database → upload dizini → repository → hub → service →
// handler → route → CORS/log → errgroup (HTTP, hub, relay, oturum temizliği).
func runServe(ctx context.Context) error {
	log := zap.L().Named("main")

	db, err := database.New(cfg.Database.Path, database.Migrations())
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	if err := os.MkdirAll(cfg.Upload.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}

	catalog, err := access.DefaultCatalog()
	if err != nil {
		return fmt.Errorf("failed to load menu catalog: %w", err)
	}
	policy := access.NewPolicy(catalog)

	repos := initRepositories(db.Conn)

	hub := ws.NewHub()
	registerHubCallbacks(hub)

	var publisher *relay.Publisher
	if cfg.Relay.URL != "" {
		publisher, err = relay.Dial(cfg.Relay.URL, cfg.Relay.Exchange)
		if err != nil {
			return err
		}
		defer publisher.Close()
		hub.SetMirror(publisher)
		log.Info("event relay enabled", zap.String("exchange", cfg.Relay.Exchange))
	}

	svcs, limiters := initServices(db.Conn, repos, policy, hub, cfg)
	defer limiters.Close()
	defer svcs.Principal.Close()

	h := initHandlers(svcs, limiters, policy, hub, cfg)

	mux := http.NewServeMux()
	initRoutes(mux, h, svcs.Principal, policy)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "Accept-Language"},
		ExposedHeaders:   []string{"Retry-After"},
		AllowCredentials: true,
	})
	handler := middleware.RequestLogger(zap.L().Named("http"))(corsHandler.Handler(mux))

	// WriteTimeout yok: WebSocket bağlantıları uzun ömürlüdür.
	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return hub.Run(gctx)
	})

	if publisher != nil {
		g.Go(func() error {
			return publisher.Run(gctx)
		})
	}

	g.Go(func() error {
		ticker := time.NewTicker(sessionPurgeInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				n, err := svcs.Auth.PurgeExpiredSessions(gctx)
				if err != nil {
					log.Warn("session purge failed", zap.Error(err))
					continue
				}
				if n > 0 {
					log.Info("expired sessions purged", zap.Int64("count", n))
				}
			}
		}
	})

	g.Go(func() error {
		log.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Önce WebSocket bağlantıları kapatılır; sonra HTTP server yeni istek
	// almayı bırakır ve açık isteklerin bitmesini bekler.
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		hub.Shutdown()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("forced shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("server stopped gracefully")
	return nil
}
