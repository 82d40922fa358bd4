package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/indieinfra/scribble-media/catalog"
	catalogfactory "github.com/indieinfra/scribble-media/catalog/factory"
	"github.com/indieinfra/scribble-media/config"
	"github.com/indieinfra/scribble-media/manager"
	"github.com/indieinfra/scribble-media/metadata"
	"github.com/indieinfra/scribble-media/metrics"
	"github.com/indieinfra/scribble-media/provider"
	"github.com/indieinfra/scribble-media/server/handler/get"
	"github.com/indieinfra/scribble-media/server/handler/remove"
	"github.com/indieinfra/scribble-media/server/handler/upload"
	"github.com/indieinfra/scribble-media/server/middleware"
	"github.com/indieinfra/scribble-media/server/state"
)

const shutdownTimeout = 10 * time.Second

// StartServer wires the media pipeline from cfg and serves it until SIGINT or
// SIGTERM is received.
func StartServer(cfg *config.Config) error {
	st, err := Initialize(cfg)
	if err != nil {
		return err
	}
	defer Cleanup(st)

	bindAddress := fmt.Sprintf("%v:%v", cfg.Server.Address, cfg.Server.Port)
	srv := &http.Server{
		Addr:              bindAddress,
		Handler:           middleware.RequestLoggingMiddleware(cfg, NewRouter(st)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Printf("serving http requests on %q", bindAddress)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	log.Println("shutting down http server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

// NewRouter routes the media endpoints and /metrics.
func NewRouter(st *state.MediaState) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("POST /media/{provider}", upload.HandleMediaUpload(st))
	mux.Handle("GET /media/{id}", get.HandleGetMedia(st))
	mux.Handle("DELETE /media/{id}", remove.HandleDeleteMedia(st))
	mux.Handle("GET /providers", get.HandleProviders(st))
	mux.Handle("GET /providers/{provider}/media", get.HandleListMedia(st))
	mux.Handle("GET /metrics", st.Metrics.Handler())
	return mux
}

// Initialize builds the provider pool, metadata builders, catalog and manager
// described by cfg.
func Initialize(cfg *config.Config) (*state.MediaState, error) {
	providers, err := provider.NewPoolFromConfig(&cfg.Media)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize providers: %w", err)
	}

	cat, err := initializeCatalog(&cfg.Catalog)
	if err != nil {
		return nil, err
	}

	reg := metrics.NewRegistry()

	builder := metadata.NewProxyBuilder(
		providers,
		metadata.NoopBuilder{},
		metadata.NewS3Builder(metadata.S3SettingsFromConfig(cfg.Media.Metadata.S3)),
		metadata.WithSelectionObserver(reg.ObserveSelection),
	)

	mgr := manager.New(providers, builder, cat,
		manager.WithPathPattern(cfg.Media.PathPattern),
		manager.WithMetrics(reg),
	)

	log.Printf("registered media providers: %v", providers.Names())

	return &state.MediaState{
		Cfg:     cfg,
		Manager: mgr,
		Metrics: reg,
		Catalog: cat,
	}, nil
}

func initializeCatalog(cfg *config.Catalog) (catalog.Catalog, error) {
	cat, err := catalogfactory.Create(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize %q catalog: %w", cfg.Strategy, err)
	}

	return cat, nil
}

// Cleanup releases resources held by st.
func Cleanup(st *state.MediaState) {
	if closer, ok := st.Catalog.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			log.Printf("failed to close catalog: %v", err)
		}
	}
}
