package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rohits-web03/filekeep/internal/api"
	"github.com/rohits-web03/filekeep/internal/api/handlers"
	"github.com/rohits-web03/filekeep/internal/api/services"
	"github.com/rohits-web03/filekeep/internal/config"
	"github.com/rohits-web03/filekeep/internal/logging"
	"github.com/rohits-web03/filekeep/internal/repositories"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	shutdownTimeout   = 10 * time.Second
	readHeaderTimeout = 10 * time.Second
	transferTimeout   = 10 * time.Minute
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			closer := logging.Setup(cfg.Log)
			defer closer.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return serve(ctx, cfg)
		},
	}
}

func serve(ctx context.Context, cfg config.Config) error {
	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer repositories.Close(db)

	blobs, err := openBlobStore(cfg)
	if err != nil {
		return err
	}

	handler := api.SetupRouter(handlers.Deps{
		Config: cfg,
		DB:     db,
		Blobs:  blobs,
		Google: services.NewGoogleOauthConfig(cfg.Google),
	})

	server := newHTTPServer(fmt.Sprintf(":%s", cfg.Port), handler)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("Starting filekeep server on port: %s (%s blobs)", cfg.Port, cfg.BlobBackend)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("could not listen on port %s: %w", cfg.Port, err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Println("Shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// newHTTPServer bounds slow clients by the header deadline. Bodies get the
// same long deadline as responses so large uploads can stream in.
func newHTTPServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       transferTimeout,
		WriteTimeout:      transferTimeout,
		IdleTimeout:       120 * time.Second,
	}
}

func openDatabase(cfg config.Config) (*gorm.DB, error) {
	level := logger.Warn
	if cfg.Environment == "development" {
		level = logger.Info
	}
	return repositories.OpenDatabase(repositories.DBConfig{
		Driver:   cfg.DBDriver,
		DSN:      cfg.DBURL,
		LogLevel: level,
	})
}

func openBlobStore(cfg config.Config) (repositories.BlobStore, error) {
	switch cfg.BlobBackend {
	case "r2":
		return repositories.NewR2Store(
			cfg.R2.AccessKeyID,
			cfg.R2.SecretAccessKey,
			cfg.R2.AccountID,
			cfg.R2.BucketName,
			cfg.R2.Region,
		), nil
	default:
		store, err := repositories.NewDiskStore(cfg.UploadDir)
		if err != nil {
			return nil, fmt.Errorf("failed to prepare upload dir: %w", err)
		}
		return store, nil
	}
}
