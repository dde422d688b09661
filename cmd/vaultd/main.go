// vaultd runs the CloudVault daemon: it loads configuration, opens the
// metadata database, connects to the object-storage backend, and serves
// the presentation web layer.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/koustreak/CloudVault/internal/blobstore/minio"
	"github.com/koustreak/CloudVault/internal/config"
	"github.com/koustreak/CloudVault/internal/logger"
	"github.com/koustreak/CloudVault/internal/metastore"
	"github.com/koustreak/CloudVault/internal/server"
	"github.com/koustreak/CloudVault/internal/transfer"
	"github.com/koustreak/CloudVault/internal/vault"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.New(nil).Errorf("failed to load configuration: %v", err)
		os.Exit(1)
	}

	log := logger.New(&logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	meta := metastore.Open(cfg.Vault.DBPath, log)

	// A missing backend config disables transfers instead of failing
	// startup; the catalog stays browsable.
	var engine *transfer.Engine
	if bc := cfg.BlobstoreConfig(); bc.Configured() {
		store, err := minio.New(ctx, bc)
		if err != nil {
			log.With().Err(err).Logger().Error("object storage unreachable")
			os.Exit(1)
		}
		defer store.Close()
		engine = transfer.NewEngine(store, cfg.EngineConfig(), log)
		defer engine.Close()
		log.With().Str("endpoint", bc.Endpoint).Str("bucket", bc.Bucket).Logger().Info("object storage connected")
	} else {
		log.Warn("object storage credentials not configured, transfers disabled")
	}

	v := vault.New(vault.Config{
		TempDir:     cfg.Vault.TempDir,
		MaxFileSize: cfg.Vault.MaxFileSize,
		PresignTTL:  cfg.VaultPresignTTL(),
	}, meta, engine, log)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           server.New(v, cfg.ServerPresignTTL(), log).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.With().Str("addr", cfg.Server.Addr).Logger().Info("web server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("web server failed: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("shutdown incomplete: %v", err)
	}
}
