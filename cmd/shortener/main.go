package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/KretovDmitry/squarehouse/internal/api/rest"
	"github.com/KretovDmitry/squarehouse/internal/api/rpc"
	"github.com/KretovDmitry/squarehouse/internal/config"
	"github.com/KretovDmitry/squarehouse/internal/logger"
	"github.com/KretovDmitry/squarehouse/internal/repository"
	"github.com/KretovDmitry/squarehouse/internal/repository/dataset"
	"github.com/KretovDmitry/squarehouse/internal/repository/memstore"
	"github.com/KretovDmitry/squarehouse/internal/router"
	"golang.org/x/crypto/acme/autocert"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg := config.MustLoad()

	logger, err := logger.New(cfg)
	if err != nil {
		return fmt.Errorf("new logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	// Server run context, cancelled by a termination signal.
	ctx, stop := signal.NotifyContext(context.Background(),
		syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	events, err := repository.NewEventStore(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("new event store: %w", err)
	}
	defer func() {
		if err := events.Close(); err != nil {
			logger.Errorf("close event store: %v", err)
		}
	}()

	// Mappings and the dataset live for the whole process.
	mappings := memstore.NewMappingRepository()
	ds := dataset.New()

	handler, err := rest.NewHandler(mappings, events, ds, logger)
	if err != nil {
		return fmt.Errorf("new handler: %w", err)
	}

	hs := &http.Server{
		Addr:              cfg.Server.RunAddress.String(),
		Handler:           router.New(handler, logger),
		ReadHeaderTimeout: cfg.Server.Timeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 2)

	if cfg.RPC.Enabled {
		hc, err := rpc.NewHealthServer(events, cfg.RPC.ProbeInterval, logger)
		if err != nil {
			return fmt.Errorf("new health server: %w", err)
		}
		lis, err := net.Listen("tcp", cfg.RPC.Address.String())
		if err != nil {
			return fmt.Errorf("listen rpc: %w", err)
		}
		go hc.Watch(ctx)
		go func() {
			if err := hc.Serve(lis); err != nil {
				errCh <- fmt.Errorf("run rpc server failed: %w", err)
			}
		}()
		defer hc.Stop()
	}

	go func() {
		logger.Infof("Server has started: %s", cfg.Server.RunAddress)
		errCh <- serve(hs, bool(cfg.TLSEnabled), logger)
	}()

	select {
	case err = <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Infof("Shutting down server with %s timeout", cfg.Server.ShutdownTimeout)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err = hs.Shutdown(shutdownCtx); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return errors.New("graceful shutdown timed out.. forcing exit")
		}
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	return nil
}

// serve blocks until the server is closed.
func serve(hs *http.Server, tls bool, logger logger.Logger) error {
	var err error
	switch tls {
	case true:
		cm := &autocert.Manager{
			Cache:  autocert.DirCache("cache/certs"),
			Prompt: autocert.AcceptTOS,
		}
		hs.TLSConfig = cm.TLSConfig()
		logger.Info("The server is running over the SSL protocol")
		err = hs.ListenAndServeTLS("", "")
	default:
		err = hs.ListenAndServe()
	}
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("run server failed: %w", err)
	}
	return nil
}

func printBuildInfo() {
	if buildVersion == "" {
		fmt.Println("Build version: N/A")
	} else {
		fmt.Printf("Build version: %s\n", buildVersion)
	}
	if buildDate == "" {
		fmt.Println("Build date: N/A")
	} else {
		fmt.Printf("Build date: %s\n", buildDate)
	}
	if buildCommit == "" {
		fmt.Println("Build commit: N/A")
	} else {
		fmt.Printf("Build commit: %s\n", buildCommit)
	}
}
