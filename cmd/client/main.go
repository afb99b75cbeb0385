package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/iudanet/geotaste/internal/client/api"
	"github.com/iudanet/geotaste/internal/client/auth"
	"github.com/iudanet/geotaste/internal/client/catalog"
	"github.com/iudanet/geotaste/internal/client/cli"
	"github.com/iudanet/geotaste/internal/client/config"
	"github.com/iudanet/geotaste/internal/client/iocli"
	"github.com/iudanet/geotaste/internal/client/personal"
	"github.com/iudanet/geotaste/internal/client/storage"
	"github.com/iudanet/geotaste/internal/client/storage/boltdb"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	stdio := iocli.NewStdio()

	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		cli.PrintUsage(stdio)
		return 2
	}

	// Show version and exit if requested
	if cfg.ShowVersion {
		printVersion()
		return 0
	}

	if len(cfg.Args) == 0 {
		cli.PrintUsage(stdio)
		return 1
	}

	logger := config.NewLogger(cfg.LogLevel, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Открываем BoltDB storage
	boltStorage, err := boltdb.New(ctx, cfg.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		return 1
	}
	defer func() {
		if err := boltStorage.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	var local storage.LocalStorage = boltStorage
	if cfg.Passphrase != "" {
		sealed, err := storage.NewSealed(ctx, boltStorage, cfg.Passphrase)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to unlock local storage: %v\n", err)
			return 1
		}
		local = sealed
	}

	apiClient := api.NewClient(cfg.ServerURL, api.WithTimeout(cfg.Timeout), api.WithLogger(logger))

	store := auth.NewStore(apiClient, local, logger)
	if err := store.Restore(ctx); err != nil {
		// Команды, не требующие сессии, продолжают работать
		logger.Warn("failed to restore session", "error", err)
	}

	cache, err := personal.New(ctx, local, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load personal data: %v\n", err)
		return 1
	}

	c := cli.New(stdio, store, cache, catalog.NewService(apiClient, cache, logger))
	if err := c.Run(ctx, cfg.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", auth.Message(err))
		if errors.Is(err, cli.ErrUsage) {
			return 2
		}
		return 1
	}
	return 0
}

func printVersion() {
	fmt.Printf("GeoTaste Client\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
