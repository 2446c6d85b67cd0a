// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/danielhkuo/voteledger/cliparse"
	"github.com/danielhkuo/voteledger/db"
	"github.com/danielhkuo/voteledger/event"
	"github.com/danielhkuo/voteledger/ledger"
	"github.com/danielhkuo/voteledger/middleware"
	"github.com/danielhkuo/voteledger/router"
)

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:                "serve",
		Short:              "Run the API server (default)",
		DisableFlagParsing: true,
		SilenceUsage:       true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serveRun(cmd.Context(), args)
		},
	}
}

func serveRun(ctx context.Context, args []string) error {
	// Parse configuration
	cfg, err := cliparse.ParseFlags(args)
	if errors.Is(err, pflag.ErrHelp) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("error parsing flags: %w", err)
	}

	logger := commonRun(cfg.Debug)

	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// Open the journal
	journal, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL, logger)
	if err != nil {
		return fmt.Errorf("journal open failed: %w", err)
	}
	if journal != nil {
		defer func() {
			if err := journal.Close(); err != nil {
				logger.Error("failed to close journal", "error", err)
			}
		}()
	}
	logger.Info("Journal ready", "type", cfg.DatabaseType)

	bus := event.NewEventBus(promRegistry, logger)
	defer bus.Stop()

	// Vote-cast notifications end up in the service log
	bus.SubscribeFunc(func(evt event.Event) {
		if vc, ok := evt.Data.(event.VoteCastEvent); ok {
			logger.Info("vote cast",
				"seq", vc.Seq,
				"voter", vc.Voter,
				"candidate_id", vc.CandidateID,
				"cid", vc.CID,
			)
		}
	}, event.VoteCastEventType)

	opts := []ledger.Option{
		ledger.WithEventBus(bus),
		ledger.WithLogger(logger),
		ledger.WithPromRegistry(promRegistry),
	}
	if journal != nil {
		opts = append(opts, ledger.WithJournal(journal))
	}
	l, err := ledger.New(cfg.AdminAddress, opts...)
	if err != nil {
		return fmt.Errorf("ledger start failed: %w", err)
	}
	logger.Info("Ledger ready", "admin", l.Admin())

	// Create router
	mux := router.NewRouter(l, bus, cfg, promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{}))

	// Create server
	server := &http.Server{
		Handler:           middleware.CORS(mux),
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Listening", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down", "timeout", cfg.ShutdownTimeout)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		// Closing subscribers ends open event streams so Shutdown can finish
		bus.Stop()
		return server.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	if err != nil {
		slog.Error("Server closed", "error", err)
		return err
	}
	slog.Info("Server closed")
	return nil
}
