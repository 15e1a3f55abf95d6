package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vitos/tickerwatch/internal/config"
	"github.com/vitos/tickerwatch/internal/domain"
	"github.com/vitos/tickerwatch/internal/infrastructure/exchange"
	"github.com/vitos/tickerwatch/internal/infrastructure/logger"
	"github.com/vitos/tickerwatch/internal/infrastructure/storage"
	"github.com/vitos/tickerwatch/internal/usecase"
	"github.com/vitos/tickerwatch/internal/web"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const pruneInterval = time.Hour

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to the YAML config file")
	offline := flag.Bool("offline", false, "serve built-in sample quotes instead of calling the exchange")
	flag.Parse()

	// 1. Load Config
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *offline {
		cfg.Exchange.Offline = true
	}

	// 2. Init Logger
	log, err := logger.NewLogger(cfg.Logging.Level, cfg.Logging.Encoding)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatal("tickerwatch exited", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Init Journal
	var journal domain.FetchJournal
	var store *storage.SQLiteStore
	if cfg.Journal.Enabled {
		s, err := storage.NewSQLiteStore(cfg.Journal.Path)
		if err != nil {
			return fmt.Errorf("open journal: %w", err)
		}
		defer s.Close()
		store, journal = s, s
		log.Info("Fetch journal enabled", zap.String("path", cfg.Journal.Path))
	}

	// 4. Init Quote Source
	var source domain.QuoteSource
	if cfg.Exchange.Offline {
		log.Info("Offline mode, serving sample quotes")
		source = exchange.NewStaticSource(exchange.SampleTickers, uint64(time.Now().UnixNano()))
	} else {
		source = exchange.NewBitfinexAdapter(cfg.Exchange.RestURL,
			exchange.WithTimeout(cfg.Exchange.Timeout),
			exchange.WithRetries(cfg.Exchange.MaxRetries, cfg.Exchange.RetryBackoff),
			exchange.WithLogger(log),
		)
	}

	// 5. Init State Machine
	machine := usecase.NewTickerStateMachine(usecase.MachineConfig{
		Symbols:       cfg.Exchange.Symbols,
		PollInterval:  cfg.Polling.Interval,
		FreshnessTick: cfg.Polling.FreshnessTick,
		FetchTimeout:  cfg.Polling.FetchTimeout,
	}, source, journal, log)

	if err := machine.Start(ctx); err != nil {
		return fmt.Errorf("start state machine: %w", err)
	}

	// 6. Init Web Server
	srv := web.NewServer(cfg.Server.Port, machine, journal, log)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(srv.Start)

	if store != nil {
		g.Go(func() error {
			pruneJournal(gctx, store, cfg.Journal.Retention, log)
			return nil
		})
	}

	// 7. Wait for Shutdown
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		// Stopping the machine first closes the websocket streams.
		err := machine.Stop(shutdownCtx)
		if serr := srv.Shutdown(shutdownCtx); serr != nil {
			err = errors.Join(err, serr)
		}
		return err
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("Shutdown complete")
	return nil
}

func pruneJournal(ctx context.Context, store *storage.SQLiteStore, retention time.Duration, log *zap.Logger) {
	ticker := time.NewTicker(pruneInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := store.Prune(ctx, time.Now().Add(-retention))
			if err != nil {
				log.Error("Failed to prune journal", zap.Error(err))
				continue
			}
			if n > 0 {
				log.Debug("Pruned journal", zap.Int64("rows", n))
			}
		}
	}
}
