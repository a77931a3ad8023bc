package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"EntryFeed/internal/domain/repository"
	"EntryFeed/internal/usecase"
	"EntryFeed/pkg/config"
	xhttp "EntryFeed/pkg/http"
	applogger "EntryFeed/pkg/logger"
)

// App encapsulates the worker lifecycle: the cycle loop, the optional live
// price stream, the dashboard server, and graceful shutdown.
type App struct {
	cfg        *config.Config
	runner     *usecase.CycleRunner
	handler    xhttp.Handler
	stream     repository.PriceStream
	cache      repository.PriceCache
	publisher  repository.SignalPublisher
	log        *applogger.Logger
	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	runner *usecase.CycleRunner,
	handler xhttp.Handler,
	stream repository.PriceStream,
	cache repository.PriceCache,
	publisher repository.SignalPublisher,
	log *applogger.Logger,
) *App {
	return &App{
		cfg:       cfg,
		runner:    runner,
		handler:   handler,
		stream:    stream,
		cache:     cache,
		publisher: publisher,
		log:       log,
	}
}

// Run starts the application and blocks until interrupted or, in run-once
// mode, until the single cycle finishes.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if a.cfg.Server.Enabled {
		a.httpServer = xhttp.NewServer(a.handler,
			xhttp.WithPort(a.cfg.Server.Port),
			xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		)
		if err := a.httpServer.Start(); err != nil {
			return err
		}
	}

	if a.stream != nil {
		go a.pumpStream(ctx)
	}

	if a.cfg.Worker.RunOnce {
		err := a.runner.RunCycle(ctx)
		a.shutdown(ctx)
		return err
	}

	go a.loop(ctx)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	cancel()
	a.shutdown(context.Background())
	return nil
}

// loop runs one cycle immediately and then on every interval tick. A failed
// cycle is logged and the loop keeps going; the previous artifacts stay on
// disk untouched.
func (a *App) loop(ctx context.Context) {
	ticker := time.NewTicker(a.cfg.Worker.Interval)
	defer ticker.Stop()

	a.runOne(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.runOne(ctx)
		}
	}
}

func (a *App) runOne(ctx context.Context) {
	if err := a.runner.RunCycle(ctx); err != nil {
		a.log.Error("cycle failed", applogger.Error(err))
	}
}

// pumpStream keeps the price cache warm from the live stream, reconnecting
// with a delay whenever the connection drops.
func (a *App) pumpStream(ctx context.Context) {
	delay := a.cfg.Stream.ReconnectDelay
	if delay <= 0 {
		delay = 5 * time.Second
	}

	for ctx.Err() == nil {
		if err := a.connectStream(ctx); err != nil {
			a.log.Warn("stream connect failed", applogger.Error(err))
			if !sleepCtx(ctx, delay) {
				return
			}
			continue
		}

		a.drainStream(ctx)
		a.stream.Close()
		if !sleepCtx(ctx, delay) {
			return
		}
	}
}

func (a *App) connectStream(ctx context.Context) error {
	if err := a.stream.Connect(ctx); err != nil {
		return err
	}
	return a.stream.Subscribe(ctx)
}

// drainStream batches ticks and flushes them into the cache every couple of
// seconds so a Redis backend sees one write per flush, not per tick.
func (a *App) drainStream(ctx context.Context) {
	ticks, errs := a.stream.Read(ctx)
	pending := make(map[string]float64)
	flush := time.NewTicker(2 * time.Second)
	defer flush.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case err, ok := <-errs:
			if ok && err != nil {
				a.log.Warn("stream read error", applogger.Error(err))
			}
			return
		case tick, ok := <-ticks:
			if !ok {
				return
			}
			pending[tick.Symbol] = tick.Price
		case <-flush.C:
			if len(pending) == 0 {
				continue
			}
			if err := a.cache.Fill(ctx, pending); err != nil {
				a.log.Warn("cache fill failed", applogger.Error(err))
			}
			pending = make(map[string]float64)
		}
	}
}

func (a *App) shutdown(ctx context.Context) {
	if a.httpServer != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := a.httpServer.Stop(shutdownCtx); err != nil {
			a.log.Warn("http shutdown error", applogger.Error(err))
		}
	}
	if a.stream != nil {
		a.stream.Close()
	}
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.log.Warn("publisher close error", applogger.Error(err))
		}
	}
	a.log.Info("shutdown complete")
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
