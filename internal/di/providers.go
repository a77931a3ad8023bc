package di

import (
	"fmt"
	"strings"

	"EntryFeed/internal/domain/repository"
	"EntryFeed/internal/handler/api"
	internalrepo "EntryFeed/internal/repository"
	"EntryFeed/internal/service"
	"EntryFeed/internal/usecase"
	"EntryFeed/pkg/cache"
	"EntryFeed/pkg/config"
	xhttp "EntryFeed/pkg/http"
	pkgkafka "EntryFeed/pkg/kafka"
	"EntryFeed/pkg/logger"
	"EntryFeed/pkg/metrics"
	"EntryFeed/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	return logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
}

// ProvideMetrics creates the Prometheus recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideStudySource creates the percentile study reader.
func ProvideStudySource(cfg *config.Config, log *logger.Logger) repository.StudySource {
	return internalrepo.NewStudyCSVSource(cfg.Files.StudyCSV, log)
}

// ProvideUniverseSource creates the symbol universe reader.
func ProvideUniverseSource(cfg *config.Config, log *logger.Logger) repository.UniverseSource {
	var inline []string
	if s := strings.TrimSpace(cfg.Universe.Inline); s != "" {
		inline = strings.Split(s, ",")
	}
	return internalrepo.NewUniverseFileSource(inline, cfg.Files.Universe, log)
}

// ProvidePriceSource selects the configured price backend.
func ProvidePriceSource(cfg *config.Config, universe repository.UniverseSource) (repository.PriceSource, error) {
	client := xhttp.NewClient(xhttp.WithTimeout(cfg.Prices.Timeout))
	switch cfg.Prices.Source {
	case "binance":
		return service.NewBinancePriceSource(client, cfg.Prices.BinanceURL+"/api/v3/ticker/price"), nil
	case "cryptocompare":
		return service.NewCryptoComparePriceSource(client, cfg.Prices.CryptoCompareURL+"/data/pricemulti", universe), nil
	case "file":
		return internalrepo.NewPriceFileSource(cfg.Files.PriceCache), nil
	default:
		return nil, fmt.Errorf("unknown price source %q", cfg.Prices.Source)
	}
}

// ProvidePriceCache selects the Redis cache when configured, otherwise the
// in-process one.
func ProvidePriceCache(cfg *config.Config) (repository.PriceCache, error) {
	if !cfg.Redis.Enabled {
		return cache.NewMemoryPriceCache(), nil
	}
	return cache.NewRedisPriceCache(
		cache.WithRedisAddr(cfg.Redis.Addr),
		cache.WithRedisPassword(cfg.Redis.Password),
		cache.WithRedisDB(cfg.Redis.DB),
		cache.WithRedisPrefix(cfg.Redis.Prefix),
	)
}

// ProvideFeedStore creates the atomic JSON store.
func ProvideFeedStore(cfg *config.Config) repository.FeedStore {
	return internalrepo.NewFeedStore(cfg.Files.Feed, cfg.Files.Top)
}

// ProvidePublisher creates the Kafka publisher, or nil when disabled.
func ProvidePublisher(cfg *config.Config) (repository.SignalPublisher, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return internalrepo.NewKafkaPublisher(producer, cfg.Kafka.Topic), nil
}

// ProvideStream creates the live price stream, or nil when disabled.
func ProvideStream(cfg *config.Config, log *logger.Logger) repository.PriceStream {
	if !cfg.Stream.Enabled {
		return nil
	}
	return service.NewBinanceStream(cfg.Stream.URL+"/ws", cfg.Stream.PingInterval, log)
}

// ProvideDeriver creates the signal deriver for the configured policy.
func ProvideDeriver(cfg *config.Config) *usecase.SignalDeriver {
	return usecase.NewSignalDeriver(usecase.Policy(cfg.Entry.Policy), cfg.Entry.AssertMin, cfg.Entry.GainMin)
}

// ProvideReconciler creates the universe reconciler.
func ProvideReconciler(cfg *config.Config) *usecase.UniverseReconciler {
	return usecase.NewUniverseReconciler(cfg.Universe.MaxSize, cfg.Prices.QuoteSuffix)
}

// ProvideCycleRunner assembles the per-cycle pipeline.
func ProvideCycleRunner(
	cfg *config.Config,
	studies repository.StudySource,
	universe repository.UniverseSource,
	prices repository.PriceSource,
	priceCache repository.PriceCache,
	store repository.FeedStore,
	publisher repository.SignalPublisher,
	rec repository.Metrics,
	deriver *usecase.SignalDeriver,
	reconciler *usecase.UniverseReconciler,
	log *logger.Logger,
) (*usecase.CycleRunner, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	return usecase.NewCycleRunner(usecase.CycleRunnerParams{
		Studies:     studies,
		Universe:    universe,
		Prices:      prices,
		Cache:       priceCache,
		Store:       store,
		Publisher:   publisher,
		Metrics:     rec,
		Deriver:     deriver,
		Reconciler:  reconciler,
		QuoteSuffix: cfg.Prices.QuoteSuffix,
		AssertMin:   cfg.Entry.AssertMin,
		GainMin:     cfg.Entry.GainMin,
		Location:    loc,
		Logger:      log,
	}), nil
}

// ProvideHandler creates the dashboard handler.
func ProvideHandler(cfg *config.Config, store repository.FeedStore, universe repository.UniverseSource, log *logger.Logger) (xhttp.Handler, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	return api.NewFeedHandler(store, universe, loc, log), nil
}

// ProvideApp assembles the application.
func ProvideApp(
	cfg *config.Config,
	runner *usecase.CycleRunner,
	handler xhttp.Handler,
	stream repository.PriceStream,
	priceCache repository.PriceCache,
	publisher repository.SignalPublisher,
	log *logger.Logger,
) *server.App {
	return server.New(cfg, runner, handler, stream, priceCache, publisher, log)
}
