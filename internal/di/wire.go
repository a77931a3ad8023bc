//go:build wireinject
// +build wireinject

package di

import (
	"EntryFeed/pkg/config"
	"EntryFeed/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire generates the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Data sources and sinks
		ProvideStudySource,
		ProvideUniverseSource,
		ProvidePriceSource,
		ProvidePriceCache,
		ProvideFeedStore,
		ProvidePublisher,
		ProvideStream,

		// Use cases
		ProvideDeriver,
		ProvideReconciler,
		ProvideCycleRunner,

		// Surface
		ProvideHandler,
		ProvideApp,
	)
	return &server.App{}, nil
}
