// Package persistence selects the user store configured by store.driver.
package persistence

import (
	"log/slog"

	"authgate/config"
	"authgate/internal/domain/constants"
	"authgate/internal/domain/repository"
	"authgate/internal/errors"
	"authgate/internal/infra/persistence/firestore"
	"authgate/internal/infra/persistence/memory"
	"authgate/internal/infra/persistence/postgres"

	"go.uber.org/fx"
)

// Params defines the required parameters
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// NewUserRepository builds the user repository for the configured driver.
// The chosen store's client is tied to the application lifecycle.
func NewUserRepository(params Params) (repository.UserRepository, error) {
	driver := constants.StoreDriverFirestore
	if params.Config.Store != nil && params.Config.Store.Driver != "" {
		driver = params.Config.Store.Driver
	}

	switch driver {
	case constants.StoreDriverFirestore:
		client, err := firestore.New(firestore.Params{
			Lifecycle: params.Lifecycle,
			Config:    params.Config,
			Logger:    params.Logger,
		})
		if err != nil {
			return nil, err
		}
		params.Logger.Info("Using Firestore user store")

		return firestore.NewUserRepository(client, params.Config.Firebase), nil

	case constants.StoreDriverPostgres:
		db, err := postgres.New(postgres.Params{
			Lifecycle: params.Lifecycle,
			Config:    params.Config,
			Logger:    params.Logger,
		})
		if err != nil {
			return nil, err
		}
		params.Logger.Info("Using PostgreSQL user store")

		return postgres.NewUserRepository(db), nil

	case constants.StoreDriverMemory:
		params.Logger.Warn("Using in-memory user store, data is lost on restart")

		return memory.NewUserRepository(), nil

	default:
		return nil, errors.Errorf("unknown store driver: %s", driver)
	}
}
