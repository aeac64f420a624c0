package cli

import (
	"dispatch-console/internal/console/repository"
	"dispatch-console/internal/console/service"
	"dispatch-console/pkg/config"
	"dispatch-console/pkg/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

const serviceName = "admin-console"

func newLogger(cfg *config.Config) logger.Logger {
	return logger.New(serviceName, logger.Options{Level: logger.ParseLevel(cfg.Log.Level)})
}

func newStores(pool *pgxpool.Pool) service.Stores {
	return service.Stores{
		Drivers:  repository.NewDriverStore(pool),
		Users:    repository.NewUserStore(pool),
		Fares:    repository.NewFareStore(pool),
		Promos:   repository.NewPromoStore(pool),
		Bookings: repository.NewBookingStore(pool),
	}
}
