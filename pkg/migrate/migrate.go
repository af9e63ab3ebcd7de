package migrate

import (
	"context"
	"fmt"

	"github.com/angelmondragon/retailpos-backend/pkg/db"
	"github.com/angelmondragon/retailpos-backend/pkg/db/models"
	"github.com/angelmondragon/retailpos-backend/pkg/logger"
)

// Run applies gorm auto-migrations for every model in dependency order.
// Intended for dev and the cmd/migrate entrypoint; production schemas are
// managed out of band.
func Run(ctx context.Context, client *db.Client, logg *logger.Logger) error {
	if client == nil {
		return fmt.Errorf("db client is required")
	}

	targets := []any{
		&models.User{},
		&models.Store{},
		&models.Employee{},
		&models.Supplier{},
		&models.Product{},
		&models.Customer{},
		&models.Sale{},
		&models.SaleItem{},
	}

	if err := client.DB().WithContext(ctx).AutoMigrate(targets...); err != nil {
		return fmt.Errorf("running auto-migration: %w", err)
	}

	if logg != nil {
		ctx = logg.WithField(ctx, "models", len(targets))
		logg.Info(ctx, "database migration complete")
	}
	return nil
}
