package migration

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	clientdomain "github.com/smallbiznis/facturo/internal/client/domain"
	"github.com/smallbiznis/facturo/internal/config"
	invoicedomain "github.com/smallbiznis/facturo/internal/invoice/domain"
	"github.com/smallbiznis/facturo/internal/seed"
	sequencedomain "github.com/smallbiznis/facturo/internal/sequence/domain"
	tenantdomain "github.com/smallbiznis/facturo/internal/tenant/domain"
)

var Module = fx.Module("migrations",
	fx.Invoke(Prepare),
)

// Prepare brings the schema up to date and seeds defaults. Postgres goes
// through the versioned SQL migrations; sqlite (local dev) gets the schema
// from AutoMigrate since golang-migrate's postgres driver cannot serve it.
func Prepare(conn *gorm.DB, cfg config.Config) error {
	switch cfg.DBType {
	case "postgres":
		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		if err := RunMigrations(sqlDB); err != nil {
			return err
		}
	default:
		if err := conn.AutoMigrate(
			&tenantdomain.Tenant{},
			&clientdomain.Client{},
			&sequencedomain.InvoiceCounter{},
			&invoicedomain.Invoice{},
			&invoicedomain.InvoiceLineItem{},
		); err != nil {
			return err
		}
	}

	if cfg.SeedDefaultTenant {
		return seed.EnsureDefaultTenant(conn, cfg.DefaultTenantSlug)
	}
	return nil
}
