// Package seed bootstraps default records for local and self-hosted setups.
package seed

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	gosimpleslug "github.com/gosimple/slug"
	sequencedomain "github.com/smallbiznis/facturo/internal/sequence/domain"
	tenantdomain "github.com/smallbiznis/facturo/internal/tenant/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const defaultTenantName = "Acme Co"

// EnsureDefaultTenant seeds a tenant with the given slug and its counter row
// when neither exists yet.
func EnsureDefaultTenant(db *gorm.DB, rawSlug string) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	tenantSlug := gosimpleslug.Make(strings.TrimSpace(rawSlug))
	if tenantSlug == "" {
		return errors.New("seed tenant slug is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing tenantdomain.Tenant
		err := tx.Where(&tenantdomain.Tenant{Slug: tenantSlug}).First(&existing).Error
		if err == nil {
			return nil
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}

		now := time.Now().UTC()
		tenant := tenantdomain.Tenant{
			ID:        node.Generate(),
			Name:      defaultTenantName,
			Slug:      tenantSlug,
			Currency:  "USD",
			Metadata:  datatypes.JSONMap{},
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := tx.Create(&tenant).Error; err != nil {
			return err
		}

		counter := sequencedomain.InvoiceCounter{
			TenantID:  tenant.ID,
			Value:     0,
			UpdatedAt: now,
		}
		return tx.Create(&counter).Error
	})
}
