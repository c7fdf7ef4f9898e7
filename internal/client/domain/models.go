// Package domain contains persistence models for the client service.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Client belongs to exactly one tenant. ExternalID is a caller-supplied
// identifier unique only within the tenant.
type Client struct {
	ID         snowflake.ID      `gorm:"primaryKey" json:"id"`
	TenantID   snowflake.ID      `gorm:"not null;index;uniqueIndex:ux_clients_tenant_external,priority:1;uniqueIndex:ux_clients_tenant_email,priority:1" json:"tenant_id"`
	ExternalID *string           `gorm:"type:text;uniqueIndex:ux_clients_tenant_external,priority:2" json:"external_id,omitempty"`
	Name       string            `gorm:"type:text;not null" json:"name"`
	Email      string            `gorm:"type:text;not null;uniqueIndex:ux_clients_tenant_email,priority:2" json:"email"`
	Phone      string            `gorm:"type:text" json:"phone,omitempty"`
	Address    string            `gorm:"type:text" json:"address,omitempty"`
	Metadata   datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"metadata"`
	CreatedAt  time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt  time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Client) TableName() string { return "clients" }
