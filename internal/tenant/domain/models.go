// Package domain contains persistence models for the tenant service.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Tenant represents an isolated customer account. The slug is the only
// externally-facing identifier.
type Tenant struct {
	ID            snowflake.ID      `gorm:"primaryKey" json:"id"`
	Name          string            `gorm:"type:text;not null" json:"name"`
	Slug          string            `gorm:"type:text;not null;uniqueIndex:ux_tenants_slug" json:"slug"`
	Currency      string            `gorm:"type:char(3);not null;default:'USD'" json:"currency"`
	InvoicePrefix string            `gorm:"type:text;column:invoice_prefix" json:"invoice_prefix"`
	SupportEmail  string            `gorm:"type:text;column:support_email" json:"support_email"`
	Metadata      datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"metadata"`
	CreatedAt     time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Tenant) TableName() string { return "tenants" }
