// Package domain contains persistence models for invoice numbering.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// InvoiceCounter is the per-tenant monotonic source of invoice sequence
// numbers. It is advanced exclusively through a single atomic
// increment-and-return statement, never read-modify-write.
type InvoiceCounter struct {
	TenantID  snowflake.ID `gorm:"primaryKey;column:tenant_id" json:"tenant_id"`
	Value     int64        `gorm:"not null;default:0" json:"value"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (InvoiceCounter) TableName() string { return "invoice_counters" }
