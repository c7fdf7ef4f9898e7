// Package domain contains persistence models for invoicing.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// InvoiceStatus represents invoice lifecycle states. Only "draft" is set at
// creation; transitions happen outside this service.
type InvoiceStatus string

const (
	InvoiceStatusDraft InvoiceStatus = "DRAFT"
	InvoiceStatusSent  InvoiceStatus = "SENT"
	InvoiceStatusPaid  InvoiceStatus = "PAID"
	InvoiceStatusVoid  InvoiceStatus = "VOID"
)

// Invoice represents an issued invoice. Number is unique per tenant and is
// never reused, even if the invoice is later deleted.
type Invoice struct {
	ID         snowflake.ID    `gorm:"primaryKey" json:"id"`
	TenantID   snowflake.ID    `gorm:"not null;index;uniqueIndex:ux_invoices_tenant_number,priority:1" json:"tenant_id"`
	ClientID   snowflake.ID    `gorm:"not null;index" json:"client_id"`
	Number     string          `gorm:"type:text;not null;uniqueIndex:ux_invoices_tenant_number,priority:2" json:"number"`
	Sequence   int64           `gorm:"not null" json:"sequence"`
	Status     InvoiceStatus   `gorm:"type:text;not null;default:'DRAFT'" json:"status"`
	Currency   string          `gorm:"type:char(3);not null" json:"currency"`
	IssueDate  time.Time       `gorm:"not null" json:"issue_date"`
	DueDate    time.Time       `gorm:"not null" json:"due_date"`
	Subtotal   decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"subtotal"`
	TaxTotal   decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"tax_total"`
	Total      decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"total"`
	BalanceDue decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"balance_due"`
	QuoteRef   *string         `gorm:"type:text;column:quote_ref" json:"quote_ref,omitempty"`
	CreatedAt  time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt  time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Invoice) TableName() string { return "invoices" }

// InvoiceLineItem represents a line on an invoice. Position is 1-based and
// matches the caller-supplied order.
type InvoiceLineItem struct {
	ID          snowflake.ID    `gorm:"primaryKey" json:"id"`
	TenantID    snowflake.ID    `gorm:"not null;index" json:"tenant_id"`
	InvoiceID   snowflake.ID    `gorm:"not null;index" json:"invoice_id"`
	Description string          `gorm:"type:text" json:"description"`
	Quantity    decimal.Decimal `gorm:"type:numeric(18,4);not null" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(18,4);not null" json:"unit_price"`
	LineTotal   decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"line_total"`
	Position    int             `gorm:"not null" json:"position"`
	CreatedAt   time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (InvoiceLineItem) TableName() string { return "invoice_line_items" }
