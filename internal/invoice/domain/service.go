package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/facturo/pkg/db/pagination"
)

// IssueLine is a caller-supplied invoice line. Quantity, unit price and line
// total accept any JSON scalar; non-numeric values coerce to zero rather
// than failing the request.
type IssueLine struct {
	Description string `json:"description"`
	Quantity    any    `json:"quantity"`
	UnitPrice   any    `json:"unit_price"`
	LineTotal   any    `json:"line_total"`
}

type IssueRequest struct {
	TenantSlug       string      `json:"tenant"`
	ClientID         string      `json:"client_uuid"`
	ClientExternalID string      `json:"client_external_id"`
	IssueDate        string      `json:"issue_date"`
	DueDate          string      `json:"due_date"`
	Currency         string      `json:"currency"`
	Subtotal         string      `json:"subtotal"`
	TaxTotal         string      `json:"tax_total"`
	Total            string      `json:"total"`
	QuoteRef         string      `json:"quote_ref"`
	Lines            []IssueLine `json:"lines"`
}

// IssueResponse is a minimal confirmation. LineItemsError marks the
// documented partial-success state: the header exists and is retrievable,
// only the items failed and may be retried.
type IssueResponse struct {
	ID             string `json:"id"`
	Number         string `json:"number"`
	LineItemsError string `json:"line_items_error,omitempty"`
}

type ListInvoiceRequest struct {
	pagination.Pagination
	Status *InvoiceStatus `form:"status"`
}

type ListInvoiceResponse struct {
	pagination.PageInfo
	Invoices []Invoice `json:"invoices"`
}

// InvoiceDetail is an invoice header with its ordered line items.
type InvoiceDetail struct {
	Invoice
	Lines []InvoiceLineItem `json:"lines"`
}

type Service interface {
	// Issue validates, resolves tenant and client, allocates a number and
	// persists the invoice. Validation never touches the counter; an
	// allocation failure never creates an invoice row.
	Issue(ctx context.Context, req IssueRequest) (IssueResponse, error)
	List(ctx context.Context, req ListInvoiceRequest) (ListInvoiceResponse, error)
	// GetByNumber fetches an invoice for the tenant in context.
	GetByNumber(ctx context.Context, number string) (InvoiceDetail, error)
	// FindByTenantNumber fetches an invoice scoped to an explicit tenant.
	FindByTenantNumber(ctx context.Context, tenantID snowflake.ID, number string) (InvoiceDetail, error)
}

var (
	ErrInvalidTenant     = errors.New("invalid_tenant")
	ErrInvoiceNotFound   = errors.New("invoice_not_found")
	ErrMissingTenantSlug = errors.New("missing_tenant_slug")
	ErrMissingClientRef  = errors.New("missing_client_ref")
	ErrInvalidIssueDate  = errors.New("invalid_issue_date")
	ErrInvalidDueDate    = errors.New("invalid_due_date")
	ErrInvalidCurrency   = errors.New("invalid_currency")
	ErrInvalidAmount     = errors.New("invalid_amount")
	ErrPersistence       = errors.New("persistence_failed")
)
