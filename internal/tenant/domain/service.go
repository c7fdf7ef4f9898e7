package domain

import (
	"context"
	"errors"
)

type CreateTenantRequest struct {
	Name          string `json:"name"`
	Slug          string `json:"slug"`
	Currency      string `json:"currency"`
	InvoicePrefix string `json:"invoice_prefix"`
	SupportEmail  string `json:"support_email"`
}

type Service interface {
	Create(ctx context.Context, req CreateTenantRequest) (Tenant, error)
	// ResolveSlug maps an external tenant slug to its record. Pure lookup,
	// no side effects.
	ResolveSlug(ctx context.Context, slug string) (Tenant, error)
}

var (
	ErrTenantNotFound       = errors.New("tenant_not_found")
	ErrInvalidSlug          = errors.New("invalid_slug")
	ErrInvalidName          = errors.New("invalid_name")
	ErrInvalidCurrency      = errors.New("invalid_currency")
	ErrInvalidInvoicePrefix = errors.New("invalid_invoice_prefix")
	ErrSlugTaken            = errors.New("slug_taken")
)
