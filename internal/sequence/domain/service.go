package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

// Allocation is the result of advancing a tenant's counter once.
type Allocation struct {
	Sequence int64
	Number   string
}

type Service interface {
	// Allocate advances the tenant's counter and returns the formatted
	// invoice number. Numbers are never reused; a caller that fails after
	// allocation burns the number (sparse numbering).
	Allocate(ctx context.Context, tenantID snowflake.ID, prefix string) (Allocation, error)
	// Current returns the counter value without advancing it.
	Current(ctx context.Context, tenantID snowflake.ID) (int64, error)
}

var (
	ErrInvalidTenant    = errors.New("invalid_tenant")
	ErrAllocationFailed = errors.New("allocation_failed")
)
