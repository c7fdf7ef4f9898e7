package domain

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/facturo/pkg/db/pagination"
)

// Ref identifies a client within a tenant, either by internal ID or by a
// caller-supplied external ID. The internal ID wins when both are present.
type Ref struct {
	ID         string
	ExternalID string
}

// Empty reports whether no identifying field was supplied.
func (r Ref) Empty() bool {
	return strings.TrimSpace(r.ID) == "" && strings.TrimSpace(r.ExternalID) == ""
}

type CreateClientRequest struct {
	ExternalID string `json:"external_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
}

type ListClientRequest struct {
	pagination.Pagination
}

type ListClientResponse struct {
	pagination.PageInfo
	Clients []Client `json:"clients"`
}

type Service interface {
	Create(ctx context.Context, req CreateClientRequest) (Client, error)
	List(ctx context.Context, req ListClientRequest) (ListClientResponse, error)
	// Resolve maps a tenant-scoped client reference to its record.
	// Pure lookup, no side effects.
	Resolve(ctx context.Context, tenantID snowflake.ID, ref Ref) (Client, error)
}

var (
	ErrInvalidTenant    = errors.New("invalid_tenant")
	ErrClientNotFound   = errors.New("client_not_found")
	ErrClientRefMissing = errors.New("client_ref_missing")
	ErrInvalidName      = errors.New("invalid_name")
	ErrInvalidEmail     = errors.New("invalid_email")
	ErrClientExists     = errors.New("client_exists")
)
