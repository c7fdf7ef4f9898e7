// Package domain defines the invoice document link contract.
package domain

import (
	"context"
	"errors"

	"github.com/smallbiznis/facturo/internal/objectstore"
)

type Service interface {
	// GetLink returns a time-limited signed URL for the invoice's rendered
	// document, generating and storing it on demand when absent. An
	// existing document is never regenerated.
	GetLink(ctx context.Context, tenantSlug, number string) (objectstore.SignedURL, error)
}

var ErrGenerationFailed = errors.New("document_generation_failed")
