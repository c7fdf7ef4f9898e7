// Package objectstore abstracts the document blob store.
package objectstore

import (
	"context"
	"errors"
	"time"
)

// Store holds rendered invoice documents keyed by tenant-scoped paths and
// hands out time-limited signed read URLs.
type Store interface {
	Upload(ctx context.Context, key string, body []byte, contentType string) error
	Exists(ctx context.Context, key string) (bool, error)
	PresignGet(ctx context.Context, key string) (SignedURL, error)
}

// SignedURL is a time-limited, unguessable link granting temporary read
// access to a stored object.
type SignedURL struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

var ErrStoreUnavailable = errors.New("object_store_unavailable")
