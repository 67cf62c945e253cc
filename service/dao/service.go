// Package dao defines the storage contract shared by the request, vendor and
// budget stores.
package dao

import (
	"context"
)

// Service is a keyed entity store.
type Service[K comparable, T any] interface {
	Save(ctx context.Context, t *T) error

	// Load returns ErrNotFound when no entity is stored under id.
	Load(ctx context.Context, id K) (*T, error)

	Delete(ctx context.Context, id K) error

	List(ctx context.Context, parameters ...*Parameter) ([]*T, error)
}
