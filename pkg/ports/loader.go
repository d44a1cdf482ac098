package ports

import (
	"context"

	"github.com/aretw0/tristate/pkg/domain"
)

// OutlineLoader defines the interface for retrieving tree outlines.
type OutlineLoader interface {
	// Load retrieves the outline registered under id.
	// Returns an error wrapping domain.ErrOutlineNotFound if it does not exist.
	Load(ctx context.Context, id string) (*domain.Outline, error)

	// List returns all available outline IDs.
	List(ctx context.Context) ([]string, error)
}

// Watchable defines an interface for loaders that support change notifications.
type Watchable interface {
	// Watch returns a channel that emits the ID of every outline that changed.
	// The channel is closed when the context is canceled.
	Watch(ctx context.Context) (<-chan string, error)
}
