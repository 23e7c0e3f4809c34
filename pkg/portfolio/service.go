package portfolio

import "context"

// Service defines the main interface for the portfolio content engine
type Service interface {
	// Collection operations
	List(ctx context.Context, kind Kind) ([]Entry, error)
	Get(ctx context.Context, kind Kind, id string) (*Entry, error)
	Save(ctx context.Context, req SaveEntryRequest) (*SaveEntryResult, error)
	Delete(ctx context.Context, req DeleteEntryRequest) (*DeleteEntryResult, error)

	// Publish stages, commits and pushes the whole working tree
	Publish(ctx context.Context, req PublishRequest) (*PublishResult, error)

	// Preview renders a body (or unsaved blocks) to HTML without persisting anything
	Preview(ctx context.Context, req PreviewRequest) (*PreviewResult, error)

	// CollectionPath returns the collection file of kind relative to the project root
	CollectionPath(kind Kind) string
}
