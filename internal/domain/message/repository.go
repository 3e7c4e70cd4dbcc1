package message

import "context"

// Repository abstracts the source of newsletter emails. The implementation
// lives in the infrastructure layer (Gmail API), keeping the domain
// independent of external services.
type Repository interface {
	// GetByID fetches a single message.
	GetByID(ctx context.Context, id ID) (*EmailMessage, error)

	// ListByLabel returns up to max messages carrying the given label,
	// newest first.
	ListByLabel(ctx context.Context, label string, max int64) ([]EmailMessage, error)
}
