package storage

import (
	"context"
	"time"

	"github.com/saideep872/aurora-qa/core"
)

// MessageRepository provides operations for managing the message corpus.
// Implementations must be thread-safe and support concurrent access.
type MessageRepository interface {
	// AddMessages adds one or more messages to storage.
	// Messages with a zero Id get a content-addressed one (core.MessageID).
	// Sets InsertedAt/UpdatedAt timestamps.
	// Re-adding an existing id overwrites the record but keeps its vector,
	// so reloading an unchanged corpus never loses embeddings.
	AddMessages(ctx context.Context, messages ...*core.Message) ([]*core.Message, error)

	// UpdateMessages updates existing messages (vector write-back).
	// Updates the UpdatedAt timestamp automatically.
	// Returns ErrNotFound if any message doesn't exist.
	UpdateMessages(ctx context.Context, messages ...*core.Message) ([]*core.Message, error)

	// GetMessage retrieves a single message by ID.
	// Returns ErrNotFound if the message doesn't exist.
	GetMessage(ctx context.Context, id core.ID) (*core.Message, error)

	// GetMessages retrieves multiple messages by their IDs.
	// Returns only the messages that exist (no error for missing ones).
	GetMessages(ctx context.Context, ids ...core.ID) ([]*core.Message, error)

	// AllMessages retrieves the full corpus, ordered by ascending ID.
	AllMessages(ctx context.Context) ([]*core.Message, error)

	// GetRecentMessages retrieves the N most recent messages, ordered by
	// timestamp descending. Returns up to limit messages.
	GetRecentMessages(ctx context.Context, limit int) ([]*core.Message, error)

	// GetMessagesByDateRange retrieves messages within a time range.
	// Returns messages where start <= Timestamp < end, ordered by timestamp.
	GetMessagesByDateRange(ctx context.Context, start, end time.Time) ([]*core.Message, error)

	// GetMessagesByPerson retrieves IDs of messages attributed to the given
	// normalized person key. Returns only ids, not full records.
	GetMessagesByPerson(ctx context.Context, personKey string) ([]core.ID, error)

	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the repository and releases resources.
	Close() error
}
