package badger

import (
	"context"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/saideep872/aurora-qa/core"
	"github.com/saideep872/aurora-qa/storage"
)

// MessageRepository implements storage.MessageRepository for BadgerDB.
type MessageRepository struct {
	backend *Backend
}

var _ storage.MessageRepository = (*MessageRepository)(nil)

// NewMessageRepository creates a new MessageRepository.
func NewMessageRepository(backend *Backend) (storage.MessageRepository, error) {
	if backend == nil {
		return nil, storage.ErrStorageClosed
	}
	return &MessageRepository{backend: backend}, nil
}

// Close is a no-op; the backend owns the database handle.
func (r *MessageRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *MessageRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddMessages adds one or more messages to storage.
// Messages with a zero Id get a content-addressed one derived from source id,
// person, and text, so re-adding an unchanged corpus is idempotent; an
// existing record's vector is preserved across re-adds.
func (r *MessageRepository) AddMessages(ctx context.Context, messages ...*core.Message) ([]*core.Message, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, msg := range messages {
			if msg.Id == 0 {
				msg.Id = core.MessageID(msg.SourceId, msg.Person, msg.Text)
			}
			key := makeMessageKey(msg.Id)

			old, err := r.readMessage(tx, key)
			if err != nil {
				return err
			}

			now := time.Now().UTC()
			if old != nil {
				// Keep the amortized embedding and the original insert time.
				if len(msg.Vector) == 0 {
					msg.Vector = old.Vector
				}
				msg.InsertedAt = old.InsertedAt
			} else {
				msg.InsertedAt = now
			}
			msg.UpdatedAt = now

			if err := tx.Set(key, storage.MarshalMessage(msg)); err != nil {
				return err
			}

			if old != nil && !old.Timestamp.Equal(msg.Timestamp) {
				if err := tx.Delete(makeMessageDateKey(old.Timestamp, old.Id)); err != nil {
					return err
				}
			}
			dateKey := makeMessageDateKey(msg.Timestamp, msg.Id)
			if err := tx.Set(dateKey, storage.MarshalID(msg.Id)); err != nil {
				return err
			}

			personKey := makeMessagePersonKey(core.NormalizePerson(msg.Person), msg.Id)
			if err := tx.Set(personKey, storage.MarshalID(msg.Id)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return messages, err
}

// UpdateMessages updates existing messages.
// The ingestion pipeline uses this to write vectors back after embedding.
func (r *MessageRepository) UpdateMessages(ctx context.Context, messages ...*core.Message) ([]*core.Message, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, msg := range messages {
			key := makeMessageKey(msg.Id)

			old, err := r.readMessage(tx, key)
			if err != nil {
				return err
			}
			if old == nil {
				return storage.ErrNotFound
			}

			msg.UpdatedAt = time.Now().UTC()

			if err := tx.Set(key, storage.MarshalMessage(msg)); err != nil {
				return err
			}

			if !old.Timestamp.Equal(msg.Timestamp) {
				if err := tx.Delete(makeMessageDateKey(old.Timestamp, old.Id)); err != nil {
					return err
				}
				if err := tx.Set(makeMessageDateKey(msg.Timestamp, msg.Id), storage.MarshalID(msg.Id)); err != nil {
					return err
				}
			}

			oldPerson := core.NormalizePerson(old.Person)
			newPerson := core.NormalizePerson(msg.Person)
			if oldPerson != newPerson {
				if err := tx.Delete(makeMessagePersonKey(oldPerson, old.Id)); err != nil {
					return err
				}
				if err := tx.Set(makeMessagePersonKey(newPerson, msg.Id), storage.MarshalID(msg.Id)); err != nil {
					return err
				}
			}
		}
		return tx.Commit()
	}, true)

	return messages, err
}

// GetMessage retrieves a single message by ID.
func (r *MessageRepository) GetMessage(ctx context.Context, id core.ID) (*core.Message, error) {
	var result *core.Message
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = r.readMessage(tx, makeMessageKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// GetMessages retrieves multiple messages by their IDs.
// Missing ids are skipped without error.
func (r *MessageRepository) GetMessages(ctx context.Context, ids ...core.ID) ([]*core.Message, error) {
	results := make([]*core.Message, 0, len(ids))
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			msg, err := r.readMessage(tx, makeMessageKey(id))
			if err != nil {
				return err
			}
			if msg != nil {
				results = append(results, msg)
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return results, nil
}

// AllMessages retrieves the full corpus, ordered by ascending ID.
func (r *MessageRepository) AllMessages(ctx context.Context) ([]*core.Message, error) {
	var results []*core.Message
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(messagePrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var msg *core.Message
			err := iter.Item().Value(func(val []byte) error {
				var err error
				msg, err = storage.UnmarshalMessage(val)
				return err
			})
			if err != nil {
				return err
			}
			results = append(results, msg)
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	// Keys are decimal strings, so iteration order is lexicographic.
	slices.SortFunc(results, func(a, b *core.Message) int {
		switch {
		case a.Id < b.Id:
			return -1
		case a.Id > b.Id:
			return 1
		}
		return 0
	})
	return results, nil
}

// GetRecentMessages retrieves the N most recent messages via the date index.
func (r *MessageRepository) GetRecentMessages(ctx context.Context, limit int) ([]*core.Message, error) {
	if limit <= 0 {
		return []*core.Message{}, nil
	}

	var ids []core.ID
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		prefix := []byte(messageDatePrefix + ":")
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.Reverse = true
		iter := tx.NewIterator(opts)
		defer iter.Close()

		// Seek past the last possible key in the prefix range.
		seek := append(slices.Clone(prefix), 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF)
		for iter.Seek(seek); iter.Valid() && len(ids) < limit; iter.Next() {
			err := iter.Item().Value(func(val []byte) error {
				id, err := storage.UnmarshalID(val)
				if err != nil {
					return err
				}
				ids = append(ids, id)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	msgs, err := r.GetMessages(ctx, ids...)
	if err != nil {
		return nil, err
	}
	// Preserve index order (most recent first).
	byId := make(map[core.ID]*core.Message, len(msgs))
	for _, m := range msgs {
		byId[m.Id] = m
	}
	ordered := make([]*core.Message, 0, len(ids))
	for _, id := range ids {
		if m, ok := byId[id]; ok {
			ordered = append(ordered, m)
		}
	}
	return ordered, nil
}

// GetMessagesByDateRange retrieves messages where start <= Timestamp < end.
func (r *MessageRepository) GetMessagesByDateRange(ctx context.Context, start, end time.Time) ([]*core.Message, error) {
	var ids []core.ID
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(messageDatePrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		startKey := makePartialMessageDateKey(start)
		endKey := makePartialMessageDateKey(end)
		for iter.Seek(startKey); iter.Valid(); iter.Next() {
			key := iter.Item().Key()
			if string(key[:len(endKey)]) >= string(endKey) {
				break
			}
			err := iter.Item().Value(func(val []byte) error {
				id, err := storage.UnmarshalID(val)
				if err != nil {
					return err
				}
				ids = append(ids, id)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return r.GetMessages(ctx, ids...)
}

// GetMessagesByPerson retrieves ids for a normalized person key.
func (r *MessageRepository) GetMessagesByPerson(ctx context.Context, personKey string) ([]core.ID, error) {
	var ids []core.ID
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makePartialMessagePersonKey(personKey)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			err := iter.Item().Value(func(val []byte) error {
				id, err := storage.UnmarshalID(val)
				if err != nil {
					return err
				}
				ids = append(ids, id)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// readMessage reads a message by key within a transaction.
// Returns nil (no error) when the key does not exist.
func (r *MessageRepository) readMessage(tx *badger.Txn, key []byte) (*core.Message, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}
	var msg *core.Message
	err = item.Value(func(val []byte) error {
		var err error
		msg, err = storage.UnmarshalMessage(val)
		return err
	})
	if err != nil {
		return nil, err
	}
	return msg, nil
}
