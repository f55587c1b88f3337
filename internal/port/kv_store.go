package port

import "context"

type KVStore interface {
	// Get returns the value stored under key; ok is false when the key is absent
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set overwrites the value stored under key
	Set(ctx context.Context, key, value string) error

	// Delete removes key; deleting an absent key is not an error
	Delete(ctx context.Context, key string) error
}
