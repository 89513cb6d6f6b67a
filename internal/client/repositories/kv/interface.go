package kv

import "context"

// Repository is a string-keyed blob store. Get on an absent key returns
// (nil, nil).
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}

// Store is a Repository that can also group writes. Atomic runs fn against
// a Repository whose writes become visible together when fn returns nil
// and are discarded when it returns an error.
type Store interface {
	Repository
	Atomic(ctx context.Context, fn func(ctx context.Context, repo Repository) error) error
}
