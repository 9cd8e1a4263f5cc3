// Package storage persists the single AppData record under one key.
package storage

import "context"

// Backend is a string key/value store. Set replaces the whole value.
type Backend interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Close() error
}
