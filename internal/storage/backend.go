// Package storage provides the key-value backends the state store persists to.
package storage

import "context"

// Backend is a fallible asynchronous key-value store. Get reports absence via
// its bool rather than an error; errors mean the read itself failed.
type Backend interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}
