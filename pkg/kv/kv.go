// Package kv defines the key-value contract the artifact store is built
// on: string records with a per-write expiry, plus ordered lists for the
// gallery index.
package kv

import (
	"errors"
	"time"
)

// ErrNotFound is returned by Get for keys with no record.
var ErrNotFound = errors.New("kv: key not found")

type Store interface {
	Get(key string) ([]byte, error)
	// Set writes the value and (re)applies the expiry. A zero duration
	// means no expiry.
	Set(key string, value []byte, duration time.Duration) error
	Del(key string) error

	// ListPush prepends a value, so ListRange(key, 0, n) reads newest
	// first.
	ListPush(key, value string) error
	ListRange(key string, start, stop int64) ([]string, error)
	// ListRem removes all occurrences of value; removing a value that is
	// not present is not an error.
	ListRem(key, value string) error
}
