// Package storage contains block storage for the link system.
package storage

import (
	"errors"

	"github.com/ipld/go-ipld-prime/storage"
)

// ErrNotFound is returned when a key has no stored content.
var ErrNotFound = errors.New("key not found")

// Storage can read and write content addressed blocks.
type Storage interface {
	storage.ReadableStorage
	storage.WritableStorage
}
