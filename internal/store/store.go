// Package store defines the document-store port the rest of the backend is
// written against: a hierarchical JSON tree reached through read / push /
// update / remove. The production implementation is the Firebase Realtime
// Database; an in-memory implementation backs tests and dry runs.
//
// The port deliberately exposes no transaction or compare-and-swap
// primitive — every caller performs a read→compute→write pipeline, and the
// known lost-update races that follow (sequence numbering, concurrent
// payments against one LPO) are documented where they occur.
package store

import (
	"context"
	"errors"
)

// ErrUnavailable wraps any transport/connection failure talking to the
// backing store. Handlers map it to 5xx without leaking internals.
var ErrUnavailable = errors.New("document store unavailable")

// Store is the collaborator contract for the document tree.
type Store interface {
	// Read decodes the JSON value at path into dest. A null/absent node
	// returns found=false with dest untouched.
	Read(ctx context.Context, path string, dest interface{}) (found bool, err error)

	// Push appends value under path with a server-generated, creation-time
	// sortable id and returns that id.
	Push(ctx context.Context, path string, value interface{}) (string, error)

	// Update shallow-merges partial into the node at path.
	Update(ctx context.Context, path string, partial map[string]interface{}) error

	// Remove deletes the node at path. Removing an absent node is a no-op.
	Remove(ctx context.Context, path string) error
}
