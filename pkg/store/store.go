// Package store provides the lookup-table collaborators behind the
// FILE_QUERY operation.
package store

import "context"

// Store is a key-value lookup table read fresh on every query. Load
// returns an empty map on any failure; it never reports an error to the
// caller.
type Store interface {
	Load(ctx context.Context) map[string]interface{}
}

// Static is a fixed in-memory Store, for wiring and tests.
type Static map[string]interface{}

// Load returns the static mapping.
func (s Static) Load(context.Context) map[string]interface{} {
	if s == nil {
		return map[string]interface{}{}
	}
	return s
}
