package store

import "errors"

var (
	// ErrNotFound means no record exists at the requested address.
	ErrNotFound = errors.New("store: record not found")
	// ErrDiverged means a record already exists at this address with
	// different content than what the caller is inserting. Entities are
	// immutable once committed; this is a correctness violation upstream.
	ErrDiverged = errors.New("store: insert content diverges from existing record at this address")
)
