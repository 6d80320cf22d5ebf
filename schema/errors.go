package schema

import "errors"

var (
	ErrNotFound    = errors.New("schema: no schema registered for this SAID")
	ErrBadSaid     = errors.New("schema: $id does not verify as the schema document's SAID")
	ErrBadDocument = errors.New("schema: malformed schema document")
)
