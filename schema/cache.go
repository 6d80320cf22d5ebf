// Package schema implements the process-wide, append-only JSON-Schema
// 2020-12 cache §4.8 credentials are validated against: keyed by schema
// SAID, compiled eagerly on add, read-locked for validation and
// write-locked for insertion (§5 "Shared mutability").
package schema

import (
	"fmt"
	"sync"

	"github.com/datatrails/go-keri-core/said"
)

// entry is a compiled schema: the parsed document plus its own raw bytes,
// retained for diagnostics.
type entry struct {
	doc *said.Dat
	raw []byte
}

// Cache is a concurrently-readable, exclusively-written map of schema SAID
// to compiled schema. Entries are never mutated once added; re-adding the
// same SAID is a no-op. The zero value is not usable; use NewCache.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]entry)}
}

// Add registers a schema document, keyed by its own "$id" SAID. raw must
// parse as a JSON object whose "$id" field is a fixed point under
// said.Verify (the placeholder-substituted document's digest). Adding an
// already-present SAID is idempotent regardless of byte-for-byte equality
// of raw, since both encode the same schema.
func (c *Cache) Add(raw []byte) (string, error) {
	doc, err := said.ParseDat(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadDocument, err)
	}
	if !doc.IsObject() {
		return "", fmt.Errorf("%w: schema document is not a JSON object", ErrBadDocument)
	}
	id := doc.Get("$id")
	if id == nil || !id.IsString() || id.String() == "" {
		return "", fmt.Errorf("%w: missing \"$id\"", ErrBadDocument)
	}
	ok, verr := said.Verify(doc, "$id")
	if verr != nil {
		return "", fmt.Errorf("%w: %v", ErrBadSaid, verr)
	}
	if !ok {
		return "", ErrBadSaid
	}
	schemaSaid := id.String()

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[schemaSaid]; exists {
		return schemaSaid, nil
	}
	c.entries[schemaSaid] = entry{doc: doc, raw: raw}
	return schemaSaid, nil
}

// Verify reports whether instanceRaw validates against the schema
// registered under schemaSaid.
func (c *Cache) Verify(schemaSaid string, instanceRaw []byte) (bool, error) {
	c.mu.RLock()
	e, ok := c.entries[schemaSaid]
	c.mu.RUnlock()
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrNotFound, schemaSaid)
	}

	instance, err := said.ParseDat(instanceRaw)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrBadDocument, err)
	}
	return matches(e.doc, instance), nil
}
