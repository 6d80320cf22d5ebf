package said

import (
	"encoding/binary"

	"github.com/datatrails/go-keri-core/cesr"
)

// Number is a CESR-coded unsigned integer (big-endian uint64 raw payload),
// used wherever a count or sequence number needs to travel as an
// attachment-group primitive rather than a plain JSON hex string.
type Number struct {
	matter *cesr.Matter
}

// NewNumberFromUint builds a Number from a uint64 value.
func NewNumberFromUint(n uint64) (*Number, error) {
	raw := make([]byte, 8)
	binary.BigEndian.PutUint64(raw, n)
	m, err := cesr.NewMatterWithRaw(cesr.CodeNumberLong, raw)
	if err != nil {
		return nil, err
	}
	return &Number{matter: m}, nil
}

// NewNumberFromQb64 parses an existing Number primitive.
func NewNumberFromQb64(qb64 string) (*Number, error) {
	m, err := cesr.NewMatterFromQb64(qb64)
	if err != nil {
		return nil, err
	}
	return &Number{matter: m}, nil
}

// Qb64 returns the number's text form.
func (n *Number) Qb64() string { return n.matter.Qb64() }

// Value returns the decoded uint64.
func (n *Number) Value() uint64 { return binary.BigEndian.Uint64(n.matter.Raw()) }
