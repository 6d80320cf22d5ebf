package said

import (
	"fmt"
	"strconv"
)

// Seqner is a sequence number: a plain lowercase-hex string on the wire in
// event fields ("s"), and a CESR Number primitive when carried in an
// attachment group (e.g. a seal source couple).
type Seqner struct {
	sn uint64
}

// NewSeqner wraps a sequence number.
func NewSeqner(sn uint64) *Seqner { return &Seqner{sn: sn} }

// NewSeqnerFromHex parses the lowercase-hex "s" field of an event.
func NewSeqnerFromHex(hexStr string) (*Seqner, error) {
	n, err := strconv.ParseUint(hexStr, 16, 64)
	if err != nil {
		return nil, fmt.Errorf("said: parsing sequence number %q: %w", hexStr, err)
	}
	return &Seqner{sn: n}, nil
}

// Sn returns the sequence number.
func (s *Seqner) Sn() uint64 { return s.sn }

// Hex renders the sequence number as a lowercase-hex string, as it appears
// in an event's "s" field.
func (s *Seqner) Hex() string { return strconv.FormatUint(s.sn, 16) }

// Qb64 renders the sequence number as a CESR Number primitive, as it
// appears in an attachment group.
func (s *Seqner) Qb64() string {
	n, _ := NewNumberFromUint(s.sn)
	return n.Qb64()
}

// NewSeqnerFromQb64 parses a Number-coded sequence number from an
// attachment group.
func NewSeqnerFromQb64(qb64 string) (*Seqner, error) {
	n, err := NewNumberFromQb64(qb64)
	if err != nil {
		return nil, err
	}
	return &Seqner{sn: n.Value()}, nil
}
