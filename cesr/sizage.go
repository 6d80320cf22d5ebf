// Package cesr implements the Composable Event Streaming Representation
// primitive layer: a dual text/binary self-framing code covering
// cryptographic material (Matter), indexed signatures (Indexer), and
// non-payload group headers (Counter).
//
// Text form (qb64) is hard-code ∥ soft-code ∥ base64url(lead-padded raw).
// Binary form (qb2) is, per this specification's simplification, the
// base64-url decode of the qb64 text: encode(decode(x)) == x holds in both
// directions, and the two forms are a straightforward bijection of each
// other rather than independently bit-packed representations.
package cesr

import (
	"errors"
)

// VarSize marks a code whose full size is carried in the soft field rather
// than fixed by the table (spec: "fs may be u32::MAX for variable-length
// codes").
const VarSize = -1

// Sizage fixes the five widths a CESR code is built from.
type Sizage struct {
	HS int // hard size: length of the hard (type) code, in qb64 chars
	SS int // soft size: length of the soft (count/index) code, in qb64 chars
	OS int // other size: width of a second soft field, when present
	FS int // full size in qb64 chars; VarSize if soft-field-determined
	LS int // lead size: zero bytes prepended to raw before base64 encoding
}

var (
	ErrUnknownCode     = errors.New("cesr: unknown hard code")
	ErrBadRawSize      = errors.New("cesr: raw material has the wrong size for its code")
	ErrShortMaterial   = errors.New("cesr: qb64 text too short to hold its code and full size")
	ErrLengthMismatch  = errors.New("cesr: decoded length does not match the code's full size")
	ErrInvalidSoftSize = errors.New("cesr: soft-coded length is invalid")
	ErrDecodingCode    = errors.New("cesr: malformed code or base64 body")
)

// b64Len is the number of unpadded base64url characters needed to encode n
// raw bytes: ceil(n*8/6), matching base64.RawURLEncoding.EncodedLen(n).
func b64Len(n int) int {
	return (n*8 + 5) / 6
}

// FullSize returns the exact qb64 text length implied by a raw payload of
// rawLen bytes under sizage s: the hard+soft code characters (the "os"
// field, when present, is a bit-width subdivision of ss, not additional
// characters) followed by the base64url encoding of rawLen bytes of raw
// material. No lead bytes are added and the result is not rounded up to a
// multiple of four: for code "0H" (8-byte raw) it is 13.
func FullSize(s Sizage, rawLen int) int {
	return s.HS + s.SS + b64Len(rawLen)
}

