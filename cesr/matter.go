package cesr

import (
	"encoding/base64"
	"fmt"
)

// Matter is a typed cryptographic blob: a stable hard code plus its raw
// bytes. Every Matter round-trips: decode(encode(x)) == x, in both text
// (qb64) and binary (qb2) form.
type Matter struct {
	code   string
	raw    []byte
	sizage Sizage
}

// NewMatterWithRaw builds a Matter from a known code and raw bytes,
// rejecting raw material of the wrong size for that code.
func NewMatterWithRaw(code string, raw []byte) (*Matter, error) {
	sizage, rawLen, ok := MatterSizage(code)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCode, code)
	}
	if len(raw) != rawLen {
		return nil, fmt.Errorf("%w: code %q wants %d bytes, got %d", ErrBadRawSize, code, rawLen, len(raw))
	}
	cp := make([]byte, len(raw))
	copy(cp, raw)
	return &Matter{code: code, raw: cp, sizage: sizage}, nil
}

// NewMatterFromQb64 parses a qb64 text primitive, requiring its length to
// match exactly the code's full size.
func NewMatterFromQb64(qb64 string) (*Matter, error) {
	if len(qb64) < 1 {
		return nil, fmt.Errorf("%w", ErrShortMaterial)
	}
	hs, isCounter, isOp := HardCodeClass(qb64[0])
	if isCounter || isOp {
		return nil, fmt.Errorf("%w: %q is a counter/op code, not a Matter code", ErrDecodingCode, qb64[:1])
	}
	if len(qb64) < hs {
		return nil, fmt.Errorf("%w", ErrShortMaterial)
	}
	code := qb64[:hs]
	sizage, rawLen, ok := MatterSizage(code)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCode, code)
	}
	if len(qb64) != sizage.FS {
		return nil, fmt.Errorf("%w: code %q wants %d chars, got %d", ErrLengthMismatch, code, sizage.FS, len(qb64))
	}
	raw, err := base64.RawURLEncoding.DecodeString(qb64[hs:])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodingCode, err)
	}
	if len(raw) != rawLen {
		return nil, fmt.Errorf("%w: code %q decoded %d bytes, wanted %d", ErrBadRawSize, code, len(raw), rawLen)
	}
	return &Matter{code: code, raw: raw, sizage: sizage}, nil
}

// NewMatterFromQb2 parses a binary primitive: per this spec's qb2 model,
// that is the base64url decode of the qb64 text, so qb2 is first
// re-encoded back to text and parsed the same way.
func NewMatterFromQb2(qb2 []byte) (*Matter, error) {
	qb64 := base64.RawURLEncoding.EncodeToString(qb2)
	return NewMatterFromQb64(qb64)
}

// Code returns the primitive's hard code.
func (m *Matter) Code() string { return m.code }

// Raw returns the primitive's raw bytes.
func (m *Matter) Raw() []byte { return m.raw }

// Qb64 renders the primitive in text form.
func (m *Matter) Qb64() string {
	return m.code + base64.RawURLEncoding.EncodeToString(m.raw)
}

// Qb2 renders the primitive in binary form: the base64url decode of Qb64.
func (m *Matter) Qb2() []byte {
	b, _ := base64.RawURLEncoding.DecodeString(m.Qb64())
	return b
}
