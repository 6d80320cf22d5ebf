package cesr

import (
	"encoding/base64"
	"fmt"
)

// Indexer hard codes: a signature carrying one or two small integers (a
// current-list index, and optionally a prior-next-list index, "ondex").
// Two code families per signature algorithm: Both (the same index applies
// to the current and prior-next key lists) and CurrentOnly (no ondex), each
// with a Big variant carrying wider indices.
const (
	CodeEd25519SigBoth           = "A"  // Ed25519 sig, both lists, small index
	CodeEd25519SigCurrent        = "B"  // Ed25519 sig, current-only, small index
	CodeEd25519SigBothBig        = "2A" // Ed25519 sig, both lists, big index
	CodeEd25519SigCurrentBig     = "2B" // Ed25519 sig, current-only, big index
	CodeEd448SigBoth             = "0A" // Ed448 sig, both lists, small index
	CodeEd448SigCurrent          = "0B" // Ed448 sig, current-only, small index
	CodeEd448SigBothBig          = "3A" // Ed448 sig, both lists, big index
	CodeEd448SigCurrentBig       = "3B" // Ed448 sig, current-only, big index
	CodeVariableLengthTest       = "0z" // variable-length test code (fs is soft-field-determined)
)

type indexerEntry struct {
	Sizage
	rawLen int
	both   bool // whether this family carries an ondex (prior-next index)
}

var indexerSizes = buildIndexerSizes()

func buildIndexerSizes() map[string]indexerEntry {
	type spec struct {
		code           string
		hs, ss, os     int
		rawLen         int
		both           bool
	}
	specs := []spec{
		{CodeEd25519SigBoth, 1, 1, 0, 64, true},
		{CodeEd25519SigCurrent, 1, 1, 0, 64, false},
		{CodeEd25519SigBothBig, 2, 4, 2, 64, true},
		{CodeEd25519SigCurrentBig, 2, 4, 2, 64, false},
		{CodeEd448SigBoth, 2, 2, 1, 114, true},
		{CodeEd448SigCurrent, 2, 2, 1, 114, false},
		{CodeEd448SigBothBig, 2, 6, 3, 114, true},
		{CodeEd448SigCurrentBig, 2, 6, 3, 114, false},
	}
	out := make(map[string]indexerEntry, len(specs)+1)
	for _, s := range specs {
		sizage := Sizage{HS: s.hs, SS: s.ss, OS: s.os, LS: 0}
		sizage.FS = FullSize(sizage, s.rawLen)
		out[s.code] = indexerEntry{Sizage: sizage, rawLen: s.rawLen, both: s.both}
	}
	out[CodeVariableLengthTest] = indexerEntry{
		Sizage: Sizage{HS: 2, SS: 2, OS: 0, FS: VarSize, LS: 0},
	}
	return out
}

// IndexerSizage returns the Sizage, raw length, and both-lists flag for an
// indexer code.
func IndexerSizage(code string) (Sizage, int, bool, bool) {
	e, ok := indexerSizes[code]
	if !ok {
		return Sizage{}, 0, false, false
	}
	return e.Sizage, e.rawLen, e.both, true
}

// Indexer is an indexed signature: a code, a current-list index, an
// optional prior-next-list index (ondex), and the raw signature bytes.
type Indexer struct {
	code  string
	index uint32
	ondex uint32
	hasOndex bool
	raw   []byte
}

// NewIndexer builds an Indexer, enforcing index < 2^(6*(ss-os)) and, when
// the code carries an ondex, ondex < 2^(6*os).
func NewIndexer(code string, index uint32, ondex uint32, hasOndex bool, raw []byte) (*Indexer, error) {
	sizage, rawLen, both, ok := IndexerSizage(code)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCode, code)
	}
	if len(raw) != rawLen {
		return nil, fmt.Errorf("%w: code %q wants %d bytes, got %d", ErrBadRawSize, code, rawLen, len(raw))
	}
	indexChars := sizage.SS - sizage.OS
	if index >= uint32(1)<<(6*indexChars) {
		return nil, fmt.Errorf("%w: index %d exceeds %d-char field for code %q", ErrInvalidSoftSize, index, indexChars, code)
	}
	if hasOndex {
		if !both {
			return nil, fmt.Errorf("%w: code %q has no ondex field", ErrInvalidSoftSize, code)
		}
		if sizage.OS == 0 && ondex != index {
			return nil, fmt.Errorf("%w: code %q carries no separate ondex, so ondex must equal index", ErrInvalidSoftSize, code)
		}
		if sizage.OS > 0 && ondex >= uint32(1)<<(6*sizage.OS) {
			return nil, fmt.Errorf("%w: ondex %d exceeds %d-char field for code %q", ErrInvalidSoftSize, ondex, sizage.OS, code)
		}
	}
	cp := make([]byte, len(raw))
	copy(cp, raw)
	return &Indexer{code: code, index: index, ondex: ondex, hasOndex: hasOndex, raw: cp}, nil
}

// Code, Index, Raw are the indexer's components.
func (x *Indexer) Code() string  { return x.code }
func (x *Indexer) Index() uint32 { return x.index }
func (x *Indexer) Raw() []byte   { return x.raw }

// Ondex returns the prior-next index and whether the code carries one.
func (x *Indexer) Ondex() (uint32, bool) { return x.ondex, x.hasOndex }

// Qb64 renders the indexer in text form: code ∥ index-field ∥ raw-base64.
func (x *Indexer) Qb64() string {
	sizage, _, both, _ := IndexerSizage(x.code)
	indexChars := sizage.SS - sizage.OS
	soft := encodeCount(uint64(x.index), indexChars)
	if both && sizage.OS > 0 {
		soft += encodeCount(uint64(x.ondex), sizage.OS)
	}
	return x.code + soft + base64.RawURLEncoding.EncodeToString(x.raw)
}

// Qb2 renders the indexer in binary form.
func (x *Indexer) Qb2() []byte {
	b, _ := base64.RawURLEncoding.DecodeString(x.Qb64())
	return b
}

// NewIndexerFromQb64 parses an indexed signature at the start of s,
// returning it and the number of characters consumed.
func NewIndexerFromQb64(s string) (*Indexer, int, error) {
	if len(s) < 1 {
		return nil, 0, fmt.Errorf("%w", ErrShortMaterial)
	}
	hs, isCounter, isOp := HardCodeClass(s[0])
	if isCounter || isOp {
		return nil, 0, fmt.Errorf("%w: not an indexer code", ErrDecodingCode)
	}
	if len(s) < hs {
		return nil, 0, fmt.Errorf("%w", ErrShortMaterial)
	}
	code := s[:hs]
	sizage, rawLen, both, ok := IndexerSizage(code)
	if !ok {
		return nil, 0, fmt.Errorf("%w: %q", ErrUnknownCode, code)
	}
	if sizage.FS == VarSize {
		return nil, 0, fmt.Errorf("%w: variable-length indexer codes are not parseable without an explicit length", ErrDecodingCode)
	}
	if len(s) < sizage.FS {
		return nil, 0, fmt.Errorf("%w", ErrShortMaterial)
	}
	indexChars := sizage.SS - sizage.OS
	pos := hs
	index, err := decodeCount(s[pos : pos+indexChars])
	if err != nil {
		return nil, 0, err
	}
	pos += indexChars
	var ondex uint64
	hasOndex := false
	if both && sizage.OS > 0 {
		ondex, err = decodeCount(s[pos : pos+sizage.OS])
		if err != nil {
			return nil, 0, err
		}
		hasOndex = true
		pos += sizage.OS
	} else if both {
		ondex = index
		hasOndex = true
	}
	raw, err := base64.RawURLEncoding.DecodeString(s[pos:sizage.FS])
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrDecodingCode, err)
	}
	if len(raw) != rawLen {
		return nil, 0, fmt.Errorf("%w: code %q decoded %d bytes, wanted %d", ErrBadRawSize, code, len(raw), rawLen)
	}
	idx := &Indexer{code: code, index: uint32(index), ondex: uint32(ondex), hasOndex: hasOndex, raw: raw}
	return idx, sizage.FS, nil
}
