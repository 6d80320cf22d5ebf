package said

import (
	"fmt"

	"github.com/datatrails/go-keri-core/cesr"
	"github.com/zeebo/blake3"
	"golang.org/x/crypto/blake2b"
)

// Diger is a digest primitive: a CESR Matter whose raw bytes are the
// digest of some input under the code's algorithm.
type Diger struct {
	matter *cesr.Matter
}

// digestFuncs maps a Matter digest code to the hash function producing it.
var digestFuncs = map[string]func([]byte) []byte{
	cesr.CodeBlake3_256: func(b []byte) []byte {
		sum := blake3.Sum256(b)
		return sum[:]
	},
	cesr.CodeBlake2b_256: func(b []byte) []byte {
		sum := blake2b.Sum256(b)
		return sum[:]
	},
}

// NewDiger computes the digest of ser under code (default Blake3_256 if
// code is empty).
func NewDiger(code string, ser []byte) (*Diger, error) {
	if code == "" {
		code = cesr.CodeBlake3_256
	}
	fn, ok := digestFuncs[code]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrBadDigestCode, code)
	}
	raw := fn(ser)
	m, err := cesr.NewMatterWithRaw(code, raw)
	if err != nil {
		return nil, err
	}
	return &Diger{matter: m}, nil
}

// NewDigerFromQb64 parses an existing digest primitive.
func NewDigerFromQb64(qb64 string) (*Diger, error) {
	m, err := cesr.NewMatterFromQb64(qb64)
	if err != nil {
		return nil, err
	}
	if _, ok := digestFuncs[m.Code()]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrBadDigestCode, m.Code())
	}
	return &Diger{matter: m}, nil
}

// Qb64 returns the digest's text form.
func (d *Diger) Qb64() string { return d.matter.Qb64() }

// Code returns the digest's code.
func (d *Diger) Code() string { return d.matter.Code() }

// Raw returns the raw digest bytes.
func (d *Diger) Raw() []byte { return d.matter.Raw() }

// Verify reports whether ser digests, under this Diger's code, to this
// Diger's value.
func (d *Diger) Verify(ser []byte) bool {
	fn, ok := digestFuncs[d.matter.Code()]
	if !ok {
		return false
	}
	sum := fn(ser)
	if len(sum) != len(d.matter.Raw()) {
		return false
	}
	for i := range sum {
		if sum[i] != d.matter.Raw()[i] {
			return false
		}
	}
	return true
}

// Placeholder returns the all-'#' placeholder qb64 string for this digest
// code's full size, used to zero out a SAID-labelled field before hashing.
func Placeholder(code string) (string, error) {
	sizage, _, ok := cesr.MatterSizage(code)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrBadDigestCode, code)
	}
	out := make([]byte, sizage.FS)
	for i := range out {
		out[i] = '#'
	}
	return string(out), nil
}
