package said

import (
	"fmt"

	"github.com/datatrails/go-keri-core/cesr"
	"golang.org/x/crypto/blake2b"
)

// Salter holds raw salt/seed material (randomness policy is the caller's
// responsibility per spec.md's scope) and stretches it, keyed by a path
// string, into deterministic per-key seeds: the same (salt, path) always
// yields the same seed, and distinct paths yield independent seeds.
type Salter struct {
	matter *cesr.Matter
}

// NewSalter wraps 16 bytes of raw salt material as a Salt_128 primitive.
func NewSalter(raw []byte) (*Salter, error) {
	m, err := cesr.NewMatterWithRaw(cesr.CodeSalt128, raw)
	if err != nil {
		return nil, err
	}
	return &Salter{matter: m}, nil
}

// NewSalterFromQb64 parses an existing salt primitive.
func NewSalterFromQb64(qb64 string) (*Salter, error) {
	m, err := cesr.NewMatterFromQb64(qb64)
	if err != nil {
		return nil, err
	}
	if m.Code() != cesr.CodeSalt128 {
		return nil, fmt.Errorf("%w: expected salt code %q, got %q", ErrBadKeyLength, cesr.CodeSalt128, m.Code())
	}
	return &Salter{matter: m}, nil
}

// Qb64 returns the salt's text form.
func (s *Salter) Qb64() string { return s.matter.Qb64() }

// Stretch derives n bytes of key seed material for path, using the salt as
// a Blake2b-512 MAC key over the path string (a keyed hash, not a
// general-purpose slow KDF, matching the spec's stance that entropy policy
// and key-stretching cost are caller/policy concerns, not normative here).
func (s *Salter) Stretch(path string, n int) ([]byte, error) {
	h, err := blake2b.New512(s.matter.Raw())
	if err != nil {
		return nil, fmt.Errorf("said: initializing salt MAC: %w", err)
	}
	h.Write([]byte(path))
	sum := h.Sum(nil)
	out := make([]byte, 0, n)
	counter := byte(0)
	for len(out) < n {
		h2, _ := blake2b.New512(s.matter.Raw())
		h2.Write(sum)
		h2.Write([]byte{counter})
		out = append(out, h2.Sum(nil)...)
		counter++
	}
	return out[:n], nil
}

// SignerAt derives a Signer for path: an Ed25519 (or, if ed448 is true, an
// Ed448) private key seeded deterministically from this salt.
func (s *Salter) SignerAt(path string, ed448 bool, transferable bool) (*Signer, error) {
	n := 32
	if ed448 {
		n = 57
	}
	seed, err := s.Stretch(path, n)
	if err != nil {
		return nil, err
	}
	return NewSignerFromSeed(seed, ed448, transferable)
}
