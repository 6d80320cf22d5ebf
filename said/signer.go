package said

import (
	"crypto/ed25519"
	"fmt"

	"github.com/cloudflare/circl/sign/ed448"
	"github.com/datatrails/go-keri-core/cesr"
)

// Signer holds private key material and the matching Verfer. Private key
// bytes are held only as long as the Signer itself is reachable; callers
// embedding a Signer in a KeySet are responsible for its lifetime.
type Signer struct {
	ed448  bool
	seed   []byte
	priv   ed25519.PrivateKey
	privK  ed448.PrivateKey
	verfer *Verfer
}

// NewSignerFromSeed derives a Signer from raw seed bytes (32 bytes for
// Ed25519, 57 for Ed448).
func NewSignerFromSeed(seed []byte, isEd448 bool, transferable bool) (*Signer, error) {
	if isEd448 {
		if len(seed) != ed448.SeedSize {
			return nil, fmt.Errorf("%w: ed448 seed wants %d bytes, got %d", ErrBadKeyLength, ed448.SeedSize, len(seed))
		}
		priv := ed448.NewKeyFromSeed(seed)
		pub := priv.Public().(ed448.PublicKey)
		verfer, err := NewVerfer(cesr.CodeEd448, transferable, pub)
		if err != nil {
			return nil, err
		}
		return &Signer{ed448: true, seed: append([]byte(nil), seed...), privK: priv, verfer: verfer}, nil
	}
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("%w: ed25519 seed wants %d bytes, got %d", ErrBadKeyLength, ed25519.SeedSize, len(seed))
	}
	priv := ed25519.NewKeyFromSeed(seed)
	pub := priv.Public().(ed25519.PublicKey)
	verfer, err := NewVerfer(cesr.CodeEd25519, transferable, pub)
	if err != nil {
		return nil, err
	}
	return &Signer{ed448: false, seed: append([]byte(nil), seed...), priv: priv, verfer: verfer}, nil
}

// Qb64 returns the seed's text form (Ed25519_Seed or Ed448_Seed code).
func (s *Signer) Qb64() string {
	code := cesr.CodeEd25519Seed
	if s.ed448 {
		code = cesr.CodeEd448Seed
	}
	m, _ := cesr.NewMatterWithRaw(code, s.seed)
	return m.Qb64()
}

// Verfer returns the signer's matching public-key primitive.
func (s *Signer) Verfer() *Verfer { return s.verfer }

// Sign signs ser with an indexed signature, recording index (and, when
// bothLists, the same value as ondex so the signature applies to both the
// current and prior-next key lists).
func (s *Signer) Sign(ser []byte, index uint32, bothLists bool) (*cesr.Indexer, error) {
	var sig []byte
	if s.ed448 {
		sig = ed448.Sign(s.privK, ser, "")
	} else {
		sig = ed25519.Sign(s.priv, ser)
	}
	code := cesr.CodeEd25519SigCurrent
	if s.ed448 {
		code = cesr.CodeEd448SigCurrent
	}
	if bothLists {
		if s.ed448 {
			code = cesr.CodeEd448SigBoth
		} else {
			code = cesr.CodeEd25519SigBoth
		}
	}
	return cesr.NewIndexer(code, index, index, bothLists, sig)
}

// SignNonIndexed signs ser with a plain (non-indexed) Matter signature,
// used for witness receipt Cigars.
func (s *Signer) SignNonIndexed(ser []byte) (*cesr.Matter, error) {
	if s.ed448 {
		sig := ed448.Sign(s.privK, ser, "")
		return cesr.NewMatterWithRaw(cesr.CodeEd448Sig, sig)
	}
	sig := ed25519.Sign(s.priv, ser)
	return cesr.NewMatterWithRaw(cesr.CodeEd25519Sig, sig)
}

// Zero overwrites the signer's private key material in place. Callers that
// hold a Signer past the surrounding signing call are responsible for
// invoking this once the key is no longer needed.
func (s *Signer) Zero() {
	for i := range s.seed {
		s.seed[i] = 0
	}
	for i := range s.priv {
		s.priv[i] = 0
	}
	for i := range s.privK {
		s.privK[i] = 0
	}
}
