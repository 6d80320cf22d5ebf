package said

import (
	"crypto/ed25519"
	"fmt"

	"github.com/cloudflare/circl/sign/ed448"
	"github.com/datatrails/go-keri-core/cesr"
)

// Verfer is a public verification key primitive: a CESR Matter plus
// whether the key is transferable (able to be rotated away from).
type Verfer struct {
	matter       *cesr.Matter
	transferable bool
}

// NewVerfer builds a Verfer from a raw public key. code must be one of the
// Ed25519/Ed448 transferable or non-transferable Matter codes; transferable
// must agree with the code's own N-suffix convention.
func NewVerfer(code string, transferable bool, pub any) (*Verfer, error) {
	var raw []byte
	switch p := pub.(type) {
	case ed25519.PublicKey:
		raw = []byte(p)
	case ed448.PublicKey:
		raw = p[:]
	case []byte:
		raw = p
	default:
		return nil, fmt.Errorf("%w: unsupported public key type %T", ErrBadKeyLength, pub)
	}
	actualCode := code
	if !transferable {
		switch code {
		case cesr.CodeEd25519:
			actualCode = cesr.CodeEd25519N
		case cesr.CodeEd448:
			actualCode = cesr.CodeEd448N
		}
	}
	m, err := cesr.NewMatterWithRaw(actualCode, raw)
	if err != nil {
		return nil, err
	}
	return &Verfer{matter: m, transferable: transferable}, nil
}

// NewVerferFromQb64 parses an existing verification-key primitive, deriving
// transferability from the code.
func NewVerferFromQb64(qb64 string) (*Verfer, error) {
	m, err := cesr.NewMatterFromQb64(qb64)
	if err != nil {
		return nil, err
	}
	transferable := true
	switch m.Code() {
	case cesr.CodeEd25519N, cesr.CodeEd448N:
		transferable = false
	case cesr.CodeEd25519, cesr.CodeEd448:
		transferable = true
	default:
		return nil, fmt.Errorf("%w: %q is not a verification-key code", ErrBadSignatureCode, m.Code())
	}
	return &Verfer{matter: m, transferable: transferable}, nil
}

// Qb64 returns the key's text form.
func (v *Verfer) Qb64() string { return v.matter.Qb64() }

// Transferable reports whether this key may be rotated away from.
func (v *Verfer) Transferable() bool { return v.transferable }

// Raw returns the raw public key bytes.
func (v *Verfer) Raw() []byte { return v.matter.Raw() }

func (v *Verfer) isEd448() bool {
	switch v.matter.Code() {
	case cesr.CodeEd448, cesr.CodeEd448N:
		return true
	default:
		return false
	}
}

// VerifyIndexed verifies an indexed signature against ser.
func (v *Verfer) VerifyIndexed(ser []byte, sig *cesr.Indexer) bool {
	return v.verifyRaw(ser, sig.Raw())
}

// VerifyMatter verifies a plain (non-indexed) signature against ser.
func (v *Verfer) VerifyMatter(ser []byte, sig *cesr.Matter) bool {
	return v.verifyRaw(ser, sig.Raw())
}

func (v *Verfer) verifyRaw(ser, sig []byte) bool {
	if v.isEd448() {
		pub := ed448.PublicKey(v.Raw())
		return ed448.Verify(pub, ser, sig, "")
	}
	return ed25519.Verify(ed25519.PublicKey(v.Raw()), ser, sig)
}
