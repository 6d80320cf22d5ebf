package event

import (
	"github.com/datatrails/go-keri-core/cesr"
	"github.com/datatrails/go-keri-core/said"
)

// Vcp builds a registry-inception transaction event: s="0", c=["NB"],
// b=[], bt="0", ii=issuer, with the registry's own identifier equal to the
// event's SAID (self-addressed).
func Vcp(issuer, dt string) (*Sad, error) {
	ked := said.NewObject()
	ked.Set("v", said.NewString(""))
	ked.Set("t", said.NewString("vcp"))
	ked.Set("d", said.NewString(""))
	ked.Set("i", said.NewString(""))
	ked.Set("ii", said.NewString(issuer))
	ked.Set("s", said.NewString("0"))
	ked.Set("c", datArray([]string{"NB"}))
	ked.Set("b", datArray(nil))
	ked.Set("bt", said.NewString("0"))
	ked.Set("dt", said.NewString(dt))

	return finalize(ProtocolKERI, ked, "d", "i")
}

// nonce derives a fresh salt-coded nonce for an Iss event's "n" field from
// the given salter and derivation path.
func nonce(salter *said.Salter, path string) (string, error) {
	raw, err := salter.Stretch(path, 16)
	if err != nil {
		return "", err
	}
	m, err := cesr.NewMatterWithRaw(cesr.CodeSalt128, raw)
	if err != nil {
		return "", err
	}
	return m.Qb64(), nil
}

// Iss builds a credential-issuance transaction event: s="0", a fresh
// salt-derived "n" nonce, anchored into registryID.
func Iss(credentialSaid, registryID, dt string, salter *said.Salter, noncePath string) (*Sad, error) {
	n, err := nonce(salter, noncePath)
	if err != nil {
		return nil, err
	}
	ked := said.NewObject()
	ked.Set("v", said.NewString(""))
	ked.Set("t", said.NewString("iss"))
	ked.Set("d", said.NewString(""))
	ked.Set("i", said.NewString(credentialSaid))
	ked.Set("s", said.NewString("0"))
	ked.Set("ri", said.NewString(registryID))
	ked.Set("dt", said.NewString(dt))
	ked.Set("n", said.NewString(n))

	return finalize(ProtocolKERI, ked, "d")
}

// Rev builds a credential-revocation transaction event: s="1", p equal to
// the prior iss event's SAID.
func Rev(credentialSaid, registryID, priorIssSaid, dt string) (*Sad, error) {
	ked := said.NewObject()
	ked.Set("v", said.NewString(""))
	ked.Set("t", said.NewString("rev"))
	ked.Set("d", said.NewString(""))
	ked.Set("i", said.NewString(credentialSaid))
	ked.Set("s", said.NewString("1"))
	ked.Set("ri", said.NewString(registryID))
	ked.Set("p", said.NewString(priorIssSaid))
	ked.Set("dt", said.NewString(dt))

	return finalize(ProtocolKERI, ked, "d")
}
