package event

import "github.com/datatrails/go-keri-core/said"

// CredentialArgs bundles NewCredential's parameters. Attributes, Edges, and
// Rules are caller-built Dat values; Attributes must not already carry a
// "d" field (NewCredential adds and SAIDifies it).
type CredentialArgs struct {
	Issuer     string
	RegistryID string
	SchemaSaid string
	Attributes *said.Dat
	Edges      *said.Dat // optional: a single edge object or a list of them
	Rules      *said.Dat // optional
	Nonce      string    // optional "u" selective-disclosure salt
}

// EdgeNode builds a single edge's node value {n, s?, o?}.
func EdgeNode(credentialSaid, schemaSaid, operator string) *said.Dat {
	node := said.NewObject()
	node.Set("n", said.NewString(credentialSaid))
	if schemaSaid != "" {
		node.Set("s", said.NewString(schemaSaid))
	}
	if operator != "" {
		node.Set("o", said.NewString(operator))
	}
	return node
}

// NewCredential builds an ACDC credential body: the attributes block is
// SAIDified under its own "d" label first (it is itself a SAD), then
// embedded and the whole credential is SAIDified under its "d".
func NewCredential(a CredentialArgs) (*Sad, error) {
	attrs := a.Attributes.Clone()
	attrs.Set("d", said.NewString(""))
	_, attrsFinal, err := said.Saidify(attrs, "", "d")
	if err != nil {
		return nil, err
	}

	ked := said.NewObject()
	ked.Set("v", said.NewString(""))
	ked.Set("d", said.NewString(""))
	ked.Set("i", said.NewString(a.Issuer))
	ked.Set("ri", said.NewString(a.RegistryID))
	ked.Set("s", said.NewString(a.SchemaSaid))
	ked.Set("a", attrsFinal)
	if a.Edges != nil {
		ked.Set("e", a.Edges)
	}
	if a.Rules != nil {
		ked.Set("r", a.Rules)
	}
	if a.Nonce != "" {
		ked.Set("u", said.NewString(a.Nonce))
	}

	return finalize(ProtocolACDC, ked, "d")
}
