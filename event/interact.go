package event

import "github.com/datatrails/go-keri-core/said"

// Interact builds a minimal non-establishment event (ixn): sn >= 1,
// anchoring data seals against the prior event.
func Interact(pre, dig string, sn uint64, data []*said.Dat) (*Sad, error) {
	if sn < 1 {
		return nil, ErrBadSequence
	}
	ked := said.NewObject()
	ked.Set("v", said.NewString(""))
	ked.Set("t", said.NewString("ixn"))
	ked.Set("d", said.NewString(""))
	ked.Set("i", said.NewString(pre))
	ked.Set("s", said.NewString(hexUint(sn)))
	ked.Set("p", said.NewString(dig))
	ked.Set("a", seals(data))

	return finalize(ProtocolKERI, ked, "d")
}
