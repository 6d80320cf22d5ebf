package event

import (
	"fmt"

	"github.com/datatrails/go-keri-core/said"
)

// ParseVerfers reads an event's "k" current-signing-key list into Verfers.
func ParseVerfers(ked *said.Dat) ([]*said.Verfer, error) {
	k := ked.Get("k")
	if k == nil || !k.IsArray() {
		return nil, fmt.Errorf("%w: missing or malformed \"k\"", ErrBadLabelSet)
	}
	items := k.Items()
	out := make([]*said.Verfer, len(items))
	for i, it := range items {
		v, err := said.NewVerferFromQb64(it.String())
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// ParseDigers reads an event's "n" next-key-digest list into Digers.
func ParseDigers(ked *said.Dat) ([]*said.Diger, error) {
	n := ked.Get("n")
	if n == nil || !n.IsArray() {
		return nil, fmt.Errorf("%w: missing or malformed \"n\"", ErrBadLabelSet)
	}
	items := n.Items()
	out := make([]*said.Diger, len(items))
	for i, it := range items {
		d, err := said.NewDigerFromQb64(it.String())
		if err != nil {
			return nil, err
		}
		out[i] = d
	}
	return out, nil
}

// IsEstablishment reports whether ilk is an establishment event kind.
func IsEstablishment(ilk string) bool {
	switch ilk {
	case "icp", "rot", "dip", "drt":
		return true
	default:
		return false
	}
}
