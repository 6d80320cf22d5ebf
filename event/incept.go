package event

import (
	"strconv"

	"github.com/datatrails/go-keri-core/said"
)

// InceptArgs bundles incept's optional parameters. Keys is required; all
// else, Ndigs included, may be left empty and defaults per §4.2.
type InceptArgs struct {
	Keys  []string // current signing keys, qb64
	Sith  *said.Tholder
	Ndigs []string // next-key digests, qb64
	Nsith *said.Tholder
	Toad  *int
	Wits  []string // witness prefixes
	Cnfg  []string // config traits, e.g. "EO"
	Data  []*said.Dat
	// DelegatorPrefix, when non-empty, marks this inception as delegated
	// (dip); it requires a digestive prefix.
	DelegatorPrefix string
}

func ceilHalf(n int) int {
	return (n + 1) / 2
}

func defaultSith(n int) *said.Tholder {
	m := ceilHalf(n)
	if m < 1 {
		m = 1
	}
	return said.NewTholderFromInt(m, n)
}

func defaultNsith(n int) *said.Tholder {
	m := ceilHalf(n)
	if m < 0 {
		m = 0
	}
	return said.NewTholderFromInt(m, n)
}

func requireUniqueWitnesses(wits []string) error {
	seen := make(map[string]bool, len(wits))
	for _, w := range wits {
		if seen[w] {
			return ErrBadWitnessSet
		}
		seen[w] = true
	}
	return nil
}

func datArray(items []string) *said.Dat {
	vals := make([]*said.Dat, len(items))
	for i, v := range items {
		vals[i] = said.NewString(v)
	}
	return said.NewArray(vals...)
}

func tholderField(th *said.Tholder) *said.Dat {
	if th.Weighted() {
		panic("event: weighted Tholder rendering is not yet implemented for wire fields")
	}
	return said.NewString(strconv.FormatInt(int64(th.M()), 16))
}

// Incept builds an inception event (icp, or dip if DelegatorPrefix is
// set) per §4.2: default thresholds, ample-derived toad, and prefix
// derivation (non-digestive for a lone undelegated key, digestive
// otherwise).
func Incept(a InceptArgs) (*Sad, error) {
	if err := requireUniqueWitnesses(a.Wits); err != nil {
		return nil, err
	}
	sith := a.Sith
	if sith == nil {
		sith = defaultSith(len(a.Keys))
	}
	nsith := a.Nsith
	if nsith == nil {
		nsith = defaultNsith(len(a.Ndigs))
	}
	toad := Ample(len(a.Wits))
	if a.Toad != nil {
		toad = *a.Toad
	}

	delegated := a.DelegatorPrefix != ""
	nonDigestive := !delegated && len(a.Keys) == 1

	ilk := "icp"
	if delegated {
		ilk = "dip"
	}

	ked := said.NewObject()
	ked.Set("v", said.NewString(""))
	ked.Set("t", said.NewString(ilk))
	ked.Set("d", said.NewString(""))
	ked.Set("i", said.NewString(""))
	ked.Set("s", said.NewString("0"))
	ked.Set("kt", tholderField(sith))
	ked.Set("k", datArray(a.Keys))
	ked.Set("nt", tholderField(nsith))
	ked.Set("n", datArray(a.Ndigs))
	ked.Set("bt", said.NewString(strconv.FormatInt(int64(toad), 16)))
	ked.Set("b", datArray(a.Wits))
	ked.Set("c", datArray(a.Cnfg))
	if delegated {
		ked.Set("di", said.NewString(a.DelegatorPrefix))
	}
	ked.Set("a", seals(a.Data))

	if nonDigestive {
		prefixer := said.NewPrefixer(a.Keys[0])
		ked.Set("i", said.NewString(prefixer.Pre()))
		sad, err := finalize(ProtocolKERI, ked, "d")
		if err != nil {
			return nil, err
		}
		return sad, nil
	}

	final, err := finalize(ProtocolKERI, ked, "d", "i")
	if err != nil {
		return nil, err
	}
	return final, nil
}

func seals(data []*said.Dat) *said.Dat {
	if len(data) == 0 {
		return said.NewArray()
	}
	return said.NewArray(data...)
}
