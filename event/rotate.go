package event

import "github.com/datatrails/go-keri-core/said"

// RotateArgs bundles rotate's parameters.
type RotateArgs struct {
	Pre   string
	Dig   string // prior event SAID
	Sn    uint64
	Ilk   string // "rot" or "drt"
	Keys  []string
	Sith  *said.Tholder
	Ndigs []string
	Nsith *said.Tholder
	Toad  *int
	Wits  []string // current witness set before this rotation
	Cuts  []string
	Adds  []string
	Data  []*said.Dat
}

func stringSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, s := range items {
		set[s] = true
	}
	return set
}

// Rotate builds a rotation event (rot or drt) per §4.2: sn >= 1, disjoint
// cuts/adds, new witness set (wits - cuts) + adds, toad recomputed over
// that new set unless explicitly overridden.
func Rotate(a RotateArgs) (*Sad, error) {
	if a.Sn < 1 {
		return nil, ErrBadSequence
	}
	cuts := stringSet(a.Cuts)
	adds := stringSet(a.Adds)
	for c := range cuts {
		if adds[c] {
			return nil, ErrCutsAddsOverlap
		}
	}
	wits := stringSet(a.Wits)
	for ad := range adds {
		if wits[ad] {
			return nil, ErrWitsAddsOverlap
		}
	}

	var newWits []string
	for _, w := range a.Wits {
		if !cuts[w] {
			newWits = append(newWits, w)
		}
	}
	newWits = append(newWits, a.Adds...)

	sith := a.Sith
	if sith == nil {
		sith = defaultSith(len(a.Keys))
	}
	nsith := a.Nsith
	if nsith == nil {
		nsith = defaultNsith(len(a.Ndigs))
	}
	toad := Ample(len(newWits))
	if a.Toad != nil {
		toad = *a.Toad
	}

	ilk := a.Ilk
	if ilk == "" {
		ilk = "rot"
	}

	ked := said.NewObject()
	ked.Set("v", said.NewString(""))
	ked.Set("t", said.NewString(ilk))
	ked.Set("d", said.NewString(""))
	ked.Set("i", said.NewString(a.Pre))
	ked.Set("s", said.NewString(hexUint(a.Sn)))
	ked.Set("p", said.NewString(a.Dig))
	ked.Set("kt", tholderField(sith))
	ked.Set("k", datArray(a.Keys))
	ked.Set("nt", tholderField(nsith))
	ked.Set("n", datArray(a.Ndigs))
	ked.Set("bt", said.NewString(hexInt(toad)))
	ked.Set("br", datArray(a.Cuts))
	ked.Set("ba", datArray(a.Adds))
	ked.Set("a", seals(a.Data))

	return finalize(ProtocolKERI, ked, "d")
}
