package event

// Field label sets per ilk, used to validate a parsed event's shape before
// any cryptographic check runs (§4.4 step 7).
var (
	IcpLabels = []string{"v", "t", "d", "i", "s", "kt", "k", "nt", "n", "bt", "b", "c", "a"}
	DipLabels = append(append([]string{}, IcpLabels...), "di")
	RotLabels = []string{"v", "t", "d", "i", "s", "p", "kt", "k", "nt", "n", "bt", "br", "ba", "a"}
	DrtLabels = append(append([]string{}, RotLabels...), "di")
	IxnLabels = []string{"v", "t", "d", "i", "s", "p", "a"}

	VcpLabels = []string{"v", "t", "d", "i", "ii", "s", "c", "b", "bt", "dt"}
	IssLabels = []string{"v", "t", "d", "i", "s", "ri", "dt", "n"}
	RevLabels = []string{"v", "t", "d", "i", "s", "ri", "p", "dt"}
)

// LabelsForIlk returns the expected field set for an event ilk.
func LabelsForIlk(ilk string) ([]string, bool) {
	switch ilk {
	case "icp":
		return IcpLabels, true
	case "dip":
		return DipLabels, true
	case "rot":
		return RotLabels, true
	case "drt":
		return DrtLabels, true
	case "ixn":
		return IxnLabels, true
	case "vcp":
		return VcpLabels, true
	case "iss":
		return IssLabels, true
	case "rev":
		return RevLabels, true
	default:
		return nil, false
	}
}

// ValidateLabels checks that ked's field set exactly matches the expected
// labels for ilk (order-independent; every expected field must be present
// and no unexpected field may appear).
func ValidateLabels(ked interface{ Keys() []string }, ilk string) error {
	expected, ok := LabelsForIlk(ilk)
	if !ok {
		return ErrUnknownIlk
	}
	want := make(map[string]bool, len(expected))
	for _, l := range expected {
		want[l] = true
	}
	have := make(map[string]bool, len(expected))
	for _, k := range ked.Keys() {
		have[k] = true
	}
	if len(have) != len(want) {
		return ErrBadLabelSet
	}
	for l := range want {
		if !have[l] {
			return ErrBadLabelSet
		}
	}
	return nil
}
