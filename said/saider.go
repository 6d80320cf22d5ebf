package said

import (
	"encoding/json"
	"fmt"
)

// DefaultLabel is the field SAIDs are conventionally computed over ("d").
const DefaultLabel = "d"

// Saider computes and verifies the SAID of a SAD: the digest of the
// SAD, serialized with all SAID-labelled fields replaced by the all-'#'
// placeholder of the same code and size, written back into the SAID field.
type Saider struct {
	diger *Diger
}

// Saidify computes the SAID of sad at label under code (default
// Blake3_256), returning the SAID qb64 string and a clone of sad with the
// computed SAID written back at label. The returned Dat is a fixed point:
// re-running Saidify on it reproduces the same SAID.
func Saidify(sad *Dat, code string, label string) (string, *Dat, error) {
	if code == "" {
		code = DefaultDigestCode()
	}
	if label == "" {
		label = DefaultLabel
	}
	work := sad.Clone()
	placeholder, err := Placeholder(code)
	if err != nil {
		return "", nil, err
	}
	work.Set(label, NewString(placeholder))

	ser, err := json.Marshal(work)
	if err != nil {
		return "", nil, fmt.Errorf("said: serializing SAD: %w", err)
	}
	diger, err := NewDiger(code, ser)
	if err != nil {
		return "", nil, err
	}
	saidQb64 := diger.Qb64()
	work.Set(label, NewString(saidQb64))
	return saidQb64, work, nil
}

// DefaultDigestCode is the digest code used when callers don't specify one.
func DefaultDigestCode() string { return "E" }

// Verify reports whether sad's value at label is the fixed point: replacing
// it with a placeholder of the same code/size and rehashing reproduces the
// stored value. When ignore is non-empty, those additional labels are also
// replaced with placeholders before hashing (for SADs whose SAID covers
// more than one self-addressing field).
func Verify(sad *Dat, label string, ignore ...string) (bool, error) {
	if label == "" {
		label = DefaultLabel
	}
	stored := sad.Get(label)
	if stored == nil || !stored.IsString() {
		return false, fmt.Errorf("%w: %q", ErrMissingLabel, label)
	}
	saidQb64 := stored.String()
	diger, err := NewDigerFromQb64(saidQb64)
	if err != nil {
		return false, err
	}

	work := sad.Clone()
	placeholder, err := Placeholder(diger.Code())
	if err != nil {
		return false, err
	}
	work.Set(label, NewString(placeholder))
	for _, l := range ignore {
		if v := work.Get(l); v != nil {
			work.Set(l, NewString(placeholder))
		}
	}

	ser, err := json.Marshal(work)
	if err != nil {
		return false, fmt.Errorf("said: serializing SAD: %w", err)
	}
	return diger.Verify(ser), nil
}
