package event

import (
	"encoding/json"
	"fmt"

	"github.com/datatrails/go-keri-core/said"
)

// Sad is the versioned-SAD wrapper common to every event and credential
// body (KE, TE, ACDC): the tagged JSON map itself, its serialized form, and
// its SAID, with "t" acting as the variant tag (§9 "versioned SAD trait").
type Sad struct {
	ked  *said.Dat
	raw  []byte
	said string
	ilk  string
}

// Ked returns the underlying field map.
func (s *Sad) Ked() *said.Dat { return s.ked }

// Raw returns the exact serialized bytes the SAID was computed over.
func (s *Sad) Raw() []byte { return s.raw }

// Said returns the body's SAID (its "d" field).
func (s *Sad) Said() string { return s.said }

// Ilk returns the event/credential kind tag (the "t" field, empty for
// ACDCs which carry no "t").
func (s *Sad) Ilk() string { return s.ilk }

// finalize fixes up a draft SAD's version-string size and SAID in the
// two-pass manner the wire format requires: the "v" field's size digits
// depend on the serialized length, which itself depends on "v" having a
// value already in place of the same length — so the placeholder pass and
// the final pass always agree on length. extraLabels, when given, also
// receive the computed SAID (the self-addressing "i" field of a digestive
// inception event, which must equal "d").
func finalize(proto Protocol, draft *said.Dat, label string, extraLabels ...string) (*Sad, error) {
	code := said.DefaultDigestCode()
	placeholder, err := said.Placeholder(code)
	if err != nil {
		return nil, err
	}

	work := draft.Clone()
	work.Set("v", said.NewString(BuildVersionString(proto, 0)))
	work.Set(label, said.NewString(placeholder))
	for _, l := range extraLabels {
		work.Set(l, said.NewString(placeholder))
	}
	probe, err := json.Marshal(work)
	if err != nil {
		return nil, fmt.Errorf("event: sizing SAD: %w", err)
	}
	size := len(probe)

	work.Set("v", said.NewString(BuildVersionString(proto, size)))
	ser, err := json.Marshal(work)
	if err != nil {
		return nil, fmt.Errorf("event: serializing SAD: %w", err)
	}
	diger, err := said.NewDiger(code, ser)
	if err != nil {
		return nil, err
	}
	saidQb64 := diger.Qb64()

	work.Set(label, said.NewString(saidQb64))
	for _, l := range extraLabels {
		work.Set(l, said.NewString(saidQb64))
	}
	raw, err := json.Marshal(work)
	if err != nil {
		return nil, fmt.Errorf("event: serializing SAD: %w", err)
	}

	ilk := ""
	if t := work.Get("t"); t != nil {
		ilk = t.String()
	}
	return &Sad{ked: work, raw: raw, said: saidQb64, ilk: ilk}, nil
}

// ParseSad decodes a wire body into a Sad without recomputing its SAID;
// callers that need to verify it call said.Verify (or the Saider wrapper)
// separately against the parsed Ked. raw must contain exactly one body and
// nothing else; use ParseSadPrefix when a trailing attachment group
// follows the body in the same buffer.
func ParseSad(raw []byte) (*Sad, error) {
	sad, n, err := ParseSadPrefix(raw)
	if err != nil {
		return nil, err
	}
	if n != len(raw) {
		return nil, fmt.Errorf("event: trailing bytes after SAD body")
	}
	return sad, nil
}

// ParseSadPrefix decodes the leading SAD body out of raw and reports how
// many bytes it consumed, leaving any trailing attachment group for the
// caller to parse separately (e.g. via attach.ParseGroups).
func ParseSadPrefix(raw []byte) (*Sad, int, error) {
	ked, n, err := said.ParseDatPrefix(raw)
	if err != nil {
		return nil, 0, err
	}
	d := ked.Get("d")
	if d == nil || !d.IsString() {
		return nil, 0, fmt.Errorf("%w: missing \"d\" field", said.ErrMissingLabel)
	}
	ilk := ""
	if t := ked.Get("t"); t != nil {
		ilk = t.String()
	}
	return &Sad{ked: ked, raw: raw[:n], said: d.String(), ilk: ilk}, n, nil
}
