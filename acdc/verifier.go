// Package acdc verifies ACDC credentials against a Store and a schema
// cache per §4.6: status/expiry/revocation, schema validation, a rooted
// signature requirement, and cycle-safe edge-operator recursion.
package acdc

import (
	"context"
	"errors"
	"time"

	"github.com/datatrails/go-keri-core/attach"
	"github.com/datatrails/go-keri-core/event"
	"github.com/datatrails/go-keri-core/kerr"
	"github.com/datatrails/go-keri-core/said"
	"github.com/datatrails/go-keri-core/schema"
	"github.com/datatrails/go-keri-core/store"
)

// DefaultExpiry is the spec's literal credential-status expiry constant
// (Open Question (a)): ~1140 years, effectively unbounded, exposed here as
// an overridable policy knob rather than hardcoded.
const DefaultExpiry = 36_000_000_000 * time.Second

// Option configures a Verifier.
type Option func(*Verifier)

// WithExpiry overrides the maximum age of a credential's latest TEL entry.
func WithExpiry(d time.Duration) Option {
	return func(v *Verifier) { v.expiry = d }
}

// WithClock overrides the verifier's notion of "now", for deterministic
// tests.
func WithClock(now func() time.Time) Option {
	return func(v *Verifier) { v.now = now }
}

// Verifier checks ACDC credentials against a Store and a schema Cache.
type Verifier struct {
	Store   store.Store
	Schemas *schema.Cache
	expiry  time.Duration
	now     func() time.Time
}

// NewVerifier builds a Verifier with the given Store and schema Cache.
func NewVerifier(st store.Store, schemas *schema.Cache, opts ...Option) *Verifier {
	v := &Verifier{Store: st, Schemas: schemas, expiry: DefaultExpiry, now: time.Now}
	for _, o := range opts {
		o(v)
	}
	return v
}

// Verify runs the ACDC verification algorithm (§4.6) for one credential,
// returning existing=true when this exact credential was already
// committed under its SAID.
func (v *Verifier) Verify(ctx context.Context, creder *event.Sad, atts *attach.Attachments, verifying map[string]bool) (bool, error) {
	ked := creder.Ked()

	ri := ked.Get("ri")
	if ri == nil || !ri.IsString() || ri.String() == "" {
		return false, kerr.New(kerr.Validation, ErrMissingRegistry, "credential %s", creder.Said())
	}
	ok, verr := said.Verify(ked, "d")
	if verr != nil {
		return false, kerr.New(kerr.Decoding, verr, "SAID verification for %s", creder.Said())
	}
	if !ok {
		return false, kerr.New(kerr.Verification, ErrBadSaid, "credential %s", creder.Said())
	}

	if err := v.checkStatus(ctx, creder); err != nil {
		return false, err
	}

	schemaSaid := ked.Get("s").String()
	validated, serr := v.Schemas.Verify(schemaSaid, creder.Raw())
	if serr != nil {
		return false, kerr.New(kerr.Validation, serr, "schema lookup for %s", creder.Said())
	}
	if !validated {
		return false, kerr.New(kerr.Validation, ErrSchemaFailed, "credential %s against schema %s", creder.Said(), schemaSaid)
	}

	if err := v.verifyRootedSignatures(ctx, creder, atts); err != nil {
		return false, err
	}

	if e := ked.Get("e"); e != nil {
		if err := v.verifyEdges(ctx, e, creder, verifying); err != nil {
			return false, err
		}
	}

	existing := false
	storedBlob, gerr := v.Store.GetACDC(ctx, creder.Said())
	switch {
	case gerr == nil:
		storedSad, _, berr := splitBlob(storedBlob)
		if berr != nil {
			return false, berr
		}
		if storedSad.Said() != creder.Said() {
			return false, kerr.New(kerr.Programmer, ErrDiverged, "said=%s", creder.Said())
		}
		existing = true
	case errors.Is(gerr, store.ErrNotFound):
		existing = false
	default:
		return false, gerr
	}

	return existing, nil
}

// checkStatus fetches the credential's latest transaction event, enforces
// the expiry policy against its "dt", and rejects a revoked credential
// (§4.6 steps 2-3).
func (v *Verifier) checkStatus(ctx context.Context, creder *event.Sad) error {
	count, err := v.Store.CountTransactionEvents(ctx, creder.Said())
	if err != nil {
		return err
	}
	if count == 0 {
		return kerr.New(kerr.Validation, ErrNoIssuance, "credential %s", creder.Said())
	}
	blob, gerr := v.Store.GetTransactionEvent(ctx, creder.Said(), count-1)
	if gerr != nil {
		return kerr.New(kerr.Validation, gerr, "fetching latest status for %s", creder.Said())
	}
	statusSad, _, err := event.ParseSadPrefix(blob)
	if err != nil {
		return kerr.New(kerr.Decoding, err, "parsing status event for %s", creder.Said())
	}

	if statusSad.Ilk() == "rev" {
		return kerr.New(kerr.Validation, ErrRevoked, "credential %s", creder.Said())
	}

	dtStr := statusSad.Ked().Get("dt").String()
	dt, perr := time.Parse(DateTimeLayout, dtStr)
	if perr != nil {
		return kerr.New(kerr.Decoding, perr, "parsing status timestamp for %s", creder.Said())
	}
	if v.now().Sub(dt) > v.expiry {
		return kerr.New(kerr.Validation, ErrExpired, "credential %s status dated %s", creder.Said(), dtStr)
	}
	return nil
}

// verifyRootedSignatures requires at least one SadPathSig group pathed at
// the root ("-") and, for every such group, that it anchors into an
// establishment KEL event whose threshold the group's signatures satisfy
// (§4.6 step 5, §9 design note (d): non-rooted groups are parsed but
// ignored, never rejected).
func (v *Verifier) verifyRootedSignatures(ctx context.Context, creder *event.Sad, atts *attach.Attachments) error {
	rooted := 0
	for _, g := range atts.SadPathSigGroups {
		if !g.Pather.IsRoot() {
			continue
		}
		rooted++

		blob, gerr := v.Store.GetKeyEvent(ctx, g.Group.Prefixer.Pre(), g.Group.Seqner.Sn())
		if gerr != nil {
			return kerr.New(kerr.Validation, gerr, "fetching establishment event for %s", creder.Said())
		}
		estSad, _, perr := event.ParseSadPrefix(blob)
		if perr != nil {
			return kerr.New(kerr.Decoding, perr, "parsing establishment event for %s", creder.Said())
		}
		if estSad.Said() != g.Group.Saider.Qb64() {
			return kerr.New(kerr.Verification, ErrRootedSaidMismatch, "credential %s", creder.Said())
		}

		verfers, verr := event.ParseVerfers(estSad.Ked())
		if verr != nil {
			return kerr.New(kerr.Validation, verr, "establishment keys for %s", creder.Said())
		}
		tholder, terr := event.ParseTholder(estSad.Ked(), "kt", len(verfers))
		if terr != nil {
			return kerr.New(kerr.Validation, terr, "establishment threshold for %s", creder.Said())
		}

		seen := make(map[int]bool, len(g.Group.Sigers))
		for _, siger := range g.Group.Sigers {
			idx := int(siger.Index())
			if seen[idx] {
				continue
			}
			if idx < 0 || idx >= len(verfers) {
				return kerr.New(kerr.Validation, ErrSignatureFailed, "signer index %d out of range", idx)
			}
			if !verfers[idx].VerifyIndexed(creder.Raw(), siger) {
				return kerr.New(kerr.Verification, ErrSignatureFailed, "signer index %d", idx)
			}
			seen[idx] = true
		}
		indices := make([]int, 0, len(seen))
		for idx := range seen {
			indices = append(indices, idx)
		}
		if !tholder.Satisfy(indices) {
			return kerr.New(kerr.Verification, ErrThresholdNotMet, "credential %s", creder.Said())
		}
	}
	if rooted == 0 {
		return kerr.New(kerr.Validation, ErrNoRootedSignature, "credential %s", creder.Said())
	}
	return nil
}

// verifyEdges walks e (a single edge object or a list of them), resolving
// each non-reserved key's node against its referenced credential and
// recursing into that credential's own verification, cycle-safe via
// verifying (§4.6 step 6).
func (v *Verifier) verifyEdges(ctx context.Context, e *said.Dat, creder *event.Sad, verifying map[string]bool) error {
	var blocks []*said.Dat
	if e.IsArray() {
		blocks = e.Items()
	} else {
		blocks = []*said.Dat{e}
	}
	for _, block := range blocks {
		if !block.IsObject() {
			continue
		}
		for _, label := range block.Keys() {
			if label == "d" {
				continue
			}
			node := block.Get(label)
			if err := v.verifyEdgeNode(ctx, node, creder, verifying); err != nil {
				return err
			}
		}
	}
	return nil
}

func (v *Verifier) verifyEdgeNode(ctx context.Context, node *said.Dat, creder *event.Sad, verifying map[string]bool) error {
	targetSaid := node.Get("n").String()
	if targetSaid == "" {
		return kerr.New(kerr.Validation, ErrMissingRegistry, "edge node missing \"n\" in %s", creder.Said())
	}

	blob, gerr := v.Store.GetACDC(ctx, targetSaid)
	if gerr != nil {
		return kerr.New(kerr.Validation, gerr, "fetching edge target %s for %s", targetSaid, creder.Said())
	}
	targetSad, targetAtts, berr := splitBlob(blob)
	if berr != nil {
		return berr
	}

	if pinned := node.Get("s"); pinned != nil && pinned.IsString() {
		if targetSad.Ked().Get("s").String() != pinned.String() {
			return kerr.New(kerr.Validation, ErrEdgeSchemaMismatch, "edge target %s for %s", targetSaid, creder.Said())
		}
	}

	op, err := resolveOperator(node, targetSad.Ked())
	if err != nil {
		return err
	}
	switch op {
	case "I2I":
		targetI := targetSad.Ked().Get("i")
		if targetI == nil || targetI.String() != creder.Ked().Get("i").String() {
			return kerr.New(kerr.Validation, ErrEdgeIssuerMismatch, "edge target %s for %s", targetSaid, creder.Said())
		}
	case "NI2I":
		// no further check
	case "DI2I":
		return kerr.New(kerr.Validation, ErrDI2IUnimplemented, "edge target %s for %s", targetSaid, creder.Said())
	}

	if verifying[targetSad.Said()] {
		return nil
	}
	verifying[targetSad.Said()] = true
	_, verr := v.Verify(ctx, targetSad, targetAtts, verifying)
	return verr
}

// resolveOperator reads an edge node's "o" field (absent, a single
// string, or a list), rejects "NOT", strips anything that isn't one of
// the three unary operators, defaults to I2I when the target subject
// carries an "i" field (else NI2I), and requires exactly one operator
// survive (§3 Edge, §4.6 step 6).
func resolveOperator(node *said.Dat, targetKed *said.Dat) (string, error) {
	var raw []string
	if o := node.Get("o"); o != nil {
		if o.IsString() {
			raw = []string{o.String()}
		} else if o.IsArray() {
			for _, it := range o.Items() {
				raw = append(raw, it.String())
			}
		}
	}
	for _, op := range raw {
		if op == "NOT" {
			return "", kerr.New(kerr.Value, ErrEdgeOperatorNot, "")
		}
	}
	var unary []string
	for _, op := range raw {
		switch op {
		case "I2I", "NI2I", "DI2I":
			unary = append(unary, op)
		}
	}
	if len(unary) == 0 {
		if targetKed.Get("i") != nil {
			unary = []string{"I2I"}
		} else {
			unary = []string{"NI2I"}
		}
	}
	if len(unary) != 1 {
		return "", kerr.New(kerr.Validation, ErrEdgeOperatorCount, "")
	}
	return unary[0], nil
}
