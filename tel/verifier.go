// Package tel verifies transaction events (registry inception, credential
// issuance, credential revocation) against a Store per §4.5: anchor
// resolution into the controlling KEL, prior-SAID chaining for
// revocations, and the same existing/new replay semantics as kel.Verifier.
package tel

import (
	"context"

	"github.com/datatrails/go-keri-core/attach"
	"github.com/datatrails/go-keri-core/event"
	"github.com/datatrails/go-keri-core/kel"
	"github.com/datatrails/go-keri-core/kerr"
	"github.com/datatrails/go-keri-core/said"
	"github.com/datatrails/go-keri-core/store"
)

// Verifier checks transaction events against a Store, recursing into the
// anchoring KEL event via an embedded kel.Verifier when deep verification
// is requested.
type Verifier struct {
	Store store.Store
	kel   *kel.Verifier
}

// NewVerifier wraps a Store.
func NewVerifier(st store.Store) *Verifier {
	return &Verifier{Store: st, kel: kel.NewVerifier(st)}
}

// Verify runs the transaction-event verification algorithm for one (sad,
// attachments) pair (§4.5), returning existing=true for an idempotent
// replay of an already-committed event.
func (v *Verifier) Verify(ctx context.Context, sad *event.Sad, atts *attach.Attachments, deep bool, verifying map[string]bool) (bool, error) {
	ked := sad.Ked()
	ilk := sad.Ilk()
	pre := ked.Get("i").String()

	if len(atts.SealSourceCouples) != 1 {
		return false, kerr.New(kerr.Validation, ErrBadSealSourceCount, "event %s carries %d couples", sad.Said(), len(atts.SealSourceCouples))
	}
	couple := atts.SealSourceCouples[0]

	if err := event.ValidateLabels(ked, ilk); err != nil {
		return false, kerr.New(kerr.Validation, err, "event %s", sad.Said())
	}

	var apre string
	switch ilk {
	case "vcp":
		prefixer := said.NewPrefixer(pre)
		ok, perr := prefixer.Verify(ked, true)
		if perr != nil {
			return false, kerr.New(kerr.Decoding, perr, "registry prefix derivation for %s", pre)
		}
		if !ok {
			return false, kerr.New(kerr.Verification, ErrBadPrefix, "registry %q", pre)
		}
		apre = ked.Get("ii").String()
	case "iss", "rev":
		ok, verr := said.Verify(ked, "d")
		if verr != nil {
			return false, kerr.New(kerr.Decoding, verr, "SAID verification for %s", sad.Said())
		}
		if !ok {
			return false, kerr.New(kerr.Verification, ErrBadSaid, "event %s", sad.Said())
		}
		ri := ked.Get("ri").String()
		vcpBlob, gerr := v.Store.GetTransactionEvent(ctx, ri, 0)
		if gerr != nil {
			return false, kerr.New(kerr.Validation, gerr, "fetching registry inception for %s", ri)
		}
		vcpSad, _, serr := splitBlob(vcpBlob)
		if serr != nil {
			return false, serr
		}
		apre = vcpSad.Ked().Get("ii").String()
	default:
		return false, kerr.New(kerr.Validation, ErrUnknownIlk, "ilk %q", ilk)
	}

	if err := v.verifyAnchor(ctx, apre, couple, sad); err != nil {
		return false, err
	}

	sno, err := v.Store.CountTransactionEvents(ctx, pre)
	if err != nil {
		return false, err
	}

	seqner, err := said.NewSeqnerFromHex(ked.Get("s").String())
	if err != nil {
		return false, kerr.New(kerr.Decoding, err, "parsing sequence number")
	}
	sn := seqner.Sn()

	var existing bool
	switch ilk {
	case "vcp", "iss":
		if sn != 0 {
			return false, kerr.New(kerr.Validation, ErrBadSequence, "event %s at sn=%d", sad.Said(), sn)
		}
		existing = sno > 0
	case "rev":
		if sn < 1 {
			return false, kerr.New(kerr.Validation, ErrBadSequence, "revocation %s at sn=%d", sad.Said(), sn)
		}
		if sn > sno {
			return false, kerr.New(kerr.OutOfOrder, ErrOutOfOrder, "pre=%s sn=%d count=%d", pre, sn, sno)
		}
		existing = sn < sno

		priorBlob, gerr := v.Store.GetTransactionEvent(ctx, pre, sn-1)
		if gerr != nil {
			return false, kerr.New(kerr.Validation, gerr, "fetching prior transaction event for %s", sad.Said())
		}
		priorSad, _, serr := splitBlob(priorBlob)
		if serr != nil {
			return false, serr
		}
		p := ked.Get("p")
		if p == nil || !p.IsString() || p.String() != priorSad.Said() {
			return false, kerr.New(kerr.Verification, ErrBadPriorLink, "event %s", sad.Said())
		}
	}

	if deep && !verifying[sad.Said()] {
		verifying[sad.Said()] = true
		anchorBlob, gerr := v.Store.GetKeyEvent(ctx, apre, couple.Seqner.Sn())
		if gerr != nil {
			return false, gerr
		}
		anchorSad, anchorAtts, perr := parseKelBlob(anchorBlob)
		if perr != nil {
			return false, perr
		}
		if _, verr := v.kel.Verify(ctx, anchorSad, anchorAtts, true, verifying); verr != nil {
			return false, verr
		}
	}

	if existing {
		storedBlob, gerr := v.Store.GetTransactionEvent(ctx, pre, sn)
		if gerr != nil {
			return false, kerr.New(kerr.Programmer, gerr, "re-fetching existing event at (%s, %d)", pre, sn)
		}
		storedSad, _, berr := splitBlob(storedBlob)
		if berr != nil {
			return false, berr
		}
		if storedSad.Said() != sad.Said() {
			return false, kerr.New(kerr.Programmer, ErrDiverged, "pre=%s sn=%d", pre, sn)
		}
	}

	return existing, nil
}

// verifyAnchor requires that the KEL event at (apre, couple.Seqner.Sn())
// has exactly the SAID the seal source couple claims, and that its "a"
// seal list contains exactly one entry referencing this transaction event.
func (v *Verifier) verifyAnchor(ctx context.Context, apre string, couple attach.SealSourceCouple, sad *event.Sad) error {
	blob, err := v.Store.GetKeyEvent(ctx, apre, couple.Seqner.Sn())
	if err != nil {
		return kerr.New(kerr.Validation, err, "fetching anchoring KEL event at (%s, %d)", apre, couple.Seqner.Sn())
	}
	anchorSad, _, err := parseKelBlob(blob)
	if err != nil {
		return err
	}
	if anchorSad.Said() != couple.Saider.Qb64() {
		return kerr.New(kerr.Verification, ErrAnchorMismatch, "anchoring event SAID mismatch for %s", sad.Said())
	}
	a := anchorSad.Ked().Get("a")
	if a == nil || !a.IsArray() || len(a.Items()) != 1 {
		return kerr.New(kerr.Validation, ErrAnchorMismatch, "anchoring event %s carries %v seals, want 1", anchorSad.Said(), a)
	}
	seal := a.Items()[0]
	seqner, err := said.NewSeqnerFromHex(sad.Ked().Get("s").String())
	if err != nil {
		return kerr.New(kerr.Decoding, err, "parsing sequence number")
	}
	wantI := seal.Get("i")
	wantS := seal.Get("s")
	wantD := seal.Get("d")
	if wantI == nil || wantI.String() != sad.Ked().Get("i").String() ||
		wantS == nil || wantS.String() != seqner.Hex() ||
		wantD == nil || wantD.String() != sad.Said() {
		return kerr.New(kerr.Verification, ErrAnchorMismatch, "anchoring seal does not reference %s", sad.Said())
	}
	return nil
}

// parseKelBlob parses a committed KEL blob's body and attachments, used
// for anchor resolution rather than TEL chaining.
func parseKelBlob(blob []byte) (*event.Sad, *attach.Attachments, error) {
	sad, n, err := event.ParseSadPrefix(blob)
	if err != nil {
		return nil, nil, kerr.New(kerr.Decoding, err, "parsing anchoring KEL event body")
	}
	rest := string(blob[n:])
	if body, perr := attach.ParsePipelined(rest); perr == nil {
		rest = body
	}
	atts, err := attach.ParseGroups(rest)
	if err != nil {
		return nil, nil, kerr.New(kerr.Decoding, err, "parsing anchoring KEL event attachments")
	}
	return sad, atts, nil
}

// splitBlob separates a committed TEL (body ∥ attachments) blob back into
// its Sad and parsed Attachments.
func splitBlob(blob []byte) (*event.Sad, *attach.Attachments, error) {
	sad, n, err := event.ParseSadPrefix(blob)
	if err != nil {
		return nil, nil, kerr.New(kerr.Decoding, err, "parsing stored transaction event body")
	}
	rest := string(blob[n:])
	if body, perr := attach.ParsePipelined(rest); perr == nil {
		rest = body
	}
	atts, err := attach.ParseGroups(rest)
	if err != nil {
		return nil, nil, kerr.New(kerr.Decoding, err, "parsing stored transaction event attachments")
	}
	return sad, atts, nil
}
