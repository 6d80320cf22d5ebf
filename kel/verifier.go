// Package kel verifies key events against a Store per §4.4: prefix
// derivation, SAID fixed points, threshold-satisfying signatures, prior
// linkage, and rotation commitments to the prior establishment event's
// next-key digests.
package kel

import (
	"context"

	"github.com/datatrails/go-keri-core/attach"
	"github.com/datatrails/go-keri-core/cesr"
	"github.com/datatrails/go-keri-core/event"
	"github.com/datatrails/go-keri-core/kerr"
	"github.com/datatrails/go-keri-core/said"
	"github.com/datatrails/go-keri-core/store"
)

// Verifier checks key events against a Store.
type Verifier struct {
	Store store.Store
}

// NewVerifier wraps a Store.
func NewVerifier(st store.Store) *Verifier {
	return &Verifier{Store: st}
}

// Verify runs the key-event verification algorithm for one (sad,
// attachments) pair, returning existing=true when this exact event was
// already committed at (pre, sn) (a replay), false for a genuinely new
// event. deep, when true, recurses into the prior event's own
// attachments once verifying has admitted this event's SAID, guarded by
// the caller-supplied verifying set against revisiting nodes.
func (v *Verifier) Verify(ctx context.Context, sad *event.Sad, atts *attach.Attachments, deep bool, verifying map[string]bool) (bool, error) {
	ked := sad.Ked()
	pre := ked.Get("i").String()
	ilk := sad.Ilk()

	seqner, err := said.NewSeqnerFromHex(ked.Get("s").String())
	if err != nil {
		return false, kerr.New(kerr.Decoding, err, "parsing sequence number")
	}
	sn := seqner.Sn()
	inceptive := ilk == "icp" || ilk == "dip"

	if inceptive {
		if sn != 0 {
			return false, kerr.New(kerr.Validation, ErrBadSequence, "inceptive event %s at sn=%d", sad.Said(), sn)
		}
		prefixer := said.NewPrefixer(pre)
		ok, perr := prefixer.Verify(ked, true)
		if perr != nil {
			return false, kerr.New(kerr.Decoding, perr, "prefix derivation for %s", pre)
		}
		if !ok {
			return false, kerr.New(kerr.Verification, ErrBadPrefix, "prefix %q", pre)
		}
	} else {
		if sn < 1 {
			return false, kerr.New(kerr.Validation, ErrBadSequence, "non-inceptive event %s at sn=%d", sad.Said(), sn)
		}
		ok, verr := said.Verify(ked, "d")
		if verr != nil {
			return false, kerr.New(kerr.Decoding, verr, "SAID verification for %s", sad.Said())
		}
		if !ok {
			return false, kerr.New(kerr.Verification, ErrBadSaid, "event %s", sad.Said())
		}
	}

	sno, err := v.Store.CountKeyEvents(ctx, pre)
	if err != nil {
		return false, err
	}
	existing := false
	if inceptive {
		existing = sno > 0
	} else {
		if sn > sno {
			return false, kerr.New(kerr.OutOfOrder, ErrOutOfOrder, "pre=%s sn=%d count=%d", pre, sn, sno)
		}
		existing = sn < sno
	}

	establishment := event.IsEstablishment(ilk)

	var verfers []*said.Verfer
	var tholder *said.Tholder
	if establishment {
		verfers, err = event.ParseVerfers(ked)
		if err != nil {
			return false, kerr.New(kerr.Validation, err, "current signing keys for %s", sad.Said())
		}
		tholder, err = event.ParseTholder(ked, "kt", len(verfers))
		if err != nil {
			return false, kerr.New(kerr.Validation, err, "current threshold for %s", sad.Said())
		}
	} else {
		priorEstKed, _, eerr := v.latestEstablishment(ctx, pre, sn-1)
		if eerr != nil {
			return false, eerr
		}
		verfers, err = event.ParseVerfers(priorEstKed)
		if err != nil {
			return false, kerr.New(kerr.Validation, err, "prior establishment signing keys for %s", sad.Said())
		}
		tholder, err = event.ParseTholder(priorEstKed, "kt", len(verfers))
		if err != nil {
			return false, kerr.New(kerr.Validation, err, "prior establishment threshold for %s", sad.Said())
		}
	}

	verifiedIndices, ondexByIndex, err := verifySigers(atts.ControllerIdxSigs, verfers, sad.Raw())
	if err != nil {
		return false, err
	}
	if !tholder.Satisfy(verifiedIndices) {
		return false, kerr.New(kerr.Verification, ErrThresholdNotMet, "event %s", sad.Said())
	}

	if err := event.ValidateLabels(ked, ilk); err != nil {
		return false, kerr.New(kerr.Validation, err, "event %s", sad.Said())
	}

	var priorSad *event.Sad
	if !inceptive {
		p := ked.Get("p")
		if p == nil || !p.IsString() {
			return false, kerr.New(kerr.Validation, ErrBadPriorLink, "event %s missing \"p\"", sad.Said())
		}
		priorBlob, gerr := v.Store.GetKeyEvent(ctx, pre, sn-1)
		if gerr != nil {
			return false, kerr.New(kerr.Validation, gerr, "fetching prior event for %s", sad.Said())
		}
		ps, _, serr := splitBlob(priorBlob)
		if serr != nil {
			return false, serr
		}
		if p.String() != ps.Said() {
			return false, kerr.New(kerr.Verification, ErrBadPriorLink, "event %s", sad.Said())
		}
		priorSad = ps
	}

	if establishment && priorSad != nil {
		priorEstKed, _, eerr := v.latestEstablishment(ctx, pre, sn-1)
		if eerr != nil {
			return false, eerr
		}
		priorDigers, derr := event.ParseDigers(priorEstKed)
		if derr != nil {
			return false, kerr.New(kerr.Validation, derr, "prior next-key digests for %s", sad.Said())
		}
		priorNtholder, terr := event.ParseTholder(priorEstKed, "nt", len(priorDigers))
		if terr != nil {
			return false, kerr.New(kerr.Validation, terr, "prior next threshold for %s", sad.Said())
		}
		var matchedOndex []int
		for _, idx := range verifiedIndices {
			ondex, has := ondexByIndex[idx]
			if !has {
				continue
			}
			if ondex < 0 || ondex >= len(priorDigers) {
				return false, kerr.New(kerr.Validation, ErrRotationMismatch, "ondex %d out of range for %s", ondex, sad.Said())
			}
			thisDiger, nerr := said.NewDiger("", []byte(verfers[idx].Qb64()))
			if nerr != nil {
				return false, nerr
			}
			if thisDiger.Qb64() != priorDigers[ondex].Qb64() {
				return false, kerr.New(kerr.Validation, ErrRotationMismatch, "signer %d against prior-next %d for %s", idx, ondex, sad.Said())
			}
			matchedOndex = append(matchedOndex, ondex)
		}
		if !priorNtholder.Satisfy(matchedOndex) {
			return false, kerr.New(kerr.Verification, ErrThresholdNotMet, "prior next threshold for event %s", sad.Said())
		}
	}

	if deep && !inceptive && !verifying[sad.Said()] {
		verifying[sad.Said()] = true
		priorBlob, gerr := v.Store.GetKeyEvent(ctx, pre, sn-1)
		if gerr != nil {
			return false, gerr
		}
		deepSad, deepAtts, berr := splitBlob(priorBlob)
		if berr != nil {
			return false, berr
		}
		if _, verr := v.Verify(ctx, deepSad, deepAtts, true, verifying); verr != nil {
			return false, verr
		}
	}

	if existing {
		storedBlob, gerr := v.Store.GetKeyEvent(ctx, pre, sn)
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

// latestEstablishment fetches and parses the latest establishment event at
// or before atSn.
func (v *Verifier) latestEstablishment(ctx context.Context, pre string, atSn uint64) (*said.Dat, uint64, error) {
	blob, sn, err := v.Store.GetLatestEstablishmentEventAsOfSn(ctx, pre, atSn)
	if err != nil {
		return nil, 0, kerr.New(kerr.Validation, err, "latest establishment at or before sn=%d for %s", atSn, pre)
	}
	sad, _, err := event.ParseSadPrefix(blob)
	if err != nil {
		return nil, 0, kerr.New(kerr.Decoding, err, "parsing establishment event")
	}
	return sad.Ked(), sn, nil
}

// verifySigers checks every indexed signature against its claimed signer,
// failing closed on the first mismatch: every listed signature must
// verify, not just enough of them to satisfy a threshold, so a corrupted
// signature is rejected rather than silently dropped.
func verifySigers(sigers []*cesr.Indexer, verfers []*said.Verfer, raw []byte) ([]int, map[int]int, error) {
	seen := make(map[int]bool, len(sigers))
	ondexByIndex := make(map[int]int, len(sigers))
	for _, siger := range sigers {
		idx := int(siger.Index())
		if idx < 0 || idx >= len(verfers) {
			return nil, nil, kerr.New(kerr.Validation, ErrSignatureFailed, "signer index %d out of range", idx)
		}
		if !verfers[idx].VerifyIndexed(raw, siger) {
			return nil, nil, kerr.New(kerr.Verification, ErrSignatureFailed, "signer index %d", idx)
		}
		seen[idx] = true
		if ondex, has := siger.Ondex(); has {
			ondexByIndex[idx] = int(ondex)
		}
	}
	indices := make([]int, 0, len(seen))
	for idx := range seen {
		indices = append(indices, idx)
	}
	return indices, ondexByIndex, nil
}
