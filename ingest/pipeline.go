// Package ingest implements the wire-level entry point for this module
// (§4.7): sniffing a message's identity family from its version string,
// parsing its body and attachment group, dispatching to the matching
// verifier, and persisting newly-admitted events.
package ingest

import (
	"context"

	"github.com/datatrails/go-keri-core/acdc"
	"github.com/datatrails/go-keri-core/attach"
	"github.com/datatrails/go-keri-core/cesr"
	"github.com/datatrails/go-keri-core/event"
	"github.com/datatrails/go-keri-core/kel"
	"github.com/datatrails/go-keri-core/kerr"
	"github.com/datatrails/go-keri-core/said"
	"github.com/datatrails/go-keri-core/schema"
	"github.com/datatrails/go-keri-core/store"
	"github.com/datatrails/go-keri-core/tel"
	"go.uber.org/zap"
)

var kelIlks = map[string]bool{"icp": true, "rot": true, "ixn": true, "dip": true, "drt": true}
var telIlks = map[string]bool{"vcp": true, "iss": true, "rev": true}

// Pipeline wires the three verifiers over a shared Store and dispatches
// incoming message frames to whichever one matches the frame's protocol
// and ilk.
type Pipeline struct {
	Store  store.Store
	KEL    *kel.Verifier
	TEL    *tel.Verifier
	ACDC   *acdc.Verifier
	logger *zap.Logger
}

// NewPipeline builds a Pipeline over a shared Store and schema cache. A nil
// logger is replaced with a no-op logger.
func NewPipeline(st store.Store, schemas *schema.Cache, logger *zap.Logger, opts ...acdc.Option) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		Store:  st,
		KEL:    kel.NewVerifier(st),
		TEL:    tel.NewVerifier(st),
		ACDC:   acdc.NewVerifier(st, schemas, opts...),
		logger: logger,
	}
}

// IngestMessage processes one already-framed message (a transport layer,
// out of scope here, is assumed to have delimited it): a JSON SAD body
// immediately followed by its attachment group. It returns existing=true
// when the message's event was already committed (a replay).
//
// verifying carries cycle-safe recursion state across a batch of related
// messages (e.g. an ACDC and the edges it references); pass a fresh map
// per independent ingest call.
func (p *Pipeline) IngestMessage(ctx context.Context, raw []byte, verifying map[string]bool) (bool, error) {
	sad, n, err := event.ParseSadPrefix(raw)
	if err != nil {
		return false, kerr.New(kerr.Decoding, err, "sniffing message body")
	}
	proto, _, verr := event.ParseVersionString(sad.Ked().Get("v").String())
	if verr != nil {
		return false, kerr.New(kerr.Decoding, verr, "parsing version string for %s", sad.Said())
	}

	if verifying[sad.Said()] {
		return true, nil
	}
	verifying[sad.Said()] = true

	rest := raw[n:]
	log := p.logger.With(zap.String("said", sad.Said()), zap.String("ilk", sad.Ilk()))

	switch proto {
	case event.ProtocolKERI:
		return p.ingestKERI(ctx, sad, rest, verifying, log)
	case event.ProtocolACDC:
		return p.ingestACDC(ctx, sad, rest, verifying, log)
	default:
		return false, kerr.New(kerr.Decoding, ErrUnknownProtocol, "protocol %q for %s", proto, sad.Said())
	}
}

func (p *Pipeline) ingestKERI(ctx context.Context, sad *event.Sad, rest []byte, verifying map[string]bool, log *zap.Logger) (bool, error) {
	ilk := sad.Ilk()
	ked := sad.Ked()
	pre := ked.Get("i").String()

	switch {
	case kelIlks[ilk]:
		atc, err := p.parseWrapped(rest, sad.Said())
		if err != nil {
			return false, err
		}
		atts, gerr := attach.ParseGroups(atc)
		if gerr != nil {
			return false, kerr.New(kerr.Decoding, gerr, "parsing attachments for %s", sad.Said())
		}

		already, verr := p.KEL.Verify(ctx, sad, atts, true, verifying)
		if verr != nil {
			log.Error("key event verification failed", zap.String("pre", pre), zap.Error(verr))
			return false, verr
		}
		if !already {
			sn, serr := seqnerSn(ked)
			if serr != nil {
				return false, serr
			}
			blob, merr := attach.Messagize(sad.Raw(), atc, true)
			if merr != nil {
				return false, merr
			}
			if ierr := p.Store.InsertKeyEvent(ctx, pre, sn, blob); ierr != nil {
				return false, ierr
			}
			log.Info("admitted key event", zap.String("pre", pre))
		}
		return already, nil

	case telIlks[ilk]:
		counter, _, cerr := cesr.NewCounterFromQb64(string(rest))
		if cerr != nil {
			return false, kerr.New(kerr.Decoding, cerr, "parsing attachment header for %s", sad.Said())
		}
		if counter.Code() != cesr.CodeSealSourceCouples {
			return false, kerr.New(kerr.Decoding, ErrBadAttachmentGroup, "transaction event %s requires an unwrapped SealSourceCouples group", sad.Said())
		}
		atts, gerr := attach.ParseGroups(string(rest))
		if gerr != nil {
			return false, kerr.New(kerr.Decoding, gerr, "parsing attachments for %s", sad.Said())
		}

		already, verr := p.TEL.Verify(ctx, sad, atts, true, verifying)
		if verr != nil {
			log.Error("transaction event verification failed", zap.String("pre", pre), zap.Error(verr))
			return false, verr
		}
		if !already {
			sn, serr := seqnerSn(ked)
			if serr != nil {
				return false, serr
			}
			blob, merr := attach.Messagize(sad.Raw(), string(rest), true)
			if merr != nil {
				return false, merr
			}
			if ierr := p.Store.InsertTransactionEvent(ctx, pre, sn, blob); ierr != nil {
				return false, ierr
			}
			log.Info("admitted transaction event", zap.String("pre", pre))
		}
		return already, nil

	default:
		return false, kerr.New(kerr.Decoding, ErrUnknownIlk, "ilk %q for %s", ilk, sad.Said())
	}
}

func (p *Pipeline) ingestACDC(ctx context.Context, creder *event.Sad, rest []byte, verifying map[string]bool, log *zap.Logger) (bool, error) {
	atc, err := p.parseWrapped(rest, creder.Said())
	if err != nil {
		return false, err
	}
	atts, gerr := attach.ParseGroups(atc)
	if gerr != nil {
		return false, kerr.New(kerr.Decoding, gerr, "parsing attachments for %s", creder.Said())
	}

	existing, verr := p.ACDC.Verify(ctx, creder, atts, verifying)
	if verr != nil {
		log.Error("credential verification failed", zap.Error(verr))
		return false, verr
	}
	if !existing {
		blob, merr := attach.Messagize(creder.Raw(), atc, true)
		if merr != nil {
			return false, merr
		}
		if ierr := p.Store.InsertACDC(ctx, creder.Said(), blob); ierr != nil {
			return false, ierr
		}
		log.Info("admitted credential")
	}
	return existing, nil
}

// parseWrapped requires rest to open with a pipelined AttachedMaterialQuadlets
// group (KEL and ACDC messages both carry the generic whole-group wrapper;
// transaction events, handled separately, do not) and returns its inner,
// unwrapped attachment text.
func (p *Pipeline) parseWrapped(rest []byte, forSaid string) (string, error) {
	counter, _, cerr := cesr.NewCounterFromQb64(string(rest))
	if cerr != nil {
		return "", kerr.New(kerr.Decoding, cerr, "parsing attachment header for %s", forSaid)
	}
	if counter.Code() != cesr.CodeAttachedMaterialQuadlets {
		return "", kerr.New(kerr.Decoding, ErrBadAttachmentGroup, "event %s requires a pipelined AttachedMaterialQuadlets group", forSaid)
	}
	atc, perr := attach.ParsePipelined(string(rest))
	if perr != nil {
		return "", kerr.New(kerr.Decoding, perr, "parsing pipelined attachments for %s", forSaid)
	}
	return atc, nil
}

func seqnerSn(ked *said.Dat) (uint64, error) {
	seqner, err := said.NewSeqnerFromHex(ked.Get("s").String())
	if err != nil {
		return 0, kerr.New(kerr.Decoding, err, "parsing sequence number")
	}
	return seqner.Sn(), nil
}
