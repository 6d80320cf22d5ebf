package attach

import (
	"fmt"
	"strings"

	"github.com/datatrails/go-keri-core/cesr"
	"github.com/datatrails/go-keri-core/said"
)

// Seal identifies the point in a controller's own KEL that an endorsement
// anchors to. Last, when true, anchors to the controller's latest
// established state rather than a pinned sequence number.
type Seal struct {
	Prefixer *said.Prefixer
	Seqner   *said.Seqner
	Saider   *said.Diger
	Last     bool
}

func renderPather(p *said.Pather) string {
	b := p.Bext()
	return fmt.Sprintf("%02x%s", len(b), b)
}

func renderControllerIdxSigs(sigers []*cesr.Indexer) (string, error) {
	c, err := cesr.NewCounter(cesr.CodeControllerIdxSigs, uint64(len(sigers)))
	if err != nil {
		return "", err
	}
	var buf strings.Builder
	buf.WriteString(c.Qb64())
	for _, s := range sigers {
		buf.WriteString(s.Qb64())
	}
	return buf.String(), nil
}

func renderWitnessIdxSigs(wigers []*cesr.Indexer) (string, error) {
	c, err := cesr.NewCounter(cesr.CodeWitnessIdxSigs, uint64(len(wigers)))
	if err != nil {
		return "", err
	}
	var buf strings.Builder
	buf.WriteString(c.Qb64())
	for _, w := range wigers {
		buf.WriteString(w.Qb64())
	}
	return buf.String(), nil
}

func renderNonTransReceiptCouples(cigars []Cigar) (string, error) {
	for _, cg := range cigars {
		if cg.Verfer.Transferable() {
			return "", ErrNonTransferableRequired
		}
	}
	c, err := cesr.NewCounter(cesr.CodeNonTransReceiptCouples, uint64(len(cigars)))
	if err != nil {
		return "", err
	}
	var buf strings.Builder
	buf.WriteString(c.Qb64())
	for _, cg := range cigars {
		buf.WriteString(cg.Verfer.Qb64())
		buf.WriteString(cg.Sig.Qb64())
	}
	return buf.String(), nil
}

// RenderSealSourceCouples builds the attachment text anchoring a TEL event
// into its sealing KEL event(s) — used by TEL event assembly, which
// attaches exactly one couple per §4.5 step 1.
func RenderSealSourceCouples(couples []SealSourceCouple) (string, error) {
	c, err := cesr.NewCounter(cesr.CodeSealSourceCouples, uint64(len(couples)))
	if err != nil {
		return "", err
	}
	var buf strings.Builder
	buf.WriteString(c.Qb64())
	for _, sc := range couples {
		buf.WriteString(sc.Seqner.Qb64())
		buf.WriteString(sc.Saider.Qb64())
	}
	return buf.String(), nil
}

// renderTransIdxSigGroupBody renders one group's content WITHOUT a leading
// Counter: the surrounding Counter(TransIdxSigGroups, n) is the caller's
// responsibility, since a single counter may cover several such groups.
func renderTransIdxSigGroupBody(g TransIdxSigGroup) (string, error) {
	sigs, err := renderControllerIdxSigs(g.Sigers)
	if err != nil {
		return "", err
	}
	return g.Prefixer.Pre() + g.Seqner.Qb64() + g.Saider.Qb64() + sigs, nil
}

// renderTransLastIdxSigGroupBody is the TransLastIdxSigGroups analog of
// renderTransIdxSigGroupBody.
func renderTransLastIdxSigGroupBody(g TransLastIdxSigGroup) (string, error) {
	sigs, err := renderControllerIdxSigs(g.Sigers)
	if err != nil {
		return "", err
	}
	return g.Prefixer.Pre() + sigs, nil
}

// EndorseArgs bundles endorse_serder's optional parameters.
type EndorseArgs struct {
	Sigers []*cesr.Indexer
	Seal   *Seal
	Wigers []*cesr.Indexer
	Cigars []Cigar
}

// Endorse builds the attachment text for a signed message per §4.3: the
// seal-anchored (or unanchored) controller signature group, followed
// optionally by witness signatures and non-transferable receipt couples.
func Endorse(a EndorseArgs) (string, error) {
	var buf strings.Builder

	switch {
	case a.Seal != nil && a.Seal.Last:
		c, err := cesr.NewCounter(cesr.CodeTransLastIdxSigGroups, 1)
		if err != nil {
			return "", err
		}
		body, err := renderTransLastIdxSigGroupBody(TransLastIdxSigGroup{Prefixer: a.Seal.Prefixer, Sigers: a.Sigers})
		if err != nil {
			return "", err
		}
		buf.WriteString(c.Qb64())
		buf.WriteString(body)
	case a.Seal != nil:
		c, err := cesr.NewCounter(cesr.CodeTransIdxSigGroups, 1)
		if err != nil {
			return "", err
		}
		body, err := renderTransIdxSigGroupBody(TransIdxSigGroup{
			Prefixer: a.Seal.Prefixer, Seqner: a.Seal.Seqner, Saider: a.Seal.Saider, Sigers: a.Sigers,
		})
		if err != nil {
			return "", err
		}
		buf.WriteString(c.Qb64())
		buf.WriteString(body)
	default:
		sigs, err := renderControllerIdxSigs(a.Sigers)
		if err != nil {
			return "", err
		}
		buf.WriteString(sigs)
	}

	if len(a.Wigers) > 0 {
		w, err := renderWitnessIdxSigs(a.Wigers)
		if err != nil {
			return "", err
		}
		buf.WriteString(w)
	}
	if len(a.Cigars) > 0 {
		c, err := renderNonTransReceiptCouples(a.Cigars)
		if err != nil {
			return "", err
		}
		buf.WriteString(c)
	}
	return buf.String(), nil
}

// Messagize concatenates a serialized body with its attachment text,
// prefixing the attachments with an AttachedMaterialQuadlets header when
// pipelined is true.
func Messagize(raw []byte, atc string, pipelined bool) ([]byte, error) {
	if len(atc)%4 != 0 {
		return nil, ErrBadQuadletLength
	}
	if !pipelined {
		return append(append([]byte{}, raw...), []byte(atc)...), nil
	}
	c, err := cesr.NewCounter(cesr.CodeAttachedMaterialQuadlets, uint64(len(atc)/4))
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(raw)+len(c.Qb64())+len(atc))
	out = append(out, raw...)
	out = append(out, []byte(c.Qb64())...)
	out = append(out, []byte(atc)...)
	return out, nil
}

// RatifyCreder builds the attachment text that ratifies an ACDC against
// the issuer's KEL state: a root-pathed SadPathSig group wrapping a
// TransIdxSigGroups anchor.
func RatifyCreder(prefixer *said.Prefixer, seqner *said.Seqner, saider *said.Diger, sigers []*cesr.Indexer) (string, error) {
	body, err := renderTransIdxSigGroupBody(TransIdxSigGroup{Prefixer: prefixer, Seqner: seqner, Saider: saider, Sigers: sigers})
	if err != nil {
		return "", err
	}
	groupCounter, err := cesr.NewCounter(cesr.CodeTransIdxSigGroups, 1)
	if err != nil {
		return "", err
	}
	pathCounter, err := cesr.NewCounter(cesr.CodeSadPathSig, 1)
	if err != nil {
		return "", err
	}
	root := said.NewPather()
	return pathCounter.Qb64() + renderPather(root) + groupCounter.Qb64() + body, nil
}
