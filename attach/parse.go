package attach

import (
	"fmt"

	"github.com/datatrails/go-keri-core/cesr"
	"github.com/datatrails/go-keri-core/said"
)

// peekMatter reads one Matter primitive from the start of s without
// requiring the caller to already know its length: the hard code fixes
// the full size via the sizage table, so this slices exactly that many
// characters before delegating to cesr.NewMatterFromQb64.
func peekMatter(s string) (*cesr.Matter, int, error) {
	if len(s) < 1 {
		return nil, 0, ErrTruncatedGroup
	}
	hs, isCounter, isOp := cesr.HardCodeClass(s[0])
	if isCounter || isOp {
		return nil, 0, fmt.Errorf("%w: expected a Matter primitive", ErrUnknownGroup)
	}
	if len(s) < hs {
		return nil, 0, ErrTruncatedGroup
	}
	code := s[:hs]
	sizage, _, ok := cesr.MatterSizage(code)
	if !ok {
		return nil, 0, fmt.Errorf("%w: %q", ErrUnknownGroup, code)
	}
	if len(s) < sizage.FS {
		return nil, 0, ErrTruncatedGroup
	}
	m, err := cesr.NewMatterFromQb64(s[:sizage.FS])
	if err != nil {
		return nil, 0, err
	}
	return m, sizage.FS, nil
}

func peekIndexer(s string) (*cesr.Indexer, int, error) {
	idx, n, err := cesr.NewIndexerFromQb64(s)
	if err != nil {
		return nil, 0, err
	}
	return idx, n, nil
}

func peekPrefixer(s string) (*said.Prefixer, int, error) {
	m, n, err := peekMatter(s)
	if err != nil {
		return nil, 0, err
	}
	return said.NewPrefixer(m.Qb64()), n, nil
}

func peekSeqner(s string) (*said.Seqner, int, error) {
	m, n, err := peekMatter(s)
	if err != nil {
		return nil, 0, err
	}
	sq, err := said.NewSeqnerFromQb64(m.Qb64())
	if err != nil {
		return nil, 0, err
	}
	return sq, n, nil
}

func peekDiger(s string) (*said.Diger, int, error) {
	m, n, err := peekMatter(s)
	if err != nil {
		return nil, 0, err
	}
	d, err := said.NewDigerFromQb64(m.Qb64())
	if err != nil {
		return nil, 0, err
	}
	return d, n, nil
}

func peekVerfer(s string) (*said.Verfer, int, error) {
	m, n, err := peekMatter(s)
	if err != nil {
		return nil, 0, err
	}
	v, err := said.NewVerferFromQb64(m.Qb64())
	if err != nil {
		return nil, 0, err
	}
	return v, n, nil
}

// ParsePipelined strips the leading AttachedMaterialQuadlets header a
// pipelined message carries, returning the inner attachment text.
func ParsePipelined(s string) (string, error) {
	counter, n, err := cesr.NewCounterFromQb64(s)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMissingQuadletHeader, err)
	}
	if counter.Code() != cesr.CodeAttachedMaterialQuadlets {
		return "", ErrMissingQuadletHeader
	}
	rest := s[n:]
	want := int(counter.Count()) * 4
	if len(rest) < want {
		return "", ErrTruncatedGroup
	}
	return rest[:want], nil
}

// ParseGroups parses a sequence of attachment group counters (not itself
// wrapped by an AttachedMaterialQuadlets header) until the input is
// exhausted.
func ParseGroups(s string) (*Attachments, error) {
	out := &Attachments{}
	for len(s) > 0 {
		counter, n, err := cesr.NewCounterFromQb64(s)
		if err != nil {
			return nil, err
		}
		s = s[n:]
		switch counter.Code() {
		case cesr.CodeControllerIdxSigs:
			sigers, rest, err := parseSigers(s, counter.Count())
			if err != nil {
				return nil, err
			}
			out.ControllerIdxSigs = append(out.ControllerIdxSigs, sigers...)
			s = rest
		case cesr.CodeWitnessIdxSigs:
			sigers, rest, err := parseSigers(s, counter.Count())
			if err != nil {
				return nil, err
			}
			out.WitnessIdxSigs = append(out.WitnessIdxSigs, sigers...)
			s = rest
		case cesr.CodeNonTransReceiptCouples:
			for i := uint64(0); i < counter.Count(); i++ {
				v, n1, err := peekVerfer(s)
				if err != nil {
					return nil, err
				}
				s = s[n1:]
				sig, n2, err := peekMatter(s)
				if err != nil {
					return nil, err
				}
				s = s[n2:]
				out.NonTransReceiptCouples = append(out.NonTransReceiptCouples, Cigar{Verfer: v, Sig: sig})
			}
		case cesr.CodeTransIdxSigGroups:
			for i := uint64(0); i < counter.Count(); i++ {
				g, rest, err := parseTransIdxSigGroup(s)
				if err != nil {
					return nil, err
				}
				out.TransIdxSigGroups = append(out.TransIdxSigGroups, g)
				s = rest
			}
		case cesr.CodeTransLastIdxSigGroups:
			for i := uint64(0); i < counter.Count(); i++ {
				g, rest, err := parseTransLastIdxSigGroup(s)
				if err != nil {
					return nil, err
				}
				out.TransLastIdxSigGroups = append(out.TransLastIdxSigGroups, g)
				s = rest
			}
		case cesr.CodeSealSourceCouples:
			for i := uint64(0); i < counter.Count(); i++ {
				sq, n1, err := peekSeqner(s)
				if err != nil {
					return nil, err
				}
				s = s[n1:]
				sd, n2, err := peekDiger(s)
				if err != nil {
					return nil, err
				}
				s = s[n2:]
				out.SealSourceCouples = append(out.SealSourceCouples, SealSourceCouple{Seqner: sq, Saider: sd})
			}
		case cesr.CodeSadPathSig:
			for i := uint64(0); i < counter.Count(); i++ {
				g, rest, err := parseSadPathSigGroup(s)
				if err != nil {
					return nil, err
				}
				out.SadPathSigGroups = append(out.SadPathSigGroups, g)
				s = rest
			}
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownGroup, counter.Code())
		}
	}
	return out, nil
}

func parseSigers(s string, count uint64) ([]*cesr.Indexer, string, error) {
	sigers := make([]*cesr.Indexer, 0, count)
	for i := uint64(0); i < count; i++ {
		idx, n, err := peekIndexer(s)
		if err != nil {
			return nil, "", err
		}
		sigers = append(sigers, idx)
		s = s[n:]
	}
	return sigers, s, nil
}

func parseTransIdxSigGroup(s string) (TransIdxSigGroup, string, error) {
	pre, n1, err := peekPrefixer(s)
	if err != nil {
		return TransIdxSigGroup{}, "", err
	}
	s = s[n1:]
	sq, n2, err := peekSeqner(s)
	if err != nil {
		return TransIdxSigGroup{}, "", err
	}
	s = s[n2:]
	sd, n3, err := peekDiger(s)
	if err != nil {
		return TransIdxSigGroup{}, "", err
	}
	s = s[n3:]
	sigCounter, n4, err := cesr.NewCounterFromQb64(s)
	if err != nil {
		return TransIdxSigGroup{}, "", err
	}
	if sigCounter.Code() != cesr.CodeControllerIdxSigs {
		return TransIdxSigGroup{}, "", fmt.Errorf("%w: expected ControllerIdxSigs inside TransIdxSigGroups", ErrUnknownGroup)
	}
	s = s[n4:]
	sigers, rest, err := parseSigers(s, sigCounter.Count())
	if err != nil {
		return TransIdxSigGroup{}, "", err
	}
	return TransIdxSigGroup{Prefixer: pre, Seqner: sq, Saider: sd, Sigers: sigers}, rest, nil
}

func parseTransLastIdxSigGroup(s string) (TransLastIdxSigGroup, string, error) {
	pre, n1, err := peekPrefixer(s)
	if err != nil {
		return TransLastIdxSigGroup{}, "", err
	}
	s = s[n1:]
	sigCounter, n2, err := cesr.NewCounterFromQb64(s)
	if err != nil {
		return TransLastIdxSigGroup{}, "", err
	}
	if sigCounter.Code() != cesr.CodeControllerIdxSigs {
		return TransLastIdxSigGroup{}, "", fmt.Errorf("%w: expected ControllerIdxSigs inside TransLastIdxSigGroups", ErrUnknownGroup)
	}
	s = s[n2:]
	sigers, rest, err := parseSigers(s, sigCounter.Count())
	if err != nil {
		return TransLastIdxSigGroup{}, "", err
	}
	return TransLastIdxSigGroup{Prefixer: pre, Sigers: sigers}, rest, nil
}

// parsePather reads a length-prefixed path expression: two hex digits
// giving the character count of the bext string that follows. Pather has
// no analog in the Matter sizage table (it is not fixed-width crypto
// material), so it gets this module's own small self-framing encoding
// rather than a borrowed CESR code.
func parsePather(s string) (*said.Pather, int, error) {
	if len(s) < 2 {
		return nil, 0, ErrTruncatedGroup
	}
	var length int
	if _, err := fmt.Sscanf(s[:2], "%02x", &length); err != nil {
		return nil, 0, fmt.Errorf("%w: bad path length: %v", ErrUnknownGroup, err)
	}
	if len(s) < 2+length {
		return nil, 0, ErrTruncatedGroup
	}
	bext := s[2 : 2+length]
	return said.NewPatherFromBext(bext), 2 + length, nil
}

func parseSadPathSigGroup(s string) (SadPathSigGroup, string, error) {
	path, n, err := parsePather(s)
	if err != nil {
		return SadPathSigGroup{}, "", err
	}
	s = s[n:]
	groupCounter, n2, err := cesr.NewCounterFromQb64(s)
	if err != nil {
		return SadPathSigGroup{}, "", err
	}
	if groupCounter.Code() != cesr.CodeTransIdxSigGroups || groupCounter.Count() != 1 {
		return SadPathSigGroup{}, "", fmt.Errorf("%w: expected a single TransIdxSigGroups inside SadPathSig", ErrUnknownGroup)
	}
	s = s[n2:]
	g, rest, err := parseTransIdxSigGroup(s)
	if err != nil {
		return SadPathSigGroup{}, "", err
	}
	return SadPathSigGroup{Pather: path, Group: g}, rest, nil
}
