package event

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/datatrails/go-keri-core/said"
)

// ParseTholder builds a Tholder from an event's "kt"/"nt" field, which is
// either a plain hex integer string or a fractional-weight clause list: a
// flat array of weight strings (one clause) or an array of such arrays
// (multiple clauses, all of which must be satisfied). n bounds signer
// indices for the integer case.
func ParseTholder(ked *said.Dat, field string, n int) (*said.Tholder, error) {
	val := ked.Get(field)
	if val == nil {
		return nil, fmt.Errorf("%w: missing %q", ErrBadLabelSet, field)
	}
	if val.IsString() {
		return said.NewTholderFromHex(val.String(), n)
	}
	if !val.IsArray() {
		return nil, fmt.Errorf("%w: %q is neither a string nor an array", ErrBadLabelSet, field)
	}
	items := val.Items()
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: empty threshold clause list in %q", ErrBadLabelSet, field)
	}
	if items[0].IsArray() {
		clauses := make([][]float64, len(items))
		for i, clause := range items {
			w, err := parseWeights(clause.Items())
			if err != nil {
				return nil, err
			}
			clauses[i] = w
		}
		return said.NewTholderFromWeights(clauses)
	}
	w, err := parseWeights(items)
	if err != nil {
		return nil, err
	}
	return said.NewTholderFromWeights([][]float64{w})
}

func parseWeights(items []*said.Dat) ([]float64, error) {
	out := make([]float64, len(items))
	for i, it := range items {
		if !it.IsString() {
			return nil, fmt.Errorf("%w: threshold weight must be a string", ErrBadLabelSet)
		}
		f, err := parseFraction(it.String())
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}

func parseFraction(s string) (float64, error) {
	parts := strings.SplitN(s, "/", 2)
	if len(parts) == 1 {
		f, err := strconv.ParseFloat(parts[0], 64)
		if err != nil {
			return 0, fmt.Errorf("%w: weight %q: %v", ErrBadLabelSet, s, err)
		}
		return f, nil
	}
	num, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: weight %q: %v", ErrBadLabelSet, s, err)
	}
	den, err := strconv.ParseFloat(parts[1], 64)
	if err != nil || den == 0 {
		return 0, fmt.Errorf("%w: weight %q: bad denominator", ErrBadLabelSet, s)
	}
	return num / den, nil
}
