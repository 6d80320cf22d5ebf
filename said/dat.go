// Package said implements SAID/derivation primitives: Saider, Diger,
// Prefixer, Salter, Signer, Verfer, Seqner, Number, Tholder, and Pather,
// plus the insertion-ordered SAD value builder (Dat) that underlies all of
// them — SAIDification is order-sensitive, so the ordinary unordered Go map
// cannot represent a SAD.
package said

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Dat is a tagged, insertion-ordered JSON value: Null, Bool, Number,
// String, Array, or Object. Object preserves the order fields were
// inserted (or, when decoded, the order they appeared on the wire), which
// is what lets Saider re-serialize a SAD deterministically.
type Dat struct {
	kind  datKind
	b     bool
	num   json.Number
	str   string
	arr   []*Dat
	keys  []string
	vals  map[string]*Dat
}

type datKind int

const (
	kindNull datKind = iota
	kindBool
	kindNumber
	kindString
	kindArray
	kindObject
)

// NewObject returns an empty, insertion-ordered SAD object.
func NewObject() *Dat {
	return &Dat{kind: kindObject, vals: map[string]*Dat{}}
}

// NewString, NewNumber, NewBool, NewNull, NewArray build leaf/array values.
func NewString(s string) *Dat { return &Dat{kind: kindString, str: s} }
func NewNumber(n json.Number) *Dat { return &Dat{kind: kindNumber, num: n} }
func NewBool(b bool) *Dat      { return &Dat{kind: kindBool, b: b} }
func NewNull() *Dat            { return &Dat{kind: kindNull} }
func NewArray(items ...*Dat) *Dat {
	return &Dat{kind: kindArray, arr: items}
}

// Set inserts or replaces a field, preserving its original position on
// replace and appending on first insertion. Returns d for chaining.
func (d *Dat) Set(key string, v *Dat) *Dat {
	if d.kind != kindObject {
		panic("said: Set called on a non-object Dat")
	}
	if _, ok := d.vals[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.vals[key] = v
	return d
}

// Get looks up a field by key; returns nil if absent or not an object.
func (d *Dat) Get(key string) *Dat {
	if d.kind != kindObject {
		return nil
	}
	return d.vals[key]
}

// Keys returns the object's fields in insertion order.
func (d *Dat) Keys() []string {
	out := make([]string, len(d.keys))
	copy(out, d.keys)
	return out
}

// IsObject, IsArray, IsString report the Dat's kind.
func (d *Dat) IsObject() bool { return d.kind == kindObject }
func (d *Dat) IsArray() bool  { return d.kind == kindArray }
func (d *Dat) IsString() bool { return d.kind == kindString }
func (d *Dat) IsNumber() bool { return d != nil && d.kind == kindNumber }
func (d *Dat) IsBool() bool   { return d != nil && d.kind == kindBool }
func (d *Dat) IsNull() bool   { return d == nil || d.kind == kindNull }

// String returns the string value, or "" if this isn't a string.
func (d *Dat) String() string {
	if d == nil || d.kind != kindString {
		return ""
	}
	return d.str
}

// Float64 returns the numeric value and true, or (0, false) if this isn't
// a number or doesn't parse as one.
func (d *Dat) Float64() (float64, bool) {
	if d == nil || d.kind != kindNumber {
		return 0, false
	}
	f, err := d.num.Float64()
	if err != nil {
		return 0, false
	}
	return f, true
}

// Bool returns the boolean value, or false if this isn't a bool.
func (d *Dat) Bool() bool {
	return d != nil && d.kind == kindBool && d.b
}

// Items returns the array's elements, or nil if this isn't an array.
func (d *Dat) Items() []*Dat {
	if d == nil || d.kind != kindArray {
		return nil
	}
	return d.arr
}

// Clone deep-copies a Dat so callers can mutate a copy (e.g. to substitute
// a SAID placeholder) without disturbing the original.
func (d *Dat) Clone() *Dat {
	if d == nil {
		return nil
	}
	switch d.kind {
	case kindObject:
		c := NewObject()
		for _, k := range d.keys {
			c.Set(k, d.vals[k].Clone())
		}
		return c
	case kindArray:
		items := make([]*Dat, len(d.arr))
		for i, it := range d.arr {
			items[i] = it.Clone()
		}
		return &Dat{kind: kindArray, arr: items}
	default:
		cp := *d
		return &cp
	}
}

// MarshalJSON renders the value, preserving object field order.
func (d *Dat) MarshalJSON() ([]byte, error) {
	if d == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	if err := d.encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (d *Dat) encode(buf *bytes.Buffer) error {
	switch d.kind {
	case kindNull:
		buf.WriteString("null")
	case kindBool:
		if d.b {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case kindNumber:
		buf.WriteString(string(d.num))
	case kindString:
		b, err := json.Marshal(d.str)
		if err != nil {
			return err
		}
		buf.Write(b)
	case kindArray:
		buf.WriteByte('[')
		for i, it := range d.arr {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := it.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case kindObject:
		buf.WriteByte('{')
		for i, k := range d.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			kb, err := json.Marshal(k)
			if err != nil {
				return err
			}
			buf.Write(kb)
			buf.WriteByte(':')
			if err := d.vals[k].encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	}
	return nil
}

// ParseDat decodes a JSON document into an order-preserving Dat using a
// streaming token decoder, since encoding/json's map decoding discards
// field order. Trailing bytes after the document are ignored.
func ParseDat(raw []byte) (*Dat, error) {
	v, _, err := ParseDatPrefix(raw)
	return v, err
}

// ParseDatPrefix is ParseDat but also reports how many leading bytes of raw
// the document consumed, so callers that concatenate a SAD with trailing
// material (e.g. a message body immediately followed by its attachment
// group) can locate the remainder without re-scanning.
func ParseDatPrefix(raw []byte) (*Dat, int, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	v, err := decodeValue(dec)
	if err != nil {
		return nil, 0, fmt.Errorf("said: parsing SAD: %w", err)
	}
	return v, int(dec.InputOffset()), nil
}

func decodeValue(dec *json.Decoder) (*Dat, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	return decodeFromToken(dec, tok)
}

func decodeFromToken(dec *json.Decoder, tok json.Token) (*Dat, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			obj := NewObject()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("said: object key is not a string: %v", keyTok)
				}
				val, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				obj.Set(key, val)
			}
			if _, err := dec.Token(); err != nil { // consume '}'
				return nil, err
			}
			return obj, nil
		case '[':
			var items []*Dat
			for dec.More() {
				val, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				items = append(items, val)
			}
			if _, err := dec.Token(); err != nil { // consume ']'
				return nil, err
			}
			return &Dat{kind: kindArray, arr: items}, nil
		default:
			return nil, fmt.Errorf("said: unexpected delimiter %v", t)
		}
	case json.Number:
		return NewNumber(t), nil
	case string:
		return NewString(t), nil
	case bool:
		return NewBool(t), nil
	case nil:
		return NewNull(), nil
	default:
		return nil, fmt.Errorf("said: unexpected token %v (%T)", t, t)
	}
}

// SortedKeys returns an object's fields sorted lexically; used only by
// callers that need a canonical (not insertion) order, e.g. diagnostics.
func (d *Dat) SortedKeys() []string {
	out := d.Keys()
	sort.Strings(out)
	return out
}
