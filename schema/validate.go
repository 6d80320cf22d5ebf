package schema

import (
	"bytes"
	"encoding/json"

	"github.com/datatrails/go-keri-core/said"
)

// matches validates instance against the subset of JSON-Schema 2020-12
// this module exercises: type, required, properties, enum, const,
// minimum, maximum. Unrecognized keywords are ignored rather than
// rejected, matching a permissive "annotation" reading of the draft
// rather than a strict validator.
func matches(schemaDoc, instance *said.Dat) bool {
	if schemaDoc == nil || !schemaDoc.IsObject() {
		return true
	}
	if t := schemaDoc.Get("type"); t != nil && t.IsString() {
		if !typeMatches(t.String(), instance) {
			return false
		}
	}
	if c := schemaDoc.Get("const"); c != nil {
		if !datEqual(c, instance) {
			return false
		}
	}
	if e := schemaDoc.Get("enum"); e != nil && e.IsArray() {
		found := false
		for _, item := range e.Items() {
			if datEqual(item, instance) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if instance.IsNumber() {
		if min := schemaDoc.Get("minimum"); min != nil {
			minF, ok := min.Float64()
			instF, _ := instance.Float64()
			if ok && instF < minF {
				return false
			}
		}
		if max := schemaDoc.Get("maximum"); max != nil {
			maxF, ok := max.Float64()
			instF, _ := instance.Float64()
			if ok && instF > maxF {
				return false
			}
		}
	}
	if instance.IsObject() {
		if req := schemaDoc.Get("required"); req != nil && req.IsArray() {
			for _, r := range req.Items() {
				if instance.Get(r.String()) == nil {
					return false
				}
			}
		}
		if props := schemaDoc.Get("properties"); props != nil && props.IsObject() {
			for _, k := range props.Keys() {
				val := instance.Get(k)
				if val == nil {
					continue
				}
				if !matches(props.Get(k), val) {
					return false
				}
			}
		}
	}
	if instance.IsArray() {
		if items := schemaDoc.Get("items"); items != nil {
			for _, el := range instance.Items() {
				if !matches(items, el) {
					return false
				}
			}
		}
	}
	return true
}

// typeMatches reports whether instance's kind satisfies a JSON-Schema
// "type" keyword value.
func typeMatches(want string, instance *said.Dat) bool {
	switch want {
	case "object":
		return instance.IsObject()
	case "array":
		return instance.IsArray()
	case "string":
		return instance.IsString()
	case "number":
		return instance.IsNumber()
	case "integer":
		f, ok := instance.Float64()
		return ok && f == float64(int64(f))
	case "boolean":
		return instance.IsBool()
	case "null":
		return instance.IsNull()
	default:
		return true
	}
}

// datEqual compares two Dat values for JSON-level equality via their
// canonical (insertion-ordered) serialization; sufficient for enum/const
// checks since both sides come from the same ordered decoder.
func datEqual(a, b *said.Dat) bool {
	ab, err1 := json.Marshal(a)
	bb, err2 := json.Marshal(b)
	if err1 != nil || err2 != nil {
		return false
	}
	return bytes.Equal(ab, bb)
}
