package layout

import (
	"encoding/json"
	"math"
)

// Record is one raw key/value record from a parsed layout document.
// Values are whatever the document decoder produced: strings, numbers of
// any width, booleans, nested maps and slices.
type Record map[string]any

// RawNode pairs a node record with its variant discriminator.
type RawNode struct {
	Kind   NodeKind
	Record Record
}

// str extracts a required, non-empty string field.
func (r Record) str(field string) (string, error) {
	v, ok := r[field]
	if !ok || v == nil {
		return "", &SchemaError{Field: field}
	}
	s, ok := v.(string)
	if !ok {
		return "", &SchemaError{Field: field, Msg: "must be a string"}
	}
	if s == "" {
		return "", &SchemaError{Field: field, Msg: "must not be empty"}
	}
	return s, nil
}

// number extracts an optional numeric field. A missing or null field
// reports ok == false with no error.
func (r Record) number(field string) (value float64, ok bool, err error) {
	v, present := r[field]
	if !present || v == nil {
		return 0, false, nil
	}
	switch n := v.(type) {
	case float64:
		value = n
	case float32:
		value = float64(n)
	case int:
		value = float64(n)
	case int32:
		value = float64(n)
	case int64:
		value = float64(n)
	case uint64:
		value = float64(n)
	case json.Number:
		f, perr := n.Float64()
		if perr != nil {
			return 0, false, &SchemaError{Field: field, Msg: "must be a number"}
		}
		value = f
	default:
		return 0, false, &SchemaError{Field: field, Msg: "must be a number"}
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false, &SchemaError{Field: field, Msg: "must be finite"}
	}
	return value, true, nil
}
