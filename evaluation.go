package ffbridge

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Kind identifies which of the three primitive shapes a [Value] holds.
type Kind uint8

const (
	// KindString is a string value. It is also the shape used for any value
	// that does not match one of the other kinds.
	KindString Kind = iota
	// KindBool is a boolean value.
	KindBool
	// KindNumber is a numeric value, stored as float64.
	KindNumber
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Value is a flag value: exactly one of bool, number or string.
// The zero Value is the empty string.
type Value struct {
	kind Kind
	b    bool
	n    float64
	s    string
}

// BoolValue returns a Value of kind [KindBool].
func BoolValue(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// NumberValue returns a Value of kind [KindNumber].
func NumberValue(n float64) Value {
	return Value{kind: KindNumber, n: n}
}

// StringValue returns a Value of kind [KindString].
func StringValue(s string) Value {
	return Value{kind: KindString, s: s}
}

// ValueOf converts an arbitrary value produced by an evaluation client into a
// Value. Booleans, Go numeric types and json.Number keep their shape. Anything
// else becomes its string representation, JSON-encoded when possible.
func ValueOf(v any) Value {
	switch t := v.(type) {
	case bool:
		return BoolValue(t)
	case string:
		return StringValue(t)
	case float64:
		return NumberValue(t)
	case float32:
		return NumberValue(float64(t))
	case int:
		return NumberValue(float64(t))
	case int8:
		return NumberValue(float64(t))
	case int16:
		return NumberValue(float64(t))
	case int32:
		return NumberValue(float64(t))
	case int64:
		return NumberValue(float64(t))
	case uint:
		return NumberValue(float64(t))
	case uint8:
		return NumberValue(float64(t))
	case uint16:
		return NumberValue(float64(t))
	case uint32:
		return NumberValue(float64(t))
	case uint64:
		return NumberValue(float64(t))
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return NumberValue(f)
		}
		return StringValue(t.String())
	case Value:
		return t
	case nil:
		return StringValue("")
	case fmt.Stringer:
		return StringValue(t.String())
	}
	if raw, err := json.Marshal(v); err == nil {
		return StringValue(string(raw))
	}
	return StringValue(fmt.Sprint(v))
}

// Kind returns the shape of the value.
func (v Value) Kind() Kind {
	return v.kind
}

// Bool returns the boolean and whether the value is of kind [KindBool].
func (v Value) Bool() (bool, bool) {
	return v.b, v.kind == KindBool
}

// Number returns the number and whether the value is of kind [KindNumber].
func (v Value) Number() (float64, bool) {
	return v.n, v.kind == KindNumber
}

// String returns the string form of the value. For strings this is the value
// itself; bools and numbers are formatted.
func (v Value) String() string {
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindNumber:
		return strconv.FormatFloat(v.n, 'f', -1, 64)
	case KindString:
		return v.s
	}
	return v.s
}

// Interface returns the value as a native Go bool, float64 or string.
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		return v.n
	case KindString:
		return v.s
	}
	return v.s
}

// MarshalJSON encodes the value as a JSON scalar.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

// Evaluation is a flag identifier paired with its currently resolved value.
type Evaluation struct {
	Flag  string `json:"flag"`
	Value Value  `json:"value"`
}

// NewEvaluation builds an Evaluation, converting value with [ValueOf].
func NewEvaluation(flag string, value any) Evaluation {
	return Evaluation{Flag: flag, Value: ValueOf(value)}
}

// Record is the host-visible shape of an [Evaluation].
type Record struct {
	Flag  string `json:"flag"`
	Value any    `json:"value"`
}

// Record converts the evaluation into the record sent to the host.
func (e Evaluation) Record() Record {
	return Record{Flag: e.Flag, Value: e.Value.Interface()}
}

// JSONResult is the result of a JSON variation: the document encoded as a
// JSON string.
type JSONResult struct {
	Value string `json:"value"`
}

// Document decodes the JSON string back into a structured document.
func (r JSONResult) Document() (map[string]any, error) {
	doc := map[string]any{}
	if r.Value == "" {
		return doc, nil
	}
	if err := json.Unmarshal([]byte(r.Value), &doc); err != nil {
		return nil, fmt.Errorf("failed to decode JSON variation: %w", err)
	}
	return doc, nil
}
