package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// ValueKind identifies the concrete type held by a Value.
type ValueKind int

const (
	KindNull ValueKind = iota
	KindString
	KindNumber
	KindBool
	KindList
	KindMap
)

// String returns the kind name.
func (k ValueKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	default:
		return "unknown"
	}
}

// Value is a JSON-like tagged variant: string, number, bool, null, list of
// Value, or map of string to Value. Property values and vendor metadata are
// Values, and the search engine walks them recursively.
//
// The zero Value is null.
type Value struct {
	kind ValueKind
	str  string
	num  float64
	b    bool
	list []Value
	obj  map[string]Value
}

// NullValue returns the null value.
func NullValue() Value {
	return Value{kind: KindNull}
}

// StringValue returns a string value.
func StringValue(s string) Value {
	return Value{kind: KindString, str: s}
}

// NumberValue returns a number value.
func NumberValue(n float64) Value {
	return Value{kind: KindNumber, num: n}
}

// BoolValue returns a bool value.
func BoolValue(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// ListValue returns a list value holding the given items.
func ListValue(items ...Value) Value {
	return Value{kind: KindList, list: items}
}

// MapValue returns a map value holding the given fields.
func MapValue(fields map[string]Value) Value {
	return Value{kind: KindMap, obj: fields}
}

// FromAny converts a decoded JSON value (or plain Go scalar) into a Value.
// Unrecognized types are converted to their string representation.
func FromAny(raw any) Value {
	switch v := raw.(type) {
	case nil:
		return NullValue()
	case Value:
		return v
	case string:
		return StringValue(v)
	case bool:
		return BoolValue(v)
	case float64:
		return NumberValue(v)
	case float32:
		return NumberValue(float64(v))
	case int:
		return NumberValue(float64(v))
	case int64:
		return NumberValue(float64(v))
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return StringValue(v.String())
		}
		return NumberValue(f)
	case []any:
		items := make([]Value, 0, len(v))
		for _, item := range v {
			items = append(items, FromAny(item))
		}
		return Value{kind: KindList, list: items}
	case map[string]any:
		fields := make(map[string]Value, len(v))
		for key, item := range v {
			fields[key] = FromAny(item)
		}
		return Value{kind: KindMap, obj: fields}
	default:
		return StringValue(fmt.Sprint(v))
	}
}

// Kind returns the kind of this value.
func (v Value) Kind() ValueKind {
	return v.kind
}

// IsNull reports whether this is the null value.
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// AsString returns the string content and whether the value is a string.
func (v Value) AsString() (string, bool) {
	return v.str, v.kind == KindString
}

// AsNumber returns the numeric content and whether the value is a number.
func (v Value) AsNumber() (float64, bool) {
	return v.num, v.kind == KindNumber
}

// AsBool returns the bool content and whether the value is a bool.
func (v Value) AsBool() (bool, bool) {
	return v.b, v.kind == KindBool
}

// Items returns the list elements, or nil for non-list values.
func (v Value) Items() []Value {
	return v.list
}

// Fields returns the map entries, or nil for non-map values.
func (v Value) Fields() map[string]Value {
	return v.obj
}

// Len returns the number of elements for lists and maps, 0 otherwise.
func (v Value) Len() int {
	switch v.kind {
	case KindList:
		return len(v.list)
	case KindMap:
		return len(v.obj)
	default:
		return 0
	}
}

// String renders the value for display. Scalars render as their literal,
// lists and maps as compact JSON, null as the empty string.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return ""
	case KindString:
		return v.str
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(data)
	}
}

// Walk visits this value and every nested value depth-first, calling fn
// with the path to each value. Map entries append ".key" to the path, list
// elements append "[i]". Map keys are visited in sorted order so traversal
// is deterministic.
func (v Value) Walk(path string, fn func(path string, v Value)) {
	fn(path, v)
	switch v.kind {
	case KindList:
		for i, item := range v.list {
			item.Walk(fmt.Sprintf("%s[%d]", path, i), fn)
		}
	case KindMap:
		keys := make([]string, 0, len(v.obj))
		for key := range v.obj {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			v.obj[key].Walk(path+"."+key, fn)
		}
	}
}

// MarshalJSON encodes the value as its JSON equivalent.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindString:
		return json.Marshal(v.str)
	case KindNumber:
		return json.Marshal(v.num)
	case KindBool:
		return json.Marshal(v.b)
	case KindList:
		if v.list == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.list)
	case KindMap:
		if v.obj == nil {
			return []byte("{}"), nil
		}
		return json.Marshal(v.obj)
	default:
		return nil, fmt.Errorf("unknown value kind %d", int(v.kind))
	}
}

// UnmarshalJSON decodes arbitrary JSON into the matching variant.
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	*v = FromAny(raw)
	return nil
}
