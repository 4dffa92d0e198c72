// Package formdata provides an insertion-ordered JSON object for chart form
// data and query contexts. Chart configurations are stored as JSON text whose
// key order is meaningful to the migration passes, so a plain map is not
// enough: Map preserves the order keys were first set, including through a
// marshal/unmarshal round trip. Nested objects decode as *Map as well.
package formdata

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Map is a string-keyed JSON object that preserves insertion order.
// The zero value is not usable; call New or unmarshal into a new instance.
type Map struct {
	keys   []string
	values map[string]any
}

// New returns an empty Map.
func New() *Map {
	return &Map{values: make(map[string]any)}
}

// Len returns the number of keys.
func (m *Map) Len() int {
	return len(m.keys)
}

// Keys returns the keys in insertion order. The returned slice is a copy.
func (m *Map) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Has reports whether key is present.
func (m *Map) Has(key string) bool {
	_, ok := m.values[key]
	return ok
}

// Get returns the value for key, or nil when the key is absent.
func (m *Map) Get(key string) any {
	return m.values[key]
}

// GetString returns the value for key as a string. Non-string and absent
// values return the empty string.
func (m *Map) GetString(key string) string {
	s, _ := m.values[key].(string)
	return s
}

// GetMap returns the value for key as a nested *Map, or nil when the value
// is absent or not an object.
func (m *Map) GetMap(key string) *Map {
	nested, _ := m.values[key].(*Map)
	return nested
}

// Set stores value under key. A new key is appended to the key order; an
// existing key keeps its position.
func (m *Map) Set(key string, value any) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Delete removes key. Deleting an absent key is a no-op.
func (m *Map) Delete(key string) {
	if _, ok := m.values[key]; !ok {
		return
	}
	delete(m.values, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

// Pop removes key and returns its value, or nil when the key is absent.
func (m *Map) Pop(key string) any {
	v, ok := m.values[key]
	if !ok {
		return nil
	}
	m.Delete(key)
	return v
}

// DeepCopy returns an independent copy of the map. Nested maps and arrays
// are copied recursively; mutating the copy never affects the original.
func (m *Map) DeepCopy() *Map {
	out := New()
	for _, k := range m.keys {
		out.Set(k, DeepCopyValue(m.values[k]))
	}
	return out
}

// DeepCopyValue deep-copies a JSON-shaped value (*Map, []any, or scalar).
func DeepCopyValue(v any) any {
	switch val := v.(type) {
	case *Map:
		return val.DeepCopy()
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = DeepCopyValue(item)
		}
		return out
	default:
		// Scalars (string, bool, json.Number, nil) are immutable.
		return v
	}
}

// MarshalJSON encodes the map as a JSON object with keys in insertion order.
func (m *Map) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyJSON, err := json.Marshal(k)
		if err != nil {
			return nil, fmt.Errorf("marshaling key %q: %w", k, err)
		}
		buf.Write(keyJSON)
		buf.WriteByte(':')
		valJSON, err := json.Marshal(m.values[k])
		if err != nil {
			return nil, fmt.Errorf("marshaling value for %q: %w", k, err)
		}
		buf.Write(valJSON)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, recording key order as encountered.
// Numbers decode as json.Number so integer values survive a round trip.
func (m *Map) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected JSON object, got %v", tok)
	}

	m.keys = nil
	m.values = make(map[string]any)
	return decodeObject(dec, m)
}

// decodeObject reads key/value pairs until the closing brace. The opening
// brace has already been consumed.
func decodeObject(dec *json.Decoder, m *Map) error {
	for {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		if delim, ok := tok.(json.Delim); ok && delim == '}' {
			return nil
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", tok)
		}
		val, err := decodeValue(dec)
		if err != nil {
			return err
		}
		m.Set(key, val)
	}
}

// decodeArray reads values until the closing bracket. The opening bracket
// has already been consumed.
func decodeArray(dec *json.Decoder) ([]any, error) {
	out := []any{}
	for {
		if !dec.More() {
			// Consume the closing bracket.
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return out, nil
		}
		val, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		out = append(out, val)
	}
}

// decodeValue reads a single JSON value: a nested object becomes *Map,
// an array becomes []any, and scalars pass through.
func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); ok {
		switch delim {
		case '{':
			nested := New()
			if err := decodeObject(dec, nested); err != nil {
				return nil, err
			}
			return nested, nil
		case '[':
			return decodeArray(dec)
		default:
			return nil, fmt.Errorf("unexpected delimiter %v", delim)
		}
	}
	return tok, nil
}

// Parse decodes JSON text into a Map. The text must be a JSON object.
func Parse(s string) (*Map, error) {
	m := New()
	if err := json.Unmarshal([]byte(s), m); err != nil {
		return nil, err
	}
	return m, nil
}

// TryParse decodes JSON text into a Map, returning an empty Map when the
// text is empty, malformed, or not an object. It never fails: stored chart
// configurations predate validation and malformed ones are treated as empty.
func TryParse(s string) *Map {
	if s == "" {
		return New()
	}
	m, err := Parse(s)
	if err != nil {
		return New()
	}
	return m
}

// String renders the map as compact JSON. Used for persistence back into
// chart records; a marshal failure here cannot happen for values built from
// JSON input, but the error path falls back to an empty object.
func (m *Map) String() string {
	data, err := json.Marshal(m)
	if err != nil {
		return "{}"
	}
	return string(data)
}
