package projection

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Item is a projected record: an ordered set of field names and values.
// It marshals to a JSON object with keys in insertion order.
type Item struct {
	keys   []string
	values map[string]any
}

// Set stores v under key. Replacing a key keeps its original position.
func (it *Item) Set(key string, v any) {
	if it.values == nil {
		it.values = make(map[string]any)
	}
	if _, ok := it.values[key]; !ok {
		it.keys = append(it.keys, key)
	}
	it.values[key] = v
}

// Get returns the value stored under key.
func (it Item) Get(key string) (any, bool) {
	v, ok := it.values[key]
	return v, ok
}

// Lookup is Get; it makes an Item a key-value record that can be projected
// again.
func (it Item) Lookup(key string) (any, bool) {
	return it.Get(key)
}

// Keys returns the field names in insertion order.
func (it Item) Keys() []string {
	return append([]string(nil), it.keys...)
}

// OriginalFields returns the field names in insertion order.
func (it Item) OriginalFields() []string {
	return it.Keys()
}

// Len returns the number of fields.
func (it Item) Len() int {
	return len(it.keys)
}

// Map returns a copy of the fields as a plain map.
func (it Item) Map() map[string]any {
	out := make(map[string]any, len(it.keys))
	for _, k := range it.keys {
		out[k] = it.values[k]
	}
	return out
}

// MarshalJSON implements json.Marshaler with keys in insertion order.
func (it Item) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	for i, k := range it.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyBytes, err := json.Marshal(k)
		if err != nil {
			return nil, fmt.Errorf("marshal key %q: %w", k, err)
		}
		buf.Write(keyBytes)
		buf.WriteByte(':')

		valBytes, err := json.Marshal(it.values[k])
		if err != nil {
			return nil, fmt.Errorf("marshal value for key %q: %w", k, err)
		}
		buf.Write(valBytes)
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}
