package wire

import "strings"

// Header is an ordered multimap of field name to values. Names are
// compared and stored lowercase; the original case is not preserved.
// Repeated names accumulate values instead of overwriting, and
// iteration follows first-insertion order of each name.
type Header struct {
	keys   []string
	values map[string][]string
}

func NewHeader() *Header {
	return &Header{values: make(map[string][]string)}
}

// HeaderFrom builds a Header from parsed field lines, preserving order
// and accumulating repeated names.
func HeaderFrom(fields []Field) *Header {
	h := NewHeader()
	for _, f := range fields {
		h.Add(f.Name, f.Value)
	}
	return h
}

func (h *Header) Add(key, value string) {
	key = strings.ToLower(key)
	if _, ok := h.values[key]; !ok {
		h.keys = append(h.keys, key)
	}
	h.values[key] = append(h.values[key], value)
}

// Set replaces any existing values of key with a single value.
func (h *Header) Set(key, value string) {
	key = strings.ToLower(key)
	if _, ok := h.values[key]; !ok {
		h.keys = append(h.keys, key)
	}
	h.values[key] = []string{value}
}

// Get returns the first value of key.
func (h *Header) Get(key string) (value string, ok bool) {
	v, ok := h.values[strings.ToLower(key)]
	if !ok || len(v) == 0 {
		return "", false
	}
	return v[0], true
}

func (h *Header) Values(key string) (values []string, ok bool) {
	values, ok = h.values[strings.ToLower(key)]
	return
}

func (h *Header) Has(key string) bool {
	_, ok := h.values[strings.ToLower(key)]
	return ok
}

func (h *Header) Del(key string) {
	key = strings.ToLower(key)
	if _, ok := h.values[key]; !ok {
		return
	}
	delete(h.values, key)
	for i, k := range h.keys {
		if k == key {
			h.keys = append(h.keys[:i], h.keys[i+1:]...)
			break
		}
	}
}

func (h *Header) Len() int { return len(h.keys) }

// Fields flattens the header into one Field per value, in insertion
// order. This is the serialization order on the wire.
func (h *Header) Fields() []Field {
	fields := make([]Field, 0, len(h.keys))
	for _, k := range h.keys {
		for _, v := range h.values[k] {
			fields = append(fields, Field{Name: k, Value: v})
		}
	}
	return fields
}

// Merge folds other into h: every name present in other replaces the
// values h holds for that name. Names only in h are untouched.
func (h *Header) Merge(other *Header) {
	if other == nil {
		return
	}
	for _, k := range other.keys {
		values := other.values[k]
		if _, ok := h.values[k]; !ok {
			h.keys = append(h.keys, k)
		}
		clone := make([]string, len(values))
		copy(clone, values)
		h.values[k] = clone
	}
}

func (h *Header) Clone() *Header {
	clone := NewHeader()
	for _, k := range h.keys {
		for _, v := range h.values[k] {
			clone.Add(k, v)
		}
	}
	return clone
}
