package idl

import "sort"

// Annotations is a string-keyed metadata map attachable to most declaration
// kinds. Iteration and the JSON form present keys in ascending lexical order
// regardless of insertion order. Duplicate-key insertion overwrites: last
// write wins. The empty map is the default everywhere annotations appear.
type Annotations map[string]string

// Set stores a key/value pair, overwriting any existing value for the key.
func (a Annotations) Set(key, value string) {
	a[key] = value
}

// Get returns the value for key and whether it is present.
func (a Annotations) Get(key string) (string, bool) {
	v, ok := a[key]
	return v, ok
}

// Keys returns all keys in ascending lexical order.
func (a Annotations) Keys() []string {
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Each calls fn for every pair in ascending key order.
func (a Annotations) Each(fn func(key, value string)) {
	for _, k := range a.Keys() {
		fn(k, a[k])
	}
}

// Clone returns a copy of the annotations, or nil for an empty receiver.
func (a Annotations) Clone() Annotations {
	if len(a) == 0 {
		return nil
	}
	out := make(Annotations, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}
