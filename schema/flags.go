package schema

import (
	"encoding/json"
	"slices"
)

// FlagSet is an unordered set of audit flags. It serializes as a sorted list.
// The zero value is ready to use.
type FlagSet struct {
	items map[string]struct{}
}

// NewFlagSet returns a set seeded with the given flags.
func NewFlagSet(flags ...string) *FlagSet {
	fs := &FlagSet{}
	for _, f := range flags {
		fs.Add(f)
	}
	return fs
}

// Add inserts a flag. Empty strings are ignored and duplicates are no-ops.
func (fs *FlagSet) Add(flag string) {
	if flag == "" {
		return
	}
	if fs.items == nil {
		fs.items = make(map[string]struct{})
	}
	fs.items[flag] = struct{}{}
}

// Has reports whether the flag is present.
func (fs *FlagSet) Has(flag string) bool {
	if fs == nil {
		return false
	}
	_, ok := fs.items[flag]
	return ok
}

// Len returns the number of flags.
func (fs *FlagSet) Len() int {
	if fs == nil {
		return 0
	}
	return len(fs.items)
}

// Sorted returns the flags in lexical order.
func (fs *FlagSet) Sorted() []string {
	out := make([]string, 0, fs.Len())
	if fs == nil {
		return out
	}
	for f := range fs.items {
		out = append(out, f)
	}
	slices.Sort(out)
	return out
}

// Clone returns an independent copy.
func (fs *FlagSet) Clone() *FlagSet {
	return NewFlagSet(fs.Sorted()...)
}

// MarshalJSON implements json.Marshaler.
func (fs *FlagSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(fs.Sorted())
}

// UnmarshalJSON implements json.Unmarshaler.
func (fs *FlagSet) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	fs.items = nil
	for _, f := range list {
		fs.Add(f)
	}
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (fs *FlagSet) MarshalYAML() (any, error) {
	return fs.Sorted(), nil
}
