package entity

import (
	"encoding/json"

	"golang.org/x/text/unicode/norm"
)

// NameSet is an insertion-ordered set of alternate names. Empty strings and
// duplicates (compared after NFC normalization) are never stored.
type NameSet struct {
	items []string
}

// NewNameSet builds a set from names, dropping empties and duplicates.
func NewNameSet(names ...string) NameSet {
	var s NameSet
	for _, n := range names {
		s.Add(n)
	}
	return s
}

// Add appends name and reports whether it was added.
func (s *NameSet) Add(name string) bool {
	name = norm.NFC.String(name)
	if name == "" || s.Contains(name) {
		return false
	}
	s.items = append(s.items, name)
	return true
}

// Remove deletes name and reports whether it was present.
func (s *NameSet) Remove(name string) bool {
	name = norm.NFC.String(name)
	for i, v := range s.items {
		if v == name {
			if len(s.items) == 1 {
				s.items = nil
				return true
			}
			// copies of a Game share the backing array; never shift in place
			rest := make([]string, 0, len(s.items)-1)
			rest = append(rest, s.items[:i]...)
			s.items = append(rest, s.items[i+1:]...)
			return true
		}
	}
	return false
}

func (s NameSet) Contains(name string) bool {
	name = norm.NFC.String(name)
	for _, v := range s.items {
		if v == name {
			return true
		}
	}
	return false
}

func (s NameSet) Len() int { return len(s.items) }

// Values returns a copy of the names in insertion order.
func (s NameSet) Values() []string {
	out := make([]string, len(s.items))
	copy(out, s.items)
	return out
}

// MarshalJSON encodes the set as a JSON array; an empty set is [].
func (s NameSet) MarshalJSON() ([]byte, error) {
	if s.items == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s.items)
}

// UnmarshalJSON decodes a JSON array, applying the set rules to each item.
func (s *NameSet) UnmarshalJSON(data []byte) error {
	var raw []string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = NewNameSet(raw...)
	return nil
}
