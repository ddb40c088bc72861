package entity

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNoMetadata is returned when decoding a setting that carries no payload.
var ErrNoMetadata = errors.New("setting has no metadata")

// Setting is a small JSON record stored next to the catalog, grouped by
// Category. ParentID and RootID link nested records and stay empty for
// top-level ones.
type Setting struct {
	ID         string          `json:"id"`
	ParentID   string          `json:"parent_id,omitempty"`
	RootID     string          `json:"root_id,omitempty"`
	RecordMeta json.RawMessage `json:"record_meta,omitempty"`
	Category   string          `json:"category,omitempty"`
	Metadata   json.RawMessage `json:"metadata,omitempty"`
}

// WithMetadata returns a new setting of category whose payload is v encoded
// as JSON.
func WithMetadata(category string, v any) (*Setting, error) {
	s := &Setting{Category: category}
	if err := s.SetMetadata(v); err != nil {
		return nil, err
	}
	return s, nil
}

// SetMetadata replaces the payload with v encoded as JSON.
func (s *Setting) SetMetadata(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s metadata: %w", s.Category, err)
	}
	s.Metadata = b
	return nil
}

// DecodeMetadata unmarshals the payload into v.
func (s *Setting) DecodeMetadata(v any) error {
	if len(s.Metadata) == 0 {
		return ErrNoMetadata
	}
	if err := json.Unmarshal(s.Metadata, v); err != nil {
		return fmt.Errorf("decode setting %s: %w", s.ID, err)
	}
	return nil
}
