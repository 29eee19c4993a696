package ast

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ChangeRecord is a partial mirror of a data tree produced by the
// update engine. For each changed key it holds either the new value
// (leaf change) or a nested ChangeRecord (the key's container was
// updated in place). Meta holds, per first-time-changed key at this
// level, the value that was present before any tracked mutation.
//
// Invariant: every leaf change at a level has a Meta entry at the same
// level, written once at first mutation and never overwritten. Nested
// entries carry their originals deeper down.
type ChangeRecord struct {
	Fields map[string]*Change
	Meta   map[string]Original
}

// Change is one entry of a ChangeRecord. When Nested is nil the entry
// is a leaf: Value is the new value at the key (nil means the key was
// deleted). When Nested is non-nil the entry mirrors changes inside the
// key's container.
type Change struct {
	Value  Value
	Nested *ChangeRecord
}

// Original wraps a pre-mutation value. The wrapper keeps "original was
// absent" representable alongside "original was null".
type Original struct {
	Value Value
}

// NewChangeRecord returns an empty record.
func NewChangeRecord() *ChangeRecord {
	return &ChangeRecord{
		Fields: make(map[string]*Change),
		Meta:   make(map[string]Original),
	}
}

// Empty reports whether the record holds no changes.
func (c *ChangeRecord) Empty() bool {
	return c == nil || len(c.Fields) == 0
}

// Set records a leaf change: key now holds v (nil v records a
// deletion).
func (c *ChangeRecord) Set(key string, v Value) {
	c.Fields[key] = &Change{Value: v}
}

// SetNested records that the container at key was changed in place.
func (c *ChangeRecord) SetNested(key string, nested *ChangeRecord) {
	c.Fields[key] = &Change{Nested: nested}
}

// Nested returns the nested record at key, or nil if the entry is
// absent or a leaf.
func (c *ChangeRecord) Nested(key string) *ChangeRecord {
	if c == nil {
		return nil
	}
	if ch, ok := c.Fields[key]; ok {
		return ch.Nested
	}
	return nil
}

// RecordOriginal writes the original for key unless one is already
// recorded. Repeated changes to the same key keep the first observed
// original.
func (c *ChangeRecord) RecordOriginal(key string, orig Value) {
	if _, ok := c.Meta[key]; !ok {
		c.Meta[key] = Original{Value: orig}
	}
}

// OriginalOf returns the recorded original for key.
func (c *ChangeRecord) OriginalOf(key string) (Value, bool) {
	if c == nil {
		return nil, false
	}
	orig, ok := c.Meta[key]
	return orig.Value, ok
}

// Drop removes the change and original recorded for key. Used when a
// later change reverts the key to its recorded original.
func (c *ChangeRecord) Drop(key string) {
	delete(c.Fields, key)
	delete(c.Meta, key)
}

// MarshalJSON serializes the record as an object mirroring the data
// shape, with originals under the META marker:
//
//	{"age": 31, "#": {"age": {"original": 30}}}
func (c *ChangeRecord) MarshalJSON() ([]byte, error) {
	return c.toValue().MarshalJSON()
}

func (c *ChangeRecord) toValue() Object {
	obj := make(Object, len(c.Fields)+1)
	for k, ch := range c.Fields {
		if ch.Nested != nil {
			obj[k] = ch.Nested.toValue()
		} else {
			obj[k] = ch.Value
		}
	}
	if len(c.Meta) > 0 {
		meta := make(Object, len(c.Meta))
		for k, orig := range c.Meta {
			meta[k] = Object{"original": orig.Value}
		}
		obj[MarkerMeta] = meta
	}
	return obj
}

// UnmarshalChangeRecord decodes a change record from JSON. An entry
// with an original recorded at the same level is a leaf change;
// otherwise the entry must be an object and is decoded as a nested
// record.
func UnmarshalChangeRecord(data []byte) (*ChangeRecord, error) {
	data = bytes.TrimSpace(data)
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("change record: %w", err)
	}

	c := NewChangeRecord()
	if metaRaw, ok := raw[MarkerMeta]; ok {
		var metaFields map[string]json.RawMessage
		if err := json.Unmarshal(metaRaw, &metaFields); err != nil {
			return nil, fmt.Errorf("change record meta: %w", err)
		}
		for k, entry := range metaFields {
			var wrapper map[string]json.RawMessage
			if err := json.Unmarshal(entry, &wrapper); err != nil {
				return nil, fmt.Errorf("change record meta %q: %w", k, err)
			}
			// An absent original serializes as null, so a decoded
			// record cannot distinguish the two.
			var orig Value
			if origRaw, ok := wrapper["original"]; ok {
				v, err := UnmarshalValue(origRaw)
				if err != nil {
					return nil, fmt.Errorf("change record meta %q: %w", k, err)
				}
				orig = v
			}
			c.Meta[k] = Original{Value: orig}
		}
	}

	for k, entry := range raw {
		if k == MarkerMeta {
			continue
		}
		if _, leaf := c.Meta[k]; leaf {
			v, err := UnmarshalValue(entry)
			if err != nil {
				return nil, fmt.Errorf("change record %q: %w", k, err)
			}
			c.Fields[k] = &Change{Value: v}
			continue
		}
		nested, err := UnmarshalChangeRecord(entry)
		if err != nil {
			return nil, fmt.Errorf("change record %q: %w", k, err)
		}
		c.Fields[k] = &Change{Nested: nested}
	}
	return c, nil
}
