package engine

import (
	"github.com/edtela/tsqn/ast"
)

// Detector is a sealed interface over change detectors. A detector
// mirrors the data shape: DetectorFunc leaves fire on a key of a change
// record, *DetectorMap nodes recurse into nested records.
type Detector interface {
	detectorNode()
}

// DetectorFunc is a leaf detector, called with the key under inspection
// and the change record containing it.
type DetectorFunc func(key string, changes *ast.ChangeRecord) bool

func (DetectorFunc) detectorNode() {}

// DetectorMap recurses into a change record. All is expanded into every
// key present in the record that Fields does not cover, exactly as the
// update engine expands its ALL directive.
type DetectorMap struct {
	Fields map[string]Detector
	All    Detector
}

func (*DetectorMap) detectorNode() {}

// AnyChange fires when the key is present in the change record at all.
var AnyChange DetectorFunc = func(key string, changes *ast.ChangeRecord) bool {
	_, ok := changes.Fields[key]
	return ok
}

// TypeChange fires when the primitive type of the key's new value
// differs from the type of its recorded original, treating null as its
// own type. Keys holding nested records never fire: in-place container
// mutation keeps the container's type.
var TypeChange DetectorFunc = func(key string, changes *ast.ChangeRecord) bool {
	ch, ok := changes.Fields[key]
	if !ok || ch.Nested != nil {
		return false
	}
	orig, ok := changes.OriginalOf(key)
	if !ok {
		return false
	}
	return ast.TypeName(ch.Value) != ast.TypeName(orig)
}

// HasChanges walks a change record with a detector and reports whether
// any leaf detector fires. A nil or empty record never matches.
func HasChanges(changes *ast.ChangeRecord, detector Detector) bool {
	if changes.Empty() {
		return false
	}
	switch node := detector.(type) {
	case DetectorFunc:
		for key := range changes.Fields {
			if node(key, changes) {
				return true
			}
		}
		return false
	case *DetectorMap:
		for key, sub := range node.Fields {
			if detectKey(changes, key, sub) {
				return true
			}
		}
		if node.All != nil {
			for key := range changes.Fields {
				if _, covered := node.Fields[key]; covered {
					continue
				}
				if detectKey(changes, key, node.All) {
					return true
				}
			}
		}
		return false
	default:
		return false
	}
}

func detectKey(changes *ast.ChangeRecord, key string, detector Detector) bool {
	switch node := detector.(type) {
	case DetectorFunc:
		return node(key, changes)
	case *DetectorMap:
		if nested := changes.Nested(key); nested != nil {
			return HasChanges(nested, node)
		}
		return false
	default:
		return false
	}
}
