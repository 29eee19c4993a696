package engine

import (
	"github.com/edtela/tsqn/ast"
)

// Undo reverts a change record against data, restoring every changed
// key to its recorded original. Keys with an original at this level are
// assigned back directly; entries without one hold nested records and
// are recursed into. A nil record is a no-op.
//
// Undo consumes the record: once the data has changed again, reverting
// the same record twice has undefined effect.
func Undo(data ast.Value, changes *ast.ChangeRecord) {
	if changes == nil {
		return
	}
	for key, ch := range changes.Fields {
		if orig, ok := changes.OriginalOf(key); ok {
			if orig == nil {
				deleteKey(data, key)
			} else {
				setKey(data, key, orig)
			}
			continue
		}
		if ch.Nested != nil {
			Undo(getKey(data, key), ch.Nested)
		}
	}
}
