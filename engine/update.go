package engine

import (
	"slices"

	"github.com/edtela/tsqn/ast"
)

// Update applies a statement to data, mutating it in place, and
// returns the accumulated change record (nil when nothing changed).
// Passing a non-nil existing record threads changes across sequential
// calls: originals recorded by earlier calls are kept, and a later
// change that reverts a key to its first observed original drops the
// key from the record.
//
// Statement constants are never aliased into the data: literal
// containers and replacement values are deep-cloned before insertion.
func Update(data ast.Value, stmt ast.Statement, existing *ast.ChangeRecord, ctx ast.Context) (*ast.ChangeRecord, error) {
	for {
		fn, ok := stmt.(ast.Transform)
		if !ok {
			break
		}
		stmt = fn(data, nil, "", ctx)
	}

	fields, ok := stmt.(*ast.Fields)
	if !ok {
		return nil, &UsageError{
			Code:    ErrCodeBadStatement,
			Message: "update statement must be record-shaped at the root",
		}
	}
	changes, err := updateFields(data, fields, existing, ctx, "")
	if err != nil {
		return nil, err
	}
	if changes.Empty() {
		return nil, nil
	}
	return changes, nil
}

func updateFields(data ast.Value, f *ast.Fields, changes *ast.ChangeRecord, ctx ast.Context, path string) (*ast.ChangeRecord, error) {
	ctx = ctx.Merge(f.Context)

	// A failed guard means this level contributes no changes; whatever
	// was accumulated before is untouched.
	if f.Where != nil && !Evaluate(data, f.Where) {
		return changes, nil
	}

	directives := make(map[string]ast.Statement, len(f.Fields))
	for k, sub := range f.Fields {
		directives[k] = sub
	}

	// ALL synthesizes a directive for every key not explicitly
	// addressed; explicit entries take precedence.
	if f.All != nil {
		switch container := data.(type) {
		case ast.Object:
			for k := range container {
				if _, covered := directives[k]; !covered {
					directives[k] = f.All
				}
			}
		case ast.Array:
			covered := make(map[int]bool, len(f.Fields))
			for k := range f.Fields {
				if idx, ok := resolveIndex(k, len(container)); ok {
					covered[idx] = true
				}
			}
			for i := range container {
				if !covered[i] {
					directives[indexKey(i)] = f.All
				}
			}
		}
	}

	// Field directives can only address into a container. A scalar here
	// means the statement is record-shaped against a non-record value.
	if len(directives) > 0 && !isContainer(data) {
		return nil, newScalarTargetError(path)
	}

	keys := make([]string, 0, len(directives))
	for k := range directives {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, ast.CompareStrings)

	var err error
	for _, key := range keys {
		changes, err = applyDirective(data, key, directives[key], changes, ctx, path)
		if err != nil {
			return nil, err
		}
	}
	return changes, nil
}

func applyDirective(data ast.Value, key string, directive ast.Statement, changes *ast.ChangeRecord, ctx ast.Context, path string) (*ast.ChangeRecord, error) {
	// Resolve the addressed key. Non-numeric and out-of-range keys on
	// sequences are ignored entirely.
	if arr, ok := data.(ast.Array); ok {
		idx, ok := resolveIndex(key, len(arr))
		if !ok {
			return changes, nil
		}
		key = indexKey(idx)
	}

	old := getKey(data, key)

	operand := directive
	for {
		fn, ok := operand.(ast.Transform)
		if !ok {
			break
		}
		operand = fn(old, data, key, ctx)
	}

	switch node := operand.(type) {
	case nil:
		return changes, nil

	case ast.Delete:
		if old == nil {
			if obj, ok := data.(ast.Object); ok {
				if _, exists := obj[key]; !exists {
					return changes, nil
				}
			} else {
				return changes, nil
			}
		}
		changes = recordChange(changes, data, key, old, nil)
		deleteKey(data, key)
		return changes, nil

	case ast.Replace:
		// Full replacement always records, even when the new value
		// equals the old one.
		newVal := ast.Clone(node.Value)
		changes = ensureRecord(changes)
		revertPending(changes, key, old)
		changes.RecordOriginal(key, old)
		changes.Set(key, newVal)
		setKey(data, key, newVal)
		return changes, nil

	case *ast.Fields:
		return applyNested(data, key, old, node, changes, ctx, path)

	case ast.Literal:
		if ast.StrictEqual(old, node.Value) {
			return changes, nil
		}
		newVal := ast.Clone(node.Value)
		changes = recordChange(changes, data, key, old, newVal)
		setKey(data, key, newVal)
		return changes, nil

	default:
		return nil, &UsageError{
			Code:    ErrCodeBadStatement,
			Message: "statement node cannot be applied as an update operand",
			Path:    pathJoin(path, key),
		}
	}
}

// applyNested handles a record-shaped operand: recurse when the current
// value is a container, establish a DEFAULT first when it is not.
func applyNested(data ast.Value, key string, old ast.Value, operand *ast.Fields, changes *ast.ChangeRecord, ctx ast.Context, path string) (*ast.ChangeRecord, error) {
	if isContainer(old) {
		// An earlier whole-value change at this key already carries the
		// original; the recorded new value aliases the container being
		// mutated, so the leaf entry stays accurate without a nested
		// record.
		if hasLeafChange(changes, key) {
			if _, err := updateFields(old, operand, nil, ctx, pathJoin(path, key)); err != nil {
				return nil, err
			}
			return changes, nil
		}

		nested, err := updateFields(old, operand, changes.Nested(key), ctx, pathJoin(path, key))
		if err != nil {
			return nil, err
		}
		if nested.Empty() {
			// A threaded record whose keys all reverted mirrors the
			// top-level drop rule: the entry disappears entirely.
			if changes.Nested(key) != nil {
				changes.Drop(key)
			}
			return changes, nil
		}
		changes = ensureRecord(changes)
		changes.SetNested(key, nested)
		return changes, nil
	}

	if operand.Default == nil {
		return nil, newScalarTargetError(pathJoin(path, key))
	}

	// DEFAULT: assign a deep clone first, then apply the rest of this
	// level against it. The recorded original is the pre-DEFAULT value.
	newBase := ast.Clone(operand.Default)
	setKey(data, key, newBase)

	remainder := *operand
	remainder.Default = nil
	if _, err := updateFields(newBase, &remainder, nil, ctx, pathJoin(path, key)); err != nil {
		return nil, err
	}

	changes = ensureRecord(changes)
	revertPending(changes, key, old)
	changes.RecordOriginal(key, old)
	changes.Set(key, newBase)
	return changes, nil
}

// recordChange records a leaf change for key, reverting any pending
// nested changes so the recorded original reflects the value present
// before any tracked mutation, and dropping the key entirely when the
// new value circles back to the first observed original. The drop uses
// the same strict equality as the assignment no-op check, so explicit
// null over an absent key stays a recorded change.
func recordChange(changes *ast.ChangeRecord, data ast.Value, key string, old, newVal ast.Value) *ast.ChangeRecord {
	changes = ensureRecord(changes)
	revertPending(changes, key, old)
	changes.RecordOriginal(key, old)

	if orig, ok := changes.OriginalOf(key); ok && ast.StrictEqual(newVal, orig) {
		changes.Drop(key)
		return changes
	}
	changes.Set(key, newVal)
	return changes
}

// revertPending undoes nested changes recorded for key against the
// in-memory value so the META snapshot about to be taken holds the true
// pre-mutation original, not an intermediate state.
func revertPending(changes *ast.ChangeRecord, key string, old ast.Value) {
	if nested := changes.Nested(key); nested != nil {
		Undo(old, nested)
	}
}

func hasLeafChange(changes *ast.ChangeRecord, key string) bool {
	if changes == nil {
		return false
	}
	ch, ok := changes.Fields[key]
	return ok && ch.Nested == nil
}

func ensureRecord(changes *ast.ChangeRecord) *ast.ChangeRecord {
	if changes == nil {
		return ast.NewChangeRecord()
	}
	return changes
}
