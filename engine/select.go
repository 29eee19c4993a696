package engine

import (
	"github.com/edtela/tsqn/ast"
)

// Select applies a statement to a value and returns a filtered,
// reshaped copy. The second return is false when the statement yields
// nothing at all (WHERE failed at the root, or fields were addressed
// into a scalar). Select never mutates its input, but an unfiltered
// subtree is returned as-is rather than cloned.
//
// Array results are sparse: positions not addressed by the statement
// stay nil holes, except when an ALL sub-statement carries a WHERE, in
// which case filtered elements are excluded and the result is dense.
func Select(v ast.Value, stmt ast.Statement) (ast.Value, bool) {
	return selectNode(v, stmt, nil, "")
}

func selectNode(v ast.Value, stmt ast.Statement, parent ast.Value, key string) (ast.Value, bool) {
	switch node := stmt.(type) {
	case nil:
		return v, true
	case ast.Literal:
		// Only the take-everything literal means anything in a
		// selection.
		if b, ok := node.Value.(ast.Bool); ok && bool(b) {
			return v, true
		}
		return nil, false
	case ast.Transform:
		return selectNode(v, node(v, parent, key, nil), parent, key)
	case *ast.Fields:
		return selectFields(v, node)
	default:
		// Replace and Delete are update operands with no selection
		// meaning.
		return nil, false
	}
}

func selectFields(v ast.Value, f *ast.Fields) (ast.Value, bool) {
	if f.Where != nil && !Evaluate(v, f.Where) {
		return nil, false
	}
	if len(f.Fields) == 0 && f.All == nil && f.DeepAll == nil {
		return v, true
	}

	var result ast.Value
	var ok bool
	switch val := v.(type) {
	case ast.Object:
		result, ok = selectObject(val, f)
	case ast.Array:
		result, ok = selectArray(val, f)
	default:
		// Cannot field-select into a scalar, and deep search does not
		// traverse scalar leaves.
		return nil, false
	}

	if f.DeepAll != nil {
		if deep, found := deepSelect(v, f.DeepAll); found {
			if ok {
				return mergeSelected(result, deep), true
			}
			return deep, true
		}
	}
	return result, ok
}

func selectObject(v ast.Object, f *ast.Fields) (ast.Value, bool) {
	result := ast.Object{}

	if f.All != nil {
		for k, elem := range v {
			if r, ok := selectNode(elem, f.All, v, k); ok {
				result[k] = r
			}
		}
	}

	for k, sub := range f.Fields {
		r, ok := selectNode(v[k], sub, v, k)
		if !ok {
			continue
		}
		// A field entry augments an ALL-derived result for the same
		// key; both selections are honored.
		if existing, present := result[k]; present {
			result[k] = mergeSelected(existing, r)
		} else {
			result[k] = r
		}
	}

	if f.DeepAll != nil && len(result) == 0 && f.All == nil && len(f.Fields) == 0 {
		return nil, false
	}
	return result, true
}

func selectArray(v ast.Array, f *ast.Fields) (ast.Value, bool) {
	result := make(ast.Array, len(v))
	selected := make([]bool, len(v))

	filtering := false
	if f.All != nil {
		for i, elem := range v {
			// Resolve transforms per element so an ALL operand that
			// resolves to a guarded sub-statement still compacts.
			operand := f.All
			for {
				fn, ok := operand.(ast.Transform)
				if !ok {
					break
				}
				operand = fn(elem, v, indexKey(i), nil)
			}
			if allFields, ok := operand.(*ast.Fields); ok && allFields.Where != nil {
				filtering = true
			}
			if r, ok := selectNode(elem, operand, v, indexKey(i)); ok {
				result[i] = r
				selected[i] = true
			}
		}
	}

	for key, sub := range f.Fields {
		idx, ok := resolveIndex(key, len(v))
		if !ok {
			continue
		}
		r, ok := selectNode(v[idx], sub, v, indexKey(idx))
		if !ok {
			continue
		}
		if selected[idx] {
			result[idx] = mergeSelected(result[idx], r)
		} else {
			result[idx] = r
			selected[idx] = true
		}
	}

	if filtering {
		// A quantifying WHERE excludes filtered elements entirely; the
		// result is the dense subset, not a sparse superset.
		dense := make(ast.Array, 0, len(v))
		for i := range v {
			if selected[i] {
				dense = append(dense, result[i])
			}
		}
		return dense, true
	}

	if f.All == nil && len(f.Fields) == 0 {
		return nil, false
	}
	return result, true
}

// deepSelect searches the tree for nodes matching the pattern and
// returns a mirror of the input containing only the matches at their
// original positions.
//
// With a WHERE, a node satisfying the predicate has the pattern's
// fields projected shallowly; descendants are still searched for
// further independent matches. Without a WHERE, every listed field is
// collected wherever it exists.
//
// Known caveat, preserved deliberately: field absence and null are
// indistinguishable under loose equality, so a WHERE testing a field
// against null also matches ancestor nodes that simply lack the field.
// Callers avoid this by adding discriminating fields to the predicate.
func deepSelect(v ast.Value, pattern *ast.Fields) (ast.Value, bool) {
	switch val := v.(type) {
	case ast.Object:
		result := ast.Object{}

		if pattern.Where != nil {
			if Evaluate(val, pattern.Where) {
				for k, sub := range pattern.Fields {
					if r, ok := selectNode(val[k], sub, val, k); ok {
						result[k] = r
					}
				}
			}
		} else {
			for k, sub := range pattern.Fields {
				elem, exists := val[k]
				if !exists {
					continue
				}
				if r, ok := selectNode(elem, sub, val, k); ok {
					result[k] = r
				}
			}
		}

		for k, elem := range val {
			if !isContainer(elem) {
				continue
			}
			if r, found := deepSelect(elem, pattern); found {
				if existing, present := result[k]; present {
					result[k] = mergeSelected(existing, r)
				} else {
					result[k] = r
				}
			}
		}

		if len(result) == 0 {
			return nil, false
		}
		return result, true

	case ast.Array:
		result := make(ast.Array, len(val))
		found := false
		for i, elem := range val {
			if !isContainer(elem) {
				continue
			}
			if r, ok := deepSelect(elem, pattern); ok {
				result[i] = r
				found = true
			}
		}
		if !found {
			return nil, false
		}
		return result, true

	default:
		return nil, false
	}
}

// mergeSelected combines two selection results for the same position
// without mutating either: objects merge key-wise, arrays merge
// position-wise, anything else takes the later result.
func mergeSelected(a, b ast.Value) ast.Value {
	if ao, ok := a.(ast.Object); ok {
		if bo, ok := b.(ast.Object); ok {
			merged := make(ast.Object, len(ao)+len(bo))
			for k, v := range ao {
				merged[k] = v
			}
			for k, v := range bo {
				if existing, present := merged[k]; present {
					merged[k] = mergeSelected(existing, v)
				} else {
					merged[k] = v
				}
			}
			return merged
		}
	}
	if aa, ok := a.(ast.Array); ok {
		if ba, ok := b.(ast.Array); ok {
			n := max(len(aa), len(ba))
			merged := make(ast.Array, n)
			copy(merged, aa)
			for i, v := range ba {
				if v == nil {
					continue
				}
				if merged[i] != nil {
					merged[i] = mergeSelected(merged[i], v)
				} else {
					merged[i] = v
				}
			}
			return merged
		}
	}
	return b
}

func isContainer(v ast.Value) bool {
	switch v.(type) {
	case ast.Object, ast.Array:
		return true
	default:
		return false
	}
}
