package ast

// Statement is a sealed interface over the node kinds of a statement
// tree. Only Literal, Replace, Delete, Transform, and *Fields implement
// it. The marker method seals the interface so engine dispatch can be
// an exhaustive type switch.
type Statement interface {
	statementNode()
}

// Literal matches or assigns a plain value. In an update it assigns the
// value at the addressed key (literal containers are deep-cloned before
// insertion). In a selection only Literal true is meaningful: it takes
// the addressed value unchanged.
type Literal struct {
	Value Value
}

func (Literal) statementNode() {}

// Replace is the one-element-sequence wrapper: replace the addressed
// value entirely, bypassing partial-merge logic. Distinguishes "assign
// this whole object" from "update these keys inside the object".
type Replace struct {
	Value Value
}

func (Replace) statementNode() {}

// Delete is the empty-sequence operand: remove the addressed key.
// Records delete the key; sequences keep their length and the position
// becomes a hole.
type Delete struct{}

func (Delete) statementNode() {}

// Transform is a statement computed at apply time from the current
// value, its parent container, the resolved key, and the inherited
// context. Transforms cannot be serialized.
type Transform func(old, parent Value, key string, ctx Context) Statement

func (Transform) statementNode() {}

// Fields is a record-shaped statement node. Plain field directives live
// in Fields, keyed by field name or decimal array index (optionally
// negative, counting from the end). The reserved directives are
// explicit struct fields:
//
//   - All: applied to every key not covered by an explicit field entry.
//   - Where: guard evaluated against the current value; on failure this
//     level contributes no changes or no result.
//   - Default (update only): assigned first, as a deep clone, when the
//     current value is absent or not a record.
//   - Context: merged into the inherited context for this level and its
//     descendants.
//   - DeepAll (select only): recursive unbounded-depth search pattern.
//
// An empty Fields selects everything and updates nothing.
type Fields struct {
	Fields  map[string]Statement
	All     Statement
	Where   Predicate
	Default Value
	Context Context
	DeepAll *Fields
}

func (*Fields) statementNode() {}

// Context is an inheritable key-value mapping scoped to a traversal.
// Each statement level re-derives its context by shallow-merging the
// parent context with its own Context directive.
type Context map[string]Value

// Merge returns the context for a level that declares override on top
// of parent. Neither input is mutated; a nil override returns parent
// as-is.
func (parent Context) Merge(override Context) Context {
	if len(override) == 0 {
		return parent
	}
	merged := make(Context, len(parent)+len(override))
	for k, v := range parent {
		merged[k] = v
	}
	for k, v := range override {
		merged[k] = v
	}
	return merged
}
