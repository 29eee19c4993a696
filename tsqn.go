// Package tsqn is a declarative engine for querying, mutating, and
// filtering tree-shaped data with small statement trees instead of
// imperative traversal code.
//
// Callers describe "what to extract" or "what changed" as data:
//
//	data := tsqn.Object{"user": tsqn.Object{
//		"name": tsqn.String("Alice"),
//		"age":  tsqn.Number(30),
//	}}
//
//	changes, err := tsqn.Update(data, &tsqn.Fields{
//		Fields: map[string]tsqn.Statement{
//			"user": &tsqn.Fields{Fields: map[string]tsqn.Statement{
//				"age": tsqn.Literal{Value: tsqn.Number(31)},
//			}},
//		},
//	})
//	// data now has age 31; Undo(data, changes) restores 30.
//
// The heavy lifting lives in two packages: ast holds the Value,
// Statement, Predicate, and ChangeRecord trees plus their JSON wire
// form, and engine implements selection, in-place update with change
// tracking, undo, transactions, predicate evaluation, and change
// detection. This package re-exports the public surface.
package tsqn

import (
	"github.com/edtela/tsqn/ast"
	"github.com/edtela/tsqn/engine"
)

// Data model.
type (
	Value  = ast.Value
	Null   = ast.Null
	Bool   = ast.Bool
	Number = ast.Number
	String = ast.String
	Array  = ast.Array
	Object = ast.Object

	Statement = ast.Statement
	Literal   = ast.Literal
	Replace   = ast.Replace
	Delete    = ast.Delete
	Transform = ast.Transform
	Fields    = ast.Fields
	Context   = ast.Context

	Predicate = ast.Predicate
	Equals    = ast.Equals
	Strict    = ast.Strict
	AnyOf     = ast.AnyOf
	Cond      = ast.Cond
	Func      = ast.Func

	ChangeRecord = ast.ChangeRecord
	Transaction  = engine.Transaction
	Detector     = engine.Detector
	DetectorFunc = engine.DetectorFunc
	DetectorMap  = engine.DetectorMap
)

// Built-in change detectors.
var (
	AnyChange  = engine.AnyChange
	TypeChange = engine.TypeChange
)

// Select applies a statement to data and returns a filtered, reshaped
// copy. The second return is false when the statement yields nothing.
// Select never mutates its input.
func Select(data Value, stmt Statement) (Value, bool) {
	return engine.Select(data, stmt)
}

// Update applies a statement to data in place and returns the change
// record, or nil when nothing changed.
func Update(data Value, stmt Statement) (*ChangeRecord, error) {
	return engine.Update(data, stmt, nil, nil)
}

// UpdateWith is Update with an existing change record to accumulate
// into and an inherited context.
func UpdateWith(data Value, stmt Statement, existing *ChangeRecord, ctx Context) (*ChangeRecord, error) {
	return engine.Update(data, stmt, existing, ctx)
}

// Undo reverts a change record against data.
func Undo(data Value, changes *ChangeRecord) {
	engine.Undo(data, changes)
}

// NewTransaction binds an accumulating transaction to a data tree.
func NewTransaction(data Value) *Transaction {
	return engine.NewTransaction(data)
}

// Evaluate applies a predicate to a value.
func Evaluate(v Value, p Predicate) bool {
	return engine.Evaluate(v, p)
}

// HasChanges walks a change record with a detector.
func HasChanges(changes *ChangeRecord, detector Detector) bool {
	return engine.HasChanges(changes, detector)
}

// ToJSON serializes a statement to its wire form; statements containing
// functions fail with the offending field path.
func ToJSON(stmt Statement) ([]byte, error) {
	return ast.MarshalStatement(stmt)
}

// FromJSON decodes a statement from its wire form. Functions are never
// reconstructed.
func FromJSON(data []byte) (Statement, error) {
	return ast.UnmarshalStatement(data)
}
