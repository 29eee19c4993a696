// Package engine implements the three cooperating tsqn engines over
// the ast data model:
//
//   - Evaluate: the predicate evaluator, a boolean expression language
//     with AND/OR/NOT, comparisons, regular expression matching, and
//     ALL/SOME quantifiers.
//   - Select: filtered/reshaped copies of a data tree, including
//     unbounded-depth recursive search (DEEP_ALL). Select never mutates
//     its input.
//   - Update: in-place mutation of a data tree, producing a ChangeRecord
//     that Undo can replay backwards. Transaction accumulates change
//     records across sequential updates.
//
// Everything is synchronous and single-threaded. The update engine is
// the only code that mutates shared state (the caller's data tree); no
// two engine calls may run concurrently against the same mutable tree.
// Recursion depth equals data nesting depth; cyclic data is not guarded
// against.
package engine
