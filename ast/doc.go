// Package ast defines the data model shared by the tsqn engines.
//
// Three trees live here:
//
//   - Value: the data being queried or mutated. A sealed interface over
//     Null, Bool, Number, String, Array, and Object. A nil Value is the
//     absent/undefined sentinel, distinct from explicit Null under strict
//     equality but equal to it under loose equality.
//
//   - Statement: a declarative description of an update or selection.
//     A sealed interface over Literal, Replace, Delete, Transform, and
//     Fields. Reserved directives (ALL, WHERE, DEFAULT, CONTEXT, DEEP_ALL)
//     are explicit struct fields on Fields rather than magic map keys, so
//     dispatch is an exhaustive type switch instead of shape sniffing.
//
//   - Predicate: a boolean sub-language over values, sealed over Equals,
//     Strict, AnyOf, Cond, and Func.
//
// The package also carries the ChangeRecord produced by updates, the
// JSON codec that maps reserved directives to short string markers, and
// a canonical JSON form for deterministic output.
package ast
