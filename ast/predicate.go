package ast

// Predicate is a sealed interface over the node kinds of the boolean
// sub-language shared by WHERE clauses in selections and updates.
// Only Equals, Strict, AnyOf, *Cond, and Func implement it.
type Predicate interface {
	predicateNode()
}

// Equals is a literal predicate: loose equality against the value.
// Absence and null are indistinguishable under Equals, so an
// Equals-null predicate matches missing fields too.
type Equals struct {
	Value Value
}

func (Equals) predicateNode() {}

// Strict is strict (non-coercing) equality: absence and null differ.
// Bare NOT wraps its operand in Strict, so {NOT: v} is strict
// inequality on primitives.
type Strict struct {
	Value Value
}

func (Strict) predicateNode() {}

// AnyOf is logical OR over its elements. An empty AnyOf is false.
type AnyOf []Predicate

func (AnyOf) predicateNode() {}

// Cond is a record-shaped predicate: logical AND over every clause
// present. An empty Cond is vacuously true. The asymmetry with AnyOf
// (vacuous OR is false, vacuous AND is true) is deliberate.
//
// Comparison operands (Lt, Gt, Lte, Gte) are valid for numbers and
// strings only; against any other value kind the clause is false, not
// an error. Eq and Neq use loose equality. Match holds a regular
// expression as a String value, either a bare pattern or a
// "/pattern/flags" encoded form. All and Some quantify a sub-predicate
// over the elements or properties of the value: All is vacuously true
// on empty collections, Some vacuously false.
//
// Fields holds per-field sub-predicates, ANDed. A field absent from the
// value is evaluated against the absent sentinel, so {field: Equals
// null} matches records missing the field - this drives the documented
// fuzzy-matching behavior of deep selection.
// A nil operand means the clause is absent; an explicit JSON null
// decodes to ast.Null, so EQ-null remains expressible.
type Cond struct {
	Fields map[string]Predicate
	Lt     Value
	Gt     Value
	Lte    Value
	Gte    Value
	Eq     Value
	Neq    Value
	Match  Value
	Not    Predicate
	All    Predicate
	Some   Predicate
}

func (*Cond) predicateNode() {}

// Func is a plain boolean-returning predicate function. Functions
// cannot be serialized.
type Func func(v Value) bool

func (Func) predicateNode() {}
