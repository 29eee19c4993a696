package ast

import "fmt"

// ValidateStatement walks a statement and reports the first node that
// has no wire form: Transform statements, Func predicates, and strict
// equality outside a NOT operand. The returned error is a
// *SerializationError carrying the field path. A nil return means the
// statement serializes cleanly.
func ValidateStatement(s Statement) error {
	return validateStatement(s, "")
}

func validateStatement(s Statement, path string) error {
	switch node := s.(type) {
	case nil, Literal, Delete, Replace:
		return nil
	case Transform:
		return &SerializationError{Path: path, Reason: "transform functions have no wire form"}
	case *Fields:
		for k, sub := range node.Fields {
			if err := validateStatement(sub, joinPath(path, k)); err != nil {
				return err
			}
		}
		if err := validateStatement(node.All, joinPath(path, MarkerAll)); err != nil {
			return err
		}
		if err := validatePredicate(node.Where, joinPath(path, MarkerWhere)); err != nil {
			return err
		}
		if node.DeepAll != nil {
			if err := validateStatement(node.DeepAll, joinPath(path, MarkerDeepAll)); err != nil {
				return err
			}
		}
		return nil
	default:
		return &SerializationError{Path: path, Reason: fmt.Sprintf("unknown statement node %T", s)}
	}
}

// ValidatePredicate is the predicate counterpart of ValidateStatement.
func ValidatePredicate(p Predicate) error {
	return validatePredicate(p, "")
}

func validatePredicate(p Predicate, path string) error {
	switch node := p.(type) {
	case nil, Equals:
		return nil
	case Strict:
		return &SerializationError{Path: path, Reason: "strict equality only serializes as a NOT operand"}
	case Func:
		return &SerializationError{Path: path, Reason: "predicate functions have no wire form"}
	case AnyOf:
		for i, sub := range node {
			if err := validatePredicate(sub, fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
		return nil
	case *Cond:
		for k, sub := range node.Fields {
			if err := validatePredicate(sub, joinPath(path, k)); err != nil {
				return err
			}
		}
		// Strict is legal here: bare NOT serializes as its literal value.
		if _, bare := node.Not.(Strict); !bare {
			if err := validatePredicate(node.Not, joinPath(path, MarkerNot)); err != nil {
				return err
			}
		}
		if err := validatePredicate(node.All, joinPath(path, MarkerAll)); err != nil {
			return err
		}
		return validatePredicate(node.Some, joinPath(path, MarkerSome))
	default:
		return &SerializationError{Path: path, Reason: fmt.Sprintf("unknown predicate node %T", p)}
	}
}
