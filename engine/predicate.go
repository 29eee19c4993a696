package engine

import (
	"regexp"
	"sync"

	"github.com/edtela/tsqn/ast"
)

// Evaluate applies a predicate to a value and returns the boolean
// outcome. Evaluation is total: a clause applied to a value of the
// wrong kind is false, never an error. A nil predicate is true (no
// constraint), matching the vacuous-AND rule for empty conditions.
func Evaluate(v ast.Value, p ast.Predicate) bool {
	switch pred := p.(type) {
	case nil:
		return true
	case ast.Equals:
		return ast.Equal(v, pred.Value)
	case ast.Strict:
		return ast.StrictEqual(v, pred.Value)
	case ast.Func:
		return pred(v)
	case ast.AnyOf:
		// Vacuous OR is false, unlike the vacuous AND below.
		for _, sub := range pred {
			if Evaluate(v, sub) {
				return true
			}
		}
		return false
	case *ast.Cond:
		return evaluateCond(v, pred)
	default:
		return false
	}
}

func evaluateCond(v ast.Value, c *ast.Cond) bool {
	if c.Lt != nil && !compareOrdered(v, c.Lt, func(r int) bool { return r < 0 }) {
		return false
	}
	if c.Gt != nil && !compareOrdered(v, c.Gt, func(r int) bool { return r > 0 }) {
		return false
	}
	if c.Lte != nil && !compareOrdered(v, c.Lte, func(r int) bool { return r <= 0 }) {
		return false
	}
	if c.Gte != nil && !compareOrdered(v, c.Gte, func(r int) bool { return r >= 0 }) {
		return false
	}
	if c.Eq != nil && !ast.Equal(v, c.Eq) {
		return false
	}
	if c.Neq != nil && ast.Equal(v, c.Neq) {
		return false
	}
	if c.Match != nil && !evaluateMatch(v, c.Match) {
		return false
	}
	if c.Not != nil && Evaluate(v, c.Not) {
		return false
	}
	if c.All != nil {
		for _, elem := range collectionValues(v) {
			if !Evaluate(elem, c.All) {
				return false
			}
		}
	}
	if c.Some != nil {
		found := false
		for _, elem := range collectionValues(v) {
			if Evaluate(elem, c.Some) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	for k, sub := range c.Fields {
		// A missing field evaluates against the absent sentinel, so
		// {field: null} matches records that lack the field entirely.
		if !Evaluate(fieldOf(v, k), sub) {
			return false
		}
	}
	return true
}

// compareOrdered applies an ordering comparison. Valid for two numbers
// or two strings; any other pairing is false. Strings order by UTF-16
// code units.
func compareOrdered(v, operand ast.Value, accept func(int) bool) bool {
	switch val := v.(type) {
	case ast.Number:
		op, ok := operand.(ast.Number)
		if !ok {
			return false
		}
		switch {
		case val < op:
			return accept(-1)
		case val > op:
			return accept(1)
		default:
			return accept(0)
		}
	case ast.String:
		op, ok := operand.(ast.String)
		if !ok {
			return false
		}
		return accept(ast.CompareStrings(string(val), string(op)))
	default:
		return false
	}
}

func evaluateMatch(v, operand ast.Value) bool {
	str, ok := v.(ast.String)
	if !ok {
		return false
	}
	pattern, ok := operand.(ast.String)
	if !ok {
		return false
	}
	re, err := compileRegex(ast.MatchPattern(string(pattern)))
	if err != nil {
		return false
	}
	return re.MatchString(string(str))
}

// collectionValues returns the elements of a sequence or the property
// values of a record. Scalars quantify as empty collections, so ALL is
// vacuously true and SOME vacuously false on them.
func collectionValues(v ast.Value) []ast.Value {
	switch val := v.(type) {
	case ast.Array:
		return val
	case ast.Object:
		out := make([]ast.Value, 0, len(val))
		for _, k := range val.SortedKeys() {
			out = append(out, val[k])
		}
		return out
	default:
		return nil
	}
}

// fieldOf resolves a field lookup for predicate evaluation. Anything
// that is not a record yields the absent sentinel.
func fieldOf(v ast.Value, key string) ast.Value {
	if obj, ok := v.(ast.Object); ok {
		return obj[key]
	}
	return nil
}

var regexCache = struct {
	mu       sync.RWMutex
	patterns map[string]*regexp.Regexp
}{patterns: make(map[string]*regexp.Regexp)}

func compileRegex(pattern string) (*regexp.Regexp, error) {
	regexCache.mu.RLock()
	compiled, ok := regexCache.patterns[pattern]
	regexCache.mu.RUnlock()
	if ok {
		return compiled, nil
	}

	compiled, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}

	regexCache.mu.Lock()
	regexCache.patterns[pattern] = compiled
	regexCache.mu.Unlock()
	return compiled, nil
}
