package ast

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// Reserved string markers for the wire form of statements, predicates,
// and change records. Statement markers and predicate markers are
// disjoint namespaces: "*" is ALL-over-keys in a statement and the ALL
// quantifier in a predicate.
const (
	MarkerAll     = "*"
	MarkerWhere   = "?"
	MarkerDefault = "{}"
	MarkerContext = "$"
	MarkerMeta    = "#"
	MarkerDeepAll = "**"

	MarkerLt    = "<"
	MarkerGt    = ">"
	MarkerLte   = "<="
	MarkerGte   = ">="
	MarkerEq    = "=="
	MarkerNeq   = "!="
	MarkerNot   = "!"
	MarkerMatch = "~"
	MarkerSome  = "|"
)

// SerializationError reports a statement or predicate node that has no
// wire form, with the path of the offending field.
type SerializationError struct {
	Path   string
	Reason string
}

func (e *SerializationError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("cannot serialize: %s", e.Reason)
	}
	return fmt.Sprintf("cannot serialize at %q: %s", e.Path, e.Reason)
}

func joinPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

// MarshalStatement serializes a statement to JSON using the reserved
// markers. Statements containing Transform functions fail with a
// SerializationError carrying the field path.
func MarshalStatement(s Statement) ([]byte, error) {
	return marshalStatement(s, "")
}

func marshalStatement(s Statement, path string) ([]byte, error) {
	switch node := s.(type) {
	case Literal:
		return MarshalValue(node.Value)
	case Delete:
		return []byte("[]"), nil
	case Replace:
		inner, err := MarshalValue(node.Value)
		if err != nil {
			return nil, err
		}
		return append(append([]byte("["), inner...), ']'), nil
	case Transform:
		return nil, &SerializationError{Path: path, Reason: "transform functions have no wire form"}
	case *Fields:
		return marshalFields(node, path)
	default:
		return nil, &SerializationError{Path: path, Reason: fmt.Sprintf("unknown statement node %T", s)}
	}
}

func marshalFields(node *Fields, path string) ([]byte, error) {
	entries := make(map[string]json.RawMessage, len(node.Fields)+5)

	for k, sub := range node.Fields {
		data, err := marshalStatement(sub, joinPath(path, k))
		if err != nil {
			return nil, err
		}
		entries[k] = data
	}
	if node.All != nil {
		data, err := marshalStatement(node.All, joinPath(path, MarkerAll))
		if err != nil {
			return nil, err
		}
		entries[MarkerAll] = data
	}
	if node.Where != nil {
		data, err := marshalPredicate(node.Where, joinPath(path, MarkerWhere))
		if err != nil {
			return nil, err
		}
		entries[MarkerWhere] = data
	}
	if node.Default != nil {
		data, err := MarshalValue(node.Default)
		if err != nil {
			return nil, err
		}
		entries[MarkerDefault] = data
	}
	if node.Context != nil {
		data, err := Object(node.Context).MarshalJSON()
		if err != nil {
			return nil, err
		}
		entries[MarkerContext] = data
	}
	if node.DeepAll != nil {
		data, err := marshalFields(node.DeepAll, joinPath(path, MarkerDeepAll))
		if err != nil {
			return nil, err
		}
		entries[MarkerDeepAll] = data
	}

	return writeObject(entries)
}

// writeObject assembles raw entries into a JSON object with keys in
// UTF-16 code unit order for deterministic output.
func writeObject(entries map[string]json.RawMessage) ([]byte, error) {
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, CompareStrings)

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyBytes, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(keyBytes)
		buf.WriteByte(':')
		buf.Write(entries[k])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalStatement decodes a statement from its wire form. Functions
// are never reconstructed; every decoded statement is function-free.
func UnmarshalStatement(data []byte) (Statement, error) {
	return unmarshalStatement(data, "")
}

func unmarshalStatement(data []byte, path string) (Statement, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("statement at %q: empty input", path)
	}

	switch data[0] {
	case '[':
		var raw []json.RawMessage
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("statement at %q: %w", path, err)
		}
		switch len(raw) {
		case 0:
			return Delete{}, nil
		case 1:
			v, err := UnmarshalValue(raw[0])
			if err != nil {
				return nil, fmt.Errorf("statement at %q: %w", path, err)
			}
			return Replace{Value: v}, nil
		default:
			return nil, fmt.Errorf("statement at %q: replacement wrapper must hold exactly one value, got %d", path, len(raw))
		}

	case '{':
		return unmarshalFields(data, path)

	default:
		v, err := UnmarshalValue(data)
		if err != nil {
			return nil, fmt.Errorf("statement at %q: %w", path, err)
		}
		return Literal{Value: v}, nil
	}
}

func unmarshalFields(data []byte, path string) (*Fields, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("statement at %q: %w", path, err)
	}

	node := &Fields{}
	for k, entry := range raw {
		switch k {
		case MarkerAll:
			sub, err := unmarshalStatement(entry, joinPath(path, k))
			if err != nil {
				return nil, err
			}
			node.All = sub
		case MarkerWhere:
			pred, err := unmarshalPredicate(entry, joinPath(path, k))
			if err != nil {
				return nil, err
			}
			node.Where = pred
		case MarkerDefault:
			v, err := UnmarshalValue(entry)
			if err != nil {
				return nil, fmt.Errorf("statement at %q: %w", joinPath(path, k), err)
			}
			node.Default = v
		case MarkerContext:
			v, err := UnmarshalValue(entry)
			if err != nil {
				return nil, fmt.Errorf("statement at %q: %w", joinPath(path, k), err)
			}
			obj, ok := v.(Object)
			if !ok {
				return nil, fmt.Errorf("statement at %q: context must be an object", joinPath(path, k))
			}
			node.Context = Context(obj)
		case MarkerDeepAll:
			sub, err := unmarshalFields(entry, joinPath(path, k))
			if err != nil {
				return nil, err
			}
			node.DeepAll = sub
		default:
			sub, err := unmarshalStatement(entry, joinPath(path, k))
			if err != nil {
				return nil, err
			}
			if node.Fields == nil {
				node.Fields = make(map[string]Statement)
			}
			node.Fields[k] = sub
		}
	}
	return node, nil
}

// MarshalPredicate serializes a predicate to JSON using the reserved
// markers. Func predicates and standalone Strict nodes (which only
// exist on the wire as NOT operands) fail with a SerializationError.
func MarshalPredicate(p Predicate) ([]byte, error) {
	return marshalPredicate(p, "")
}

func marshalPredicate(p Predicate, path string) ([]byte, error) {
	switch node := p.(type) {
	case Equals:
		return MarshalValue(node.Value)
	case Strict:
		return nil, &SerializationError{Path: path, Reason: "strict equality only serializes as a NOT operand"}
	case Func:
		return nil, &SerializationError{Path: path, Reason: "predicate functions have no wire form"}
	case AnyOf:
		var buf bytes.Buffer
		buf.WriteByte('[')
		for i, sub := range node {
			if i > 0 {
				buf.WriteByte(',')
			}
			data, err := marshalPredicate(sub, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}
			buf.Write(data)
		}
		buf.WriteByte(']')
		return buf.Bytes(), nil
	case *Cond:
		return marshalCond(node, path)
	default:
		return nil, &SerializationError{Path: path, Reason: fmt.Sprintf("unknown predicate node %T", p)}
	}
}

func marshalCond(node *Cond, path string) ([]byte, error) {
	entries := make(map[string]json.RawMessage, len(node.Fields)+4)

	for k, sub := range node.Fields {
		data, err := marshalPredicate(sub, joinPath(path, k))
		if err != nil {
			return nil, err
		}
		entries[k] = data
	}

	comparisons := []struct {
		marker  string
		operand Value
	}{
		{MarkerLt, node.Lt},
		{MarkerGt, node.Gt},
		{MarkerLte, node.Lte},
		{MarkerGte, node.Gte},
		{MarkerEq, node.Eq},
		{MarkerNeq, node.Neq},
		{MarkerMatch, node.Match},
	}
	for _, c := range comparisons {
		if c.operand == nil {
			continue
		}
		data, err := MarshalValue(c.operand)
		if err != nil {
			return nil, err
		}
		entries[c.marker] = data
	}

	if node.Not != nil {
		// Bare NOT (strict inequality) serializes as its literal value.
		var data []byte
		var err error
		if strict, ok := node.Not.(Strict); ok {
			data, err = MarshalValue(strict.Value)
		} else {
			data, err = marshalPredicate(node.Not, joinPath(path, MarkerNot))
		}
		if err != nil {
			return nil, err
		}
		entries[MarkerNot] = data
	}
	if node.All != nil {
		data, err := marshalPredicate(node.All, joinPath(path, MarkerAll))
		if err != nil {
			return nil, err
		}
		entries[MarkerAll] = data
	}
	if node.Some != nil {
		data, err := marshalPredicate(node.Some, joinPath(path, MarkerSome))
		if err != nil {
			return nil, err
		}
		entries[MarkerSome] = data
	}

	return writeObject(entries)
}

// UnmarshalPredicate decodes a predicate from its wire form.
func UnmarshalPredicate(data []byte) (Predicate, error) {
	return unmarshalPredicate(data, "")
}

func unmarshalPredicate(data []byte, path string) (Predicate, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("predicate at %q: empty input", path)
	}

	switch data[0] {
	case '[':
		var raw []json.RawMessage
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("predicate at %q: %w", path, err)
		}
		anyOf := make(AnyOf, len(raw))
		for i, entry := range raw {
			sub, err := unmarshalPredicate(entry, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}
			anyOf[i] = sub
		}
		return anyOf, nil

	case '{':
		return unmarshalCond(data, path)

	default:
		v, err := UnmarshalValue(data)
		if err != nil {
			return nil, fmt.Errorf("predicate at %q: %w", path, err)
		}
		return Equals{Value: v}, nil
	}
}

func unmarshalCond(data []byte, path string) (*Cond, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("predicate at %q: %w", path, err)
	}

	node := &Cond{}
	for k, entry := range raw {
		switch k {
		case MarkerLt, MarkerGt, MarkerLte, MarkerGte, MarkerEq, MarkerNeq, MarkerMatch:
			v, err := UnmarshalValue(entry)
			if err != nil {
				return nil, fmt.Errorf("predicate at %q: %w", joinPath(path, k), err)
			}
			switch k {
			case MarkerLt:
				node.Lt = v
			case MarkerGt:
				node.Gt = v
			case MarkerLte:
				node.Lte = v
			case MarkerGte:
				node.Gte = v
			case MarkerEq:
				node.Eq = v
			case MarkerNeq:
				node.Neq = v
			case MarkerMatch:
				node.Match = v
			}
		case MarkerNot:
			trimmed := bytes.TrimSpace(entry)
			if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
				sub, err := unmarshalPredicate(entry, joinPath(path, k))
				if err != nil {
					return nil, err
				}
				node.Not = sub
			} else {
				v, err := UnmarshalValue(entry)
				if err != nil {
					return nil, fmt.Errorf("predicate at %q: %w", joinPath(path, k), err)
				}
				node.Not = Strict{Value: v}
			}
		case MarkerAll:
			sub, err := unmarshalPredicate(entry, joinPath(path, k))
			if err != nil {
				return nil, err
			}
			node.All = sub
		case MarkerSome:
			sub, err := unmarshalPredicate(entry, joinPath(path, k))
			if err != nil {
				return nil, err
			}
			node.Some = sub
		default:
			sub, err := unmarshalPredicate(entry, joinPath(path, k))
			if err != nil {
				return nil, err
			}
			if node.Fields == nil {
				node.Fields = make(map[string]Predicate)
			}
			node.Fields[k] = sub
		}
	}
	return node, nil
}

// MatchPattern splits a MATCH operand into a Go regular expression.
// The operand is either a bare pattern or a "/pattern/flags" encoded
// string; the supported flags are i (case-insensitive), m (multi-line)
// and s (dot matches newline), which translate to an inline flag group.
func MatchPattern(operand string) string {
	if len(operand) >= 2 && strings.HasPrefix(operand, "/") {
		if end := strings.LastIndex(operand[1:], "/"); end >= 0 {
			pattern := operand[1 : end+1]
			flags := operand[end+2:]
			var inline strings.Builder
			for _, f := range flags {
				switch f {
				case 'i', 'm', 's':
					inline.WriteRune(f)
				}
			}
			if inline.Len() > 0 {
				return "(?" + inline.String() + ")" + pattern
			}
			return pattern
		}
	}
	return operand
}
