package engine

import (
	"strconv"

	"github.com/edtela/tsqn/ast"
)

// resolveIndex resolves a field key against a sequence of length n.
// Decimal keys resolve positively, "-N" counts back from the end, and
// non-numeric or out-of-range keys resolve to nothing (callers ignore
// them silently).
func resolveIndex(key string, n int) (int, bool) {
	idx, err := strconv.Atoi(key)
	if err != nil {
		return 0, false
	}
	if idx < 0 {
		idx += n
	}
	if idx < 0 || idx >= n {
		return 0, false
	}
	return idx, true
}

func indexKey(i int) string {
	return strconv.Itoa(i)
}

// getKey reads the value at a resolved key. Arrays expect the key to be
// a non-negative decimal produced by indexKey.
func getKey(data ast.Value, key string) ast.Value {
	switch container := data.(type) {
	case ast.Object:
		return container[key]
	case ast.Array:
		if idx, ok := resolveIndex(key, len(container)); ok {
			return container[idx]
		}
	}
	return nil
}

// setKey writes the value at a resolved key in place.
func setKey(data ast.Value, key string, v ast.Value) {
	switch container := data.(type) {
	case ast.Object:
		container[key] = v
	case ast.Array:
		if idx, ok := resolveIndex(key, len(container)); ok {
			container[idx] = v
		}
	}
}

// deleteKey removes a key in place. Records drop the key; sequences
// keep their length and the position becomes a hole.
func deleteKey(data ast.Value, key string) {
	switch container := data.(type) {
	case ast.Object:
		delete(container, key)
	case ast.Array:
		if idx, ok := resolveIndex(key, len(container)); ok {
			container[idx] = nil
		}
	}
}

func pathJoin(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}
