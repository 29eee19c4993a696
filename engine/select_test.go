package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edtela/tsqn/ast"
)

func takeAll() ast.Statement { return ast.Literal{Value: ast.Bool(true)} }

func TestSelect_Fields(t *testing.T) {
	data := ast.Object{"a": ast.Number(1), "b": ast.Number(2)}

	got, ok := Select(data, &ast.Fields{Fields: map[string]ast.Statement{"a": takeAll()}})
	require.True(t, ok)
	assert.Equal(t, ast.Object{"a": ast.Number(1)}, got)
}

func TestSelect_MissingKeyIsPresentNull(t *testing.T) {
	data := ast.Object{"a": ast.Number(1)}

	got, ok := Select(data, &ast.Fields{Fields: map[string]ast.Statement{"c": takeAll()}})
	require.True(t, ok)

	obj := got.(ast.Object)
	v, present := obj["c"]
	assert.True(t, present, "requested key appears in the result even when absent in the data")
	assert.Nil(t, v)
}

func TestSelect_EmptyStatementReturnsValue(t *testing.T) {
	data := ast.Object{"a": ast.Number(1)}
	got, ok := Select(data, &ast.Fields{})
	require.True(t, ok)
	assert.Equal(t, data, got)
}

func TestSelect_WhereGuard(t *testing.T) {
	data := ast.Object{"age": ast.Number(15)}
	stmt := &ast.Fields{
		Where:  &ast.Cond{Fields: map[string]ast.Predicate{"age": &ast.Cond{Gte: ast.Number(18)}}},
		Fields: map[string]ast.Statement{"age": takeAll()},
	}

	_, ok := Select(data, stmt)
	assert.False(t, ok, "failed guard yields nothing, not an empty object")

	data["age"] = ast.Number(21)
	got, ok := Select(data, stmt)
	require.True(t, ok)
	assert.Equal(t, ast.Object{"age": ast.Number(21)}, got)
}

func TestSelect_AllWithFieldAugmentation(t *testing.T) {
	data := ast.Object{
		"x": ast.Object{"id": ast.Number(1), "name": ast.String("a"), "size": ast.Number(10)},
		"y": ast.Object{"id": ast.Number(2), "name": ast.String("b"), "size": ast.Number(20)},
	}
	stmt := &ast.Fields{
		All: &ast.Fields{Fields: map[string]ast.Statement{"id": takeAll()}},
		Fields: map[string]ast.Statement{
			"y": &ast.Fields{Fields: map[string]ast.Statement{"name": takeAll()}},
		},
	}

	got, ok := Select(data, stmt)
	require.True(t, ok)
	assert.Equal(t, ast.Object{
		"x": ast.Object{"id": ast.Number(1)},
		"y": ast.Object{"id": ast.Number(2), "name": ast.String("b")},
	}, got)
}

func TestSelect_ScalarTargetYieldsNothing(t *testing.T) {
	_, ok := Select(ast.Number(5), &ast.Fields{Fields: map[string]ast.Statement{"a": takeAll()}})
	assert.False(t, ok)
}

func TestSelect_ArraySparse(t *testing.T) {
	data := ast.Array{ast.Number(10), ast.Number(20), ast.Number(30)}

	got, ok := Select(data, &ast.Fields{Fields: map[string]ast.Statement{
		"0": takeAll(),
		"2": takeAll(),
	}})
	require.True(t, ok)
	assert.Equal(t, ast.Array{ast.Number(10), nil, ast.Number(30)}, got)
}

func TestSelect_ArrayNegativeIndex(t *testing.T) {
	data := ast.Array{ast.Number(10), ast.Number(20), ast.Number(30)}

	got, ok := Select(data, &ast.Fields{Fields: map[string]ast.Statement{"-1": takeAll()}})
	require.True(t, ok)
	assert.Equal(t, ast.Array{nil, nil, ast.Number(30)}, got)
}

func TestSelect_ArrayIndexOutOfRange(t *testing.T) {
	data := ast.Array{ast.Number(10)}

	got, ok := Select(data, &ast.Fields{Fields: map[string]ast.Statement{"5": takeAll()}})
	require.True(t, ok)
	assert.Equal(t, ast.Array{nil}, got, "out-of-range index is skipped silently")
}

func TestSelect_ArrayFilteringIsDense(t *testing.T) {
	data := ast.Array{
		ast.Object{"n": ast.Number(1)},
		ast.Object{"n": ast.Number(5)},
		ast.Object{"n": ast.Number(9)},
	}
	stmt := &ast.Fields{
		All: &ast.Fields{
			Where: &ast.Cond{Fields: map[string]ast.Predicate{"n": &ast.Cond{Gt: ast.Number(3)}}},
		},
	}

	got, ok := Select(data, stmt)
	require.True(t, ok)
	assert.Equal(t, ast.Array{
		ast.Object{"n": ast.Number(5)},
		ast.Object{"n": ast.Number(9)},
	}, got)
}

func TestSelect_ArrayFilteringViaTransformIsDense(t *testing.T) {
	data := ast.Array{
		ast.Object{"n": ast.Number(1)},
		ast.Object{"n": ast.Number(5)},
		ast.Object{"n": ast.Number(9)},
	}
	guarded := ast.Transform(func(old, parent ast.Value, key string, ctx ast.Context) ast.Statement {
		return &ast.Fields{
			Where: &ast.Cond{Fields: map[string]ast.Predicate{"n": &ast.Cond{Gt: ast.Number(3)}}},
		}
	})

	got, ok := Select(data, &ast.Fields{All: guarded})
	require.True(t, ok)
	assert.Equal(t, ast.Array{
		ast.Object{"n": ast.Number(5)},
		ast.Object{"n": ast.Number(9)},
	}, got)
}

func TestSelect_NeverMutatesInput(t *testing.T) {
	data := ast.Object{
		"user": ast.Object{"name": ast.String("Alice"), "age": ast.Number(30)},
	}
	snapshot := ast.Clone(data)

	_, _ = Select(data, &ast.Fields{
		Fields: map[string]ast.Statement{
			"user": &ast.Fields{Fields: map[string]ast.Statement{"name": takeAll()}},
		},
	})
	assert.True(t, ast.StrictEqual(snapshot, data))
}

func TestSelect_Idempotent(t *testing.T) {
	data := ast.Object{
		"users": ast.Array{
			ast.Object{"name": ast.String("a"), "age": ast.Number(1)},
			ast.Object{"name": ast.String("b"), "age": ast.Number(2)},
		},
	}
	stmt := &ast.Fields{
		Fields: map[string]ast.Statement{
			"users": &ast.Fields{
				All: &ast.Fields{Fields: map[string]ast.Statement{"name": takeAll()}},
			},
		},
	}

	once, ok := Select(data, stmt)
	require.True(t, ok)
	twice, ok := Select(once, stmt)
	require.True(t, ok)
	assert.True(t, ast.StrictEqual(once, twice))
}

func TestSelect_DeepAll(t *testing.T) {
	data := ast.Object{
		"tree": ast.Object{
			"kind":  ast.String("node"),
			"id":    ast.Number(1),
			"left":  ast.Object{"kind": ast.String("node"), "id": ast.Number(2)},
			"right": ast.Object{"kind": ast.String("leaf"), "id": ast.Number(3)},
		},
	}
	stmt := &ast.Fields{
		DeepAll: &ast.Fields{
			Where: &ast.Cond{Fields: map[string]ast.Predicate{
				"kind": ast.Equals{Value: ast.String("node")},
			}},
			Fields: map[string]ast.Statement{"id": takeAll()},
		},
	}

	got, ok := Select(data, stmt)
	require.True(t, ok)
	assert.Equal(t, ast.Object{
		"tree": ast.Object{
			"id":   ast.Number(1),
			"left": ast.Object{"id": ast.Number(2)},
		},
	}, got)
}

func TestSelect_DeepAllWithoutWhereCollectsEverywhere(t *testing.T) {
	data := ast.Object{
		"a": ast.Object{"id": ast.Number(1), "b": ast.Object{"id": ast.Number(2)}},
		"c": ast.Number(9),
	}
	stmt := &ast.Fields{
		DeepAll: &ast.Fields{Fields: map[string]ast.Statement{"id": takeAll()}},
	}

	got, ok := Select(data, stmt)
	require.True(t, ok)
	assert.Equal(t, ast.Object{
		"a": ast.Object{"id": ast.Number(1), "b": ast.Object{"id": ast.Number(2)}},
	}, got)
}

func TestSelect_DeepAllNullFuzziness(t *testing.T) {
	// A WHERE testing a field against null also matches containers that
	// merely lack the field. The wrapper object here has no "deleted"
	// key, yet it satisfies the predicate, so its "id" is projected too.
	data := ast.Object{
		"id": ast.Number(0),
		"item": ast.Object{
			"id":      ast.Number(1),
			"deleted": ast.Null{},
		},
	}
	stmt := &ast.Fields{
		DeepAll: &ast.Fields{
			Where: &ast.Cond{Fields: map[string]ast.Predicate{
				"deleted": ast.Equals{Value: ast.Null{}},
			}},
			Fields: map[string]ast.Statement{"id": takeAll()},
		},
	}

	got, ok := Select(data, stmt)
	require.True(t, ok)
	assert.Equal(t, ast.Object{
		"id":   ast.Number(0),
		"item": ast.Object{"id": ast.Number(1)},
	}, got)
}

func TestSelect_DeepAllNoMatches(t *testing.T) {
	data := ast.Object{"a": ast.Object{"x": ast.Number(1)}}
	stmt := &ast.Fields{
		DeepAll: &ast.Fields{
			Where:  &ast.Cond{Fields: map[string]ast.Predicate{"kind": ast.Equals{Value: ast.String("nope")}}},
			Fields: map[string]ast.Statement{"x": takeAll()},
		},
	}

	_, ok := Select(data, stmt)
	assert.False(t, ok)
}

func TestSelect_TransformStatement(t *testing.T) {
	data := ast.Object{"a": ast.Number(1), "b": ast.Number(2)}
	stmt := &ast.Fields{
		Fields: map[string]ast.Statement{
			"a": ast.Transform(func(old, parent ast.Value, key string, ctx ast.Context) ast.Statement {
				return takeAll()
			}),
		},
	}

	got, ok := Select(data, stmt)
	require.True(t, ok)
	assert.Equal(t, ast.Object{"a": ast.Number(1)}, got)
}
