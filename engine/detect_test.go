package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edtela/tsqn/ast"
)

func changesFor(t *testing.T, data ast.Value, stmt ast.Statement) *ast.ChangeRecord {
	t.Helper()
	changes, err := Update(data, stmt, nil, nil)
	require.NoError(t, err)
	return changes
}

func TestHasChanges_AnyChange(t *testing.T) {
	data := ast.Object{"a": ast.Number(1), "b": ast.Number(2)}
	changes := changesFor(t, data, &ast.Fields{Fields: map[string]ast.Statement{
		"a": set(ast.Number(9)),
	}})

	assert.True(t, HasChanges(changes, AnyChange))
	assert.False(t, HasChanges(nil, AnyChange))
	assert.False(t, HasChanges(ast.NewChangeRecord(), AnyChange))
}

func TestHasChanges_FieldSelective(t *testing.T) {
	data := ast.Object{"a": ast.Number(1), "b": ast.Number(2)}
	changes := changesFor(t, data, &ast.Fields{Fields: map[string]ast.Statement{
		"a": set(ast.Number(9)),
	}})

	watchA := &DetectorMap{Fields: map[string]Detector{"a": AnyChange}}
	watchB := &DetectorMap{Fields: map[string]Detector{"b": AnyChange}}
	assert.True(t, HasChanges(changes, watchA))
	assert.False(t, HasChanges(changes, watchB))
}

func TestHasChanges_NestedRecursion(t *testing.T) {
	data := ast.Object{"user": ast.Object{"age": ast.Number(30), "name": ast.String("x")}}
	changes := changesFor(t, data, &ast.Fields{Fields: map[string]ast.Statement{
		"user": &ast.Fields{Fields: map[string]ast.Statement{"age": set(ast.Number(31))}},
	}})

	nestedAge := &DetectorMap{Fields: map[string]Detector{
		"user": &DetectorMap{Fields: map[string]Detector{"age": AnyChange}},
	}}
	nestedName := &DetectorMap{Fields: map[string]Detector{
		"user": &DetectorMap{Fields: map[string]Detector{"name": AnyChange}},
	}}
	assert.True(t, HasChanges(changes, nestedAge))
	assert.False(t, HasChanges(changes, nestedName))

	// A map detector pointed at a leaf change does not fire.
	leafAsMap := &DetectorMap{Fields: map[string]Detector{
		"age": &DetectorMap{Fields: map[string]Detector{"x": AnyChange}},
	}}
	flat := changesFor(t, ast.Object{"age": ast.Number(1)}, &ast.Fields{
		Fields: map[string]ast.Statement{"age": set(ast.Number(2))},
	})
	assert.False(t, HasChanges(flat, leafAsMap))
}

func TestHasChanges_AllExpansion(t *testing.T) {
	data := ast.Object{
		"a": ast.Object{"v": ast.Number(1)},
		"b": ast.Object{"v": ast.Number(2)},
	}
	changes := changesFor(t, data, &ast.Fields{Fields: map[string]ast.Statement{
		"b": &ast.Fields{Fields: map[string]ast.Statement{"v": set(ast.Number(9))}},
	}})

	anyNestedV := &DetectorMap{
		All: &DetectorMap{Fields: map[string]Detector{"v": AnyChange}},
	}
	assert.True(t, HasChanges(changes, anyNestedV))

	// Explicit fields shadow the ALL entry for their key.
	shadowed := &DetectorMap{
		Fields: map[string]Detector{"b": &DetectorMap{Fields: map[string]Detector{"other": AnyChange}}},
		All:    &DetectorMap{Fields: map[string]Detector{"v": AnyChange}},
	}
	assert.False(t, HasChanges(changes, shadowed))
}

func TestHasChanges_TypeChange(t *testing.T) {
	data := ast.Object{"v": ast.Number(1), "w": ast.Number(2)}
	changes := changesFor(t, data, &ast.Fields{Fields: map[string]ast.Statement{
		"v": set(ast.String("one")),
		"w": set(ast.Number(3)),
	}})

	watchV := &DetectorMap{Fields: map[string]Detector{"v": TypeChange}}
	watchW := &DetectorMap{Fields: map[string]Detector{"w": TypeChange}}
	assert.True(t, HasChanges(changes, watchV), "number to string is a type change")
	assert.False(t, HasChanges(changes, watchW), "number to number is not")
}

func TestHasChanges_TypeChangeNullIsOwnType(t *testing.T) {
	data := ast.Object{"v": ast.Number(1)}
	changes := changesFor(t, data, &ast.Fields{Fields: map[string]ast.Statement{
		"v": set(ast.Null{}),
	}})

	assert.True(t, HasChanges(changes, &DetectorMap{Fields: map[string]Detector{"v": TypeChange}}))
}

func TestHasChanges_TypeChangeIgnoresNestedEntries(t *testing.T) {
	data := ast.Object{"user": ast.Object{"age": ast.Number(30)}}
	changes := changesFor(t, data, &ast.Fields{Fields: map[string]ast.Statement{
		"user": &ast.Fields{Fields: map[string]ast.Statement{"age": set(ast.String("old"))}},
	}})

	// At the top level "user" holds a nested record; in-place mutation
	// is never a type change of the container itself.
	assert.False(t, HasChanges(changes, &DetectorMap{Fields: map[string]Detector{"user": TypeChange}}))
}
