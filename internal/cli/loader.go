package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/edtela/tsqn/ast"
)

// isYAMLPath reports whether a file should be decoded as YAML.
func isYAMLPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}

// readAsJSON loads a file and returns its contents as JSON bytes,
// transcoding YAML files so every downstream decoder only deals with
// the wire form.
func readAsJSON(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if !isYAMLPath(path) {
		return raw, nil
	}

	var decoded any
	if err := yaml.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	data, err := json.Marshal(decoded)
	if err != nil {
		return nil, fmt.Errorf("transcoding %s: %w", path, err)
	}
	return data, nil
}

// LoadValue loads a data tree from a JSON or YAML file.
func LoadValue(path string) (ast.Value, error) {
	data, err := readAsJSON(path)
	if err != nil {
		return nil, err
	}
	v, err := ast.UnmarshalValue(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return v, nil
}

// LoadStatement loads a statement from a JSON or YAML file.
func LoadStatement(path string) (ast.Statement, error) {
	data, err := readAsJSON(path)
	if err != nil {
		return nil, err
	}
	stmt, err := ast.UnmarshalStatement(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return stmt, nil
}

// LoadPredicate loads a predicate from a JSON or YAML file.
func LoadPredicate(path string) (ast.Predicate, error) {
	data, err := readAsJSON(path)
	if err != nil {
		return nil, err
	}
	pred, err := ast.UnmarshalPredicate(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return pred, nil
}

// LoadChangeRecord loads a change record from a JSON or YAML file.
func LoadChangeRecord(path string) (*ast.ChangeRecord, error) {
	data, err := readAsJSON(path)
	if err != nil {
		return nil, err
	}
	changes, err := ast.UnmarshalChangeRecord(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return changes, nil
}
