package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/edtela/tsqn/ast"
)

// OutputFormatter writes values in the selected output format. Results
// go to Writer; diagnostics belong on stderr so JSON output stays
// machine-readable.
type OutputFormatter struct {
	Format    string
	Canonical bool
	Writer    io.Writer
}

// WriteValue writes a value (nil writes null).
func (f *OutputFormatter) WriteValue(v ast.Value) error {
	switch {
	case f.Format == "yaml":
		data, err := yaml.Marshal(ast.ToGo(v))
		if err != nil {
			return err
		}
		_, err = f.Writer.Write(data)
		return err
	case f.Canonical:
		data, err := ast.MarshalCanonical(v)
		if err != nil {
			return err
		}
		return f.writeLine(data)
	default:
		data, err := ast.MarshalValue(v)
		if err != nil {
			return err
		}
		return f.writeIndented(data)
	}
}

// WriteJSON writes pre-encoded JSON, re-indenting it for readability.
func (f *OutputFormatter) WriteJSON(data []byte) error {
	if f.Format == "yaml" {
		var decoded any
		if err := json.Unmarshal(data, &decoded); err != nil {
			return err
		}
		out, err := yaml.Marshal(decoded)
		if err != nil {
			return err
		}
		_, err = f.Writer.Write(out)
		return err
	}
	return f.writeIndented(data)
}

func (f *OutputFormatter) writeIndented(data []byte) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return err
	}
	return f.writeLine(buf.Bytes())
}

func (f *OutputFormatter) writeLine(data []byte) error {
	_, err := fmt.Fprintf(f.Writer, "%s\n", data)
	return err
}
