package schema

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

// Load parses a correction-set document from JSON bytes and checks its
// schema version.
func Load(data []byte) (*CorrectionSet, error) {
	var probe struct {
		SchemaVersion *int             `json:"schema_version"`
		Corrections   *json.RawMessage `json:"corrections"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if probe.SchemaVersion == nil {
		return nil, fmt.Errorf("%w: schema_version", ErrMissingField)
	}
	if v := *probe.SchemaVersion; v != SupportedVersion {
		if v > SupportedVersion {
			return nil, fmt.Errorf("%w: evaluator is designed for schema v%d and is not forward-compatible (got v%d)", ErrSchemaVersion, SupportedVersion, v)
		}
		return nil, fmt.Errorf("%w: evaluator is designed for schema v%d and is not backward-compatible (got v%d)", ErrSchemaVersion, SupportedVersion, v)
	}
	if probe.Corrections == nil {
		return nil, fmt.Errorf("%w: corrections", ErrMissingField)
	}

	var set CorrectionSet
	if err := json.Unmarshal(data, &set); err != nil {
		// errors raised by the field unmarshalers carry their own kind
		for _, kind := range []error{ErrUnknownNodeType, ErrMissingField, ErrInvalidFieldType} {
			if errors.Is(err, kind) {
				return nil, err
			}
		}
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if err := set.check(); err != nil {
		return nil, err
	}
	return &set, nil
}

// LoadFile reads a document from a file, transparently decompressing
// gzip content (detected by the 1F 8B magic bytes).
func LoadFile(path string) (*CorrectionSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(data) >= 2 && data[0] == 0x1f && data[1] == 0x8b {
		zr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		defer zr.Close()
		if data, err = io.ReadAll(zr); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	set, err := Load(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return set, nil
}

// Marshal serializes the document. Loading the result back yields a
// behaviourally identical set; byte identity with the source document
// is not guaranteed.
func (s *CorrectionSet) Marshal() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// check verifies the document-shape requirements that plain struct
// decoding cannot express.
func (s *CorrectionSet) check() error {
	for i := range s.Corrections {
		c := &s.Corrections[i]
		if c.Name == "" {
			return fmt.Errorf("%w: corrections[%d].name", ErrMissingField, i)
		}
		if c.Data.Value() == nil {
			return fmt.Errorf("%w: correction %q: data", ErrMissingField, c.Name)
		}
		if err := checkVariables(c.Name, c.Inputs, c.Output); err != nil {
			return err
		}
	}
	for i := range s.CompoundCorrections {
		c := &s.CompoundCorrections[i]
		if c.Name == "" {
			return fmt.Errorf("%w: compound_corrections[%d].name", ErrMissingField, i)
		}
		if len(c.Stack) == 0 {
			return fmt.Errorf("%w: compound correction %q: stack", ErrMissingField, c.Name)
		}
		if err := checkVariables(c.Name, c.Inputs, c.Output); err != nil {
			return err
		}
	}
	return nil
}

func checkVariables(name string, inputs []Variable, output Variable) error {
	for _, v := range append(append([]Variable(nil), inputs...), output) {
		switch v.Type {
		case "string", "int", "real":
		case "":
			return fmt.Errorf("%w: correction %q: variable %q type", ErrMissingField, name, v.Name)
		default:
			return fmt.Errorf("%w: correction %q: variable %q has type %q", ErrInvalidFieldType, name, v.Name, v.Type)
		}
	}
	return nil
}
