package sigfile

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wippyai/nativecall/errors"
)

// File is the decoded form of a signature file.
type File struct {
	Structs map[string]StructDef `yaml:"structs"`
	// ABI is the default variant for the functions in the file.
	ABI       string        `yaml:"abi"`
	Functions []FunctionDef `yaml:"functions"`
}

// StructDef declares a C struct by its fields in declaration order.
type StructDef struct {
	Fields []FieldDef `yaml:"fields"`
}

// FieldDef is one struct field. It decodes from {name, type} or from the
// short form "name type".
type FieldDef struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// UnmarshalYAML implements yaml.Unmarshaler for FieldDef.
func (f *FieldDef) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		parts := strings.Fields(value.Value)
		if len(parts) != 2 {
			return fmt.Errorf("line %d: field %q: want \"name type\"", value.Line, value.Value)
		}
		f.Name, f.Type = parts[0], parts[1]
		return nil
	}
	type plain FieldDef
	return value.Decode((*plain)(f))
}

// FunctionDef declares one native function.
type FunctionDef struct {
	// VariadicFrom is the index of the first variadic parameter; nil for
	// fixed-arity functions.
	VariadicFrom *int     `yaml:"variadic_from,omitempty"`
	Name         string   `yaml:"name"`
	Returns      string   `yaml:"returns"`
	Params       []string `yaml:"params"`
	// Upcall marks a callback implemented on the managed side.
	Upcall bool `yaml:"upcall"`
}

// Parse decodes a signature file. Unknown keys are rejected.
func Parse(data []byte) (*File, error) {
	return decode(bytes.NewReader(data))
}

// Load reads and decodes the signature file at path.
func Load(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Load("open signature file", err)
	}
	defer f.Close()
	return decode(f)
}

func decode(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var file File
	if err := dec.Decode(&file); err != nil {
		if err == io.EOF {
			return &file, nil
		}
		return nil, errors.ParseFailed("signature file", err)
	}
	return &file, nil
}
