// Package schema validates JSON documents read by the CLI and HTTP API
// against JSON Schema definitions before they are decoded.
package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Schema is a named JSON Schema definition.
type Schema struct {
	Name       string
	Definition map[string]any
}

// InvalidDocumentError reports a document that failed to parse or validate.
type InvalidDocumentError struct {
	Schema string
	Err    error
}

func (e *InvalidDocumentError) Error() string {
	return fmt.Sprintf("invalid %s document: %v", e.Schema, e.Err)
}

func (e *InvalidDocumentError) Unwrap() error { return e.Err }

// IsInvalidDocument reports whether err is an *InvalidDocumentError.
func IsInvalidDocument(err error) bool {
	var target *InvalidDocumentError
	return errors.As(err, &target)
}

// schemaCache caches compiled JSON schemas by name.
var schemaCache sync.Map // map[string]*jsonschema.Schema

// Validate checks raw JSON against s.
func Validate(s *Schema, raw []byte) error {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return &InvalidDocumentError{Schema: s.Name, Err: fmt.Errorf("invalid JSON: %w", err)}
	}

	compiled, err := compile(s)
	if err != nil {
		return fmt.Errorf("compile schema %q: %w", s.Name, err)
	}

	if err := compiled.Validate(parsed); err != nil {
		return &InvalidDocumentError{Schema: s.Name, Err: err}
	}
	return nil
}

// Decode validates raw against s and unmarshals it into a T.
func Decode[T any](s *Schema, raw []byte) (T, error) {
	var out T
	if err := Validate(s, raw); err != nil {
		return out, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, &InvalidDocumentError{Schema: s.Name, Err: err}
	}
	return out, nil
}

// compile returns a cached compiled schema or compiles and caches it.
func compile(s *Schema) (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(s.Name); ok {
		return cached.(*jsonschema.Schema), nil
	}

	// The compiler wants a generic JSON value, not Go maps with typed values.
	defBytes, err := json.Marshal(s.Definition)
	if err != nil {
		return nil, fmt.Errorf("marshal schema definition: %w", err)
	}
	var defParsed any
	if err := json.Unmarshal(defBytes, &defParsed); err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}

	c := jsonschema.NewCompiler()
	url := fmt.Sprintf("schema://%s.json", s.Name)
	if err := c.AddResource(url, defParsed); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	schemaCache.Store(s.Name, compiled)
	return compiled, nil
}
