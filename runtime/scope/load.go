package scope

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// valuesSchema describes an initial-context file: an object mapping variable
// names to integers, written either as JSON integers or as digit strings.
const valuesSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "propertyNames": {"pattern": "^[A-Za-z][A-Za-z0-9_]*$"},
  "additionalProperties": {
    "oneOf": [
      {"type": "string", "pattern": "^-?[0-9]+$"},
      {"type": "integer"}
    ]
  }
}`

const valuesSchemaURL = "dbn://schema/values.json"

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

func valuesValidator() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource(valuesSchemaURL, strings.NewReader(valuesSchema)); err != nil {
			compileErr = fmt.Errorf("add values schema: %w", err)
			return
		}
		compiledSchema, compileErr = compiler.Compile(valuesSchemaURL)
	})
	return compiledSchema, compileErr
}

// LoadJSON reads numeric bindings from a JSON object such as
// {"mid": "50", "top": 70} and returns them as a scope.
func LoadJSON(r io.Reader) (*Scope, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode values: %w", err)
	}

	validator, err := valuesValidator()
	if err != nil {
		return nil, err
	}
	if err := validator.Validate(doc); err != nil {
		return nil, fmt.Errorf("invalid values: %w", err)
	}

	values := make(map[string]string)
	for name, raw := range doc.(map[string]interface{}) {
		switch v := raw.(type) {
		case string:
			values[name] = v
		case json.Number:
			n, err := v.Int64()
			if err != nil {
				return nil, fmt.Errorf("value of %q: %w", name, err)
			}
			values[name] = fmt.Sprint(n)
		}
	}
	return FromValues(values), nil
}
