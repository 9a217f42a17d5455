package bank

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed data/bank.schema.json
var schemaData []byte

const schemaURL = "https://kanatype.local/bank.schema.json"

var (
	compiled    *jsonschema.Schema
	compileErr  error
	compileOnce sync.Once
)

func bankSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaData)); err != nil {
			compileErr = fmt.Errorf("add schema resource: %w", err)
			return
		}
		compiled, compileErr = compiler.Compile(schemaURL)
	})
	return compiled, compileErr
}

// ValidateJSON checks a JSON bank document against the bank schema.
func ValidateJSON(data []byte) error {
	schema, err := bankSchema()
	if err != nil {
		return fmt.Errorf("compile bank schema: %w", err)
	}

	var instance any
	if err := json.Unmarshal(data, &instance); err != nil {
		return fmt.Errorf("decode JSON: %w", err)
	}
	if err := schema.Validate(instance); err != nil {
		return fmt.Errorf("bank schema: %w", err)
	}
	return nil
}
