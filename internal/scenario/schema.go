package scenario

import (
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const schemaURL = "https://kroneus.local/schemas/scenario-catalog.schema.json"

// catalogSchema checks structure only. Cross-field rules live in Validate.
const catalogSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["scenarios"],
  "properties": {
    "scenarios": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "name", "industry", "description", "outcome", "severity", "reason"],
        "properties": {
          "id":          {"type": "string", "minLength": 1},
          "name":        {"type": "string", "minLength": 1},
          "industry":    {"type": "string"},
          "description": {"type": "string"},
          "outcome":     {"enum": ["blocked", "allowed", "auth_required"]},
          "stopLayer":   {"type": "integer"},
          "authLevel":   {"type": "string"},
          "severity":    {"type": "string"},
          "reason":      {"type": "string"}
        }
      }
    }
  }
}`

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func loadSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		c.Draft = jsonschema.Draft2020
		if err := c.AddResource(schemaURL, strings.NewReader(catalogSchema)); err != nil {
			schemaErr = fmt.Errorf("catalog schema load failed: %w", err)
			return
		}
		compiledSchema, schemaErr = c.Compile(schemaURL)
		if schemaErr != nil {
			schemaErr = fmt.Errorf("catalog schema compile failed: %w", schemaErr)
		}
	})
	return compiledSchema, schemaErr
}

// checkSchema validates a decoded JSON document (the output of json.Unmarshal into any).
func checkSchema(doc any) error {
	sch, err := loadSchema()
	if err != nil {
		return err
	}
	if err := sch.Validate(doc); err != nil {
		return &ValidationError{Problems: []string{err.Error()}}
	}
	return nil
}
