package scenario

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed builtin.json
var builtinJSON []byte

// Encoding selects the decoder for a catalog document.
type Encoding string

const (
	EncodingJSON Encoding = "json"
	EncodingYAML Encoding = "yaml"
)

// EncodingFor picks YAML for .yaml/.yml paths and JSON otherwise.
func EncodingFor(path string) Encoding {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return EncodingYAML
	default:
		return EncodingJSON
	}
}

var (
	builtinOnce sync.Once
	builtin     *Catalog
)

// Builtin returns the catalog shipped with the binary.
// Panics if the embedded document is invalid, which the tests guard against.
func Builtin() *Catalog {
	builtinOnce.Do(func() {
		c, err := Parse(builtinJSON, EncodingJSON)
		if err != nil {
			panic(fmt.Sprintf("embedded scenario catalog: %v", err))
		}
		builtin = c
	})
	return builtin
}

// Load reads and validates a catalog file. An empty path returns the builtin catalog.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Builtin(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}

	c, err := Parse(data, EncodingFor(path))
	if err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes a catalog document, checks it against the JSON schema,
// then applies Validate.
func Parse(data []byte, enc Encoding) (*Catalog, error) {
	jsonData := data
	if enc == EncodingYAML {
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
		converted, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("convert yaml: %w", err)
		}
		jsonData = converted
	}

	var doc any
	if err := json.Unmarshal(jsonData, &doc); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	if err := checkSchema(doc); err != nil {
		return nil, err
	}

	var raw Catalog
	if err := json.Unmarshal(jsonData, &raw); err != nil {
		return nil, fmt.Errorf("decode scenarios: %w", err)
	}

	c := newCatalog(raw.Scenarios)
	if err := Validate(c); err != nil {
		return nil, err
	}
	return c, nil
}
