package sprintdoc

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	_ "embed"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

//go:embed schema/sprints.schema.json
var embeddedSchema []byte

var compiledSchema *gojsonschema.Schema

func schemaLoader() (*gojsonschema.Schema, error) {
	if compiledSchema != nil {
		return compiledSchema, nil
	}
	loader := gojsonschema.NewBytesLoader(embeddedSchema)
	schema, err := gojsonschema.NewSchema(loader)
	if err != nil {
		return nil, fmt.Errorf("sprintdoc: compiling embedded schema: %w", err)
	}
	compiledSchema = schema
	return schema, nil
}

// Load parses and schema-validates the backlog document at path. If any
// structural validation error is found, all of them are returned (never
// fail-fast on the first).
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &ErrDocumentMissing{Path: path}
		}
		return nil, err
	}

	if errs := ValidateBytes(data); len(errs) > 0 {
		return nil, errs
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("sprintdoc: parsing %s: %w", path, err)
	}
	return &doc, nil
}

// LoadWithoutValidation parses the document permissively, skipping schema
// validation. Used during recovery when the document is known to be broken.
func LoadWithoutValidation(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &ErrDocumentMissing{Path: path}
		}
		return nil, err
	}
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("sprintdoc: parsing %s: %w", path, err)
	}
	return &doc, nil
}

// Save writes the document atomically (write-to-temp + rename), preserving
// sprint ordering.
func Save(path string, doc *Document) error {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("sprintdoc: marshaling document: %w", err)
	}
	return writeFileAtomic(path, data, 0644)
}

// ValidateAllErrors compiles the embedded JSON Schema once and runs full
// validation against the document at path, flattening each violation into
// {instance_path, message}.
func ValidateAllErrors(path string) (ValidationErrors, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &ErrDocumentMissing{Path: path}
		}
		return nil, err
	}
	return ValidateBytes(data), nil
}

// ValidateBytes schema-validates raw YAML bytes by round-tripping them
// through JSON (gojsonschema operates on JSON-shaped values).
func ValidateBytes(yamlData []byte) ValidationErrors {
	var generic interface{}
	if err := yaml.Unmarshal(yamlData, &generic); err != nil {
		return ValidationErrors{{Path: "(root)", Message: err.Error()}}
	}

	jsonCompatible := convertYAMLToJSON(generic)
	jsonBytes, err := json.Marshal(jsonCompatible)
	if err != nil {
		return ValidationErrors{{Path: "(root)", Message: err.Error()}}
	}

	schema, err := schemaLoader()
	if err != nil {
		return ValidationErrors{{Path: "(root)", Message: err.Error()}}
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(jsonBytes))
	if err != nil {
		return ValidationErrors{{Path: "(root)", Message: err.Error()}}
	}

	if result.Valid() {
		return nil
	}

	var errs ValidationErrors
	for _, re := range result.Errors() {
		errs = append(errs, ValidationError{
			Path:    re.Field(),
			Message: re.Description(),
		})
	}
	return errs
}

// convertYAMLToJSON recursively converts map[string]interface{} keys (and
// yaml.v3's map[interface{}]interface{} in older decode paths) into a
// JSON-marshalable shape.
func convertYAMLToJSON(in interface{}) interface{} {
	switch v := in.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for k, val := range v {
			out[k] = convertYAMLToJSON(val)
		}
		return out
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(v))
		for k, val := range v {
			out[fmt.Sprintf("%v", k)] = convertYAMLToJSON(val)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, val := range v {
			out[i] = convertYAMLToJSON(val)
		}
		return out
	default:
		return v
	}
}
