package httpclient

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	json "github.com/goccy/go-json"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/tidwall/gjson"
)

// Every portal entity is an object with an integer id; lists are arrays of them.
const (
	entitySchemaURL     = "alinfo://entity.json"
	collectionSchemaURL = "alinfo://collection.json"

	entitySchemaSource = `{
	"type": "object",
	"required": ["id"],
	"properties": {"id": {"type": "integer"}}
}`
	collectionSchemaSource = `{
	"type": "array",
	"items": {"$ref": "alinfo://entity.json"}
}`
)

var (
	schemasOnce      sync.Once
	entitySchema     *jsonschema.Schema
	collectionSchema *jsonschema.Schema
	schemasErr       error
)

func loadSchemas() error {
	schemasOnce.Do(func() {
		c := jsonschema.NewCompiler()
		if schemasErr = c.AddResource(entitySchemaURL, strings.NewReader(entitySchemaSource)); schemasErr != nil {
			return
		}
		if schemasErr = c.AddResource(collectionSchemaURL, strings.NewReader(collectionSchemaSource)); schemasErr != nil {
			return
		}
		if entitySchema, schemasErr = c.Compile(entitySchemaURL); schemasErr != nil {
			return
		}
		collectionSchema, schemasErr = c.Compile(collectionSchemaURL)
	})
	return schemasErr
}

func validate(schema func() *jsonschema.Schema, data []byte) error {
	if err := loadSchemas(); err != nil {
		return fmt.Errorf("failed to compile response schemas: %w", err)
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return &SchemaError{Err: err}
	}
	if err := schema().Validate(doc); err != nil {
		return &SchemaError{Err: err}
	}
	return nil
}

// DecodeEntity validates that data is a single entity and decodes it into T.
func DecodeEntity[T any](data []byte) (T, error) {
	var v T
	if err := validate(func() *jsonschema.Schema { return entitySchema }, data); err != nil {
		return v, err
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return v, &SchemaError{Err: err}
	}
	return v, nil
}

// DecodeCollection validates that data is a list of entities and decodes it.
// The order of the server response is preserved.
func DecodeCollection[T any](data []byte) ([]T, error) {
	if err := validate(func() *jsonschema.Schema { return collectionSchema }, data); err != nil {
		return nil, err
	}
	items := make([]T, 0)
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, &SchemaError{Err: err}
	}
	return items, nil
}

// DecodeOptional decodes an entity when data holds one and returns the zero
// value for an empty body or a body without an id, which DELETE endpoints
// commonly send.
func DecodeOptional[T any](data []byte) (T, error) {
	var zero T
	if len(bytes.TrimSpace(data)) == 0 || !gjson.GetBytes(data, "id").Exists() {
		return zero, nil
	}
	return DecodeEntity[T](data)
}

// DecodeValue decodes data into T without shape validation.
func DecodeValue[T any](data []byte) (T, error) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return v, &SchemaError{Err: err}
	}
	return v, nil
}
