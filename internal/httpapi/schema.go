package httpapi

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"horse.fit/transgate/internal/translation"
)

//go:embed translate_request.schema.json
var translateRequestSchemaJSON string

// translateRequest is the POST /translate body. Pointers distinguish absent fields from empty ones.
type translateRequest struct {
	Text       *string   `json:"text"`
	Texts      *[]string `json:"texts"`
	TargetLang string    `json:"targetLang"`
	Provider   string    `json:"provider"`
}

var (
	compileOnce       sync.Once
	compiledSchema    *jsonschema.Schema
	compiledSchemaErr error
)

var errInvalidBody = &translation.ValidationError{
	Kind:    translation.InvalidText,
	Message: "Invalid request body: must be a JSON object",
}

// decodeTranslateRequest checks JSON types against the request schema and decodes the body.
// Type errors map onto the validation kind of the offending field.
func decodeTranslateRequest(body []byte) (*translateRequest, error) {
	value, err := decodeStrictJSON(body)
	if err != nil {
		return nil, errInvalidBody
	}

	schema, err := loadSchema()
	if err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}
	if err := schema.Validate(value); err != nil {
		var verr *jsonschema.ValidationError
		if errors.As(err, &verr) {
			return nil, shapeError(leafLocation(verr))
		}
		return nil, errInvalidBody
	}

	normalized, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("normalize request JSON: %w", err)
	}
	var req translateRequest
	if err := json.Unmarshal(normalized, &req); err != nil {
		return nil, errInvalidBody
	}
	return &req, nil
}

func loadSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020

		if err := compiler.AddResource("translate_request.schema.json", strings.NewReader(translateRequestSchemaJSON)); err != nil {
			compiledSchemaErr = fmt.Errorf("add schema resource: %w", err)
			return
		}

		schema, err := compiler.Compile("translate_request.schema.json")
		if err != nil {
			compiledSchemaErr = fmt.Errorf("compile schema: %w", err)
			return
		}

		compiledSchema = schema
	})

	if compiledSchemaErr != nil {
		return nil, compiledSchemaErr
	}
	if compiledSchema == nil {
		return nil, fmt.Errorf("schema not initialized")
	}
	return compiledSchema, nil
}

func decodeStrictJSON(raw []byte) (any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("body is empty")
	}

	decoder := json.NewDecoder(bytes.NewReader(trimmed))
	decoder.UseNumber()

	var value any
	if err := decoder.Decode(&value); err != nil {
		return nil, err
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return nil, fmt.Errorf("body contains trailing content")
	}
	return value, nil
}

func leafLocation(verr *jsonschema.ValidationError) string {
	for len(verr.Causes) > 0 {
		verr = verr.Causes[0]
	}
	return verr.InstanceLocation
}

func shapeError(location string) error {
	field := strings.TrimPrefix(location, "/")
	if idx := strings.IndexByte(field, '/'); idx >= 0 {
		field = field[:idx]
	}

	switch field {
	case "text":
		return &translation.ValidationError{Kind: translation.InvalidText, Message: "Invalid text: must be a string"}
	case "texts":
		return &translation.ValidationError{Kind: translation.InvalidBatch, Message: "Invalid texts: must be an array of strings"}
	case "targetLang":
		return &translation.ValidationError{Kind: translation.InvalidTargetLang, Message: "Invalid targetLang: must be a string"}
	case "provider":
		return &translation.ValidationError{Kind: translation.InvalidProvider, Message: "Invalid provider: must be a string"}
	default:
		return errInvalidBody
	}
}
