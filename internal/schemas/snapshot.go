// Package schemas validates resume snapshots against their JSON Schema.
package schemas

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed snapshot.schema.json
var snapshotSchema string

// FieldError is a single validation failure at a field path.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError aggregates every schema violation found in a document.
type ValidationError struct {
	Errors []FieldError
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("snapshot validation failed:\n")
	for i, fe := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, fe.Field, fe.Message))
	}
	return sb.String()
}

// ValidateSnapshot checks raw snapshot JSON against the embedded schema.
// It returns a *ValidationError when the document is well-formed JSON but
// violates the schema.
func ValidateSnapshot(doc []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(snapshotSchema)
	documentLoader := gojsonschema.NewBytesLoader(doc)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("loading snapshot document: %w", err)
	}
	if result.Valid() {
		return nil
	}

	ve := &ValidationError{Errors: make([]FieldError, 0, len(result.Errors()))}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		ve.Errors = append(ve.Errors, FieldError{Field: field, Message: desc.Description()})
	}
	return ve
}

// ValidateSnapshotValue marshals v and validates it against the schema.
func ValidateSnapshotValue(v any) error {
	doc, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshaling snapshot: %w", err)
	}
	return ValidateSnapshot(doc)
}
