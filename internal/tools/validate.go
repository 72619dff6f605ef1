// ABOUTME: JSON Schema validation for tool call arguments.
// ABOUTME: Produces field-level problem lists suitable for protocol error messages.

package tools

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ArgumentError describes why tool arguments failed schema validation.
// Problems holds one human-readable entry per offending field.
type ArgumentError struct {
	Problems []string
}

func (e *ArgumentError) Error() string {
	return strings.Join(e.Problems, "; ")
}

// ValidateArguments checks args against a tool's JSON Schema.
// Returns *ArgumentError when the arguments do not conform. Properties not
// named by the schema are accepted and ignored.
func ValidateArguments(schema, args json.RawMessage) error {
	schemaLoader := gojsonschema.NewBytesLoader(schema)
	documentLoader := gojsonschema.NewBytesLoader(args)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("validating arguments: %w", err)
	}
	if result.Valid() {
		return nil
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, resultErr := range result.Errors() {
		// Required-property errors already name the field ("question is
		// required"); everything else needs the field prefix.
		switch resultErr.Type() {
		case "required":
			problems = append(problems, resultErr.Description())
		default:
			problems = append(problems, fmt.Sprintf("%s: %s", resultErr.Field(), resultErr.Description()))
		}
	}

	return &ArgumentError{Problems: problems}
}
