package matching

import (
	"encoding/json"
	"fmt"

	"github.com/ohler55/ojg/jp"
)

// Query evaluates a JSONPath expression against decoded JSON data.
func Query(expression string, data any) ([]any, error) {
	x, err := jp.ParseString(expression)
	if err != nil {
		return nil, fmt.Errorf("invalid JSONPath expression %q: %w", expression, err)
	}
	return x.Get(data), nil
}

// QueryJSON decodes body and evaluates expression against it.
func QueryJSON(expression string, body []byte) ([]any, error) {
	var data any
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return Query(expression, data)
}

// ValidateJSONPath reports whether expression parses.
func ValidateJSONPath(expression string) error {
	if _, err := jp.ParseString(expression); err != nil {
		return fmt.Errorf("invalid JSONPath expression %q: %w", expression, err)
	}
	return nil
}
