package service

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/disease-support-server/internal/domain"
)

// DecodeSymptomRequest extracts the symptom list from a JSON body of the form
// {"symptoms": ["high_fever", ...]}. A missing or null field is an empty
// list. Any other shape is an InvalidInputError.
func DecodeSymptomRequest(body []byte) ([]string, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, domain.NewInvalidInputError("body", "request body is empty")
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, domain.NewInvalidInputError("body", "request body must be a JSON object")
	}
	if fields == nil {
		return nil, domain.NewInvalidInputError("body", "request body must be a JSON object")
	}

	raw, ok := fields["symptoms"]
	if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return []string{}, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, domain.NewInvalidInputError("symptoms", "must be an array of strings")
	}

	symptoms := make([]string, 0, len(items))
	for i, item := range items {
		var s string
		if err := json.Unmarshal(item, &s); err != nil || bytes.Equal(bytes.TrimSpace(item), []byte("null")) {
			return nil, domain.NewInvalidInputError(fmt.Sprintf("symptoms[%d]", i), "must be a string")
		}
		symptoms = append(symptoms, s)
	}
	return symptoms, nil
}
