package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/disease-support-server/internal/domain"
)

func TestDecodeSymptomRequest(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		want      []string
		wantField string
	}{
		{"Symptom list", `{"symptoms": ["high_fever", "Cough"]}`, []string{"high_fever", "Cough"}, ""},
		{"Empty list", `{"symptoms": []}`, []string{}, ""},
		{"Missing field", `{}`, []string{}, ""},
		{"Null field", `{"symptoms": null}`, []string{}, ""},
		{"Extra fields ignored", `{"symptoms": ["cough"], "age": 40}`, []string{"cough"}, ""},
		{"Empty body", ``, nil, "body"},
		{"Whitespace body", "  \n", nil, "body"},
		{"Malformed JSON", `{"symptoms": [`, nil, "body"},
		{"Array body", `["cough"]`, nil, "body"},
		{"Null body", `null`, nil, "body"},
		{"String field", `{"symptoms": "cough"}`, nil, "symptoms"},
		{"Object field", `{"symptoms": {"a": 1}}`, nil, "symptoms"},
		{"Number element", `{"symptoms": ["cough", 3]}`, nil, "symptoms[1]"},
		{"Null element", `{"symptoms": [null]}`, nil, "symptoms[0]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeSymptomRequest([]byte(tt.body))
			if tt.wantField == "" {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
				return
			}

			require.Error(t, err)
			var inputErr *domain.InvalidInputError
			require.True(t, errors.As(err, &inputErr))
			assert.Equal(t, tt.wantField, inputErr.Field)
		})
	}
}
