package validation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var profileLikeSchema = MustSchema(`{
	"type": "object",
	"required": ["name", "teamSize", "experience"],
	"properties": {
		"name": {"type": "string", "minLength": 1, "maxLength": 10},
		"teamSize": {"type": "integer", "minimum": 1},
		"capital": {"type": "number", "minimum": 0},
		"experience": {"type": "string", "enum": ["Beginner", "Intermediate", "Expert"]}
	}
}`)

func decode(t *testing.T, body string) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(body), &m))
	return m
}

func TestValidateInput(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantValid bool
		wantField string
		wantCode  string
	}{
		{name: "valid", body: `{"name":"Ana","teamSize":2,"capital":100,"experience":"Expert"}`, wantValid: true},
		{name: "missing required", body: `{"name":"Ana","experience":"Expert"}`, wantField: "teamSize", wantCode: "REQUIRED_FIELD_MISSING"},
		{name: "fractional integer", body: `{"name":"Ana","teamSize":1.5,"experience":"Expert"}`, wantField: "teamSize", wantCode: "INVALID_TYPE"},
		{name: "below minimum", body: `{"name":"Ana","teamSize":0,"experience":"Expert"}`, wantField: "teamSize", wantCode: "MINIMUM_VIOLATION"},
		{name: "negative capital", body: `{"name":"Ana","teamSize":1,"capital":-1,"experience":"Expert"}`, wantField: "capital", wantCode: "MINIMUM_VIOLATION"},
		{name: "bad enum", body: `{"name":"Ana","teamSize":1,"experience":"Guru"}`, wantField: "experience", wantCode: "INVALID_ENUM_VALUE"},
		{name: "blank name", body: `{"name":"   ","teamSize":1,"experience":"Expert"}`, wantField: "name", wantCode: "MIN_LENGTH_VIOLATION"},
		{name: "extra field", body: `{"name":"Ana","teamSize":1,"experience":"Expert","role":"admin"}`, wantField: "role", wantCode: "EXTRA_FIELD"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateInput(decode(t, tt.body), profileLikeSchema)
			assert.Equal(t, tt.wantValid, result.Valid)
			if tt.wantValid {
				return
			}
			require.True(t, result.HasErrors(tt.wantField), result.GetErrorMessages())
			found := false
			for _, e := range result.Errors {
				if e.Field == tt.wantField && e.Code == tt.wantCode {
					found = true
				}
			}
			assert.True(t, found, result.GetErrorMessages())
		})
	}
}

func TestValidateEmail(t *testing.T) {
	assert.True(t, ValidateEmail("founder@apex.io"))
	assert.False(t, ValidateEmail("founder@"))
	assert.False(t, ValidateEmail("not an email"))
}

func TestDocumentSchema_Validate(t *testing.T) {
	schema := MustCompileDocumentSchema(`{
		"type": "object",
		"required": ["analysis", "data"],
		"properties": {
			"analysis": {"type": "string"},
			"data": {"type": "array", "items": {"type": "object", "required": ["month"]}}
		}
	}`)

	result, err := schema.Validate([]byte(`{"analysis":"ok","data":[{"month":"Jan"}]}`))
	require.NoError(t, err)
	assert.True(t, result.Valid)

	result, err = schema.Validate([]byte(`{"analysis":"ok","data":[{}]}`))
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.NotEmpty(t, result.Errors)

	_, err = schema.Validate([]byte(`{"analysis":`))
	assert.Error(t, err)
}
