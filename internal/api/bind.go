package api

import (
	"encoding/json"
	"strings"

	"apex-business/internal/common/errors"
	"apex-business/internal/common/validation"

	"github.com/gin-gonic/gin"
)

var (
	registerSchema = validation.MustSchema(`{
		"type": "object",
		"properties": {
			"name":     {"type": "string", "minLength": 1, "maxLength": 120},
			"email":    {"type": "string", "minLength": 3, "maxLength": 254},
			"password": {"type": "string", "minLength": 6, "maxLength": 72}
		},
		"required": ["name", "email", "password"]
	}`)

	loginSchema = validation.MustSchema(`{
		"type": "object",
		"properties": {
			"email":    {"type": "string", "minLength": 1},
			"password": {"type": "string", "minLength": 1}
		},
		"required": ["email", "password"]
	}`)

	profileSchema = validation.MustSchema(`{
		"type": "object",
		"properties": {
			"name":         {"type": "string", "maxLength": 120},
			"email":        {"type": "string", "maxLength": 254},
			"businessIdea": {"type": "string", "minLength": 1, "maxLength": 2000},
			"capital":      {"type": "number", "minimum": 0, "maximum": 1000000000000},
			"experience":   {"type": "string", "enum": ["Beginner", "Intermediate", "Expert"]},
			"location":     {"type": "string", "maxLength": 200},
			"teamSize":     {"type": "integer", "minimum": 1, "maximum": 10000}
		},
		"required": ["businessIdea", "capital", "experience", "teamSize"],
		"additionalProperties": true
	}`)

	settingsSchema = validation.MustSchema(`{
		"type": "object",
		"properties": {
			"darkMode":      {"type": "boolean"},
			"notifications": {"type": "boolean"},
			"publicProfile": {"type": "boolean"},
			"twoFactor":     {"type": "boolean"}
		}
	}`)

	messageSchema = validation.MustSchema(`{
		"type": "object",
		"properties": {
			"text": {"type": "string"}
		},
		"required": ["text"]
	}`)
)

// bindValidated decodes the JSON body, checks it against schema and then
// decodes it into out. out may already hold values; absent fields keep them.
func bindValidated(c *gin.Context, schema validation.JSONSchema, out interface{}) error {
	raw, err := c.GetRawData()
	if err != nil {
		return errors.NewValidationFailedError("unreadable request body")
	}

	var input map[string]interface{}
	if err := json.Unmarshal(raw, &input); err != nil || input == nil {
		return errors.NewValidationFailedError("request body must be a JSON object")
	}

	result := validation.ValidateInput(input, schema)
	if !result.Valid {
		details := make([]string, 0, len(result.Errors))
		for _, e := range result.Errors {
			details = append(details, e.Field+": "+e.Message)
		}
		return errors.NewValidationFailedError(strings.Join(details, "; ")).
			WithMetadata("fields", result.Errors)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return errors.NewValidationFailedError(err.Error())
	}
	return nil
}
