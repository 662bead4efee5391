package gateway

import (
	"apex-business/internal/common/validation"

	"github.com/google/generative-ai-go/genai"
)

// Response schemas sent to the model with application/json output.

var financialForecastResponseSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"analysis": {Type: genai.TypeString},
		"data": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"month":    {Type: genai.TypeString},
					"revenue":  {Type: genai.TypeNumber},
					"expenses": {Type: genai.TypeNumber},
					"profit":   {Type: genai.TypeNumber},
				},
				Required: []string{"month", "revenue", "expenses", "profit"},
			},
		},
	},
	Required: []string{"analysis", "data"},
}

var risksAndRoadmapResponseSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"risks": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"title":      {Type: genai.TypeString},
					"mitigation": {Type: genai.TypeString},
				},
				Required: []string{"title", "mitigation"},
			},
		},
		"roadmap": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"id":          {Type: genai.TypeInteger},
					"week":        {Type: genai.TypeInteger},
					"title":       {Type: genai.TypeString},
					"detail":      {Type: genai.TypeString},
					"isCompleted": {Type: genai.TypeBoolean},
				},
				Required: []string{"week", "title", "detail"},
			},
		},
	},
	Required: []string{"risks", "roadmap"},
}

// The same contracts as JSON Schema, checked on our side before decoding.

var financialForecastDocument = validation.MustCompileDocumentSchema(`{
	"type": "object",
	"required": ["analysis", "data"],
	"properties": {
		"analysis": {"type": "string"},
		"data": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["month", "revenue", "expenses", "profit"],
				"properties": {
					"month": {"type": "string"},
					"revenue": {"type": "number"},
					"expenses": {"type": "number"},
					"profit": {"type": "number"}
				}
			}
		}
	}
}`)

var risksAndRoadmapDocument = validation.MustCompileDocumentSchema(`{
	"type": "object",
	"required": ["risks", "roadmap"],
	"properties": {
		"risks": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["title", "mitigation"],
				"properties": {
					"title": {"type": "string"},
					"mitigation": {"type": "string"}
				}
			}
		},
		"roadmap": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["week", "title", "detail"],
				"properties": {
					"id": {"type": "integer"},
					"week": {"type": "integer"},
					"title": {"type": "string"},
					"detail": {"type": "string"},
					"isCompleted": {"type": "boolean"}
				}
			}
		}
	}
}`)
