package gateway

import (
	"encoding/json"
	"fmt"
	"strings"

	"apex-business/internal/common/errors"
	"apex-business/internal/common/validation"
	"apex-business/internal/models"
)

// decodeDocument pulls the first JSON object out of raw model text, checks it
// against schema and decodes it into T.
func decodeDocument[T any](operation, raw string, schema *validation.DocumentSchema) (*T, error) {
	doc := extractJSONBlock(stripCodeFences(raw))
	if doc == "" {
		return nil, errors.NewInvalidAIOutputError(operation, "no JSON object found in response", nil)
	}

	result, err := schema.Validate([]byte(doc))
	if err != nil {
		return nil, errors.NewInvalidAIOutputError(operation, "malformed JSON", err)
	}
	if !result.Valid {
		return nil, errors.NewInvalidAIOutputError(operation,
			"schema violations: "+strings.Join(result.GetErrorMessages(), "; "), nil)
	}

	var out T
	if err := json.Unmarshal([]byte(doc), &out); err != nil {
		return nil, errors.NewInvalidAIOutputError(operation, "decode failed", err)
	}
	return &out, nil
}

// normalizeRoadmap assigns positional ids and clears completion on fresh tasks.
func normalizeRoadmap(r *models.RisksAndRoadmap) {
	if r.Risks == nil {
		r.Risks = []models.Risk{}
	}
	if r.Roadmap == nil {
		r.Roadmap = []models.RoadmapTask{}
	}
	for i := range r.Roadmap {
		r.Roadmap[i].ID = i
		r.Roadmap[i].IsCompleted = false
	}
}

// stripCodeFences drops markdown fence lines (``` or ```json) and keeps their content.
func stripCodeFences(s string) string {
	lines := strings.Split(s, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

// extractJSONBlock returns the first balanced {...} block, ignoring braces in strings.
func extractJSONBlock(s string) string {
	start := strings.IndexByte(s, '{')
	if start == -1 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}

func errUnboundSection(section models.Section) error {
	return errors.NewSectionNotFetchableError(fmt.Sprint(section))
}
