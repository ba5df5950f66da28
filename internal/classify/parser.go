package classify

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"secondbrain/internal/model"
)

var codeBlockRegex = regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)```")

// ParseClassification extracts the JSON object from an LLM reply and
// validates it. Models wrap answers in prose or code fences often enough
// that a plain Unmarshal is not enough.
func ParseClassification(content string) (*model.Classification, error) {
	jsonStr := extractJSONObject(content)
	if jsonStr == "" {
		return nil, fmt.Errorf("no JSON object found in response")
	}

	var c model.Classification
	if err := json.Unmarshal([]byte(jsonStr), &c); err != nil {
		return nil, fmt.Errorf("failed to parse classification: %w", err)
	}

	if c.Summary == "" {
		return nil, fmt.Errorf("classification missing summary")
	}
	if !validItemType(c.Type) {
		c.Type = model.TypeUnknown
	}
	if c.Confidence < 0 {
		c.Confidence = 0
	}
	if c.Confidence > 1 {
		c.Confidence = 1
	}

	return &c, nil
}

// extractJSONObject finds the first balanced JSON object in the content,
// preferring a fenced code block when present.
func extractJSONObject(content string) string {
	if matches := codeBlockRegex.FindStringSubmatch(content); len(matches) > 1 {
		trimmed := strings.TrimSpace(matches[1])
		if strings.HasPrefix(trimmed, "{") && strings.HasSuffix(trimmed, "}") {
			return trimmed
		}
	}

	startIdx := strings.Index(content, "{")
	if startIdx == -1 {
		return ""
	}

	depth := 0
	for i := startIdx; i < len(content); i++ {
		switch content[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return strings.TrimSpace(content[startIdx : i+1])
			}
		}
	}

	return ""
}

func validItemType(t model.ItemType) bool {
	switch t {
	case model.TypeTask, model.TypeEvent, model.TypeProject, model.TypeNote,
		model.TypeReference, model.TypeQuestion, model.TypeChat, model.TypeDelete, model.TypeUnknown:
		return true
	default:
		return false
	}
}
