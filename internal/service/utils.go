package service

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"transcript-extractor/internal/models"
)

// sanitizeUTF8 removes invalid UTF-8 sequences from string
// This prevents PostgreSQL encoding errors when saving text
func sanitizeUTF8(s string) string {
	if utf8.ValidString(s) {
		return s
	}

	var result strings.Builder
	result.Grow(len(s))

	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		if r == utf8.RuneError && size == 1 {
			s = s[1:]
			continue
		}
		result.WriteRune(r)
		s = s[size:]
	}

	return result.String()
}

func sanitizeFacts(f models.FinancialFacts) models.FinancialFacts {
	return models.FinancialFacts{
		Assets:       sanitizeAll(f.Assets),
		Expenditures: sanitizeAll(f.Expenditures),
		Income:       sanitizeAll(f.Income),
	}
}

func sanitizeAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = sanitizeUTF8(s)
	}
	return out
}

// parseFactsJSON decodes a model reply that should be a JSON object but may
// arrive wrapped in Markdown fences or surrounded by prose.
func parseFactsJSON(content string) (*models.FinancialFacts, error) {
	clean := cleanModelJSON(content)

	var facts models.FinancialFacts
	if err := json.Unmarshal([]byte(clean), &facts); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w, content: %s", err, content)
	}
	return &facts, nil
}

func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		}
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}

	if start := strings.Index(s, "{"); start != -1 {
		if end := strings.LastIndex(s, "}"); end > start {
			s = s[start : end+1]
		}
	}

	return strings.TrimSpace(s)
}
