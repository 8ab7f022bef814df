package service

import (
	"context"
	"strings"
	"unicode"

	"transcript-extractor/internal/models"
	"transcript-extractor/pkg/config"
)

var (
	incomeKeywords      = []string{"earn", "salary", "income", "wage", "revenue", "bonus", "pension", "dividend"}
	expenditureKeywords = []string{"spend", "spent", "expense", "cost", "pays", "rent", "bill", "fee", "buy", "purchase"}
	assetKeywords       = []string{"owns", "has a", "have a", "saving", "fund", "insurance", "house", "car ", "car.", "property", "shares", "deposit", "investment"}
)

// StubProvider classifies sentences by keyword. It is deterministic and
// offline, intended for local development and tests.
type StubProvider struct{}

func NewStubProvider() *StubProvider {
	return &StubProvider{}
}

func (p *StubProvider) Name() string {
	return config.ProviderStub
}

func (p *StubProvider) ExtractFacts(ctx context.Context, prompt string) (*models.FinancialFacts, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	facts := &models.FinancialFacts{
		Assets:       []string{},
		Expenditures: []string{},
		Income:       []string{},
	}

	for _, sentence := range splitSentences(transcriptFromPrompt(prompt)) {
		lower := strings.ToLower(sentence)
		switch {
		case containsAny(lower, incomeKeywords):
			facts.Income = append(facts.Income, sentence)
		case containsAny(lower, expenditureKeywords):
			facts.Expenditures = append(facts.Expenditures, sentence)
		case containsAny(lower, assetKeywords):
			facts.Assets = append(facts.Assets, sentence)
		}
	}

	return facts, nil
}

// splitSentences breaks on terminal punctuation followed by a capital letter
// or the end of text, so "Rs. 50,000" stays in one sentence.
func splitSentences(text string) []string {
	runes := []rune(text)
	var sentences []string
	start := 0

	for i := 0; i < len(runes); i++ {
		if runes[i] == '\n' || strings.ContainsRune(".!?", runes[i]) && endsSentence(runes, i) {
			if s := strings.TrimSpace(string(runes[start : i+1])); s != "" {
				sentences = append(sentences, s)
			}
			start = i + 1
		}
	}
	if s := strings.TrimSpace(string(runes[start:])); s != "" {
		sentences = append(sentences, s)
	}

	return sentences
}

func endsSentence(runes []rune, i int) bool {
	j := i + 1
	if j >= len(runes) {
		return true
	}
	if !unicode.IsSpace(runes[j]) {
		return false
	}
	for j < len(runes) && unicode.IsSpace(runes[j]) {
		j++
	}
	return j >= len(runes) || unicode.IsUpper(runes[j])
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
