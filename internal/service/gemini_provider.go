package service

import (
	"context"
	"encoding/json"
	"fmt"

	"transcript-extractor/internal/models"
	"transcript-extractor/pkg/config"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// factsSchema asks Gemini to coerce its reply into FinancialFacts.
var factsSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"assets":       {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
		"expenditures": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
		"income":       {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
	},
	Required: []string{"assets", "expenditures", "income"},
}

type GeminiProvider struct {
	client *genai.Client
	model  string
	logger *zap.Logger
}

func NewGeminiProvider(ctx context.Context, cfg *config.GeminiConfig, logger *zap.Logger) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	logger.Info("Using Gemini model", zap.String("model", cfg.Model))

	return &GeminiProvider{
		client: client,
		model:  cfg.Model,
		logger: logger,
	}, nil
}

func (p *GeminiProvider) Name() string {
	return config.ProviderGemini
}

func (p *GeminiProvider) ExtractFacts(ctx context.Context, prompt string) (*models.FinancialFacts, error) {
	genConfig := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](0),
		ResponseMIMEType: "application/json",
		ResponseSchema:   factsSchema,
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(prompt), genConfig)
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}

	rawText := resp.Text()
	if rawText == "" {
		return nil, fmt.Errorf("empty response from model")
	}

	var facts models.FinancialFacts
	if err := json.Unmarshal([]byte(rawText), &facts); err != nil {
		// the schema should prevent this; fall back to lenient parsing
		return parseFactsJSON(rawText)
	}

	return &facts, nil
}
