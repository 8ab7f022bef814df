package service

import (
	"context"
	"fmt"
	"strings"

	"transcript-extractor/internal/models"
	"transcript-extractor/pkg/config"

	"github.com/Role1776/gigago"
	"go.uber.org/zap"
)

const gigaChatSystemInstruction = `You extract financial facts from conversation transcripts.
Always answer with a single valid JSON object with the keys "assets", "expenditures" and "income".
Each key holds an array of strings. Use an empty array when nothing fits a category.
Never invent figures that are not present in the transcript.`

type GigaChatProvider struct {
	client *gigago.Client
	model  *gigago.GenerativeModel
	logger *zap.Logger
}

func NewGigaChatProvider(ctx context.Context, cfg *config.GigaChatConfig, logger *zap.Logger) (*GigaChatProvider, error) {
	opts := []gigago.Option{
		gigago.WithCustomScope(cfg.Scope),
	}

	if cfg.InsecureSkipVerify {
		opts = append(opts, gigago.WithCustomInsecureSkipVerify(true))
		logger.Warn("GigaChat TLS certificate verification is disabled")
	}

	client, err := gigago.NewClient(ctx, cfg.APIKey, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GigaChat client: %w", err)
	}

	model := client.GenerativeModel(cfg.Model)
	model.SystemInstruction = gigaChatSystemInstruction
	model.Temperature = 0

	logger.Info("Using GigaChat model", zap.String("model", cfg.Model))

	return &GigaChatProvider{
		client: client,
		model:  model,
		logger: logger,
	}, nil
}

func (p *GigaChatProvider) Name() string {
	return config.ProviderGigaChat
}

func (p *GigaChatProvider) ExtractFacts(ctx context.Context, prompt string) (*models.FinancialFacts, error) {
	messages := []gigago.Message{
		{Role: gigago.RoleUser, Content: prompt},
	}

	resp, err := p.model.Generate(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("failed to generate response: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from LLM")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	facts, err := parseFactsJSON(content)
	if err != nil {
		return nil, err
	}

	p.logger.Debug("GigaChat facts parsed",
		zap.Int("assets", len(facts.Assets)),
		zap.Int("expenditures", len(facts.Expenditures)),
		zap.Int("income", len(facts.Income)),
	)

	return facts, nil
}

func (p *GigaChatProvider) Close() error {
	if p.client != nil {
		p.client.Close()
	}
	return nil
}
