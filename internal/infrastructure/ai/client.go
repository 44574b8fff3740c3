// Package ai wraps the Gemini API for fit assessments. The prompt text
// lives in embedded files next to the executor so a rubric change is a
// reviewable diff, not a code change.
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const defaultModel = "gemini-2.5-pro"

// Generation parameters are fixed: the rubric is deterministic and the
// response must stay within a bounded JSON document.
const (
	generationTemperature = 0.2
	generationTopP        = 1.0
	maxOutputTokens       = 900
)

// Generator wraps the Google GenAI client for structured JSON output.
type Generator struct {
	client    *genai.Client
	modelName string
}

// NewGenerator creates a Generator configured for the Gemini API backend.
func NewGenerator(ctx context.Context, apiKey, model string) (*Generator, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}

	return &Generator{client: client, modelName: model}, nil
}

// GenerateJSON sends the prompt with a system instruction and returns
// the raw textual response. The model is asked for application/json
// output; callers still have to parse and validate.
func (g *Generator) GenerateJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if g == nil || g.client == nil {
		return "", errors.New("gemini generator is not initialized")
	}

	userPrompt = strings.TrimSpace(userPrompt)
	if userPrompt == "" {
		return "", errors.New("prompt must not be empty")
	}

	cfg := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(float32(generationTemperature)),
		TopP:             genai.Ptr(float32(generationTopP)),
		MaxOutputTokens:  maxOutputTokens,
		ResponseMIMEType: "application/json",
	}
	if systemPrompt = strings.TrimSpace(systemPrompt); systemPrompt != "" {
		cfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: systemPrompt}},
		}
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(userPrompt), cfg)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	output := strings.TrimSpace(builder.String())
	if output == "" {
		return "", errors.New("gemini api returned empty response")
	}

	return output, nil
}

func (g *Generator) Model() string {
	if g == nil {
		return ""
	}
	return g.modelName
}
