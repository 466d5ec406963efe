package autofix

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GenAIModel is the name of a gemini model
type GenAIModel string

const (
	ModelGeminiPro2_5       GenAIModel = "gemini-2.5-pro"
	ModelGeminiFlash2_5     GenAIModel = "gemini-2.5-flash"
	ModelGeminiFlash2_5Lite GenAIModel = "gemini-2.5-flash-lite"
	ModelGeminiFlash2_0     GenAIModel = "gemini-2.0-flash"
	ModelGeminiFlash2_0Lite GenAIModel = "gemini-2.0-flash-lite"
	ModelGeminiFlash1_5     GenAIModel = "gemini-1.5-flash"
)

var _ GenAIClient = (*geminiWrapper)(nil)

type geminiWrapper struct {
	client *genai.Client
	model  GenAIModel
}

// NewGeminiClient creates a gemini client for the model named by provider
func NewGeminiClient(ctx context.Context, provider, apiKey, endpoint string) (GenAIClient, error) {
	model, err := parseGeminiModel(provider)
	if err != nil {
		return nil, err
	}
	if apiKey == "" {
		return nil, errors.New("gemini API key is required")
	}

	options := []option.ClientOption{option.WithAPIKey(apiKey)}
	if endpoint != "" {
		options = append(options, option.WithEndpoint(endpoint))
	}
	client, err := genai.NewClient(ctx, options...)
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	return &geminiWrapper{client: client, model: model}, nil
}

func (g *geminiWrapper) GenerateSolution(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.GenerativeModel(string(g.model)).GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("generating autofix: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("no autofix candidates returned")
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text.WriteString(string(t))
		}
	}
	return text.String(), nil
}

func (g *geminiWrapper) Close() error {
	return g.client.Close()
}

func parseGeminiModel(model string) (GenAIModel, error) {
	switch GenAIModel(model) {
	case ModelGeminiPro2_5, ModelGeminiFlash2_5, ModelGeminiFlash2_5Lite,
		ModelGeminiFlash2_0, ModelGeminiFlash2_0Lite, ModelGeminiFlash1_5:
		return GenAIModel(model), nil
	case GeminiProvider:
		return ModelGeminiFlash2_0Lite, nil
	default:
		return "", fmt.Errorf("unsupported gemini model: %s", model)
	}
}
