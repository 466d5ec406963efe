package autofix

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/securego/gosonar"
)

const (
	AIPrompt = `Provide a brief explanation and a solution to fix this SonarQube issue
  raised by rule %s in %s: %q.
  Answer in markdown format and keep the response limited to 200 words.`
	GeminiProvider = "gemini"

	timeout = 30 * time.Second
)

// GenAIClient defines the interface for the GenAI client
type GenAIClient interface {
	GenerateSolution(ctx context.Context, prompt string) (string, error)
}

// Prompt builds the question sent for an issue
func Prompt(issue *gosonar.Issue) string {
	return fmt.Sprintf(AIPrompt, issue.Rule, gosonar.ComponentPath(issue.Component), issue.Message)
}

func generateSolution(client GenAIClient, data *gosonar.ReportInfo) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if data.Autofix == nil {
		data.Autofix = make(map[string]string)
	}
	cachedAutofix := make(map[string]string)
	for _, issue := range data.Issues {
		cacheKey := issue.Rule + "\x00" + issue.Message
		if val, ok := cachedAutofix[cacheKey]; ok {
			data.Autofix[issue.Key] = val
			continue
		}

		resp, err := client.GenerateSolution(ctx, Prompt(issue))
		if err != nil {
			return fmt.Errorf("generating autofix with gemini: %w", err)
		}
		if resp == "" {
			return errors.New("no autofix returned by gemini")
		}

		data.Autofix[issue.Key] = resp
		cachedAutofix[cacheKey] = resp
	}
	return nil
}

// GenerateSolution fills the autofix of every issue of the report using
// the specified AI provider. The provider is "gemini" or a gemini model name.
func GenerateSolution(aiAPIProvider, aiAPIKey, endpoint string, data *gosonar.ReportInfo) error {
	if !strings.HasPrefix(aiAPIProvider, GeminiProvider) {
		return fmt.Errorf("unsupported AI backend: %s", aiAPIProvider)
	}
	if len(data.Issues) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	client, err := NewGeminiClient(ctx, aiAPIProvider, aiAPIKey, endpoint)
	if err != nil {
		return fmt.Errorf("initializing AI client: %w", err)
	}
	if closer, ok := client.(io.Closer); ok {
		defer closer.Close()
	}

	return generateSolution(client, data)
}
