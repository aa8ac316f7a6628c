package backend

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/samber/oops"
)

const (
	defaultGeminiAPIURL = "https://generativelanguage.googleapis.com"
	defaultGeminiModel  = "gemini-2.0-flash"
)

// Gemini calls the Google generative language REST API.
type Gemini struct {
	client *resty.Client
	apiURL string
	apiKey string
	model  string
}

// NewGemini creates a Gemini backend. Empty apiURL and model fall back
// to the production endpoint and default model.
func NewGemini(client *resty.Client, apiURL, apiKey, model string) *Gemini {
	if apiURL == "" {
		apiURL = defaultGeminiAPIURL
	}
	if model == "" {
		model = defaultGeminiModel
	}

	return &Gemini{
		client: client,
		apiURL: strings.TrimSuffix(apiURL, "/"),
		apiKey: apiKey,
		model:  model,
	}
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Generate sends the prompt to the generateContent endpoint and returns
// the concatenated candidate text.
func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", g.apiURL, g.model)

	var result geminiResponse
	resp, err := g.client.R().
		SetContext(ctx).
		SetHeader("x-goog-api-key", g.apiKey).
		SetBody(geminiRequest{
			Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		}).
		SetResult(&result).
		Post(url)
	if err != nil {
		return "", oops.With("model", g.model, "context", "generation request failed").Wrap(err)
	}
	if resp.IsError() {
		return "", oops.Errorf("generation service returned HTTP %d: %s", resp.StatusCode(), resp.String())
	}

	if len(result.Candidates) == 0 {
		return "", nil
	}

	var sb strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	return sb.String(), nil
}
