package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/lukman83/baydeals/pkg/errors"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

const DefaultGeminiModel = "gemini-2.5-flash"

// Gemini generates through the Gemini API. Images are sent inline.
type Gemini struct {
	client *genai.Client
	model  string
	logger *zap.Logger
}

// NewGemini returns nil when apiKey is empty.
func NewGemini(ctx context.Context, apiKey, model string, logger *zap.Logger) (*Gemini, error) {
	if apiKey == "" {
		return nil, nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	if model == "" {
		model = DefaultGeminiModel
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gemini{client: client, model: model, logger: logger}, nil
}

func (g *Gemini) Name() string {
	return "gemini"
}

func (g *Gemini) Available(context.Context) bool {
	return g != nil && g.client != nil
}

func (g *Gemini) Generate(ctx context.Context, req Request) (string, error) {
	if !g.Available(ctx) {
		return "", errors.NewBackendError("gemini client not initialized", g.Name(), "generate", nil)
	}

	parts := []*genai.Part{{Text: req.Prompt}}
	if len(req.Image) > 0 {
		mime := req.ImageMIME
		if mime == "" {
			mime = "image/jpeg"
		}
		parts = append(parts, &genai.Part{InlineData: &genai.Blob{MIMEType: mime, Data: req.Image}})
	}

	config := &genai.GenerateContentConfig{}
	if req.JSON {
		config.ResponseMIMEType = "application/json"
	}

	g.logger.Debug("Generating with Gemini",
		zap.String("model", g.model),
		zap.Bool("json_mode", req.JSON),
		zap.Bool("image", len(req.Image) > 0),
	)

	resp, err := g.client.Models.GenerateContent(ctx, g.model, []*genai.Content{{Parts: parts}}, config)
	if err != nil {
		return "", errors.NewBackendError("gemini generation failed", g.Name(), "generate", err)
	}

	text := responseText(resp)
	if text == "" {
		return "", errors.NewBackendError("empty response from Gemini", g.Name(), "generate", nil)
	}
	return text, nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil {
		return ""
	}
	var texts []string
	for _, part := range candidate.Content.Parts {
		if part.Text != "" {
			texts = append(texts, part.Text)
		}
	}
	return strings.Join(texts, "")
}
