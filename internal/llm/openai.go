package llm

import (
	"context"

	"github.com/lukman83/baydeals/pkg/errors"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"go.uber.org/zap"
)

const DefaultOpenAIModel = "gpt-4.1-mini"

const jsonOnlyInstruction = "You must respond with valid JSON only. Do not include any text outside the JSON."

// OpenAI generates through chat completions. Images go as data URL parts.
type OpenAI struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// NewOpenAI returns nil when apiKey is empty.
func NewOpenAI(apiKey, model string, logger *zap.Logger) *OpenAI {
	if apiKey == "" {
		return nil
	}
	client := openai.NewClient(option.WithAPIKey(apiKey))
	if model == "" {
		model = DefaultOpenAIModel
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OpenAI{client: &client, model: model, logger: logger}
}

func (o *OpenAI) Name() string {
	return "openai"
}

func (o *OpenAI) Available(context.Context) bool {
	return o != nil && o.client != nil
}

func (o *OpenAI) Generate(ctx context.Context, req Request) (string, error) {
	if !o.Available(ctx) {
		return "", errors.NewBackendError("OpenAI client not initialized", o.Name(), "generate", nil)
	}

	var user openai.ChatCompletionMessageParamUnion
	if len(req.Image) > 0 {
		user = openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
			openai.TextContentPart(req.Prompt),
			openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{URL: req.DataURL()}),
		})
	} else {
		user = openai.UserMessage(req.Prompt)
	}

	messages := []openai.ChatCompletionMessageParamUnion{user}
	if req.JSON {
		messages = []openai.ChatCompletionMessageParamUnion{openai.SystemMessage(jsonOnlyInstruction), user}
	}

	o.logger.Debug("Generating with OpenAI", zap.String("model", o.model), zap.Bool("image", len(req.Image) > 0))

	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(o.model),
		Messages: messages,
	})
	if err != nil {
		return "", errors.NewBackendError("OpenAI generation failed", o.Name(), "generate", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.NewBackendError("no choices in OpenAI response", o.Name(), "generate", nil)
	}

	o.logger.Debug("OpenAI response received",
		zap.Int64("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int64("completion_tokens", resp.Usage.CompletionTokens),
	)
	return resp.Choices[0].Message.Content, nil
}
