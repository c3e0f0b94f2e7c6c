package promptcraft

import (
	"context"
	"strings"

	openai "github.com/openai/openai-go"
	oaioption "github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
	"go.uber.org/zap"
)

// OpenAIChatService is the part of the openai-go chat completions service the client uses.
type OpenAIChatService interface {
	New(ctx context.Context, body openai.ChatCompletionNewParams, opts ...oaioption.RequestOption) (*openai.ChatCompletion, error)
}

// OpenAIClient completes prompts with the OpenAI chat completions API.
type OpenAIClient struct {
	cfg    *ModelConfig
	chat   OpenAIChatService
	logger *zap.Logger
}

// NewOpenAIClient creates a client from cfg. An API key is required unless a
// service is injected or a custom base URL (a compatible local server) is set.
func NewOpenAIClient(cfg *ModelConfig, opts ...ClientOption) (*OpenAIClient, error) {
	cc := newClientConfig(opts)
	cfg = cfg.WithDefaults()

	chat := cc.openai
	if chat == nil {
		if cfg.APIKey == "" && cfg.BaseURL == "" {
			return nil, NewMissingAPIKeyError(ProviderOpenAI)
		}
		reqOpts := []oaioption.RequestOption{
			oaioption.WithAPIKey(cfg.APIKey),
			oaioption.WithMaxRetries(0),
		}
		if cfg.BaseURL != "" {
			reqOpts = append(reqOpts, oaioption.WithBaseURL(cfg.BaseURL))
		}
		client := openai.NewClient(reqOpts...)
		service := client.Chat.Completions
		chat = &service
	}

	return &OpenAIClient{cfg: cfg, chat: chat, logger: cc.logger}, nil
}

// Complete sends prompt as a single user message.
func (c *OpenAIClient) Complete(ctx context.Context, prompt string) (*Completion, error) {
	return completionCall(ctx, c.cfg, c.logger, prompt, func(ctx context.Context) (*Completion, error) {
		resp, err := c.chat.New(ctx, c.params(prompt))
		if err != nil {
			return nil, NewProviderError(ProviderOpenAI, c.cfg.Model, err)
		}
		if resp == nil || len(resp.Choices) == 0 {
			return nil, NewEmptyCompletionError(ProviderOpenAI, c.cfg.Model)
		}
		return &Completion{
			Text:  strings.TrimSpace(resp.Choices[0].Message.Content),
			Model: resp.Model,
			Usage: Usage{
				PromptTokens:     resp.Usage.PromptTokens,
				CompletionTokens: resp.Usage.CompletionTokens,
				TotalTokens:      resp.Usage.TotalTokens,
			},
		}, nil
	})
}

func (c *OpenAIClient) params(prompt string) openai.ChatCompletionNewParams {
	params := openai.ChatCompletionNewParams{
		Model:    shared.ChatModel(c.cfg.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{openai.UserMessage(prompt)},
	}
	if c.cfg.Temperature != nil {
		params.Temperature = openai.Float(*c.cfg.Temperature)
	}
	if c.cfg.TopP != nil {
		params.TopP = openai.Float(*c.cfg.TopP)
	}
	if c.cfg.MaxTokens != nil {
		params.MaxCompletionTokens = openai.Int(int64(*c.cfg.MaxTokens))
	}
	return params
}
