package promptcraft

import (
	"context"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	antoption "github.com/anthropics/anthropic-sdk-go/option"
	"go.uber.org/zap"
)

// AnthropicMessageService is the part of the Anthropic messages service the client uses.
type AnthropicMessageService interface {
	New(ctx context.Context, body anthropic.MessageNewParams, opts ...antoption.RequestOption) (*anthropic.Message, error)
}

// AnthropicClient completes prompts with the Anthropic messages API.
type AnthropicClient struct {
	cfg      *ModelConfig
	messages AnthropicMessageService
	logger   *zap.Logger
}

// NewAnthropicClient creates a client from cfg.
func NewAnthropicClient(cfg *ModelConfig, opts ...ClientOption) (*AnthropicClient, error) {
	cc := newClientConfig(opts)
	cfg = cfg.WithDefaults()

	messages := cc.anthropic
	if messages == nil {
		if cfg.APIKey == "" {
			return nil, NewMissingAPIKeyError(ProviderAnthropic)
		}
		reqOpts := []antoption.RequestOption{
			antoption.WithAPIKey(cfg.APIKey),
			antoption.WithMaxRetries(0),
		}
		if cfg.BaseURL != "" {
			reqOpts = append(reqOpts, antoption.WithBaseURL(cfg.BaseURL))
		}
		client := anthropic.NewClient(reqOpts...)
		service := client.Messages
		messages = &service
	}

	return &AnthropicClient{cfg: cfg, messages: messages, logger: cc.logger}, nil
}

// Complete sends prompt as a single user message and joins the text blocks of the reply.
func (c *AnthropicClient) Complete(ctx context.Context, prompt string) (*Completion, error) {
	return completionCall(ctx, c.cfg, c.logger, prompt, func(ctx context.Context) (*Completion, error) {
		resp, err := c.messages.New(ctx, c.params(prompt))
		if err != nil {
			return nil, NewProviderError(ProviderAnthropic, c.cfg.Model, err)
		}
		if resp == nil {
			return nil, NewEmptyCompletionError(ProviderAnthropic, c.cfg.Model)
		}

		var text strings.Builder
		for _, block := range resp.Content {
			if block.Type == AnthropicTextBlockType {
				text.WriteString(block.Text)
			}
		}
		return &Completion{
			Text:  strings.TrimSpace(text.String()),
			Model: string(resp.Model),
			Usage: Usage{
				PromptTokens:     resp.Usage.InputTokens,
				CompletionTokens: resp.Usage.OutputTokens,
			},
		}, nil
	})
}

func (c *AnthropicClient) params(prompt string) anthropic.MessageNewParams {
	maxTokens := int64(DefaultAnthropicTokens)
	if c.cfg.MaxTokens != nil {
		maxTokens = int64(*c.cfg.MaxTokens)
	}
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.cfg.Model),
		MaxTokens: maxTokens,
		Messages:  []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock(prompt))},
	}
	if c.cfg.Temperature != nil {
		params.Temperature = anthropic.Float(*c.cfg.Temperature)
	}
	if c.cfg.TopP != nil {
		params.TopP = anthropic.Float(*c.cfg.TopP)
	}
	return params
}
