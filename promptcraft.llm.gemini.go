package promptcraft

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// GeminiModelService is the part of the genai models service the client uses.
type GeminiModelService interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiClient completes prompts with the Gemini API.
type GeminiClient struct {
	cfg    *ModelConfig
	models GeminiModelService
	logger *zap.Logger
}

// NewGeminiClient creates a client from cfg.
func NewGeminiClient(ctx context.Context, cfg *ModelConfig, opts ...ClientOption) (*GeminiClient, error) {
	cc := newClientConfig(opts)
	cfg = cfg.WithDefaults()

	models := cc.gemini
	if models == nil {
		if cfg.APIKey == "" {
			return nil, NewMissingAPIKeyError(ProviderGemini)
		}
		clientCfg := &genai.ClientConfig{
			APIKey:  cfg.APIKey,
			Backend: genai.BackendGeminiAPI,
		}
		if cfg.BaseURL != "" {
			clientCfg.HTTPOptions.BaseURL = cfg.BaseURL
		}
		client, err := genai.NewClient(ctx, clientCfg)
		if err != nil {
			return nil, NewClientInitError(ProviderGemini, err)
		}
		models = client.Models
	}

	return &GeminiClient{cfg: cfg, models: models, logger: cc.logger}, nil
}

// Complete sends prompt as user content and joins the non-thought text parts
// of the first candidate.
func (c *GeminiClient) Complete(ctx context.Context, prompt string) (*Completion, error) {
	return completionCall(ctx, c.cfg, c.logger, prompt, func(ctx context.Context) (*Completion, error) {
		contents := []*genai.Content{
			genai.NewContentFromParts([]*genai.Part{genai.NewPartFromText(prompt)}, genai.RoleUser),
		}
		resp, err := c.models.GenerateContent(ctx, c.cfg.Model, contents, c.generationConfig())
		if err != nil {
			return nil, NewProviderError(ProviderGemini, c.cfg.Model, err)
		}
		if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
			return nil, NewEmptyCompletionError(ProviderGemini, c.cfg.Model)
		}

		var text strings.Builder
		for _, part := range resp.Candidates[0].Content.Parts {
			if part == nil || part.Thought {
				continue
			}
			text.WriteString(part.Text)
		}

		completion := &Completion{
			Text:  strings.TrimSpace(text.String()),
			Model: resp.ModelVersion,
		}
		if usage := resp.UsageMetadata; usage != nil {
			completion.Usage = Usage{
				PromptTokens:     int64(usage.PromptTokenCount),
				CompletionTokens: int64(usage.CandidatesTokenCount),
				TotalTokens:      int64(usage.TotalTokenCount),
			}
		}
		return completion, nil
	})
}

func (c *GeminiClient) generationConfig() *genai.GenerateContentConfig {
	if c.cfg.Temperature == nil && c.cfg.TopP == nil && c.cfg.MaxTokens == nil {
		return nil
	}
	config := &genai.GenerateContentConfig{}
	if c.cfg.Temperature != nil {
		temp := float32(*c.cfg.Temperature)
		config.Temperature = &temp
	}
	if c.cfg.TopP != nil {
		topP := float32(*c.cfg.TopP)
		config.TopP = &topP
	}
	if c.cfg.MaxTokens != nil {
		config.MaxOutputTokens = int32(*c.cfg.MaxTokens)
	}
	return config
}
