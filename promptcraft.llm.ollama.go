package promptcraft

import (
	"context"
	"strings"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

type ollamaGenerateRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	Stream  bool           `json:"stream"`
	Options map[string]any `json:"options,omitempty"`
}

type ollamaGenerateResponse struct {
	Model           string `json:"model"`
	Response        string `json:"response"`
	Done            bool   `json:"done"`
	PromptEvalCount int64  `json:"prompt_eval_count"`
	EvalCount       int64  `json:"eval_count"`
	Error           string `json:"error"`
}

// OllamaClient completes prompts against a local Ollama server.
type OllamaClient struct {
	cfg    *ModelConfig
	http   *resty.Client
	logger *zap.Logger
}

// NewOllamaClient creates a client from cfg. No API key is needed.
func NewOllamaClient(cfg *ModelConfig, opts ...ClientOption) (*OllamaClient, error) {
	cc := newClientConfig(opts)
	cfg = cfg.WithDefaults()

	baseURL := cc.baseURL
	if baseURL == "" {
		baseURL = cfg.BaseURL
	}
	if baseURL == "" {
		baseURL = DefaultOllamaBaseURL
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader(HeaderContentType, ContentTypeJSON)

	return &OllamaClient{cfg: cfg, http: client, logger: cc.logger}, nil
}

// Complete calls /api/generate without streaming.
func (c *OllamaClient) Complete(ctx context.Context, prompt string) (*Completion, error) {
	return completionCall(ctx, c.cfg, c.logger, prompt, func(ctx context.Context) (*Completion, error) {
		var out ollamaGenerateResponse
		res, err := c.http.R().
			SetContext(ctx).
			SetBody(c.request(prompt)).
			SetResult(&out).
			Post(OllamaGenerateEndpoint)
		if err != nil {
			return nil, NewProviderError(ProviderOllama, c.cfg.Model, err)
		}
		if !res.IsSuccess() {
			return nil, NewProviderStatusError(ProviderOllama, c.cfg.Model, res.StatusCode(), res.String())
		}
		if out.Error != "" {
			return nil, NewProviderStatusError(ProviderOllama, c.cfg.Model, res.StatusCode(), out.Error)
		}
		return &Completion{
			Text:  strings.TrimSpace(out.Response),
			Model: out.Model,
			Usage: Usage{
				PromptTokens:     out.PromptEvalCount,
				CompletionTokens: out.EvalCount,
			},
		}, nil
	})
}

func (c *OllamaClient) request(prompt string) ollamaGenerateRequest {
	req := ollamaGenerateRequest{Model: c.cfg.Model, Prompt: prompt}
	options := map[string]any{}
	if c.cfg.Temperature != nil {
		options[OllamaOptionTemperature] = *c.cfg.Temperature
	}
	if c.cfg.TopP != nil {
		options[OllamaOptionTopP] = *c.cfg.TopP
	}
	if c.cfg.MaxTokens != nil {
		options[OllamaOptionNumPredict] = *c.cfg.MaxTokens
	}
	if len(options) > 0 {
		req.Options = options
	}
	return req
}
