package promptcraft

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Completer sends one prompt to a language model and returns its reply.
type Completer interface {
	Complete(ctx context.Context, prompt string) (*Completion, error)
}

// Usage reports token accounting as returned by the provider.
type Usage struct {
	PromptTokens     int64 `json:"prompt_tokens"`
	CompletionTokens int64 `json:"completion_tokens"`
	TotalTokens      int64 `json:"total_tokens"`
}

// Completion is a model reply.
type Completion struct {
	Text     string `json:"text"`
	Model    string `json:"model"`
	Provider string `json:"provider"`
	Usage    Usage  `json:"usage"`
}

// CompleterFunc adapts a function to the Completer interface.
type CompleterFunc func(ctx context.Context, prompt string) (*Completion, error)

// Complete calls f.
func (f CompleterFunc) Complete(ctx context.Context, prompt string) (*Completion, error) {
	return f(ctx, prompt)
}

// ClientOption configures a completion client.
type ClientOption func(*clientConfig)

type clientConfig struct {
	logger    *zap.Logger
	openai    OpenAIChatService
	anthropic AnthropicMessageService
	gemini    GeminiModelService
	baseURL   string
}

func newClientConfig(opts []ClientOption) *clientConfig {
	cc := &clientConfig{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(cc)
	}
	return cc
}

// WithClientLogger sets the logger for a completion client.
func WithClientLogger(logger *zap.Logger) ClientOption {
	return func(c *clientConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithOpenAIService replaces the OpenAI chat completions service.
func WithOpenAIService(svc OpenAIChatService) ClientOption {
	return func(c *clientConfig) {
		c.openai = svc
	}
}

// WithAnthropicService replaces the Anthropic messages service.
func WithAnthropicService(svc AnthropicMessageService) ClientOption {
	return func(c *clientConfig) {
		c.anthropic = svc
	}
}

// WithGeminiService replaces the Gemini models service.
func WithGeminiService(svc GeminiModelService) ClientOption {
	return func(c *clientConfig) {
		c.gemini = svc
	}
}

// WithHTTPBaseURL overrides the endpoint of HTTP based clients (ollama).
func WithHTTPBaseURL(baseURL string) ClientOption {
	return func(c *clientConfig) {
		c.baseURL = baseURL
	}
}

// NewCompleter builds the client for cfg.Provider. cfg is copied and
// defaulted; the caller keeps ownership.
func NewCompleter(ctx context.Context, cfg *ModelConfig, opts ...ClientOption) (Completer, error) {
	effective := cfg.WithDefaults()
	if err := effective.Validate(); err != nil {
		return nil, err
	}

	switch effective.Provider {
	case ProviderOpenAI:
		return NewOpenAIClient(effective, opts...)
	case ProviderAnthropic:
		return NewAnthropicClient(effective, opts...)
	case ProviderGemini:
		return NewGeminiClient(ctx, effective, opts...)
	case ProviderOllama:
		return NewOllamaClient(effective, opts...)
	default:
		return nil, NewUnknownProviderError(effective.Provider)
	}
}

// completionCall wraps one provider request with timeout and logging.
func completionCall(ctx context.Context, cfg *ModelConfig, logger *zap.Logger, prompt string, do func(context.Context) (*Completion, error)) (*Completion, error) {
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	logger.Debug(LogMsgCompletionRequest,
		zap.String(LogFieldProvider, cfg.Provider),
		zap.String(LogFieldModel, cfg.Model),
		zap.Int(LogFieldPromptLength, len(prompt)))

	start := time.Now()
	completion, err := do(ctx)
	if err != nil {
		logger.Warn(LogMsgCompletionFailed,
			zap.String(LogFieldProvider, cfg.Provider),
			zap.String(LogFieldModel, cfg.Model),
			zap.Error(err))
		return nil, err
	}
	if completion.Text == "" {
		return nil, NewEmptyCompletionError(cfg.Provider, cfg.Model)
	}

	completion.Provider = cfg.Provider
	if completion.Model == "" {
		completion.Model = cfg.Model
	}
	if completion.Usage.TotalTokens == 0 {
		completion.Usage.TotalTokens = completion.Usage.PromptTokens + completion.Usage.CompletionTokens
	}

	logger.Debug(LogMsgCompletionDone,
		zap.String(LogFieldProvider, cfg.Provider),
		zap.String(LogFieldModel, completion.Model),
		zap.Int64(LogFieldPromptTokens, completion.Usage.PromptTokens),
		zap.Int64(LogFieldCompletionTokens, completion.Usage.CompletionTokens),
		zap.Duration(LogFieldDuration, time.Since(start)))
	return completion, nil
}
