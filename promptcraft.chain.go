package promptcraft

import (
	"context"

	"go.uber.org/zap"
)

// Chain formats a prompt from inputs and sends it to a completer.
type Chain struct {
	prompt    PromptFormatter
	completer Completer
	logger    *zap.Logger
}

// ChainOption configures a Chain.
type ChainOption func(*Chain)

// WithChainLogger sets the logger for the chain.
func WithChainLogger(logger *zap.Logger) ChainOption {
	return func(c *Chain) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewChain creates a chain. Both prompt and completer are required.
func NewChain(prompt PromptFormatter, completer Completer, opts ...ChainOption) (*Chain, error) {
	if prompt == nil {
		return nil, NewConfigError(ErrMsgNilPrompt, "prompt")
	}
	if completer == nil {
		return nil, NewConfigError(ErrMsgNilCompleter, "completer")
	}
	c := &Chain{prompt: prompt, completer: completer, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Render formats the prompt without calling the model.
func (c *Chain) Render(inputs map[string]string) (string, error) {
	return c.prompt.Format(inputs)
}

// Call formats the prompt, completes it and returns the full completion.
func (c *Chain) Call(ctx context.Context, inputs map[string]string) (*Completion, error) {
	prompt, err := c.Render(inputs)
	if err != nil {
		return nil, err
	}

	c.logger.Debug(LogMsgChainRun, zap.Int(LogFieldPromptLength, len(prompt)))
	completion, err := c.completer.Complete(ctx, prompt)
	if err != nil {
		return nil, err
	}
	c.logger.Debug(LogMsgChainDone,
		zap.String(LogFieldProvider, completion.Provider),
		zap.String(LogFieldModel, completion.Model))
	return completion, nil
}

// Run formats the prompt, completes it and returns the reply text.
func (c *Chain) Run(ctx context.Context, inputs map[string]string) (string, error) {
	completion, err := c.Call(ctx, inputs)
	if err != nil {
		return "", err
	}
	return completion.Text, nil
}

// RunStructured runs chain and parses the reply with parser.
func RunStructured[T any](ctx context.Context, chain *Chain, parser OutputParser[T], inputs map[string]string) (T, error) {
	var zero T
	text, err := chain.Run(ctx, inputs)
	if err != nil {
		return zero, err
	}
	out, err := parser.Parse(text)
	if err != nil {
		return zero, err
	}
	chain.logger.Debug(LogMsgOutputParsed, zap.Int(LogFieldLength, len(text)))
	return out, nil
}
