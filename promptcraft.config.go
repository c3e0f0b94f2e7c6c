package promptcraft

import (
	"os"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// ModelConfig is the explicit configuration a completion client is built from.
// Nothing is read from the environment after construction.
type ModelConfig struct {
	// Provider identifier: "openai", "anthropic", "gemini" or "ollama"
	Provider string `yaml:"provider,omitempty" json:"provider,omitempty" mapstructure:"provider"`
	// Model identifier (e.g. "gpt-4o-mini")
	Model string `yaml:"model,omitempty" json:"model,omitempty" mapstructure:"model"`

	// Sampling parameters; nil means provider default.
	// Temperature is capped per provider, see MaxTemperatureFor.
	Temperature *float64 `yaml:"temperature,omitempty" json:"temperature,omitempty" mapstructure:"temperature"`
	MaxTokens   *int     `yaml:"max_tokens,omitempty" json:"max_tokens,omitempty" mapstructure:"max_tokens"`
	TopP        *float64 `yaml:"top_p,omitempty" json:"top_p,omitempty" mapstructure:"top_p"`

	// BaseURL overrides the provider endpoint
	BaseURL string `yaml:"base_url,omitempty" json:"base_url,omitempty" mapstructure:"base_url"`
	// APIKey is never serialized
	APIKey string `yaml:"-" json:"-" mapstructure:"api_key"`
	// Timeout bounds a single completion request
	Timeout time.Duration `yaml:"timeout,omitempty" json:"timeout,omitempty" mapstructure:"timeout"`
}

// KnownProviders lists the providers NewCompleter can build clients for.
var KnownProviders = []string{ProviderOpenAI, ProviderAnthropic, ProviderGemini, ProviderOllama}

// DefaultModelFor returns the default model of provider, or "" if unknown.
func DefaultModelFor(provider string) string {
	switch provider {
	case ProviderOpenAI:
		return DefaultOpenAIModel
	case ProviderAnthropic:
		return DefaultAnthropicModel
	case ProviderGemini:
		return DefaultGeminiModel
	case ProviderOllama:
		return DefaultOllamaModel
	default:
		return ""
	}
}

// MaxTemperatureFor returns the highest temperature provider accepts.
func MaxTemperatureFor(provider string) float64 {
	if provider == ProviderAnthropic {
		return TemperatureMaxAnthropic
	}
	return TemperatureMax
}

// Validate checks the config for consistency.
func (c *ModelConfig) Validate() error {
	if c == nil {
		return NewModelConfigError(ErrMsgUnknownProvider, ConfigKeyProvider)
	}
	if !slices.Contains(KnownProviders, c.Provider) {
		return NewUnknownProviderError(c.Provider)
	}

	if c.Temperature != nil {
		maxTemp := MaxTemperatureFor(c.Provider)
		if *c.Temperature < TemperatureMin || *c.Temperature > maxTemp {
			return NewTemperatureRangeError(c.Provider, maxTemp)
		}
	}

	if c.TopP != nil {
		if *c.TopP < TopPMin || *c.TopP > TopPMax {
			return NewModelConfigError(ErrMsgTopPOutOfRange, ConfigKeyTopP)
		}
	}

	if c.MaxTokens != nil && *c.MaxTokens <= 0 {
		return NewModelConfigError(ErrMsgMaxTokensInvalid, ConfigKeyMaxTokens)
	}

	return nil
}

// WithDefaults returns a copy with provider, model and timeout filled in.
func (c *ModelConfig) WithDefaults() *ModelConfig {
	out := c.Clone()
	if out == nil {
		out = &ModelConfig{}
	}
	if out.Provider == "" {
		out.Provider = DefaultProvider
	}
	out.Provider = strings.ToLower(out.Provider)
	if out.Model == "" {
		out.Model = DefaultModelFor(out.Provider)
	}
	if out.Timeout <= 0 {
		out.Timeout = DefaultRequestTimeout
	}
	return out
}

// Clone creates a deep copy of the config.
func (c *ModelConfig) Clone() *ModelConfig {
	if c == nil {
		return nil
	}
	clone := *c
	clone.Temperature = clonePtr(c.Temperature)
	clone.MaxTokens = clonePtr(c.MaxTokens)
	clone.TopP = clonePtr(c.TopP)
	return &clone
}

// Merge returns a copy of c where every field set in other wins.
func (c *ModelConfig) Merge(other *ModelConfig) *ModelConfig {
	out := c.Clone()
	if out == nil {
		out = &ModelConfig{}
	}
	if other == nil {
		return out
	}
	if other.Provider != "" {
		out.Provider = other.Provider
	}
	if other.Model != "" {
		out.Model = other.Model
	}
	if other.Temperature != nil {
		out.Temperature = clonePtr(other.Temperature)
	}
	if other.MaxTokens != nil {
		out.MaxTokens = clonePtr(other.MaxTokens)
	}
	if other.TopP != nil {
		out.TopP = clonePtr(other.TopP)
	}
	if other.BaseURL != "" {
		out.BaseURL = other.BaseURL
	}
	if other.APIKey != "" {
		out.APIKey = other.APIKey
	}
	if other.Timeout > 0 {
		out.Timeout = other.Timeout
	}
	return out
}

// YAML serializes the config without its API key.
func (c *ModelConfig) YAML() (string, error) {
	if c == nil {
		return "", nil
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// LoadOption configures LoadModelConfig.
type LoadOption func(*loadConfig)

type loadConfig struct {
	dotEnv    string
	overrides *ModelConfig
	logger    *zap.Logger
}

// WithDotEnvFile sets the dotenv file read before the environment.
// Default: ".env" in the working directory; "" disables it.
func WithDotEnvFile(path string) LoadOption {
	return func(c *loadConfig) {
		c.dotEnv = path
	}
}

// WithOverrides sets values that win over the file and the environment.
// Provider variables (API key, endpoint) are resolved for the overridden
// provider.
func WithOverrides(overrides *ModelConfig) LoadOption {
	return func(c *loadConfig) {
		c.overrides = overrides
	}
}

// WithLoadLogger sets the logger for configuration loading.
func WithLoadLogger(logger *zap.Logger) LoadOption {
	return func(c *loadConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// LoadModelConfig builds a ModelConfig from, in increasing precedence:
// defaults, the optional config file at path, a dotenv file and
// PROMPTCRAFT_* environment variables. A missing API key falls back to the
// provider's conventional variable (OPENAI_API_KEY, ...).
func LoadModelConfig(path string, opts ...LoadOption) (*ModelConfig, error) {
	lc := &loadConfig{dotEnv: DotEnvFile, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(lc)
	}

	if lc.dotEnv != "" {
		if err := godotenv.Load(lc.dotEnv); err != nil {
			lc.logger.Debug(LogMsgDotEnvSkipped, zap.String(LogFieldPath, lc.dotEnv), zap.Error(err))
		}
	}

	v := newConfigViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, NewConfigLoadError(path, err)
		}
	}

	var cfg ModelConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, NewConfigLoadError(path, err)
	}

	out := cfg.Merge(lc.overrides).WithDefaults()
	applyProviderEnv(out)

	if err := out.Validate(); err != nil {
		return nil, err
	}

	lc.logger.Debug(LogMsgConfigLoaded,
		zap.String(LogFieldPath, path),
		zap.String(LogFieldProvider, out.Provider),
		zap.String(LogFieldModel, out.Model))
	return out, nil
}

func newConfigViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// Unmarshal only sees keys viper knows about.
	for _, key := range []string{
		ConfigKeyProvider, ConfigKeyModel, ConfigKeyTemperature, ConfigKeyMaxTokens,
		ConfigKeyTopP, ConfigKeyBaseURL, ConfigKeyAPIKey, ConfigKeyTimeout,
	} {
		_ = v.BindEnv(key)
	}

	v.SetDefault(ConfigKeyProvider, DefaultProvider)
	v.SetDefault(ConfigKeyTimeout, DefaultRequestTimeout)
	return v
}

// applyProviderEnv fills the API key and endpoint from provider variables.
func applyProviderEnv(cfg *ModelConfig) {
	if cfg.APIKey == "" {
		if env := apiKeyEnv(cfg.Provider); env != "" {
			cfg.APIKey = os.Getenv(env)
		}
	}
	if cfg.BaseURL == "" {
		switch cfg.Provider {
		case ProviderOpenAI:
			cfg.BaseURL = os.Getenv(EnvOpenAIBaseURL)
		case ProviderOllama:
			cfg.BaseURL = os.Getenv(EnvOllamaHost)
		}
	}
}

func apiKeyEnv(provider string) string {
	switch provider {
	case ProviderOpenAI:
		return EnvOpenAIAPIKey
	case ProviderAnthropic:
		return EnvAnthropicAPIKey
	case ProviderGemini:
		return EnvGeminiAPIKey
	default:
		return ""
	}
}
