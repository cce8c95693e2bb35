package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Load reads a YAML config file with environment variable expansion.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return LoadFromBytes(data)
}

// LoadFromBytes loads configuration from YAML bytes with environment variable expansion
func LoadFromBytes(data []byte) (Config, error) {
	c := Default()
	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), &c); err != nil {
		return c, fmt.Errorf("parse config: %w", err)
	}
	return c, c.validate()
}

// parseBool parses a string as boolean with a default value.
// Accepts: "true", "1", "yes" as true; empty or other values return default.
func parseBool(s string, defaultVal bool) bool {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return defaultVal
	}
	return s == "true" || s == "1" || s == "yes"
}

// Model describes one inbound model name the service accepts.
type Model struct {
	// TokenLimit is the hard context budget for the model, prompt included.
	TokenLimit int `yaml:"tokenLimit"`
	// ReservedTokens is subtracted from TokenLimit before history is fitted.
	ReservedTokens int `yaml:"reservedTokens"`
	// WideReservedTokens replaces ReservedTokens when the last user message
	// is unusually short or long. Zero means never widen.
	WideReservedTokens int `yaml:"wideReservedTokens"`
	// Backend selects the upstream: "openrouter", "openai" or "anthropic".
	Backend string `yaml:"backend"`
	// BackendModel is the model name sent upstream when it differs from the
	// inbound name.
	BackendModel string `yaml:"backendModel"`
}

type Config struct {
	Server struct {
		Host          string `yaml:"host"`
		Port          int    `yaml:"port"`
		AllowedOrigin string `yaml:"allowedOrigin"`
	} `yaml:"server"`
	Auth struct {
		// StatusCheckURL is the external per-user entitlement endpoint hit
		// before every request. Empty disables the check.
		StatusCheckURL string `yaml:"statusCheckURL"`
		TimeoutSeconds int    `yaml:"timeoutSeconds"`
	} `yaml:"auth"`
	Window struct {
		// Last-message length band outside which the wide reserve applies.
		MinLastMessageLen int `yaml:"minLastMessageLen"`
		MaxLastMessageLen int `yaml:"maxLastMessageLen"`
	} `yaml:"window"`
	Models map[string]Model `yaml:"models"`
	Completion struct {
		OpenAIBaseURL     string `yaml:"openaiBaseURL"`
		OpenAIKey         string `yaml:"openaiKey"`
		OpenRouterBaseURL string `yaml:"openrouterBaseURL"`
		OpenRouterKey     string `yaml:"openrouterKey"`
		Referer           string `yaml:"referer"`
		Title             string `yaml:"title"`
		AnthropicKey      string `yaml:"anthropicKey"`
		// AnthropicBaseURL overrides the SDK's default endpoint. Empty
		// means the public API.
		AnthropicBaseURL string `yaml:"anthropicBaseURL"`

		SystemPrompt string `yaml:"systemPrompt"`
		// ToolSystemPrompt replaces SystemPrompt when plugin output is
		// attached; SearchSystemPrompt when web sources are.
		ToolSystemPrompt   string  `yaml:"toolSystemPrompt"`
		SearchSystemPrompt string  `yaml:"searchSystemPrompt"`
		DefaultTemperature float64 `yaml:"defaultTemperature"`
		DefaultMaxTokens   int     `yaml:"defaultMaxTokens"`
		TimeoutSeconds     int     `yaml:"timeoutSeconds"`
	} `yaml:"completion"`
	Plugins struct {
		BaseURL            string `yaml:"baseURL"`
		AuthSecret         string `yaml:"authSecret"`
		HeartbeatSeconds   int    `yaml:"heartbeatSeconds"`
		WaitTimeoutSeconds int    `yaml:"waitTimeoutSeconds"`
		// Enabled gates tools by name. A nil map enables everything,
		// which keeps local development friction-free. A present map
		// disables any tool not explicitly set to true.
		Enabled map[string]bool `yaml:"enabled"`
	} `yaml:"plugins"`
	Search struct {
		// BaseURL points at the programmable search engine API.
		BaseURL string `yaml:"baseURL"`
		// APIKey and EngineID are the engine credentials. Web search
		// stays off until both are set.
		APIKey              string `yaml:"apiKey"`
		EngineID            string `yaml:"engineID"`
		MaxResults          int    `yaml:"maxResults"`
		FetchTimeoutSeconds int    `yaml:"fetchTimeoutSeconds"`
	} `yaml:"search"`
	Security struct {
		RateLimitEnabled  string  `yaml:"rateLimitEnabled"`
		RateLimitPerSec   float64 `yaml:"rateLimitPerSec"`
		RateLimitBurst    int     `yaml:"rateLimitBurst"`
		MaxRequestBodyLen int64   `yaml:"maxRequestBodyLen"`
	} `yaml:"security"`
}

// Default returns the configuration used when keys are absent from the file.
func Default() Config {
	var c Config
	c.Server.Host = "0.0.0.0"
	c.Server.Port = 27080
	c.Server.AllowedOrigin = "*"
	c.Auth.TimeoutSeconds = 10
	c.Window.MinLastMessageLen = 50
	c.Window.MaxLastMessageLen = 1000
	c.Models = map[string]Model{
		"hackergpt": {
			TokenLimit:     8000,
			ReservedTokens: 2000,
			Backend:        "openrouter",
			BackendModel:   "openai/gpt-3.5-turbo",
		},
		"gpt-4": {
			TokenLimit:     12000,
			ReservedTokens: 2000,
			Backend:        "openai",
			BackendModel:   "gpt-4",
		},
		"gpt-3.5-turbo-instruct": {
			TokenLimit:         7000,
			ReservedTokens:     2000,
			WideReservedTokens: 3500,
			Backend:            "openai",
			BackendModel:       "gpt-3.5-turbo-instruct",
		},
		"claude-3-5-sonnet": {
			TokenLimit:     12000,
			ReservedTokens: 2000,
			Backend:        "anthropic",
			BackendModel:   "claude-3-5-sonnet-latest",
		},
	}
	c.Completion.OpenAIBaseURL = "https://api.openai.com/v1"
	c.Completion.OpenRouterBaseURL = "https://openrouter.ai/api/v1"
	c.Completion.DefaultTemperature = 0.4
	c.Completion.DefaultMaxTokens = 1000
	c.Completion.TimeoutSeconds = 300
	c.Plugins.HeartbeatSeconds = 15
	c.Plugins.WaitTimeoutSeconds = 300
	c.Search.BaseURL = "https://customsearch.googleapis.com"
	c.Search.MaxResults = 5
	c.Search.FetchTimeoutSeconds = 5
	c.Security.RateLimitEnabled = "true"
	c.Security.RateLimitPerSec = 2
	c.Security.RateLimitBurst = 10
	c.Security.MaxRequestBodyLen = 1 << 20
	return c
}

func (c Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	for name, m := range c.Models {
		if m.TokenLimit <= 0 {
			return fmt.Errorf("model %s: tokenLimit must be positive", name)
		}
		if m.ReservedTokens < 0 || m.ReservedTokens >= m.TokenLimit {
			return fmt.Errorf("model %s: reservedTokens out of range", name)
		}
	}
	return nil
}

// ModelFor looks up the model table by inbound name.
func (c Config) ModelFor(name string) (Model, bool) {
	m, ok := c.Models[name]
	return m, ok
}

func (c Config) IsRateLimitEnabled() bool {
	return parseBool(c.Security.RateLimitEnabled, true)
}

// IsWebSearchEnabled requires both the feature gate and engine
// credentials, mirroring how the scan tools stay off until configured.
func (c Config) IsWebSearchEnabled() bool {
	return c.IsToolEnabled("websearch") && c.Search.APIKey != "" && c.Search.EngineID != ""
}

// IsToolEnabled reports whether a tool name passed the feature gate.
func (c Config) IsToolEnabled(name string) bool {
	if c.Plugins.Enabled == nil {
		return true
	}
	return c.Plugins.Enabled[name]
}

func (c Config) HeartbeatInterval() time.Duration {
	return time.Duration(c.Plugins.HeartbeatSeconds) * time.Second
}

func (c Config) PluginWaitTimeout() time.Duration {
	return time.Duration(c.Plugins.WaitTimeoutSeconds) * time.Second
}

func (c Config) AuthTimeout() time.Duration {
	return time.Duration(c.Auth.TimeoutSeconds) * time.Second
}

func (c Config) CompletionTimeout() time.Duration {
	return time.Duration(c.Completion.TimeoutSeconds) * time.Second
}

func (c Config) SearchFetchTimeout() time.Duration {
	return time.Duration(c.Search.FetchTimeoutSeconds) * time.Second
}
