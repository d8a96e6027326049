package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Provider 标识对话模型所使用的后端。
type Provider string

const (
	ProviderArk       Provider = "ark"
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderOllama    Provider = "ollama"
)

// DefaultTemperature 是星禅智者会话固定的采样温度。
const DefaultTemperature = 0.8

// Config 聚合整个服务的配置项。
type Config struct {
	Server    ServerConfig
	AI        AIConfig
	Log       LogConfig
	Telemetry TelemetryConfig
	Catalog   CatalogConfig
}

// Load 从环境变量加载配置。
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	logCfg, err := loadLogConfig()
	if err != nil {
		return nil, err
	}

	otelEnabled, err := parseBoolEnv("OTEL_ENABLED", false)
	if err != nil {
		return nil, err
	}

	return &Config{
		Server:    server,
		AI:        ai,
		Log:       logCfg,
		Telemetry: TelemetryConfig{Enabled: otelEnabled, ServiceName: getEnvOrDefault("OTEL_SERVICE_NAME", "zenstellar")},
		Catalog:   CatalogConfig{File: strings.TrimSpace(os.Getenv("CATALOG_FILE"))},
	}, nil
}

// ServerConfig 描述 HTTP 服务配置。
type ServerConfig struct {
	Addr string
}

// loadServerConfig 解析服务器监听地址。
func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// 允许用户直接传入 ":8080" 或 "127.0.0.1:8080"。
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// AIConfig 描述大模型相关配置。
type AIConfig struct {
	Provider    Provider
	Temperature float64
	MaxTokens   *int

	Ark       ArkConfig
	OpenAI    OpenAIConfig
	Anthropic AnthropicConfig
	Ollama    OllamaConfig
	Image     ImageConfig
}

// ArkConfig 描述火山方舟对话模型。
type ArkConfig struct {
	APIKey    string
	AccessKey string
	SecretKey string
	Model     string
	BaseURL   string
	Region    string
}

// OpenAIConfig 描述 OpenAI 兼容接口。
type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// AnthropicConfig 描述 Anthropic 接口。
type AnthropicConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// OllamaConfig 描述本地 Ollama 服务。
type OllamaConfig struct {
	Host  string
	Model string
}

// ImageConfig 描述灵感图片生成所用的 OpenAI 兼容图片接口。
type ImageConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Size    string
}

// Enabled 表示图片接口是否提供了密钥。
func (c ImageConfig) Enabled() bool {
	return c.APIKey != ""
}

// Credential 返回当前 provider 的访问凭证；为空表示未配置。
// Ollama 不需要密钥，以服务地址作为凭证。
func (c AIConfig) Credential() string {
	switch c.Provider {
	case ProviderOpenAI:
		return c.OpenAI.APIKey
	case ProviderAnthropic:
		return c.Anthropic.APIKey
	case ProviderOllama:
		return c.Ollama.Host
	default:
		if c.Ark.APIKey != "" {
			return c.Ark.APIKey
		}
		if c.Ark.AccessKey != "" && c.Ark.SecretKey != "" {
			return c.Ark.AccessKey + ":" + c.Ark.SecretKey
		}
		return ""
	}
}

// Enabled 表示是否提供了必需的凭证。
func (c AIConfig) Enabled() bool {
	return c.Credential() != ""
}

func loadAIConfig() (AIConfig, error) {
	provider, err := parseProvider(os.Getenv("AI_PROVIDER"))
	if err != nil {
		return AIConfig{}, err
	}

	temperature := DefaultTemperature
	if override, err := parseOptionalFloatEnv("AI_TEMPERATURE"); err != nil {
		return AIConfig{}, err
	} else if override != nil {
		temperature = *override
	}

	maxTokens, err := parseOptionalIntEnv("AI_MAX_TOKENS")
	if err != nil {
		return AIConfig{}, err
	}

	ark := ArkConfig{
		APIKey:    strings.TrimSpace(os.Getenv("ARK_API_KEY")),
		AccessKey: strings.TrimSpace(os.Getenv("ARK_ACCESS_KEY")),
		SecretKey: strings.TrimSpace(os.Getenv("ARK_SECRET_KEY")),
		Model:     getEnvOrDefault("ARK_MODEL", strings.TrimSpace(os.Getenv("Model"))),
		BaseURL:   getEnvOrDefault("ARK_BASE_URL", "https://ark.cn-beijing.volces.com/api/v3"),
		Region:    getEnvOrDefault("ARK_REGION", "cn-beijing"),
	}

	openAI := OpenAIConfig{
		APIKey:  strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		BaseURL: getEnvOrDefault("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		Model:   getEnvOrDefault("OPENAI_MODEL", "gpt-4o-mini"),
	}

	// 图片接口默认复用方舟（OpenAI 兼容）或 OpenAI 的密钥。
	imageKey := strings.TrimSpace(os.Getenv("IMAGE_API_KEY"))
	imageBaseURL := strings.TrimSpace(os.Getenv("IMAGE_BASE_URL"))
	imageModel := strings.TrimSpace(os.Getenv("IMAGE_MODEL"))
	if imageKey == "" {
		switch {
		case provider == ProviderOpenAI && openAI.APIKey != "":
			imageKey = openAI.APIKey
			if imageBaseURL == "" {
				imageBaseURL = openAI.BaseURL
			}
			if imageModel == "" {
				imageModel = "dall-e-3"
			}
		case ark.APIKey != "":
			imageKey = ark.APIKey
		}
	}
	if imageBaseURL == "" {
		imageBaseURL = ark.BaseURL
	}
	if imageModel == "" {
		imageModel = "doubao-seedream-3-0-t2i-250415"
	}

	return AIConfig{
		Provider:    provider,
		Temperature: temperature,
		MaxTokens:   maxTokens,
		Ark:         ark,
		OpenAI:      openAI,
		Anthropic: AnthropicConfig{
			APIKey:  strings.TrimSpace(os.Getenv("ANTHROPIC_API_KEY")),
			BaseURL: getEnvOrDefault("ANTHROPIC_BASE_URL", "https://api.anthropic.com"),
			Model:   getEnvOrDefault("ANTHROPIC_MODEL", "claude-sonnet-4-5-20250929"),
		},
		Ollama: OllamaConfig{
			Host:  strings.TrimSpace(os.Getenv("OLLAMA_HOST")),
			Model: getEnvOrDefault("OLLAMA_MODEL", "llama3.1:latest"),
		},
		Image: ImageConfig{
			APIKey:  imageKey,
			BaseURL: imageBaseURL,
			Model:   imageModel,
			Size:    getEnvOrDefault("IMAGE_SIZE", "1024x1792"),
		},
	}, nil
}

func parseProvider(raw string) (Provider, error) {
	value := Provider(strings.ToLower(strings.TrimSpace(raw)))
	switch value {
	case "":
		return ProviderArk, nil
	case ProviderArk, ProviderOpenAI, ProviderAnthropic, ProviderOllama:
		return value, nil
	default:
		return "", fmt.Errorf("invalid AI_PROVIDER value %q", raw)
	}
}

// LogConfig 描述日志文件滚动配置；File 为空时只输出到标准输出。
type LogConfig struct {
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

func loadLogConfig() (LogConfig, error) {
	cfg := LogConfig{
		File:       strings.TrimSpace(os.Getenv("LOG_FILE")),
		MaxSizeMB:  10,
		MaxBackups: 3,
		MaxAgeDays: 28,
	}

	if v, err := parseOptionalIntEnv("LOG_MAX_SIZE_MB"); err != nil {
		return LogConfig{}, err
	} else if v != nil {
		cfg.MaxSizeMB = *v
	}
	if v, err := parseOptionalIntEnv("LOG_MAX_BACKUPS"); err != nil {
		return LogConfig{}, err
	} else if v != nil {
		cfg.MaxBackups = *v
	}
	if v, err := parseOptionalIntEnv("LOG_MAX_AGE_DAYS"); err != nil {
		return LogConfig{}, err
	} else if v != nil {
		cfg.MaxAgeDays = *v
	}

	compress, err := parseBoolEnv("LOG_COMPRESS", true)
	if err != nil {
		return LogConfig{}, err
	}
	cfg.Compress = compress

	return cfg, nil
}

// TelemetryConfig 控制 OpenTelemetry 导出。
type TelemetryConfig struct {
	Enabled     bool
	ServiceName string
}

// CatalogConfig 指向可选的提示词与曲目目录文件（TOML 或 YAML）。
type CatalogConfig struct {
	File string
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

func parseOptionalFloatEnv(key string) (*float64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
