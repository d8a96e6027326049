// Package provider builds the generative backend for the configured AI
// provider: a chat model for sessions and fortunes, and an OpenAI-compatible
// image generator for inspiration images.
package provider

import (
	"context"
	"fmt"
	"log"

	"github.com/cloudwego/eino/components/model"

	"github.com/zhouzirui/zenstellar/backend/internal/catalog"
	"github.com/zhouzirui/zenstellar/backend/internal/config"
	"github.com/zhouzirui/zenstellar/backend/internal/service/ai"
)

// NewClient builds the generation client for cfg, drawing inspiration prompts
// from cat. The backend itself is constructed on first use.
func NewClient(cfg config.AIConfig, cat catalog.Catalog) *ai.Client {
	return ai.NewClient(cfg.Credential(), NewFactory(cfg),
		ai.WithTemperature(float32(cfg.Temperature)),
		ai.WithPrompts(cat.Prompts),
	)
}

// NewFactory returns an ai.BackendFactory for cfg. The factory runs only once
// a credential is present; construction never contacts the network.
func NewFactory(cfg config.AIConfig) ai.BackendFactory {
	return func(ctx context.Context, credential string) (*ai.Backend, error) {
		chat, err := NewChatModel(ctx, cfg, credential)
		if err != nil {
			return nil, err
		}

		backend := &ai.Backend{Name: string(cfg.Provider), Chat: chat}
		if cfg.Image.Enabled() {
			backend.Images = NewImageGenerator(cfg.Image)
		} else {
			log.Printf("[provider] image credential not configured, inspiration images disabled")
		}
		return backend, nil
	}
}

// NewChatModel creates the chat model for the configured provider.
func NewChatModel(ctx context.Context, cfg config.AIConfig, credential string) (model.BaseChatModel, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		openAI := cfg.OpenAI
		openAI.APIKey = credential
		return NewOpenAIChatModel(openAI, cfg.MaxTokens)
	case config.ProviderAnthropic:
		anthropicCfg := cfg.Anthropic
		anthropicCfg.APIKey = credential
		return NewAnthropicChatModel(anthropicCfg, cfg.MaxTokens)
	case config.ProviderOllama:
		ollamaCfg := cfg.Ollama
		ollamaCfg.Host = credential
		return NewOllamaChatModel(ollamaCfg)
	case config.ProviderArk, "":
		return NewArkChatModel(ctx, cfg.Ark, cfg.MaxTokens)
	default:
		return nil, fmt.Errorf("unsupported AI provider %q", cfg.Provider)
	}
}
