package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/zhouzirui/zenstellar/backend/internal/config"
)

const defaultAnthropicMaxTokens = 1024

// AnthropicChatModel adapts the Anthropic Messages API to model.BaseChatModel.
type AnthropicChatModel struct {
	client    *anthropic.Client
	model     anthropic.Model
	maxTokens int64
}

// NewAnthropicChatModel creates a chat model for Claude.
func NewAnthropicChatModel(cfg config.AnthropicConfig, maxTokens *int) (*AnthropicChatModel, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("Anthropic API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.anthropic.com"
	}

	modelName := anthropic.ModelClaudeSonnet4_5_20250929
	if cfg.Model != "" {
		modelName = anthropic.Model(cfg.Model)
	}

	limit := int64(defaultAnthropicMaxTokens)
	if maxTokens != nil && *maxTokens > 0 {
		limit = int64(*maxTokens)
	}

	client := anthropic.NewClient(
		anthropicoption.WithBaseURL(cfg.BaseURL),
		anthropicoption.WithAPIKey(cfg.APIKey),
	)

	return &AnthropicChatModel{client: &client, model: modelName, maxTokens: limit}, nil
}

// Generate sends the conversation to the Messages API. System messages are
// lifted into the request's system blocks.
func (m *AnthropicChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	options := model.GetCommonOptions(&model.Options{}, opts...)

	var system []anthropic.TextBlockParam
	messages := make([]anthropic.MessageParam, 0, len(input))
	for _, msg := range input {
		switch msg.Role {
		case schema.System:
			system = append(system, anthropic.TextBlockParam{Text: msg.Content})
		case schema.Assistant:
			messages = append(messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content)))
		default:
			messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		}
	}

	params := anthropic.MessageNewParams{
		Model:     m.model,
		MaxTokens: m.maxTokens,
		Messages:  messages,
	}
	if len(system) > 0 {
		params.System = system
	}
	if options.Temperature != nil {
		params.Temperature = anthropic.Float(float64(*options.Temperature))
	}

	resp, err := m.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("anthropic messages: %w", err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	return schema.AssistantMessage(text.String(), nil), nil
}

// Stream yields the Generate result as a single chunk.
func (m *AnthropicChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return singleChunk(m.Generate(ctx, input, opts...))
}
