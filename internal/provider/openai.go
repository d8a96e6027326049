package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/zhouzirui/zenstellar/backend/internal/config"
)

var errNoChoices = errors.New("openai returned no choices")

// OpenAIChatModel adapts the official OpenAI SDK to model.BaseChatModel.
type OpenAIChatModel struct {
	client    openai.Client
	model     string
	maxTokens *int
}

// NewOpenAIChatModel creates a chat model against an OpenAI-compatible endpoint.
func NewOpenAIChatModel(cfg config.OpenAIConfig, maxTokens *int) (*OpenAIChatModel, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}

	return &OpenAIChatModel{
		client: openai.NewClient(
			option.WithBaseURL(cfg.BaseURL),
			option.WithAPIKey(cfg.APIKey),
		),
		model:     cfg.Model,
		maxTokens: maxTokens,
	}, nil
}

// Generate sends the conversation as a single non-streaming completion.
func (m *OpenAIChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	options := model.GetCommonOptions(&model.Options{}, opts...)

	params := openai.ChatCompletionNewParams{
		Messages: toOpenAIMessages(input),
		Model:    openai.ChatModel(m.model),
	}
	if options.Temperature != nil {
		params.Temperature = openai.Float(float64(*options.Temperature))
	}
	if m.maxTokens != nil {
		params.MaxCompletionTokens = openai.Int(int64(*m.maxTokens))
	}

	resp, err := m.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errNoChoices
	}
	return schema.AssistantMessage(resp.Choices[0].Message.Content, nil), nil
}

// Stream yields the Generate result as a single chunk.
func (m *OpenAIChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return singleChunk(m.Generate(ctx, input, opts...))
}

func toOpenAIMessages(input []*schema.Message) []openai.ChatCompletionMessageParamUnion {
	result := make([]openai.ChatCompletionMessageParamUnion, 0, len(input))
	for _, msg := range input {
		switch msg.Role {
		case schema.System:
			result = append(result, openai.SystemMessage(msg.Content))
		case schema.Assistant:
			result = append(result, openai.AssistantMessage(msg.Content))
		default:
			result = append(result, openai.UserMessage(msg.Content))
		}
	}
	return result
}

func singleChunk(msg *schema.Message, err error) (*schema.StreamReader[*schema.Message], error) {
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}
