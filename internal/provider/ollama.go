package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/ollama/ollama/api"

	"github.com/zhouzirui/zenstellar/backend/internal/config"
)

// OllamaChatModel adapts a local Ollama server to model.BaseChatModel.
type OllamaChatModel struct {
	client *api.Client
	model  string
}

// NewOllamaChatModel creates a chat model for the Ollama server at cfg.Host.
func NewOllamaChatModel(cfg config.OllamaConfig) (*OllamaChatModel, error) {
	host := cfg.Host
	if host == "" {
		host = "http://localhost:11434"
	}
	if cfg.Model == "" {
		cfg.Model = "llama3.1:latest"
	}

	parsedURL, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("invalid Ollama URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("invalid Ollama URL %q: scheme and host are required", host)
	}

	return &OllamaChatModel{
		client: api.NewClient(parsedURL, http.DefaultClient),
		model:  cfg.Model,
	}, nil
}

// Generate sends a non-streaming chat request.
func (m *OllamaChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	options := model.GetCommonOptions(&model.Options{}, opts...)

	messages := make([]api.Message, 0, len(input))
	for _, msg := range input {
		messages = append(messages, api.Message{Role: string(msg.Role), Content: msg.Content})
	}

	stream := false
	req := &api.ChatRequest{
		Model:    m.model,
		Messages: messages,
		Stream:   &stream,
	}
	if options.Temperature != nil {
		req.Options = map[string]any{"temperature": *options.Temperature}
	}

	var reply strings.Builder
	err := m.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		reply.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("ollama chat: %w", err)
	}
	return schema.AssistantMessage(reply.String(), nil), nil
}

// Stream yields the Generate result as a single chunk.
func (m *OllamaChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return singleChunk(m.Generate(ctx, input, opts...))
}
