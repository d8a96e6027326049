// Package aitest provides in-memory fakes of the generative backend for tests.
package aitest

import (
	"context"
	"errors"
	"sync"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/zhouzirui/zenstellar/backend/internal/service/ai"
)

// ErrBackend is the fault returned by fakes configured to fail.
var ErrBackend = errors.New("backend exploded")

// ChatModel is a scripted model.BaseChatModel. Reply is returned for every
// call unless Respond is set. When Gate is non-nil, Generate signals Started
// and then blocks until Gate is closed.
type ChatModel struct {
	Reply   string
	Err     error
	Respond func(input []*schema.Message) (string, error)
	Gate    chan struct{}
	Started chan struct{}

	mu           sync.Mutex
	inputs       [][]*schema.Message
	temperatures []*float32
}

// Generate implements model.BaseChatModel.
func (m *ChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	options := model.GetCommonOptions(&model.Options{}, opts...)

	m.mu.Lock()
	m.inputs = append(m.inputs, input)
	m.temperatures = append(m.temperatures, options.Temperature)
	m.mu.Unlock()

	if m.Gate != nil {
		if m.Started != nil {
			m.Started <- struct{}{}
		}
		select {
		case <-m.Gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if m.Respond != nil {
		text, err := m.Respond(input)
		if err != nil {
			return nil, err
		}
		return schema.AssistantMessage(text, nil), nil
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return schema.AssistantMessage(m.Reply, nil), nil
}

// Stream implements model.BaseChatModel with a single-chunk stream.
func (m *ChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := m.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

// Calls returns the number of Generate invocations.
func (m *ChatModel) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.inputs)
}

// Input returns the messages sent on call i.
func (m *ChatModel) Input(i int) []*schema.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.inputs[i]
}

// Temperature returns the temperature option sent on call i, or nil.
func (m *ChatModel) Temperature(i int) *float32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.temperatures[i]
}

// Images is a scripted ai.ImageGenerator that records every prompt.
type Images struct {
	Parts []ai.ImagePart
	Err   error

	mu      sync.Mutex
	prompts []string
	ratios  []string
}

// GenerateImage implements ai.ImageGenerator.
func (g *Images) GenerateImage(_ context.Context, prompt, aspectRatio string) ([]ai.ImagePart, error) {
	g.mu.Lock()
	g.prompts = append(g.prompts, prompt)
	g.ratios = append(g.ratios, aspectRatio)
	g.mu.Unlock()

	if g.Err != nil {
		return nil, g.Err
	}
	return g.Parts, nil
}

// Prompts returns every prompt received, in order.
func (g *Images) Prompts() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.prompts...)
}

// Ratios returns every aspect ratio received, in order.
func (g *Images) Ratios() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.ratios...)
}

// Factory hands out a fixed backend and counts constructions. When Gate is
// non-nil, New signals Started and then blocks until Gate is closed.
type Factory struct {
	Backend *ai.Backend
	Err     error
	Gate    chan struct{}
	Started chan struct{}

	mu          sync.Mutex
	calls       int
	credentials []string
}

// New implements ai.BackendFactory.
func (f *Factory) New(ctx context.Context, credential string) (*ai.Backend, error) {
	f.mu.Lock()
	f.calls++
	f.credentials = append(f.credentials, credential)
	f.mu.Unlock()

	if f.Gate != nil {
		if f.Started != nil {
			f.Started <- struct{}{}
		}
		select {
		case <-f.Gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Backend, nil
}

// Calls returns how many times New ran.
func (f *Factory) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// NewBackend builds a Factory around the given fakes.
func NewBackend(chat *ChatModel, images *Images) *Factory {
	backend := &ai.Backend{Name: "fake"}
	if chat != nil {
		backend.Chat = chat
	}
	if images != nil {
		backend.Images = images
	}
	return &Factory{Backend: backend}
}
