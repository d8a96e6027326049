package ai

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand/v2"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/zhouzirui/zenstellar/backend/internal/catalog"
)

// DefaultTemperature is the sampling temperature sessions are bound to.
const DefaultTemperature float32 = 0.8

var (
	ErrMissingCredential = errors.New("ai credential is not configured")
	ErrClientUnavailable = errors.New("ai client unavailable")
	ErrImagesUnavailable = errors.New("image generation is not configured")
	ErrSessionBusy       = errors.New("session already has a turn in flight")
)

// ImagePart is one content part returned by an image backend. Data holds a
// base64 payload when the part is inline image data.
type ImagePart struct {
	MIMEType string
	Data     string
	Text     string
}

// ImageGenerator produces images for a prompt at the requested aspect ratio.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt, aspectRatio string) ([]ImagePart, error)
}

// Backend is the constructed handle to the external generative service.
type Backend struct {
	Name   string
	Chat   model.BaseChatModel
	Images ImageGenerator
}

// BackendFactory builds a Backend from a non-empty credential.
type BackendFactory func(ctx context.Context, credential string) (*Backend, error)

// Option customizes a Client.
type Option func(*Client)

// WithTemperature overrides the session sampling temperature.
func WithTemperature(temperature float32) Option {
	return func(c *Client) { c.temperature = temperature }
}

// WithPrompts replaces the inspiration prompt pool. Empty pools are ignored.
func WithPrompts(prompts []string) Option {
	return func(c *Client) {
		if len(prompts) > 0 {
			c.prompts = append([]string(nil), prompts...)
		}
	}
}

// WithRandom replaces the uniform index picker used for the prompt pool.
func WithRandom(pick func(n int) int) Option {
	return func(c *Client) { c.pick = pick }
}

// Client is the single boundary between the application and the generative
// backend. The backend handle is built lazily on first use and reused.
type Client struct {
	credential  string
	factory     BackendFactory
	temperature float32
	prompts     []string
	pick        func(n int) int
	metrics     *instruments

	mu      sync.Mutex
	backend *Backend
	chat    compose.Runnable[map[string]any, *schema.Message]
	fortune compose.Runnable[map[string]any, *schema.Message]

	sessionsOpened atomic.Int64
}

// NewClient returns a Client that will build its backend with factory.
func NewClient(credential string, factory BackendFactory, opts ...Option) *Client {
	c := &Client{
		credential:  strings.TrimSpace(credential),
		factory:     factory,
		temperature: DefaultTemperature,
		prompts:     catalog.Default().Prompts,
		pick:        rand.IntN,
		metrics:     newInstruments(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured reports whether a credential is present. It does not contact the backend.
func (c *Client) Configured() bool {
	return c.credential != ""
}

// SessionsOpened returns how many sessions this client has created.
func (c *Client) SessionsOpened() int64 {
	return c.sessionsOpened.Load()
}

// Ensure returns the backend, constructing it on first use. A missing
// credential yields ErrMissingCredential without calling the factory; a
// factory failure yields ErrClientUnavailable and is retried on the next call.
func (c *Client) Ensure(ctx context.Context) (*Backend, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.backend != nil {
		return c.backend, nil
	}

	if c.credential == "" {
		log.Printf("[ai] credential missing, generation disabled - 请检查 AI 凭证环境变量")
		return nil, ErrMissingCredential
	}
	if c.factory == nil {
		return nil, fmt.Errorf("%w: no backend factory", ErrClientUnavailable)
	}

	backend, err := c.factory(ctx, c.credential)
	if err != nil {
		log.Printf("[ai] failed to construct backend: %v", err)
		return nil, fmt.Errorf("%w: %w", ErrClientUnavailable, err)
	}
	if backend == nil {
		return nil, fmt.Errorf("%w: factory returned no backend", ErrClientUnavailable)
	}

	if backend.Chat != nil {
		chat, fortune, err := compileChains(ctx, backend.Chat)
		if err != nil {
			log.Printf("[ai] failed to compile chains: %v", err)
			return nil, fmt.Errorf("%w: %w", ErrClientUnavailable, err)
		}
		c.chat, c.fortune = chat, fortune
	}

	c.backend = backend
	log.Printf("[ai] backend %s initialized", backend.Name)
	return backend, nil
}

func compileChains(ctx context.Context, chatModel model.BaseChatModel) (chat, fortune compose.Runnable[map[string]any, *schema.Message], err error) {
	chatTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.MessagesPlaceholder("history", true),
		schema.UserMessage("{query}"),
	)

	chatChain := compose.NewChain[map[string]any, *schema.Message]()
	chatChain.AppendChatTemplate(chatTemplate)
	chatChain.AppendChatModel(chatModel)

	chat, err = chatChain.Compile(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}

	fortuneChain := compose.NewChain[map[string]any, *schema.Message]()
	fortuneChain.AppendChatTemplate(prompt.FromMessages(schema.FString, schema.UserMessage(fortuneTemplate)))
	fortuneChain.AppendChatModel(chatModel)

	fortune, err = fortuneChain.Compile(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to compile fortune chain: %w", err)
	}

	return chat, fortune, nil
}

func (c *Client) chains() (chat, fortune compose.Runnable[map[string]any, *schema.Message]) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.chat, c.fortune
}

// OpenSession creates a new conversational session bound to the Sage system
// instruction and the configured temperature. Every call yields an
// independent session; callers keep and reuse the one they get.
func (c *Client) OpenSession(ctx context.Context) (*Session, error) {
	if _, err := c.Ensure(ctx); err != nil {
		if errors.Is(err, ErrClientUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrClientUnavailable, err)
	}

	chat, _ := c.chains()
	if chat == nil {
		return nil, fmt.Errorf("%w: backend has no chat model", ErrClientUnavailable)
	}

	c.sessionsOpened.Add(1)
	return newSession(chat, SystemInstruction, c.temperature, c.metrics), nil
}

// Fortune requests the structured daily fortune for topic (a zodiac sign
// name). The backend text is returned verbatim.
func (c *Client) Fortune(ctx context.Context, topic string) Result {
	ctx, span := c.metrics.start(ctx, opFortune)

	if _, err := c.Ensure(ctx); err != nil {
		return c.metrics.finishText(ctx, span, opFortune, Result{Failure: failureFor(err), Err: err})
	}
	_, fortune := c.chains()
	if fortune == nil {
		err := fmt.Errorf("%w: backend has no chat model", ErrClientUnavailable)
		return c.metrics.finishText(ctx, span, opFortune, Result{Failure: FailureClientUnavailable, Err: err})
	}

	msg, err := fortune.Invoke(ctx, map[string]any{"sign": topic})
	if err != nil {
		log.Printf("[ai] fortune for %s failed: %v", topic, err)
		return c.metrics.finishText(ctx, span, opFortune, Result{Failure: FailureBackend, Err: err})
	}
	if msg == nil || strings.TrimSpace(msg.Content) == "" {
		return c.metrics.finishText(ctx, span, opFortune, Result{Failure: FailureEmpty})
	}

	log.Printf("[ai] generated fortune for %s, length=%d", topic, len(msg.Content))
	return c.metrics.finishText(ctx, span, opFortune, Result{Text: msg.Content})
}

// Inspire picks one prompt uniformly from the pool and requests a single
// portrait image. The first inline payload is returned as a data URI.
func (c *Client) Inspire(ctx context.Context) ImageResult {
	ctx, span := c.metrics.start(ctx, opImage)

	backend, err := c.Ensure(ctx)
	if err != nil {
		return c.metrics.finishImage(ctx, span, ImageResult{Failure: failureFor(err), Err: err})
	}
	if backend.Images == nil {
		return c.metrics.finishImage(ctx, span, ImageResult{Failure: FailureClientUnavailable, Err: ErrImagesUnavailable})
	}

	p := c.prompts[c.pick(len(c.prompts))]

	parts, err := backend.Images.GenerateImage(ctx, p, AspectRatio)
	if err != nil {
		log.Printf("[ai] image generation failed: %v", err)
		return c.metrics.finishImage(ctx, span, ImageResult{Prompt: p, Failure: FailureBackend, Err: err})
	}

	for _, part := range parts {
		if part.Data != "" {
			return c.metrics.finishImage(ctx, span, ImageResult{DataURI: ImageDataURIPrefix + part.Data, Prompt: p})
		}
	}
	return c.metrics.finishImage(ctx, span, ImageResult{Prompt: p, Failure: FailureNoImage})
}
