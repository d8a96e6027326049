package ai

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"
)

// Session is one open multi-turn conversation with the backend. The backend
// is stateless, so the session threads its own prior turns into every request.
// Only one turn may be in flight at a time.
type Session struct {
	ID        string
	CreatedAt time.Time

	chain       compose.Runnable[map[string]any, *schema.Message]
	system      string
	temperature float32
	metrics     *instruments

	mu      sync.Mutex
	busy    bool
	history []*schema.Message
}

func newSession(chain compose.Runnable[map[string]any, *schema.Message], system string, temperature float32, metrics *instruments) *Session {
	return &Session{
		ID:          uuid.NewString(),
		CreatedAt:   time.Now().UTC(),
		chain:       chain,
		system:      system,
		temperature: temperature,
		metrics:     metrics,
	}
}

// Busy reports whether a turn is currently in flight.
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// Turns returns the number of completed turns.
func (s *Session) Turns() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.history) / 2
}

// Send sends text as the next turn and returns the reply. A second Send while
// one is in flight is rejected with FailureBusy without reaching the backend.
// Failed turns leave the history untouched.
func (s *Session) Send(ctx context.Context, text string) Result {
	history, ok := s.acquire()
	if !ok {
		return Result{Failure: FailureBusy, Err: ErrSessionBusy}
	}
	defer s.release()

	ctx, span := s.metrics.start(ctx, opTurn)

	msg, err := s.chain.Invoke(ctx, map[string]any{
		"system":  s.system,
		"history": history,
		"query":   text,
	}, compose.WithChatModelOption(model.WithTemperature(s.temperature)))
	if err != nil {
		log.Printf("[ai] session=%s turn failed: %v", s.ID, err)
		return s.metrics.finishText(ctx, span, opTurn, Result{Failure: FailureBackend, Err: err})
	}
	if msg == nil || strings.TrimSpace(msg.Content) == "" {
		return s.metrics.finishText(ctx, span, opTurn, Result{Failure: FailureEmpty})
	}

	s.mu.Lock()
	s.history = append(s.history, schema.UserMessage(text), schema.AssistantMessage(msg.Content, nil))
	s.mu.Unlock()

	log.Printf("[ai] session=%s generated reply, length=%d", s.ID, len(msg.Content))
	return s.metrics.finishText(ctx, span, opTurn, Result{Text: msg.Content})
}

func (s *Session) acquire() ([]*schema.Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return nil, false
	}
	s.busy = true
	return append([]*schema.Message(nil), s.history...), true
}

func (s *Session) release() {
	s.mu.Lock()
	s.busy = false
	s.mu.Unlock()
}
