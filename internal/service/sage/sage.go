// Package sage runs the chat flow: it records each user message, sends it
// through the conversation's backend session and records the reply.
package sage

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"

	"github.com/zhouzirui/zenstellar/backend/internal/fallback"
	"github.com/zhouzirui/zenstellar/backend/internal/model/chat"
	"github.com/zhouzirui/zenstellar/backend/internal/service/ai"
	chatservice "github.com/zhouzirui/zenstellar/backend/internal/service/chat"
)

var ErrEmptyMessage = errors.New("message text is required")

// Exchange is the outcome of one chat turn as displayed to the user.
type Exchange struct {
	User    chat.Message `json:"user"`
	Reply   chat.Message `json:"reply"`
	Failure ai.Failure   `json:"failure,omitempty"`
}

// Sage owns at most one backend session per conversation and at most one
// turn in flight per conversation.
type Sage struct {
	client *ai.Client
	chats  *chatservice.Service

	mu       sync.Mutex
	sessions map[string]*ai.Session
	turns    map[string]bool
}

// New returns a Sage backed by client and the conversation store.
func New(client *ai.Client, chats *chatservice.Service) *Sage {
	return &Sage{
		client:   client,
		chats:    chats,
		sessions: make(map[string]*ai.Session),
		turns:    make(map[string]bool),
	}
}

// Ask runs one turn. Backend problems never surface as errors: the reply
// carries the fallback text and Failure names the reason. Errors are returned
// only for a blank message or an unknown conversation.
//
// A turn sent while another is in flight on the same conversation is rejected
// with the busy text and leaves the transcript untouched.
func (s *Sage) Ask(ctx context.Context, conversationID, text string) (Exchange, error) {
	if strings.TrimSpace(text) == "" {
		return Exchange{}, ErrEmptyMessage
	}
	if _, err := s.chats.GetConversation(ctx, conversationID); err != nil {
		return Exchange{}, err
	}

	if !s.reserve(conversationID) {
		log.Printf("[sage] conversation=%s turn rejected: previous turn in flight", conversationID)
		return rejected(conversationID, text), nil
	}
	defer s.release(conversationID)

	userMsg, err := s.chats.Append(ctx, conversationID, chat.RoleUser, text)
	if err != nil {
		return Exchange{}, err
	}

	result := s.send(ctx, conversationID, text)
	if !result.OK() {
		log.Printf("[sage] conversation=%s turn degraded: failure=%s err=%v", conversationID, result.Failure, result.Err)
	}

	reply, err := s.chats.Append(ctx, conversationID, chat.RoleAssistant, fallback.Chat(result))
	if err != nil {
		return Exchange{}, err
	}

	return Exchange{User: userMsg, Reply: reply, Failure: result.Failure}, nil
}

// rejected builds the unrecorded exchange returned for a busy conversation.
func rejected(conversationID, text string) Exchange {
	busy := ai.Result{Failure: ai.FailureBusy, Err: ai.ErrSessionBusy}
	return Exchange{
		User:    chat.Message{ConversationID: conversationID, Role: chat.RoleUser, Text: text},
		Reply:   chat.Message{ConversationID: conversationID, Role: chat.RoleAssistant, Text: fallback.Chat(busy)},
		Failure: busy.Failure,
	}
}

func (s *Sage) reserve(conversationID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.turns[conversationID] {
		return false
	}
	s.turns[conversationID] = true
	return true
}

func (s *Sage) release(conversationID string) {
	s.mu.Lock()
	delete(s.turns, conversationID)
	s.mu.Unlock()
}

func (s *Sage) send(ctx context.Context, conversationID, text string) ai.Result {
	session, err := s.session(ctx, conversationID)
	if err != nil {
		failure := ai.FailureClientUnavailable
		if errors.Is(err, ai.ErrMissingCredential) {
			failure = ai.FailureMissingCredential
		}
		return ai.Result{Failure: failure, Err: err}
	}
	return session.Send(ctx, text)
}

// session returns the conversation's session, opening it on first use. The
// open runs outside the lock; a failed open leaves nothing behind so the next
// turn tries again.
func (s *Sage) session(ctx context.Context, conversationID string) (*ai.Session, error) {
	s.mu.Lock()
	session, ok := s.sessions[conversationID]
	s.mu.Unlock()
	if ok {
		return session, nil
	}

	opened, err := s.client.OpenSession(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.sessions[conversationID]; ok {
		return existing, nil
	}
	// Closed while opening: serve this turn but keep nothing.
	if _, err := s.chats.GetConversation(ctx, conversationID); err != nil {
		return opened, nil
	}
	s.sessions[conversationID] = opened
	log.Printf("[sage] opened session=%s for conversation=%s", opened.ID, conversationID)
	return opened, nil
}

// Close discards the conversation and its session.
func (s *Sage) Close(ctx context.Context, conversationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, conversationID)
	return s.chats.DeleteConversation(ctx, conversationID)
}

// Busy reports whether the conversation has a turn in flight.
func (s *Sage) Busy(conversationID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.turns[conversationID]
}
