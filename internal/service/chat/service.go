package chat

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/zhouzirui/zenstellar/backend/internal/model/chat"
)

var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrInvalidRole          = errors.New("invalid message role")
)

// Service holds every open conversation and its append-only transcript in memory.
type Service struct {
	mu            sync.RWMutex
	conversations map[string]chat.Conversation
	messages      map[string][]chat.Message
	now           func() time.Time
}

// NewService bootstraps the in-memory conversation store.
func NewService() *Service {
	return &Service{
		conversations: make(map[string]chat.Conversation),
		messages:      make(map[string][]chat.Message),
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// CreateConversation opens a new conversation seeded with the welcome message.
func (s *Service) CreateConversation(_ context.Context) (chat.Conversation, []chat.Message, error) {
	conversation := chat.Conversation{
		ID:        uuid.NewString(),
		CreatedAt: s.now(),
	}

	welcome, err := s.newMessage(conversation.ID, chat.RoleAssistant, chat.WelcomeText)
	if err != nil {
		return chat.Conversation{}, nil, err
	}

	s.mu.Lock()
	s.conversations[conversation.ID] = conversation
	s.messages[conversation.ID] = append(make([]chat.Message, 0, 16), welcome)
	s.mu.Unlock()

	return conversation, []chat.Message{welcome}, nil
}

// Append adds a message to the end of the conversation. There is no
// deduplication and no size bound.
func (s *Service) Append(_ context.Context, conversationID string, role chat.Role, text string) (chat.Message, error) {
	if !role.Valid() {
		return chat.Message{}, ErrInvalidRole
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.conversations[conversationID]; !ok {
		return chat.Message{}, ErrConversationNotFound
	}

	// IDs are minted under the lock so identifier order matches transcript order.
	message, err := s.newMessage(conversationID, role, text)
	if err != nil {
		return chat.Message{}, err
	}

	s.messages[conversationID] = append(s.messages[conversationID], message)
	return message, nil
}

// GetConversation retrieves a conversation by identifier.
func (s *Service) GetConversation(_ context.Context, conversationID string) (chat.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	conversation, ok := s.conversations[conversationID]
	if !ok {
		return chat.Conversation{}, ErrConversationNotFound
	}
	return conversation, nil
}

// Transcript returns a copy of the full ordered message sequence.
func (s *Service) Transcript(_ context.Context, conversationID string) ([]chat.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	messages, ok := s.messages[conversationID]
	if !ok {
		return nil, ErrConversationNotFound
	}

	copied := make([]chat.Message, len(messages))
	copy(copied, messages)
	return copied, nil
}

// DeleteConversation discards a conversation and its messages.
func (s *Service) DeleteConversation(_ context.Context, conversationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.conversations[conversationID]; !ok {
		return ErrConversationNotFound
	}
	delete(s.conversations, conversationID)
	delete(s.messages, conversationID)
	return nil
}

func (s *Service) newMessage(conversationID string, role chat.Role, text string) (chat.Message, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return chat.Message{}, err
	}
	return chat.Message{
		ID:             id.String(),
		ConversationID: conversationID,
		Role:           role,
		Text:           text,
		CreatedAt:      s.now(),
	}, nil
}
