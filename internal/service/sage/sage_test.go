package sage

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cloudwego/eino/schema"

	"github.com/zhouzirui/zenstellar/backend/internal/fallback"
	"github.com/zhouzirui/zenstellar/backend/internal/model/chat"
	"github.com/zhouzirui/zenstellar/backend/internal/service/ai"
	"github.com/zhouzirui/zenstellar/backend/internal/service/ai/aitest"
	chatservice "github.com/zhouzirui/zenstellar/backend/internal/service/chat"
)

func newSage(t *testing.T, credential string, model *aitest.ChatModel) (*Sage, *chatservice.Service, *aitest.Factory, *ai.Client, string) {
	t.Helper()
	factory := aitest.NewBackend(model, nil)
	client := ai.NewClient(credential, factory.New)
	chats := chatservice.NewService()
	conversation, _, err := chats.CreateConversation(context.Background())
	if err != nil {
		t.Fatalf("CreateConversation err: %v", err)
	}
	return New(client, chats), chats, factory, client, conversation.ID
}

func TestAskWithoutCredentialReturnsSilentStars(t *testing.T) {
	model := &aitest.ChatModel{Reply: "never"}
	s, chats, factory, _, id := newSage(t, "", model)

	exchange, err := s.Ask(context.Background(), id, "hello")
	if err != nil {
		t.Fatalf("Ask err: %v", err)
	}

	if exchange.Reply.Text != fallback.ChatUnavailable {
		t.Fatalf("expected silent stars fallback, got %q", exchange.Reply.Text)
	}
	if exchange.Failure != ai.FailureMissingCredential {
		t.Fatalf("expected missing credential failure, got %s", exchange.Failure)
	}
	if factory.Calls() != 0 || model.Calls() != 0 {
		t.Fatalf("no network call expected, factory=%d model=%d", factory.Calls(), model.Calls())
	}

	transcript, _ := chats.Transcript(context.Background(), id)
	if len(transcript) != 3 {
		t.Fatalf("expected welcome + user + fallback reply, got %d", len(transcript))
	}
}

func TestAskOpensSessionOnceAndReusesIt(t *testing.T) {
	model := &aitest.ChatModel{Reply: "星辰回应你。"}
	s, chats, _, client, id := newSage(t, "key", model)
	ctx := context.Background()

	first, err := s.Ask(ctx, id, "你好")
	if err != nil {
		t.Fatalf("Ask err: %v", err)
	}
	second, err := s.Ask(ctx, id, "再问")
	if err != nil {
		t.Fatalf("Ask err: %v", err)
	}

	if client.SessionsOpened() != 1 {
		t.Fatalf("expected exactly one session, got %d", client.SessionsOpened())
	}
	if first.Reply.Text != "星辰回应你。" || second.Reply.Text != "星辰回应你。" {
		t.Fatalf("unexpected replies %q / %q", first.Reply.Text, second.Reply.Text)
	}
	if model.Calls() != 2 {
		t.Fatalf("expected 2 backend calls, got %d", model.Calls())
	}

	transcript, _ := chats.Transcript(ctx, id)
	wantRoles := []chat.Role{chat.RoleAssistant, chat.RoleUser, chat.RoleAssistant, chat.RoleUser, chat.RoleAssistant}
	if len(transcript) != len(wantRoles) {
		t.Fatalf("expected %d messages, got %d", len(wantRoles), len(transcript))
	}
	for i, role := range wantRoles {
		if transcript[i].Role != role {
			t.Fatalf("position %d: role %s, want %s", i, transcript[i].Role, role)
		}
	}
	if transcript[3].Text != "再问" {
		t.Fatalf("unexpected user text %q", transcript[3].Text)
	}
}

func TestAskBackendFaultDegradesToFallback(t *testing.T) {
	s, _, _, _, id := newSage(t, "key", &aitest.ChatModel{Err: aitest.ErrBackend})

	exchange, err := s.Ask(context.Background(), id, "hello")
	if err != nil {
		t.Fatalf("Ask must not fail on backend faults: %v", err)
	}
	if exchange.Reply.Text != fallback.ChatFault {
		t.Fatalf("expected fault fallback, got %q", exchange.Reply.Text)
	}
	if exchange.Failure != ai.FailureBackend {
		t.Fatalf("expected backend failure, got %s", exchange.Failure)
	}
}

func TestAskFactoryFailureRetriesOnNextTurn(t *testing.T) {
	factory := &aitest.Factory{Err: aitest.ErrBackend}
	client := ai.NewClient("key", factory.New)
	chats := chatservice.NewService()
	conversation, _, _ := chats.CreateConversation(context.Background())
	s := New(client, chats)
	ctx := context.Background()

	exchange, _ := s.Ask(ctx, conversation.ID, "hello")
	if exchange.Failure != ai.FailureClientUnavailable || exchange.Reply.Text != fallback.ChatUnavailable {
		t.Fatalf("expected unavailable fallback, got %s %q", exchange.Failure, exchange.Reply.Text)
	}

	factory.Err = nil
	factory.Backend = &ai.Backend{Name: "recovered", Chat: &aitest.ChatModel{Reply: "我在。"}}
	exchange, _ = s.Ask(ctx, conversation.ID, "hello again")
	if exchange.Reply.Text != "我在。" {
		t.Fatalf("expected recovered reply, got %q", exchange.Reply.Text)
	}
}

func TestAskValidation(t *testing.T) {
	s, _, _, _, id := newSage(t, "key", &aitest.ChatModel{Reply: "ok"})
	ctx := context.Background()

	if _, err := s.Ask(ctx, id, "   "); !errors.Is(err, ErrEmptyMessage) {
		t.Fatalf("expected ErrEmptyMessage, got %v", err)
	}
	if _, err := s.Ask(ctx, "missing", "hi"); !errors.Is(err, chatservice.ErrConversationNotFound) {
		t.Fatalf("expected ErrConversationNotFound, got %v", err)
	}
}

func TestAskRejectsSecondTurnWhileBusy(t *testing.T) {
	model := &aitest.ChatModel{
		Respond: func(input []*schema.Message) (string, error) {
			return "reply-to-" + input[len(input)-1].Content, nil
		},
		Gate:    make(chan struct{}),
		Started: make(chan struct{}, 1),
	}
	s, chats, _, _, id := newSage(t, "key", model)
	ctx := context.Background()

	var wg sync.WaitGroup
	var first Exchange
	wg.Add(1)
	go func() {
		defer wg.Done()
		var err error
		if first, err = s.Ask(ctx, id, "first"); err != nil {
			t.Errorf("Ask err: %v", err)
		}
	}()

	<-model.Started
	if !s.Busy(id) {
		t.Fatal("expected conversation busy")
	}

	exchange, err := s.Ask(ctx, id, "second")
	if err != nil {
		t.Fatalf("Ask err: %v", err)
	}
	if exchange.Failure != ai.FailureBusy || exchange.Reply.Text != fallback.ChatBusy {
		t.Fatalf("expected busy fallback, got %s %q", exchange.Failure, exchange.Reply.Text)
	}
	if exchange.User.ID != "" || exchange.Reply.ID != "" {
		t.Fatal("rejected turn must not be recorded")
	}

	close(model.Gate)
	wg.Wait()

	if first.Reply.Text != "reply-to-first" {
		t.Fatalf("unexpected first reply %q", first.Reply.Text)
	}
	if s.Busy(id) {
		t.Fatal("expected conversation idle after the turn")
	}
	if model.Calls() != 1 {
		t.Fatalf("rejected turn must not reach the backend, calls=%d", model.Calls())
	}

	transcript, _ := chats.Transcript(ctx, id)
	want := []string{chat.WelcomeText, "first", "reply-to-first"}
	if len(transcript) != len(want) {
		t.Fatalf("expected %d messages, got %d", len(want), len(transcript))
	}
	for i, text := range want {
		if transcript[i].Text != text {
			t.Fatalf("position %d: %q, want %q", i, transcript[i].Text, text)
		}
	}
}

func TestSessionOpenDoesNotBlockOtherConversations(t *testing.T) {
	factory := aitest.NewBackend(&aitest.ChatModel{Reply: "ok"}, nil)
	factory.Gate = make(chan struct{})
	factory.Started = make(chan struct{}, 1)
	client := ai.NewClient("key", factory.New)
	chats := chatservice.NewService()
	s := New(client, chats)
	ctx := context.Background()

	slow, _, _ := chats.CreateConversation(ctx)
	other, _, _ := chats.CreateConversation(ctx)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.Ask(ctx, slow.ID, "hello")
	}()
	<-factory.Started

	closed := make(chan error, 1)
	go func() { closed <- s.Close(ctx, other.ID) }()

	select {
	case err := <-closed:
		if err != nil {
			t.Fatalf("Close err: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Close blocked behind a backend construction")
	}
	if !s.Busy(slow.ID) {
		t.Fatal("expected the slow conversation to still be in flight")
	}

	close(factory.Gate)
	wg.Wait()
}

func TestCloseDropsConversationAndSession(t *testing.T) {
	s, chats, _, client, id := newSage(t, "key", &aitest.ChatModel{Reply: "ok"})
	ctx := context.Background()

	s.Ask(ctx, id, "hi")
	if err := s.Close(ctx, id); err != nil {
		t.Fatalf("Close err: %v", err)
	}
	if _, err := chats.GetConversation(ctx, id); err == nil {
		t.Fatal("expected conversation removed")
	}

	conversation, _, _ := chats.CreateConversation(ctx)
	s.Ask(ctx, conversation.ID, "hi")
	if client.SessionsOpened() != 2 {
		t.Fatalf("expected a fresh session for the new conversation, got %d", client.SessionsOpened())
	}
}

func TestCloseDuringSessionOpenKeepsNoSession(t *testing.T) {
	factory := aitest.NewBackend(&aitest.ChatModel{Reply: "ok"}, nil)
	factory.Gate = make(chan struct{})
	factory.Started = make(chan struct{}, 1)
	chats := chatservice.NewService()
	s := New(ai.NewClient("key", factory.New), chats)
	ctx := context.Background()

	conversation, _, _ := chats.CreateConversation(ctx)

	asked := make(chan error, 1)
	go func() {
		_, err := s.Ask(ctx, conversation.ID, "hello")
		asked <- err
	}()
	<-factory.Started

	if err := s.Close(ctx, conversation.ID); err != nil {
		t.Fatalf("Close err: %v", err)
	}
	close(factory.Gate)

	if err := <-asked; err == nil {
		t.Fatal("expected the in-flight turn to fail once its conversation is gone")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[conversation.ID]; ok {
		t.Fatal("expected no session cached for a closed conversation")
	}
}
