package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/zhouzirui/zenstellar/backend/internal/catalog"
	"github.com/zhouzirui/zenstellar/backend/internal/model/zodiac"
	"github.com/zhouzirui/zenstellar/backend/internal/service/ai"
	"github.com/zhouzirui/zenstellar/backend/internal/service/ai/aitest"
	chatService "github.com/zhouzirui/zenstellar/backend/internal/service/chat"
	"github.com/zhouzirui/zenstellar/backend/internal/service/sage"
	zenService "github.com/zhouzirui/zenstellar/backend/internal/service/zen"
)

func newTestRouter(credential string) http.Handler {
	client := ai.NewClient(credential, aitest.NewBackend(&aitest.ChatModel{Reply: "ok"}, nil).New)
	chats := chatService.NewService()
	return NewRouter(
		zodiac.NewMemoryStore(zodiac.Seed()),
		chats,
		sage.New(client, chats),
		client,
		zenService.NewService(catalog.Default().Songs),
	)
}

func TestHealthReportsConfiguration(t *testing.T) {
	for _, tc := range []struct {
		credential string
		want       bool
	}{{"", false}, {"key", true}} {
		resp := httptest.NewRecorder()
		newTestRouter(tc.credential).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/health", nil))

		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.Code)
		}
		var body struct {
			Status       string `json:"status"`
			AIConfigured bool   `json:"aiConfigured"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			t.Fatalf("decode err: %v", err)
		}
		if body.Status != "ok" || body.AIConfigured != tc.want {
			t.Fatalf("unexpected health %+v for credential %q", body, tc.credential)
		}
	}
}

func TestRoutesAreMounted(t *testing.T) {
	r := newTestRouter("")

	cases := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/api/zodiac", http.StatusOK},
		{http.MethodGet, "/api/fortune/aries", http.StatusOK},
		{http.MethodPost, "/api/inspiration", http.StatusOK},
		{http.MethodGet, "/api/zen/songs", http.StatusOK},
		{http.MethodPost, "/api/conversations", http.StatusCreated},
		{http.MethodOptions, "/api/conversations", http.StatusNoContent},
		{http.MethodGet, "/api/unknown", http.StatusNotFound},
	}

	for _, tc := range cases {
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, httptest.NewRequest(tc.method, tc.path, nil))
		if resp.Code != tc.status {
			t.Errorf("%s %s: expected %d, got %d", tc.method, tc.path, tc.status, resp.Code)
		}
	}
}
