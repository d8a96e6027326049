package zen

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/zenstellar/backend/internal/catalog"
	zenService "github.com/zhouzirui/zenstellar/backend/internal/service/zen"
)

func setupRouter() *chi.Mux {
	r := chi.NewRouter()
	New(zenService.NewService(catalog.Default().Songs)).RegisterRoutes(r)
	return r
}

func do(t *testing.T, r http.Handler, method, path string, wantStatus int) zenService.State {
	t.Helper()
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(method, path, nil))
	if resp.Code != wantStatus {
		t.Fatalf("%s %s: expected %d, got %d", method, path, wantStatus, resp.Code)
	}
	var state zenService.State
	if wantStatus < 300 && wantStatus != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
			t.Fatalf("decode err: %v", err)
		}
	}
	return state
}

func TestSongs(t *testing.T) {
	r := setupRouter()

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/zen/songs", nil))
	var songs []string
	if err := json.NewDecoder(resp.Body).Decode(&songs); err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if len(songs) != 30 || songs[0] != "高山流水" {
		t.Fatalf("unexpected playlist %v", songs)
	}
}

func TestPlayerActions(t *testing.T) {
	r := setupRouter()

	created := do(t, r, http.MethodPost, "/zen/players", http.StatusCreated)
	if created.Playing || created.Index != 0 {
		t.Fatalf("expected paused player on first track, got %+v", created)
	}
	base := "/zen/players/" + created.ID

	if state := do(t, r, http.MethodPost, base+"/toggle", http.StatusOK); !state.Playing {
		t.Fatal("expected toggle to start playback")
	}
	if state := do(t, r, http.MethodPost, base+"/prev", http.StatusOK); state.Index != 29 || !state.Playing {
		t.Fatalf("expected wrap to last track while playing, got %+v", state)
	}
	if state := do(t, r, http.MethodPost, base+"/next", http.StatusOK); state.Index != 0 {
		t.Fatalf("expected wrap to first track, got %+v", state)
	}
	if state := do(t, r, http.MethodPost, base+"/select?index=5", http.StatusOK); state.Index != 5 || !state.Playing || state.ElapsedText != "00:00" {
		t.Fatalf("unexpected state after select %+v", state)
	}
	if state := do(t, r, http.MethodGet, base, http.StatusOK); state.Index != 5 {
		t.Fatalf("unexpected state %+v", state)
	}
}

func TestPlayerErrors(t *testing.T) {
	r := setupRouter()
	created := do(t, r, http.MethodPost, "/zen/players", http.StatusCreated)
	base := "/zen/players/" + created.ID

	do(t, r, http.MethodGet, "/zen/players/missing", http.StatusNotFound)
	do(t, r, http.MethodPost, base+"/select?index=30", http.StatusBadRequest)
	do(t, r, http.MethodPost, base+"/select?index=abc", http.StatusBadRequest)
	do(t, r, http.MethodPost, base+"/rewind", http.StatusNotFound)
}

func TestDeletePlayer(t *testing.T) {
	r := setupRouter()
	created := do(t, r, http.MethodPost, "/zen/players", http.StatusCreated)
	path := "/zen/players/" + created.ID

	do(t, r, http.MethodDelete, path, http.StatusNoContent)
	do(t, r, http.MethodGet, path, http.StatusNotFound)
	do(t, r, http.MethodDelete, path, http.StatusNotFound)
}
