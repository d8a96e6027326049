package zen

import (
	"errors"
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestPlayer(t *testing.T) (*Player, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	p, err := NewPlayer("p1", []string{"高山流水", "梅花三弄", "平沙落雁"}, clock.now)
	if err != nil {
		t.Fatalf("NewPlayer err: %v", err)
	}
	return p, clock
}

func TestFormatElapsed(t *testing.T) {
	cases := map[int]string{0: "00:00", 5: "00:05", 65: "01:05", 600: "10:00", 6000: "100:00", -3: "00:00"}
	for in, want := range cases {
		if got := FormatElapsed(in); got != want {
			t.Fatalf("FormatElapsed(%d) = %s, want %s", in, got, want)
		}
	}
}

func TestNewPlayerRequiresSongs(t *testing.T) {
	if _, err := NewPlayer("p", nil, nil); !errors.Is(err, ErrEmptyPlaylist) {
		t.Fatalf("expected ErrEmptyPlaylist, got %v", err)
	}
}

func TestElapsedCountsOnlyWhilePlaying(t *testing.T) {
	p, clock := newTestPlayer(t)

	clock.advance(10 * time.Second)
	if s := p.State(); s.Playing || s.Elapsed != 0 {
		t.Fatalf("paused player must not count, got %+v", s)
	}

	p.Toggle()
	clock.advance(1500 * time.Millisecond)
	if s := p.State(); s.Elapsed != 1 {
		t.Fatalf("expected whole seconds only, got %d", s.Elapsed)
	}

	clock.advance(62 * time.Second)
	s := p.Toggle()
	if s.Playing || s.Elapsed != 63 || s.ElapsedText != "01:03" {
		t.Fatalf("unexpected state after pause %+v", s)
	}

	clock.advance(time.Minute)
	if s := p.State(); s.Elapsed != 63 {
		t.Fatalf("paused time must not count, got %d", s.Elapsed)
	}
}

func TestSelectSameIndexToggles(t *testing.T) {
	p, clock := newTestPlayer(t)

	s, err := p.Select(0)
	if err != nil || !s.Playing {
		t.Fatalf("expected playing after selecting current track, got %+v %v", s, err)
	}
	clock.advance(5 * time.Second)

	s, _ = p.Select(0)
	if s.Playing || s.Elapsed != 5 {
		t.Fatalf("expected pause keeping elapsed, got %+v", s)
	}
}

func TestSelectOtherIndexPlaysFromZero(t *testing.T) {
	p, clock := newTestPlayer(t)
	p.Toggle()
	clock.advance(30 * time.Second)

	s, err := p.Select(2)
	if err != nil {
		t.Fatalf("Select err: %v", err)
	}
	if s.Index != 2 || s.Title != "平沙落雁" || !s.Playing || s.Elapsed != 0 {
		t.Fatalf("unexpected state %+v", s)
	}

	if _, err := p.Select(3); !errors.Is(err, ErrInvalidIndex) {
		t.Fatalf("expected ErrInvalidIndex, got %v", err)
	}
	if _, err := p.Select(-1); !errors.Is(err, ErrInvalidIndex) {
		t.Fatalf("expected ErrInvalidIndex, got %v", err)
	}
}

func TestNextPrevWrapAndResetTimer(t *testing.T) {
	p, clock := newTestPlayer(t)

	s := p.Prev()
	if s.Index != 2 || s.Playing {
		t.Fatalf("expected wrap to last track while paused, got %+v", s)
	}

	p.Toggle()
	clock.advance(20 * time.Second)
	s = p.Next()
	if s.Index != 0 || !s.Playing || s.Elapsed != 0 {
		t.Fatalf("expected wrap to first track, playing, timer reset, got %+v", s)
	}

	clock.advance(3 * time.Second)
	if s := p.State(); s.Elapsed != 3 {
		t.Fatalf("expected timer to run after next, got %d", s.Elapsed)
	}
}

func TestServiceCreateAndGet(t *testing.T) {
	svc := NewService([]string{"流水"})

	player, err := svc.Create()
	if err != nil {
		t.Fatalf("Create err: %v", err)
	}
	got, err := svc.Get(player.State().ID)
	if err != nil || got != player {
		t.Fatalf("expected to find created player, err=%v", err)
	}
	if _, err := svc.Get("missing"); !errors.Is(err, ErrPlayerNotFound) {
		t.Fatalf("expected ErrPlayerNotFound, got %v", err)
	}

	if _, err := NewService(nil).Create(); !errors.Is(err, ErrEmptyPlaylist) {
		t.Fatalf("expected ErrEmptyPlaylist, got %v", err)
	}
}

func TestServiceDelete(t *testing.T) {
	svc := NewService([]string{"流水"})

	player, err := svc.Create()
	if err != nil {
		t.Fatalf("Create err: %v", err)
	}
	id := player.State().ID

	if err := svc.Delete(id); err != nil {
		t.Fatalf("Delete err: %v", err)
	}
	if _, err := svc.Get(id); !errors.Is(err, ErrPlayerNotFound) {
		t.Fatalf("expected player gone, got %v", err)
	}
	if err := svc.Delete(id); !errors.Is(err, ErrPlayerNotFound) {
		t.Fatalf("expected ErrPlayerNotFound on second delete, got %v", err)
	}
}
