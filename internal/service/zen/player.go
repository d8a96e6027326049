package zen

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

var (
	ErrEmptyPlaylist = errors.New("playlist is empty")
	ErrInvalidIndex  = errors.New("song index out of range")
)

// State is a snapshot of a player for display.
type State struct {
	ID          string `json:"id"`
	Index       int    `json:"index"`
	Title       string `json:"title"`
	Playing     bool   `json:"playing"`
	Elapsed     int    `json:"elapsed"`
	ElapsedText string `json:"elapsedText"`
}

// Player simulates playback of a fixed playlist. The elapsed counter ticks in
// whole seconds while playing and resets whenever the track changes.
type Player struct {
	id    string
	songs []string
	now   func() time.Time

	mu        sync.Mutex
	index     int
	playing   bool
	elapsed   time.Duration
	resumedAt time.Time
}

// NewPlayer returns a paused player on the first track.
func NewPlayer(id string, songs []string, now func() time.Time) (*Player, error) {
	if len(songs) == 0 {
		return nil, ErrEmptyPlaylist
	}
	if now == nil {
		now = time.Now
	}
	return &Player{id: id, songs: append([]string(nil), songs...), now: now}, nil
}

// Select picks a track. Selecting the current track toggles play/pause;
// selecting another starts it from zero.
func (p *Player) Select(index int) (State, error) {
	if index < 0 || index >= len(p.songs) {
		return State{}, ErrInvalidIndex
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if index == p.index {
		p.setPlaying(!p.playing)
		return p.state(), nil
	}

	p.index = index
	p.elapsed = 0
	p.playing = false
	p.setPlaying(true)
	return p.state(), nil
}

// Toggle flips between playing and paused.
func (p *Player) Toggle() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.setPlaying(!p.playing)
	return p.state()
}

// Next moves to the following track, wrapping at the end. Play state is kept.
func (p *Player) Next() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.jump((p.index + 1) % len(p.songs))
	return p.state()
}

// Prev moves to the preceding track, wrapping at the start. Play state is kept.
func (p *Player) Prev() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.jump((p.index - 1 + len(p.songs)) % len(p.songs))
	return p.state()
}

// State returns the current snapshot.
func (p *Player) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state()
}

func (p *Player) jump(index int) {
	p.index = index
	p.elapsed = 0
	if p.playing {
		p.resumedAt = p.now()
	}
}

func (p *Player) setPlaying(playing bool) {
	if playing == p.playing {
		return
	}
	if playing {
		p.resumedAt = p.now()
	} else {
		p.elapsed += p.now().Sub(p.resumedAt)
	}
	p.playing = playing
}

func (p *Player) state() State {
	elapsed := p.elapsed
	if p.playing {
		elapsed += p.now().Sub(p.resumedAt)
	}
	seconds := int(elapsed / time.Second)
	return State{
		ID:          p.id,
		Index:       p.index,
		Title:       p.songs[p.index],
		Playing:     p.playing,
		Elapsed:     seconds,
		ElapsedText: FormatElapsed(seconds),
	}
}

// FormatElapsed renders seconds as zero-padded mm:ss. Minutes are not capped.
func FormatElapsed(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
