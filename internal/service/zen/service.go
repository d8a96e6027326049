package zen

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrPlayerNotFound = errors.New("player not found")

// Service keeps one simulated player per listener.
type Service struct {
	songs []string
	now   func() time.Time

	mu      sync.RWMutex
	players map[string]*Player
}

// NewService returns a Service over the given playlist.
func NewService(songs []string) *Service {
	return &Service{
		songs:   append([]string(nil), songs...),
		now:     time.Now,
		players: make(map[string]*Player),
	}
}

// Songs returns the playlist.
func (s *Service) Songs() []string {
	return append([]string(nil), s.songs...)
}

// Create starts a new paused player.
func (s *Service) Create() (*Player, error) {
	player, err := NewPlayer(uuid.NewString(), s.songs, s.now)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.players[player.id] = player
	s.mu.Unlock()
	return player, nil
}

// Get looks up a player.
func (s *Service) Get(id string) (*Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	player, ok := s.players[id]
	if !ok {
		return nil, ErrPlayerNotFound
	}
	return player, nil
}

// Delete discards a player.
func (s *Service) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.players[id]; !ok {
		return ErrPlayerNotFound
	}
	delete(s.players, id)
	return nil
}
