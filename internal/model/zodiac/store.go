package zodiac

import "strings"

// Store exposes zodiac lookup for HTTP handlers.
type Store interface {
	List() []Sign
	Find(key string) (Sign, bool)
}

// MemoryStore implements Store with an in-memory slice.
type MemoryStore struct {
	items []Sign
}

// NewMemoryStore returns a MemoryStore preloaded with the supplied signs.
func NewMemoryStore(items []Sign) *MemoryStore {
	return &MemoryStore{items: append([]Sign(nil), items...)}
}

// List returns the signs in display order.
func (s *MemoryStore) List() []Sign {
	return append([]Sign(nil), s.items...)
}

// Find looks up a sign by its English identifier (case-insensitive) or its Chinese name.
func (s *MemoryStore) Find(key string) (Sign, bool) {
	key = strings.TrimSpace(key)
	for _, item := range s.items {
		if strings.EqualFold(item.ID, key) || item.Name == key {
			return item, true
		}
	}
	return Sign{}, false
}
