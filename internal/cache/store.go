package cache

import "sync"

type store interface {
	snapshot() any
}

func newStore(d Descriptor) store {
	switch d.Kind {
	case SetKind:
		return &setStore{members: make(map[any]struct{}, d.Size)}
	case MapKind:
		return &mapStore{entries: make(map[any]any, d.Size)}
	}
	return &listStore{items: make([]any, 0, d.Size)}
}

// setStore keeps insertion order for snapshots.
type setStore struct {
	mu      sync.RWMutex
	members map[any]struct{}
	order   []any
}

func (s *setStore) add(key any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.members[key]; ok {
		return
	}
	s.members[key] = struct{}{}
	s.order = append(s.order, key)
}

func (s *setStore) has(key any) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.members[key]
	return ok
}

func (s *setStore) snapshot() any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]any, len(s.order))
	copy(out, s.order)
	return out
}

type listStore struct {
	mu    sync.RWMutex
	items []any
}

func (s *listStore) addAll(values []any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, values...)
}

func (s *listStore) snapshot() any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]any, len(s.items))
	copy(out, s.items)
	return out
}

type mapStore struct {
	mu      sync.RWMutex
	entries map[any]any
}

func (s *mapStore) put(key, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = value
}

func (s *mapStore) putAll(values map[any]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range values {
		s.entries[k] = v
	}
}

func (s *mapStore) get(key any) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.entries[key]
	return v, ok
}

func (s *mapStore) snapshot() any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[any]any, len(s.entries))
	for k, v := range s.entries {
		out[k] = v
	}
	return out
}
