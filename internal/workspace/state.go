package workspace

import "sync"

// State is the explicitly pinned workspace, shared by the resolver, the
// project cache and the history store. Once set it overrides every
// heuristic until changed again.
type State struct {
	mu   sync.RWMutex
	path string
}

func NewState() *State {
	return &State{}
}

func (s *State) Set(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.path = path
}

func (s *State) Get() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.path
}
