package domain

import "time"

// ScopeSnapshot is the persisted form of a root scope.
// Only the main storage map is captured; LRU caches never leave their scope.
type ScopeSnapshot struct {
	Variables map[string]string `json:"variables"`
	Storage   map[string]any    `json:"storage"`
	SavedAt   time.Time         `json:"saved_at"`
}

// NewScopeSnapshot creates an empty snapshot.
func NewScopeSnapshot() *ScopeSnapshot {
	return &ScopeSnapshot{
		Variables: make(map[string]string),
		Storage:   make(map[string]any),
	}
}

// Clone copies the snapshot maps (values are shared).
func (s *ScopeSnapshot) Clone() *ScopeSnapshot {
	out := &ScopeSnapshot{
		Variables: make(map[string]string, len(s.Variables)),
		Storage:   make(map[string]any, len(s.Storage)),
		SavedAt:   s.SavedAt,
	}
	for k, v := range s.Variables {
		out.Variables[k] = v
	}
	for k, v := range s.Storage {
		out.Storage[k] = v
	}
	return out
}
