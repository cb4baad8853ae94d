package middleware

import (
	"context"
	"fmt"
	"regexp"

	"github.com/mohae/deepcopy"

	"github.com/aretw0/canopy/pkg/domain"
	"github.com/aretw0/canopy/pkg/ports"
)

// Mask replaces sensitive values in stored snapshots.
const Mask = "***"

type piiMiddleware struct {
	next     ports.ScopeStore
	patterns []*regexp.Regexp
}

// NewPIIMiddleware creates a middleware that masks the values of variables
// and storage entries (nested maps included) whose names match any pattern.
// Masking is one-way: loaded snapshots carry the mask.
func NewPIIMiddleware(patternStrings []string) (Middleware, error) {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid PII pattern %q: %w", p, err)
		}
		patterns[i] = re
	}
	return func(next ports.ScopeStore) ports.ScopeStore {
		return &piiMiddleware{next: next, patterns: patterns}
	}, nil
}

func (m *piiMiddleware) Save(ctx context.Context, sessionID string, snapshot *domain.ScopeSnapshot) error {
	// Work on a copy; the caller keeps the clear values.
	cloned := snapshot.Clone()
	if snapshot.Storage != nil {
		cloned.Storage = deepcopy.Copy(snapshot.Storage).(map[string]any)
	}

	for k := range cloned.Variables {
		if m.matches(k) {
			cloned.Variables[k] = Mask
		}
	}
	m.maskMap(cloned.Storage)

	return m.next.Save(ctx, sessionID, cloned)
}

func (m *piiMiddleware) Load(ctx context.Context, sessionID string) (*domain.ScopeSnapshot, error) {
	return m.next.Load(ctx, sessionID)
}

func (m *piiMiddleware) Delete(ctx context.Context, sessionID string) error {
	return m.next.Delete(ctx, sessionID)
}

func (m *piiMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

func (m *piiMiddleware) matches(key string) bool {
	for _, p := range m.patterns {
		if p.MatchString(key) {
			return true
		}
	}
	return false
}

func (m *piiMiddleware) maskMap(values map[string]any) {
	for k, v := range values {
		if m.matches(k) {
			values[k] = Mask
			continue
		}
		if sub, ok := v.(map[string]any); ok {
			m.maskMap(sub)
		}
	}
}
