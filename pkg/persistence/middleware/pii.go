package middleware

import (
	"context"
	"fmt"
	"regexp"

	"github.com/aretw0/onclick/pkg/ports"
)

// Mask replaces the value of every masked key.
const Mask = "***"

type maskMiddleware struct {
	next     ports.SnapshotStore
	patterns []*regexp.Regexp
}

// NewMaskMiddleware masks, on Save, the values of Vars keys matching any of the
// patterns. Nested maps are walked. The caller's snapshot is never modified.
func NewMaskMiddleware(patternStrings []string) (Middleware, error) {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid mask pattern %q: %w", p, err)
		}
		patterns[i] = re
	}
	return func(next ports.SnapshotStore) ports.SnapshotStore {
		return &maskMiddleware{next: next, patterns: patterns}
	}, nil
}

func (m *maskMiddleware) Save(ctx context.Context, worldID string, snapshot map[string]any) error {
	cloned := deepCopyMap(snapshot)
	maskMap(cloned, m.patterns)
	return m.next.Save(ctx, worldID, cloned)
}

func (m *maskMiddleware) Load(ctx context.Context, worldID string) (map[string]any, error) {
	return m.next.Load(ctx, worldID)
}

func (m *maskMiddleware) Delete(ctx context.Context, worldID string) error {
	return m.next.Delete(ctx, worldID)
}

func (m *maskMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

func deepCopyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if sub, ok := v.(map[string]any); ok {
			out[k] = deepCopyMap(sub)
		} else {
			out[k] = v
		}
	}
	return out
}

func maskMap(m map[string]any, patterns []*regexp.Regexp) {
	for k, v := range m {
		masked := false
		for _, p := range patterns {
			if p.MatchString(k) {
				m[k] = Mask
				masked = true
				break
			}
		}
		if sub, ok := v.(map[string]any); ok && !masked {
			maskMap(sub, patterns)
		}
	}
}
