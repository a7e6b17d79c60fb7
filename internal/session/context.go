package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/saywise/saywise-ai-platform/internal/analysis"
)

const contextHeader = "Conversation so far:"

// Context renders a session's retained interactions into one prompt-ready
// block: a header, then per turn a relative-time label, the quoted message,
// the primary intent, the tone summary, and any impact metrics predicted
// high. The second return is false when the session does not exist; an
// existing session with no turns yields an empty string.
func (s *Store) Context(id string) (string, bool) {
	e := s.lookup(id)
	if e == nil {
		return "", false
	}

	e.mu.Lock()
	now := s.now()
	e.lastAccessedAt = now
	interactions := append([]Interaction(nil), e.interactions...)
	e.mu.Unlock()

	if len(interactions) == 0 {
		return "", true
	}

	var b strings.Builder
	b.WriteString(contextHeader)
	for _, in := range interactions {
		b.WriteString("\n[")
		b.WriteString(relativeLabel(now.Sub(in.At)))
		b.WriteString("] \"")
		b.WriteString(in.Message)
		b.WriteString("\"")
		if p := strings.TrimSpace(in.Analysis.Intent.Primary); p != "" {
			b.WriteString("\n  intent: ")
			b.WriteString(p)
		}
		if t := strings.TrimSpace(in.Analysis.Tone.Summary); t != "" {
			b.WriteString("\n  tone: ")
			b.WriteString(t)
		}
		if high := highMetricNames(in.Analysis.Impact); len(high) > 0 {
			b.WriteString("\n  high impact: ")
			b.WriteString(strings.Join(high, ", "))
		}
	}
	return b.String(), true
}

func highMetricNames(r analysis.ImpactResult) []string {
	names := make([]string, 0, len(r.Metrics))
	for _, m := range r.Metrics {
		if m.Category == analysis.CategoryHigh {
			names = append(names, m.Name)
		}
	}
	return names
}

// relativeLabel condenses an elapsed duration into a coarse human label.
func relativeLabel(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
