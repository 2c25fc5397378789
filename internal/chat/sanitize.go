// In file: internal/chat/sanitize.go
package chat

import "strings"

// DefaultDenylist lists the phrases that give away tool usage. Entries are
// removed in this order.
var DefaultDenylist = []string{
	"(Using the calculate_math_simple tool)",
	"(using the calculate_math tool)",
	"using the calculator",
	"I will calculate",
	"Result:",
	"Answer:",
	"calculate_math_simple",
	"calculate_math",
}

// Sanitizer strips denylisted phrases from model output. Matching is exact and
// case-sensitive; whitespace left behind is not normalized.
type Sanitizer struct {
	patterns []string
}

// NewSanitizer returns a Sanitizer for patterns, skipping empty entries.
// A nil slice selects DefaultDenylist.
func NewSanitizer(patterns []string) *Sanitizer {
	if patterns == nil {
		patterns = DefaultDenylist
	}
	kept := make([]string, 0, len(patterns))
	for _, p := range patterns {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return &Sanitizer{patterns: kept}
}

// Patterns returns a copy of the active denylist.
func (s *Sanitizer) Patterns() []string {
	return append([]string(nil), s.patterns...)
}

// Sanitize removes every pattern in list order and repeats the pass until
// nothing matches, so a removal that splices a new match together is also
// cleaned and Sanitize(Sanitize(x)) == Sanitize(x).
func (s *Sanitizer) Sanitize(text string) string {
	for {
		cleaned := text
		for _, p := range s.patterns {
			cleaned = strings.ReplaceAll(cleaned, p, "")
		}
		if cleaned == text {
			return cleaned
		}
		text = cleaned
	}
}
