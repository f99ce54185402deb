package generate

import (
	"fmt"
	"strings"
)

// normalize folds whitespace and case so near-identical texts compare equal.
func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// buildDedup formats prior questions for the prompt, keeping the most
// recent max entries. Returns "None" if there are none.
func buildDedup(prior []string, max int) string {
	if len(prior) == 0 {
		return "None"
	}
	if max > 0 && len(prior) > max {
		prior = prior[len(prior)-max:]
	}

	var b strings.Builder
	for i, q := range prior {
		fmt.Fprintf(&b, "%d. %s\n", i+1, q)
	}
	return strings.TrimRight(b.String(), "\n")
}

// seenSet tracks normalized question texts.
type seenSet map[string]struct{}

func newSeenSet(texts []string) seenSet {
	s := make(seenSet, len(texts))
	for _, t := range texts {
		s.add(t)
	}
	return s
}

func (s seenSet) has(text string) bool {
	_, ok := s[normalize(text)]
	return ok
}

func (s seenSet) add(text string) {
	s[normalize(text)] = struct{}{}
}
