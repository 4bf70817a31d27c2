package app

import (
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
)

func (s *State) StartFilter() {
	s.Filter.Active = true
}

func (s *State) AppendFilter(runes []rune) {
	s.Filter.Query += string(runes)
}

// BackspaceFilter removes the last rune of the query.
func (s *State) BackspaceFilter() {
	q := []rune(s.Filter.Query)
	if len(q) == 0 {
		return
	}
	s.Filter.Query = string(q[:len(q)-1])
}

// SubmitFilter leaves the prompt and keeps the query applied.
func (s *State) SubmitFilter() {
	s.Filter.Active = false
}

func (s *State) ClearFilter() {
	s.Filter = Filter{}
}

// FilteredResponses returns the responses matching the filter query in log
// order. The log itself is left untouched.
func (s *State) FilteredResponses() []string {
	n := len(s.Responses)
	query := strings.TrimSpace(s.Filter.Query)
	if query == "" {
		return s.Responses[:n:n]
	}

	lines := make([]string, n)
	for i, r := range s.Responses {
		lines[i] = DisplayLine(r)
	}
	matches := fuzzy.Find(query, lines)
	sort.Slice(matches, func(i, j int) bool { return matches[i].Index < matches[j].Index })

	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, s.Responses[m.Index])
	}
	return out
}
