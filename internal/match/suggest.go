package match

import (
	"sort"
)

// Suggestion tuning.
const (
	// DefaultMinScore is the similarity a known name needs to be suggested.
	DefaultMinScore = 0.7
	// DefaultMaxSuggestions caps the names listed in one error.
	DefaultMaxSuggestions = 3
)

// Candidate is a known name scored against an unresolved one.
type Candidate struct {
	Name  string
	Score float64
}

// CandidateList is ordered by descending score, then by name.
type CandidateList []Candidate

// Rank scores every known name against name, taking the better of the
// normalized and the raw comparison. An exact match is skipped.
func Rank(name string, known []string) CandidateList {
	norm := NormalizeName(name)

	list := make(CandidateList, 0, len(known))
	for _, k := range known {
		if k == name {
			continue
		}

		score := max(Similarity(norm, NormalizeName(k)), Similarity(name, k))
		list = append(list, Candidate{Name: k, Score: score})
	}

	sort.Slice(list, func(i, j int) bool {
		if list[i].Score != list[j].Score {
			return list[i].Score > list[j].Score
		}

		return list[i].Name < list[j].Name
	})

	return list
}

// AboveThreshold returns the candidates scoring at least threshold.
func (c CandidateList) AboveThreshold(threshold float64) CandidateList {
	for i, cand := range c {
		if cand.Score < threshold {
			return c[:i]
		}
	}

	return c
}

// Top returns at most n candidates.
func (c CandidateList) Top(n int) CandidateList {
	if len(c) <= n {
		return c
	}

	return c[:n]
}

// Names returns the candidate names in order.
func (c CandidateList) Names() []string {
	names := make([]string, len(c))
	for i, cand := range c {
		names[i] = cand.Name
	}

	return names
}

// Suggest returns the known names close enough to name to be worth
// mentioning, best first.
func Suggest(name string, known []string) []string {
	return Rank(name, known).AboveThreshold(DefaultMinScore).Top(DefaultMaxSuggestions).Names()
}
