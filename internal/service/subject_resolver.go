package service

import (
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/campus-horarios/timetable-api/internal/models"
)

// SubjectResolver maps a free-text class name from a professor record to a
// subject. Implementations must be deterministic for a fixed subject list.
type SubjectResolver interface {
	Resolve(className string, subjects []models.Subject) (*models.Subject, bool)
}

// MatchOrderResolver resolves names by exact match first, then partial word
// overlap, then fuzzy similarity above a threshold, in that priority order.
type MatchOrderResolver struct {
	// Threshold is the minimum normalized similarity (0..1) a fuzzy match
	// must reach to be accepted.
	Threshold float64
}

// NewSubjectResolver builds the default exact→partial→fuzzy resolver.
func NewSubjectResolver(threshold float64) *MatchOrderResolver {
	if threshold <= 0 || threshold > 1 {
		threshold = 0.8
	}
	return &MatchOrderResolver{Threshold: threshold}
}

// Resolve returns the matched subject and whether a match was found.
func (r *MatchOrderResolver) Resolve(className string, subjects []models.Subject) (*models.Subject, bool) {
	name := normalizeName(className)
	if name == "" {
		return nil, false
	}

	for i := range subjects {
		if normalizeName(subjects[i].Name) == name {
			return &subjects[i], true
		}
	}

	if match := bestPartialMatch(name, subjects); match != nil {
		return match, true
	}

	return bestFuzzyMatch(name, subjects, r.Threshold)
}

// bestPartialMatch accepts a subject when every word of the class name occurs
// in the subject name. Ties go to the subject sharing the fewest extra words.
func bestPartialMatch(name string, subjects []models.Subject) *models.Subject {
	words := strings.Fields(name)
	if len(words) == 0 {
		return nil
	}

	var best *models.Subject
	bestExtra := -1
	for i := range subjects {
		subjectWords := strings.Fields(normalizeName(subjects[i].Name))
		if !containsAll(subjectWords, words) {
			continue
		}
		extra := len(subjectWords) - len(words)
		if best == nil || extra < bestExtra {
			best = &subjects[i]
			bestExtra = extra
		}
	}
	return best
}

func bestFuzzyMatch(name string, subjects []models.Subject, threshold float64) (*models.Subject, bool) {
	var best *models.Subject
	bestScore := 0.0
	for i := range subjects {
		score := similarity(name, normalizeName(subjects[i].Name))
		if score >= threshold && score > bestScore {
			best = &subjects[i]
			bestScore = score
		}
	}
	return best, best != nil
}

// similarity is a normalized Levenshtein ratio in [0,1].
func similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	longest := len([]rune(a))
	if l := len([]rune(b)); l > longest {
		longest = l
	}
	if longest == 0 {
		return 0
	}
	distance := levenshtein.ComputeDistance(a, b)
	return 1 - float64(distance)/float64(longest)
}

func containsAll(haystack, needles []string) bool {
	set := make(map[string]struct{}, len(haystack))
	for _, word := range haystack {
		set[word] = struct{}{}
	}
	for _, needle := range needles {
		if _, ok := set[needle]; !ok {
			return false
		}
	}
	return true
}

// normalizeName lowercases, strips accents and collapses whitespace.
func normalizeName(raw string) string {
	lowered := accentReplacer.Replace(strings.ToLower(strings.TrimSpace(raw)))
	return strings.Join(strings.Fields(lowered), " ")
}
