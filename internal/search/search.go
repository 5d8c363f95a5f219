package search

import (
	"fmt"
	"slices"
	"strings"

	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"

	"github.com/csams/rhymer/internal/markdown"
	"github.com/csams/rhymer/internal/models"
)

// Score threshold constants (based on raw fzf scores)
const (
	ScoreThresholdStrict     = 70 // Only high quality matches
	ScoreThresholdNormal     = 50 // Balanced (default)
	ScoreThresholdPermissive = 30 // Include marginal matches
	ScoreThresholdNone       = 0  // Accept all matches
)

func init() {
	algo.Init("default")
}

// ParseThreshold maps a threshold name to its score
func ParseThreshold(name string) (int, error) {
	switch strings.ToLower(name) {
	case "strict":
		return ScoreThresholdStrict, nil
	case "normal", "":
		return ScoreThresholdNormal, nil
	case "permissive":
		return ScoreThresholdPermissive, nil
	case "none":
		return ScoreThresholdNone, nil
	default:
		return 0, fmt.Errorf("unknown threshold %q (want strict, normal, permissive or none)", name)
	}
}

// MatchResult contains match score and positions
type MatchResult struct {
	Score     int
	Positions []int
}

// Matcher scores text against a fuzzy query
type Matcher struct {
	query         string
	caseSensitive bool
	minScore      int
}

// NewMatcher creates a case-insensitive matcher with the normal threshold
func NewMatcher(query string) *Matcher {
	return &Matcher{
		query:    strings.TrimSpace(query),
		minScore: ScoreThresholdNormal,
	}
}

// Query returns the current query
func (m *Matcher) Query() string {
	return m.query
}

// SetCaseSensitive toggles case-sensitive matching
func (m *Matcher) SetCaseSensitive(on bool) {
	m.caseSensitive = on
}

// SetMinScore sets the minimum score threshold
func (m *Matcher) SetMinScore(score int) {
	m.minScore = score
}

// MinScore returns the current minimum score threshold
func (m *Matcher) MinScore() int {
	return m.minScore
}

// Match scores text. A score of -1 means no match.
func (m *Matcher) Match(text string) MatchResult {
	if m.query == "" {
		return MatchResult{Score: 0}
	}

	searchText := text
	pattern := m.query
	if !m.caseSensitive {
		searchText = strings.ToLower(text)
		pattern = strings.ToLower(m.query)
	}

	chars := util.ToChars([]byte(searchText))
	slab := util.MakeSlab(16384, 1024)
	result, positions := algo.FuzzyMatchV2(m.caseSensitive, false, true, &chars, []rune(pattern), true, slab)

	if result.Start < 0 {
		return MatchResult{Score: -1}
	}

	// fzf positions index the Chars array, which is rune based
	var matchPositions []int
	if positions != nil {
		matchPositions = slices.Clone(*positions)
		slices.Sort(matchPositions)
	}

	return MatchResult{Score: result.Score, Positions: matchPositions}
}

// MatchFields tries each field in order and returns the first one that
// clears the threshold along with its index
func (m *Matcher) MatchFields(fields ...string) (bool, int, MatchResult) {
	if m.query == "" {
		return true, 0, MatchResult{Score: 0}
	}

	for i, field := range fields {
		if field == "" {
			continue
		}
		result := m.Match(field)
		if result.Score >= 0 && (m.minScore == 0 || result.Score >= m.minScore) {
			return true, i, result
		}
	}
	return false, -1, MatchResult{Score: -1}
}

// ScoredFavorite is a favorite that matched a query. Field is "rhyme" or
// "word".
type ScoredFavorite struct {
	Favorite models.FavoriteRhyme
	Field    string
	MatchResult
}

// Favorites returns favorites whose rhyme or word matches, best first
func (m *Matcher) Favorites(favorites []models.FavoriteRhyme) []ScoredFavorite {
	var results []ScoredFavorite
	for _, f := range favorites {
		ok, field, result := m.MatchFields(f.Rhyme, f.Word)
		if !ok {
			continue
		}
		name := "rhyme"
		if field == 1 {
			name = "word"
		}
		results = append(results, ScoredFavorite{Favorite: f, Field: name, MatchResult: result})
	}
	slices.SortStableFunc(results, func(a, b ScoredFavorite) int {
		return b.Score - a.Score
	})
	return results
}

// ScoredComposition is a composition that matched a query. Field is "title"
// or "content".
type ScoredComposition struct {
	Composition *models.Composition
	Field       string
	MatchResult
}

// Compositions returns compositions whose title or plain text matches, best
// first. Markup delimiters are not searched.
func (m *Matcher) Compositions(converter *markdown.MarkdownConverter, compositions []*models.Composition) []ScoredComposition {
	var results []ScoredComposition
	for _, c := range compositions {
		text := c.Document(converter).Content()
		ok, field, result := m.MatchFields(c.Title, text)
		if !ok {
			continue
		}
		name := "title"
		if field == 1 {
			name = "content"
		}
		results = append(results, ScoredComposition{Composition: c, Field: name, MatchResult: result})
	}
	slices.SortStableFunc(results, func(a, b ScoredComposition) int {
		return b.Score - a.Score
	})
	return results
}
