package search

import (
	"testing"

	"github.com/csams/rhymer/internal/markdown"
	"github.com/csams/rhymer/internal/models"
)

func TestParseThreshold(t *testing.T) {
	tests := []struct {
		name    string
		want    int
		wantErr bool
	}{
		{"strict", ScoreThresholdStrict, false},
		{"Normal", ScoreThresholdNormal, false},
		{"", ScoreThresholdNormal, false},
		{"permissive", ScoreThresholdPermissive, false},
		{"none", ScoreThresholdNone, false},
		{"lenient", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseThreshold(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseThreshold(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseThreshold(%q) = %d, want %d", tt.name, got, tt.want)
			}
		})
	}
}

func TestMatcher_Match(t *testing.T) {
	m := NewMatcher("Light")

	result := m.Match("Delight")
	if result.Score <= 0 {
		t.Fatalf("Expected positive score, got %d", result.Score)
	}
	want := []int{2, 3, 4, 5, 6}
	if len(result.Positions) != len(want) {
		t.Fatalf("Expected positions %v, got %v", want, result.Positions)
	}
	for i := range want {
		if result.Positions[i] != want[i] {
			t.Errorf("Expected positions %v, got %v", want, result.Positions)
			break
		}
	}

	if got := m.Match("lug").Score; got != -1 {
		t.Errorf("Expected no match, got score %d", got)
	}

	m.SetCaseSensitive(true)
	if got := m.Match("light").Score; got != -1 {
		t.Errorf("Expected case-sensitive miss, got score %d", got)
	}
}

func TestMatcher_EmptyQueryMatchesAll(t *testing.T) {
	m := NewMatcher("   ")
	ok, field, result := m.MatchFields("anything")
	if !ok || field != 0 || result.Score != 0 {
		t.Errorf("Expected empty query to match with score 0, got ok=%v field=%d score=%d", ok, field, result.Score)
	}
}

func TestMatcher_Favorites(t *testing.T) {
	favorites := []models.FavoriteRhyme{
		{Word: "night", Rhyme: "delight"},
		{Word: "x", Rhyme: "lug"},
		{Word: "day", Rhyme: "light"},
		{Word: "light", Rhyme: "bite"},
	}

	m := NewMatcher("light")
	m.SetMinScore(ScoreThresholdNone)

	results := m.Favorites(favorites)
	if len(results) != 3 {
		t.Fatalf("Expected 3 matches, got %d: %+v", len(results), results)
	}

	if results[0].Favorite.Rhyme != "light" {
		t.Errorf("Expected exact rhyme first, got %q", results[0].Favorite.Rhyme)
	}
	for i := 1; i < len(results); i++ {
		if results[i].Score > results[i-1].Score {
			t.Errorf("Expected results sorted by score, got %d before %d", results[i-1].Score, results[i].Score)
		}
	}
	for _, r := range results {
		if r.Favorite.Rhyme == "lug" {
			t.Error("Expected 'lug' to be filtered out")
		}
	}

	m.SetMinScore(10000)
	if got := m.Favorites(favorites); len(got) != 0 {
		t.Errorf("Expected nothing above an unreachable threshold, got %d", len(got))
	}
}

func TestMatcher_Compositions(t *testing.T) {
	converter := markdown.NewMarkdownConverter()
	byTitle := models.NewComposition("Open Road", "just driving", "")
	byContent := models.NewComposition("Untitled", "# Verse\nthe **open** road ahead", "")
	neither := models.NewComposition("Rain", "clouds", "")

	m := NewMatcher("open road")
	m.SetMinScore(ScoreThresholdNone)

	results := m.Compositions(converter, []*models.Composition{neither, byContent, byTitle})
	if len(results) != 2 {
		t.Fatalf("Expected 2 matches, got %d", len(results))
	}

	fields := map[string]string{}
	for _, r := range results {
		fields[r.Composition.ID] = r.Field
	}
	if fields[byTitle.ID] != "title" {
		t.Errorf("Expected title match for %q, got %q", byTitle.Title, fields[byTitle.ID])
	}
	if fields[byContent.ID] != "content" {
		t.Errorf("Expected content match for %q, got %q", byContent.Title, fields[byContent.ID])
	}

	// Markup delimiters are not part of the searched text
	m = NewMatcher("**")
	m.SetMinScore(ScoreThresholdNone)
	if got := m.Compositions(converter, []*models.Composition{byContent}); len(got) != 0 {
		t.Errorf("Expected markup delimiters not to match, got %d results", len(got))
	}
}
