package models

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/csams/rhymer/internal/markdown"
)

func TestNewComposition(t *testing.T) {
	c1 := NewComposition("Open Road", "# Open Road", "")
	c2 := NewComposition("Open Road", "# Open Road", "")

	if c1.ID == "" {
		t.Error("Expected non-empty ID")
	}

	if c1.ID == c2.ID {
		t.Error("Expected unique IDs for separate compositions")
	}

	if !c1.CreatedAt.Equal(c1.UpdatedAt) {
		t.Error("Expected CreatedAt and UpdatedAt to match on creation")
	}
}

func TestComposition_SetDocument(t *testing.T) {
	converter := markdown.NewMarkdownConverter()
	c := NewComposition("Song", "plain **bold**", "")
	before := c.UpdatedAt

	doc := c.Document(converter)
	if doc.Content() != "plain bold" {
		t.Fatalf("Expected parsed content 'plain bold', got %q", doc.Content())
	}

	// Unchanged document must not touch the record
	if c.SetDocument(converter, doc) {
		t.Error("Expected no change when document is unchanged")
	}

	doc = doc.Apply(0, 5, func(a markdown.Attr) markdown.Attr { return a.With(markdown.Italic) })
	if !c.SetDocument(converter, doc) {
		t.Fatal("Expected a change after styling")
	}

	if c.Content != "*plain* **bold**" {
		t.Errorf("Expected '*plain* **bold**', got %q", c.Content)
	}

	if c.UpdatedAt.Before(before) {
		t.Error("Expected UpdatedAt to move forward")
	}
}

func TestComposition_Chords(t *testing.T) {
	c := NewComposition("Song", "la la", "")

	data, err := c.EncodeChords()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if data != nil {
		t.Error("Expected nil data with no chords")
	}

	c.Chords = []ChordPlacement{{Position: 0, Chord: "Am"}, {Position: 3, Chord: "G"}}
	data, err = c.EncodeChords()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	restored := &Composition{}
	restored.DecodeChords(data)
	if len(restored.Chords) != 2 || restored.Chords[1].Chord != "G" {
		t.Errorf("Expected chords to be restored, got %+v", restored.Chords)
	}

	restored.DecodeChords([]byte("not json"))
	if restored.Chords != nil {
		t.Error("Expected corrupt chord data to yield no chords")
	}
}

func TestNormalize(t *testing.T) {
	tests := map[string]string{
		"Hello":     "hello",
		" FLOW ":    "flow",
		"world!":    "world",
		"hello,":    "hello",
		"   ":       "",
		"don't":     "don't",
		"\"quote\"": "quote",
	}

	for input, expected := range tests {
		if got := Normalize(input); got != expected {
			t.Errorf("Normalize(%q): expected %q, got %q", input, expected, got)
		}
	}
}

func TestGroupFavorites(t *testing.T) {
	favorites := []FavoriteRhyme{
		{Word: "test", Rhyme: "best"},
		{Word: "flow", Rhyme: "glow"},
		{Word: "test", Rhyme: "chest"},
	}

	words, grouped := GroupFavorites(favorites)

	if strings.Join(words, ",") != "flow,test" {
		t.Errorf("Expected sorted words 'flow,test', got %v", words)
	}

	if strings.Join(grouped["test"], ",") != "best,chest" {
		t.Errorf("Expected rhymes in insertion order, got %v", grouped["test"])
	}
}

func TestLoadLegacyFavorites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, LegacyFavoritesFile)

	// Missing file is not an error
	favorites, err := LoadLegacyFavorites(path)
	if err != nil {
		t.Fatalf("Expected no error for missing file, got %v", err)
	}
	if len(favorites) != 0 {
		t.Errorf("Expected no favorites, got %d", len(favorites))
	}

	content := `{
  "Test": {"word": "Test", "rhymes": ["best", "", "chest"]},
  " FLOW ": {"word": " FLOW ", "rhymes": ["glow"]}
}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	favorites, err = LoadLegacyFavorites(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(favorites) != 3 {
		t.Fatalf("Expected 3 favorites, got %d", len(favorites))
	}

	for _, f := range favorites {
		if f.Word != Normalize(f.Word) {
			t.Errorf("Expected normalized word, got %q", f.Word)
		}
		if f.Rhyme == "" {
			t.Error("Expected empty rhymes to be skipped")
		}
	}

	if err := os.WriteFile(path, []byte("{broken"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadLegacyFavorites(path); err == nil {
		t.Error("Expected error for corrupt legacy file")
	}
}

func TestSaveLegacyFavorites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", LegacyFavoritesFile)
	in := []FavoriteRhyme{NewFavorite("Night", "light"), NewFavorite("night", "sight")}

	if err := SaveLegacyFavorites(path, in); err != nil {
		t.Fatalf("Failed to save: %v", err)
	}

	out, err := LoadLegacyFavorites(path)
	if err != nil {
		t.Fatalf("Failed to load: %v", err)
	}

	if len(out) != 2 {
		t.Errorf("Expected 2 favorites, got %d", len(out))
	}
}
