package models

import (
	"slices"
	"strings"
	"unicode"
)

// FavoriteRhyme is a rhyme the user starred for a searched word. A (word,
// rhyme) pair is stored at most once.
type FavoriteRhyme struct {
	Word  string `json:"word"`
	Rhyme string `json:"rhyme"`
}

// NewFavorite normalizes the word so lookups by search input match
func NewFavorite(word, rhyme string) FavoriteRhyme {
	return FavoriteRhyme{Word: Normalize(word), Rhyme: strings.TrimSpace(rhyme)}
}

// Normalize lowercases a word and strips surrounding whitespace and
// punctuation
func Normalize(word string) string {
	return strings.TrimFunc(strings.ToLower(word), func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r)
	})
}

// GroupFavorites groups rhymes by word, words in sorted order
func GroupFavorites(favorites []FavoriteRhyme) ([]string, map[string][]string) {
	grouped := make(map[string][]string)
	var words []string
	for _, f := range favorites {
		if _, ok := grouped[f.Word]; !ok {
			words = append(words, f.Word)
		}
		grouped[f.Word] = append(grouped[f.Word], f.Rhyme)
	}
	slices.Sort(words)
	return words, grouped
}
