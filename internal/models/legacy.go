package models

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// LegacyFavoritesFile is where earlier releases kept favorites, keyed by
// search input
const LegacyFavoritesFile = "favorites.json"

type legacyRhymeWithFavorites struct {
	Word   string   `json:"word"`
	Rhymes []string `json:"rhymes"`
}

// LegacyFavoritesPath returns the legacy favorites file inside configDir
func LegacyFavoritesPath(configDir string) string {
	return filepath.Join(configDir, LegacyFavoritesFile)
}

// LoadLegacyFavorites reads the legacy favorites file. A missing file yields
// no favorites and no error. Words are normalized and empty rhymes skipped.
func LoadLegacyFavorites(path string) ([]FavoriteRhyme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var legacy map[string]legacyRhymeWithFavorites
	if err := json.Unmarshal(data, &legacy); err != nil {
		return nil, err
	}

	var favorites []FavoriteRhyme
	for _, entry := range legacy {
		word := Normalize(entry.Word)
		for _, rhyme := range entry.Rhymes {
			fav := NewFavorite(word, rhyme)
			if fav.Word == "" || fav.Rhyme == "" {
				continue
			}
			favorites = append(favorites, fav)
		}
	}

	return favorites, nil
}

// SaveLegacyFavorites writes favorites in the legacy layout. Only used to
// produce fixtures and exports readable by older releases.
func SaveLegacyFavorites(path string, favorites []FavoriteRhyme) error {
	words, grouped := GroupFavorites(favorites)
	legacy := make(map[string]legacyRhymeWithFavorites, len(words))
	for _, w := range words {
		legacy[w] = legacyRhymeWithFavorites{Word: w, Rhymes: grouped[w]}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(legacy, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
