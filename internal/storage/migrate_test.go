package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/csams/rhymer/internal/models"
)

func TestMigrateLegacyFavorites(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	path := filepath.Join(t.TempDir(), models.LegacyFavoritesFile)

	legacy := `{
  "Day": {"word": "Day", "rhymes": ["way", "play", ""]},
  "night!": {"word": "night!", "rhymes": ["light"]}
}`
	if err := os.WriteFile(path, []byte(legacy), 0644); err != nil {
		t.Fatalf("Failed to write legacy file: %v", err)
	}

	added, err := store.MigrateLegacyFavorites(ctx, path)
	if err != nil {
		t.Fatalf("Migration failed: %v", err)
	}
	if added != 3 {
		t.Errorf("Expected 3 favorites migrated, got %d", added)
	}

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("Expected legacy file to be removed after migration")
	}

	for _, f := range []models.FavoriteRhyme{{Word: "day", Rhyme: "way"}, {Word: "day", Rhyme: "play"}, {Word: "night", Rhyme: "light"}} {
		if ok, _ := store.IsFavorite(ctx, f); !ok {
			t.Errorf("Expected %v to be migrated", f)
		}
	}

	// Second run finds no file
	added, err = store.MigrateLegacyFavorites(ctx, path)
	if err != nil || added != 0 {
		t.Errorf("Expected second migration to be a no-op, got added=%d err=%v", added, err)
	}
}

func TestMigrateLegacyFavorites_Idempotent(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	path := filepath.Join(t.TempDir(), models.LegacyFavoritesFile)

	favorites := []models.FavoriteRhyme{models.NewFavorite("day", "way")}
	for range 2 {
		if err := models.SaveLegacyFavorites(path, favorites); err != nil {
			t.Fatalf("Failed to write legacy file: %v", err)
		}
		if _, err := store.MigrateLegacyFavorites(ctx, path); err != nil {
			t.Fatalf("Migration failed: %v", err)
		}
	}

	all, err := store.Favorites(ctx, nil)
	if err != nil {
		t.Fatalf("Failed to list favorites: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("Expected 1 favorite after repeated migration, got %d", len(all))
	}
}

func TestMigrateLegacyFavorites_KeepsFileOnFailure(t *testing.T) {
	store, err := Open(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	store.Close()

	path := filepath.Join(t.TempDir(), models.LegacyFavoritesFile)
	if err := models.SaveLegacyFavorites(path, []models.FavoriteRhyme{models.NewFavorite("day", "way")}); err != nil {
		t.Fatalf("Failed to write legacy file: %v", err)
	}

	if _, err := store.MigrateLegacyFavorites(context.Background(), path); err == nil {
		t.Fatal("Expected migration into a closed store to fail")
	}

	if _, err := os.Stat(path); err != nil {
		t.Errorf("Expected legacy file to survive a failed migration: %v", err)
	}
}

func TestMigrateLegacyFavorites_Corrupt(t *testing.T) {
	store := newTestStore(t)
	path := filepath.Join(t.TempDir(), models.LegacyFavoritesFile)
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("Failed to write legacy file: %v", err)
	}

	if _, err := store.MigrateLegacyFavorites(context.Background(), path); err == nil {
		t.Error("Expected error for corrupt legacy file")
	}
	if _, err := os.Stat(path); err != nil {
		t.Error("Expected corrupt legacy file to be left in place")
	}
}
