package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/csams/rhymer/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestOpen_InMemory(t *testing.T) {
	store, err := Open("", nil)
	if err != nil {
		t.Fatalf("Failed to open in-memory store: %v", err)
	}
	defer store.Close()

	if store.Path() != "" {
		t.Errorf("Expected empty path for in-memory store, got %q", store.Path())
	}

	if err := store.AddFavorite(context.Background(), models.NewFavorite("day", "way")); err != nil {
		t.Fatalf("Expected in-memory store to accept writes: %v", err)
	}
}

func TestStore_CompositionRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	c := models.NewComposition("Open Road", "# Open Road\n*wind* in my **hair**", "")
	c.CreatedAt = c.CreatedAt.Truncate(time.Second)
	c.UpdatedAt = c.CreatedAt
	c.Chords = []models.ChordPlacement{{Position: 0, Chord: "G"}, {Position: 10, Chord: "Em"}}

	if err := store.SaveComposition(ctx, c); err != nil {
		t.Fatalf("Failed to save composition: %v", err)
	}

	got, err := store.Composition(ctx, c.ID)
	if err != nil {
		t.Fatalf("Failed to load composition: %v", err)
	}

	if got.Content != c.Content {
		t.Errorf("Expected content %q, got %q", c.Content, got.Content)
	}
	if !got.CreatedAt.Equal(c.CreatedAt) || !got.UpdatedAt.Equal(c.UpdatedAt) {
		t.Errorf("Expected timestamps %v/%v, got %v/%v", c.CreatedAt, c.UpdatedAt, got.CreatedAt, got.UpdatedAt)
	}
	if diff := cmp.Diff(c.Chords, got.Chords); diff != "" {
		t.Errorf("Chords mismatch (-want +got):\n%s", diff)
	}

	// Update in place
	c.Content = "# Open Road\nsecond draft"
	c.UpdatedAt = c.UpdatedAt.Add(time.Minute)
	c.Chords = nil
	if err := store.SaveComposition(ctx, c); err != nil {
		t.Fatalf("Failed to update composition: %v", err)
	}

	got, err = store.Composition(ctx, c.ID)
	if err != nil {
		t.Fatalf("Failed to reload composition: %v", err)
	}
	if got.Content != "# Open Road\nsecond draft" {
		t.Errorf("Expected updated content, got %q", got.Content)
	}
	if got.Chords != nil {
		t.Errorf("Expected no chords after clearing, got %v", got.Chords)
	}

	all, err := store.Compositions(ctx, nil)
	if err != nil {
		t.Fatalf("Failed to list compositions: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("Expected 1 composition after update, got %d", len(all))
	}
}

func TestStore_CompositionNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Composition(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	if err := store.DeleteComposition(context.Background(), "missing"); err != nil {
		t.Errorf("Expected deleting a missing composition to succeed, got %v", err)
	}
}

func TestStore_CompositionsQuery(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	base := time.Now().Truncate(time.Second)
	collection := models.NewCollection("Album", 0)
	if err := store.SaveCollection(ctx, collection); err != nil {
		t.Fatalf("Failed to save collection: %v", err)
	}

	older := models.NewComposition("Older", "a", collection.ID)
	older.UpdatedAt = base
	newer := models.NewComposition("Newer", "b", collection.ID)
	newer.UpdatedAt = base.Add(time.Hour)
	loose := models.NewComposition("Loose", "c", "")
	loose.UpdatedAt = base.Add(30 * time.Minute)

	for _, c := range []*models.Composition{older, newer, loose} {
		if err := store.SaveComposition(ctx, c); err != nil {
			t.Fatalf("Failed to save %s: %v", c.Title, err)
		}
	}

	all, err := store.Compositions(ctx, nil)
	if err != nil {
		t.Fatalf("Failed to list compositions: %v", err)
	}
	var titles []string
	for _, c := range all {
		titles = append(titles, c.Title)
	}
	if diff := cmp.Diff([]string{"Newer", "Loose", "Older"}, titles); diff != "" {
		t.Errorf("Order mismatch (-want +got):\n%s", diff)
	}

	inAlbum, err := store.Compositions(ctx, InCollection(collection.ID))
	if err != nil {
		t.Fatalf("Failed to query collection: %v", err)
	}
	if len(inAlbum) != 2 {
		t.Errorf("Expected 2 compositions in collection, got %d", len(inAlbum))
	}

	unfiled, err := store.Compositions(ctx, InCollection(""))
	if err != nil {
		t.Fatalf("Failed to query unfiled: %v", err)
	}
	if len(unfiled) != 1 || unfiled[0].ID != loose.ID {
		t.Errorf("Expected only the loose composition, got %v", unfiled)
	}
}

func TestStore_DeleteCollectionCascades(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	keep := models.NewCollection("Keep", 0)
	drop := models.NewCollection("Drop", 1)
	for _, c := range []*models.CompositionCollection{keep, drop} {
		if err := store.SaveCollection(ctx, c); err != nil {
			t.Fatalf("Failed to save collection: %v", err)
		}
	}

	kept := models.NewComposition("Kept", "x", keep.ID)
	gone1 := models.NewComposition("Gone 1", "y", drop.ID)
	gone2 := models.NewComposition("Gone 2", "z", drop.ID)
	for _, c := range []*models.Composition{kept, gone1, gone2} {
		if err := store.SaveComposition(ctx, c); err != nil {
			t.Fatalf("Failed to save composition: %v", err)
		}
	}

	if err := store.DeleteCollection(ctx, drop.ID); err != nil {
		t.Fatalf("Failed to delete collection: %v", err)
	}

	if _, err := store.Collection(ctx, drop.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected deleted collection to be gone, got %v", err)
	}

	remaining, err := store.Compositions(ctx, nil)
	if err != nil {
		t.Fatalf("Failed to list compositions: %v", err)
	}
	if len(remaining) != 1 || remaining[0].ID != kept.ID {
		t.Errorf("Expected only %q to remain, got %d compositions", kept.Title, len(remaining))
	}
}

func TestStore_CollectionsSorted(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	next, err := store.NextSortOrder(ctx)
	if err != nil {
		t.Fatalf("Failed to get sort order: %v", err)
	}
	if next != 0 {
		t.Errorf("Expected first sort order 0, got %d", next)
	}

	for i, name := range []string{"C", "A", "B"} {
		if err := store.SaveCollection(ctx, models.NewCollection(name, 2-i)); err != nil {
			t.Fatalf("Failed to save collection: %v", err)
		}
	}

	collections, err := store.Collections(ctx, nil)
	if err != nil {
		t.Fatalf("Failed to list collections: %v", err)
	}
	var names []string
	for _, c := range collections {
		names = append(names, c.Name)
	}
	if diff := cmp.Diff([]string{"B", "A", "C"}, names); diff != "" {
		t.Errorf("Collection order mismatch (-want +got):\n%s", diff)
	}

	next, err = store.NextSortOrder(ctx)
	if err != nil {
		t.Fatalf("Failed to get sort order: %v", err)
	}
	if next != 3 {
		t.Errorf("Expected next sort order 3, got %d", next)
	}
}

func TestStore_Favorites(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	if err := store.AddFavorite(ctx, models.FavoriteRhyme{Word: "  Day!", Rhyme: "way"}); err != nil {
		t.Fatalf("Failed to add favorite: %v", err)
	}
	// Duplicate after normalization
	if err := store.AddFavorite(ctx, models.NewFavorite("day", "way")); err != nil {
		t.Fatalf("Expected duplicate add to be a no-op, got %v", err)
	}
	if err := store.AddFavorite(ctx, models.NewFavorite("day", "play")); err != nil {
		t.Fatalf("Failed to add favorite: %v", err)
	}
	if err := store.AddFavorite(ctx, models.NewFavorite("night", "light")); err != nil {
		t.Fatalf("Failed to add favorite: %v", err)
	}

	var pErr *PersistenceError
	if err := store.AddFavorite(ctx, models.NewFavorite("day", "  ")); !errors.As(err, &pErr) {
		t.Errorf("Expected PersistenceError for empty rhyme, got %v", err)
	}

	all, err := store.Favorites(ctx, nil)
	if err != nil {
		t.Fatalf("Failed to list favorites: %v", err)
	}
	want := []models.FavoriteRhyme{{Word: "day", Rhyme: "way"}, {Word: "day", Rhyme: "play"}, {Word: "night", Rhyme: "light"}}
	if diff := cmp.Diff(want, all); diff != "" {
		t.Errorf("Favorites mismatch (-want +got):\n%s", diff)
	}

	forDay, err := store.Favorites(ctx, ForWord("DAY"))
	if err != nil {
		t.Fatalf("Failed to query favorites: %v", err)
	}
	if len(forDay) != 2 {
		t.Errorf("Expected 2 favorites for 'day', got %d", len(forDay))
	}

	on, err := store.ToggleFavorite(ctx, models.NewFavorite("day", "way"))
	if err != nil || on {
		t.Errorf("Expected toggle to remove favorite, got on=%v err=%v", on, err)
	}
	if ok, _ := store.IsFavorite(ctx, models.NewFavorite("day", "way")); ok {
		t.Error("Expected favorite to be removed")
	}

	on, err = store.ToggleFavorite(ctx, models.NewFavorite("day", "way"))
	if err != nil || !on {
		t.Errorf("Expected toggle to add favorite back, got on=%v err=%v", on, err)
	}
}

func TestStore_PersistenceErrorAfterClose(t *testing.T) {
	store, err := Open(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	store.Close()

	err = store.SaveComposition(context.Background(), models.NewComposition("t", "c", ""))
	var pErr *PersistenceError
	if !errors.As(err, &pErr) {
		t.Fatalf("Expected PersistenceError, got %v", err)
	}
	if pErr.Op != "save composition" {
		t.Errorf("Expected op 'save composition', got %q", pErr.Op)
	}
	if pErr.Unwrap() == nil {
		t.Error("Expected wrapped cause")
	}
}

func TestStore_ReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store, err := Open(dir, nil)
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	c := models.NewComposition("Keep me", "**kept**", "")
	if err := store.SaveComposition(ctx, c); err != nil {
		t.Fatalf("Failed to save: %v", err)
	}
	store.Close()

	if _, err := os.Stat(filepath.Join(dir, DatabaseFile)); err != nil {
		t.Fatalf("Expected database file to exist: %v", err)
	}

	store, err = Open(dir, nil)
	if err != nil {
		t.Fatalf("Failed to reopen store: %v", err)
	}
	defer store.Close()

	got, err := store.Composition(ctx, c.ID)
	if err != nil {
		t.Fatalf("Failed to load after reopen: %v", err)
	}
	if got.Content != "**kept**" {
		t.Errorf("Expected content to survive reopen, got %q", got.Content)
	}
}
