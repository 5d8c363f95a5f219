package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/csams/rhymer/internal/models"
)

// DatabaseFile is the store's file name inside the data directory
const DatabaseFile = "rhymer.db"

// ErrNotFound is returned when a record with the requested ID does not exist
var ErrNotFound = errors.New("record not found")

// PersistenceError reports a failed store operation. In-memory edits are
// never discarded because of one; callers log it and retry on the next save.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &PersistenceError{Op: op, Err: err}
}

// Store keeps compositions, collections and favorite rhymes in SQLite
type Store struct {
	db     *sql.DB
	path   string
	logger *zap.Logger
}

// Open creates or opens the store in dataDir. An empty dataDir opens a
// private in-memory database.
func Open(dataDir string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	dsn := ":memory:"
	path := ""
	if dataDir != "" {
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
		path = filepath.Join(dataDir, DatabaseFile)
		dsn = path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps ":memory:" databases shared and serializes
	// writers on the file database.
	db.SetMaxOpenConns(1)

	store := &Store{db: db, path: path, logger: logger}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path, empty for in-memory stores
func (s *Store) Path() string {
	return s.path
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS collections (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		sort_order INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS compositions (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		content TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		chords_json BLOB,
		collection_id TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_compositions_collection ON compositions(collection_id);

	CREATE TABLE IF NOT EXISTS favorites (
		word TEXT NOT NULL,
		rhyme TEXT NOT NULL,
		PRIMARY KEY (word, rhyme)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// SaveComposition inserts or updates a composition
func (s *Store) SaveComposition(ctx context.Context, c *models.Composition) error {
	chords, err := c.EncodeChords()
	if err != nil {
		return wrap("encode chords", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO compositions (id, title, content, created_at, updated_at, chords_json, collection_id)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			content = excluded.content,
			updated_at = excluded.updated_at,
			chords_json = excluded.chords_json,
			collection_id = excluded.collection_id`,
		c.ID, c.Title, c.Content, c.CreatedAt.UTC(), c.UpdatedAt.UTC(), chords, nullString(c.CollectionID))
	if err != nil {
		return wrap("save composition", err)
	}

	s.logger.Debug("Saved composition", zap.String("id", c.ID), zap.Int("bytes", len(c.Content)))
	return nil
}

// Composition returns one composition by ID
func (s *Store) Composition(ctx context.Context, id string) (*models.Composition, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, content, created_at, updated_at, chords_json, collection_id
		FROM compositions WHERE id = ?`, id)

	c, err := scanComposition(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, wrap("load composition", err)
	}
	return c, nil
}

// DeleteComposition removes a composition. Deleting a missing one is not an
// error.
func (s *Store) DeleteComposition(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM compositions WHERE id = ?`, id)
	return wrap("delete composition", err)
}

// Compositions returns every composition accepted by match, most recently
// updated first. A nil match accepts all.
func (s *Store) Compositions(ctx context.Context, match func(*models.Composition) bool) ([]*models.Composition, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, content, created_at, updated_at, chords_json, collection_id
		FROM compositions ORDER BY updated_at DESC, title`)
	if err != nil {
		return nil, wrap("query compositions", err)
	}
	defer rows.Close()

	var result []*models.Composition
	for rows.Next() {
		c, err := scanComposition(rows)
		if err != nil {
			return nil, wrap("scan composition", err)
		}
		if match == nil || match(c) {
			result = append(result, c)
		}
	}
	return result, wrap("query compositions", rows.Err())
}

// InCollection matches compositions filed under collectionID. An empty ID
// matches compositions outside any collection.
func InCollection(collectionID string) func(*models.Composition) bool {
	return func(c *models.Composition) bool {
		return c.CollectionID == collectionID
	}
}

// SaveCollection inserts or updates a collection
func (s *Store) SaveCollection(ctx context.Context, c *models.CompositionCollection) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO collections (id, name, sort_order) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, sort_order = excluded.sort_order`,
		c.ID, c.Name, c.SortOrder)
	return wrap("save collection", err)
}

// Collection returns one collection by ID
func (s *Store) Collection(ctx context.Context, id string) (*models.CompositionCollection, error) {
	var c models.CompositionCollection
	err := s.db.QueryRowContext(ctx, `SELECT id, name, sort_order FROM collections WHERE id = ?`, id).
		Scan(&c.ID, &c.Name, &c.SortOrder)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, wrap("load collection", err)
	}
	return &c, nil
}

// Collections returns every collection accepted by match in sort order
func (s *Store) Collections(ctx context.Context, match func(*models.CompositionCollection) bool) ([]*models.CompositionCollection, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, sort_order FROM collections ORDER BY sort_order, name`)
	if err != nil {
		return nil, wrap("query collections", err)
	}
	defer rows.Close()

	var result []*models.CompositionCollection
	for rows.Next() {
		var c models.CompositionCollection
		if err := rows.Scan(&c.ID, &c.Name, &c.SortOrder); err != nil {
			return nil, wrap("scan collection", err)
		}
		if match == nil || match(&c) {
			result = append(result, &c)
		}
	}
	return result, wrap("query collections", rows.Err())
}

// NextSortOrder returns one past the highest collection sort order
func (s *Store) NextSortOrder(ctx context.Context) (int, error) {
	var maxOrder sql.NullInt64
	if err := s.db.QueryRowContext(ctx, `SELECT MAX(sort_order) FROM collections`).Scan(&maxOrder); err != nil {
		return 0, wrap("query sort order", err)
	}
	if !maxOrder.Valid {
		return 0, nil
	}
	return int(maxOrder.Int64) + 1, nil
}

// DeleteCollection removes a collection and every composition in it
func (s *Store) DeleteCollection(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return wrap("delete collection", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM compositions WHERE collection_id = ?`, id)
	if err != nil {
		return wrap("delete collection", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM collections WHERE id = ?`, id); err != nil {
		return wrap("delete collection", err)
	}
	if err := tx.Commit(); err != nil {
		return wrap("delete collection", err)
	}

	n, _ := res.RowsAffected()
	s.logger.Info("Deleted collection", zap.String("id", id), zap.Int64("compositions", n))
	return nil
}

// AddFavorite stores a favorite. Adding one that exists is a no-op.
func (s *Store) AddFavorite(ctx context.Context, f models.FavoriteRhyme) error {
	f = models.NewFavorite(f.Word, f.Rhyme)
	if f.Word == "" || f.Rhyme == "" {
		return wrap("add favorite", errors.New("word and rhyme are required"))
	}
	_, err := s.db.ExecContext(ctx, `INSERT OR IGNORE INTO favorites (word, rhyme) VALUES (?, ?)`, f.Word, f.Rhyme)
	return wrap("add favorite", err)
}

// RemoveFavorite deletes a favorite if present
func (s *Store) RemoveFavorite(ctx context.Context, f models.FavoriteRhyme) error {
	f = models.NewFavorite(f.Word, f.Rhyme)
	_, err := s.db.ExecContext(ctx, `DELETE FROM favorites WHERE word = ? AND rhyme = ?`, f.Word, f.Rhyme)
	return wrap("remove favorite", err)
}

// ToggleFavorite adds the favorite when absent and removes it otherwise.
// Returns whether it is a favorite afterwards.
func (s *Store) ToggleFavorite(ctx context.Context, f models.FavoriteRhyme) (bool, error) {
	on, err := s.IsFavorite(ctx, f)
	if err != nil {
		return false, err
	}
	if on {
		return false, s.RemoveFavorite(ctx, f)
	}
	return true, s.AddFavorite(ctx, f)
}

// IsFavorite reports whether the pair is stored
func (s *Store) IsFavorite(ctx context.Context, f models.FavoriteRhyme) (bool, error) {
	f = models.NewFavorite(f.Word, f.Rhyme)
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM favorites WHERE word = ? AND rhyme = ?`, f.Word, f.Rhyme).Scan(&n)
	if err != nil {
		return false, wrap("query favorite", err)
	}
	return n > 0, nil
}

// Favorites returns every favorite accepted by match, ordered by word
func (s *Store) Favorites(ctx context.Context, match func(models.FavoriteRhyme) bool) ([]models.FavoriteRhyme, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT word, rhyme FROM favorites ORDER BY word, rowid`)
	if err != nil {
		return nil, wrap("query favorites", err)
	}
	defer rows.Close()

	var result []models.FavoriteRhyme
	for rows.Next() {
		var f models.FavoriteRhyme
		if err := rows.Scan(&f.Word, &f.Rhyme); err != nil {
			return nil, wrap("scan favorite", err)
		}
		if match == nil || match(f) {
			result = append(result, f)
		}
	}
	return result, wrap("query favorites", rows.Err())
}

// ForWord matches favorites saved for word after normalization
func ForWord(word string) func(models.FavoriteRhyme) bool {
	word = models.Normalize(word)
	return func(f models.FavoriteRhyme) bool {
		return f.Word == word
	}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanComposition(row scanner) (*models.Composition, error) {
	var c models.Composition
	var chords []byte
	var collectionID sql.NullString
	var created, updated time.Time

	if err := row.Scan(&c.ID, &c.Title, &c.Content, &created, &updated, &chords, &collectionID); err != nil {
		return nil, err
	}

	c.CreatedAt = created.Local()
	c.UpdatedAt = updated.Local()
	c.CollectionID = collectionID.String
	c.DecodeChords(chords)
	return &c, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
