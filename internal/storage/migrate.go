package storage

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/csams/rhymer/internal/models"
)

// MigrateLegacyFavorites copies favorites from the legacy JSON file into the
// store and removes the file once every favorite is saved. A missing file is
// not an error. Running it twice yields the same favorites.
func (s *Store) MigrateLegacyFavorites(ctx context.Context, path string) (int, error) {
	favorites, err := models.LoadLegacyFavorites(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read legacy favorites: %w", err)
	}
	if favorites == nil {
		if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
			return 0, nil
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, wrap("migrate favorites", err)
	}
	defer tx.Rollback()

	added := 0
	for _, f := range favorites {
		res, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO favorites (word, rhyme) VALUES (?, ?)`, f.Word, f.Rhyme)
		if err != nil {
			return 0, wrap("migrate favorites", err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			added++
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, wrap("migrate favorites", err)
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		s.logger.Warn("Failed to remove legacy favorites file", zap.String("path", path), zap.Error(err))
	}

	s.logger.Info("Migrated legacy favorites", zap.Int("read", len(favorites)), zap.Int("added", added))
	return added, nil
}
