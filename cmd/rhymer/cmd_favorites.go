package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/csams/rhymer/internal/models"
	"github.com/csams/rhymer/internal/search"
	"github.com/csams/rhymer/internal/storage"
	"github.com/csams/rhymer/internal/ui"
)

func newFavoritesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "favorites",
		Aliases: []string{"fav"},
		Short:   "Keep the rhymes worth remembering",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <word> <rhyme>",
			Short: "Star a rhyme for a word",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				store, err := a.openStore()
				if err != nil {
					return err
				}
				return store.AddFavorite(cmd.Context(), models.NewFavorite(args[0], args[1]))
			},
		},
		&cobra.Command{
			Use:   "remove <word> <rhyme>",
			Short: "Unstar a rhyme",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				store, err := a.openStore()
				if err != nil {
					return err
				}
				return store.RemoveFavorite(cmd.Context(), models.NewFavorite(args[0], args[1]))
			},
		},
		&cobra.Command{
			Use:   "toggle <word> <rhyme>",
			Short: "Star a rhyme, or unstar it if already starred",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				store, err := a.openStore()
				if err != nil {
					return err
				}
				on, err := store.ToggleFavorite(cmd.Context(), models.NewFavorite(args[0], args[1]))
				if err != nil {
					return err
				}
				if on {
					fmt.Fprintln(cmd.OutOrStdout(), "Added")
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), "Removed")
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "list [word]",
			Short: "List favorites grouped by word",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				store, err := a.openStore()
				if err != nil {
					return err
				}
				var match func(models.FavoriteRhyme) bool
				if len(args) == 1 {
					match = storage.ForWord(args[0])
				}
				favs, err := store.Favorites(cmd.Context(), match)
				if err != nil {
					return err
				}

				words, grouped := models.GroupFavorites(favs)
				for _, w := range words {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", w, strings.Join(grouped[w], ", "))
				}
				return nil
			},
		},
		newFavoritesSearchCmd(a),
		newFavoritesMigrateCmd(a),
	)
	return cmd
}

func newFavoritesSearchCmd(a *app) *cobra.Command {
	var threshold string

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Fuzzy search favorites, interactively without a query",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			minScore, err := search.ParseThreshold(threshold)
			if err != nil {
				return err
			}

			store, err := a.openStore()
			if err != nil {
				return err
			}
			favs, err := store.Favorites(cmd.Context(), nil)
			if err != nil {
				return err
			}

			if len(args) == 0 {
				view := ui.NewFavoritesView(favs, minScore)
				if err := ui.Run(view); err != nil {
					return err
				}
				if f, ok := view.Selected(); ok && view.Query() != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", f.Word, f.Rhyme)
				}
				return nil
			}

			m := search.NewMatcher(args[0])
			m.SetMinScore(minScore)
			for _, r := range m.Favorites(favs) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", r.Favorite.Word, r.Favorite.Rhyme)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&threshold, "threshold", "normal", "match threshold: strict, normal, permissive or none")
	return cmd
}

func newFavoritesMigrateCmd(a *app) *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Import favorites from the legacy favorites.json file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if path == "" {
				path = models.LegacyFavoritesPath(a.configDir)
			}

			store, err := a.openStore()
			if err != nil {
				return err
			}
			n, err := store.MigrateLegacyFavorites(cmd.Context(), path)
			if err != nil {
				return err
			}
			a.logger.Info("Migrated legacy favorites", zap.String("path", path), zap.Int("added", n))
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d favorites\n", n)
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "path", "", "legacy file (default: favorites.json in the config dir)")
	return cmd
}
