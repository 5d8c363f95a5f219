package main

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/csams/rhymer/internal/composer"
	"github.com/csams/rhymer/internal/models"
	"github.com/csams/rhymer/internal/storage"
)

func newCollectionsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "collections",
		Aliases: []string{"col"},
		Short:   "Group compositions into ordered collections",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List collections in order",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				store, err := a.openStore()
				if err != nil {
					return err
				}
				cols, err := store.Collections(cmd.Context(), nil)
				if err != nil {
					return err
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				for i, c := range cols {
					comps, err := store.Compositions(cmd.Context(), storage.InCollection(c.ID))
					if err != nil {
						return err
					}
					fmt.Fprintf(w, "%d\t%s\t%s\t%d\n", i, shortID(c.ID), c.Name, len(comps))
				}
				return w.Flush()
			},
		},
		&cobra.Command{
			Use:   "new <name>",
			Short: "Create a collection at the end of the list",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				store, err := a.openStore()
				if err != nil {
					return err
				}
				order, err := store.NextSortOrder(cmd.Context())
				if err != nil {
					return err
				}
				c := models.NewCollection(args[0], order)
				if err := store.SaveCollection(cmd.Context(), c); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), c.ID)
				return nil
			},
		},
		&cobra.Command{
			Use:   "rename <id> <name>",
			Short: "Rename a collection",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				store, err := a.openStore()
				if err != nil {
					return err
				}
				c, err := store.Collection(cmd.Context(), args[0])
				if err != nil {
					return fmt.Errorf("collection %q: %w", args[0], err)
				}
				c.Name = args[1]
				return store.SaveCollection(cmd.Context(), c)
			},
		},
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Delete a collection and every composition in it",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				store, err := a.openStore()
				if err != nil {
					return err
				}
				return store.DeleteCollection(cmd.Context(), args[0])
			},
		},
		newCollectionsMoveCmd(a),
	)
	return cmd
}

func newCollectionsMoveCmd(a *app) *cobra.Command {
	var from string
	var to int

	cmd := &cobra.Command{
		Use:   "move",
		Short: "Reorder collections",
		Long: `Moves the collections at the --from positions (as shown by "list") so
they land before the collection currently at --to. A --to past the end moves
them to the end.`,
		Example: "  rhymer collections move --from 0,2 --to 4",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			offsets, err := parseOffsets(from)
			if err != nil {
				return err
			}

			store, err := a.openStore()
			if err != nil {
				return err
			}
			cols, err := store.Collections(cmd.Context(), nil)
			if err != nil {
				return err
			}

			cols = composer.ApplyMove(cols, offsets, to, func(c *models.CompositionCollection, order int) {
				c.SortOrder = order
			})
			for _, c := range cols {
				if err := store.SaveCollection(cmd.Context(), c); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "comma-separated positions to move")
	cmd.Flags().IntVar(&to, "to", 0, "destination position")
	_ = cmd.MarkFlagRequired("from")
	return cmd
}

func parseOffsets(s string) ([]int, error) {
	var offsets []int
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		n, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("invalid position %q", field)
		}
		offsets = append(offsets, n)
	}
	return offsets, nil
}
