package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/csams/rhymer/internal/composer"
	"github.com/csams/rhymer/internal/markdown"
	"github.com/csams/rhymer/internal/models"
	"github.com/csams/rhymer/internal/search"
	"github.com/csams/rhymer/internal/storage"
	"github.com/csams/rhymer/internal/ui"
)

func newComposeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "compose",
		Aliases: []string{"c"},
		Short:   "Write and manage compositions",
	}

	cmd.AddCommand(
		newComposeNewCmd(a),
		newComposeListCmd(a),
		newComposeShowCmd(a),
		newComposeEditCmd(a),
		newComposeStyleCmd(a, "heading", "Toggle the first-line heading", nil),
		newComposeStyleCmd(a, "bold", "Toggle bold over a rune range", (*composer.Session).ToggleBold),
		newComposeStyleCmd(a, "italic", "Toggle italic over a rune range", (*composer.Session).ToggleItalic),
		newComposeExportCmd(a),
		newComposeImportCmd(a),
		newComposePreviewCmd(a),
		newComposeMoveCmd(a),
		newComposeChordCmd(a),
		newComposeDeleteCmd(a),
	)
	return cmd
}

// findComposition resolves a full ID or a unique ID prefix
func (a *app) findComposition(ctx context.Context, id string) (*models.Composition, error) {
	store, err := a.openStore()
	if err != nil {
		return nil, err
	}

	c, err := store.Composition(ctx, id)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	matches, err := store.Compositions(ctx, func(c *models.Composition) bool {
		return strings.HasPrefix(c.ID, id)
	})
	if err != nil {
		return nil, err
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("composition %q: %w", id, storage.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("composition prefix %q is ambiguous (%d matches)", id, len(matches))
	}
}

func (a *app) saveComposition(ctx context.Context, c *models.Composition) error {
	if _, err := a.openStore(); err != nil {
		return err
	}
	return a.saver.Save(ctx, c)
}

// titleFor uses the first line of the document when no title is given
func titleFor(title string, doc markdown.Document) string {
	if title != "" {
		return title
	}
	if line := strings.TrimSpace(doc.Slice(0, doc.FirstLineEnd())); line != "" {
		return line
	}
	return "Untitled"
}

func newComposeNewCmd(a *app) *cobra.Command {
	var title, content, collection string

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a composition",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			markup, err := readInput(cmd.InOrStdin(), content)
			if err != nil {
				return err
			}

			session := composer.NewSession(a.converter, markup)
			c := models.NewComposition(titleFor(title, session.Document()), session.Markup(), collection)
			if err := a.saveComposition(cmd.Context(), c); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), c.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "title (default: first line)")
	cmd.Flags().StringVarP(&content, "content", "c", "", `markup, or "-" to read stdin`)
	cmd.Flags().StringVar(&collection, "collection", "", "collection ID")
	return cmd
}

func newComposeListCmd(a *app) *cobra.Command {
	var collection, query, threshold string
	var unfiled bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List compositions, most recently updated first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}

			var match func(*models.Composition) bool
			if collection != "" || unfiled {
				match = storage.InCollection(collection)
			}
			comps, err := store.Compositions(cmd.Context(), match)
			if err != nil {
				return err
			}

			if query != "" {
				minScore, err := search.ParseThreshold(threshold)
				if err != nil {
					return err
				}
				m := search.NewMatcher(query)
				m.SetMinScore(minScore)
				scored := m.Compositions(a.converter, comps)
				comps = make([]*models.Composition, 0, len(scored))
				for _, r := range scored {
					comps = append(comps, r.Composition)
				}
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, c := range comps {
				fmt.Fprintf(w, "%s\t%s\t%s\n", shortID(c.ID), c.Title, c.UpdatedAt.Format("2006-01-02 15:04"))
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&collection, "collection", "", "only compositions in this collection")
	cmd.Flags().BoolVar(&unfiled, "unfiled", false, "only compositions outside any collection")
	cmd.Flags().StringVarP(&query, "query", "q", "", "fuzzy filter on title and text")
	cmd.Flags().StringVar(&threshold, "threshold", "normal", "match threshold: strict, normal, permissive or none")
	return cmd
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func newComposeShowCmd(a *app) *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print a composition's markup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.findComposition(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if plain {
				fmt.Fprintln(cmd.OutOrStdout(), c.Document(a.converter).Content())
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), c.Content)
			return nil
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "print text without markup")
	return cmd
}

func newComposeEditCmd(a *app) *cobra.Command {
	var set, appendText string

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Replace or append to a composition",
		Long: `Replaces the markup with --set, or types --append at the end of the
text. Appended text takes the style active at the end: it joins the heading
when the composition is a single heading line.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if set == "" && appendText == "" {
				return errors.New("nothing to do: pass --set or --append")
			}

			c, err := a.findComposition(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			session := composer.NewSession(a.converter, c.Content)
			if set != "" {
				markup, err := readInput(cmd.InOrStdin(), set)
				if err != nil {
					return err
				}
				session.Load(markup)
			}
			if appendText != "" {
				session.SetCaret(session.Document().Len())
				session.Type(strings.ReplaceAll(appendText, `\n`, "\n"))
			}

			if !c.SetDocument(a.converter, session.Document()) {
				fmt.Fprintln(cmd.OutOrStdout(), "No changes")
				return nil
			}
			return a.saveComposition(cmd.Context(), c)
		},
	}

	cmd.Flags().StringVar(&set, "set", "", `new markup, or "-" to read stdin`)
	cmd.Flags().StringVar(&appendText, "append", "", `text to type at the end ("\n" starts a new line)`)
	return cmd
}

// newComposeStyleCmd builds heading/bold/italic. A nil toggle means the
// heading, which needs no range.
func newComposeStyleCmd(a *app, name, short string, toggle func(*composer.Session) bool) *cobra.Command {
	var start, end int

	cmd := &cobra.Command{
		Use:   name + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.findComposition(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			session := composer.NewSession(a.converter, c.Content)
			if toggle == nil {
				session.ToggleHeading()
			} else {
				if end < 0 {
					end = session.Document().Len()
				}
				session.Select(start, end)
				if !toggle(session) {
					return fmt.Errorf("cannot apply %s to %d..%d: asterisks in the text would not survive saving", name, start, end)
				}
			}

			if c.SetDocument(a.converter, session.Document()) {
				if err := a.saveComposition(cmd.Context(), c); err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), c.Content)
			return nil
		},
	}

	if toggle != nil {
		cmd.Flags().IntVar(&start, "start", 0, "first rune of the range")
		cmd.Flags().IntVar(&end, "end", -1, "rune after the range (default: end of text)")
	}
	return cmd
}

func newComposeExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export <id> [file]",
		Short: "Write a composition's markup to a file or stdout",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.findComposition(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if len(args) == 1 {
				fmt.Fprintln(cmd.OutOrStdout(), c.Content)
				return nil
			}
			return os.WriteFile(args[1], []byte(c.Content+"\n"), 0644)
		},
	}
}

func newComposeImportCmd(a *app) *cobra.Command {
	var title, collection string

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Create a composition from a markup file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			markup, err := readFile(args[0])
			if err != nil {
				return err
			}

			session := composer.NewSession(a.converter, strings.TrimSuffix(markup, "\n"))
			c := models.NewComposition(titleFor(title, session.Document()), session.Markup(), collection)
			if err := a.saveComposition(cmd.Context(), c); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), c.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "title (default: first line)")
	cmd.Flags().StringVar(&collection, "collection", "", "collection ID")
	return cmd
}

func newComposePreviewCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "preview <id>",
		Short: "Show a composition with its styling in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.findComposition(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return ui.Run(ui.NewPreview(c.Title, c.Document(a.converter)))
		},
	}
}

func newComposeMoveCmd(a *app) *cobra.Command {
	var collection string

	cmd := &cobra.Command{
		Use:   "move <id>",
		Short: "File a composition under a collection",
		Long:  `Moves a composition into --collection, or out of any collection when it is empty.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.findComposition(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if collection != "" {
				if _, err := a.store.Collection(cmd.Context(), collection); err != nil {
					return fmt.Errorf("collection %q: %w", collection, err)
				}
			}
			c.CollectionID = collection
			return a.saveComposition(cmd.Context(), c)
		},
	}

	cmd.Flags().StringVar(&collection, "collection", "", "target collection ID (empty to unfile)")
	return cmd
}

func newComposeChordCmd(a *app) *cobra.Command {
	var at int
	var chord string
	var clearAll bool

	cmd := &cobra.Command{
		Use:   "chord <id>",
		Short: "Place a chord above a rune position, or list chords",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.findComposition(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			switch {
			case clearAll:
				c.Chords = nil
			case chord != "":
				pos := c.Document(a.converter).Clamp(at)
				c.Chords = append(c.Chords, models.ChordPlacement{Position: pos, Chord: chord})
			default:
				for _, ch := range c.Chords {
					fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", ch.Position, ch.Chord)
				}
				return nil
			}
			return a.saveComposition(cmd.Context(), c)
		},
	}

	cmd.Flags().IntVar(&at, "at", 0, "rune position")
	cmd.Flags().StringVar(&chord, "chord", "", "chord name to place")
	cmd.Flags().BoolVar(&clearAll, "clear", false, "remove all chords")
	return cmd
}

func newComposeDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a composition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.findComposition(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.store.DeleteComposition(cmd.Context(), c.ID)
		},
	}
}
