package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/csams/rhymer/internal/lookup"
)

func newRhymesCmd(a *app) *cobra.Command {
	var suggestions bool

	cmd := &cobra.Command{
		Use:   "rhymes <word or phrase>",
		Short: "Find rhymes for a word or the ending of a phrase",
		Long: `Looks up rhymes with Datamuse. Short word lists are topped up with
generated rhymes, and phrases get generated lyric endings when available.
Generated entries are marked with "+".`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			out := cmd.OutOrStdout()

			if suggestions {
				words, err := a.datamuse().Suggestions(cmd.Context(), text)
				if err != nil {
					return err
				}
				for _, w := range words {
					fmt.Fprintln(out, w.Word)
				}
				return nil
			}

			results, err := a.lyricService(cmd.Context()).Suggestions(cmd.Context(), text)
			if errors.Is(err, lookup.ErrNoResults) {
				fmt.Fprintf(out, "No rhymes found for %q\n", text)
				return nil
			}
			if err != nil {
				return err
			}

			for _, r := range results {
				marker := " "
				if r.AI {
					marker = "+"
				}
				fmt.Fprintf(out, "%s %s\n", marker, r.Text)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&suggestions, "complete", false, "suggest spellings for a partial word instead")
	return cmd
}

func newDefineCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "define <word>",
		Short: "Show Wiktionary definitions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			defs, err := a.wiktionary().Definitions(cmd.Context(), args[0])
			if errors.Is(err, lookup.ErrNoResults) {
				fmt.Fprintf(out, "No definitions found for %q\n", args[0])
				return nil
			}
			if err != nil {
				return err
			}

			pos := ""
			for i, d := range defs {
				if d.PartOfSpeech != pos {
					pos = d.PartOfSpeech
					fmt.Fprintf(out, "%s\n", pos)
				}
				text := a.converter.Serialize(a.converter.FromHTML(d.Text))
				fmt.Fprintf(out, "%3d. %s\n", i+1, text)
				for _, ex := range d.Examples {
					fmt.Fprintf(out, "     %s\n", a.converter.Serialize(a.converter.FromHTML(ex)))
				}
			}
			return nil
		},
	}
}

func newLinesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "lines <lyric line>",
		Short: "Suggest lines that could follow a lyric line",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			service := a.lyricService(cmd.Context())
			if !service.AIEnabled() {
				return fmt.Errorf("line suggestions need generated suggestions enabled and $%s set", a.settings.AI.APIKeyEnv)
			}

			lines, err := service.SuggestedLines(cmd.Context(), strings.Join(args, " "))
			if errors.Is(err, lookup.ErrNoResults) {
				fmt.Fprintln(out, "No suggestions")
				return nil
			}
			if err != nil {
				return err
			}
			for _, l := range lines {
				fmt.Fprintln(out, l)
			}
			return nil
		},
	}
}
