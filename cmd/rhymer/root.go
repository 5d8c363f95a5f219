package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/csams/rhymer/internal/config"
	"github.com/csams/rhymer/internal/logging"
	"github.com/csams/rhymer/internal/lookup"
	"github.com/csams/rhymer/internal/markdown"
	"github.com/csams/rhymer/internal/storage"
	"github.com/csams/rhymer/internal/suggest"
)

// app is the state shared by every command of one invocation
type app struct {
	configDir string
	verbose   bool

	settings  *config.Settings
	logger    *zap.Logger
	converter *markdown.MarkdownConverter
	store     *storage.Store
	saver     *storage.Saver
}

// execute runs one invocation and always releases the store, flushing any
// composition saves still pending
func execute(args []string, in io.Reader, out, errOut io.Writer) error {
	a := &app{converter: markdown.NewMarkdownConverter()}
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	err := root.Execute()
	if cerr := a.close(context.Background()); cerr != nil {
		fmt.Fprintln(errOut, "Error:", cerr)
		if err == nil {
			err = cerr
		}
	}
	return err
}

func newRootCmd(a *app) *cobra.Command {

	root := &cobra.Command{
		Use:   "rhymer",
		Short: "Rhyming dictionary and lyric notebook",
		Long: `rhymer finds rhymes and definitions, suggests lyric lines and keeps
compositions written in a small markup: "# " on the first line makes it a
heading, **bold**, *italic* and ***both*** style the rest.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd.ErrOrStderr())
		},
	}

	root.PersistentFlags().StringVar(&a.configDir, "config-dir", "", "configuration directory (default: user config dir)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newRhymesCmd(a),
		newDefineCmd(a),
		newLinesCmd(a),
		newComposeCmd(a),
		newCollectionsCmd(a),
		newFavoritesCmd(a),
	)
	return root
}

func (a *app) init(stderr io.Writer) error {
	if a.configDir == "" {
		dir, err := config.Dir()
		if err != nil {
			return err
		}
		a.configDir = dir
	}

	settings, err := config.LoadSettings(a.configDir)
	if err != nil {
		return err
	}
	a.settings = settings

	level := settings.LogLevel
	if a.verbose {
		level = "debug"
	}
	a.logger, err = logging.New(level, stderr)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

func (a *app) close(ctx context.Context) error {
	var err error
	if a.saver != nil {
		if ferr := a.saver.Flush(ctx); ferr != nil {
			a.logger.Error("Unsaved compositions remain", zap.Strings("ids", a.saver.Pending()), zap.Error(ferr))
			err = ferr
		}
	}
	if a.store != nil {
		if cerr := a.store.Close(); cerr != nil && err == nil {
			err = cerr
		}
		a.store = nil
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	return err
}

// openStore opens the database on first use
func (a *app) openStore() (*storage.Store, error) {
	if a.store != nil {
		return a.store, nil
	}
	store, err := storage.Open(a.settings.DataDir, a.logger)
	if err != nil {
		return nil, err
	}
	a.store = store
	a.saver = storage.NewSaver(store, a.logger)
	return store, nil
}

func (a *app) datamuse() *lookup.DatamuseClient {
	return lookup.NewDatamuseClient(a.settings.DatamuseURL, a.settings.LookupTimeout, a.logger)
}

func (a *app) wiktionary() *lookup.WiktionaryClient {
	return lookup.NewWiktionaryClient(a.settings.WiktionaryURL, a.settings.LookupTimeout, a.logger)
}

// rhymer returns nil when generated suggestions are disabled or no API key
// is configured
func (a *app) rhymer(ctx context.Context) *suggest.Rhymer {
	if !a.settings.AI.Enabled {
		return nil
	}
	key := a.settings.APIKey()
	if key == "" {
		a.logger.Debug("No API key, generated suggestions disabled", zap.String("env", a.settings.AI.APIKeyEnv))
		return nil
	}

	gen, err := suggest.NewGenAIGenerator(ctx, key, a.settings.AI.Model)
	if err != nil {
		a.logger.Warn("Generated suggestions unavailable", zap.Error(err))
		return nil
	}

	r := suggest.NewRhymer(gen, a.logger)
	r.LinesTimeout = a.settings.LinesTimeout
	r.SupplementTimeout = a.settings.SupplementTimeout
	return r
}

func (a *app) lyricService(ctx context.Context) *suggest.LyricService {
	return suggest.NewLyricService(a.datamuse(), a.rhymer(ctx), a.logger)
}

// readInput returns value, or all of in when value is "-"
func readInput(in io.Reader, value string) (string, error) {
	if value != "-" {
		return value, nil
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSuffix(string(data), "\n"), nil
}

func readFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}
