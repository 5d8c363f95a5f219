package suggest

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/csams/rhymer/internal/lookup"
)

// minPrimaryResults is the count below which word rhymes are supplemented
const minPrimaryResults = 10

// LyricType classifies search input
type LyricType int

const (
	TypeNone LyricType = iota
	TypeWord
	TypePhrase
)

func (t LyricType) String() string {
	switch t {
	case TypeWord:
		return "word"
	case TypePhrase:
		return "phrase"
	default:
		return "none"
	}
}

// Classify treats blank input as none, a single token as a word and
// anything longer as a phrase
func Classify(text string) LyricType {
	switch len(strings.Fields(text)) {
	case 0:
		return TypeNone
	case 1:
		return TypeWord
	default:
		return TypePhrase
	}
}

// Suggestion is one rhyme or phrase shown to the user
type Suggestion struct {
	Text string
	AI   bool
}

// RhymeSource is the primary rhyme lookup
type RhymeSource interface {
	RhymeWords(ctx context.Context, word string) ([]string, error)
}

// LyricService combines the rhyme source with optional generated suggestions
type LyricService struct {
	source RhymeSource
	rhymer *Rhymer
	logger *zap.Logger
}

// NewLyricService creates a service. A nil rhymer disables generated
// suggestions.
func NewLyricService(source RhymeSource, rhymer *Rhymer, logger *zap.Logger) *LyricService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LyricService{source: source, rhymer: rhymer, logger: logger}
}

// AIEnabled reports whether generated suggestions are available
func (s *LyricService) AIEnabled() bool {
	return s.rhymer != nil
}

// Suggestions returns rhymes for text according to its classification.
// Fails with lookup.ErrNoResults when nothing usable was found.
func (s *LyricService) Suggestions(ctx context.Context, text string) ([]Suggestion, error) {
	text = strings.TrimSpace(text)
	switch Classify(text) {
	case TypeWord:
		return s.wordRhymes(ctx, text)
	case TypePhrase:
		return s.phraseRhymes(ctx, text)
	default:
		return nil, lookup.ErrNoResults
	}
}

// SuggestedLines proposes lines to follow line. Only available with
// generated suggestions enabled.
func (s *LyricService) SuggestedLines(ctx context.Context, line string) ([]string, error) {
	if s.rhymer == nil || strings.TrimSpace(line) == "" {
		return nil, lookup.ErrNoResults
	}
	lines, err := s.rhymer.LyricSuggestions(ctx, line)
	if err != nil {
		s.logger.Debug("No suggested lines", zap.String("line", line), zap.Error(err))
		return nil, lookup.ErrNoResults
	}
	return lines, nil
}

func (s *LyricService) wordRhymes(ctx context.Context, word string) ([]Suggestion, error) {
	words, err := s.source.RhymeWords(ctx, word)
	if err != nil {
		return nil, err
	}

	results := make([]Suggestion, 0, len(words))
	for _, w := range words {
		results = append(results, Suggestion{Text: w})
	}

	if len(results) < minPrimaryResults && s.rhymer != nil {
		extras, err := s.rhymer.Supplement(ctx, word, words)
		if err != nil {
			s.logger.Debug("Supplement unavailable", zap.String("word", word), zap.Error(err))
		}
		for _, e := range extras {
			results = append(results, Suggestion{Text: e, AI: true})
		}
	}

	if len(results) == 0 {
		return nil, lookup.ErrNoResults
	}
	return results, nil
}

// phraseRhymes rhymes on the last word. Generated lyric endings win when
// there are any, then generated matches for the phrase's last one or two
// words; otherwise the plain rhyme words are returned.
func (s *LyricService) phraseRhymes(ctx context.Context, phrase string) ([]Suggestion, error) {
	fields := strings.Fields(phrase)
	last := fields[len(fields)-1]

	var words, endings []string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if words, err = s.source.RhymeWords(gctx, last); err != nil {
			s.logger.Debug("Rhyme lookup failed for phrase", zap.String("word", last), zap.Error(err))
			words = nil
		}
		return nil
	})
	if s.rhymer != nil {
		g.Go(func() error {
			var err error
			if endings, err = s.rhymer.LyricEndings(gctx, last); err != nil {
				s.logger.Debug("No lyric endings", zap.String("word", last), zap.Error(err))
				endings = nil
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, lookup.ErrTimedOut
		}
		return nil, err
	}

	if len(endings) == 0 && s.rhymer != nil {
		var err error
		if endings, err = s.rhymer.PhraseRhymes(ctx, phrase); err != nil {
			s.logger.Debug("No phrase rhymes", zap.String("phrase", phrase), zap.Error(err))
			endings = nil
		}
	}

	if len(endings) > 0 {
		results := make([]Suggestion, len(endings))
		for i, e := range endings {
			results[i] = Suggestion{Text: e, AI: true}
		}
		return results, nil
	}

	if len(words) == 0 {
		return nil, lookup.ErrNoResults
	}
	results := make([]Suggestion, len(words))
	for i, w := range words {
		results[i] = Suggestion{Text: w}
	}
	return results, nil
}
