package suggest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/csams/rhymer/internal/lookup"
)

const (
	// DefaultLinesTimeout bounds lyric line and ending generation
	DefaultLinesTimeout = 10 * time.Second

	// DefaultSupplementTimeout bounds rhyme supplements and phrase rhymes
	DefaultSupplementTimeout = 8 * time.Second

	// maxExcluded caps how many known rhymes are listed in a supplement prompt
	maxExcluded = 20
)

const lineInstructions = `You are a creative lyric writer for a songwriting app.
Given a song line, suggest lines that could come next, lines that rhyme with or echo its ending sound. Aim for poetic, varied language, not generic templates.
Output only the lyric lines, one per line. No explanations, no preamble.
Example for "this is a song I wrote":
every word a note
all she wrote
let it float
left me remote
took the antidote`

const endingInstructions = `You are a creative lyric writer for a songwriting app.
Given a word, generate short lyric phrases (2-5 words) that could end a line of song lyrics and rhyme with that word. Aim for poetic, evocative language, not generic word substitutions.
Output only the lyric phrases, one per line. No explanations, no preamble.
Example for "wrote":
all she wrote
hit the right note
let it float
learned by rote
took the antidote`

const wordInstructions = `You are a rhyming dictionary used in a music composition app.
Given a word, output words that share its ending sound, perfect rhymes first, then near rhymes.
Output only the rhyming words, one per line. No explanations, no preamble.
Example for "night": right, light, sight, ignite, delight, midnight`

const phraseInstructions = `You are a rhyming dictionary used in a music composition app.
Given a word or short phrase ending, output words and short phrases (1-4 words) that share the same ending vowel-consonant sound.
Output only the rhyming matches, one per line. Mix single words and multi-word phrases.
Example for "dont mind": kind, find, unwind, left behind, speak your mind, one of a kind
Do not include the input itself. No explanations, no preamble.`

// Rhymer asks a Generator for rhymes and lyric lines. Every call is bounded
// by its own timeout and never returns a refusal as a result.
type Rhymer struct {
	gen               Generator
	LinesTimeout      time.Duration
	SupplementTimeout time.Duration
	logger            *zap.Logger
}

// NewRhymer creates a rhymer with the default timeouts
func NewRhymer(gen Generator, logger *zap.Logger) *Rhymer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Rhymer{
		gen:               gen,
		LinesTimeout:      DefaultLinesTimeout,
		SupplementTimeout: DefaultSupplementTimeout,
		logger:            logger,
	}
}

// LyricSuggestions proposes lines that could follow line
func (r *Rhymer) LyricSuggestions(ctx context.Context, line string) ([]string, error) {
	reply, err := r.respond(ctx, r.LinesTimeout, lineInstructions, "Suggest next lines for: "+line)
	if err != nil {
		return nil, err
	}
	return nonEmpty(ParseLines(reply, nil))
}

// LyricEndings proposes short phrases that could end a line rhyming with word
func (r *Rhymer) LyricEndings(ctx context.Context, word string) ([]string, error) {
	reply, err := r.respond(ctx, r.LinesTimeout, endingInstructions, "Lyric line endings that rhyme with: "+word)
	if err != nil {
		return nil, err
	}
	return nonEmpty(ParseLines(reply, nil))
}

// Supplement proposes extra rhymes for word that are not in existing
func (r *Rhymer) Supplement(ctx context.Context, word string, existing []string) ([]string, error) {
	prompt := "Rhyming words for: " + word
	if len(existing) > 0 {
		prompt += fmt.Sprintf(" Exclude: %s.", strings.Join(existing[:min(len(existing), maxExcluded)], ", "))
	}

	reply, err := r.respond(ctx, r.SupplementTimeout, wordInstructions, prompt)
	if err != nil {
		return nil, err
	}
	return nonEmpty(ParseWords(reply, append([]string{word}, existing...)))
}

// PhraseRhymes proposes matches for the ending of phrase. Only the last one
// or two words are sent.
func (r *Rhymer) PhraseRhymes(ctx context.Context, phrase string) ([]string, error) {
	tail := RhymingTail(phrase)
	reply, err := r.respond(ctx, r.SupplementTimeout, phraseInstructions, "Rhyme matches for: "+tail)
	if err != nil {
		return nil, err
	}
	return nonEmpty(ParseWords(reply, []string{tail}))
}

type reply struct {
	text string
	err  error
}

// respond runs the generator and gives up once timeout elapses. The
// generator's context is cancelled on return either way.
func (r *Rhymer) respond(ctx context.Context, timeout time.Duration, instructions, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan reply, 1)
	go func() {
		text, err := r.gen.Generate(ctx, instructions, prompt)
		done <- reply{text: text, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			if errors.Is(res.err, context.DeadlineExceeded) {
				return "", lookup.ErrTimedOut
			}
			return "", res.err
		}
		return res.text, nil
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			r.logger.Debug("Generation timed out", zap.Duration("timeout", timeout))
			return "", lookup.ErrTimedOut
		}
		return "", ctx.Err()
	}
}

func nonEmpty(lines []string) ([]string, error) {
	if len(lines) == 0 {
		return nil, lookup.ErrNoResults
	}
	return lines, nil
}
