package lookup

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// DefaultWiktionaryURL is the Wiktionary REST page endpoint
const DefaultWiktionaryURL = "https://en.wiktionary.org/api/rest_v1/page"

// Definition is one sense of a word. Text is a sanitized HTML fragment.
type Definition struct {
	PartOfSpeech string
	Text         string
	Examples     []string
}

// WiktionaryClient fetches English definitions
type WiktionaryClient struct {
	BaseURL string
	Timeout time.Duration
	client  *http.Client
	policy  *bluemonday.Policy
	logger  *zap.Logger
}

// NewWiktionaryClient creates a client. An empty baseURL uses the public API.
func NewWiktionaryClient(baseURL string, timeout time.Duration, logger *zap.Logger) *WiktionaryClient {
	if baseURL == "" {
		baseURL = DefaultWiktionaryURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	policy := bluemonday.NewPolicy()
	policy.AllowElements("b", "strong", "i", "em", "br", "p", "ul", "ol", "li", "dl", "dt", "dd", "span")

	return &WiktionaryClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Timeout: timeout,
		client:  &http.Client{},
		policy:  policy,
		logger:  logger,
	}
}

// Definitions returns the English senses of word in page order. Fails with
// ErrNoResults when the page is missing or has no English definitions.
func (c *WiktionaryClient) Definitions(ctx context.Context, word string) ([]Definition, error) {
	endpoint := c.BaseURL + "/definition/" + url.PathEscape(word)
	data, err := fetch(ctx, c.client, endpoint, c.Timeout)
	if err != nil {
		c.logger.Debug("Wiktionary request failed", zap.String("url", endpoint), zap.Error(err))
		return nil, err
	}

	var defs []Definition
	gjson.GetBytes(data, "en").ForEach(func(_, usage gjson.Result) bool {
		pos := usage.Get("partOfSpeech").String()
		usage.Get("definitions").ForEach(func(_, sense gjson.Result) bool {
			text := strings.TrimSpace(c.policy.Sanitize(sense.Get("definition").String()))
			if text == "" {
				return true
			}
			def := Definition{PartOfSpeech: pos, Text: text}
			for _, ex := range sense.Get("examples").Array() {
				if s := strings.TrimSpace(c.policy.Sanitize(ex.String())); s != "" {
					def.Examples = append(def.Examples, s)
				}
			}
			defs = append(defs, def)
			return true
		})
		return true
	})

	if len(defs) == 0 {
		return nil, ErrNoResults
	}
	return defs, nil
}

// Fragments returns only the definition fragments
func (c *WiktionaryClient) Fragments(ctx context.Context, word string) ([]string, error) {
	defs, err := c.Definitions(ctx, word)
	if err != nil {
		return nil, err
	}
	fragments := make([]string, len(defs))
	for i, d := range defs {
		fragments[i] = d.Text
	}
	return fragments, nil
}
