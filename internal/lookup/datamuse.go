package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultDatamuseURL is the public Datamuse endpoint
const DefaultDatamuseURL = "https://api.datamuse.com"

// DatamuseWord is one entry of a Datamuse word list
type DatamuseWord struct {
	Word         string `json:"word"`
	Score        int    `json:"score"`
	NumSyllables int    `json:"numSyllables,omitempty"`
}

// DatamuseClient fetches rhymes and spelling suggestions
type DatamuseClient struct {
	BaseURL string
	Timeout time.Duration
	client  *http.Client
	logger  *zap.Logger
}

// NewDatamuseClient creates a client. An empty baseURL uses the public API.
func NewDatamuseClient(baseURL string, timeout time.Duration, logger *zap.Logger) *DatamuseClient {
	if baseURL == "" {
		baseURL = DefaultDatamuseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DatamuseClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Timeout: timeout,
		client:  &http.Client{},
		logger:  logger,
	}
}

// Rhymes returns perfect rhymes for word in the API's ranking order. The
// list may be empty.
func (c *DatamuseClient) Rhymes(ctx context.Context, word string) ([]DatamuseWord, error) {
	return c.words(ctx, "/words?rel_rhy="+url.QueryEscape(word))
}

// RhymeWords returns just the words of Rhymes
func (c *DatamuseClient) RhymeWords(ctx context.Context, word string) ([]string, error) {
	rhymes, err := c.Rhymes(ctx, word)
	if err != nil {
		return nil, err
	}
	words := make([]string, 0, len(rhymes))
	for _, r := range rhymes {
		words = append(words, r.Word)
	}
	return words, nil
}

// Suggestions returns completions for a partially typed word
func (c *DatamuseClient) Suggestions(ctx context.Context, prefix string) ([]DatamuseWord, error) {
	return c.words(ctx, "/sug?s="+url.QueryEscape(prefix))
}

func (c *DatamuseClient) words(ctx context.Context, path string) ([]DatamuseWord, error) {
	endpoint := c.BaseURL + path
	data, err := fetch(ctx, c.client, endpoint, c.Timeout)
	if err != nil {
		c.logger.Debug("Datamuse request failed", zap.String("url", endpoint), zap.Error(err))
		return nil, err
	}

	var words []DatamuseWord
	if err := json.Unmarshal(data, &words); err != nil {
		return nil, fmt.Errorf("failed to parse datamuse response: %w", err)
	}

	result := words[:0]
	for _, w := range words {
		if strings.TrimSpace(w.Word) != "" {
			result = append(result, w)
		}
	}
	return result, nil
}
