package lookup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultTimeout bounds a single lookup
const DefaultTimeout = 10 * time.Second

const userAgent = "rhymer/1.0 (https://github.com/csams/rhymer)"

// fetch performs a single GET bounded by timeout. Deadline expiry is
// reported as ErrTimedOut, a 404 as ErrNoResults and anything else that is
// not a 200 as a NetworkError.
func fetch(ctx context.Context, client *http.Client, url string, timeout time.Duration) ([]byte, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrTimedOut
		}
		return nil, &NetworkError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNoResults
	case resp.StatusCode != http.StatusOK:
		return nil, &NetworkError{URL: url, StatusCode: resp.StatusCode, Err: errors.New(resp.Status)}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrTimedOut
		}
		return nil, &NetworkError{URL: url, Err: fmt.Errorf("failed to read response: %w", err)}
	}
	return data, nil
}
