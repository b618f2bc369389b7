package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

type Wikipedia struct {
	client  *Client
	baseURL string
	limit   int
}

func NewWikipedia(client *Client, cfg Config) *Wikipedia {
	return &Wikipedia{client: client, baseURL: cfg.WikipediaURL, limit: cfg.ResultLimit}
}

func (w *Wikipedia) Name() string {
	return SourceWikipedia
}

func (w *Wikipedia) Fetch(ctx context.Context, term string) Result {
	start := time.Now()

	params := url.Values{}
	params.Set("action", "opensearch")
	params.Set("search", term)
	params.Set("limit", strconv.Itoa(w.limit))
	params.Set("namespace", "0")
	params.Set("format", "json")

	body, err := w.client.Get(ctx, SourceWikipedia, w.baseURL+"?"+params.Encode(), "application/json")
	if err != nil {
		return failedResult(SourceWikipedia, err, start)
	}

	titles, err := parseOpenSearch(body)
	if err != nil {
		return failedResult(SourceWikipedia, err, start)
	}
	return newResult(SourceWikipedia, titles, start)
}

// parseOpenSearch decodes ["query", [titles], [descriptions], [urls]] and
// returns the titles.
func parseOpenSearch(body []byte) ([]string, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode opensearch response: %w", err)
	}
	if len(raw) < 2 {
		return nil, fmt.Errorf("opensearch response has %d elements, want at least 2", len(raw))
	}

	var titles []string
	if err := json.Unmarshal(raw[1], &titles); err != nil {
		return nil, fmt.Errorf("failed to decode opensearch titles: %w", err)
	}
	return titles, nil
}
