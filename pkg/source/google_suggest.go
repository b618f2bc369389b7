package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"
)

type GoogleSuggest struct {
	client         *Client
	baseURL        string
	language       string
	expand         bool
	expansionDelay time.Duration
}

func NewGoogleSuggest(client *Client, cfg Config) *GoogleSuggest {
	return &GoogleSuggest{
		client:         client,
		baseURL:        cfg.GoogleSuggestURL,
		language:       cfg.Language,
		expand:         cfg.AlphabetExpansion,
		expansionDelay: cfg.ExpansionDelay,
	}
}

func (g *GoogleSuggest) Name() string {
	return SourceGoogle
}

func (g *GoogleSuggest) Fetch(ctx context.Context, term string) Result {
	if g.expand {
		return g.Expand(ctx, term)
	}

	start := time.Now()
	suggestions, err := g.Suggest(ctx, term)
	if err != nil {
		return failedResult(SourceGoogle, err, start)
	}
	return newResult(SourceGoogle, suggestions, start)
}

// Suggest returns Google's autocomplete list for a raw query.
func (g *GoogleSuggest) Suggest(ctx context.Context, query string) ([]string, error) {
	params := url.Values{}
	params.Set("client", "firefox")
	params.Set("hl", g.language)
	params.Set("q", query)

	body, err := g.client.Get(ctx, SourceGoogle, g.baseURL+"?"+params.Encode(), "application/json")
	if err != nil {
		return nil, err
	}

	suggestions, err := parseGoogleSuggest(body)
	if err != nil {
		return nil, &FetchError{Source: SourceGoogle, Err: err}
	}
	return suggestions, nil
}

// Expand runs the alphabet expansion: term + " a" through term + " z",
// sequentially, pausing expansionDelay between requests. The plain term goes
// first so its suggestions keep the best ranks. Letters that fail are skipped;
// the result only fails when every request failed.
func (g *GoogleSuggest) Expand(ctx context.Context, term string) Result {
	start := time.Now()

	queries := []string{term}
	for c := 'a'; c <= 'z'; c++ {
		queries = append(queries, term+" "+string(c))
	}

	seen := make(map[string]bool)
	merged := make([]string, 0, len(queries)*4)
	var lastErr error
	succeeded := 0

	for i, q := range queries {
		if i > 0 && g.expansionDelay > 0 {
			select {
			case <-ctx.Done():
				return g.expansionResult(merged, succeeded, ctx.Err(), start)
			case <-time.After(g.expansionDelay):
			}
		}

		suggestions, err := g.Suggest(ctx, q)
		if err != nil {
			lastErr = err
			continue
		}
		succeeded++
		for _, s := range suggestions {
			key := strings.ToLower(s)
			if !seen[key] {
				seen[key] = true
				merged = append(merged, s)
			}
		}
	}

	return g.expansionResult(merged, succeeded, lastErr, start)
}

func (g *GoogleSuggest) expansionResult(merged []string, succeeded int, err error, start time.Time) Result {
	if succeeded == 0 && err != nil {
		return failedResult(SourceGoogle, err, start)
	}
	return newResult(SourceGoogle, merged, start)
}

// parseGoogleSuggest decodes the firefox client format:
// ["query", ["suggestion 1", "suggestion 2", ...], ...]
func parseGoogleSuggest(body []byte) ([]string, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode suggest response: %w", err)
	}
	if len(raw) < 2 {
		return nil, fmt.Errorf("suggest response has %d elements, want at least 2", len(raw))
	}

	var suggestions []string
	if err := json.Unmarshal(raw[1], &suggestions); err != nil {
		return nil, fmt.Errorf("failed to decode suggestion list: %w", err)
	}

	out := make([]string, 0, len(suggestions))
	for _, s := range suggestions {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out, nil
}
