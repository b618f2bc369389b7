package source

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// RedditPost is the subset of a search hit we keep.
type RedditPost struct {
	Title       string
	Subreddit   string
	Score       int
	NumComments int
}

type redditListing struct {
	Kind string `json:"kind"`
	Data struct {
		Children []struct {
			Data struct {
				Title       string `json:"title"`
				Subreddit   string `json:"subreddit"`
				Score       int    `json:"score"`
				NumComments int    `json:"num_comments"`
				Over18      bool   `json:"over_18"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type Reddit struct {
	client  *Client
	baseURL string
	limit   int
}

func NewReddit(client *Client, cfg Config) *Reddit {
	return &Reddit{client: client, baseURL: cfg.RedditURL, limit: cfg.ResultLimit}
}

func (r *Reddit) Name() string {
	return SourceReddit
}

func (r *Reddit) Fetch(ctx context.Context, term string) Result {
	start := time.Now()

	posts, err := r.Search(ctx, term)
	if err != nil {
		return failedResult(SourceReddit, err, start)
	}

	titles := make([]string, 0, len(posts))
	for _, p := range posts {
		titles = append(titles, p.Title)
	}
	return newResult(SourceReddit, titles, start)
}

// Search returns matching post titles ordered by relevance.
func (r *Reddit) Search(ctx context.Context, term string) ([]RedditPost, error) {
	params := url.Values{}
	params.Set("q", term)
	params.Set("sort", "relevance")
	params.Set("t", "year")
	params.Set("limit", strconv.Itoa(r.limit))

	body, err := r.client.Get(ctx, SourceReddit, r.baseURL+"?"+params.Encode(), "application/json")
	if err != nil {
		return nil, err
	}

	posts, err := parseReddit(body)
	if err != nil {
		return nil, &FetchError{Source: SourceReddit, Err: err}
	}
	return posts, nil
}

func parseReddit(body []byte) ([]RedditPost, error) {
	var listing redditListing
	if err := json.Unmarshal(body, &listing); err != nil {
		return nil, fmt.Errorf("failed to decode reddit listing: %w", err)
	}
	if listing.Kind != "" && listing.Kind != "Listing" {
		return nil, fmt.Errorf("unexpected reddit kind %q", listing.Kind)
	}

	posts := make([]RedditPost, 0, len(listing.Data.Children))
	for _, child := range listing.Data.Children {
		d := child.Data
		title := strings.TrimSpace(html.UnescapeString(d.Title))
		if title == "" || d.Over18 {
			continue
		}
		posts = append(posts, RedditPost{
			Title:       title,
			Subreddit:   d.Subreddit,
			Score:       d.Score,
			NumComments: d.NumComments,
		})
	}
	return posts, nil
}
