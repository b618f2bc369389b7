package source

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

// Trend is one entry of the daily trending searches feed.
type Trend struct {
	Title     string     `json:"title"`
	Traffic   string     `json:"traffic"`
	Published *time.Time `json:"published,omitempty"`
}

type Trends struct {
	client  *Client
	baseURL string
	geo     string
}

func NewTrends(client *Client, cfg Config) *Trends {
	return &Trends{client: client, baseURL: cfg.TrendsURL, geo: cfg.TrendsGeo}
}

// Daily fetches today's trending searches for the configured geo.
func (t *Trends) Daily(ctx context.Context) ([]Trend, error) {
	params := url.Values{}
	params.Set("geo", t.geo)

	body, err := t.client.Get(ctx, SourceTrends, t.baseURL+"?"+params.Encode(),
		"application/rss+xml, application/xml;q=0.9, text/xml;q=0.8")
	if err != nil {
		return nil, err
	}

	trends, err := parseTrends(string(body))
	if err != nil {
		return nil, &FetchError{Source: SourceTrends, Err: err}
	}
	return trends, nil
}

func parseTrends(body string) ([]Trend, error) {
	feed, err := gofeed.NewParser().ParseString(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse trends feed: %w", err)
	}

	trends := make([]Trend, 0, len(feed.Items))
	for _, item := range feed.Items {
		title := strings.TrimSpace(item.Title)
		if title == "" {
			continue
		}
		trends = append(trends, Trend{
			Title:     title,
			Traffic:   approxTraffic(item),
			Published: item.PublishedParsed,
		})
	}
	return trends, nil
}

// approxTraffic reads the <ht:approx_traffic> extension element.
func approxTraffic(item *gofeed.Item) string {
	ht, ok := item.Extensions["ht"]
	if !ok {
		return ""
	}
	values := ht["approx_traffic"]
	if len(values) == 0 {
		return ""
	}
	return strings.TrimSpace(values[0].Value)
}
