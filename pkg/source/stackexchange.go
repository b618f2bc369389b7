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

// Question is a StackExchange search hit.
type Question struct {
	Title       string
	Tags        []string
	Score       int
	AnswerCount int
	IsAnswered  bool
}

type stackExchangeResponse struct {
	Items []struct {
		Title       string   `json:"title"`
		Tags        []string `json:"tags"`
		Score       int      `json:"score"`
		AnswerCount int      `json:"answer_count"`
		IsAnswered  bool     `json:"is_answered"`
	} `json:"items"`
	ErrorID      int    `json:"error_id"`
	ErrorMessage string `json:"error_message"`
	Backoff      int    `json:"backoff"`
}

type StackExchange struct {
	client  *Client
	baseURL string
	site    string
	limit   int
}

func NewStackExchange(client *Client, cfg Config) *StackExchange {
	return &StackExchange{
		client:  client,
		baseURL: cfg.StackExchangeURL,
		site:    cfg.StackExchangeSite,
		limit:   cfg.ResultLimit,
	}
}

func (s *StackExchange) Name() string {
	return SourceStackExchange
}

func (s *StackExchange) Fetch(ctx context.Context, term string) Result {
	start := time.Now()

	questions, err := s.Search(ctx, term)
	if err != nil {
		return failedResult(SourceStackExchange, err, start)
	}

	titles := make([]string, 0, len(questions))
	for _, q := range questions {
		titles = append(titles, q.Title)
	}
	return newResult(SourceStackExchange, titles, start)
}

func (s *StackExchange) Search(ctx context.Context, term string) ([]Question, error) {
	params := url.Values{}
	params.Set("order", "desc")
	params.Set("sort", "relevance")
	params.Set("q", term)
	params.Set("site", s.site)
	params.Set("pagesize", strconv.Itoa(s.limit))

	// the API always answers gzip-compressed, Client.Get inflates it
	body, err := s.client.Get(ctx, SourceStackExchange, s.baseURL+"?"+params.Encode(), "application/json")
	if err != nil {
		return nil, err
	}

	questions, err := parseStackExchange(body)
	if err != nil {
		return nil, &FetchError{Source: SourceStackExchange, Err: err}
	}
	return questions, nil
}

func parseStackExchange(body []byte) ([]Question, error) {
	var resp stackExchangeResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode stackexchange response: %w", err)
	}
	if resp.ErrorID != 0 {
		return nil, fmt.Errorf("stackexchange error %d: %s", resp.ErrorID, resp.ErrorMessage)
	}

	questions := make([]Question, 0, len(resp.Items))
	for _, item := range resp.Items {
		// titles come HTML-escaped ("&quot;", "&#39;")
		title := strings.TrimSpace(html.UnescapeString(item.Title))
		if title == "" {
			continue
		}
		questions = append(questions, Question{
			Title:       title,
			Tags:        item.Tags,
			Score:       item.Score,
			AnswerCount: item.AnswerCount,
			IsAnswered:  item.IsAnswered,
		})
	}
	return questions, nil
}
