package serp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/cases"

	"keyword-scout/pkg/models"
	"keyword-scout/pkg/source"
)

const sourceSERP = "serp"

var errNoResults = errors.New("no organic results parsed")

// SearchHit is one organic result from the results page.
type SearchHit struct {
	Title  string
	URL    string
	Domain string
}

// HTMLAnalyzer derives a SerpResult from the DuckDuckGo HTML results page.
type HTMLAnalyzer struct {
	client     *source.Client
	endpoint   string
	topResults int
	now        func() time.Time
}

func NewHTMLAnalyzer(client *source.Client, cfg Config) *HTMLAnalyzer {
	top := cfg.TopResults
	if top <= 0 {
		top = 10
	}
	return &HTMLAnalyzer{
		client:     client,
		endpoint:   cfg.Endpoint,
		topResults: top,
		now:        time.Now,
	}
}

func (a *HTMLAnalyzer) Analyze(ctx context.Context, keyword string) (*models.SerpResult, error) {
	hits, err := a.Search(ctx, keyword)
	if err != nil {
		return nil, err
	}
	if len(hits) == 0 {
		// an empty page is usually a block or captcha, not a real gap
		return nil, fmt.Errorf("serp analysis of %q: %w", keyword, errNoResults)
	}
	return analyzeHits(keyword, hits, a.now().Year()), nil
}

// Search returns up to topResults organic hits for keyword.
func (a *HTMLAnalyzer) Search(ctx context.Context, keyword string) ([]SearchHit, error) {
	params := url.Values{}
	params.Set("q", keyword)

	body, err := a.client.Get(ctx, sourceSERP, a.endpoint+"?"+params.Encode(), "text/html,application/xhtml+xml")
	if err != nil {
		return nil, err
	}

	hits, err := parseResultsPage(body)
	if err != nil {
		return nil, err
	}
	if len(hits) > a.topResults {
		hits = hits[:a.topResults]
	}
	return hits, nil
}

func parseResultsPage(body []byte) ([]SearchHit, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse results page: %w", err)
	}

	var hits []SearchHit
	doc.Find(".result").Each(func(i int, s *goquery.Selection) {
		if s.HasClass("result--ad") {
			return
		}
		link := s.Find("a.result__a").First()
		title := strings.TrimSpace(link.Text())
		if title == "" {
			return
		}

		href, _ := link.Attr("href")
		target := resolveRedirect(href)
		domain := hostOf(target)
		if domain == "" {
			domain = hostOf("https://" + strings.TrimSpace(s.Find(".result__url").First().Text()))
		}

		hits = append(hits, SearchHit{Title: title, URL: target, Domain: domain})
	})
	return hits, nil
}

// resolveRedirect unwraps "//duckduckgo.com/l/?uddg=<target>" links.
func resolveRedirect(href string) string {
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if strings.HasSuffix(u.Hostname(), "duckduckgo.com") {
		if target := u.Query().Get("uddg"); target != "" {
			return target
		}
	}
	return href
}

func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	return strings.TrimPrefix(host, "www.")
}

var (
	yearPattern     = regexp.MustCompile(`\b20\d{2}\b`)
	listiclePattern = regexp.MustCompile(`^\d+\s`)
)

var headlineRules = []struct {
	name  string
	match func(title string) bool
}{
	{"how-to", func(t string) bool { return strings.Contains(t, "how to") }},
	{"listicle", func(t string) bool { return listiclePattern.MatchString(t) }},
	{"year", func(t string) bool { return yearPattern.MatchString(t) }},
	{"question", func(t string) bool { return strings.HasSuffix(t, "?") || source.IsQuestion(t) }},
	{"comparison", func(t string) bool {
		return strings.Contains(t, " vs ") || strings.Contains(t, " vs. ") ||
			strings.Contains(t, "versus") || strings.Contains(t, "compare")
	}},
	{"guide", func(t string) bool {
		return strings.Contains(t, "guide") || strings.Contains(t, "ultimate") || strings.Contains(t, "complete")
	}},
}

var facetStopWords = map[string]bool{
	"a": true, "an": true, "the": true, "and": true, "or": true, "for": true,
	"to": true, "of": true, "in": true, "on": true, "with": true, "is": true,
	"are": true, "do": true, "does": true, "how": true, "what": true, "why": true,
	"can": true, "you": true, "your": true, "my": true, "i": true,
}

// analyzeHits turns result titles into domains, headline patterns and
// content gaps. A keyword facet is a gap when fewer than two titles mention
// it; a missing current-year title is a gap too.
func analyzeHits(keyword string, hits []SearchHit, year int) *models.SerpResult {
	folder := cases.Fold()
	titles := make([]string, len(hits))
	for i, h := range hits {
		titles[i] = folder.String(h.Title)
	}

	result := &models.SerpResult{
		ContentGaps:      []string{},
		TopDomains:       topDomains(hits, 5),
		HeadlinePatterns: headlinePatterns(titles),
		Source:           "duckduckgo",
	}

	seen := make(map[string]bool)
	for _, facet := range strings.Fields(folder.String(keyword)) {
		facet = strings.Trim(facet, "?!.,:;\"'")
		if len(facet) < 3 || facetStopWords[facet] || seen[facet] {
			continue
		}
		seen[facet] = true

		covered := 0
		for _, t := range titles {
			if strings.Contains(t, facet) {
				covered++
			}
		}
		if covered < 2 {
			result.ContentGaps = append(result.ContentGaps,
				fmt.Sprintf("Only %d of the top %d results cover %q", covered, len(titles), facet))
		}
	}

	currentYear := strconv.Itoa(year)
	hasYear := false
	for _, t := range titles {
		if strings.Contains(t, currentYear) {
			hasYear = true
			break
		}
	}
	if !hasYear {
		result.ContentGaps = append(result.ContentGaps,
			fmt.Sprintf("No top result is updated for %s", currentYear))
	}
	return result
}

func topDomains(hits []SearchHit, limit int) []string {
	seen := make(map[string]bool)
	domains := make([]string, 0, limit)
	for _, h := range hits {
		if h.Domain == "" || seen[h.Domain] {
			continue
		}
		seen[h.Domain] = true
		domains = append(domains, h.Domain)
		if len(domains) == limit {
			break
		}
	}
	return domains
}

// headlinePatterns lists the patterns found in titles, most frequent first.
func headlinePatterns(titles []string) []string {
	type count struct {
		name string
		n    int
	}
	var counts []count
	for _, rule := range headlineRules {
		n := 0
		for _, t := range titles {
			if rule.match(t) {
				n++
			}
		}
		if n > 0 {
			counts = append(counts, count{rule.name, n})
		}
	}
	sort.SliceStable(counts, func(i, j int) bool { return counts[i].n > counts[j].n })

	patterns := make([]string, 0, len(counts))
	for _, c := range counts {
		patterns = append(patterns, c.name)
	}
	return patterns
}
