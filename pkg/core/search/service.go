package search

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Errors never cross this boundary as Go errors: the controller treats
// whatever comes back as evidence text, so failures are encoded in-band.
const (
	noResultsMessage = "검색 결과를 찾을 수 없습니다."
	errMessageFormat = "웹 검색 중 오류가 발생했습니다: %v"
)

// How many hits make it into the formatted evidence block.
const topResults = 3

// Service turns search hits into Korean evidence text.
type Service struct {
	client *Client

	// EnrichEmptySnippets fetches the page body when Tavily returns a hit
	// without content. Off in tests.
	EnrichEmptySnippets bool

	pageClient *http.Client
}

func NewService(client *Client) *Service {
	return &Service{
		client:     client,
		pageClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// SearchWeb runs one query and formats the top hits.
// The returned string is always user-presentable text.
func (s *Service) SearchWeb(ctx context.Context, query string) string {
	fmt.Printf("[DEBUG] search.Service: query=%q\n", query)

	results, err := s.client.Search(ctx, query)
	if err != nil {
		fmt.Printf("[WARNING] search.Service: %v\n", err)
		return fmt.Sprintf(errMessageFormat, err)
	}
	if len(results) == 0 {
		return noResultsMessage
	}

	if s.EnrichEmptySnippets {
		for i := range results {
			if strings.TrimSpace(results[i].Content) == "" && results[i].URL != "" {
				results[i].Content = s.fetchPageText(ctx, results[i].URL)
			}
		}
	}

	return FormatResults(results)
}

// FormatResults renders up to three hits as 제목/내용/출처 blocks.
func FormatResults(results []Result) string {
	if len(results) == 0 {
		return noResultsMessage
	}

	n := len(results)
	if n > topResults {
		n = topResults
	}

	blocks := make([]string, 0, n)
	for _, r := range results[:n] {
		blocks = append(blocks, fmt.Sprintf("제목: %s\n내용: %s\n출처: %s\n", r.Title, r.Content, r.URL))
	}
	return strings.Join(blocks, "\n")
}

// fetchPageText pulls the paragraph text of a page as a snippet substitute.
func (s *Service) fetchPageText(ctx context.Context, url string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return ""
	}
	req.Header.Set("User-Agent", "agentic-finqa/1.0")

	resp, err := s.pageClient.Do(req)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return ""
	}

	var parts []string
	doc.Find("p").Each(func(_ int, sel *goquery.Selection) {
		text := strings.TrimSpace(sel.Text())
		if text != "" {
			parts = append(parts, text)
		}
	})

	text := strings.Join(parts, " ")
	if runes := []rune(text); len(runes) > 500 {
		text = string(runes[:500])
	}
	return text
}
