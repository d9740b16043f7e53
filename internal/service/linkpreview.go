package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/dearie-app/deariebot/internal/config"
)

var urlPattern = regexp.MustCompile(`https?://[^\s<>"']+`)

// ExtractURLs returns the http(s) links found in free text, in order,
// without duplicates.
func ExtractURLs(text string) []string {
	seen := make(map[string]bool)
	var urls []string
	for _, u := range urlPattern.FindAllString(text, -1) {
		u = strings.TrimRight(u, ".,)!?")
		if !seen[u] {
			seen[u] = true
			urls = append(urls, u)
		}
	}
	return urls
}

// Preview is the page metadata shown next to a link in a diary entry.
type Preview struct {
	URL         string
	Title       string
	Description string
}

// Markdown renders the preview as the block shown under a diary entry.
func (p *Preview) Markdown() string {
	var sb strings.Builder
	sb.WriteString("🔗 *" + p.Title + "*")
	if p.Description != "" {
		sb.WriteString("\n_" + p.Description + "_")
	}
	sb.WriteString("\n" + p.URL)
	return sb.String()
}

type LinkPreviewService struct {
	httpClient *http.Client
}

func NewLinkPreviewService() *LinkPreviewService {
	return &LinkPreviewService{
		httpClient: &http.Client{Timeout: config.LinkPreviewTimeout},
	}
}

// Fetch loads the page and extracts its title and description, preferring
// OpenGraph tags over the document title.
func (s *LinkPreviewService) Fetch(ctx context.Context, url string) (*Preview, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "text/html")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch page: http %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, config.LinkPreviewMaxBody))
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}

	preview := &Preview{URL: url}

	if og, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok && og != "" {
		preview.Title = strings.TrimSpace(og)
	} else {
		preview.Title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	if desc, ok := doc.Find(`meta[property="og:description"]`).Attr("content"); ok {
		preview.Description = strings.TrimSpace(desc)
	} else if desc, ok := doc.Find(`meta[name="description"]`).Attr("content"); ok {
		preview.Description = strings.TrimSpace(desc)
	}

	return preview, nil
}
