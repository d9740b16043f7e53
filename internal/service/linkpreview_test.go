package service_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dearie-app/deariebot/internal/service"
)

func TestExtractURLs(t *testing.T) {
	text := "saw this https://example.com/a, then https://example.com/b! " +
		"and https://example.com/a again, plus http://plain.test/x"

	urls := service.ExtractURLs(text)
	require.Equal(t, []string{
		"https://example.com/a",
		"https://example.com/b",
		"http://plain.test/x",
	}, urls)
}

func TestExtractURLsNone(t *testing.T) {
	require.Empty(t, service.ExtractURLs("just a plain day, no links"))
}

func TestFetchPrefersOpenGraph(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head>
			<title>Doc Title</title>
			<meta property="og:title" content="OG Title">
			<meta property="og:description" content="OG description.">
		</head><body></body></html>`)
	}))
	defer srv.Close()

	preview, err := service.NewLinkPreviewService().Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Equal(t, "OG Title", preview.Title)
	require.Equal(t, "OG description.", preview.Description)
	require.Equal(t, srv.URL, preview.URL)
}

func TestFetchFallsBackToDocumentTitle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head>
			<title>  Doc Title  </title>
			<meta name="description" content="Meta description.">
		</head><body></body></html>`)
	}))
	defer srv.Close()

	preview, err := service.NewLinkPreviewService().Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Equal(t, "Doc Title", preview.Title)
	require.Equal(t, "Meta description.", preview.Description)
}

func TestPreviewMarkdownIncludesDescription(t *testing.T) {
	p := &service.Preview{
		URL:         "https://example.com/a",
		Title:       "A Page",
		Description: "What the page is about.",
	}
	require.Equal(t, "🔗 *A Page*\n_What the page is about._\nhttps://example.com/a", p.Markdown())
}

func TestPreviewMarkdownOmitsEmptyDescription(t *testing.T) {
	p := &service.Preview{URL: "https://example.com/a", Title: "A Page"}
	require.Equal(t, "🔗 *A Page*\nhttps://example.com/a", p.Markdown())
}

func TestFetchRejectsNonOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := service.NewLinkPreviewService().Fetch(context.Background(), srv.URL)
	require.Error(t, err)
}
