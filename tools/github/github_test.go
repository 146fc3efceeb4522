package github

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/mohammad-safakhou/scout/config"
)

const searchBody = `{
	"items": [
		{"name": "scout", "full_name": "acme/scout", "description": "research agent",
		 "stargazers_count": 42, "forks_count": 7, "language": "Go",
		 "html_url": "https://github.com/acme/scout", "topics": ["agents"]},
		{"name": "bare", "full_name": "acme/bare", "description": null,
		 "stargazers_count": 1, "forks_count": 0, "language": null,
		 "html_url": "https://github.com/acme/bare"}
	]
}`

func testClient(endpoint, token string) *Client {
	return NewClient(config.GitHubConfig{
		Token:      token,
		Endpoint:   endpoint,
		Timeout:    5 * time.Second,
		MaxResults: 100,
	})
}

func TestSearchRepositories(t *testing.T) {
	var captured url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/repositories" {
			t.Errorf("path = %q", r.URL.Path)
		}
		captured = r.URL.Query()
		fmt.Fprint(w, searchBody)
	}))
	defer server.Close()

	repos := testClient(server.URL, "").SearchRepositories(context.Background(), "language:go", "stars", 10)

	if captured.Get("q") != "language:go" || captured.Get("sort") != "stars" {
		t.Fatalf("query params = %v", captured)
	}
	if captured.Get("order") != "desc" {
		t.Fatalf("order = %q, want desc", captured.Get("order"))
	}
	if captured.Get("per_page") != "10" {
		t.Fatalf("per_page = %q", captured.Get("per_page"))
	}

	if len(repos) != 2 {
		t.Fatalf("expected 2 repos, got %d", len(repos))
	}
	if repos[0].Name != "scout" || repos[0].Stars != 42 || repos[0].Language != "Go" {
		t.Fatalf("first repo = %+v", repos[0])
	}
	// Null description and language get readable fallbacks
	if repos[1].Description != "No description" || repos[1].Language != "Unknown" {
		t.Fatalf("fallbacks not applied: %+v", repos[1])
	}
}

func TestSearchRepositoriesDefaults(t *testing.T) {
	var captured url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r.URL.Query()
		fmt.Fprint(w, `{"items": []}`)
	}))
	defer server.Close()

	testClient(server.URL, "").SearchRepositories(context.Background(), "", "", 0)

	if captured.Get("q") != "language:python" || captured.Get("sort") != "stars" {
		t.Fatalf("defaults not applied: %v", captured)
	}
	if captured.Get("per_page") != "5" {
		t.Fatalf("default per_page = %q", captured.Get("per_page"))
	}
}

func TestSearchRepositoriesClampsLimit(t *testing.T) {
	var captured url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r.URL.Query()
		fmt.Fprint(w, `{"items": []}`)
	}))
	defer server.Close()

	testClient(server.URL, "").SearchRepositories(context.Background(), "q", "stars", 500)

	if captured.Get("per_page") != "100" {
		t.Fatalf("limit not clamped to API max: per_page = %q", captured.Get("per_page"))
	}
}

func TestTrendingRepositoriesQuery(t *testing.T) {
	var captured url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r.URL.Query()
		fmt.Fprint(w, `{"items": []}`)
	}))
	defer server.Close()

	testClient(server.URL, "").TrendingRepositories(context.Background(), "go", 5)

	q := captured.Get("q")
	if !strings.HasPrefix(q, "language:go created:>") {
		t.Fatalf("trending query = %q", q)
	}
	dateStr := strings.TrimPrefix(q, "language:go created:>")
	cutoff, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		t.Fatalf("trending cutoff not a date: %q", dateStr)
	}
	age := time.Since(cutoff)
	if age < 6*24*time.Hour || age > 8*24*time.Hour {
		t.Fatalf("trending cutoff not ~7 days ago: %s", dateStr)
	}
	if captured.Get("sort") != "stars" {
		t.Fatalf("trending sort = %q", captured.Get("sort"))
	}
}

func TestTransportFailureReturnsErrorRecord(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	repos := testClient(server.URL, "").SearchRepositories(context.Background(), "q", "stars", 5)

	if len(repos) != 1 {
		t.Fatalf("expected a single error record, got %d", len(repos))
	}
	if !strings.HasPrefix(repos[0].Error, "GitHub API error:") {
		t.Fatalf("error record = %+v", repos[0])
	}
}

func TestErrorStatusReturnsErrorRecord(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	repos := testClient(server.URL, "").SearchRepositories(context.Background(), "q", "stars", 5)
	if len(repos) != 1 || !strings.Contains(repos[0].Error, "403") {
		t.Fatalf("repos = %+v", repos)
	}
}

func TestAuthorizationHeader(t *testing.T) {
	var header string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header = r.Header.Get("Authorization")
		fmt.Fprint(w, `{"items": []}`)
	}))
	defer server.Close()

	testClient(server.URL, "secret").SearchRepositories(context.Background(), "q", "stars", 5)
	if header != "token secret" {
		t.Fatalf("Authorization = %q", header)
	}

	testClient(server.URL, "").SearchRepositories(context.Background(), "q", "stars", 5)
	if header != "" {
		t.Fatalf("tokenless client must not send Authorization, got %q", header)
	}
}

func TestRepoDetails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/golang/go" {
			t.Errorf("path = %q", r.URL.Path)
		}
		fmt.Fprint(w, `{"name": "go", "description": "The Go programming language",
			"stargazers_count": 120000, "forks_count": 17000, "open_issues_count": 9000,
			"language": "Go", "created_at": "2014-08-19T04:33:40Z", "updated_at": "2026-08-01T00:00:00Z"}`)
	}))
	defer server.Close()

	details := testClient(server.URL, "").RepoDetails(context.Background(), "golang", "go")
	if details.Error != "" {
		t.Fatalf("unexpected error record: %+v", details)
	}
	if details.Name != "go" || details.Stars != 120000 || details.OpenIssues != 9000 {
		t.Fatalf("details = %+v", details)
	}
}

func TestRepoDetailsFailureReturnsErrorRecord(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	details := testClient(server.URL, "").RepoDetails(context.Background(), "nobody", "nothing")
	if !strings.HasPrefix(details.Error, "failed to fetch repo details:") {
		t.Fatalf("details = %+v", details)
	}
}
