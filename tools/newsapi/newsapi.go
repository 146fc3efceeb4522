package newsapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/mohammad-safakhou/scout/config"
)

// Article is a normalized NewsAPI article record. Transport and API failures
// are reported in-band: a single-element slice whose only entry has Error set.
type Article struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Source      string `json:"source,omitempty"`
	Author      string `json:"author,omitempty"`
	URL         string `json:"url,omitempty"`
	PublishedAt string `json:"published_at,omitempty"`
	Content     string `json:"content,omitempty"`
	Error       string `json:"error,omitempty"`
}

type apiResponse struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Articles []struct {
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		Author      string `json:"author"`
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		PublishedAt string `json:"publishedAt"`
		Content     string `json:"content"`
	} `json:"articles"`
}

const contentExcerptLimit = 200

// Client wraps the NewsAPI HTTP API
type Client struct {
	apiKey     string
	endpoint   string
	maxResults int
	httpClient *http.Client
	logger     *log.Logger
}

// NewClient creates a new NewsAPI client. The API key is required.
func NewClient(cfg config.NewsAPIConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("newsapi key is required")
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 100
	}
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = "https://newsapi.org/v2"
	}
	return &Client{
		apiKey:     cfg.APIKey,
		endpoint:   endpoint,
		maxResults: maxResults,
		httpClient: &http.Client{Timeout: timeout},
		logger:     log.New(log.Writer(), "[NEWSAPI] ", log.LstdFlags),
	}, nil
}

// Everything fetches recent articles matching the query from the last 7 days,
// sorted by publication time.
func (c *Client) Everything(ctx context.Context, query string, limit int) []Article {
	if query == "" {
		query = "technology"
	}
	fromDate := time.Now().AddDate(0, 0, -7).Format("2006-01-02")

	params := url.Values{}
	params.Set("q", query)
	params.Set("apiKey", c.apiKey)
	params.Set("language", "en")
	params.Set("sortBy", "publishedAt")
	params.Set("from", fromDate)
	params.Set("pageSize", fmt.Sprintf("%d", c.clampLimit(limit)))

	return c.fetch(ctx, fmt.Sprintf("%s/everything?%s", c.endpoint, params.Encode()), true)
}

// TopHeadlines fetches top headlines for a category and country
func (c *Client) TopHeadlines(ctx context.Context, category, country string, limit int) []Article {
	if category == "" {
		category = "technology"
	}
	if country == "" {
		country = "us"
	}

	params := url.Values{}
	params.Set("apiKey", c.apiKey)
	params.Set("category", category)
	params.Set("country", country)
	params.Set("pageSize", fmt.Sprintf("%d", c.clampLimit(limit)))

	return c.fetch(ctx, fmt.Sprintf("%s/top-headlines?%s", c.endpoint, params.Encode()), false)
}

func (c *Client) fetch(ctx context.Context, reqURL string, includeContent bool) []Article {
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return []Article{{Error: fmt.Sprintf("NewsAPI request failed: %v", err)}}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return []Article{{Error: fmt.Sprintf("NewsAPI request failed: %v", err)}}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return []Article{{Error: fmt.Sprintf("NewsAPI request failed: unexpected status %s", resp.Status)}}
	}

	var result apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return []Article{{Error: fmt.Sprintf("NewsAPI request failed: %v", err)}}
	}

	if result.Status != "ok" {
		msg := result.Message
		if msg == "" {
			msg = "Unknown error"
		}
		return []Article{{Error: fmt.Sprintf("NewsAPI error: %s", msg)}}
	}

	articles := make([]Article, 0, len(result.Articles))
	for _, a := range result.Articles {
		article := Article{
			Title:       fallback(a.Title, "No title"),
			Description: fallback(a.Description, "No description"),
			Source:      fallback(a.Source.Name, "Unknown"),
			Author:      fallback(a.Author, "Unknown"),
			URL:         a.URL,
			PublishedAt: a.PublishedAt,
		}
		if includeContent {
			article.Content = truncate(a.Content, contentExcerptLimit)
		}
		articles = append(articles, article)
	}
	return articles
}

// clampLimit bounds a caller-supplied result count to the API's pageSize max
func (c *Client) clampLimit(limit int) int {
	if limit <= 0 {
		return 5
	}
	if limit > c.maxResults {
		return c.maxResults
	}
	return limit
}

func fallback(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
