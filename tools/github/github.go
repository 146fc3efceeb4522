package github

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/mohammad-safakhou/scout/config"
)

// Repo is a normalized GitHub repository record. Transport failures are
// reported in-band: a single-element slice whose only entry has Error set.
type Repo struct {
	Name        string   `json:"name,omitempty"`
	FullName    string   `json:"full_name,omitempty"`
	Description string   `json:"description,omitempty"`
	Stars       int      `json:"stars,omitempty"`
	Forks       int      `json:"forks,omitempty"`
	Language    string   `json:"language,omitempty"`
	URL         string   `json:"url,omitempty"`
	Topics      []string `json:"topics,omitempty"`
	Error       string   `json:"error,omitempty"`
}

// RepoDetails holds detailed information about a single repository.
type RepoDetails struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	Stars       int    `json:"stars,omitempty"`
	Forks       int    `json:"forks,omitempty"`
	OpenIssues  int    `json:"open_issues,omitempty"`
	Language    string `json:"language,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
	UpdatedAt   string `json:"updated_at,omitempty"`
	Error       string `json:"error,omitempty"`
}

type searchResponse struct {
	Items []repoItem `json:"items"`
}

type repoItem struct {
	Name            string   `json:"name"`
	FullName        string   `json:"full_name"`
	Description     *string  `json:"description"`
	StargazersCount int      `json:"stargazers_count"`
	ForksCount      int      `json:"forks_count"`
	OpenIssuesCount int      `json:"open_issues_count"`
	Language        *string  `json:"language"`
	HTMLURL         string   `json:"html_url"`
	Topics          []string `json:"topics"`
	CreatedAt       string   `json:"created_at"`
	UpdatedAt       string   `json:"updated_at"`
}

// Client wraps the GitHub search API
type Client struct {
	token      string
	endpoint   string
	maxResults int
	httpClient *http.Client
	logger     *log.Logger
}

// NewClient creates a new GitHub client. The token is optional and only
// raises rate limits when present.
func NewClient(cfg config.GitHubConfig) *Client {
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
		endpoint = "https://api.github.com"
	}
	return &Client{
		token:      cfg.Token,
		endpoint:   endpoint,
		maxResults: maxResults,
		httpClient: &http.Client{Timeout: timeout},
		logger:     log.New(log.Writer(), "[GITHUB] ", log.LstdFlags),
	}
}

// SearchRepositories searches GitHub repositories sorted by the given field
func (c *Client) SearchRepositories(ctx context.Context, query, sort string, limit int) []Repo {
	if query == "" {
		query = "language:python"
	}
	if sort == "" {
		sort = "stars"
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("sort", sort)
	params.Set("order", "desc")
	params.Set("per_page", fmt.Sprintf("%d", c.clampLimit(limit)))

	reqURL := fmt.Sprintf("%s/search/repositories?%s", c.endpoint, params.Encode())

	var result searchResponse
	if err := c.getJSON(ctx, reqURL, &result); err != nil {
		return []Repo{{Error: fmt.Sprintf("GitHub API error: %v", err)}}
	}

	repos := make([]Repo, 0, len(result.Items))
	for _, item := range result.Items {
		repos = append(repos, Repo{
			Name:        item.Name,
			FullName:    item.FullName,
			Description: strOr(item.Description, "No description"),
			Stars:       item.StargazersCount,
			Forks:       item.ForksCount,
			Language:    strOr(item.Language, "Unknown"),
			URL:         item.HTMLURL,
			Topics:      item.Topics,
		})
	}
	return repos
}

// TrendingRepositories returns repositories created in the last 7 days with
// the most stars. Filtering and ranking happen server-side via the query.
func (c *Client) TrendingRepositories(ctx context.Context, language string, limit int) []Repo {
	if language == "" {
		language = "python"
	}
	weekAgo := time.Now().AddDate(0, 0, -7).Format("2006-01-02")
	query := fmt.Sprintf("language:%s created:>%s", language, weekAgo)
	return c.SearchRepositories(ctx, query, "stars", limit)
}

// RepoDetails fetches detailed information about a specific repository
func (c *Client) RepoDetails(ctx context.Context, owner, repo string) RepoDetails {
	reqURL := fmt.Sprintf("%s/repos/%s/%s", c.endpoint, owner, repo)

	var item repoItem
	if err := c.getJSON(ctx, reqURL, &item); err != nil {
		return RepoDetails{Error: fmt.Sprintf("failed to fetch repo details: %v", err)}
	}

	return RepoDetails{
		Name:        item.Name,
		Description: strOr(item.Description, "No description"),
		Stars:       item.StargazersCount,
		Forks:       item.ForksCount,
		OpenIssues:  item.OpenIssuesCount,
		Language:    strOr(item.Language, "Unknown"),
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
}

func (c *Client) getJSON(ctx context.Context, reqURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "token "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// clampLimit bounds a caller-supplied result count to the API's per_page max
func (c *Client) clampLimit(limit int) int {
	if limit <= 0 {
		return 5
	}
	if limit > c.maxResults {
		return c.maxResults
	}
	return limit
}

func strOr(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}
