package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const defaultBraveBaseURL = "https://api.search.brave.com/res/v1/web/search"

// BraveClient — провайдер поиска поверх Brave Search API.
type BraveClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewBraveClient создает клиент Brave Search. baseURL переопределяется в тестах.
func NewBraveClient(apiKey string, timeout time.Duration, baseURL string) *BraveClient {
	if baseURL == "" {
		baseURL = defaultBraveBaseURL
	}
	return &BraveClient{
		apiKey:  apiKey,
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// Name возвращает имя провайдера.
func (c *BraveClient) Name() string { return "brave" }

// braveResponse — подмножество ответа Brave Web Search API.
type braveResponse struct {
	Web struct {
		Results []struct {
			Title       string `json:"title"`
			URL         string `json:"url"`
			Description string `json:"description"`
		} `json:"results"`
	} `json:"web"`
}

// Search выполняет один запрос к Brave Search API.
func (c *BraveClient) Search(ctx context.Context, query string) ([]Result, error) {
	params := url.Values{}
	params.Set("q", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSearchFailed, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSearchFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrSearchFailed, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: brave returned status %d", ErrSearchFailed, resp.StatusCode)
	}

	var parsed braveResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: malformed response: %v", ErrSearchFailed, err)
	}

	results := make([]Result, 0, len(parsed.Web.Results))
	for _, r := range parsed.Web.Results {
		results = append(results, Result{Title: r.Title, URL: r.URL, Snippet: r.Description})
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("%w: brave returned no results", ErrSearchFailed)
	}
	return results, nil
}
