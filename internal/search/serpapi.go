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

const defaultSerpAPIBaseURL = "https://serpapi.com/search.json"

// SerpAPIClient — провайдер поиска поверх SerpAPI (Google engine).
type SerpAPIClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewSerpAPIClient создает клиент SerpAPI. baseURL переопределяется в тестах.
func NewSerpAPIClient(apiKey string, timeout time.Duration, baseURL string) *SerpAPIClient {
	if baseURL == "" {
		baseURL = defaultSerpAPIBaseURL
	}
	return &SerpAPIClient{
		apiKey:  apiKey,
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// Name возвращает имя провайдера.
func (c *SerpAPIClient) Name() string { return "serpapi" }

// serpAPIResponse — подмножество ответа SerpAPI, которое нам нужно.
type serpAPIResponse struct {
	OrganicResults []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"organic_results"`
	Error string `json:"error"`
}

// Search выполняет один запрос к SerpAPI.
func (c *SerpAPIClient) Search(ctx context.Context, query string) ([]Result, error) {
	params := url.Values{}
	params.Set("engine", "google")
	params.Set("q", query)
	params.Set("api_key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSearchFailed, err)
	}

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
		return nil, fmt.Errorf("%w: serpapi returned status %d", ErrSearchFailed, resp.StatusCode)
	}

	var parsed serpAPIResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: malformed response: %v", ErrSearchFailed, err)
	}
	if parsed.Error != "" {
		return nil, fmt.Errorf("%w: serpapi: %s", ErrSearchFailed, parsed.Error)
	}

	results := make([]Result, 0, len(parsed.OrganicResults))
	for _, r := range parsed.OrganicResults {
		results = append(results, Result{Title: r.Title, URL: r.Link, Snippet: r.Snippet})
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("%w: serpapi returned no results", ErrSearchFailed)
	}
	return results, nil
}
