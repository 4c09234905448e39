package news

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/mkopaniuk/city-news/internal/models"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client queries the NewsAPI "everything" endpoint with fixed locale
// and recency sorting.
type Client struct {
	APIKey   string
	apiURL   string
	language string
	client   HTTPClient
	logger   *log.Logger
}

func NewClient(apiKey, apiURL, language string, httpClient HTTPClient, logger *log.Logger) *Client {
	return &Client{
		APIKey:   apiKey,
		apiURL:   apiURL,
		language: language,
		client:   httpClient,
		logger:   logger,
	}
}

func (c *Client) Fetch(ctx context.Context, query string, pageSize int) ([]models.Article, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("language", c.language)
	params.Set("sortBy", "publishedAt")
	params.Set("apiKey", c.APIKey)
	params.Set("pageSize", strconv.Itoa(pageSize))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.apiURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			c.logger.Printf("failed to close response body: %v", err)
		}
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("news API error: status %s", resp.Status)
	}

	var raw struct {
		Articles []models.Article `json:"articles"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, err
	}

	return raw.Articles, nil
}
