// Package poetory finds short poems on poetory.ru.
package poetory

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand/v2"
	"net/http"
	"net/url"

	"github.com/karfly/WeatherBletherBot/internal/htmlutil"
	"github.com/karfly/WeatherBletherBot/internal/httputil"
	"github.com/karfly/WeatherBletherBot/internal/metrics"
	"github.com/karfly/WeatherBletherBot/internal/models"
)

const (
	searchURL = "http://poetory.ru/content/list"
	// DefaultQuery is searched when the original query finds nothing.
	DefaultQuery = "погода"
)

type Client struct {
	baseURL string
	fetch   *httputil.Fetcher
	pick    func(n int) int
}

func NewClient(client *http.Client) *Client {
	return &Client{
		baseURL: searchURL,
		fetch:   httputil.NewFetcher("poetory", client),
		pick:    rand.IntN,
	}
}

// SetBaseURL overrides the search endpoint.
func (c *Client) SetBaseURL(u string) {
	c.baseURL = u
}

// FindPoem returns a random poem matching query. If nothing matches it
// searches once more with DefaultQuery before giving up with
// models.ErrNoResults.
func (c *Client) FindPoem(ctx context.Context, query string) (string, error) {
	var lastErr error
	for i, q := range searchQueries(query) {
		if i > 0 {
			metrics.PoemFallbacks.Inc()
			log.Printf("poetory: no poems for %q, retrying with %q", query, q)
		}
		poem, err := c.search(ctx, q)
		if err == nil {
			return poem, nil
		}
		if !errors.Is(err, models.ErrNoResults) {
			return "", err
		}
		lastErr = err
	}
	return "", lastErr
}

func searchQueries(query string) []string {
	if query == DefaultQuery {
		return []string{query}
	}
	return []string{query, DefaultQuery}
}

func (c *Client) search(ctx context.Context, query string) (string, error) {
	params := url.Values{"query": {query}}
	body, err := c.fetch.Get(ctx, c.baseURL+"?"+params.Encode(), http.Header{})
	if err != nil {
		return "", fmt.Errorf("poem search: %w", err)
	}

	items, err := htmlutil.FindByClass(body, "div", "item-text")
	if err != nil {
		return "", fmt.Errorf("poem search: %w", err)
	}

	var poems []string
	for _, item := range items {
		if text := htmlutil.ToText(item.InnerHTML()); text != "" {
			poems = append(poems, text)
		}
	}
	if len(poems) == 0 {
		return "", fmt.Errorf("poem search %q: %w", query, models.ErrNoResults)
	}
	return poems[c.pick(len(poems))], nil
}
