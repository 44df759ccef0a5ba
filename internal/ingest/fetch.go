package ingest

import (
	"context"
	"fmt"
	"io"
	"math"
	"math/rand"
	"net/http"
	"net/url"
	"time"

	json "github.com/goccy/go-json"

	"go-basket-analytics/internal/model"
)

// Client fetches order history from a commerce REST API.
type Client struct {
	BaseURL string // e.g. https://shop.example.com/wp-json/wc/v3
	Key     string // basic-auth consumer key
	Secret  string // basic-auth consumer secret
	PerPage int
	Retry   model.RetryConfig

	HTTPClient *http.Client
}

// NewClient builds a fetch client with sensible defaults.
func NewClient(baseURL, key, secret string) *Client {
	return &Client{
		BaseURL:    baseURL,
		Key:        key,
		Secret:     secret,
		PerPage:    100,
		Retry:      model.DefaultFetchRetry,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// FetchAllOrders paginates through the orders endpoint until an empty page,
// retrying transient failures per page and deduplicating by order ID across
// pages (the remote set can shift while we paginate).
func (c *Client) FetchAllOrders(ctx context.Context) ([]model.Order, error) {
	var orders []model.Order
	seen := make(map[int64]bool)

	for page := 1; ; page++ {
		batch, err := c.fetchPageWithRetry(ctx, page)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch orders page %d: %w", page, err)
		}
		if len(batch) == 0 {
			break
		}

		added := 0
		for _, o := range batch {
			if seen[o.ID] {
				continue
			}
			seen[o.ID] = true
			orders = append(orders, o)
			added++
		}
		fmt.Printf("➡️ Fetched page %d: %d orders (%d new, %d total)\n", page, len(batch), added, len(orders))

		if len(batch) < c.PerPage {
			break
		}
	}

	fmt.Printf("✅ Order fetch complete: %d orders\n", len(orders))
	return orders, nil
}

// fetchPageWithRetry applies exponential backoff with optional jitter
// around one page fetch.
func (c *Client) fetchPageWithRetry(ctx context.Context, page int) ([]model.Order, error) {
	var lastErr error
	for attempt := 1; attempt <= c.Retry.MaxAttempts; attempt++ {
		batch, err := c.fetchPage(ctx, page)
		if err == nil {
			return batch, nil
		}
		lastErr = err

		if attempt == c.Retry.MaxAttempts {
			break
		}
		delay := backoffDelay(c.Retry, attempt)
		fmt.Printf("⚠️ Page %d attempt %d failed (%v), retrying in %v\n", page, attempt, err, delay)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}
	return nil, lastErr
}

func (c *Client) fetchPage(ctx context.Context, page int) ([]model.Order, error) {
	u, err := url.Parse(c.BaseURL + "/orders")
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	q := u.Query()
	q.Set("page", fmt.Sprintf("%d", page))
	q.Set("per_page", fmt.Sprintf("%d", c.PerPage))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	if c.Key != "" {
		req.SetBasicAuth(c.Key, c.Secret)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var batch []model.Order
	if err := json.Unmarshal(body, &batch); err != nil {
		return nil, fmt.Errorf("failed to decode orders page: %w", err)
	}
	return batch, nil
}

// backoffDelay computes the delay before retry attempt+1.
func backoffDelay(cfg model.RetryConfig, attempt int) time.Duration {
	delay := float64(cfg.InitialDelay) * math.Pow(cfg.BackoffFactor, float64(attempt-1))
	if max := float64(cfg.MaxDelay); delay > max {
		delay = max
	}
	if cfg.Jitter {
		// up to 25% random spread to avoid synchronized retries
		delay += delay * 0.25 * rand.Float64()
	}
	return time.Duration(delay)
}

// RefreshSnapshot fetches the full order history and persists it at path.
func RefreshSnapshot(ctx context.Context, client *Client, path string) (model.SnapshotInfo, error) {
	orders, err := client.FetchAllOrders(ctx)
	if err != nil {
		return model.SnapshotInfo{}, err
	}
	return SaveSnapshot(path, orders)
}
