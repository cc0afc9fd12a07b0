// Package overpass retrieves raw OSM elements (nodes, ways, relations) from
// an Overpass API endpoint and decodes them into paulmach/osm objects.
package overpass

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/paulmach/osm"
	"github.com/wegman-software/osm2scene-go/internal/logger"
	"github.com/wegman-software/osm2scene-go/internal/proj"
)

// Client queries an Overpass API endpoint
type Client struct {
	endpoint   string
	client     *http.Client
	maxRetries int
	retryDelay time.Duration
}

// NewClient creates an Overpass client for the given endpoint
func NewClient(endpoint string) *Client {
	return &Client{
		endpoint: endpoint,
		client: &http.Client{
			Timeout: 120 * time.Second,
		},
		maxRetries: 3,
		retryDelay: 5 * time.Second,
	}
}

// FetchElements returns all nodes, ways and relations carrying the given tag
// keyword inside the bounding box, plus the recursed-down member nodes.
// An empty result is valid; transport and service errors are returned to the
// caller and are fatal to the pipeline run.
func (c *Client) FetchElements(ctx context.Context, keyword string, bbox proj.BBox) (*osm.OSM, error) {
	log := logger.Get()
	query := buildQuery(keyword, bbox)

	log.Debug("Fetching overpass elements",
		zap.String("keyword", keyword),
		zap.Float64("min_lat", bbox.MinLat),
		zap.Float64("max_lat", bbox.MaxLat))

	body, err := c.fetchWithRetry(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("overpass query for %q failed: %w", keyword, err)
	}

	o, err := decode(body)
	if err != nil {
		return nil, err
	}

	log.Debug("Fetched overpass elements",
		zap.String("keyword", keyword),
		zap.Int("nodes", len(o.Nodes)),
		zap.Int("ways", len(o.Ways)),
		zap.Int("relations", len(o.Relations)))

	return o, nil
}

// buildQuery assembles the Overpass QL union query for one tag keyword.
func buildQuery(keyword string, bbox proj.BBox) string {
	box := fmt.Sprintf("(%f,%f,%f,%f)", bbox.MinLat, bbox.MinLon, bbox.MaxLat, bbox.MaxLon)
	var b strings.Builder
	b.WriteString("[out:json];(")
	for _, kind := range []string{"node", "way", "relation"} {
		fmt.Fprintf(&b, "%s[%q]%s;", kind, keyword, box)
	}
	b.WriteString(");out body;>;out skel qt;")
	return b.String()
}

// fetchWithRetry performs the HTTP request with bounded retries on transport
// and server errors
func (c *Client) fetchWithRetry(ctx context.Context, query string) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.retryDelay):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint,
			strings.NewReader(url.Values{"data": {query}}.Encode()))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("User-Agent", "osm2scene-go/1.0")

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			resp.Body.Close()
			lastErr = fmt.Errorf("server error: %d", resp.StatusCode)
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}
		return body, nil
	}

	return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}
