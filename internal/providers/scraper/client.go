// Package scraper calls the external retrieval provider that fetches a
// raw listing payload for a property URL.
package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bilalmachraa82/alojamento-insight-analyzer/internal/common/config"
	"github.com/bilalmachraa82/alojamento-insight-analyzer/internal/common/errors"
	"github.com/bilalmachraa82/alojamento-insight-analyzer/internal/common/httpclient"
	"github.com/bilalmachraa82/alojamento-insight-analyzer/internal/common/logger"
	"github.com/bilalmachraa82/alojamento-insight-analyzer/internal/models"
)

const maxResponseBytes = 4 << 20

// Client is the HTTP client for the retrieval provider.
type Client struct {
	baseURL string
	apiKey  string
	http    *httpclient.Client
	logger  logger.Logger
}

func NewClient(cfg config.ScraperConfig, log logger.Logger) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		http:    httpclient.NewClient(time.Duration(cfg.Timeout) * time.Second),
		logger:  log.WithFields(map[string]interface{}{"component": "scraper-client"}),
	}
}

type scrapeRequest struct {
	URL      string `json:"url"`
	Platform string `json:"platform"`
}

// Scrape fetches the raw provider payload for one listing. The payload
// is returned opaque; the adapter layer interprets it.
func (c *Client) Scrape(ctx context.Context, propertyURL string, platform models.Platform) (json.RawMessage, error) {
	body, err := json.Marshal(scrapeRequest{URL: propertyURL, Platform: string(platform)})
	if err != nil {
		return nil, errors.NewScrapeFailedError(fmt.Errorf("encode scrape request: %w", err))
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/v1/scrape", bytes.NewReader(body))
	if err != nil {
		return nil, errors.NewScrapeFailedError(fmt.Errorf("build scrape request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	started := time.Now()
	resp, err := c.http.DoWithContext(ctx, req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, errors.NewScrapeTimeoutError()
		}
		return nil, errors.NewScrapeFailedError(err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, errors.NewScrapeFailedError(fmt.Errorf("read scrape response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("scrape provider returned non-200", map[string]interface{}{
			"status":   resp.StatusCode,
			"platform": platform,
		})
		return nil, errors.NewScrapeFailedError(fmt.Errorf("provider status %d: %s", resp.StatusCode, truncate(payload, 256)))
	}

	c.logger.Info("scrape completed", map[string]interface{}{
		"platform":   platform,
		"durationMs": time.Since(started).Milliseconds(),
		"bytes":      len(payload),
	})
	return payload, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
