package scraper

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bilalmachraa82/alojamento-insight-analyzer/internal/common/config"
	pipeerrors "github.com/bilalmachraa82/alojamento-insight-analyzer/internal/common/errors"
	"github.com/bilalmachraa82/alojamento-insight-analyzer/internal/common/logger"
	"github.com/bilalmachraa82/alojamento-insight-analyzer/internal/models"
)

func newTestClient(baseURL string) *Client {
	return NewClient(config.ScraperConfig{
		BaseURL: baseURL,
		APIKey:  "test-key",
		Timeout: 5,
	}, logger.NewNoOpLogger())
}

func TestScrapeSuccess(t *testing.T) {
	var gotBody scrapeRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/scrape", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"hotel_name":"Casa do Mar","review_score":8.4}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	payload, err := client.Scrape(context.Background(), "https://www.booking.com/hotel/pt/casa.html", models.PlatformBooking)

	require.NoError(t, err)
	assert.Equal(t, "https://www.booking.com/hotel/pt/casa.html", gotBody.URL)
	assert.Equal(t, "booking", gotBody.Platform)
	assert.JSONEq(t, `{"hotel_name":"Casa do Mar","review_score":8.4}`, string(payload))
}

func TestScrapeProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream blocked", http.StatusBadGateway)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Scrape(context.Background(), "https://www.booking.com/hotel/pt/casa.html", models.PlatformBooking)

	require.Error(t, err)
	pe := pipeerrors.AsPipelineError(err)
	assert.Equal(t, pipeerrors.ErrCodeScrapeFailed, pe.Code)
	assert.True(t, pe.Retryable)
}

func TestScrapeTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.Scrape(ctx, "https://www.booking.com/hotel/pt/casa.html", models.PlatformBooking)

	require.Error(t, err)
	pe := pipeerrors.AsPipelineError(err)
	assert.Equal(t, pipeerrors.ErrCodeScrapeTimeout, pe.Code)
	assert.True(t, pe.Retryable)
}

func TestScrapeConnectionRefused(t *testing.T) {
	client := newTestClient("http://127.0.0.1:1")

	_, err := client.Scrape(context.Background(), "https://www.booking.com/hotel/pt/casa.html", models.PlatformBooking)

	require.Error(t, err)
	pe := pipeerrors.AsPipelineError(err)
	assert.Equal(t, pipeerrors.ErrCodeScrapeFailed, pe.Code)
}
