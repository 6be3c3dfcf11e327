package market

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bilalmachraa82/alojamento-insight-analyzer/internal/common/logger"
	"github.com/bilalmachraa82/alojamento-insight-analyzer/internal/models"
)

type stubCompSource struct {
	comps []models.CompProperty
	err   error
}

func (s *stubCompSource) FindComps(ctx context.Context, property models.CompProperty) ([]models.CompProperty, error) {
	return s.comps, s.err
}

func TestEstimateRate(t *testing.T) {
	tests := []struct {
		name     string
		property models.CompProperty
		expected float64
	}{
		{
			name:     "base apartment",
			property: models.CompProperty{PropertyType: "apartment"},
			expected: 80,
		},
		{
			name:     "house with capacity and bedrooms",
			property: models.CompProperty{PropertyType: "house", GuestCapacity: 6, Bedrooms: 3},
			// 80*1.3 + 4*15 + 3*20
			expected: 224,
		},
		{
			name: "premium amenities each add ten",
			property: models.CompProperty{
				PropertyType: "apartment",
				Amenities:    []string{"pool", "wifi", "sauna"},
			},
			expected: 100,
		},
		{
			name:     "shared room discounted",
			property: models.CompProperty{PropertyType: "shared_room"},
			expected: 32,
		},
		{
			name:     "unknown type uses neutral factor",
			property: models.CompProperty{PropertyType: "castle"},
			expected: 80,
		},
		{
			name:     "capacity of two adds nothing",
			property: models.CompProperty{PropertyType: "apartment", GuestCapacity: 2},
			expected: 80,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, EstimateRate(tt.property), 0.001)
		})
	}
}

func TestAnalyzeMarketSaturation(t *testing.T) {
	tests := []struct {
		name      string
		compCount int
		expected  models.SaturationTier
	}{
		{"low at eight", 8, models.SaturationLow},
		{"medium at nine", 9, models.SaturationMedium},
		{"medium at fifteen", 15, models.SaturationMedium},
		{"high at sixteen", 16, models.SaturationHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			comps := make([]models.CompProperty, tt.compCount)
			for i := range comps {
				comps[i] = models.CompProperty{PropertyType: "apartment"}
			}
			est := NewEstimator(&stubCompSource{comps: comps}, logger.NewNoOpLogger())

			insight := est.AnalyzeMarket(context.Background(), models.CompProperty{ID: "p1"}, 0, time.Time{})
			assert.Equal(t, tt.expected, insight.Saturation)
			assert.Equal(t, tt.compCount, insight.CompetitorCount)
		})
	}
}

func TestAnalyzeMarketSeasonalAndBand(t *testing.T) {
	comps := []models.CompProperty{
		{PropertyType: "apartment"},
		{PropertyType: "apartment"},
	}
	est := NewEstimator(&stubCompSource{comps: comps}, logger.NewNoOpLogger())

	insight := est.AnalyzeMarket(context.Background(), models.CompProperty{ID: "p1"}, 0, time.Time{})

	assert.InDelta(t, 80.0, insight.AverageMarketRate, 0.001)
	assert.InDelta(t, 80*0.9, insight.SeasonalRates["spring"], 0.001)
	assert.InDelta(t, 80*1.2, insight.SeasonalRates["summer"], 0.001)
	assert.InDelta(t, 80*0.95, insight.SeasonalRates["fall"], 0.001)
	assert.InDelta(t, 80*0.85, insight.SeasonalRates["winter"], 0.001)

	assert.InDelta(t, insight.SuggestedPrice*0.8, insight.PriceBand.Min, 0.001)
	assert.InDelta(t, insight.SuggestedPrice*1.3, insight.PriceBand.Max, 0.001)
}

func TestQualityMultiplier(t *testing.T) {
	tests := []struct {
		name         string
		photos       int
		amenities    int
		lastAnalyzed time.Time
		expected     float64
	}{
		{"bare listing", 0, 0, time.Time{}, 1.0},
		{"eleven photos", 11, 0, time.Time{}, 1.1},
		{"many photos", 21, 0, time.Time{}, 1.15},
		{"eleven amenities", 0, 11, time.Time{}, 1.15},
		{"many amenities", 0, 21, time.Time{}, 1.25},
		{"recent analysis", 0, 0, time.Now().Add(-24 * time.Hour), 1.05},
		{"stale analysis adds nothing", 0, 0, time.Now().Add(-60 * 24 * time.Hour), 1.0},
		{"capped at one point five", 25, 25, time.Now(), 1.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, qualityMultiplier(tt.photos, tt.amenities, tt.lastAnalyzed), 0.001)
		})
	}
}

func TestAnalyzeMarketQualityAppliedToPrice(t *testing.T) {
	comps := []models.CompProperty{{PropertyType: "apartment"}}
	property := models.CompProperty{
		ID:        "p1",
		Amenities: make([]string, 12),
	}
	est := NewEstimator(&stubCompSource{comps: comps}, logger.NewNoOpLogger())

	insight := est.AnalyzeMarket(context.Background(), property, 12, time.Time{})

	// avg 80, multiplier 1.0 + 0.1 (photos) + 0.15 (amenities)
	assert.InDelta(t, 80*1.25, insight.SuggestedPrice, 0.001)
}

func TestAnalyzeMarketFallsBackOnSourceError(t *testing.T) {
	est := NewEstimator(&stubCompSource{err: errors.New("search unavailable")}, logger.NewNoOpLogger())

	insight := est.AnalyzeMarket(context.Background(), models.CompProperty{ID: "p1"}, 0, time.Time{})

	assert.Equal(t, DefaultInsight(), insight)
	assert.Equal(t, 0, insight.CompetitorCount)
	assert.Equal(t, models.SaturationLow, insight.Saturation)
}

func TestAnalyzeMarketFallsBackOnEmptyCompSet(t *testing.T) {
	est := NewEstimator(&stubCompSource{}, logger.NewNoOpLogger())

	insight := est.AnalyzeMarket(context.Background(), models.CompProperty{ID: "p1"}, 0, time.Time{})
	assert.Equal(t, DefaultInsight(), insight)
}
