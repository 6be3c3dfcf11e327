// Package market computes comparable-market benchmarks for a property:
// estimated rates, saturation, seasonal trends and a price recommendation.
package market

import (
	"context"
	"fmt"
	"time"

	"github.com/bilalmachraa82/alojamento-insight-analyzer/internal/common/logger"
	"github.com/bilalmachraa82/alojamento-insight-analyzer/internal/models"
)

const baseRate = 80.0

// propertyTypeFactors are the fixed multipliers applied to the base rate.
var propertyTypeFactors = map[string]float64{
	"entire_place": 1.2,
	"house":        1.3,
	"apartment":    1.0,
	"hotel":        0.9,
	"private_room": 0.7,
	"shared_room":  0.4,
}

// premiumAmenities each add a fixed uplift to the estimated rate.
var premiumAmenities = map[string]bool{
	"pool":             true,
	"wifi":             true,
	"kitchen":          true,
	"parking":          true,
	"air_conditioning": true,
}

// fixedSeasonal are the seasonal multipliers applied to the average rate.
var fixedSeasonal = models.SeasonalMultipliers{
	Spring: 0.9,
	Summer: 1.2,
	Fall:   0.95,
	Winter: 0.85,
}

// CompSource supplies the comparable competitor set for a property.
type CompSource interface {
	FindComps(ctx context.Context, property models.CompProperty) ([]models.CompProperty, error)
}

// Estimator benchmarks a property against its comp set. It never fails:
// any upstream data-source error degrades to a fixed default insight.
type Estimator struct {
	comps  CompSource
	logger logger.Logger
}

func NewEstimator(comps CompSource, log logger.Logger) *Estimator {
	return &Estimator{
		comps:  comps,
		logger: log.WithFields(map[string]interface{}{"component": "market-estimator"}),
	}
}

// EstimateRate computes the nightly rate estimate for one property.
func EstimateRate(p models.CompProperty) float64 {
	factor, ok := propertyTypeFactors[p.PropertyType]
	if !ok {
		factor = 1.0
	}
	rate := baseRate * factor

	if p.GuestCapacity > 2 {
		rate += float64(p.GuestCapacity-2) * 15
	}
	rate += float64(p.Bedrooms) * 20

	for _, amenity := range p.Amenities {
		if premiumAmenities[amenity] {
			rate += 10
		}
	}
	return rate
}

// AnalyzeMarket benchmarks the property against its comp set. photoCount,
// amenityCount and lastAnalyzed feed the quality multiplier on the
// suggested price.
func (e *Estimator) AnalyzeMarket(ctx context.Context, property models.CompProperty, photoCount int, lastAnalyzed time.Time) models.MarketInsight {
	comps, err := e.comps.FindComps(ctx, property)
	if err != nil {
		e.logger.Warn("comp source unavailable, using default insight", map[string]interface{}{
			"propertyId": property.ID,
			"error":      err.Error(),
		})
		return DefaultInsight()
	}

	return e.analyze(property, comps, photoCount, lastAnalyzed)
}

func (e *Estimator) analyze(property models.CompProperty, comps []models.CompProperty, photoCount int, lastAnalyzed time.Time) models.MarketInsight {
	if len(comps) == 0 {
		return DefaultInsight()
	}

	var total float64
	for _, comp := range comps {
		total += EstimateRate(comp)
	}
	avgRate := total / float64(len(comps))

	quality := qualityMultiplier(photoCount, len(property.Amenities), lastAnalyzed)
	suggested := avgRate * quality

	insight := models.MarketInsight{
		AverageMarketRate: avgRate,
		OccupancyEstimate: occupancyForSaturation(len(comps)),
		CompetitorCount:   len(comps),
		Saturation:        saturationTier(len(comps)),
		Seasonal:          fixedSeasonal,
		SeasonalRates: map[string]float64{
			"spring": avgRate * fixedSeasonal.Spring,
			"summer": avgRate * fixedSeasonal.Summer,
			"fall":   avgRate * fixedSeasonal.Fall,
			"winter": avgRate * fixedSeasonal.Winter,
		},
		SuggestedPrice: suggested,
		PriceBand: models.PriceBand{
			Min: suggested * 0.8,
			Max: suggested * 1.3,
		},
		Rationale: fmt.Sprintf(
			"Based on %d comparable properties averaging %.0f per night; quality multiplier %.2f applied.",
			len(comps), avgRate, quality,
		),
	}
	return insight
}

// qualityMultiplier starts at 1.0 and grows with listing completeness,
// capped at 1.5.
func qualityMultiplier(photoCount, amenityCount int, lastAnalyzed time.Time) float64 {
	m := 1.0
	if photoCount > 10 {
		m += 0.1
	}
	if photoCount > 20 {
		m += 0.05
	}
	if amenityCount > 10 {
		m += 0.15
	}
	if amenityCount > 20 {
		m += 0.1
	}
	if !lastAnalyzed.IsZero() && time.Since(lastAnalyzed) <= 30*24*time.Hour {
		m += 0.05
	}
	if m > 1.5 {
		m = 1.5
	}
	return m
}

func saturationTier(compCount int) models.SaturationTier {
	switch {
	case compCount > 15:
		return models.SaturationHigh
	case compCount > 8:
		return models.SaturationMedium
	default:
		return models.SaturationLow
	}
}

// occupancyForSaturation gives a coarse occupancy estimate: crowded
// markets run lower per-listing occupancy.
func occupancyForSaturation(compCount int) float64 {
	switch {
	case compCount > 15:
		return 55
	case compCount > 8:
		return 65
	default:
		return 70
	}
}

// DefaultInsight is returned whenever the comp set cannot be obtained.
func DefaultInsight() models.MarketInsight {
	suggested := baseRate
	return models.MarketInsight{
		AverageMarketRate: baseRate,
		OccupancyEstimate: 65,
		CompetitorCount:   0,
		Saturation:        models.SaturationLow,
		Seasonal:          fixedSeasonal,
		SeasonalRates: map[string]float64{
			"spring": baseRate * fixedSeasonal.Spring,
			"summer": baseRate * fixedSeasonal.Summer,
			"fall":   baseRate * fixedSeasonal.Fall,
			"winter": baseRate * fixedSeasonal.Winter,
		},
		SuggestedPrice: suggested,
		PriceBand: models.PriceBand{
			Min: suggested * 0.8,
			Max: suggested * 1.3,
		},
		Rationale: "Market data unavailable; baseline insight returned.",
	}
}
