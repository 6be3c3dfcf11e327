// Package scoring computes the composite Health Score from canonical
// property fields. Pure functions, no side effects.
package scoring

import (
	"math"

	"github.com/bilalmachraa82/alojamento-insight-analyzer/internal/models"
)

// Fixed weight ceilings for each breakdown component.
const (
	CapClassificacao         = 25.0
	CapPresencaDigital       = 20.0
	CapPerformanceFinanceira = 20.0
	CapInfraestrutura        = 12.0
	CapExperienciaHospede    = 8.0
	CapGestaoReputacao       = 8.0
)

// CalculateHealthScore computes the composite 0-100 score. rating is on the
// common 5-point scale; priceCompetitiveness is 0..1.
func CalculateHealthScore(rating float64, reviewCount int, hasPhotos, hasDescription bool, priceCompetitiveness float64) models.HealthScore {
	breakdown := models.ScoreBreakdown{
		Classificacao:         clamp(rating/5.0*25.0, CapClassificacao),
		PresencaDigital:       clamp(presencaDigital(reviewCount, hasPhotos, hasDescription), CapPresencaDigital),
		PerformanceFinanceira: clamp(priceCompetitiveness*20.0, CapPerformanceFinanceira),
		Infraestrutura:        clamp(infraestrutura(rating), CapInfraestrutura),
		ExperienciaHospede:    clamp(experienciaHospede(hasPhotos, hasDescription), CapExperienciaHospede),
		GestaoReputacao:       clamp(gestaoReputacao(reviewCount), CapGestaoReputacao),
	}

	total := int(math.Round(breakdown.Sum()))

	return models.HealthScore{
		Total:     total,
		Breakdown: breakdown,
		Category:  Categorize(total),
	}
}

// Categorize maps a total score onto the four ordered tiers.
func Categorize(total int) models.ScoreCategory {
	switch {
	case total >= 85:
		return models.CategoryExcellent
	case total >= 70:
		return models.CategoryGood
	case total >= 50:
		return models.CategoryMedium
	default:
		return models.CategoryCritical
	}
}

func presencaDigital(reviewCount int, hasPhotos, hasDescription bool) float64 {
	score := 0.0
	if hasPhotos {
		score += 10
	}
	if hasDescription {
		score += 5
	}
	score += math.Min(float64(reviewCount)/10.0, 5.0)
	return score
}

func infraestrutura(rating float64) float64 {
	switch {
	case rating >= 4:
		return 12
	case rating >= 3:
		return 8
	default:
		return 4
	}
}

func experienciaHospede(hasPhotos, hasDescription bool) float64 {
	if hasPhotos && hasDescription {
		return 8
	}
	return 5
}

func gestaoReputacao(reviewCount int) float64 {
	switch {
	case reviewCount > 10:
		return 8
	case reviewCount > 5:
		return 6
	default:
		return 3
	}
}

func clamp(v, ceiling float64) float64 {
	if v < 0 {
		return 0
	}
	if v > ceiling {
		return ceiling
	}
	return v
}
