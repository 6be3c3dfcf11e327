// Package normalize converts per-source intermediate data into the
// canonical ProcessedPropertyData model. It owns the price, amenity,
// rating-scale and occupancy extraction heuristics.
package normalize

import (
	"sort"
	"strings"

	"github.com/bilalmachraa82/alojamento-insight-analyzer/internal/models"
)

// NoPriceMarker is stored when no valid price could be extracted.
const NoPriceMarker = models.NoPrice

// Engine dispatches normalization by platform.
type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

// Normalize converts an intermediate property into the canonical model.
// Platform matching is case-insensitive; unrecognized platforms fall back
// to the generic normalizer. Normalization is deterministic: identical
// input always yields field-for-field identical output.
func (e *Engine) Normalize(platform string, im models.IntermediateProperty) models.ProcessedPropertyData {
	p, ok := models.ParsePlatform(platform)
	if !ok {
		return e.normalizeWith(im, 5)
	}
	return e.normalizeWith(im, defaultRatingScale(p))
}

// defaultRatingScale is the scale a platform reports ratings on when the
// payload does not declare one. Booking-style sources use 10 points.
func defaultRatingScale(p models.Platform) float64 {
	switch p {
	case models.PlatformBooking, models.PlatformAgoda, models.PlatformExpedia, models.PlatformHotels:
		return 10
	default:
		return 5
	}
}

func (e *Engine) normalizeWith(im models.IntermediateProperty, fallbackScale float64) models.ProcessedPropertyData {
	name := strings.TrimSpace(im.Name)
	if name == "" {
		name = models.PlaceholderName
	}
	location := strings.TrimSpace(im.Location)
	if location == "" {
		location = models.PlaceholderLocation
	}

	scale := im.RatingScale
	if scale == 0 {
		scale = fallbackScale
	}
	rating := NormalizeRating(im.Rating, scale)

	occupancy := im.OccupancyRate
	if occupancy == 0 {
		if im.TotalDays > 0 {
			occupancy = float64(im.TotalDays-im.AvailableDays) / float64(im.TotalDays) * 100
		} else {
			occupancy = EstimateOccupancy(im.ReviewCount, im.Rating)
		}
	}

	adr, _ := ExtractPrice(im.RawPrice)

	pricing := models.Pricing{
		BasePrice: PriceString(im.RawPrice),
		Currency:  im.Currency,
	}
	if im.CleaningFee != "" {
		pricing.CleaningFee = PriceString(im.CleaningFee)
	}

	return models.ProcessedPropertyData{
		BasicInfo: models.BasicInfo{
			Name:        name,
			Location:    location,
			Type:        strings.TrimSpace(im.PropertyType),
			Description: strings.TrimSpace(im.Description),
		},
		Performance: models.Performance{
			Rating:           rating,
			ReviewCount:      im.ReviewCount,
			OccupancyRate:    occupancy,
			AverageDailyRate: adr,
		},
		Amenities: ExtractAmenities(im.Amenities),
		Photos:    append([]string(nil), im.Photos...),
		Pricing:   pricing,
		Policies: models.Policies{
			CheckIn:      im.CheckIn,
			CheckOut:     im.CheckOut,
			Cancellation: im.Cancellation,
			HouseRules:   append([]string(nil), im.HouseRules...),
		},
	}
}

// NormalizeRating converts a rating from its declared scale onto the
// common 5-point scale.
func NormalizeRating(rating, scale float64) float64 {
	switch scale {
	case 100:
		return rating / 20
	case 10:
		return rating / 2
	default:
		return rating
	}
}

// EstimateOccupancy derives an occupancy percentage from review activity
// when no explicit occupancy or availability field exists. Tiers are fixed.
func EstimateOccupancy(reviewCount int, rating float64) float64 {
	switch {
	case reviewCount > 50 && rating > 4.0:
		return 75
	case reviewCount > 20 && rating > 3.5:
		return 65
	case reviewCount > 10:
		return 55
	default:
		return 45
	}
}

// ExtractAmenities accepts the shapes sources actually send: an array of
// strings, an array of {name|title} objects, or a map of boolean flags
// where only truthy keys count. Any other shape yields an empty set.
func ExtractAmenities(v interface{}) []string {
	out := []string{}
	switch t := v.(type) {
	case []string:
		for _, s := range t {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	case []interface{}:
		for _, item := range t {
			switch entry := item.(type) {
			case string:
				if s := strings.TrimSpace(entry); s != "" {
					out = append(out, s)
				}
			case map[string]interface{}:
				if name, ok := entry["name"].(string); ok && strings.TrimSpace(name) != "" {
					out = append(out, strings.TrimSpace(name))
				} else if title, ok := entry["title"].(string); ok && strings.TrimSpace(title) != "" {
					out = append(out, strings.TrimSpace(title))
				}
			}
		}
	case map[string]interface{}:
		for key, flag := range t {
			if truthy(flag) {
				out = append(out, key)
			}
		}
		sort.Strings(out) // map order is random; keep output deterministic
	case map[string]bool:
		for key, flag := range t {
			if flag {
				out = append(out, key)
			}
		}
		sort.Strings(out)
	}
	return out
}

func truthy(v interface{}) bool {
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		return t == "true" || t == "yes" || t == "1"
	default:
		return false
	}
}
