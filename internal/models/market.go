package models

// SaturationTier buckets market saturation by comp-set size.
type SaturationTier string

const (
	SaturationHigh   SaturationTier = "high"
	SaturationMedium SaturationTier = "medium"
	SaturationLow    SaturationTier = "low"
)

// CompProperty is one comparable competitor property used for market
// benchmarking.
type CompProperty struct {
	ID            string   `json:"id"`
	PropertyType  string   `json:"propertyType"`
	Location      string   `json:"location"`
	GuestCapacity int      `json:"guestCapacity"`
	Bedrooms      int      `json:"bedrooms"`
	Amenities     []string `json:"amenities"`
}

// SeasonalMultipliers are the fixed seasonal factors applied to the
// average market rate.
type SeasonalMultipliers struct {
	Spring float64 `json:"spring"`
	Summer float64 `json:"summer"`
	Fall   float64 `json:"fall"`
	Winter float64 `json:"winter"`
}

// PriceBand is the min/max band around a suggested price.
type PriceBand struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// MarketInsight is the full market benchmark for one property.
type MarketInsight struct {
	AverageMarketRate float64             `json:"averageMarketRate"`
	OccupancyEstimate float64             `json:"occupancyEstimate"`
	CompetitorCount   int                 `json:"competitorCount"`
	Saturation        SaturationTier      `json:"saturation"`
	Seasonal          SeasonalMultipliers `json:"seasonal"`
	SeasonalRates     map[string]float64  `json:"seasonalRates"`
	SuggestedPrice    float64             `json:"suggestedPrice"`
	PriceBand         PriceBand           `json:"priceBand"`
	Rationale         string              `json:"rationale"`
}
