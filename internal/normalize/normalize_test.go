package normalize

import (
	"testing"

	"github.com/bilalmachraa82/alojamento-insight-analyzer/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestExtractPrice(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    float64
		wantOK  bool
	}{
		{"euro integer", "€100", 100, true},
		{"dollar decimal", "$125.50", 125.5, true},
		{"comma decimal", "€100,50", 100.5, true},
		{"thousands with decimal dot", "1,234.56", 1234.56, true},
		{"plain number", "89", 89, true},
		{"empty", "", 0, false},
		{"no digits", "price on request", 0, false},
		{"garbage separators", ".,.", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractPrice(tt.raw)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestPriceString_NoPrice(t *testing.T) {
	assert.Equal(t, models.NoPrice, PriceString(""))
	assert.Equal(t, models.NoPrice, PriceString("call for price"))
	assert.Equal(t, "125.5", PriceString("$125.50"))
}

func TestEstimateOccupancy_Tiers(t *testing.T) {
	tests := []struct {
		reviews int
		rating  float64
		want    float64
	}{
		{100, 9.0, 75},
		{25, 7.5, 65},
		{5, 6.0, 45},
		{51, 4.1, 75},
		{51, 4.0, 65}, // rating not strictly above 4.0, falls to the next tier
		{21, 3.6, 65},
		{21, 3.5, 55},
		{11, 1.0, 55},
		{10, 5.0, 45},
		{0, 0.0, 45},
	}

	for _, tt := range tests {
		got := EstimateOccupancy(tt.reviews, tt.rating)
		assert.Equal(t, tt.want, got, "reviews=%d rating=%.1f", tt.reviews, tt.rating)
	}
}

func TestNormalizeRating_Scales(t *testing.T) {
	assert.Equal(t, 4.5, NormalizeRating(90, 100))
	assert.Equal(t, 4.5, NormalizeRating(9.0, 10))
	assert.Equal(t, 4.5, NormalizeRating(4.5, 5))
	assert.Equal(t, 4.5, NormalizeRating(4.5, 0))
}

func TestExtractAmenities_Shapes(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
		want  []string
	}{
		{
			name:  "string array",
			input: []string{"wifi", "pool"},
			want:  []string{"wifi", "pool"},
		},
		{
			name: "object array with name",
			input: []interface{}{
				map[string]interface{}{"name": "wifi"},
				map[string]interface{}{"title": "pool"},
			},
			want: []string{"wifi", "pool"},
		},
		{
			name: "boolean flag map keeps truthy keys",
			input: map[string]interface{}{
				"wifi":    true,
				"pool":    false,
				"kitchen": true,
			},
			want: []string{"kitchen", "wifi"},
		},
		{
			name:  "unsupported shape yields empty set",
			input: 42,
			want:  []string{},
		},
		{
			name:  "nil yields empty set",
			input: nil,
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractAmenities(tt.input))
		})
	}
}

func TestNormalize_PlatformCaseInsensitive(t *testing.T) {
	engine := NewEngine()
	im := models.IntermediateProperty{
		Name:        "Casa do Mar",
		Location:    "Lisboa",
		Description: "Seaside flat",
		Rating:      8.4,
		ReviewCount: 120,
	}

	upper := engine.Normalize("BOOKING", im)
	title := engine.Normalize("Booking", im)
	lower := engine.Normalize("booking", im)

	assert.Equal(t, upper.BasicInfo, title.BasicInfo)
	assert.Equal(t, title.BasicInfo, lower.BasicInfo)
	assert.Equal(t, 4.2, lower.Performance.Rating) // booking declares a 10-point scale
}

func TestNormalize_PlaceholdersForMissingIdentity(t *testing.T) {
	engine := NewEngine()
	out := engine.Normalize("airbnb", models.IntermediateProperty{})

	assert.Equal(t, models.PlaceholderName, out.BasicInfo.Name)
	assert.Equal(t, models.PlaceholderLocation, out.BasicInfo.Location)
	assert.True(t, out.HasPlaceholderIdentity())
	assert.Equal(t, models.NoPrice, out.Pricing.BasePrice)
}

func TestNormalize_ExplicitAvailabilityWinsOverTiers(t *testing.T) {
	engine := NewEngine()
	out := engine.Normalize("airbnb", models.IntermediateProperty{
		Name:          "Loft",
		Location:      "Porto",
		Rating:        4.8,
		ReviewCount:   80,
		AvailableDays: 9,
		TotalDays:     30,
	})

	assert.InDelta(t, 70.0, out.Performance.OccupancyRate, 0.001)
}

func TestNormalize_Idempotent(t *testing.T) {
	engine := NewEngine()
	im := models.IntermediateProperty{
		Name:        "Quinta Azul",
		Location:    "Algarve",
		Rating:      4.6,
		ReviewCount: 34,
		RawPrice:    "€140,00",
		Amenities: map[string]interface{}{
			"wifi": true, "pool": true, "parking": false, "kitchen": true,
		},
		Photos: []string{"a.jpg", "b.jpg"},
	}

	first := engine.Normalize("vrbo", im)
	second := engine.Normalize("vrbo", im)

	assert.Equal(t, first, second)
}

func TestNormalize_UnknownPlatformFallsBack(t *testing.T) {
	engine := NewEngine()
	out := engine.Normalize("couchsurfing", models.IntermediateProperty{
		Name:     "Sofa",
		Location: "Braga",
		Rating:   4.2,
	})

	// Generic fallback keeps the 5-point scale untouched.
	assert.Equal(t, 4.2, out.Performance.Rating)
}
