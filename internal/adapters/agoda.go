package adapters

import (
	"encoding/json"
	"fmt"

	"github.com/bilalmachraa82/alojamento-insight-analyzer/internal/models"
)

type agodaPayload struct {
	HotelName     string             `json:"hotel_name"`
	Name          string             `json:"name"`
	Area          string             `json:"area"`
	City          string             `json:"city"`
	Address       string             `json:"address"`
	PropertyType  string             `json:"property_type"`
	Description   string             `json:"description"`
	ReviewScore   float64            `json:"review_score"` // 10-point scale
	Rating        float64            `json:"rating"`
	ReviewCount   int                `json:"review_count"`
	Facilities    json.RawMessage    `json:"facilities"`
	Images        []json.RawMessage  `json:"images"`
	DailyRate     string             `json:"daily_rate"`
	Price         string             `json:"price"`
	Currency      string             `json:"currency"`
	CheckIn       string             `json:"checkin_time"`
	CheckOut      string             `json:"checkout_time"`
	Cancellation  string             `json:"cancellation_policy"`
	MaxOccupancy  int                `json:"max_occupancy"`
	Reviews       []models.RawReview `json:"reviews"`
	AvailableDays int                `json:"available_days"`
	TotalDays     int                `json:"total_days"`
}

func adaptAgoda(raw json.RawMessage) models.IntermediateProperty {
	var p agodaPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return failed(fmt.Sprintf("agoda payload: %v", err))
	}

	return models.IntermediateProperty{
		Name:          firstString(p.HotelName, p.Name),
		Location:      firstString(p.Area, p.City, p.Address),
		PropertyType:  firstString(p.PropertyType, "hotel"),
		Description:   p.Description,
		Rating:        firstFloat(p.ReviewScore, p.Rating),
		RatingScale:   10,
		ReviewCount:   p.ReviewCount,
		Amenities:     decodeAmenities(p.Facilities),
		Photos:        photoURLs(p.Images),
		RawPrice:      firstString(p.DailyRate, p.Price),
		Currency:      p.Currency,
		CheckIn:       p.CheckIn,
		CheckOut:      p.CheckOut,
		Cancellation:  p.Cancellation,
		GuestCapacity: p.MaxOccupancy,
		Reviews:       p.Reviews,
		AvailableDays: p.AvailableDays,
		TotalDays:     p.TotalDays,
	}
}
