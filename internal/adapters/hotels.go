package adapters

import (
	"encoding/json"
	"fmt"

	"github.com/bilalmachraa82/alojamento-insight-analyzer/internal/models"
)

type hotelsPayload struct {
	Name          string             `json:"name"`
	HotelName     string             `json:"hotel_name"`
	Neighborhood  string             `json:"neighborhood"`
	Address       string             `json:"address"`
	City          string             `json:"city"`
	PropertyType  string             `json:"property_type"`
	Description   string             `json:"description"`
	Rating        float64            `json:"rating"` // 10-point scale
	GuestRating   float64            `json:"guest_rating"`
	TotalReviews  int                `json:"total_reviews"`
	ReviewCount   int                `json:"review_count"`
	Amenities     json.RawMessage    `json:"amenities"`
	Photos        []json.RawMessage  `json:"photos"`
	NightlyPrice  string             `json:"nightly_price"`
	Price         string             `json:"price"`
	Currency      string             `json:"currency"`
	CheckIn       string             `json:"check_in"`
	CheckOut      string             `json:"check_out"`
	Cancellation  string             `json:"cancellation_policy"`
	Reviews       []models.RawReview `json:"reviews"`
	AvailableDays int                `json:"available_days"`
	TotalDays     int                `json:"total_days"`
}

func adaptHotels(raw json.RawMessage) models.IntermediateProperty {
	var p hotelsPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return failed(fmt.Sprintf("hotels payload: %v", err))
	}

	return models.IntermediateProperty{
		Name:          firstString(p.Name, p.HotelName),
		Location:      firstString(p.Neighborhood, p.Address, p.City),
		PropertyType:  firstString(p.PropertyType, "hotel"),
		Description:   p.Description,
		Rating:        firstFloat(p.Rating, p.GuestRating),
		RatingScale:   10,
		ReviewCount:   firstInt(p.TotalReviews, p.ReviewCount),
		Amenities:     decodeAmenities(p.Amenities),
		Photos:        photoURLs(p.Photos),
		RawPrice:      firstString(p.NightlyPrice, p.Price),
		Currency:      p.Currency,
		CheckIn:       p.CheckIn,
		CheckOut:      p.CheckOut,
		Cancellation:  p.Cancellation,
		Reviews:       p.Reviews,
		AvailableDays: p.AvailableDays,
		TotalDays:     p.TotalDays,
	}
}
