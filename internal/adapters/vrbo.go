package adapters

import (
	"encoding/json"
	"fmt"

	"github.com/bilalmachraa82/alojamento-insight-analyzer/internal/models"
)

type vrboPayload struct {
	Headline      string             `json:"headline"`
	Name          string             `json:"name"`
	Location      string             `json:"location"`
	City          string             `json:"city"`
	PropertyType  string             `json:"property_type"`
	Description   string             `json:"description"`
	Rating        float64            `json:"rating"` // 5-point scale
	AverageRating float64            `json:"average_rating"`
	ReviewCount   int                `json:"review_count"`
	NumReviews    int                `json:"num_reviews"`
	Amenities     json.RawMessage    `json:"amenities"`
	Images        []json.RawMessage  `json:"images"`
	Photos        []json.RawMessage  `json:"photos"`
	Price         string             `json:"price"`
	RateNight     string             `json:"rate_per_night"`
	CleaningFee   string             `json:"cleaning_fee"`
	Currency      string             `json:"currency"`
	Cancellation  string             `json:"cancellation_policy"`
	HouseRules    []string           `json:"house_rules"`
	Sleeps        int                `json:"sleeps"`
	Bedrooms      int                `json:"bedrooms"`
	Reviews       []models.RawReview `json:"reviews"`
	AvailableDays int                `json:"available_days"`
	TotalDays     int                `json:"total_days"`
}

func adaptVrbo(raw json.RawMessage) models.IntermediateProperty {
	var p vrboPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return failed(fmt.Sprintf("vrbo payload: %v", err))
	}

	photos := photoURLs(p.Images)
	if len(photos) == 0 {
		photos = photoURLs(p.Photos)
	}

	return models.IntermediateProperty{
		Name:          firstString(p.Headline, p.Name),
		Location:      firstString(p.Location, p.City),
		PropertyType:  firstString(p.PropertyType, "house"),
		Description:   p.Description,
		Rating:        firstFloat(p.Rating, p.AverageRating),
		RatingScale:   5,
		ReviewCount:   firstInt(p.ReviewCount, p.NumReviews),
		Amenities:     decodeAmenities(p.Amenities),
		Photos:        photos,
		RawPrice:      firstString(p.Price, p.RateNight),
		CleaningFee:   p.CleaningFee,
		Currency:      p.Currency,
		Cancellation:  p.Cancellation,
		HouseRules:    p.HouseRules,
		GuestCapacity: p.Sleeps,
		Bedrooms:      p.Bedrooms,
		Reviews:       p.Reviews,
		AvailableDays: p.AvailableDays,
		TotalDays:     p.TotalDays,
	}
}
