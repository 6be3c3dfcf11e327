package adapters

import (
	"encoding/json"
	"fmt"

	"github.com/bilalmachraa82/alojamento-insight-analyzer/internal/models"
)

type airbnbPayload struct {
	Title          string             `json:"title"`
	Name           string             `json:"name"`
	Location       string             `json:"location"`
	City           string             `json:"city"`
	Neighborhood   string             `json:"neighborhood"`
	RoomType       string             `json:"room_type"`
	Description    string             `json:"description"`
	StarRating     float64            `json:"star_rating"` // 5-point scale
	Rating         float64            `json:"rating"`
	ReviewsCount   int                `json:"reviews_count"`
	ReviewCount    int                `json:"review_count"`
	Amenities      json.RawMessage    `json:"amenities"`
	Photos         []json.RawMessage  `json:"photos"`
	Pictures       []json.RawMessage  `json:"pictures"`
	Price          string             `json:"price"`
	NightlyPrice   string             `json:"nightly_price"`
	CleaningFee    string             `json:"cleaning_fee"`
	Currency       string             `json:"currency"`
	CheckIn        string             `json:"check_in"`
	CheckOut       string             `json:"check_out"`
	Cancellation   string             `json:"cancellation_policy"`
	HouseRules     []string           `json:"house_rules"`
	PersonCapacity int                `json:"person_capacity"`
	Guests         int                `json:"guests"`
	Bedrooms       int                `json:"bedrooms"`
	Reviews        []models.RawReview `json:"reviews"`
	OccupancyRate  float64            `json:"occupancy_rate"`
	AvailableDays  int                `json:"available_days"`
	TotalDays      int                `json:"total_days"`
}

func adaptAirbnb(raw json.RawMessage) models.IntermediateProperty {
	var p airbnbPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return failed(fmt.Sprintf("airbnb payload: %v", err))
	}

	photos := photoURLs(p.Photos)
	if len(photos) == 0 {
		photos = photoURLs(p.Pictures)
	}

	return models.IntermediateProperty{
		Name:          firstString(p.Title, p.Name),
		Location:      firstString(p.Location, p.City, p.Neighborhood),
		PropertyType:  firstString(p.RoomType, "entire_place"),
		Description:   p.Description,
		Rating:        firstFloat(p.StarRating, p.Rating),
		RatingScale:   5,
		ReviewCount:   firstInt(p.ReviewsCount, p.ReviewCount),
		Amenities:     decodeAmenities(p.Amenities),
		Photos:        photos,
		RawPrice:      firstString(p.Price, p.NightlyPrice),
		CleaningFee:   p.CleaningFee,
		Currency:      p.Currency,
		CheckIn:       p.CheckIn,
		CheckOut:      p.CheckOut,
		Cancellation:  p.Cancellation,
		HouseRules:    p.HouseRules,
		GuestCapacity: firstInt(p.PersonCapacity, p.Guests),
		Bedrooms:      p.Bedrooms,
		Reviews:       p.Reviews,
		OccupancyRate: p.OccupancyRate,
		AvailableDays: p.AvailableDays,
		TotalDays:     p.TotalDays,
	}
}
