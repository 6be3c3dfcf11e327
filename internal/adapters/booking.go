package adapters

import (
	"encoding/json"
	"fmt"

	"github.com/bilalmachraa82/alojamento-insight-analyzer/internal/models"
)

// bookingPayload mirrors the fields the scraping provider returns for
// booking listings, including the legacy aliases older payloads still use.
type bookingPayload struct {
	HotelName     string             `json:"hotel_name"`
	Name          string             `json:"name"`
	Address       string             `json:"address"`
	City          string             `json:"city"`
	Location      string             `json:"location"`
	PropertyType  string             `json:"property_type"`
	Description   string             `json:"description"`
	ReviewScore   float64            `json:"review_score"` // 10-point scale
	Rating        float64            `json:"rating"`
	ReviewCount   int                `json:"review_count"`
	NumReviews    int                `json:"number_of_reviews"`
	Facilities    json.RawMessage    `json:"facilities"`
	Amenities     json.RawMessage    `json:"amenities"`
	Photos        []json.RawMessage  `json:"photos"`
	Images        []json.RawMessage  `json:"images"`
	Price         string             `json:"price"`
	MinPrice      string             `json:"min_price"`
	Currency      string             `json:"currency"`
	CheckIn       string             `json:"checkin"`
	CheckOut      string             `json:"checkout"`
	Cancellation  string             `json:"cancellation_policy"`
	MaxGuests     int                `json:"max_guests"`
	Rooms         int                `json:"rooms"`
	Reviews       []models.RawReview `json:"reviews"`
	AvailableDays int                `json:"available_days"`
	TotalDays     int                `json:"total_days"`
}

func adaptBooking(raw json.RawMessage) models.IntermediateProperty {
	var p bookingPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return failed(fmt.Sprintf("booking payload: %v", err))
	}

	photos := photoURLs(p.Photos)
	if len(photos) == 0 {
		photos = photoURLs(p.Images)
	}

	amenities := decodeAmenities(p.Facilities)
	if amenities == nil {
		amenities = decodeAmenities(p.Amenities)
	}

	return models.IntermediateProperty{
		Name:          firstString(p.HotelName, p.Name),
		Location:      firstString(p.Address, p.City, p.Location),
		PropertyType:  firstString(p.PropertyType, "hotel"),
		Description:   p.Description,
		Rating:        firstFloat(p.ReviewScore, p.Rating),
		RatingScale:   10,
		ReviewCount:   firstInt(p.ReviewCount, p.NumReviews),
		Amenities:     amenities,
		Photos:        photos,
		RawPrice:      firstString(p.Price, p.MinPrice),
		Currency:      p.Currency,
		CheckIn:       p.CheckIn,
		CheckOut:      p.CheckOut,
		Cancellation:  p.Cancellation,
		GuestCapacity: p.MaxGuests,
		Bedrooms:      p.Rooms,
		Reviews:       p.Reviews,
		AvailableDays: p.AvailableDays,
		TotalDays:     p.TotalDays,
	}
}
