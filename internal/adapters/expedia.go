package adapters

import (
	"encoding/json"
	"fmt"

	"github.com/bilalmachraa82/alojamento-insight-analyzer/internal/models"
)

type expediaPayload struct {
	Name          string             `json:"name"`
	Title         string             `json:"title"`
	Location      string             `json:"location"`
	Address       string             `json:"address"`
	PropertyType  string             `json:"property_type"`
	Description   string             `json:"description"`
	GuestRating   float64            `json:"guest_rating"` // 10-point scale
	Rating        float64            `json:"rating"`
	ReviewTotal   int                `json:"review_total"`
	ReviewCount   int                `json:"review_count"`
	Amenities     json.RawMessage    `json:"amenities"`
	Gallery       []json.RawMessage  `json:"gallery"`
	Photos        []json.RawMessage  `json:"photos"`
	Price         string             `json:"price"`
	LeadPrice     string             `json:"lead_price"`
	Currency      string             `json:"currency"`
	CheckIn       string             `json:"check_in"`
	CheckOut      string             `json:"check_out"`
	Cancellation  string             `json:"cancellation_policy"`
	SleepsMax     int                `json:"sleeps_max"`
	Bedrooms      int                `json:"bedrooms"`
	Reviews       []models.RawReview `json:"reviews"`
	AvailableDays int                `json:"available_days"`
	TotalDays     int                `json:"total_days"`
}

func adaptExpedia(raw json.RawMessage) models.IntermediateProperty {
	var p expediaPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return failed(fmt.Sprintf("expedia payload: %v", err))
	}

	photos := photoURLs(p.Gallery)
	if len(photos) == 0 {
		photos = photoURLs(p.Photos)
	}

	return models.IntermediateProperty{
		Name:          firstString(p.Name, p.Title),
		Location:      firstString(p.Location, p.Address),
		PropertyType:  firstString(p.PropertyType, "hotel"),
		Description:   p.Description,
		Rating:        firstFloat(p.GuestRating, p.Rating),
		RatingScale:   10,
		ReviewCount:   firstInt(p.ReviewTotal, p.ReviewCount),
		Amenities:     decodeAmenities(p.Amenities),
		Photos:        photos,
		RawPrice:      firstString(p.Price, p.LeadPrice),
		Currency:      p.Currency,
		CheckIn:       p.CheckIn,
		CheckOut:      p.CheckOut,
		Cancellation:  p.Cancellation,
		GuestCapacity: p.SleepsMax,
		Bedrooms:      p.Bedrooms,
		Reviews:       p.Reviews,
		AvailableDays: p.AvailableDays,
		TotalDays:     p.TotalDays,
	}
}
