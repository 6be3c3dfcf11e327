package models

// Placeholder values used when source data is missing. basicInfo.name and
// basicInfo.location are never empty.
const (
	PlaceholderName     = "Property name unavailable"
	PlaceholderLocation = "Location unavailable"
	NoPrice             = "no price"
)

// IntermediateProperty is the single shape every scrape adapter produces
// from a raw provider payload. Fields the source did not expose stay at
// their zero value; Error carries an adapter-internal parse failure so the
// pipeline can continue to the quality gate instead of aborting.
type IntermediateProperty struct {
	Name          string
	Location      string
	PropertyType  string
	Description   string
	Rating        float64
	RatingScale   float64 // declared source scale: 5, 10 or 100
	ReviewCount   int
	Amenities     interface{} // []string, []map or map of flags; normalizer decides
	Photos        []string
	RawPrice      string
	CleaningFee   string
	Currency      string
	CheckIn       string
	CheckOut      string
	Cancellation  string
	HouseRules    []string
	GuestCapacity int
	Bedrooms      int
	OccupancyRate float64 // explicit source occupancy, 0 when absent
	AvailableDays int
	TotalDays     int
	Reviews       []RawReview
	Error         string
}

// RawReview is a single guest review as the adapter found it.
type RawReview struct {
	Rating  float64 `json:"rating"`
	Comment string  `json:"comment"`
	Date    string  `json:"date,omitempty"`
}

// ProcessedPropertyData is the canonical, source-independent model the
// scoring and analysis stages consume.
type ProcessedPropertyData struct {
	BasicInfo   BasicInfo   `json:"basicInfo"`
	Performance Performance `json:"performance"`
	Amenities   []string    `json:"amenities"`
	Photos      []string    `json:"photos"`
	Pricing     Pricing     `json:"pricing"`
	Policies    Policies    `json:"policies"`
}

type BasicInfo struct {
	Name        string `json:"name"`
	Location    string `json:"location"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

type Performance struct {
	Rating           float64 `json:"rating"` // always on the common 5-point scale
	ReviewCount      int     `json:"reviewCount"`
	OccupancyRate    float64 `json:"occupancyRate"` // percent
	AverageDailyRate float64 `json:"averageDailyRate"`
}

type Pricing struct {
	BasePrice      string   `json:"basePrice"` // normalized number or "no price"
	CleaningFee    string   `json:"cleaningFee,omitempty"`
	Currency       string   `json:"currency,omitempty"`
	AdditionalFees []string `json:"additionalFees,omitempty"`
	Discounts      []string `json:"discounts,omitempty"`
}

type Policies struct {
	CheckIn      string   `json:"checkIn,omitempty"`
	CheckOut     string   `json:"checkOut,omitempty"`
	Cancellation string   `json:"cancellation,omitempty"`
	HouseRules   []string `json:"houseRules,omitempty"`
}

// HasPlaceholderIdentity reports whether name or location fell back to the
// explicit placeholders.
func (p *ProcessedPropertyData) HasPlaceholderIdentity() bool {
	return p.BasicInfo.Name == PlaceholderName || p.BasicInfo.Location == PlaceholderLocation
}
