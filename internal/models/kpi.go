package models

import "time"

// DailyKPI is one fact row per property per day. Append-only.
type DailyKPI struct {
	ID             int64     `json:"id"`
	PropertyID     string    `json:"propertyId"`
	Date           time.Time `json:"date"`
	Revenue        float64   `json:"revenue"`
	Bookings       int       `json:"bookings"`
	RoomsSold      int       `json:"roomsSold"`
	RoomsAvailable int       `json:"roomsAvailable"`
	OccupancyRate  float64   `json:"occupancyRate"`
	ADR            float64   `json:"adr"`
	RevPAR         float64   `json:"revpar"`
}

// SentimentTopic is one fact row per property per day per platform/topic.
type SentimentTopic struct {
	ID         int64     `json:"id"`
	PropertyID string    `json:"propertyId"`
	Platform   Platform  `json:"platform"`
	Topic      string    `json:"topic"`
	Date       time.Time `json:"date"`
	Score      float64   `json:"score"` // -1..1
	Mentions   int       `json:"mentions"`
}

// KPISummary rolls up daily fact rows over a date range.
type KPISummary struct {
	PropertyID       string    `json:"propertyId"`
	From             time.Time `json:"from"`
	To               time.Time `json:"to"`
	TotalRevenue     float64   `json:"totalRevenue"`
	TotalBookings    int       `json:"totalBookings"`
	RoomsSold        int       `json:"roomsSold"`
	RoomsAvailable   int       `json:"roomsAvailable"`
	AvgOccupancyRate float64   `json:"avgOccupancyRate"`
	AvgADR           float64   `json:"avgAdr"`
	AvgRevPAR        float64   `json:"avgRevpar"`
	Days             int       `json:"days"`
}

// KPITrends compares a summary against an earlier period, in percent.
type KPITrends struct {
	Revenue   float64 `json:"revenue"`
	Bookings  float64 `json:"bookings"`
	Occupancy float64 `json:"occupancy"`
	ADR       float64 `json:"adr"`
	RevPAR    float64 `json:"revpar"`
}

// SentimentBucket classifies a topic score.
type SentimentBucket string

const (
	SentimentPositive SentimentBucket = "positive"
	SentimentNegative SentimentBucket = "negative"
	SentimentNeutral  SentimentBucket = "neutral"
)

// TopicSentiment is the per-topic rollup over a range.
type TopicSentiment struct {
	Topic    string          `json:"topic"`
	Score    float64         `json:"score"`
	Mentions int             `json:"mentions"`
	Bucket   SentimentBucket `json:"bucket"`
}

// SentimentInsight is the generated summary over a property's sentiment
// facts: top strengths, top issues and remediation guidance.
type SentimentInsight struct {
	PropertyID                 string           `json:"propertyId"`
	OverallScore               float64          `json:"overallScore"`
	Topics                     []TopicSentiment `json:"topics"`
	TopStrengths               []TopicSentiment `json:"topStrengths"`
	TopIssues                  []TopicSentiment `json:"topIssues"`
	Recommendations            []string         `json:"recommendations"`
	RequiresImmediateAttention bool             `json:"requires_immediate_attention"`
}
