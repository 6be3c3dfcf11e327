package kpi

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bilalmachraa82/alojamento-insight-analyzer/internal/models"
)

func day(d int) time.Time {
	return time.Date(2026, time.March, d, 0, 0, 0, 0, time.UTC)
}

func TestSummarize(t *testing.T) {
	rows := []models.DailyKPI{
		{Date: day(2), Revenue: 300, Bookings: 2, RoomsSold: 3, RoomsAvailable: 4, OccupancyRate: 75, ADR: 100, RevPAR: 75},
		{Date: day(1), Revenue: 100, Bookings: 1, RoomsSold: 1, RoomsAvailable: 4, OccupancyRate: 25, ADR: 100, RevPAR: 25},
	}

	summary := Summarize("p1", rows)

	assert.Equal(t, "p1", summary.PropertyID)
	assert.Equal(t, day(1), summary.From)
	assert.Equal(t, day(2), summary.To)
	assert.Equal(t, 2, summary.Days)
	assert.InDelta(t, 400.0, summary.TotalRevenue, 0.001)
	assert.Equal(t, 3, summary.TotalBookings)
	assert.Equal(t, 4, summary.RoomsSold)
	assert.Equal(t, 8, summary.RoomsAvailable)
	assert.InDelta(t, 50.0, summary.AvgOccupancyRate, 0.001)
	assert.InDelta(t, 100.0, summary.AvgADR, 0.001)
	assert.InDelta(t, 50.0, summary.AvgRevPAR, 0.001)
}

func TestSummarizeEmpty(t *testing.T) {
	summary := Summarize("p1", nil)
	assert.Equal(t, 0, summary.Days)
	assert.Zero(t, summary.TotalRevenue)
	assert.Zero(t, summary.AvgOccupancyRate)
}

func TestTrend(t *testing.T) {
	tests := []struct {
		name     string
		current  float64
		previous float64
		expected float64
	}{
		{"growth", 120, 100, 20},
		{"decline", 80, 100, -20},
		{"flat", 100, 100, 0},
		{"zero previous yields zero", 50, 0, 0},
		{"zero both", 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Trend(tt.current, tt.previous), 0.001)
		})
	}
}

func TestTrends(t *testing.T) {
	current := models.KPISummary{TotalRevenue: 220, TotalBookings: 11, AvgOccupancyRate: 55, AvgADR: 110, AvgRevPAR: 66}
	previous := models.KPISummary{TotalRevenue: 200, TotalBookings: 10, AvgOccupancyRate: 50, AvgADR: 100, AvgRevPAR: 60}

	trends := Trends(current, previous)

	assert.InDelta(t, 10.0, trends.Revenue, 0.001)
	assert.InDelta(t, 10.0, trends.Bookings, 0.001)
	assert.InDelta(t, 10.0, trends.Occupancy, 0.001)
	assert.InDelta(t, 10.0, trends.ADR, 0.001)
	assert.InDelta(t, 10.0, trends.RevPAR, 0.001)
}

func TestBucket(t *testing.T) {
	assert.Equal(t, models.SentimentPositive, Bucket(0.3))
	assert.Equal(t, models.SentimentPositive, Bucket(0.9))
	assert.Equal(t, models.SentimentNegative, Bucket(-0.3))
	assert.Equal(t, models.SentimentNegative, Bucket(-0.8))
	assert.Equal(t, models.SentimentNeutral, Bucket(0.29))
	assert.Equal(t, models.SentimentNeutral, Bucket(-0.29))
	assert.Equal(t, models.SentimentNeutral, Bucket(0))
}

func TestAnalyzeSentiment(t *testing.T) {
	rows := []models.SentimentTopic{
		{Topic: "cleanliness", Score: -0.6, Mentions: 5},
		{Topic: "cleanliness", Score: -0.4, Mentions: 3},
		{Topic: "location", Score: 0.8, Mentions: 10},
		{Topic: "communication", Score: 0.5, Mentions: 4},
		{Topic: "value", Score: 0.1, Mentions: 2},
	}

	insight := AnalyzeSentiment("p1", rows)

	assert.Equal(t, "p1", insight.PropertyID)
	// topic means: cleanliness -0.5, location 0.8, communication 0.5, value 0.1
	assert.InDelta(t, (0.8+0.5+0.1-0.5)/4, insight.OverallScore, 0.001)
	assert.Len(t, insight.Topics, 4)
	assert.Equal(t, "location", insight.Topics[0].Topic)
	assert.Equal(t, 8, topicByName(insight.Topics, "cleanliness").Mentions)

	assert.Equal(t, []models.TopicSentiment{
		{Topic: "location", Score: 0.8, Mentions: 10, Bucket: models.SentimentPositive},
		{Topic: "communication", Score: 0.5, Mentions: 4, Bucket: models.SentimentPositive},
	}, insight.TopStrengths)

	assert.Len(t, insight.TopIssues, 1)
	assert.Equal(t, "cleanliness", insight.TopIssues[0].Topic)
	assert.Equal(t, models.SentimentNegative, insight.TopIssues[0].Bucket)

	assert.Equal(t, []string{remediationAdvice["cleanliness"]}, insight.Recommendations)
	assert.False(t, insight.RequiresImmediateAttention)
}

func TestAnalyzeSentimentImmediateAttention(t *testing.T) {
	rows := []models.SentimentTopic{
		{Topic: "cleanliness", Score: -0.7, Mentions: 5},
		{Topic: "check-in", Score: -0.5, Mentions: 2},
	}

	insight := AnalyzeSentiment("p1", rows)

	assert.True(t, insight.RequiresImmediateAttention)
	assert.Empty(t, insight.TopStrengths)
	assert.Len(t, insight.TopIssues, 2)
	assert.Len(t, insight.Recommendations, 2)
}

func TestAnalyzeSentimentEmpty(t *testing.T) {
	insight := AnalyzeSentiment("p1", nil)
	assert.Zero(t, insight.OverallScore)
	assert.Empty(t, insight.Topics)
	assert.False(t, insight.RequiresImmediateAttention)
}

func TestAnalyzeSentimentIncludesMildlyNegativeIssues(t *testing.T) {
	rows := []models.SentimentTopic{
		{Topic: "cleanliness", Score: -0.5, Mentions: 4},
		{Topic: "check-in", Score: -0.1, Mentions: 2},
		{Topic: "location", Score: 0.6, Mentions: 6},
	}

	insight := AnalyzeSentiment("p1", rows)

	// check-in is neutral-bucketed but still below zero, so it is an
	// issue and its advice is emitted alongside cleanliness.
	assert.Len(t, insight.TopIssues, 2)
	assert.Equal(t, "cleanliness", insight.TopIssues[0].Topic)
	assert.Equal(t, "check-in", insight.TopIssues[1].Topic)
	assert.Equal(t, models.SentimentNeutral, insight.TopIssues[1].Bucket)
	assert.Equal(t, []string{
		remediationAdvice["cleanliness"],
		remediationAdvice["check-in"],
	}, insight.Recommendations)
}

func TestAnalyzeSentimentCapsTopLists(t *testing.T) {
	rows := []models.SentimentTopic{
		{Topic: "location", Score: 0.9},
		{Topic: "communication", Score: 0.8},
		{Topic: "amenities", Score: 0.7},
		{Topic: "accuracy", Score: 0.6},
		{Topic: "cleanliness", Score: -0.4},
		{Topic: "check-in", Score: -0.5},
		{Topic: "value", Score: -0.6},
		{Topic: "parking", Score: -0.7},
	}

	insight := AnalyzeSentiment("p1", rows)

	assert.Len(t, insight.TopStrengths, 3)
	assert.Len(t, insight.TopIssues, 3)
	assert.Equal(t, "parking", insight.TopIssues[0].Topic)
	// parking has no canned advice, the other two issues do
	assert.Len(t, insight.Recommendations, 2)
}

func topicByName(topics []models.TopicSentiment, name string) models.TopicSentiment {
	for _, t := range topics {
		if t.Topic == name {
			return t
		}
	}
	return models.TopicSentiment{}
}
