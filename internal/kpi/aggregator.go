// Package kpi rolls up daily performance and sentiment fact rows into
// period summaries, period-over-period trends and sentiment insights.
package kpi

import (
	"sort"

	"github.com/bilalmachraa82/alojamento-insight-analyzer/internal/models"
)

const (
	positiveThreshold = 0.3
	negativeThreshold = -0.3
	topTopicCount     = 3
)

// Summarize rolls daily rows up into one KPISummary. Revenue, bookings
// and room counts are summed; occupancy, ADR and RevPAR are averaged
// over the rows present.
func Summarize(propertyID string, rows []models.DailyKPI) models.KPISummary {
	summary := models.KPISummary{
		PropertyID: propertyID,
		Days:       len(rows),
	}
	if len(rows) == 0 {
		return summary
	}

	summary.From = rows[0].Date
	summary.To = rows[0].Date

	var occupancy, adr, revpar float64
	for _, row := range rows {
		if row.Date.Before(summary.From) {
			summary.From = row.Date
		}
		if row.Date.After(summary.To) {
			summary.To = row.Date
		}
		summary.TotalRevenue += row.Revenue
		summary.TotalBookings += row.Bookings
		summary.RoomsSold += row.RoomsSold
		summary.RoomsAvailable += row.RoomsAvailable
		occupancy += row.OccupancyRate
		adr += row.ADR
		revpar += row.RevPAR
	}

	n := float64(len(rows))
	summary.AvgOccupancyRate = occupancy / n
	summary.AvgADR = adr / n
	summary.AvgRevPAR = revpar / n
	return summary
}

// Trend is the period-over-period change in percent. A zero previous
// value yields zero rather than a division error.
func Trend(current, previous float64) float64 {
	if previous == 0 {
		return 0
	}
	return (current - previous) / previous * 100
}

// Trends compares a summary against the preceding period's summary.
func Trends(current, previous models.KPISummary) models.KPITrends {
	return models.KPITrends{
		Revenue:   Trend(current.TotalRevenue, previous.TotalRevenue),
		Bookings:  Trend(float64(current.TotalBookings), float64(previous.TotalBookings)),
		Occupancy: Trend(current.AvgOccupancyRate, previous.AvgOccupancyRate),
		ADR:       Trend(current.AvgADR, previous.AvgADR),
		RevPAR:    Trend(current.AvgRevPAR, previous.AvgRevPAR),
	}
}

// remediationAdvice maps known review topics to canned guidance. Topics
// without an entry get no recommendation.
var remediationAdvice = map[string]string{
	"cleanliness":   "Schedule a deep clean and review the housekeeping checklist before the next stay.",
	"communication": "Respond to guest messages within one hour and add an automated pre-arrival message.",
	"value":         "Review nightly rates against nearby comparable listings and consider a small adjustment.",
	"location":      "Update the listing description with transport options and nearby points of interest.",
	"amenities":     "Audit listed amenities against what is actually on site and fix any gaps.",
	"check-in":      "Add step-by-step check-in instructions with photos, or switch to a self check-in lockbox.",
	"accuracy":      "Refresh listing photos and description so they match the current state of the property.",
}

// Bucket classifies a topic score into positive, negative or neutral.
func Bucket(score float64) models.SentimentBucket {
	switch {
	case score >= positiveThreshold:
		return models.SentimentPositive
	case score <= negativeThreshold:
		return models.SentimentNegative
	default:
		return models.SentimentNeutral
	}
}

// AnalyzeSentiment rolls per-day per-platform topic rows into one
// insight: per-topic mean scores, an overall score that is the mean of
// the topic means, top strengths and issues, and remediation advice for
// topics scoring below zero.
func AnalyzeSentiment(propertyID string, rows []models.SentimentTopic) models.SentimentInsight {
	insight := models.SentimentInsight{PropertyID: propertyID}
	if len(rows) == 0 {
		return insight
	}

	type topicAccum struct {
		total    float64
		count    int
		mentions int
	}
	accum := make(map[string]*topicAccum)
	for _, row := range rows {
		acc, ok := accum[row.Topic]
		if !ok {
			acc = &topicAccum{}
			accum[row.Topic] = acc
		}
		acc.total += row.Score
		acc.count++
		acc.mentions += row.Mentions
	}

	topics := make([]models.TopicSentiment, 0, len(accum))
	var overall float64
	for topic, acc := range accum {
		score := acc.total / float64(acc.count)
		overall += score
		topics = append(topics, models.TopicSentiment{
			Topic:    topic,
			Score:    score,
			Mentions: acc.mentions,
			Bucket:   Bucket(score),
		})
	}
	overall /= float64(len(topics))

	// Highest score first; topic name breaks ties so output is stable.
	sort.Slice(topics, func(i, j int) bool {
		if topics[i].Score != topics[j].Score {
			return topics[i].Score > topics[j].Score
		}
		return topics[i].Topic < topics[j].Topic
	})

	insight.OverallScore = overall
	insight.Topics = topics
	insight.TopStrengths = topStrengths(topics)
	insight.TopIssues = topIssues(topics)
	insight.RequiresImmediateAttention = overall < negativeThreshold

	for _, issue := range insight.TopIssues {
		if advice, ok := remediationAdvice[issue.Topic]; ok {
			insight.Recommendations = append(insight.Recommendations, advice)
		}
	}
	return insight
}

func topStrengths(sorted []models.TopicSentiment) []models.TopicSentiment {
	var out []models.TopicSentiment
	for _, t := range sorted {
		if t.Bucket != models.SentimentPositive {
			break
		}
		out = append(out, t)
		if len(out) == topTopicCount {
			break
		}
	}
	return out
}

// topIssues walks from the most negative topic upward. Neutral topics
// still below zero count as issues so mildly negative feedback is not
// hidden behind the bucket boundary.
func topIssues(sorted []models.TopicSentiment) []models.TopicSentiment {
	var out []models.TopicSentiment
	for i := len(sorted) - 1; i >= 0; i-- {
		if sorted[i].Score >= 0 {
			break
		}
		out = append(out, sorted[i])
		if len(out) == topTopicCount {
			break
		}
	}
	return out
}
