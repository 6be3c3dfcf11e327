package analysis

import (
	"fmt"
	"strings"

	"github.com/bilalmachraa82/alojamento-insight-analyzer/internal/models"
)

// BuildPrompt renders the analysis request for one property. The prompt
// pins the canonical facts the model must not contradict and demands a
// JSON-only response matching the expected document shape.
func BuildPrompt(data *models.ProcessedPropertyData, score models.HealthScore, insight models.MarketInsight) string {
	var b strings.Builder

	b.WriteString("You are a short-term rental consultant. Produce a diagnostic analysis for the property below.\n\n")

	b.WriteString("CANONICAL FACTS (use these values exactly, do not recompute them):\n")
	fmt.Fprintf(&b, "- name: %s\n", data.BasicInfo.Name)
	fmt.Fprintf(&b, "- location: %s\n", data.BasicInfo.Location)
	fmt.Fprintf(&b, "- rating: %.1f of 5 (%d reviews)\n", data.Performance.Rating, data.Performance.ReviewCount)
	fmt.Fprintf(&b, "- occupancy_rate: %.0f%%\n", data.Performance.OccupancyRate)
	fmt.Fprintf(&b, "- base_price: %s\n", data.Pricing.BasePrice)
	fmt.Fprintf(&b, "- amenity_count: %d\n", len(data.Amenities))
	fmt.Fprintf(&b, "- photo_count: %d\n", len(data.Photos))
	fmt.Fprintf(&b, "- health_score: %d (%s)\n", score.Total, score.Category)
	fmt.Fprintf(&b, "- suggested_price: %.2f (market average %.2f, %s saturation)\n",
		insight.SuggestedPrice, insight.AverageMarketRate, insight.Saturation)

	b.WriteString("\nRespond with a single JSON object and nothing else. No markdown, no code fences.\n")
	b.WriteString("The object must have these keys:\n")
	b.WriteString(`  "summary" (string), "strengths" (array of strings), "weaknesses" (array of strings),` + "\n")
	b.WriteString(`  "recommendations" (array of objects with "title", "description", "priority" one of high|medium|low),` + "\n")
	b.WriteString(`  "pricing_advice" (string), "health_score" (object with "total" number and "category" string)` + "\n")

	return b.String()
}
