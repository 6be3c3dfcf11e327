// Package adapters converts raw scraping-provider payloads into the single
// intermediate shape the normalization engine consumes. One adapter per
// supported platform schema, selected by enumerated dispatch; each adapter
// probes the field-name aliases its source is known to use.
package adapters

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bilalmachraa82/alojamento-insight-analyzer/internal/models"
)

type adaptFunc func(raw json.RawMessage) models.IntermediateProperty

var registry = map[models.Platform]adaptFunc{
	models.PlatformBooking: adaptBooking,
	models.PlatformAirbnb:  adaptAirbnb,
	models.PlatformVrbo:    adaptVrbo,
	models.PlatformAgoda:   adaptAgoda,
	models.PlatformExpedia: adaptExpedia,
	models.PlatformHotels:  adaptHotels,
}

// Adapt converts a raw payload for the given platform. It never panics:
// any internal parse failure yields placeholder values plus the Error
// field, letting the pipeline continue to the data-quality gate.
func Adapt(platform models.Platform, raw json.RawMessage) (result models.IntermediateProperty) {
	defer func() {
		if r := recover(); r != nil {
			result = failed(fmt.Sprintf("adapter panic: %v", r))
		}
	}()

	adapt, ok := registry[platform]
	if !ok {
		return failed(fmt.Sprintf("unsupported platform: %s", platform))
	}
	return adapt(raw)
}

func failed(reason string) models.IntermediateProperty {
	return models.IntermediateProperty{
		Name:     models.PlaceholderName,
		Location: models.PlaceholderLocation,
		Error:    reason,
	}
}

// firstString returns the first non-blank candidate.
func firstString(candidates ...string) string {
	for _, c := range candidates {
		if strings.TrimSpace(c) != "" {
			return strings.TrimSpace(c)
		}
	}
	return ""
}

func firstFloat(candidates ...float64) float64 {
	for _, c := range candidates {
		if c != 0 {
			return c
		}
	}
	return 0
}

func firstInt(candidates ...int) int {
	for _, c := range candidates {
		if c != 0 {
			return c
		}
	}
	return 0
}

// photoURLs flattens the photo shapes sources send: plain URLs or objects
// carrying a url/src field.
func photoURLs(items []json.RawMessage) []string {
	out := []string{}
	for _, item := range items {
		var url string
		if err := json.Unmarshal(item, &url); err == nil && url != "" {
			out = append(out, url)
			continue
		}
		var obj struct {
			URL string `json:"url"`
			Src string `json:"src"`
		}
		if err := json.Unmarshal(item, &obj); err == nil {
			if u := firstString(obj.URL, obj.Src); u != "" {
				out = append(out, u)
			}
		}
	}
	return out
}

// decodeAmenities keeps the raw amenity shape for the normalizer, which
// owns the extraction rules.
func decodeAmenities(raw json.RawMessage) interface{} {
	if len(raw) == 0 {
		return nil
	}
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return v
}
