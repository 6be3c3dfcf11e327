package models

import "strings"

// Platform identifies the external source hosting a listing.
type Platform string

const (
	PlatformBooking Platform = "booking"
	PlatformAirbnb  Platform = "airbnb"
	PlatformVrbo    Platform = "vrbo"
	PlatformAgoda   Platform = "agoda"
	PlatformExpedia Platform = "expedia"
	PlatformHotels  Platform = "hotels"
)

// SupportedPlatforms lists every platform the adapter layer recognizes.
var SupportedPlatforms = []Platform{
	PlatformBooking,
	PlatformAirbnb,
	PlatformVrbo,
	PlatformAgoda,
	PlatformExpedia,
	PlatformHotels,
}

// ParsePlatform resolves a platform name case-insensitively.
func ParsePlatform(s string) (Platform, bool) {
	p := Platform(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range SupportedPlatforms {
		if p == known {
			return known, true
		}
	}
	return "", false
}

// shortenedLinkPatterns holds per-platform URL fragments that identify
// shortened share links. These resolve through redirects the scraping
// provider cannot follow, so they are rejected from automated processing.
var shortenedLinkPatterns = map[Platform][]string{
	PlatformBooking: {"booking.com/Share-"},
	PlatformAirbnb:  {"abnb.me/"},
	PlatformVrbo:    {"vrbo.com/l/"},
	PlatformAgoda:   {"agoda.onelink.me"},
	PlatformExpedia: {"expe.app.link"},
	PlatformHotels:  {"hotels.app.link"},
}

// IsShortenedURL reports whether url matches a known degraded pattern for
// the platform.
func IsShortenedURL(platform Platform, url string) bool {
	for _, pattern := range shortenedLinkPatterns[platform] {
		if strings.Contains(url, pattern) {
			return true
		}
	}
	return false
}
