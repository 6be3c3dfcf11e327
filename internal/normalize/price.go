package normalize

import (
	"strconv"
	"strings"
)

// ExtractPrice parses a raw price string into a number. All characters
// except digits, comma and dot are stripped; a comma acts as the decimal
// separator only when no dot is present. ok is false when no valid number
// remains.
func ExtractPrice(raw string) (float64, bool) {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == ',' || r == '.' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return 0, false
	}

	if strings.Contains(cleaned, ".") {
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	} else {
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	}

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// PriceString renders an extracted price for the canonical pricing block,
// falling back to the explicit "no price" marker.
func PriceString(raw string) string {
	value, ok := ExtractPrice(raw)
	if !ok {
		return NoPriceMarker
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}
