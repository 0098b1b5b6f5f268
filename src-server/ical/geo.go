package ical

import (
	"regexp"
	"strconv"
	"strings"
)

var leadingFloatPattern = regexp.MustCompile(`^[+-]?\d+(\.\d+)?([eE][+-]?\d+)?`)

// A latitude/longitude pair from a GEO property.
type Geo struct {
	Lat float64
	Lon float64
}

// Parse a `lat;lon` pair. The value is unescaped first, then split on ";";
// anything but exactly two segments fails with ErrGeoFormat. Each segment
// contributes whatever leading numeric prefix it has, or 0 when there is
// none - feeds putting units or junk after the number are common enough.
func ParseGeo(value string) (Geo, error) {
	segments := strings.Split(Unescape(value), ";")
	if len(segments) != 2 {
		return Geo{}, NewCustomError("geo value must have exactly two segments", map[string]any{
			"value": value,
		}).Kind(ErrGeoFormat)
	}
	return Geo{
		Lat: leadingFloat(segments[0]),
		Lon: leadingFloat(segments[1]),
	}, nil
}

func leadingFloat(s string) float64 {
	match := leadingFloatPattern.FindString(s)
	if match == "" {
		return 0
	}
	parsed, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0
	}
	return parsed
}
