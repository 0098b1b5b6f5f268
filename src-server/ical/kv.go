package ical

import (
	"fmt"
	"strconv"
	"strings"
)

// Render one event field into its content line, newline included. Unset
// values render as "" so the serializer can skip them. Per value type:
//
//   - *DateTime: VALUE=DATE for bare dates, otherwise the wall clock plus a
//     TZID parameter naming the zone
//   - *Geo: lat;lon
//   - []string: comma-joined
//   - string: escaped text, except UID/URL/TZID which pass through raw and
//     STATUS/CLASS which are written back uppercase
func buildLine(key string, value any) string {
	switch value := value.(type) {
	case *DateTime:
		if value == nil {
			return ""
		}
		if value.DateOnly {
			return fmt.Sprintf("%s;VALUE=DATE:%s\n", key, value.Format(dateLayout))
		}
		return fmt.Sprintf("%s;TZID=%s:%s\n", key, value.Location(), value.Format(dateTimeLayout))
	case *Geo:
		if value == nil {
			return ""
		}
		return fmt.Sprintf("%s:%s;%s\n", key,
			strconv.FormatFloat(value.Lat, 'f', -1, 64),
			strconv.FormatFloat(value.Lon, 'f', -1, 64))
	case []string:
		if len(value) == 0 {
			return ""
		}
		return fmt.Sprintf("%s:%s\n", key, strings.Join(value, ","))
	case string:
		if value == "" {
			return ""
		}
		switch key {
		case "UID", "URL", "TZID":
			return fmt.Sprintf("%s:%s\n", key, value)
		case "STATUS", "CLASS":
			return fmt.Sprintf("%s:%s\n", key, strings.ToUpper(value))
		default:
			return fmt.Sprintf("%s:%s\n", key, Escape(value))
		}
	default:
		return ""
	}
}
