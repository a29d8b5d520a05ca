package convert

import (
	"fmt"
	"time"
)

// timestampLayouts are the formats seen in the wild so far, longest
// first so a value with more precision never half-matches a shorter
// layout. Add here as new sources show up.
var timestampLayouts = []string{
	"2006-01-02 15:04:05.999999",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseTimestamp converts a scraped timestamp string into a time.Time by
// trying each known layout in order.
func ParseTimestamp(value string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		parsed, err := time.Parse(layout, value)
		if err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("no timestamp layout matches %q; add a matching layout", value)
}
