package utils

import "time"

// Unknown is the display sentinel for values the venue sent in a shape we
// could not parse.
const Unknown = "-"

// FromMillis converts a venue millisecond timestamp to time.Time. Zero and
// negative inputs report ok=false so callers can render the sentinel instead
// of the epoch.
func FromMillis(ms int64) (time.Time, bool) {
	if ms <= 0 {
		return time.Time{}, false
	}
	return time.UnixMilli(ms).UTC(), true
}

// FormatMillis renders a venue millisecond timestamp in the given display
// location with an explicit UTC offset, or "-" when the timestamp is
// missing/invalid.
func FormatMillis(ms int64, loc *time.Location) string {
	t, ok := FromMillis(ms)
	if !ok {
		return Unknown
	}
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format("2006-01-02 15:04 -07:00")
}

// FormatTime renders an already-converted timestamp the same way as
// FormatMillis; the zero time renders as "-".
func FormatTime(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return Unknown
	}
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format("2006-01-02 15:04 -07:00")
}
