package utils

import "time"

// StampLayout is the wire format for every timestamp the API accepts or
// returns: range bounds, completion times and creation times.  24-hour, no
// timezone, no seconds.  Because the format is fixed-width, lexicographic
// comparison of two stamps is equivalent to chronological comparison.
const StampLayout = "2006-01-02 15:04"

// ParseStamp parses a timestamp in the fixed wire format.
func ParseStamp(s string) (time.Time, error) {
	return time.Parse(StampLayout, s)
}

// FormatStamp renders a time in the fixed wire format.
func FormatStamp(t time.Time) string {
	return t.Format(StampLayout)
}

// NowStamp returns the current UTC time in the fixed wire format.
func NowStamp() string {
	return time.Now().UTC().Format(StampLayout)
}
