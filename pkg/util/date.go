package util

import "time"

// Stamp layout used throughout the feed: minute precision, no timezone suffix.
const StampLayout = "2006-01-02 15:04"

// FormatStamp formats t as the feed timestamp "YYYY-MM-DD HH:MM".
func FormatStamp(t time.Time) string {
	return t.Format(StampLayout)
}

// SplitStamp splits a feed timestamp into its date and time parts.
// Accepts "YYYY-MM-DD HH:MM" or "YYYY-MM-DD HH:MM:SS"; returns ("", "") when
// the value is too short to carry both parts.
func SplitStamp(s string) (date, clock string) {
	if len(s) < 16 {
		return "", ""
	}
	return s[0:10], s[11:16]
}
