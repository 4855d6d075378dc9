package internal

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cast"
)

const (
	dirLayout  = "2006-01-02"
	fileLayout = "20060102_150405"
)

// parseTimestamp parses ISO-8601 and "YYYY-MM-DD hh:mm:ss" style strings.
// Values without a zone keep their wall clock and are placed in UTC.
func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	// ffprobe may print a bare "." before the Z when there are no fractional digits.
	s = strings.Replace(s, ".Z", "Z", 1)
	t, err := cast.ToTimeInDefaultLocationE(s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("unable to parse %q: %w", s, err)
	}
	return t, nil
}

// exifToISO turns an EXIF "2021:05:03 14:22:10" into "2021-05-03 14:22:10".
// Only the date portion uses colons as separators.
func exifToISO(s string) string {
	s = strings.TrimSpace(strings.TrimRight(s, "\x00"))
	date, clock, found := strings.Cut(s, " ")
	date = strings.ReplaceAll(date, ":", "-")
	if !found {
		return date
	}
	return date + " " + strings.TrimSpace(clock)
}

// DirName is the destination subdirectory for a capture time.
func DirName(t time.Time) string {
	return t.Format(dirLayout)
}

// FileName is the destination file name for a capture time and extension.
func FileName(t time.Time, ext string) string {
	if ext == "" {
		return t.Format(fileLayout)
	}
	return t.Format(fileLayout) + "." + ext
}
