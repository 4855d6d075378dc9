package internal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExifToISO(t *testing.T) {
	assert.Equal(t, "2021-05-03 14:22:10", exifToISO("2021:05:03 14:22:10"))
	assert.Equal(t, "2021-05-03 14:22:10", exifToISO("2021:05:03 14:22:10\x00"))
	assert.Equal(t, "2021-05-03", exifToISO("2021:05:03"))
	assert.Equal(t, "", exifToISO("   "))
}

func TestParseTimestamp(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"2021-05-03 14:22:10", "2021-05-03 14:22:10"},
		{"2020-01-01T00:00:00.000Z", "2020-01-01 00:00:00"},
		{"2020-01-01T10:11:12.Z", "2020-01-01 10:11:12"},
		{"2019-12-31T23:59:59.123456Z", "2019-12-31 23:59:59"},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			ts, err := parseTimestamp(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, ts.Format("2006-01-02 15:04:05"))
		})
	}
}

func TestParseTimestamp_Invalid(t *testing.T) {
	_, err := parseTimestamp("not a date")
	assert.Error(t, err)
}

func TestDestinationNames(t *testing.T) {
	ts := time.Date(2021, 5, 3, 14, 22, 10, 0, time.UTC)
	assert.Equal(t, "2021-05-03", DirName(ts))
	assert.Equal(t, "20210503_142210.jpg", FileName(ts, "jpg"))
	assert.Equal(t, "20210503_142210", FileName(ts, ""))
}
