package internal

import (
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"picimport/internal/testutil"
)

func TestExifReader_DateTimeOriginal(t *testing.T) {
	path := testutil.WriteFile(t, t.TempDir(), "photo.jpg", testutil.ExifJPEG(t, "2021:05:03 14:22:10"))

	ts, err := ExifReader{}.Timestamp(path)
	require.NoError(t, err)
	assert.Equal(t, "2021-05-03 14:22:10", ts.Format("2006-01-02 15:04:05"))
}

func TestExifReader_Reasons(t *testing.T) {
	dir := t.TempDir()

	testCases := []struct {
		name     string
		path     string
		expected Reason
	}{
		{"missing file", filepath.Join(dir, "gone.jpg"), ReasonUnreadable},
		{"not an image", testutil.WriteFile(t, dir, "fake.jpg", []byte("hello")), ReasonUnsupported},
		{"jpeg without exif", testutil.WriteFile(t, dir, "plain.jpg", testutil.JPEG(t)), ReasonNoMetadata},
		{"exif without date", testutil.WriteFile(t, dir, "nodate.jpg", testutil.ExifJPEG(t, "")), ReasonNoMetadata},
		{"garbage date", testutil.WriteFile(t, dir, "bad.jpg", testutil.ExifJPEG(t, "yesterday noon")), ReasonMalformed},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ExifReader{}.Timestamp(tc.path)
			require.Error(t, err)
			assert.Equal(t, tc.expected, ReasonOf(err))

			var xerr *ExtractError
			require.ErrorAs(t, err, &xerr)
			assert.Equal(t, tc.path, xerr.Path)
		})
	}
}

func TestExifToolReader(t *testing.T) {
	if _, err := exec.LookPath("exiftool"); err != nil {
		t.Skip("exiftool not installed")
	}

	r, err := NewExifToolReader()
	require.NoError(t, err)
	defer r.Close()

	dir := t.TempDir()
	dated := testutil.WriteFile(t, dir, "photo.jpg", testutil.ExifJPEG(t, "2021:05:03 14:22:10"))
	ts, err := r.Timestamp(dated)
	require.NoError(t, err)
	assert.Equal(t, "2021-05-03 14:22:10", ts.Format("2006-01-02 15:04:05"))

	nodate := testutil.WriteFile(t, dir, "nodate.jpg", testutil.ExifJPEG(t, ""))
	_, err = r.Timestamp(nodate)
	require.Error(t, err)
	assert.Equal(t, ReasonNoMetadata, ReasonOf(err))

	_, err = r.Timestamp(filepath.Join(dir, "gone.jpg"))
	assert.Equal(t, ReasonUnreadable, ReasonOf(err))
}
