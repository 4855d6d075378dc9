package internal

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/barasher/go-exiftool"
	"github.com/gabriel-vasile/mimetype"
	"github.com/rwcarlsen/goexif/exif"
)

// Extractor returns the capture time of a single file. A failed extraction
// is an *ExtractError describing the reason.
type Extractor interface {
	Timestamp(path string) (time.Time, error)
}

// ExifReader decodes EXIF in-process and reads DateTimeOriginal.
type ExifReader struct{}

func (ExifReader) Timestamp(path string) (time.Time, error) {
	f, err := os.Open(path)
	if err != nil {
		return time.Time{}, extractErr(path, ReasonUnreadable, err)
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return time.Time{}, extractErr(path, decodeFailure(path), err)
	}

	tag, err := x.Get(exif.DateTimeOriginal)
	if err != nil {
		return time.Time{}, extractErr(path, ReasonNoMetadata, err)
	}

	raw, err := tag.StringVal()
	if err != nil {
		return time.Time{}, extractErr(path, ReasonMalformed, err)
	}
	return parseExifDate(path, raw)
}

// decodeFailure tells a real image that carries no EXIF segment apart from a
// file that is not an image at all.
func decodeFailure(path string) Reason {
	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return ReasonUnreadable
	}
	if strings.HasPrefix(mt.String(), "image/") {
		return ReasonNoMetadata
	}
	return ReasonUnsupported
}

func parseExifDate(path, raw string) (time.Time, error) {
	iso := exifToISO(raw)
	if iso == "" {
		return time.Time{}, extractErr(path, ReasonNoMetadata, errors.New("empty DateTimeOriginal"))
	}
	t, err := parseTimestamp(iso)
	if err != nil {
		return time.Time{}, extractErr(path, ReasonMalformed, err)
	}
	return t, nil
}

// ExifToolReader reads DateTimeOriginal through a stay-open exiftool process.
// It handles formats the in-process decoder cannot, at the cost of needing
// the exiftool binary.
type ExifToolReader struct {
	et *exiftool.Exiftool
}

func NewExifToolReader() (*ExifToolReader, error) {
	et, err := exiftool.NewExiftool()
	if err != nil {
		return nil, fmt.Errorf("failed to start exiftool: %w", err)
	}
	return &ExifToolReader{et: et}, nil
}

func (r *ExifToolReader) Timestamp(path string) (time.Time, error) {
	if _, err := os.Stat(path); err != nil {
		return time.Time{}, extractErr(path, ReasonUnreadable, err)
	}

	infos := r.et.ExtractMetadata(path)
	if len(infos) == 0 {
		return time.Time{}, extractErr(path, ReasonToolFailed, errors.New("exiftool returned no result"))
	}
	fi := infos[0]
	if fi.Err != nil {
		return time.Time{}, extractErr(path, ReasonUnsupported, fi.Err)
	}

	raw, err := fi.GetString("DateTimeOriginal")
	if err != nil {
		return time.Time{}, extractErr(path, ReasonNoMetadata, err)
	}
	return parseExifDate(path, raw)
}

func (r *ExifToolReader) Close() error {
	return r.et.Close()
}
