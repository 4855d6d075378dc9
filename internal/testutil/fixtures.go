// Package testutil builds media fixtures for tests.
package testutil

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/abema/go-mp4"
)

func createTestImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r := uint8((x * 255) / width)
			g := uint8((y * 255) / height)
			b := uint8((x + y) % 255)
			img.Set(x, y, color.RGBA{R: r, G: g, B: b, A: 255})
		}
	}
	return img
}

// JPEG returns an encoded JPEG without any metadata.
func JPEG(t testing.TB) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, createTestImage(16, 12), &jpeg.Options{Quality: 85}); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}
	return buf.Bytes()
}

// ExifJPEG returns a JPEG whose APP1 segment carries DateTimeOriginal set to
// dateTime, in EXIF form ("2006:01:02 15:04:05"). An empty dateTime yields
// an EXIF block with no DateTimeOriginal.
func ExifJPEG(t testing.TB, dateTime string) []byte {
	t.Helper()
	plain := JPEG(t)

	payload := append([]byte("Exif\x00\x00"), tiffBlock(dateTime)...)
	var out bytes.Buffer
	out.Write([]byte{0xFF, 0xD8, 0xFF, 0xE1})
	_ = binary.Write(&out, binary.BigEndian, uint16(len(payload)+2))
	out.Write(payload)
	out.Write(plain[2:]) // skip the SOI of the plain image
	return out.Bytes()
}

// tiffBlock lays out a big-endian TIFF header, IFD0 holding only the Exif
// IFD pointer, and the Exif IFD holding DateTimeOriginal.
func tiffBlock(dateTime string) []byte {
	const (
		ifd0Offset = 8
		ifd0Size   = 2 + 12 + 4
		exifOffset = ifd0Offset + ifd0Size
		exifSize   = 2 + 12 + 4
		dataOffset = exifOffset + exifSize
	)

	var b bytes.Buffer
	w := func(v any) { _ = binary.Write(&b, binary.BigEndian, v) }

	b.WriteString("MM")
	w(uint16(42))
	w(uint32(ifd0Offset))

	// IFD0: ExifIFDPointer
	w(uint16(1))
	w(uint16(0x8769))
	w(uint16(4)) // LONG
	w(uint32(1))
	w(uint32(exifOffset))
	w(uint32(0))

	if dateTime == "" {
		// Exif IFD: ISOSpeedRatings only
		w(uint16(1))
		w(uint16(0x8827))
		w(uint16(3)) // SHORT
		w(uint32(1))
		w(uint16(100))
		w(uint16(0))
		w(uint32(0))
		return b.Bytes()
	}

	value := append([]byte(dateTime), 0)
	w(uint16(1))
	w(uint16(0x9003))
	w(uint16(2)) // ASCII
	w(uint32(len(value)))
	w(uint32(dataOffset))
	w(uint32(0))
	b.Write(value)
	return b.Bytes()
}

// WriteFile writes data to dir/name, creating parent directories, and
// returns the full path.
func WriteFile(t testing.TB, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// ProbeOutput renders what ffprobe prints for a creation_time tag.
func ProbeOutput(creationTime string) []byte {
	return []byte("[FORMAT]\nTAG:creation_time=" + creationTime + "\n[/FORMAT]\n")
}

// WriteMP4 writes a minimal moov/mvhd container to dir/name whose creation
// time is creation. A zero creation leaves the field unset.
func WriteMP4(t testing.TB, dir, name string, creation time.Time) string {
	t.Helper()
	path := WriteFile(t, dir, name, nil)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()

	var secs uint32
	if !creation.IsZero() {
		secs = uint32(creation.Unix() + 2082844800)
	}

	w := mp4.NewWriter(f)
	if _, err := w.StartBox(&mp4.BoxInfo{Type: mp4.BoxTypeMoov()}); err != nil {
		t.Fatalf("moov: %v", err)
	}
	if _, err := w.StartBox(&mp4.BoxInfo{Type: mp4.BoxTypeMvhd()}); err != nil {
		t.Fatalf("mvhd: %v", err)
	}
	mvhd := &mp4.Mvhd{
		CreationTimeV0:     secs,
		ModificationTimeV0: secs,
		Timescale:          1000,
		Rate:               0x10000,
		Volume:             0x100,
		NextTrackID:        1,
	}
	if _, err := mp4.Marshal(w, mvhd, mp4.Context{}); err != nil {
		t.Fatalf("marshal mvhd: %v", err)
	}
	for i := 0; i < 2; i++ {
		if _, err := w.EndBox(); err != nil {
			t.Fatalf("end box: %v", err)
		}
	}
	return path
}
