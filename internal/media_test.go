package internal

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"picimport/internal/testutil"
)

func TestExtension(t *testing.T) {
	testCases := []struct {
		name     string
		expected string
	}{
		{"IMG_0001.JPG", "jpg"},
		{"clip.Mp4", "mp4"},
		{"archive.tar.gz", "gz"},
		{"README", ""},
		{".hidden", "hidden"},
		{"trailing.", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Extension(tc.name))
		})
	}
}

func TestClassify_Buckets(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{
		"a/IMG_1.JPG",
		"a/IMG_2.jpg",
		"b/shot.png",
		"b/c/clip.MP4",
		"notes.txt",
		"Makefile",
		"raw.dng",
	} {
		testutil.WriteFile(t, root, name, []byte("x"))
	}

	c, err := Classify(root, DefaultImageExt, DefaultVideoExt)
	require.NoError(t, err)

	assert.Equal(t, 4, Count(c.Images))
	assert.Equal(t, 1, Count(c.Videos))
	assert.Equal(t, 2, Count(c.Others))

	var imageExts []string
	for _, g := range c.Images {
		imageExts = append(imageExts, g.Ext)
	}
	// lexical walk: a/ first, then b/, then raw.dng
	assert.Equal(t, []string{"jpg", "png", "dng"}, imageExts)
	assert.Equal(t, []string{
		filepath.Join(root, "a/IMG_1.JPG"),
		filepath.Join(root, "a/IMG_2.jpg"),
	}, c.Images[0].Paths)

	others := map[string]int{}
	for _, g := range c.Others {
		others[g.Ext] = len(g.Paths)
	}
	assert.Equal(t, map[string]int{"": 1, "txt": 1}, others)
}

func TestClassify_SkipsDestination(t *testing.T) {
	root := t.TempDir()
	testutil.WriteFile(t, root, "in/photo.jpg", []byte("x"))
	testutil.WriteFile(t, root, "library/2021-05-03/20210503_142210.jpg", []byte("x"))

	c, err := Classify(root, DefaultImageExt, DefaultVideoExt, filepath.Join(root, "library"))
	require.NoError(t, err)

	require.Len(t, c.Images, 1)
	assert.Equal(t, []string{filepath.Join(root, "in/photo.jpg")}, c.Images[0].Paths)
}

func TestClassify_CustomAllowList(t *testing.T) {
	root := t.TempDir()
	testutil.WriteFile(t, root, "x.heic", []byte("x"))
	testutil.WriteFile(t, root, "y.jpg", []byte("x"))

	c, err := Classify(root, []string{"heic"}, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, Count(c.Images))
	assert.Equal(t, "heic", c.Images[0].Ext)
	assert.Equal(t, 1, Count(c.Others))
}

func TestClassify_MissingRoot(t *testing.T) {
	_, err := Classify(filepath.Join(t.TempDir(), "nope"), DefaultImageExt, DefaultVideoExt)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestClassify_UnreadableSubdirIsSkipped(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not enforced on windows")
	}
	if os.Geteuid() == 0 {
		t.Skip("root ignores directory permissions")
	}

	root := t.TempDir()
	photo := testutil.WriteFile(t, root, "a/photo.jpg", []byte("x"))
	testutil.WriteFile(t, root, "b/hidden.jpg", []byte("x"))
	locked := filepath.Join(root, "b")
	require.NoError(t, os.Chmod(locked, 0))
	t.Cleanup(func() { _ = os.Chmod(locked, 0755) })

	c, err := Classify(root, DefaultImageExt, DefaultVideoExt)
	require.NoError(t, err)

	require.Len(t, c.Images, 1)
	assert.Equal(t, []string{photo}, c.Images[0].Paths)
	assert.Equal(t, []string{locked}, c.Unreadable)

	var out bytes.Buffer
	WriteReport(&out, &Plan{Others: c.Others, Unreadable: c.Unreadable})
	assert.Contains(t, out.String(), "1 paths could not be read and were skipped:\n  "+locked)
}
