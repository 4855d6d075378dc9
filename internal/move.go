package internal

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"
	"time"
)

var renameFunc = os.Rename

// Destination returns <root>/<YYYY-MM-DD>/<YYYYMMDD_HHMMSS>.<ext>.
func Destination(root string, t time.Time, ext string) string {
	return filepath.Join(root, DirName(t), FileName(t, ext))
}

// ensureDir creates dir. An existing directory is not an error.
func ensureDir(dir string) error {
	err := os.Mkdir(dir, 0755)
	if err == nil {
		return nil
	}
	if errors.Is(err, fs.ErrExist) {
		if info, serr := os.Stat(dir); serr == nil && info.IsDir() {
			return nil
		}
	}
	return fmt.Errorf("failed to create directory %s: %w", dir, err)
}

// freePath returns dest when nothing exists there, otherwise the first free
// name obtained by appending _2, _3... to the stem. A candidate that is src
// itself counts as free, so a file imported by an earlier run keeps its name.
func freePath(dest, src string) (string, error) {
	_, err := os.Lstat(dest)
	if errors.Is(err, fs.ErrNotExist) {
		return dest, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to stat %s: %w", dest, err)
	}

	ext := filepath.Ext(dest)
	base := dest[:len(dest)-len(ext)]
	for i := 2; ; i++ {
		try := fmt.Sprintf("%s_%d%s", base, i, ext)
		if samePath(try, src) {
			return try, nil
		}
		_, err := os.Lstat(try)
		if errors.Is(err, fs.ErrNotExist) {
			return try, nil
		}
		if err != nil {
			return "", fmt.Errorf("failed to stat %s: %w", try, err)
		}
	}
}

// MoveInto relocates src to its dated path under root and returns the final
// path. Existing files are never overwritten. A file that already sits at its
// target path, or at one of its _N variants, is left alone.
func MoveInto(root, src string, t time.Time, ext string) (string, error) {
	dest := Destination(root, t, ext)
	if samePath(src, dest) {
		return dest, nil
	}

	if err := ensureDir(filepath.Dir(dest)); err != nil {
		return "", err
	}

	dest, err := freePath(dest, src)
	if err != nil {
		return "", err
	}
	if samePath(src, dest) {
		return dest, nil
	}

	if err := moveFile(src, dest); err != nil {
		return "", fmt.Errorf("failed to move %s to %s: %w", src, dest, err)
	}
	return dest, nil
}

func samePath(a, b string) bool {
	aa, err1 := filepath.Abs(a)
	bb, err2 := filepath.Abs(b)
	return err1 == nil && err2 == nil && aa == bb
}

// moveFile renames src to dest, falling back to copy and remove when they
// live on different filesystems.
func moveFile(src, dest string) error {
	err := renameFunc(src, dest)
	if err == nil || !isEXDEV(err) {
		return err
	}
	if err := copyFileAtomic(src, dest); err != nil {
		return err
	}
	return os.Remove(src)
}

func isEXDEV(err error) bool {
	var le *os.LinkError
	if errors.As(err, &le) {
		return errors.Is(le.Err, syscall.EXDEV)
	}
	return errors.Is(err, syscall.EXDEV)
}

// copyFileAtomic copies a file atomically (copy temp → rename), keeping the
// source mode and modification time.
func copyFileAtomic(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), "."+filepath.Base(dest)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := io.Copy(tmp, in); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	_ = os.Chmod(tmpName, info.Mode().Perm())
	_ = os.Chtimes(tmpName, info.ModTime(), info.ModTime())

	if err := os.Rename(tmpName, dest); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
