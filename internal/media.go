package internal

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

// Kind is the classification bucket of a file.
type Kind int

const (
	KindOther Kind = iota
	KindImage
	KindVideo
)

func (k Kind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindVideo:
		return "video"
	default:
		return "other"
	}
}

// Group holds the paths sharing one extension, in walk order.
type Group struct {
	Ext   string
	Paths []string
}

// Classification is the result of scanning a source tree. Groups appear in
// the order their extension was first seen. Unreadable lists entries the
// walk could not open; they are left where they are.
type Classification struct {
	Images     []Group
	Videos     []Group
	Others     []Group
	Unreadable []string
}

// Count returns the number of paths across groups.
func Count(groups []Group) int {
	n := 0
	for _, g := range groups {
		n += len(g.Paths)
	}
	return n
}

// Extension returns the lowercased text after the last dot of name, or ""
// when name has no dot.
func Extension(name string) string {
	i := strings.LastIndexByte(name, '.')
	if i < 0 {
		return ""
	}
	return strings.ToLower(name[i+1:])
}

// Classify walks root recursively and buckets every file by extension.
// Directories listed in skip are not descended into. Only a failure on root
// itself is an error; anything below it that cannot be read is recorded and
// skipped.
func Classify(root string, imageExt, videoExt []string, skip ...string) (*Classification, error) {
	kinds := make(map[string]Kind, len(imageExt)+len(videoExt))
	for _, e := range imageExt {
		kinds[e] = KindImage
	}
	for _, e := range videoExt {
		kinds[e] = KindVideo
	}

	skipped := make(map[string]bool, len(skip))
	for _, s := range skip {
		if abs, err := filepath.Abs(s); err == nil {
			skipped[abs] = true
		}
	}

	var images, videos, others grouper
	var unreadable []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			unreadable = append(unreadable, path)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path != root && len(skipped) > 0 {
				if abs, err := filepath.Abs(path); err == nil && skipped[abs] {
					return filepath.SkipDir
				}
			}
			return nil
		}

		ext := Extension(d.Name())
		switch kinds[ext] {
		case KindImage:
			images.add(ext, path)
		case KindVideo:
			videos.add(ext, path)
		default:
			others.add(ext, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error scanning files: %w", err)
	}

	return &Classification{
		Images:     images.groups,
		Videos:     videos.groups,
		Others:     others.groups,
		Unreadable: unreadable,
	}, nil
}

type grouper struct {
	index  map[string]int
	groups []Group
}

func (g *grouper) add(ext, path string) {
	if g.index == nil {
		g.index = make(map[string]int)
	}
	i, ok := g.index[ext]
	if !ok {
		i = len(g.groups)
		g.index[ext] = i
		g.groups = append(g.groups, Group{Ext: ext})
	}
	g.groups[i].Paths = append(g.groups[i].Paths, path)
}
