package internal

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
)

// ErrDeclined is returned by Confirm when the user does not answer yes.
var ErrDeclined = errors.New("import cancelled")

// Entry is one image or video with the outcome of its extraction.
type Entry struct {
	Path  string
	Ext   string
	Kind  Kind
	Size  int64
	Taken time.Time
	Err   error
}

// OK reports whether a capture time was found.
func (e Entry) OK() bool { return e.Err == nil }

// Plan is the result of the preview pass. The move pass runs from it, so
// metadata is read once per file.
type Plan struct {
	Images     []Entry
	Videos     []Entry
	Others     []Group
	Unreadable []string
}

// Summary holds the counts printed by the preview.
type Summary struct {
	Images      int
	ImageBytes  int64
	Videos      int
	VideoBytes  int64
	NoTimestamp int
}

// BuildPlan extracts a timestamp for every image and video in c. step, when
// not nil, is called once per file.
func BuildPlan(c *Classification, images, videos Extractor, step func()) *Plan {
	p := &Plan{Others: c.Others, Unreadable: c.Unreadable}
	p.Images = extractAll(c.Images, KindImage, images, step)
	p.Videos = extractAll(c.Videos, KindVideo, videos, step)
	return p
}

func extractAll(groups []Group, kind Kind, x Extractor, step func()) []Entry {
	entries := make([]Entry, 0, Count(groups))
	for _, g := range groups {
		for _, path := range g.Paths {
			e := Entry{Path: path, Ext: g.Ext, Kind: kind}
			if info, err := os.Stat(path); err == nil {
				e.Size = info.Size()
			}
			e.Taken, e.Err = x.Timestamp(path)
			entries = append(entries, e)
			if step != nil {
				step()
			}
		}
	}
	return entries
}

func (p *Plan) Summary() Summary {
	var s Summary
	for _, e := range p.Images {
		if e.OK() {
			s.Images++
			s.ImageBytes += e.Size
		} else {
			s.NoTimestamp++
		}
	}
	for _, e := range p.Videos {
		if e.OK() {
			s.Videos++
			s.VideoBytes += e.Size
		} else {
			s.NoTimestamp++
		}
	}
	return s
}

// WriteReport prints the preview counts.
func WriteReport(w io.Writer, p *Plan) {
	s := p.Summary()
	fmt.Fprintf(w, "%d images will be imported (%s)\n", s.Images, humanize.Bytes(uint64(s.ImageBytes)))
	fmt.Fprintf(w, "%d videos will be imported (%s)\n\n", s.Videos, humanize.Bytes(uint64(s.VideoBytes)))
	fmt.Fprintf(w, "%d files have no timestamp and will not be imported\n\n", s.NoTimestamp)

	fmt.Fprintln(w, "non-image files found:")
	for _, g := range p.Others {
		ext := g.Ext
		if ext == "" {
			ext = "(none)"
		}
		fmt.Fprintf(w, "%s: %d\n", ext, len(g.Paths))
	}

	if len(p.Unreadable) > 0 {
		fmt.Fprintf(w, "\n%d paths could not be read and were skipped:\n", len(p.Unreadable))
		for _, path := range p.Unreadable {
			fmt.Fprintf(w, "  %s\n", path)
		}
	}
}

// Confirm asks for a yes/no answer on out and reads it from in. Anything but
// "y" or "yes" returns ErrDeclined.
func Confirm(in io.Reader, out io.Writer) error {
	fmt.Fprint(out, "\ncontinue? (y/n) ")
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return ErrDeclined
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return nil
	default:
		return ErrDeclined
	}
}

// NewProgress returns a step callback drawing a progress bar on w when w is
// a terminal, and a no-op otherwise. finish clears the bar.
func NewProgress(w io.Writer, total int) (step func(), finish func()) {
	f, ok := w.(*os.File)
	if !ok || total == 0 || !(isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return func() {}, func() {}
	}

	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("Reading metadata"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
	return func() { _ = bar.Add(1) }, func() { _ = bar.Finish() }
}
