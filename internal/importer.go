package internal

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

var (
	okMark   = color.New(color.FgHiGreen).SprintFunc()
	failMark = color.New(color.FgHiRed).SprintFunc()
)

// Importer performs the move pass of a Plan. Errs receives the first
// journal write failure; later ones are dropped so a broken journal does not
// flood the output.
type Importer struct {
	Source      string
	Destination string
	Out         io.Writer
	Errs        io.Writer
	Journal     *Journal

	journalBroken bool
}

// Run moves every image, then every video, of p that has a capture time.
// Per-file failures are reported and counted, never returned.
func (im *Importer) Run(p *Plan) *Stats {
	im.record(im.Journal.RunStart(im.Source, im.Destination, len(p.Images)+len(p.Videos)))

	stats := NewStats()
	for _, list := range [][]Entry{p.Images, p.Videos} {
		for _, e := range list {
			im.process(e, stats)
		}
	}
	im.record(im.Journal.RunEnd(stats))
	return stats
}

func (im *Importer) record(err error) {
	if err == nil || im.journalBroken {
		return
	}
	im.journalBroken = true
	w := im.Errs
	if w == nil {
		w = im.Out
	}
	fmt.Fprintf(w, "warning: journal: %v\n", err)
}

func (im *Importer) process(e Entry, stats *Stats) {
	if !e.OK() {
		fmt.Fprintf(im.Out, "[%s] %s has no timestamp (%s)\n", failMark("FAIL"), e.Path, ReasonOf(e.Err))
		stats.AddSkipped(e.Err)
		im.record(im.Journal.Skipped(e))
		return
	}

	dest, err := MoveInto(im.Destination, e.Path, e.Taken, e.Ext)
	if err != nil {
		moveErr := CategorizeError(e.Path, err)
		fmt.Fprintf(im.Out, "[%s] %s: %v\n", failMark("FAIL"), e.Path, err)
		if moveErr.Suggestion != "" {
			fmt.Fprintf(im.Out, "       %s\n", moveErr.Suggestion)
		}
		stats.AddFailed()
		im.record(im.Journal.Failed(e, moveErr))
		return
	}

	fmt.Fprintf(im.Out, "[ %s ] %s <- %s\n", okMark("OK"), dest, e.Path)
	stats.AddMoved()
	im.record(im.Journal.Moved(e, dest))
}
