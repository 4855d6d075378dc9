package internal

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"time"

	mp4 "github.com/abema/go-mp4"
)

// probeTag matches the block ffprobe prints for
// "-show_entries format_tags=creation_time".
var probeTag = regexp.MustCompile(`^\[FORMAT\]\nTAG:creation_time=(\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d*Z)\n\[/FORMAT\]\n`)

// CommandRunner runs an external command and returns its stdout.
type CommandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// FFProbe reads the container creation_time tag with ffprobe.
type FFProbe struct {
	Binary  string
	Timeout time.Duration
	Run     CommandRunner
}

func NewFFProbe() *FFProbe {
	return &FFProbe{Binary: "ffprobe", Timeout: 30 * time.Second, Run: execRunner}
}

func (p *FFProbe) Timestamp(path string) (time.Time, error) {
	ctx := context.Background()
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	out, err := p.Run(ctx, p.Binary, "-v", "quiet", path, "-show_entries", "format_tags=creation_time")
	if err != nil {
		return time.Time{}, extractErr(path, ReasonToolFailed, err)
	}
	return parseProbeOutput(path, out)
}

func parseProbeOutput(path string, out []byte) (time.Time, error) {
	m := probeTag.FindSubmatch(out)
	if m == nil {
		return time.Time{}, extractErr(path, ReasonNoMetadata, errors.New("no creation_time tag"))
	}
	t, err := parseTimestamp(string(m[1]))
	if err != nil {
		return time.Time{}, extractErr(path, ReasonMalformed, err)
	}
	return t, nil
}

// appleEpochOffset is the number of seconds between 1904-01-01 UTC, the
// ISO BMFF epoch, and the Unix epoch.
const appleEpochOffset = 2082844800

// MP4Probe reads the moov/mvhd creation time of ISO BMFF containers
// (mp4, mov, m4v, 3gp) without external tools.
type MP4Probe struct{}

func (MP4Probe) Timestamp(path string) (time.Time, error) {
	f, err := os.Open(path)
	if err != nil {
		return time.Time{}, extractErr(path, ReasonUnreadable, err)
	}
	defer f.Close()

	boxes, err := mp4.ExtractBoxesWithPayload(f, nil, []mp4.BoxPath{
		{mp4.BoxTypeMoov(), mp4.BoxTypeMvhd()},
	})
	if err != nil {
		return time.Time{}, extractErr(path, ReasonUnsupported, err)
	}

	for _, box := range boxes {
		mvhd, ok := box.Payload.(*mp4.Mvhd)
		if !ok {
			continue
		}
		secs := int64(mvhd.GetCreationTime())
		if secs == 0 {
			return time.Time{}, extractErr(path, ReasonNoMetadata, errors.New("mvhd creation time is zero"))
		}
		t := time.Unix(secs-appleEpochOffset, 0).UTC()
		if t.Year() < 1970 {
			return time.Time{}, extractErr(path, ReasonMalformed, fmt.Errorf("mvhd creation time %d predates 1970", secs))
		}
		return t, nil
	}
	return time.Time{}, extractErr(path, ReasonUnsupported, errors.New("no moov/mvhd box"))
}
