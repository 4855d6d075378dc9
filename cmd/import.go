package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"picimport/internal"
)

func runImport(cmd *cobra.Command, args []string) error {
	conf, err := internal.LoadConfig(cmd.Flags())
	if err != nil {
		return err
	}
	if err := conf.Validate(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	images, closeImages, err := imageExtractor(conf)
	if err != nil {
		return err
	}
	defer closeImages()
	videos := videoExtractor(conf)

	files, err := internal.Classify(conf.Source, conf.ImageExt, conf.VideoExt, nestedDir(conf.Source, conf.Destination)...)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "Please wait...")
	fmt.Fprintln(out)

	step, finish := internal.NewProgress(cmd.ErrOrStderr(), internal.Count(files.Images)+internal.Count(files.Videos))
	plan := internal.BuildPlan(files, images, videos, step)
	finish()

	internal.WriteReport(out, plan)

	if conf.DryRun {
		fmt.Fprintln(out, "\nDry run mode: no files will be moved")
		return nil
	}
	if !conf.AssumeYes {
		if err := internal.Confirm(cmd.InOrStdin(), out); err != nil {
			return err
		}
	}

	journal, err := internal.OpenJournal(conf.Journal)
	if err != nil {
		return err
	}
	defer journal.Close()

	importer := &internal.Importer{
		Source:      conf.Source,
		Destination: conf.Destination,
		Out:         out,
		Errs:        cmd.ErrOrStderr(),
		Journal:     journal,
	}
	stats := importer.Run(plan)

	fmt.Fprintf(out, "\n%s\n", stats.Summary())
	return nil
}

func imageExtractor(conf *internal.Config) (internal.Extractor, func(), error) {
	if !conf.UseExifTool {
		return internal.ExifReader{}, func() {}, nil
	}
	r, err := internal.NewExifToolReader()
	if err != nil {
		return nil, nil, err
	}
	return r, func() { _ = r.Close() }, nil
}

func videoExtractor(conf *internal.Config) internal.Extractor {
	if conf.Probe == internal.ProbeMP4 {
		return internal.MP4Probe{}
	}
	return internal.NewFFProbe()
}

// nestedDir returns dest when it lies inside source, so the walk does not
// pick up files that were already imported.
func nestedDir(source, dest string) []string {
	src, err1 := filepath.Abs(source)
	dst, err2 := filepath.Abs(dest)
	if err1 != nil || err2 != nil || src == dst {
		return nil
	}
	rel, err := filepath.Rel(src, dst)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return nil
	}
	return []string{dst}
}
