package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"picimport/internal"
)

// Version is overridden at build time or from the embedded VERSION file.
var Version = "dev"

var rootCmd = NewRootCmd()

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "picimport -s <source> -d <destination>",
		Short: "Move photos and videos into dated folders",
		Long: `Scan a source tree for images and videos, read their capture time
(EXIF DateTimeOriginal for images, container creation_time for videos) and
move them to <destination>/YYYY-MM-DD/YYYYMMDD_HHMMSS.<ext>.`,
		Args:          cobra.NoArgs,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runImport,
	}

	flags := cmd.Flags()
	flags.StringP("source", "s", "", "Directory tree to scan (required)")
	flags.StringP("destination", "d", "", "Root directory for organized output (required)")
	flags.BoolP("yes", "y", false, "Do not ask for confirmation")
	flags.Bool("dry-run", false, "Print the preview and exit without moving anything")
	flags.Bool("exiftool", false, "Read image metadata with the exiftool binary")
	flags.String("probe", internal.ProbeFFProbe, "Video creation time source: ffprobe or mp4")
	flags.StringSlice("image-ext", internal.DefaultImageExt, "Image extensions")
	flags.StringSlice("video-ext", internal.DefaultVideoExt, "Video extensions")
	flags.String("journal", "", "Append a JSON-lines record of the run to this file")

	return cmd
}

func Execute() error {
	return rootCmd.Execute()
}

// ApplyVersion pushes Version into the root command.
func ApplyVersion() {
	rootCmd.Version = Version
}

// Main runs the CLI and maps errors to an exit code.
func Main(stderr io.Writer) int {
	if err := Execute(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
