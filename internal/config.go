package internal

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Video probe names accepted by --probe.
const (
	ProbeFFProbe = "ffprobe"
	ProbeMP4     = "mp4"
)

var (
	DefaultImageExt = []string{"jpg", "jpeg", "png", "dng"}
	DefaultVideoExt = []string{"mp4", "avi", "mov"}
)

type Config struct {
	Source      string   `mapstructure:"source"`
	Destination string   `mapstructure:"destination"`
	ImageExt    []string `mapstructure:"image-ext"`
	VideoExt    []string `mapstructure:"video-ext"`
	UseExifTool bool     `mapstructure:"exiftool"`
	Probe       string   `mapstructure:"probe"`
	AssumeYes   bool     `mapstructure:"yes"`
	DryRun      bool     `mapstructure:"dry-run"`
	Journal     string   `mapstructure:"journal"`
}

// LoadConfig merges command line flags with PICIMPORT_* environment
// variables. Flags win over the environment.
func LoadConfig(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("picimport")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("image-ext", DefaultImageExt)
	v.SetDefault("video-ext", DefaultVideoExt)
	v.SetDefault("probe", ProbeFFProbe)

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("failed to bind flags: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ImageExt = normalizeExts(cfg.ImageExt)
	cfg.VideoExt = normalizeExts(cfg.VideoExt)
	return &cfg, nil
}

// Validate checks the source and destination directories and the probe name.
func (c *Config) Validate() error {
	if c.Source == "" {
		return errors.New("no argument to --source")
	}
	if c.Destination == "" {
		return errors.New("no argument to --destination")
	}
	for _, dir := range []string{c.Source, c.Destination} {
		if err := requireDir(dir); err != nil {
			return err
		}
	}
	switch c.Probe {
	case ProbeFFProbe, ProbeMP4:
	default:
		return fmt.Errorf("unknown probe %q (want %s or %s)", c.Probe, ProbeFFProbe, ProbeMP4)
	}
	return nil
}

func requireDir(path string) error {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%s is not a directory", path)
	}
	return nil
}

// normalizeExts lowercases entries and strips a leading dot, so ".JPG" and
// "jpg" mean the same thing.
func normalizeExts(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(e), "."))
		if e != "" {
			out = append(out, e)
		}
	}
	return out
}
