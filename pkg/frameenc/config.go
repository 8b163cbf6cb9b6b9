package frameenc

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/xaionaro-go/avsample/pkg/avstatus"
)

type CustomOption struct {
	Key   string `yaml:"key"`
	Value string `yaml:"value"`
}

type Config struct {
	CodecName  string `yaml:"codec"`
	BitRate    int64  `yaml:"bit_rate"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	FrameRate  int    `yaml:"frame_rate"`
	GOPSize    int    `yaml:"gop_size"`
	MaxBFrames int    `yaml:"max_b_frames"`
	FrameCount int    `yaml:"frame_count"`

	// H264Preset is set as the "preset" private option when the codec is H.264.
	H264Preset string `yaml:"h264_preset"`

	// CustomOptions are passed to the encoder when it is opened.
	CustomOptions []CustomOption `yaml:"custom_options,omitempty"`
}

func DefaultConfig() Config {
	return Config{
		CodecName:  "mpeg4",
		BitRate:    400000,
		Width:      352,
		Height:     288,
		FrameRate:  25,
		GOPSize:    10,
		MaxBFrames: 1,
		FrameCount: 25,
		H264Preset: "slow",
	}
}

// Validate rejects configurations no encoder could accept. Anything more
// specific is left to the encoder itself.
func (cfg Config) Validate() error {
	switch {
	case cfg.CodecName == "":
		return avstatus.New(avstatus.KindConfigRejected, "the codec name is empty")
	case cfg.Width <= 0 || cfg.Height <= 0:
		return avstatus.Newf(avstatus.KindConfigRejected, "invalid resolution %dx%d", cfg.Width, cfg.Height)
	case cfg.Width%2 != 0 || cfg.Height%2 != 0:
		return avstatus.Newf(avstatus.KindConfigRejected, "resolution %dx%d is not a multiple of two", cfg.Width, cfg.Height)
	case cfg.FrameRate <= 0:
		return avstatus.Newf(avstatus.KindConfigRejected, "invalid frame rate %d", cfg.FrameRate)
	case cfg.BitRate < 0:
		return avstatus.Newf(avstatus.KindConfigRejected, "invalid bit rate %d", cfg.BitRate)
	case cfg.GOPSize < 0:
		return avstatus.Newf(avstatus.KindConfigRejected, "invalid GOP size %d", cfg.GOPSize)
	case cfg.MaxBFrames < 0:
		return avstatus.Newf(avstatus.KindConfigRejected, "invalid amount of B-frames %d", cfg.MaxBFrames)
	case cfg.FrameCount < 0:
		return avstatus.Newf(avstatus.KindConfigRejected, "invalid frame count %d", cfg.FrameCount)
	}
	return nil
}

// ReadConfig overrides fields of cfg with the ones set in the YAML file at path.
func ReadConfig(path string, cfg *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("unable to read file '%s': %w", path, err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return fmt.Errorf("unable to unserialize config: %w: <%s>", err, b)
	}
	return nil
}

func WriteConfig(path string, cfg Config) error {
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("unable to serialize config %#+v: %w", cfg, err)
	}
	if err := os.WriteFile(path, b, 0640); err != nil {
		return fmt.Errorf("unable to write config to file '%s': %w", path, err)
	}
	return nil
}
