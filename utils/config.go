package utils

import (
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3/common"
	"github.com/vkngwrapper/encode-session/encode"
	"gopkg.in/yaml.v3"
)

type Config struct {
	ApplicationName string        `yaml:"application_name"`
	APIVersion      string        `yaml:"api_version"`
	Loader          string        `yaml:"loader"`
	LibraryPath     string        `yaml:"library_path"`
	Validation      bool          `yaml:"validation"`
	Profile         ProfileConfig `yaml:"profile"`
	Session         SessionConfig `yaml:"session"`
	Log             LogConfig     `yaml:"log"`
}

type ProfileConfig struct {
	ChromaSubsampling string `yaml:"chroma_subsampling"`
	LumaBitDepth      int    `yaml:"luma_bit_depth"`
	ChromaBitDepth    int    `yaml:"chroma_bit_depth"`
	H264Profile       string `yaml:"h264_profile"`
}

type SessionConfig struct {
	Width           int    `yaml:"width"`
	Height          int    `yaml:"height"`
	PictureFormat   string `yaml:"picture_format"`
	SkipFormatQuery bool   `yaml:"skip_format_query"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func DefaultConfig() *Config {
	return &Config{
		ApplicationName: DefaultApplicationName,
		APIVersion:      DefaultAPIVersion,
		Loader:          DefaultLoader,
		Profile: ProfileConfig{
			ChromaSubsampling: DefaultChromaSubsampling,
			LumaBitDepth:      DefaultBitDepth,
			ChromaBitDepth:    DefaultBitDepth,
			H264Profile:       DefaultH264Profile,
		},
		Session: SessionConfig{
			Width:         DefaultWidth,
			Height:        DefaultHeight,
			PictureFormat: DefaultPictureFormat,
		},
		Log: LogConfig{
			Level:  LogLevelInfo,
			Format: LogFormatText,
		},
	}
}

// LoadConfig reads a YAML file over the defaults. Keys absent from the file
// keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "failed to parse config file %s", path)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if _, err := ParseAPIVersion(c.APIVersion); err != nil {
		return err
	}
	switch strings.ToLower(strings.TrimSpace(c.Loader)) {
	case "", LoaderSystem, LoaderSDL:
	default:
		return errors.Newf("unknown loader %q: expected %q or %q", c.Loader, LoaderSystem, LoaderSDL)
	}
	if _, err := c.Profile.VideoProfile(); err != nil {
		return err
	}
	if _, err := ParsePictureFormat(c.Session.PictureFormat); err != nil {
		return err
	}
	if c.Session.Width <= 0 || c.Session.Height <= 0 {
		return errors.Newf("session extent %dx%d must be positive", c.Session.Width, c.Session.Height)
	}

	switch c.Log.Level {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
	default:
		return errors.Newf("unknown log level %q", c.Log.Level)
	}
	switch c.Log.Format {
	case LogFormatText, LogFormatJSON:
	default:
		return errors.Newf("unknown log format %q", c.Log.Format)
	}

	return nil
}

// Options converts a validated config into bootstrap options.
func (c *Config) Options(logger *slog.Logger) (encode.Options, error) {
	if err := c.Validate(); err != nil {
		return encode.Options{}, err
	}

	apiVersion, _ := ParseAPIVersion(c.APIVersion)
	profile, _ := c.Profile.VideoProfile()
	pictureFormat, _ := ParsePictureFormat(c.Session.PictureFormat)

	opts := encode.DefaultOptions()
	opts.ApplicationName = c.ApplicationName
	opts.APIVersion = apiVersion
	opts.EnableValidation = c.Validation
	opts.Profile = profile
	opts.MaxCodedExtent = encode.Extent2D{Width: c.Session.Width, Height: c.Session.Height}
	opts.PictureFormat = pictureFormat
	opts.SkipFormatQuery = c.Session.SkipFormatQuery
	opts.Logger = logger
	return opts, nil
}

// ParseAPIVersion accepts "major.minor" or "major.minor.patch".
func ParseAPIVersion(s string) (common.APIVersion, error) {
	parts := strings.Split(strings.TrimSpace(s), ".")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, errors.Newf("api version %q: expected major.minor[.patch]", s)
	}

	var numbers [3]uint32
	for i, part := range parts {
		n, err := strconv.ParseUint(part, 10, 32)
		if err != nil {
			return 0, errors.Wrapf(err, "api version %q", s)
		}
		numbers[i] = uint32(n)
	}

	if numbers[0] != 1 || numbers[1] < 1 {
		return 0, errors.Newf("api version %q: video encode needs Vulkan 1.1 or later", s)
	}

	return common.APIVersion(common.CreateVersion(numbers[0], numbers[1], numbers[2])), nil
}

func ParsePictureFormat(s string) (encode.Format, error) {
	switch strings.ToLower(s) {
	case "nv12":
		return encode.FormatG8B8R82Plane420Unorm, nil
	case "i420", "yuv420p":
		return encode.FormatG8B8R83Plane420Unorm, nil
	case "p010":
		return encode.FormatG10X6B10X6R10X62Plane420, nil
	}
	return encode.FormatUndefined, errors.Newf("unknown picture format %q", s)
}

func parseBitDepth(depth int) (encode.VideoComponentBitDepthFlags, error) {
	switch depth {
	case 8:
		return encode.VideoComponentBitDepth8, nil
	case 10:
		return encode.VideoComponentBitDepth10, nil
	case 12:
		return encode.VideoComponentBitDepth12, nil
	}
	return 0, errors.Newf("unsupported bit depth %d", depth)
}

func (p ProfileConfig) VideoProfile() (encode.VideoProfile, error) {
	profile := encode.DefaultVideoProfile()

	switch p.ChromaSubsampling {
	case "monochrome", "400":
		profile.ChromaSubsampling = encode.VideoChromaSubsamplingMonochrome
	case "420":
		profile.ChromaSubsampling = encode.VideoChromaSubsampling420
	case "422":
		profile.ChromaSubsampling = encode.VideoChromaSubsampling422
	case "444":
		profile.ChromaSubsampling = encode.VideoChromaSubsampling444
	default:
		return encode.VideoProfile{}, errors.Newf("unknown chroma subsampling %q", p.ChromaSubsampling)
	}

	var err error
	profile.LumaBitDepth, err = parseBitDepth(p.LumaBitDepth)
	if err != nil {
		return encode.VideoProfile{}, errors.Wrap(err, "luma")
	}
	if profile.ChromaSubsampling == encode.VideoChromaSubsamplingMonochrome {
		profile.ChromaBitDepth = encode.VideoComponentBitDepthInvalid
	} else {
		profile.ChromaBitDepth, err = parseBitDepth(p.ChromaBitDepth)
		if err != nil {
			return encode.VideoProfile{}, errors.Wrap(err, "chroma")
		}
	}

	switch strings.ToLower(p.H264Profile) {
	case "baseline":
		profile.H264ProfileIdc = encode.H264ProfileIdcBaseline
	case "main":
		profile.H264ProfileIdc = encode.H264ProfileIdcMain
	case "high":
		profile.H264ProfileIdc = encode.H264ProfileIdcHigh
	case "high444":
		profile.H264ProfileIdc = encode.H264ProfileIdcHigh444Predictive
	default:
		return encode.VideoProfile{}, errors.Newf("unknown H.264 profile %q", p.H264Profile)
	}

	return profile, nil
}
