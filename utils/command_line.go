package utils

import (
	"flag"
	"io"

	"github.com/cockroachdb/errors"
)

// ProcessCommandLineArgs builds the run configuration: defaults, then the
// file named by -config, then any flag given explicitly on the command line.
// It returns flag.ErrHelp when -h or -help was requested.
func ProcessCommandLineArgs(name string, args []string, output io.Writer) (*Config, error) {
	defaults := DefaultConfig()

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(output)

	configPath := fs.String("config", "", "YAML configuration file")
	loader := fs.String("loader", defaults.Loader, "Vulkan loader: system or sdl")
	libraryPath := fs.String("library", "", "path of the Vulkan library to load")
	apiVersion := fs.String("api-version", defaults.APIVersion, "requested Vulkan API version")
	validation := fs.Bool("validation", defaults.Validation, "enable VK_LAYER_KHRONOS_validation")
	width := fs.Int("width", defaults.Session.Width, "maximum coded width")
	height := fs.Int("height", defaults.Session.Height, "maximum coded height")
	pictureFormat := fs.String("format", defaults.Session.PictureFormat, "encode input format: nv12, i420 or p010")
	h264Profile := fs.String("profile", defaults.Profile.H264Profile, "H.264 profile: baseline, main, high or high444")
	skipFormatQuery := fs.Bool("skip-format-query", false, "do not check the input format against the driver's list")
	logLevel := fs.String("log-level", defaults.Log.Level, "log level: debug, info, warn or error")
	logFormat := fs.String("log-format", defaults.Log.Format, "log format: text or json")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, errors.Newf("unrecognized argument %q", fs.Arg(0))
	}

	cfg := defaults
	if *configPath != "" {
		var err error
		cfg, err = LoadConfig(*configPath)
		if err != nil {
			return nil, err
		}
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "loader":
			cfg.Loader = *loader
		case "library":
			cfg.LibraryPath = *libraryPath
		case "api-version":
			cfg.APIVersion = *apiVersion
		case "validation":
			cfg.Validation = *validation
		case "width":
			cfg.Session.Width = *width
		case "height":
			cfg.Session.Height = *height
		case "format":
			cfg.Session.PictureFormat = *pictureFormat
		case "profile":
			cfg.Profile.H264Profile = *h264Profile
		case "skip-format-query":
			cfg.Session.SkipFormatQuery = *skipFormatQuery
		case "log-level":
			cfg.Log.Level = *logLevel
		case "log-format":
			cfg.Log.Format = *logFormat
		}
	})

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
