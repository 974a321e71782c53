package utils

const (
	DefaultApplicationName = "Video Encode Session"
	DefaultAPIVersion      = "1.3"
	DefaultLoader          = LoaderSystem

	DefaultChromaSubsampling = "420"
	DefaultBitDepth          = 8
	DefaultH264Profile       = "main"

	DefaultWidth         = 1920
	DefaultHeight        = 1080
	DefaultPictureFormat = "nv12"
)

const (
	LoaderSystem = "system"
	LoaderSDL    = "sdl"
)

const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"

	LogFormatText = "text"
	LogFormatJSON = "json"
)
