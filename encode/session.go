// Package encode bootstraps a Vulkan H.264 video-encode session: instance,
// device selection, logical device, extension entry points, capability
// negotiation and the video session object itself.
package encode

import (
	"io"
	"log/slog"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/loov/hrtime"
	"github.com/vkngwrapper/core/v3/common"
)

type Options struct {
	ApplicationName  string
	APIVersion       common.APIVersion
	EnableValidation bool

	Profile                VideoProfile
	MaxCodedExtent         Extent2D
	PictureFormat          Format
	ReferencePictureFormat Format

	// SkipFormatQuery disables the encode-input format check. Some drivers
	// report no formats until the profile list is extended with usage hints.
	SkipFormatQuery bool

	Logger *slog.Logger
}

func DefaultOptions() Options {
	return Options{
		ApplicationName:        "Video Encode Session",
		APIVersion:             DefaultAPIVersion,
		Profile:                DefaultVideoProfile(),
		MaxCodedExtent:         Extent2D{Width: 1920, Height: 1080},
		PictureFormat:          FormatG8B8R82Plane420Unorm,
		ReferencePictureFormat: FormatUndefined,
	}
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o.Logger
}

type StageTiming struct {
	Stage   Stage
	Elapsed time.Duration
}

// Session owns every object the bootstrap created. Destroy releases them in
// reverse creation order.
type Session struct {
	ID uuid.UUID

	PhysicalDevice   PhysicalDevice
	DeviceProperties *PhysicalDeviceProperties
	QueueFamilyIndex int
	EncodeQueue      Queue
	Functions        *ExtensionFunctions
	Profile          VideoProfile
	Capabilities     *VideoCapabilities
	VideoSession     VideoSession
	Timings          []StageTiming

	loader   Loader
	global   GlobalDriver
	instance InstanceDriver
	device   DeviceDriver
	logger   *slog.Logger
}

func (s *Session) Instance() InstanceDriver { return s.instance }

func (s *Session) Device() DeviceDriver { return s.device }

// Bootstrap runs the five stages in order. On failure, everything created so
// far has already been released when the error is returned.
func Bootstrap(loader Loader, opts Options) (*Session, error) {
	s := &Session{
		ID:      uuid.New(),
		Profile: opts.Profile,
		loader:  loader,
	}
	s.logger = opts.logger().With(slog.String("session", s.ID.String()))

	err := s.initVulkan(opts)
	if err != nil {
		s.Destroy()
		return nil, err
	}

	return s, nil
}

func (s *Session) initVulkan(opts Options) error {
	err := s.runStage(StageInstanceBootstrap, func() error { return s.createInstance(opts) })
	if err != nil {
		return err
	}

	err = s.runStage(StageDeviceSelection, s.pickPhysicalDevice)
	if err != nil {
		return err
	}

	err = s.runStage(StageLogicalDevice, s.createLogicalDevice)
	if err != nil {
		return err
	}

	err = s.runStage(StageExtensionFunctions, s.loadExtensionFunctions)
	if err != nil {
		return err
	}

	return s.runStage(StageVideoSession, func() error { return s.createVideoSession(opts) })
}

func (s *Session) runStage(stage Stage, fn func() error) error {
	start := hrtime.Now()
	err := fn()
	elapsed := hrtime.Since(start)
	s.Timings = append(s.Timings, StageTiming{Stage: stage, Elapsed: elapsed})

	if err != nil {
		return err
	}

	s.logger.Debug("stage complete", slog.String("stage", stage.String()), slog.Duration("elapsed", elapsed))
	return nil
}

func (s *Session) createInstance(opts Options) error {
	if s.loader == nil {
		return stageFailure(StageInstanceBootstrap, ErrInitialization, ResultSuccess, errors.New("no loader configured"))
	}

	global, err := s.loader.Load()
	if err != nil {
		return stageFailure(StageInstanceBootstrap, ErrInitialization, ResultErrorInitializationFailed, err)
	}
	s.global = global

	opts.Logger = s.logger
	s.instance, err = CreateInstance(s.global, opts)
	return err
}

func (s *Session) pickPhysicalDevice() error {
	physicalDevice, properties, err := SelectPhysicalDevice(s.instance, s.logger)
	if err != nil {
		return err
	}

	families, err := s.instance.GetPhysicalDeviceQueueFamilyProperties(physicalDevice)
	if err != nil {
		return stageFailure(StageDeviceSelection, ErrNoSuitableDevice, ResultSuccess,
			errors.Wrapf(err, "get queue families of %s", properties.DeviceName))
	}

	queueFamilyIndex, err := SelectEncodeQueueFamily(families)
	if err != nil {
		return err
	}

	s.PhysicalDevice = physicalDevice
	s.DeviceProperties = properties
	s.QueueFamilyIndex = queueFamilyIndex

	s.logger.Info("physical device selected",
		slog.String("name", properties.DeviceName),
		slog.String("type", properties.DeviceType.String()),
		slog.Int("queue_family", queueFamilyIndex),
	)
	return nil
}

func (s *Session) createLogicalDevice() error {
	device, queue, err := CreateLogicalDevice(s.instance, s.PhysicalDevice, s.QueueFamilyIndex, s.logger)
	if err != nil {
		return err
	}

	s.device = device
	s.EncodeQueue = queue
	return nil
}

func (s *Session) loadExtensionFunctions() error {
	functions, err := LoadExtensionFunctions(s.instance, s.device, s.logger)
	if err != nil {
		return err
	}

	s.Functions = functions
	return nil
}

func (s *Session) createVideoSession(opts Options) error {
	video := s.global.Video()

	capabilities, err := QueryVideoCapabilities(video, &s.Functions.VideoQueue, s.PhysicalDevice, s.Profile)
	if err != nil {
		return err
	}
	s.Capabilities = capabilities

	s.logger.Info("video profile supported",
		slog.String("profile", s.Profile.String()),
		slog.String("min_coded_extent", capabilities.MinCodedExtent.String()),
		slog.String("max_coded_extent", capabilities.MaxCodedExtent.String()),
		slog.Int("max_dpb_slots", capabilities.MaxDpbSlots),
	)

	var formats []VideoFormatProperties
	if !opts.SkipFormatQuery {
		formats, err = QueryVideoFormats(video, &s.Functions.VideoQueue, s.PhysicalDevice, s.Profile)
		if err != nil {
			return err
		}
	}

	info := VideoSessionCreateInfo{
		QueueFamilyIndex:       s.QueueFamilyIndex,
		Profile:                s.Profile,
		PictureFormat:          opts.PictureFormat,
		MaxCodedExtent:         opts.MaxCodedExtent,
		ReferencePictureFormat: opts.ReferencePictureFormat,
		StdHeaderVersion:       capabilities.StdHeaderVersion,
	}

	err = CheckSessionRequest(capabilities, formats, info)
	if err != nil {
		return err
	}

	s.VideoSession, err = CreateVideoSession(video, &s.Functions.VideoQueue, s.device.Handle(), info, s.logger)
	return err
}

// Destroy releases the session, the device, the instance and the library, in
// that order. It is safe to call more than once.
func (s *Session) Destroy() {
	if s.VideoSession.Initialized() && s.device != nil && s.Functions != nil {
		s.global.Video().DestroyVideoSession(s.Functions.VideoQueue.DestroyVideoSession, s.device.Handle(), s.VideoSession)
		s.VideoSession = 0
	}

	if s.device != nil {
		s.device.DestroyDevice()
		s.device = nil
		s.EncodeQueue = 0
		s.Functions = nil
	}

	if s.instance != nil {
		s.instance.DestroyInstance()
		s.instance = nil
	}

	if s.global != nil {
		s.loader.Unload()
		s.global = nil
	}
}
