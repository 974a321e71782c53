package encode

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/vkngwrapper/core/v3/common"
)

// Raw driver handles. Dispatchable handles are carried as their pointer value,
// non-dispatchable ones as the 64-bit handle value.
type (
	Instance       uintptr
	PhysicalDevice uintptr
	Device         uintptr
	Queue          uintptr
	VideoSession   uint64
)

func (s VideoSession) Initialized() bool {
	return s != 0
}

// ProcAddr is a resolved entry point. Zero means the loader returned no address.
type ProcAddr uintptr

type Result int32

const (
	ResultSuccess                                Result = 0
	ResultNotReady                               Result = 1
	ResultTimeout                                Result = 2
	ResultIncomplete                             Result = 5
	ResultErrorOutOfHostMemory                   Result = -1
	ResultErrorOutOfDeviceMemory                 Result = -2
	ResultErrorInitializationFailed              Result = -3
	ResultErrorDeviceLost                        Result = -4
	ResultErrorLayerNotPresent                   Result = -6
	ResultErrorExtensionNotPresent               Result = -7
	ResultErrorFeatureNotPresent                 Result = -8
	ResultErrorIncompatibleDriver                Result = -9
	ResultErrorFormatNotSupported                Result = -11
	ResultErrorImageUsageNotSupported            Result = -1000023000
	ResultErrorVideoPictureLayoutNotSupported    Result = -1000023001
	ResultErrorVideoProfileOperationNotSupported Result = -1000023002
	ResultErrorVideoProfileFormatNotSupported    Result = -1000023003
	ResultErrorVideoProfileCodecNotSupported     Result = -1000023004
	ResultErrorVideoStdVersionNotSupported       Result = -1000023005
)

var resultNames = map[Result]string{
	ResultSuccess:                                "VK_SUCCESS",
	ResultNotReady:                               "VK_NOT_READY",
	ResultTimeout:                                "VK_TIMEOUT",
	ResultIncomplete:                             "VK_INCOMPLETE",
	ResultErrorOutOfHostMemory:                   "VK_ERROR_OUT_OF_HOST_MEMORY",
	ResultErrorOutOfDeviceMemory:                 "VK_ERROR_OUT_OF_DEVICE_MEMORY",
	ResultErrorInitializationFailed:              "VK_ERROR_INITIALIZATION_FAILED",
	ResultErrorDeviceLost:                        "VK_ERROR_DEVICE_LOST",
	ResultErrorLayerNotPresent:                   "VK_ERROR_LAYER_NOT_PRESENT",
	ResultErrorExtensionNotPresent:               "VK_ERROR_EXTENSION_NOT_PRESENT",
	ResultErrorFeatureNotPresent:                 "VK_ERROR_FEATURE_NOT_PRESENT",
	ResultErrorIncompatibleDriver:                "VK_ERROR_INCOMPATIBLE_DRIVER",
	ResultErrorFormatNotSupported:                "VK_ERROR_FORMAT_NOT_SUPPORTED",
	ResultErrorImageUsageNotSupported:            "VK_ERROR_IMAGE_USAGE_NOT_SUPPORTED_KHR",
	ResultErrorVideoPictureLayoutNotSupported:    "VK_ERROR_VIDEO_PICTURE_LAYOUT_NOT_SUPPORTED_KHR",
	ResultErrorVideoProfileOperationNotSupported: "VK_ERROR_VIDEO_PROFILE_OPERATION_NOT_SUPPORTED_KHR",
	ResultErrorVideoProfileFormatNotSupported:    "VK_ERROR_VIDEO_PROFILE_FORMAT_NOT_SUPPORTED_KHR",
	ResultErrorVideoProfileCodecNotSupported:     "VK_ERROR_VIDEO_PROFILE_CODEC_NOT_SUPPORTED_KHR",
	ResultErrorVideoStdVersionNotSupported:       "VK_ERROR_VIDEO_STD_VERSION_NOT_SUPPORTED_KHR",
}

func (r Result) String() string {
	name, ok := resultNames[r]
	if !ok {
		return fmt.Sprintf("VkResult(%d)", int32(r))
	}
	return name
}

type PhysicalDeviceType int32

const (
	PhysicalDeviceTypeOther PhysicalDeviceType = iota
	PhysicalDeviceTypeIntegratedGPU
	PhysicalDeviceTypeDiscreteGPU
	PhysicalDeviceTypeVirtualGPU
	PhysicalDeviceTypeCPU
)

func (t PhysicalDeviceType) String() string {
	switch t {
	case PhysicalDeviceTypeOther:
		return "Other"
	case PhysicalDeviceTypeIntegratedGPU:
		return "Integrated GPU"
	case PhysicalDeviceTypeDiscreteGPU:
		return "Discrete GPU"
	case PhysicalDeviceTypeVirtualGPU:
		return "Virtual GPU"
	case PhysicalDeviceTypeCPU:
		return "CPU"
	}
	return fmt.Sprintf("PhysicalDeviceType(%d)", int32(t))
}

type QueueFlags uint32

const (
	QueueGraphics      QueueFlags = 0x00000001
	QueueCompute       QueueFlags = 0x00000002
	QueueTransfer      QueueFlags = 0x00000004
	QueueSparseBinding QueueFlags = 0x00000008
	QueueProtected     QueueFlags = 0x00000010
	QueueVideoDecode   QueueFlags = 0x00000020
	QueueVideoEncode   QueueFlags = 0x00000040
)

var queueFlagsMapping = common.NewFlagStringMapping[QueueFlags]()

func (f QueueFlags) String() string {
	return queueFlagsMapping.FlagsToString(f)
}

type ImageUsageFlags uint32

const (
	ImageUsageVideoEncodeDst ImageUsageFlags = 0x00002000
	ImageUsageVideoEncodeSrc ImageUsageFlags = 0x00004000
	ImageUsageVideoEncodeDpb ImageUsageFlags = 0x00008000
)

var imageUsageMapping = common.NewFlagStringMapping[ImageUsageFlags]()

func (f ImageUsageFlags) String() string {
	return imageUsageMapping.FlagsToString(f)
}

type Format int32

const (
	FormatUndefined                Format = 0
	FormatG8B8R83Plane420Unorm     Format = 1000156002
	FormatG8B8R82Plane420Unorm     Format = 1000156003
	FormatG10X6B10X6R10X62Plane420 Format = 1000156013
)

func (f Format) String() string {
	switch f {
	case FormatUndefined:
		return "VK_FORMAT_UNDEFINED"
	case FormatG8B8R82Plane420Unorm:
		return "VK_FORMAT_G8_B8R8_2PLANE_420_UNORM"
	case FormatG8B8R83Plane420Unorm:
		return "VK_FORMAT_G8_B8_R8_3PLANE_420_UNORM"
	case FormatG10X6B10X6R10X62Plane420:
		return "VK_FORMAT_G10X6_B10X6R10X6_2PLANE_420_UNORM_3PACK16"
	}
	return fmt.Sprintf("VkFormat(%d)", int32(f))
}

type Extent2D struct {
	Width  int
	Height int
}

func (e Extent2D) String() string {
	return fmt.Sprintf("%dx%d", e.Width, e.Height)
}

// Within reports whether e fits inside [min, max] on both axes.
func (e Extent2D) Within(min, max Extent2D) bool {
	return e.Width >= min.Width && e.Height >= min.Height &&
		e.Width <= max.Width && e.Height <= max.Height
}

type ExtensionProperties struct {
	ExtensionName string
	SpecVersion   uint32
}

type LayerProperties struct {
	LayerName             string
	SpecVersion           common.Version
	ImplementationVersion common.Version
	Description           string
}

type PhysicalDeviceProperties struct {
	DeviceName        string
	DeviceType        PhysicalDeviceType
	VendorID          uint32
	DeviceID          uint32
	APIVersion        common.APIVersion
	DriverVersion     common.Version
	PipelineCacheUUID uuid.UUID
}

type QueueFamilyProperties struct {
	QueueFlags QueueFlags
	QueueCount int
}

type InstanceCreateInfo struct {
	ApplicationName       string
	ApplicationVersion    common.Version
	EngineName            string
	EngineVersion         common.Version
	APIVersion            common.APIVersion
	EnabledLayerNames     []string
	EnabledExtensionNames []string
}

type DeviceQueueCreateInfo struct {
	QueueFamilyIndex int
	QueuePriorities  []float32
}

type DeviceCreateInfo struct {
	QueueCreateInfos      []DeviceQueueCreateInfo
	EnabledExtensionNames []string
}

func init() {
	queueFlagsMapping.Register(QueueGraphics, "Graphics")
	queueFlagsMapping.Register(QueueCompute, "Compute")
	queueFlagsMapping.Register(QueueTransfer, "Transfer")
	queueFlagsMapping.Register(QueueSparseBinding, "SparseBinding")
	queueFlagsMapping.Register(QueueProtected, "Protected")
	queueFlagsMapping.Register(QueueVideoDecode, "VideoDecode")
	queueFlagsMapping.Register(QueueVideoEncode, "VideoEncode")

	imageUsageMapping.Register(ImageUsageVideoEncodeDst, "VideoEncodeDst")
	imageUsageMapping.Register(ImageUsageVideoEncodeSrc, "VideoEncodeSrc")
	imageUsageMapping.Register(ImageUsageVideoEncodeDpb, "VideoEncodeDpb")
}
