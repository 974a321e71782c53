package encode

import (
	"log/slog"

	"github.com/cockroachdb/errors"
)

const (
	VideoQueueExtensionName       = "VK_KHR_video_queue"
	VideoEncodeQueueExtensionName = "VK_KHR_video_encode_queue"
	VideoEncodeH264ExtensionName  = "VK_KHR_video_encode_h264"
)

// RequiredDeviceExtensions are enabled on the logical device, and nothing else is.
var RequiredDeviceExtensions = []string{
	VideoQueueExtensionName,
	VideoEncodeQueueExtensionName,
	VideoEncodeH264ExtensionName,
}

const encodeQueuePriority = float32(1.0)

// CreateLogicalDevice creates a device with a single encode queue and
// retrieves queue 0 of that family. Extensions the device does not advertise
// are reported but not filtered out; the driver has the final word.
func CreateLogicalDevice(instance InstanceDriver, physicalDevice PhysicalDevice, queueFamilyIndex int, logger *slog.Logger) (DeviceDriver, Queue, error) {
	var extensionNames []string
	extensionNames = append(extensionNames, RequiredDeviceExtensions...)

	var missing []string
	extensions, _, err := instance.EnumerateDeviceExtensionProperties(physicalDevice)
	if err != nil {
		logger.Warn("could not enumerate device extensions", slog.Any("error", err))
	} else {
		for _, extension := range extensionNames {
			if _, hasExtension := extensions[extension]; !hasExtension {
				missing = append(missing, extension)
			}
		}
	}
	if len(missing) > 0 {
		logger.Warn("device does not advertise required extensions", slog.Any("extensions", missing))
	}

	deviceDriver, res, err := instance.CreateDevice(physicalDevice, DeviceCreateInfo{
		QueueCreateInfos: []DeviceQueueCreateInfo{
			{
				QueueFamilyIndex: queueFamilyIndex,
				QueuePriorities:  []float32{encodeQueuePriority},
			},
		},
		EnabledExtensionNames: extensionNames,
	})
	if err != nil || res != ResultSuccess || deviceDriver == nil {
		cause := errOrResult(err, res)
		if len(missing) > 0 {
			cause = errors.Wrapf(cause, "unadvertised extensions %v", missing)
		}
		return nil, 0, stageFailure(StageLogicalDevice, ErrDeviceCreation, res, cause)
	}

	queue := deviceDriver.GetQueue(queueFamilyIndex, 0)

	logger.Info("logical device created",
		slog.Int("queue_family", queueFamilyIndex),
		slog.Any("extensions", extensionNames),
	)
	return deviceDriver, queue, nil
}
