package encode

import (
	"log/slog"

	"github.com/cockroachdb/errors"
)

// SelectPhysicalDevice returns the first discrete GPU in enumeration order.
// Other device types are never considered, wherever they appear.
func SelectPhysicalDevice(instance InstanceDriver, logger *slog.Logger) (PhysicalDevice, *PhysicalDeviceProperties, error) {
	physicalDevices, res, err := instance.EnumeratePhysicalDevices()
	if err != nil || res != ResultSuccess {
		return 0, nil, stageFailure(StageDeviceSelection, ErrNoSuitableDevice, res, errors.Wrap(errOrResult(err, res), "enumerate physical devices"))
	}

	for _, device := range physicalDevices {
		properties, err := instance.GetPhysicalDeviceProperties(device)
		if err != nil {
			return 0, nil, stageFailure(StageDeviceSelection, ErrNoSuitableDevice, ResultSuccess, errors.Wrap(err, "get physical device properties"))
		}

		logger.Debug("found physical device",
			slog.String("name", properties.DeviceName),
			slog.String("type", properties.DeviceType.String()),
			slog.String("pipeline_cache_uuid", properties.PipelineCacheUUID.String()),
		)

		if properties.DeviceType == PhysicalDeviceTypeDiscreteGPU {
			return device, properties, nil
		}
	}

	return 0, nil, stageFailure(StageDeviceSelection, ErrNoSuitableDevice, ResultSuccess,
		errors.Newf("%d physical devices enumerated", len(physicalDevices)))
}

// SelectEncodeQueueFamily returns the index of the first family advertising
// video encode.
func SelectEncodeQueueFamily(families []*QueueFamilyProperties) (int, error) {
	for queueFamilyIdx, queueFamily := range families {
		if queueFamily == nil {
			continue
		}
		if (queueFamily.QueueFlags & QueueVideoEncode) != 0 {
			return queueFamilyIdx, nil
		}
	}

	return -1, stageFailure(StageDeviceSelection, ErrNoEncodeQueue, ResultSuccess,
		errors.Newf("%d queue families inspected", len(families)))
}

func errOrResult(err error, res Result) error {
	if err != nil {
		return err
	}
	return errors.Newf("driver returned %s", res)
}
