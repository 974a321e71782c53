package driver

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/encode-session/encode"
	"github.com/vkngwrapper/extensions/v3/ext_debug_utils"
)

type InstanceDriver struct {
	driver core1_0.CoreInstanceDriver
	global *GlobalDriver

	debugDriver    ext_debug_utils.ExtensionDriver
	debugMessenger ext_debug_utils.DebugUtilsMessenger

	physicalDevices map[encode.PhysicalDevice]core1_0.PhysicalDevice
}

func (i *InstanceDriver) setupDebugMessenger() error {
	var err error
	i.debugDriver = ext_debug_utils.CreateExtensionDriverFromCoreDriver(i.driver)
	i.debugMessenger, _, err = i.debugDriver.CreateDebugUtilsMessenger(nil, i.global.debugMessengerOptions())
	return err
}

func (i *InstanceDriver) Handle() encode.Instance {
	return encode.Instance(i.driver.Instance().Handle())
}

func (i *InstanceDriver) EnumeratePhysicalDevices() ([]encode.PhysicalDevice, encode.Result, error) {
	physicalDevices, res, err := i.driver.EnumeratePhysicalDevices()
	if err != nil {
		return nil, encode.Result(res), err
	}

	handles := make([]encode.PhysicalDevice, 0, len(physicalDevices))
	for _, physicalDevice := range physicalDevices {
		handle := encode.PhysicalDevice(physicalDevice.Handle())
		i.physicalDevices[handle] = physicalDevice
		handles = append(handles, handle)
	}
	return handles, encode.Result(res), nil
}

func (i *InstanceDriver) physicalDevice(handle encode.PhysicalDevice) (core1_0.PhysicalDevice, error) {
	physicalDevice, ok := i.physicalDevices[handle]
	if !ok {
		return core1_0.PhysicalDevice{}, errors.Wrapf(errUnknownPhysicalDevice, "%#x", uintptr(handle))
	}
	return physicalDevice, nil
}

func (i *InstanceDriver) GetPhysicalDeviceProperties(handle encode.PhysicalDevice) (*encode.PhysicalDeviceProperties, error) {
	physicalDevice, err := i.physicalDevice(handle)
	if err != nil {
		return nil, err
	}

	properties, err := i.driver.GetPhysicalDeviceProperties(physicalDevice)
	if err != nil {
		return nil, err
	}
	return convertPhysicalDeviceProperties(properties), nil
}

func convertPhysicalDeviceProperties(properties *core1_0.PhysicalDeviceProperties) *encode.PhysicalDeviceProperties {
	return &encode.PhysicalDeviceProperties{
		DeviceName:        properties.DriverName,
		DeviceType:        encode.PhysicalDeviceType(properties.DriverType),
		VendorID:          properties.VendorID,
		DeviceID:          properties.DeviceID,
		APIVersion:        properties.APIVersion,
		DriverVersion:     properties.DriverVersion,
		PipelineCacheUUID: properties.PipelineCacheUUID,
	}
}

func (i *InstanceDriver) GetPhysicalDeviceQueueFamilyProperties(handle encode.PhysicalDevice) ([]*encode.QueueFamilyProperties, error) {
	physicalDevice, err := i.physicalDevice(handle)
	if err != nil {
		return nil, err
	}
	return convertQueueFamilies(i.driver.GetPhysicalDeviceQueueFamilyProperties(physicalDevice)), nil
}

func convertQueueFamilies(families []*core1_0.QueueFamilyProperties) []*encode.QueueFamilyProperties {
	converted := make([]*encode.QueueFamilyProperties, 0, len(families))
	for _, family := range families {
		converted = append(converted, &encode.QueueFamilyProperties{
			QueueFlags: encode.QueueFlags(family.QueueFlags),
			QueueCount: family.QueueCount,
		})
	}
	return converted
}

func (i *InstanceDriver) EnumerateDeviceExtensionProperties(handle encode.PhysicalDevice) (map[string]*encode.ExtensionProperties, encode.Result, error) {
	physicalDevice, err := i.physicalDevice(handle)
	if err != nil {
		return nil, encode.ResultErrorInitializationFailed, err
	}

	extensions, res, err := i.driver.EnumerateDeviceExtensionProperties(physicalDevice)
	if err != nil {
		return nil, encode.Result(res), err
	}
	return convertExtensions(extensions), encode.Result(res), nil
}

func (i *InstanceDriver) CreateDevice(handle encode.PhysicalDevice, info encode.DeviceCreateInfo) (encode.DeviceDriver, encode.Result, error) {
	physicalDevice, err := i.physicalDevice(handle)
	if err != nil {
		return nil, encode.ResultErrorInitializationFailed, err
	}

	var queueFamilyOptions []core1_0.DeviceQueueCreateInfo
	for _, queueInfo := range info.QueueCreateInfos {
		queueFamilyOptions = append(queueFamilyOptions, core1_0.DeviceQueueCreateInfo{
			QueueFamilyIndex: queueInfo.QueueFamilyIndex,
			QueuePriorities:  queueInfo.QueuePriorities,
		})
	}

	device, res, err := i.driver.CreateDevice(physicalDevice, nil, core1_0.DeviceCreateInfo{
		QueueCreateInfos:      queueFamilyOptions,
		EnabledExtensionNames: info.EnabledExtensionNames,
	})
	if err != nil {
		return nil, encode.Result(res), err
	}

	deviceDriver, err := i.driver.BuildDeviceDriver(device)
	if err != nil {
		return nil, encode.ResultErrorInitializationFailed, errors.Wrap(err, "build device driver")
	}

	return &DeviceDriver{
		driver:   deviceDriver,
		instance: i,
	}, encode.Result(res), nil
}

func (i *InstanceDriver) GetInstanceProcAddr(name string) encode.ProcAddr {
	return instanceProcAddr(i.global.getInstanceProcAddr, i.Handle(), name)
}

func (i *InstanceDriver) DestroyInstance() {
	if i.debugMessenger.Initialized() {
		i.debugDriver.DestroyDebugUtilsMessenger(i.debugMessenger, nil)
		i.debugMessenger = ext_debug_utils.DebugUtilsMessenger{}
	}

	i.driver.DestroyInstance(nil)
	i.physicalDevices = nil
}
