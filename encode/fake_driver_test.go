package encode

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/vkngwrapper/core/v3/common"
)

type fakePhysicalDevice struct {
	properties PhysicalDeviceProperties
	families   []*QueueFamilyProperties
	extensions []string
}

// fakeDriver stands in for the loader and every driver table. Calls are
// appended to calls in the order they happen.
type fakeDriver struct {
	calls []string

	loadErr            error
	instanceExtensions []string
	layers             []string
	instanceResult     Result
	enumerateResult    Result
	physicalDevices    []fakePhysicalDevice
	familiesErr        error
	deviceResult       Result
	instanceSymbols    map[string]ProcAddr
	deviceSymbols      map[string]ProcAddr
	capabilities       *VideoCapabilities
	capabilitiesResult Result
	formats            []VideoFormatProperties
	formatsResult      Result
	sessionResult      Result
	sessionHandle      VideoSession

	instanceInfo    *InstanceCreateInfo
	deviceInfo      *DeviceCreateInfo
	devicePicked    PhysicalDevice
	instanceLookups []string
	deviceLookups   []string
	capsProfile     *VideoProfile
	capsFn          ProcAddr
	formatsProfile  *VideoProfile
	formatsUsage    ImageUsageFlags
	sessionInfo     *VideoSessionCreateInfo
	sessionFn       ProcAddr
	destroyedWith   ProcAddr
}

func symbolAddress(index int) ProcAddr {
	return ProcAddr(0x1000 + index*0x10)
}

func newFakeDriver() *fakeDriver {
	f := &fakeDriver{
		instanceExtensions: []string{PortabilityEnumerationExtensionName, DebugUtilsExtensionName},
		layers:             []string{ValidationLayerName},
		physicalDevices: []fakePhysicalDevice{
			{
				properties: PhysicalDeviceProperties{
					DeviceName: "Integrated",
					DeviceType: PhysicalDeviceTypeIntegratedGPU,
				},
				families: []*QueueFamilyProperties{
					{QueueFlags: QueueGraphics | QueueCompute | QueueVideoEncode, QueueCount: 1},
				},
				extensions: RequiredDeviceExtensions,
			},
			{
				properties: PhysicalDeviceProperties{
					DeviceName:        "Discrete",
					DeviceType:        PhysicalDeviceTypeDiscreteGPU,
					APIVersion:        common.APIVersion(common.CreateVersion(1, 3, 250)),
					PipelineCacheUUID: uuid.MustParse("6a1f0a2e-95a4-4c1e-9d0e-7c1f8b0d2a11"),
				},
				families: []*QueueFamilyProperties{
					{QueueFlags: QueueGraphics | QueueCompute | QueueTransfer, QueueCount: 16},
					{QueueFlags: QueueTransfer, QueueCount: 2},
					{QueueFlags: QueueVideoDecode, QueueCount: 1},
					{QueueFlags: QueueVideoEncode | QueueTransfer, QueueCount: 1},
				},
				extensions: RequiredDeviceExtensions,
			},
		},
		instanceSymbols: map[string]ProcAddr{},
		deviceSymbols:   map[string]ProcAddr{},
		capabilities: &VideoCapabilities{
			MinCodedExtent:             Extent2D{Width: 64, Height: 64},
			MaxCodedExtent:             Extent2D{Width: 4096, Height: 4096},
			PictureAccessGranularity:   Extent2D{Width: 16, Height: 16},
			MaxDpbSlots:                17,
			MaxActiveReferencePictures: 16,
			StdHeaderVersion: ExtensionProperties{
				ExtensionName: "VK_STD_vulkan_video_codec_h264_encode",
				SpecVersion:   uint32(common.CreateVersion(1, 0, 0)),
			},
		},
		formats: []VideoFormatProperties{
			{Format: FormatG8B8R82Plane420Unorm, ImageUsageFlags: ImageUsageVideoEncodeSrc},
		},
		sessionHandle: VideoSession(0xdeadbeef),
	}

	index := 0
	for _, set := range extensionFunctionTable {
		for _, binding := range set.bindings {
			if binding.Loader == InstanceLevel {
				f.instanceSymbols[binding.Name] = symbolAddress(index)
			} else {
				f.deviceSymbols[binding.Name] = symbolAddress(index)
			}
			index++
		}
	}

	return f
}

func (f *fakeDriver) record(format string, args ...interface{}) {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

func (f *fakeDriver) called(prefix string) bool {
	for _, call := range f.calls {
		if strings.HasPrefix(call, prefix) {
			return true
		}
	}
	return false
}

func (f *fakeDriver) Load() (GlobalDriver, error) {
	f.record("Load")
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f, nil
}

func (f *fakeDriver) Unload() {
	f.record("Unload")
}

func (f *fakeDriver) AvailableExtensions() (map[string]*ExtensionProperties, Result, error) {
	extensions := make(map[string]*ExtensionProperties)
	for _, name := range f.instanceExtensions {
		extensions[name] = &ExtensionProperties{ExtensionName: name, SpecVersion: 1}
	}
	return extensions, ResultSuccess, nil
}

func (f *fakeDriver) AvailableLayers() (map[string]*LayerProperties, Result, error) {
	layers := make(map[string]*LayerProperties)
	for _, name := range f.layers {
		layers[name] = &LayerProperties{LayerName: name}
	}
	return layers, ResultSuccess, nil
}

func (f *fakeDriver) CreateInstance(info InstanceCreateInfo) (InstanceDriver, Result, error) {
	f.record("CreateInstance")
	f.instanceInfo = &info
	if f.instanceResult != ResultSuccess {
		return nil, f.instanceResult, errors.Newf("vkCreateInstance: %s", f.instanceResult)
	}
	return &fakeInstance{driver: f}, ResultSuccess, nil
}

func (f *fakeDriver) Video() VideoDriver {
	return f
}

func (f *fakeDriver) GetPhysicalDeviceVideoCapabilities(fn ProcAddr, device PhysicalDevice, profile VideoProfile) (*VideoCapabilities, Result, error) {
	f.record("GetPhysicalDeviceVideoCapabilities")
	f.capsFn = fn
	f.capsProfile = &profile
	if f.capabilitiesResult != ResultSuccess {
		return nil, f.capabilitiesResult, nil
	}
	caps := *f.capabilities
	return &caps, ResultSuccess, nil
}

func (f *fakeDriver) GetPhysicalDeviceVideoFormatProperties(fn ProcAddr, device PhysicalDevice, profile VideoProfile, usage ImageUsageFlags) ([]VideoFormatProperties, Result, error) {
	f.record("GetPhysicalDeviceVideoFormatProperties")
	f.formatsProfile = &profile
	f.formatsUsage = usage
	if f.formatsResult != ResultSuccess {
		return nil, f.formatsResult, nil
	}
	return f.formats, ResultSuccess, nil
}

func (f *fakeDriver) CreateVideoSession(fn ProcAddr, device Device, info VideoSessionCreateInfo) (VideoSession, Result, error) {
	f.record("CreateVideoSession")
	f.sessionFn = fn
	f.sessionInfo = &info
	if f.sessionResult != ResultSuccess {
		return 0, f.sessionResult, nil
	}
	return f.sessionHandle, ResultSuccess, nil
}

func (f *fakeDriver) DestroyVideoSession(fn ProcAddr, device Device, session VideoSession) {
	f.record("DestroyVideoSession")
	f.destroyedWith = fn
}

type fakeInstance struct {
	driver *fakeDriver
}

func (i *fakeInstance) Handle() Instance { return Instance(0x10) }

func (i *fakeInstance) device(physicalDevice PhysicalDevice) fakePhysicalDevice {
	return i.driver.physicalDevices[int(physicalDevice)-1]
}

func (i *fakeInstance) EnumeratePhysicalDevices() ([]PhysicalDevice, Result, error) {
	i.driver.record("EnumeratePhysicalDevices")
	if i.driver.enumerateResult != ResultSuccess {
		return nil, i.driver.enumerateResult, nil
	}

	devices := make([]PhysicalDevice, 0, len(i.driver.physicalDevices))
	for idx := range i.driver.physicalDevices {
		devices = append(devices, PhysicalDevice(idx+1))
	}
	return devices, ResultSuccess, nil
}

func (i *fakeInstance) GetPhysicalDeviceProperties(physicalDevice PhysicalDevice) (*PhysicalDeviceProperties, error) {
	properties := i.device(physicalDevice).properties
	return &properties, nil
}

func (i *fakeInstance) GetPhysicalDeviceQueueFamilyProperties(physicalDevice PhysicalDevice) ([]*QueueFamilyProperties, error) {
	if i.driver.familiesErr != nil {
		return nil, i.driver.familiesErr
	}
	return i.device(physicalDevice).families, nil
}

func (i *fakeInstance) EnumerateDeviceExtensionProperties(physicalDevice PhysicalDevice) (map[string]*ExtensionProperties, Result, error) {
	extensions := make(map[string]*ExtensionProperties)
	for _, name := range i.device(physicalDevice).extensions {
		extensions[name] = &ExtensionProperties{ExtensionName: name, SpecVersion: 1}
	}
	return extensions, ResultSuccess, nil
}

func (i *fakeInstance) CreateDevice(physicalDevice PhysicalDevice, info DeviceCreateInfo) (DeviceDriver, Result, error) {
	i.driver.record("CreateDevice")
	i.driver.devicePicked = physicalDevice
	i.driver.deviceInfo = &info
	if i.driver.deviceResult != ResultSuccess {
		return nil, i.driver.deviceResult, nil
	}
	return &fakeDevice{driver: i.driver}, ResultSuccess, nil
}

func (i *fakeInstance) GetInstanceProcAddr(name string) ProcAddr {
	i.driver.instanceLookups = append(i.driver.instanceLookups, name)
	return i.driver.instanceSymbols[name]
}

func (i *fakeInstance) DestroyInstance() {
	i.driver.record("DestroyInstance")
}

type fakeDevice struct {
	driver *fakeDriver
}

func (d *fakeDevice) Handle() Device { return Device(0x20) }

func (d *fakeDevice) GetQueue(queueFamilyIndex int, queueIndex int) Queue {
	d.driver.record("GetQueue %d %d", queueFamilyIndex, queueIndex)
	return Queue(0x30 + queueFamilyIndex)
}

func (d *fakeDevice) GetDeviceProcAddr(name string) ProcAddr {
	d.driver.deviceLookups = append(d.driver.deviceLookups, name)
	return d.driver.deviceSymbols[name]
}

func (d *fakeDevice) DestroyDevice() {
	d.driver.record("DestroyDevice")
}
