package encode

// Loader locates the Vulkan library and produces the global entry point table.
// Unload releases the library and must only be called after a successful Load.
type Loader interface {
	Load() (GlobalDriver, error)
	Unload()
}

// GlobalDriver holds the entry points that need no instance.
type GlobalDriver interface {
	AvailableExtensions() (map[string]*ExtensionProperties, Result, error)
	AvailableLayers() (map[string]*LayerProperties, Result, error)
	CreateInstance(info InstanceCreateInfo) (InstanceDriver, Result, error)

	// Video returns the call gates used to invoke video extension entry points
	// once they have been resolved.
	Video() VideoDriver
}

type InstanceDriver interface {
	Handle() Instance
	EnumeratePhysicalDevices() ([]PhysicalDevice, Result, error)
	GetPhysicalDeviceProperties(device PhysicalDevice) (*PhysicalDeviceProperties, error)
	GetPhysicalDeviceQueueFamilyProperties(device PhysicalDevice) ([]*QueueFamilyProperties, error)
	EnumerateDeviceExtensionProperties(device PhysicalDevice) (map[string]*ExtensionProperties, Result, error)
	CreateDevice(device PhysicalDevice, info DeviceCreateInfo) (DeviceDriver, Result, error)

	// GetInstanceProcAddr returns 0 when the symbol is unknown to the loader.
	GetInstanceProcAddr(name string) ProcAddr
	DestroyInstance()
}

type DeviceDriver interface {
	Handle() Device
	GetQueue(queueFamilyIndex int, queueIndex int) Queue

	// GetDeviceProcAddr returns 0 when the symbol is unknown to the device.
	GetDeviceProcAddr(name string) ProcAddr
	DestroyDevice()
}

// VideoDriver invokes resolved video entry points. Each call takes the
// function pointer it goes through, so a missing entry point can never be
// reached without first passing through the ExtensionFunctionLoader.
type VideoDriver interface {
	GetPhysicalDeviceVideoCapabilities(fn ProcAddr, device PhysicalDevice, profile VideoProfile) (*VideoCapabilities, Result, error)
	GetPhysicalDeviceVideoFormatProperties(fn ProcAddr, device PhysicalDevice, profile VideoProfile, usage ImageUsageFlags) ([]VideoFormatProperties, Result, error)
	CreateVideoSession(fn ProcAddr, device Device, info VideoSessionCreateInfo) (VideoSession, Result, error)
	DestroyVideoSession(fn ProcAddr, device Device, session VideoSession)
}
