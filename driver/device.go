package driver

import (
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/encode-session/encode"
)

type DeviceDriver struct {
	driver   core1_0.CoreDeviceDriver
	instance *InstanceDriver

	getDeviceProcAddr encode.ProcAddr
}

func (d *DeviceDriver) Handle() encode.Device {
	return encode.Device(d.driver.Device().Handle())
}

func (d *DeviceDriver) GetQueue(queueFamilyIndex int, queueIndex int) encode.Queue {
	queue := d.driver.GetQueue(queueFamilyIndex, queueIndex)
	return encode.Queue(queue.Handle())
}

// GetDeviceProcAddr goes through vkGetDeviceProcAddr, itself resolved once
// through the instance, so lookups bypass the loader's dispatch trampolines.
func (d *DeviceDriver) GetDeviceProcAddr(name string) encode.ProcAddr {
	if d.getDeviceProcAddr == 0 {
		d.getDeviceProcAddr = d.instance.GetInstanceProcAddr("vkGetDeviceProcAddr")
	}
	return deviceProcAddr(d.getDeviceProcAddr, d.Handle(), name)
}

func (d *DeviceDriver) DestroyDevice() {
	d.driver.DestroyDevice(nil)
	d.getDeviceProcAddr = 0
}
