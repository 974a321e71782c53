package driver

/*
#cgo freebsd CFLAGS: -I/usr/local/include

#define VK_NO_PROTOTYPES 1
#define VK_DEFINE_NON_DISPATCHABLE_HANDLE(object) typedef uint64_t object;
#include <vulkan/vulkan.h>
#include <stdint.h>
#include <stdlib.h>

static uintptr_t getInstanceProcAddr(uintptr_t fn, uintptr_t instance, const char *name) {
	return (uintptr_t)((PFN_vkGetInstanceProcAddr)fn)((VkInstance)instance, name);
}

static uintptr_t getDeviceProcAddr(uintptr_t fn, uintptr_t device, const char *name) {
	return (uintptr_t)((PFN_vkGetDeviceProcAddr)fn)((VkDevice)device, name);
}
*/
import "C"

import (
	"unsafe"

	"github.com/vkngwrapper/encode-session/encode"
)

func instanceProcAddr(getInstanceProcAddr unsafe.Pointer, instance encode.Instance, name string) encode.ProcAddr {
	if getInstanceProcAddr == nil {
		return 0
	}

	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))

	return encode.ProcAddr(C.getInstanceProcAddr(C.uintptr_t(uintptr(getInstanceProcAddr)), C.uintptr_t(instance), cname))
}

func deviceProcAddr(getDeviceProcAddr encode.ProcAddr, device encode.Device, name string) encode.ProcAddr {
	if getDeviceProcAddr == 0 {
		return 0
	}

	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))

	return encode.ProcAddr(C.getDeviceProcAddr(C.uintptr_t(getDeviceProcAddr), C.uintptr_t(device), cname))
}
