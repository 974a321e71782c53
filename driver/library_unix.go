//go:build linux || freebsd

package driver

/*
#cgo linux freebsd LDFLAGS: -ldl

#include <dlfcn.h>
#include <stdlib.h>
*/
import "C"

import (
	"runtime"
	"unsafe"

	"github.com/cockroachdb/errors"
)

type systemLibrary struct {
	path   string
	handle unsafe.Pointer
}

func newSystemLibrary(path string) library {
	if path == "" {
		path = "libvulkan.so.1"
		if runtime.GOOS == "android" {
			path = "libvulkan.so"
		}
	}
	return &systemLibrary{path: path}
}

func (l *systemLibrary) open() (unsafe.Pointer, error) {
	clib := C.CString(l.path)
	defer C.free(unsafe.Pointer(clib))

	handle := C.dlopen(clib, C.RTLD_NOW|C.RTLD_LOCAL)
	if handle == nil {
		return nil, errors.Newf("dlopen %s: %s", l.path, C.GoString(C.dlerror()))
	}

	csym := C.CString("vkGetInstanceProcAddr")
	defer C.free(unsafe.Pointer(csym))

	procAddr := C.dlsym(handle, csym)
	if procAddr == nil {
		C.dlclose(handle)
		return nil, errors.Newf("dlsym vkGetInstanceProcAddr in %s: %s", l.path, C.GoString(C.dlerror()))
	}

	l.handle = handle
	return procAddr, nil
}

func (l *systemLibrary) close() {
	if l.handle == nil {
		return
	}
	C.dlclose(l.handle)
	l.handle = nil
}
