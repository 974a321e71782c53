package driver

import (
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/veandco/go-sdl2/sdl"
)

// sdlLibrary lets SDL locate the Vulkan library, the same way a windowed
// application would, without ever creating a window.
type sdlLibrary struct {
	path string
}

func (l *sdlLibrary) open() (unsafe.Pointer, error) {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return nil, errors.Wrap(err, "sdl init")
	}

	if err := sdl.VulkanLoadLibrary(l.path); err != nil {
		sdl.Quit()
		return nil, errors.Wrap(err, "sdl vulkan load library")
	}

	return sdl.VulkanGetVkGetInstanceProcAddr(), nil
}

func (l *sdlLibrary) close() {
	sdl.VulkanUnloadLibrary()
	sdl.Quit()
}
