// Package driver implements the encode driver interfaces on top of
// vkngwrapper, plus the raw call gates for the video extension entry points
// vkngwrapper does not wrap.
package driver

import (
	"log/slog"
	"strings"
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3"
	"github.com/vkngwrapper/encode-session/encode"
)

type Kind string

const (
	SystemLoader Kind = "system"
	SDLLoader    Kind = "sdl"
)

func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case SystemLoader, "":
		return SystemLoader, nil
	case SDLLoader:
		return SDLLoader, nil
	}
	return "", errors.Newf("unknown loader %q: expected %q or %q", s, SystemLoader, SDLLoader)
}

// library yields the address of vkGetInstanceProcAddr and releases whatever
// had to be opened to find it.
type library interface {
	open() (unsafe.Pointer, error)
	close()
}

// Loader implements encode.Loader. Every other entry point is reached through
// the vkGetInstanceProcAddr it finds.
type Loader struct {
	kind    Kind
	library library
	logger  *slog.Logger
	loaded  bool
}

func NewLoader(kind Kind, libraryPath string, logger *slog.Logger) (*Loader, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var lib library
	switch kind {
	case SystemLoader:
		lib = newSystemLibrary(libraryPath)
	case SDLLoader:
		lib = &sdlLibrary{path: libraryPath}
	default:
		return nil, errors.Newf("unknown loader %q", kind)
	}

	return &Loader{
		kind:    kind,
		library: lib,
		logger:  logger.With(slog.String("loader", string(kind))),
	}, nil
}

func (l *Loader) Load() (encode.GlobalDriver, error) {
	procAddr, err := l.library.open()
	if err != nil {
		return nil, err
	}
	if procAddr == nil {
		l.library.close()
		return nil, errors.New("vkGetInstanceProcAddr not found")
	}

	globalDriver, err := core.CreateDriverFromProcAddr(procAddr)
	if err != nil {
		l.library.close()
		return nil, errors.Wrap(err, "create global driver")
	}
	l.loaded = true

	l.logger.Debug("vulkan library loaded")
	return &GlobalDriver{
		driver:              globalDriver,
		getInstanceProcAddr: procAddr,
		logger:              l.logger,
	}, nil
}

func (l *Loader) Unload() {
	if !l.loaded {
		return
	}
	l.library.close()
	l.loaded = false
	l.logger.Debug("vulkan library unloaded")
}
