//go:build !linux && !freebsd

package driver

import (
	"runtime"
	"unsafe"

	"github.com/cockroachdb/errors"
)

type systemLibrary struct {
	path string
}

func newSystemLibrary(path string) library {
	return &systemLibrary{path: path}
}

func (l *systemLibrary) open() (unsafe.Pointer, error) {
	return nil, errors.Newf("the %s loader is not available on %s, use the %s loader", SystemLoader, runtime.GOOS, SDLLoader)
}

func (l *systemLibrary) close() {}
