package encode

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Failure kinds. Every error returned by Bootstrap matches exactly one of
// these through errors.Is.
var (
	ErrInitialization           = errors.New("vulkan library could not be loaded")
	ErrInstanceCreation         = errors.New("instance creation failed")
	ErrNoSuitableDevice         = errors.New("no discrete GPU found")
	ErrNoEncodeQueue            = errors.New("no queue family supports video encode")
	ErrDeviceCreation           = errors.New("logical device creation failed")
	ErrMissingExtensionFunction = errors.New("extension function not found")
	ErrUnsupportedProfile       = errors.New("video profile not supported")
	ErrSessionCreation          = errors.New("video session creation failed")
)

type Stage int

const (
	StageInstanceBootstrap Stage = iota + 1
	StageDeviceSelection
	StageLogicalDevice
	StageExtensionFunctions
	StageVideoSession
)

func (s Stage) String() string {
	switch s {
	case StageInstanceBootstrap:
		return "InstanceBootstrap"
	case StageDeviceSelection:
		return "DeviceSelector"
	case StageLogicalDevice:
		return "LogicalDeviceFactory"
	case StageExtensionFunctions:
		return "ExtensionFunctionLoader"
	case StageVideoSession:
		return "VideoSessionFactory"
	}
	return fmt.Sprintf("Stage(%d)", int(s))
}

// StageError is a terminal bootstrap failure. Result is the driver's result
// code when the failure came from a driver call, and ResultSuccess otherwise.
type StageError struct {
	Stage  Stage
	Kind   error
	Result Result
	cause  error
}

func (e *StageError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Stage, e.Kind)
	if e.Result != ResultSuccess {
		msg += fmt.Sprintf(" (%s)", e.Result)
	}
	if e.cause != nil {
		msg += ": " + e.cause.Error()
	}
	return msg
}

func (e *StageError) Unwrap() error { return e.cause }

func (e *StageError) Is(target error) bool { return target == e.Kind }

func stageFailure(stage Stage, kind error, result Result, cause error) error {
	return errors.WithStack(&StageError{
		Stage:  stage,
		Kind:   kind,
		Result: result,
		cause:  cause,
	})
}

// MissingExtensionFunctionError names an entry point the loader could not resolve.
type MissingExtensionFunctionError struct {
	FunctionSet string
	Symbol      string
	Loader      LoaderKind
}

func (e *MissingExtensionFunctionError) Error() string {
	if e.FunctionSet == "" {
		return fmt.Sprintf("%s not found via %s", e.Symbol, e.Loader)
	}
	return fmt.Sprintf("%s: %s not found via %s", e.FunctionSet, e.Symbol, e.Loader)
}

func (e *MissingExtensionFunctionError) Is(target error) bool {
	return target == ErrMissingExtensionFunction
}

// FailedStage reports the stage and driver result carried by err, if any.
func FailedStage(err error) (Stage, Result, bool) {
	var stageErr *StageError
	if !errors.As(err, &stageErr) {
		return 0, ResultSuccess, false
	}
	return stageErr.Stage, stageErr.Result, true
}
