package encode

import (
	"log/slog"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3/common"
)

const (
	ValidationLayerName                 = "VK_LAYER_KHRONOS_validation"
	DebugUtilsExtensionName             = "VK_EXT_debug_utils"
	PortabilityEnumerationExtensionName = "VK_KHR_portability_enumeration"
)

var DefaultAPIVersion = common.APIVersion(common.CreateVersion(1, 3, 0))

// CreateInstance creates the top-level instance. Portability enumeration is
// enabled whenever the loader offers it; validation requires both the
// Khronos layer and debug utils.
func CreateInstance(global GlobalDriver, opts Options) (InstanceDriver, error) {
	info := InstanceCreateInfo{
		ApplicationName:    opts.ApplicationName,
		ApplicationVersion: common.CreateVersion(1, 0, 0),
		EngineName:         "No Engine",
		EngineVersion:      common.CreateVersion(1, 0, 0),
		APIVersion:         opts.APIVersion,
	}

	extensions, res, err := global.AvailableExtensions()
	if err != nil {
		return nil, stageFailure(StageInstanceBootstrap, ErrInstanceCreation, res, errors.Wrap(err, "enumerate instance extensions"))
	}

	if _, ok := extensions[PortabilityEnumerationExtensionName]; ok {
		info.EnabledExtensionNames = append(info.EnabledExtensionNames, PortabilityEnumerationExtensionName)
	}

	if opts.EnableValidation {
		if _, ok := extensions[DebugUtilsExtensionName]; !ok {
			return nil, stageFailure(StageInstanceBootstrap, ErrInstanceCreation, ResultErrorExtensionNotPresent,
				errors.Newf("validation requested but %s is not available", DebugUtilsExtensionName))
		}
		info.EnabledExtensionNames = append(info.EnabledExtensionNames, DebugUtilsExtensionName)

		layers, res, err := global.AvailableLayers()
		if err != nil {
			return nil, stageFailure(StageInstanceBootstrap, ErrInstanceCreation, res, errors.Wrap(err, "enumerate instance layers"))
		}
		if _, ok := layers[ValidationLayerName]; !ok {
			return nil, stageFailure(StageInstanceBootstrap, ErrInstanceCreation, ResultErrorLayerNotPresent,
				errors.Newf("cannot add validation- layer %s not available- install LunarG Vulkan SDK", ValidationLayerName))
		}
		info.EnabledLayerNames = append(info.EnabledLayerNames, ValidationLayerName)
	}

	instance, res, err := global.CreateInstance(info)
	if err != nil || res != ResultSuccess || instance == nil {
		return nil, stageFailure(StageInstanceBootstrap, ErrInstanceCreation, res, errOrResult(err, res))
	}

	opts.logger().Info("instance created",
		slog.String("api_version", opts.APIVersion.String()),
		slog.Any("extensions", info.EnabledExtensionNames),
		slog.Any("layers", info.EnabledLayerNames),
	)
	return instance, nil
}
