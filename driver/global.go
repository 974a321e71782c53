package driver

import (
	"context"
	"log/slog"
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/encode-session/encode"
	"github.com/vkngwrapper/extensions/v3/ext_debug_utils"
	"github.com/vkngwrapper/extensions/v3/khr_portability_enumeration"
)

type GlobalDriver struct {
	driver              core1_0.GlobalDriver
	getInstanceProcAddr unsafe.Pointer
	logger              *slog.Logger
}

func (g *GlobalDriver) AvailableExtensions() (map[string]*encode.ExtensionProperties, encode.Result, error) {
	extensions, res, err := g.driver.AvailableExtensions()
	if err != nil {
		return nil, encode.Result(res), err
	}
	return convertExtensions(extensions), encode.Result(res), nil
}

func (g *GlobalDriver) AvailableLayers() (map[string]*encode.LayerProperties, encode.Result, error) {
	layers, res, err := g.driver.AvailableLayers()
	if err != nil {
		return nil, encode.Result(res), err
	}
	return convertLayers(layers), encode.Result(res), nil
}

func (g *GlobalDriver) CreateInstance(info encode.InstanceCreateInfo) (encode.InstanceDriver, encode.Result, error) {
	instanceOptions := core1_0.InstanceCreateInfo{
		ApplicationName:       info.ApplicationName,
		ApplicationVersion:    info.ApplicationVersion,
		EngineName:            info.EngineName,
		EngineVersion:         info.EngineVersion,
		APIVersion:            info.APIVersion,
		EnabledExtensionNames: info.EnabledExtensionNames,
		EnabledLayerNames:     info.EnabledLayerNames,
	}

	if hasName(info.EnabledExtensionNames, khr_portability_enumeration.ExtensionName) {
		instanceOptions.Flags |= khr_portability_enumeration.InstanceCreateEnumeratePortability
	}

	debugging := hasName(info.EnabledExtensionNames, ext_debug_utils.ExtensionName)
	if debugging {
		// Covers messages emitted by vkCreateInstance itself.
		instanceOptions.Next = g.debugMessengerOptions()
	}

	vkInstance, res, err := g.driver.CreateInstance(nil, instanceOptions)
	if err != nil {
		return nil, encode.Result(res), err
	}

	instanceDriver, err := g.driver.BuildInstanceDriver(vkInstance)
	if err != nil {
		return nil, encode.ResultErrorInitializationFailed, errors.Wrap(err, "build instance driver")
	}

	instance := &InstanceDriver{
		driver:          instanceDriver,
		global:          g,
		physicalDevices: make(map[encode.PhysicalDevice]core1_0.PhysicalDevice),
	}

	if debugging {
		err = instance.setupDebugMessenger()
		if err != nil {
			instanceDriver.DestroyInstance(nil)
			return nil, encode.ResultErrorInitializationFailed, err
		}
	}

	return instance, encode.Result(res), nil
}

func (g *GlobalDriver) Video() encode.VideoDriver {
	return videoDriver{}
}

func (g *GlobalDriver) debugMessengerOptions() ext_debug_utils.DebugUtilsMessengerCreateInfo {
	return ext_debug_utils.DebugUtilsMessengerCreateInfo{
		MessageSeverity: ext_debug_utils.SeverityError | ext_debug_utils.SeverityWarning,
		MessageType:     ext_debug_utils.TypeGeneral | ext_debug_utils.TypeValidation | ext_debug_utils.TypePerformance,
		UserCallback:    g.logDebug,
	}
}

func (g *GlobalDriver) logDebug(msgType ext_debug_utils.DebugUtilsMessageTypeFlags, severity ext_debug_utils.DebugUtilsMessageSeverityFlags, data *ext_debug_utils.DebugUtilsMessengerCallbackData) bool {
	level := slog.LevelWarn
	if severity&ext_debug_utils.SeverityError != 0 {
		level = slog.LevelError
	}

	g.logger.Log(context.Background(), level, data.Message,
		slog.String("severity", severity.String()),
		slog.String("type", msgType.String()),
	)
	return false
}

func hasName(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

func convertLayers(layers map[string]*core1_0.LayerProperties) map[string]*encode.LayerProperties {
	converted := make(map[string]*encode.LayerProperties, len(layers))
	for name, layer := range layers {
		converted[name] = &encode.LayerProperties{
			LayerName:             layer.LayerName,
			SpecVersion:           layer.SpecVersion,
			ImplementationVersion: layer.ImplementationVersion,
			Description:           layer.Description,
		}
	}
	return converted
}

func convertExtensions(extensions map[string]*core1_0.ExtensionProperties) map[string]*encode.ExtensionProperties {
	converted := make(map[string]*encode.ExtensionProperties, len(extensions))
	for name, extension := range extensions {
		converted[name] = &encode.ExtensionProperties{
			ExtensionName: extension.ExtensionName,
			SpecVersion:   uint32(extension.SpecVersion),
		}
	}
	return converted
}

var errUnknownPhysicalDevice = errors.New("physical device was not enumerated by this instance")
