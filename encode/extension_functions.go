package encode

import (
	"fmt"
	"log/slog"

	"github.com/cockroachdb/errors"
)

// LoaderKind selects which proc-address entry point resolves a symbol.
type LoaderKind int

const (
	DeviceLevel LoaderKind = iota
	InstanceLevel
)

func (k LoaderKind) String() string {
	switch k {
	case DeviceLevel:
		return "vkGetDeviceProcAddr"
	case InstanceLevel:
		return "vkGetInstanceProcAddr"
	}
	return fmt.Sprintf("LoaderKind(%d)", int(k))
}

type VideoQueueFunctions struct {
	GetPhysicalDeviceVideoCapabilities     ProcAddr
	GetPhysicalDeviceVideoFormatProperties ProcAddr
	CreateVideoSession                     ProcAddr
	DestroyVideoSession                    ProcAddr
	GetVideoSessionMemoryRequirements      ProcAddr
	BindVideoSessionMemory                 ProcAddr
	CreateVideoSessionParameters           ProcAddr
	UpdateVideoSessionParameters           ProcAddr
	DestroyVideoSessionParameters          ProcAddr
	CmdBeginVideoCoding                    ProcAddr
	CmdEndVideoCoding                      ProcAddr
	CmdControlVideoCoding                  ProcAddr
}

type VideoEncodeQueueFunctions struct {
	GetEncodedVideoSessionParameters ProcAddr
	CmdEncodeVideo                   ProcAddr
}

// VideoEncodeH264Functions is empty: the H.264 encode extension adds
// structures but no commands.
type VideoEncodeH264Functions struct{}

// ExtensionFunctions is built once after device creation and never modified.
type ExtensionFunctions struct {
	VideoQueue       VideoQueueFunctions
	VideoEncodeQueue VideoEncodeQueueFunctions
	VideoEncodeH264  VideoEncodeH264Functions
}

type Symbol struct {
	Name   string
	Loader LoaderKind
}

type functionBinding struct {
	Symbol
	slot func(*ExtensionFunctions) *ProcAddr
}

type functionSet struct {
	extension string
	bindings  []functionBinding
}

var extensionFunctionTable = []functionSet{
	{
		extension: VideoQueueExtensionName,
		bindings: []functionBinding{
			{Symbol{"vkGetPhysicalDeviceVideoCapabilitiesKHR", InstanceLevel}, func(f *ExtensionFunctions) *ProcAddr { return &f.VideoQueue.GetPhysicalDeviceVideoCapabilities }},
			{Symbol{"vkGetPhysicalDeviceVideoFormatPropertiesKHR", InstanceLevel}, func(f *ExtensionFunctions) *ProcAddr { return &f.VideoQueue.GetPhysicalDeviceVideoFormatProperties }},
			{Symbol{"vkCreateVideoSessionKHR", DeviceLevel}, func(f *ExtensionFunctions) *ProcAddr { return &f.VideoQueue.CreateVideoSession }},
			{Symbol{"vkDestroyVideoSessionKHR", DeviceLevel}, func(f *ExtensionFunctions) *ProcAddr { return &f.VideoQueue.DestroyVideoSession }},
			{Symbol{"vkGetVideoSessionMemoryRequirementsKHR", DeviceLevel}, func(f *ExtensionFunctions) *ProcAddr { return &f.VideoQueue.GetVideoSessionMemoryRequirements }},
			{Symbol{"vkBindVideoSessionMemoryKHR", DeviceLevel}, func(f *ExtensionFunctions) *ProcAddr { return &f.VideoQueue.BindVideoSessionMemory }},
			{Symbol{"vkCreateVideoSessionParametersKHR", DeviceLevel}, func(f *ExtensionFunctions) *ProcAddr { return &f.VideoQueue.CreateVideoSessionParameters }},
			{Symbol{"vkUpdateVideoSessionParametersKHR", DeviceLevel}, func(f *ExtensionFunctions) *ProcAddr { return &f.VideoQueue.UpdateVideoSessionParameters }},
			{Symbol{"vkDestroyVideoSessionParametersKHR", DeviceLevel}, func(f *ExtensionFunctions) *ProcAddr { return &f.VideoQueue.DestroyVideoSessionParameters }},
			{Symbol{"vkCmdBeginVideoCodingKHR", DeviceLevel}, func(f *ExtensionFunctions) *ProcAddr { return &f.VideoQueue.CmdBeginVideoCoding }},
			{Symbol{"vkCmdEndVideoCodingKHR", DeviceLevel}, func(f *ExtensionFunctions) *ProcAddr { return &f.VideoQueue.CmdEndVideoCoding }},
			{Symbol{"vkCmdControlVideoCodingKHR", DeviceLevel}, func(f *ExtensionFunctions) *ProcAddr { return &f.VideoQueue.CmdControlVideoCoding }},
		},
	},
	{
		extension: VideoEncodeQueueExtensionName,
		bindings: []functionBinding{
			{Symbol{"vkGetEncodedVideoSessionParametersKHR", DeviceLevel}, func(f *ExtensionFunctions) *ProcAddr { return &f.VideoEncodeQueue.GetEncodedVideoSessionParameters }},
			{Symbol{"vkCmdEncodeVideoKHR", DeviceLevel}, func(f *ExtensionFunctions) *ProcAddr { return &f.VideoEncodeQueue.CmdEncodeVideo }},
		},
	},
	{
		extension: VideoEncodeH264ExtensionName,
	},
}

// ExtensionSymbols lists every symbol the loader resolves, per extension, in
// resolution order.
func ExtensionSymbols() map[string][]Symbol {
	symbols := make(map[string][]Symbol, len(extensionFunctionTable))
	for _, set := range extensionFunctionTable {
		list := make([]Symbol, 0, len(set.bindings))
		for _, binding := range set.bindings {
			list = append(list, binding.Symbol)
		}
		symbols[set.extension] = list
	}
	return symbols
}

// Resolve looks up one symbol through the loader selected by kind.
func Resolve(instance InstanceDriver, device DeviceDriver, kind LoaderKind, symbol string) (ProcAddr, error) {
	var addr ProcAddr
	switch kind {
	case InstanceLevel:
		addr = instance.GetInstanceProcAddr(symbol)
	case DeviceLevel:
		addr = device.GetDeviceProcAddr(symbol)
	default:
		return 0, errors.Newf("unknown loader kind %d for %s", int(kind), symbol)
	}

	if addr == 0 {
		return 0, &MissingExtensionFunctionError{Symbol: symbol, Loader: kind}
	}
	return addr, nil
}

// LoadExtensionFunctions resolves all three function sets. Every missing
// symbol is reported; the first one is the primary error.
func LoadExtensionFunctions(instance InstanceDriver, device DeviceDriver, logger *slog.Logger) (*ExtensionFunctions, error) {
	functions := &ExtensionFunctions{}

	var missing error
	for _, set := range extensionFunctionTable {
		for _, binding := range set.bindings {
			addr, err := Resolve(instance, device, binding.Loader, binding.Name)
			if err != nil {
				var missingErr *MissingExtensionFunctionError
				if errors.As(err, &missingErr) {
					missingErr.FunctionSet = set.extension
				}
				missing = errors.CombineErrors(missing, err)
				continue
			}
			*binding.slot(functions) = addr
		}

		logger.Debug("extension functions resolved",
			slog.String("extension", set.extension),
			slog.Int("symbols", len(set.bindings)),
		)
	}

	if missing != nil {
		return nil, stageFailure(StageExtensionFunctions, ErrMissingExtensionFunction, ResultSuccess, missing)
	}
	return functions, nil
}
