package encode

import (
	"sort"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/kr/pretty"
)

func TestExtensionSymbols(t *testing.T) {
	symbols := ExtensionSymbols()

	if len(symbols[VideoQueueExtensionName]) != 12 {
		t.Errorf("%s has %d symbols, want 12", VideoQueueExtensionName, len(symbols[VideoQueueExtensionName]))
	}
	if len(symbols[VideoEncodeQueueExtensionName]) != 2 {
		t.Errorf("%s has %d symbols, want 2", VideoEncodeQueueExtensionName, len(symbols[VideoEncodeQueueExtensionName]))
	}
	if list, ok := symbols[VideoEncodeH264ExtensionName]; !ok || len(list) != 0 {
		t.Errorf("%s = %v, want an empty set", VideoEncodeH264ExtensionName, list)
	}

	var instanceLevel []string
	for _, list := range symbols {
		for _, symbol := range list {
			if !strings.HasPrefix(symbol.Name, "vk") || !strings.HasSuffix(symbol.Name, "KHR") {
				t.Errorf("unexpected symbol name %q", symbol.Name)
			}
			if symbol.Loader == InstanceLevel {
				instanceLevel = append(instanceLevel, symbol.Name)
			}
		}
	}
	sort.Strings(instanceLevel)

	want := []string{
		"vkGetPhysicalDeviceVideoCapabilitiesKHR",
		"vkGetPhysicalDeviceVideoFormatPropertiesKHR",
	}
	if diff := pretty.Diff(instanceLevel, want); len(diff) > 0 {
		t.Errorf("instance-level symbols differ: %v", diff)
	}
}

func TestLoadExtensionFunctions(t *testing.T) {
	driver := newFakeDriver()
	instance := &fakeInstance{driver: driver}
	device := &fakeDevice{driver: driver}

	functions, err := LoadExtensionFunctions(instance, device, discardLogger)
	if err != nil {
		t.Fatalf("LoadExtensionFunctions: %+v", err)
	}

	sort.Strings(driver.instanceLookups)
	want := []string{
		"vkGetPhysicalDeviceVideoCapabilitiesKHR",
		"vkGetPhysicalDeviceVideoFormatPropertiesKHR",
	}
	if diff := pretty.Diff(driver.instanceLookups, want); len(diff) > 0 {
		t.Errorf("instance lookups differ: %v", diff)
	}
	if len(driver.deviceLookups) != 12 {
		t.Errorf("%d device lookups, want 12", len(driver.deviceLookups))
	}

	if functions.VideoQueue.GetPhysicalDeviceVideoCapabilities != driver.instanceSymbols["vkGetPhysicalDeviceVideoCapabilitiesKHR"] {
		t.Error("capabilities entry point bound to the wrong address")
	}
	if functions.VideoQueue.CreateVideoSession != driver.deviceSymbols["vkCreateVideoSessionKHR"] {
		t.Error("create session entry point bound to the wrong address")
	}
	if functions.VideoQueue.CmdControlVideoCoding != driver.deviceSymbols["vkCmdControlVideoCodingKHR"] {
		t.Error("control coding entry point bound to the wrong address")
	}
	if functions.VideoEncodeQueue.CmdEncodeVideo != driver.deviceSymbols["vkCmdEncodeVideoKHR"] {
		t.Error("encode entry point bound to the wrong address")
	}

	seen := make(map[ProcAddr]bool)
	for _, addr := range []ProcAddr{
		functions.VideoQueue.GetPhysicalDeviceVideoCapabilities,
		functions.VideoQueue.GetPhysicalDeviceVideoFormatProperties,
		functions.VideoQueue.CreateVideoSession,
		functions.VideoQueue.DestroyVideoSession,
		functions.VideoQueue.GetVideoSessionMemoryRequirements,
		functions.VideoQueue.BindVideoSessionMemory,
		functions.VideoQueue.CreateVideoSessionParameters,
		functions.VideoQueue.UpdateVideoSessionParameters,
		functions.VideoQueue.DestroyVideoSessionParameters,
		functions.VideoQueue.CmdBeginVideoCoding,
		functions.VideoQueue.CmdEndVideoCoding,
		functions.VideoQueue.CmdControlVideoCoding,
		functions.VideoEncodeQueue.GetEncodedVideoSessionParameters,
		functions.VideoEncodeQueue.CmdEncodeVideo,
	} {
		if addr == 0 {
			t.Error("unresolved entry point in a successful load")
		}
		if seen[addr] {
			t.Errorf("address %#x bound twice", addr)
		}
		seen[addr] = true
	}
}

func TestLoadExtensionFunctionsMissingSymbol(t *testing.T) {
	tests := []struct {
		name   string
		remove func(f *fakeDriver)
		set    string
		symbol string
		loader LoaderKind
	}{
		{
			name:   "device level",
			remove: func(f *fakeDriver) { delete(f.deviceSymbols, "vkBindVideoSessionMemoryKHR") },
			set:    VideoQueueExtensionName,
			symbol: "vkBindVideoSessionMemoryKHR",
			loader: DeviceLevel,
		},
		{
			name:   "instance level",
			remove: func(f *fakeDriver) { delete(f.instanceSymbols, "vkGetPhysicalDeviceVideoFormatPropertiesKHR") },
			set:    VideoQueueExtensionName,
			symbol: "vkGetPhysicalDeviceVideoFormatPropertiesKHR",
			loader: InstanceLevel,
		},
		{
			name:   "encode queue",
			remove: func(f *fakeDriver) { delete(f.deviceSymbols, "vkGetEncodedVideoSessionParametersKHR") },
			set:    VideoEncodeQueueExtensionName,
			symbol: "vkGetEncodedVideoSessionParametersKHR",
			loader: DeviceLevel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			driver := newFakeDriver()
			tt.remove(driver)

			functions, err := LoadExtensionFunctions(&fakeInstance{driver: driver}, &fakeDevice{driver: driver}, discardLogger)
			if functions != nil {
				t.Error("partial function table returned")
			}
			if !errors.Is(err, ErrMissingExtensionFunction) {
				t.Fatalf("error = %v, want ErrMissingExtensionFunction", err)
			}

			var missing *MissingExtensionFunctionError
			if !errors.As(err, &missing) {
				t.Fatalf("error %v does not name the missing function", err)
			}
			want := MissingExtensionFunctionError{FunctionSet: tt.set, Symbol: tt.symbol, Loader: tt.loader}
			if diff := pretty.Diff(*missing, want); len(diff) > 0 {
				t.Errorf("missing function differs: %v", diff)
			}
			if !strings.Contains(err.Error(), tt.symbol) {
				t.Errorf("error message %q does not name %s", err, tt.symbol)
			}
		})
	}
}

func TestResolveUnknownLoader(t *testing.T) {
	driver := newFakeDriver()
	_, err := Resolve(&fakeInstance{driver: driver}, &fakeDevice{driver: driver}, LoaderKind(7), "vkCreateVideoSessionKHR")
	if err == nil {
		t.Fatal("Resolve accepted an unknown loader kind")
	}
	if errors.Is(err, ErrMissingExtensionFunction) {
		t.Error("unknown loader reported as a missing function")
	}
}
