package encode

import (
	"testing"

	"github.com/cockroachdb/errors"
)

func loadedFunctions(t *testing.T, driver *fakeDriver) *ExtensionFunctions {
	t.Helper()
	functions, err := LoadExtensionFunctions(&fakeInstance{driver: driver}, &fakeDevice{driver: driver}, discardLogger)
	if err != nil {
		t.Fatalf("LoadExtensionFunctions: %+v", err)
	}
	return functions
}

func TestQueryVideoCapabilities(t *testing.T) {
	driver := newFakeDriver()
	functions := loadedFunctions(t, driver)

	caps, err := QueryVideoCapabilities(driver, &functions.VideoQueue, PhysicalDevice(2), DefaultVideoProfile())
	if err != nil {
		t.Fatalf("QueryVideoCapabilities: %+v", err)
	}
	if caps.MaxCodedExtent != (Extent2D{Width: 4096, Height: 4096}) {
		t.Errorf("MaxCodedExtent = %s", caps.MaxCodedExtent)
	}
	if driver.capsFn != functions.VideoQueue.GetPhysicalDeviceVideoCapabilities {
		t.Errorf("queried through %#x, want %#x", driver.capsFn, functions.VideoQueue.GetPhysicalDeviceVideoCapabilities)
	}
}

func TestQueryVideoCapabilitiesInvalidProfile(t *testing.T) {
	driver := newFakeDriver()
	functions := loadedFunctions(t, driver)

	profile := DefaultVideoProfile()
	profile.CodecOperation = VideoCodecOperationDecodeH264

	_, err := QueryVideoCapabilities(driver, &functions.VideoQueue, PhysicalDevice(2), profile)
	if !errors.Is(err, ErrUnsupportedProfile) {
		t.Fatalf("error = %v, want ErrUnsupportedProfile", err)
	}
	if driver.called("GetPhysicalDeviceVideoCapabilities") {
		t.Error("driver queried with an invalid profile")
	}
}

func TestQueryVideoFormats(t *testing.T) {
	driver := newFakeDriver()
	functions := loadedFunctions(t, driver)

	formats, err := QueryVideoFormats(driver, &functions.VideoQueue, PhysicalDevice(2), DefaultVideoProfile())
	if err != nil {
		t.Fatalf("QueryVideoFormats: %+v", err)
	}
	if len(formats) != 1 || formats[0].Format != FormatG8B8R82Plane420Unorm {
		t.Errorf("formats = %v", formats)
	}
	if driver.formatsUsage != ImageUsageVideoEncodeSrc {
		t.Errorf("queried usage %s, want %s", driver.formatsUsage, ImageUsageVideoEncodeSrc)
	}

	driver.formatsResult = ResultErrorImageUsageNotSupported
	_, err = QueryVideoFormats(driver, &functions.VideoQueue, PhysicalDevice(2), DefaultVideoProfile())
	if !errors.Is(err, ErrUnsupportedProfile) {
		t.Errorf("error = %v, want ErrUnsupportedProfile", err)
	}
}

func TestCheckSessionRequest(t *testing.T) {
	caps := &VideoCapabilities{
		MinCodedExtent:             Extent2D{Width: 64, Height: 64},
		MaxCodedExtent:             Extent2D{Width: 1920, Height: 1088},
		MaxDpbSlots:                4,
		MaxActiveReferencePictures: 2,
	}
	formats := []VideoFormatProperties{{Format: FormatG8B8R82Plane420Unorm}}

	tests := []struct {
		name    string
		info    VideoSessionCreateInfo
		formats []VideoFormatProperties
		wantErr bool
	}{
		{
			name: "1080p",
			info: VideoSessionCreateInfo{MaxCodedExtent: Extent2D{Width: 1920, Height: 1080}, PictureFormat: FormatG8B8R82Plane420Unorm},
		},
		{
			name:    "exact maximum",
			info:    VideoSessionCreateInfo{MaxCodedExtent: Extent2D{Width: 1920, Height: 1088}, PictureFormat: FormatG8B8R82Plane420Unorm},
			formats: formats,
		},
		{
			name:    "too wide",
			info:    VideoSessionCreateInfo{MaxCodedExtent: Extent2D{Width: 3840, Height: 1080}, PictureFormat: FormatG8B8R82Plane420Unorm},
			formats: formats,
			wantErr: true,
		},
		{
			name:    "below minimum",
			info:    VideoSessionCreateInfo{MaxCodedExtent: Extent2D{Width: 32, Height: 32}, PictureFormat: FormatG8B8R82Plane420Unorm},
			wantErr: true,
		},
		{
			name: "too many DPB slots",
			info: VideoSessionCreateInfo{
				MaxCodedExtent: Extent2D{Width: 1280, Height: 720},
				PictureFormat:  FormatG8B8R82Plane420Unorm,
				MaxDpbSlots:    5,
			},
			wantErr: true,
		},
		{
			name: "too many references",
			info: VideoSessionCreateInfo{
				MaxCodedExtent:             Extent2D{Width: 1280, Height: 720},
				PictureFormat:              FormatG8B8R82Plane420Unorm,
				MaxDpbSlots:                4,
				MaxActiveReferencePictures: 3,
			},
			wantErr: true,
		},
		{
			name:    "format not offered",
			info:    VideoSessionCreateInfo{MaxCodedExtent: Extent2D{Width: 1280, Height: 720}, PictureFormat: FormatG8B8R83Plane420Unorm},
			formats: formats,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckSessionRequest(caps, tt.formats, tt.info)
			if tt.wantErr != (err != nil) {
				t.Fatalf("CheckSessionRequest() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrUnsupportedProfile) {
				t.Errorf("error = %v, want ErrUnsupportedProfile", err)
			}
		})
	}
}

func TestBootstrapOversizeExtent(t *testing.T) {
	driver := newFakeDriver()
	opts := DefaultOptions()
	opts.MaxCodedExtent = Extent2D{Width: 8192, Height: 8192}

	_, err := Bootstrap(driver, opts)
	if !errors.Is(err, ErrUnsupportedProfile) {
		t.Fatalf("error = %v, want ErrUnsupportedProfile", err)
	}
	if errors.Is(err, ErrSessionCreation) {
		t.Error("oversize extent reported as a session creation failure")
	}
	if driver.called("CreateVideoSession") {
		t.Error("session creation attempted beyond the reported maximum extent")
	}
}

func TestCreateVideoSessionRejected(t *testing.T) {
	driver := newFakeDriver()
	driver.sessionResult = ResultErrorOutOfDeviceMemory
	functions := loadedFunctions(t, driver)

	session, err := CreateVideoSession(driver, &functions.VideoQueue, Device(0x20), VideoSessionCreateInfo{Profile: DefaultVideoProfile()}, discardLogger)
	if session.Initialized() {
		t.Error("handle returned with an error")
	}
	if !errors.Is(err, ErrSessionCreation) {
		t.Fatalf("error = %v, want ErrSessionCreation", err)
	}
	if _, result, _ := FailedStage(err); result != ResultErrorOutOfDeviceMemory {
		t.Errorf("result = %s, want %s", result, ResultErrorOutOfDeviceMemory)
	}
}
