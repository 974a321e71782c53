package encode

import (
	"log/slog"

	"github.com/cockroachdb/errors"
)

// QueryVideoCapabilities asks the driver whether profile is supported on
// physicalDevice and, if so, within which limits.
func QueryVideoCapabilities(video VideoDriver, functions *VideoQueueFunctions, physicalDevice PhysicalDevice, profile VideoProfile) (*VideoCapabilities, error) {
	if err := profile.Validate(); err != nil {
		return nil, stageFailure(StageVideoSession, ErrUnsupportedProfile, ResultSuccess, err)
	}

	capabilities, res, err := video.GetPhysicalDeviceVideoCapabilities(functions.GetPhysicalDeviceVideoCapabilities, physicalDevice, profile)
	if err != nil || res != ResultSuccess || capabilities == nil {
		return nil, stageFailure(StageVideoSession, ErrUnsupportedProfile, res,
			errors.Wrapf(errOrResult(err, res), "profile %s", profile))
	}

	return capabilities, nil
}

// QueryVideoFormats lists the picture formats usable as encode input for profile.
func QueryVideoFormats(video VideoDriver, functions *VideoQueueFunctions, physicalDevice PhysicalDevice, profile VideoProfile) ([]VideoFormatProperties, error) {
	formats, res, err := video.GetPhysicalDeviceVideoFormatProperties(functions.GetPhysicalDeviceVideoFormatProperties, physicalDevice, profile, ImageUsageVideoEncodeSrc)
	if err != nil || res != ResultSuccess {
		return nil, stageFailure(StageVideoSession, ErrUnsupportedProfile, res,
			errors.Wrapf(errOrResult(err, res), "query %s formats", ImageUsageVideoEncodeSrc))
	}
	if formats == nil {
		formats = []VideoFormatProperties{}
	}
	return formats, nil
}

// CheckSessionRequest rejects a session request the capabilities already
// rule out, so that the failure is reported as an unsupported profile rather
// than a driver-side session failure.
func CheckSessionRequest(capabilities *VideoCapabilities, formats []VideoFormatProperties, info VideoSessionCreateInfo) error {
	if !info.MaxCodedExtent.Within(capabilities.MinCodedExtent, capabilities.MaxCodedExtent) {
		return stageFailure(StageVideoSession, ErrUnsupportedProfile, ResultSuccess,
			errors.Newf("max coded extent %s outside supported range %s..%s",
				info.MaxCodedExtent, capabilities.MinCodedExtent, capabilities.MaxCodedExtent))
	}

	if info.MaxDpbSlots > capabilities.MaxDpbSlots {
		return stageFailure(StageVideoSession, ErrUnsupportedProfile, ResultSuccess,
			errors.Newf("%d DPB slots requested, at most %d supported", info.MaxDpbSlots, capabilities.MaxDpbSlots))
	}

	if info.MaxActiveReferencePictures > capabilities.MaxActiveReferencePictures {
		return stageFailure(StageVideoSession, ErrUnsupportedProfile, ResultSuccess,
			errors.Newf("%d active reference pictures requested, at most %d supported",
				info.MaxActiveReferencePictures, capabilities.MaxActiveReferencePictures))
	}

	if formats != nil {
		found := false
		for _, format := range formats {
			if format.Format == info.PictureFormat {
				found = true
				break
			}
		}
		if !found {
			return stageFailure(StageVideoSession, ErrUnsupportedProfile, ResultErrorVideoProfileFormatNotSupported,
				errors.Newf("picture format %s not offered for encode input", info.PictureFormat))
		}
	}

	return nil
}

// CreateVideoSession creates the session object on device.
func CreateVideoSession(video VideoDriver, functions *VideoQueueFunctions, device Device, info VideoSessionCreateInfo, logger *slog.Logger) (VideoSession, error) {
	session, res, err := video.CreateVideoSession(functions.CreateVideoSession, device, info)
	if err != nil || res != ResultSuccess || !session.Initialized() {
		return 0, stageFailure(StageVideoSession, ErrSessionCreation, res, errOrResult(err, res))
	}

	logger.Info("video session created",
		slog.String("profile", info.Profile.String()),
		slog.String("max_coded_extent", info.MaxCodedExtent.String()),
		slog.String("picture_format", info.PictureFormat.String()),
		slog.String("std_header", info.StdHeaderVersion.ExtensionName),
	)
	return session, nil
}
