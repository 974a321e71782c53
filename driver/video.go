package driver

/*
#cgo freebsd CFLAGS: -I/usr/local/include

#define VK_NO_PROTOTYPES 1
#define VK_DEFINE_NON_DISPATCHABLE_HANDLE(object) typedef uint64_t object;
#include <vulkan/vulkan.h>
#include <stdint.h>
#include <string.h>

typedef struct {
	VkVideoCodecOperationFlagBitsKHR codecOperation;
	VkVideoChromaSubsamplingFlagsKHR chromaSubsampling;
	VkVideoComponentBitDepthFlagsKHR lumaBitDepth;
	VkVideoComponentBitDepthFlagsKHR chromaBitDepth;
	StdVideoH264ProfileIdc stdProfileIdc;
} encodeProfile;

typedef struct {
	VkVideoCapabilitiesKHR video;
	VkVideoEncodeCapabilitiesKHR encode;
	VkVideoEncodeH264CapabilitiesKHR h264;
} encodeCapabilities;

static void fillProfile(const encodeProfile *in, VkVideoProfileInfoKHR *profile, VkVideoEncodeH264ProfileInfoKHR *h264) {
	memset(h264, 0, sizeof(*h264));
	h264->sType = VK_STRUCTURE_TYPE_VIDEO_ENCODE_H264_PROFILE_INFO_KHR;
	h264->stdProfileIdc = in->stdProfileIdc;

	memset(profile, 0, sizeof(*profile));
	profile->sType = VK_STRUCTURE_TYPE_VIDEO_PROFILE_INFO_KHR;
	profile->pNext = h264;
	profile->videoCodecOperation = in->codecOperation;
	profile->chromaSubsampling = in->chromaSubsampling;
	profile->lumaBitDepth = in->lumaBitDepth;
	profile->chromaBitDepth = in->chromaBitDepth;
}

static VkResult getVideoCapabilities(uintptr_t fn, uintptr_t physicalDevice, encodeProfile in, encodeCapabilities *out) {
	VkVideoEncodeH264ProfileInfoKHR h264Profile;
	VkVideoProfileInfoKHR profile;
	fillProfile(&in, &profile, &h264Profile);

	encodeCapabilities caps;
	memset(&caps, 0, sizeof(caps));
	caps.h264.sType = VK_STRUCTURE_TYPE_VIDEO_ENCODE_H264_CAPABILITIES_KHR;
	caps.encode.sType = VK_STRUCTURE_TYPE_VIDEO_ENCODE_CAPABILITIES_KHR;
	caps.encode.pNext = &caps.h264;
	caps.video.sType = VK_STRUCTURE_TYPE_VIDEO_CAPABILITIES_KHR;
	caps.video.pNext = &caps.encode;

	VkResult result = ((PFN_vkGetPhysicalDeviceVideoCapabilitiesKHR)fn)((VkPhysicalDevice)physicalDevice, &profile, &caps.video);

	caps.video.pNext = NULL;
	caps.encode.pNext = NULL;
	*out = caps;
	return result;
}

static VkResult getVideoFormatProperties(uintptr_t fn, uintptr_t physicalDevice, encodeProfile in, VkImageUsageFlags usage, uint32_t *count, VkVideoFormatPropertiesKHR *properties) {
	VkVideoEncodeH264ProfileInfoKHR h264Profile;
	VkVideoProfileInfoKHR profile;
	fillProfile(&in, &profile, &h264Profile);

	VkVideoProfileListInfoKHR profileList;
	memset(&profileList, 0, sizeof(profileList));
	profileList.sType = VK_STRUCTURE_TYPE_VIDEO_PROFILE_LIST_INFO_KHR;
	profileList.profileCount = 1;
	profileList.pProfiles = &profile;

	VkPhysicalDeviceVideoFormatInfoKHR formatInfo;
	memset(&formatInfo, 0, sizeof(formatInfo));
	formatInfo.sType = VK_STRUCTURE_TYPE_PHYSICAL_DEVICE_VIDEO_FORMAT_INFO_KHR;
	formatInfo.pNext = &profileList;
	formatInfo.imageUsage = usage;

	if (properties != NULL) {
		for (uint32_t i = 0; i < *count; i++) {
			memset(&properties[i], 0, sizeof(properties[i]));
			properties[i].sType = VK_STRUCTURE_TYPE_VIDEO_FORMAT_PROPERTIES_KHR;
		}
	}

	return ((PFN_vkGetPhysicalDeviceVideoFormatPropertiesKHR)fn)((VkPhysicalDevice)physicalDevice, &formatInfo, count, properties);
}

static VkResult createVideoSession(uintptr_t fn, uintptr_t device, uint32_t queueFamilyIndex, encodeProfile in,
	VkFormat pictureFormat, uint32_t width, uint32_t height, VkFormat referencePictureFormat,
	uint32_t maxDpbSlots, uint32_t maxActiveReferencePictures, const VkExtensionProperties *stdHeaderVersion,
	uint64_t *session) {
	VkVideoEncodeH264ProfileInfoKHR h264Profile;
	VkVideoProfileInfoKHR profile;
	fillProfile(&in, &profile, &h264Profile);

	VkVideoSessionCreateInfoKHR createInfo;
	memset(&createInfo, 0, sizeof(createInfo));
	createInfo.sType = VK_STRUCTURE_TYPE_VIDEO_SESSION_CREATE_INFO_KHR;
	createInfo.queueFamilyIndex = queueFamilyIndex;
	createInfo.pVideoProfile = &profile;
	createInfo.pictureFormat = pictureFormat;
	createInfo.maxCodedExtent.width = width;
	createInfo.maxCodedExtent.height = height;
	createInfo.referencePictureFormat = referencePictureFormat;
	createInfo.maxDpbSlots = maxDpbSlots;
	createInfo.maxActiveReferencePictures = maxActiveReferencePictures;
	createInfo.pStdHeaderVersion = stdHeaderVersion;

	return ((PFN_vkCreateVideoSessionKHR)fn)((VkDevice)device, &createInfo, NULL, (VkVideoSessionKHR *)session);
}

static void destroyVideoSession(uintptr_t fn, uintptr_t device, uint64_t session) {
	((PFN_vkDestroyVideoSessionKHR)fn)((VkDevice)device, (VkVideoSessionKHR)session, NULL);
}
*/
import "C"

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/encode-session/encode"
)

var errNullEntryPoint = errors.New("video entry point is null")

// videoDriver calls the video entry points through the addresses the
// extension function loader resolved.
type videoDriver struct{}

func cProfile(profile encode.VideoProfile) C.encodeProfile {
	return C.encodeProfile{
		codecOperation:    C.VkVideoCodecOperationFlagBitsKHR(profile.CodecOperation),
		chromaSubsampling: C.VkVideoChromaSubsamplingFlagsKHR(profile.ChromaSubsampling),
		lumaBitDepth:      C.VkVideoComponentBitDepthFlagsKHR(profile.LumaBitDepth),
		chromaBitDepth:    C.VkVideoComponentBitDepthFlagsKHR(profile.ChromaBitDepth),
		stdProfileIdc:     C.StdVideoH264ProfileIdc(profile.H264ProfileIdc),
	}
}

func goExtent(extent C.VkExtent2D) encode.Extent2D {
	return encode.Extent2D{Width: int(extent.width), Height: int(extent.height)}
}

func (videoDriver) GetPhysicalDeviceVideoCapabilities(fn encode.ProcAddr, device encode.PhysicalDevice, profile encode.VideoProfile) (*encode.VideoCapabilities, encode.Result, error) {
	if fn == 0 {
		return nil, encode.ResultErrorExtensionNotPresent, errNullEntryPoint
	}

	var caps C.encodeCapabilities
	res := encode.Result(C.getVideoCapabilities(C.uintptr_t(fn), C.uintptr_t(device), cProfile(profile), &caps))
	if res != encode.ResultSuccess {
		return nil, res, nil
	}

	return &encode.VideoCapabilities{
		Flags:                             encode.VideoCapabilityFlags(caps.video.flags),
		MinBitstreamBufferOffsetAlignment: uint64(caps.video.minBitstreamBufferOffsetAlignment),
		MinBitstreamBufferSizeAlignment:   uint64(caps.video.minBitstreamBufferSizeAlignment),
		PictureAccessGranularity:          goExtent(caps.video.pictureAccessGranularity),
		MinCodedExtent:                    goExtent(caps.video.minCodedExtent),
		MaxCodedExtent:                    goExtent(caps.video.maxCodedExtent),
		MaxDpbSlots:                       int(caps.video.maxDpbSlots),
		MaxActiveReferencePictures:        int(caps.video.maxActiveReferencePictures),
		StdHeaderVersion: encode.ExtensionProperties{
			ExtensionName: C.GoString(&caps.video.stdHeaderVersion.extensionName[0]),
			SpecVersion:   uint32(caps.video.stdHeaderVersion.specVersion),
		},
		Encode: encode.VideoEncodeCapabilities{
			RateControlModes:              uint32(caps.encode.rateControlModes),
			MaxRateControlLayers:          uint32(caps.encode.maxRateControlLayers),
			MaxBitrate:                    uint64(caps.encode.maxBitrate),
			MaxQualityLevels:              uint32(caps.encode.maxQualityLevels),
			EncodeInputPictureGranularity: goExtent(caps.encode.encodeInputPictureGranularity),
		},
		EncodeH264: encode.VideoEncodeH264Capabilities{
			MaxLevelIdc:                 uint32(caps.h264.maxLevelIdc),
			MaxSliceCount:               uint32(caps.h264.maxSliceCount),
			MaxPPictureL0ReferenceCount: uint32(caps.h264.maxPPictureL0ReferenceCount),
			MaxBPictureL0ReferenceCount: uint32(caps.h264.maxBPictureL0ReferenceCount),
			MaxL1ReferenceCount:         uint32(caps.h264.maxL1ReferenceCount),
			MaxTemporalLayerCount:       uint32(caps.h264.maxTemporalLayerCount),
		},
	}, res, nil
}

func (videoDriver) GetPhysicalDeviceVideoFormatProperties(fn encode.ProcAddr, device encode.PhysicalDevice, profile encode.VideoProfile, usage encode.ImageUsageFlags) ([]encode.VideoFormatProperties, encode.Result, error) {
	if fn == 0 {
		return nil, encode.ResultErrorExtensionNotPresent, errNullEntryPoint
	}

	var count C.uint32_t
	res := encode.Result(C.getVideoFormatProperties(C.uintptr_t(fn), C.uintptr_t(device), cProfile(profile), C.VkImageUsageFlags(usage), &count, nil))
	if res != encode.ResultSuccess || count == 0 {
		return nil, res, nil
	}

	properties := make([]C.VkVideoFormatPropertiesKHR, count)
	res = encode.Result(C.getVideoFormatProperties(C.uintptr_t(fn), C.uintptr_t(device), cProfile(profile), C.VkImageUsageFlags(usage), &count, &properties[0]))
	if res != encode.ResultSuccess && res != encode.ResultIncomplete {
		return nil, res, nil
	}

	formats := make([]encode.VideoFormatProperties, 0, int(count))
	for _, property := range properties[:count] {
		formats = append(formats, encode.VideoFormatProperties{
			Format:          encode.Format(property.format),
			ImageUsageFlags: encode.ImageUsageFlags(property.imageUsageFlags),
		})
	}
	return formats, encode.ResultSuccess, nil
}

func (videoDriver) CreateVideoSession(fn encode.ProcAddr, device encode.Device, info encode.VideoSessionCreateInfo) (encode.VideoSession, encode.Result, error) {
	if fn == 0 {
		return 0, encode.ResultErrorExtensionNotPresent, errNullEntryPoint
	}

	var stdHeaderVersion C.VkExtensionProperties
	name := info.StdHeaderVersion.ExtensionName
	if len(name) >= len(stdHeaderVersion.extensionName) {
		return 0, encode.ResultErrorVideoStdVersionNotSupported, errors.Newf("std header name %q too long", name)
	}
	for i := 0; i < len(name); i++ {
		stdHeaderVersion.extensionName[i] = C.char(name[i])
	}
	stdHeaderVersion.specVersion = C.uint32_t(info.StdHeaderVersion.SpecVersion)

	var session C.uint64_t
	res := encode.Result(C.createVideoSession(
		C.uintptr_t(fn),
		C.uintptr_t(device),
		C.uint32_t(info.QueueFamilyIndex),
		cProfile(info.Profile),
		C.VkFormat(info.PictureFormat),
		C.uint32_t(info.MaxCodedExtent.Width),
		C.uint32_t(info.MaxCodedExtent.Height),
		C.VkFormat(info.ReferencePictureFormat),
		C.uint32_t(info.MaxDpbSlots),
		C.uint32_t(info.MaxActiveReferencePictures),
		&stdHeaderVersion,
		&session,
	))
	if res != encode.ResultSuccess {
		return 0, res, nil
	}
	return encode.VideoSession(session), res, nil
}

func (videoDriver) DestroyVideoSession(fn encode.ProcAddr, device encode.Device, session encode.VideoSession) {
	if fn == 0 || !session.Initialized() {
		return
	}
	C.destroyVideoSession(C.uintptr_t(fn), C.uintptr_t(device), C.uint64_t(session))
}
