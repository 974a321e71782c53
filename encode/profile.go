package encode

import (
	"fmt"
	"math/bits"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3/common"
)

type VideoCodecOperationFlags uint32

const (
	VideoCodecOperationDecodeH264 VideoCodecOperationFlags = 0x00000001
	VideoCodecOperationDecodeH265 VideoCodecOperationFlags = 0x00000002
	VideoCodecOperationEncodeH264 VideoCodecOperationFlags = 0x00010000
	VideoCodecOperationEncodeH265 VideoCodecOperationFlags = 0x00020000
)

var codecOperationMapping = common.NewFlagStringMapping[VideoCodecOperationFlags]()

func (f VideoCodecOperationFlags) String() string {
	return codecOperationMapping.FlagsToString(f)
}

type VideoChromaSubsamplingFlags uint32

const (
	VideoChromaSubsamplingMonochrome VideoChromaSubsamplingFlags = 0x00000001
	VideoChromaSubsampling420        VideoChromaSubsamplingFlags = 0x00000002
	VideoChromaSubsampling422        VideoChromaSubsamplingFlags = 0x00000004
	VideoChromaSubsampling444        VideoChromaSubsamplingFlags = 0x00000008
)

var chromaSubsamplingMapping = common.NewFlagStringMapping[VideoChromaSubsamplingFlags]()

func (f VideoChromaSubsamplingFlags) String() string {
	return chromaSubsamplingMapping.FlagsToString(f)
}

type VideoComponentBitDepthFlags uint32

const (
	VideoComponentBitDepthInvalid VideoComponentBitDepthFlags = 0x00000000
	VideoComponentBitDepth8       VideoComponentBitDepthFlags = 0x00000001
	VideoComponentBitDepth10      VideoComponentBitDepthFlags = 0x00000004
	VideoComponentBitDepth12      VideoComponentBitDepthFlags = 0x00000010
)

var bitDepthMapping = common.NewFlagStringMapping[VideoComponentBitDepthFlags]()

func (f VideoComponentBitDepthFlags) String() string {
	return bitDepthMapping.FlagsToString(f)
}

type VideoCapabilityFlags uint32

const (
	VideoCapabilityProtectedContent        VideoCapabilityFlags = 0x00000001
	VideoCapabilitySeparateReferenceImages VideoCapabilityFlags = 0x00000002
)

var capabilityFlagsMapping = common.NewFlagStringMapping[VideoCapabilityFlags]()

func (f VideoCapabilityFlags) String() string {
	return capabilityFlagsMapping.FlagsToString(f)
}

// H264ProfileIdc mirrors StdVideoH264ProfileIdc.
type H264ProfileIdc uint32

const (
	H264ProfileIdcBaseline          H264ProfileIdc = 66
	H264ProfileIdcMain              H264ProfileIdc = 77
	H264ProfileIdcHigh              H264ProfileIdc = 100
	H264ProfileIdcHigh444Predictive H264ProfileIdc = 244
)

func (p H264ProfileIdc) String() string {
	switch p {
	case H264ProfileIdcBaseline:
		return "Baseline"
	case H264ProfileIdcMain:
		return "Main"
	case H264ProfileIdcHigh:
		return "High"
	case H264ProfileIdcHigh444Predictive:
		return "High 4:4:4 Predictive"
	}
	return fmt.Sprintf("H264ProfileIdc(%d)", uint32(p))
}

// VideoProfile describes a coding configuration. It is a plain value: the same
// value keys the capability query and parameterizes session creation.
type VideoProfile struct {
	CodecOperation    VideoCodecOperationFlags
	ChromaSubsampling VideoChromaSubsamplingFlags
	LumaBitDepth      VideoComponentBitDepthFlags
	ChromaBitDepth    VideoComponentBitDepthFlags
	H264ProfileIdc    H264ProfileIdc
}

func DefaultVideoProfile() VideoProfile {
	return VideoProfile{
		CodecOperation:    VideoCodecOperationEncodeH264,
		ChromaSubsampling: VideoChromaSubsampling420,
		LumaBitDepth:      VideoComponentBitDepth8,
		ChromaBitDepth:    VideoComponentBitDepth8,
		H264ProfileIdc:    H264ProfileIdcMain,
	}
}

// Validate checks that each field names exactly one bit, as a profile must
// describe a single configuration rather than a set of them.
func (p VideoProfile) Validate() error {
	if bits.OnesCount32(uint32(p.CodecOperation)) != 1 {
		return errors.Newf("video profile: codec operation %s must be a single operation", p.CodecOperation)
	}
	if p.CodecOperation != VideoCodecOperationEncodeH264 {
		return errors.Newf("video profile: codec operation %s is not an H.264 encode operation", p.CodecOperation)
	}
	if bits.OnesCount32(uint32(p.ChromaSubsampling)) != 1 {
		return errors.Newf("video profile: chroma subsampling %s must be a single value", p.ChromaSubsampling)
	}
	if bits.OnesCount32(uint32(p.LumaBitDepth)) != 1 {
		return errors.Newf("video profile: luma bit depth %s must be a single value", p.LumaBitDepth)
	}
	if p.ChromaSubsampling == VideoChromaSubsamplingMonochrome {
		if p.ChromaBitDepth != VideoComponentBitDepthInvalid {
			return errors.Newf("video profile: monochrome profile has chroma bit depth %s", p.ChromaBitDepth)
		}
	} else if bits.OnesCount32(uint32(p.ChromaBitDepth)) != 1 {
		return errors.Newf("video profile: chroma bit depth %s must be a single value", p.ChromaBitDepth)
	}
	return nil
}

func (p VideoProfile) String() string {
	return fmt.Sprintf("%s %s luma=%s chroma=%s profile=%s",
		p.CodecOperation, p.ChromaSubsampling, p.LumaBitDepth, p.ChromaBitDepth, p.H264ProfileIdc)
}

type VideoEncodeCapabilities struct {
	RateControlModes              uint32
	MaxRateControlLayers          uint32
	MaxBitrate                    uint64
	MaxQualityLevels              uint32
	EncodeInputPictureGranularity Extent2D
}

type VideoEncodeH264Capabilities struct {
	MaxLevelIdc                 uint32
	MaxSliceCount               uint32
	MaxPPictureL0ReferenceCount uint32
	MaxBPictureL0ReferenceCount uint32
	MaxL1ReferenceCount         uint32
	MaxTemporalLayerCount       uint32
}

// VideoCapabilities is the driver's answer for one VideoProfile.
type VideoCapabilities struct {
	Flags                             VideoCapabilityFlags
	MinBitstreamBufferOffsetAlignment uint64
	MinBitstreamBufferSizeAlignment   uint64
	PictureAccessGranularity          Extent2D
	MinCodedExtent                    Extent2D
	MaxCodedExtent                    Extent2D
	MaxDpbSlots                       int
	MaxActiveReferencePictures        int
	StdHeaderVersion                  ExtensionProperties

	Encode     VideoEncodeCapabilities
	EncodeH264 VideoEncodeH264Capabilities
}

type VideoFormatProperties struct {
	Format          Format
	ImageUsageFlags ImageUsageFlags
}

type VideoSessionCreateInfo struct {
	QueueFamilyIndex           int
	Profile                    VideoProfile
	PictureFormat              Format
	MaxCodedExtent             Extent2D
	ReferencePictureFormat     Format
	MaxDpbSlots                int
	MaxActiveReferencePictures int
	StdHeaderVersion           ExtensionProperties
}

func init() {
	codecOperationMapping.Register(VideoCodecOperationDecodeH264, "DecodeH264")
	codecOperationMapping.Register(VideoCodecOperationDecodeH265, "DecodeH265")
	codecOperationMapping.Register(VideoCodecOperationEncodeH264, "EncodeH264")
	codecOperationMapping.Register(VideoCodecOperationEncodeH265, "EncodeH265")

	chromaSubsamplingMapping.Register(VideoChromaSubsamplingMonochrome, "Monochrome")
	chromaSubsamplingMapping.Register(VideoChromaSubsampling420, "4:2:0")
	chromaSubsamplingMapping.Register(VideoChromaSubsampling422, "4:2:2")
	chromaSubsamplingMapping.Register(VideoChromaSubsampling444, "4:4:4")

	bitDepthMapping.Register(VideoComponentBitDepth8, "8-bit")
	bitDepthMapping.Register(VideoComponentBitDepth10, "10-bit")
	bitDepthMapping.Register(VideoComponentBitDepth12, "12-bit")

	capabilityFlagsMapping.Register(VideoCapabilityProtectedContent, "ProtectedContent")
	capabilityFlagsMapping.Register(VideoCapabilitySeparateReferenceImages, "SeparateReferenceImages")
}
