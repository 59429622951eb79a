package config

import "time"

// Canvas Constants
const (
	// VideoWidth is the output canvas width (9:16 aspect ratio)
	VideoWidth = 1080

	// VideoHeight is the output canvas height (9:16 aspect ratio)
	VideoHeight = 1920
)

// Video Output Constants
const (
	// FrameRate is the encoded output frame rate
	FrameRate = 30

	// VideoCodec is the video encoding codec
	VideoCodec = "libx264"

	// AudioCodec is the audio encoding codec
	AudioCodec = "aac"

	// AudioBitrate is the audio quality bitrate
	AudioBitrate = "192k"

	// VideoPreset is the ffmpeg encoding speed preset
	VideoPreset = "fast"
)

// Caption Constants
const (
	// DefaultCaptionRenderWidth is the crop width handed to the caption rasterizer
	DefaultCaptionRenderWidth = 480

	// DefaultCaptionMaxWidth is the on-screen width captions and the title are fitted to
	DefaultCaptionMaxWidth = VideoWidth - 100

	// MaxTransition is the longest crossfade or overlay fade in seconds
	MaxTransition = 2.0
)

// Overlay Constants
const (
	// LogoHeight is the height the logo is fitted to
	LogoHeight = 400

	// LogoTopMargin is the transparent padding above the logo
	LogoTopMargin = 300

	// AnimationBottomMargin is the transparent padding below the animation
	AnimationBottomMargin = 300

	// DefaultAnimationPlacement is used when no placement is configured
	DefaultAnimationPlacement = "end"
)

// Chroma Key Constants
var (
	// DefaultChromaKeyColor is the green backdrop of the bundled animation
	DefaultChromaKeyColor = [3]uint8{64, 222, 0}
)

const (
	// DefaultChromaKeyThreshold is the RGB distance at which a pixel is half transparent
	DefaultChromaKeyThreshold = 150.0

	// DefaultChromaKeySoftness is the steepness of the transparency ramp
	DefaultChromaKeySoftness = 5.0
)

// Naming Constants
const (
	// MaxFilenameLength caps the generated output name in bytes, extension
	// excluded, so the full name fits the usual 255-byte filename limit
	MaxFilenameLength = 251
)

// Directory Constants
const (
	// TempDir holds per-content working assets
	TempDir = "assets/temp"

	// ResultsDir holds finished videos grouped by subreddit
	ResultsDir = "results"

	// BackgroundsDir holds the background loop files
	BackgroundsDir = "assets/backgrounds"

	// CSSDir holds caption style sheets
	CSSDir = "assets/css"

	// InputDir is the directory scanned for render request JSON files
	InputDir = "input"

	// VideoLogPath is where the JSON metadata log is kept when Redis is not configured
	VideoLogPath = "video_creation/data/videos.json"
)

// Processing Constants
const (
	// MaxConcurrentVideos limits the number of jobs rendered simultaneously
	MaxConcurrentVideos = 2

	// VideoBatchDelay is the wait time between starting batch jobs
	VideoBatchDelay = 2 * time.Second
)

// YouTube Constants
const (
	// YouTubeCategoryID for Entertainment
	YouTubeCategoryID = "24"

	// YouTubePrivacyStatus sets video visibility
	YouTubePrivacyStatus = "private"
)
