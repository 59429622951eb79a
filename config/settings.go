package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Settings holds the per-deployment render options. Values come from the
// environment (a .env file is loaded by the entry points).
type Settings struct {
	// Opacity of caption clips; nil means fully opaque
	Opacity *float64
	// Transition is the crossfade length of caption clips; nil means none
	Transition *float64

	Theme   string `validate:"required"`
	CSSPath string

	CaptionRenderWidth int `validate:"gt=0"`
	CaptionMaxWidth    int `validate:"gt=0,lte=1080"`
	CaptionRightMargin int `validate:"gte=0"`

	LogoFadeIn *float64

	AnimationWidth       int    `validate:"gte=0"`
	AnimationRightMargin int    `validate:"gte=0"`
	AnimationPlacement   string `validate:"required"`

	ChromaKeyColor     [3]uint8
	ChromaKeyThreshold float64 `validate:"gte=0"`
	ChromaKeySoftness  float64 `validate:"gt=0"`

	// PostLang is the optional target language for output filenames
	PostLang  string
	Subreddit string `validate:"required"`

	TempDir    string `validate:"required"`
	ResultsDir string `validate:"required"`
	Threads    int    `validate:"gt=0"`
}

var validate = validator.New()

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		Theme:              "dark",
		CaptionRenderWidth: DefaultCaptionRenderWidth,
		CaptionMaxWidth:    DefaultCaptionMaxWidth,
		AnimationPlacement: DefaultAnimationPlacement,
		ChromaKeyColor:     DefaultChromaKeyColor,
		ChromaKeyThreshold: DefaultChromaKeyThreshold,
		ChromaKeySoftness:  DefaultChromaKeySoftness,
		Subreddit:          "AskReddit",
		TempDir:            TempDir,
		ResultsDir:         ResultsDir,
		Threads:            runtime.NumCPU(),
	}
}

// LoadSettings reads settings from environment variables, falling back to
// DefaultSettings for anything unset.
//
// Recognized: OPACITY, TRANSITION, THEME, CAPTION_CSS, CAPTION_RENDER_WIDTH,
// CAPTION_MAX_WIDTH, CAPTION_RIGHT_MARGIN, LOGO_FADE_IN, ANIMATION_WIDTH,
// ANIMATION_RIGHT_MARGIN, ANIMATION_PLACEMENT, CHROMA_KEY_COLOR,
// CHROMA_KEY_THRESHOLD, CHROMA_KEY_SOFTNESS, POST_LANG, SUBREDDIT,
// TEMP_DIR, RESULTS_DIR, RENDER_THREADS
func LoadSettings() (Settings, error) {
	s := DefaultSettings()
	var err error

	if s.Opacity, err = envFloatPtr("OPACITY"); err != nil {
		return s, err
	}
	if s.Transition, err = envFloatPtr("TRANSITION"); err != nil {
		return s, err
	}
	if s.LogoFadeIn, err = envFloatPtr("LOGO_FADE_IN"); err != nil {
		return s, err
	}

	s.Theme = envString("THEME", s.Theme)
	s.CSSPath = envString("CAPTION_CSS", "")
	s.AnimationPlacement = strings.ToLower(envString("ANIMATION_PLACEMENT", s.AnimationPlacement))
	s.PostLang = envString("POST_LANG", "")
	s.Subreddit = envString("SUBREDDIT", s.Subreddit)
	s.TempDir = envString("TEMP_DIR", s.TempDir)
	s.ResultsDir = envString("RESULTS_DIR", s.ResultsDir)

	ints := []struct {
		key string
		dst *int
	}{
		{"CAPTION_RENDER_WIDTH", &s.CaptionRenderWidth},
		{"CAPTION_MAX_WIDTH", &s.CaptionMaxWidth},
		{"CAPTION_RIGHT_MARGIN", &s.CaptionRightMargin},
		{"ANIMATION_WIDTH", &s.AnimationWidth},
		{"ANIMATION_RIGHT_MARGIN", &s.AnimationRightMargin},
		{"RENDER_THREADS", &s.Threads},
	}
	for _, i := range ints {
		if v := strings.TrimSpace(os.Getenv(i.key)); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return s, fmt.Errorf("invalid %s %q: %w", i.key, v, err)
			}
			*i.dst = n
		}
	}

	if v := strings.TrimSpace(os.Getenv("CHROMA_KEY_COLOR")); v != "" {
		c, err := ParseRGB(v)
		if err != nil {
			return s, fmt.Errorf("invalid CHROMA_KEY_COLOR: %w", err)
		}
		s.ChromaKeyColor = c
	}
	if v := strings.TrimSpace(os.Getenv("CHROMA_KEY_THRESHOLD")); v != "" {
		if s.ChromaKeyThreshold, err = strconv.ParseFloat(v, 64); err != nil {
			return s, fmt.Errorf("invalid CHROMA_KEY_THRESHOLD %q: %w", v, err)
		}
	}
	if v := strings.TrimSpace(os.Getenv("CHROMA_KEY_SOFTNESS")); v != "" {
		if s.ChromaKeySoftness, err = strconv.ParseFloat(v, 64); err != nil {
			return s, fmt.Errorf("invalid CHROMA_KEY_SOFTNESS %q: %w", v, err)
		}
	}

	return s, s.Validate()
}

// Validate checks the settings against their field constraints.
func (s Settings) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	return nil
}

// CaptionCSS resolves the caption style sheet: an explicit path wins,
// otherwise the theme selects dark or light.
func (s Settings) CaptionCSS() string {
	if s.CSSPath != "" {
		return s.CSSPath
	}
	if s.Theme == "dark" {
		return filepath.Join(CSSDir, "dark.css")
	}
	return filepath.Join(CSSDir, "light.css")
}

// ParseRGB parses "r,g,b" into a color triple.
func ParseRGB(v string) ([3]uint8, error) {
	var out [3]uint8
	parts := strings.Split(v, ",")
	if len(parts) != 3 {
		return out, fmt.Errorf("expected r,g,b, got %q", v)
	}
	for i, p := range parts {
		n, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
		if err != nil {
			return out, fmt.Errorf("component %d: %w", i, err)
		}
		out[i] = uint8(n)
	}
	return out, nil
}

func envString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envFloatPtr(key string) (*float64, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return &f, nil
}
