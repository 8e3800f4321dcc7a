package jsoncfg

import (
	"encoding/json"
	"fmt"
	"strings"
)

// VoiceMode selects whether narration comes from text-to-speech or an
// uploaded audio track.
type VoiceMode string

const (
	VoiceModeTTS       VoiceMode = "tts"
	VoiceModeUserAudio VoiceMode = "user_audio"
)

// CaptionConfig controls whether burned-in captions are rendered and how.
type CaptionConfig struct {
	Enabled bool   `json:"enabled"`
	Style   string `json:"style"`
}

// RequestJSON is the canonical, storable snapshot of a render request. It is
// persisted verbatim as the job's request payload and re-read by the submit
// worker when it dispatches to the provider.
type RequestJSON struct {
	Version         string        `json:"version"`
	ScriptText      string        `json:"script_text"`
	AudioURL        string        `json:"audio_url"`
	VoiceMode       VoiceMode     `json:"voice_mode"`
	AvatarID        string        `json:"avatar_id"`
	VoiceID         string        `json:"voice_id"`
	ProductImageURL string        `json:"product_image_url"`
	ProductName     string        `json:"product_name"`
	AspectRatio     string        `json:"aspect_ratio"`
	Captions        CaptionConfig `json:"captions"`
	VisualStyle     string        `json:"visual_style"`
}

var allowedAspectRatios = map[string]struct{}{
	"9:16": {},
	"1:1":  {},
	"16:9": {},
}

const (
	// DefaultRequestVersion is the schema version stamped onto stored requests.
	DefaultRequestVersion = "2024-01"
	// DefaultAspectRatio is used when the request omits an aspect ratio.
	DefaultAspectRatio = "9:16"
	// DefaultCaptionStyle is applied when captions are enabled without an explicit style.
	DefaultCaptionStyle = "bold-center"
)

// Defaults carries the intake-configured fallback values that Normalize
// applies when a caller omits a field. Populated from videoconfig.Config.
type Defaults struct {
	AvatarID        string
	VoiceID         string
	ScriptText      string
	ProductImageURL string
	AspectRatio     string
	CaptionsEnabled bool
	CaptionStyle    string
}

// Normalize fills in missing fields from the configured defaults. It never
// overwrites a non-empty value the caller already supplied. Captions.Enabled
// is a plain bool, so false counts as missing: when the defaults enable
// captions, a request cannot turn them off.
func (r *RequestJSON) Normalize(d Defaults) {
	if r == nil {
		return
	}
	if r.Version == "" {
		r.Version = DefaultRequestVersion
	}
	if r.VoiceMode == "" {
		r.VoiceMode = VoiceModeTTS
	}
	if r.AvatarID == "" {
		r.AvatarID = d.AvatarID
	}
	if r.VoiceID == "" {
		r.VoiceID = d.VoiceID
	}
	if r.VoiceMode == VoiceModeTTS && r.ScriptText == "" {
		r.ScriptText = d.ScriptText
	}
	if r.ProductImageURL == "" {
		r.ProductImageURL = d.ProductImageURL
	}
	if r.AspectRatio == "" {
		aspect := d.AspectRatio
		if aspect == "" {
			aspect = DefaultAspectRatio
		}
		r.AspectRatio = aspect
	}
	if !r.Captions.Enabled && d.CaptionsEnabled {
		r.Captions.Enabled = true
	}
	if r.Captions.Enabled && r.Captions.Style == "" {
		style := d.CaptionStyle
		if style == "" {
			style = DefaultCaptionStyle
		}
		r.Captions.Style = style
	}
}

// Validate enforces the voice-mode input contract from intake:
// scriptText is required for tts, audioUrl is required for user_audio.
func (r RequestJSON) Validate() error {
	switch r.VoiceMode {
	case VoiceModeTTS:
		if strings.TrimSpace(r.ScriptText) == "" {
			return fmt.Errorf("script_text is required when voice_mode is tts")
		}
	case VoiceModeUserAudio:
		if strings.TrimSpace(r.AudioURL) == "" {
			return fmt.Errorf("audio_url is required when voice_mode is user_audio")
		}
	default:
		return fmt.Errorf("voice_mode must be one of tts, user_audio")
	}
	if r.AspectRatio != "" {
		if _, ok := allowedAspectRatios[r.AspectRatio]; !ok {
			return fmt.Errorf("aspect_ratio must be one of 9:16, 1:1, 16:9")
		}
	}
	return nil
}

// MustMarshal marshals v to JSON, panicking on failure. It exists for call
// sites building request snapshots from already-validated, in-memory data
// where a marshal error would indicate a programming bug rather than bad
// input.
func MustMarshal(v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Errorf("json marshal: %w", err))
	}
	return b
}
