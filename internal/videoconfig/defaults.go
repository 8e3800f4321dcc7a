package videoconfig

import (
	"os"

	"server/internal/domain/jsoncfg"
)

// Defaults returns the intake defaulting set, read from environment
// variables with sensible fallbacks. Kept as a small dedicated config
// surface separate from infra.Config since these are business defaults,
// not infrastructure.
func Defaults() jsoncfg.Defaults {
	return jsoncfg.Defaults{
		AvatarID:        getEnv("DEFAULT_AVATAR_ID", "avatar-default"),
		VoiceID:         getEnv("DEFAULT_VOICE_ID", "voice-default-en"),
		ScriptText:      getEnv("DEFAULT_SCRIPT_TEXT", "Check out our latest product."),
		ProductImageURL: getEnv("DEFAULT_PRODUCT_IMAGE_URL", "https://cdn.example.com/placeholder-product.png"),
		AspectRatio:     getEnv("DEFAULT_ASPECT_RATIO", jsoncfg.DefaultAspectRatio),
		CaptionsEnabled: getEnvBool("DEFAULT_CAPTIONS_ENABLED", true),
		CaptionStyle:    getEnv("DEFAULT_CAPTION_STYLE", jsoncfg.DefaultCaptionStyle),
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	return v == "1" || v == "true"
}
