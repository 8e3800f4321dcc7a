package intake

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"server/internal/domain"
	"server/internal/domain/jsoncfg"
)

// Request is the partial payload accepted from POST /generate-video,
// before defaulting.
type Request struct {
	ScriptText      string
	AudioURL        string
	VoiceMode       string
	AvatarID        string
	VoiceID         string
	ProductImageURL string
	ProductName     string
	AspectRatio     string
	CaptionsEnabled bool
	VisualStyle     string
	// Locale is the caller's resolved locale (from middleware.LocaleFromContext),
	// used only to title-case a bare product name for the video overlay.
	Locale string
}

// Intake validates and defaults incoming requests, then inserts them as
// pending jobs. It never calls the provider.
type Intake struct {
	Jobs     domain.JobStore
	Defaults jsoncfg.Defaults
}

func New(jobs domain.JobStore, defaults jsoncfg.Defaults) *Intake {
	return &Intake{Jobs: jobs, Defaults: defaults}
}

// Submit fills defaults, validates, and inserts a pending job. Returns the
// new job's id.
func (in *Intake) Submit(ctx context.Context, userID string, req Request) (string, error) {
	if userID == "" {
		return "", fmt.Errorf("%w: x-user-id header is required", domain.ErrValidation)
	}

	body := jsoncfg.RequestJSON{
		ScriptText:      req.ScriptText,
		AudioURL:        req.AudioURL,
		VoiceMode:       jsoncfg.VoiceMode(req.VoiceMode),
		AvatarID:        req.AvatarID,
		VoiceID:         req.VoiceID,
		ProductImageURL: req.ProductImageURL,
		ProductName:     titleCaseProductName(req.ProductName, req.Locale),
		AspectRatio:     req.AspectRatio,
		Captions:        jsoncfg.CaptionConfig{Enabled: req.CaptionsEnabled},
		VisualStyle:     req.VisualStyle,
	}
	body.Normalize(in.Defaults)

	if err := body.Validate(); err != nil {
		return "", fmt.Errorf("%w: %s", domain.ErrValidation, err.Error())
	}

	job := &domain.Job{
		ID:      uuid.NewString(),
		UserID:  userID,
		Request: jsoncfg.MustMarshal(body),
	}
	if err := in.Jobs.Insert(ctx, job); err != nil {
		return "", fmt.Errorf("insert job: %w", err)
	}
	return job.ID, nil
}

// titleCaseProductName locale-aware title-cases a product name typed in
// lowercase (e.g. "id" locale product names picked up via i18n headers),
// so the overlay text doesn't render as-typed shouting or all-lowercase.
func titleCaseProductName(name, locale string) string {
	if name == "" {
		return name
	}
	tag := language.English
	if locale == "id" {
		tag = language.Indonesian
	}
	return cases.Title(tag).String(name)
}
