package handlers

import (
	"encoding/json"
	"net/http"

	"server/internal/intake"
	"server/internal/middleware"
)

type generateVideoRequest struct {
	ScriptText      string `json:"scriptText"`
	AudioURL        string `json:"audioUrl"`
	VoiceMode       string `json:"voiceMode"`
	AvatarID        string `json:"avatarId"`
	VoiceID         string `json:"voiceId"`
	ProductImageURL string `json:"productImageUrl"`
	ProductName     string `json:"productName"`
	AspectRatio     string `json:"aspectRatio"`
	CaptionsEnabled bool   `json:"captionsEnabled"`
	VisualStyle     string `json:"visualStyle"`
}

// GenerateVideo handles POST /generate-video.
func (a *App) GenerateVideo(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)

	var body generateVideoRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		a.error(w, http.StatusBadRequest, "invalid_body", "request body must be valid JSON")
		return
	}

	jobID, err := a.Intake.Submit(r.Context(), userID, intake.Request{
		ScriptText:      body.ScriptText,
		AudioURL:        body.AudioURL,
		VoiceMode:       body.VoiceMode,
		AvatarID:        body.AvatarID,
		VoiceID:         body.VoiceID,
		ProductImageURL: body.ProductImageURL,
		ProductName:     body.ProductName,
		AspectRatio:     body.AspectRatio,
		CaptionsEnabled: body.CaptionsEnabled,
		VisualStyle:     body.VisualStyle,
		Locale:          middleware.LocaleFromContext(r.Context()),
	})
	if err != nil {
		a.error(w, statusCode(err), "invalid_request", err.Error())
		return
	}

	a.json(w, http.StatusCreated, map[string]string{"jobId": jobID, "status": "pending"})
}
