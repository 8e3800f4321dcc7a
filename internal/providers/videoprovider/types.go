package videoprovider

// VideoRequest is the render specification passed to createJob, decoded
// from a job's stored request_json (jsoncfg.RequestJSON).
type VideoRequest struct {
	ScriptText      string
	AudioURL        string
	VoiceMode       string
	AvatarID        string
	VoiceID         string
	ProductImageURL string
	ProductName     string
	AspectRatio     string
	CaptionsEnabled bool
	CaptionStyle    string
	VisualStyle     string
	Accent          string
}

// CreateResult is createJob's return value.
type CreateResult struct {
	ProviderJobID string
	Status        string
}

// StatusResult is checkJobStatus's return value. Optional fields are zero
// when the provider hasn't reported them yet.
type StatusResult struct {
	Status       string
	VideoURL     string
	ThumbnailURL string
	CreditsUsed  int
	ErrorMessage string
	Progress     int
}

// Avatar is one entry from listAvatars.
type Avatar struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Gender     string `json:"gender,omitempty"`
	PreviewURL string `json:"previewUrl,omitempty"`
}

// Voice is one flattened (voice, accent) pair from listVoices, whose ID is
// the accent id.
type Voice struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Gender     string `json:"gender,omitempty"`
	AccentName string `json:"accentName,omitempty"`
	PreviewURL string `json:"previewUrl,omitempty"`
}

// CreditBalance is the pass-through response for GET /credit-balance.
type CreditBalance struct {
	Credits int `json:"credits"`
}
