package videoprovider

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"server/internal/infra"
)

// Options configures a Client. An empty APIKey is not an error, it switches
// the client into deterministic synthetic-response mode so the workers stay
// fully exercisable in development and in tests without live credentials.
type Options struct {
	BaseURL    string
	APIKey     string
	APIID      string
	HTTPClient *http.Client
	Logger     infra.Logger
	// RequestsPerSecond paces outbound calls client-side as a courtesy
	// limiter. The authoritative limit stays the Postgres row.
	RequestsPerSecond float64
}

type Client struct {
	baseURL    string
	apiKey     string
	apiID      string
	httpClient *http.Client
	logger     infra.Logger
	limiter    *rate.Limiter
}

func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 20 * time.Second}
	}
	rps := opts.RequestsPerSecond
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		apiKey:     opts.APIKey,
		apiID:      opts.APIID,
		httpClient: httpClient,
		logger:     opts.Logger,
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
	}
}

func (c *Client) Configured() bool { return c.apiKey != "" }

func (c *Client) CreateJob(ctx context.Context, req VideoRequest) (CreateResult, error) {
	if !c.Configured() {
		return c.syntheticCreate(req), nil
	}

	payload := map[string]any{
		"aspect_ratio":      formatAspectRatio(req.AspectRatio),
		"avatar_id":         req.AvatarID,
		"product_name":      req.ProductName,
		"product_image_url": req.ProductImageURL,
		"caption": map[string]any{
			"enabled": req.CaptionsEnabled,
			"style":   req.CaptionStyle,
		},
		"visual_style": req.VisualStyle,
	}
	if req.VoiceMode == "user_audio" && req.AudioURL != "" {
		payload["audio"] = req.AudioURL
	} else {
		payload["text"] = req.ScriptText
		if req.Accent != "" {
			payload["accent"] = req.Accent
		}
		payload["voice_id"] = req.VoiceID
	}

	var out struct {
		JobID  string `json:"job_id"`
		Status string `json:"status"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/v1/videos", payload, &out); err != nil {
		return CreateResult{}, err
	}
	return CreateResult{ProviderJobID: out.JobID, Status: normalizeStatus(out.Status)}, nil
}

func (c *Client) CheckJobStatus(ctx context.Context, providerJobID string) (StatusResult, error) {
	if !c.Configured() {
		return c.syntheticStatus(providerJobID), nil
	}

	var out struct {
		Status       string `json:"status"`
		VideoURL     string `json:"video_url"`
		ThumbnailURL string `json:"thumbnail_url"`
		CreditsUsed  int    `json:"credits_used"`
		ErrorMessage string `json:"error_message"`
		Progress     int    `json:"progress"`
	}
	path := fmt.Sprintf("/v1/videos/%s", providerJobID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return StatusResult{}, err
	}
	return StatusResult{
		Status:       normalizeStatus(out.Status),
		VideoURL:     out.VideoURL,
		ThumbnailURL: out.ThumbnailURL,
		CreditsUsed:  out.CreditsUsed,
		ErrorMessage: out.ErrorMessage,
		Progress:     out.Progress,
	}, nil
}

func (c *Client) ListAvatars(ctx context.Context) ([]Avatar, error) {
	if !c.Configured() {
		return syntheticAvatars(), nil
	}
	var out struct {
		Avatars []Avatar `json:"avatars"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/v1/avatars", nil, &out); err != nil {
		return nil, err
	}
	return out.Avatars, nil
}

func (c *Client) ListVoices(ctx context.Context) ([]Voice, error) {
	if !c.Configured() {
		return syntheticVoices(), nil
	}
	var out struct {
		Voices []struct {
			ID      string `json:"id"`
			Name    string `json:"name"`
			Gender  string `json:"gender"`
			Accents []struct {
				ID         string `json:"id"`
				Name       string `json:"name"`
				PreviewURL string `json:"preview_url"`
			} `json:"accents"`
		} `json:"voices"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/v1/voices", nil, &out); err != nil {
		return nil, err
	}
	var voices []Voice
	for _, v := range out.Voices {
		for _, a := range v.Accents {
			voices = append(voices, Voice{
				ID:         a.ID,
				Name:       v.Name,
				Gender:     v.Gender,
				AccentName: a.Name,
				PreviewURL: a.PreviewURL,
			})
		}
	}
	return voices, nil
}

func (c *Client) GetCreditBalance(ctx context.Context) (CreditBalance, error) {
	if !c.Configured() {
		return CreditBalance{Credits: 1000}, nil
	}
	var out CreditBalance
	if err := c.doJSON(ctx, http.MethodGet, "/v1/credits", nil, &out); err != nil {
		return CreditBalance{}, err
	}
	return out, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body any, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &TransientError{Cause: err}
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if c.apiID != "" {
		req.Header.Set("X-Api-Id", c.apiID)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransientError{Cause: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		retryAfter, _ := strconv.Atoi(resp.Header.Get("Retry-After"))
		return &RateLimitedError{RetryAfterSeconds: retryAfter}
	case resp.StatusCode >= 500:
		return &TransientError{Cause: fmt.Errorf("provider returned %d", resp.StatusCode)}
	case resp.StatusCode >= 400:
		msg, _ := io.ReadAll(resp.Body)
		return &FatalError{Message: strings.TrimSpace(string(msg))}
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// syntheticCreate deterministically derives a provider job id from the
// request so repeated calls in tests/dev are reproducible.
func (c *Client) syntheticCreate(req VideoRequest) CreateResult {
	return CreateResult{ProviderJobID: "synthetic-" + shortHash(req.ScriptText+req.AudioURL+req.AvatarID+req.ProductImageURL), Status: "queued"}
}

func (c *Client) syntheticStatus(providerJobID string) StatusResult {
	return StatusResult{
		Status:       "completed",
		VideoURL:     "https://synthetic.local/videos/" + providerJobID + ".mp4",
		ThumbnailURL: "https://synthetic.local/thumbnails/" + providerJobID + ".jpg",
		CreditsUsed:  5,
	}
}

func syntheticAvatars() []Avatar {
	return []Avatar{
		{ID: "avatar-default", Name: "Default Presenter", Gender: "unspecified"},
		{ID: "avatar-casual", Name: "Casual Presenter", Gender: "unspecified"},
	}
}

func syntheticVoices() []Voice {
	return []Voice{
		{ID: "voice-default-en", Name: "Default Voice", AccentName: "American"},
		{ID: "voice-default-en-gb", Name: "Default Voice", AccentName: "British"},
	}
}

func shortHash(s string) string {
	sum := sha1.Sum([]byte(s))
	return hex.EncodeToString(sum[:])[:12]
}

var _ Provider = (*Client)(nil)
