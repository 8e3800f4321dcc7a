package handlers

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// maxProductImageBytes bounds the decoded payload: a request whose
// decoded body exceeds this is rejected with 413 rather than persisted.
const maxProductImageBytes = 5 * 1024 * 1024

type uploadProductImageRequest struct {
	Base64   string `json:"base64"`
	MimeType string `json:"mimeType"`
}

func extensionForMimeType(mimeType string) string {
	switch mimeType {
	case "image/png":
		return "png"
	default:
		return "jpg"
	}
}

// UploadProductImage handles POST /upload-product-image. The key
// layout groups uploads by user and disambiguates same-second uploads with
// a random suffix.
func (a *App) UploadProductImage(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusBadRequest, "missing_user_id", "x-user-id header is required")
		return
	}

	var body uploadProductImageRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		a.error(w, http.StatusBadRequest, "invalid_body", "request body must be valid JSON")
		return
	}
	if body.Base64 == "" {
		a.error(w, http.StatusBadRequest, "missing_image", "base64 image data is required")
		return
	}

	data, err := base64.StdEncoding.DecodeString(body.Base64)
	if err != nil {
		a.error(w, http.StatusBadRequest, "invalid_image", "base64 payload could not be decoded")
		return
	}
	if len(data) > maxProductImageBytes {
		a.error(w, http.StatusRequestEntityTooLarge, "image_too_large", "product image exceeds the 5MiB limit")
		return
	}

	suffix := make([]byte, 4)
	if _, err := rand.Read(suffix); err != nil {
		a.error(w, http.StatusInternalServerError, "upload_failed", "failed to generate a storage key")
		return
	}
	key := fmt.Sprintf("%s/%s-%s.%s",
		userID,
		strconv.FormatInt(time.Now().Unix(), 10),
		hex.EncodeToString(suffix),
		extensionForMimeType(body.MimeType),
	)

	stored, err := a.Storage.Write(r.Context(), key, data)
	if err != nil {
		a.error(w, http.StatusInternalServerError, "upload_failed", err.Error())
		return
	}

	a.json(w, http.StatusCreated, map[string]string{"url": a.assetURL(stored)})
}
