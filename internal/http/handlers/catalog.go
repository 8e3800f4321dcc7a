package handlers

import (
	"net/http"

	"server/internal/providers/videoprovider"
)

const (
	cacheKeyAvatars = "catalog:avatars"
	cacheKeyVoices  = "catalog:voices"
	cacheKeyCredits = "catalog:credit-balance"
)

// ListAvatars handles GET /list-avatars, a cacheable pass-through to the
// provider, with the response cached server-side.
func (a *App) ListAvatars(w http.ResponseWriter, r *http.Request) {
	var avatars []videoprovider.Avatar
	if a.Cache.Get(r.Context(), cacheKeyAvatars, &avatars) {
		a.json(w, http.StatusOK, map[string]any{"avatars": avatars})
		return
	}

	avatars, err := a.Provider.ListAvatars(r.Context())
	if err != nil {
		a.error(w, http.StatusInternalServerError, "provider_error", err.Error())
		return
	}
	a.Cache.Set(r.Context(), cacheKeyAvatars, avatars)
	a.json(w, http.StatusOK, map[string]any{"avatars": avatars})
}

// ListVoices handles GET /list-voices.
func (a *App) ListVoices(w http.ResponseWriter, r *http.Request) {
	var voices []videoprovider.Voice
	if a.Cache.Get(r.Context(), cacheKeyVoices, &voices) {
		a.json(w, http.StatusOK, map[string]any{"voices": voices})
		return
	}

	voices, err := a.Provider.ListVoices(r.Context())
	if err != nil {
		a.error(w, http.StatusInternalServerError, "provider_error", err.Error())
		return
	}
	a.Cache.Set(r.Context(), cacheKeyVoices, voices)
	a.json(w, http.StatusOK, map[string]any{"voices": voices})
}

// CreditBalance handles GET /credit-balance.
func (a *App) CreditBalance(w http.ResponseWriter, r *http.Request) {
	var balance videoprovider.CreditBalance
	if a.Cache.Get(r.Context(), cacheKeyCredits, &balance) {
		a.json(w, http.StatusOK, balance)
		return
	}

	balance, err := a.Provider.GetCreditBalance(r.Context())
	if err != nil {
		a.error(w, http.StatusInternalServerError, "provider_error", err.Error())
		return
	}
	a.Cache.Set(r.Context(), cacheKeyCredits, balance)
	a.json(w, http.StatusOK, balance)
}
