package handlers

import "net/http"

// Health reports {status, env:{providerConfigured, storeConfigured}}.
func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]any{
		"status": "ok",
		"env": map[string]bool{
			"providerConfigured": a.Provider != nil && a.Provider.Configured(),
			"storeConfigured":    a.Storage != nil,
		},
	})
}
