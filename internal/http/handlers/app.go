package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"server/internal/cache"
	"server/internal/domain"
	"server/internal/domain/jsoncfg"
	"server/internal/infra"
	"server/internal/intake"
	"server/internal/providers/videoprovider"
	"server/internal/storage"
	"server/internal/worker"
)

// App is the shared handler container: a SQL executor plus provider/store
// dependencies injected once at startup, with small json/error response
// helpers rather than a framework-level responder.
type App struct {
	SQL            infra.SQLExecutor
	Jobs           domain.JobStore
	Provider       videoprovider.Provider
	Cache          *cache.CatalogCache
	Storage        *storage.FileStore
	StorageBaseURL string
	Intake         *intake.Intake
	Submit         *worker.SubmitWorker
	Poll           *worker.PollWorker
	Logger         infra.Logger
	Defaults       jsoncfg.Defaults
}

func NewApp(sql infra.SQLExecutor, jobs domain.JobStore, provider videoprovider.Provider, cache *cache.CatalogCache, store *storage.FileStore, storageBaseURL string, in *intake.Intake, submit *worker.SubmitWorker, poll *worker.PollWorker, logger infra.Logger, defaults jsoncfg.Defaults) *App {
	return &App{
		SQL:            sql,
		Jobs:           jobs,
		Provider:       provider,
		Cache:          cache,
		Storage:        store,
		StorageBaseURL: storageBaseURL,
		Intake:         in,
		Submit:         submit,
		Poll:           poll,
		Logger:         logger,
		Defaults:       defaults,
	}
}

// assetURL joins the configured storage base URL with a storage key
// returned by Storage.Write, since that key is not itself fetchable.
func (a *App) assetURL(storageKey string) string {
	if storageKey == "" {
		return ""
	}
	return fmt.Sprintf("%s/%s", strings.TrimRight(a.StorageBaseURL, "/"), strings.TrimLeft(storageKey, "/"))
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, kind, message string) {
	a.json(w, code, map[string]string{"error": kind, "message": message})
}

// currentUserID reads the required x-user-id header.
func (a *App) currentUserID(r *http.Request) string {
	return r.Header.Get("x-user-id")
}

// statusCode maps a domain/videoprovider error into the HTTP status the
// error kind implies.
func statusCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
