package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"server/internal/http/handlers"
	"server/internal/infra"
	"server/internal/infra/geoip"
	"server/internal/middleware"
)

// NewRouter builds the HTTP surface, layering chi's standard middleware
// chain under CORS, i18n, and rate-limit middleware.
func NewRouter(app *handlers.App, cfg *infra.Config, countryLookup geoip.CountryResolver) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(app.Logger))
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))

	var lookup middleware.CountryLookup
	if countryLookup != nil {
		lookup = countryLookup.CountryCode
	}
	r.Use(middleware.I18N(cfg.DefaultLocale, lookup))

	r.Get("/health", app.Health)

	r.Group(func(pub chi.Router) {
		pub.Use(middleware.RateLimit(cfg.PublicRateLimitPerMin, time.Minute))

		pub.Post("/generate-video", app.GenerateVideo)
		pub.Post("/job-status", app.JobStatus)
		pub.Get("/jobs/{id}", app.GetJob)
		pub.Post("/list-jobs", app.ListJobs)
		pub.Get("/list-avatars", app.ListAvatars)
		pub.Get("/list-voices", app.ListVoices)
		pub.Get("/credit-balance", app.CreditBalance)
		pub.Post("/upload-product-image", app.UploadProductImage)
	})

	r.Post("/submit-worker", app.SubmitWorkerTick)
	r.Post("/poll-worker", app.PollWorkerTick)

	return r
}
