package handlers

import "net/http"

// SubmitWorkerTick handles POST /submit-worker, the HTTP-triggered framing
// of the submit cron job, for schedulers that invoke
// endpoints rather than binaries.
func (a *App) SubmitWorkerTick(w http.ResponseWriter, r *http.Request) {
	result, err := a.Submit.Run(r.Context())
	if err != nil {
		a.error(w, http.StatusInternalServerError, "submit_worker_failed", err.Error())
		return
	}
	a.json(w, http.StatusOK, result)
}

// PollWorkerTick handles POST /poll-worker.
func (a *App) PollWorkerTick(w http.ResponseWriter, r *http.Request) {
	result, err := a.Poll.Run(r.Context())
	if err != nil {
		a.error(w, http.StatusInternalServerError, "poll_worker_failed", err.Error())
		return
	}
	a.json(w, http.StatusOK, result)
}
