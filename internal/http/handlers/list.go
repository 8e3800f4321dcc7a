package handlers

import "net/http"

// ListJobs handles POST /list-jobs, header x-user-id required, returning
// jobs newest-first.
func (a *App) ListJobs(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusBadRequest, "missing_user_id", "x-user-id header is required")
		return
	}

	jobs, err := a.Jobs.ListByUser(r.Context(), userID)
	if err != nil {
		a.error(w, statusCode(err), "list_jobs_failed", err.Error())
		return
	}

	responses := make([]jobStatusResponse, 0, len(jobs))
	for i := range jobs {
		responses = append(responses, toStatusResponse(&jobs[i]))
	}
	a.json(w, http.StatusOK, map[string]any{"jobs": responses})
}
