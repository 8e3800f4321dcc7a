package sqlinline

// QInsertJob inserts a job in the pending state. Intake never calls
// the provider, so provider_job_id starts empty.
const QInsertJob = `--sql 3b8d9f42-5e6b-4d3a-8f21-1a2b3c4d5e6f
INSERT INTO video_jobs (id, user_id, status, request_json)
VALUES ($1, $2, 'pending', $3);
`

// QSelectPending returns up to $1 rows awaiting submission, oldest
// created_at first. "created" is treated as a legacy synonym of "pending"
// per the DESIGN.md resolution of the open question.
const QSelectPending = `--sql 4c9eaf53-6f7c-4e4b-9032-2b3c4d5e6f70
SELECT id, user_id, provider_job_id, status, request_json, video_url, thumbnail_url,
       credits_used, error_message, created_at, updated_at, completed_at
FROM video_jobs
WHERE status IN ('pending', 'created')
ORDER BY created_at ASC
LIMIT $1;
`

// QSelectActive returns up to $1 in-flight rows, least-recently-updated
// first, so a bounded batch cannot starve any one job.
const QSelectActive = `--sql 5daebf64-707d-4f5c-a143-3c4d5e6f7081
SELECT id, user_id, provider_job_id, status, request_json, video_url, thumbnail_url,
       credits_used, error_message, created_at, updated_at, completed_at
FROM video_jobs
WHERE status IN ('submitted', 'queued', 'rendering', 'created')
ORDER BY updated_at ASC
LIMIT $1;
`

// QUpdateJob patches a job row. updated_at always advances; completed_at is
// set only when $8 (set_completed) is true, matching the invariant that
// completed_at is populated iff the transition lands on 'completed'.
const QUpdateJob = `--sql 6ebfc075-818e-405d-b254-4d5e6f708192
UPDATE video_jobs
SET status          = $2,
    provider_job_id = COALESCE(NULLIF($3, ''), provider_job_id),
    video_url       = COALESCE(NULLIF($4, ''), video_url),
    thumbnail_url   = COALESCE(NULLIF($5, ''), thumbnail_url),
    credits_used    = COALESCE($6, credits_used),
    error_message   = COALESCE(NULLIF($7, ''), error_message),
    updated_at      = now(),
    completed_at    = CASE WHEN $8 THEN now() ELSE completed_at END
WHERE id = $1;
`

// QGetJobByID fetches a single job by id.
const QGetJobByID = `--sql 7fc0d186-929f-416e-9365-5e6f70819203
SELECT id, user_id, provider_job_id, status, request_json, video_url, thumbnail_url,
       credits_used, error_message, created_at, updated_at, completed_at
FROM video_jobs
WHERE id = $1;
`

// QListJobsByUser returns a user's job history, newest first, using the
// composite (user_id, created_at desc) index.
const QListJobsByUser = `--sql 80d1e297-a3b0-427f-a476-6f7081920314
SELECT id, user_id, provider_job_id, status, request_json, video_url, thumbnail_url,
       credits_used, error_message, created_at, updated_at, completed_at
FROM video_jobs
WHERE user_id = $1
ORDER BY created_at DESC;
`
