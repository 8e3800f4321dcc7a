package sqlinline

// QCreateSchema provisions the video_jobs, integration_tokens and
// rate_limit_counters tables plus the job indexes, so a fresh environment
// (or a test database) can be bootstrapped without an external migration
// tool, matching how this codebase keeps its SQL inline rather than in a
// separate migrations directory. No binary in this repository executes it;
// it has to be run against the database by hand.
const QCreateSchema = `--sql 1f6a5f0e-9b34-4b3e-9f0b-0a6f6b0f8f10
CREATE TABLE IF NOT EXISTS video_jobs (
    id              text PRIMARY KEY,
    user_id         text NOT NULL,
    provider_job_id text NOT NULL DEFAULT '',
    status          text NOT NULL,
    request_json    jsonb NOT NULL,
    video_url       text NOT NULL DEFAULT '',
    thumbnail_url   text NOT NULL DEFAULT '',
    credits_used    integer NOT NULL DEFAULT 0,
    error_message   text NOT NULL DEFAULT '',
    created_at      timestamptz NOT NULL DEFAULT now(),
    updated_at      timestamptz NOT NULL DEFAULT now(),
    completed_at    timestamptz
);

CREATE INDEX IF NOT EXISTS idx_video_jobs_pending
    ON video_jobs (created_at)
    WHERE status IN ('pending', 'created');

CREATE INDEX IF NOT EXISTS idx_video_jobs_active
    ON video_jobs (updated_at)
    WHERE status IN ('submitted', 'queued', 'rendering', 'created');

CREATE INDEX IF NOT EXISTS idx_video_jobs_user_history
    ON video_jobs (user_id, created_at DESC);

CREATE TABLE IF NOT EXISTS integration_tokens (
    id         uuid PRIMARY KEY DEFAULT gen_random_uuid(),
    provider   text UNIQUE NOT NULL,
    token      text NOT NULL,
    properties jsonb NOT NULL DEFAULT '{}'::jsonb,
    created_at timestamptz NOT NULL DEFAULT now(),
    updated_at timestamptz NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS rate_limit_counters (
    api          text NOT NULL,
    caller       text NOT NULL,
    window_start bigint NOT NULL,
    calls_made   integer NOT NULL DEFAULT 0,
    max_calls    integer NOT NULL,
    window_secs  integer NOT NULL,
    PRIMARY KEY (api, caller)
);
`

// QSeedRateLimitCounter idempotently pre-seeds a (api, caller) budget row.
// Re-running it (e.g. on every worker startup) never resets an
// already-consuming window: an existing row keeps its window_start and
// calls_made, and only its max_calls and window_secs are overwritten with
// the configured values.
const QSeedRateLimitCounter = `--sql 2a7c8e21-4d5a-4c2e-9c33-0d9d6e2b7a41
INSERT INTO rate_limit_counters (api, caller, window_start, calls_made, max_calls, window_secs)
VALUES ($1, $2, extract(epoch from now())::bigint, 0, $3, $4)
ON CONFLICT (api, caller) DO UPDATE
    SET max_calls = excluded.max_calls,
        window_secs = excluded.window_secs;
`
