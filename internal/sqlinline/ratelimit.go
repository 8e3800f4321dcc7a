package sqlinline

// QAcquireSlots implements atomic slot acquisition as a single statement: the
// `locked` CTE takes the exclusive row lock (FOR UPDATE, no SKIP LOCKED —
// unlike the job-claim query this call must always wait for the lock, never
// skip the row), `calc` computes the window-reset-or-increment decision
// against a single "now" snapshot, and the outer UPDATE applies it. Because
// the read and the write happen inside one statement, no other transaction
// can observe calls_made between the lock and the write — the
// time-of-check/time-of-use race a naive read-then-write implementation
// would have is structurally impossible here.
//
// $1 = api, $2 = caller, $3 = requested. Returns zero rows (not an error)
// when the (api, caller) row does not exist, per contract.
const QAcquireSlots = `--sql 91e2f3a8-b4c5-46d7-8e9f-0a1b2c3d4e5f
WITH now_epoch AS (
    SELECT extract(epoch FROM now())::bigint AS now
),
locked AS (
    SELECT api, caller, window_start, calls_made, max_calls, window_secs
    FROM rate_limit_counters
    WHERE api = $1 AND caller = $2
    FOR UPDATE
),
calc AS (
    SELECT
        locked.api,
        locked.caller,
        now_epoch.now,
        (now_epoch.now - locked.window_start > locked.window_secs) AS reset,
        CASE
            WHEN now_epoch.now - locked.window_start > locked.window_secs
                THEN LEAST($3::int, locked.max_calls)
            ELSE LEAST($3::int, GREATEST(locked.max_calls - locked.calls_made, 0))
        END AS granted
    FROM locked, now_epoch
)
UPDATE rate_limit_counters r
SET window_start = CASE WHEN calc.reset THEN calc.now ELSE r.window_start END,
    calls_made   = CASE WHEN calc.reset THEN calc.granted ELSE r.calls_made + calc.granted END
FROM calc
WHERE r.api = calc.api AND r.caller = calc.caller
RETURNING calc.granted;
`
