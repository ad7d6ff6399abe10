package store

// runsTableSQL creates the table holding one row per analysis run.
// Applied via CREATE TABLE IF NOT EXISTS for idempotence, mirroring the
// teacher migrator's DDL style.
const runsTableSQL = `
CREATE TABLE IF NOT EXISTS patroid_runs (
	run_id       uuid PRIMARY KEY,
	project      text NOT NULL,
	started_at   timestamptz NOT NULL,
	finished_at  timestamptz NOT NULL
);
CREATE INDEX IF NOT EXISTS patroid_runs_project_idx ON patroid_runs (project, started_at DESC);
`

// occurrencesTableSQL creates the table holding one row per pattern
// occurrence, keyed to its run.
const occurrencesTableSQL = `
CREATE TABLE IF NOT EXISTS patroid_occurrences (
	id           bigserial PRIMARY KEY,
	run_id       uuid NOT NULL REFERENCES patroid_runs (run_id) ON DELETE CASCADE,
	pattern      text NOT NULL,
	witnesses    jsonb NOT NULL
);
CREATE INDEX IF NOT EXISTS patroid_occurrences_run_idx ON patroid_occurrences (run_id);
CREATE INDEX IF NOT EXISTS patroid_occurrences_pattern_idx ON patroid_occurrences (pattern);
`
