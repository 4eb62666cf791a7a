package k0sperf

import (
	"fmt"

	sqlx "github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const runSummarySchema = `
CREATE TABLE IF NOT EXISTS run_summary (
	job_id           TEXT PRIMARY KEY,
	run_number       INTEGER NOT NULL,
	started_at       TEXT NOT NULL,
	finished_at      TEXT NOT NULL,
	events_total     INTEGER NOT NULL,
	events_processed INTEGER NOT NULL,
	v0_seen          INTEGER NOT NULL,
	v0_accepted      INTEGER NOT NULL,
	output_file      TEXT NOT NULL
);`

// RunSummary is one bookkeeping row per processing job. Timestamps are
// RFC 3339 strings so the table stays readable with any sqlite client.
type RunSummary struct {
	JobID           string `db:"job_id"`
	RunNumber       int    `db:"run_number"`
	StartedAt       string `db:"started_at"`
	FinishedAt      string `db:"finished_at"`
	EventsTotal     int64  `db:"events_total"`
	EventsProcessed int64  `db:"events_processed"`
	V0Seen          int64  `db:"v0_seen"`
	V0Accepted      int64  `db:"v0_accepted"`
	OutputFile      string `db:"output_file"`
}

// OpenBookkeeping opens the local summary database, creating the
// run_summary table on first use.
func OpenBookkeeping(path string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("error opening summary database: %w", err)
	}
	if _, err := db.Exec(runSummarySchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("error creating run_summary table: %w", err)
	}
	return db, nil
}

// InsertRunSummary appends one job row.
func InsertRunSummary(db *sqlx.DB, summary RunSummary) error {
	query := `INSERT INTO run_summary
		(job_id, run_number, started_at, finished_at, events_total, events_processed, v0_seen, v0_accepted, output_file)
		VALUES (:job_id, :run_number, :started_at, :finished_at, :events_total, :events_processed, :v0_seen, :v0_accepted, :output_file)`
	if _, err := db.NamedExec(query, summary); err != nil {
		return fmt.Errorf("error inserting run summary: %w", err)
	}
	return nil
}

// SummariesForRun returns the stored job rows of one run, oldest first.
func SummariesForRun(db *sqlx.DB, runNumber int) ([]RunSummary, error) {
	query := "SELECT job_id, run_number, started_at, finished_at, events_total, events_processed, " +
		"v0_seen, v0_accepted, output_file FROM run_summary WHERE run_number = %d ORDER BY started_at"
	query = fmt.Sprintf(query, runNumber)

	rows, err := db.Queryx(query)
	if err != nil {
		return nil, fmt.Errorf("error querying summary database: %w", err)
	}

	var summaries []RunSummary
	for rows.Next() {
		result := RunSummary{}
		err := rows.StructScan(&result)
		if err != nil {
			return nil, fmt.Errorf("error scanning summary row: %w", err)
		}
		summaries = append(summaries, result)
	}
	return summaries, nil
}
