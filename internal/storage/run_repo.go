package storage

import (
	"database/sql"
	"time"

	"github.com/rhiyo/nsmon/internal/models"
)

type RunRepo struct {
	db *sql.DB
}

func NewRunRepo(db *sql.DB) *RunRepo { return &RunRepo{db: db} }

// Create persists a run and its per-check results in one transaction and
// returns the stored run with its assigned id.
func (r *RunRepo) Create(anyFailed bool, report string, results []models.CheckResult) (models.Run, error) {
	run := models.Run{
		StartedAt: time.Now().UTC().Format(time.RFC3339),
		AnyFailed: anyFailed,
		Report:    report,
	}

	tx, err := r.db.Begin()
	if err != nil {
		return models.Run{}, err
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		INSERT INTO runs(started_at, any_failed, report)
		VALUES(?, ?, ?)
	`, run.StartedAt, run.AnyFailed, run.Report)
	if err != nil {
		return models.Run{}, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return models.Run{}, err
	}
	run.ID = int(id)

	for _, cr := range results {
		actual := ""
		if cr.ActualIP.IsValid() {
			actual = cr.ActualIP.String()
		}
		_, err := tx.Exec(`
			INSERT INTO check_results(run_id, server, record, expected_ip, actual_ip, outcome, failure, attempts, duration_ms)
			VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, run.ID, cr.Check.Server.Name, cr.Check.Record, cr.Check.ExpectedIP.String(),
			actual, string(cr.Outcome), string(cr.Failure), cr.Attempts, cr.DurationMS)
		if err != nil {
			return models.Run{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return models.Run{}, err
	}
	return run, nil
}

// GetRuns returns runs newest-first without their report bodies.
func (r *RunRepo) GetRuns(limit, offset int) ([]models.Run, error) {
	rows, err := r.db.Query(`
		SELECT id, started_at, any_failed
		FROM runs
		ORDER BY id DESC
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []models.Run
	for rows.Next() {
		var run models.Run
		if err := rows.Scan(&run.ID, &run.StartedAt, &run.AnyFailed); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func (r *RunRepo) Count() (int, error) {
	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM runs`).Scan(&n)
	return n, err
}

func (r *RunRepo) GetByID(id int) (models.Run, error) {
	row := r.db.QueryRow(`
		SELECT id, started_at, any_failed, report
		FROM runs
		WHERE id = ?
	`, id)

	var run models.Run
	if err := row.Scan(&run.ID, &run.StartedAt, &run.AnyFailed, &run.Report); err != nil {
		return models.Run{}, err
	}
	return run, nil
}

func (r *RunRepo) GetResults(runID int) ([]models.StoredResult, error) {
	rows, err := r.db.Query(`
		SELECT id, run_id, server, record, expected_ip, actual_ip, outcome, failure, attempts, duration_ms
		FROM check_results
		WHERE run_id = ?
		ORDER BY id
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []models.StoredResult
	for rows.Next() {
		var res models.StoredResult
		if err := rows.Scan(&res.ID, &res.RunID, &res.Server, &res.Record, &res.ExpectedIP,
			&res.ActualIP, &res.Outcome, &res.Failure, &res.Attempts, &res.DurationMS); err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, rows.Err()
}
