// Package store persists the grid-search artifact: a self-contained SQLite
// file holding the run record and every (grid point, resample) score.
package store

import (
	"context"
	"database/sql"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/benefit-lab/uctakeup/internal/tune"
)

// SQLiteStore writes tuning artifacts through modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens (or creates) the artifact database at path and configures
// WAL mode.
func NewSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrap(err, "store: open sqlite")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "store: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const migration = `
CREATE TABLE IF NOT EXISTS tuning_runs (
	id          TEXT PRIMARY KEY,
	seed        INTEGER NOT NULL,
	model_rows  INTEGER NOT NULL,
	train_rows  INTEGER NOT NULL,
	test_rows   INTEGER NOT NULL,
	config      TEXT,
	started_at  DATETIME NOT NULL,
	finished_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS tuning_scores (
	run_id         TEXT NOT NULL REFERENCES tuning_runs(id),
	grid_index     INTEGER NOT NULL,
	tree_depth     INTEGER NOT NULL,
	min_n          INTEGER NOT NULL,
	learn_rate     REAL NOT NULL,
	loss_reduction REAL NOT NULL,
	resample       INTEGER NOT NULL,
	metric         TEXT NOT NULL,
	score          REAL NOT NULL,
	PRIMARY KEY (run_id, grid_index, resample, metric)
);

CREATE INDEX IF NOT EXISTS idx_tuning_scores_run_id ON tuning_scores(run_id);

CREATE VIEW IF NOT EXISTS best_scores AS
SELECT run_id, grid_index, tree_depth, min_n, learn_rate, loss_reduction,
       metric, AVG(score) AS mean_score, COUNT(*) AS resamples
FROM tuning_scores
GROUP BY run_id, grid_index, metric
ORDER BY mean_score DESC;
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, migration)
	return eris.Wrap(err, "store: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveResult writes the run record and all scores in one transaction, so a
// failed run never leaves a partial artifact. configYAML is an echo of the
// run's configuration for later inspection.
func (s *SQLiteStore) SaveResult(ctx context.Context, res *tune.Result, configYAML string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "store: begin tx")
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO tuning_runs (id, seed, model_rows, train_rows, test_rows, config, started_at, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		res.RunID, res.Seed, res.ModelRows, res.TrainRows, res.TestRows,
		configYAML, res.StartedAt, res.FinishedAt,
	)
	if err != nil {
		return eris.Wrap(err, "store: insert run")
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO tuning_scores (run_id, grid_index, tree_depth, min_n, learn_rate, loss_reduction, resample, metric, score)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return eris.Wrap(err, "store: prepare scores insert")
	}
	defer stmt.Close()

	for _, sc := range res.Scores {
		if _, err := stmt.ExecContext(ctx,
			res.RunID, sc.GridIndex, sc.Params.TreeDepth, sc.Params.MinN,
			sc.Params.LearnRate, sc.Params.LossReduction, sc.Resample, sc.Metric, sc.Value,
		); err != nil {
			return eris.Wrapf(err, "store: insert score grid=%d resample=%d", sc.GridIndex, sc.Resample)
		}
	}

	return eris.Wrap(tx.Commit(), "store: commit")
}

// Scores reads back every score row for a run, in (grid_index, resample)
// order.
func (s *SQLiteStore) Scores(ctx context.Context, runID string) ([]tune.Score, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT grid_index, tree_depth, min_n, learn_rate, loss_reduction, resample, metric, score
		 FROM tuning_scores WHERE run_id = ? ORDER BY grid_index, resample`,
		runID)
	if err != nil {
		return nil, eris.Wrap(err, "store: query scores")
	}
	defer rows.Close()

	var out []tune.Score
	for rows.Next() {
		var sc tune.Score
		if err := rows.Scan(&sc.GridIndex, &sc.Params.TreeDepth, &sc.Params.MinN,
			&sc.Params.LearnRate, &sc.Params.LossReduction, &sc.Resample, &sc.Metric, &sc.Value); err != nil {
			return nil, eris.Wrap(err, "store: scan score")
		}
		out = append(out, sc)
	}
	return out, eris.Wrap(rows.Err(), "store: iterate scores")
}

// LatestRunID returns the id of the most recently finished run.
func (s *SQLiteStore) LatestRunID(ctx context.Context) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM tuning_runs ORDER BY finished_at DESC LIMIT 1`).Scan(&id)
	if err != nil {
		return "", eris.Wrap(err, "store: latest run")
	}
	return id, nil
}

// MeanScore is one row of the best_scores view.
type MeanScore struct {
	GridIndex     int
	TreeDepth     int
	MinN          int
	LearnRate     float64
	LossReduction float64
	Metric        string
	Mean          float64
	Resamples     int
}

// MeanScores reads the best_scores view: mean metric value per grid point,
// best first. Selecting a winner stays with the caller.
func (s *SQLiteStore) MeanScores(ctx context.Context, runID string) ([]MeanScore, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT grid_index, tree_depth, min_n, learn_rate, loss_reduction, metric, mean_score, resamples
		 FROM best_scores WHERE run_id = ?`,
		runID)
	if err != nil {
		return nil, eris.Wrap(err, "store: query mean scores")
	}
	defer rows.Close()

	var out []MeanScore
	for rows.Next() {
		var m MeanScore
		if err := rows.Scan(&m.GridIndex, &m.TreeDepth, &m.MinN, &m.LearnRate,
			&m.LossReduction, &m.Metric, &m.Mean, &m.Resamples); err != nil {
			return nil, eris.Wrap(err, "store: scan mean score")
		}
		out = append(out, m)
	}
	return out, eris.Wrap(rows.Err(), "store: iterate mean scores")
}
