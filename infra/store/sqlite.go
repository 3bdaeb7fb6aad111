// Package store persists evaluation reports in SQLite.
package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/kilianp07/foundry/core/evaluator"
	"github.com/kilianp07/foundry/core/results"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    mode TEXT NOT NULL,
    horizon INTEGER NOT NULL,
    instances INTEGER NOT NULL,
    value INTEGER NOT NULL,
    exhaustive INTEGER NOT NULL,
    started INTEGER NOT NULL,
    elapsed_ns INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS instances (
    run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    economy INTEGER NOT NULL,
    score INTEGER NOT NULL,
    nodes INTEGER NOT NULL,
    pruned INTEGER NOT NULL,
    duplicates INTEGER NOT NULL,
    capped INTEGER NOT NULL,
    exhaustive INTEGER NOT NULL,
    elapsed_ns INTEGER NOT NULL,
    PRIMARY KEY(run_id, economy)
);`

// SQLiteStore persists reports in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the database and ensures schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// One connection keeps in-memory databases shared across calls.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// Save inserts the report, replacing any earlier run with the same ID.
func (s *SQLiteStore) Save(rep evaluator.Report) (err error) {
	if rep.RunID == "" {
		return fmt.Errorf("save: empty run id")
	}
	run, inst := results.Flatten(rep)

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.Exec(`DELETE FROM instances WHERE run_id = ?`, run.ID); err != nil {
		return err
	}
	_, err = tx.Exec(`INSERT INTO runs (id, mode, horizon, instances, value, exhaustive, started, elapsed_ns)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET
            mode = excluded.mode,
            horizon = excluded.horizon,
            instances = excluded.instances,
            value = excluded.value,
            exhaustive = excluded.exhaustive,
            started = excluded.started,
            elapsed_ns = excluded.elapsed_ns`,
		run.ID, run.Mode, run.Horizon, run.Instances, run.Value, run.Exhaustive,
		run.Started.UnixNano(), int64(run.Elapsed))
	if err != nil {
		return err
	}
	for _, in := range inst {
		_, err = tx.Exec(`INSERT INTO instances
            (run_id, economy, score, nodes, pruned, duplicates, capped, exhaustive, elapsed_ns)
            VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			in.RunID, in.Economy, in.Score, in.Nodes, in.Pruned, in.Duplicates, in.Capped,
			in.Exhaustive, int64(in.Elapsed))
		if err != nil {
			return fmt.Errorf("insert economy %d: %w", in.Economy, err)
		}
	}
	return tx.Commit()
}

// Runs returns stored runs, newest first.
func (s *SQLiteStore) Runs(limit int) ([]results.Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.Query(`SELECT id, mode, horizon, instances, value, exhaustive, started, elapsed_ns
        FROM runs ORDER BY started DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var res []results.Run
	for rows.Next() {
		var r results.Run
		var started, elapsed int64
		if err := rows.Scan(&r.ID, &r.Mode, &r.Horizon, &r.Instances, &r.Value, &r.Exhaustive, &started, &elapsed); err != nil {
			return nil, err
		}
		r.Started = time.Unix(0, started).UTC()
		r.Elapsed = time.Duration(elapsed)
		res = append(res, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// Instances returns the instances of runID ordered by economy.
func (s *SQLiteStore) Instances(runID string) ([]results.Instance, error) {
	var exists int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM runs WHERE id = ?`, runID).Scan(&exists); err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, fmt.Errorf("%w: %s", results.ErrNotFound, runID)
	}
	rows, err := s.db.Query(`SELECT run_id, economy, score, nodes, pruned, duplicates, capped, exhaustive, elapsed_ns
        FROM instances WHERE run_id = ? ORDER BY economy`, runID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var res []results.Instance
	for rows.Next() {
		var in results.Instance
		var elapsed int64
		if err := rows.Scan(&in.RunID, &in.Economy, &in.Score, &in.Nodes, &in.Pruned, &in.Duplicates,
			&in.Capped, &in.Exhaustive, &elapsed); err != nil {
			return nil, err
		}
		in.Elapsed = time.Duration(elapsed)
		res = append(res, in)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error { return s.db.Close() }

var _ results.Store = (*SQLiteStore)(nil)
