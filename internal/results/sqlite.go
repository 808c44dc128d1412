// Package results persists experiment output to SQLite so finished sweeps
// can be queried and re-analyzed without rerunning the simulation.
package results

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/offero/disim/internal/stats"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    started_at TEXT NOT NULL,
    direction TEXT NOT NULL,
    nodes INTEGER NOT NULL,
    core_nodes INTEGER NOT NULL,
    trials_per_cell INTEGER NOT NULL,
    seed INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS trials (
    run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    peripheral_ties INTEGER NOT NULL,
    ambiguity REAL NOT NULL,
    trial INTEGER NOT NULL,
    core_adopters INTEGER NOT NULL,
    core_nodes INTEGER NOT NULL,
    periphery_adopters INTEGER NOT NULL,
    periphery_nodes INTEGER NOT NULL,
    weaknesses INTEGER NOT NULL,
    pressure_points INTEGER NOT NULL,
    PRIMARY KEY (run_id, peripheral_ties, ambiguity, trial)
);
`

// RunMeta describes one experiment run.
type RunMeta struct {
	Direction     string
	Nodes         int
	CoreNodes     int
	TrialsPerCell int
	Seed          uint64
}

// Store wraps a SQLite results database.
type Store struct {
	db *sql.DB
}

// Open creates or opens the results database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open results database: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite works best with a single writer

	if _, err := db.ExecContext(context.Background(), schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize results schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateRun registers a new run and returns its id.
func (s *Store) CreateRun(ctx context.Context, meta RunMeta) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (started_at, direction, nodes, core_nodes, trials_per_cell, seed)
		VALUES (?, ?, ?, ?, ?, ?)`,
		time.Now().UTC().Format(time.RFC3339),
		meta.Direction, meta.Nodes, meta.CoreNodes, meta.TrialsPerCell, int64(meta.Seed),
	)
	if err != nil {
		return 0, fmt.Errorf("create run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("create run: %w", err)
	}
	return id, nil
}

// SaveTrial persists one trial row under the given run.
func (s *Store) SaveTrial(ctx context.Context, runID int64, row stats.TrialRow) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO trials (
			run_id, peripheral_ties, ambiguity, trial,
			core_adopters, core_nodes, periphery_adopters, periphery_nodes,
			weaknesses, pressure_points
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, row.PeripheralTies, row.Ambiguity, row.Trial,
		row.CoreAdopters, row.CoreNodes, row.PeripheryAdopters, row.PeripheryNodes,
		row.Weaknesses, row.PressurePoints,
	)
	if err != nil {
		return fmt.Errorf("save trial (pties=%d ambiguity=%g trial=%d): %w",
			row.PeripheralTies, row.Ambiguity, row.Trial, err)
	}
	return nil
}

// LoadTrials returns every trial row of a run in sweep order.
func (s *Store) LoadTrials(ctx context.Context, runID int64) ([]stats.TrialRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT peripheral_ties, ambiguity, trial,
		       core_adopters, core_nodes, periphery_adopters, periphery_nodes,
		       weaknesses, pressure_points
		FROM trials
		WHERE run_id = ?
		ORDER BY peripheral_ties, ambiguity, trial`, runID)
	if err != nil {
		return nil, fmt.Errorf("load trials: %w", err)
	}
	defer rows.Close()

	var out []stats.TrialRow
	for rows.Next() {
		var tr stats.TrialRow
		if err := rows.Scan(
			&tr.PeripheralTies, &tr.Ambiguity, &tr.Trial,
			&tr.CoreAdopters, &tr.CoreNodes, &tr.PeripheryAdopters, &tr.PeripheryNodes,
			&tr.Weaknesses, &tr.PressurePoints,
		); err != nil {
			return nil, fmt.Errorf("scan trial: %w", err)
		}
		out = append(out, tr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load trials: %w", err)
	}
	return out, nil
}

// TrialCount returns the number of trials stored for a run.
func (s *Store) TrialCount(ctx context.Context, runID int64) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM trials WHERE run_id = ?`, runID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count trials: %w", err)
	}
	return n, nil
}

// Recorder adapts a run in the store to the experiment driver's trial
// logger interface.
type Recorder struct {
	store *Store
	ctx   context.Context
	runID int64
}

// Recorder returns a trial logger that persists rows under runID.
func (s *Store) Recorder(ctx context.Context, runID int64) *Recorder {
	return &Recorder{store: s, ctx: ctx, runID: runID}
}

// LogTrial persists one trial row.
func (r *Recorder) LogTrial(row stats.TrialRow) error {
	return r.store.SaveTrial(r.ctx, r.runID, row)
}
