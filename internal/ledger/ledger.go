/*
Copyright © 2026 the PDep authors.
This file is part of PDep.

PDep is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

PDep is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with PDep.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package ledger stores a history of solver runs in SQLite.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spatialmodel/pdep"
	_ "modernc.org/sqlite" // database driver
)

const schema = `
CREATE TABLE IF NOT EXISTS estimation_runs (
	id                  TEXT PRIMARY KEY,
	network_id          INTEGER NOT NULL,
	run_count           INTEGER NOT NULL,
	mode                TEXT NOT NULL,
	fingerprint         TEXT,
	network_fingerprint TEXT,
	grid_min            REAL NOT NULL,
	grid_max            REAL NOT NULL,
	grid_size           REAL NOT NULL,
	net_reactions       INTEGER NOT NULL,
	ignored             INTEGER NOT NULL,
	started_at          TEXT NOT NULL,
	elapsed_ms          INTEGER NOT NULL,
	err                 TEXT
);

CREATE INDEX IF NOT EXISTS estimation_runs_network ON estimation_runs(network_id);
`

// timeLayout has a fixed width so that start times sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Ledger records solver runs. It implements pdep.Recorder.
type Ledger struct {
	db *sql.DB
}

// Open opens or creates the ledger database at path. Use ":memory:"
// for a ledger that is discarded on Close.
func Open(path string) (*Ledger, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("ledger: open %s: %w", path, err)
	}
	// A single connection keeps ":memory:" databases from being
	// split across the pool.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("ledger: migrate: %w", err)
	}
	return &Ledger{db: db}, nil
}

// Close closes the underlying database.
func (l *Ledger) Close() error {
	return l.db.Close()
}

// Entry is a stored run record.
type Entry struct {
	ID string
	pdep.RunRecord
}

// Record stores r.
func (l *Ledger) Record(ctx context.Context, r pdep.RunRecord) error {
	started := r.Started
	if started.IsZero() {
		started = time.Now()
	}
	var errText sql.NullString
	if r.Err != "" {
		errText = sql.NullString{String: r.Err, Valid: true}
	}
	_, err := l.db.ExecContext(ctx, `INSERT INTO estimation_runs
		(id, network_id, run_count, mode, fingerprint, network_fingerprint, grid_min, grid_max, grid_size,
		 net_reactions, ignored, started_at, elapsed_ms, err)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.New().String(), r.NetworkID, r.RunCount, r.Mode.String(), r.Fingerprint, r.NetworkFingerprint,
		r.Grid.Min, r.Grid.Max, r.Grid.Size, r.NetReactions, r.Ignored,
		started.UTC().Format(timeLayout), r.Elapsed.Milliseconds(), errText)
	if err != nil {
		return fmt.Errorf("ledger: insert run for network %d: %w", r.NetworkID, err)
	}
	return nil
}

// List returns the runs recorded for a network in the order they
// started. A negative networkID returns the runs of all networks.
func (l *Ledger) List(ctx context.Context, networkID int) ([]Entry, error) {
	q := `SELECT id, network_id, run_count, mode, fingerprint, network_fingerprint, grid_min, grid_max, grid_size,
		net_reactions, ignored, started_at, elapsed_ms, err FROM estimation_runs`
	var args []interface{}
	if networkID >= 0 {
		q += " WHERE network_id = ?"
		args = append(args, networkID)
	}
	q += " ORDER BY started_at, run_count"

	rows, err := l.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("ledger: query: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e                        Entry
			mode, started            string
			fingerprint, netFP, errT sql.NullString
			elapsed                  int64
		)
		err := rows.Scan(&e.ID, &e.NetworkID, &e.RunCount, &mode, &fingerprint, &netFP,
			&e.Grid.Min, &e.Grid.Max, &e.Grid.Size, &e.NetReactions, &e.Ignored,
			&started, &elapsed, &errT)
		if err != nil {
			return nil, fmt.Errorf("ledger: scan: %w", err)
		}
		if mode != "" {
			if e.Mode, err = pdep.ParseMode(mode); err != nil {
				return nil, fmt.Errorf("ledger: run %s: %w", e.ID, err)
			}
		}
		if e.Started, err = time.Parse(timeLayout, started); err != nil {
			return nil, fmt.Errorf("ledger: run %s: started_at: %w", e.ID, err)
		}
		e.Fingerprint = fingerprint.String
		e.NetworkFingerprint = netFP.String
		e.Err = errT.String
		e.Elapsed = time.Duration(elapsed) * time.Millisecond
		out = append(out, e)
	}
	return out, rows.Err()
}
