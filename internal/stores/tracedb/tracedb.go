// Copyright (c) 2025 Michael D Henderson. All rights reserved.

// Package tracedb implements the optional sqlite-backed run trace.
//
// The trace is purely observational: the compiler writes one row per
// file pipeline (stage timings and diagnostic counts) and never reads
// any of it back.
package tracedb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/playbymail/tern/cerrs"
)

type DB struct {
	db  *sql.DB
	ctx context.Context
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id        INTEGER PRIMARY KEY AUTOINCREMENT,
    file      TEXT NOT NULL,
    source_id TEXT NOT NULL,
    started   TEXT NOT NULL,
    elapsed_ms INTEGER NOT NULL,
    tokens    INTEGER NOT NULL,
    nodes     INTEGER NOT NULL,
    errors    INTEGER NOT NULL,
    warnings  INTEGER NOT NULL,
    notes     INTEGER NOT NULL
);
`

// Open opens (creating when needed) the trace database at path.
func Open(ctx context.Context, path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %v", cerrs.ErrCreateSchema, err)
	}
	return &DB{db: db, ctx: ctx}, nil
}

func (d *DB) Close() error {
	return d.db.Close()
}

// Run is one file's trip through the pipeline.
type Run struct {
	File     string
	SourceID string
	Started  time.Time
	Elapsed  time.Duration
	Tokens   int
	Nodes    int
	Errors   int
	Warnings int
	Notes    int
}

// Record inserts one run row.
func (d *DB) Record(run Run) error {
	_, err := d.db.ExecContext(d.ctx,
		`INSERT INTO runs (file, source_id, started, elapsed_ms, tokens, nodes, errors, warnings, notes)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.File, run.SourceID, run.Started.UTC().Format(time.RFC3339Nano),
		run.Elapsed.Milliseconds(), run.Tokens, run.Nodes,
		run.Errors, run.Warnings, run.Notes)
	return err
}
