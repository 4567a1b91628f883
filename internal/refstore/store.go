// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package refstore persists reference jobs in a local SQLite database and
// owns the side effects the engine itself never performs: committing
// correction decisions and deleting merged duplicates. Commits run in
// transactions so concurrent decisions on one reference or merges on one
// group serialize at the database instead of racing.
// Implements: prd014-store (R1-R4);
//
//	docs/ARCHITECTURE.md § Job Store.
package refstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/reference-engine/pkg/types"
)

const dbFile = "jobs.db"

// ErrStaleMergeTarget reports a merge request naming a reference id that is
// no longer present. The merge is rejected whole; nothing is deleted.
var ErrStaleMergeTarget = errors.New("merge target no longer present")

// ErrNotFound reports a missing reference or job id.
var ErrNotFound = errors.New("not found")

// Store manages the reference job SQLite database.
type Store struct {
	db *sql.DB
}

// Job is one upload's processing record.
type Job struct {
	ID        string
	Filename  string
	CreatedAt time.Time
	Status    string
}

// Open opens or creates the job database at jobsDir/jobs.db, creating the
// schema if needed.
func Open(cfg types.StoreConfig) (*Store, error) {
	jobsDir := cfg.JobsDir
	if jobsDir == "" {
		jobsDir = "jobs"
	}
	if err := os.MkdirAll(jobsDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating jobs directory: %w", err)
	}

	dbPath := filepath.Join(jobsDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS jobs (
			id TEXT PRIMARY KEY,
			filename TEXT,
			created_at TEXT,
			status TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS refs (
			id TEXT PRIMARY KEY,
			job_id TEXT NOT NULL REFERENCES jobs(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			key TEXT NOT NULL,
			title TEXT,
			authors TEXT,
			year INTEGER,
			venue TEXT,
			doi TEXT,
			canonical TEXT,
			status TEXT,
			confidence_score INTEGER,
			issues TEXT,
			duplicate_group_id TEXT,
			user_decision TEXT,
			metadata TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_refs_job_id ON refs(job_id)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_refs_job_key ON refs(job_id, key)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// CreateJob inserts a job record.
func (s *Store) CreateJob(ctx context.Context, job Job) error {
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now().UTC()
	}
	if job.Status == "" {
		job.Status = "processing"
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO jobs (id, filename, created_at, status) VALUES (?, ?, ?, ?)`,
		job.ID, job.Filename, job.CreatedAt.Format(time.RFC3339), job.Status,
	)
	if err != nil {
		return fmt.Errorf("inserting job %s: %w", job.ID, err)
	}
	return nil
}

// SaveReferences replaces a job's reference rows with refs, preserving
// input order as the position column.
func (s *Store) SaveReferences(ctx context.Context, jobID string, refs []*types.Reference) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM refs WHERE job_id = ?`, jobID); err != nil {
		return fmt.Errorf("clearing old references: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO refs (id, job_id, position, key, title, authors, year, venue, doi,
			canonical, status, confidence_score, issues, duplicate_group_id, user_decision, metadata)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, ref := range refs {
		canonical, err := marshalNullable(ref.Canonical)
		if err != nil {
			return fmt.Errorf("encoding canonical for %s: %w", ref.ID, err)
		}
		issuesJSON, _ := json.Marshal(ref.Issues)
		metaJSON, _ := json.Marshal(ref.Metadata)

		_, err = stmt.ExecContext(ctx,
			ref.ID, jobID, i, ref.Key,
			ref.Original.Title, ref.Original.Authors, ref.Original.Year,
			ref.Original.Venue, ref.Original.DOI,
			canonical, string(ref.Status), ref.ConfidenceScore,
			string(issuesJSON), ref.DuplicateGroupID, string(ref.UserDecision),
			string(metaJSON),
		)
		if err != nil {
			return fmt.Errorf("inserting reference %s: %w", ref.ID, err)
		}
	}

	return tx.Commit()
}

// ListReferences returns a job's references in their stored order.
func (s *Store) ListReferences(ctx context.Context, jobID string) ([]*types.Reference, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, key, title, authors, year, venue, doi, canonical, status,
			confidence_score, issues, duplicate_group_id, user_decision, metadata
		 FROM refs WHERE job_id = ? ORDER BY position`, jobID)
	if err != nil {
		return nil, fmt.Errorf("querying references: %w", err)
	}
	defer rows.Close()

	var refs []*types.Reference
	for rows.Next() {
		ref, err := scanReference(rows)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

// GetReference loads a single reference by id.
func (s *Store) GetReference(ctx context.Context, id string) (*types.Reference, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, key, title, authors, year, venue, doi, canonical, status,
			confidence_score, issues, duplicate_group_id, user_decision, metadata
		 FROM refs WHERE id = ?`, id)
	ref, err := scanReference(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("reference %s: %w", id, ErrNotFound)
	}
	return ref, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReference(row rowScanner) (*types.Reference, error) {
	var (
		ref        types.Reference
		canonical  sql.NullString
		status     string
		issuesJSON string
		decision   string
		metaJSON   string
	)
	err := row.Scan(
		&ref.ID, &ref.Key,
		&ref.Original.Title, &ref.Original.Authors, &ref.Original.Year,
		&ref.Original.Venue, &ref.Original.DOI,
		&canonical, &status, &ref.ConfidenceScore,
		&issuesJSON, &ref.DuplicateGroupID, &decision, &metaJSON,
	)
	if err != nil {
		return nil, err
	}

	ref.Status = types.Status(status)
	ref.UserDecision = types.Decision(decision)
	if canonical.Valid && canonical.String != "" {
		var snap types.Snapshot
		if err := json.Unmarshal([]byte(canonical.String), &snap); err != nil {
			return nil, fmt.Errorf("decoding canonical for %s: %w", ref.ID, err)
		}
		ref.Canonical = &snap
	}
	if issuesJSON != "" {
		if err := json.Unmarshal([]byte(issuesJSON), &ref.Issues); err != nil {
			return nil, fmt.Errorf("decoding issues for %s: %w", ref.ID, err)
		}
	}
	if metaJSON != "" {
		if err := json.Unmarshal([]byte(metaJSON), &ref.Metadata); err != nil {
			return nil, fmt.Errorf("decoding metadata for %s: %w", ref.ID, err)
		}
	}
	return &ref, nil
}

func marshalNullable(snap *types.Snapshot) (any, error) {
	if snap == nil {
		return nil, nil
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}
