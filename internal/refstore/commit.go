// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package refstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pdiddy/reference-engine/internal/export"
	"github.com/pdiddy/reference-engine/internal/reconcile"
	"github.com/pdiddy/reference-engine/pkg/types"
)

// DecisionRequest is a correction commit: the user's verdict on one
// reference, with optional explicit field corrections.
type DecisionRequest struct {
	ReferenceID     string
	Decision        types.Decision
	CorrectedFields map[types.Field]string
}

// CommitDecision applies the decision to the stored reference and persists
// the result, echoing the persisted reference. The read-apply-write runs in
// one transaction so two concurrent decisions on the same reference cannot
// interleave.
func (s *Store) CommitDecision(ctx context.Context, req DecisionRequest) (*types.Reference, error) {
	var accept bool
	switch req.Decision {
	case types.DecisionAccepted:
		accept = true
	case types.DecisionRejected:
		accept = false
	default:
		return nil, fmt.Errorf("invalid decision %q", req.Decision)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx,
		`SELECT id, key, title, authors, year, venue, doi, canonical, status,
			confidence_score, issues, duplicate_group_id, user_decision, metadata
		 FROM refs WHERE id = ?`, req.ReferenceID)
	ref, err := scanReference(row)
	if err != nil {
		return nil, fmt.Errorf("loading reference %s: %w", req.ReferenceID, err)
	}

	updated, err := reconcile.ApplyDecision(ref, accept, req.CorrectedFields)
	if err != nil {
		return nil, err
	}

	issuesJSON, _ := json.Marshal(updated.Issues)
	_, err = tx.ExecContext(ctx,
		`UPDATE refs SET title = ?, authors = ?, year = ?, venue = ?, doi = ?,
			status = ?, confidence_score = ?, issues = ?, user_decision = ?
		 WHERE id = ?`,
		updated.Original.Title, updated.Original.Authors, updated.Original.Year,
		updated.Original.Venue, updated.Original.DOI,
		string(updated.Status), updated.ConfidenceScore, string(issuesJSON),
		string(updated.UserDecision), updated.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("persisting decision for %s: %w", req.ReferenceID, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing decision: %w", err)
	}
	return updated, nil
}

// MergeRequest is a duplicate-group merge commit: keep primaryID, delete
// the rest of the group.
type MergeRequest struct {
	GroupID     string
	PrimaryID   string
	IDsToDelete []string
}

// CommitMerge deletes the non-kept members of a duplicate group and returns
// the deletion count. Every named id, the primary included, must still
// exist; a stale request fails with ErrStaleMergeTarget before anything is
// deleted. The transaction serializes competing merges of the same group.
func (s *Store) CommitMerge(ctx context.Context, req MergeRequest) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, id := range append([]string{req.PrimaryID}, req.IDsToDelete...) {
		var exists int
		err := tx.QueryRowContext(ctx, `SELECT count(*) FROM refs WHERE id = ?`, id).Scan(&exists)
		if err != nil {
			return 0, fmt.Errorf("checking reference %s: %w", id, err)
		}
		if exists == 0 {
			return 0, fmt.Errorf("merge of group %s: reference %s: %w",
				req.GroupID, id, ErrStaleMergeTarget)
		}
	}

	deleted := 0
	for _, id := range req.IDsToDelete {
		res, err := tx.ExecContext(ctx, `DELETE FROM refs WHERE id = ?`, id)
		if err != nil {
			return 0, fmt.Errorf("deleting reference %s: %w", id, err)
		}
		n, _ := res.RowsAffected()
		deleted += int(n)
	}

	// The kept member no longer belongs to a group.
	_, err = tx.ExecContext(ctx,
		`UPDATE refs SET duplicate_group_id = '' WHERE id = ?`, req.PrimaryID)
	if err != nil {
		return 0, fmt.Errorf("clearing group on %s: %w", req.PrimaryID, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing merge: %w", err)
	}
	return deleted, nil
}

// JobHistory summarizes every job for the job-history export: entry count,
// verified count, and count of references still carrying issues.
func (s *Store) JobHistory(ctx context.Context) ([]export.JobRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT j.id, j.filename, j.created_at, j.status,
			count(r.id),
			coalesce(sum(CASE WHEN r.status = 'verified' THEN 1 ELSE 0 END), 0),
			coalesce(sum(CASE WHEN r.status IN ('issue', 'warning', 'retracted') THEN 1 ELSE 0 END), 0)
		 FROM jobs j LEFT JOIN refs r ON r.job_id = j.id
		 GROUP BY j.id ORDER BY j.created_at`)
	if err != nil {
		return nil, fmt.Errorf("querying job history: %w", err)
	}
	defer rows.Close()

	var records []export.JobRecord
	for rows.Next() {
		var (
			rec       export.JobRecord
			jobID     string
			createdAt string
		)
		if err := rows.Scan(&jobID, &rec.Filename, &createdAt, &rec.Status,
			&rec.Entries, &rec.Verified, &rec.Issues); err != nil {
			return nil, fmt.Errorf("scanning job row: %w", err)
		}
		if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
			rec.Date = t.Format("2006-01-02")
		} else {
			rec.Date = createdAt
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
