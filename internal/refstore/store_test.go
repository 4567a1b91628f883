// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package refstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/reference-engine/pkg/types"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(types.StoreConfig{JobsDir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func seedJob(t *testing.T, s *Store, jobID string, refs []*types.Reference) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, s.CreateJob(ctx, Job{ID: jobID, Filename: jobID + ".bib"}))
	require.NoError(t, s.SaveReferences(ctx, jobID, refs))
}

func testRefs() []*types.Reference {
	return []*types.Reference{
		{
			ID:  "r1",
			Key: "Smith2021",
			Original: types.Snapshot{
				Title:   "Deep Learning for NLP",
				Authors: "Smith, John and Doe, Jane",
				Year:    2021,
				Venue:   "ACL",
				DOI:     "10.1000/x1",
			},
			Canonical: &types.Snapshot{
				Title: "Deep Learning for Natural Language Processing",
				Year:  2021,
			},
			Status:          types.StatusWarning,
			ConfidenceScore: 70,
			Issues:          []string{"Title mismatch"},
			Metadata:        map[string]string{"volume": "12"},
		},
		{
			ID:       "r2",
			Key:      "Brown2019",
			Original: types.Snapshot{Title: "Graph Attention Networks", Authors: "Brown, Carol", Year: 2019},
			Status:   types.StatusNotFound,
		},
		{
			ID:       "r3",
			Key:      "Brown2019b",
			Original: types.Snapshot{Title: "Graph Attention Networks", Authors: "Brown, C.", Year: 2019},
			Status:   types.StatusDuplicate,
		},
	}
}

func TestSaveAndListRoundTrip(t *testing.T) {
	s := openTestStore(t)
	seedJob(t, s, "job1", testRefs())

	got, err := s.ListReferences(context.Background(), "job1")
	require.NoError(t, err)
	require.Len(t, got, 3)

	// Stored order is input order.
	assert.Equal(t, "r1", got[0].ID)
	assert.Equal(t, "r3", got[2].ID)

	r := got[0]
	assert.Equal(t, "Smith2021", r.Key)
	assert.Equal(t, 2021, r.Original.Year)
	require.NotNil(t, r.Canonical)
	assert.Equal(t, "Deep Learning for Natural Language Processing", r.Canonical.Title)
	assert.Equal(t, []string{"Title mismatch"}, r.Issues)
	assert.Equal(t, map[string]string{"volume": "12"}, r.Metadata)

	// No registry match stays nil, not a zero snapshot.
	assert.Nil(t, got[1].Canonical)
}

func TestGetReferenceNotFound(t *testing.T) {
	s := openTestStore(t)
	seedJob(t, s, "job1", testRefs())

	_, err := s.GetReference(context.Background(), "nope")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCommitDecisionAccept(t *testing.T) {
	s := openTestStore(t)
	seedJob(t, s, "job1", testRefs())
	ctx := context.Background()

	updated, err := s.CommitDecision(ctx, DecisionRequest{
		ReferenceID: "r1",
		Decision:    types.DecisionAccepted,
	})
	require.NoError(t, err)
	assert.Equal(t, types.StatusVerified, updated.Status)
	assert.Equal(t, 100, updated.ConfidenceScore)
	assert.Equal(t, "Deep Learning for Natural Language Processing", updated.Original.Title)

	// The echoed reference matches what was persisted.
	stored, err := s.GetReference(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, updated.Status, stored.Status)
	assert.Equal(t, updated.Original.Title, stored.Original.Title)
	assert.Equal(t, updated.Issues, stored.Issues)

	// Committing the same decision again converges on the same state.
	again, err := s.CommitDecision(ctx, DecisionRequest{
		ReferenceID: "r1",
		Decision:    types.DecisionAccepted,
	})
	require.NoError(t, err)
	assert.Equal(t, updated.Issues, again.Issues)
	assert.Equal(t, updated.Original, again.Original)
}

func TestCommitDecisionExplicitFields(t *testing.T) {
	s := openTestStore(t)
	seedJob(t, s, "job1", testRefs())

	updated, err := s.CommitDecision(context.Background(), DecisionRequest{
		ReferenceID:     "r1",
		Decision:        types.DecisionAccepted,
		CorrectedFields: map[types.Field]string{types.FieldYear: "2022"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2022, updated.Original.Year)
	// Unlisted fields stay as the user wrote them.
	assert.Equal(t, "Deep Learning for NLP", updated.Original.Title)
	assert.Equal(t, []string{"✓ Corrected: year"}, updated.Issues)
}

func TestCommitDecisionReject(t *testing.T) {
	s := openTestStore(t)
	seedJob(t, s, "job1", testRefs())

	updated, err := s.CommitDecision(context.Background(), DecisionRequest{
		ReferenceID: "r1",
		Decision:    types.DecisionRejected,
	})
	require.NoError(t, err)
	assert.Equal(t, "Deep Learning for NLP", updated.Original.Title)
	assert.Equal(t, types.StatusVerified, updated.Status)
	assert.Equal(t, types.DecisionRejected, updated.UserDecision)
}

func TestCommitDecisionInvalid(t *testing.T) {
	s := openTestStore(t)
	seedJob(t, s, "job1", testRefs())

	_, err := s.CommitDecision(context.Background(), DecisionRequest{
		ReferenceID: "r1",
		Decision:    types.Decision("maybe"),
	})
	require.Error(t, err)

	_, err = s.CommitDecision(context.Background(), DecisionRequest{
		ReferenceID: "ghost",
		Decision:    types.DecisionAccepted,
	})
	require.Error(t, err)
}

func TestCommitMerge(t *testing.T) {
	s := openTestStore(t)
	seedJob(t, s, "job1", testRefs())
	ctx := context.Background()

	deleted, err := s.CommitMerge(ctx, MergeRequest{
		GroupID:     "dup-1",
		PrimaryID:   "r2",
		IDsToDelete: []string{"r3"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)

	refs, err := s.ListReferences(ctx, "job1")
	require.NoError(t, err)
	require.Len(t, refs, 2)
	for _, r := range refs {
		assert.NotEqual(t, "r3", r.ID)
	}
}

func TestCommitMergeStaleTarget(t *testing.T) {
	s := openTestStore(t)
	seedJob(t, s, "job1", testRefs())
	ctx := context.Background()

	// First merge wins.
	_, err := s.CommitMerge(ctx, MergeRequest{PrimaryID: "r2", IDsToDelete: []string{"r3"}})
	require.NoError(t, err)

	// A replay against the now-deleted member fails whole.
	_, err = s.CommitMerge(ctx, MergeRequest{PrimaryID: "r2", IDsToDelete: []string{"r3"}})
	require.ErrorIs(t, err, ErrStaleMergeTarget)

	// A stale primary fails too, deleting nothing.
	_, err = s.CommitMerge(ctx, MergeRequest{PrimaryID: "r3", IDsToDelete: []string{"r2"}})
	require.ErrorIs(t, err, ErrStaleMergeTarget)
	refs, err := s.ListReferences(ctx, "job1")
	require.NoError(t, err)
	assert.Len(t, refs, 2)
}

func TestJobHistory(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	created := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.CreateJob(ctx, Job{
		ID: "job1", Filename: "thesis.bib", CreatedAt: created, Status: "completed",
	}))
	refs := testRefs()
	refs[0].Status = types.StatusVerified
	require.NoError(t, s.SaveReferences(ctx, "job1", refs))

	history, err := s.JobHistory(ctx)
	require.NoError(t, err)
	require.Len(t, history, 1)

	rec := history[0]
	assert.Equal(t, "2026-08-01", rec.Date)
	assert.Equal(t, "thesis.bib", rec.Filename)
	assert.Equal(t, 3, rec.Entries)
	assert.Equal(t, 1, rec.Verified)
	assert.Equal(t, "completed", rec.Status)
}
