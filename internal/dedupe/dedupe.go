// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dedupe clusters a job's references into duplicate groups and
// plans merge decisions. Grouping is a derived view: it is recomputed from
// the live collection on every run and only merge side effects persist.
// Implements: prd011-reconcile (R2);
//
//	docs/ARCHITECTURE.md § Duplicate Grouper.
package dedupe

import (
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/reference-engine/internal/normalize"
	"github.com/pdiddy/reference-engine/pkg/types"
)

// SimilarityPredicate decides whether two references describe the same work.
// The default is title/DOI matching; a stronger matcher (edit distance,
// token overlap) can be substituted without touching grouping control flow.
type SimilarityPredicate interface {
	Match(a, b *types.Reference) bool
}

// TitleOrDOIPredicate is the default similarity test: normalized titles
// that are equal or contain one another, or non-empty DOIs that match.
// Substring containment is a heuristic and can misfire on prefix titles;
// groups are always surfaced for review, never auto-merged.
type TitleOrDOIPredicate struct{}

// Match implements SimilarityPredicate.
func (TitleOrDOIPredicate) Match(a, b *types.Reference) bool {
	ta := normalize.ForComparison(a.Display(types.FieldTitle))
	tb := normalize.ForComparison(b.Display(types.FieldTitle))
	if ta != "" && tb != "" {
		if ta == tb || strings.Contains(ta, tb) || strings.Contains(tb, ta) {
			return true
		}
	}

	da := normalizeDOI(a.Display(types.FieldDOI))
	db := normalizeDOI(b.Display(types.FieldDOI))
	return da != "" && da == db
}

func normalizeDOI(doi string) string {
	return strings.ToLower(strings.TrimSpace(doi))
}

// Grouper clusters references into duplicate groups.
type Grouper struct {
	pred SimilarityPredicate
}

// NewGrouper returns a Grouper using pred, or the default title/DOI
// predicate when pred is nil.
func NewGrouper(pred SimilarityPredicate) *Grouper {
	if pred == nil {
		pred = TitleOrDOIPredicate{}
	}
	return &Grouper{pred: pred}
}

// Summary holds counts from one grouping run.
type Summary struct {
	Groups  int
	Members int
	Singles int
}

// Group performs a single pass over refs in input order: each unprocessed
// reference seeds a candidate set of all later unprocessed references the
// predicate matches. Sets of size >= 2 become groups; singletons are
// discarded. Members get DuplicateGroupID set as a side effect. O(n^2)
// comparisons, acceptable at expected job sizes.
func (g *Grouper) Group(refs []*types.Reference) []*types.DuplicateGroup {
	processed := make(map[string]bool, len(refs))
	var groups []*types.DuplicateGroup

	for i, ref := range refs {
		if processed[ref.ID] {
			continue
		}

		members := []*types.Reference{ref}
		for _, other := range refs[i+1:] {
			if processed[other.ID] {
				continue
			}
			if g.pred.Match(ref, other) {
				members = append(members, other)
			}
		}

		if len(members) < 2 {
			continue
		}

		group := &types.DuplicateGroup{
			ID:      fmt.Sprintf("dup-%d", len(groups)+1),
			Members: members,
		}
		group.CanonicalID = electCanonical(members).ID
		group.HasIssues = groupHasIssues(members)

		for _, m := range members {
			processed[m.ID] = true
			m.DuplicateGroupID = group.ID
		}
		groups = append(groups, group)
	}

	return groups
}

// GroupWithSummary runs Group and writes progress lines to w: one per
// group, then a trailing count line.
func (g *Grouper) GroupWithSummary(refs []*types.Reference, w io.Writer) ([]*types.DuplicateGroup, Summary) {
	groups := g.Group(refs)

	var sum Summary
	sum.Groups = len(groups)
	for _, grp := range groups {
		sum.Members += len(grp.Members)
		fmt.Fprintf(w, "group %s: %d members, canonical %s\n",
			grp.ID, len(grp.Members), grp.CanonicalID)
	}
	sum.Singles = len(refs) - sum.Members

	fmt.Fprintf(w, "\ngrouped: %d, singles: %d\n", sum.Members, sum.Singles)
	return groups, sum
}

// electCanonical picks the best member: a non-empty DOI beats none, then
// the higher confidence score; ties keep the first-encountered member.
func electCanonical(members []*types.Reference) *types.Reference {
	best := members[0]
	for _, m := range members[1:] {
		bestDOI := normalizeDOI(best.Display(types.FieldDOI)) != ""
		mDOI := normalizeDOI(m.Display(types.FieldDOI)) != ""
		switch {
		case mDOI && !bestDOI:
			best = m
		case mDOI == bestDOI && m.ConfidenceScore > best.ConfidenceScore:
			best = m
		}
	}
	return best
}

// groupHasIssues reports whether any member carries an issue unrelated to
// being a duplicate.
func groupHasIssues(members []*types.Reference) bool {
	for _, m := range members {
		for _, issue := range m.Issues {
			if !strings.Contains(strings.ToLower(issue), "duplicate") {
				return true
			}
		}
	}
	return false
}

// MergeGroup computes which member ids to discard when keeping keepID.
// It is a pure planning step; actual deletion is the caller's persistence
// concern. Returns an error when keepID is not a member, so a stale
// request never produces a partial plan.
func MergeGroup(group *types.DuplicateGroup, keepID string) ([]string, error) {
	found := false
	ids := make([]string, 0, len(group.Members)-1)
	for _, m := range group.Members {
		if m.ID == keepID {
			found = true
			continue
		}
		ids = append(ids, m.ID)
	}
	if !found {
		return nil, fmt.Errorf("merge group %s: keep id %s is not a member", group.ID, keepID)
	}
	return ids, nil
}

// IgnoreSet is a caller-owned exclusion list of group ids the user has
// dismissed. It never mutates references.
type IgnoreSet map[string]bool

// Ignore marks a group id as dismissed.
func (s IgnoreSet) Ignore(groupID string) { s[groupID] = true }

// Ignored reports whether a group id has been dismissed.
func (s IgnoreSet) Ignored(groupID string) bool { return s[groupID] }

// Filter returns the groups not present in the ignore set, preserving order.
func (s IgnoreSet) Filter(groups []*types.DuplicateGroup) []*types.DuplicateGroup {
	out := make([]*types.DuplicateGroup, 0, len(groups))
	for _, g := range groups {
		if !s[g.ID] {
			out = append(out, g)
		}
	}
	return out
}
