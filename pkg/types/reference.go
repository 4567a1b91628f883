// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the reference engine.
// Implements: prd010-data-model (Reference, Snapshot, R1-R4);
//
//	docs/ARCHITECTURE.md § Data Model.
package types

import (
	"strconv"
	"strings"
)

// Status classifies a reference's verification state. Set by the external
// registry-matching layer; the engine only transitions it to StatusVerified
// when a correction decision is applied.
type Status string

const (
	StatusVerified  Status = "verified"
	StatusWarning   Status = "warning"
	StatusIssue     Status = "issue"
	StatusRetracted Status = "retracted"
	StatusNotFound  Status = "not_found"
	StatusDuplicate Status = "duplicate"
)

// Decision records the user's verdict on a proposed correction.
type Decision string

const (
	DecisionNone     Decision = ""
	DecisionAccepted Decision = "accepted"
	DecisionRejected Decision = "rejected"
)

// Field names one of the bibliographic fields the engine compares and
// corrects. The values double as wire names in commit requests.
type Field string

const (
	FieldTitle   Field = "title"
	FieldAuthors Field = "authors"
	FieldYear    Field = "year"
	FieldVenue   Field = "venue"
	FieldDOI     Field = "doi"
)

// CompareFields lists the fields the reconciler examines, in report order.
var CompareFields = []Field{FieldTitle, FieldAuthors, FieldYear, FieldVenue, FieldDOI}

// Snapshot holds one version of a reference's bibliographic fields, either
// as extracted from the user's source or as reported by the registry.
// Absent fields are the zero value; ingestion normalizes nulls to zero
// values so downstream code tests emptiness, never nullability.
type Snapshot struct {
	// Title is the work's title.
	Title string `json:"title" yaml:"title"`

	// Authors is the full author string, individual authors joined
	// by the literal separator " and ".
	Authors string `json:"authors" yaml:"authors"`

	// Year is the publication year; 0 when unknown.
	Year int `json:"year" yaml:"year"`

	// Venue is the journal, conference, or publisher.
	Venue string `json:"venue" yaml:"venue"`

	// DOI is the digital object identifier; empty when not supplied.
	DOI string `json:"doi" yaml:"doi"`
}

// Field returns the snapshot's value for f as a display string.
// Year 0 renders as the empty string.
func (s Snapshot) Field(f Field) string {
	switch f {
	case FieldTitle:
		return s.Title
	case FieldAuthors:
		return s.Authors
	case FieldYear:
		if s.Year == 0 {
			return ""
		}
		return strconv.Itoa(s.Year)
	case FieldVenue:
		return s.Venue
	case FieldDOI:
		return s.DOI
	}
	return ""
}

// SetField stores a display-string value into the snapshot's field f.
// Non-numeric year strings leave Year at 0.
func (s *Snapshot) SetField(f Field, value string) {
	switch f {
	case FieldTitle:
		s.Title = value
	case FieldAuthors:
		s.Authors = value
	case FieldYear:
		s.Year = atoiOrZero(value)
	case FieldVenue:
		s.Venue = value
	case FieldDOI:
		s.DOI = value
	}
}

// Reference is one bibliographic entry in a job. The id is assigned at
// ingestion and immutable; the key is unique within a job once assigned.
type Reference struct {
	// ID is the stable unique identifier assigned at ingestion.
	ID string `json:"id" yaml:"id"`

	// Key is the short citation key (e.g. "Smith2021").
	Key string `json:"key" yaml:"key"`

	// Original holds the fields as extracted from the user's source.
	Original Snapshot `json:"original" yaml:"original"`

	// Canonical holds the fields reported by the external registry,
	// or nil when no registry match was found.
	Canonical *Snapshot `json:"canonical,omitempty" yaml:"canonical,omitempty"`

	// Status is the verification state, seeded externally.
	Status Status `json:"status" yaml:"status"`

	// ConfidenceScore is the match confidence in [0,100], seeded
	// externally and set to 100 on an accepted correction.
	ConfidenceScore int `json:"confidence_score" yaml:"confidence_score"`

	// Issues lists human-readable problem descriptions in report order.
	Issues []string `json:"issues,omitempty" yaml:"issues,omitempty"`

	// DuplicateGroupID links the reference to its duplicate group;
	// empty until grouping runs.
	DuplicateGroupID string `json:"duplicate_group_id,omitempty" yaml:"duplicate_group_id,omitempty"`

	// UserDecision records the correction verdict, set only by the
	// reconciler.
	UserDecision Decision `json:"user_decision,omitempty" yaml:"user_decision,omitempty"`

	// Metadata carries free-form extra fields (volume, pages, entry
	// type) passed through unmodified.
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Display resolves the value shown (and cited) for field f: the canonical
// value when the registry reported one, else the original. This is the
// single precedence contract; callers must not reimplement the fallback.
func (r *Reference) Display(f Field) string {
	if r.Canonical != nil {
		if v := r.Canonical.Field(f); v != "" {
			return v
		}
	}
	return r.Original.Field(f)
}

// DisplayYear resolves the numeric year under the same precedence as Display.
func (r *Reference) DisplayYear() int {
	if r.Canonical != nil && r.Canonical.Year != 0 {
		return r.Canonical.Year
	}
	return r.Original.Year
}

// Clone returns a deep copy so decision application can stay all-or-nothing
// over a scratch value.
func (r *Reference) Clone() *Reference {
	out := *r
	if r.Canonical != nil {
		c := *r.Canonical
		out.Canonical = &c
	}
	if r.Issues != nil {
		out.Issues = append([]string(nil), r.Issues...)
	}
	if r.Metadata != nil {
		out.Metadata = make(map[string]string, len(r.Metadata))
		for k, v := range r.Metadata {
			out.Metadata[k] = v
		}
	}
	return &out
}

// Difference reports one field-level mismatch between the original and
// canonical snapshots. Ephemeral; recomputed on demand.
type Difference struct {
	// Field names the mismatched field.
	Field Field `json:"field" yaml:"field"`

	// OriginalValue is the user's value as a display string.
	OriginalValue string `json:"original_value" yaml:"original_value"`

	// CanonicalValue is the registry's value as a display string.
	CanonicalValue string `json:"canonical_value" yaml:"canonical_value"`

	// IsCritical is true only for title and year mismatches.
	IsCritical bool `json:"is_critical" yaml:"is_critical"`
}

// QuickFix is a proposed single-field correction derived from a Difference.
// Whether it is applied is caller-owned selection state, never part of the
// persisted reference.
type QuickFix struct {
	// ID uniquely identifies the fix within its reference ("fix-<field>").
	ID string `json:"id" yaml:"id"`

	// Field names the field the fix would overwrite.
	Field Field `json:"field" yaml:"field"`

	// Label is the human-readable fix description.
	Label string `json:"label" yaml:"label"`

	// SuggestedValue is the replacement value as a display string.
	SuggestedValue string `json:"suggested_value" yaml:"suggested_value"`
}

// DuplicateGroup is a derived cluster of references believed to describe
// the same work. Recomputed from the live collection on every grouping run;
// only the side effects of merge decisions persist.
type DuplicateGroup struct {
	// ID identifies the group within one grouping run ("dup-1", "dup-2", ...).
	ID string `json:"id" yaml:"id"`

	// Members lists the grouped references in first-encountered order.
	Members []*Reference `json:"members" yaml:"members"`

	// CanonicalID is the id of the elected best member.
	CanonicalID string `json:"canonical_id" yaml:"canonical_id"`

	// HasIssues is true when any member carries an issue unrelated to
	// being a duplicate.
	HasIssues bool `json:"has_issues" yaml:"has_issues"`
}

// Canonical returns the elected member, or nil if the id is not present.
func (g *DuplicateGroup) Canonical() *Reference {
	for _, m := range g.Members {
		if m.ID == g.CanonicalID {
			return m
		}
	}
	return nil
}

// atoiOrZero parses a year string, returning 0 for anything non-numeric.
func atoiOrZero(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
