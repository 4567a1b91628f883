// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ingest loads raw reference records and normalizes them into the
// canonical Reference shape. Upstream producers disagree on field naming
// (snake_case vs camelCase) and on nullability; this package resolves both
// exactly once, at the boundary, so downstream packages only ever see one
// shape. Implements: prd010-data-model (R5);
//
//	docs/ARCHITECTURE.md § Ingestion.
package ingest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/reference-engine/internal/citation"
	"github.com/pdiddy/reference-engine/pkg/types"
)

// LoadFile reads a reference list from a YAML or JSON file. The file may
// hold a bare list of records or a document with a top-level "references"
// list.
func LoadFile(path string) ([]*types.Reference, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading references: %w", err)
	}

	var doc any
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, &doc)
	} else {
		err = yaml.Unmarshal(data, &doc)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing references: %w", err)
	}

	records, err := recordList(doc)
	if err != nil {
		return nil, err
	}
	return NormalizeAll(records)
}

// recordList unwraps the raw document into a list of record maps.
func recordList(doc any) ([]map[string]any, error) {
	if m, ok := doc.(map[string]any); ok {
		if inner, ok := m["references"]; ok {
			doc = inner
		}
	}
	list, ok := doc.([]any)
	if !ok {
		return nil, fmt.Errorf("expected a list of reference records, got %T", doc)
	}

	records := make([]map[string]any, 0, len(list))
	for i, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("record %d: expected an object, got %T", i, item)
		}
		records = append(records, m)
	}
	return records, nil
}

// NormalizeAll converts raw records into canonical References, assigns
// missing ids and citation keys, and enforces id/key uniqueness within the
// job. Generated keys that collide get a numeric suffix (Smith2021-2).
func NormalizeAll(records []map[string]any) ([]*types.Reference, error) {
	refs := make([]*types.Reference, 0, len(records))
	seenIDs := make(map[string]bool, len(records))
	seenKeys := make(map[string]bool, len(records))

	for i, rec := range records {
		ref, err := Normalize(rec)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}

		if ref.ID == "" {
			ref.ID = uuid.NewString()
		}
		if seenIDs[ref.ID] {
			return nil, fmt.Errorf("record %d: duplicate id %q", i, ref.ID)
		}
		seenIDs[ref.ID] = true

		if ref.Key == "" || ref.Key == "undefined" {
			ref.Key = citation.GenerateKey(ref)
		}
		ref.Key = uniqueKey(ref.Key, seenKeys)
		seenKeys[ref.Key] = true

		refs = append(refs, ref)
	}
	return refs, nil
}

// uniqueKey suffixes a colliding key with -2, -3, ... until free.
func uniqueKey(key string, seen map[string]bool) string {
	if !seen[key] {
		return key
	}
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s-%d", key, n)
		if !seen[candidate] {
			return candidate
		}
	}
}

// Normalize converts one raw record into the canonical Reference shape.
// Either naming variant of every field is accepted; snake_case wins when
// both are present. Null or absent canonical snapshots come back as nil.
func Normalize(rec map[string]any) (*types.Reference, error) {
	ref := &types.Reference{
		ID:               str(rec, "id"),
		Key:              str(rec, "key", "citation_key", "citationKey"),
		Status:           types.Status(str(rec, "status")),
		ConfidenceScore:  clampScore(num(rec, "confidence_score", "confidenceScore")),
		DuplicateGroupID: str(rec, "duplicate_group_id", "duplicateGroupId"),
		UserDecision:     types.Decision(str(rec, "user_decision", "userDecision")),
	}

	orig, ok := snapshotField(rec, "original")
	if !ok {
		return nil, fmt.Errorf("missing original snapshot")
	}
	ref.Original = *orig

	if canon, ok := snapshotField(rec, "canonical"); ok {
		ref.Canonical = canon
	}

	if ref.Status == "" {
		if ref.Canonical != nil {
			ref.Status = types.StatusWarning
		} else {
			ref.Status = types.StatusNotFound
		}
	}

	for _, issue := range list(rec, "issues") {
		if s, ok := issue.(string); ok && s != "" {
			ref.Issues = append(ref.Issues, s)
		}
	}

	if meta, ok := rec["metadata"].(map[string]any); ok {
		ref.Metadata = make(map[string]string, len(meta))
		for k, v := range meta {
			ref.Metadata[k] = fmt.Sprintf("%v", v)
		}
	}

	return ref, nil
}

// snapshotField reads an original/canonical sub-object. A null or missing
// value reports ok=false; nulls inside the object become zero values.
func snapshotField(rec map[string]any, key string) (*types.Snapshot, bool) {
	raw, ok := rec[key].(map[string]any)
	if !ok {
		return nil, false
	}
	snap := &types.Snapshot{
		Title:   str(raw, "title"),
		Authors: str(raw, "authors"),
		Year:    num(raw, "year"),
		Venue:   str(raw, "venue", "source", "journal"),
		DOI:     str(raw, "doi"),
	}
	return snap, true
}

// str returns the first present, non-null key as a trimmed string.
func str(m map[string]any, keys ...string) string {
	for _, k := range keys {
		v, ok := m[k]
		if !ok || v == nil {
			continue
		}
		if s, ok := v.(string); ok {
			return strings.TrimSpace(s)
		}
		return strings.TrimSpace(fmt.Sprintf("%v", v))
	}
	return ""
}

// num returns the first present key as an int; strings parse leniently and
// anything non-numeric yields 0.
func num(m map[string]any, keys ...string) int {
	for _, k := range keys {
		v, ok := m[k]
		if !ok || v == nil {
			continue
		}
		switch n := v.(type) {
		case int:
			return n
		case int64:
			return int(n)
		case uint64:
			return int(n)
		case float64:
			return int(n)
		case string:
			var parsed int
			if _, err := fmt.Sscanf(strings.TrimSpace(n), "%d", &parsed); err == nil {
				return parsed
			}
		}
	}
	return 0
}

func list(m map[string]any, key string) []any {
	if l, ok := m[key].([]any); ok {
		return l
	}
	return nil
}

// clampScore keeps the confidence invariant: always within [0,100].
func clampScore(n int) int {
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}
