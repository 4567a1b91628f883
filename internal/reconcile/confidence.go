// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package reconcile

import (
	"fmt"

	"github.com/pdiddy/reference-engine/internal/normalize"
	"github.com/pdiddy/reference-engine/pkg/types"
)

// confidenceThreshold is the score at or above which no breakdown is shown.
const confidenceThreshold = 80

// lowConfidence is the score below which the aggregate mismatch line is added.
const lowConfidence = 50

// ConfidenceBreakdown explains a sub-threshold confidence score as a list
// of human-readable reasons derived from the current field differences.
// Scores of 80 and above return nil. Purely derived, no state.
func ConfidenceBreakdown(ref *types.Reference) []string {
	if ref.ConfidenceScore >= confidenceThreshold {
		return nil
	}

	var reasons []string
	for _, d := range Differences(ref) {
		switch d.Field {
		case types.FieldTitle:
			reasons = append(reasons, "Title does not match the registry record")
		case types.FieldYear:
			reasons = append(reasons, fmt.Sprintf("Year discrepancy (%s vs %s)",
				orUnknown(d.OriginalValue), d.CanonicalValue))
		case types.FieldAuthors:
			origCount := len(normalize.SplitAuthors(d.OriginalValue))
			canonCount := len(normalize.SplitAuthors(d.CanonicalValue))
			if origCount != canonCount {
				reasons = append(reasons, fmt.Sprintf("Author count mismatch (%d vs %d)",
					origCount, canonCount))
			}
		}
	}

	if ref.Original.DOI == "" {
		reasons = append(reasons, "Missing DOI")
	}
	if ref.ConfidenceScore < lowConfidence {
		reasons = append(reasons, "Multiple significant mismatches")
	}
	return reasons
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
