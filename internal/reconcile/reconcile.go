// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package reconcile compares a reference's original fields against its
// registry-reported canonical fields, derives quick-fix suggestions, and
// applies accept/reject decisions. All functions are synchronous and pure;
// ApplyDecision works on a clone so a failed call never half-mutates its
// input. Implements: prd011-reconcile (R3-R5);
//
//	docs/ARCHITECTURE.md § Correction Reconciler.
package reconcile

import (
	"fmt"
	"strings"

	"github.com/pdiddy/reference-engine/internal/normalize"
	"github.com/pdiddy/reference-engine/pkg/types"
)

// Differences compares original against canonical field by field. A nil
// canonical snapshot yields no differences. Title, authors, and venue
// compare case-insensitively after trimming; year compares numerically;
// DOI compares exactly. A DOI the user never supplied produces an
// informational entry rather than a mismatch.
func Differences(ref *types.Reference) []types.Difference {
	if ref.Canonical == nil {
		return nil
	}

	var diffs []types.Difference
	for _, f := range types.CompareFields {
		orig := ref.Original.Field(f)
		canon := ref.Canonical.Field(f)
		if canon == "" {
			continue
		}

		switch f {
		case types.FieldYear:
			if ref.Canonical.Year != ref.Original.Year {
				diffs = append(diffs, types.Difference{
					Field:          f,
					OriginalValue:  orig,
					CanonicalValue: canon,
					IsCritical:     true,
				})
			}
		case types.FieldDOI:
			if orig != canon {
				diffs = append(diffs, types.Difference{
					Field:          f,
					OriginalValue:  orig,
					CanonicalValue: canon,
					IsCritical:     false,
				})
			}
		default:
			if !normalize.EqualFold(orig, canon) {
				diffs = append(diffs, types.Difference{
					Field:          f,
					OriginalValue:  orig,
					CanonicalValue: canon,
					IsCritical:     f == types.FieldTitle,
				})
			}
		}
	}
	return diffs
}

// QuickFixes derives one accept-ready fix per difference whose canonical
// value is non-empty. Author fixes are phrased by how the lists diverge:
// a count change reads "Update author list (N → M authors)", a pure
// formatting change reads "Normalize author formatting".
func QuickFixes(ref *types.Reference) []types.QuickFix {
	diffs := Differences(ref)
	if len(diffs) == 0 {
		return nil
	}

	fixes := make([]types.QuickFix, 0, len(diffs))
	for _, d := range diffs {
		if d.CanonicalValue == "" {
			continue
		}
		fix := types.QuickFix{
			ID:             "fix-" + string(d.Field),
			Field:          d.Field,
			SuggestedValue: d.CanonicalValue,
		}
		switch d.Field {
		case types.FieldAuthors:
			origCount := len(normalize.SplitAuthors(d.OriginalValue))
			canonCount := len(normalize.SplitAuthors(d.CanonicalValue))
			if origCount != canonCount {
				fix.Label = fmt.Sprintf("Update author list (%d → %d authors)", origCount, canonCount)
			} else {
				fix.Label = "Normalize author formatting"
			}
		case types.FieldDOI:
			if d.OriginalValue == "" {
				fix.Label = "Add missing DOI"
			} else {
				fix.Label = "Update DOI"
			}
		default:
			fix.Label = fmt.Sprintf("Update %s", d.Field)
		}
		fixes = append(fixes, fix)
	}
	return fixes
}

// Selection is the caller-owned set of quick-fix ids the user has toggled
// on. It lives outside the reference and only materializes into explicit
// corrections when the decision is committed.
type Selection map[string]bool

// Corrections resolves the selected fixes into the explicit field
// corrections passed to ApplyDecision.
func (s Selection) Corrections(fixes []types.QuickFix) map[types.Field]string {
	if len(s) == 0 {
		return nil
	}
	out := make(map[types.Field]string)
	for _, fix := range fixes {
		if s[fix.ID] {
			out[fix.Field] = fix.SuggestedValue
		}
	}
	return out
}

// ApplyDecision applies the user's verdict and returns the updated
// reference; the input is never mutated. Accepting with explicit
// corrections overwrites only the listed fields; accepting without falls
// back to copying every present canonical field. Rejecting keeps the
// original values but still marks the reference verified: the product
// treats a rejection as "reviewed". The operation is idempotent.
func ApplyDecision(ref *types.Reference, accept bool, corrections map[types.Field]string) (*types.Reference, error) {
	if err := validateCorrections(corrections); err != nil {
		return nil, err
	}

	out := ref.Clone()

	if !accept {
		out.Status = types.StatusVerified
		out.UserDecision = types.DecisionRejected
		out.Issues = []string{"⚠ Needs review: user kept original values"}
		return out, nil
	}

	var changed []types.Field
	if len(corrections) > 0 {
		for _, f := range types.CompareFields {
			v, ok := corrections[f]
			if !ok {
				continue
			}
			if out.Original.Field(f) != v {
				out.Original.SetField(f, v)
				changed = append(changed, f)
			}
		}
	} else if out.Canonical != nil {
		for _, f := range types.CompareFields {
			canon := out.Canonical.Field(f)
			if canon == "" {
				continue
			}
			if out.Original.Field(f) != canon {
				out.Original.SetField(f, canon)
				changed = append(changed, f)
			}
		}
	}

	out.Status = types.StatusVerified
	out.ConfidenceScore = 100
	out.UserDecision = types.DecisionAccepted
	switch {
	case len(changed) > 0:
		out.Issues = []string{"✓ Corrected: " + joinFields(changed)}
	case ref.UserDecision == types.DecisionAccepted:
		// Re-applying an accepted decision: nothing changes, including
		// the recorded correction marker. Keeps the operation idempotent.
	default:
		out.Issues = []string{"✓ Verified"}
	}
	return out, nil
}

func validateCorrections(corrections map[types.Field]string) error {
	for f := range corrections {
		known := false
		for _, cf := range types.CompareFields {
			if f == cf {
				known = true
				break
			}
		}
		if !known {
			return fmt.Errorf("correction for unknown field %q", f)
		}
	}
	return nil
}

func joinFields(fields []types.Field) string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}
