// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/reference-engine/internal/reconcile"
	"github.com/pdiddy/reference-engine/internal/refstore"
	"github.com/pdiddy/reference-engine/pkg/types"
)

var reviewCmd = &cobra.Command{
	Use:   "review [job]",
	Short: "Show field differences and commit correction decisions",
	Long: `Review lists, for every reference with a registry match, the field-level
differences, derived quick fixes, and confidence breakdown. With --accept
or --reject it commits a decision for one reference instead; --set
field=value narrows an acceptance to explicit corrections.`,
	Args: cobra.ExactArgs(1),
	RunE: runReview,
}

func runReview(cmd *cobra.Command, args []string) error {
	jobID := args[0]

	store, err := refstore.Open(storeConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()

	acceptID, _ := cmd.Flags().GetString("accept")
	rejectID, _ := cmd.Flags().GetString("reject")
	if acceptID != "" && rejectID != "" {
		return fmt.Errorf("--accept and --reject are mutually exclusive")
	}
	if acceptID != "" || rejectID != "" {
		return commitReview(ctx, cmd, store, acceptID, rejectID)
	}

	refs, err := store.ListReferences(ctx, jobID)
	if err != nil {
		return err
	}

	reviewed := 0
	for _, ref := range refs {
		diffs := reconcile.Differences(ref)
		if len(diffs) == 0 {
			continue
		}
		reviewed++

		fmt.Printf("\n%s  %s (score %d)\n", ref.ID, ref.Key, ref.ConfidenceScore)
		for _, d := range diffs {
			marker := " "
			if d.IsCritical {
				marker = "!"
			}
			fmt.Printf("  %s %-8s %q → %q\n", marker, d.Field, d.OriginalValue, d.CanonicalValue)
		}
		for _, fix := range reconcile.QuickFixes(ref) {
			fmt.Printf("    fix: %s (%s)\n", fix.Label, fix.ID)
		}
		for _, reason := range reconcile.ConfidenceBreakdown(ref) {
			fmt.Printf("    why: %s\n", reason)
		}
	}

	fmt.Printf("\n%d of %d references need review\n", reviewed, len(refs))
	return nil
}

func commitReview(ctx context.Context, cmd *cobra.Command, store *refstore.Store, acceptID, rejectID string) error {
	req := refstore.DecisionRequest{}
	if acceptID != "" {
		req.ReferenceID = acceptID
		req.Decision = types.DecisionAccepted

		sets, _ := cmd.Flags().GetStringSlice("set")
		if len(sets) > 0 {
			req.CorrectedFields = make(map[types.Field]string, len(sets))
			for _, kv := range sets {
				field, value, ok := strings.Cut(kv, "=")
				if !ok {
					return fmt.Errorf("invalid --set %q: expected field=value", kv)
				}
				req.CorrectedFields[types.Field(field)] = value
			}
		}
	} else {
		req.ReferenceID = rejectID
		req.Decision = types.DecisionRejected
	}

	updated, err := store.CommitDecision(ctx, req)
	if err != nil {
		return err
	}

	fmt.Printf("%s: %s, score %d\n", updated.ID, updated.Status, updated.ConfidenceScore)
	for _, issue := range updated.Issues {
		fmt.Printf("  %s\n", issue)
	}
	return nil
}

func init() {
	reviewCmd.Flags().String("accept", "", "reference id to accept corrections for")
	reviewCmd.Flags().String("reject", "", "reference id to reject corrections for")
	reviewCmd.Flags().StringSlice("set", nil, "explicit correction field=value (repeatable, with --accept)")
	rootCmd.AddCommand(reviewCmd)
}
