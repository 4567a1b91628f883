// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/reference-engine/internal/dedupe"
	"github.com/pdiddy/reference-engine/internal/refstore"
	"github.com/pdiddy/reference-engine/pkg/types"
)

var dedupeCmd = &cobra.Command{
	Use:   "dedupe [job]",
	Short: "Find duplicate groups in a job, optionally merging one",
	Long: `Dedupe clusters a job's references into duplicate groups by normalized
title and DOI, electing a canonical member per group. Grouping is a derived
view and is recomputed on every run. With --merge and --keep, the named
group is merged: every member except the kept one is deleted.

Groups are review material; nothing is merged without an explicit --merge.`,
	Args: cobra.ExactArgs(1),
	RunE: runDedupe,
}

func runDedupe(cmd *cobra.Command, args []string) error {
	jobID := args[0]

	store, err := refstore.Open(storeConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	refs, err := store.ListReferences(ctx, jobID)
	if err != nil {
		return err
	}

	groups, _ := dedupe.NewGrouper(nil).GroupWithSummary(refs, os.Stdout)

	ignoreIDs, _ := cmd.Flags().GetStringSlice("ignore")
	if len(ignoreIDs) > 0 {
		ignored := dedupe.IgnoreSet{}
		for _, id := range ignoreIDs {
			ignored.Ignore(id)
		}
		groups = ignored.Filter(groups)
	}

	mergeID, _ := cmd.Flags().GetString("merge")
	if mergeID == "" {
		printGroups(groups)
		return nil
	}

	keepID, _ := cmd.Flags().GetString("keep")
	var target *types.DuplicateGroup
	for _, g := range groups {
		if g.ID == mergeID {
			target = g
			break
		}
	}
	if target == nil {
		return fmt.Errorf("group %s not found in this run", mergeID)
	}
	if keepID == "" {
		keepID = target.CanonicalID
	}

	idsToDelete, err := dedupe.MergeGroup(target, keepID)
	if err != nil {
		return err
	}
	deleted, err := store.CommitMerge(ctx, refstore.MergeRequest{
		GroupID:     target.ID,
		PrimaryID:   keepID,
		IDsToDelete: idsToDelete,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Merged group %s: kept %s, deleted %d\n", target.ID, keepID, deleted)
	return nil
}

func printGroups(groups []*types.DuplicateGroup) {
	for _, g := range groups {
		marker := ""
		if g.HasIssues {
			marker = "  [has issues]"
		}
		fmt.Printf("\n%s%s\n", g.ID, marker)
		for _, m := range g.Members {
			star := " "
			if m.ID == g.CanonicalID {
				star = "*"
			}
			fmt.Printf("  %s %-12s  %s (%s)\n",
				star, m.ID, m.Display(types.FieldTitle), m.Display(types.FieldDOI))
		}
	}
}

func init() {
	dedupeCmd.Flags().String("merge", "", "group id to merge")
	dedupeCmd.Flags().String("keep", "", "reference id to keep when merging (default: the canonical member)")
	dedupeCmd.Flags().StringSlice("ignore", nil, "group ids to exclude from this run")
	rootCmd.AddCommand(dedupeCmd)
}
