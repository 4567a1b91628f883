// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pdiddy/reference-engine/internal/ingest"
	"github.com/pdiddy/reference-engine/internal/refstore"
)

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Load a reference list into a new job",
	Long: `Import reads a YAML or JSON reference list, normalizes every record into
the canonical shape (snake_case and camelCase field variants both accepted),
assigns missing ids and citation keys, and stores the result as a new job.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	path := args[0]

	refs, err := ingest.LoadFile(path)
	if err != nil {
		return err
	}

	jobID, _ := cmd.Flags().GetString("job")
	if jobID == "" {
		jobID = uuid.NewString()
	}

	store, err := refstore.Open(storeConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.CreateJob(ctx, refstore.Job{ID: jobID, Filename: filepath.Base(path)}); err != nil {
		return err
	}
	if err := store.SaveReferences(ctx, jobID, refs); err != nil {
		return err
	}

	fmt.Printf("Imported %d references into job %s\n", len(refs), jobID)
	return nil
}

func init() {
	importCmd.Flags().String("job", "", "job id (default: a generated uuid)")
	rootCmd.AddCommand(importCmd)
}
