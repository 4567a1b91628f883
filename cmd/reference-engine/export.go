// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/reference-engine/internal/export"
	"github.com/pdiddy/reference-engine/internal/refstore"
	"github.com/pdiddy/reference-engine/pkg/types"
)

var exportCmd = &cobra.Command{
	Use:   "export [job]",
	Short: "Write a job's references to a file in an export format",
	Long: `Export serializes a job's references, in stored order, into a complete
file body: bibtex, ris, csv, json, txt/word, or endnote. The file is named
<basename>.<ext> under the output directory.

With --history, the job history is exported as CSV instead of a job.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	history, _ := cmd.Flags().GetBool("history")

	store, err := refstore.Open(storeConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()

	outDir, _ := cmd.Flags().GetString("out")
	if outDir == "" {
		outDir = viper.GetString("export.output_dir")
	}
	if outDir == "" {
		outDir = "output"
	}
	basename, _ := cmd.Flags().GetString("basename")

	var body, name string
	if history {
		rows, err := store.JobHistory(ctx)
		if err != nil {
			return err
		}
		body = export.JobHistoryCSV(rows)
		if basename == "" {
			basename = "job-history"
		}
		name = export.Filename(basename, types.FormatCSV)
	} else {
		if len(args) != 1 {
			return fmt.Errorf("job id required unless --history is set")
		}
		refs, err := store.ListReferences(ctx, args[0])
		if err != nil {
			return err
		}

		style, _ := cmd.Flags().GetString("style")
		serializer := export.Serializer{Style: types.CitationStyle(style)}
		body, err = serializer.Serialize(refs, types.ExportFormat(format))
		if err != nil {
			return err
		}
		name = export.Filename(basename, types.ExportFormat(format))
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	path := filepath.Join(outDir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		return fmt.Errorf("writing export: %w", err)
	}

	fmt.Printf("Exported to %s\n", path)
	return nil
}

func init() {
	exportCmd.Flags().String("format", "bibtex", "export format: bibtex, ris, csv, json, txt, word, endnote")
	exportCmd.Flags().String("style", "", "citation style for txt/word exports (default apa)")
	exportCmd.Flags().String("out", "", "output directory (default: export.output_dir or ./output)")
	exportCmd.Flags().String("basename", "", "output file basename (default \"references\")")
	exportCmd.Flags().Bool("history", false, "export the job history as CSV")
	rootCmd.AddCommand(exportCmd)
}
