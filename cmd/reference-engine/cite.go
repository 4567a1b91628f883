// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/reference-engine/internal/citation"
	"github.com/pdiddy/reference-engine/internal/refstore"
	"github.com/pdiddy/reference-engine/pkg/types"
)

var citeCmd = &cobra.Command{
	Use:   "cite [reference-id]",
	Short: "Format one reference in a citation style",
	Long: `Cite renders a stored reference as an in-text citation and a bibliography
entry. Unknown styles fall back to LaTeX \cite behavior.

Supported styles: apa, harvard, chicago, mla, ieee, vancouver, plain,
alpha, unsrt, abbrv, natbib, biblatex.`,
	Args: cobra.ExactArgs(1),
	RunE: runCite,
}

func runCite(cmd *cobra.Command, args []string) error {
	style, _ := cmd.Flags().GetString("style")

	store, err := refstore.Open(storeConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	ref, err := store.GetReference(context.Background(), args[0])
	if err != nil {
		return err
	}

	c := citation.Format(ref, types.CitationStyle(style))
	fmt.Printf("in-text:      %s\n", c.InText)
	if c.Extra != "" {
		fmt.Printf("in-text alt:  %s\n", c.Extra)
	}
	fmt.Printf("bibliography: %s\n", c.Bibliography)
	return nil
}

func init() {
	citeCmd.Flags().String("style", "apa", "citation style")
	rootCmd.AddCommand(citeCmd)
}
