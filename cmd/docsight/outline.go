package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/docsight/internal/observability"
	"github.com/jonathan/docsight/internal/outline"
)

var (
	outlineInput  string
	outlineOutput string
)

var outlineCmd = &cobra.Command{
	Use:   "outline",
	Short: "Extract the title and heading outline of PDFs",
	Long: `Extract the title and H1-H3 heading outline of a PDF.

With a directory as --input, every PDF in it is outlined and written to
<name>.json under the --output directory. A file that fails produces an error
document and does not stop the others.`,
	RunE: runOutline,
}

func init() {
	outlineCmd.Flags().StringVarP(&outlineInput, "input", "i", "", "PDF file or directory of PDFs")
	outlineCmd.Flags().StringVarP(&outlineOutput, "output", "o", "", "Output JSON file, or directory in directory mode (default stdout)")
	_ = outlineCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(outlineCmd)
}

func runOutline(cmd *cobra.Command, _ []string) error {
	info, err := os.Stat(outlineInput)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	if info.IsDir() {
		return runOutlineDirectory(cmd)
	}

	ctx := cmd.Context()
	proc := newOutliner(log)

	start := time.Now()
	doc, outlineErr := proc.ProcessFile(ctx, outlineInput)

	if db, err := openStore(ctx, appConfig); err != nil {
		log.Warn("Persistence disabled", zap.Error(err))
	} else if db != nil {
		defer db.Close()
		recorded := &doc
		if outlineErr != nil {
			recorded = nil
		}
		if runID, err := db.RecordOutline(ctx, outlineInput, recorded, outlineErr); err != nil {
			log.Warn("Failed to record outline run", zap.Error(err))
		} else {
			log.Info("Recorded outline run", zap.String("run_id", runID.String()))
		}
	}

	if outlineErr != nil {
		return fmt.Errorf("failed to outline %s: %w", outlineInput, outlineErr)
	}

	if outlineOutput == "" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	}
	if err := outline.WriteJSON(outlineOutput, doc); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if verbose {
		observability.NewPrinter(out).PrintOutline(outlineInput, &doc, time.Since(start))
	}
	fmt.Fprintf(out, "Wrote outline with %d headings to %s\n", len(doc.Outline), outlineOutput)
	return nil
}

func runOutlineDirectory(cmd *cobra.Command) error {
	if outlineOutput == "" {
		return fmt.Errorf("--output directory is required when --input is a directory")
	}

	report, err := newOutliner(log).ProcessDirectory(cmd.Context(), outlineInput, outlineOutput, appConfig.Analysis.Workers)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, r := range report.Results {
		if r.Err != nil {
			fmt.Fprintf(out, "  ✗ %s: %v\n", r.Input, r.Err)
			continue
		}
		if verbose {
			fmt.Fprintf(out, "  ✓ %s → %s (%d headings)\n", r.Input, r.Output, r.Headings)
		}
	}
	fmt.Fprintf(out, "Outlined %d PDFs (%d failed) into %s\n", report.Succeeded+report.Failed, report.Failed, outlineOutput)
	return nil
}
