package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/docsight/internal/outline"
	"github.com/jonathan/docsight/internal/types"
)

var createSampleOutput string

var createSampleCmd = &cobra.Command{
	Use:   "create-sample",
	Short: "Write a sample analysis request",
	Long:  `Write a sample analysis request in the standard shape. Edit the document paths, then pass it to analyze.`,
	RunE:  runCreateSample,
}

func init() {
	createSampleCmd.Flags().StringVarP(&createSampleOutput, "output", "o", "sample_request.json", "Path to write the sample request")
	rootCmd.AddCommand(createSampleCmd)
}

func sampleRequest() *types.AnalysisRequest {
	return &types.AnalysisRequest{
		Persona:     "Travel Planner",
		JobToBeDone: "Plan a trip of 4 days for a group of 10 college friends.",
		Documents: []types.DocumentRef{
			{Name: "South of France - Cities.pdf", Path: "input/South of France - Cities.pdf"},
			{Name: "South of France - Cuisine.pdf", Path: "input/South of France - Cuisine.pdf"},
			{Name: "South of France - Things to Do.pdf", Path: "input/South of France - Things to Do.pdf"},
		},
	}
}

func runCreateSample(cmd *cobra.Command, _ []string) error {
	if err := outline.WriteJSON(createSampleOutput, sampleRequest()); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Sample request written to %s\n", createSampleOutput)
	return nil
}
