package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/docsight/internal/analysis"
	"github.com/jonathan/docsight/internal/config"
	"github.com/jonathan/docsight/internal/observability"
	"github.com/jonathan/docsight/internal/outline"
	internalschemas "github.com/jonathan/docsight/internal/schemas"
	"github.com/jonathan/docsight/internal/types"
	"github.com/jonathan/docsight/schemas"
)

var (
	analyzeInput     string
	analyzeOutput    string
	analyzeChallenge bool
	analyzeBaseDir   string
	analyzeEncoder   string
	analyzeWorkers   int
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Rank document sections for a persona and a job to be done",
	Long: `Read an analysis request, extract and segment every listed PDF, and rank all
sections together by relevance to the persona and the task.

The request is either the standard shape {persona, job_to_be_done, documents[{name, path}]}
or the challenge shape {persona{role}, job_to_be_done{task}, documents[{filename}]}, whose
file names are resolved under --base-dir. The challenge shape is detected automatically;
--challenge forces it.`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeInput, "input", "i", "", "Path to the request JSON file")
	analyzeCmd.Flags().StringVarP(&analyzeOutput, "output", "o", "", "Path to the output JSON file (default stdout)")
	analyzeCmd.Flags().BoolVar(&analyzeChallenge, "challenge", false, "Read the input as the challenge shape")
	analyzeCmd.Flags().StringVar(&analyzeBaseDir, "base-dir", "input", "Directory holding the PDFs named by a challenge input")
	analyzeCmd.Flags().StringVar(&analyzeEncoder, "encoder", "", "Encoder provider override (lexical, openai, gemini)")
	analyzeCmd.Flags().IntVar(&analyzeWorkers, "workers", 0, "Documents processed concurrently (default from config)")
	_ = analyzeCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	cfg, err := analyzeConfig()
	if err != nil {
		return err
	}

	req, err := loadRequest(analyzeInput, analyzeChallenge, analyzeBaseDir)
	if err != nil {
		return err
	}

	var onProgress analysis.ProgressCallback
	if verbose && analyzeOutput != "" {
		onProgress = func(e analysis.ProgressEvent) {
			if e.Document != "" {
				fmt.Fprintf(out, "  [%s] %s: %s\n", e.Step, e.Document, e.Message)
				return
			}
			fmt.Fprintf(out, "  [%s] %s\n", e.Step, e.Message)
		}
	}

	analyzer := newAnalyzer(ctx, cfg, log)
	result, err := analyzer.Analyze(ctx, req, onProgress)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	if err := internalschemas.ValidateValue(schemas.AnalysisOutput, result.Output); err != nil {
		var validationErr *internalschemas.ValidationError
		if errors.As(err, &validationErr) {
			return fmt.Errorf("analysis output does not validate against schema: %w", err)
		}
		log.Warn("Could not validate output against schema", zap.Error(err))
	}

	if db, err := openStore(ctx, cfg); err != nil {
		log.Warn("Persistence disabled", zap.Error(err))
	} else if db != nil {
		defer db.Close()
		if runID, err := db.RecordAnalysis(ctx, req, result); err != nil {
			log.Warn("Failed to record analysis run", zap.Error(err))
		} else {
			log.Info("Recorded analysis run", zap.String("run_id", runID.String()))
		}
	}

	if analyzeOutput == "" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result.Output)
	}

	if dir := filepath.Dir(analyzeOutput); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", dir, err)
		}
	}
	if err := outline.WriteJSON(analyzeOutput, result.Output); err != nil {
		return err
	}

	if verbose {
		p := observability.NewPrinter(out)
		p.PrintAnalysisSummary(result.Output)
		p.PrintRankedSections(result.Ranked)
		p.PrintDocumentErrors(result.Output.Metadata.Errors)
	}
	fmt.Fprintf(out, "Ranked %d sections from %d documents\n", len(result.Ranked), len(req.Documents))
	fmt.Fprintf(out, "Output: %s\n", analyzeOutput)
	return nil
}

// analyzeConfig applies the command's flags over the loaded configuration.
func analyzeConfig() (config.Config, error) {
	flags := config.Config{
		Encoder:  config.EncoderConfig{Provider: analyzeEncoder},
		Analysis: config.AnalysisConfig{Workers: analyzeWorkers},
	}
	cfg := flags.MergeWithDefaults(appConfig)
	if analyzeEncoder != "" && analyzeEncoder != appConfig.Encoder.Provider {
		cfg.Encoder.APIKey = ""
		applyEnv(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// loadRequest reads a request file in either input shape.
// Schema mismatches are logged; the analyzer's own validation decides whether the request is usable.
func loadRequest(path string, challenge bool, baseDir string) (*types.AnalysisRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read request file %s: %w", path, err)
	}

	if !challenge {
		challenge = isChallengeShape(data)
	}

	schemaName := schemas.AnalysisRequest
	if challenge {
		schemaName = schemas.ChallengeInput
	}
	if err := internalschemas.ValidateBundled(schemaName, data); err != nil {
		log.Warn("Request does not match schema", zap.String("schema", schemaName), zap.Error(err))
	}

	if challenge {
		var in types.ChallengeInput
		if err := json.Unmarshal(data, &in); err != nil {
			return nil, fmt.Errorf("failed to parse challenge input %s: %w", path, err)
		}
		return in.ToRequest(baseDir), nil
	}

	var req types.AnalysisRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request %s: %w", path, err)
	}
	return &req, nil
}

// isChallengeShape reports whether the persona field is an object, as in the challenge input.
func isChallengeShape(data []byte) bool {
	var probe struct {
		Persona json.RawMessage `json:"persona"`
	}
	if err := json.Unmarshal(data, &probe); err != nil || len(probe.Persona) == 0 {
		return false
	}
	return probe.Persona[0] == '{'
}
