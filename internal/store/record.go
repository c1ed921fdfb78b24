package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonathan/docsight/internal/analysis"
	"github.com/jonathan/docsight/internal/types"
)

// RecordAnalysis stores a finished persona run: the request, the output and one record per document.
// Documents that cannot be hashed are stored with an empty hash.
func (db *DB) RecordAnalysis(ctx context.Context, req *types.AnalysisRequest, result *analysis.Result) (uuid.UUID, error) {
	runID, err := db.CreateRun(ctx, RunInput{
		Mode:        ModePersona,
		Persona:     req.Persona,
		JobToBeDone: req.JobToBeDone,
		Encoder:     result.Output.Metadata.Encoder,
	})
	if err != nil {
		return uuid.Nil, err
	}

	if err := db.SaveArtifact(ctx, runID, StepRequest, req); err != nil {
		return runID, err
	}
	if err := db.SaveArtifact(ctx, runID, StepOutput, result.Output); err != nil {
		return runID, err
	}
	if err := db.SaveDocuments(ctx, runID, documentRecords(result.Documents)); err != nil {
		return runID, err
	}

	errCount := len(result.Output.Metadata.Errors)
	if err := db.CompleteRun(ctx, runID, runStatus(errCount), errCount); err != nil {
		return runID, err
	}
	return runID, nil
}

// RecordOutline stores a single-document outline run.
func (db *DB) RecordOutline(ctx context.Context, path string, outline *types.Outline, outlineErr error) (uuid.UUID, error) {
	runID, err := db.CreateRun(ctx, RunInput{Mode: ModeOutline})
	if err != nil {
		return uuid.Nil, err
	}

	hash, _ := HashFile(path)
	rec := DocumentRecord{Name: path, ContentHash: hash}
	if outline != nil {
		rec.SectionCount = len(outline.Outline)
		if err := db.SaveArtifact(ctx, runID, StepOutline, outline); err != nil {
			return runID, err
		}
	}
	errCount := 0
	if outlineErr != nil {
		rec.Error = outlineErr.Error()
		errCount = 1
	}
	if err := db.SaveDocuments(ctx, runID, []DocumentRecord{rec}); err != nil {
		return runID, err
	}

	status := StatusCompleted
	if outlineErr != nil {
		status = StatusFailed
	}
	if err := db.CompleteRun(ctx, runID, status, errCount); err != nil {
		return runID, fmt.Errorf("outline run %s: %w", runID, err)
	}
	return runID, nil
}

func documentRecords(docs []analysis.DocumentResult) []DocumentRecord {
	records := make([]DocumentRecord, 0, len(docs))
	for _, d := range docs {
		hash, _ := HashFile(d.Path)
		rec := DocumentRecord{
			Name:         d.Name,
			ContentHash:  hash,
			SectionCount: len(d.Sections),
			Duration:     d.Duration,
		}
		if d.Err != nil {
			rec.Error = d.Err.Error()
			rec.SectionCount = 0
		}
		records = append(records, rec)
	}
	return records
}

func runStatus(errCount int) string {
	if errCount > 0 {
		return StatusPartial
	}
	return StatusCompleted
}
