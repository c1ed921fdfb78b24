package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// SaveArtifact stores a JSON artifact for a run
func (db *DB) SaveArtifact(ctx context.Context, runID uuid.UUID, step string, content any) error {
	jsonBytes, err := json.Marshal(content)
	if err != nil {
		return fmt.Errorf("failed to marshal artifact: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO run_artifacts (run_id, step, content)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (run_id, step) DO UPDATE SET content = $3, created_at = NOW()`,
		runID, step, jsonBytes,
	)
	if err != nil {
		return fmt.Errorf("failed to save artifact %s: %w", step, err)
	}
	return nil
}

// GetArtifact retrieves a JSON artifact by run ID and step. It returns nil when absent.
func (db *DB) GetArtifact(ctx context.Context, runID uuid.UUID, step string) ([]byte, error) {
	var content []byte
	err := db.pool.QueryRow(ctx,
		`SELECT content FROM run_artifacts WHERE run_id = $1 AND step = $2`,
		runID, step,
	).Scan(&content)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get artifact %s: %w", step, err)
	}
	return content, nil
}

// SaveDocuments stores the per-document outcomes of a run in one batch.
func (db *DB) SaveDocuments(ctx context.Context, runID uuid.UUID, docs []DocumentRecord) error {
	if len(docs) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, d := range docs {
		var errText *string
		if d.Error != "" {
			errText = &d.Error
		}
		batch.Queue(
			`INSERT INTO run_documents (run_id, name, content_hash, section_count, error, duration_ms)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 ON CONFLICT (run_id, name) DO UPDATE
			 SET content_hash = $3, section_count = $4, error = $5, duration_ms = $6`,
			runID, d.Name, d.ContentHash, d.SectionCount, errText, d.Duration.Milliseconds(),
		)
	}

	if err := db.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to save documents: %w", err)
	}
	return nil
}

// ListDocuments returns the documents stored for a run, ordered by name.
func (db *DB) ListDocuments(ctx context.Context, runID uuid.UUID) ([]DocumentRecord, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT name, content_hash, section_count, COALESCE(error, ''), duration_ms
		 FROM run_documents WHERE run_id = $1 ORDER BY name`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	docs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (DocumentRecord, error) {
		var d DocumentRecord
		var ms int64
		if err := row.Scan(&d.Name, &d.ContentHash, &d.SectionCount, &d.Error, &ms); err != nil {
			return d, err
		}
		d.Duration = msToDuration(ms)
		return d, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan documents: %w", err)
	}
	return docs, nil
}
