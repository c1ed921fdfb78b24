package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jonathan/docsight/internal/analysis"
	"github.com/jonathan/docsight/internal/config"
	"github.com/jonathan/docsight/internal/encoder"
	"github.com/jonathan/docsight/internal/extract"
	"github.com/jonathan/docsight/internal/outline"
	"github.com/jonathan/docsight/internal/ranking"
	"github.com/jonathan/docsight/internal/segment"
	"github.com/jonathan/docsight/internal/store"
)

func encoderConfig(c config.EncoderConfig) encoder.Config {
	return encoder.Config{
		Provider:     c.Provider,
		Model:        c.Model,
		BaseURL:      c.BaseURL,
		APIKey:       c.APIKey,
		Dimensions:   c.Dimensions,
		ProbeTimeout: c.ProbeTimeout(),
		Cache: encoder.RedisConfig{
			Addrs:    c.Cache.Addrs,
			Password: c.Cache.Password,
			TTL:      c.Cache.TTL(),
		},
	}
}

func analysisOptions(c config.AnalysisConfig) analysis.Options {
	return analysis.Options{
		MaxDocuments:    c.MaxDocuments,
		TopSections:     c.TopSections,
		TopSubsections:  c.TopSubsections,
		Workers:         c.Workers,
		DocumentTimeout: c.DocumentTimeout(),
	}
}

func segmentRules(cfg config.Config) segment.Rules {
	rules := segment.DefaultRules()
	if len(cfg.Segmenter.InstructionalMarkers) > 0 {
		rules.InstructionalMarkers = cfg.Segmenter.InstructionalMarkers
	}
	if cfg.Analysis.MaxPages > 0 {
		rules.MaxPages = cfg.Analysis.MaxPages
	}
	if cfg.Analysis.MaxSectionsPerDocument > 0 {
		rules.MaxSections = cfg.Analysis.MaxSectionsPerDocument
	}
	return rules
}

// newAnalyzer builds the persona pipeline. The encoder is selected and probed once here.
func newAnalyzer(ctx context.Context, cfg config.Config, logger *zap.Logger) *analysis.Analyzer {
	enc := encoder.Select(ctx, encoderConfig(cfg.Encoder), logger)
	return analysis.NewAnalyzer(
		extract.NewPDFExtractor(cfg.Analysis.MaxPages, logger),
		segment.NewSegmenter(segmentRules(cfg)),
		ranking.NewDefaultRanker(),
		enc,
		analysisOptions(cfg.Analysis),
		logger,
	)
}

// newOutliner builds the single-document pipeline. Outlines read every page.
func newOutliner(logger *zap.Logger) *outline.Processor {
	return outline.NewProcessor(extract.NewPDFExtractor(0, logger), outline.NewDefaultBuilder(), logger)
}

// openStore connects to PostgreSQL when a database URL is configured; otherwise it returns nil.
func openStore(ctx context.Context, cfg config.Config) (*store.DB, error) {
	if cfg.Database.URL == "" {
		return nil, nil
	}
	db, err := store.Connect(ctx, cfg.Database.URL)
	if err != nil {
		return nil, err
	}
	if err := db.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare database schema: %w", err)
	}
	return db, nil
}
