// Package importer runs the wine list import pipeline: extract, parse,
// deduplicate, store, emit.
package importer

import (
	"context"
	"fmt"

	"github.com/Gobusters/ectologger"

	"github.com/atsuyamaru/wine-ec-email-composer/internal/repositories/wine"
	"github.com/atsuyamaru/wine-ec-email-composer/pkg/dedup"
	"github.com/atsuyamaru/wine-ec-email-composer/pkg/events"
	"github.com/atsuyamaru/wine-ec-email-composer/pkg/extraction"
	"github.com/atsuyamaru/wine-ec-email-composer/pkg/fingerprint"
	"github.com/atsuyamaru/wine-ec-email-composer/pkg/matching"
	"github.com/atsuyamaru/wine-ec-email-composer/pkg/merging"
	"github.com/atsuyamaru/wine-ec-email-composer/pkg/models"
	"github.com/atsuyamaru/wine-ec-email-composer/pkg/tracing"
)

// DefaultThreshold is the similarity threshold used when neither the
// request nor the service configuration sets one.
const DefaultThreshold = 0.5

// Config carries the pipeline defaults applied when a request leaves them
// unset.
type Config struct {
	// DefaultThreshold is the similarity threshold used for requests that
	// do not set one.
	DefaultThreshold float64
	// DebugTraces forces the deduplication trace on for every import.
	DebugTraces bool
}

// Service wires the import pipeline stages together.
type Service struct {
	cfg          Config
	parser       extraction.Parser
	deduplicator *dedup.Deduplicator
	scorer       *matching.Scorer
	merger       *merging.Merger
	repo         *wine.Repository
	emitter      *events.Emitter
	logger       ectologger.Logger
}

// NewService creates the import pipeline service. The emitter may be nil
// when event publishing is disabled.
func NewService(cfg Config, parser extraction.Parser, deduplicator *dedup.Deduplicator, repo *wine.Repository, emitter *events.Emitter, logger ectologger.Logger) *Service {
	if cfg.DefaultThreshold <= 0 {
		cfg.DefaultThreshold = DefaultThreshold
	}
	return &Service{
		cfg:          cfg,
		parser:       parser,
		deduplicator: deduplicator,
		scorer:       matching.NewScorer(),
		merger:       merging.NewMerger(),
		repo:         repo,
		emitter:      emitter,
		logger:       logger,
	}
}

// ImportPDF extracts text from a PDF document and runs the text import.
func (s *Service) ImportPDF(ctx context.Context, data []byte, sourceFile string, threshold float64, debug bool) (*models.ImportResult, error) {
	ctx, span := tracing.StartSpan(ctx, "importer.Service.ImportPDF")
	defer span.End()

	text, err := extraction.ExtractPDFText(ctx, data)
	if err != nil {
		return nil, err
	}

	return s.ImportText(ctx, text, sourceFile, threshold, debug)
}

// ImportText parses wine records out of raw wine list text, deduplicates
// them against each other and against the stored library, and persists the
// result. Records whose fingerprint already exists in the library merge
// into the stored row instead of creating a duplicate.
func (s *Service) ImportText(ctx context.Context, text, sourceFile string, threshold float64, debug bool) (*models.ImportResult, error) {
	ctx, span := tracing.StartSpan(ctx, "importer.Service.ImportText")
	defer span.End()

	if threshold <= 0 {
		threshold = s.cfg.DefaultThreshold
	}
	debug = debug || s.cfg.DebugTraces

	log := s.logger.WithContext(ctx).WithFields(map[string]any{
		"source_file": sourceFile,
		"threshold":   threshold,
	})

	parsed, err := s.parser.ParseWineList(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse wine list: %w", err)
	}

	for i := range parsed {
		parsed[i].SourceFile = sourceFile
	}

	deduped, trace := s.deduplicator.Deduplicate(ctx, parsed, threshold, debug)

	result := &models.ImportResult{
		SourceFile: sourceFile,
		Parsed:     len(parsed),
		Trace:      trace,
	}

	for _, record := range deduped {
		stored, err := s.storeRecord(ctx, record)
		if err != nil {
			return nil, err
		}
		result.Wines = append(result.Wines, *stored)
	}
	result.Stored = len(result.Wines)

	log.WithFields(map[string]any{
		"parsed": result.Parsed,
		"stored": result.Stored,
	}).Info("Import complete")

	return result, nil
}

// storeRecord persists one deduplicated record. An existing row with the
// same fingerprint absorbs the new record through the merge policy.
func (s *Service) storeRecord(ctx context.Context, record models.WineRecord) (*models.StoredWine, error) {
	existing, err := s.repo.GetByFingerprint(ctx, fingerprint.ForRecord(record))
	if err != nil {
		return nil, err
	}

	if existing == nil {
		stored, err := s.repo.Create(ctx, record)
		if err != nil {
			return nil, err
		}
		if s.emitter != nil {
			if err := s.emitter.EmitWineImported(ctx, stored); err != nil {
				s.logger.WithContext(ctx).WithError(err).Warn("Import event not published")
			}
		}
		return stored, nil
	}

	merged, _ := s.merger.Merge(existing.WineRecord, record)
	stored, err := s.repo.Update(ctx, existing.ID, merged)
	if err != nil {
		return nil, err
	}
	if s.emitter != nil {
		names := []string{existing.Name, record.Name}
		if err := s.emitter.EmitWineMerged(ctx, stored, names); err != nil {
			s.logger.WithContext(ctx).WithError(err).Warn("Merge event not published")
		}
	}
	return stored, nil
}
