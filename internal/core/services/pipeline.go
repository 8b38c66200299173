package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/reviewlens/reviewlens-cli/internal/core/domain"
	"github.com/reviewlens/reviewlens-cli/internal/core/ports/driven"
	"github.com/reviewlens/reviewlens-cli/internal/core/ports/driving"
	"github.com/reviewlens/reviewlens-cli/internal/logger"
)

// Ensure Pipeline implements the interface.
var _ driving.PipelineService = (*Pipeline)(nil)

// Pipeline runs the full batch: source records are validated,
// cleaned, deduplicated, enriched and inserted into the store, which
// is then stamped with metadata and persisted. Each run is a whole
// rebuild.
type Pipeline struct {
	cfg       domain.Config
	store     driven.ReviewStore
	validator *Validator
	cleaner   *Cleaner
	enricher  *Enricher
}

// NewPipeline creates a pipeline over the given store.
func NewPipeline(cfg domain.Config, store driven.ReviewStore) *Pipeline {
	return &Pipeline{
		cfg:       cfg,
		store:     store,
		validator: NewValidator(),
		cleaner:   NewCleaner(cfg),
		enricher:  NewEnricher(cfg),
	}
}

// Build processes every source and returns the run's counters.
// Per-record failures are counted and skipped; store-level failures
// abort the batch with context attached.
func (p *Pipeline) Build(ctx context.Context, sources []driven.RecordSource) (*domain.BuildReport, error) {
	started := time.Now()
	report := domain.NewBuildReport(uuid.NewString())

	logger.Section("Pipeline Build")
	logger.Info("Build %s over %d sources", report.BuildID, len(sources))

	// Unknown categories have no table to land in; refuse up front
	// rather than partway through a rebuild.
	for _, src := range sources {
		if !p.cfg.KnownCategory(src.Category()) {
			return nil, fmt.Errorf("source category %q is not configured", src.Category())
		}
	}

	if err := p.store.Reset(ctx); err != nil {
		return nil, fmt.Errorf("reset store: %w", err)
	}
	if err := p.createTables(ctx); err != nil {
		return nil, err
	}

	dedup := NewDeduplicator()
	for _, src := range sources {
		if err := p.processSource(ctx, src, dedup, report); err != nil {
			return nil, err
		}
	}

	meta := domain.Metadata{
		RecordCount: report.TotalInserted(),
		Categories:  p.cfg.Categories,
		BuiltAt:     time.Now().UTC().Format(time.RFC3339),
		BuildID:     report.BuildID,
	}
	if err := p.store.PutMetadata(ctx, meta); err != nil {
		return nil, fmt.Errorf("write metadata: %w", err)
	}

	if err := p.store.Persist(ctx); err != nil {
		return nil, fmt.Errorf("persist store: %w", err)
	}

	report.Elapsed = time.Since(started)
	logger.Info("Build complete: %d inserted, %d rejected, %d duplicates in %s",
		report.TotalInserted(), report.TotalRejected(), report.Duplicates, report.Elapsed)

	return report, nil
}

func (p *Pipeline) createTables(ctx context.Context) error {
	if err := p.store.CreateTable(ctx, domain.MasterTable); err != nil {
		return fmt.Errorf("create table %s: %w", domain.MasterTable, err)
	}
	for _, category := range p.cfg.Categories {
		table, _ := p.cfg.TableFor(category)
		if err := p.store.CreateTable(ctx, table); err != nil {
			return fmt.Errorf("create table %s: %w", table, err)
		}
	}
	return nil
}

// processSource drains one record source through the stage chain.
func (p *Pipeline) processSource(
	ctx context.Context,
	src driven.RecordSource,
	dedup *Deduplicator,
	report *domain.BuildReport,
) error {
	category := src.Category()
	table, _ := p.cfg.TableFor(category)

	logger.Section("Source: " + category)

	records, errs := src.Records(ctx)
	for records != nil || errs != nil {
		select {
		case rec, ok := <-records:
			if !ok {
				records = nil
				continue
			}
			report.RecordsRead++
			if err := p.processRecord(ctx, rec, category, table, dedup, report); err != nil {
				return err
			}

		case srcErr, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			// Malformed source lines are recoverable; drop and count.
			report.SourceErrors++
			logger.Warn("source %s: %v", category, srcErr)

		case <-ctx.Done():
			return ctx.Err()
		}
	}

	logger.Info("%s: %d documents inserted", category, report.Inserted[table])
	return nil
}

// processRecord runs one record through validate, clean, dedup,
// enrich and insert. Only store failures propagate.
func (p *Pipeline) processRecord(
	ctx context.Context,
	rec domain.RawRecord,
	category, table string,
	dedup *Deduplicator,
	report *domain.BuildReport,
) error {
	if err := p.validator.Validate(rec); err != nil {
		report.Rejected[RejectReason(err)]++
		logger.Debug("rejected: %v", err)
		return nil
	}

	cleaned := p.cleaner.Clean(rec)

	if dedup.Observe(cleaned) {
		report.Duplicates++
		return nil
	}

	review, err := p.enricher.Enrich(cleaned, category)
	if err != nil {
		if errors.Is(err, domain.ErrTimestampConversion) {
			report.ConversionErrors++
			logger.Debug("dropped: %v", err)
			return nil
		}
		return fmt.Errorf("enrich record for %s: %w", category, err)
	}

	if err := p.store.Insert(ctx, table, *review); err != nil {
		// A key collision here means two distinct raw keys cleaned to
		// the same value; treat it like any other duplicate.
		if errors.Is(err, domain.ErrDuplicateKey) {
			report.Duplicates++
			return nil
		}
		return fmt.Errorf("insert into %s: %w", table, err)
	}

	report.Accepted++
	report.Inserted[table]++
	return nil
}
