package report

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/newpennine/report-engine/pkg/models/domain"
	"github.com/rs/zerolog"
)

// Generator renders fully resolved report data into one output format.
// Implementations live in the export package.
type Generator interface {
	Format() domain.Format
	Generate(data *domain.ProcessedReportData, config *domain.ReportConfig) (*domain.Payload, error)
}

// Engine orchestrates report generation: filter validation, cache-aware
// parallel section fetches, summary aggregation and format dispatch.
// Registry and Cache are injected so tests can substitute fresh instances.
type Engine struct {
	registry    Registry
	cache       *Cache
	generators  map[domain.Format]Generator
	calculators Calculators
	now         func() time.Time
}

// NewEngine wires an engine from its collaborators. calculators may be nil
// when no report uses custom summary fields.
func NewEngine(registry Registry, cache *Cache, calculators Calculators, generators ...Generator) *Engine {
	byFormat := make(map[domain.Format]Generator, len(generators))
	for _, g := range generators {
		byFormat[g.Format()] = g
	}
	return &Engine{
		registry:    registry,
		cache:       cache,
		generators:  byFormat,
		calculators: calculators,
		now:         time.Now,
	}
}

// Generate produces the report payload for the requested format and filter
// values. Either a complete payload is returned or an error; there is no
// partial output and nothing is retried. Every failure is logged with
// context and wrapped in a GenerationError; the taxonomy errors
// (ConfigurationError, FormatError, ValidationError, DataSourceError)
// remain reachable via errors.As.
func (e *Engine) Generate(
	ctx context.Context,
	reportID string,
	format domain.Format,
	filters domain.FilterValues,
) (*domain.Payload, error) {
	logger := zerolog.Ctx(ctx).With().
		Str("report", reportID).
		Str("format", string(format)).
		Logger()

	payload, err := e.generate(ctx, reportID, format, filters)
	if err != nil {
		logger.Error().Err(err).Msg("report generation failed")
		return nil, &GenerationError{ReportID: reportID, Err: err}
	}

	logger.Info().
		Int("bytes", len(payload.Data)).
		Msg("report generated")
	return payload, nil
}

func (e *Engine) generate(
	ctx context.Context,
	reportID string,
	format domain.Format,
	filters domain.FilterValues,
) (*domain.Payload, error) {
	reg, err := e.registry.Get(reportID)
	if err != nil {
		return nil, err
	}
	config := reg.Config

	if format == "" {
		format = config.DefaultFormat
	}
	if !config.SupportsFormat(format) {
		return nil, &FormatError{ReportID: reportID, Format: string(format)}
	}
	generator, ok := e.generators[format]
	if !ok {
		return nil, &FormatError{ReportID: reportID, Format: string(format)}
	}

	filters = ApplyDefaults(config, filters)
	if err := ValidateFilters(config, filters); err != nil {
		return nil, err
	}

	sections, err := e.fetchSections(ctx, reg, filters)
	if err != nil {
		return nil, err
	}

	summary, err := Aggregate(config, sections, filters, e.calculators)
	if err != nil {
		return nil, err
	}

	total := 0
	for _, records := range sections {
		total += len(records)
	}

	data := &domain.ProcessedReportData{
		Metadata: domain.ReportMetadata{
			ReportID:       config.ID,
			ReportName:     config.Name,
			GeneratedAt:    e.now(),
			AppliedFilters: filters,
			TotalRecords:   total,
		},
		Sections: sections,
		Summary:  summary,
	}

	return generator.Generate(data, config)
}

// fetchSections resolves every section's records, consulting the cache
// first. On a miss all sections fetch concurrently and fail fast: the first
// section error aborts the whole report. The aggregate record set is
// written back under the same fingerprint.
func (e *Engine) fetchSections(
	ctx context.Context,
	reg *Registration,
	filters domain.FilterValues,
) (map[string][]domain.Record, error) {
	fingerprint, err := Fingerprint(reg.Config.ID, filters)
	if err != nil {
		return nil, err
	}

	if cached, hit := e.cache.Get(fingerprint); hit {
		zerolog.Ctx(ctx).Debug().
			Str("report", reg.Config.ID).
			Msg("serving section data from cache")
		return cached, nil
	}

	sections := make(map[string][]domain.Record, len(reg.Config.Sections))
	results := make([][]domain.Record, len(reg.Config.Sections))

	g, groupCtx := errgroup.WithContext(ctx)
	for i := range reg.Config.Sections {
		section := reg.Config.Sections[i]
		source, err := reg.Source(&section)
		if err != nil {
			return nil, err
		}

		idx := i
		g.Go(func() error {
			records, err := fetchSection(groupCtx, &section, source, filters)
			if err != nil {
				return err
			}
			results[idx] = records
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, section := range reg.Config.Sections {
		sections[section.ID] = results[i]
	}

	e.cache.Put(fingerprint, sections)
	return sections, nil
}

func fetchSection(
	ctx context.Context,
	section *domain.SectionDescriptor,
	source DataSource,
	filters domain.FilterValues,
) ([]domain.Record, error) {
	records, err := source.Fetch(ctx, filters)
	if err != nil {
		return nil, &DataSourceError{SectionID: section.ID, Source: source.ID(), Err: err}
	}

	if transformer, ok := source.(Transformer); ok {
		records, err = transformer.Transform(records)
		if err != nil {
			return nil, &DataSourceError{
				SectionID: section.ID,
				Source:    source.ID(),
				Err:       fmt.Errorf("transform: %w", err),
			}
		}
	}

	if validator, ok := source.(Validator); ok {
		if !validator.Validate(records) {
			return nil, &DataSourceError{
				SectionID: section.ID,
				Source:    source.ID(),
				Err:       fmt.Errorf("records failed validation"),
			}
		}
	}

	return records, nil
}
