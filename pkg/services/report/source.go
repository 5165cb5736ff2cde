package report

import (
	"context"

	"github.com/newpennine/report-engine/pkg/models/domain"
)

// DataSource supplies raw records for a section given the request's filter
// values. Implementations are owned by whoever registers them; the engine
// treats the records as opaque rows.
type DataSource interface {
	ID() string
	Fetch(ctx context.Context, filters domain.FilterValues) ([]domain.Record, error)
}

// Transformer is an optional DataSource upgrade for shaping fetched records
// before aggregation and rendering.
type Transformer interface {
	Transform(records []domain.Record) ([]domain.Record, error)
}

// Validator is an optional DataSource upgrade for a sanity check over the
// transformed records. Returning false aborts the generation with a
// DataSourceError for the section.
type Validator interface {
	Validate(records []domain.Record) bool
}

// SourceFunc adapts a plain function to the DataSource interface.
type SourceFunc struct {
	Name string
	Fn   func(ctx context.Context, filters domain.FilterValues) ([]domain.Record, error)
}

func (s SourceFunc) ID() string { return s.Name }

func (s SourceFunc) Fetch(ctx context.Context, filters domain.FilterValues) ([]domain.Record, error) {
	return s.Fn(ctx, filters)
}
