package report

import (
	"fmt"

	"github.com/newpennine/report-engine/pkg/models/domain"
)

// Calculator computes a custom summary value over a section's records.
type Calculator func(records []domain.Record, filters domain.FilterValues) (any, error)

// Calculators is a registry of named custom calculators. Summary fields
// with the custom kind dispatch through it, keeping the configuration
// serializable without stringly-typed evaluation.
type Calculators map[string]Calculator

// Aggregate computes every summary field of every summary-type section.
// It is deterministic and pure given the fetched data.
func Aggregate(
	config *domain.ReportConfig,
	sections map[string][]domain.Record,
	filters domain.FilterValues,
	calculators Calculators,
) (map[string]any, error) {
	summary := make(map[string]any)

	for _, section := range config.Sections {
		if section.Type != domain.SectionTypeSummary {
			continue
		}
		records := sections[section.ID]

		for _, field := range section.SummaryFields {
			value, err := aggregateField(field, records, filters, calculators)
			if err != nil {
				return nil, fmt.Errorf("summary field %q: %w", field.ID, err)
			}
			summary[field.ID] = value
		}
	}
	return summary, nil
}

func aggregateField(
	field domain.SummaryFieldDescriptor,
	records []domain.Record,
	filters domain.FilterValues,
	calculators Calculators,
) (any, error) {
	switch field.Kind {
	case domain.AggregateCount:
		return len(records), nil

	case domain.AggregateSum:
		return reduceSum(records, field.Field), nil

	case domain.AggregateAverage:
		if len(records) == 0 {
			return 0.0, nil
		}
		return reduceSum(records, field.Field) / float64(len(records)), nil

	case domain.AggregateMin:
		return reduceExtreme(records, field.Field, func(candidate, current float64) bool {
			return candidate < current
		}), nil

	case domain.AggregateMax:
		return reduceExtreme(records, field.Field, func(candidate, current float64) bool {
			return candidate > current
		}), nil

	case domain.AggregateCustom:
		calc, ok := calculators[field.Calculator]
		if !ok {
			return nil, fmt.Errorf("unknown calculator %q", field.Calculator)
		}
		return calc(records, filters)

	default:
		return nil, fmt.Errorf("unknown aggregation kind %q", field.Kind)
	}
}

func reduceSum(records []domain.Record, field string) float64 {
	var total float64
	for _, r := range records {
		total += numericField(r, field)
	}
	return total
}

func reduceExtreme(records []domain.Record, field string, better func(candidate, current float64) bool) float64 {
	if len(records) == 0 {
		return 0
	}
	extreme := numericField(records[0], field)
	for _, r := range records[1:] {
		if v := numericField(r, field); better(v, extreme) {
			extreme = v
		}
	}
	return extreme
}

// numericField coerces a record field to float64, treating anything
// non-numeric as zero.
func numericField(r domain.Record, field string) float64 {
	switch v := r[field].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	}
	return 0
}
