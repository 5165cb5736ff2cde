package report

import (
	"fmt"
	"regexp"

	"github.com/newpennine/report-engine/pkg/models/domain"
)

// ValidateFilters checks the supplied values against every filter
// descriptor of the config. It is pure, runs before any fetch, and returns
// the first violation as a ValidationError carrying the filter's label.
func ValidateFilters(config *domain.ReportConfig, filters domain.FilterValues) error {
	for _, f := range config.Filters {
		if filters.IsZero(f.ID) {
			if f.Required {
				return violation(f, fmt.Sprintf("%s is required", f.Label))
			}
			continue
		}

		rule := f.Validation
		if rule == nil {
			continue
		}

		if rule.Min != nil || rule.Max != nil {
			n, ok := filters.Number(f.ID)
			if !ok {
				return violation(f, fmt.Sprintf("%s must be a number", f.Label))
			}
			if rule.Min != nil && n < *rule.Min {
				return violation(f, fmt.Sprintf("%s must be at least %v", f.Label, *rule.Min))
			}
			if rule.Max != nil && n > *rule.Max {
				return violation(f, fmt.Sprintf("%s must be at most %v", f.Label, *rule.Max))
			}
		}

		if rule.Pattern != "" {
			re, err := regexp.Compile(rule.Pattern)
			if err != nil {
				return &ConfigurationError{
					ReportID: config.ID,
					Reason:   fmt.Sprintf("filter %q has invalid pattern %q", f.ID, rule.Pattern),
				}
			}
			if !re.MatchString(filters.String(f.ID)) {
				return violation(f, fmt.Sprintf("%s has an invalid format", f.Label))
			}
		}
	}
	return nil
}

func violation(f domain.FilterDescriptor, reason string) error {
	if f.Validation != nil && f.Validation.Message != "" {
		reason = f.Validation.Message
	}
	return &ValidationError{FilterID: f.ID, Label: f.Label, Reason: reason}
}

// ApplyDefaults returns a copy of the filter values with every absent
// filter that declares a default filled in.
func ApplyDefaults(config *domain.ReportConfig, filters domain.FilterValues) domain.FilterValues {
	merged := make(domain.FilterValues, len(filters))
	for k, v := range filters {
		merged[k] = v
	}
	for _, f := range config.Filters {
		if f.Default != nil && merged.IsZero(f.ID) {
			merged[f.ID] = f.Default
		}
	}
	return merged
}
