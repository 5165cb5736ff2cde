package report

import "fmt"

// ConfigurationError indicates a broken registration: an unknown report id
// or a section referencing a data source that was not supplied.
type ConfigurationError struct {
	ReportID string
	Reason   string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("report %q: %s", e.ReportID, e.Reason)
}

// FormatError indicates a requested format the configuration does not
// declare. Raised before any data source is invoked.
type FormatError struct {
	ReportID string
	Format   string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("report %q does not support format %q", e.ReportID, e.Format)
}

// ValidationError indicates a missing or invalid filter value. Label is the
// human-readable name of the offending filter.
type ValidationError struct {
	FilterID string
	Label    string
	Reason   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("filter %q: %s", e.Label, e.Reason)
}

// DataSourceError indicates a fetch, transform or validate failure inside
// one section. It aborts the whole generation.
type DataSourceError struct {
	SectionID string
	Source    string
	Err       error
}

func (e *DataSourceError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("section %q: data source %q failed", e.SectionID, e.Source)
	}
	return fmt.Sprintf("section %q: data source %q: %v", e.SectionID, e.Source, e.Err)
}

func (e *DataSourceError) Unwrap() error { return e.Err }

// GenerationError wraps any error raised during generation; the engine
// boundary returns nothing else. The original error remains reachable via
// errors.As / errors.Is.
type GenerationError struct {
	ReportID string
	Err      error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("report generation failed for %q: %v", e.ReportID, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }
