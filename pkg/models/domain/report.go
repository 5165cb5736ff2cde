package domain

import "time"

// Format identifies a report output format.
type Format string

const (
	FormatDocument    Format = "document"
	FormatSpreadsheet Format = "spreadsheet"
	FormatText        Format = "text"
)

// ReportConfig is the declarative description of a report: its identity,
// the formats it can be rendered in, the filters it accepts and the
// sections it is built from. Configs are registered once at startup and
// treated as read-only afterwards.
type ReportConfig struct {
	ID             string
	Name           string
	Description    string
	Category       string
	Formats        []Format
	DefaultFormat  Format
	Filters        []FilterDescriptor
	Sections       []SectionDescriptor
	StyleOverrides map[Format]StyleOverride
}

// SupportsFormat reports whether the config declares the given format.
func (c *ReportConfig) SupportsFormat(f Format) bool {
	for _, supported := range c.Formats {
		if supported == f {
			return true
		}
	}
	return false
}

// Section returns the section descriptor with the given id, if present.
func (c *ReportConfig) Section(id string) (SectionDescriptor, bool) {
	for _, s := range c.Sections {
		if s.ID == id {
			return s, true
		}
	}
	return SectionDescriptor{}, false
}

// StyleOverride carries per-format rendering hints. LegacyLayout forces the
// format generator to use the report's historical bespoke renderer instead
// of the generic layout.
type StyleOverride struct {
	LegacyLayout bool
	Orientation  string // "portrait" (default) or "landscape"
}

// FilterType enumerates the filter input kinds a report can declare.
type FilterType string

const (
	FilterTypeDate        FilterType = "date"
	FilterTypeDateRange   FilterType = "dateRange"
	FilterTypeSelect      FilterType = "select"
	FilterTypeMultiSelect FilterType = "multiSelect"
	FilterTypeText        FilterType = "text"
	FilterTypeNumber      FilterType = "number"
)

// FilterDescriptor describes one user-supplied report parameter.
type FilterDescriptor struct {
	ID          string
	Label       string
	Type        FilterType
	Required    bool
	Default     any
	Validation  *ValidationRule
	OptionsFrom string // name of a data source providing dynamic options
}

// ValidationRule constrains a filter value. Min/Max apply to number
// filters, Pattern to text filters. Message, when set, replaces the
// generated violation message.
type ValidationRule struct {
	Min     *float64
	Max     *float64
	Pattern string
	Message string
}

// SectionType enumerates the kinds of report sections.
type SectionType string

const (
	SectionTypeSummary SectionType = "summary"
	SectionTypeTable   SectionType = "table"
	SectionTypeChart   SectionType = "chart"
	SectionTypeCustom  SectionType = "custom"
)

// SectionDescriptor binds one logical block of a report to the data source
// that feeds it. SuppressIn lists formats the section is omitted from.
type SectionDescriptor struct {
	ID            string
	Title         string
	Type          SectionType
	DataSource    string
	SuppressIn    []Format
	Columns       []ColumnDescriptor
	SummaryFields []SummaryFieldDescriptor
}

// SuppressedIn reports whether the section is excluded from the format.
func (s *SectionDescriptor) SuppressedIn(f Format) bool {
	for _, suppressed := range s.SuppressIn {
		if suppressed == f {
			return true
		}
	}
	return false
}

// ColumnType drives per-format value rendering for a table column.
type ColumnType string

const (
	ColumnTypeString   ColumnType = "string"
	ColumnTypeNumber   ColumnType = "number"
	ColumnTypeDate     ColumnType = "date"
	ColumnTypeCurrency ColumnType = "currency"
	ColumnTypePercent  ColumnType = "percent"
)

// ColumnDescriptor describes one column of a table section.
type ColumnDescriptor struct {
	ID         string
	Label      string
	Type       ColumnType
	Width      float64
	Align      string // "left" (default), "right", "center"
	Format     string // display format, e.g. "2006-01-02" for dates
	ExportOnly bool   // included in spreadsheet/text output only
}

// AggregationKind enumerates the supported summary computations.
type AggregationKind string

const (
	AggregateCount   AggregationKind = "count"
	AggregateSum     AggregationKind = "sum"
	AggregateAverage AggregationKind = "average"
	AggregateMin     AggregationKind = "min"
	AggregateMax     AggregationKind = "max"
	AggregateCustom  AggregationKind = "custom"
)

// SummaryFieldDescriptor describes one computed value of a summary section.
// Field names the record field reduced over for sum/average/min/max.
// Calculator names a registered custom calculator for the custom kind.
type SummaryFieldDescriptor struct {
	ID         string
	Label      string
	Kind       AggregationKind
	Field      string
	Calculator string
}

// Record is one row of raw or transformed section data.
type Record map[string]any

// ReportMetadata describes one generation run.
type ReportMetadata struct {
	ReportID       string
	ReportName     string
	GeneratedAt    time.Time
	AppliedFilters FilterValues
	TotalRecords   int
}

// ProcessedReportData is the fully resolved input handed to every format
// generator: all section data fetched and transformed, all summary values
// computed. Sections is keyed by section id; completion order of the
// underlying fetches is irrelevant.
type ProcessedReportData struct {
	Metadata ReportMetadata
	Sections map[string][]Record
	Summary  map[string]any
}

// Payload is the generated report document.
type Payload struct {
	Data     []byte
	MIME     string
	Filename string
}
