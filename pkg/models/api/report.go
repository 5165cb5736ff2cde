package api

type ReportSummary struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Category      string   `json:"category"`
	Formats       []string `json:"formats"`
	DefaultFormat string   `json:"default_format"`
}

type ValidationRule struct {
	Min     *float64 `json:"min,omitempty"`
	Max     *float64 `json:"max,omitempty"`
	Pattern string   `json:"pattern,omitempty"`
	Message string   `json:"message,omitempty"`
}

type FilterDescriptor struct {
	ID          string          `json:"id"`
	Label       string          `json:"label"`
	Type        string          `json:"type"`
	Required    bool            `json:"required"`
	Default     any             `json:"default,omitempty"`
	Validation  *ValidationRule `json:"validation,omitempty"`
	OptionsFrom string          `json:"options_from,omitempty"`
}

type ColumnDescriptor struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Type  string `json:"type"`
}

type SectionDescriptor struct {
	ID      string             `json:"id"`
	Title   string             `json:"title"`
	Type    string             `json:"type"`
	Columns []ColumnDescriptor `json:"columns,omitempty"`
}

type ReportDetail struct {
	ReportSummary
	Filters  []FilterDescriptor  `json:"filters"`
	Sections []SectionDescriptor `json:"sections"`
}

type GenerateRequest struct {
	Format  string         `json:"format"`
	Filters map[string]any `json:"filters"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
