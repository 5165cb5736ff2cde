package adapters

import (
	"github.com/newpennine/report-engine/pkg/models/api"
	"github.com/newpennine/report-engine/pkg/models/domain"
)

func MapReportConfigDomainToApiSummary(cfg *domain.ReportConfig) api.ReportSummary {
	formats := make([]string, 0, len(cfg.Formats))
	for _, f := range cfg.Formats {
		formats = append(formats, string(f))
	}
	return api.ReportSummary{
		ID:            cfg.ID,
		Name:          cfg.Name,
		Description:   cfg.Description,
		Category:      cfg.Category,
		Formats:       formats,
		DefaultFormat: string(cfg.DefaultFormat),
	}
}

func MapReportConfigDomainToApiDetail(cfg *domain.ReportConfig) api.ReportDetail {
	detail := api.ReportDetail{
		ReportSummary: MapReportConfigDomainToApiSummary(cfg),
		Filters:       make([]api.FilterDescriptor, 0, len(cfg.Filters)),
		Sections:      make([]api.SectionDescriptor, 0, len(cfg.Sections)),
	}
	for _, f := range cfg.Filters {
		detail.Filters = append(detail.Filters, MapFilterDescriptorDomainToApi(f))
	}
	for _, s := range cfg.Sections {
		detail.Sections = append(detail.Sections, MapSectionDescriptorDomainToApi(s))
	}
	return detail
}

func MapFilterDescriptorDomainToApi(f domain.FilterDescriptor) api.FilterDescriptor {
	out := api.FilterDescriptor{
		ID:          f.ID,
		Label:       f.Label,
		Type:        string(f.Type),
		Required:    f.Required,
		Default:     f.Default,
		OptionsFrom: f.OptionsFrom,
	}
	if f.Validation != nil {
		out.Validation = &api.ValidationRule{
			Min:     f.Validation.Min,
			Max:     f.Validation.Max,
			Pattern: f.Validation.Pattern,
			Message: f.Validation.Message,
		}
	}
	return out
}

func MapSectionDescriptorDomainToApi(s domain.SectionDescriptor) api.SectionDescriptor {
	out := api.SectionDescriptor{
		ID:    s.ID,
		Title: s.Title,
		Type:  string(s.Type),
	}
	for _, c := range s.Columns {
		out.Columns = append(out.Columns, api.ColumnDescriptor{
			ID:    c.ID,
			Label: c.Label,
			Type:  string(c.Type),
		})
	}
	return out
}
