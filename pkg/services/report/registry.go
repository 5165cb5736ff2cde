package report

import (
	"fmt"
	"sort"
	"sync"

	"github.com/newpennine/report-engine/pkg/models/domain"
	"github.com/rs/zerolog"
)

// Registry binds report configurations to the data sources their sections
// draw from. It is the only process-wide mutable state besides the cache;
// all methods are safe for concurrent use.
type Registry interface {
	// Register stores the config together with its data sources. Every
	// section's DataSource name must be present in sources. Re-registering
	// an id overwrites the previous entry with a warning.
	Register(config *domain.ReportConfig, sources map[string]DataSource) error
	Get(id string) (*Registration, error)
	All() []*Registration
	ByCategory(category string) []*Registration
	Unregister(id string)
	Clear()
}

// Registration is one registered report: its immutable config plus the
// data sources resolved for it.
type Registration struct {
	Config  *domain.ReportConfig
	Sources map[string]DataSource
}

// Source resolves the data source a section is bound to.
func (r *Registration) Source(section *domain.SectionDescriptor) (DataSource, error) {
	src, ok := r.Sources[section.DataSource]
	if !ok {
		return nil, &ConfigurationError{
			ReportID: r.Config.ID,
			Reason:   fmt.Sprintf("section %q references unknown data source %q", section.ID, section.DataSource),
		}
	}
	return src, nil
}

type registry struct {
	mu      sync.RWMutex
	entries map[string]*Registration
	logger  zerolog.Logger
}

// NewRegistry creates an empty report registry.
func NewRegistry(logger zerolog.Logger) Registry {
	return &registry{
		entries: make(map[string]*Registration),
		logger:  logger,
	}
}

func (r *registry) Register(config *domain.ReportConfig, sources map[string]DataSource) error {
	if config == nil || config.ID == "" {
		return &ConfigurationError{Reason: "config must have a non-empty id"}
	}

	for _, section := range config.Sections {
		if _, ok := sources[section.DataSource]; !ok {
			return &ConfigurationError{
				ReportID: config.ID,
				Reason:   fmt.Sprintf("section %q references unregistered data source %q", section.ID, section.DataSource),
			}
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[config.ID]; exists {
		r.logger.Warn().
			Str("report", config.ID).
			Msg("overwriting existing report registration")
	}

	r.entries[config.ID] = &Registration{Config: config, Sources: sources}
	return nil
}

func (r *registry) Get(id string) (*Registration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reg, ok := r.entries[id]
	if !ok {
		return nil, &ConfigurationError{ReportID: id, Reason: "not registered"}
	}
	return reg, nil
}

func (r *registry) All() []*Registration {
	r.mu.RLock()
	defer r.mu.RUnlock()

	regs := make([]*Registration, 0, len(r.entries))
	for _, reg := range r.entries {
		regs = append(regs, reg)
	}
	sortRegistrations(regs)
	return regs
}

func (r *registry) ByCategory(category string) []*Registration {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var regs []*Registration
	for _, reg := range r.entries {
		if reg.Config.Category == category {
			regs = append(regs, reg)
		}
	}
	sortRegistrations(regs)
	return regs
}

func (r *registry) Unregister(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, id)
}

func (r *registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = make(map[string]*Registration)
}

func sortRegistrations(regs []*Registration) {
	sort.Slice(regs, func(i, j int) bool {
		return regs[i].Config.ID < regs[j].Config.ID
	})
}
