package report

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newpennine/report-engine/pkg/models/domain"
)

func staticSource(name string, records []domain.Record) DataSource {
	return SourceFunc{
		Name: name,
		Fn: func(context.Context, domain.FilterValues) ([]domain.Record, error) {
			return records, nil
		},
	}
}

func testConfig(id string) *domain.ReportConfig {
	return &domain.ReportConfig{
		ID:            id,
		Name:          "Test Report",
		Category:      "stock",
		Formats:       []domain.Format{domain.FormatText},
		DefaultFormat: domain.FormatText,
		Sections: []domain.SectionDescriptor{
			{ID: "main", Title: "Main", Type: domain.SectionTypeTable, DataSource: "main_source"},
		},
	}
}

func TestRegistry_Register(t *testing.T) {
	tests := []struct {
		name    string
		config  *domain.ReportConfig
		sources map[string]DataSource
		wantErr bool
	}{
		{
			name:    "successful registration",
			config:  testConfig("stock-report"),
			sources: map[string]DataSource{"main_source": staticSource("main_source", nil)},
		},
		{
			name:    "missing data source",
			config:  testConfig("stock-report"),
			sources: map[string]DataSource{},
			wantErr: true,
		},
		{
			name:    "empty id",
			config:  &domain.ReportConfig{},
			sources: map[string]DataSource{},
			wantErr: true,
		},
		{
			name:    "nil config",
			config:  nil,
			sources: map[string]DataSource{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := NewRegistry(zerolog.Nop())
			err := registry.Register(tt.config, tt.sources)

			if tt.wantErr {
				var configErr *ConfigurationError
				require.Error(t, err)
				assert.ErrorAs(t, err, &configErr)
				return
			}
			require.NoError(t, err)

			reg, err := registry.Get(tt.config.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.config, reg.Config)
		})
	}
}

func TestRegistry_GetUnknown(t *testing.T) {
	registry := NewRegistry(zerolog.Nop())

	_, err := registry.Get("no-such-report")

	var configErr *ConfigurationError
	require.ErrorAs(t, err, &configErr)
	assert.Equal(t, "no-such-report", configErr.ReportID)
}

func TestRegistry_Overwrite(t *testing.T) {
	registry := NewRegistry(zerolog.Nop())
	sources := map[string]DataSource{"main_source": staticSource("main_source", nil)}

	first := testConfig("stock-report")
	second := testConfig("stock-report")
	second.Name = "Replacement"

	require.NoError(t, registry.Register(first, sources))
	require.NoError(t, registry.Register(second, sources))

	reg, err := registry.Get("stock-report")
	require.NoError(t, err)
	assert.Equal(t, "Replacement", reg.Config.Name)
	assert.Len(t, registry.All(), 1)
}

func TestRegistry_AllSorted(t *testing.T) {
	registry := NewRegistry(zerolog.Nop())
	sources := map[string]DataSource{"main_source": staticSource("main_source", nil)}

	for _, id := range []string{"zebra-report", "alpha-report", "mid-report"} {
		require.NoError(t, registry.Register(testConfig(id), sources))
	}

	regs := registry.All()
	require.Len(t, regs, 3)
	assert.Equal(t, "alpha-report", regs[0].Config.ID)
	assert.Equal(t, "mid-report", regs[1].Config.ID)
	assert.Equal(t, "zebra-report", regs[2].Config.ID)
}

func TestRegistry_ByCategory(t *testing.T) {
	registry := NewRegistry(zerolog.Nop())
	sources := map[string]DataSource{"main_source": staticSource("main_source", nil)}

	stock := testConfig("stock-report")
	ops := testConfig("ops-report")
	ops.Category = "operations"

	require.NoError(t, registry.Register(stock, sources))
	require.NoError(t, registry.Register(ops, sources))

	regs := registry.ByCategory("operations")
	require.Len(t, regs, 1)
	assert.Equal(t, "ops-report", regs[0].Config.ID)

	assert.Empty(t, registry.ByCategory("quality"))
}

func TestRegistry_Unregister(t *testing.T) {
	registry := NewRegistry(zerolog.Nop())
	sources := map[string]DataSource{"main_source": staticSource("main_source", nil)}

	require.NoError(t, registry.Register(testConfig("stock-report"), sources))
	registry.Unregister("stock-report")

	_, err := registry.Get("stock-report")
	assert.Error(t, err)
}

func TestRegistration_Source(t *testing.T) {
	reg := &Registration{
		Config: testConfig("stock-report"),
		Sources: map[string]DataSource{
			"main_source": staticSource("main_source", nil),
		},
	}

	src, err := reg.Source(&reg.Config.Sections[0])
	require.NoError(t, err)
	assert.Equal(t, "main_source", src.ID())

	_, err = reg.Source(&domain.SectionDescriptor{ID: "ghost", DataSource: "missing"})
	var configErr *ConfigurationError
	assert.ErrorAs(t, err, &configErr)
}
