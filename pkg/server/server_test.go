package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newpennine/report-engine/pkg/models/api"
	"github.com/newpennine/report-engine/pkg/models/domain"
	"github.com/newpennine/report-engine/pkg/services/report"
	"github.com/newpennine/report-engine/pkg/services/report/export"
)

func setupWebAPI(t *testing.T) *WebAPI {
	t.Helper()

	registry := report.NewRegistry(zerolog.Nop())
	config := &domain.ReportConfig{
		ID:            "transaction-report",
		Name:          "Transaction Report",
		Category:      "stock",
		Formats:       []domain.Format{domain.FormatText},
		DefaultFormat: domain.FormatText,
		Sections: []domain.SectionDescriptor{
			{
				ID:         "transfers",
				Title:      "Transfers",
				Type:       domain.SectionTypeTable,
				DataSource: "transfers",
				Columns: []domain.ColumnDescriptor{
					{ID: "plt_num", Label: "Pallet No.", Type: domain.ColumnTypeString},
				},
			},
		},
	}
	require.NoError(t, registry.Register(config, map[string]report.DataSource{
		"transfers": report.SourceFunc{
			Name: "transfers",
			Fn: func(context.Context, domain.FilterValues) ([]domain.Record, error) {
				return []domain.Record{{"plt_num": "200125/1"}}, nil
			},
		},
	}))

	engine := report.NewEngine(registry, report.NewCache(report.DefaultFreshness), nil, export.NewCSVGenerator())

	return NewWebAPI(zerolog.Nop(), Config{
		Addr: ":0",
		Dependencies: Dependencies{
			Registry: registry,
			Engine:   engine,
		},
	})
}

func TestWebAPI_Routes(t *testing.T) {
	webAPI := setupWebAPI(t)
	testServer := httptest.NewServer(webAPI.router)
	defer testServer.Close()

	t.Run("list reports", func(t *testing.T) {
		resp, err := http.Get(testServer.URL + "/api/v1/reports")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var summaries []api.ReportSummary
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&summaries))
		require.Len(t, summaries, 1)
		assert.Equal(t, "transaction-report", summaries[0].ID)
	})

	t.Run("report detail", func(t *testing.T) {
		resp, err := http.Get(testServer.URL + "/api/v1/reports/transaction-report")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var detail api.ReportDetail
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&detail))
		assert.Equal(t, "Transaction Report", detail.Name)
		require.Len(t, detail.Sections, 1)
	})

	t.Run("generate", func(t *testing.T) {
		body, _ := json.Marshal(api.GenerateRequest{Format: "text"})
		resp, err := http.Post(
			testServer.URL+"/api/v1/reports/transaction-report/generate",
			"application/json", bytes.NewReader(body))
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "text/csv", resp.Header.Get("Content-Type"))
		assert.Contains(t, resp.Header.Get("Content-Disposition"), "attachment")

		payload, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Contains(t, string(payload), "200125/1")
	})

	t.Run("unknown report is a 404", func(t *testing.T) {
		resp, err := http.Get(testServer.URL + "/api/v1/reports/ghost")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}
