package warehouse

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/newpennine/report-engine/pkg/models/domain"
	modelstore "github.com/newpennine/report-engine/pkg/models/store"
)

func TestTransferRecordsSource_Fetch(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC)

	store := new(mockStore)
	store.On("TransferRecords", mock.Anything, start, end).Return([]modelstore.TransferRecord{
		{
			UUID:        "550e8400-e29b-41d4-a716-446655440000",
			PalletNum:   "200125/1",
			ProductCode: sql.NullString{String: "MEP9090", Valid: true},
			Quantity:    sql.NullFloat64{Float64: 48, Valid: true},
			FromLoc:     "Await",
			ToLoc:       "Fold Mill",
			Operator:    sql.NullString{String: "forklift1", Valid: true},
			TransferAt:  start.Add(6 * time.Hour),
		},
	}, nil)

	source := NewTransferRecordsSource(store)
	records, err := source.Fetch(context.Background(), domain.FilterValues{
		"dateRange": "2025-01-01|2025-01-20",
	})
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, "200125/1", records[0]["plt_num"])
	assert.Equal(t, "Await", records[0]["from_loc"])
	assert.Equal(t, "Fold Mill", records[0]["to_loc"])
	assert.Equal(t, 48.0, records[0]["quantity"])
	assert.Equal(t, "forklift1", records[0]["operator"])
}

func TestTransferRecordsSource_NullJoinFieldsAbsent(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)

	store := new(mockStore)
	store.On("TransferRecords", mock.Anything, start, end).Return([]modelstore.TransferRecord{
		{
			UUID:       "9f1b2c3d-0000-4000-8000-000000000001",
			PalletNum:  "200125/9",
			FromLoc:    "Await",
			ToLoc:      "PipeLine",
			TransferAt: start.Add(time.Hour),
		},
	}, nil)

	source := NewTransferRecordsSource(store)
	records, err := source.Fetch(context.Background(), domain.FilterValues{
		"dateRange": "2025-01-01|2025-01-02",
	})
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.NotContains(t, records[0], "product_code")
	assert.NotContains(t, records[0], "quantity")
	assert.NotContains(t, records[0], "operator")
	assert.Equal(t, "PipeLine", records[0]["to_loc"])
}

func TestTransferRecordsSource_MissingDateRange(t *testing.T) {
	source := NewTransferRecordsSource(new(mockStore))

	_, err := source.Fetch(context.Background(), domain.FilterValues{})
	assert.Error(t, err)
}
