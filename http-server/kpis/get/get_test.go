package get

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/moraesvn/projeto-estoque/internal/storage"
)

func TestParseFilter_AllDimensions(t *testing.T) {
	req := httptest.NewRequest("GET",
		"/api/kpis/overview?start=2024-03-01&end=2024-03-31&operator_id=3&marketplace_id=5&packers=2&stage=Separa%C3%A7%C3%A3o", nil)

	f, err := ParseFilter(req)

	assert.NoError(t, err)
	assert.Equal(t, "2024-03-01", f.Start)
	assert.Equal(t, "2024-03-31", f.End)
	assert.Equal(t, int64(3), *f.OperatorID)
	assert.Equal(t, int64(5), *f.MarketplaceID)
	assert.Equal(t, 2, *f.PackersCount)
	assert.Equal(t, storage.StageSeparation, *f.Stage)
}

func TestParseFilter_DefaultsToCurrentMonth(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/kpis/overview", nil)

	f, err := ParseFilter(req)

	assert.NoError(t, err)
	assert.NotEmpty(t, f.Start)
	assert.NotEmpty(t, f.End)
	assert.LessOrEqual(t, f.Start, f.End)
	assert.Nil(t, f.OperatorID)
	assert.Nil(t, f.Stage)
}

func TestParseFilter_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{name: "bad start", query: "start=01-03-2024"},
		{name: "bad end", query: "end=yesterday"},
		{name: "start after end", query: "start=2024-03-31&end=2024-03-01"},
		{name: "bad operator", query: "operator_id=abc"},
		{name: "zero packers", query: "packers=0"},
		{name: "unknown stage", query: "stage=Montagem"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/kpis/overview?"+tt.query, nil)

			_, err := ParseFilter(req)

			assert.Error(t, err)
		})
	}
}
