package mysql

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/moraesvn/projeto-estoque/internal/storage"
)

func TestSessionFilter_Empty(t *testing.T) {
	where, args := sessionFilter(storage.KPIFilter{Start: "2024-03-01", End: "2024-03-31"})

	assert.Empty(t, where)
	assert.Empty(t, args)
}

func TestSessionFilter_AllDimensions(t *testing.T) {
	operatorID := int64(3)
	marketplaceID := int64(7)
	packers := 2

	where, args := sessionFilter(storage.KPIFilter{
		Start:         "2024-03-01",
		End:           "2024-03-31",
		OperatorID:    &operatorID,
		MarketplaceID: &marketplaceID,
		PackersCount:  &packers,
	})

	assert.Equal(t, ` AND s.operator_id = ? AND s.marketplace_id = ? AND s.packers_count = ?`, where)
	assert.Equal(t, []interface{}{int64(3), int64(7), 2}, args)
}

func TestStageFilter_Empty(t *testing.T) {
	pred, args := stageFilter(storage.KPIFilter{Start: "2024-03-01", End: "2024-03-31"})

	assert.Empty(t, pred)
	assert.Empty(t, args)
}

func TestStageFilter_NamedStage(t *testing.T) {
	stage := storage.StageChecking

	pred, args := stageFilter(storage.KPIFilter{
		Start: "2024-03-01",
		End:   "2024-03-31",
		Stage: &stage,
	})

	assert.Equal(t, ` AND e.stage = ?`, pred)
	assert.Equal(t, []interface{}{storage.StageChecking}, args)
}
