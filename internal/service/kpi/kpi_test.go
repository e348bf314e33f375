package kpi

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/moraesvn/projeto-estoque/internal/storage"
)

type MockKPIStorage struct {
	mock.Mock
}

func (m *MockKPIStorage) FetchEndToEndSpans(ctx context.Context, f storage.KPIFilter) ([]storage.EndToEndSpan, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]storage.EndToEndSpan), args.Error(1)
}

func (m *MockKPIStorage) FetchTotalOrders(ctx context.Context, f storage.KPIFilter) (int64, error) {
	args := m.Called(ctx, f)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockKPIStorage) FetchDailyStageDurations(ctx context.Context, f storage.KPIFilter) ([]storage.DailyStageDuration, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]storage.DailyStageDuration), args.Error(1)
}

func (m *MockKPIStorage) FetchStageTotalsAndOrders(ctx context.Context, f storage.KPIFilter) ([]storage.StageTotals, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]storage.StageTotals), args.Error(1)
}

func (m *MockKPIStorage) GetSetting(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func marchFilter() storage.KPIFilter {
	return storage.KPIFilter{Start: "2024-03-01", End: "2024-03-05"}
}

func TestOverview_ConcurrentLotsCountOnce(t *testing.T) {
	// Lot 1 worked 09:00-10:00 (60 orders), lot 2 overlaps 09:30-10:30 (40
	// orders): 1.5h of elapsed time, 100 orders.
	spans := []storage.EndToEndSpan{
		{Day: "2024-03-01", StartTime: "2024-03-01 09:00:00", EndTime: "2024-03-01 10:00:00"},
		{Day: "2024-03-01", StartTime: "2024-03-01 09:30:00", EndTime: "2024-03-01 10:30:00"},
	}

	mockStorage := new(MockKPIStorage)
	mockStorage.On("FetchEndToEndSpans", mock.Anything, marchFilter()).Return(spans, nil)
	mockStorage.On("FetchTotalOrders", mock.Anything, marchFilter()).Return(int64(100), nil)
	mockStorage.On("GetSetting", mock.Anything, SettingTargetOrdersPerHour).Return("", nil)

	service := NewService(mockStorage)
	overview, err := service.Overview(context.Background(), marchFilter())

	assert.NoError(t, err)
	assert.Equal(t, int64(5400), overview.OrdersPerHour.ActiveSeconds)
	assert.Equal(t, int64(100), overview.OrdersPerHour.TotalOrders)
	assert.Equal(t, 67, overview.OrdersPerHour.OrdersPerHour)
	assert.InDelta(t, 66.67, overview.OrdersPerHour.Rate, 0.01)
	assert.Empty(t, overview.OrdersPerHour.TargetStatus)

	assert.Equal(t, int64(5400), overview.AvgDailyActiveSeconds)
	assert.Equal(t, "01:30:00", overview.AvgDailyActiveTime)
	assert.Equal(t, int64(54), overview.AvgSecondsPerOrder)

	assert.Len(t, overview.DailyActive, 1)
	assert.Equal(t, "2024-03-01", overview.DailyActive[0].Day)
	assert.Equal(t, "01:30:00", overview.DailyActive[0].ActiveTime)
}

func TestOverview_EmptyRangeIsAllZeros(t *testing.T) {
	mockStorage := new(MockKPIStorage)
	mockStorage.On("FetchEndToEndSpans", mock.Anything, marchFilter()).Return(nil, nil)
	mockStorage.On("FetchTotalOrders", mock.Anything, marchFilter()).Return(int64(0), nil)
	mockStorage.On("GetSetting", mock.Anything, SettingTargetOrdersPerHour).Return("", nil)

	service := NewService(mockStorage)
	overview, err := service.Overview(context.Background(), marchFilter())

	assert.NoError(t, err)
	assert.Equal(t, 0, overview.OrdersPerHour.OrdersPerHour)
	assert.Equal(t, int64(0), overview.OrdersPerHour.ActiveSeconds)
	assert.Equal(t, "00:00:00", overview.AvgDailyActiveTime)
	assert.Equal(t, "00:00:00", overview.AvgTimePerOrder)
	assert.Empty(t, overview.DailyActive)
}

func TestOverview_OrdersWithoutActiveTime(t *testing.T) {
	mockStorage := new(MockKPIStorage)
	mockStorage.On("FetchEndToEndSpans", mock.Anything, marchFilter()).Return(nil, nil)
	mockStorage.On("FetchTotalOrders", mock.Anything, marchFilter()).Return(int64(50), nil)
	mockStorage.On("GetSetting", mock.Anything, SettingTargetOrdersPerHour).Return("", nil)

	service := NewService(mockStorage)
	overview, err := service.Overview(context.Background(), marchFilter())

	assert.NoError(t, err)
	assert.Equal(t, 0, overview.OrdersPerHour.OrdersPerHour)
	assert.Equal(t, int64(0), overview.AvgSecondsPerOrder)
}

func TestOverview_AvgOnlyOverDaysWithData(t *testing.T) {
	// Five-day range, activity on two days only: the average divides by 2.
	spans := []storage.EndToEndSpan{
		{Day: "2024-03-01", StartTime: "2024-03-01 09:00:00", EndTime: "2024-03-01 10:00:00"},
		{Day: "2024-03-04", StartTime: "2024-03-04 09:00:00", EndTime: "2024-03-04 09:30:00"},
	}

	mockStorage := new(MockKPIStorage)
	mockStorage.On("FetchEndToEndSpans", mock.Anything, marchFilter()).Return(spans, nil)
	mockStorage.On("FetchTotalOrders", mock.Anything, marchFilter()).Return(int64(10), nil)
	mockStorage.On("GetSetting", mock.Anything, SettingTargetOrdersPerHour).Return("", nil)

	service := NewService(mockStorage)
	overview, err := service.Overview(context.Background(), marchFilter())

	assert.NoError(t, err)
	assert.Equal(t, int64((3600+1800)/2), overview.AvgDailyActiveSeconds)
	assert.Equal(t, "00:45:00", overview.AvgDailyActiveTime)
	assert.Len(t, overview.DailyActive, 2)
}

func TestOrdersPerHourCard_TargetComparison(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		wantStatus string
		wantDelta  float64
	}{
		{name: "above", target: "50", wantStatus: TargetAbove, wantDelta: 10},
		{name: "below", target: "80", wantStatus: TargetBelow, wantDelta: -20},
		{name: "exact", target: "60", wantStatus: TargetOn, wantDelta: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// 60 orders in one hour of active time.
			card := ordersPerHourCard(60, 3600, tt.target)

			assert.Equal(t, 60, card.OrdersPerHour)
			assert.Equal(t, tt.wantStatus, card.TargetStatus)
			assert.NotNil(t, card.TargetDelta)
			assert.InDelta(t, tt.wantDelta, *card.TargetDelta, 0.001)
		})
	}
}

func TestOrdersPerHourCard_NoTarget(t *testing.T) {
	card := ordersPerHourCard(60, 3600, "")

	assert.Nil(t, card.Target)
	assert.Nil(t, card.TargetDelta)
	assert.Empty(t, card.TargetStatus)
}

func TestOrdersPerHourCard_MalformedTargetIgnored(t *testing.T) {
	card := ordersPerHourCard(60, 3600, "fast")

	assert.Equal(t, 60, card.OrdersPerHour)
	assert.Nil(t, card.Target)
	assert.Empty(t, card.TargetStatus)
}

func TestStageBreakdown_KeepsNaiveSums(t *testing.T) {
	// Two overlapping lots: the stage totals stay additive on purpose, unlike
	// the union-based overview.
	totals := []storage.StageTotals{
		{Stage: storage.StageSeparation, TotalSeconds: 7200, TotalOrders: 100},
	}
	daily := []storage.DailyStageDuration{
		{Day: "2024-03-01", Stage: storage.StageSeparation, DurationSeconds: 7200},
	}

	mockStorage := new(MockKPIStorage)
	mockStorage.On("FetchStageTotalsAndOrders", mock.Anything, marchFilter()).Return(totals, nil)
	mockStorage.On("FetchDailyStageDurations", mock.Anything, marchFilter()).Return(daily, nil)

	service := NewService(mockStorage)
	breakdown, err := service.StageBreakdown(context.Background(), marchFilter())

	assert.NoError(t, err)
	// Every stage appears, zero-filled, in display order.
	assert.Len(t, breakdown.Totals, len(storage.Stages))
	assert.Equal(t, storage.StageSeparation, breakdown.Totals[0].Stage)
	assert.Equal(t, float64(7200), breakdown.Totals[0].TotalSeconds)
	assert.Equal(t, float64(72), breakdown.Totals[0].AvgSecondsPerOrder)
	assert.Equal(t, "02:00:00", breakdown.Totals[0].TotalTime)

	assert.Equal(t, storage.StageChecking, breakdown.Totals[1].Stage)
	assert.Equal(t, float64(0), breakdown.Totals[1].TotalSeconds)
	assert.Equal(t, float64(0), breakdown.Totals[1].AvgSecondsPerOrder)

	assert.Len(t, breakdown.Daily, 1)
}

func TestStageBreakdown_Empty(t *testing.T) {
	mockStorage := new(MockKPIStorage)
	mockStorage.On("FetchStageTotalsAndOrders", mock.Anything, marchFilter()).Return(nil, nil)
	mockStorage.On("FetchDailyStageDurations", mock.Anything, marchFilter()).Return(nil, nil)

	service := NewService(mockStorage)
	breakdown, err := service.StageBreakdown(context.Background(), marchFilter())

	assert.NoError(t, err)
	assert.Len(t, breakdown.Totals, len(storage.Stages))
	for _, row := range breakdown.Totals {
		assert.Equal(t, float64(0), row.TotalSeconds)
		assert.Equal(t, "00:00:00", row.TotalTime)
	}
	assert.Empty(t, breakdown.Daily)
}

func TestFormatHHMMSS(t *testing.T) {
	assert.Equal(t, "00:00:00", FormatHHMMSS(0))
	assert.Equal(t, "00:00:00", FormatHHMMSS(-5))
	assert.Equal(t, "00:00:59", FormatHHMMSS(59))
	assert.Equal(t, "01:30:00", FormatHHMMSS(5400))
	assert.Equal(t, "27:46:40", FormatHHMMSS(100000))
}
