package tracking

import (
	"context"
	"fmt"
	"time"

	"github.com/moraesvn/projeto-estoque/internal/storage"
)

const (
	timestampLayout = "2006-01-02 15:04:05"
	dateLayout      = "2006-01-02"
)

// Stage status values derived from the (start, end) pair.
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

type Storage interface {
	CreateSession(ctx context.Context, date string, operatorID, marketplaceID int64, numOrders, packersCount int) (int64, error)
	GetSession(ctx context.Context, id int64) (*storage.Session, error)
	UpdateSessionOrders(ctx context.Context, id int64, numOrders int) error
	ListSessionsWithStatus(ctx context.Context, date string, operatorID, marketplaceID *int64) ([]storage.SessionStatus, error)
	StartStage(ctx context.Context, sessionID int64, stage, at string) error
	EndStage(ctx context.Context, sessionID int64, stage, at string) error
	GetStageTimes(ctx context.Context, sessionID int64) ([]storage.StageTimes, error)
}

// Service owns lot (session) creation rules and the stage timer lifecycle.
type Service struct {
	storage Storage
}

func NewService(storage Storage) *Service {
	return &Service{storage: storage}
}

// CreateSession registers a new lot for the day. A lot must carry at least
// one order and one packer; an empty date means today. All stage rows are
// pre-created with the session.
func (s *Service) CreateSession(ctx context.Context, date string, operatorID, marketplaceID int64, numOrders, packersCount int) (int64, error) {
	const op = "service.tracking.CreateSession"

	if numOrders <= 0 {
		return 0, fmt.Errorf("%s: num_orders=%d: %w", op, numOrders, storage.ErrInvalidSession)
	}
	if packersCount < 1 {
		return 0, fmt.Errorf("%s: packers_count=%d: %w", op, packersCount, storage.ErrInvalidSession)
	}

	if date == "" {
		date = time.Now().Format(dateLayout)
	} else if _, err := time.Parse(dateLayout, date); err != nil {
		return 0, fmt.Errorf("%s: date=%q: %w", op, date, storage.ErrInvalidSession)
	}

	id, err := s.storage.CreateSession(ctx, date, operatorID, marketplaceID, numOrders, packersCount)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

func (s *Service) GetSession(ctx context.Context, id int64) (*storage.Session, error) {
	return s.storage.GetSession(ctx, id)
}

func (s *Service) UpdateOrders(ctx context.Context, id int64, numOrders int) error {
	const op = "service.tracking.UpdateOrders"

	if numOrders <= 0 {
		return fmt.Errorf("%s: num_orders=%d: %w", op, numOrders, storage.ErrInvalidSession)
	}

	if err := s.storage.UpdateSessionOrders(ctx, id, numOrders); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// ListToday returns today's lots with completion counters for the lot picker.
func (s *Service) ListToday(ctx context.Context, operatorID, marketplaceID *int64) ([]storage.SessionStatus, error) {
	return s.storage.ListSessionsWithStatus(ctx, time.Now().Format(dateLayout), operatorID, marketplaceID)
}

// StartStage stamps a stage start and returns the timestamp used. Starting a
// completed stage restarts its timer: the previous end is discarded. A zero
// `at` means now.
func (s *Service) StartStage(ctx context.Context, sessionID int64, stage string, at time.Time) (string, error) {
	const op = "service.tracking.StartStage"

	if !storage.ValidStage(stage) {
		return "", fmt.Errorf("%s: stage=%q: %w", op, stage, storage.ErrInvalidStage)
	}

	ts := formatAt(at)
	if err := s.storage.StartStage(ctx, sessionID, stage, ts); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return ts, nil
}

// EndStage stamps a stage end and returns the timestamp used. When the stage
// never started, the start is set to the same timestamp so the recorded
// duration is zero, never negative.
func (s *Service) EndStage(ctx context.Context, sessionID int64, stage string, at time.Time) (string, error) {
	const op = "service.tracking.EndStage"

	if !storage.ValidStage(stage) {
		return "", fmt.Errorf("%s: stage=%q: %w", op, stage, storage.ErrInvalidStage)
	}

	ts := formatAt(at)
	if err := s.storage.EndStage(ctx, sessionID, stage, ts); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return ts, nil
}

// StageView is one stage's timer state for the registration screen.
type StageView struct {
	Stage           string  `json:"stage"`
	StartTime       *string `json:"start_time"`
	EndTime         *string `json:"end_time"`
	Status          string  `json:"status"`
	DurationSeconds *int64  `json:"duration_seconds"`
}

// StageTimes returns all stages of a session with status and, when completed,
// the elapsed duration.
func (s *Service) StageTimes(ctx context.Context, sessionID int64) ([]StageView, error) {
	const op = "service.tracking.StageTimes"

	times, err := s.storage.GetStageTimes(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	views := make([]StageView, 0, len(times))
	for _, t := range times {
		views = append(views, stageView(t))
	}

	return views, nil
}

func stageView(t storage.StageTimes) StageView {
	v := StageView{
		Stage:     t.Stage,
		StartTime: t.StartTime,
		EndTime:   t.EndTime,
		Status:    StatusPending,
	}

	switch {
	case t.StartTime != nil && t.EndTime != nil:
		v.Status = StatusCompleted
		if d, err := durationSeconds(*t.StartTime, *t.EndTime); err == nil {
			v.DurationSeconds = &d
		}
	case t.StartTime != nil:
		v.Status = StatusInProgress
	}

	return v
}

func durationSeconds(start, end string) (int64, error) {
	st, err := time.ParseInLocation(timestampLayout, start, time.Local)
	if err != nil {
		return 0, err
	}
	en, err := time.ParseInLocation(timestampLayout, end, time.Local)
	if err != nil {
		return 0, err
	}
	return en.Unix() - st.Unix(), nil
}

func formatAt(at time.Time) string {
	if at.IsZero() {
		at = time.Now()
	}
	return at.Format(timestampLayout)
}
