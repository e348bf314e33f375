package storage

// Stage names are stored exactly as the frontend displays them. The order of
// Stages is the display order of the registration screen.
const (
	StageSeparation   = "Separação"
	StageChecking     = "Conferência"
	StagePackaging    = "Embalagem"
	StagePackageCount = "Contagem de pacotes"
)

var Stages = []string{StageSeparation, StageChecking, StagePackaging, StagePackageCount}

func ValidStage(stage string) bool {
	for _, s := range Stages {
		if s == stage {
			return true
		}
	}
	return false
}

// CatalogEntry is an operator or a marketplace. Inactive entries stay in the
// table because historical sessions reference them.
type CatalogEntry struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

type Session struct {
	ID            int64  `json:"id"`
	Date          string `json:"date"`
	OperatorID    int64  `json:"operator_id"`
	MarketplaceID int64  `json:"marketplace_id"`
	NumOrders     int    `json:"num_orders"`
	PackersCount  int    `json:"packers_count"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at,omitempty"`
}

// SessionStatus is a session plus its stage completion counters, used by the
// active-lot picker on the registration screen.
type SessionStatus struct {
	Session
	Marketplace     string `json:"marketplace"`
	Operator        string `json:"operator"`
	CompletedStages int    `json:"completed_stages"`
	TotalStages     int    `json:"total_stages"`
}

type StageTimes struct {
	Stage     string  `json:"stage"`
	StartTime *string `json:"start_time"`
	EndTime   *string `json:"end_time"`
}

// EndToEndSpan is one session's earliest stage start and latest stage end on a
// day (or the span of a single stage when the query is stage-restricted). Both
// timestamps are always present: sessions without a completed interval are
// filtered out by the query.
type EndToEndSpan struct {
	Day       string
	StartTime string
	EndTime   string
}

type DailyStageDuration struct {
	Day             string `json:"day"`
	Stage           string `json:"stage"`
	DurationSeconds int64  `json:"duration_seconds"`
}

type StageTotals struct {
	Stage        string  `json:"stage"`
	TotalSeconds float64 `json:"total_seconds"`
	TotalOrders  float64 `json:"total_orders"`
}

// KPIFilter scopes every analytics query. Date bounds are inclusive ISO dates;
// the pointer fields are nil when the dimension is not filtered.
type KPIFilter struct {
	Start         string
	End           string
	OperatorID    *int64
	MarketplaceID *int64
	PackersCount  *int
	Stage         *string
}
