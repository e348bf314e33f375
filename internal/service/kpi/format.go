package kpi

import "fmt"

// FormatHHMMSS renders whole seconds as HH:MM:SS. Hours are not capped at 24;
// non-positive input renders as "00:00:00".
func FormatHHMMSS(seconds int64) string {
	if seconds <= 0 {
		return "00:00:00"
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
