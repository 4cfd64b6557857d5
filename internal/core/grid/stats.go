package grid

import (
	"github.com/f2re/diplom-monitor/internal/core/domain"
)

// ComputeStats derives the progress counters from the goal range, the
// user's week records and their special periods.
//
// A completed week inside a special period is excused, not required, so it
// counts toward neither CompletedWeeks nor RemainingWeeks. Returns zero
// Stats when cfg is nil or incomplete.
func ComputeStats(cfg *domain.GlobalConfig, weeks []domain.WeekRecord, periods []domain.SpecialPeriod) domain.Stats {
	if cfg == nil || cfg.StartDate.IsZero() || cfg.Deadline.IsZero() {
		return domain.Stats{}
	}

	inPeriod := func(day domain.Date) bool {
		for i := range periods {
			if periods[i].Contains(day) {
				return true
			}
		}
		return false
	}

	var stats domain.Stats

	// Walk every week-start date inside [start, deadline].
	for ws := cfg.FirstWeek(); !ws.After(cfg.Deadline); ws = ws.AddDays(7) {
		stats.TotalWeeks++
		if inPeriod(ws) {
			stats.SpecialWeeks++
		}
	}
	stats.EffectiveWeeks = stats.TotalWeeks - stats.SpecialWeeks

	goalRange := domain.Interval{Start: cfg.StartDate, End: cfg.Deadline}
	for i := range weeks {
		w := &weeks[i]
		if !w.IsCompleted || !goalRange.Contains(w.WeekStartDate) || inPeriod(w.WeekStartDate) {
			continue
		}
		stats.CompletedWeeks++
	}

	remaining := stats.EffectiveWeeks - stats.CompletedWeeks
	if remaining < 0 {
		remaining = 0
	}
	stats.RemainingWeeks = remaining

	return stats
}
