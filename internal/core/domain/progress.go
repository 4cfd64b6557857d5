package domain

// GlobalConfig is the goal calendar range. It is fetched on load and
// replaced wholesale on refetch, never partially mutated.
type GlobalConfig struct {
	StartDate Date `json:"start_date"`
	Deadline  Date `json:"deadline"`
}

// FirstWeek returns the start of the first full week inside the goal range.
// A range opening mid-week counts from the following Monday. Zero when
// either boundary is unset.
func (c GlobalConfig) FirstWeek() Date {
	if c.StartDate.IsZero() || c.Deadline.IsZero() {
		return Date{}
	}
	ws := c.StartDate.WeekStart()
	if ws.Before(c.StartDate) {
		ws = ws.AddDays(7)
	}
	return ws
}

// Completion is a single completed week inside a UserProgress view.
type Completion struct {
	Date Date   `json:"date"`
	Note string `json:"note,omitempty"`
}

// UserProgress is the cohort-matrix view of one user: their glyph and all
// weeks they have completed. Refreshed wholesale from the grid service.
type UserProgress struct {
	UserID      string       `json:"user_id"`
	Emoji       string       `json:"emoji"`
	Completions []Completion `json:"completions"`
}

// CohortCompletion is one cohort member's state for a single week, computed
// on demand from the UserProgress list.
type CohortCompletion struct {
	UserID      string `json:"user_id"`
	Emoji       string `json:"emoji"`
	IsCompleted bool   `json:"is_completed"`
	Note        string `json:"note,omitempty"`
}

// Stats are the derived progress counters. All fields are non-negative and
// EffectiveWeeks = TotalWeeks - SpecialWeeks,
// RemainingWeeks = max(0, EffectiveWeeks - CompletedWeeks).
type Stats struct {
	TotalWeeks     int `json:"total_weeks"`
	SpecialWeeks   int `json:"special_weeks"`
	EffectiveWeeks int `json:"effective_weeks"`
	CompletedWeeks int `json:"completed_weeks"`
	RemainingWeeks int `json:"remaining_weeks"`
}
