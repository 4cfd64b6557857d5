package domain

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrWeekNotFound      = errors.New("week record not found")
	ErrWeekInvalidUserID = errors.New("invalid user id")
	ErrWeekDateRequired  = errors.New("week start date is required")
	ErrWeekNoteTooLong   = errors.New("week note is too long (max 500 chars)")
	ErrNotCurrentWeek    = errors.New("only the current week can be modified")
)

const MaxNoteLen = 500

// WeekRecord is one user's completion mark for one calendar week. The
// (user_id, week_start_date) pair is unique; WeekStartDate is always
// normalized to the week boundary.
type WeekRecord struct {
	ID            string `json:"id,omitempty" db:"id"`
	UserID        string `json:"user_id,omitempty" db:"user_id"`
	WeekStartDate Date   `json:"week_start_date" db:"week_start_date"`
	IsCompleted   bool   `json:"is_completed" db:"is_completed"`
	Note          string `json:"note,omitempty" db:"note"`
}

func NewWeekRecord(userID string, weekStart Date, completed bool, note string) (*WeekRecord, error) {
	if userID == "" {
		return nil, ErrWeekInvalidUserID
	}
	if weekStart.IsZero() {
		return nil, ErrWeekDateRequired
	}
	note = strings.TrimSpace(note)
	if len(note) > MaxNoteLen {
		return nil, ErrWeekNoteTooLong
	}

	return &WeekRecord{
		ID:            uuid.NewString(),
		UserID:        userID,
		WeekStartDate: weekStart.WeekStart(),
		IsCompleted:   completed,
		Note:          note,
	}, nil
}
