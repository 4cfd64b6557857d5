package domain

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrPeriodNotFound      = errors.New("special period not found")
	ErrPeriodInvalidUserID = errors.New("invalid user id")
	ErrPeriodDatesRequired = errors.New("special period start and end dates are required")
	ErrPeriodInverted      = errors.New("special period ends before it starts")
	ErrPeriodForbidden     = errors.New("not allowed to modify this special period")
)

const (
	PeriodTypeVacation     = "vacation"
	PeriodTypeBusinessTrip = "business_trip"
	PeriodTypeOther        = "other"
)

// SpecialPeriod is a date interval excused from the weekly completion
// requirement. Inclusive on both ends, owned by a single user.
type SpecialPeriod struct {
	ID          string `json:"id" db:"id"`
	UserID      string `json:"user_id" db:"user_id"`
	StartDate   Date   `json:"start_date" db:"start_date"`
	EndDate     Date   `json:"end_date" db:"end_date"`
	PeriodType  string `json:"period_type" db:"period_type"`
	Description string `json:"description,omitempty" db:"description"`
}

func NewSpecialPeriod(userID string, start, end Date, periodType, description string) (*SpecialPeriod, error) {
	if userID == "" {
		return nil, ErrPeriodInvalidUserID
	}
	if start.IsZero() || end.IsZero() {
		return nil, ErrPeriodDatesRequired
	}
	if end.Before(start) {
		return nil, ErrPeriodInverted
	}

	switch periodType {
	case PeriodTypeVacation, PeriodTypeBusinessTrip, PeriodTypeOther:
	case "":
		periodType = PeriodTypeOther
	default:
		periodType = PeriodTypeOther
	}

	return &SpecialPeriod{
		ID:          uuid.NewString(),
		UserID:      userID,
		StartDate:   start,
		EndDate:     end,
		PeriodType:  periodType,
		Description: strings.TrimSpace(description),
	}, nil
}

func (p *SpecialPeriod) Interval() Interval {
	return Interval{Start: p.StartDate, End: p.EndDate}
}

func (p *SpecialPeriod) Contains(day Date) bool {
	return p.Interval().Contains(day)
}
