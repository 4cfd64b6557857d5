package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/f2re/diplom-monitor/internal/core/domain"
	"github.com/f2re/diplom-monitor/internal/core/grid"
)

// GridService implements the server side of the /grid contract: week
// upserts, special periods, the cohort matrix and server-computed stats.
type GridService struct {
	weekRepo   domain.WeekRepository
	periodRepo domain.PeriodRepository
	userRepo   domain.UserRepository
	cohortRepo domain.CohortRepository
	config     domain.GlobalConfig

	now func() time.Time
}

func NewGridService(
	weekRepo domain.WeekRepository,
	periodRepo domain.PeriodRepository,
	userRepo domain.UserRepository,
	cohortRepo domain.CohortRepository,
	config domain.GlobalConfig,
) *GridService {
	return &GridService{
		weekRepo:   weekRepo,
		periodRepo: periodRepo,
		userRepo:   userRepo,
		cohortRepo: cohortRepo,
		config:     config,
		now:        time.Now,
	}
}

func (s *GridService) Config() domain.GlobalConfig {
	return s.config
}

type UpsertWeekInput struct {
	UserID        string
	WeekStartDate domain.Date
	IsCompleted   bool
	Note          string
}

// UpsertWeek creates or updates the caller's completion mark. Only the
// current week may be modified; past and future weeks are rejected.
func (s *GridService) UpsertWeek(ctx context.Context, input UpsertWeekInput) (*domain.WeekRecord, error) {
	if input.WeekStartDate.IsZero() {
		return nil, domain.ErrWeekDateRequired
	}

	weekStart := input.WeekStartDate.WeekStart()
	currentWeek := domain.DateOf(s.now().UTC()).WeekStart()
	if !weekStart.Equal(currentWeek) {
		return nil, domain.ErrNotCurrentWeek
	}

	note := strings.TrimSpace(input.Note)
	if len(note) > domain.MaxNoteLen {
		return nil, domain.ErrWeekNoteTooLong
	}

	existing, err := s.weekRepo.GetByUserAndWeek(ctx, input.UserID, weekStart)
	if err != nil && !errors.Is(err, domain.ErrWeekNotFound) {
		return nil, fmt.Errorf("grid service: upsert week: %w", err)
	}

	var rec *domain.WeekRecord
	if existing != nil {
		existing.IsCompleted = input.IsCompleted
		existing.Note = note
		rec = existing
	} else {
		rec, err = domain.NewWeekRecord(input.UserID, weekStart, input.IsCompleted, note)
		if err != nil {
			return nil, err
		}
	}

	if err := s.weekRepo.Upsert(ctx, rec); err != nil {
		return nil, fmt.Errorf("grid service: upsert week: %w", err)
	}

	if inv, ok := s.cohortRepo.(domain.CohortInvalidator); ok {
		inv.Invalidate(ctx)
	}

	return rec, nil
}

func (s *GridService) Weeks(ctx context.Context, userID string) ([]domain.WeekRecord, error) {
	return s.weekRepo.ListByUserID(ctx, userID)
}

func (s *GridService) Periods(ctx context.Context, userID string) ([]domain.SpecialPeriod, error) {
	return s.periodRepo.ListByUserID(ctx, userID)
}

type CreatePeriodInput struct {
	UserID      string
	StartDate   domain.Date
	EndDate     domain.Date
	PeriodType  string
	Description string
}

func (s *GridService) CreatePeriod(ctx context.Context, input CreatePeriodInput) (*domain.SpecialPeriod, error) {
	period, err := domain.NewSpecialPeriod(input.UserID, input.StartDate, input.EndDate, input.PeriodType, input.Description)
	if err != nil {
		return nil, err
	}

	if err := s.periodRepo.Create(ctx, period); err != nil {
		return nil, fmt.Errorf("grid service: create period: %w", err)
	}
	return period, nil
}

// DeletePeriod removes a period owned by the requester, or any period when
// the requester is a superuser.
func (s *GridService) DeletePeriod(ctx context.Context, requesterID, periodID string) error {
	requester, err := s.userRepo.GetByID(ctx, requesterID)
	if err != nil {
		return err
	}

	period, err := s.periodRepo.GetByID(ctx, periodID)
	if err != nil {
		return err
	}

	if period.UserID != requester.ID && !requester.IsSuperuser {
		return domain.ErrPeriodForbidden
	}

	return s.periodRepo.Delete(ctx, periodID)
}

func (s *GridService) AllProgress(ctx context.Context) ([]domain.UserProgress, error) {
	return s.cohortRepo.AllProgress(ctx)
}

// Stats computes the counters for one user with the same pure aggregator
// the clients run, over the user's goal range (personal dates override the
// global config).
func (s *GridService) Stats(ctx context.Context, userID string) (*domain.Stats, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	weeks, err := s.weekRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("grid service: stats: %w", err)
	}

	periods, err := s.periodRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("grid service: stats: %w", err)
	}

	cfg := user.GoalRange(s.config)
	stats := grid.ComputeStats(&cfg, weeks, periods)
	return &stats, nil
}
