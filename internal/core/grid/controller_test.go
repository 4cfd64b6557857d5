package grid_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/f2re/diplom-monitor/internal/core/domain"
	"github.com/f2re/diplom-monitor/internal/core/grid"
)

func TestController_LoadAll(t *testing.T) {
	ctx := context.Background()

	t.Run("Success: populates every cache and derives stats", func(t *testing.T) {
		remote := newMockRemote()
		remote.weeks = []domain.WeekRecord{
			{ID: "w1", WeekStartDate: mustDate("2024-01-01"), IsCompleted: true},
		}
		remote.periods = []domain.SpecialPeriod{
			{ID: "p1", StartDate: mustDate("2024-01-08"), EndDate: mustDate("2024-01-14")},
		}
		remote.progress = []domain.UserProgress{{UserID: "u1", Emoji: "🎓"}}

		ctrl := grid.NewController(remote, stubSession{id: "u1"})
		res := ctrl.LoadAll(ctx, "")

		assert.Equal(t, "u1", res.UserID, "user id falls back to the session")
		assert.False(t, res.Partial())

		stats := ctrl.Stats()
		assert.Equal(t, 5, stats.TotalWeeks)
		assert.Equal(t, 1, stats.SpecialWeeks)
		assert.Equal(t, 4, stats.EffectiveWeeks)
		assert.Equal(t, 1, stats.CompletedWeeks)
		assert.Equal(t, 3, stats.RemainingWeeks)
	})

	t.Run("No session: only the config is fetched", func(t *testing.T) {
		remote := newMockRemote()
		remote.weeks = []domain.WeekRecord{{ID: "w1", WeekStartDate: mustDate("2024-01-01")}}

		ctrl := grid.NewController(remote, stubSession{})
		res := ctrl.LoadAll(ctx, "")

		assert.Empty(t, res.UserID)
		assert.False(t, res.Partial())
		assert.NotNil(t, ctrl.Config.Get())
		assert.Empty(t, ctrl.Progress.Weeks(), "week cache stays empty without a user")
	})

	t.Run("Partial load: one failing fetch does not block the others", func(t *testing.T) {
		remote := newMockRemote()
		remote.weeks = []domain.WeekRecord{{ID: "w1", WeekStartDate: mustDate("2024-01-01"), IsCompleted: true}}
		remote.periodsErr = domain.ErrRemoteUnavailable

		ctrl := grid.NewController(remote, stubSession{id: "u1"})
		res := ctrl.LoadAll(ctx, "")

		assert.True(t, res.Partial())
		assert.NoError(t, res.WeeksErr)
		assert.ErrorIs(t, res.PeriodsErr, domain.ErrRemoteUnavailable)
		assert.Len(t, ctrl.Progress.Weeks(), 1)
		assert.Equal(t, 1, ctrl.Stats().CompletedWeeks)
	})

	t.Run("Explicit user id wins over the session", func(t *testing.T) {
		remote := newMockRemote()
		ctrl := grid.NewController(remote, stubSession{id: "u1"})

		res := ctrl.LoadAll(ctx, "u2")

		assert.Equal(t, "u2", res.UserID)
	})
}

func TestController_SetWeekStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("Error: no active session", func(t *testing.T) {
		ctrl := grid.NewController(newMockRemote(), stubSession{})

		_, err := ctrl.SetWeekStatus(ctx, mustDate("2024-01-01"), true, "")

		assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
	})

	t.Run("Success: applies the server-confirmed record locally", func(t *testing.T) {
		remote := newMockRemote()
		remote.progress = []domain.UserProgress{{UserID: "u1", Emoji: "🎓"}}
		ctrl := grid.NewController(remote, stubSession{id: "u1"})
		ctrl.LoadAll(ctx, "")

		rec, err := ctrl.SetWeekStatus(ctx, mustDate("2024-01-03"), true, "thesis draft")

		assert.NoError(t, err)
		assert.True(t, rec.WeekStartDate.Equal(mustDate("2024-01-01")), "mid-week date must normalize")
		assert.Equal(t, "srv-2024-01-01", rec.ID, "cache keeps the server id")

		stored := ctrl.Progress.GetByDate(mustDate("2024-01-01"))
		assert.NotNil(t, stored)
		assert.True(t, stored.IsCompleted)

		cohort := ctrl.Progress.GetCohortByDate(mustDate("2024-01-01"))
		assert.Len(t, cohort, 1)
		assert.True(t, cohort[0].IsCompleted, "cohort matrix patched alongside the week list")

		assert.Equal(t, 1, ctrl.Stats().CompletedWeeks)
	})

	t.Run("Rejected mutation leaves local state untouched", func(t *testing.T) {
		remote := newMockRemote()
		ctrl := grid.NewController(remote, stubSession{id: "u1"})
		ctrl.LoadAll(ctx, "")

		remote.mutateErr = domain.ErrValidationRejected
		_, err := ctrl.SetWeekStatus(ctx, mustDate("2024-01-01"), true, "")

		assert.ErrorIs(t, err, domain.ErrValidationRejected)
		assert.Nil(t, ctrl.Progress.GetByDate(mustDate("2024-01-01")))
		assert.Equal(t, 0, ctrl.Stats().CompletedWeeks)
	})

	t.Run("Second upsert for the same week updates in place", func(t *testing.T) {
		remote := newMockRemote()
		ctrl := grid.NewController(remote, stubSession{id: "u1"})
		ctrl.LoadAll(ctx, "")

		_, err := ctrl.SetWeekStatus(ctx, mustDate("2024-01-01"), true, "")
		assert.NoError(t, err)
		_, err = ctrl.SetWeekStatus(ctx, mustDate("2024-01-01"), false, "changed my mind")
		assert.NoError(t, err)

		assert.Len(t, ctrl.Progress.Weeks(), 1)
		assert.Equal(t, 0, ctrl.Stats().CompletedWeeks)
	})
}

func TestController_ToggleWeek(t *testing.T) {
	ctx := context.Background()

	t.Run("First toggle marks the week completed", func(t *testing.T) {
		remote := newMockRemote()
		ctrl := grid.NewController(remote, stubSession{id: "u1"})
		ctrl.LoadAll(ctx, "")

		rec, err := ctrl.ToggleWeek(ctx, mustDate("2024-01-01"))

		assert.NoError(t, err)
		assert.True(t, rec.IsCompleted)
	})

	t.Run("Toggle flips back and carries the note", func(t *testing.T) {
		remote := newMockRemote()
		ctrl := grid.NewController(remote, stubSession{id: "u1"})
		ctrl.LoadAll(ctx, "")

		_, err := ctrl.SetWeekStatus(ctx, mustDate("2024-01-01"), true, "keep me")
		assert.NoError(t, err)

		rec, err := ctrl.ToggleWeek(ctx, mustDate("2024-01-01"))

		assert.NoError(t, err)
		assert.False(t, rec.IsCompleted)
		assert.Equal(t, "keep me", rec.Note)
	})
}

func TestController_UpdateWeekNote(t *testing.T) {
	ctx := context.Background()

	t.Run("Keeps the completion state while editing the note", func(t *testing.T) {
		remote := newMockRemote()
		ctrl := grid.NewController(remote, stubSession{id: "u1"})
		ctrl.LoadAll(ctx, "")

		_, err := ctrl.SetWeekStatus(ctx, mustDate("2024-01-01"), true, "old")
		assert.NoError(t, err)

		rec, err := ctrl.UpdateWeekNote(ctx, mustDate("2024-01-01"), "new")

		assert.NoError(t, err)
		assert.True(t, rec.IsCompleted)
		assert.Equal(t, "new", rec.Note)
	})
}

func TestController_SpecialPeriods(t *testing.T) {
	ctx := context.Background()

	t.Run("Add fills the user id from the session and recomputes stats", func(t *testing.T) {
		remote := newMockRemote()
		ctrl := grid.NewController(remote, stubSession{id: "u1"})
		ctrl.LoadAll(ctx, "")

		created, err := ctrl.AddSpecialPeriod(ctx, grid.CreatePeriodInput{
			StartDate: mustDate("2024-01-08"),
			EndDate:   mustDate("2024-01-14"),
		})

		assert.NoError(t, err)
		assert.Equal(t, "u1", created.UserID)
		assert.Equal(t, 1, ctrl.Stats().SpecialWeeks)
	})

	t.Run("Error: add without a session", func(t *testing.T) {
		ctrl := grid.NewController(newMockRemote(), stubSession{})

		_, err := ctrl.AddSpecialPeriod(ctx, grid.CreatePeriodInput{
			StartDate: mustDate("2024-01-08"),
			EndDate:   mustDate("2024-01-14"),
		})

		assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
	})

	t.Run("Remove recomputes stats", func(t *testing.T) {
		remote := newMockRemote()
		remote.periods = []domain.SpecialPeriod{
			{ID: "p1", StartDate: mustDate("2024-01-08"), EndDate: mustDate("2024-01-14")},
		}
		ctrl := grid.NewController(remote, stubSession{id: "u1"})
		ctrl.LoadAll(ctx, "")
		assert.Equal(t, 1, ctrl.Stats().SpecialWeeks)

		assert.NoError(t, ctrl.RemoveSpecialPeriod(ctx, "p1"))
		assert.Equal(t, 0, ctrl.Stats().SpecialWeeks)
	})
}

func TestController_ServerStats(t *testing.T) {
	ctx := context.Background()

	t.Run("Success: fetches the server-computed counters", func(t *testing.T) {
		remote := newMockRemote()
		remote.stats = &domain.Stats{TotalWeeks: 42, RemainingWeeks: 7}
		ctrl := grid.NewController(remote, stubSession{id: "u1"})

		stats, err := ctrl.ServerStats(ctx)

		assert.NoError(t, err)
		assert.Equal(t, 42, stats.TotalWeeks)
	})

	t.Run("Error: no active session", func(t *testing.T) {
		ctrl := grid.NewController(newMockRemote(), stubSession{})

		_, err := ctrl.ServerStats(ctx)

		assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
	})
}
