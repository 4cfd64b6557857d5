package workers

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/f2re/diplom-monitor/internal/core/domain"
)

// Notifier delivers a reminder to a single user. Implementations decide the
// channel (Telegram, log, ...).
type Notifier interface {
	Notify(ctx context.Context, user *domain.User, message string) error
}

const reminderMessage = "Don't forget to mark your progress for this week in Weeks Until Diploma!"

// ReminderWorker periodically nudges users who have not completed the
// current week. Only users with a linked Telegram chat are notified.
type ReminderWorker struct {
	userRepo domain.UserRepository
	weekRepo domain.WeekRepository
	notifier Notifier
	interval time.Duration

	now func() time.Time
}

func NewReminderWorker(userRepo domain.UserRepository, weekRepo domain.WeekRepository, notifier Notifier, interval time.Duration) *ReminderWorker {
	return &ReminderWorker{
		userRepo: userRepo,
		weekRepo: weekRepo,
		notifier: notifier,
		interval: interval,
		now:      time.Now,
	}
}

func (w *ReminderWorker) Start(ctx context.Context) {
	go func() {
		log.Println("Reminder worker started in background...")
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				w.RunOnce(ctx)
			case <-ctx.Done():
				log.Println("Reminder worker shutting down...")
				return
			}
		}
	}()
}

// RunOnce scans the cohort and notifies everyone still missing a completed
// record for the current week.
func (w *ReminderWorker) RunOnce(ctx context.Context) {
	currentWeek := domain.DateOf(w.now().UTC()).WeekStart()

	users, err := w.userRepo.List(ctx)
	if err != nil {
		log.Printf("Reminder worker: failed to list users: %v", err)
		return
	}

	for i := range users {
		user := &users[i]
		if user.TelegramID == nil {
			continue
		}

		rec, err := w.weekRepo.GetByUserAndWeek(ctx, user.ID, currentWeek)
		if err != nil && !errors.Is(err, domain.ErrWeekNotFound) {
			log.Printf("Reminder worker: failed to load week for %s: %v", user.ID, err)
			continue
		}
		if rec != nil && rec.IsCompleted {
			continue
		}

		if err := w.notifier.Notify(ctx, user, reminderMessage); err != nil {
			log.Printf("Reminder worker: failed to notify %s: %v", user.ID, err)
		}
	}
}
