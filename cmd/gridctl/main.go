// gridctl is a terminal client for the grid API. It drives the same
// sync engine the web frontend embeds: every command loads the caches
// through the controller, applies mutations remote-first and prints the
// recomputed statistics.
//
// The bearer token from "gridctl login" is stored in ~/.gridctl/token
// so subsequent commands run authenticated.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/f2re/diplom-monitor/internal/adapters/remote"
	"github.com/f2re/diplom-monitor/internal/adapters/session"
	"github.com/f2re/diplom-monitor/internal/core/domain"
	"github.com/f2re/diplom-monitor/internal/core/grid"
)

const defaultServerURL = "http://localhost:8080"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		printUsage()
		return nil
	}

	command, rest := args[0], args[1:]

	flags := pflag.NewFlagSet("gridctl "+command, pflag.ContinueOnError)
	serverURL := flags.String("server", envOr("GRIDCTL_SERVER", defaultServerURL), "grid API base URL")

	store := session.NewStore()
	if token, err := loadToken(); err == nil && token != "" {
		store.SetToken(token)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	switch command {
	case "login":
		email := flags.String("email", "", "account email")
		password := flags.String("password", "", "account password")
		if err := flags.Parse(rest); err != nil {
			return err
		}
		client := remote.NewClient(*serverURL, store)
		return cmdLogin(ctx, client, store, *email, *password)

	case "register":
		email := flags.String("email", "", "account email")
		password := flags.String("password", "", "account password (min 8 characters)")
		fullName := flags.String("name", "", "full name")
		emoji := flags.String("emoji", "", "grid emoji (optional)")
		if err := flags.Parse(rest); err != nil {
			return err
		}
		client := remote.NewClient(*serverURL, store)
		return cmdRegister(ctx, client, *email, *password, *fullName, *emoji)

	case "logout":
		if err := flags.Parse(rest); err != nil {
			return err
		}
		store.Clear()
		return saveToken("")

	case "show":
		if err := flags.Parse(rest); err != nil {
			return err
		}
		client := remote.NewClient(*serverURL, store)
		return cmdShow(ctx, client, store)

	case "toggle":
		date := flags.String("date", "", "any day inside the target week (YYYY-MM-DD, default today)")
		if err := flags.Parse(rest); err != nil {
			return err
		}
		client := remote.NewClient(*serverURL, store)
		return cmdToggle(ctx, client, store, *date)

	case "note":
		date := flags.String("date", "", "any day inside the target week (YYYY-MM-DD, default today)")
		text := flags.String("text", "", "note text (empty clears the note)")
		if err := flags.Parse(rest); err != nil {
			return err
		}
		client := remote.NewClient(*serverURL, store)
		return cmdNote(ctx, client, store, *date, *text)

	case "period":
		return runPeriod(ctx, flags, rest, store, serverURL)

	case "help", "--help", "-h":
		printUsage()
		return nil

	default:
		printUsage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func runPeriod(ctx context.Context, flags *pflag.FlagSet, rest []string, store *session.Store, serverURL *string) error {
	if len(rest) == 0 {
		return errors.New("period: expected subcommand add or rm")
	}
	sub, rest := rest[0], rest[1:]

	switch sub {
	case "add":
		start := flags.String("start", "", "first day of the period (YYYY-MM-DD)")
		end := flags.String("end", "", "last day of the period (YYYY-MM-DD)")
		kind := flags.String("type", domain.PeriodTypeVacation, "period type (vacation, business_trip, other)")
		desc := flags.String("desc", "", "description")
		if err := flags.Parse(rest); err != nil {
			return err
		}
		client := remote.NewClient(*serverURL, store)
		return cmdPeriodAdd(ctx, client, store, *start, *end, *kind, *desc)

	case "rm":
		if err := flags.Parse(rest); err != nil {
			return err
		}
		if flags.NArg() != 1 {
			return errors.New("period rm: expected exactly one period id")
		}
		client := remote.NewClient(*serverURL, store)
		return cmdPeriodRemove(ctx, client, store, flags.Arg(0))

	default:
		return fmt.Errorf("period: unknown subcommand %q", sub)
	}
}

func cmdLogin(ctx context.Context, client *remote.Client, store *session.Store, email, password string) error {
	if email == "" || password == "" {
		return errors.New("login: --email and --password are required")
	}
	token, err := client.Login(ctx, email, password)
	if err != nil {
		return err
	}
	store.SetToken(token)
	if err := saveToken(token); err != nil {
		return err
	}
	userID, _ := store.CurrentUserID()
	fmt.Printf("Logged in as %s (user %s)\n", email, userID)
	return nil
}

func cmdRegister(ctx context.Context, client *remote.Client, email, password, fullName, emoji string) error {
	if email == "" || password == "" || fullName == "" {
		return errors.New("register: --email, --password and --name are required")
	}
	user, err := client.Register(ctx, email, password, fullName, emoji)
	if err != nil {
		return err
	}
	fmt.Printf("Registered %s %s (%s). Run \"gridctl login\" to start a session.\n", user.Emoji, user.FullName, user.Email)
	return nil
}

func cmdShow(ctx context.Context, client *remote.Client, store *session.Store) error {
	ctrl := grid.NewController(client, store)
	res := ctrl.LoadAll(ctx, "")
	reportPartial(res)

	cfg := ctrl.Config.Get()
	if cfg == nil {
		return errors.New("show: goal configuration unavailable")
	}
	fmt.Printf("Goal: %s .. %s\n", cfg.StartDate, cfg.Deadline)

	if res.UserID == "" {
		fmt.Println("Not logged in; showing configuration only.")
		return nil
	}

	periods := ctrl.Periods.Periods()
	fmt.Println()
	for ws := cfg.FirstWeek(); !ws.After(cfg.Deadline); ws = ws.AddDays(7) {
		mark := "."
		detail := ""
		if p := ctrl.Periods.MembershipOf(ws); p != nil {
			mark = "~"
			detail = "  (" + p.PeriodType + ")"
		} else if rec := ctrl.Progress.GetByDate(ws); rec != nil && rec.IsCompleted {
			mark = "x"
			if rec.Note != "" {
				detail = "  " + rec.Note
			}
		}
		fmt.Printf("  %s  [%s]%s\n", ws, mark, detail)
	}

	stats := ctrl.Stats()
	fmt.Println()
	fmt.Printf("Weeks: %d total, %d special, %d effective\n", stats.TotalWeeks, stats.SpecialWeeks, stats.EffectiveWeeks)
	fmt.Printf("Done:  %d completed, %d remaining\n", stats.CompletedWeeks, stats.RemainingWeeks)

	if len(periods) > 0 {
		fmt.Println()
		fmt.Println("Special periods:")
		for _, p := range periods {
			fmt.Printf("  %s  %s .. %s  %s  %s\n", p.ID, p.StartDate, p.EndDate, p.PeriodType, p.Description)
		}
	}
	return nil
}

func cmdToggle(ctx context.Context, client *remote.Client, store *session.Store, date string) error {
	ctrl, day, err := loadForMutation(ctx, client, store, date)
	if err != nil {
		return err
	}
	rec, err := ctrl.ToggleWeek(ctx, day)
	if err != nil {
		return err
	}
	printWeek(rec, ctrl.Stats())
	return nil
}

func cmdNote(ctx context.Context, client *remote.Client, store *session.Store, date, text string) error {
	ctrl, day, err := loadForMutation(ctx, client, store, date)
	if err != nil {
		return err
	}
	rec, err := ctrl.UpdateWeekNote(ctx, day, text)
	if err != nil {
		return err
	}
	printWeek(rec, ctrl.Stats())
	return nil
}

func cmdPeriodAdd(ctx context.Context, client *remote.Client, store *session.Store, start, end, kind, desc string) error {
	if start == "" || end == "" {
		return errors.New("period add: --start and --end are required")
	}
	startDate, err := domain.ParseDate(start)
	if err != nil {
		return fmt.Errorf("period add: %w", err)
	}
	endDate, err := domain.ParseDate(end)
	if err != nil {
		return fmt.Errorf("period add: %w", err)
	}

	ctrl, _, err := loadForMutation(ctx, client, store, "")
	if err != nil {
		return err
	}
	period, err := ctrl.AddSpecialPeriod(ctx, grid.CreatePeriodInput{
		StartDate:   startDate,
		EndDate:     endDate,
		PeriodType:  kind,
		Description: desc,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Added period %s: %s .. %s (%s)\n", period.ID, period.StartDate, period.EndDate, period.PeriodType)
	return nil
}

func cmdPeriodRemove(ctx context.Context, client *remote.Client, store *session.Store, id string) error {
	ctrl, _, err := loadForMutation(ctx, client, store, "")
	if err != nil {
		return err
	}
	if err := ctrl.RemoveSpecialPeriod(ctx, id); err != nil {
		return err
	}
	fmt.Printf("Removed period %s\n", id)
	return nil
}

// loadForMutation builds a controller, syncs it and resolves the target
// day. Mutations need the caches warm so the confirm-then-apply step
// patches real state.
func loadForMutation(ctx context.Context, client *remote.Client, store *session.Store, date string) (*grid.Controller, domain.Date, error) {
	day := domain.Today()
	if date != "" {
		parsed, err := domain.ParseDate(date)
		if err != nil {
			return nil, domain.Date{}, err
		}
		day = parsed
	}

	if _, ok := store.CurrentUserID(); !ok {
		return nil, domain.Date{}, domain.ErrNotAuthenticated
	}

	ctrl := grid.NewController(client, store)
	res := ctrl.LoadAll(ctx, "")
	if res.WeeksErr != nil {
		return nil, domain.Date{}, res.WeeksErr
	}
	reportPartial(res)
	return ctrl, day, nil
}

func reportPartial(res grid.LoadResult) {
	for _, item := range []struct {
		name string
		err  error
	}{
		{"config", res.ConfigErr},
		{"weeks", res.WeeksErr},
		{"periods", res.PeriodsErr},
		{"cohort", res.CohortErr},
	} {
		if item.err != nil {
			fmt.Fprintf(os.Stderr, "warning: %s not refreshed: %v\n", item.name, item.err)
		}
	}
}

func printWeek(rec *domain.WeekRecord, stats domain.Stats) {
	state := "open"
	if rec.IsCompleted {
		state = "completed"
	}
	fmt.Printf("Week %s is now %s", rec.WeekStartDate, state)
	if rec.Note != "" {
		fmt.Printf(" (%s)", rec.Note)
	}
	fmt.Println()
	fmt.Printf("Done: %d completed, %d remaining of %d effective\n",
		stats.CompletedWeeks, stats.RemainingWeeks, stats.EffectiveWeeks)
}

func tokenPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".gridctl", "token"), nil
}

func loadToken() (string, error) {
	path, err := tokenPath()
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func saveToken(token string) error {
	path, err := tokenPath()
	if err != nil {
		return err
	}
	if token == "" {
		err := os.Remove(path)
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(token), 0o600)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func printUsage() {
	fmt.Println(`gridctl - terminal client for the diplom-monitor grid

Usage:
  gridctl login    --email E --password P
  gridctl register --email E --password P --name N [--emoji X]
  gridctl logout
  gridctl show
  gridctl toggle   [--date YYYY-MM-DD]
  gridctl note     [--date YYYY-MM-DD] --text "..."
  gridctl period add --start YYYY-MM-DD --end YYYY-MM-DD [--type T] [--desc D]
  gridctl period rm <id>

Flags:
  --server URL   grid API base URL (default ` + defaultServerURL + `, env GRIDCTL_SERVER)`)
}
