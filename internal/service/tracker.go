package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/garnizeh/chronosflow/internal/advice"
	"github.com/garnizeh/chronosflow/internal/calendar"
	"github.com/garnizeh/chronosflow/internal/config"
	"github.com/garnizeh/chronosflow/internal/roles"
	"github.com/garnizeh/chronosflow/internal/state"
	"github.com/garnizeh/chronosflow/internal/store"
	"github.com/garnizeh/chronosflow/internal/timelog"
	"github.com/garnizeh/chronosflow/pkg/models"
	"github.com/garnizeh/chronosflow/pkg/repository"
)

const maxHoursPerDay = 24

// Tracker owns every read and write of an account's application state.
// Mutations load the stored snapshot, apply a store reducer and save the
// result; they are serialized per account within the process.
type Tracker struct {
	accounts repository.AccountRepo
	states   repository.StateRepo
	codec    *state.Codec
	advisor  *advice.Advisor
	logger   *slog.Logger
	now      func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewTracker builds a Tracker. A nil advisor answers every advice request with the default fallback.
func NewTracker(accounts repository.AccountRepo, states repository.StateRepo, codec *state.Codec, advisor *advice.Advisor, logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if codec == nil {
		codec = state.NewCodec(nil, logger)
	}
	if advisor == nil {
		advisor = advice.New(nil, config.AdviceConfig{})
	}
	return &Tracker{
		accounts: accounts,
		states:   states,
		codec:    codec,
		advisor:  advisor,
		logger:   logger,
		now:      time.Now,
		locks:    make(map[string]*sync.Mutex),
	}
}

func (t *Tracker) lock(accountID string) func() {
	t.mu.Lock()
	l, ok := t.locks[accountID]
	if !ok {
		l = &sync.Mutex{}
		t.locks[accountID] = l
	}
	t.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// account loads an account and upgrades records that predate availableRoles.
func (t *Tracker) account(ctx context.Context, accountID string) (*models.Account, error) {
	acc, err := t.accounts.GetAccountByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("load account: %w", err)
	}
	if acc == nil {
		return nil, ErrAccountNotFound
	}
	acc.AvailableRoles = roles.Normalize(acc.Role, acc.AvailableRoles)
	return acc, nil
}

// load reads the stored snapshot; unreadable or missing snapshots become the default.
// The embedded user and active role always follow the account directory.
func (t *Tracker) load(ctx context.Context, acc *models.Account) (models.Snapshot, error) {
	row, err := t.states.GetState(ctx, acc.ID)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("load state: %w", err)
	}

	snap := state.Default()
	if row != nil {
		snap = t.codec.DecodeOrDefault(ctx, []byte(row.StateJSON))
	}
	snap.User = acc.User()
	snap.Role = acc.Role
	return snap, nil
}

func (t *Tracker) save(ctx context.Context, accountID string, snap models.Snapshot) error {
	b, err := t.codec.Encode(snap)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	if err := t.states.SaveState(ctx, &models.StoredState{
		AccountID:     accountID,
		StateJSON:     string(b),
		SchemaVersion: state.CurrentVersion,
	}); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

// update runs fn over the account's current state and persists the result.
// Nothing is saved when fn fails.
func (t *Tracker) update(ctx context.Context, accountID string, fn func(acc *models.Account, s models.AppState) (models.AppState, error)) (models.Snapshot, error) {
	unlock := t.lock(accountID)
	defer unlock()

	acc, err := t.account(ctx, accountID)
	if err != nil {
		return models.Snapshot{}, err
	}
	snap, err := t.load(ctx, acc)
	if err != nil {
		return models.Snapshot{}, err
	}

	next, err := fn(acc, snap.AppState)
	if err != nil {
		return models.Snapshot{}, err
	}
	snap.AppState = next
	snap.User = acc.User()
	if err := t.save(ctx, accountID, snap); err != nil {
		return models.Snapshot{}, err
	}
	return snap, nil
}

// Snapshot returns the account's current state.
func (t *Tracker) Snapshot(ctx context.Context, accountID string) (models.Snapshot, error) {
	acc, err := t.account(ctx, accountID)
	if err != nil {
		return models.Snapshot{}, err
	}
	return t.load(ctx, acc)
}

// Account returns the credential-free user record of an account.
func (t *Tracker) Account(ctx context.Context, accountID string) (*models.User, error) {
	acc, err := t.account(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return acc.User(), nil
}

// AddEmployee adds an employee and returns the new state and its id.
func (t *Tracker) AddEmployee(ctx context.Context, accountID, name string) (models.Snapshot, string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Snapshot{}, "", invalid("Please enter the employee name")
	}

	var id string
	snap, err := t.update(ctx, accountID, func(_ *models.Account, s models.AppState) (models.AppState, error) {
		var next models.AppState
		next, id = store.AddEmployee(s, name)
		return next, nil
	})
	return snap, id, err
}

// RemoveEmployee deletes an employee and all of its logs.
func (t *Tracker) RemoveEmployee(ctx context.Context, accountID, employeeID string) (models.Snapshot, error) {
	return t.update(ctx, accountID, func(_ *models.Account, s models.AppState) (models.AppState, error) {
		if store.FindEmployee(s, employeeID) == nil {
			return s, store.ErrEmployeeNotFound
		}
		return store.RemoveEmployee(s, employeeID), nil
	})
}

// SelectEmployee changes the current employee. An empty id clears the selection.
func (t *Tracker) SelectEmployee(ctx context.Context, accountID, employeeID string) (models.Snapshot, error) {
	return t.update(ctx, accountID, func(_ *models.Account, s models.AppState) (models.AppState, error) {
		return store.SelectEmployee(s, employeeID)
	})
}

// LogHours records hours for an employee on date, replacing any earlier entry for that date.
func (t *Tracker) LogHours(ctx context.Context, accountID, employeeID, date string, hours float64) (models.Snapshot, error) {
	if _, err := calendar.ParseDate(date); err != nil {
		return models.Snapshot{}, invalid("Date must be in YYYY-MM-DD format")
	}
	if math.IsNaN(hours) || math.IsInf(hours, 0) || hours < 0 || hours > maxHoursPerDay {
		return models.Snapshot{}, invalid(fmt.Sprintf("Hours must be between 0 and %d", maxHoursPerDay))
	}

	return t.update(ctx, accountID, func(_ *models.Account, s models.AppState) (models.AppState, error) {
		if store.FindEmployee(s, employeeID) == nil {
			return s, store.ErrEmployeeNotFound
		}
		return store.UpsertLog(s, employeeID, date, hours), nil
	})
}

// RemoveLog deletes an employee's entry for date. Missing entries are not an error.
func (t *Tracker) RemoveLog(ctx context.Context, accountID, employeeID, date string) (models.Snapshot, error) {
	return t.update(ctx, accountID, func(_ *models.Account, s models.AppState) (models.AppState, error) {
		if store.FindEmployee(s, employeeID) == nil {
			return s, store.ErrEmployeeNotFound
		}
		return store.RemoveLog(s, employeeID, date), nil
	})
}

// SwitchRole makes role the account's active role, in the directory and in the state.
func (t *Tracker) SwitchRole(ctx context.Context, accountID string, role models.Role) (models.Snapshot, error) {
	return t.update(ctx, accountID, func(acc *models.Account, s models.AppState) (models.AppState, error) {
		if err := roles.CanSwitch(acc.AvailableRoles, role); err != nil {
			return s, &ValidationError{Message: fmt.Sprintf("Role %s is not available for this account", roles.Label(role)), Err: err}
		}
		if acc.Role != role {
			acc.Role = role
			if err := t.accounts.UpdateAccount(ctx, acc); err != nil {
				return s, fmt.Errorf("update account: %w", err)
			}
		}
		return store.SetRole(s, role), nil
	})
}

// EmployeeSummary is the dashboard view of one employee.
type EmployeeSummary struct {
	EmployeeID string           `json:"employee_id"`
	Name       string           `json:"name"`
	Summary    timelog.Summary  `json:"summary"`
	Earnings   float64          `json:"earnings"`
	Recent     []models.TimeLog `json:"recent_logs"`
}

// Summary totals an employee's hours relative to today. Earnings apply hourlyRate to all-time hours.
func (t *Tracker) Summary(ctx context.Context, accountID, employeeID string, hourlyRate float64) (EmployeeSummary, error) {
	snap, err := t.Snapshot(ctx, accountID)
	if err != nil {
		return EmployeeSummary{}, err
	}
	emp := store.FindEmployee(snap.AppState, employeeID)
	if emp == nil {
		return EmployeeSummary{}, store.ErrEmployeeNotFound
	}
	return t.summarize(emp, hourlyRate), nil
}

// CurrentSummary totals the selected employee's hours, or zeros when nothing is selected.
func (t *Tracker) CurrentSummary(ctx context.Context, accountID string, hourlyRate float64) (EmployeeSummary, error) {
	snap, err := t.Snapshot(ctx, accountID)
	if err != nil {
		return EmployeeSummary{}, err
	}
	emp := store.Current(snap.AppState)
	if emp == nil {
		return EmployeeSummary{Recent: []models.TimeLog{}}, nil
	}
	return t.summarize(emp, hourlyRate), nil
}

func (t *Tracker) summarize(emp *models.Employee, hourlyRate float64) EmployeeSummary {
	sum := timelog.Summarize(emp.Logs, t.Today())
	return EmployeeSummary{
		EmployeeID: emp.ID,
		Name:       emp.Name,
		Summary:    sum,
		Earnings:   timelog.Earnings(sum.AllTime, hourlyRate),
		Recent:     timelog.SortedByDate(emp.Logs),
	}
}

// Today is the calendar date that summaries and default calendar months are relative to.
func (t *Tracker) Today() time.Time {
	return calendar.Today(t.now())
}

// Calendar lays out an employee's logged hours on a month grid.
func (t *Tracker) Calendar(ctx context.Context, accountID, employeeID string, year int, month time.Month) ([]calendar.Day, error) {
	snap, err := t.Snapshot(ctx, accountID)
	if err != nil {
		return nil, err
	}
	emp := store.FindEmployee(snap.AppState, employeeID)
	if emp == nil {
		return nil, store.ErrEmployeeNotFound
	}
	days, err := calendar.MonthGrid(year, month, timelog.HoursByDate(emp.Logs, year, month))
	if err != nil {
		return nil, &ValidationError{Message: "Invalid month", Err: err}
	}
	return days, nil
}

// Team reports all-time totals for every employee.
func (t *Tracker) Team(ctx context.Context, accountID string) ([]timelog.EmployeeTotal, error) {
	snap, err := t.Snapshot(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return timelog.TeamTotals(snap.Employees), nil
}

// Advice asks the advisor for a tip about the account's state. It only fails
// when the state itself cannot be loaded.
func (t *Tracker) Advice(ctx context.Context, accountID string) (string, error) {
	snap, err := t.Snapshot(ctx, accountID)
	if err != nil {
		return "", err
	}
	return t.advisor.Advise(ctx, snap.AppState), nil
}

// Export returns the account's state as a versioned JSON document.
func (t *Tracker) Export(ctx context.Context, accountID string) ([]byte, error) {
	snap, err := t.Snapshot(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return t.codec.Encode(snap)
}

// Import replaces the account's state with raw, which may be a current
// snapshot or an older unversioned record. The embedded user is discarded in
// favour of the account directory.
func (t *Tracker) Import(ctx context.Context, accountID string, raw []byte) (models.Snapshot, error) {
	snap, err := t.codec.Decode(ctx, raw)
	if err != nil {
		if errors.Is(err, state.ErrMalformed) || errors.Is(err, state.ErrSchemaViolation) || errors.Is(err, state.ErrUnsupportedVersion) {
			return models.Snapshot{}, &ValidationError{Message: "The imported data is not a valid ChronosFlow state", Err: err}
		}
		return models.Snapshot{}, fmt.Errorf("decode import: %w", err)
	}

	return t.update(ctx, accountID, func(acc *models.Account, _ models.AppState) (models.AppState, error) {
		next := store.Clone(snap.AppState)
		next.Role = acc.Role
		if next.CurrentEmployeeID != nil && store.FindEmployee(next, *next.CurrentEmployeeID) == nil {
			next.CurrentEmployeeID = nil
		}
		return next, nil
	})
}
