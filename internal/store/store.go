// Package store holds the pure reducers that mutate application state.
// Every reducer returns a new AppState and leaves its input untouched.
package store

import (
	"errors"

	"github.com/garnizeh/chronosflow/pkg/models"
	"github.com/google/uuid"
)

var ErrEmployeeNotFound = errors.New("employee not found")

// NewID returns a fresh identifier for employees and logs.
var NewID = uuid.NewString

// Default is the state of an account that has never saved anything.
func Default() models.AppState {
	return models.AppState{
		Role:      models.RoleEmployee,
		Employees: []models.Employee{},
	}
}

// Clone deep-copies s.
func Clone(s models.AppState) models.AppState {
	out := s
	if s.CurrentEmployeeID != nil {
		id := *s.CurrentEmployeeID
		out.CurrentEmployeeID = &id
	}
	if s.StudentGoal != nil {
		g := *s.StudentGoal
		out.StudentGoal = &g
	}
	out.Employees = make([]models.Employee, len(s.Employees))
	for i, e := range s.Employees {
		out.Employees[i] = cloneEmployee(e)
	}
	return out
}

func cloneEmployee(e models.Employee) models.Employee {
	logs := make([]models.TimeLog, len(e.Logs))
	copy(logs, e.Logs)
	e.Logs = logs
	return e
}

// AddEmployee appends an employee with no logs. The new employee becomes the
// selection only when nothing was selected.
func AddEmployee(s models.AppState, name string) (models.AppState, string) {
	out := Clone(s)
	id := NewID()
	out.Employees = append(out.Employees, models.Employee{ID: id, Name: name, Logs: []models.TimeLog{}})
	if out.CurrentEmployeeID == nil {
		out.CurrentEmployeeID = &id
	}
	return out, id
}

// RemoveEmployee drops the employee and its logs, clearing the selection if it pointed there.
func RemoveEmployee(s models.AppState, id string) models.AppState {
	out := Clone(s)
	kept := out.Employees[:0]
	for _, e := range out.Employees {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	out.Employees = kept
	if out.CurrentEmployeeID != nil && *out.CurrentEmployeeID == id {
		out.CurrentEmployeeID = nil
	}
	return out
}

// UpsertLog sets the hours logged by an employee on date. An existing log for
// the date keeps its id; otherwise a new log is appended. Hours are not validated.
func UpsertLog(s models.AppState, employeeID, date string, hours float64) models.AppState {
	out := Clone(s)
	for i := range out.Employees {
		e := &out.Employees[i]
		if e.ID != employeeID {
			continue
		}
		found := false
		for j := range e.Logs {
			if e.Logs[j].Date == date {
				e.Logs[j].Hours = hours
				found = true
				break
			}
		}
		if !found {
			e.Logs = append(e.Logs, models.TimeLog{ID: NewID(), Date: date, Hours: hours})
		}
	}
	return out
}

// RemoveLog deletes the employee's log for date. Absent logs are a no-op.
func RemoveLog(s models.AppState, employeeID, date string) models.AppState {
	out := Clone(s)
	for i := range out.Employees {
		e := &out.Employees[i]
		if e.ID != employeeID {
			continue
		}
		kept := e.Logs[:0]
		for _, l := range e.Logs {
			if l.Date != date {
				kept = append(kept, l)
			}
		}
		e.Logs = kept
	}
	return out
}

// SelectEmployee makes id the current employee. An empty id clears the selection.
func SelectEmployee(s models.AppState, id string) (models.AppState, error) {
	out := Clone(s)
	if id == "" {
		out.CurrentEmployeeID = nil
		return out, nil
	}
	if FindEmployee(out, id) == nil {
		return s, ErrEmployeeNotFound
	}
	out.CurrentEmployeeID = &id
	return out, nil
}

// SetRole records the active role in the state.
func SetRole(s models.AppState, role models.Role) models.AppState {
	out := Clone(s)
	out.Role = role
	return out
}

// FindEmployee returns the employee with id, or nil.
func FindEmployee(s models.AppState, id string) *models.Employee {
	for i := range s.Employees {
		if s.Employees[i].ID == id {
			return &s.Employees[i]
		}
	}
	return nil
}

// Current returns the selected employee, or nil when nothing is selected.
func Current(s models.AppState) *models.Employee {
	if s.CurrentEmployeeID == nil {
		return nil
	}
	return FindEmployee(s, *s.CurrentEmployeeID)
}
