// Package roles enforces which role combinations an account may hold and
// which role it may switch to.
package roles

import (
	"errors"
	"fmt"
	"strings"

	"github.com/garnizeh/chronosflow/pkg/models"
)

var (
	ErrRoleConflict     = errors.New("role conflict")
	ErrRoleNotAvailable = errors.New("role not available for this account")
	ErrUnknownRole      = errors.New("unknown role")
	ErrNoRoles          = errors.New("at least one role is required")
)

const (
	msgChooseOne  = "Employee and Employer cannot be selected at the same time. Choose only one."
	msgAddStudent = "Employee and Employer cannot be selected at the same time. Select Student to combine roles."
)

// ConflictError carries the message shown to the user when a toggle is refused.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

func (e *ConflictError) Unwrap() error { return ErrRoleConflict }

// Parse maps a wire value (case-insensitive) to a Role.
func Parse(s string) (models.Role, error) {
	r := models.Role(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range models.AllRoles {
		if r == known {
			return r, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
}

// Label returns the display name of r.
func Label(r models.Role) string {
	switch r {
	case models.RoleEmployee:
		return "Employee"
	case models.RoleEmployer:
		return "Employer"
	case models.RoleStudent:
		return "Student"
	}
	return string(r)
}

func contains(set []models.Role, r models.Role) bool {
	for _, v := range set {
		if v == r {
			return true
		}
	}
	return false
}

// Toggle flips r in the registration-time selection. Turning a role off always
// succeeds. A refused toggle returns the selection unchanged and a *ConflictError.
func Toggle(selected []models.Role, r models.Role) ([]models.Role, error) {
	out := make([]models.Role, 0, len(selected)+1)

	if contains(selected, r) {
		for _, v := range selected {
			if v != r {
				out = append(out, v)
			}
		}
		return out, nil
	}

	out = append(out, selected...)
	hasEmployee := contains(selected, models.RoleEmployee)
	hasEmployer := contains(selected, models.RoleEmployer)
	hasStudent := contains(selected, models.RoleStudent)

	switch r {
	case models.RoleStudent:
		if hasEmployee && hasEmployer {
			return out, &ConflictError{Message: msgChooseOne}
		}
	case models.RoleEmployee:
		if hasEmployer {
			if hasStudent {
				return out, &ConflictError{Message: msgChooseOne}
			}
			return out, &ConflictError{Message: msgAddStudent}
		}
	case models.RoleEmployer:
		if hasEmployee {
			if hasStudent {
				return out, &ConflictError{Message: msgChooseOne}
			}
			return out, &ConflictError{Message: msgAddStudent}
		}
	default:
		return out, fmt.Errorf("%w: %q", ErrUnknownRole, r)
	}

	return append(out, r), nil
}

// ValidateSet checks a final role set: non-empty, known roles, no duplicates,
// and never Employee together with Employer.
func ValidateSet(set []models.Role) error {
	if len(set) == 0 {
		return ErrNoRoles
	}
	seen := make(map[models.Role]bool, len(set))
	for _, r := range set {
		if _, err := Parse(string(r)); err != nil {
			return err
		}
		if seen[r] {
			return fmt.Errorf("%w: duplicate role %s", ErrRoleConflict, r)
		}
		seen[r] = true
	}
	if seen[models.RoleEmployee] && seen[models.RoleEmployer] {
		return &ConflictError{Message: msgChooseOne}
	}
	return nil
}

// CanSwitch reports whether an account holding available may make target its active role.
func CanSwitch(available []models.Role, target models.Role) error {
	if !contains(available, target) {
		return fmt.Errorf("%w: %s", ErrRoleNotAvailable, target)
	}
	return nil
}

// Normalize upgrades records that predate availableRoles: an empty set becomes [role].
func Normalize(role models.Role, available []models.Role) []models.Role {
	if len(available) == 0 {
		return []models.Role{role}
	}
	out := make([]models.Role, len(available))
	copy(out, available)
	return out
}
