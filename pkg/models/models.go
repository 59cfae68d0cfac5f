package models

// Domain models. Account and Schema match the tables in db/migrations/0001_init.sql;
// the remaining types are the JSON shape of the persisted application state.

type Role string

const (
	RoleEmployee Role = "EMPLOYEE"
	RoleEmployer Role = "EMPLOYER"
	RoleStudent  Role = "STUDENT"
)

// AllRoles lists roles in display order.
var AllRoles = []Role{RoleEmployee, RoleEmployer, RoleStudent}

type AuthProvider string

const (
	AuthProviderEmail  AuthProvider = "email"
	AuthProviderGoogle AuthProvider = "google"
)

type TimeLog struct {
	ID    string  `json:"id"`
	Date  string  `json:"date"`
	Hours float64 `json:"hours"`
}

type Employee struct {
	ID   string    `json:"id"`
	Name string    `json:"name"`
	Logs []TimeLog `json:"logs"`
}

// StudentGoal is persisted untouched; nothing populates it yet.
type StudentGoal struct {
	TotalHours float64 `json:"totalHours"`
	Months     int     `json:"months"`
	StartDate  string  `json:"startDate"`
}

// User is the public identity embedded in the state snapshot. It never carries a credential.
type User struct {
	ID             string       `json:"id"`
	Email          string       `json:"email"`
	Name           string       `json:"name"`
	Role           Role         `json:"role"`
	AvailableRoles []Role       `json:"availableRoles"`
	AuthProvider   AuthProvider `json:"authProvider"`
}

type AppState struct {
	Role              Role         `json:"role"`
	CurrentEmployeeID *string      `json:"currentEmployeeId"`
	Employees         []Employee   `json:"employees"`
	StudentGoal       *StudentGoal `json:"studentGoal"`
}

// Snapshot is the versioned record stored per account.
type Snapshot struct {
	Version int   `json:"version"`
	User    *User `json:"user"`
	AppState
}

// Account is a row of the account directory.
type Account struct {
	ID             string       `json:"id" db:"id"`
	Email          string       `json:"email" db:"email"`
	Name           string       `json:"name" db:"name"`
	Role           Role         `json:"role" db:"role"`
	AvailableRoles []Role       `json:"available_roles" db:"available_roles"`
	AuthProvider   AuthProvider `json:"auth_provider" db:"auth_provider"`
	PasswordHash   string       `json:"-" db:"password_hash"`
	Updated        int64        `json:"updated" db:"updated"`
}

// User returns the credential-free view of the account.
func (a *Account) User() *User {
	roles := make([]Role, len(a.AvailableRoles))
	copy(roles, a.AvailableRoles)
	return &User{
		ID:             a.ID,
		Email:          a.Email,
		Name:           a.Name,
		Role:           a.Role,
		AvailableRoles: roles,
		AuthProvider:   a.AuthProvider,
	}
}

// StoredState is a row of app_states.
type StoredState struct {
	AccountID     string `json:"account_id" db:"account_id"`
	StateJSON     string `json:"state_json" db:"state_json"`
	SchemaVersion int    `json:"schema_version" db:"schema_version"`
	Updated       int64  `json:"updated" db:"updated"`
}

type Schema struct {
	ID          int64  `json:"id" db:"id"`
	Version     string `json:"version" db:"version"`
	Description string `json:"description" db:"description"`
	SchemaJSON  string `json:"schema_json" db:"schema_json"`
	Created     int64  `json:"created" db:"created"`
	Updated     int64  `json:"updated" db:"updated"`
}
