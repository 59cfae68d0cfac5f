package state_test

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"strings"
	"testing"

	dbfs "github.com/garnizeh/chronosflow/db"
	"github.com/garnizeh/chronosflow/internal/state"
	"github.com/garnizeh/chronosflow/pkg/models"
	"github.com/garnizeh/chronosflow/pkg/repository/mock"
)

func newCodec(t *testing.T) *state.Codec {
	t.Helper()
	ctx := context.Background()

	b, err := fs.ReadFile(dbfs.SeedFiles, "seed/state_schema_v1.json")
	if err != nil {
		t.Fatalf("read seed schema: %v", err)
	}
	m := mock.NewMocks()
	if _, err := m.Schemas.CreateSchema(ctx, state.SchemaVersion, "test", string(b)); err != nil {
		t.Fatalf("seed schema: %v", err)
	}

	l, err := state.NewLoader(ctx, m.Schemas)
	if err != nil {
		t.Fatalf("NewLoader: %v", err)
	}
	return state.NewCodec(l, nil)
}

const legacyBlob = `{
  "user": {"id": "u1", "email": "ana@example.com", "name": "Ana", "role": "EMPLOYER", "authProvider": "email", "password": "hunter2"},
  "role": "EMPLOYER",
  "currentEmployeeId": "e1",
  "employees": [{"id": "e1", "name": "Bruno", "logs": [{"id": "l1", "date": "2024-03-11", "hours": 8}]}],
  "studentGoal": null
}`

func TestDecode_LegacyBlobIsMigrated(t *testing.T) {
	c := newCodec(t)

	snap, err := c.Decode(context.Background(), []byte(legacyBlob))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if snap.Version != state.CurrentVersion {
		t.Fatalf("version = %d, want %d", snap.Version, state.CurrentVersion)
	}
	if snap.User == nil || len(snap.User.AvailableRoles) != 1 || snap.User.AvailableRoles[0] != models.RoleEmployer {
		t.Fatalf("availableRoles not injected: %+v", snap.User)
	}
	if snap.CurrentEmployeeID == nil || *snap.CurrentEmployeeID != "e1" {
		t.Fatalf("selection lost")
	}
	if len(snap.Employees) != 1 || snap.Employees[0].Logs[0].Hours != 8 {
		t.Fatalf("employees lost: %+v", snap.Employees)
	}

	out, err := c.Encode(snap)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if strings.Contains(string(out), "hunter2") || strings.Contains(string(out), "password") {
		t.Fatalf("credential leaked into snapshot: %s", out)
	}
}

func TestDecode_CurrentVersionRoundTrip(t *testing.T) {
	c := newCodec(t)
	sel := "e1"
	in := models.Snapshot{
		User: &models.User{ID: "u1", Email: "a@b.c", Role: models.RoleStudent, AvailableRoles: []models.Role{models.RoleStudent}, AuthProvider: models.AuthProviderEmail},
		AppState: models.AppState{
			Role:              models.RoleStudent,
			CurrentEmployeeID: &sel,
			Employees:         []models.Employee{{ID: "e1", Name: "Me"}},
			StudentGoal:       &models.StudentGoal{TotalHours: 100, Months: 2, StartDate: "2024-01-15"},
		},
	}

	b, err := c.Encode(in)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	out, err := c.Decode(context.Background(), b)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if out.Version != 1 || out.Role != models.RoleStudent || out.StudentGoal == nil || out.StudentGoal.Months != 2 {
		t.Fatalf("unexpected snapshot: %+v", out)
	}
	if out.Employees[0].Logs == nil {
		t.Fatalf("logs should decode as an empty list")
	}
}

func TestDecode_Failures(t *testing.T) {
	c := newCodec(t)
	tests := []struct {
		name string
		raw  string
		want error
	}{
		{"not json", `{nope`, state.ErrMalformed},
		{"null", `null`, state.ErrMalformed},
		{"missing employees", `{"role":"EMPLOYEE"}`, state.ErrSchemaViolation},
		{"bad role", `{"role":"ADMIN","employees":[]}`, state.ErrSchemaViolation},
		{"hours as string", `{"role":"EMPLOYEE","employees":[{"id":"e","name":"n","logs":[{"id":"l","date":"2024-01-01","hours":"8"}]}]}`, state.ErrSchemaViolation},
		{"future version", `{"version":7,"role":"EMPLOYEE","employees":[]}`, state.ErrUnsupportedVersion},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := c.Decode(context.Background(), []byte(tt.raw)); !errors.Is(err, tt.want) {
				t.Fatalf("Decode error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDecodeOrDefault(t *testing.T) {
	c := newCodec(t)
	snap := c.DecodeOrDefault(context.Background(), []byte(`garbage`))
	if snap.Role != models.RoleEmployee || len(snap.Employees) != 0 || snap.CurrentEmployeeID != nil {
		t.Fatalf("expected default snapshot, got %+v", snap)
	}
}

func TestDecode_WithoutValidator(t *testing.T) {
	c := state.NewCodec(nil, nil)
	snap, err := c.Decode(context.Background(), []byte(`{"employees":null}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if snap.Role != models.RoleEmployee || snap.Employees == nil {
		t.Fatalf("expected normalized defaults, got %+v", snap)
	}
}

func TestMigrate(t *testing.T) {
	doc := map[string]any{}
	if err := json.Unmarshal([]byte(`{"user":{"role":"STUDENT","availableRoles":[]},"role":"STUDENT","employees":[]}`), &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if err := state.Migrate(doc); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	if doc["version"] != float64(1) {
		t.Fatalf("version not stamped: %v", doc["version"])
	}
	roles := doc["user"].(map[string]any)["availableRoles"].([]any)
	if len(roles) != 1 || roles[0] != "STUDENT" {
		t.Fatalf("unexpected roles: %v", roles)
	}

	// already current: untouched
	keep := map[string]any{"version": float64(1), "user": map[string]any{"role": "EMPLOYEE"}}
	if err := state.Migrate(keep); err != nil {
		t.Fatalf("Migrate current: %v", err)
	}
	if _, ok := keep["user"].(map[string]any)["availableRoles"]; ok {
		t.Fatalf("current documents must not be patched")
	}

	if err := state.Migrate(map[string]any{"version": "one"}); !errors.Is(err, state.ErrMalformed) {
		t.Fatalf("expected ErrMalformed for bad version, got %v", err)
	}
	if err := state.Migrate(map[string]any{"user": map[string]any{"id": "x"}}); !errors.Is(err, state.ErrMalformed) {
		t.Fatalf("expected ErrMalformed for user without role, got %v", err)
	}
}

func TestLoader_MissingSchema(t *testing.T) {
	l, err := state.NewLoader(context.Background(), mock.NewMocks().Schemas)
	if err != nil {
		t.Fatalf("NewLoader: %v", err)
	}
	if err := l.Validate(context.Background(), "v1", []byte(`{}`)); !errors.Is(err, state.ErrNoSchema) {
		t.Fatalf("expected ErrNoSchema, got %v", err)
	}
}

func TestLoader_BadSchemaFailsReload(t *testing.T) {
	m := mock.NewMocks()
	if _, err := m.Schemas.CreateSchema(context.Background(), "v1", "bad", `{not json`); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := state.NewLoader(context.Background(), m.Schemas); err == nil {
		t.Fatalf("expected compile error")
	}
}

func TestLoader_ListErr(t *testing.T) {
	m := mock.NewMocks()
	m.Schemas.ListErr = errors.New("db down")
	if _, err := state.NewLoader(context.Background(), m.Schemas); err == nil {
		t.Fatalf("expected load error")
	}
}
