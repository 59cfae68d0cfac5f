package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	dbfs "github.com/garnizeh/chronosflow/db"
	"github.com/garnizeh/chronosflow/api"
	"github.com/garnizeh/chronosflow/internal/advice"
	"github.com/garnizeh/chronosflow/internal/config"
	"github.com/garnizeh/chronosflow/internal/service"
	"github.com/garnizeh/chronosflow/internal/state"
	"github.com/garnizeh/chronosflow/pkg/repository/mock"
	"golang.org/x/crypto/bcrypt"
)

type staticGenerator struct {
	text string
	err  error
}

func (g staticGenerator) Generate(ctx context.Context, system, prompt string) (string, error) {
	return g.text, g.err
}

type testServer struct {
	t     *testing.T
	h     http.Handler
	mocks *mock.Mocks
}

func newTestServer(t *testing.T, gen advice.Generator) *testServer {
	t.Helper()
	ctx := context.Background()
	m := mock.NewMocks()

	b, err := fs.ReadFile(dbfs.SeedFiles, "seed/state_schema_v1.json")
	if err != nil {
		t.Fatalf("read seed schema: %v", err)
	}
	if _, err := m.Schemas.CreateSchema(ctx, state.SchemaVersion, "test", string(b)); err != nil {
		t.Fatalf("seed schema: %v", err)
	}
	loader, err := state.NewLoader(ctx, m.Schemas)
	if err != nil {
		t.Fatalf("NewLoader: %v", err)
	}

	auth := service.NewAuth(m.Accounts, "testsecret", time.Hour, bcrypt.MinCost)
	advisor := advice.New(gen, config.AdviceConfig{Fallback: "advice unavailable"})
	tracker := service.NewTracker(m.Accounts, m.States, state.NewCodec(loader, nil), advisor, nil)

	return &testServer{t: t, h: api.SetupRoutes("test", "now", auth, tracker), mocks: m}
}

// do sends body (JSON-encoded unless it is a string) and returns status and raw body.
func (s *testServer) do(method, path string, body any, token string) (int, []byte) {
	s.t.Helper()
	var rdr io.Reader
	switch v := body.(type) {
	case nil:
	case string:
		rdr = bytes.NewBufferString(v)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			s.t.Fatalf("marshal body: %v", err)
		}
		rdr = bytes.NewBuffer(b)
	}

	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.h.ServeHTTP(w, req)
	res := w.Result()
	defer res.Body.Close()
	out, _ := io.ReadAll(res.Body)
	return res.StatusCode, out
}

// signup registers an account and returns its token.
func (s *testServer) signup(email string, roles ...string) string {
	s.t.Helper()
	if len(roles) == 0 {
		roles = []string{"EMPLOYER"}
	}
	status, body := s.do(http.MethodPost, "/v1/auth/signup", map[string]any{
		"name": "Alice", "email": email, "password": "s3cret!", "confirm_password": "s3cret!", "roles": roles,
	}, "")
	if status != http.StatusCreated {
		s.t.Fatalf("signup: status %d body %s", status, body)
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(body, &resp); err != nil || resp.Token == "" {
		s.t.Fatalf("signup: no token in %s", body)
	}
	return resp.Token
}

func decode[T any](t *testing.T, b []byte) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		t.Fatalf("decode %s: %v", b, err)
	}
	return v
}
