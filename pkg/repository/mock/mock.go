package mock

import (
	"context"
	"sort"
	"sync"

	"github.com/garnizeh/chronosflow/pkg/models"
	"github.com/garnizeh/chronosflow/pkg/repository"
)

// Test helpers and mocks
type Mocks struct {
	Accounts *mockAccountRepo
	States   *mockStateRepo
	Schemas  *mockSchemaRepo
}

func NewMocks() *Mocks {
	return &Mocks{
		Accounts: &mockAccountRepo{byID: map[string]*models.Account{}},
		States:   &mockStateRepo{rows: map[string]*models.StoredState{}},
		Schemas:  &mockSchemaRepo{rows: map[string]*models.Schema{}},
	}
}

var _ repository.AccountRepo = (*mockAccountRepo)(nil)
var _ repository.StateRepo = (*mockStateRepo)(nil)
var _ repository.SchemaRepo = (*mockSchemaRepo)(nil)

type mockAccountRepo struct {
	mu        sync.Mutex
	byID      map[string]*models.Account
	CreateErr error
	GetErr    error
	UpdateErr error
}

func (m *mockAccountRepo) CreateAccount(ctx context.Context, a *models.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateErr != nil {
		return m.CreateErr
	}
	for _, existing := range m.byID {
		if existing.Email == a.Email {
			return repository.ErrDuplicateEmail
		}
	}
	cp := *a
	m.byID[a.ID] = &cp
	return nil
}

func (m *mockAccountRepo) GetAccountByID(ctx context.Context, id string) (*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	if a, ok := m.byID[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, nil
}

func (m *mockAccountRepo) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	for _, a := range m.byID {
		if a.Email == email {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockAccountRepo) UpdateAccount(ctx context.Context, a *models.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	cp := *a
	m.byID[a.ID] = &cp
	return nil
}

// Put stores an account directly, bypassing duplicate checks.
func (m *mockAccountRepo) Put(a *models.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *a
	m.byID[a.ID] = &cp
}

type mockStateRepo struct {
	mu      sync.Mutex
	rows    map[string]*models.StoredState
	Saves   int
	GetErr  error
	SaveErr error
}

func (m *mockStateRepo) GetState(ctx context.Context, accountID string) (*models.StoredState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	if s, ok := m.rows[accountID]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, nil
}

func (m *mockStateRepo) SaveState(ctx context.Context, s *models.StoredState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	cp := *s
	m.rows[s.AccountID] = &cp
	m.Saves++
	return nil
}

// Put stores a raw state row, e.g. a legacy or corrupt blob.
func (m *mockStateRepo) Put(accountID, stateJSON string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[accountID] = &models.StoredState{AccountID: accountID, StateJSON: stateJSON}
}

// SaveCount reports how many times SaveState succeeded.
func (m *mockStateRepo) SaveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Saves
}

type mockSchemaRepo struct {
	mu      sync.Mutex
	rows    map[string]*models.Schema
	nextID  int64
	ListErr error
}

func (m *mockSchemaRepo) CreateSchema(ctx context.Context, version, description, schemaJSON string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	m.rows[version] = &models.Schema{ID: m.nextID, Version: version, Description: description, SchemaJSON: schemaJSON}
	return m.nextID, nil
}

func (m *mockSchemaRepo) GetSchemaByVersion(ctx context.Context, version string) (*models.Schema, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.rows[version]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, nil
}

func (m *mockSchemaRepo) ListSchemas(ctx context.Context) ([]models.Schema, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	out := make([]models.Schema, 0, len(m.rows))
	for _, s := range m.rows {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, nil
}
