package repository

import (
	"context"
	"errors"

	"github.com/garnizeh/chronosflow/pkg/models"
)

// Repository interfaces for domain entities. These are the public contracts
// consumers should depend on; concrete implementations live under internal/.
// Lookups that find nothing return nil, nil.

var ErrDuplicateEmail = errors.New("email already registered")

type AccountRepo interface {
	CreateAccount(ctx context.Context, a *models.Account) error
	GetAccountByID(ctx context.Context, id string) (*models.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*models.Account, error)
	UpdateAccount(ctx context.Context, a *models.Account) error
}

// StateRepo persists the whole application state of one account at a time.
type StateRepo interface {
	GetState(ctx context.Context, accountID string) (*models.StoredState, error)
	SaveState(ctx context.Context, s *models.StoredState) error
}

type SchemaRepo interface {
	CreateSchema(ctx context.Context, version, description, schemaJSON string) (int64, error)
	GetSchemaByVersion(ctx context.Context, version string) (*models.Schema, error)
	ListSchemas(ctx context.Context) ([]models.Schema, error)
}
