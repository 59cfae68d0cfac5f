// Package state turns stored snapshot blobs into typed values and back.
//
// Loading is a fixed pipeline: parse the raw JSON, validate it against the
// stored JSON schema, run the pure version migrations, then decode into
// models.Snapshot. Business code only ever sees the typed result.
package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/garnizeh/chronosflow/internal/store"
	"github.com/garnizeh/chronosflow/pkg/models"
)

// CurrentVersion is the snapshot version written by Encode.
const CurrentVersion = 1

// SchemaVersion names the JSON schema raw snapshots are validated against.
const SchemaVersion = "v1"

var (
	ErrMalformed          = errors.New("malformed state")
	ErrSchemaViolation    = errors.New("state does not match schema")
	ErrNoSchema           = errors.New("no schema registered")
	ErrUnsupportedVersion = errors.New("unsupported state version")
)

// Validator checks a raw snapshot against a named schema. *Loader implements it.
type Validator interface {
	Validate(ctx context.Context, version string, data []byte) error
}

// Codec decodes and encodes snapshots.
type Codec struct {
	validator Validator
	logger    *slog.Logger
}

// NewCodec builds a Codec. A nil validator skips schema validation.
func NewCodec(v Validator, logger *slog.Logger) *Codec {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &Codec{validator: v, logger: logger}
}

// Default is the snapshot of an account that has never saved anything.
func Default() models.Snapshot {
	return models.Snapshot{Version: CurrentVersion, AppState: store.Default()}
}

// Decode runs the load pipeline over raw.
func (c *Codec) Decode(ctx context.Context, raw []byte) (models.Snapshot, error) {
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return models.Snapshot{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if doc == nil {
		return models.Snapshot{}, fmt.Errorf("%w: not an object", ErrMalformed)
	}

	if c.validator != nil {
		if err := c.validator.Validate(ctx, SchemaVersion, raw); err != nil {
			return models.Snapshot{}, err
		}
	}

	if err := Migrate(doc); err != nil {
		return models.Snapshot{}, err
	}

	b, err := json.Marshal(doc)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	var snap models.Snapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return models.Snapshot{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	normalize(&snap)
	return snap, nil
}

// DecodeOrDefault decodes raw, logging and falling back to the default snapshot on any failure.
func (c *Codec) DecodeOrDefault(ctx context.Context, raw []byte) models.Snapshot {
	snap, err := c.Decode(ctx, raw)
	if err != nil {
		c.logger.Error("state: unreadable snapshot, using default", slog.Any("err", err))
		return Default()
	}
	return snap
}

// Encode serializes snap at the current version.
func (c *Codec) Encode(snap models.Snapshot) ([]byte, error) {
	snap.Version = CurrentVersion
	normalize(&snap)
	return json.Marshal(snap)
}

func normalize(s *models.Snapshot) {
	if s.Employees == nil {
		s.Employees = []models.Employee{}
	}
	for i := range s.Employees {
		if s.Employees[i].Logs == nil {
			s.Employees[i].Logs = []models.TimeLog{}
		}
	}
	if s.Role == "" {
		s.Role = models.RoleEmployee
	}
	if s.CurrentEmployeeID != nil && *s.CurrentEmployeeID == "" {
		s.CurrentEmployeeID = nil
	}
}
