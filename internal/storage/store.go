package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/faizmokh/servicelog/internal/maintenance"
)

// ErrInvalidBlob is returned by SaveRaw for blobs that do not decode as AppData.
var ErrInvalidBlob = errors.New("blob is not a valid maintenance record")

// Store implements maintenance.Repository on top of a Backend. Load and Save
// never fail: read problems fall back to the default record and write
// problems are logged.
type Store struct {
	backend Backend
	key     string
	logger  *logrus.Logger
}

// NewStore binds backend to maintenance.StorageKey.
func NewStore(backend Backend, logger *logrus.Logger) *Store {
	return &Store{backend: backend, key: maintenance.StorageKey, logger: logger}
}

// Load returns the last saved record, or the default record when nothing is
// stored or the stored value cannot be read.
func (s *Store) Load(ctx context.Context) maintenance.AppData {
	log := s.logger.WithField("key", s.key)

	blob, ok, err := s.backend.Get(ctx, s.key)
	if err != nil {
		log.WithError(err).Error("failed to load data")
		return maintenance.DefaultData()
	}
	if !ok {
		log.Debug("no stored data, using defaults")
		return maintenance.DefaultData()
	}

	data, err := maintenance.Decode(blob)
	if err != nil {
		log.WithError(err).Error("failed to parse stored data")
		return maintenance.DefaultData()
	}
	return data
}

// Save overwrites the stored record with data.
func (s *Store) Save(ctx context.Context, data maintenance.AppData) {
	log := s.logger.WithField("key", s.key)

	blob, err := maintenance.Encode(data)
	if err != nil {
		log.WithError(err).Error("failed to save data")
		return
	}
	if err := s.backend.Set(ctx, s.key, blob); err != nil {
		log.WithError(err).Error("failed to save data")
		return
	}
	log.WithField("bytes", len(blob)).Debug("data saved")
}

// LoadRaw returns the exact stored string.
func (s *Store) LoadRaw(ctx context.Context) (string, bool, error) {
	return s.backend.Get(ctx, s.key)
}

// SaveRaw stores blob verbatim after checking it decodes as a record.
func (s *Store) SaveRaw(ctx context.Context, blob string) error {
	if _, err := maintenance.Decode(blob); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBlob, err)
	}
	return s.backend.Set(ctx, s.key, blob)
}
