package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/appleboy/strava-relay/internal/core"
	"github.com/appleboy/strava-relay/internal/models"

	"github.com/pelletier/go-toml/v2"
)

var _ core.CredentialStore = (*FileStore)(nil)

// fileDocument is the on-disk layout: one table per athlete id.
type fileDocument struct {
	Credentials map[string]models.Credential `toml:"credentials"`
}

// FileStore is a Credential Store backed by a single TOML file.
// All access is serialized through mu; every Upsert rewrites the file through
// a temp file and rename so a crash never leaves a half-written document.
type FileStore struct {
	mu    sync.RWMutex
	path  string
	creds map[int64]models.Credential
}

// NewFileStore loads path, creating its directory when missing.
func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("%w: create directory: %v", ErrStoreIO, err)
	}

	s := &FileStore{
		path:  path,
		creds: make(map[int64]models.Credential),
	}

	if err := s.load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: load %s: %v", ErrStoreIO, path, err)
	}

	return s, nil
}

func (s *FileStore) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return err
	}

	var doc fileDocument
	if err := toml.Unmarshal(data, &doc); err != nil {
		return err
	}

	for key, cred := range doc.Credentials {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid athlete key %q: %w", key, err)
		}
		cred.AthleteID = id
		s.creds[id] = cred
	}
	return nil
}

// save must be called with mu held for writing.
func (s *FileStore) save(creds map[int64]models.Credential) error {
	doc := fileDocument{Credentials: make(map[string]models.Credential, len(creds))}
	for id, cred := range creds {
		doc.Credentials[strconv.FormatInt(id, 10)] = cred
	}

	data, err := toml.Marshal(doc)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".credentials-*.toml")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, s.path)
}

// Get returns the credential for athleteID.
func (s *FileStore) Get(_ context.Context, athleteID int64) (*models.Credential, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cred, ok := s.creds[athleteID]
	if !ok {
		return nil, false, nil
	}
	return &cred, true, nil
}

// Upsert replaces the record and persists the whole document.
// The in-memory map only changes after the file was written.
func (s *FileStore) Upsert(_ context.Context, cred *models.Credential) error {
	if cred == nil || cred.AthleteID <= 0 {
		return ErrInvalidCredential
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	row := *cred
	row.UpdatedAt = now
	if existing, ok := s.creds[cred.AthleteID]; ok {
		row.CreatedAt = existing.CreatedAt
	} else if row.CreatedAt.IsZero() {
		row.CreatedAt = now
	}

	next := make(map[int64]models.Credential, len(s.creds)+1)
	for id, c := range s.creds {
		next[id] = c
	}
	next[row.AthleteID] = row

	if err := s.save(next); err != nil {
		return fmt.Errorf("%w: upsert athlete %d: %v", ErrStoreIO, cred.AthleteID, err)
	}

	s.creds = next
	cred.UpdatedAt = row.UpdatedAt
	return nil
}

// Health verifies the directory holding the file is still accessible.
func (s *FileStore) Health(_ context.Context) error {
	if _, err := os.Stat(filepath.Dir(s.path)); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreIO, err)
	}
	return nil
}

// Close is a no-op; every write is already flushed.
func (s *FileStore) Close() error {
	return nil
}
