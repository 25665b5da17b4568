package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"tmpmail/pkg/models"
)

const (
	addressFile = "address.json"
	// One document slot, reused for HTML and text renders alike. The
	// browser collaborator is pointed straight at this file.
	documentFile = "message.html"
)

// Store persists the session state on disk: the active address and
// the last rendered document, one file per slot, last write wins.
// There is no locking; concurrent invocations racing on the same
// session directory is an accepted limitation of a single-user tool.
type Store struct {
	dir string
}

// NewStore creates the session directory if needed and returns a store.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Address returns the cached identity, reporting false when none is
// stored.
func (s *Store) Address() (models.EmailAddress, bool, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, addressFile))
	if errors.Is(err, os.ErrNotExist) {
		return models.EmailAddress{}, false, nil
	}
	if err != nil {
		return models.EmailAddress{}, false, fmt.Errorf("failed to read address: %w", err)
	}

	var addr models.EmailAddress
	if err := json.Unmarshal(data, &addr); err != nil {
		return models.EmailAddress{}, false, fmt.Errorf("failed to parse address file: %w", err)
	}
	if addr.IsZero() {
		return models.EmailAddress{}, false, nil
	}
	return addr, true, nil
}

// SaveAddress overwrites the active identity.
func (s *Store) SaveAddress(addr models.EmailAddress) error {
	data, err := json.Marshal(addr)
	if err != nil {
		return fmt.Errorf("failed to encode address: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, addressFile), data, 0o600); err != nil {
		return fmt.Errorf("failed to write address: %w", err)
	}
	return nil
}

// Document returns the last rendered document, reporting false when
// none has been cached yet.
func (s *Store) Document() (models.RenderedDocument, bool, error) {
	data, err := os.ReadFile(s.DocumentPath())
	if errors.Is(err, os.ErrNotExist) {
		return models.RenderedDocument{}, false, nil
	}
	if err != nil {
		return models.RenderedDocument{}, false, fmt.Errorf("failed to read document: %w", err)
	}
	return models.RenderedDocument{Content: string(data)}, true, nil
}

// SaveDocument overwrites the last-rendered-document slot.
func (s *Store) SaveDocument(doc models.RenderedDocument) error {
	if err := os.WriteFile(s.DocumentPath(), []byte(doc.Content), 0o600); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	return nil
}

// DocumentPath is where the last rendered document lives.
func (s *Store) DocumentPath() string {
	return filepath.Join(s.dir, documentFile)
}
