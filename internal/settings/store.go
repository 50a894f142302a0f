package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// ErrVersionConflict is returned when an update carries a stale version.
var ErrVersionConflict = errors.New("settings version conflict")

// Store is the single accessor for the settings document. All reads and
// writes go through it; the file on disk is never touched elsewhere, so a
// process-wide mutex is enough to serialize writers.
type Store struct {
	mu   sync.RWMutex
	path string
	doc  Document
}

// NewStore loads the document from path, writing defaults when absent.
func NewStore(path string) (*Store, error) {
	s := &Store{path: path}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &s.doc); err != nil {
			return nil, fmt.Errorf("parse settings file: %w", err)
		}
		if s.doc.Version == 0 {
			s.doc.Version = 1
		}
	case os.IsNotExist(err):
		s.doc = Defaults()
		if err := s.persist(); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("read settings file: %w", err)
	}

	return s, nil
}

// Get returns an unmasked copy for internal consumers.
func (s *Store) Get() Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.clone()
}

// Redacted returns a copy with secrets replaced by MaskedSecret.
func (s *Store) Redacted() Document {
	doc := s.Get()
	if doc.ActiveDirectory.BindPassword != "" {
		doc.ActiveDirectory.BindPassword = MaskedSecret
	}
	if doc.Graph.ClientSecret != "" {
		doc.Graph.ClientSecret = MaskedSecret
	}
	if doc.SMTP.Password != "" {
		doc.SMTP.Password = MaskedSecret
	}
	if doc.WhatsApp.Token != "" {
		doc.WhatsApp.Token = MaskedSecret
	}
	if doc.HRISDatabase.Password != "" {
		doc.HRISDatabase.Password = MaskedSecret
	}
	return doc
}

// Update applies mutate under the version check, bumps the version, and
// persists the whole document. Callers pass the version they read; a
// mismatch fails fast instead of losing a concurrent writer's update.
func (s *Store) Update(version int, mutate func(*Document)) (Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if version != s.doc.Version {
		return Document{}, ErrVersionConflict
	}

	next := s.doc.clone()
	mutate(&next)
	next.Version = s.doc.Version + 1
	restoreMaskedSecrets(&next, s.doc)

	prev := s.doc
	s.doc = next
	if err := s.persist(); err != nil {
		s.doc = prev
		return Document{}, err
	}
	return s.doc.clone(), nil
}

// restoreMaskedSecrets keeps stored secrets when the client echoed back the
// mask instead of a new value.
func restoreMaskedSecrets(next *Document, prev Document) {
	if next.ActiveDirectory.BindPassword == MaskedSecret {
		next.ActiveDirectory.BindPassword = prev.ActiveDirectory.BindPassword
	}
	if next.Graph.ClientSecret == MaskedSecret {
		next.Graph.ClientSecret = prev.Graph.ClientSecret
	}
	if next.SMTP.Password == MaskedSecret {
		next.SMTP.Password = prev.SMTP.Password
	}
	if next.WhatsApp.Token == MaskedSecret {
		next.WhatsApp.Token = prev.WhatsApp.Token
	}
	if next.HRISDatabase.Password == MaskedSecret {
		next.HRISDatabase.Password = prev.HRISDatabase.Password
	}
}

func (s *Store) persist() error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create settings dir: %w", err)
		}
	}

	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}
	return os.Rename(tmp, s.path)
}

func (d Document) clone() Document {
	out := d
	out.AccountStatuses = append([]string(nil), d.AccountStatuses...)
	out.Departments = append([]Department(nil), d.Departments...)
	out.MailingLists = append([]MailingList(nil), d.MailingLists...)
	out.LicenseTypes = append([]LicenseType(nil), d.LicenseTypes...)
	return out
}
