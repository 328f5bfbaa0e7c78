package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	log "github.com/sirupsen/logrus"
)

// StorageError wraps an I/O failure of the document store. Domain code treats
// it as fatal to the triggering action; the previous document version always
// survives a failed write.
type StorageError struct {
	Op   string
	Name string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s %q: %v", e.Op, e.Name, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Store persists whole JSON documents, one file per logical name, under a
// single data directory. Every load and save is serialized through one
// store-wide mutex; documents are small and the per-guild operation rate is
// low, so the lost concurrency is cheaper than per-path locking.
type Store struct {
	mu  sync.Mutex
	dir string
}

// New returns a store rooted at dir, creating the directory if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &StorageError{Op: "mkdir", Name: dir, Err: err}
	}
	return &Store{dir: dir}, nil
}

// Load reads the document called name into v. A missing document is created
// on disk from v's current (zero) value and is not an error. A document that
// exists but fails to parse is treated as absent: v keeps its zero value and
// the corrupt file is left in place for operators to inspect.
func (s *Store) Load(name string, v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(name, v)
}

// Save serializes v and atomically replaces the document called name.
func (s *Store) Save(name string, v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(name, v)
}

// Update runs a full read-modify-write cycle under the store lock: the
// document is loaded into v, mutate is applied, and the result is written
// back. Callers must do all document mutation inside mutate; this is the only
// way to change a document without racing a concurrent action on the same
// file. A non-nil error from mutate aborts the update without writing.
func (s *Store) Update(name string, v any, mutate func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadLocked(name, v); err != nil {
		return err
	}
	if err := mutate(); err != nil {
		return err
	}
	return s.saveLocked(name, v)
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name+".json")
}

func (s *Store) loadLocked(name string, v any) error {
	data, err := os.ReadFile(s.path(name))
	if os.IsNotExist(err) {
		// First access: materialize the default document.
		return s.saveLocked(name, v)
	}
	if err != nil {
		return &StorageError{Op: "read", Name: name, Err: err}
	}

	if err := json.Unmarshal(data, v); err != nil {
		log.WithFields(log.Fields{
			"document": name,
			"error":    err,
		}).Warn("Document failed to parse, treating as absent")
		return nil
	}
	return nil
}

// saveLocked writes to a temp file in the same directory, syncs it, and
// renames it over the target so a concurrent reader never observes a
// half-written document.
func (s *Store) saveLocked(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return &StorageError{Op: "encode", Name: name, Err: err}
	}

	tmp, err := os.CreateTemp(s.dir, ".tmp-*.json")
	if err != nil {
		return &StorageError{Op: "write", Name: name, Err: err}
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err == nil {
		err = tmp.Sync()
	}
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(tmpPath, s.path(name))
	}
	if err != nil {
		os.Remove(tmpPath)
		return &StorageError{Op: "write", Name: name, Err: err}
	}
	return nil
}
