package invocation

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// historyFileExtension is the file extension used for history entries.
const historyFileExtension = ".json"

// Common store errors.
var (
	ErrNotFound        = errors.New("history entry not found")
	ErrExpired         = errors.New("history entry expired")
	ErrInvalidID       = errors.New("history entry ID cannot be empty")
	ErrHistoryDisabled = errors.New("history is disabled")
)

// Store is a file-based invocation history with TTL expiration. Entries are
// JSON files named by their ULID, so lexical order is creation order.
type Store struct {
	directory  string
	enabled    bool
	ttlSeconds int
	maxEntries int

	mu sync.RWMutex
}

// NewStore creates a store in directory, creating it if needed. A disabled
// store accepts no writes and returns ErrHistoryDisabled.
func NewStore(directory string, enabled bool, ttlSeconds, maxEntries int) (*Store, error) {
	if !enabled {
		return &Store{enabled: false}, nil
	}

	if directory == "" {
		return nil, errors.New("history directory cannot be empty")
	}
	if ttlSeconds <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidTTL, ttlSeconds)
	}

	if err := os.MkdirAll(directory, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	return &Store{
		directory:  directory,
		enabled:    true,
		ttlSeconds: ttlSeconds,
		maxEntries: maxEntries,
	}, nil
}

// Save writes rec and prunes the oldest entries beyond the configured maximum.
func (s *Store) Save(rec *Record) error {
	if !s.enabled {
		return ErrHistoryDisabled
	}
	if rec == nil || rec.ID == "" {
		return ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(NewEntry(rec, s.ttlSeconds), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal history entry: %w", err)
	}

	filePath := s.idToFilePath(rec.ID)
	tempPath := filePath + ".tmp"
	if writeErr := os.WriteFile(tempPath, data, 0o600); writeErr != nil {
		return fmt.Errorf("failed to write history file: %w", writeErr)
	}
	if renameErr := os.Rename(tempPath, filePath); renameErr != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to rename history file: %w", renameErr)
	}

	return s.pruneLocked()
}

// Get returns the entry with the given ID.
func (s *Store) Get(id string) (*Entry, error) {
	if !s.enabled {
		return nil, ErrHistoryDisabled
	}
	if id == "" {
		return nil, ErrInvalidID
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, err := readEntry(s.idToFilePath(id))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if entry.IsExpired() {
		return nil, ErrExpired
	}
	return entry, nil
}

// List returns every unexpired entry, newest first.
func (s *Store) List() ([]*Entry, error) {
	if !s.enabled {
		return nil, ErrHistoryDisabled
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	names, err := s.fileNamesLocked()
	if err != nil {
		return nil, err
	}

	entries := make([]*Entry, 0, len(names))
	for i := len(names) - 1; i >= 0; i-- {
		entry, readErr := readEntry(filepath.Join(s.directory, names[i]))
		if readErr != nil || entry.IsExpired() {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Latest returns the newest unexpired entry for operation.
func (s *Store) Latest(operation string) (*Entry, error) {
	entries, err := s.List()
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if e.Record.Operation == operation {
			return e, nil
		}
	}
	return nil, ErrNotFound
}

// Clear removes entries older than olderThan, or all entries when olderThan
// is zero. Returns the number removed.
func (s *Store) Clear(olderThan time.Duration) (int, error) {
	if !s.enabled {
		return 0, ErrHistoryDisabled
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	names, err := s.fileNamesLocked()
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, name := range names {
		path := filepath.Join(s.directory, name)
		if olderThan > 0 {
			entry, readErr := readEntry(path)
			if readErr == nil && entry.Age() < olderThan {
				continue
			}
		}
		if removeErr := os.Remove(path); removeErr != nil {
			return removed, fmt.Errorf("failed to remove history file %s: %w", name, removeErr)
		}
		removed++
	}
	return removed, nil
}

// CleanupExpired removes all expired entries.
func (s *Store) CleanupExpired() error {
	if !s.enabled {
		return ErrHistoryDisabled
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	names, err := s.fileNamesLocked()
	if err != nil {
		return err
	}
	for _, name := range names {
		path := filepath.Join(s.directory, name)
		entry, readErr := readEntry(path)
		if readErr != nil {
			continue
		}
		if entry.IsExpired() {
			_ = os.Remove(path)
		}
	}
	return nil
}

// Count returns the number of stored entries, including expired ones.
func (s *Store) Count() (int, error) {
	if !s.enabled {
		return 0, ErrHistoryDisabled
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	names, err := s.fileNamesLocked()
	return len(names), err
}

// IsEnabled returns true if history is enabled.
func (s *Store) IsEnabled() bool {
	return s.enabled
}

// GetDirectory returns the history directory path.
func (s *Store) GetDirectory() string {
	return s.directory
}

// GetTTL returns the entry TTL in seconds.
func (s *Store) GetTTL() int {
	return s.ttlSeconds
}

// pruneLocked removes the oldest entries beyond maxEntries. Must be called
// with mu held.
func (s *Store) pruneLocked() error {
	if s.maxEntries <= 0 {
		return nil
	}
	names, err := s.fileNamesLocked()
	if err != nil {
		return err
	}
	for len(names) > s.maxEntries {
		if removeErr := os.Remove(filepath.Join(s.directory, names[0])); removeErr != nil &&
			!errors.Is(removeErr, os.ErrNotExist) {
			return fmt.Errorf("failed to prune history: %w", removeErr)
		}
		names = names[1:]
	}
	return nil
}

// fileNamesLocked returns entry file names in creation order.
func (s *Store) fileNamesLocked() ([]string, error) {
	dirEntries, err := os.ReadDir(s.directory)
	if err != nil {
		return nil, fmt.Errorf("failed to read history directory: %w", err)
	}

	var names []string
	for _, de := range dirEntries {
		if !de.IsDir() && filepath.Ext(de.Name()) == historyFileExtension {
			names = append(names, de.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// idToFilePath converts an entry ID to a file path.
func (s *Store) idToFilePath(id string) string {
	safeID := strings.ReplaceAll(id, "/", "_")
	safeID = strings.ReplaceAll(safeID, "\\", "_")
	safeID = strings.ReplaceAll(safeID, ":", "_")
	return filepath.Join(s.directory, safeID+historyFileExtension)
}

func readEntry(path string) (*Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var entry Entry
	if err = json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal history entry: %w", err)
	}
	if entry.Record == nil {
		return nil, fmt.Errorf("history entry %s has no record", filepath.Base(path))
	}
	return &entry, nil
}
