package history

import (
	"cmp"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/gofrs/flock"

	"reelfetch/internal/fileutil"
)

// Store manages the download history index. It is the single writer of the
// on-disk record; the file lock keeps independent processes from clobbering
// each other's flushes.
type Store struct {
	path    string
	lock    *flock.Flock
	logger  *slog.Logger
	records map[string]map[string][]string
}

// Open loads the history file at path, treating a missing file as an empty
// record. A corrupt file is logged and replaced by an empty record rather
// than aborting the run.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("history path required")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	store := &Store{
		path:    path,
		lock:    flock.New(path + ".lock"),
		logger:  logger,
		records: make(map[string]map[string][]string),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return store, nil
		}
		return nil, fmt.Errorf("read history file: %w", err)
	}
	if err := json.Unmarshal(data, &store.records); err != nil {
		logger.Warn("history file corrupt, starting empty", "path", path, "error", err)
		store.records = make(map[string]map[string][]string)
	}
	return store, nil
}

// Path returns the history file location.
func (s *Store) Path() string {
	return s.path
}

// IsDownloaded reports whether the item was already downloaded for the
// account. When the record says no but downloadDir holds a file whose name
// contains the item ID, the item counts as downloaded and the record is
// repaired and flushed immediately.
func (s *Store) IsDownloaded(platform, account, id, downloadDir string) bool {
	if s.contains(platform, account, id) {
		return true
	}
	if downloadDir == "" {
		return false
	}

	matches, err := filepath.Glob(filepath.Join(downloadDir, "*"+id+"*"))
	if err != nil || len(matches) == 0 {
		return false
	}

	s.add(platform, account, id)
	if err := s.flush(); err != nil {
		s.logger.Warn("persist repaired history record", "item", id, "error", err)
	} else {
		s.logger.Debug("repaired history record from disk file", "item", id, "file", matches[0])
	}
	return true
}

// MarkDownloaded records the item as downloaded and flushes the index.
func (s *Store) MarkDownloaded(platform, account, id string) error {
	if !s.add(platform, account, id) {
		return nil
	}
	return s.flush()
}

// Clear drops the entire history record and removes the backing file.
func (s *Store) Clear() error {
	s.records = make(map[string]map[string][]string)
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove history file: %w", err)
	}
	return nil
}

// ClearAccount drops the record for a single account and flushes. Passing an
// empty account clears every account on the platform.
func (s *Store) ClearAccount(platform, account string) error {
	accounts, ok := s.records[platform]
	if !ok {
		return nil
	}
	if account == "" {
		delete(s.records, platform)
	} else {
		delete(accounts, account)
		if len(accounts) == 0 {
			delete(s.records, platform)
		}
	}
	return s.flush()
}

// AccountCount summarizes one account's history entry.
type AccountCount struct {
	Platform string
	Account  string
	Items    int
}

// Counts returns per-account item totals sorted by platform then account.
func (s *Store) Counts() []AccountCount {
	var counts []AccountCount
	for platform, accounts := range s.records {
		for account, ids := range accounts {
			counts = append(counts, AccountCount{Platform: platform, Account: account, Items: len(ids)})
		}
	}
	slices.SortFunc(counts, func(a, b AccountCount) int {
		if a.Platform != b.Platform {
			return cmp.Compare(a.Platform, b.Platform)
		}
		return cmp.Compare(a.Account, b.Account)
	})
	return counts
}

func (s *Store) contains(platform, account, id string) bool {
	accounts, ok := s.records[platform]
	if !ok {
		return false
	}
	return slices.Contains(accounts[account], id)
}

// add appends the id, reporting whether the record changed.
func (s *Store) add(platform, account, id string) bool {
	if s.contains(platform, account, id) {
		return false
	}
	accounts, ok := s.records[platform]
	if !ok {
		accounts = make(map[string][]string)
		s.records[platform] = accounts
	}
	accounts[account] = append(accounts[account], id)
	return true
}

func (s *Store) flush() error {
	data, err := json.Marshal(s.records)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}

	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("lock history file: %w", err)
	}
	defer func() {
		_ = s.lock.Unlock()
	}()

	if err := fileutil.WriteFileAtomic(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write history file: %w", err)
	}
	return nil
}
