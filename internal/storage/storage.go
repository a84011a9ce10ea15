package storage

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"geni-palette/internal/model"
)

// DefaultLedgerLimit caps how many names are remembered per user.
const DefaultLedgerLimit = 50

// Store persists the per-user palette name ledger as a single JSON file.
type Store struct {
	path  string
	limit int
	mu    sync.RWMutex
	state model.StoredState
}

func NewStore(path string, limit int) (*Store, error) {
	if path == "" {
		return nil, errors.New("store path is empty")
	}
	if limit <= 0 {
		limit = DefaultLedgerLimit
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	s := &Store{path: path, limit: limit}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.state = defaultState()
			return s.saveLocked()
		}
		return err
	}
	if len(b) == 0 {
		s.state = defaultState()
		return s.saveLocked()
	}

	var state model.StoredState
	if err := json.Unmarshal(b, &state); err != nil {
		return err
	}
	mergeDefaults(&state)
	s.state = state
	return nil
}

func defaultState() model.StoredState {
	return model.StoredState{
		NamesByUser: map[string]model.NameLedger{},
		CreatedAt:   time.Now().UTC(),
	}
}

func mergeDefaults(state *model.StoredState) {
	if state.NamesByUser == nil {
		state.NamesByUser = map[string]model.NameLedger{}
	}
	if state.CreatedAt.IsZero() {
		state.CreatedAt = time.Now().UTC()
	}
}

func (s *Store) saveLocked() error {
	s.state.LastUpdatedUnixMS = time.Now().UnixMilli()
	b, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, b, 0o600)
}

func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked()
}

func (s *Store) Snapshot() model.StoredState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := model.StoredState{
		NamesByUser:       make(map[string]model.NameLedger, len(s.state.NamesByUser)),
		LastUpdatedUnixMS: s.state.LastUpdatedUnixMS,
		CreatedAt:         s.state.CreatedAt,
	}
	for k, v := range s.state.NamesByUser {
		v.Names = append([]string(nil), v.Names...)
		out.NamesByUser[k] = v
	}
	return out
}

// Names returns the names already handed to userID, oldest first.
func (s *Store) Names(userID string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string{}, s.state.NamesByUser[userID].Names...)
}

// AppendNames records names for userID. Case-insensitive repeats are moved
// to the end instead of duplicated, and only the newest limit names are kept.
func (s *Store) AppendNames(userID string, names ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ledger := s.state.NamesByUser[userID]
	ledger.UserID = userID
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		ledger.Names = removeFold(ledger.Names, n)
		ledger.Names = append(ledger.Names, n)
	}
	if over := len(ledger.Names) - s.limit; over > 0 {
		ledger.Names = append([]string(nil), ledger.Names[over:]...)
	}
	ledger.UpdatedAt = time.Now().UnixMilli()
	s.state.NamesByUser[userID] = ledger
	return s.saveLocked()
}

// ClearNames forgets every name recorded for userID.
func (s *Store) ClearNames(userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.state.NamesByUser[userID]; !ok {
		return nil
	}
	delete(s.state.NamesByUser, userID)
	return s.saveLocked()
}

func removeFold(list []string, name string) []string {
	out := list[:0]
	for _, v := range list {
		if !strings.EqualFold(v, name) {
			out = append(out, v)
		}
	}
	return out
}
