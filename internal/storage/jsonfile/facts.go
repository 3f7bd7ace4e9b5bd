package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sandevgo/parley/internal/core"
)

// FactStore keeps taught facts in a single JSON array on disk.
// Every append rewrites the file through a temp file and rename.
type FactStore struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

var _ core.FactRepository = (*FactStore)(nil)

func NewFactStore(path string) *FactStore {
	return &FactStore{path: path, now: time.Now}
}

func (s *FactStore) Path() string {
	return s.path
}

// LoadFacts returns an empty list when the file does not exist yet.
func (s *FactStore) LoadFacts(_ context.Context) ([]core.Fact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

func (s *FactStore) AppendFact(_ context.Context, fact core.Fact) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	facts, err := s.read()
	if err != nil {
		return err
	}

	if fact.CreatedAt.IsZero() {
		fact.CreatedAt = s.now().UTC()
	}
	fact.ID = int64(len(facts) + 1)
	facts = append(facts, fact)

	return s.write(facts)
}

func (s *FactStore) read() ([]core.Fact, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read facts: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	var facts []core.Fact
	if err := json.Unmarshal(data, &facts); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", s.path, err)
	}
	for i := range facts {
		if facts[i].ID == 0 {
			facts[i].ID = int64(i + 1)
		}
	}
	return facts, nil
}

func (s *FactStore) write(facts []core.Fact) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create facts directory: %w", err)
	}

	data, err := json.MarshalIndent(facts, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal facts: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write temp facts: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to persist facts: %w", err)
	}
	return nil
}
