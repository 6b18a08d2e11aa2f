// Package storage persists the player's local state (nickname, tutorial flag
// and the local score cache) in a single JSON document.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/carlospagolacorrea-rgb/RMW2/internal/domain/model"
	"github.com/carlospagolacorrea-rgb/RMW2/pkg/logger"
)

// document is the on-disk layout.
type document struct {
	Nickname     string                       `json:"nickname"`
	TutorialSeen bool                         `json:"tutorialSeen"`
	ScoreCache   map[string]model.ScoreResult `json:"scoreCache"`
}

// StateStore keeps the local state in memory and writes it through to path.
// An empty path keeps everything in memory only.
type StateStore struct {
	mu     sync.Mutex
	path   string
	doc    document
	logger logger.Logger
}

// Option configures a StateStore.
type Option func(*StateStore)

// WithLogger sets the store logger.
func WithLogger(l logger.Logger) Option {
	return func(s *StateStore) {
		if l != nil {
			s.logger = l
		}
	}
}

// Open loads the state at path. A missing file yields an empty state; a file
// that is not valid JSON is reported with ErrCorruptState and the store still
// starts empty so the game stays playable.
func Open(ctx context.Context, path string, opts ...Option) (*StateStore, error) {
	s := &StateStore{
		path:   path,
		doc:    document{ScoreCache: map[string]model.ScoreResult{}},
		logger: logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if path == "" {
		return s, nil
	}

	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("read state %s: %w", path, err)
	}
	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		s.logger.Warn(ctx, "ignoring unreadable state file", logger.String("path", path), logger.Error(err))
		return s, fmt.Errorf("%w: %v", ErrCorruptState, err)
	}
	if doc.ScoreCache == nil {
		doc.ScoreCache = map[string]model.ScoreResult{}
	}
	// error placeholders are never trusted, even if an older build wrote them
	for k, v := range doc.ScoreCache {
		if v.IsError {
			delete(doc.ScoreCache, k)
		}
	}
	s.doc = doc
	return s, nil
}

// Path returns the backing file, empty for memory-only stores.
func (s *StateStore) Path() string { return s.path }

// Nickname returns the registered nickname, empty when none.
func (s *StateStore) Nickname() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Nickname
}

// SetNickname registers a trimmed, non-blank nickname.
func (s *StateStore) SetNickname(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyNickname
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.Nickname = name
	return s.flushLocked()
}

// TutorialSeen reports whether the tutorial was dismissed.
func (s *StateStore) TutorialSeen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.TutorialSeen
}

// MarkTutorialSeen records that the tutorial was dismissed.
func (s *StateStore) MarkTutorialSeen() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc.TutorialSeen {
		return nil
	}
	s.doc.TutorialSeen = true
	return s.flushLocked()
}

// ScoreCache returns a copy of the persisted score cache.
func (s *StateStore) ScoreCache() map[string]model.ScoreResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Clone(s.doc.ScoreCache)
}

// SaveScoreCache replaces the persisted score cache.
func (s *StateStore) SaveScoreCache(entries map[string]model.ScoreResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.ScoreCache = maps.Clone(entries)
	if s.doc.ScoreCache == nil {
		s.doc.ScoreCache = map[string]model.ScoreResult{}
	}
	return s.flushLocked()
}

// flushLocked writes the document atomically: temp file in the same
// directory, then rename over the old one.
func (s *StateStore) flushLocked() error {
	if s.path == "" {
		return nil
	}
	raw, err := json.Marshal(s.doc)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".rmw-state-*")
	if err != nil {
		return fmt.Errorf("create temp state: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp state: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace state: %w", err)
	}
	return nil
}
