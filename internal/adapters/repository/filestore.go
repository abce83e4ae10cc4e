package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hackfest/vibeboard/internal/domain/model"
	"github.com/hackfest/vibeboard/internal/domain/ranking"
	"github.com/hackfest/vibeboard/pkg/logger"
)

// document is the on-disk shape: one JSON file read whole and rewritten
// whole on every write.
type document struct {
	Scores     []model.ScoreRecord     `json:"scores"`
	Commentary []model.CommentaryEvent `json:"commentary"`
}

// FileStore persists the document as a single JSON file. Reads that fail
// degrade to an empty document (availability over consistency for a live
// display); writes propagate their errors.
type FileStore struct {
	mu   sync.Mutex
	path string
	log  logger.Logger
}

// NewFileStore creates a store writing to path. The parent directory is
// created on first write.
func NewFileStore(path string, log logger.Logger) *FileStore {
	if log == nil {
		log = logger.Get().Named("filestore")
	}
	return &FileStore{path: path, log: log}
}

func (s *FileStore) load(ctx context.Context) document {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn(ctx, "score file unreadable, treating as empty",
				logger.String("path", s.path), logger.Error(err))
		}
		return document{}
	}

	var doc document
	if err := json.Unmarshal(b, &doc); err != nil {
		s.log.Warn(ctx, "score file corrupt, treating as empty",
			logger.String("path", s.path), logger.Error(err))
		return document{}
	}
	return doc
}

func (s *FileStore) save(doc document) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("%w: mkdir: %w", ErrPersistence, err)
	}
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: marshal: %w", ErrPersistence, err)
	}
	if err := os.WriteFile(s.path, b, 0o644); err != nil {
		return fmt.Errorf("%w: write: %w", ErrPersistence, err)
	}
	return nil
}

// ReadAll returns the ranked record set. I/O failures degrade to an
// empty list rather than propagating.
func (s *FileStore) ReadAll(ctx context.Context) ([]model.ScoreRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.load(ctx)
	return ranking.Assign(doc.Scores), nil
}

// WriteAll upserts records by team id, carrying prior ranks into
// PreviousRank and recomputing CurrentRank over the merged set.
func (s *FileStore) WriteAll(ctx context.Context, records []model.ScoreRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.load(ctx)
	prior := ranking.Assign(doc.Scores)
	ranking.CarryPrevious(prior, records)
	doc.Scores = ranking.Assign(mergeRecords(prior, records))
	return s.save(doc)
}

// UpsertOne is WriteAll for a single record.
func (s *FileStore) UpsertOne(ctx context.Context, record model.ScoreRecord) error {
	return s.WriteAll(ctx, []model.ScoreRecord{record})
}

// AppendCommentary prepends a timestamped entry, keeping the newest
// model.CommentaryLimit entries.
func (s *FileStore) AppendCommentary(ctx context.Context, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.load(ctx)
	event := model.CommentaryEvent{
		ID:        uuid.NewString(),
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
	doc.Commentary = append([]model.CommentaryEvent{event}, doc.Commentary...)
	if len(doc.Commentary) > model.CommentaryLimit {
		doc.Commentary = doc.Commentary[:model.CommentaryLimit]
	}
	return s.save(doc)
}

// ReadCommentary returns up to limit entries, most recent first.
func (s *FileStore) ReadCommentary(ctx context.Context, limit int) ([]model.CommentaryEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.load(ctx)
	if limit > 0 && len(doc.Commentary) > limit {
		return doc.Commentary[:limit], nil
	}
	return doc.Commentary, nil
}

// Close is a no-op for the file backend.
func (s *FileStore) Close() error { return nil }

// mergeRecords overlays incoming records onto the prior set by team id,
// preserving prior positions for existing teams and appending new teams
// in incoming order. Position order is what makes tie-breaking stable.
func mergeRecords(prior, incoming []model.ScoreRecord) []model.ScoreRecord {
	byID := make(map[string]model.ScoreRecord, len(incoming))
	for _, r := range incoming {
		byID[r.TeamID] = r
	}

	merged := make([]model.ScoreRecord, 0, len(prior)+len(incoming))
	seen := make(map[string]bool, len(prior))
	for _, r := range prior {
		seen[r.TeamID] = true
		if upd, ok := byID[r.TeamID]; ok {
			merged = append(merged, upd)
		} else {
			merged = append(merged, r)
		}
	}
	for _, r := range incoming {
		if !seen[r.TeamID] {
			merged = append(merged, r)
		}
	}
	return merged
}
