// Package app provides the refresh orchestrator: it pulls the team
// roster through snapshot fetching and LLM scoring in bounded batches,
// persists the results, and emits commentary events for rank and score
// deltas.
package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hackfest/vibeboard/internal/adapters/repository"
	"github.com/hackfest/vibeboard/internal/domain/model"
	"github.com/hackfest/vibeboard/internal/domain/ranking"
	"github.com/hackfest/vibeboard/internal/domain/scoring"
	"github.com/hackfest/vibeboard/internal/domain/sizing"
	"github.com/hackfest/vibeboard/pkg/logger"
	"github.com/hackfest/vibeboard/pkg/metrics"
)

// defaultBatchSize bounds concurrent outbound analyses. Batches run
// sequentially; this is the only backpressure against provider rate
// limits.
const defaultBatchSize = 5

const defaultCommentaryLimit = 20

// SnapshotFetcher retrieves a bounded repository snapshot.
type SnapshotFetcher interface {
	Fetch(ctx context.Context, repoURL string) (model.RepoSnapshot, error)
}

// ScoreGenerator produces rubric scores and celebratory commentary.
type ScoreGenerator interface {
	Score(ctx context.Context, team model.Team, snap model.RepoSnapshot) (scoring.Result, error)
	EventCommentary(ctx context.Context, kind scoring.EventKind, teamName, details string) string
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithBatchSize sets the per-batch concurrency bound.
func WithBatchSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

// WithCommentaryLimit caps commentary entries returned to readers.
func WithCommentaryLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.commentaryLimit = n
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// Service orchestrates scoring refreshes over a static roster.
type Service struct {
	store     repository.Store
	fetcher   SnapshotFetcher
	generator ScoreGenerator
	teams     []model.Team

	batchSize       int
	commentaryLimit int
	log             logger.Logger

	mu          sync.RWMutex
	lastRefresh time.Time
}

// New constructs a Service. The roster is immutable after construction.
func New(store repository.Store, fetcher SnapshotFetcher, generator ScoreGenerator, teams []model.Team, opts ...Option) *Service {
	s := &Service{
		store:           store,
		fetcher:         fetcher,
		generator:       generator,
		teams:           teams,
		batchSize:       defaultBatchSize,
		commentaryLimit: defaultCommentaryLimit,
		log:             nil,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.log == nil {
		s.log = logger.Get().Named("app")
	}

	return s
}

// Refresh runs one full scoring pass: fetch and score every roster team
// in batches, persist the batch, then emit delta commentary. A single
// team's failure never aborts the run; a persistence failure on write
// does.
func (s *Service) Refresh(ctx context.Context) (model.RefreshSummary, error) {
	start := time.Now()

	prior, err := s.store.ReadAll(ctx)
	if err != nil {
		// Reads degrade to empty: rank deltas are lost, scores are not.
		s.log.Warn(ctx, "prior scores unavailable, rank deltas will be empty", logger.Error(err))
		prior = nil
	}
	priorByID := make(map[string]model.ScoreRecord, len(prior))
	for _, r := range prior {
		priorByID[r.TeamID] = r
	}

	records := make([]model.ScoreRecord, 0, len(s.teams))
	for batchStart := 0; batchStart < len(s.teams); batchStart += s.batchSize {
		end := batchStart + s.batchSize
		if end > len(s.teams) {
			end = len(s.teams)
		}
		batch := s.teams[batchStart:end]

		results := make([]model.ScoreRecord, len(batch))
		var wg sync.WaitGroup
		for i, team := range batch {
			wg.Add(1)
			go func(i int, team model.Team) {
				defer wg.Done()
				results[i] = s.analyzeTeam(ctx, team)
			}(i, team)
		}
		wg.Wait()

		records = append(records, results...)
	}

	if err := s.store.WriteAll(ctx, records); err != nil {
		return model.RefreshSummary{}, fmt.Errorf("persist refresh: %w", err)
	}

	current, err := s.store.ReadAll(ctx)
	if err != nil {
		s.log.Warn(ctx, "re-read after refresh failed, ranking locally", logger.Error(err))
		current = ranking.Assign(append([]model.ScoreRecord(nil), records...))
	}

	events := s.emitDeltaEvents(ctx, priorByID, current)

	s.mu.Lock()
	s.lastRefresh = time.Now().UTC()
	s.mu.Unlock()

	duration := time.Since(start)
	metrics.RecordRefresh(duration.Seconds())
	metrics.UpdateTeamsTracked(len(current))

	s.log.Info(ctx, "refresh complete",
		logger.Int("teams", len(records)),
		logger.Int("events", events),
		logger.Duration("duration", duration),
	)

	return model.RefreshSummary{
		TeamsProcessed: len(records),
		EventsEmitted:  events,
		Duration:       duration,
	}, nil
}

// analyzeTeam runs fetch+score for one team. A snapshot failure yields a
// zero-score record carrying the error; a scoring failure yields the
// neutral 3/3/3 default. Neither propagates.
func (s *Service) analyzeTeam(ctx context.Context, team model.Team) model.ScoreRecord {
	snap, err := s.fetcher.Fetch(ctx, team.RepoURL)
	if err != nil {
		metrics.RecordSnapshotError()
		s.log.Warn(ctx, "snapshot fetch failed",
			logger.String("team", team.ID), logger.Error(err))
		return model.ScoreRecord{
			TeamID:     team.ID,
			TeamName:   team.Name,
			Commentary: fmt.Sprintf("Analysis unavailable: %v", err),
			UpdatedAt:  time.Now().UTC(),
		}
	}

	loc := sizing.Estimate(snap.FilePaths, snap.TotalBytes)

	res, err := s.generator.Score(ctx, team, snap)
	if err != nil {
		metrics.RecordScoringError()
		s.log.Warn(ctx, "scoring failed, using neutral defaults",
			logger.String("team", team.ID), logger.Error(err))
		return model.ScoreRecord{
			TeamID:       team.ID,
			TeamName:     team.Name,
			Problem:      3,
			Solution:     3,
			Execution:    3,
			Total:        9,
			EstimatedLOC: loc,
			Commentary:   fmt.Sprintf("The judges couldn't reach a verdict on %s this round.", team.Name),
			UpdatedAt:    time.Now().UTC(),
		}
	}

	return model.ScoreRecord{
		TeamID:       team.ID,
		TeamName:     team.Name,
		Problem:      res.Problem,
		Solution:     res.Solution,
		Execution:    res.Execution,
		Total:        res.Total,
		EstimatedLOC: loc,
		Commentary:   res.Commentary,
		UpdatedAt:    time.Now().UTC(),
	}
}

// emitDeltaEvents compares the ranked current set against the prior one
// and appends commentary for rank improvements, total changes, and
// per-team commentary. The three conditions are independent and may all
// fire for one team.
func (s *Service) emitDeltaEvents(ctx context.Context, priorByID map[string]model.ScoreRecord, current []model.ScoreRecord) int {
	events := 0
	emit := func(msg string) {
		if err := s.store.AppendCommentary(ctx, msg); err != nil {
			s.log.Warn(ctx, "commentary append failed", logger.Error(err))
			return
		}
		metrics.RecordCommentaryEvent()
		events++
	}

	for _, rec := range current {
		prev, hadPrev := priorByID[rec.TeamID]

		if hadPrev && prev.CurrentRank != nil && rec.CurrentRank != nil && *rec.CurrentRank < *prev.CurrentRank {
			details := fmt.Sprintf("climbed from #%d to #%d", *prev.CurrentRank, *rec.CurrentRank)
			emit(s.generator.EventCommentary(ctx, scoring.EventRankUp, rec.TeamName, details))
		}

		if hadPrev && prev.Total != rec.Total && rec.Total != 0 {
			details := fmt.Sprintf("total moved from %.1f to %.1f", prev.Total, rec.Total)
			emit(s.generator.EventCommentary(ctx, scoring.EventScoreChange, rec.TeamName, details))
		}

		if rec.Commentary != "" && rec.Total != 0 {
			emit(rec.Commentary)
		}
	}

	return events
}

// AnalyzeOne scores a single team and upserts the result. Snapshot
// failures propagate to the caller; scoring failures degrade to the
// neutral default record like a refresh pass does.
func (s *Service) AnalyzeOne(ctx context.Context, team model.Team) (model.ScoreRecord, error) {
	metrics.RecordAnalyze()

	snap, err := s.fetcher.Fetch(ctx, team.RepoURL)
	if err != nil {
		metrics.RecordSnapshotError()
		return model.ScoreRecord{}, err
	}

	record := model.ScoreRecord{
		TeamID:       team.ID,
		TeamName:     team.Name,
		EstimatedLOC: sizing.Estimate(snap.FilePaths, snap.TotalBytes),
		UpdatedAt:    time.Now().UTC(),
	}

	res, err := s.generator.Score(ctx, team, snap)
	if err != nil {
		metrics.RecordScoringError()
		record.Problem, record.Solution, record.Execution, record.Total = 3, 3, 3, 9
		record.Commentary = fmt.Sprintf("The judges couldn't reach a verdict on %s this round.", team.Name)
	} else {
		record.Problem = res.Problem
		record.Solution = res.Solution
		record.Execution = res.Execution
		record.Total = res.Total
		record.Commentary = res.Commentary
	}

	if err := s.store.UpsertOne(ctx, record); err != nil {
		return model.ScoreRecord{}, err
	}

	// Re-read so the returned record carries its set-wide rank.
	all, err := s.store.ReadAll(ctx)
	if err != nil {
		return record, nil
	}
	for _, r := range all {
		if r.TeamID == record.TeamID {
			return r, nil
		}
	}
	return record, nil
}

// Scores returns the current ranked record set.
func (s *Service) Scores(ctx context.Context) ([]model.ScoreRecord, error) {
	return s.store.ReadAll(ctx)
}

// Commentary returns the most recent commentary entries.
func (s *Service) Commentary(ctx context.Context) ([]model.CommentaryEvent, error) {
	return s.store.ReadCommentary(ctx, s.commentaryLimit)
}

// LastRefresh reports when the last successful refresh completed; zero
// before the first one.
func (s *Service) LastRefresh() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastRefresh
}

// Teams exposes the immutable roster.
func (s *Service) Teams() []model.Team {
	return s.teams
}
