// Package app provides the reporting service that drives the pipeline:
// fetch game events, aggregate statistics, render and publish.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/playdeck/matchstats/internal/adapters/kvstore"
	"github.com/playdeck/matchstats/internal/adapters/report"
	"github.com/playdeck/matchstats/internal/domain/model"
	"github.com/playdeck/matchstats/internal/domain/stats"
	"github.com/playdeck/matchstats/pkg/logger"
	"github.com/playdeck/matchstats/pkg/metrics"
)

// ChatSource reads game events out of the chat channel history.
type ChatSource interface {
	History(ctx context.Context) ([]model.GameEvent, error)
}

// KVSource reads structured game records from the key-value store.
type KVSource interface {
	Events(ctx context.Context, variant string) ([]model.GameEvent, error)
	HighScores(ctx context.Context, variant string, n int) ([]kvstore.LeaderEntry, error)
	Player(ctx context.Context, id string) (kvstore.PlayerMeta, error)
}

// Publisher delivers summaries and report documents to the chat.
type Publisher interface {
	PostSummary(ctx context.Context, text string) error
	UploadReport(ctx context.Context, name, payload string) error
}

// Renderer turns snapshots into publishable text.
type Renderer interface {
	Document(variant string, snap *model.StatsSnapshot, leaders []report.LeaderRow) string
	Summary(variant string, snap *model.StatsSnapshot) string
	CombinedSummary(snaps map[string]*model.StatsSnapshot, order []string) string
}

// Service implements the reporting pipeline behind the API.
type Service struct {
	mu sync.RWMutex

	chat      ChatSource
	kv        KVSource
	publisher Publisher
	renderer  Renderer

	variants     []string
	topN         int
	lookbackDays int
	snapshotPath string

	now func() time.Time

	// State from the latest runs
	snaps   map[string]*model.StatsSnapshot
	lastRun map[string]model.RunReport

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithChatSource sets the chat history source.
func WithChatSource(src ChatSource) Option {
	return func(s *Service) {
		s.chat = src
	}
}

// WithKVSource sets the key-value store source.
func WithKVSource(src KVSource) Option {
	return func(s *Service) {
		s.kv = src
	}
}

// WithPublisher sets the summary and report publisher.
func WithPublisher(p Publisher) Option {
	return func(s *Service) {
		s.publisher = p
	}
}

// WithRenderer sets the document renderer.
func WithRenderer(r Renderer) Option {
	return func(s *Service) {
		s.renderer = r
	}
}

// WithVariants sets the game variants aggregated by full runs.
func WithVariants(variants []string) Option {
	return func(s *Service) {
		if len(variants) > 0 {
			s.variants = variants
		}
	}
}

// WithTopN caps leaderboard length.
func WithTopN(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.topN = n
		}
	}
}

// WithLookbackDays sets the zero-filled daily window.
func WithLookbackDays(d int) Option {
	return func(s *Service) {
		if d > 0 {
			s.lookbackDays = d
		}
	}
}

// WithSnapshotPath persists each full run's snapshots as JSON.
func WithSnapshotPath(path string) Option {
	return func(s *Service) {
		s.snapshotPath = path
	}
}

// WithClock overrides the run timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		variants:     []string{"7", "12"},
		topN:         10,
		lookbackDays: 30,
		now:          time.Now,
		snaps:        make(map[string]*model.StatsSnapshot),
		lastRun:      make(map[string]model.RunReport),
		logger:       logger.Get(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RunDaily runs the chat-history pipeline: fetch, parse, aggregate and
// post the summary. An empty history yields stats.ErrNoData.
func (s *Service) RunDaily(ctx context.Context) error {
	runID := uuid.NewString()
	kind := "daily"
	metrics.RecordRun(kind)
	s.logger.Info(ctx, "starting daily run", logger.String("run_id", runID))

	start := s.now()
	events, err := s.chat.History(ctx)
	metrics.RecordFetchDuration(msSince(start, s.now))
	if err != nil {
		metrics.RecordRunError(kind)
		return fmt.Errorf("daily run %s: %w", runID, err)
	}

	snap, err := s.aggregate(events, stats.TableForVariant(s.mainVariant()))
	if err != nil {
		if errors.Is(err, stats.ErrNoData) {
			s.record(kind, model.RunReport{RunID: runID, Kind: kind, NoData: true, At: s.now()})
		} else {
			metrics.RecordRunError(kind)
		}
		return fmt.Errorf("daily run %s: %w", runID, err)
	}

	summary := s.renderer.Summary(s.mainVariant(), snap)
	if err := s.publisher.PostSummary(ctx, summary); err != nil {
		metrics.RecordRunError(kind)
		return fmt.Errorf("daily run %s: %w", runID, err)
	}

	s.mu.Lock()
	s.snaps[s.mainVariant()] = snap
	s.mu.Unlock()
	s.record(kind, model.RunReport{
		RunID:   runID,
		Kind:    kind,
		Events:  snap.TotalGames,
		Players: snap.UniquePlayers,
		At:      s.now(),
	})
	metrics.UpdateLastRun(s.now().Unix(), snap.TotalGames, snap.UniquePlayers)

	s.logger.Info(ctx, "daily run complete",
		logger.String("run_id", runID),
		logger.Int("events", snap.TotalGames),
		logger.Int("players", snap.UniquePlayers))
	return nil
}

// RunFull runs the store pipeline over every configured variant: fetch
// and expand records, aggregate with the variant's bucket table, upload
// the rendered documents and post a combined summary. Variants without
// data are skipped; all variants empty yields stats.ErrNoData.
func (s *Service) RunFull(ctx context.Context) error {
	runID := uuid.NewString()
	kind := "full"
	metrics.RecordRun(kind)
	s.logger.Info(ctx, "starting full run", logger.String("run_id", runID))

	snaps := make(map[string]*model.StatsSnapshot, len(s.variants))
	totalEvents, totalPlayers := 0, 0

	for _, variant := range s.variants {
		start := s.now()
		events, err := s.kv.Events(ctx, variant)
		metrics.RecordFetchDuration(msSince(start, s.now))
		if err != nil {
			metrics.RecordRunError(kind)
			return fmt.Errorf("full run %s: variant %s: %w", runID, variant, err)
		}

		snap, err := s.aggregate(events, stats.TableForVariant(variant))
		if err != nil {
			if errors.Is(err, stats.ErrNoData) {
				s.logger.Warn(ctx, "variant has no data",
					logger.String("run_id", runID),
					logger.String("variant", variant))
				continue
			}
			metrics.RecordRunError(kind)
			return fmt.Errorf("full run %s: variant %s: %w", runID, variant, err)
		}

		leaders, err := s.leaders(ctx, variant)
		if err != nil {
			// Ranking enrichment is optional; the document degrades to IDs.
			s.logger.Warn(ctx, "leaderboard enrichment failed",
				logger.String("run_id", runID),
				logger.String("variant", variant),
				logger.Error(err))
			leaders = nil
		}

		start = s.now()
		doc := s.renderer.Document(variant, snap, leaders)
		metrics.RecordRenderDuration(msSince(start, s.now))

		name := fmt.Sprintf("game-stats-%s-%s.txt", variant, s.now().UTC().Format("2006-01-02"))
		if err := s.publisher.UploadReport(ctx, name, doc); err != nil {
			metrics.RecordRunError(kind)
			return fmt.Errorf("full run %s: variant %s: %w", runID, variant, err)
		}

		snaps[variant] = snap
		totalEvents += snap.TotalGames
		totalPlayers += snap.UniquePlayers
	}

	if len(snaps) == 0 {
		s.record(kind, model.RunReport{RunID: runID, Kind: kind, NoData: true, At: s.now()})
		return fmt.Errorf("full run %s: %w", runID, stats.ErrNoData)
	}

	summary := s.renderer.CombinedSummary(snaps, s.variants)
	if err := s.publisher.PostSummary(ctx, summary); err != nil {
		metrics.RecordRunError(kind)
		return fmt.Errorf("full run %s: %w", runID, err)
	}

	if s.snapshotPath != "" {
		if err := report.WriteSnapshot(s.snapshotPath, snaps); err != nil {
			// Archival is best effort; publication already succeeded.
			s.logger.Warn(ctx, "snapshot archive failed",
				logger.String("run_id", runID),
				logger.Error(err))
		}
	}

	s.mu.Lock()
	for variant, snap := range snaps {
		s.snaps[variant] = snap
	}
	s.mu.Unlock()
	s.record(kind, model.RunReport{
		RunID:   runID,
		Kind:    kind,
		Events:  totalEvents,
		Players: totalPlayers,
		At:      s.now(),
	})
	metrics.UpdateLastRun(s.now().Unix(), totalEvents, totalPlayers)

	s.logger.Info(ctx, "full run complete",
		logger.String("run_id", runID),
		logger.Int("variants", len(snaps)),
		logger.Int("events", totalEvents))
	return nil
}

// Snapshots returns the latest per-variant aggregation results.
func (s *Service) Snapshots() map[string]*model.StatsSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.snaps) == 0 {
		return nil
	}
	out := make(map[string]*model.StatsSnapshot, len(s.snaps))
	for k, v := range s.snaps {
		out[k] = v
	}
	return out
}

// GetStats reports the latest run per kind, for operators.
func (s *Service) GetStats() map[string]model.RunReport {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]model.RunReport, len(s.lastRun))
	for k, v := range s.lastRun {
		out[k] = v
	}
	return out
}

func (s *Service) aggregate(events []model.GameEvent, table stats.BucketTable) (*model.StatsSnapshot, error) {
	start := s.now()
	snap, err := stats.Aggregate(events,
		stats.WithBucketTable(table),
		stats.WithTopN(s.topN),
		stats.WithLookbackDays(s.lookbackDays),
	)
	metrics.RecordAggregateDuration(msSince(start, s.now))
	return snap, err
}

// leaders joins the store ranking with player display metadata.
func (s *Service) leaders(ctx context.Context, variant string) ([]report.LeaderRow, error) {
	entries, err := s.kv.HighScores(ctx, variant, s.topN)
	if err != nil {
		return nil, err
	}

	rows := make([]report.LeaderRow, 0, len(entries))
	for _, e := range entries {
		meta, err := s.kv.Player(ctx, e.PlayerID)
		if err != nil {
			return nil, err
		}
		rows = append(rows, report.LeaderRow{
			PlayerID: e.PlayerID,
			Name:     meta.Name,
			Score:    e.Score,
			Avatar:   meta.Avatar,
		})
	}
	return rows, nil
}

func (s *Service) record(kind string, r model.RunReport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastRun[kind] = r
}

// mainVariant labels the chat pipeline's snapshot. The chat channel
// carries the primary game, which is the first configured variant.
func (s *Service) mainVariant() string {
	return s.variants[0]
}

func msSince(start time.Time, now func() time.Time) float64 {
	return float64(now().Sub(start).Milliseconds())
}
