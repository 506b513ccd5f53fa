// Package kvstore reads finished-game records, high score rankings and
// player metadata from the key-value store.
//
// Keyspace:
//
//	events:<variant>      list of JSON room records, newest first
//	highscores:<variant>  zset of player IDs scored by best result
//	player:<id>           hash with name and avatar fields
package kvstore

import (
	"context"
	"fmt"

	"github.com/playdeck/matchstats/internal/domain/model"
	"github.com/playdeck/matchstats/pkg/logger"
	"github.com/playdeck/matchstats/pkg/metrics"
	"github.com/redis/go-redis/v9"
)

const defaultMaxEvents = 10_000

// LeaderEntry is one row of a variant's high score ranking.
type LeaderEntry struct {
	PlayerID string
	Score    int
}

// PlayerMeta enriches rendered leaderboards with display data.
type PlayerMeta struct {
	Name   string
	Avatar string
}

// Source reads game data from the store. Safe for concurrent use.
type Source struct {
	client    *redis.Client
	log       logger.Logger
	maxEvents int
}

// Option configures a Source.
type Option func(*Source)

// WithLogger sets the logger used for skip reporting.
func WithLogger(l logger.Logger) Option {
	return func(s *Source) {
		s.log = l
	}
}

// WithMaxEvents bounds how many list entries are read per variant.
func WithMaxEvents(n int) Option {
	return func(s *Source) {
		if n > 0 {
			s.maxEvents = n
		}
	}
}

// New connects a Source to the store at addr.
func New(addr, password string, db int, opts ...Option) *Source {
	s := &Source{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
		log:       logger.Get(),
		maxEvents: defaultMaxEvents,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Events reads and expands the room records of one variant. Malformed
// entries are skipped and counted, never fatal; a transport failure is.
func (s *Source) Events(ctx context.Context, variant string) ([]model.GameEvent, error) {
	key := "events:" + variant
	raws, err := s.client.LRange(ctx, key, 0, int64(s.maxEvents-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFetch, key, err)
	}

	events := make([]model.GameEvent, 0, len(raws))
	skipped := 0
	for _, raw := range raws {
		rec, err := decodeRecord(raw)
		if err != nil {
			skipped++
			metrics.RecordRecordSkipped()
			continue
		}
		events = append(events, rec.Expand()...)
	}
	if skipped > 0 {
		s.log.Warn(ctx, "skipped malformed store records",
			logger.String("variant", variant),
			logger.Int("skipped", skipped))
	}
	return events, nil
}

// HighScores reads the top n entries of a variant's ranking.
func (s *Source) HighScores(ctx context.Context, variant string, n int) ([]LeaderEntry, error) {
	key := "highscores:" + variant
	rows, err := s.client.ZRevRangeWithScores(ctx, key, 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFetch, key, err)
	}

	out := make([]LeaderEntry, 0, len(rows))
	for _, row := range rows {
		id, ok := row.Member.(string)
		if !ok {
			id = fmt.Sprint(row.Member)
		}
		out = append(out, LeaderEntry{PlayerID: id, Score: int(row.Score)})
	}
	return out, nil
}

// Player reads one player's display metadata. A missing hash yields
// zero-valued meta, not an error.
func (s *Source) Player(ctx context.Context, id string) (PlayerMeta, error) {
	fields, err := s.client.HGetAll(ctx, "player:"+id).Result()
	if err != nil {
		return PlayerMeta{}, fmt.Errorf("%w: player:%s: %w", ErrFetch, id, err)
	}
	return PlayerMeta{
		Name:   fields["name"],
		Avatar: fields["avatar"],
	}, nil
}

// Ping verifies store connectivity, used by health checks.
func (s *Source) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: ping: %w", ErrFetch, err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *Source) Close() error {
	return s.client.Close()
}

// Seed pushes sample records onto a variant's list, newest first. Used
// by tooling to populate a development store.
func (s *Source) Seed(ctx context.Context, variant string, records []Record) error {
	key := "events:" + variant
	for _, rec := range records {
		raw, err := encodeRecord(&rec)
		if err != nil {
			return err
		}
		if err := s.client.LPush(ctx, key, raw).Err(); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrFetch, key, err)
		}
		for id, score := range rec.Scores {
			if err := s.client.ZAddGT(ctx, "highscores:"+variant, redis.Z{
				Score:  float64(score),
				Member: id,
			}).Err(); err != nil {
				return fmt.Errorf("%w: highscores:%s: %w", ErrFetch, variant, err)
			}
		}
	}
	return nil
}

// SeedPlayer writes one player's display hash.
func (s *Source) SeedPlayer(ctx context.Context, id string, meta PlayerMeta) error {
	err := s.client.HSet(ctx, "player:"+id, "name", meta.Name, "avatar", meta.Avatar).Err()
	if err != nil {
		return fmt.Errorf("%w: player:%s: %w", ErrFetch, id, err)
	}
	return nil
}
