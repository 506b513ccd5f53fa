// Command seedkv populates a development store with sample game
// records, high score rankings and player metadata so the reporting
// pipeline can be exercised without live traffic.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/playdeck/matchstats/internal/adapters/kvstore"
	"github.com/playdeck/matchstats/internal/domain/model"
	"github.com/playdeck/matchstats/pkg/logger"
)

// Default configuration constants.
const (
	defaultRooms   = 200
	defaultPlayers = 40
	defaultDays    = 30
	defaultTimeout = 30 * time.Second
)

var cities = []model.Location{
	{City: "Berlin", Country: "Germany"},
	{City: "Paris", Country: "France"},
	{City: "Oslo", Country: "Norway"},
	{City: "Lisbon", Country: "Portugal"},
	{City: "Austin", Country: "USA"},
}

func main() {
	var (
		addr     = flag.String("addr", "localhost:6379", "Store address")
		password = flag.String("password", "", "Store password")
		db       = flag.Int("db", 0, "Store database number")
		variants = flag.String("variants", "7,12", "Comma-separated variants to seed")
		rooms    = flag.Int("rooms", defaultRooms, "Number of game rooms per variant")
		players  = flag.Int("players", defaultPlayers, "Size of the player pool")
		days     = flag.Int("days", defaultDays, "Spread rooms over this many past days")
		seed     = flag.Int64("seed", time.Now().UnixNano(), "Random seed")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Get()

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	src := kvstore.New(*addr, *password, *db, kvstore.WithLogger(log))
	defer func() { _ = src.Close() }()

	if err := src.Ping(ctx); err != nil {
		os.Stderr.WriteString("store unreachable: " + err.Error() + "\n")
		return
	}

	rng := rand.New(rand.NewSource(*seed))
	pool := newPlayerPool(*players)

	for _, id := range pool {
		meta := kvstore.PlayerMeta{
			Name:   "Player " + id[:6],
			Avatar: fmt.Sprintf("%d,%d", rng.Intn(8), rng.Intn(8)),
		}
		if err := src.SeedPlayer(ctx, id, meta); err != nil {
			os.Stderr.WriteString("seeding player failed: " + err.Error() + "\n")
			return
		}
	}

	for _, variant := range strings.Split(*variants, ",") {
		variant = strings.TrimSpace(variant)
		if variant == "" {
			continue
		}
		records := generateRooms(rng, pool, *rooms, *days, maxScoreFor(variant))
		if err := src.Seed(ctx, variant, records); err != nil {
			os.Stderr.WriteString("seeding variant " + variant + " failed: " + err.Error() + "\n")
			return
		}
		log.Info(ctx, "seeded variant",
			logger.String("variant", variant),
			logger.Int("rooms", len(records)),
			logger.Int("players", len(pool)))
	}
}

func newPlayerPool(n int) []string {
	pool := make([]string, n)
	for i := range pool {
		pool[i] = uuid.NewString()
	}
	return pool
}

// generateRooms builds rooms with 1-4 players each, spread over the
// past days. A small share of rooms ends without scores.
func generateRooms(rng *rand.Rand, pool []string, rooms, days, maxScore int) []kvstore.Record {
	out := make([]kvstore.Record, 0, rooms)
	now := time.Now().UTC()

	for i := 0; i < rooms; i++ {
		started := now.AddDate(0, 0, -rng.Intn(days)).Add(-time.Duration(rng.Intn(86400)) * time.Second)
		ended := started.Add(time.Duration(60+rng.Intn(600)) * time.Second)

		rec := kvstore.Record{
			RoomID:    uuid.NewString(),
			StartedAt: started.UnixMilli(),
			EndedAt:   ended.UnixMilli(),
			Scores:    make(map[string]int),
			Avatars:   make(map[string]string),
			Locations: make(map[string]model.Location),
		}

		// Roughly one in twelve rooms is abandoned before anyone scores.
		if rng.Intn(12) != 0 {
			count := 1 + rng.Intn(4)
			for j := 0; j < count; j++ {
				id := pool[rng.Intn(len(pool))]
				rec.Scores[id] = rng.Intn(maxScore + 1)
				rec.Avatars[id] = fmt.Sprintf("%d,%d", rng.Intn(8), rng.Intn(8))
				rec.Locations[id] = cities[rng.Intn(len(cities))]
			}
		}
		out = append(out, rec)
	}
	return out
}

func maxScoreFor(variant string) int {
	if variant == "12" {
		return 40
	}
	return 25
}
