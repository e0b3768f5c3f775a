package storage

import (
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

// Result strings, matching PGN.
const (
	ResultWhiteWins = "1-0"
	ResultBlackWins = "0-1"
	ResultDraw      = "1/2-1/2"
)

// ArchivedGame is a finished game.
type ArchivedGame struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Variant    string    `json:"variant"`
	StartFEN   string    `json:"start_fen"`
	Moves      []string  `json:"moves"`
	Result     string    `json:"result"`
	Reason     string    `json:"reason"`
	PGN        string    `json:"pgn"`
	FinishedAt time.Time `json:"finished_at"`
}

// GameStats stores game statistics
type GameStats struct {
	GamesPlayed int            `json:"games_played"`
	WhiteWins   int            `json:"white_wins"`
	BlackWins   int            `json:"black_wins"`
	Draws       int            `json:"draws"`
	ByVariant   map[string]int `json:"by_variant"`
}

// NewGameStats returns empty game statistics
func NewGameStats() *GameStats {
	return &GameStats{ByVariant: make(map[string]int)}
}

// LoadStats loads game statistics, returns empty stats if not found
func (s *Storage) LoadStats() (*GameStats, error) {
	stats := NewGameStats()
	_, err := s.get(keyStats, stats)
	if stats.ByVariant == nil {
		stats.ByVariant = make(map[string]int)
	}
	return stats, err
}

// RecordGame archives a finished game under a new ID and updates the
// statistics in the same transaction.
func (s *Storage) RecordGame(g *ArchivedGame) (string, error) {
	g.ID = uuid.NewString()
	if g.FinishedAt.IsZero() {
		g.FinishedAt = time.Now()
	}
	gameData, err := json.Marshal(g)
	if err != nil {
		return "", err
	}

	record := func(txn *badger.Txn) error {
		stats, err := statsIn(txn)
		if err != nil {
			return err
		}
		stats.count(g)
		statsData, err := json.Marshal(stats)
		if err != nil {
			return err
		}
		if err := txn.Set([]byte(prefixGame+g.ID), gameData); err != nil {
			return err
		}
		return txn.Set([]byte(keyStats), statsData)
	}

	// A concurrent writer of the stats key makes the commit conflict; redo
	// the read-modify-write against the new value.
	for {
		err = s.db.Update(record)
		if !errors.Is(err, badger.ErrConflict) {
			break
		}
	}
	if err != nil {
		return "", err
	}
	return g.ID, nil
}

// statsIn reads the statistics inside txn, empty if none are stored yet.
func statsIn(txn *badger.Txn) (*GameStats, error) {
	stats := NewGameStats()
	item, err := txn.Get([]byte(keyStats))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return stats, nil
	}
	if err != nil {
		return nil, err
	}
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, stats)
	})
	if stats.ByVariant == nil {
		stats.ByVariant = make(map[string]int)
	}
	return stats, err
}

// count adds one finished game.
func (st *GameStats) count(g *ArchivedGame) {
	st.GamesPlayed++
	st.ByVariant[g.Variant]++
	switch g.Result {
	case ResultWhiteWins:
		st.WhiteWins++
	case ResultBlackWins:
		st.BlackWins++
	default:
		st.Draws++
	}
}

// LoadGame returns an archived game by ID.
func (s *Storage) LoadGame(id string) (*ArchivedGame, bool, error) {
	g := &ArchivedGame{}
	found, err := s.get(prefixGame+id, g)
	if err != nil || !found {
		return nil, false, err
	}
	return g, true, nil
}

// RecentGames returns up to limit archived games, newest first.
func (s *Storage) RecentGames(limit int) ([]*ArchivedGame, error) {
	var games []*ArchivedGame

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefixGame)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				g := &ArchivedGame{}
				if err := json.Unmarshal(val, g); err != nil {
					return err
				}
				games = append(games, g)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(games, func(i, j int) bool {
		return games[i].FinishedAt.After(games[j].FinishedAt)
	})
	if limit > 0 && len(games) > limit {
		games = games[:limit]
	}
	return games, nil
}

// DrawRate returns the share of drawn games as a percentage (0-100)
func (s *GameStats) DrawRate() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return float64(s.Draws) / float64(s.GamesPlayed) * 100
}
