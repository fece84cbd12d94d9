package storage

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/go-logr/logr"
	"golang.org/x/exp/maps"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/engine"
	"github.com/hailam/chesscore/internal/game"
)

// Storage keys
const (
	keyPreferences = "preferences"
	keyStats       = "stats"
	keyFirstLaunch = "first_launch"
	keyGameSeq     = "seq/game"
	gamePrefix     = "game/"
)

// ErrGameNotFound is returned when no archived game has the requested ID.
var ErrGameNotFound = errors.New("game not found")

// Results as written in PGN.
const (
	ResultWhiteWins = "1-0"
	ResultBlackWins = "0-1"
	ResultDraw      = "1/2-1/2"
	ResultOngoing   = "*"
)

// Preferences stores the settings self-play and the UCI front end start from.
type Preferences struct {
	Difficulty    string    `json:"difficulty"`
	Depth         int       `json:"depth"`
	TableCapacity int64     `json:"table_capacity"`
	VerifyHits    bool      `json:"verify_hits"`
	Opponent      string    `json:"opponent"`
	LastPlayed    time.Time `json:"last_played"`
}

// DefaultPreferences returns default preferences
func DefaultPreferences() *Preferences {
	cfg := engine.DefaultConfig()
	return &Preferences{
		Difficulty:    engine.Medium.String(),
		Depth:         cfg.Depth,
		TableCapacity: cfg.TableCapacity,
		VerifyHits:    cfg.VerifyHits,
		Opponent:      "engine",
	}
}

// EngineConfig converts the preferences into an engine configuration.
func (p *Preferences) EngineConfig() engine.Config {
	return engine.Config{
		Depth:         p.Depth,
		TableCapacity: p.TableCapacity,
		VerifyHits:    p.VerifyHits,
	}
}

// GameRecord is an archived game.
type GameRecord struct {
	ID          uint64        `json:"id"`
	White       string        `json:"white"`
	Black       string        `json:"black"`
	StartFEN    string        `json:"start_fen"`
	FinalFEN    string        `json:"final_fen"`
	Moves       []string      `json:"moves"`
	SAN         []string      `json:"san"`
	Result      string        `json:"result"`
	Termination string        `json:"termination"`
	Played      time.Time     `json:"played"`
	Duration    time.Duration `json:"duration"`
}

// Plies returns the number of half-moves in the game.
func (r *GameRecord) Plies() int {
	return len(r.Moves)
}

// NewGameRecord captures g, which was started from startFEN, as an archive
// entry. g is not modified.
func NewGameRecord(g *game.Game, startFEN, white, black string, started time.Time) *GameRecord {
	history := g.History()
	moves := make([]string, len(history))
	for i, m := range history {
		moves[i] = m.String()
	}

	return &GameRecord{
		White:       white,
		Black:       black,
		StartFEN:    startFEN,
		FinalFEN:    g.FEN(),
		Moves:       moves,
		SAN:         g.SANHistory(),
		Result:      Result(g.State(), g.SideToMove()),
		Termination: g.State().String(),
		Played:      started,
		Duration:    time.Since(started),
	}
}

// Result maps a game state and the side to move onto a PGN result.
func Result(state board.State, toMove board.Color) string {
	switch {
	case state == board.Checkmate && toMove == board.White:
		return ResultBlackWins
	case state == board.Checkmate:
		return ResultWhiteWins
	case state.IsDraw():
		return ResultDraw
	}
	return ResultOngoing
}

// GameStats stores aggregate statistics over archived games.
type GameStats struct {
	GamesPlayed   int            `json:"games_played"`
	WhiteWins     int            `json:"white_wins"`
	BlackWins     int            `json:"black_wins"`
	Draws         int            `json:"draws"`
	WinsByPlayer  map[string]int `json:"wins_by_player"`
	ByTermination map[string]int `json:"by_termination"`
	TotalPlies    int            `json:"total_plies"`
	LongestGame   int            `json:"longest_game"`
	TotalPlayTime time.Duration  `json:"total_play_time"`
}

// NewGameStats returns empty game statistics
func NewGameStats() *GameStats {
	return &GameStats{
		WinsByPlayer:  make(map[string]int),
		ByTermination: make(map[string]int),
	}
}

func (s *GameStats) add(rec *GameRecord) {
	s.GamesPlayed++
	s.TotalPlies += rec.Plies()
	s.TotalPlayTime += rec.Duration
	s.LongestGame = max(s.LongestGame, rec.Plies())
	s.ByTermination[rec.Termination]++

	switch rec.Result {
	case ResultWhiteWins:
		s.WhiteWins++
		s.WinsByPlayer[rec.White]++
	case ResultBlackWins:
		s.BlackWins++
		s.WinsByPlayer[rec.Black]++
	case ResultDraw:
		s.Draws++
	}
}

// DrawRate returns the share of drawn games as a percentage (0-100)
func (s *GameStats) DrawRate() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return float64(s.Draws) / float64(s.GamesPlayed) * 100
}

// Summary lists the per-termination and per-player counts in key order.
func (s *GameStats) Summary() []string {
	var lines []string

	terminations := maps.Keys(s.ByTermination)
	slices.Sort(terminations)
	for _, k := range terminations {
		lines = append(lines, fmt.Sprintf("%s: %d", k, s.ByTermination[k]))
	}

	players := maps.Keys(s.WinsByPlayer)
	slices.Sort(players)
	for _, k := range players {
		lines = append(lines, fmt.Sprintf("wins by %s: %d", k, s.WinsByPlayer[k]))
	}
	return lines
}

// Storage wraps BadgerDB for persistent storage
type Storage struct {
	db  *badger.DB
	seq *badger.Sequence
	log logr.Logger
}

// Option configures Open.
type Option func(*options)

type options struct {
	log      logr.Logger
	inMemory bool
}

// WithLogger routes storage and badger logging to log.
func WithLogger(log logr.Logger) Option {
	return func(o *options) { o.log = log }
}

// InMemory keeps the database in memory; nothing touches disk.
func InMemory() Option {
	return func(o *options) { o.inMemory = true }
}

// NewStorage opens the database in the default data directory.
func NewStorage(opts ...Option) (*Storage, error) {
	dbDir, err := GetDatabaseDir()
	if err != nil {
		return nil, err
	}
	return Open(dbDir, opts...)
}

// Open opens or creates the database in dir.
func Open(dir string, opts ...Option) (*Storage, error) {
	o := options{log: logr.Discard()}
	for _, opt := range opts {
		opt(&o)
	}

	bopts := badger.DefaultOptions(dir)
	if o.inMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	}
	bopts = bopts.WithLogger(badgerLogger{o.log.WithName("badger")})

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	seq, err := db.GetSequence([]byte(keyGameSeq), 16)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("game sequence: %w", err)
	}

	o.log.V(1).Info("database open", "dir", dir, "inMemory", o.inMemory)
	return &Storage{db: db, seq: seq, log: o.log}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.seq.Release()
	return errors.Join(err, s.db.Close())
}

// IsFirstLaunch returns true if this is the first launch
func (s *Storage) IsFirstLaunch() (bool, error) {
	firstLaunch := true

	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(keyFirstLaunch))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		firstLaunch = false
		return nil
	})

	return firstLaunch, err
}

// MarkFirstLaunchComplete marks that first launch setup is complete
func (s *Storage) MarkFirstLaunchComplete() error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyFirstLaunch), []byte("done"))
	})
}

// SavePreferences saves preferences
func (s *Storage) SavePreferences(prefs *Preferences) error {
	prefs.LastPlayed = time.Now()
	return s.db.Update(func(txn *badger.Txn) error {
		return setJSON(txn, []byte(keyPreferences), prefs)
	})
}

// LoadPreferences loads preferences, returns defaults if not found
func (s *Storage) LoadPreferences() (*Preferences, error) {
	prefs := DefaultPreferences()
	err := s.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, []byte(keyPreferences), prefs)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return prefs, nil
	}
	return prefs, err
}

// LoadStats loads game statistics, returns empty stats if not found
func (s *Storage) LoadStats() (*GameStats, error) {
	var stats *GameStats
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		stats, err = loadStats(txn)
		return err
	})
	return stats, err
}

func loadStats(txn *badger.Txn) (*GameStats, error) {
	stats := NewGameStats()
	err := getJSON(txn, []byte(keyStats), stats)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return stats, nil
	}
	return stats, err
}

// RecordGame archives rec under a fresh ID and folds it into the statistics
// in the same transaction. rec.ID is set on success.
func (s *Storage) RecordGame(rec *GameRecord) error {
	id, err := s.seq.Next()
	if err != nil {
		return fmt.Errorf("next game id: %w", err)
	}
	// IDs start at 1 so the zero value means "not archived".
	id++

	err = s.db.Update(func(txn *badger.Txn) error {
		stats, err := loadStats(txn)
		if err != nil {
			return err
		}
		stats.add(rec)

		stored := *rec
		stored.ID = id
		if err := setJSON(txn, gameKey(id), &stored); err != nil {
			return err
		}
		return setJSON(txn, []byte(keyStats), stats)
	})
	if err != nil {
		s.log.Error(err, "record game failed", "white", rec.White, "black", rec.Black)
		return err
	}

	rec.ID = id
	s.log.V(1).Info("game recorded", "id", id, "result", rec.Result, "plies", rec.Plies())
	return nil
}

// LoadGame returns the archived game with the given ID.
func (s *Storage) LoadGame(id uint64) (*GameRecord, error) {
	rec := &GameRecord{}
	err := s.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, gameKey(id), rec)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %d", ErrGameNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// ListGames returns every archived game in ID order.
func (s *Storage) ListGames() ([]*GameRecord, error) {
	var games []*GameRecord
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{
			PrefetchValues: true,
			PrefetchSize:   16,
			Prefix:         []byte(gamePrefix),
		})
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			rec := &GameRecord{}
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, rec)
			})
			if err != nil {
				return err
			}
			games = append(games, rec)
		}
		return nil
	})
	return games, err
}

// DeleteGame removes an archived game. The statistics are left alone.
func (s *Storage) DeleteGame(id uint64) error {
	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(gameKey(id)); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("%w: %d", ErrGameNotFound, id)
			}
			return err
		}
		return txn.Delete(gameKey(id))
	})
}

// gameKey is big-endian so iteration follows ID order.
func gameKey(id uint64) []byte {
	key := make([]byte, len(gamePrefix)+8)
	copy(key, gamePrefix)
	binary.BigEndian.PutUint64(key[len(gamePrefix):], id)
	return key
}

func setJSON(txn *badger.Txn, key []byte, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return txn.Set(key, data)
}

func getJSON(txn *badger.Txn, key []byte, v any) error {
	item, err := txn.Get(key)
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, v)
	})
}
