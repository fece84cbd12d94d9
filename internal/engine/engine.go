package engine

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/go-logr/logr"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/game"
)

// SearchInfo describes a finished search.
type SearchInfo struct {
	Depth int
	Move  board.Move
	Score float64 // White's point of view, in pawns
	Nodes uint64
	Time  time.Duration
	Table TableStats
}

// TableStats is a snapshot of the transposition table counters.
type TableStats struct {
	Entries    int
	Hits       uint64
	Probes     uint64
	Collisions uint64
}

// Engine is the chess AI engine. It owns a transposition table that lives
// for the whole session; call Clear to start over.
type Engine struct {
	cfg   Config
	tt    *TranspositionTable
	log   logr.Logger
	nodes uint64

	// Callbacks
	OnInfo func(SearchInfo)
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for search summaries.
func WithLogger(log logr.Logger) Option {
	return func(e *Engine) {
		e.log = log
	}
}

// New creates an engine for cfg.
func New(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("engine config: %w", err)
	}
	tt, err := NewTranspositionTable(cfg.TableCapacity, cfg.VerifyHits)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		cfg: cfg,
		tt:  tt,
		log: logr.Discard(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.log.V(1).Info("engine ready", "depth", cfg.Depth, "tableCapacity", cfg.TableCapacity, "verifyHits", cfg.VerifyHits)
	return e, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// SetDepth changes the depth used by Search.
func (e *Engine) SetDepth(depth int) {
	if depth >= 0 {
		e.cfg.Depth = depth
	}
}

// Search finds the best move for g at the configured depth.
func (e *Engine) Search(g *game.Game) (board.Move, bool) {
	return e.BestMove(g, e.cfg.Depth)
}

// BestMove searches every legal move of g, each followed by depth further
// plies, and returns the best for the side to move. It returns false when g
// has no legal moves. g is left exactly as it was.
func (e *Engine) BestMove(g *game.Game, depth int) (board.Move, bool) {
	e.nodes = 0
	start := time.Now()

	move, score, ok := e.searchRoot(g, depth)

	info := SearchInfo{
		Depth: depth,
		Move:  move,
		Score: score,
		Nodes: e.nodes,
		Time:  time.Since(start),
		Table: e.TableStats(),
	}
	e.log.V(1).Info("search done",
		"fen", g.FEN(),
		"depth", depth,
		"move", move.String(),
		"score", score,
		"nodes", info.Nodes,
		"elapsed", info.Time,
		"hitRate", e.tt.HitRate(),
	)
	if e.OnInfo != nil {
		e.OnInfo(info)
	}
	return move, ok
}

// Nodes returns the number of positions visited by the last search.
func (e *Engine) Nodes() uint64 {
	return e.nodes
}

// TableStats reports the transposition table counters.
func (e *Engine) TableStats() TableStats {
	return TableStats{
		Entries:    e.tt.Len(),
		Hits:       e.tt.Hits(),
		Probes:     e.tt.Probes(),
		Collisions: e.tt.Collisions(),
	}
}

// Clear clears the transposition table.
func (e *Engine) Clear() {
	e.tt.Clear()
}

// Close releases the transposition table.
func (e *Engine) Close() {
	e.tt.Close()
}

// ScoreToString converts a White-relative score to a UCI score string from
// the point of view of side. Mate distance is not tracked, so mates are
// reported as MateScore in centipawns.
func ScoreToString(score float64, side board.Color) string {
	if side == board.Black {
		score = -score
	}
	return "cp " + strconv.Itoa(int(math.Round(score*100)))
}
