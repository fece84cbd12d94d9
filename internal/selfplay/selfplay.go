// Package selfplay plays engines and random movers against each other.
package selfplay

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/go-logr/logr"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/engine"
	"github.com/hailam/chesscore/internal/game"
	"github.com/hailam/chesscore/internal/storage"
)

// Player picks moves for one side.
type Player interface {
	Name() string
	// Choose returns a legal move for the side to move, or false when
	// there is none. g must be left as it was found.
	Choose(g *game.Game) (board.Move, bool)
}

// EnginePlayer plays the engine's best move at its configured depth.
type EnginePlayer struct {
	Engine *engine.Engine
	Label  string
}

func (p *EnginePlayer) Name() string {
	if p.Label != "" {
		return p.Label
	}
	return fmt.Sprintf("engine-d%d", p.Engine.Config().Depth)
}

func (p *EnginePlayer) Choose(g *game.Game) (board.Move, bool) {
	return p.Engine.Search(g)
}

// RandomPlayer plays a uniformly random legal move.
type RandomPlayer struct {
	rng *rand.Rand
}

// NewRandomPlayer returns a random mover; equal seeds give equal games.
func NewRandomPlayer(seed uint64) *RandomPlayer {
	return &RandomPlayer{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (p *RandomPlayer) Name() string { return "random" }

func (p *RandomPlayer) Choose(g *game.Game) (board.Move, bool) {
	moves := g.GenerateLegalMoves()
	if len(moves) == 0 {
		return board.NoMove, false
	}
	return moves[p.rng.IntN(len(moves))], true
}

// Match is a single game between two players.
type Match struct {
	White, Black Player
	StartFEN     string // empty for the standard start position
	MaxPlies     int    // 0 plays until the game is decided
	Log          logr.Logger

	// OnMove is called after every move.
	OnMove func(g *game.Game, m board.Move)
}

// Result is a finished (or abandoned) match.
type Result struct {
	Game   *game.Game
	Record *storage.GameRecord
}

// Play runs the match until the game is decided, MaxPlies is reached or
// ctx is done. The game so far is returned together with ctx's error.
func (m *Match) Play(ctx context.Context) (*Result, error) {
	startFEN := m.StartFEN
	if startFEN == "" {
		startFEN = board.StartFEN
	}
	g, err := game.FromFEN(startFEN)
	if err != nil {
		return nil, err
	}
	log := m.Log

	started := time.Now()
	finish := func(err error) (*Result, error) {
		rec := storage.NewGameRecord(g, startFEN, m.White.Name(), m.Black.Name(), started)
		log.V(1).Info("game over", "result", rec.Result, "termination", rec.Termination, "plies", rec.Plies())
		return &Result{Game: g, Record: rec}, err
	}

	for ply := 0; m.MaxPlies == 0 || ply < m.MaxPlies; ply++ {
		if err := ctx.Err(); err != nil {
			return finish(err)
		}
		// Refreshes the state on checkmate and stalemate.
		if len(g.GenerateLegalMoves()) == 0 {
			break
		}

		player := m.White
		if g.SideToMove() == board.Black {
			player = m.Black
		}
		move, ok := player.Choose(g)
		if !ok {
			break
		}
		if err := g.Play(move); err != nil {
			return finish(fmt.Errorf("%s: %w", player.Name(), err))
		}
		log.V(2).Info("move", "player", player.Name(), "move", move.String(), "fen", g.FEN())
		if m.OnMove != nil {
			m.OnMove(g, move)
		}
	}
	g.GenerateLegalMoves()
	return finish(nil)
}
