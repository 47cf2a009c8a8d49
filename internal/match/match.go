// Package match plays games of Abalone between two players.
package match

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Daniel-Arsenev/Abalone-AI/internal/board"
	"github.com/Daniel-Arsenev/Abalone-AI/internal/engine"
)

// DefaultMaxTurns is the number of rounds played before a game is drawn.
const DefaultMaxTurns = 100

// Player chooses moves for one side.
type Player interface {
	Name() string
	// ChooseMove returns a legal move for the side to move, or NoMove if
	// there is none. It must leave b unchanged.
	ChooseMove(ctx context.Context, b *board.Board) (board.Move, error)
}

// EnginePlayer plays with an engine at a fixed difficulty.
type EnginePlayer struct {
	Engine     *engine.Engine
	Difficulty engine.Difficulty
	Depth      int // overrides the difficulty's depth when > 0
	Width      int // overrides the difficulty's candidate limit when > 0
}

// NewEnginePlayer creates a player backed by its own engine.
func NewEnginePlayer(d engine.Difficulty, ttSizeMB int) *EnginePlayer {
	eng := engine.NewEngine(ttSizeMB)
	eng.SetDifficulty(d)
	return &EnginePlayer{Engine: eng, Difficulty: d}
}

func (p *EnginePlayer) Name() string {
	return "engine (" + p.Difficulty.String() + ")"
}

// Limits returns the search limits the player moves with. Overrides do
// not apply to random play.
func (p *EnginePlayer) Limits() engine.SearchLimits {
	limits := engine.DifficultySettings[p.Difficulty]
	if limits.Random {
		return limits
	}
	if p.Depth > 0 {
		limits.Depth = p.Depth
	}
	if p.Width > 0 {
		limits.MaxCandidates = p.Width
	}
	return limits
}

// ChooseMove searches a copy of b so the caller's board is never touched.
func (p *EnginePlayer) ChooseMove(ctx context.Context, b *board.Board) (board.Move, error) {
	return p.Engine.SearchWithLimits(ctx, b.Copy(), p.Limits())
}

// Reason describes how a game ended.
type Reason int

const (
	ReasonCaptures  Reason = iota // a side lost six marbles
	ReasonNoMoves                 // the side to move had no legal move
	ReasonTurnLimit               // the turn limit was reached
)

func (r Reason) String() string {
	switch r {
	case ReasonCaptures:
		return "captures"
	case ReasonNoMoves:
		return "no legal moves"
	case ReasonTurnLimit:
		return "turn limit"
	}
	return fmt.Sprintf("Reason(%d)", int(r))
}

// Result is the outcome of a finished game.
type Result struct {
	Winner   board.Color // Empty for a draw
	Reason   Reason
	Turns    int // rounds started
	Moves    []board.Move
	Start    string // notation of the starting position
	Final    *board.Board
	Duration time.Duration
}

// IsDraw returns true if nobody won.
func (r Result) IsDraw() bool {
	return r.Winner == board.Empty
}

// String announces the result.
func (r Result) String() string {
	if r.IsDraw() {
		return "Draw. Nobody wins"
	}
	name := r.Winner.String()
	return fmt.Sprintf("%s%s wins by %s after %d turns", strings.ToUpper(name[:1]), name[1:], r.Reason, r.Turns)
}

// Match alternates two players on one board.
type Match struct {
	Black Player
	White Player

	// MaxTurns is the number of rounds (a move by each side) before the
	// game is drawn. Zero means DefaultMaxTurns.
	MaxTurns int

	// Delay is slept after every move.
	Delay time.Duration

	// OnMove is called after every move with the board already updated.
	OnMove func(ply int, m board.Move, b *board.Board)
}

func (m *Match) player(c board.Color) Player {
	if c == board.Black {
		return m.Black
	}
	return m.White
}

// Play runs the game from b, which is mutated in place, until a side
// wins, a side cannot move or the turn limit is reached.
func (m *Match) Play(ctx context.Context, b *board.Board) (Result, error) {
	maxTurns := m.MaxTurns
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}

	start := time.Now()
	res := Result{Start: b.Notation(), Final: b}

	finish := func(winner board.Color, reason Reason) (Result, error) {
		res.Winner = winner
		res.Reason = reason
		res.Duration = time.Since(start)
		log.Debug().
			Str("winner", winner.String()).
			Str("reason", reason.String()).
			Int("turns", res.Turns).
			Dur("elapsed", res.Duration).
			Msg("game over")
		return res, nil
	}

	if winner, over := b.Winner(); over {
		return finish(winner, ReasonCaptures)
	}

	for ply := 0; ply < 2*maxTurns; ply++ {
		if ply%2 == 0 {
			res.Turns++
		}

		mover := b.Turn
		p := m.player(mover)
		move, err := p.ChooseMove(ctx, b)
		if err != nil {
			res.Duration = time.Since(start)
			return res, fmt.Errorf("%s (%s): %w", p.Name(), mover, err)
		}
		if !move.IsValid() {
			return finish(mover.Other(), ReasonNoMoves)
		}
		if move.Color != mover {
			res.Duration = time.Since(start)
			return res, fmt.Errorf("%s (%s) returned a move for %s: %w", p.Name(), mover, move.Color, board.ErrIllegalMove)
		}

		b.MakeMove(move)
		res.Moves = append(res.Moves, move)
		log.Debug().Int("ply", ply).Str("side", mover.String()).Str("move", move.String()).Msg("move")

		if m.OnMove != nil {
			m.OnMove(ply, move, b)
		}

		if winner, over := b.Winner(); over {
			return finish(winner, ReasonCaptures)
		}

		if m.Delay > 0 {
			select {
			case <-ctx.Done():
				res.Duration = time.Since(start)
				return res, ctx.Err()
			case <-time.After(m.Delay):
			}
		}
	}

	return finish(board.Empty, ReasonTurnLimit)
}
