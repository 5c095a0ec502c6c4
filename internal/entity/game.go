package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-ai/internal/apperror"
)

const (
	HumanMark    = PlayerX
	ComputerMark = PlayerO
)

// Game is one human-vs-computer match. The board is owned by the game for its lifetime.
type Game struct {
	ID    string `json:"id"`
	Board Board  `json:"board"`
	Over  bool   `json:"game_over"`
}

func NewGame(id string) *Game {
	return &Game{
		ID: id,
	}
}

// Result is derived from the board on every call.
func (that *Game) Result() Result {
	return that.Board.Result()
}

func (that *Game) IsFinished() bool {
	return that.Over || that.Result().IsTerminal()
}

// ApplyHumanMove validates and places the human's mark.
func (that *Game) ApplyHumanMove(row, col int) (Result, error) {
	return that.ApplyMove(HumanMark, Move{Row: row, Col: col})
}

// ApplyMove places mark at move and refreshes the cached terminal flag.
func (that *Game) ApplyMove(mark Mark, move Move) (Result, error) {
	if that.IsFinished() {
		that.Over = true
		return that.Result(), fmt.Errorf("%w: %w", apperror.ErrInvalidMove, apperror.ErrGameFinished)
	}

	if err := that.Board.Place(move.Row, move.Col, mark); err != nil {
		return that.Result(), err
	}

	result := that.Result()
	that.Over = result.IsTerminal()

	return result, nil
}

// Reset empties the board and clears the terminal flag.
func (that *Game) Reset() {
	that.Board = Board{}
	that.Over = false
}
