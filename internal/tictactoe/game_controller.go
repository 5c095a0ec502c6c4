package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-ai/internal/entity"
)

type moveChooser interface {
	ChooseMove(board *entity.Board) (entity.Move, bool)
	Mark() entity.Mark
}

// GameController drives a human-vs-computer game: the human is X, the chooser plays O.
type GameController struct {
	computer moveChooser
}

func NewGameController(computer moveChooser) *GameController {
	return &GameController{
		computer: computer,
	}
}

// ComputeAndApplyComputerMove plays the computer's reply. On a finished game or a full board the
// current result is returned and the move is nil.
func (that *GameController) ComputeAndApplyComputerMove(game *entity.Game) (entity.Result, *entity.Move, error) {
	if game.IsFinished() {
		game.Over = true
		return game.Result(), nil, nil
	}

	move, ok := that.computer.ChooseMove(&game.Board)
	if !ok {
		return game.Result(), nil, nil
	}

	result, err := game.ApplyMove(that.computer.Mark(), move)
	if err != nil {
		return result, nil, fmt.Errorf("computer move %s rejected: %w", move, err)
	}

	return result, &move, nil
}

// Play applies the human move and, if the game goes on, the computer's reply.
func (that *GameController) Play(game *entity.Game, row, col int) (entity.Result, *entity.Move, error) {
	result, err := game.ApplyHumanMove(row, col)
	if err != nil {
		return result, nil, fmt.Errorf("invalid turn: %w", err)
	}

	if result.IsTerminal() {
		return result, nil, nil
	}

	return that.ComputeAndApplyComputerMove(game)
}
