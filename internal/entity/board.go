package entity

import (
	"fmt"
	"slices"
	"strings"

	"github.com/rocketscienceinc/tictactoe-ai/internal/apperror"
)

const BoardSize = 3

// Mark is the content of a single cell.
type Mark string

const (
	PlayerX   Mark = "X"
	PlayerO   Mark = "O"
	EmptyCell Mark = ""
)

// Opponent returns the other player's mark. EmptyCell has no opponent.
func (that Mark) Opponent() Mark {
	switch that {
	case PlayerX:
		return PlayerO
	case PlayerO:
		return PlayerX
	default:
		return EmptyCell
	}
}

func (that Mark) IsPlayer() bool {
	return that == PlayerX || that == PlayerO
}

// Move is a 0-indexed (row, column) coordinate.
type Move struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (that Move) IsValid() bool {
	return that.Row >= 0 && that.Row < BoardSize && that.Col >= 0 && that.Col < BoardSize
}

func (that Move) String() string {
	return fmt.Sprintf("(%d, %d)", that.Row, that.Col)
}

// MoveFromIndex converts a cell index in [0, 8] into a move in row-major order.
func MoveFromIndex(index int) (Move, error) {
	if index < 0 || index >= BoardSize*BoardSize {
		return Move{}, fmt.Errorf("%w: index %d", apperror.ErrInvalidCell, index)
	}

	return Move{Row: index / BoardSize, Col: index % BoardSize}, nil
}

var WinLines = [][3]Move{
	{{0, 0}, {0, 1}, {0, 2}},
	{{1, 0}, {1, 1}, {1, 2}},
	{{2, 0}, {2, 1}, {2, 2}},
	{{0, 0}, {1, 0}, {2, 0}},
	{{0, 1}, {1, 1}, {2, 1}},
	{{0, 2}, {1, 2}, {2, 2}},
	{{0, 0}, {1, 1}, {2, 2}},
	{{0, 2}, {1, 1}, {2, 0}},
}

// Board is a 3x3 tic-tac-toe grid. The zero value is an empty board.
type Board [BoardSize][BoardSize]Mark

// Place puts mark on an empty cell.
func (that *Board) Place(row, col int, mark Mark) error {
	if !mark.IsPlayer() {
		return fmt.Errorf("%w: %w %q", apperror.ErrInvalidMove, apperror.ErrInvalidMark, mark)
	}

	if !(Move{Row: row, Col: col}).IsValid() {
		return fmt.Errorf("%w: %w (%d, %d)", apperror.ErrInvalidMove, apperror.ErrInvalidCell, row, col)
	}

	if that[row][col] != EmptyCell {
		return fmt.Errorf("%w: %w (%d, %d)", apperror.ErrInvalidMove, apperror.ErrCellOccupied, row, col)
	}

	that[row][col] = mark

	return nil
}

// Clear resets a cell to EmptyCell. Coordinates out of range are ignored.
func (that *Board) Clear(row, col int) {
	if !(Move{Row: row, Col: col}).IsValid() {
		return
	}

	that[row][col] = EmptyCell
}

func (that Board) At(row, col int) Mark {
	if !(Move{Row: row, Col: col}).IsValid() {
		return EmptyCell
	}

	return that[row][col]
}

func (that Board) IsEmpty(row, col int) bool {
	return (Move{Row: row, Col: col}).IsValid() && that[row][col] == EmptyCell
}

func (that Board) IsFull() bool {
	for _, row := range that {
		for _, cell := range row {
			if cell == EmptyCell {
				return false
			}
		}
	}

	return true
}

// Winner reports whether mark occupies a full row, column or diagonal.
func (that Board) Winner(mark Mark) bool {
	_, ok := that.lineOf(mark)
	return ok
}

// WinningLine returns the completed line of the winner reported by Result, X checked first.
func (that Board) WinningLine() ([3]Move, bool) {
	if line, ok := that.lineOf(PlayerX); ok {
		return line, true
	}

	return that.lineOf(PlayerO)
}

func (that Board) lineOf(mark Mark) ([3]Move, bool) {
	if !mark.IsPlayer() {
		return [3]Move{}, false
	}

	for _, line := range WinLines {
		a, b, c := line[0], line[1], line[2]
		if that[a.Row][a.Col] == mark && that[b.Row][b.Col] == mark && that[c.Row][c.Col] == mark {
			return line, true
		}
	}

	return [3]Move{}, false
}

// Result classifies the board. A completed line wins even on a full board.
func (that Board) Result() Result {
	switch {
	case that.Winner(PlayerX):
		return ResultXWins
	case that.Winner(PlayerO):
		return ResultOWins
	case that.IsFull():
		return ResultDraw
	default:
		return ResultInProgress
	}
}

// EmptyCells lists the empty cells in row-major order.
func (that Board) EmptyCells() []Move {
	moves := make([]Move, 0, BoardSize*BoardSize)
	for row := range BoardSize {
		for col := range BoardSize {
			if that[row][col] == EmptyCell {
				moves = append(moves, Move{Row: row, Col: col})
			}
		}
	}

	return moves
}

func (that Board) Count(mark Mark) int {
	count := 0
	for _, row := range that {
		for _, cell := range row {
			if cell == mark {
				count++
			}
		}
	}

	return count
}

func (that Board) String() string {
	return that.Format()
}

// Format renders the board as text with the cells in marked wrapped in brackets.
func (that Board) Format(marked ...Move) string {
	var sb strings.Builder
	for row := range BoardSize {
		if row > 0 {
			sb.WriteString("\n---+---+---\n")
		}

		for col := range BoardSize {
			if col > 0 {
				sb.WriteByte('|')
			}

			cell := that[row][col]
			if cell == EmptyCell {
				cell = " "
			}

			if slices.Contains(marked, Move{Row: row, Col: col}) {
				sb.WriteString("[" + string(cell) + "]")
			} else {
				sb.WriteString(" " + string(cell) + " ")
			}
		}
	}

	return sb.String()
}
