// Package bot implements the computer player: a full-depth minimax search with alpha-beta pruning.
package bot

import (
	"math"
	"runtime"

	"github.com/rocketscienceinc/tictactoe-ai/internal/entity"
	"golang.org/x/sync/errgroup"
)

const (
	scoreWin  = 1
	scoreDraw = 0
	scoreLoss = -1
)

type Option func(*Engine)

// WithParallel scores the top-level candidates concurrently, one board copy per candidate.
func WithParallel(parallel bool) Option {
	return func(that *Engine) {
		that.parallel = parallel
	}
}

// Engine picks moves for mark, which is the maximizing side of the search.
type Engine struct {
	mark     entity.Mark
	parallel bool
}

func NewEngine(mark entity.Mark, opts ...Option) *Engine {
	engine := &Engine{
		mark: mark,
	}

	for _, opt := range opts {
		opt(engine)
	}

	return engine
}

// Mark is the side the engine plays.
func (that *Engine) Mark() entity.Mark {
	return that.mark
}

// ChooseMove returns the optimal move for the engine's mark on board, assuming it is the engine's turn.
// Candidates are tried in row-major order and only a strictly greater score replaces the best one,
// so among equal moves the first is kept. The board is used as scratch space and restored before return.
// The second result is false only when the board has no empty cell.
func (that *Engine) ChooseMove(board *entity.Board) (entity.Move, bool) {
	candidates := board.EmptyCells()
	if len(candidates) == 0 {
		return entity.Move{}, false
	}

	var scores []int
	if that.parallel {
		scores = that.scoreConcurrently(*board, candidates)
	} else {
		scores = that.score(board, candidates)
	}

	best := 0
	for i := range scores {
		if scores[i] > scores[best] {
			best = i
		}
	}

	return candidates[best], true
}

// Evaluate returns the game-theoretic value of board for the engine: +1 win, 0 draw, -1 loss.
func (that *Engine) Evaluate(board *entity.Board, maximizing bool) int {
	return that.minimax(board, maximizing, math.MinInt, math.MaxInt)
}

func (that *Engine) score(board *entity.Board, candidates []entity.Move) []int {
	scores := make([]int, len(candidates))
	for i, move := range candidates {
		if err := board.Place(move.Row, move.Col, that.mark); err != nil {
			scores[i] = math.MinInt
			continue
		}

		scores[i] = that.Evaluate(board, false)
		board.Clear(move.Row, move.Col)
	}

	return scores
}

// scoreConcurrently runs at most GOMAXPROCS branches at a time. Candidates are empty cells of board, so
// Place cannot fail here; a failure still scores the cell as unplayable and the group is only a join point.
func (that *Engine) scoreConcurrently(board entity.Board, candidates []entity.Move) []int {
	scores := make([]int, len(candidates))

	var group errgroup.Group
	group.SetLimit(runtime.GOMAXPROCS(0))

	for i, move := range candidates {
		group.Go(func() error {
			branch := board
			if err := branch.Place(move.Row, move.Col, that.mark); err != nil {
				scores[i] = math.MinInt
				return nil
			}

			scores[i] = that.Evaluate(&branch, false)

			return nil
		})
	}

	// every branch returns nil
	_ = group.Wait()

	return scores
}

func (that *Engine) minimax(board *entity.Board, maximizing bool, alpha, beta int) int {
	if score, done := that.terminalScore(board); done {
		return score
	}

	if maximizing {
		best := math.MinInt
		for _, move := range board.EmptyCells() {
			if err := board.Place(move.Row, move.Col, that.mark); err != nil {
				continue
			}

			score := that.minimax(board, false, alpha, beta)
			board.Clear(move.Row, move.Col)

			best = max(best, score)
			alpha = max(alpha, score)
			if beta <= alpha {
				break
			}
		}

		return best
	}

	best := math.MaxInt
	for _, move := range board.EmptyCells() {
		if err := board.Place(move.Row, move.Col, that.mark.Opponent()); err != nil {
			continue
		}

		score := that.minimax(board, true, alpha, beta)
		board.Clear(move.Row, move.Col)

		best = min(best, score)
		beta = min(beta, score)
		if beta <= alpha {
			break
		}
	}

	return best
}

// terminalScore checks the engine's win first, then the opponent's, then a full board.
func (that *Engine) terminalScore(board *entity.Board) (int, bool) {
	switch {
	case board.Winner(that.mark):
		return scoreWin, true
	case board.Winner(that.mark.Opponent()):
		return scoreLoss, true
	case board.IsFull():
		return scoreDraw, true
	default:
		return 0, false
	}
}
