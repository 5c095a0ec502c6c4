package entity

// Result is the terminal classification of a board.
type Result string

const (
	ResultInProgress Result = "in_progress"
	ResultXWins      Result = "x_wins"
	ResultOWins      Result = "o_wins"
	ResultDraw       Result = "draw"
)

func (that Result) IsTerminal() bool {
	return that == ResultXWins || that == ResultOWins || that == ResultDraw
}

// Winner returns the winning mark, or EmptyCell for a draw or an unfinished game.
func (that Result) Winner() Mark {
	switch that {
	case ResultXWins:
		return PlayerX
	case ResultOWins:
		return PlayerO
	default:
		return EmptyCell
	}
}
