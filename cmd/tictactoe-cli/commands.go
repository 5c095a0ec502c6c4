package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rocketscienceinc/tictactoe-ai/internal/entity"
)

var errUnknownCommand = errors.New("unknown command")

type commandKind int

const (
	commandMove commandKind = iota
	commandReset
	commandHelp
	commandQuit
)

type command struct {
	kind commandKind
	move entity.Move
}

const helpText = `Commands:
  <row> <col>   place X, rows and columns count from 0
  <1-9>         place X on a numbered cell, left to right, top to bottom
  reset         start a new game
  help          show this message
  quit, q       leave, after a y/n confirmation`

// parseCommand turns one input line into a command. Coordinates are range-checked by the board, not here.
func parseCommand(line string) (command, error) {
	fields := strings.Fields(strings.ToLower(line))

	switch len(fields) {
	case 1:
		switch fields[0] {
		case "quit", "q", "exit":
			return command{kind: commandQuit}, nil
		case "reset", "new":
			return command{kind: commandReset}, nil
		case "help", "?":
			return command{kind: commandHelp}, nil
		}

		cell, err := strconv.Atoi(fields[0])
		if err != nil {
			return command{}, fmt.Errorf("%w: %q", errUnknownCommand, line)
		}

		move, err := entity.MoveFromIndex(cell - 1)
		if err != nil {
			return command{}, fmt.Errorf("cell must be 1-9: %w", err)
		}

		return command{kind: commandMove, move: move}, nil
	case 2:
		row, rowErr := strconv.Atoi(fields[0])
		col, colErr := strconv.Atoi(fields[1])
		if err := errors.Join(rowErr, colErr); err != nil {
			return command{}, fmt.Errorf("%w: %q", errUnknownCommand, line)
		}

		return command{kind: commandMove, move: entity.Move{Row: row, Col: col}}, nil
	default:
		return command{}, fmt.Errorf("%w: %q", errUnknownCommand, line)
	}
}

type gameController interface {
	Play(game *entity.Game, row, col int) (entity.Result, *entity.Move, error)
}

// session is one terminal game. The human plays X and always moves first.
type session struct {
	out        io.Writer
	game       *entity.Game
	controller gameController

	// set after quit until the user answers the confirmation
	confirmingQuit bool
}

func newSession(out io.Writer, game *entity.Game, controller gameController) *session {
	return &session{
		out:        out,
		game:       game,
		controller: controller,
	}
}

// handle executes one input line and reports whether the user asked to leave.
func (that *session) handle(line string) bool {
	if that.confirmingQuit {
		return that.confirmQuit(line)
	}

	cmd, err := parseCommand(line)
	if err != nil {
		fmt.Fprintf(that.out, "%v\nType 'help' for commands\n", err)
		return false
	}

	switch cmd.kind {
	case commandQuit:
		that.confirmingQuit = true
		fmt.Fprintln(that.out, "Really quit? (y/n)")
	case commandHelp:
		fmt.Fprintln(that.out, helpText)
	case commandReset:
		that.game.Reset()
		that.printBoard()
	case commandMove:
		that.play(cmd.move)
	}

	return false
}

func (that *session) confirmQuit(answer string) bool {
	that.confirmingQuit = false

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		fmt.Fprintln(that.out, "Quit cancelled")
		return false
	}
}

func (that *session) play(move entity.Move) {
	result, computerMove, err := that.controller.Play(that.game, move.Row, move.Col)
	if err != nil {
		fmt.Fprintf(that.out, "%v\n", err)
		return
	}

	if computerMove != nil {
		fmt.Fprintf(that.out, "Computer plays %s\n", computerMove)
	}

	that.printBoard()

	if !result.IsTerminal() {
		return
	}

	switch result.Winner() {
	case entity.HumanMark:
		fmt.Fprintln(that.out, "You won!")
	case entity.ComputerMark:
		fmt.Fprintln(that.out, "Computer wins!")
	default:
		fmt.Fprintln(that.out, "Draw!")
	}

	fmt.Fprintln(that.out, "Type 'reset' to play again")
}

// printBoard brackets the winning line once the game is won.
func (that *session) printBoard() {
	var marked []entity.Move
	if line, ok := that.game.Board.WinningLine(); ok {
		marked = line[:]
	}

	fmt.Fprintf(that.out, "\n%s\n\n", that.game.Board.Format(marked...))
}
