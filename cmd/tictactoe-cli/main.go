// Package main implements a terminal tic-tac-toe game against the computer.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/google/uuid"
	"github.com/rocketscienceinc/tictactoe-ai/internal/bot"
	"github.com/rocketscienceinc/tictactoe-ai/internal/entity"
	"github.com/rocketscienceinc/tictactoe-ai/internal/tictactoe"
	"github.com/spf13/pflag"
)

func main() {
	parallel := pflag.Bool("parallel", false, "score the computer's candidate moves concurrently")
	history := pflag.String("history", "", "readline history file")
	pflag.Parse()

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "X> ",
		HistoryFile:     *history,
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not start terminal: %v\n", err)
		os.Exit(1)
	}
	defer rl.Close()

	controller := tictactoe.NewGameController(bot.NewEngine(entity.ComputerMark, bot.WithParallel(*parallel)))
	s := newSession(rl.Stdout(), entity.NewGame(uuid.NewString()), controller)

	fmt.Fprintln(rl.Stdout(), "Tic-tac-toe: you are X and move first.")
	fmt.Fprintln(rl.Stdout(), "Type 'help' for commands")
	s.printBoard()

	for {
		line, err := rl.Readline()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// ^C clears the line
			continue
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if s.handle(line) {
			break
		}
	}
}
