// Package shell is the interactive line-oriented frontend to the chatbot.
package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/camuig/trader-analyst/internal/chatbot"
	"github.com/camuig/trader-analyst/internal/logger"
)

const (
	prompt        = "> "
	maxQueryWidth = 40
	clearScreen   = "\033[H\033[2J"
)

const helpText = `Commands:
  help      show this message
  status    show loaded data and mode
  history   list questions asked in this session
  clear     clear the screen
  exit      leave (also: quit)
Anything else is sent to the analyst as a question.`

// Status is what the "status" command prints.
type Status struct {
	Traders   int
	StorePath string
	Mode      string
}

type Shell struct {
	bot    *chatbot.Bot
	status Status
	in     io.Reader
	out    io.Writer
	logger *logger.Logger
}

func New(bot *chatbot.Bot, status Status, in io.Reader, out io.Writer, log *logger.Logger) *Shell {
	return &Shell{bot: bot, status: status, in: in, out: out, logger: log}
}

// Run reads lines until EOF, an exit token, or ctx is cancelled.
func (s *Shell) Run(ctx context.Context) error {
	ctx = chatbot.WithSource(ctx, "shell")
	scanner := bufio.NewScanner(s.in)

	fmt.Fprintf(s.out, "Trader analyst ready (%d traders, %s mode). Type 'help' for commands.\n", s.status.Traders, s.status.Mode)

	for {
		fmt.Fprint(s.out, prompt)
		if !scanner.Scan() {
			fmt.Fprintln(s.out)
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			return nil
		}
		if ctx.Err() != nil {
			return nil
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch strings.ToLower(line) {
		case "exit", "quit":
			fmt.Fprintln(s.out, "Bye.")
			return nil
		case "help":
			fmt.Fprintln(s.out, helpText)
		case "status":
			s.printStatus()
		case "history":
			s.printHistory()
		case "clear":
			fmt.Fprint(s.out, clearScreen)
		default:
			fmt.Fprintln(s.out, s.bot.ProcessQuery(ctx, line))
		}
	}
}

func (s *Shell) printStatus() {
	table := tablewriter.NewWriter(s.out)
	table.Header("Key", "Value")
	table.Append("traders", fmt.Sprintf("%d", s.status.Traders))
	table.Append("store", s.status.StorePath)
	table.Append("mode", s.status.Mode)
	table.Append("questions", fmt.Sprintf("%d", len(s.bot.History())))
	table.Render()
}

func (s *Shell) printHistory() {
	history := s.bot.History()
	if len(history) == 0 {
		fmt.Fprintln(s.out, "No questions yet.")
		return
	}

	table := tablewriter.NewWriter(s.out)
	table.Header("#", "Question", "Type", "Outcome", "Traders")
	for i, ex := range history {
		table.Append(
			fmt.Sprintf("%d", i+1),
			truncate(ex.Query, maxQueryWidth),
			string(ex.Intent.Type),
			string(ex.Outcome),
			strings.Join(ex.TraderIDs, ","),
		)
	}
	table.Render()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
