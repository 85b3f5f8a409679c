// Package term plays the computer on a line-oriented terminal.
package term

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/muesli/termenv"

	"github.com/jaminalder/minimax-tic-tac-toe/internal/domain"
	"github.com/jaminalder/minimax-tic-tac-toe/internal/engine"
)

// Client renders the board and reads human moves.
type Client struct {
	in     *bufio.Scanner
	out    *termenv.Output
	engine engine.Strategy
	delay  time.Duration
	game   domain.Game
}

// Option configures a Client.
type Option func(*Client)

// WithEngine replaces the minimax engine.
func WithEngine(s engine.Strategy) Option { return func(c *Client) { c.engine = s } }

// WithDelay pauses before each computer move.
func WithDelay(d time.Duration) Option { return func(c *Client) { c.delay = d } }

// New returns a client reading from r and writing to out.
func New(r io.Reader, out *termenv.Output, opts ...Option) *Client {
	c := &Client{
		in:     bufio.NewScanner(r),
		out:    out,
		engine: engine.Minimax,
		game:   domain.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run plays games until the input ends, the user quits or ctx is done.
// Cancelling ctx during the pacing delay skips the computer's turn.
func (c *Client) Run(ctx context.Context) error {
	c.render()
	for {
		c.printf("Your move (1-9, n = new game, q = quit): ")
		if !c.in.Scan() {
			c.printf("\n")
			return c.in.Err()
		}
		switch cmd := strings.TrimSpace(c.in.Text()); cmd {
		case "":
			continue
		case "q", "quit":
			return nil
		case "n", "new":
			c.game.Reset()
			c.render()
			continue
		default:
			if err := c.humanMove(cmd); err != nil {
				c.printf("%s\n", c.out.String(rejection(err)).Foreground(c.out.Color("3")))
				continue
			}
		}

		if !c.game.Over() {
			if err := c.computerMove(ctx); err != nil {
				return err
			}
		}
		c.render()
	}
}

func (c *Client) humanMove(cmd string) error {
	n, err := strconv.Atoi(cmd)
	if err != nil {
		return domain.ErrOutOfBounds
	}
	return c.game.Play(domain.Human, n-1)
}

func (c *Client) computerMove(ctx context.Context) error {
	if c.delay > 0 {
		t := time.NewTimer(c.delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
	mv, err := c.engine(c.game.Board)
	if err != nil {
		return fmt.Errorf("computer move: %w", err)
	}
	if err := c.game.Play(domain.Computer, mv); err != nil {
		return fmt.Errorf("computer move %d: %w", mv, err)
	}
	c.printf("Computer plays %d\n", mv+1)
	return nil
}

func rejection(err error) string {
	switch {
	case errors.Is(err, domain.ErrOccupied):
		return "Cell is occupied"
	case errors.Is(err, domain.ErrOutOfBounds):
		return "Pick a cell from 1 to 9"
	case errors.Is(err, domain.ErrGameOver):
		return "Game is over, press n for a new game"
	default:
		return "Invalid move"
	}
}

func (c *Client) render() {
	var sb strings.Builder
	sb.WriteString("\n")
	for r := 0; r < 3; r++ {
		if r > 0 {
			sb.WriteString("---+---+---\n")
		}
		for col := 0; col < 3; col++ {
			if col > 0 {
				sb.WriteString("|")
			}
			sb.WriteString(" " + c.cell(r*3+col) + " ")
		}
		sb.WriteString("\n")
	}
	if res := c.game.Result(); res != "" {
		sb.WriteString("\n" + c.out.String(res).Bold().String() + "\n")
	}
	c.printf("%s\n", sb.String())
}

func (c *Client) cell(i int) string {
	switch c.game.Board[i] {
	case domain.X:
		return c.out.String("X").Foreground(c.out.Color("4")).Bold().String()
	case domain.O:
		return c.out.String("O").Foreground(c.out.Color("1")).Bold().String()
	default:
		return c.out.String(strconv.Itoa(i + 1)).Faint().String()
	}
}

func (c *Client) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(c.out, format, args...)
}
