package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/muesli/termenv"

	"github.com/jaminalder/minimax-tic-tac-toe/internal/term"
)

func main() {
	delay := flag.Duration("delay", 300*time.Millisecond, "pause before the computer moves")
	noColor := flag.Bool("no-color", false, "disable colours")
	flag.Parse()

	opts := []termenv.OutputOption{}
	if *noColor || os.Getenv("NO_COLOR") != "" {
		opts = append(opts, termenv.WithProfile(termenv.Ascii))
	}
	out := termenv.NewOutput(os.Stdout, opts...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := term.New(os.Stdin, out, term.WithDelay(*delay)).Run(ctx); err != nil && ctx.Err() == nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
