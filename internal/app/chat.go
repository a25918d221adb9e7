package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"

	"yuki/internal/history"
	"yuki/internal/i18n"
)

// LineReader reads one line of user input.
type LineReader interface {
	Readline() (string, error)
}

// Chat runs a text conversation until EOF, "exit" or a shutdown reply.
// Lines are addressed to the assistant even without the wake word.
func (a *App) Chat(ctx context.Context, rl LineReader) error {
	fmt.Fprintln(a.out, i18n.T("chat_intro"))

	for {
		if ctx.Err() != nil {
			return nil
		}
		line, err := rl.Readline()
		switch {
		case errors.Is(err, readline.ErrInterrupt):
			if line == "" {
				return nil
			}
			continue
		case errors.Is(err, io.EOF):
			return nil
		case err != nil:
			return fmt.Errorf("read input: %w", err)
		}

		line = strings.TrimSpace(line)
		switch strings.ToLower(line) {
		case "":
			continue
		case "exit", "quit":
			return nil
		}

		reply := a.Exchange(ctx, a.address(line), history.SourceText)
		if reply.Shutdown {
			return nil
		}
	}
}

// address prefixes line with the primary wake word unless it already
// starts with one of the wake words.
func (a *App) address(line string) string {
	if len(a.wakeWords) == 0 {
		return line
	}
	lower := strings.ToLower(line)
	for _, w := range a.wakeWords {
		if strings.HasPrefix(lower, strings.ToLower(w)) {
			return line
		}
	}
	return a.wakeWords[0] + " " + line
}
