package interactive

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
)

// Shell is the readline front end for a Session.
type Shell struct {
	rl *readline.Instance
}

// New creates the readline instance.
func New() (*Shell, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "countdown> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete:    completer(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}
	return &Shell{rl: rl}, nil
}

// Stdout returns a writer that properly coordinates with the readline input.
// Use this for log output to avoid interfering with the command prompt.
func (sh *Shell) Stdout() io.Writer {
	return sh.rl.Stdout()
}

// Run reads commands until quit, EOF or ctx is done.
func (sh *Shell) Run(ctx context.Context, cancel context.CancelFunc, s *Session) {
	defer sh.rl.Close()

	s.PrintHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := sh.rl.Readline()
		if err != nil {
			// EOF or interrupt
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(sh.rl.Stdout(), "Exiting...")
			s.Exec("quit")
			cancel()
			return
		}

		if s.Exec(strings.TrimSpace(line)) {
			fmt.Fprintln(sh.rl.Stdout(), "Exiting...")
			cancel()
			return
		}
	}
}

func completer() *readline.PrefixCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem("hour"),
		readline.PcItem("minute"),
		readline.PcItem("second"),
		readline.PcItem("set"),
		readline.PcItem("start"),
		readline.PcItem("cancel"),
		readline.PcItem("status"),
		readline.PcItem("help"),
		readline.PcItem("quit"),
	)
}
