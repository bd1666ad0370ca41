package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/aretw0/fsm"
	"github.com/aretw0/fsm/internal/input"
	"github.com/aretw0/fsm/internal/logging"
	"github.com/aretw0/fsm/pkg/domain"
	"github.com/aretw0/fsm/pkg/session"
)

var (
	errUnknownCommand = errors.New("unknown command")
	errUsage          = errors.New("usage")
)

const helpText = `commands:
  trigger <event>   fire an event (alias: t)
  go <state>        jump to a state
  undo | redo       move through the history
  reset             return to the initial state, keeping history
  clear             return to the initial state, forgetting history
  states [event]    list states, or those handling event
  history           show the history, * marks the cursor
  state             show the active state
  exit              leave (alias: quit)
`

// REPL drives one session from line-oriented input.
type REPL struct {
	Manager   *session.Manager
	SessionID string
	In        io.Reader
	Out       io.Writer
	Prompt    bool // print "> " before each line; set when In is a terminal
	Logger    *slog.Logger
}

// Run reads commands until exit, EOF or ctx cancellation.
// Rejected commands are reported on Out and do not stop the loop; store failures do.
func (r *REPL) Run(ctx context.Context) error {
	if r.Logger == nil {
		r.Logger = logging.NewNop()
	}

	snap, err := r.Manager.Get(ctx, r.SessionID)
	if err != nil {
		return err
	}
	fmt.Fprintf(r.Out, "state: %s\n", snap.Active)

	scanner := bufio.NewScanner(r.In)
	for {
		if r.Prompt {
			fmt.Fprint(r.Out, "> ")
		}
		if !scanner.Scan() {
			return scanner.Err()
		}
		if ctx.Err() != nil {
			return nil
		}

		line, err := input.Sanitize(scanner.Text())
		if err != nil {
			fmt.Fprintf(r.Out, "error: %v\n", err)
			continue
		}
		if line == "" {
			continue
		}

		quit, err := r.exec(ctx, line)
		switch {
		case err == nil:
		case isRejection(err):
			fmt.Fprintf(r.Out, "error: %v\n", err)
		default:
			return err
		}
		if quit {
			return nil
		}
	}
}

func isRejection(err error) bool {
	return errors.Is(err, domain.ErrUnknownState) ||
		errors.Is(err, domain.ErrUnknownEvent) ||
		errors.Is(err, errUnknownCommand) ||
		errors.Is(err, errUsage)
}

func (r *REPL) exec(ctx context.Context, line string) (bool, error) {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]
	r.Logger.Debug("repl command", "session_id", r.SessionID, "cmd", cmd, "args", args)

	switch cmd {
	case "exit", "quit":
		return true, nil

	case "help":
		fmt.Fprint(r.Out, helpText)

	case "state":
		snap, err := r.Manager.Get(ctx, r.SessionID)
		if err != nil {
			return false, err
		}
		fmt.Fprintf(r.Out, "state: %s\n", snap.Active)

	case "trigger", "t":
		if len(args) != 1 {
			return false, fmt.Errorf("%w: trigger <event>", errUsage)
		}
		return false, r.print(r.Manager.Trigger(ctx, r.SessionID, args[0]))

	case "go":
		if len(args) != 1 {
			return false, fmt.Errorf("%w: go <state>", errUsage)
		}
		return false, r.print(r.Manager.ChangeState(ctx, r.SessionID, args[0]))

	case "undo":
		res, err := r.Manager.Undo(ctx, r.SessionID)
		return false, r.printMove("undo", res, err)

	case "redo":
		res, err := r.Manager.Redo(ctx, r.SessionID)
		return false, r.printMove("redo", res, err)

	case "reset":
		return false, r.print(r.Manager.Reset(ctx, r.SessionID))

	case "clear":
		return false, r.print(r.Manager.ClearHistory(ctx, r.SessionID))

	case "states":
		event := ""
		if len(args) > 0 {
			event = args[0]
		}
		mc, err := fsm.New(r.Manager.Config())
		if err != nil {
			return false, err
		}
		fmt.Fprintln(r.Out, strings.Join(mc.States(event), " "))

	case "history":
		snap, err := r.Manager.Get(ctx, r.SessionID)
		if err != nil {
			return false, err
		}
		for i, name := range snap.History {
			marker := " "
			if i == snap.Cursor {
				marker = "*"
			}
			fmt.Fprintf(r.Out, "%s %d %s\n", marker, i, name)
		}

	default:
		return false, fmt.Errorf("%w %q, try help", errUnknownCommand, cmd)
	}
	return false, nil
}

func (r *REPL) print(res session.Result, err error) error {
	if err != nil {
		return err
	}
	fmt.Fprintf(r.Out, "state: %s\n", res.Snapshot.Active)
	return nil
}

func (r *REPL) printMove(op string, res session.Result, err error) error {
	if err != nil {
		return err
	}
	if !res.Moved {
		fmt.Fprintf(r.Out, "nothing to %s\n", op)
		return nil
	}
	return r.print(res, nil)
}
