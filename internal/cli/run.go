package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/fsm"
	"github.com/aretw0/fsm/pkg/adapters/file"
	"github.com/aretw0/fsm/pkg/session"
)

// localSession names the throwaway session used when no --session is given.
const localSession = "local"

// LoadDefinition reads the definition file, validating it when strict is set.
func LoadDefinition(path string, strict bool, logger *slog.Logger) (*fsm.Machine, error) {
	var opts []file.LoaderOption
	if strict {
		opts = append(opts, file.WithValidation())
	}
	opts = append(opts, file.WithLogger(logger))

	cfg, err := file.LoadFile(path, opts...)
	if err != nil {
		return nil, err
	}
	return fsm.New(cfg)
}

// RunSession loads the definition and drives it interactively from in to out.
// Without a session ID nothing is persisted, whatever the configured backend.
func RunSession(ctx context.Context, opts RunOptions, in io.Reader, out io.Writer, prompt bool, logger *slog.Logger) error {
	mc, err := LoadDefinition(opts.File, opts.Strict, logger)
	if err != nil {
		return err
	}

	sessionID := opts.SessionID
	storeOpts := opts.Store
	if sessionID == "" {
		sessionID = localSession
		storeOpts = StoreOptions{Backend: BackendMemory}
	}

	persistence, err := OpenStore(storeOpts)
	if err != nil {
		return err
	}
	defer persistence.Close()

	mgrOpts := append(persistence.ManagerOptions(), session.WithLogger(logger))
	mgr, err := session.NewManager(mc.Config(), persistence.Store, mgrOpts...)
	if err != nil {
		return err
	}

	if opts.Fresh {
		if err := mgr.Delete(ctx, sessionID); err != nil {
			return fmt.Errorf("failed to reset session %s: %w", sessionID, err)
		}
	}
	logger.Info("session active", "session_id", sessionID, "backend", storeOpts.Backend)

	repl := &REPL{
		Manager:   mgr,
		SessionID: sessionID,
		In:        in,
		Out:       out,
		Prompt:    prompt,
		Logger:    logger,
	}
	return repl.Run(ctx)
}
