package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/studyflow/internal/config"
	"github.com/roach88/studyflow/internal/gateway"
	"github.com/roach88/studyflow/internal/logger"
	"github.com/roach88/studyflow/internal/redisstore"
	"github.com/roach88/studyflow/internal/store"
	"github.com/roach88/studyflow/internal/tracker"
)

// app is the wired runtime shared by every data command:
// config, logger, storage backend, gateway and a tracker loaded from storage.
type app struct {
	cfg     *config.Config
	log     *logger.Logger
	gateway *gateway.Gateway
	tracker *tracker.Tracker
	out     *OutputFormatter

	writer *gateway.Writer
	close  func() error
}

// openApp loads configuration, opens the backend and restores the tracker.
// A backend holding undecodable records is a command error; no writer is
// started, so the records are left untouched.
func openApp(ctx context.Context, opts *RootOptions, cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load config", err).WithErrCode(ErrCodeInvalidInput)
	}
	if opts.DB != "" {
		cfg.Storage.Backend = "sqlite"
		cfg.Storage.Path = opts.DB
	}

	level := cfg.Log.Level
	if opts.Verbose {
		level = "debug"
	}
	log, err := logger.New(level, cfg.Log.Format)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to create logger", err)
	}

	kv, closeKV, err := openBackend(ctx, cfg.Storage)
	if err != nil {
		log.Sync()
		return nil, WrapExitError(ExitCommandError, "failed to open storage", err).WithErrCode(ErrCodeStorage)
	}
	log.Debug("storage opened", "backend", cfg.Storage.Backend)

	gw := gateway.New(kv, gateway.WithLogger(log))
	snap, err := gw.Load(ctx)
	if err != nil {
		closeKV()
		log.Sync()
		return nil, WrapExitError(ExitCommandError, "stored data could not be read; refusing to overwrite it", err).WithErrCode(ErrCodeStorage)
	}
	log.Debug("data loaded",
		"subjects", len(snap.Subjects),
		"assignments", len(snap.Assignments),
		"sessions", len(snap.Sessions))

	trOpts := []tracker.Option{tracker.WithLogger(log)}
	if opts.clock != nil {
		trOpts = append(trOpts, tracker.WithClock(opts.clock))
	}
	if opts.ids != nil {
		trOpts = append(trOpts, tracker.WithIDGenerator(opts.ids))
	}
	tr := tracker.New(snap, trOpts...)

	return &app{
		cfg:     cfg,
		log:     log,
		gateway: gw,
		tracker: tr,
		out: &OutputFormatter{
			Format:  opts.Format,
			Writer:  cmd.OutOrStdout(),
			Verbose: opts.Verbose,
		},
		writer: gw.NewWriter(tr),
		close:  closeKV,
	}, nil
}

func openBackend(ctx context.Context, cfg config.StorageConfig) (gateway.KV, func() error, error) {
	switch cfg.Backend {
	case "sqlite":
		st, err := store.Open(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		return st, st.Close, nil
	case "redis":
		rc := redisstore.DefaultConfig()
		rc.Addr = cfg.Redis.Addr
		rc.Password = cfg.Redis.Password
		rc.DB = cfg.Redis.DB
		if cfg.Redis.Prefix != "" {
			rc.Prefix = cfg.Redis.Prefix
		}
		rs, err := redisstore.Open(ctx, rc)
		if err != nil {
			return nil, nil, err
		}
		return rs, rs.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// Close stops saving and releases the backend.
// A failed save is reported here, after the command's own output, so the exit
// status reflects changes that did not reach storage.
func (a *app) Close() error {
	saveErr := a.writer.Close()
	closeErr := a.close()
	a.log.Sync()
	if saveErr != nil {
		return WrapExitError(ExitCommandError, "changes were not saved", saveErr).WithErrCode(ErrCodeStorage)
	}
	if closeErr != nil {
		return WrapExitError(ExitCommandError, "failed to close storage", closeErr).WithErrCode(ErrCodeStorage)
	}
	return nil
}

// withApp adapts a command body that needs the wired runtime into a cobra RunE.
func withApp(opts *RootOptions, fn func(cmd *cobra.Command, a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context(), opts, cmd)
		if err != nil {
			return err
		}
		runErr := fn(cmd, a, args)
		if closeErr := a.Close(); closeErr != nil && runErr == nil {
			return closeErr
		}
		return runErr
	}
}

// Execute runs the CLI with args and returns the process exit code.
// Failures are written to stdout as a JSON error response in json mode and
// to stderr otherwise.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts := &RootOptions{}
	return execute(ctx, opts, args, stdout, stderr)
}

func execute(ctx context.Context, opts *RootOptions, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCommand(opts)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitSuccess
	}

	f := &OutputFormatter{Format: opts.Format, Writer: stderr, Verbose: opts.Verbose}
	if opts.Format == "json" {
		f.Writer = stdout
	}
	var exitErr *ExitError
	details := any(nil)
	if errors.As(err, &exitErr) && exitErr.Err != nil {
		details = exitErr.Err.Error()
	}
	_ = f.Error(GetErrCode(err), err.Error(), details)
	if exitErr == nil {
		// cobra usage errors: unknown command, wrong arg count, bad flag.
		return ExitCommandError
	}
	return exitErr.Code
}
