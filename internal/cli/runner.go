package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Makepad-fr/tada/internal/config"
	"github.com/Makepad-fr/tada/internal/logging"
	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/todo"
	"github.com/Makepad-fr/tada/internal/tui"
	"github.com/Makepad-fr/tada/internal/ui"
)

// Exit codes: 0 ok, 1 error, 2 usage.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// Options tune I/O for Run. Zero values mean the process streams.
type Options struct {
	Stdout, Stderr io.Writer
	// TUI replaces tui.Run for the root command. Intended for tests.
	TUI func(ctx context.Context, ctrl *todo.Controller, opt tui.Options) error
}

// exitError carries an exit code for a failure already reported to the user.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func fail(code int, format string, a ...any) error {
	return &exitError{code: code, err: fmt.Errorf(format, a...)}
}

// App holds what every subcommand needs once flags are parsed.
type App struct {
	v          *viper.Viper
	configPath string
	opt        Options

	cfg     config.Config
	log     *log.Logger
	ctrl    *todo.Controller
	closers []io.Closer
}

func (a *App) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil && a.log != nil {
			a.log.Warn("close", "err", err)
		}
	}
	a.closers = nil
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(ctx context.Context, args []string, opt Options) int {
	if opt.Stdout == nil {
		opt.Stdout = os.Stdout
	}
	if opt.Stderr == nil {
		opt.Stderr = os.Stderr
	}
	if opt.TUI == nil {
		opt.TUI = tui.Run
	}

	app := &App{v: config.New(), opt: opt}
	defer app.close()

	root := NewRootCmd(app)
	root.SetArgs(args)
	root.SetOut(opt.Stdout)
	root.SetErr(opt.Stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return ExitOK
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	// cobra parse errors: unknown command, bad flags, wrong arg counts.
	ui.Fail(opt.Stderr, err.Error())
	fmt.Fprintln(opt.Stderr)
	_ = root.Usage()
	return ExitUsage
}

// NewRootCmd builds the command tree around app.
func NewRootCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "tada",
		Short:         "tada - a tiny todo list (TUI + CLI)",
		SilenceUsage:  true,
		SilenceErrors: true,
		Example: strings.TrimSpace(`
  # Start the interactive list
  tada

  # Scriptable commands
  tada add "Buy milk"
  tada ls
  tada done 2
  tada rm 3

  # Pick a backend
  TADA_BACKEND=sqlite tada ls
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := app.opt.TUI(cmd.Context(), app.ctrl, tui.Options{Wrap: tui.Banner(app.cfg.Banner)})
			if err != nil {
				ui.Fail(cmd.ErrOrStderr(), "tui: "+err.Error())
				return fail(ExitError, "tui: %w", err)
			}
			return nil
		},
	}

	cmd.PersistentPreRunE = func(c *cobra.Command, args []string) error {
		// The TUI owns the terminal, so it only logs to a file.
		fallback := c.ErrOrStderr()
		if c == cmd {
			fallback = io.Discard
		}
		return app.setup(c.Context(), c, fallback)
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&app.configPath, "config", "", "Config file (default ~/.tada/config.yaml)")
	pf.String("backend", config.BackendJSON, "Storage backend ("+strings.Join(config.Backends, "|")+")")
	pf.String("file", "", "JSON backend file (default ./todos.json)")
	pf.String("theme", "classic", "Color theme ("+strings.Join(ui.Themes, "|")+")")
	pf.String("log-file", "", "Write logs to this file")
	pf.String("log-level", "warn", "Log level (debug|info|warn|error)")
	pf.String("metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9090)")

	cmd.AddCommand(newListCmd(app))
	cmd.AddCommand(newAddCmd(app))
	cmd.AddCommand(newDoneCmd(app))
	cmd.AddCommand(newRmCmd(app))

	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error { return err })
	return cmd
}

func (a *App) setup(ctx context.Context, c *cobra.Command, logOut io.Writer) error {
	stderr := c.ErrOrStderr()
	if err := config.BindFlags(a.v, c.Root().PersistentFlags()); err != nil {
		ui.Fail(stderr, err.Error())
		return fail(ExitError, "%w", err)
	}
	cfg, err := config.Load(a.v, a.configPath)
	if err != nil {
		ui.Fail(stderr, err.Error())
		return fail(ExitUsage, "%w", err)
	}
	a.cfg = cfg
	ui.SetTheme(cfg.Theme)

	logger, lc, err := logging.Open(cfg.Log.File, cfg.Log.Level, logOut)
	if err != nil {
		ui.Fail(stderr, err.Error())
		return fail(ExitUsage, "%w", err)
	}
	a.log = logger
	a.closers = append(a.closers, lc)

	var reg *prometheus.Registry
	if cfg.Metrics.Addr != "" {
		reg = prometheus.NewRegistry()
		ms, err := serveMetrics(cfg.Metrics.Addr, reg, logger)
		if err != nil {
			ui.Fail(stderr, "metrics: "+err.Error())
			return fail(ExitError, "metrics: %w", err)
		}
		a.closers = append(a.closers, ms)
	}

	var registerer prometheus.Registerer
	if reg != nil {
		registerer = reg
	}
	client, closer, err := openClient(ctx, cfg, logger, registerer)
	if err != nil {
		ui.Fail(stderr, "open "+cfg.Backend+": "+err.Error())
		return fail(ExitError, "open %s: %w", cfg.Backend, err)
	}
	a.closers = append(a.closers, closer)
	a.ctrl = todo.NewController(client)
	return nil
}

// -------------- subcommands ----------------

func newListCmd(app *App) *cobra.Command {
	var group bool
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List items",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := app.load(cmd)
			if err != nil {
				return err
			}
			renderList(cmd.OutOrStdout(), st, group)
			return nil
		},
	}
	cmd.Flags().BoolVar(&group, "group", false, "group output by pending/done")
	return cmd
}

func newAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add <title...>",
		Short: "Add a new item (title can be multiple words)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r := app.ctrl.Add(cmd.Context(), strings.Join(args, " "))
			_, n := todo.Reduce(todo.State{}, r)
			return app.report(cmd, r, n, "")
		},
	}
}

func newDoneCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "done <index>",
		Short: "Toggle done for item at 1-based index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, it, err := app.pick(cmd, args[0])
			if err != nil {
				return err
			}
			r := app.ctrl.Toggle(cmd.Context(), it.ID, it.Completed)
			_, n := todo.Reduce(st, r)
			return app.report(cmd, r, n, "toggled")
		},
	}
}

func newRmCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <index>",
		Short: "Remove item at 1-based index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, it, err := app.pick(cmd, args[0])
			if err != nil {
				return err
			}
			r := app.ctrl.Remove(cmd.Context(), it.ID)
			_, n := todo.Reduce(st, r)
			if err := app.report(cmd, r, n, ""); err != nil {
				return err
			}
			if !r.Success {
				ui.Warn(cmd.ErrOrStderr(), "store reported the delete as unsuccessful; run `tada ls` to check")
			}
			return nil
		},
	}
}

// load fetches the list through the reducer so the CLI sees exactly what the TUI would.
func (a *App) load(cmd *cobra.Command) (todo.State, error) {
	r := a.ctrl.LoadAll(cmd.Context())
	st, n := todo.Reduce(todo.BeginLoad(todo.State{}), r)
	if !n.Empty() {
		msg := n.Text
		if r.Err != nil {
			msg += ": " + r.Err.Error()
		}
		ui.Fail(cmd.ErrOrStderr(), msg)
		return st, fail(ExitError, "%s", msg)
	}
	return st, nil
}

// pick loads the list and resolves a 1-based index argument.
func (a *App) pick(cmd *cobra.Command, arg string) (todo.State, model.Item, error) {
	stderr := cmd.ErrOrStderr()
	n, err := strconv.Atoi(arg)
	if err != nil {
		ui.Fail(stderr, cmd.Name()+": not a number: "+arg)
		return todo.State{}, model.Item{}, fail(ExitUsage, "not a number: %s", arg)
	}
	st, err := a.load(cmd)
	if err != nil {
		return st, model.Item{}, err
	}
	if n < 1 || n > st.Total() {
		ui.Fail(stderr, fmt.Sprintf("index out of range: have %d, got %d", st.Total(), n))
		fmt.Fprintln(stderr, ui.Current().Muted.Render("Hint: run `tada ls` to see valid indexes"))
		return st, model.Item{}, fail(ExitUsage, "index out of range")
	}
	return st, st.Items[n-1], nil
}

// report prints the notice for r and maps it to an exit code. okMsg is
// printed when the reducer has nothing to say about a success.
func (a *App) report(cmd *cobra.Command, r todo.Result, n todo.Notice, okMsg string) error {
	out, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()
	switch n.Level {
	case todo.LevelWarning:
		ui.Warn(stderr, n.Text)
		return fail(ExitUsage, "%s", n.Text)
	case todo.LevelError:
		msg := n.Text
		if r.Err != nil {
			msg += ": " + r.Err.Error()
		}
		ui.Fail(stderr, msg)
		return fail(ExitError, "%s", msg)
	case todo.LevelSuccess:
		ui.OK(out, n.Text)
	default:
		if okMsg != "" {
			ui.OK(out, okMsg)
		}
	}
	return nil
}
