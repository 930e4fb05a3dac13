package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/sandeepkv93/tasklist/internal/config"
	"github.com/sandeepkv93/tasklist/internal/logging"
	"github.com/sandeepkv93/tasklist/internal/model"
	"github.com/sandeepkv93/tasklist/internal/storage"
	"github.com/sandeepkv93/tasklist/internal/store"
	"github.com/spf13/cobra"
)

type app struct {
	configPath string
	backend    string
	dbPath     string
	logLevel   string
	version    string
	now        func() time.Time
}

// NewRootCommand builds the tasklist command tree. Running it without a
// subcommand opens the TUI.
func NewRootCommand(version string) *cobra.Command {
	a := &app{version: version, now: time.Now}
	root := &cobra.Command{
		Use:   "tasklist",
		Short: "A local task list with a terminal UI",
		Long: `tasklist keeps an ordered list of tasks with optional effort points and areas.

Run it without arguments for the interactive UI, or use the subcommands from scripts.`,
		RunE:          a.runTUI,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "config file (default "+config.DefaultPath()+")")
	pf.StringVar(&a.backend, "backend", "", "storage backend: sqlite, file or memory")
	pf.StringVar(&a.dbPath, "db", "", "sqlite database path")
	pf.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(
		a.tuiCmd(),
		a.addCmd(),
		a.listCmd(),
		a.toggleCmd(),
		a.rmCmd(),
		a.mvCmd(),
		a.statsCmd(),
		a.exportCmd(),
		a.importCmd(),
		a.configCmd(),
		a.versionCmd(),
	)
	root.Version = version
	return root
}

func Execute(version string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := NewRootCommand(version).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

// loadConfig applies flag overrides on top of the file and environment.
func (a *app) loadConfig() (config.Config, error) {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return cfg, err
	}
	if v := strings.TrimSpace(a.backend); v != "" {
		cfg.Storage.Backend = strings.ToLower(v)
	}
	if v := strings.TrimSpace(a.dbPath); v != "" {
		cfg.Storage.DBPath = v
	}
	if v := strings.TrimSpace(a.logLevel); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

type session struct {
	cfg     config.Config
	store   *store.Store
	adapter *storage.Adapter
	logger  *log.Logger
}

func (s *session) Close() error {
	return s.adapter.Close()
}

func (a *app) openSession(ctx context.Context, cfg config.Config, logger *log.Logger) (*session, error) {
	gen, err := model.GeneratorFor(model.IDFormat(cfg.IDFormat))
	if err != nil {
		return nil, err
	}
	backend, err := storage.Open(cfg.Storage)
	if err != nil {
		return nil, err
	}
	adapter := storage.NewAdapter(backend, cfg.Storage.Key, gen)
	st, err := store.Open(ctx, adapter, store.WithIDGenerator(gen), store.WithLogger(logger))
	if err != nil && !errors.Is(err, store.ErrLoadFailed) {
		_ = adapter.Close()
		return nil, err
	}
	return &session{cfg: cfg, store: st, adapter: adapter, logger: logger}, nil
}

// withStore runs fn against a store opened for a one-shot CLI command,
// logging to stderr.
func (a *app) withStore(cmd *cobra.Command, fn func(ctx context.Context, s *session, out io.Writer) error) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	logger := logging.New(cmd.ErrOrStderr(), cfg.LogLevel)
	s, err := a.openSession(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(cmd.Context(), s, cmd.OutOrStdout())
}

// saveWarning turns a failed auto-save into a returned error; the change
// itself already happened but will not survive this process.
func saveWarning(err error) error {
	if errors.Is(err, store.ErrSaveFailed) {
		return fmt.Errorf("changes were not saved: %w", err)
	}
	return err
}

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "tasklist %s\n", a.version)
		},
	}
}
