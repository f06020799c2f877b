// Command oasi is the Oasi sustainable storefront for the terminal.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"oasi/cmd/oasi/shop"
	"oasi/cmd/oasi/ui"
	"oasi/internal/api"
	"oasi/internal/config"
	"oasi/internal/logging"
	"oasi/internal/navigation"
	"oasi/internal/session"
	"oasi/internal/storage"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// app carries the global flags and the configuration they resolve to.
type app struct {
	configPath string
	apiURL     string
	dataDir    string
	ephemeral  bool
	verbose    bool

	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "oasi",
		Short: "Oasi - sustainable products storefront",
		Long: `Oasi is a storefront for sustainable products.

Run without arguments to open the interactive storefront. Browse the
catalog freely; log in to manage carts, sell products, join the
community and follow your sustainability impact.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.loadConfig()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logging.CloseAll()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runStorefront(cmd.Context())
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default "+config.DefaultConfigPath()+")")
	flags.StringVar(&a.apiURL, "api-url", "", "storefront backend base URL (overrides config)")
	flags.StringVar(&a.dataDir, "data-dir", "", "directory for the session database and logs")
	flags.BoolVar(&a.ephemeral, "ephemeral", false, "keep the session in memory only")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "write debug logs to the data dir")

	root.AddCommand(
		a.newLoginCmd(),
		a.newLogoutCmd(),
		a.newWhoamiCmd(),
		a.newConfigCmd(),
	)
	return root
}

func (a *app) resolvedConfigPath() string {
	if a.configPath != "" {
		return a.configPath
	}
	if a.dataDir != "" {
		return filepath.Join(a.dataDir, "oasi.yaml")
	}
	return config.DefaultConfigPath()
}

// loadConfig reads the config file, applies flag overrides and starts
// logging.
func (a *app) loadConfig() error {
	path := a.resolvedConfigPath()
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	if a.apiURL != "" {
		cfg.API.BaseURL = a.apiURL
	}
	if a.dataDir != "" {
		cfg.Storage.DataDir = a.dataDir
	}
	if a.verbose {
		cfg.Logging.DebugMode = true
		cfg.Logging.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if err := logging.Initialize(cfg.LogsDir(), cfg.Logging); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	logging.Boot("config %s, backend %s, data dir %s", path, cfg.API.BaseURL, cfg.Storage.DataDir)

	a.cfg = cfg
	return nil
}

// openSession builds the session store and restores the persisted
// session. The returned database is nil for ephemeral runs.
func (a *app) openSession() (*session.Store, *storage.SQLiteStore, error) {
	if a.ephemeral {
		logging.Boot("ephemeral run: session kept in memory")
		return session.NewStore(storage.NewMemory()), nil, nil
	}

	db, err := storage.Open(a.cfg.DatabasePath())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open session storage: %w", err)
	}
	store := session.NewStore(db)
	store.Restore()
	return store, db, nil
}

func (a *app) runStorefront(ctx context.Context) error {
	store, db, err := a.openSession()
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	client, err := api.New(a.cfg, api.WithTokenSource(store.Token))
	if err != nil {
		return err
	}

	theme := ui.ThemeFor(a.cfg.UI.Theme)
	env := shop.NewEnv(ctx, store, navigation.New(), client, ui.NewStyles(theme), a.cfg.UI.GlamourStyle(theme.IsDark))
	env.Markdown.SetMaxWidth(a.cfg.UI.WordWrap)

	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if a.cfg.UI.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	p := tea.NewProgram(shop.New(env), opts...)

	if db != nil && a.cfg.Storage.WatchChanges {
		w, err := storage.NewWatcher(db.Path(), func() { p.Send(shop.StorageChangedMsg{}) })
		if err != nil {
			logging.Get(logging.CategoryStorage).Warn("session watcher unavailable: %v", err)
		} else if err := w.Start(ctx); err != nil {
			logging.Get(logging.CategoryStorage).Warn("session watcher failed to start: %v", err)
		} else {
			defer w.Stop()
		}
	}

	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("storefront exited: %w", err)
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
