// Package cli implements the normalign command-line interface.
package cli

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/normalign/internal/config"
	"github.com/matzehuels/normalign/pkg/buildinfo"
	"github.com/matzehuels/normalign/pkg/cache"
	"github.com/matzehuels/normalign/pkg/journal"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "normalign"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Config is loaded before every command runs.
	Config     *config.Config
	configPath string

	logWriter io.Writer
	closers   []io.Closer

	flags globalFlags
}

type globalFlags struct {
	config  string
	verbose bool
	logFile string
	backend string
}

// New creates a new CLI instance logging to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger:    newLogger(w, level),
		Config:    config.Default(),
		logWriter: w,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "normalign aligns vertex normals of polygon meshes",
		Long: `normalign edits the vertex normals of mesh documents.

Auto-Align points the normals under a face selection along the normal of the
last selected component. Rounded-Align blends the normals along selected edges.
Every alignment is journaled and can be undone and redone.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
		PersistentPostRun: func(*cobra.Command, []string) { c.Close() },
	}

	root.SetVersionTemplate(buildinfo.Template())

	pf := root.PersistentFlags()
	pf.StringVar(&c.flags.config, "config", "", "config file (default: ./normalign.toml, then "+config.DefaultPath()+")")
	pf.BoolVarP(&c.flags.verbose, "verbose", "v", false, "enable verbose logging")
	pf.StringVar(&c.flags.logFile, "log-file", "", "also write logs to this file (rotated)")
	pf.StringVar(&c.flags.backend, "journal", "", "journal backend: file, redis, mongo or none")

	root.AddCommand(c.alignCommand())
	root.AddCommand(c.undoCommand())
	root.AddCommand(c.redoCommand())
	root.AddCommand(c.historyCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.normalsCommand())
	root.AddCommand(c.edgesCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the config and rebuilds the logger from it.
func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	cfg, path, err := config.Load(c.flags.config, config.Overrides{
		Verbose:        c.flags.verbose,
		LogFile:        c.flags.logFile,
		JournalBackend: c.flags.backend,
	})
	if err != nil {
		return err
	}
	c.Config, c.configPath = cfg, path

	w := c.logWriter
	if cfg.Logging.File != "" {
		fw := newFileWriter(cfg.Logging)
		c.closers = append(c.closers, fw)
		w = io.MultiWriter(w, fw)
	}
	c.Logger = newLogger(w, parseLevel(cfg.Logging.Level))
	if path != "" {
		c.Logger.Debug("loaded config", "path", path)
	}
	if c.Logger.GetLevel() <= log.DebugLevel {
		installDebugHooks(c.Logger)
	}

	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return nil
}

// Close releases log files opened by setup.
func (c *CLI) Close() {
	for _, cl := range c.closers {
		_ = cl.Close()
	}
	c.closers = nil
}

// =============================================================================
// Journal Factory
// =============================================================================

// openStore opens the configured journal backend. Unreachable remote
// backends degrade to no journal with a warning.
func (c *CLI) openStore(ctx context.Context) cache.Cache {
	jc := c.Config.Journal
	store, err := cache.Open(ctx, jc.CacheOptions())
	if err != nil {
		c.Logger.Warn("journal unavailable, undo history is disabled for this run", "backend", jc.Backend, "error", err)
		return cache.NewNullCache()
	}
	return store
}

func (c *CLI) keyer() cache.Keyer {
	if ns := c.Config.Journal.Namespace; ns != "" {
		return cache.NewScopedKeyer(nil, ns+":")
	}
	return cache.NewDefaultKeyer()
}

// openJournal returns the journal and its store. The caller closes the store.
func (c *CLI) openJournal(ctx context.Context) (*journal.Journal, cache.Cache) {
	store := c.openStore(ctx)
	ttl := c.Config.Journal.TTL.Duration
	if ttl == 0 {
		ttl = -1
	}
	j := journal.New(store, journal.Options{
		Keyer:  c.keyer(),
		TTL:    ttl,
		Depth:  c.Config.Align.HistoryDepth,
		Logger: c.Logger,
	})
	return j, store
}

// stdout is where command output goes. Tests swap it.
var stdout io.Writer = os.Stdout
