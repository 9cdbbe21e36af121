// Package commands implements the graphview command line.
package commands

import (
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/goliatone/go-graphview/internal/config"
	"github.com/goliatone/go-graphview/internal/logging"
	"github.com/goliatone/go-graphview/pkg/renderers/tui"
)

// flagKeys maps command line flags onto configuration keys.
var flagKeys = map[string]string{
	"log-level":     "logging.level",
	"log-format":    "logging.format",
	"endpoint":      "source.endpoint",
	"websocket":     "source.websocket",
	"dir":           "source.dir",
	"snapshot":      "source.snapshot",
	"validate":      "source.validate",
	"limit":         "source.limit",
	"timeout":       "source.timeout",
	"renderer":      "render.renderer",
	"theme":         "render.theme",
	"variant":       "render.variant",
	"theme-file":    "render.theme_file",
	"templates-dir": "render.templates_dir",
	"link-prefix":   "server.link_prefix",
	"host":          "server.host",
	"port":          "server.port",
}

// Option customises the command tree.
type Option func(*app)

// WithPromptDriver replaces the interactive prompts used by browse and the
// tui renderer.
func WithPromptDriver(driver tui.PromptDriver) Option {
	return func(a *app) {
		a.prompt = driver
	}
}

// WithLogger skips building a logger from configuration.
func WithLogger(logger *zap.Logger) Option {
	return func(a *app) {
		a.logger = logger
	}
}

type app struct {
	cfgFile string
	envFile string
	cfg     *config.Config
	logger  *zap.Logger
	prompt  tui.PromptDriver
	closers []io.Closer
}

// NewRootCommand builds the graphview command tree.
func NewRootCommand(options ...Option) *cobra.Command {
	a := &app{}
	for _, opt := range options {
		if opt != nil {
			opt(a)
		}
	}

	root := &cobra.Command{
		Use:   "graphview",
		Short: "Browse a knowledge graph one node at a time",
		Long: `graphview fetches a node of a knowledge graph, composes a page from its
name, type, properties and relationships, and renders it as HTML, text,
JSON or an interactive terminal menu.

Nodes come from a GraphQL endpoint (HTTP or websocket), a directory of
JSON/YAML payloads or a SQLite snapshot.`,
		Version:           Version,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default: ./config.yaml)")
	flags.StringVar(&a.envFile, "env-file", "", "dotenv file (default: ./.env)")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.String("log-format", "", "log format (json, console)")
	flags.String("endpoint", "", "GraphQL HTTP endpoint")
	flags.String("websocket", "", "GraphQL websocket endpoint")
	flags.String("dir", "", "directory of node payloads")
	flags.String("snapshot", "", "SQLite snapshot file")
	flags.Bool("validate", false, "validate payloads against the node schema")
	flags.Int("limit", 0, "maximum list items requested per node")
	flags.Duration("timeout", 0, "per-node fetch timeout")
	flags.StringP("renderer", "r", "", "renderer (html, text, json, tui)")
	flags.String("theme", "", "theme name")
	flags.String("variant", "", "theme variant")
	flags.String("theme-file", "", "theme manifest (YAML)")
	flags.String("templates-dir", "", "directory overriding the html templates")
	flags.String("link-prefix", "", "prefix prepended to node links")

	root.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "%s" .Version}}
`)

	root.AddCommand(
		a.renderCommand(),
		a.browseCommand(),
		a.serveCommand(),
		a.snapshotCommand(),
		versionCommand(),
	)
	return root
}

// Execute runs the command line against os.Args.
func Execute() error {
	return NewRootCommand().Execute()
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(config.LoadOptions{
		File:    a.cfgFile,
		EnvFile: a.envFile,
		Flags:   boundFlags(cmd.Flags()),
	})
	if err != nil {
		return err
	}
	a.cfg = cfg

	if a.logger == nil {
		logger, err := logging.New(cfg.Logging)
		if err != nil {
			return err
		}
		a.logger = logger
	}
	return nil
}

// release closes the resources opened by a command, newest first.
func (a *app) release() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil && a.logger != nil {
			a.logger.Warn("close resource", zap.Error(err))
		}
	}
	a.closers = nil
}

func boundFlags(flags *pflag.FlagSet) map[string]*pflag.Flag {
	bound := make(map[string]*pflag.Flag, len(flagKeys))
	for name, key := range flagKeys {
		if flag := flags.Lookup(name); flag != nil {
			bound[key] = flag
		}
	}
	return bound
}
