package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/eringen/ogsite/config"
)

// cli holds what every command shares once PersistentPreRunE has run.
type cli struct {
	configDir string
	envFile   string
	verbose   bool

	resolver *config.Resolver
	settings *config.Settings
	logger   *slog.Logger
	logFile  io.Closer
}

func newRootCmd() *cobra.Command {
	return (&cli{}).rootCmd()
}

// rootCmd builds the command tree sharing c. The caller closes c after
// Execute returns, whether or not the command failed.
func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "ogsite",
		Short: "Blog server with on-demand Open Graph preview cards",
		Long: `ogsite serves a markdown blog together with its RSS feed, search index,
sitemap and 1200x630 PNG preview cards.

Configuration is read from config.yaml, merged with config.<env>.yaml when
LANDSCAPE (or ATOMI_LANDSCAPE) is set, then with ATOMI__A__B=value
environment overrides.

Example usage:
  ogsite serve --watch             # Serve and reload posts on change
  ogsite render blog hello-world   # Write hello-world.png
  ogsite posts                     # List published posts
  ogsite config print              # Show the merged configuration`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.init(cmd)
		},
	}

	root.PersistentFlags().StringVarP(&c.configDir, "config-dir", "c", ".", "directory holding config.yaml")
	root.PersistentFlags().StringVar(&c.envFile, "env-file", ".env", "dotenv file loaded before resolving config")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		newServeCmd(c),
		newRenderCmd(c),
		newConfigCmd(c),
		newPostsCmd(c),
		newFontsCmd(c),
		newVersionCmd(),
	)
	return root
}

// init loads the dotenv file, resolves the configuration and builds the
// logger.
func (c *cli) init(cmd *cobra.Command) error {
	switch cmd.Name() {
	case "version", "help", "completion":
		return nil
	}
	if err := godotenv.Load(c.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading %s: %w", c.envFile, err)
	}

	boot := newStderrLogger(cmd.ErrOrStderr(), c.verbose, "")
	c.resolver = config.NewResolver(config.WithDir(c.configDir), config.WithLogger(boot))
	settings, err := c.resolver.Resolve()
	if err != nil {
		return err
	}
	c.settings = settings

	logger, closer, err := newLogger(cmd.ErrOrStderr(), settings.Log, c.verbose)
	if err != nil {
		return err
	}
	c.logger, c.logFile = logger, closer
	slog.SetDefault(logger)

	logger.Debug("configuration loaded",
		"dir", c.configDir,
		"environment", c.resolver.Environment(),
		"site", settings.Site.URL,
	)
	return nil
}

// close releases the log file opened by init.
func (c *cli) close() error {
	if c.logFile == nil {
		return nil
	}
	err := c.logFile.Close()
	c.logFile = nil
	return err
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the ogsite version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "ogsite %s\n", version)
		},
	}
}
