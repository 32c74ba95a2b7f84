package cli

import (
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/avrconf/internal/config"
	"github.com/roach88/avrconf/internal/query"
)

// RootOptions holds global flags and the state shared by all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	Source     string
	ConfigFile string

	// Set by the root PersistentPreRunE.
	Config *config.Config
	Logger *slog.Logger

	loaded  *LoadResult
	service *query.Service
}

// NewRootCommand creates the root command for the avrconf CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "avrconf",
		Short: "avrconf - programmer and part configuration index",
		Long: `Query an avrdude-style configuration file.

The source is parsed once, inheritance between entries is resolved, and
programmers and parts are listed or looked up by id or by device signature.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, config.KeyVerbose, "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, config.KeyFormat, config.DefaultFormat, "output format (json|text)")
	cmd.PersistentFlags().StringVarP(&opts.Source, config.KeySource, "s", config.DefaultSource, "configuration source file")
	cmd.PersistentFlags().StringVar(&opts.ConfigFile, "config", "", "settings file (default ./avrconf.yaml)")

	// Add subcommands
	cmd.AddCommand(NewIDsCommand(opts))
	cmd.AddCommand(NewContentCommand(opts))
	cmd.AddCommand(NewProgrammersCommand(opts))
	cmd.AddCommand(NewPartsCommand(opts))
	cmd.AddCommand(NewSignaturesCommand(opts))
	cmd.AddCommand(NewCheckCommand(opts))
	cmd.AddCommand(NewSnapshotCommand(opts))

	return cmd
}

// setup resolves the configuration for cmd and builds the logger.
func (o *RootOptions) setup(cmd *cobra.Command) error {
	loader := config.NewLoader()
	if err := loader.BindFlags(cmd.Flags()); err != nil {
		return WrapExitError(ExitCommandError, "binding flags", err)
	}
	cfg, err := loader.Load(o.ConfigFile)
	if err != nil {
		f := &OutputFormatter{Format: o.Format, Writer: cmd.OutOrStdout()}
		if f.Format != "json" {
			f.Format = config.DefaultFormat
		}
		return f.Fail(ExitCommandError, ErrCodeConfig, err.Error(), err)
	}

	o.Config = cfg
	o.Format = cfg.Format
	o.Source = cfg.Source
	o.Verbose = cfg.Verbose

	level := slog.LevelWarn
	if o.Verbose {
		level = slog.LevelDebug
	}
	o.Logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	if cfg.ConfigFile != "" {
		o.Logger.Debug("config loaded", "file", cfg.ConfigFile)
	}
	return nil
}

// formatter returns the output formatter for cmd.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:  o.Format,
		Writer:  cmd.OutOrStdout(),
		Verbose: o.Verbose,
	}
}

// load reads and indexes the source once per command invocation.
func (o *RootOptions) load() (*LoadResult, error) {
	if o.loaded != nil {
		return o.loaded, nil
	}
	res, err := LoadSource(o.Source, o.Logger)
	if err != nil {
		return nil, err
	}
	o.loaded = res
	o.service = query.New(res.Index)
	return res, nil
}

// Service returns the query service over the loaded source.
func (o *RootOptions) Service() (*query.Service, error) {
	if _, err := o.load(); err != nil {
		return nil, err
	}
	return o.service, nil
}

// loadFailure reports a load error and returns the matching ExitError.
func loadFailure(f *OutputFormatter, err error) error {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		return f.Fail(ExitCommandError, loadErr.Code, loadErr.Message, err)
	}
	return f.Fail(ExitCommandError, ErrorCode(err), err.Error(), err)
}
