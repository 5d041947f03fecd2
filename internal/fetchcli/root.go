// Package fetchcli implements attrition-fetch, a command line client that
// reads attrition documents the same way the dashboard does.
package fetchcli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/okian/attrition/internal/adapters/loader"
	"github.com/okian/attrition/internal/config"
	"github.com/okian/attrition/pkg/logger"
	"github.com/spf13/cobra"
)

// Flag names. Flags that were set on the command line win over the
// layered configuration.
const (
	flagMode       = "mode"
	flagAPIURL     = "api-url"
	flagAssetsURL  = "assets-url"
	flagBasePath   = "base-path"
	flagTimeout    = "timeout"
	flagSequential = "sequential"
	flagLogLevel   = "log-level"
)

type options struct {
	mode       string
	apiURL     string
	assetsURL  string
	basePath   string
	timeout    time.Duration
	sequential bool
	logLevel   string
}

// app holds what every subcommand needs once flags are parsed.
type app struct {
	opts   options
	stdout io.Writer
	stderr io.Writer

	loader *loader.Loader
	log    logger.Logger
}

// NewRootCommand builds the attrition-fetch command tree writing documents
// to stdout and logs to stderr.
func NewRootCommand(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "attrition-fetch",
		Short: "Fetch attrition dashboard data",
		Long: "Reads employee attrition documents from the live prediction service " +
			"(development) or the exported static tree (production).",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	f := root.PersistentFlags()
	f.StringVar(&a.opts.mode, flagMode, "", "data source mode: development or production")
	f.StringVar(&a.opts.apiURL, flagAPIURL, "", "live service root used in development")
	f.StringVar(&a.opts.assetsURL, flagAssetsURL, "", "origin serving the static JSON tree")
	f.StringVar(&a.opts.basePath, flagBasePath, "", "static tree prefix used in production")
	f.DurationVar(&a.opts.timeout, flagTimeout, 0, "per-request timeout")
	f.BoolVar(&a.opts.sequential, flagSequential, false, "fetch page resources one after another")
	f.StringVar(&a.opts.logLevel, flagLogLevel, "", "log level: debug, info, warn, error")

	root.AddCommand(
		newPageCommand(a),
		newGetCommand(a),
		newHealthCommand(a),
		newModelInfoCommand(a),
		newTopCommand(a),
		newEndpointsCommand(a),
	)
	return root
}

// Execute runs attrition-fetch with the process arguments.
func Execute(ctx context.Context) error {
	return NewRootCommand(os.Stdout, os.Stderr).ExecuteContext(ctx)
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cmd.Context())
	if err != nil {
		return err
	}
	a.override(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := logger.InitWithWriter(a.stderr); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	a.log = logger.Named("fetch")

	l, err := loader.New(loader.Settings{
		Mode:      cfg.RuntimeMode(),
		APIURL:    cfg.APIURL,
		AssetsURL: cfg.AssetsURL,
		BasePath:  cfg.BasePath,
	},
		loader.WithLogger(logger.Named("loader")),
		loader.WithTimeout(cfg.RequestTimeout()),
		loader.WithMaxBodyBytes(cfg.MaxBodyBytes),
		loader.WithParallelFetch(cfg.ParallelFetch),
	)
	if err != nil {
		return err
	}
	a.loader = l
	return nil
}

func (a *app) override(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed(flagMode) {
		cfg.Mode = a.opts.mode
	}
	if f.Changed(flagAPIURL) {
		cfg.APIURL = a.opts.apiURL
	}
	if f.Changed(flagAssetsURL) {
		cfg.AssetsURL = a.opts.assetsURL
	}
	if f.Changed(flagBasePath) {
		cfg.BasePath = a.opts.basePath
	}
	if f.Changed(flagTimeout) {
		cfg.RequestTimeoutMS = int(a.opts.timeout / time.Millisecond)
	}
	if f.Changed(flagSequential) {
		cfg.ParallelFetch = !a.opts.sequential
	}
	if f.Changed(flagLogLevel) {
		cfg.LogLevel = a.opts.logLevel
	}
}

func (a *app) print(v any) error {
	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
