// Package cmd implements the remedy command tree.
package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Iron-Ham/remedy/internal/cleanup"
	"github.com/Iron-Ham/remedy/internal/config"
	"github.com/Iron-Ham/remedy/internal/errors"
	"github.com/Iron-Ham/remedy/internal/ingest"
	"github.com/Iron-Ham/remedy/internal/logging"
)

// Version is set at build time with -ldflags "-X .../internal/cmd.Version=...".
var Version = "dev"

// errSilent is returned by commands that have already reported the failure
// and only need a non-zero exit status.
var errSilent = errors.New("silent failure")

// NewRootCmd builds the full command tree. Each call returns an independent
// tree, so tests can execute commands without sharing flag state.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "remedy",
		Short: "Turn code-analysis findings into a phased cleanup plan",
		Long: `Remedy reads the issues and cross-file patterns found by a code analysis
and turns them into an ordered, phased remediation plan with effort
estimates and a risk assessment.

Inputs are JSON or YAML analysis documents. Plans can be rendered as text,
Markdown, JSON or YAML, browsed interactively, or served over HTTP.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(cmd)
		},
	}

	root.PersistentFlags().StringP("config", "c", "", "config file (default is ./remedy.yaml or $HOME/.config/remedy/config.yaml)")
	root.PersistentFlags().String("log-level", "", "log level: debug, info, warn or error")
	root.PersistentFlags().String("log-file", "", "write JSON logs to this file instead of stderr")

	root.AddCommand(
		newPlanCmd(),
		newValidateCmd(),
		newViewCmd(),
		newServeCmd(),
		newConfigCmd(),
		newVersionCmd(),
	)
	return root
}

// Execute runs the root command and prints any error to stderr.
func Execute() error {
	root := NewRootCmd()
	err := root.Execute()
	if err != nil && !errors.Is(err, errSilent) {
		fmt.Fprintf(root.ErrOrStderr(), "Error: %v\n", err)
	}
	return err
}

func initConfig(cmd *cobra.Command) error {
	viper.Reset()
	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	cfgFile, _ := cmd.Flags().GetString("config")
	if cfgFile == "" {
		cfgFile = config.Locate()
	}
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}

	viper.SetEnvPrefix("REMEDY")
	// e.g. REMEDY_OUTPUT_FORMAT for output.format
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := bindFlag(cmd, "log-level", "logging.level"); err != nil {
		return err
	}
	if err := bindFlag(cmd, "log-file", "logging.file"); err != nil {
		return err
	}

	if cfgFile != "" {
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", cfgFile, err)
		}
	}
	return nil
}

// bindFlag binds a flag to a viper key when the command has that flag.
func bindFlag(cmd *cobra.Command, flag, key string) error {
	f := cmd.Flags().Lookup(flag)
	if f == nil {
		return nil
	}
	return viper.BindPFlag(key, f)
}

// loadConfig returns the validated effective configuration.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg *config.Config, stderr io.Writer) (*logging.Logger, error) {
	return logging.New(logging.Options{
		Level: logging.ParseLevel(cfg.Logging.Level),
		File:  cfg.Logging.File,
		Rotation: logging.RotationConfig{
			MaxSizeMB:  cfg.Logging.MaxSizeMB,
			MaxBackups: cfg.Logging.MaxBackups,
			Compress:   cfg.Logging.Compress,
		},
		Stderr: stderr,
	})
}

func newPlanner(cfg *config.Config) *cleanup.Planner {
	if cfg.Planner.IDStrategy == config.IDStrategySequential {
		return cleanup.NewPlanner(cleanup.WithSequentialIDs(cfg.Planner.IDPrefix))
	}
	return cleanup.NewPlanner()
}

func ingestOptions(cfg *config.Config) ingest.Options {
	return ingest.Options{
		Exclude:     cfg.Ingest.Exclude,
		MinSeverity: cleanup.Severity(cfg.Ingest.MinSeverity),
	}
}

// commandEnv bundles what every planning command needs.
type commandEnv struct {
	cfg     *config.Config
	logger  *logging.Logger
	planner *cleanup.Planner
}

func setup(cmd *cobra.Command) (*commandEnv, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}
	return &commandEnv{
		cfg:     cfg,
		logger:  logger.WithCommand(cmd.Name()),
		planner: newPlanner(cfg),
	}, nil
}

func (e *commandEnv) Close() {
	_ = e.logger.Close()
}

// loadAndPlan loads one document and plans it.
func (e *commandEnv) loadAndPlan(path string) (*ingest.Input, *cleanup.CleanupPlan, error) {
	in, err := ingest.Load(path, ingestOptions(e.cfg))
	if err != nil {
		return nil, nil, err
	}
	plan := e.planner.GeneratePlan(in.Classified, in.Patterns)
	logger := e.logger.WithInput(path)
	for _, d := range plan.Diagnostics {
		logger.Warn("plan diagnostic", "code", d.Code, "message", d.Message)
	}
	return in, plan, nil
}
