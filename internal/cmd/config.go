package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/Iron-Ham/remedy/internal/config"
)

func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "View or modify remedy configuration",
		Long: `View or modify remedy configuration.

Without arguments, displays the current configuration.
Use subcommands to modify settings or create a config file.`,
		RunE: runConfigShow,
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE:  runConfigShow,
	}

	setCmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: `Set a configuration value in the active config file, or in the user
config file when none exists yet.

Keys use dot notation, e.g.:
  remedy config set output.format markdown
  remedy config set planner.id_strategy sequential
  remedy config set ingest.exclude "vendor/*,*.generated.ts"

Run 'remedy config show' to see every key.`,
		Args: cobra.ExactArgs(2),
		RunE: runConfigSet,
	}

	var (
		local bool
		force bool
	)
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create a default config file",
		Long: `Create a config file with every option at its default value, at
~/.config/remedy/config.yaml or, with --local, at ./remedy.yaml.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			target := config.ConfigFile()
			if local {
				target = config.LocalConfigName + ".yaml"
			}
			return runConfigInit(cmd, target, force)
		},
	}
	initCmd.Flags().BoolVar(&local, "local", false, "write ./remedy.yaml instead of the user config file")
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Show the config file path",
		Args:  cobra.NoArgs,
		RunE:  runConfigPath,
	}

	configCmd.AddCommand(showCmd, setCmd, initCmd, pathCmd)
	return configCmd
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if used := viper.ConfigFileUsed(); used != "" {
		fmt.Fprintf(out, "# Config file: %s\n", used)
	} else {
		fmt.Fprintln(out, "# Config file: (none - using defaults)")
	}

	data, err := marshalConfig(cfg)
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, raw := args[0], args[1]

	current := viper.Get(key)
	if current == nil || !knownKey(key) {
		return fmt.Errorf("unknown configuration key: %s\nValid keys: %s", key, strings.Join(knownKeys(), ", "))
	}

	value, err := convertValue(current, raw)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	viper.Set(key, value)

	if _, err := loadConfig(); err != nil {
		return err
	}

	target := viper.ConfigFileUsed()
	if target == "" {
		target = config.ConfigFile()
	}
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := viper.WriteConfigAs(target); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %v\nConfig saved to %s\n", key, value, target)
	return nil
}

// convertValue parses raw into the type of the key's current value.
func convertValue(current any, raw string) (any, error) {
	switch current.(type) {
	case bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("expected true or false")
		}
		return b, nil
	case int, int64:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("expected an integer")
		}
		return n, nil
	case []string, []any:
		if raw == "" {
			return []string{}, nil
		}
		parts := strings.Split(raw, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts, nil
	default:
		return raw, nil
	}
}

func knownKeys() []string {
	var keys []string
	for _, key := range viper.AllKeys() {
		if strings.Contains(key, ".") {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

func knownKey(key string) bool {
	for _, k := range knownKeys() {
		if k == key {
			return true
		}
	}
	return false
}

func runConfigInit(cmd *cobra.Command, target string, force bool) error {
	if _, err := os.Stat(target); err == nil && !force {
		return fmt.Errorf("config file already exists at %s\nUse --force to overwrite it or 'remedy config set' to modify values", target)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := marshalConfig(config.Default())
	if err != nil {
		return err
	}
	content := append([]byte(configHeader), data...)
	if err := os.WriteFile(target, content, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created config file at %s\n", target)
	fmt.Fprintln(out, "Edit this file to customize remedy's behavior.")
	return nil
}

const configHeader = `# remedy configuration
#
# planner.id_strategy  uuid | sequential
# ingest.min_severity  critical | high | medium | low (empty keeps everything)
# output.format        text | markdown | json | yaml
# output.color         auto | always | never
# logging.level        debug | info | warn | error
#
# Every key can also be set with a REMEDY_ environment variable,
# e.g. REMEDY_OUTPUT_FORMAT=markdown for output.format.

`

func marshalConfig(cfg *config.Config) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if used := viper.ConfigFileUsed(); used != "" {
		fmt.Fprintf(out, "Active config: %s\n", used)
	} else {
		fmt.Fprintf(out, "Default path: %s (not created)\n", config.ConfigFile())
	}

	fmt.Fprintln(out, "\nSearch paths:")
	fmt.Fprintf(out, "  1. ./%s.yaml (current directory)\n", config.LocalConfigName)
	fmt.Fprintf(out, "  2. %s\n", config.ConfigFile())
	fmt.Fprintln(out, "\nEnvironment variables: REMEDY_* (e.g., REMEDY_OUTPUT_FORMAT)")
	return nil
}
