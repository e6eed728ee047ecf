package config

import (
	"fmt"
	"net"
	"path"
	"regexp"
	"slices"
	"strings"

	"github.com/Iron-Ham/remedy/internal/cleanup"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "batch.max_parallel")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d validation errors:\n", len(e))
	for i, err := range e {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

// idPrefixRegex keeps sequential ids safe to use as Markdown anchors and
// file name fragments.
var idPrefixRegex = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]*$`)

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// ValidOutputFormats returns the list of valid plan output formats
func ValidOutputFormats() []string {
	return []string{"text", "markdown", "json", "yaml"}
}

// ValidColorModes returns the list of valid output.color values
func ValidColorModes() []string {
	return []string{"auto", "always", "never"}
}

// ValidIDStrategies returns the list of valid planner.id_strategy values
func ValidIDStrategies() []string {
	return []string{IDStrategyUUID, IDStrategySequential}
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validatePlanner()...)
	errors = append(errors, c.validateIngest()...)
	errors = append(errors, c.validateOutput()...)
	errors = append(errors, c.validateLogging()...)
	errors = append(errors, c.validateWatch()...)
	errors = append(errors, c.validateBatch()...)
	errors = append(errors, c.validateServer()...)

	return errors
}

func oneOf(field, value string, valid []string) []ValidationError {
	if slices.Contains(valid, value) {
		return nil
	}
	return []ValidationError{{
		Field:   field,
		Value:   value,
		Message: fmt.Sprintf("must be one of: %s", strings.Join(valid, ", ")),
	}}
}

func (c *Config) validatePlanner() []ValidationError {
	errors := oneOf("planner.id_strategy", c.Planner.IDStrategy, ValidIDStrategies())

	if c.Planner.IDPrefix != "" && !idPrefixRegex.MatchString(c.Planner.IDPrefix) {
		errors = append(errors, ValidationError{
			Field:   "planner.id_prefix",
			Value:   c.Planner.IDPrefix,
			Message: "must start with a letter and contain only letters, digits, '-' or '_'",
		})
	}

	return errors
}

func (c *Config) validateIngest() []ValidationError {
	var errors []ValidationError

	for i, glob := range c.Ingest.Exclude {
		if _, err := path.Match(glob, ""); err != nil {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("ingest.exclude[%d]", i),
				Value:   glob,
				Message: "is not a valid glob pattern",
			})
		}
	}

	if c.Ingest.MinSeverity != "" && !cleanup.Severity(c.Ingest.MinSeverity).IsValid() {
		valid := make([]string, 0, 4)
		for _, s := range cleanup.ValidSeverities() {
			valid = append(valid, string(s))
		}
		errors = append(errors, ValidationError{
			Field:   "ingest.min_severity",
			Value:   c.Ingest.MinSeverity,
			Message: fmt.Sprintf("must be empty or one of: %s", strings.Join(valid, ", ")),
		})
	}

	return errors
}

func (c *Config) validateOutput() []ValidationError {
	errors := oneOf("output.format", c.Output.Format, ValidOutputFormats())
	return append(errors, oneOf("output.color", c.Output.Color, ValidColorModes())...)
}

// validateLogging validates the LoggingConfig
func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	if c.Logging.Level != "" && !slices.Contains(ValidLogLevels(), c.Logging.Level) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	// Zero disables rotation.
	const maxLogSizeMB = 1000
	if c.Logging.MaxSizeMB < 0 || c.Logging.MaxSizeMB > maxLogSizeMB {
		errors = append(errors, ValidationError{
			Field:   "logging.max_size_mb",
			Value:   c.Logging.MaxSizeMB,
			Message: fmt.Sprintf("must be between 0 and %d", maxLogSizeMB),
		})
	}

	if c.Logging.MaxBackups < 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_backups",
			Value:   c.Logging.MaxBackups,
			Message: "must be non-negative",
		})
	}

	return errors
}

func (c *Config) validateWatch() []ValidationError {
	const maxDebounceMs = 60_000
	if c.Watch.DebounceMs < 0 || c.Watch.DebounceMs > maxDebounceMs {
		return []ValidationError{{
			Field:   "watch.debounce_ms",
			Value:   c.Watch.DebounceMs,
			Message: fmt.Sprintf("must be between 0 and %d", maxDebounceMs),
		}}
	}
	return nil
}

func (c *Config) validateBatch() []ValidationError {
	const maxParallel = 64
	if c.Batch.MaxParallel < 1 || c.Batch.MaxParallel > maxParallel {
		return []ValidationError{{
			Field:   "batch.max_parallel",
			Value:   c.Batch.MaxParallel,
			Message: fmt.Sprintf("must be between 1 and %d", maxParallel),
		}}
	}
	return nil
}

func (c *Config) validateServer() []ValidationError {
	var errors []ValidationError

	if _, _, err := net.SplitHostPort(c.Server.Addr); err != nil {
		errors = append(errors, ValidationError{
			Field:   "server.addr",
			Value:   c.Server.Addr,
			Message: "must be host:port",
		})
	}

	const maxBody = 256 << 20
	if c.Server.MaxBodyBytes <= 0 || c.Server.MaxBodyBytes > maxBody {
		errors = append(errors, ValidationError{
			Field:   "server.max_body_bytes",
			Value:   c.Server.MaxBodyBytes,
			Message: fmt.Sprintf("must be between 1 and %d", maxBody),
		})
	}

	return errors
}
