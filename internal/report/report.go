// Package report renders a CleanupPlan for people and for tools.
//
// Four formats are supported: a styled terminal summary (text), a Markdown
// document suitable for an issue or PR description (markdown), and the
// plan's data model as JSON or YAML.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/Iron-Ham/remedy/internal/cleanup"
	"github.com/Iron-Ham/remedy/internal/errors"
)

// Format is an output format.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
)

// Formats returns every supported format.
func Formats() []Format {
	return []Format{FormatText, FormatMarkdown, FormatJSON, FormatYAML}
}

// ParseFormat converts a user-supplied format name. "md" and "yml" are
// accepted as aliases.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "text", "txt":
		return FormatText, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", errors.Wrapf(errors.ErrUnsupportedFormat, "output format %q", name)
	}
}

// FormatForPath guesses the format from an output file extension, falling
// back to def.
func FormatForPath(path string, def Format) Format {
	switch {
	case strings.HasSuffix(path, ".md"), strings.HasSuffix(path, ".markdown"):
		return FormatMarkdown
	case strings.HasSuffix(path, ".json"):
		return FormatJSON
	case strings.HasSuffix(path, ".yaml"), strings.HasSuffix(path, ".yml"):
		return FormatYAML
	default:
		return def
	}
}

// Options controls rendering.
type Options struct {
	// Color enables ANSI styling in the text format.
	Color bool
	// Source names the analysis document in the text and Markdown headers.
	Source string
}

// ColorEnabled resolves an output.color mode for w. "auto" enables colour
// only when w is a terminal and NO_COLOR is unset.
func ColorEnabled(mode string, w io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Render writes plan to w in the given format.
func Render(w io.Writer, plan *cleanup.CleanupPlan, format Format, opts Options) error {
	if plan == nil {
		return errors.NewPlanError("nothing to render", errors.ErrPlanInvalid)
	}

	switch format {
	case FormatText:
		return renderText(w, plan, opts)
	case FormatMarkdown:
		return renderMarkdown(w, plan, opts)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(plan); err != nil {
			return fmt.Errorf("failed to encode plan as JSON: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(plan); err != nil {
			return fmt.Errorf("failed to encode plan as YAML: %w", err)
		}
		return enc.Close()
	default:
		return errors.Wrapf(errors.ErrUnsupportedFormat, "output format %q", format)
	}
}

// RenderValidation writes a validation result as a short human-readable
// report: one line per message, then a summary line.
func RenderValidation(w io.Writer, result *cleanup.ValidationResult) error {
	var sb strings.Builder
	for _, msg := range result.Messages {
		sb.WriteString(msg.String())
		if len(msg.TaskIDs) > 0 {
			fmt.Fprintf(&sb, " (tasks: %s)", strings.Join(msg.TaskIDs, ", "))
		}
		sb.WriteByte('\n')
	}
	if result.IsValid {
		fmt.Fprintf(&sb, "Plan is valid (%d warnings)\n", result.WarningCount)
	} else {
		fmt.Fprintf(&sb, "Plan is invalid: %d errors, %d warnings\n", result.ErrorCount, result.WarningCount)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}
