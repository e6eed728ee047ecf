// Package ingest loads analysis documents into the planner's input types.
//
// A document is JSON or YAML with up to three top-level keys:
//
//	issues:     a flat list of issues, bucketed by severity on load
//	classified: issues already bucketed as critical/high/medium/low
//	patterns:   systemic findings spanning several files
//
// Documents are validated field by field and then filtered by the
// configured exclude globs and minimum severity.
package ingest

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Iron-Ham/remedy/internal/cleanup"
	"github.com/Iron-Ham/remedy/internal/errors"
)

// Format identifies the encoding of an analysis document.
type Format string

const (
	// FormatAuto picks the format from the file extension.
	FormatAuto Format = ""
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Document is the on-disk shape of an analysis document.
type Document struct {
	Issues     []cleanup.Issue           `json:"issues,omitempty" yaml:"issues,omitempty" validate:"dive"`
	Classified *cleanup.ClassifiedIssues `json:"classified,omitempty" yaml:"classified,omitempty"`
	Patterns   []cleanup.IssuePattern    `json:"patterns,omitempty" yaml:"patterns,omitempty" validate:"dive"`
}

// Options controls decoding and filtering.
type Options struct {
	// Format forces the document format. FormatAuto detects it from the path.
	Format Format
	// Exclude lists path.Match globs. Issues in matching files are dropped
	// and matching files are removed from patterns.
	Exclude []string
	// MinSeverity drops issues ranked below it. Empty keeps everything.
	MinSeverity cleanup.Severity
}

// Input is a validated, filtered document ready for planning.
type Input struct {
	// Source is the path the document was loaded from, or "-" for a stream.
	Source     string
	Classified cleanup.ClassifiedIssues
	Patterns   []cleanup.IssuePattern
	// Dropped counts issues removed by Exclude or MinSeverity.
	Dropped int
	// DroppedPatterns counts patterns left with no files after Exclude.
	DroppedPatterns int
}

// DetectFormat returns the format implied by the file extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return FormatAuto, errors.NewInputError("cannot tell the document format from its extension; use .json, .yaml or .yml",
			errors.ErrUnsupportedFormat).WithPath(path)
	}
}

// ParseFormat converts a user-supplied format name.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "", "auto":
		return FormatAuto, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return FormatAuto, errors.Wrapf(errors.ErrUnsupportedFormat, "input format %q", name)
	}
}

// Load reads, validates and filters the document at path.
func Load(path string, opts Options) (*Input, error) {
	format := opts.Format
	if format == FormatAuto {
		detected, err := DetectFormat(path)
		if err != nil {
			return nil, err
		}
		format = detected
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFoundError("input", path).WithCause(err)
		}
		return nil, errors.NewInputError("failed to open document", err).WithPath(path)
	}
	defer f.Close()

	in, err := decode(f, format, opts)
	if err != nil {
		var inputErr *errors.InputError
		if errors.As(err, &inputErr) {
			inputErr.WithPath(path)
		}
		return nil, err
	}
	in.Source = path
	return in, nil
}

// Decode reads, validates and filters a document from r. format must be
// FormatJSON or FormatYAML.
func Decode(r io.Reader, format Format, opts Options) (*Input, error) {
	in, err := decode(r, format, opts)
	if err != nil {
		return nil, err
	}
	in.Source = "-"
	return in, nil
}

func decode(r io.Reader, format Format, opts Options) (*Input, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.NewInputError("failed to read document", err).WithFormat(string(format))
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.NewInputError("document is empty", nil).WithFormat(string(format))
	}

	var doc Document
	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, &doc)
	case FormatYAML:
		err = yaml.Unmarshal(data, &doc)
	default:
		return nil, errors.Wrapf(errors.ErrUnsupportedFormat, "input format %q", format)
	}
	if err != nil {
		return nil, errors.NewInputError("failed to decode document", err).WithFormat(string(format))
	}

	if err := Validate(&doc); err != nil {
		return nil, errors.NewInputError("document failed validation", err).WithFormat(string(format))
	}

	return Prepare(&doc, opts), nil
}

// Prepare merges the flat and pre-bucketed issue lists and applies the
// filters in opts. doc must already be valid.
func Prepare(doc *Document, opts Options) *Input {
	var classified cleanup.ClassifiedIssues
	if doc.Classified != nil {
		classified = *doc.Classified
	}
	flat := cleanup.Classify(doc.Issues)
	classified.Critical = append(classified.Critical, flat.Critical...)
	classified.High = append(classified.High, flat.High...)
	classified.Medium = append(classified.Medium, flat.Medium...)
	classified.Low = append(classified.Low, flat.Low...)

	f := newFilter(opts)
	kept, dropped := f.issues(classified)
	patterns, droppedPatterns := f.patterns(doc.Patterns)

	return &Input{
		Classified:      kept,
		Patterns:        patterns,
		Dropped:         dropped,
		DroppedPatterns: droppedPatterns,
	}
}
