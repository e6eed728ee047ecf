package ingest

import (
	"path"
	"strings"

	"github.com/Iron-Ham/remedy/internal/cleanup"
)

type filter struct {
	exclude []string
	minRank int
}

func newFilter(opts Options) filter {
	return filter{exclude: opts.Exclude, minRank: opts.MinSeverity.Rank()}
}

// excluded reports whether file matches an exclude glob. Globs without a
// slash also match the file's base name, so "*.test.ts" excludes test files
// in any directory.
func (f filter) excluded(file string) bool {
	for _, glob := range f.exclude {
		if ok, _ := path.Match(glob, file); ok {
			return true
		}
		if !strings.Contains(glob, "/") {
			if ok, _ := path.Match(glob, path.Base(file)); ok {
				return true
			}
		}
	}
	return false
}

func (f filter) keep(issue cleanup.Issue) bool {
	if f.minRank > 0 && issue.Severity.Rank() < f.minRank {
		return false
	}
	return !f.excluded(issue.File)
}

func (f filter) bucket(issues []cleanup.Issue) ([]cleanup.Issue, int) {
	if len(issues) == 0 {
		return issues, 0
	}
	kept := make([]cleanup.Issue, 0, len(issues))
	for _, issue := range issues {
		if f.keep(issue) {
			kept = append(kept, issue)
		}
	}
	return kept, len(issues) - len(kept)
}

func (f filter) issues(c cleanup.ClassifiedIssues) (cleanup.ClassifiedIssues, int) {
	var out cleanup.ClassifiedIssues
	var n, dropped int
	out.Critical, n = f.bucket(c.Critical)
	dropped += n
	out.High, n = f.bucket(c.High)
	dropped += n
	out.Medium, n = f.bucket(c.Medium)
	dropped += n
	out.Low, n = f.bucket(c.Low)
	dropped += n
	return out, dropped
}

// patterns strips excluded files and filtered related issues from each
// pattern. A pattern that named files but has none left is dropped.
// Severity filtering never applies to patterns themselves.
func (f filter) patterns(patterns []cleanup.IssuePattern) ([]cleanup.IssuePattern, int) {
	if len(f.exclude) == 0 && f.minRank == 0 {
		return patterns, 0
	}

	out := make([]cleanup.IssuePattern, 0, len(patterns))
	dropped := 0
	for _, p := range patterns {
		if len(f.exclude) > 0 && len(p.AffectedFiles) > 0 {
			files := make([]string, 0, len(p.AffectedFiles))
			for _, file := range p.AffectedFiles {
				if !f.excluded(file) {
					files = append(files, file)
				}
			}
			if len(files) == 0 {
				dropped++
				continue
			}
			p.AffectedFiles = files
		}
		p.RelatedIssues, _ = f.bucket(p.RelatedIssues)
		out = append(out, p)
	}
	return out, dropped
}
