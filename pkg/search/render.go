package search

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/mitchellh/go-wordwrap"

	"github.com/pysearch/pysearch/pkg/pep440"
)

// InstalledSet is a read-only view of locally installed packages,
// consulted while rendering to annotate records with version notes.
type InstalledSet interface {
	// Installed returns the installed version for name, if any.
	Installed(name string) (version string, ok bool)
}

// Renderer formats aggregated packages as report lines.
// A nil Installed set disables installed-package annotations.
type Renderer struct {
	Installed InstalledSet
}

// Render formats packages as a sequence of report lines. Pass the
// detected terminal width, or 0 when stdout is not a terminal; summaries
// are word-wrapped only when a width is known and leaves a usable
// column.
//
// The headline shows each record's last *discovered* version, not its
// highest; only the INSTALLED/LATEST annotation compares versions. A
// record whose lines contain invalid UTF-8 contributes no lines and
// rendering continues with the next record.
func (r *Renderer) Render(packages []Package, terminalWidth int) []string {
	if len(packages) == 0 {
		return nil
	}

	nameColumnWidth := 0
	for _, pkg := range packages {
		if w := len(pkg.Name) + len(lastVersion(pkg)); w > nameColumnWidth {
			nameColumnWidth = w
		}
	}
	nameColumnWidth += 4

	var lines []string
	for _, pkg := range packages {
		summary := pkg.Summary
		if terminalWidth > 0 {
			if target := terminalWidth - nameColumnWidth - 5; target > 10 {
				wrapped := wordwrap.WrapString(summary, uint(target))
				indent := "\n" + strings.Repeat(" ", nameColumnWidth+3)
				summary = strings.ReplaceAll(wrapped, "\n", indent)
			}
		}

		label := fmt.Sprintf("%s (%s)", pkg.Name, lastVersion(pkg))
		entry := []string{fmt.Sprintf("%-*s - %s", nameColumnWidth, label, summary)}

		if r.Installed != nil {
			if installed, ok := r.Installed.Installed(pkg.Name); ok {
				latest := pep440.Highest(pkg.Versions)
				if installed == latest {
					entry = append(entry, fmt.Sprintf("  INSTALLED: %s (latest)", installed))
				} else {
					entry = append(entry,
						fmt.Sprintf("  INSTALLED: %s", installed),
						fmt.Sprintf("  LATEST:    %s", latest))
				}
			}
		}

		if !validLines(entry) {
			continue
		}
		lines = append(lines, entry...)
	}
	return lines
}

// lastVersion returns the most recently discovered version, or "-" when
// the record carries none.
func lastVersion(pkg Package) string {
	if len(pkg.Versions) == 0 {
		return "-"
	}
	return pkg.Versions[len(pkg.Versions)-1]
}

// validLines reports whether every line is well-formed UTF-8. Records
// with undecodable text are dropped line-group by line-group so one bad
// summary cannot abort the whole report.
func validLines(lines []string) bool {
	for _, line := range lines {
		if !utf8.ValidString(line) {
			return false
		}
	}
	return true
}
