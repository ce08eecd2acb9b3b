// Package reqfile parses pip-style requirement files into name/specifier
// entries for file-driven index lookups.
package reqfile

import (
	"bufio"
	"os"
	"regexp"
	"strings"
)

var (
	nameRE   = regexp.MustCompile(`^([a-zA-Z0-9][-a-zA-Z0-9._]*)`)
	pinnedRE = regexp.MustCompile(`^==\s*([a-zA-Z0-9][-a-zA-Z0-9._+!]*)$`)
)

// Entry is one requirement: a package name and its raw version
// specifier (e.g., ">=2.28.0", "==8.1.0", or "" for an unconstrained
// requirement). Environment markers and inline comments are stripped.
type Entry struct {
	Name      string
	Specifier string
}

// Pinned returns the exact version when the specifier pins one
// (a single "==x.y.z" clause without wildcard), and ok=false otherwise.
func (e Entry) Pinned() (string, bool) {
	m := pinnedRE.FindStringSubmatch(e.Specifier)
	if m == nil || strings.Contains(m[1], "*") {
		return "", false
	}
	return m[1], true
}

// Parse reads a requirements file and returns its entries in file order.
// Blank lines, comments, option lines ("-r", "-e", ...) and direct URL
// requirements are skipped. Entries are de-duplicated by normalized
// name; the first occurrence wins.
func Parse(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	seen := make(map[string]bool)
	var entries []Entry

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' || line[0] == '-' {
			continue
		}
		if strings.Contains(line, "://") || strings.HasPrefix(line, "git+") {
			continue
		}

		// Strip environment markers and trailing comments.
		if i := strings.Index(line, ";"); i >= 0 {
			line = line[:i]
		}
		if i := strings.Index(line, " #"); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)

		m := nameRE.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		name := m[1]
		key := Normalize(name)
		if seen[key] {
			continue
		}
		seen[key] = true

		entries = append(entries, Entry{
			Name:      name,
			Specifier: strings.TrimSpace(line[len(name):]),
		})
	}

	return entries, scanner.Err()
}

// Normalize converts a package name to its canonical form: lowercase
// with runs of "-", "_" and "." collapsed to a single hyphen (PEP 503).
func Normalize(name string) string {
	var b strings.Builder
	lastDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if r == '-' || r == '_' || r == '.' {
			if !lastDash {
				b.WriteByte('-')
			}
			lastDash = true
			continue
		}
		lastDash = false
		b.WriteRune(r)
	}
	return b.String()
}
