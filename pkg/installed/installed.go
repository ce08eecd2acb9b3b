// Package installed builds a read-only view of locally installed Python
// distributions by scanning site-packages metadata directories.
//
// The set is an explicit dependency handed to the report renderer, never
// ambient process state; tests construct one with [FromMap].
package installed

import (
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/pysearch/pysearch/pkg/reqfile"
)

// metadata directory suffixes written by installers.
var metaSuffixes = []string{".dist-info", ".egg-info"}

// Set maps normalized package names to their installed versions.
type Set struct {
	versions map[string]string
}

// FromMap builds a Set from explicit name -> version pairs.
// Names are normalized on insertion.
func FromMap(versions map[string]string) *Set {
	s := &Set{versions: make(map[string]string, len(versions))}
	for name, version := range versions {
		s.versions[reqfile.Normalize(name)] = version
	}
	return s
}

// Installed returns the installed version for name, if any.
// Lookup normalizes the name, so "Foo_Bar" and "foo-bar" match.
func (s *Set) Installed(name string) (string, bool) {
	v, ok := s.versions[reqfile.Normalize(name)]
	return v, ok
}

// Len returns the number of known distributions.
func (s *Set) Len() int { return len(s.versions) }

// ScanDirs harvests distribution metadata directories ("name-1.2.3.dist-info",
// "name-1.2.3.egg-info") from the given directories. Unreadable
// directories and unparsable entries are skipped.
func ScanDirs(dirs []string) *Set {
	s := &Set{versions: make(map[string]string)}
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			if name, version, ok := splitMetaDir(entry.Name()); ok {
				s.versions[reqfile.Normalize(name)] = version
			}
		}
	}
	return s
}

// Discover locates site-packages directories for the active Python
// environment and scans them. $VIRTUAL_ENV is honored first; otherwise
// the interpreter's own site enumeration is used. A missing interpreter
// yields an empty set rather than an error, so the report simply carries
// no installed annotations.
func Discover(ctx context.Context) *Set {
	return ScanDirs(sitePackageDirs(ctx))
}

func sitePackageDirs(ctx context.Context) []string {
	if venv := os.Getenv("VIRTUAL_ENV"); venv != "" {
		if dirs, err := filepath.Glob(filepath.Join(venv, "lib", "python*", "site-packages")); err == nil && len(dirs) > 0 {
			return dirs
		}
		return []string{filepath.Join(venv, "Lib", "site-packages")}
	}

	out, err := exec.CommandContext(ctx, "python3", "-c",
		"import site, json; print(json.dumps(site.getsitepackages() + [site.getusersitepackages()]))").Output()
	if err != nil {
		return nil
	}
	var dirs []string
	if err := json.Unmarshal(out, &dirs); err != nil {
		return nil
	}
	return dirs
}

// splitMetaDir extracts name and version from a metadata directory name
// like "requests-2.31.0.dist-info". Directories without a version part
// (bare "pkg.egg-info") are rejected.
func splitMetaDir(dir string) (name, version string, ok bool) {
	base := ""
	for _, suffix := range metaSuffixes {
		if strings.HasSuffix(dir, suffix) {
			base = strings.TrimSuffix(dir, suffix)
			break
		}
	}
	if base == "" {
		return "", "", false
	}

	parts := strings.SplitN(base, "-", 3)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	// egg-info names may carry a trailing python tag ("pkg-1.0-py3.11").
	return parts[0], parts[1], true
}
