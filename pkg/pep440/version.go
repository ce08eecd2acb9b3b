// Package pep440 implements parsing and ordering of Python package
// version identifiers as defined by PEP 440.
//
// The scheme is richer than semver: an optional epoch ("1!2.0"), a
// dotted numeric release segment, pre-releases ("1.0a1", "1.0rc2"),
// post-releases ("1.0.post1"), development releases ("1.0.dev3") and
// local version labels ("1.0+ubuntu.1"). Comparison is numeric per
// segment, never lexicographic: "1.10" sorts above "1.9".
//
// Strings that do not parse are still ordered deterministically:
// [Compare] places every invalid version below every valid one, and
// orders invalid versions among themselves by case-insensitive string
// comparison. No input causes a panic.
package pep440

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var versionRE = regexp.MustCompile(`(?i)^v?` +
	`(?:(\d+)!)?` + // epoch
	`(\d+(?:\.\d+)*)` + // release segment
	`(?:[-_.]?(a|b|c|rc|alpha|beta|pre|preview)[-_.]?(\d+)?)?` + // pre-release
	`(?:(?:-(\d+))|(?:[-_.]?(post|rev|r)[-_.]?(\d+)?))?` + // post-release
	`([-_.]?dev[-_.]?(\d+)?)?` + // dev release
	`(?:\+([a-z0-9]+(?:[-_.][a-z0-9]+)*))?$`) // local version

// preRank orders pre-release phases: alpha < beta < release candidate.
var preRank = map[string]int{"a": 0, "b": 1, "rc": 2}

// localSegment is one dot-separated piece of a local version label.
// Numeric segments order above alphanumeric ones.
type localSegment struct {
	num   int
	str   string
	isNum bool
}

// Version is a parsed PEP 440 version identifier.
// The zero Version compares equal to "0".
type Version struct {
	epoch    int
	release  []int
	preL     string // normalized: "a", "b" or "rc"
	preN     int
	hasPre   bool
	postN    int
	hasPost  bool
	devN     int
	hasDev   bool
	local    []localSegment
	original string
}

// Parse parses s as a PEP 440 version identifier.
// Surrounding whitespace and a leading "v" are tolerated; spellings are
// normalized ("alpha" -> "a", "rev" -> "post", "1.0-1" -> "1.0.post1").
func Parse(s string) (Version, error) {
	m := versionRE.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return Version{}, fmt.Errorf("invalid version: %q", s)
	}

	v := Version{original: strings.TrimSpace(s)}
	if m[1] != "" {
		v.epoch = atoi(m[1])
	}
	for _, part := range strings.Split(m[2], ".") {
		v.release = append(v.release, atoi(part))
	}
	if m[3] != "" {
		v.hasPre = true
		v.preL = normalizePre(m[3])
		v.preN = atoi(m[4])
	}
	if m[5] != "" || m[6] != "" {
		v.hasPost = true
		if m[5] != "" {
			v.postN = atoi(m[5])
		} else {
			v.postN = atoi(m[7])
		}
	}
	if m[8] != "" {
		v.hasDev = true
		v.devN = atoi(m[9])
	}
	if m[10] != "" {
		for _, part := range strings.FieldsFunc(strings.ToLower(m[10]), func(r rune) bool {
			return r == '-' || r == '_' || r == '.'
		}) {
			if n, err := strconv.Atoi(part); err == nil {
				v.local = append(v.local, localSegment{num: n, isNum: true})
			} else {
				v.local = append(v.local, localSegment{str: part})
			}
		}
	}
	return v, nil
}

// String returns the version as it was given to Parse.
func (v Version) String() string {
	if v.original == "" {
		return "0"
	}
	return v.original
}

// IsPrerelease reports whether v is a pre-release or dev release.
func (v Version) IsPrerelease() bool {
	return v.hasPre || v.hasDev
}

// Compare returns -1, 0 or 1 depending on whether v sorts below, equal
// to or above o.
func (v Version) Compare(o Version) int {
	if c := cmpInt(v.epoch, o.epoch); c != 0 {
		return c
	}
	if c := cmpRelease(v.release, o.release); c != 0 {
		return c
	}
	if c := cmpPre(v, o); c != 0 {
		return c
	}
	if c := cmpPost(v, o); c != 0 {
		return c
	}
	if c := cmpDev(v, o); c != 0 {
		return c
	}
	return cmpLocal(v.local, o.local)
}

// Compare orders two version strings. Valid versions order per the
// scheme; an invalid version sorts below every valid one, and two
// invalid versions compare as case-insensitive strings.
func Compare(a, b string) int {
	va, errA := Parse(a)
	vb, errB := Parse(b)
	switch {
	case errA == nil && errB == nil:
		return va.Compare(vb)
	case errA == nil:
		return 1
	case errB == nil:
		return -1
	default:
		return strings.Compare(strings.ToLower(a), strings.ToLower(b))
	}
}

// Highest returns the maximal version string under [Compare].
// Ties keep the first occurrence, so the max is stable with respect to
// input order. Returns "" for an empty slice; callers are expected to
// pass at least one version.
func Highest(versions []string) string {
	if len(versions) == 0 {
		return ""
	}
	best := versions[0]
	for _, v := range versions[1:] {
		if Compare(v, best) > 0 {
			best = v
		}
	}
	return best
}

func normalizePre(l string) string {
	switch strings.ToLower(l) {
	case "a", "alpha":
		return "a"
	case "b", "beta":
		return "b"
	default: // c, rc, pre, preview
		return "rc"
	}
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// cmpRelease compares release segments numerically, padding the shorter
// one with zeros so "1.0" == "1" and "1.2" > "1".
func cmpRelease(a, b []int) int {
	for i := 0; i < max(len(a), len(b)); i++ {
		var x, y int
		if i < len(a) {
			x = a[i]
		}
		if i < len(b) {
			y = b[i]
		}
		if c := cmpInt(x, y); c != 0 {
			return c
		}
	}
	return 0
}

// cmpPre applies the PEP 440 pre-release key: a version with only a dev
// segment sorts below any pre-release, which sorts below the final
// release ("1.0.dev1" < "1.0a1" < "1.0").
func cmpPre(a, b Version) int {
	if c := cmpInt(preState(a), preState(b)); c != 0 {
		return c
	}
	if !a.hasPre { // both final
		return 0
	}
	if c := cmpInt(preRank[a.preL], preRank[b.preL]); c != 0 {
		return c
	}
	return cmpInt(a.preN, b.preN)
}

func preState(v Version) int {
	switch {
	case v.hasPre:
		return 1
	case v.hasDev && !v.hasPost:
		return 0 // bare dev release sorts below pre-releases
	default:
		return 2 // final or post release
	}
}

// cmpPost: no post segment sorts below any post segment.
func cmpPost(a, b Version) int {
	switch {
	case a.hasPost && b.hasPost:
		return cmpInt(a.postN, b.postN)
	case a.hasPost:
		return 1
	case b.hasPost:
		return -1
	}
	return 0
}

// cmpDev: a dev segment sorts below the absence of one.
func cmpDev(a, b Version) int {
	switch {
	case a.hasDev && b.hasDev:
		return cmpInt(a.devN, b.devN)
	case a.hasDev:
		return -1
	case b.hasDev:
		return 1
	}
	return 0
}

// cmpLocal: no local label sorts below any local label; segments compare
// element-wise with numeric segments above alphanumeric ones.
func cmpLocal(a, b []localSegment) int {
	switch {
	case len(a) == 0 && len(b) == 0:
		return 0
	case len(a) == 0:
		return -1
	case len(b) == 0:
		return 1
	}
	for i := 0; i < min(len(a), len(b)); i++ {
		x, y := a[i], b[i]
		switch {
		case x.isNum && y.isNum:
			if c := cmpInt(x.num, y.num); c != 0 {
				return c
			}
		case x.isNum:
			return 1
		case y.isNum:
			return -1
		default:
			if c := strings.Compare(x.str, y.str); c != 0 {
				return c
			}
		}
	}
	return cmpInt(len(a), len(b))
}
