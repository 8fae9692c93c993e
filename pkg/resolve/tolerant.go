package resolve

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// tolerantVersion is the fallback comparator for inputs coreos/go-semver
// can't parse even after normalizeSemver; on its own it accepts bare
// majors ("21") and build suffixes ("17.0.9+9") as well.
type tolerantVersion struct {
	Major int
	Minor int
	Patch int
	Pre   string
	Build string
}

var tolerantRe = regexp.MustCompile(`^(\d+)(?:\.(\d+))?(?:\.(\d+))?(?:-([a-zA-Z0-9\-\.]+))?(?:\+([a-zA-Z0-9\-\.]+))?$`)

func parseTolerant(v string) (*tolerantVersion, error) {
	v = strings.TrimPrefix(v, "v")
	matches := tolerantRe.FindStringSubmatch(v)
	if matches == nil {
		return nil, fmt.Errorf("invalid version format: %s", v)
	}

	major, _ := strconv.Atoi(matches[1])
	minor, patch := 0, 0
	if matches[2] != "" {
		minor, _ = strconv.Atoi(matches[2])
	}
	if matches[3] != "" {
		patch, _ = strconv.Atoi(matches[3])
	}

	return &tolerantVersion{
		Major: major,
		Minor: minor,
		Patch: patch,
		Pre:   matches[4],
		Build: matches[5],
	}, nil
}

// compare returns -1/0/1, release versions ranking above pre-releases
// of the same major.minor.patch.
func (v *tolerantVersion) compare(other *tolerantVersion) int {
	if v.Major != other.Major {
		return sign(v.Major - other.Major)
	}
	if v.Minor != other.Minor {
		return sign(v.Minor - other.Minor)
	}
	if v.Patch != other.Patch {
		return sign(v.Patch - other.Patch)
	}
	if v.Pre == "" && other.Pre != "" {
		return 1
	}
	if v.Pre != "" && other.Pre == "" {
		return -1
	}
	return strings.Compare(v.Pre, other.Pre)
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}

// compareTolerant compares two raw version strings, falling back to a
// plain string compare if either fails to parse at all (e.g. a ref-like
// string that slipped through).
func compareTolerant(a, b string) int {
	va, errA := parseTolerant(a)
	vb, errB := parseTolerant(b)
	if errA != nil || errB != nil {
		return strings.Compare(a, b)
	}
	return va.compare(vb)
}
