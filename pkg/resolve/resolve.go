// Package resolve turns a version request ("latest", "21", "lts",
// an exact pin, a path, a ref) into the concrete version string (or
// pseudo-version) a backend should install, covering a five-case
// request sum type plus alias expansion.
package resolve

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/coreos/go-semver/semver"
)

// Request is the sum type a toolset entry resolves from. Only the
// fields marked for its Kind are meaningful.
type Request struct {
	Kind    Kind
	Path    string // Kind == KindPath
	Ref     string // Kind == KindRef
	Version string // Kind == KindVersion or KindSub (original version)
	Sub     int    // Kind == KindSub (minor versions to subtract)
}

type Kind int

const (
	KindSystem Kind = iota
	KindPath
	KindRef
	KindSub
	KindVersion
)

// Result is what a Request resolves to: a concrete version string (or
// pseudo-version for System/Path) plus whatever alias chain was walked
// to reach it.
type Result struct {
	Version     string
	IsSystem    bool
	IsPath      bool
	AliasChain  []string
}

// Backend is the narrow surface resolve needs from a tool backend:
// a remote version listing and an alias table. Implemented by
// pkg/backend.Backend plus a richer type in practice; kept minimal
// here so resolve has no import-cycle dependency on pkg/backend.
type Backend interface {
	ListVersions(ctx context.Context) ([]string, error)
}

// AliasSource supplies a tool's alias table (e.g. "lts" -> "20",
// "stable" -> "1.22"). Optional: a Backend that doesn't implement it
// simply has no aliases.
type AliasSource interface {
	Aliases() map[string]string
}

const maxAliasHops = 10

var unstableSuffixes = []string{
	"-dev", "-rc", "-beta", "-alpha", "snapshot", "master", "milestone", "-src",
}

// Resolve implements the five-case procedure against a backend's
// remote version list and alias table. projectAliases is the tool's
// effective alias map from config (may be nil); it takes precedence
// over any alias the backend itself advertises via AliasSource.
func Resolve(ctx context.Context, req Request, backend Backend, projectAliases map[string]string) (Result, error) {
	switch req.Kind {
	case KindSystem:
		return Result{IsSystem: true}, nil
	case KindPath:
		return Result{IsPath: true, Version: req.Path}, nil
	case KindRef:
		return Result{Version: req.Ref}, nil
	case KindSub:
		return resolveSub(ctx, req, backend, projectAliases)
	case KindVersion:
		return resolveVersion(ctx, req.Version, backend, nil, projectAliases)
	default:
		return Result{}, fmt.Errorf("unknown request kind %v", req.Kind)
	}
}

func resolveSub(ctx context.Context, req Request, backend Backend, projectAliases map[string]string) (Result, error) {
	base, err := parseTolerant(req.Version)
	if err != nil {
		return Result{}, fmt.Errorf("parse sub base version %q: %w", req.Version, err)
	}
	minor := base.Minor - req.Sub
	if minor < 0 {
		return Result{}, fmt.Errorf("subtracting %d minor versions from %s underflows", req.Sub, req.Version)
	}
	derived := fmt.Sprintf("%d.%d", base.Major, minor)
	return resolveVersion(ctx, derived, backend, nil, projectAliases)
}

// resolveVersion runs alias expansion then the verbatim/latest/regex
// match cascade. chain holds the alias hops already walked, which
// expandAlias uses to detect cycles.
func resolveVersion(ctx context.Context, v string, backend Backend, chain []string, projectAliases map[string]string) (Result, error) {
	expanded, newChain, err := expandAlias(v, backend, chain, projectAliases)
	if err != nil {
		return Result{}, err
	}
	v = expanded

	versions, err := backend.ListVersions(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("list remote versions: %w", err)
	}

	for _, candidate := range versions {
		if candidate == v {
			return Result{Version: candidate, AliasChain: newChain}, nil
		}
	}

	if v == "latest" {
		best, err := latestStable(versions)
		if err != nil {
			return Result{}, err
		}
		return Result{Version: best, AliasChain: newChain}, nil
	}

	best, err := matchPrefix(v, versions)
	if err != nil {
		return Result{}, err
	}
	return Result{Version: best, AliasChain: newChain}, nil
}

// expandAlias walks up to maxAliasHops alias hops, consulting
// projectAliases (config's alias table, already scoped to this tool)
// ahead of any alias the backend advertises natively through
// AliasSource. A chain that hasn't terminated after maxAliasHops hops
// is treated as a cycle even if no exact repeat was observed, since a
// well-formed alias table always bottoms out in a non-alias version
// well before that.
func expandAlias(v string, backend Backend, chain []string, projectAliases map[string]string) (string, []string, error) {
	var backendAliases map[string]string
	if src, ok := backend.(AliasSource); ok {
		backendAliases = src.Aliases()
	}
	if len(projectAliases) == 0 && len(backendAliases) == 0 {
		return v, chain, nil
	}

	seen := make(map[string]bool, len(chain))
	for _, c := range chain {
		seen[c] = true
	}

	current := v
	for hop := 0; hop < maxAliasHops; hop++ {
		next, ok := projectAliases[current]
		if !ok {
			next, ok = backendAliases[current]
		}
		if !ok {
			return current, chain, nil
		}
		if seen[next] {
			return "", nil, fmt.Errorf("alias cycle detected resolving %q (hit %q again)", v, next)
		}
		seen[next] = true
		chain = append(chain, next)
		current = next
	}
	return "", nil, fmt.Errorf("alias chain resolving %q exceeds %d hops", v, maxAliasHops)
}

// latestStable picks the greatest version after excluding every entry
// that matches the unstable-suffix denylist.
func latestStable(versions []string) (string, error) {
	var stable []string
	for _, v := range versions {
		if !isUnstable(v) {
			stable = append(stable, v)
		}
	}
	if len(stable) == 0 {
		return "", fmt.Errorf("no stable versions available")
	}
	return pickGreatest(stable)
}

// matchPrefix builds ^<escaped v>([-.].+)?$ and picks the greatest
// matching entry, rejecting unstable suffixes unless v itself names
// one (spec's escape hatch for e.g. requesting "21-ea" explicitly).
func matchPrefix(v string, versions []string) (string, error) {
	pattern := "^" + regexp.QuoteMeta(v) + `([-.].+)?$`
	re, err := regexp.Compile(pattern)
	if err != nil {
		return "", fmt.Errorf("compile version match pattern: %w", err)
	}

	requestNamesUnstable := isUnstable(v)

	var matching []string
	for _, candidate := range versions {
		if !re.MatchString(candidate) {
			continue
		}
		if isUnstable(candidate) && !requestNamesUnstable {
			continue
		}
		matching = append(matching, candidate)
	}
	if len(matching) == 0 {
		return "", fmt.Errorf("no versions match %q", v)
	}
	return pickGreatest(matching)
}

func isUnstable(v string) bool {
	lower := strings.ToLower(v)
	for _, suffix := range unstableSuffixes {
		if strings.Contains(lower, suffix) {
			return true
		}
	}
	return false
}

// pickGreatest sorts candidates by semver when every entry parses as
// strict semver, falling back to the tolerant comparator otherwise.
// Ties break on longest match string, then lexicographically —
// spec's documented tie-break order.
func pickGreatest(candidates []string) (string, error) {
	sorted := make([]string, len(candidates))
	copy(sorted, candidates)

	sort.Slice(sorted, func(i, j int) bool {
		c := compareVersions(sorted[i], sorted[j])
		if c != 0 {
			return c > 0
		}
		if len(sorted[i]) != len(sorted[j]) {
			return len(sorted[i]) > len(sorted[j])
		}
		return sorted[i] > sorted[j]
	})
	return sorted[0], nil
}

// compareVersions tries strict semver first (coreos/go-semver) on the
// normalizeSemver form, which already pads bare majors and drops "+build"
// suffixes, then falls back to the tolerant comparator for inputs that
// still fail to parse (e.g. non-numeric components).
func compareVersions(a, b string) int {
	sa, errA := semver.NewVersion(normalizeSemver(a))
	sb, errB := semver.NewVersion(normalizeSemver(b))
	if errA == nil && errB == nil {
		return sa.Compare(*sb)
	}
	return compareTolerant(a, b)
}

// normalizeSemver pads bare "21" or "21.0" into "21.0.0" shaped input,
// since go-semver requires a full major.minor.patch triple.
func normalizeSemver(v string) string {
	v = strings.TrimPrefix(v, "v")
	parts := strings.SplitN(v, "+", 2)
	core := parts[0]
	dashParts := strings.SplitN(core, "-", 2)
	nums := strings.Split(dashParts[0], ".")
	for len(nums) < 3 {
		nums = append(nums, "0")
	}
	if len(nums) > 3 {
		nums = nums[:3]
	}
	out := strings.Join(nums, ".")
	if len(dashParts) > 1 {
		out += "-" + dashParts[1]
	}
	return out
}
