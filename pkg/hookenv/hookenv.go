package hookenv

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/mvxproject/mvxcore/pkg/envdiff"
)

// Input gathers everything a hook-env invocation needs beyond the
// previous session: the desired environment for cwd (already
// toolset-resolved by the caller — pkg/hookenv has no pkg/backend
// import, so it never resolves versions itself), and the config/watch
// files that were read to produce it.
type Input struct {
	Cwd           string
	Env           []string // current process environment, os.Environ() shape
	PrevSession   *Session
	DesiredEnv    map[string]string // env vars the resolved toolset wants set, PATH already merged in
	LoadedConfigs []string
	Watch         []WatchEntry
	ActiveTools   []string
}

// Output is what the hook-env command prints (shell-specific
// commands) plus the session blob to re-embed for the next invocation.
type Output struct {
	Script     string
	Session    Session
	FastPathed bool
}

// Run executes the full hook-env procedure: fast-path check, then (on
// a miss) reversal of the previous diff, application of the new diff,
// and a refreshed session.
func Run(shellType string, in Input) (Output, error) {
	envHash := HashMvxEnv(in.Env)

	if FastPathEligible(in.PrevSession, in.Cwd, envHash) {
		return Output{Script: "", Session: *in.PrevSession, FastPathed: true}, nil
	}

	before := envToMap(in.Env)
	after := make(map[string]string, len(before)+len(in.DesiredEnv))
	for k, v := range before {
		after[k] = v
	}
	for k, v := range in.DesiredEnv {
		after[k] = v
	}
	newDiff := envdiff.Compute(before, after)

	var b strings.Builder

	if in.PrevSession != nil && !in.PrevSession.Diff.IsEmpty() {
		reversal := reverseDiff(in.PrevSession.Diff, before)
		writeDiffCommands(&b, shellType, reversal)
	}

	writeDiffCommands(&b, shellType, newDiff)

	var maxMTime time.Time
	if in.PrevSession != nil {
		maxMTime = in.PrevSession.MaxWatchMTime
	}
	for _, w := range in.Watch {
		if w.MTime.After(maxMTime) {
			maxMTime = w.MTime
		}
	}

	sess := Session{
		PrevCwd:       in.Cwd,
		EnvHash:       envHash,
		LoadedConfigs: in.LoadedConfigs,
		ActiveTools:   in.ActiveTools,
		Diff:          newDiff,
		Watch:         in.Watch,
		MaxWatchMTime: maxMTime,
	}

	diffToken, err := envdiff.Encode(newDiff)
	if err != nil {
		return Output{}, fmt.Errorf("encode diff token: %w", err)
	}
	sessToken, err := EncodeSession(sess)
	if err != nil {
		return Output{}, fmt.Errorf("encode session token: %w", err)
	}

	writeSetVar(&b, shellType, "__MVX_DIFF", diffToken)
	writeSetVar(&b, shellType, "__MVX_SESSION", sessToken)

	return Output{Script: b.String(), Session: sess, FastPathed: false}, nil
}

func envToMap(env []string) map[string]string {
	m := make(map[string]string, len(env))
	for _, kv := range env {
		if k, v, ok := strings.Cut(kv, "="); ok {
			m[k] = v
		}
	}
	return m
}

// reverseDiff computes the diff that undoes a previously applied diff,
// given the environment as it stood before that diff was applied:
// anything the old diff Set now gets Unset (or restored to its
// pre-diff value if one existed and differs), and anything it Unset
// gets restored if currentBefore still has a value.
func reverseDiff(old envdiff.Diff, currentBefore map[string]string) envdiff.Diff {
	reversal := envdiff.Diff{Set: make(map[string]string)}
	for k := range old.Set {
		if orig, ok := currentBefore[k]; ok {
			reversal.Set[k] = orig
		} else {
			reversal.Unset = append(reversal.Unset, k)
		}
	}
	for _, k := range old.Unset {
		if orig, ok := currentBefore[k]; ok {
			reversal.Set[k] = orig
		}
	}
	sort.Strings(reversal.Unset)
	return reversal
}

func writeDiffCommands(b *strings.Builder, shellType string, d envdiff.Diff) {
	keys := make([]string, 0, len(d.Set))
	for k := range d.Set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		writeSetVar(b, shellType, k, d.Set[k])
	}

	unset := append([]string(nil), d.Unset...)
	sort.Strings(unset)
	for _, k := range unset {
		writeUnsetVar(b, shellType, k)
	}
}

func writeSetVar(b *strings.Builder, shellType, key, value string) {
	switch shellType {
	case "fish":
		fmt.Fprintf(b, "set -gx %s %q\n", key, value)
	case "powershell":
		fmt.Fprintf(b, "$env:%s = %q\n", key, value)
	default:
		fmt.Fprintf(b, "export %s=%q\n", key, value)
	}
}

func writeUnsetVar(b *strings.Builder, shellType, key string) {
	switch shellType {
	case "fish":
		fmt.Fprintf(b, "set -e %s\n", key)
	case "powershell":
		fmt.Fprintf(b, "Remove-Item Env:%s -ErrorAction SilentlyContinue\n", key)
	default:
		fmt.Fprintf(b, "unset %s\n", key)
	}
}
