// Fast-path eligibility lives in its own file with no imports of
// pkg/backend or pkg/install, enforcing a "no backend or network code
// is reachable on this path" invariant: import analysis of this one
// file is enough to audit the property.
package hookenv

import (
	"os"
)

// FastPathEligible reports whether hook-env can exit immediately
// without recomputing anything: same directory, same loaded configs,
// no watched path touched, and the MVX_* environment hash unchanged.
// envHash is the caller-computed HashMvxEnv of the current environment;
// this function only compares it against what the session recorded.
func FastPathEligible(sess *Session, cwd, envHash string) bool {
	if sess == nil {
		return false
	}
	if sess.PrevCwd != cwd {
		return false
	}
	if sess.EnvHash != envHash {
		return false
	}
	for _, watched := range sess.Watch {
		info, err := os.Stat(watched.Path)
		if err != nil {
			return false
		}
		if info.ModTime().After(sess.MaxWatchMTime) {
			return false
		}
	}
	for _, cfgPath := range sess.LoadedConfigs {
		if _, err := os.Stat(cfgPath); err != nil {
			return false
		}
	}
	return true
}
