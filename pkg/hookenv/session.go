// Package hookenv implements the shell hook-env fast path: a session
// round-trips through two environment-embedded blobs, __MVX_DIFF and
// __MVX_SESSION (the watch list travels inside the session; no separate
// __MVX_WATCH variable is written, though deactivation unsets that name
// too), and on every prompt the shell re-invokes `mvx hook-env`, which
// either does nothing (fast path) or recomputes the environment for the
// new directory.
package hookenv

import (
	"time"

	"github.com/mvxproject/mvxcore/pkg/envdiff"
)

// WatchEntry is one file hook-env watches for changes: a loaded
// config file, or an idiomatic version file that could appear later.
type WatchEntry struct {
	Path  string
	MTime time.Time
}

// Session is the serialized state carried between hook-env
// invocations in the same shell, round-tripped through environment
// variables via the C3 env-diff codec.
type Session struct {
	PrevCwd       string
	EnvHash       string
	LoadedConfigs []string
	ActiveTools   []string
	Diff          envdiff.Diff
	Watch         []WatchEntry
	MaxWatchMTime time.Time
}

// wireSession is Session's msgpack-friendly shape: it picks field tags
// and stores each time as Unix nanoseconds (0 for the zero time), so a
// decoded mtime compares equal to the file's own nanosecond mtime.
type wireSession struct {
	PrevCwd       string           `msgpack:"prev_cwd"`
	EnvHash       string           `msgpack:"env_hash"`
	LoadedConfigs []string         `msgpack:"loaded_configs"`
	ActiveTools   []string         `msgpack:"active_tools"`
	Diff          envdiff.Diff     `msgpack:"diff"`
	Watch         []wireWatchEntry `msgpack:"watch"`
	MaxWatchMTime int64            `msgpack:"max_watch_mtime"`
}

type wireWatchEntry struct {
	Path  string `msgpack:"path"`
	MTime int64  `msgpack:"mtime"`
}

func toWire(s Session) wireSession {
	watch := make([]wireWatchEntry, len(s.Watch))
	for i, w := range s.Watch {
		watch[i] = wireWatchEntry{Path: w.Path, MTime: toWireTime(w.MTime)}
	}
	return wireSession{
		PrevCwd:       s.PrevCwd,
		EnvHash:       s.EnvHash,
		LoadedConfigs: s.LoadedConfigs,
		ActiveTools:   s.ActiveTools,
		Diff:          s.Diff,
		Watch:         watch,
		MaxWatchMTime: toWireTime(s.MaxWatchMTime),
	}
}

func toWireTime(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}

func fromWireTime(n int64) time.Time {
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n)
}

func fromWire(w wireSession) Session {
	watch := make([]WatchEntry, len(w.Watch))
	for i, e := range w.Watch {
		watch[i] = WatchEntry{Path: e.Path, MTime: fromWireTime(e.MTime)}
	}
	return Session{
		PrevCwd:       w.PrevCwd,
		EnvHash:       w.EnvHash,
		LoadedConfigs: w.LoadedConfigs,
		ActiveTools:   w.ActiveTools,
		Diff:          w.Diff,
		Watch:         watch,
		MaxWatchMTime: fromWireTime(w.MaxWatchMTime),
	}
}
