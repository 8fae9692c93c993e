// Package install implements the dependency-graph-ordered parallel
// install engine: compute what's missing, topologically order it by
// backend dependency, and install each level concurrently using
// sourcegraph/conc's structured pool, plus pkg/fsx's
// install-completeness marker lifecycle for resumability.
package install

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/mvxproject/mvxcore/pkg/backend"
	"github.com/mvxproject/mvxcore/pkg/config"
	"github.com/mvxproject/mvxcore/pkg/fsx"
)

// Options configures a Run.
type Options struct {
	Jobs        int  // 0 means DefaultJobs()
	Force       bool // reinstall even if already complete
	MissingOnly bool // skip anything already installed, the default behavior
	DryRun      bool // compute the plan, install nothing
	LockTimeout int  // seconds; 0 means fsx's blocking-forever default
}

// DefaultJobs is the host's CPU count capped at 4 (and at least 1).
func DefaultJobs() int {
	n := runtime.NumCPU()
	if n > 4 {
		return 4
	}
	if n < 1 {
		return 1
	}
	return n
}

// Item is one resolved tool ready to install.
type Item struct {
	Tool       string
	Backend    backend.Backend
	InstallDir string
	Version    string
	Spec       config.ToolSpec
	DependsOn  []string // tool names this item's backend depends on (e.g. cargo-family depends on "cargo")
}

// Result records the outcome of installing (or skipping) one Item.
type Result struct {
	Tool    string
	Skipped bool
	Err     error
}

// Run installs every item in items, honoring DependsOn ordering:
// items with no unresolved dependency install in parallel up to
// opts.Jobs; each level completes before the next starts so a
// dependency is always ready before its dependents run.
func Run(ctx context.Context, items []Item, opts Options) ([]Result, error) {
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = DefaultJobs()
	}

	levels, err := topoLevels(items)
	if err != nil {
		return nil, err
	}

	var mu sync.Mutex
	results := make([]Result, 0, len(items))

	for _, level := range levels {
		p := pool.New().WithContext(ctx).WithMaxGoroutines(jobs)
		for _, item := range level {
			item := item
			p.Go(func(ctx context.Context) error {
				res := installOne(ctx, item, opts)
				mu.Lock()
				results = append(results, res)
				mu.Unlock()
				return nil
			})
		}
		if err := p.Wait(); err != nil {
			return results, err
		}
	}

	return results, nil
}

func installOne(ctx context.Context, item Item, opts Options) Result {
	if !opts.Force && fsx.IsComplete(item.InstallDir) {
		return Result{Tool: item.Tool, Skipped: true}
	}
	if opts.DryRun {
		return Result{Tool: item.Tool, Skipped: true}
	}

	lock := fsx.NewLock(item.InstallDir + ".lock")
	if err := lock.Acquire(time.Duration(opts.LockTimeout) * time.Second); err != nil {
		return Result{Tool: item.Tool, Err: fmt.Errorf("acquire install lock: %w", err)}
	}
	defer lock.Release()

	// Another process may have finished this exact install while we
	// were waiting for the lock; re-check now that we hold it instead
	// of reinstalling over a completed version.
	if !opts.Force && fsx.IsComplete(item.InstallDir) {
		return Result{Tool: item.Tool, Skipped: true}
	}

	if err := fsx.BeginInstall(item.InstallDir); err != nil {
		return Result{Tool: item.Tool, Err: fmt.Errorf("begin install: %w", err)}
	}

	if err := item.Backend.Install(ctx, item.InstallDir, item.Version, item.Spec); err != nil {
		return Result{Tool: item.Tool, Err: fmt.Errorf("install %s %s: %w", item.Tool, item.Version, err)}
	}

	if err := item.Backend.Verify(ctx, item.InstallDir, item.Version); err != nil {
		return Result{Tool: item.Tool, Err: fmt.Errorf("verify %s %s: %w", item.Tool, item.Version, err)}
	}

	if err := fsx.FinishInstall(item.InstallDir); err != nil {
		return Result{Tool: item.Tool, Err: fmt.Errorf("finish install: %w", err)}
	}

	return Result{Tool: item.Tool}
}

// topoLevels groups items into dependency levels: level 0 has no
// DependsOn (or deps outside this batch), level 1 depends only on
// level 0 tools, and so on. Returns an error on a dependency cycle.
func topoLevels(items []Item) ([][]Item, error) {
	byTool := make(map[string]Item, len(items))
	for _, it := range items {
		byTool[it.Tool] = it
	}

	resolved := make(map[string]bool)
	var levels [][]Item
	remaining := make([]Item, len(items))
	copy(remaining, items)

	for len(remaining) > 0 {
		var level []Item
		var next []Item

		for _, it := range remaining {
			ready := true
			for _, dep := range it.DependsOn {
				if _, inBatch := byTool[dep]; !inBatch {
					continue // dependency not part of this install batch, assume already satisfied
				}
				if !resolved[dep] {
					ready = false
					break
				}
			}
			if ready {
				level = append(level, it)
			} else {
				next = append(next, it)
			}
		}

		if len(level) == 0 {
			return nil, fmt.Errorf("dependency cycle detected among: %s", toolNames(next))
		}

		for _, it := range level {
			resolved[it.Tool] = true
		}
		levels = append(levels, level)
		remaining = next
	}

	return levels, nil
}

func toolNames(items []Item) string {
	names := make([]string, len(items))
	for i, it := range items {
		names[i] = it.Tool
	}
	return fmt.Sprintf("%v", names)
}
