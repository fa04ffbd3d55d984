/*
 * Copyright 2022 The Gremlins Authors
 *
 *    Licensed under the Apache License, Version 2.0 (the "License");
 *    you may not use this file except in compliance with the License.
 *    You may obtain a copy of the License at
 *
 *        http://www.apache.org/licenses/LICENSE-2.0
 *
 *    Unless required by applicable law or agreed to in writing, software
 *    distributed under the License is distributed on an "AS IS" BASIS,
 *    WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *    See the License for the specific language governing permissions and
 *    limitations under the License.
 */

// Package fanout is the multi-file driver: it walks a module's package
// tree with fs.WalkDir and invokes the single-threaded
// internal/orchestrator.Orchestrator concurrently across files
// through a worker pool. Concurrency lives here, never inside the
// per-file Orchestrator itself: each file owns its own Source File
// Manager, so two files mutating at once never collide, but two
// mutations of the *same* file always would.
package fanout

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/mutantia/mutantia/internal/diff"
	"github.com/mutantia/mutantia/internal/exclusion"
	"github.com/mutantia/mutantia/internal/gomodule"
	"github.com/mutantia/mutantia/internal/log"
	"github.com/mutantia/mutantia/internal/mutation"
	"github.com/mutantia/mutantia/internal/orchestrator"
	"github.com/mutantia/mutantia/internal/report"
)

// CodeData bundles the per-run collaborators that decide which sites
// within a file are worth mutating at all.
type CodeData struct {
	Diff      diff.Diff
	Exclusion exclusion.Rules
}

// Driver walks a module and runs the Orchestrator over every eligible
// file concurrently, aggregating the per-file MutationReports into a
// single report.Results.
type Driver struct {
	module  gomodule.GoModule
	orch    *orchestrator.Orchestrator
	data    CodeData
	fsys    fs.FS
	workers int
	loader  gomodule.PackageLoader

	discovererOptions []mutation.Option
}

// Option configures a Driver.
type Option func(*Driver)

// WithFS overrides the fs.FS walked to discover files, mainly for
// testing.
func WithFS(fsys fs.FS) Option {
	return func(d *Driver) { d.fsys = fsys }
}

// WithDiscovererOptions forwards mutation.Discoverer options (e.g.
// mutation.WithDictionary, mutation.WithEnabled) to every per-file
// Orchestrator.Run call.
func WithDiscovererOptions(opts ...mutation.Option) Option {
	return func(d *Driver) { d.discovererOptions = opts }
}

// WithPackageLoader overrides the gomodule.PackageLoader used to
// resolve each file's import path, mainly for testing.
func WithPackageLoader(l gomodule.PackageLoader) Option {
	return func(d *Driver) { d.loader = l }
}

// New builds a Driver for mod, running orch across up to workers files
// at once.
func New(mod gomodule.GoModule, orch *orchestrator.Orchestrator, data CodeData, workers int, opts ...Option) *Driver {
	if workers < 1 {
		workers = 1
	}
	d := &Driver{
		module:  mod,
		orch:    orch,
		data:    data,
		workers: workers,
		fsys:    os.DirFS(filepath.Join(mod.Root, mod.CallingDir)),
		loader:  gomodule.Loader{},
	}
	for _, opt := range opts {
		opt(d)
	}

	return d
}

type fileResult struct {
	report orchestrator.MutationReport
	err    error
}

// Run walks the module tree and runs the Orchestrator over every
// eligible .go file, in parallel, returning the aggregated
// report.Results. A per-file Orchestrator error is logged and that
// file is excluded from the aggregate rather than aborting the whole
// run — one broken package should not hide every other file's results.
func (d *Driver) Run(ctx context.Context) report.Results {
	start := time.Now()

	var paths []string
	_ = fs.WalkDir(d.fsys, ".", func(path string, entry fs.DirEntry, _ error) error {
		if entry == nil || entry.IsDir() {
			return nil
		}
		if filepath.Ext(path) != ".go" || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		if d.data.Exclusion.IsFileExcluded(path) {
			return nil
		}
		paths = append(paths, path)

		return nil
	})

	results := make([]fileResult, len(paths))
	pool := newPool(d.workers)
	pool.start()

	var wg sync.WaitGroup
	for i, p := range paths {
		i, p := i, p
		wg.Add(1)
		pool.submit(taskFunc(func(string) {
			defer wg.Done()
			results[i] = d.runFile(ctx, p)
		}))
	}
	wg.Wait()
	pool.stop()

	return d.aggregate(results, start)
}

func (d *Driver) runFile(ctx context.Context, relPath string) fileResult {
	absPath := filepath.Join(d.module.Root, d.module.CallingDir, relPath)
	pkg := d.pkgPath(ctx, absPath, relPath)
	modRelPath := filepath.ToSlash(filepath.Join(d.module.CallingDir, relPath))

	req := orchestrator.Request{
		SourcePath:        absPath,
		PackagePath:       pkg,
		Dir:               d.module.Root,
		CoverageFile:      modRelPath,
		DiscovererOptions: d.discovererOptions,
	}
	if d.data.Diff != nil {
		if lines, err := d.linesFor(absPath, modRelPath); err == nil {
			req.Lines = lines
		}
	}

	rep, err := d.orch.Run(ctx, req)
	if err != nil {
		log.Errorf("skipping %s: %v\n", relPath, err)
	}

	return fileResult{report: rep, err: err}
}

// linesFor builds the linesRestriction set phase 5 consults: every
// line of the file the configured diff.Diff marks as changed. A nil
// Diff (the common case, no --diff-ref configured) means Driver never
// calls this, so every site stays runnable.
func (d *Driver) linesFor(absPath, modRelPath string) (map[int]struct{}, error) {
	src, err := os.ReadFile(absPath)
	if err != nil {
		return nil, err
	}

	lines := make(map[int]struct{})
	scanner := bufio.NewScanner(bytes.NewReader(src))
	for line := 1; scanner.Scan(); line++ {
		pos := token.Position{Filename: modRelPath, Line: line}
		if d.data.Diff.IsChanged(pos) {
			lines[line] = struct{}{}
		}
	}

	return lines, scanner.Err()
}

// pkgPath resolves the Go import path of the package containing
// the directory of absPath via the PackageLoader (golang.org/x/tools/go/packages), the
// same resolution the `go` toolchain itself performs. If the loader
// can't resolve it — no loader configured, or the directory isn't
// loadable in the sandbox fanout runs tests in — it falls back to
// gluing the module name onto the file's module-relative directory,
// which is correct for any file that isn't behind a build tag or
// otherwise hidden from the default build list.
func (d *Driver) pkgPath(ctx context.Context, absPath, relPath string) string {
	if d.loader != nil {
		if pkg, err := d.loader.PackagePath(ctx, filepath.Dir(absPath)); err == nil {
			return pkg
		}
	}

	fn := filepath.Join(d.module.CallingDir, relPath)
	p := filepath.Dir(fn)

	return normalisePkgPath(fmt.Sprintf("%s/%s", d.module.Name, p))
}

func normalisePkgPath(pkg string) string {
	sep := string(os.PathSeparator)

	return strings.ReplaceAll(pkg, sep, "/")
}

func (d *Driver) aggregate(results []fileResult, start time.Time) report.Results {
	var sites []report.SiteResult
	for _, fr := range results {
		if fr.err != nil {
			continue
		}
		for _, mr := range fr.report.Results {
			sites = append(sites, report.SiteResult{
				Operator: mr.Site.Operator,
				Outcome:  mr.Outcome,
				Filename: fr.report.File,
				Line:     mr.Site.Line,
				Column:   mr.Site.Column,
			})
		}
	}

	return report.Results{
		Module:  d.module.Name,
		Sites:   sites,
		Elapsed: time.Since(start),
	}
}
