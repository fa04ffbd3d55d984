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

package coverage

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"golang.org/x/tools/cover"
)

// ExecContext launches the coverage-gathering `go test` invocation;
// overridable for tests.
type ExecContext = func(ctx context.Context, name string, args ...string) *exec.Cmd

// Runner gathers a Profile by running `go test -coverprofile` once for
// a package before any mutation is applied.
type Runner struct {
	ExecContext ExecContext
	WorkDir     string
	BuildTags   string
}

// NewRunner builds a Runner using exec.CommandContext.
func NewRunner(workDir, buildTags string) *Runner {
	return &Runner{ExecContext: exec.CommandContext, WorkDir: workDir, BuildTags: buildTags}
}

// Gather runs the coverage command for pkg and parses the resulting
// profile into a Profile, keyed by file path relative to modRoot.
func (r *Runner) Gather(ctx context.Context, pkg, modRoot, modName string) (Profile, error) {
	profilePath := r.WorkDir + "/coverage.out"
	args := []string{"test"}
	if r.BuildTags != "" {
		args = append(args, "-tags", r.BuildTags)
	}
	args = append(args, "-cover", "-coverprofile", profilePath, pkg)

	cmd := r.ExecContext(ctx, "go", args...)
	cmd.Dir = modRoot
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("coverage: running go test -cover: %w", err)
	}

	profiles, err := cover.ParseProfiles(profilePath)
	if err != nil {
		return nil, fmt.Errorf("coverage: parsing profile: %w", err)
	}

	out := make(Profile)
	for _, p := range profiles {
		fn := trimModulePrefix(p.FileName, modName)
		for _, b := range p.Blocks {
			if b.Count == 0 {
				continue
			}
			out[fn] = append(out[fn], Block{
				StartLine: b.StartLine,
				StartCol:  b.StartCol,
				EndLine:   b.EndLine,
				EndCol:    b.EndCol,
			})
		}
	}

	return out, nil
}

func trimModulePrefix(filename, modName string) string {
	prefix := modName + "/"
	if len(filename) > len(prefix) && filename[:len(prefix)] == prefix {
		return filename[len(prefix):]
	}

	return filename
}
