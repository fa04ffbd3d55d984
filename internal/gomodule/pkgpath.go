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

package gomodule

import (
	"context"
	"fmt"

	"golang.org/x/tools/go/packages"
)

// PackageLoader resolves the fully qualified import path of the
// package living in dir. The orchestrator needs this for its
// PackagePath input and so does the Test Runner: `go test` wants an
// import path or pattern, not a filesystem path.
type PackageLoader interface {
	PackagePath(ctx context.Context, dir string) (string, error)
}

// Loader is the default PackageLoader, backed by
// golang.org/x/tools/go/packages — the same loader `gopls` and
// `go vet` use to resolve patterns to packages, rather than
// reconstructing an import path by gluing the module name to a
// relative directory.
type Loader struct{}

// PackagePath asks the x/tools package loader for the import path of
// the package in dir.
func (Loader) PackagePath(ctx context.Context, dir string) (string, error) {
	cfg := &packages.Config{
		Context: ctx,
		Mode:    packages.NeedName,
		Dir:     dir,
	}
	pkgs, err := packages.Load(cfg, ".")
	if err != nil {
		return "", fmt.Errorf("gomodule: loading package in %s: %w", dir, err)
	}
	if len(pkgs) == 0 {
		return "", fmt.Errorf("gomodule: no package found in %s", dir)
	}
	pkg := pkgs[0]
	if len(pkg.Errors) > 0 {
		return "", fmt.Errorf("gomodule: %s: %v", dir, pkg.Errors[0])
	}
	if pkg.PkgPath == "" {
		return "", fmt.Errorf("gomodule: empty import path resolved for %s", dir)
	}

	return pkg.PkgPath, nil
}
