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

package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mutantia/mutantia/cmd/internal/flags"
	"github.com/mutantia/mutantia/internal/configuration"
	"github.com/mutantia/mutantia/internal/coverage"
	"github.com/mutantia/mutantia/internal/diff"
	"github.com/mutantia/mutantia/internal/exclusion"
	"github.com/mutantia/mutantia/internal/fanout"
	"github.com/mutantia/mutantia/internal/gomodule"
	"github.com/mutantia/mutantia/internal/log"
	"github.com/mutantia/mutantia/internal/mutation"
	"github.com/mutantia/mutantia/internal/orchestrator"
	"github.com/mutantia/mutantia/internal/outcome"
	"github.com/mutantia/mutantia/internal/report"
	"github.com/mutantia/mutantia/internal/runner"
)

type mutateCmd struct {
	cmd *cobra.Command
}

const (
	commandName = "mutate"

	paramBuildTags          = "tags"
	paramDryRun             = "dry-run"
	paramOutput             = "output"
	paramCoverPkg           = "coverpkg"
	paramTestCPU            = "test-cpu"
	paramWorkers            = "workers"
	paramTimeoutCoefficient = "timeout-coefficient"
	paramDiffRef            = "diff-ref"
	paramExcludeFiles       = "exclude-files"

	// Thresholds.
	paramThresholdEfficacy  = "threshold-efficacy"
	paramThresholdMCoverage = "threshold-mcover"

	// buildFirstSampleSize and buildFirstErrorRatio are the fixed
	// parameters of the build-first adaptive mode: once a package has
	// processed this many mutations with at least this fraction of
	// them failing to build, the Orchestrator switches to building
	// once per mutation and reusing that result across the retry loop.
	buildFirstSampleSize = 10
	buildFirstErrorRatio = 0.5

	// runnerTimeoutCeiling bounds the `go test -timeout` flag passed to
	// every test invocation. The Orchestrator derives the real,
	// baseline-scaled per-mutation timeout and enforces it through the
	// context it passes to Run, so this only needs to be generous
	// enough never to fire first.
	runnerTimeoutCeiling = 600 * time.Second
)

func newMutateCmd(ctx context.Context) (*mutateCmd, error) {
	cmd := &cobra.Command{
		Use:     fmt.Sprintf("%s [path]", commandName),
		Aliases: []string{"run", "r"},
		Args:    cobra.MaximumNArgs(1),
		Short:   "Perform mutation testing on a Go module",
		Long:    longExplainer(),
		RunE:    runMutate(ctx),
	}

	if err := setFlagsOnCmd(cmd); err != nil {
		return nil, err
	}

	return &mutateCmd{cmd: cmd}, nil
}

func longExplainer() string {
	return heredoc.Doc(`
		Performs mutation testing on a Go module. It works by first gathering the
		coverage of the test suite and then analysing the source code to look for
		supported mutations.

		Mutate only tests covered mutations, since it doesn't make sense to test
		mutations that no test case is able to observe.

		In 'dry-run' mode, mutate only performs the analysis of the source code and
		reports every runnable site as skipped, without actually running the tests.

		Thresholds are configurable quality gates that make mutate exit with an error
		if those values are not met. Efficacy is the percent of KILLED mutants over
		the total KILLED and SURVIVED mutants. Mutant coverage is the percent of
		total KILLED + SURVIVED mutants over the total KILLED, SURVIVED and
		NOT COVERED mutants.
	`)
}

func runMutate(ctx context.Context) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		log.Infoln("Starting...")

		path, originalWd, err := changePath(args, os.Chdir, os.Getwd)
		if err != nil {
			return fmt.Errorf("impossible to change path: %w", err)
		}
		defer func() { _ = os.Chdir(originalWd) }()

		mod, err := gomodule.Init(path)
		if err != nil {
			return fmt.Errorf("not in a Go module: %w", err)
		}

		workDir, err := os.MkdirTemp(os.TempDir(), "mutantia-")
		if err != nil {
			return fmt.Errorf("impossible to create the workdir: %w", err)
		}
		defer cleanUp(workDir)

		wg := &sync.WaitGroup{}
		wg.Add(1)
		cancelled := false
		var results report.Results
		go runWithCancel(ctx, wg, func(c context.Context) {
			results, err = run(c, mod, workDir)
		}, func() {
			cancelled = true
		})
		wg.Wait()
		if err != nil {
			return err
		}
		if cancelled {
			return nil
		}

		return report.Do(results)
	}
}

func runWithCancel(ctx context.Context, wg *sync.WaitGroup, runner func(c context.Context), onCancel func()) {
	c, cancel := context.WithCancel(ctx)
	go func() {
		<-ctx.Done()
		log.Infof("\nShutting down gracefully...\n")
		cancel()
		onCancel()
	}()
	runner(c)
	wg.Done()
}

func cleanUp(wd string) {
	if err := os.RemoveAll(wd); err != nil {
		log.Errorf("impossible to remove temporary folder: %s\n\t%s", err, wd)
	}
}

// changePath resolves the path argument passed to mutate: with no
// argument it leaves the process where it is and operates on ".";
// with one, it chdirs into it first, so every downstream collaborator
// (gomodule, coverage, go test) can assume the module root is the
// current directory. It returns the working directory active before
// the chdir, so the caller can restore it once the run finishes.
func changePath(args []string, chdir func(string) error, getwd func() (string, error)) (path, originalWd string, err error) {
	originalWd, err = getwd()
	if err != nil {
		return "", "", err
	}

	if len(args) > 0 {
		if err := chdir(args[0]); err != nil {
			return "", "", err
		}
	}

	return ".", originalWd, nil
}

func run(ctx context.Context, mod gomodule.GoModule, workDir string) (report.Results, error) {
	buildTags := configuration.Get[string](configuration.MutateTagsKey)
	coverPkg := configuration.Get[string](configuration.MutateCoverPkgKey)
	if coverPkg == "" {
		coverPkg = "./..."
	}

	cr := coverage.NewRunner(workDir, buildTags)
	profile, err := cr.Gather(ctx, coverPkg, mod.Root, mod.Name)
	if err != nil {
		return report.Results{}, fmt.Errorf("failed to gather coverage: %w", err)
	}

	d, err := diff.New()
	if err != nil {
		return report.Results{}, fmt.Errorf("failed to compute diff restriction: %w", err)
	}

	excl, err := exclusion.New()
	if err != nil {
		return report.Results{}, fmt.Errorf("failed to compile exclusion rules: %w", err)
	}

	testCPU := configuration.Get[int](configuration.MutateTestCPUKey)
	tr := runner.NewGoTestRunner(runnerTimeoutCeiling, buildTags, testCPU)

	orchOpts := []orchestrator.Option{
		orchestrator.WithCoverage(profile),
		orchestrator.WithProgress(newProgressSink()),
		orchestrator.WithBuildFirst(buildFirstSampleSize, buildFirstErrorRatio),
	}
	if m := configuration.Get[float64](configuration.MutateTimeoutCoefficientKey); m > 0 {
		orchOpts = append(orchOpts, orchestrator.WithTimeoutMultiplier(m))
	}

	var runnerForOrch runner.TestRunner = tr
	if configuration.Get[bool](configuration.MutateDryRunKey) {
		runnerForOrch = dryRunRunner{}
	}
	orch := orchestrator.New(runnerForOrch, orchOpts...)

	workers := configuration.Get[int](configuration.MutateWorkersKey)

	driver := fanout.New(mod, orch, fanout.CodeData{Diff: d, Exclusion: excl}, workers,
		fanout.WithDiscovererOptions(mutation.WithEnabled(isOperatorEnabled)))

	return driver.Run(ctx), nil
}

// isOperatorEnabled consults the per-operator configuration key. Every
// operator flag is registered with its compiled-in default value
// (configuration.IsDefaultEnabled) and bound to viper by
// flags.Set, so an unset flag/config/env value already resolves to
// that default without any extra fallback here.
func isOperatorEnabled(op mutation.Operator) bool {
	return configuration.Get[bool](configuration.OperatorEnabledKey(op))
}

// dryRunRunner satisfies runner.TestRunner and runner.BaselineRunner
// without ever shelling out: a dry run only needs the Orchestrator to
// walk discovery and filtering, so the baseline always "passes"
// instantly and every runnable site is reported Skipped rather than
// actually exercised.
type dryRunRunner struct{}

func (dryRunRunner) Run(context.Context, string, string) (outcome.Outcome, error) {
	return outcome.Skipped, nil
}

func (dryRunRunner) Baseline(context.Context, string, string) error {
	return nil
}

// progressSink adapts the Orchestrator's lifecycle events onto the
// per-mutation console line; CandidateSitesDiscovered and the
// baseline events are intentionally silent, keeping stdout terse. The
// embedded SiteLogger applies the mutate.output-statuses filter, so a
// configured subset of outcomes (e.g. "kr" for killed/survived only)
// suppresses the rest.
type progressSink struct {
	report.SiteLogger
}

func newProgressSink() progressSink {
	return progressSink{SiteLogger: report.NewLogger()}
}

func (progressSink) CandidateSitesDiscovered(int) {}

func (progressSink) BaselineStarted(string) {}

func (progressSink) BaselineFinished(time.Duration, bool) {}

func (p progressSink) MutationEvaluated(_, _ int, site mutation.Site, o outcome.Outcome) {
	p.Site(report.SiteResult{
		Operator: site.Operator,
		Outcome:  o,
		Line:     site.Line,
		Column:   site.Column,
	})
}

func setFlagsOnCmd(cmd *cobra.Command) error {
	cmd.Flags().SortFlags = false
	cmd.Flags().SetNormalizeFunc(func(f *pflag.FlagSet, name string) pflag.NormalizedName {
		from := []string{".", "_"}
		to := "-"
		for _, sep := range from {
			name = strings.ReplaceAll(name, sep, to)
		}

		return pflag.NormalizedName(name)
	})

	fls := []*flags.Flag{
		{Name: paramDryRun, CfgKey: configuration.MutateDryRunKey, Shorthand: "d", DefaultV: false, Usage: "find mutations but do not execute tests"},
		{Name: paramBuildTags, CfgKey: configuration.MutateTagsKey, Shorthand: "t", DefaultV: "", Usage: "a comma-separated list of build tags"},
		{Name: paramOutput, CfgKey: configuration.MutateOutputKey, Shorthand: "o", DefaultV: "", Usage: "set the output file for machine readable results"},
		{Name: paramCoverPkg, CfgKey: configuration.MutateCoverPkgKey, DefaultV: "", Usage: "the package pattern passed to -coverpkg (defaults to ./...)"},
		{Name: paramThresholdEfficacy, CfgKey: configuration.MutateThresholdEfficacyKey, DefaultV: float64(0), Usage: "threshold for code-efficacy percent"},
		{Name: paramThresholdMCoverage, CfgKey: configuration.MutateThresholdMCoverageKey, DefaultV: float64(0), Usage: "threshold for mutant-coverage percent"},
		{Name: paramTimeoutCoefficient, CfgKey: configuration.MutateTimeoutCoefficientKey, DefaultV: float64(0), Usage: "the coefficient by which the timeout is increased over the baseline"},
		{Name: paramDiffRef, CfgKey: configuration.MutateDiffRefKey, DefaultV: "", Usage: "restrict mutation to lines changed since this git ref"},
		{Name: paramWorkers, CfgKey: configuration.MutateWorkersKey, DefaultV: 0, Usage: "the number of workers to use in mutation testing"},
		{Name: paramTestCPU, CfgKey: configuration.MutateTestCPUKey, DefaultV: 0, Usage: "the number of CPUs to allow each test run to use"},
		{Name: paramExcludeFiles, CfgKey: configuration.MutateExcludeFilesKey, DefaultV: []string{}, Usage: "a comma-separated list of regexes for files to exclude from mutation"},
	}

	for _, f := range fls {
		err := flags.Set(cmd, f)
		if err != nil {
			return err
		}
	}

	return setOperatorFlags(cmd)
}

func setOperatorFlags(cmd *cobra.Command) error {
	for _, op := range mutation.Operators {
		name := op.String()
		usage := fmt.Sprintf("enable %q mutations", name)
		param := strings.ReplaceAll(name, "_", "-")
		param = strings.ToLower(param)
		confKey := configuration.OperatorEnabledKey(op)

		err := flags.Set(cmd, &flags.Flag{
			Name:     param,
			CfgKey:   confKey,
			DefaultV: configuration.IsDefaultEnabled(op),
			Usage:    usage,
		})
		if err != nil {
			return err
		}
	}

	return nil
}
