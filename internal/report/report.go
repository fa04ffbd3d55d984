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

// Package report turns the orchestrator's finished mutation results
// into the console summary and optional JSON file output.
package report

import (
	"encoding/json"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/hako/durafmt"

	"github.com/mutantia/mutantia/internal/configuration"
	"github.com/mutantia/mutantia/internal/execution"
	"github.com/mutantia/mutantia/internal/log"
	"github.com/mutantia/mutantia/internal/mutation"
	"github.com/mutantia/mutantia/internal/outcome"
	"github.com/mutantia/mutantia/internal/report/internal"
)

var (
	fgRed      = color.New(color.FgRed).SprintFunc()
	fgGreen    = color.New(color.FgGreen).SprintFunc()
	fgHiGreen  = color.New(color.FgHiGreen).SprintFunc()
	fgHiBlack  = color.New(color.FgHiBlack).SprintFunc()
	fgHiYellow = color.New(color.FgYellow).SprintFunc()
)

// SiteResult is one mutation.Site together with the Outcome its test
// run resolved to and the file position it was found at.
type SiteResult struct {
	Operator mutation.Operator
	Outcome  outcome.Outcome
	Filename string
	Line     int
	Column   int
}

// Results contains every SiteResult from one mutation testing run, and
// the time it took to discover and test them.
type Results struct {
	Module  string
	Sites   []SiteResult
	Elapsed time.Duration
}

type reportStatus struct {
	files map[string][]internal.Mutation

	elapsed *durafmt.Durafmt
	module  string

	killed     int
	survived   int
	timedOut   int
	notCovered int
	notViable  int
	skipped    int

	operatorCounts map[string]int

	tEfficacy float64
	mCovered  float64
}

func newReport(results Results) (*reportStatus, bool) {
	if len(results.Sites) == 0 {
		return nil, false
	}
	rep := &reportStatus{
		module:         results.Module,
		elapsed:        durafmt.Parse(results.Elapsed).LimitFirstN(2),
		files:          make(map[string][]internal.Mutation),
		operatorCounts: make(map[string]int),
	}
	for _, s := range results.Sites {
		rep.files[s.Filename] = append(rep.files[s.Filename], internal.Mutation{
			Line:     s.Line,
			Column:   s.Column,
			Operator: s.Operator.String(),
			Outcome:  s.Outcome.String(),
		})

		reportOutcome(s.Outcome, rep)
		rep.operatorCounts[s.Operator.String()]++
	}
	if rep.killed > 0 {
		rep.tEfficacy = float64(rep.killed) / float64(rep.killed+rep.survived) * 100
	}
	if rep.killed+rep.survived > 0 {
		rep.mCovered = float64(rep.killed+rep.survived) / float64(rep.killed+rep.survived+rep.notCovered) * 100
	}

	return rep, true
}

func reportOutcome(o outcome.Outcome, rep *reportStatus) {
	switch o {
	case outcome.Killed:
		rep.killed++
	case outcome.Survived:
		rep.survived++
	case outcome.NotCovered:
		rep.notCovered++
	case outcome.Timeout:
		rep.timedOut++
	case outcome.BuildError:
		rep.notViable++
	case outcome.Skipped:
		rep.skipped++
	}
}

func (r *reportStatus) reportFindings() {
	log.Infoln("")
	log.Infof("Mutation testing completed in %s\n", r.elapsed.String())
	log.Infof("Killed: %s, Survived: %s, Not covered: %s\n",
		fgHiGreen(r.killed), fgRed(r.survived), fgHiYellow(r.notCovered))
	log.Infof("Timed out: %s, Build errors: %s, Skipped: %s\n",
		fgGreen(r.timedOut), fgHiBlack(r.notViable), r.skipped)
	log.Infof("Test efficacy: %.2f%%\n", r.tEfficacy)
	log.Infof("Mutation coverage: %.2f%%\n", r.mCovered)
	r.fileReport()
}

func (r *reportStatus) fileReport() {
	output := configuration.Get[string](configuration.MutateOutputKey)
	if output == "" {
		return
	}

	files := make([]internal.OutputFile, 0, len(r.files))
	for fName, mutations := range r.files {
		of := internal.OutputFile{Filename: fName}
		of.Mutations = append(of.Mutations, mutations...)
		files = append(files, of)
	}

	result := internal.OutputResult{
		GoModule:          r.module,
		TestEfficacy:      r.tEfficacy,
		MutationsCoverage: r.mCovered,
		MutantsTotal:      r.survived + r.killed + r.notViable,
		MutantsKilled:     r.killed,
		MutantsSurvived:   r.survived,
		MutantsNotViable:  r.notViable,
		MutantsNotCovered: r.notCovered,
		ElapsedTime:       r.elapsed.Duration().Seconds(),
		OperatorCounts:    r.operatorCounts,
		Files:             files,
	}

	jsonResult, _ := json.Marshal(result)
	f, err := os.Create(output)
	if err != nil {
		log.Errorf("impossible to write file: %s\n", err)

		return
	}
	defer func(f *os.File) { _ = f.Close() }(f)
	if _, err := f.Write(jsonResult); err != nil {
		log.Errorf("impossible to write file: %s\n", err)
	}
}

func (r *reportStatus) assess() error {
	et := configuration.Get[float64](configuration.MutateThresholdEfficacyKey)
	if et > 0 && r.tEfficacy < et {
		return execution.NewExitErr(execution.EfficacyThreshold)
	}
	ct := configuration.Get[float64](configuration.MutateThresholdMCoverageKey)
	if ct > 0 && r.mCovered < ct {
		return execution.NewExitErr(execution.MutantCoverageThreshold)
	}

	return nil
}

// Do generates the report of the Results received. It requires
// log.Init to have been called beforehand.
func Do(results Results) error {
	rep, ok := newReport(results)
	if !ok {
		log.Infoln("\nNo results to report.")

		return nil
	}
	rep.reportFindings()

	return rep.assess()
}

// Site logs a single SiteResult as it completes: its Outcome, Operator
// and position. Requires log.Init to have been called beforehand.
func Site(s SiteResult) {
	txt := s.Outcome.String()
	switch s.Outcome {
	case outcome.Killed:
		txt = fgHiGreen(txt)
	case outcome.Survived:
		txt = fgRed(txt)
	case outcome.NotCovered:
		txt = fgHiYellow(txt)
	case outcome.Timeout:
		txt = fgGreen(txt)
	case outcome.BuildError:
		txt = fgHiBlack(txt)
	}
	log.Infof("%s%s %s at %s:%d:%d\n", padding(s.Outcome), txt, s.Operator, s.Filename, s.Line, s.Column)
}

func padding(o outcome.Outcome) string {
	var pad string
	padLen := 14 - len(o.String())
	for i := 0; i < padLen; i++ {
		pad += " "
	}

	return pad
}
