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

package configuration

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/mutantia/mutantia/internal/mutation"
)

// This is the list of the keys available in config files and as flags.
const (
	MutantiaSilentKey           = "silent"
	MutateDryRunKey             = "mutate.dry-run"
	MutateOutputKey             = "mutate.output"
	MutateTagsKey               = "mutate.tags"
	MutateCoverPkgKey           = "mutate.coverpkg"
	MutateWorkersKey            = "mutate.workers"
	MutateTestCPUKey            = "mutate.test-cpu"
	MutateTimeoutCoefficientKey = "mutate.timeout-coefficient"
	MutateThresholdEfficacyKey  = "mutate.threshold.efficacy"
	MutateThresholdMCoverageKey = "mutate.threshold.mutant-coverage"
	MutateOutputStatusesKey     = "mutate.output-statuses"
	MutateExcludeFilesKey       = "mutate.exclude-files"
	MutateDiffRefKey            = "mutate.diff-ref"
)

const (
	mutantiaCfgName      = ".mutantia"
	mutantiaEnvVarPrefix = "MUTANTIA"

	xdgConfigHomeKey = "XDG_CONFIG_HOME"

	windowsOs = "windows"
)

// Init initializes the viper configuration for Mutantia.
//
// It sets the configuration file name as .mutantia.yaml, adds the passed paths as ConfigPaths
// AutomaticEnv configuration having MUTANTIA as prefix.
// The environment variables take precedence over the configuration file and must be set in the
// format:
//
//	MUTANTIA_<COMMAND NAME>_<FLAG NAME>
func Init(cPaths []string) error {
	replacer := strings.NewReplacer(".", "_", "-", "_")
	viper.SetEnvKeyReplacer(replacer)
	viper.SetEnvPrefix(mutantiaEnvVarPrefix)
	viper.AutomaticEnv()
	viper.SetConfigName(mutantiaCfgName)
	viper.SetConfigType("yaml")

	if isSpecificFile(cPaths) {
		viper.SetConfigFile(cPaths[0])
		err := viper.ReadInConfig()
		if err != nil {
			return err
		}
	} else if arePathsNotSet(cPaths) {
		cPaths = defaultConfigPaths()
	}

	for _, p := range cPaths {
		viper.AddConfigPath(p)
	}

	_ = viper.ReadInConfig() // ignoring error if file not present

	return nil
}

// OperatorEnabledKey returns the configuration key controlling whether
// a mutation.Operator is enabled. The generated key has the format
// "operators.operator-name.enabled", corresponding to the Yaml:
//
//	operators:
//	  operator-name:
//	    enabled: [bool]
func OperatorEnabledKey(op mutation.Operator) string {
	m := op.String()
	m = strings.ReplaceAll(m, "_", "-")
	m = strings.ToLower(m)

	return fmt.Sprintf("operators.%s.enabled", m)
}

func isSpecificFile(cPaths []string) bool {
	return len(cPaths) == 1 && filepath.Ext(cPaths[0]) != ""
}

func arePathsNotSet(cPaths []string) bool {
	return len(cPaths) == 0 || len(cPaths) == 1 && cPaths[0] == ""
}

func defaultConfigPaths() []string {
	result := make([]string, 0, 4)

	// First global config
	if runtime.GOOS != windowsOs {
		result = append(result, "/etc/mutantia")
	}

	// Then $XDG_CONFIG_HOME
	xchLocation, _ := homedir.Expand("~/.config")
	if x := os.Getenv(xdgConfigHomeKey); x != "" {
		xchLocation = x
	}
	xchLocation = filepath.Join(xchLocation, "mutantia", "mutantia")
	result = append(result, xchLocation)

	// Then $HOME
	homeLocation, err := homedir.Expand("~/.mutantia")
	if err != nil {
		return result
	}
	result = append(result, homeLocation)

	// Then the Go module root
	if root := findModuleRoot(); root != "" {
		result = append(result, root)
	}

	// Finally the current directory
	result = append(result, ".")

	return result
}

func findModuleRoot() string {
	// This function is duplicated from internal/gomodule. We should find a way
	// to use here gomodule. The problem is the point of initialization, because
	// configuration is initialised before gomodule.
	path, _ := os.Getwd()
	for {
		if fi, err := os.Stat(filepath.Join(path, "go.mod")); err == nil && !fi.IsDir() {
			return path
		}
		d := filepath.Dir(path)
		if d == path {
			break
		}
		path = d
	}

	return ""
}

var mutex sync.RWMutex

// Set offers synchronised access to Viper.
func Set[T any](k string, v T) {
	mutex.Lock()
	defer mutex.Unlock()
	viper.Set(k, v)
}

// Get offers synchronised access to Viper.
func Get[T any](k string) T {
	var r T
	mutex.RLock()
	defer mutex.RUnlock()
	r, _ = viper.Get(k).(T)

	return r
}

// Reset is used mainly for testing purposes, in order to clean up the Viper
// instance.
func Reset() {
	mutex.Lock()
	defer mutex.Unlock()
	viper.Reset()
}
