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

/*
Mutantia is a mutation testing tool for Go.

It introduces small syntactic perturbations ("mutants") into a package's
source files, re-runs the package's test suite against each perturbed
version, and classifies every mutant as KILLED, SURVIVED, TIMED OUT,
BUILD ERROR, NOT COVERED or SKIPPED. A surviving mutant flags a gap in
the test suite.

Usage

To execute a mutation test run, from the root of a Go module execute:

	$ mutantia mutate

If the Go test run needs build tags, they can be passed along:

	$ mutantia mutate --tags "tag1,tag2"

To discover mutation sites and report them as SKIPPED without actually
running the tests:

	$ mutantia mutate --dry-run

Mutantia will report each mutation as:
  - NOT COVERED: A mutation not covered by tests; it will not be tested.
  - SKIPPED: The mutation was filtered out before testing, or --dry-run
    is set.
  - KILLED: The mutation has been caught by the test suite.
  - SURVIVED: The mutation hasn't been caught by the test suite.
  - TIMED OUT: The tests timed out while testing the mutation.
  - BUILD ERROR: The mutation makes the build fail.

Configuration

Mutantia uses Viper (https://github.com/spf13/viper) for configuration.

The options can be passed in the following ways, in which each item
takes precedence over the following in the list:

  - specific command flags
  - environment variables
  - configuration file

The environment variables must be set with the following syntax:

	MUTANTIA_<COMMAND NAME>_<FLAG NAME>

in which every dash in the option name must be replaced with an underscore.

Example:

	$ MUTANTIA_MUTATE_DRY_RUN=true mutantia mutate

The configuration file must be named

	.mutantia.yaml

and must be in the following format:

	mutate:
	  dry-run: false
	  tags: ...

and can be placed in one of the following folders (in order):

  - /etc/mutantia (not on Windows)
  - $XDG_CONFIG_HOME/mutantia/mutantia (default ~/.config/mutantia/mutantia)
  - $HOME/.mutantia
  - the Go module root
  - the current folder
*/
package mutantia
