// Copyright 2018, RadiantBlue Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"

	cli "gopkg.in/urfave/cli.v1"
)

const version = "1.0.0"

var commands = cli.Commands{
	cli.Command{
		Name:    "process",
		Aliases: []string{"p"},
		Usage:   "Run the yearly compositing pipeline for the configured AOIs",
		Flags:   processFlags,
		Action:  processAction,
	},
	cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Launch the bf-scene-composer webserver",
		Action:  serveAction,
	},
	cli.Command{
		Name:    "ingest",
		Aliases: []string{"i"},
		Usage:   "Update the local scene index from the remote catalog",
		Flags:   ingestFlags,
		Action:  ingestScheduleAction,
	},
	cli.Command{
		Name:    "migrate",
		Aliases: []string{"m"},
		Usage:   "Update database schema",
		Action:  migrateDatabaseAction,
	},
	cli.Command{
		Name:    "version",
		Aliases: []string{"v"},
		Usage:   "Print the version number of the composer CLI",
		Action:  versionAction,
	},
}

func versionAction(c *cli.Context) {
	fmt.Println(version)
}

func createCliApp() (app *cli.App) {
	app = cli.NewApp()
	app.Name = "bf-scene-composer"
	app.Usage = "Launch a bf-scene-composer process"
	app.Commands = commands
	return
}
