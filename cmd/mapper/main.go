/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/tomoncle/mapper/database"
)

type appFlags struct {
	configPath string
	dialect    string
	quiet      bool
}

func main() {
	appCmd := appFlags{}
	app := appCmd.Command()
	app.SilenceUsage = true
	app.CompletionOptions = cobra.CompletionOptions{DisableDefaultCmd: true}

	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func (c *appFlags) Command() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.Use = "mapper"
	cmd.Short = "Inspect mapped entity types and exercise them against a database"
	cmd.Long = `Description:
  Inspect mapped entity types and exercise them against a database

  The describe and sql commands work offline from the registered type
  definitions. The demo command connects with the configuration given by
  --config, or with the DB_* environment variables when no file is given.
`

	cmd.PersistentFlags().StringVar(&c.configPath, "config", "", "Path to a YAML configuration file")
	cmd.PersistentFlags().StringVar(&c.dialect, "dialect", "pg", "SQL dialect for generated statements (pg, mysql, sqlite)")
	cmd.PersistentFlags().BoolVarP(&c.quiet, "quiet", "q", false, "Do not log executed statements")
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		database.SetSilent(c.quiet)
	}

	cmd.AddCommand(c.describeCommand())
	cmd.AddCommand(c.sqlCommand())
	cmd.AddCommand(c.demoCommand())
	return cmd
}
