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
	"context"
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/tomoncle/mapper"
	"github.com/tomoncle/mapper/database"
	"github.com/tomoncle/mapper/example"
	"github.com/tomoncle/mapper/repository"
	"github.com/tomoncle/mapper/types"
)

type demoFlags struct {
	username string
	email    string
	metrics  bool
}

func (c *appFlags) demoCommand() *cobra.Command {
	flags := demoFlags{}
	cmd := &cobra.Command{}
	cmd.Use = "demo"
	cmd.Short = "Create, read, update and delete a user against the configured database"
	cmd.Long = `Description:
  Create, read, update and delete a user against the configured database

  The users and notes tables are created when missing. The user written by
  the demo is removed again before the command returns.
`
	cmd.Flags().StringVar(&flags.username, "username", "jdoe", "Key of the demo user")
	cmd.Flags().StringVar(&flags.email, "email", "jdoe@domain.com", "Initial email of the demo user")
	cmd.Flags().BoolVar(&flags.metrics, "metrics", false, "Print operation counters when done")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := c.loadConfig()
		if err != nil {
			return err
		}
		cfg.ConfigureLogging()

		m := database.NewManager(&cfg.Connection)
		if err := m.Connect(cmd.Context()); err != nil {
			return err
		}
		defer func() { _ = m.Disconnect() }()

		if err := runDemo(cmd.Context(), cmd.OutOrStdout(), m, flags); err != nil {
			return err
		}
		if flags.metrics {
			return printMetrics(cmd.OutOrStdout())
		}
		return nil
	}
	return cmd
}

func (c *appFlags) loadConfig() (*database.Config, error) {
	if c.configPath == "" {
		cfg := database.DefaultConfig()
		cfg.ApplyEnv()
		return cfg, cfg.Connection.Validate()
	}
	return database.LoadConfig(c.configPath)
}

func runDemo(ctx context.Context, w io.Writer, m *database.Manager, flags demoFlags) error {
	db := m.DB()
	if err := example.CreateTables(ctx, db); err != nil {
		return err
	}
	users := mapper.NewService(db, example.Users)

	u, err := example.NewUser(flags.username, "John Doe", "ksdiKoDkjP20XC?B8XNSVBOZ", flags.email)
	if err != nil {
		return err
	}
	if err := users.Create(ctx, u); err != nil {
		return err
	}
	fmt.Fprintf(w, "created\n%s", example.Users.Debug(u))

	got, err := users.Get(ctx, flags.username)
	if err != nil {
		return err
	}
	data, err := users.ToJSON(got)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "fetched  %s\n", data)

	got.Email = types.String("another@email.com")
	if err := users.Save(ctx, got); err != nil {
		return err
	}
	fmt.Fprintf(w, "updated\n%s", example.Users.Debug(got))

	if err := users.Destroy(ctx, got); err != nil {
		return err
	}
	fmt.Fprintf(w, "deleted  %s (state %s)\n", flags.username, got.State())

	if _, err := users.Get(ctx, flags.username); !mapper.IsNotFound(err) {
		return fmt.Errorf("user %q still readable after delete: %v", flags.username, err)
	}
	return nil
}

func printMetrics(w io.Writer) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(repository.Collectors()...)
	families, err := reg.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			labels := ""
			for _, l := range metric.GetLabel() {
				labels += fmt.Sprintf(" %s=%s", l.GetName(), l.GetValue())
			}
			switch {
			case metric.GetCounter() != nil:
				fmt.Fprintf(w, "%s%s %g\n", mf.GetName(), labels, metric.GetCounter().GetValue())
			case metric.GetHistogram() != nil:
				fmt.Fprintf(w, "%s_count%s %d\n", mf.GetName(), labels, metric.GetHistogram().GetSampleCount())
			}
		}
	}
	return nil
}
