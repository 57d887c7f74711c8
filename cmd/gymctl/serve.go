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
	"os"

	"github.com/spf13/cobra"

	"github.com/tomoncle/gymdesk"
	"github.com/tomoncle/gymdesk/api"
	"github.com/tomoncle/gymdesk/database"
)

func newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the REST API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := commandContext(false)
			defer stop()

			if addr != "" {
				cfg.Server.Addr = addr
			}

			store, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			logger.WithField("version", version).WithField("database", cfg.Database.Type).Info("Starting gymctl server")
			return api.NewServer(store, cfg.Server).Start(ctx)
		},
	}
	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address (overrides server.addr)")
	return cmd
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check the database connection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(ctx context.Context, store *gymdesk.Store) error {
				health := store.Manager().HealthCheck(ctx)
				health.TxState = store.Tx().State().String()
				if err := render(cmd.OutOrStdout(), health); err != nil {
					return err
				}
				if err := render(cmd.OutOrStdout(), store.Manager().Stats()); err != nil {
					return err
				}
				if !health.Healthy {
					return fmt.Errorf("database is unhealthy: %s", health.LastError)
				}
				return nil
			})
		},
	}
}

func newSeedCmd() *cobra.Command {
	var environment string
	cmd := &cobra.Command{
		Use:   "seed [dir]",
		Short: "Run the .sql scripts of a directory, one transaction per file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := cfg.Scripts.Dir
			if len(args) == 1 {
				dir = args[0]
			}
			if environment == "" {
				environment = cfg.Scripts.Environment
			}
			if _, err := os.Stat(dir); err != nil {
				return fmt.Errorf("script directory: %w", err)
			}

			return withStore(func(ctx context.Context, store *gymdesk.Store) error {
				runner := database.NewScriptRunner(store.Tx(), os.DirFS(dir), environment)
				results, err := runner.Run(ctx)
				if len(results) > 0 {
					if rerr := render(cmd.OutOrStdout(), results); rerr != nil {
						return rerr
					}
				}
				return err
			})
		},
	}
	cmd.Flags().StringVarP(&environment, "env", "e", "", "environment subdirectory to include (overrides scripts.environment)")
	return cmd
}
