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
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/tomoncle/gymdesk"
	"github.com/tomoncle/gymdesk/internal/export"
	"github.com/tomoncle/gymdesk/utils"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// CLI flags
var (
	configPath string
	envFile    string
	output     string
	verbosity  int
	timeout    time.Duration
)

var (
	cfg    *gymdesk.Config
	logger *logrus.Logger
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "gymctl",
		Short:         "gymctl - gym institute data management",
		Long:          `gymctl manages workers, suppliers, equipment and supplies of a gym institute and runs its reports.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", os.Getenv("GYM_CONFIG"), "YAML configuration file (or set GYM_CONFIG env var)")
	flags.StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the configuration")
	flags.StringVarP(&output, "output", "o", "text", "output format: text or json")
	flags.CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v debug, -vv trace)")
	flags.DurationVar(&timeout, "timeout", utils.EnvDefaultDuration("GYM_TIMEOUT", 30*time.Second), "Timeout for a single command")

	rootCmd.AddCommand(
		newServeCmd(),
		newStatusCmd(),
		newSeedCmd(),
		newPeopleCmd(),
		newWorkersCmd(),
		newSuppliersCmd(),
		newEquipmentCmd(),
		newSuppliesCmd(),
		newReportsCmd(),
		newDashboardCmd(),
		newShiftsCmd(),
		newContractCmd(),
		newOrdersCmd(),
		&cobra.Command{
			Use:   "version",
			Short: "Show version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "gymctl %s (commit: %s, built: %s)\n", version, commit, date)
			},
		},
	)

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return fmt.Errorf("%w\n\n%s", err, cmd.UsageString())
	})
	return rootCmd
}

func setup() error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	loaded, err := gymdesk.LoadConfig(configPath)
	if err != nil {
		return err
	}
	switch {
	case verbosity >= 2:
		loaded.Log.Level = "trace"
	case verbosity == 1:
		loaded.Log.Level = "debug"
	}
	loaded.ApplyLogging()

	cfg = loaded
	logger = utils.NewLogger("GYMCTL")
	return nil
}

// commandContext is cancelled on SIGINT/SIGTERM and, when limited, after
// the --timeout.
func commandContext(limited bool) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	if !limited || timeout <= 0 {
		return ctx, stop
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	return ctx, func() {
		cancel()
		stop()
	}
}

func openStore(ctx context.Context) (*gymdesk.Store, error) {
	logger.WithFields(logrus.Fields{
		"type": cfg.Database.Type,
		"host": cfg.Database.Host,
		"db":   cfg.Database.DBName,
	}).Debug("Opening database")
	return gymdesk.Open(ctx, &cfg.Database)
}

// withStore runs fn against a freshly opened store inside a bounded
// command context.
func withStore(fn func(ctx context.Context, store *gymdesk.Store) error) error {
	ctx, cancel := commandContext(true)
	defer cancel()

	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close database")
		}
	}()
	return fn(ctx, store)
}

func render(w io.Writer, v interface{}) error {
	if output == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	table, err := export.FromValue(v)
	if err != nil {
		return err
	}
	return table.WriteText(w)
}
