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
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomoncle/gymdesk"
	"github.com/tomoncle/gymdesk/api"
	"github.com/tomoncle/gymdesk/internal/export"
	"github.com/tomoncle/gymdesk/models"
	"github.com/tomoncle/gymdesk/types"
)

func reportNames() []string {
	names := make([]string, 0, len(api.Reports))
	for name := range api.Reports {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func newReportsCmd() *cobra.Command {
	var xlsxPath string
	cmd := &cobra.Command{
		Use:   "reports [name]",
		Short: "Run a named report, or list the available reports",
		Args:  cobra.MaximumNArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return reportNames(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				for _, name := range reportNames() {
					fmt.Fprintln(cmd.OutOrStdout(), name)
				}
				return nil
			}
			fn, ok := api.Reports[args[0]]
			if !ok {
				return fmt.Errorf("unknown report %q", args[0])
			}
			return withStore(func(ctx context.Context, store *gymdesk.Store) error {
				rows, err := fn(ctx, store.Reports)
				if err != nil {
					return err
				}
				if xlsxPath == "" {
					return render(cmd.OutOrStdout(), rows)
				}
				return writeWorkbook(xlsxPath, args[0], rows)
			})
		},
	}
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "write the report to this .xlsx file instead of stdout")
	return cmd
}

func writeWorkbook(path, sheet string, rows interface{}) error {
	table, err := export.FromValue(rows)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := table.WriteXLSX(f, sheet); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	logger.WithField("file", path).WithField("rows", len(table.Rows)).Info("Report exported")
	return nil
}

func newDashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show worker, supplier, equipment and supply counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(ctx context.Context, store *gymdesk.Store) error {
				d, err := store.Reports.Dashboard(ctx)
				if err != nil {
					return err
				}
				return render(cmd.OutOrStdout(), d)
			})
		},
	}
}

func newShiftsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shifts <pid>",
		Short: "Summarize the shifts of one worker",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pid, err := parseID(args[0], "pid")
			if err != nil {
				return err
			}
			return withStore(func(ctx context.Context, store *gymdesk.Store) error {
				row, err := store.Reports.WorkerShiftSummary(ctx, pid)
				if err != nil {
					return err
				}
				return render(cmd.OutOrStdout(), row)
			})
		},
	}
}

func newContractCmd() *cobra.Command {
	var update models.ContractUpdate
	cmd := &cobra.Command{
		Use:   "contract <pid>",
		Short: "Change the job, contract type and wage of a worker",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pid, err := parseID(args[0], "pid")
			if err != nil {
				return err
			}
			update.WorkerID = pid
			return withStore(func(ctx context.Context, store *gymdesk.Store) error {
				if err := store.Reports.UpdateWorkerContract(ctx, update); err != nil {
					return err
				}
				logger.WithField("pid", pid).Info("Contract updated")
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&update.JobTitle, "job", "", "new job title")
	cmd.Flags().StringVar(&update.ContractType, "type", "", "new contract type")
	cmd.Flags().Float64Var(&update.WageIncrease, "wage-increase", 0, "wage increase")
	return cmd
}

func newOrdersCmd() *cobra.Command {
	var orderDate string
	cmd := &cobra.Command{
		Use:   "orders <supplier-pid>",
		Short: "Process the equipment orders of a supplier",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			supplierID, err := parseID(args[0], "supplier pid")
			if err != nil {
				return err
			}
			d, err := types.ParseDate(orderDate)
			if err != nil {
				return err
			}
			if !d.Valid {
				d = types.DateFrom(time.Now())
			}
			return withStore(func(ctx context.Context, store *gymdesk.Store) error {
				if err := store.Reports.ProcessEquipmentOrders(ctx, supplierID, d.Time); err != nil {
					return err
				}
				logger.WithField("supplier", supplierID).WithField("date", d.String()).Info("Orders processed")
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&orderDate, "date", "", "order date (YYYY-MM-DD, defaults to today)")
	return cmd
}
