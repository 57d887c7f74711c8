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
	"strconv"

	"github.com/aarondl/null/v8"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/tomoncle/gymdesk"
	"github.com/tomoncle/gymdesk/models"
	"github.com/tomoncle/gymdesk/types"
)

// personFlags collects the person columns shared by workers and suppliers.
type personFlags struct {
	pid       int64
	firstName string
	lastName  string
	birth     string
	address   string
	phone     string
	email     string
}

func (f *personFlags) register(fs *pflag.FlagSet, withPID bool) {
	if withPID {
		fs.Int64Var(&f.pid, "pid", 0, "person id (defaults to the next free id)")
	}
	fs.StringVar(&f.firstName, "first", "", "first name")
	fs.StringVar(&f.lastName, "last", "", "last name")
	fs.StringVar(&f.birth, "birth", "", "date of birth (YYYY-MM-DD)")
	fs.StringVar(&f.address, "address", "", "postal address")
	fs.StringVar(&f.phone, "phone", "", "phone number")
	fs.StringVar(&f.email, "email", "", "email address")
}

func (f *personFlags) person(pid int64) (models.Person, error) {
	dob, err := types.ParseDate(f.birth)
	if err != nil {
		return models.Person{}, err
	}
	return models.Person{
		PID:         pid,
		FirstName:   f.firstName,
		LastName:    f.lastName,
		DateOfBirth: dob,
		Address:     optional(f.address),
		Phone:       optional(f.phone),
		Email:       optional(f.email),
	}, nil
}

// resolvePID returns the --pid value or the next free id.
func (f *personFlags) resolvePID(ctx context.Context, store *gymdesk.Store) (int64, error) {
	if f.pid > 0 {
		return f.pid, nil
	}
	return store.People.NextPID(ctx)
}

func optional(s string) null.String {
	return null.NewString(s, s != "")
}

func parseID(s, what string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q", what, s)
	}
	return id, nil
}

func newPeopleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "people",
		Short: "List persons and the next free person id",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(ctx context.Context, store *gymdesk.Store) error {
				people, err := store.People.List(ctx)
				if err != nil {
					return err
				}
				return render(cmd.OutOrStdout(), people)
			})
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "next-pid",
		Short: "Print the next free person id",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(ctx context.Context, store *gymdesk.Store) error {
				pid, err := store.People.NextPID(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), pid)
				return nil
			})
		},
	})
	return cmd
}

func newWorkersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "workers",
		Aliases: []string{"worker"},
		Short:   "Manage workers",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List workers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(ctx context.Context, store *gymdesk.Store) error {
				workers, err := store.Workers.List(ctx)
				if err != nil {
					return err
				}
				return render(cmd.OutOrStdout(), workers)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "get <pid>",
		Short: "Show one worker",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pid, err := parseID(args[0], "pid")
			if err != nil {
				return err
			}
			return withStore(func(ctx context.Context, store *gymdesk.Store) error {
				worker, err := store.Workers.Get(ctx, pid)
				if err != nil {
					return err
				}
				return render(cmd.OutOrStdout(), worker)
			})
		},
	})

	var (
		pf                      personFlags
		job, contract, employed string
	)
	build := func(pid int64) (*models.Worker, error) {
		person, err := pf.person(pid)
		if err != nil {
			return nil, err
		}
		employedOn, err := types.ParseDate(employed)
		if err != nil {
			return nil, err
		}
		return &models.Worker{
			Person:     person,
			Job:        optional(job),
			Contract:   optional(contract),
			EmployedOn: employedOn,
		}, nil
	}
	workerFlags := func(c *cobra.Command, withPID bool) *cobra.Command {
		pf.register(c.Flags(), withPID)
		c.Flags().StringVar(&job, "job", "", "job title")
		c.Flags().StringVar(&contract, "contract", "", "contract type")
		c.Flags().StringVar(&employed, "employed", "", "employment date (YYYY-MM-DD)")
		return c
	}

	cmd.AddCommand(workerFlags(&cobra.Command{
		Use:   "add",
		Short: "Add a worker, creating the person when needed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(ctx context.Context, store *gymdesk.Store) error {
				pid, err := pf.resolvePID(ctx, store)
				if err != nil {
					return err
				}
				worker, err := build(pid)
				if err != nil {
					return err
				}
				if err := store.Workers.Add(ctx, worker); err != nil {
					return err
				}
				logger.WithField("pid", pid).Info("Worker added")
				return render(cmd.OutOrStdout(), worker)
			})
		},
	}, true))

	cmd.AddCommand(workerFlags(&cobra.Command{
		Use:   "update <pid>",
		Short: "Replace the person and worker columns of a worker",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pid, err := parseID(args[0], "pid")
			if err != nil {
				return err
			}
			worker, err := build(pid)
			if err != nil {
				return err
			}
			return withStore(func(ctx context.Context, store *gymdesk.Store) error {
				if err := store.Workers.Update(ctx, pid, worker); err != nil {
					return err
				}
				logger.WithField("pid", pid).Info("Worker updated")
				return nil
			})
		},
	}, false))

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <pid>",
		Short: "Delete a worker and its supplies; the person is kept",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pid, err := parseID(args[0], "pid")
			if err != nil {
				return err
			}
			return withStore(func(ctx context.Context, store *gymdesk.Store) error {
				if err := store.Workers.Delete(ctx, pid); err != nil {
					return err
				}
				logger.WithField("pid", pid).Info("Worker deleted")
				return nil
			})
		},
	})
	return cmd
}

func newSuppliersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "suppliers",
		Aliases: []string{"supplier"},
		Short:   "Manage suppliers",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List suppliers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(ctx context.Context, store *gymdesk.Store) error {
				suppliers, err := store.Suppliers.List(ctx)
				if err != nil {
					return err
				}
				return render(cmd.OutOrStdout(), suppliers)
			})
		},
	})

	var pf personFlags

	add := &cobra.Command{
		Use:   "add",
		Short: "Add a supplier, creating the person when needed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(ctx context.Context, store *gymdesk.Store) error {
				pid, err := pf.resolvePID(ctx, store)
				if err != nil {
					return err
				}
				person, err := pf.person(pid)
				if err != nil {
					return err
				}
				supplier := &models.Supplier{Person: person}
				if err := store.Suppliers.Add(ctx, supplier); err != nil {
					return err
				}
				logger.WithField("pid", pid).Info("Supplier added")
				return render(cmd.OutOrStdout(), supplier)
			})
		},
	}
	pf.register(add.Flags(), true)
	cmd.AddCommand(add)

	update := &cobra.Command{
		Use:   "update <pid>",
		Short: "Replace the person columns of a supplier",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pid, err := parseID(args[0], "pid")
			if err != nil {
				return err
			}
			person, err := pf.person(pid)
			if err != nil {
				return err
			}
			return withStore(func(ctx context.Context, store *gymdesk.Store) error {
				if err := store.Suppliers.Update(ctx, pid, &models.Supplier{Person: person}); err != nil {
					return err
				}
				logger.WithField("pid", pid).Info("Supplier updated")
				return nil
			})
		},
	}
	pf.register(update.Flags(), false)
	cmd.AddCommand(update)

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <pid>",
		Short: "Delete a supplier and its supplies; the person is kept",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pid, err := parseID(args[0], "pid")
			if err != nil {
				return err
			}
			return withStore(func(ctx context.Context, store *gymdesk.Store) error {
				if err := store.Suppliers.Delete(ctx, pid); err != nil {
					return err
				}
				logger.WithField("pid", pid).Info("Supplier deleted")
				return nil
			})
		},
	})
	return cmd
}
