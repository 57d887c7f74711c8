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
	"strings"

	"github.com/aarondl/null/v8"
	"github.com/spf13/cobra"

	"github.com/tomoncle/gymdesk"
	"github.com/tomoncle/gymdesk/models"
	"github.com/tomoncle/gymdesk/repository"
	"github.com/tomoncle/gymdesk/types"
)

func newEquipmentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "equipment",
		Short: "Manage equipment",
	}

	var (
		query, category string
		limit           int
		page            types.PageRequest
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List equipment, optionally filtered",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(ctx context.Context, store *gymdesk.Store) error {
				if page.Page > 0 || page.PageSize > 0 {
					result, err := store.Equipment.Page(ctx, repository.SearchFilter{
						Text:     query,
						Category: models.ParseCategory(category),
					}, page)
					if err != nil {
						return err
					}
					if output == "json" {
						return render(cmd.OutOrStdout(), result)
					}
					if err := render(cmd.OutOrStdout(), result.Items); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "page %d of %d (%d items)\n", result.Page, result.Pages(), result.Total)
					return nil
				}

				var (
					items []models.Equipment
					err   error
				)
				if query == "" && category == "" && limit == 0 {
					items, err = store.Equipment.List(ctx)
				} else {
					items, err = store.Equipment.Search(ctx, repository.SearchFilter{
						Text:     query,
						Category: models.ParseCategory(category),
						Limit:    limit,
					})
				}
				if err != nil {
					return err
				}
				return render(cmd.OutOrStdout(), items)
			})
		},
	}
	list.Flags().StringVarP(&query, "query", "q", "", "case-insensitive text matched against name, category and brand")
	list.Flags().StringVar(&category, "category", "", "category filter ("+strings.Join(types.EnumStrings(models.Categories()), ", ")+")")
	list.Flags().IntVar(&limit, "limit", 0, "maximum number of rows")
	list.Flags().IntVar(&page.Page, "page", 0, "page number, starting at 1")
	list.Flags().IntVar(&page.PageSize, "page-size", 0, fmt.Sprintf("rows per page (default %d when --page is set)", types.DefaultPageSize))
	cmd.AddCommand(list)

	cmd.AddCommand(&cobra.Command{
		Use:   "get <id>",
		Short: "Show one piece of equipment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "equipment id")
			if err != nil {
				return err
			}
			return withStore(func(ctx context.Context, store *gymdesk.Store) error {
				item, err := store.Equipment.Get(ctx, id)
				if err != nil {
					return err
				}
				return render(cmd.OutOrStdout(), item)
			})
		},
	})

	var name, cat, purchased, warranty, brand string
	build := func() (*models.Equipment, error) {
		purchaseDate, err := types.ParseDate(purchased)
		if err != nil {
			return nil, err
		}
		warrantyExpiry, err := types.ParseDate(warranty)
		if err != nil {
			return nil, err
		}
		return &models.Equipment{
			Name:           name,
			Category:       models.ParseCategory(cat),
			PurchaseDate:   purchaseDate,
			WarrantyExpiry: warrantyExpiry,
			Brand:          null.NewString(brand, brand != ""),
		}, nil
	}
	equipmentFlags := func(c *cobra.Command) *cobra.Command {
		c.Flags().StringVar(&name, "name", "", "equipment name")
		c.Flags().StringVar(&cat, "category", "", "category")
		c.Flags().StringVar(&purchased, "purchased", "", "purchase date (YYYY-MM-DD)")
		c.Flags().StringVar(&warranty, "warranty", "", "warranty expiry (YYYY-MM-DD)")
		c.Flags().StringVar(&brand, "brand", "", "brand")
		return c
	}

	cmd.AddCommand(equipmentFlags(&cobra.Command{
		Use:   "add",
		Short: "Add equipment and print its generated id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			item, err := build()
			if err != nil {
				return err
			}
			return withStore(func(ctx context.Context, store *gymdesk.Store) error {
				if err := store.Equipment.Add(ctx, item); err != nil {
					return err
				}
				logger.WithField("equipment_id", item.ID).Info("Equipment added")
				return render(cmd.OutOrStdout(), item)
			})
		},
	}))

	cmd.AddCommand(equipmentFlags(&cobra.Command{
		Use:   "update <id>",
		Short: "Replace the columns of a piece of equipment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "equipment id")
			if err != nil {
				return err
			}
			item, err := build()
			if err != nil {
				return err
			}
			return withStore(func(ctx context.Context, store *gymdesk.Store) error {
				if err := store.Equipment.Update(ctx, id, item); err != nil {
					return err
				}
				logger.WithField("equipment_id", id).Info("Equipment updated")
				return nil
			})
		},
	}))

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete equipment and its supplies",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "equipment id")
			if err != nil {
				return err
			}
			return withStore(func(ctx context.Context, store *gymdesk.Store) error {
				if err := store.Equipment.Delete(ctx, id); err != nil {
					return err
				}
				logger.WithField("equipment_id", id).Info("Equipment deleted")
				return nil
			})
		},
	})
	return cmd
}

func newSuppliesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "supplies",
		Aliases: []string{"supply"},
		Short:   "Manage equipment supplies",
	}

	var (
		query, category string
		limit           int
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List supplies, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(ctx context.Context, store *gymdesk.Store) error {
				var (
					rows []models.SupplyView
					err  error
				)
				switch {
				case query != "" || category != "":
					rows, err = store.Supplies.Search(ctx, repository.SearchFilter{
						Text:     query,
						Category: models.ParseCategory(category),
						Limit:    limit,
					})
				case limit > 0:
					rows, err = store.Supplies.Recent(ctx, limit)
				default:
					rows, err = store.Supplies.List(ctx)
				}
				if err != nil {
					return err
				}
				return render(cmd.OutOrStdout(), rows)
			})
		},
	}
	list.Flags().StringVarP(&query, "query", "q", "", "case-insensitive text matched against equipment and person names")
	list.Flags().StringVar(&category, "category", "", "equipment category filter")
	list.Flags().IntVar(&limit, "limit", 0, "maximum number of rows")
	cmd.AddCommand(list)

	cmd.AddCommand(&cobra.Command{
		Use:   "options",
		Short: "List the equipment and persons a supply can reference",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(ctx context.Context, store *gymdesk.Store) error {
				equipment, err := store.Supplies.EquipmentOptions(ctx)
				if err != nil {
					return err
				}
				people, err := store.Supplies.PersonOptions(ctx)
				if err != nil {
					return err
				}
				if err := render(cmd.OutOrStdout(), equipment); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout())
				return render(cmd.OutOrStdout(), people)
			})
		},
	})

	var (
		equipmentID, pid, quantity int64
		supplied                   string
	)
	key := func(args []string) (models.SupplyKey, error) {
		eid, err := parseID(args[0], "equipment id")
		if err != nil {
			return models.SupplyKey{}, err
		}
		p, err := parseID(args[1], "pid")
		if err != nil {
			return models.SupplyKey{}, err
		}
		return models.SupplyKey{EquipmentID: eid, PID: p}, nil
	}
	build := func(cmd *cobra.Command, k models.SupplyKey) (*models.Supply, error) {
		supplyDate, err := types.ParseDate(supplied)
		if err != nil {
			return nil, err
		}
		return &models.Supply{
			SupplyKey:  k,
			Quantity:   null.NewInt(int(quantity), cmd.Flags().Changed("quantity")),
			SupplyDate: supplyDate,
		}, nil
	}

	add := &cobra.Command{
		Use:   "add",
		Short: "Record that a person supplied a piece of equipment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			supply, err := build(cmd, models.SupplyKey{EquipmentID: equipmentID, PID: pid})
			if err != nil {
				return err
			}
			return withStore(func(ctx context.Context, store *gymdesk.Store) error {
				if err := store.Supplies.Add(ctx, supply); err != nil {
					return err
				}
				logger.WithField("key", supply.SupplyKey.String()).Info("Supply added")
				return nil
			})
		},
	}
	add.Flags().Int64Var(&equipmentID, "equipment", 0, "equipment id")
	add.Flags().Int64Var(&pid, "pid", 0, "person id")
	cmd.AddCommand(add)

	update := &cobra.Command{
		Use:   "update <equipment-id> <pid>",
		Short: "Change quantity and date of a supply",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := key(args)
			if err != nil {
				return err
			}
			supply, err := build(cmd, k)
			if err != nil {
				return err
			}
			return withStore(func(ctx context.Context, store *gymdesk.Store) error {
				if err := store.Supplies.Update(ctx, k, supply); err != nil {
					return err
				}
				logger.WithField("key", k.String()).Info("Supply updated")
				return nil
			})
		},
	}
	cmd.AddCommand(update)

	for _, c := range []*cobra.Command{add, update} {
		c.Flags().Int64Var(&quantity, "quantity", 0, "quantity supplied")
		c.Flags().StringVar(&supplied, "date", "", "supply date (YYYY-MM-DD)")
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <equipment-id> <pid>",
		Short: "Delete one supply",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := key(args)
			if err != nil {
				return err
			}
			return withStore(func(ctx context.Context, store *gymdesk.Store) error {
				if err := store.Supplies.Delete(ctx, k); err != nil {
					return err
				}
				logger.WithField("key", k.String()).Info("Supply deleted")
				return nil
			})
		},
	})
	return cmd
}
