package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/habedi/suds/client"
	"github.com/habedi/suds/pkg/validation"
	"github.com/spf13/cobra"
)

func inventoryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inventory",
		Short: "Track laundry supplies",
	}
	cmd.AddCommand(
		inventoryListCmd(a),
		inventoryGetCmd(a),
		inventoryCreateCmd(a),
		inventoryUpdateCmd(a),
		inventoryDeleteCmd(a),
		inventoryLowStockCmd(a),
		inventoryAdjustCmd(a, "restock", "Add stock to an item"),
		inventoryAdjustCmd(a, "consume", "Take stock out of an item"),
	)
	return cmd
}

func renderInventory(cmd *cobra.Command, items []client.InventoryItem) {
	table := newTable(cmd.OutOrStdout(), "ID", "Name", "Category", "Quantity", "Reorder at", "Cost/unit", "Value", "Reorder")
	for _, it := range items {
		table.Append([]string{
			strconv.Itoa(it.ID), it.Name, string(it.Category),
			it.Quantity.String() + " " + it.Unit, it.ReorderLevel.String(),
			formatMoney(it.CostPerUnit), formatMoney(it.TotalValue), yesNo(it.NeedsReorder),
		})
	}
	table.Render()
}

func inventoryListCmd(a *app) *cobra.Command {
	var f listFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List inventory items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()
			res, err := fetchItems[client.InventoryItem](ctx, a.api.Inventory, &f)
			if err != nil {
				return toCLIError("list inventory", err)
			}
			if f.asJSON {
				return printJSON(cmd.OutOrStdout(), res.items)
			}
			if len(res.items) == 0 {
				cmd.Println("No inventory items found.")
				return nil
			}
			renderInventory(cmd, res.items)
			printPageFooter(cmd.OutOrStdout(), len(res.items), res.total, res.hasNext)
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func inventoryGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one inventory item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := idArg("inventory item", args)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()
			it, err := a.api.Inventory.Get(ctx, id)
			if err != nil {
				return toCLIError(fmt.Sprintf("fetch inventory item %d", id), err)
			}
			renderInventory(cmd, []client.InventoryItem{*it})
			return nil
		},
	}
}

type inventoryFlags struct {
	in           client.InventoryInput
	category     string
	quantity     string
	reorderLevel string
	cost         string
}

func (f *inventoryFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.in.Name, "name", "", "Item name")
	fl.StringVar(&f.category, "category", string(client.CategoryOther), "Category: "+strings.Join(categoryChoices(), ", "))
	fl.StringVar(&f.quantity, "quantity", "0", "Quantity in stock")
	fl.StringVar(&f.in.Unit, "unit", "", "Unit of measure, e.g. litres")
	fl.StringVar(&f.reorderLevel, "reorder-level", "0", "Quantity at which to reorder")
	fl.StringVar(&f.cost, "cost", "0", "Cost per unit")
}

// apply validates the numeric and choice flags and copies them into in.
func (f *inventoryFlags) apply(cmd *cobra.Command, in *client.InventoryInput) error {
	fl := cmd.Flags()
	if fl.Changed("category") || in.Category == "" {
		category := strings.ToUpper(f.category)
		if err := validation.ValidateChoice("category", category, categoryChoices()); err != nil {
			return err
		}
		in.Category = client.InventoryCategory(category)
	}
	for _, n := range []struct {
		flag, label, value string
		dst                *client.Amount
	}{
		{"quantity", "quantity", f.quantity, &in.Quantity},
		{"reorder-level", "reorder level", f.reorderLevel, &in.ReorderLevel},
		{"cost", "cost per unit", f.cost, &in.CostPerUnit},
	} {
		if !fl.Changed(n.flag) && *n.dst != "" {
			continue
		}
		if err := validation.ValidateAmount(n.label, n.value); err != nil {
			return err
		}
		*n.dst = client.Amount(strings.TrimSpace(n.value))
	}
	overlay(fl.Changed("name"), &in.Name, f.in.Name)
	overlay(fl.Changed("unit"), &in.Unit, f.in.Unit)
	return nil
}

func inventoryCreateCmd(a *app) *cobra.Command {
	var f inventoryFlags
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Add an inventory item",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := client.InventoryInput{Name: f.in.Name, Unit: f.in.Unit}
			if err := requireFields("name", in.Name, "unit", in.Unit); err != nil {
				return err
			}
			if err := f.apply(cmd, &in); err != nil {
				return validationError(err)
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()
			it, err := a.api.Inventory.Create(ctx, in)
			if err != nil {
				return toCLIError("create inventory item", err)
			}
			cmd.Printf("Created inventory item %q (ID %d).\n", it.Name, it.ID)
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func inventoryUpdateCmd(a *app) *cobra.Command {
	var f inventoryFlags
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change an inventory item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := idArg("inventory item", args)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()
			cur, err := a.api.Inventory.Get(ctx, id)
			if err != nil {
				return toCLIError(fmt.Sprintf("fetch inventory item %d", id), err)
			}
			in := client.InventoryInput{
				Name:         cur.Name,
				Category:     cur.Category,
				Quantity:     cur.Quantity,
				Unit:         cur.Unit,
				ReorderLevel: cur.ReorderLevel,
				CostPerUnit:  cur.CostPerUnit,
			}
			if err := f.apply(cmd, &in); err != nil {
				return validationError(err)
			}
			it, err := a.api.Inventory.Update(ctx, id, in)
			if err != nil {
				return toCLIError(fmt.Sprintf("update inventory item %d", id), err)
			}
			cmd.Printf("Updated inventory item %q (ID %d).\n", it.Name, it.ID)
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func inventoryDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove an inventory item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := idArg("inventory item", args)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()
			if err := a.api.Inventory.Delete(ctx, id); err != nil {
				return toCLIError(fmt.Sprintf("delete inventory item %d", id), err)
			}
			cmd.Printf("Deleted inventory item %d.\n", id)
			return nil
		},
	}
}

func inventoryLowStockCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "low-stock",
		Short: "List items at or below their reorder level",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()
			items, err := a.api.Inventory.LowStock(ctx)
			if err != nil {
				return toCLIError("list low stock", err)
			}
			if len(items) == 0 {
				cmd.Println("All items are sufficiently stocked.")
				return nil
			}
			renderInventory(cmd, items)
			return nil
		},
	}
}

// inventoryAdjustCmd builds the restock and consume subcommands.
func inventoryAdjustCmd(a *app, action, short string) *cobra.Command {
	return &cobra.Command{
		Use:   action + " <id> <quantity>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := idArg("inventory item", args)
			if err != nil {
				return err
			}
			if err := validation.ValidateQuantity("quantity", args[1]); err != nil {
				return validationError(err)
			}
			qty := client.Amount(strings.TrimSpace(args[1]))
			ctx, cancel := commandContext(cmd)
			defer cancel()

			var it *client.InventoryItem
			if action == "restock" {
				it, err = a.api.Inventory.Restock(ctx, id, qty)
			} else {
				it, err = a.api.Inventory.Consume(ctx, id, qty)
			}
			if err != nil {
				return toCLIError(fmt.Sprintf("%s inventory item %d", action, id), err)
			}
			cmd.Printf("Inventory item %d now has %s %s in stock.\n", id, it.Quantity.String(), it.Unit)
			if it.NeedsReorder {
				cmd.Println("This item is at or below its reorder level.")
			}
			return nil
		},
	}
}
