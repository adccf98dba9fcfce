package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/habedi/suds/client"
	"github.com/habedi/suds/pkg/validation"
	"github.com/spf13/cobra"
)

func ordersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Manage laundry orders",
	}
	cmd.AddCommand(
		ordersListCmd(a),
		ordersGetCmd(a),
		ordersCreateCmd(a),
		ordersUpdateCmd(a),
		ordersStatusCmd(a),
		ordersRecalculateCmd(a),
		ordersOutstandingCmd(a),
		exportCmd(a),
	)
	return cmd
}

func renderOrders(cmd *cobra.Command, orders []client.Order) {
	table := newTable(cmd.OutOrStdout(), "ID", "Number", "Client", "Status", "Due", "Total", "Paid", "Balance")
	for _, o := range orders {
		status := string(o.Status)
		if o.IsOverdue {
			status += " (overdue)"
		}
		table.Append([]string{
			strconv.Itoa(o.ID), o.OrderNumber, orNA(o.ClientName), status, orNA(o.DueDate),
			formatMoney(o.TotalAmount), formatMoney(o.AmountPaid), formatMoney(o.BalanceDue),
		})
	}
	table.Render()
}

func ordersListCmd(a *app) *cobra.Command {
	var f listFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List orders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if f.params.Status != "" {
				if err := validation.ValidateChoice("status", f.params.Status, statusChoices()); err != nil {
					return validationError(err)
				}
			}
			if err := validation.ValidateDate("start date", f.params.StartDate); err != nil {
				return validationError(err)
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()
			res, err := fetchItems[client.Order](ctx, a.api.Orders, &f)
			if err != nil {
				return toCLIError("list orders", err)
			}
			if f.asJSON {
				return printJSON(cmd.OutOrStdout(), res.items)
			}
			if len(res.items) == 0 {
				cmd.Println("No orders found.")
				return nil
			}
			renderOrders(cmd, res.items)
			printPageFooter(cmd.OutOrStdout(), len(res.items), res.total, res.hasNext)
			return nil
		},
	}
	f.register(cmd)
	cmd.Flags().StringVar(&f.params.Status, "status", "", "Filter by status: "+strings.Join(statusChoices(), ", "))
	cmd.Flags().StringVar(&f.params.StartDate, "start-date", "", "Only orders placed on or after this date (YYYY-MM-DD)")
	return cmd
}

func ordersGetCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show an order with its items and payments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := idArg("order", args)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()
			o, err := a.api.Orders.Get(ctx, id)
			if err != nil {
				return toCLIError(fmt.Sprintf("fetch order %d", id), err)
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), o)
			}
			printOrder(cmd, o)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of text")
	return cmd
}

func printOrder(cmd *cobra.Command, o *client.Order) {
	cmd.Printf("Order %s (ID %d)\n", o.OrderNumber, o.ID)
	cmd.Printf("Client: %s %s\n", orNA(o.ClientName), o.ClientPhone)
	cmd.Printf("Status: %s\n", o.Status)
	cmd.Printf("Ordered: %s  Pickup: %s  Due: %s  Completed: %s\n",
		orNA(o.OrderDate), orNA(o.PickupDate), orNA(o.DueDate), orNA(o.CompletedDate))
	if o.AssignedDriverName != "" {
		cmd.Printf("Driver: %s\n", o.AssignedDriverName)
	}
	if o.Notes != "" {
		cmd.Printf("Notes: %s\n", oneLine(o.Notes))
	}

	if len(o.Items) > 0 {
		table := newTable(cmd.OutOrStdout(), "Service", "Quantity", "Unit price", "Subtotal")
		for _, it := range o.Items {
			table.Append([]string{it.ServiceName, it.Quantity.String() + " " + it.ServiceUnit, formatMoney(it.UnitPrice), formatMoney(it.Subtotal)})
		}
		table.Render()
	}
	if len(o.Payments) > 0 {
		renderPayments(cmd, o.Payments)
	}
	cmd.Printf("Total: %s  Paid: %s  Balance due: %s  Paid in full: %s\n",
		formatMoney(o.TotalAmount), formatMoney(o.AmountPaid), formatMoney(o.BalanceDue), yesNo(o.IsPaid))
}

// parseItem reads "service:quantity[:unit_price]".
func parseItem(raw string) (client.OrderItemInput, error) {
	parts := strings.Split(raw, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return client.OrderItemInput{}, fmt.Errorf("invalid item %q: expected service:quantity[:unit_price]", raw)
	}
	serviceID, err := validation.ParseID("service", parts[0])
	if err != nil {
		return client.OrderItemInput{}, err
	}
	if err := validation.ValidateQuantity("quantity", parts[1]); err != nil {
		return client.OrderItemInput{}, err
	}
	item := client.OrderItemInput{Service: serviceID, Quantity: client.Amount(strings.TrimSpace(parts[1]))}
	if len(parts) == 3 {
		if err := validation.ValidateAmount("unit price", parts[2]); err != nil {
			return client.OrderItemInput{}, err
		}
		item.UnitPrice = client.Amount(strings.TrimSpace(parts[2]))
	}
	return item, nil
}

type orderFlags struct {
	clientID int
	items    []string
	pickup   string
	due      string
	driver   int
	notes    string
	status   string
}

func (f *orderFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.IntVar(&f.clientID, "client", 0, "ID of the client placing the order")
	fl.StringArrayVar(&f.items, "item", nil, "Order line as service:quantity[:unit_price]; repeatable")
	fl.StringVar(&f.pickup, "pickup", "", "Pickup date (YYYY-MM-DD)")
	fl.StringVar(&f.due, "due", "", "Due date (YYYY-MM-DD)")
	fl.IntVar(&f.driver, "driver", 0, "ID of the assigned driver")
	fl.StringVar(&f.notes, "notes", "", "Free-text notes")
	fl.StringVar(&f.status, "status", "", "Initial status")
}

func (f *orderFlags) validate() error {
	if err := validation.ValidateDate("pickup date", f.pickup); err != nil {
		return err
	}
	if err := validation.ValidateDate("due date", f.due); err != nil {
		return err
	}
	if f.status != "" {
		if err := validation.ValidateChoice("status", f.status, statusChoices()); err != nil {
			return err
		}
	}
	if f.driver < 0 {
		return validation.ValidateID("driver", f.driver)
	}
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func ordersCreateCmd(a *app) *cobra.Command {
	var f orderFlags
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Place a new order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validation.ValidateID("client", f.clientID); err != nil {
				return validationError(err)
			}
			if len(f.items) == 0 {
				return validationError(fmt.Errorf("at least one --item is required"))
			}
			if err := f.validate(); err != nil {
				return validationError(err)
			}
			in := client.OrderInput{
				Client:     f.clientID,
				Status:     client.OrderStatus(f.status),
				PickupDate: optional(f.pickup),
				DueDate:    optional(f.due),
				Notes:      f.notes,
			}
			if f.driver > 0 {
				driver := f.driver
				in.AssignedDriver = &driver
			}
			for _, raw := range f.items {
				item, err := parseItem(raw)
				if err != nil {
					return validationError(err)
				}
				in.Items = append(in.Items, item)
			}

			ctx, cancel := commandContext(cmd)
			defer cancel()
			o, err := a.api.Orders.Create(ctx, in)
			if err != nil {
				return toCLIError("create order", err)
			}
			cmd.Printf("Created order %s (ID %d), total %s.\n", o.OrderNumber, o.ID, formatMoney(o.TotalAmount))
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

// ordersUpdateCmd replaces an order with its current state plus the flags
// that were set. Items are kept unless --item is given.
func ordersUpdateCmd(a *app) *cobra.Command {
	var f orderFlags
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change an order's dates, driver, notes or items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := idArg("order", args)
			if err != nil {
				return err
			}
			if err := f.validate(); err != nil {
				return validationError(err)
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()
			cur, err := a.api.Orders.Get(ctx, id)
			if err != nil {
				return toCLIError(fmt.Sprintf("fetch order %d", id), err)
			}

			in := client.OrderInput{
				Client:         cur.Client,
				Status:         cur.Status,
				PickupDate:     optional(cur.PickupDate),
				DueDate:        optional(cur.DueDate),
				AssignedDriver: cur.AssignedDriver,
				Notes:          cur.Notes,
			}
			for _, it := range cur.Items {
				in.Items = append(in.Items, client.OrderItemInput{Service: it.Service, Quantity: it.Quantity, UnitPrice: it.UnitPrice})
			}
			fl := cmd.Flags()
			overlay(fl.Changed("client"), &in.Client, f.clientID)
			overlay(fl.Changed("status"), &in.Status, client.OrderStatus(f.status))
			overlay(fl.Changed("pickup"), &in.PickupDate, optional(f.pickup))
			overlay(fl.Changed("due"), &in.DueDate, optional(f.due))
			overlay(fl.Changed("notes"), &in.Notes, f.notes)
			if fl.Changed("driver") {
				in.AssignedDriver = nil
				if f.driver > 0 {
					driver := f.driver
					in.AssignedDriver = &driver
				}
			}
			if fl.Changed("item") {
				in.Items = nil
				for _, raw := range f.items {
					item, err := parseItem(raw)
					if err != nil {
						return validationError(err)
					}
					in.Items = append(in.Items, item)
				}
			}

			o, err := a.api.Orders.Update(ctx, id, in)
			if err != nil {
				return toCLIError(fmt.Sprintf("update order %d", id), err)
			}
			cmd.Printf("Updated order %s (ID %d).\n", o.OrderNumber, o.ID)
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func ordersStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status <id> <status>",
		Short: "Move an order to another status",
		Long:  "Move an order to another status: " + strings.Join(statusChoices(), ", "),
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := idArg("order", args)
			if err != nil {
				return err
			}
			status := strings.ToUpper(args[1])
			if err := validation.ValidateChoice("status", status, statusChoices()); err != nil {
				return validationError(err)
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()
			o, err := a.api.Orders.UpdateStatus(ctx, id, client.OrderStatus(status))
			if err != nil {
				return toCLIError(fmt.Sprintf("update status of order %d", id), err)
			}
			cmd.Printf("Order %d is now %s.\n", id, o.Status)
			return nil
		},
	}
}

func ordersRecalculateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "recalculate <id>",
		Short: "Recompute an order's total from its items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := idArg("order", args)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()
			o, err := a.api.Orders.Recalculate(ctx, id)
			if err != nil {
				return toCLIError(fmt.Sprintf("recalculate order %d", id), err)
			}
			cmd.Printf("Order %d total: %s, balance due: %s.\n", id, formatMoney(o.TotalAmount), formatMoney(o.BalanceDue))
			return nil
		},
	}
}

func ordersOutstandingCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "outstanding",
		Short: "List orders with a balance due",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()
			orders, err := a.api.Orders.OutstandingDemands(ctx)
			if err != nil {
				return toCLIError("list outstanding demands", err)
			}
			renderOutstanding(cmd, orders)
			return nil
		},
	}
}

func renderOutstanding(cmd *cobra.Command, orders []client.OutstandingDemand) {
	if len(orders) == 0 {
		cmd.Println("No outstanding demands. All payments are up to date.")
		return
	}
	table := newTable(cmd.OutOrStdout(), "Number", "Client", "Phone", "Total", "Paid", "Balance", "Due", "Status")
	var owed float64
	for _, o := range orders {
		due := orNA(o.DueDate)
		if o.IsOverdue {
			due += " (overdue)"
		}
		table.Append([]string{
			o.OrderNumber, orNA(o.ClientName), orNA(o.ClientPhone),
			formatMoney(o.TotalAmount), formatMoney(o.AmountPaid), formatMoney(o.BalanceDue), due, string(o.Status),
		})
		owed += o.BalanceDue.Float()
	}
	table.Render()
	cmd.Printf("Total outstanding: %s across %d orders.\n", formatMoney(client.NewAmount(owed)), len(orders))
}
