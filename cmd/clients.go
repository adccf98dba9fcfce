package cmd

import (
	"fmt"
	"strconv"

	"github.com/habedi/suds/client"
	"github.com/spf13/cobra"
)

func clientsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "clients",
		Aliases: []string{"customers"},
		Short:   "Manage laundry clients",
	}
	cmd.AddCommand(
		clientsListCmd(a),
		clientsGetCmd(a),
		clientsCreateCmd(a),
		clientsUpdateCmd(a),
		clientsDeleteCmd(a),
		clientsOrdersCmd(a),
	)
	return cmd
}

func clientsListCmd(a *app) *cobra.Command {
	var f listFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List clients",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()
			res, err := fetchItems[client.Customer](ctx, a.api.Customers, &f)
			if err != nil {
				return toCLIError("list clients", err)
			}
			if f.asJSON {
				return printJSON(cmd.OutOrStdout(), res.items)
			}
			if len(res.items) == 0 {
				cmd.Println("No clients found.")
				return nil
			}
			table := newTable(cmd.OutOrStdout(), "ID", "Name", "Phone", "Email", "Orders", "Balance")
			for _, c := range res.items {
				table.Append([]string{
					strconv.Itoa(c.ID), c.Name(), c.Phone, orNA(c.Email),
					strconv.Itoa(c.TotalOrders), formatMoney(c.OutstandingBalance),
				})
			}
			table.Render()
			printPageFooter(cmd.OutOrStdout(), len(res.items), res.total, res.hasNext)
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func clientsGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one client",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := idArg("client", args)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()
			c, err := a.api.Customers.Get(ctx, id)
			if err != nil {
				return toCLIError(fmt.Sprintf("fetch client %d", id), err)
			}
			printCustomer(cmd, c)
			return nil
		},
	}
}

func printCustomer(cmd *cobra.Command, c *client.Customer) {
	cmd.Printf("ID: %d\n", c.ID)
	cmd.Printf("Name: %s\n", c.Name())
	cmd.Printf("Phone: %s\n", c.Phone)
	cmd.Printf("Email: %s\n", orNA(c.Email))
	cmd.Printf("Address: %s\n", orNA(oneLine(c.Address)))
	cmd.Printf("Total orders: %d\n", c.TotalOrders)
	cmd.Printf("Outstanding balance: %s\n", formatMoney(c.OutstandingBalance))
}

func registerCustomerFlags(cmd *cobra.Command, in *client.CustomerInput) {
	f := cmd.Flags()
	f.StringVar(&in.FirstName, "first-name", "", "First name")
	f.StringVar(&in.LastName, "last-name", "", "Last name")
	f.StringVar(&in.Phone, "phone", "", "Phone number")
	f.StringVar(&in.Email, "email", "", "Email address")
	f.StringVar(&in.Address, "address", "", "Postal or street address")
}

func clientsCreateCmd(a *app) *cobra.Command {
	var in client.CustomerInput
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Add a client",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireFields("first name", in.FirstName, "last name", in.LastName, "phone", in.Phone); err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()
			c, err := a.api.Customers.Create(ctx, in)
			if err != nil {
				return toCLIError("create client", err)
			}
			cmd.Printf("Created client %d (%s).\n", c.ID, c.Name())
			return nil
		},
	}
	registerCustomerFlags(cmd, &in)
	return cmd
}

// clientsUpdateCmd fetches the client, applies the flags that were set and
// sends the full record back.
func clientsUpdateCmd(a *app) *cobra.Command {
	var in client.CustomerInput
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a client's details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := idArg("client", args)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()
			cur, err := a.api.Customers.Get(ctx, id)
			if err != nil {
				return toCLIError(fmt.Sprintf("fetch client %d", id), err)
			}
			merged := client.CustomerInput{
				FirstName: cur.FirstName, LastName: cur.LastName,
				Phone: cur.Phone, Email: cur.Email, Address: cur.Address,
			}
			fl := cmd.Flags()
			overlay(fl.Changed("first-name"), &merged.FirstName, in.FirstName)
			overlay(fl.Changed("last-name"), &merged.LastName, in.LastName)
			overlay(fl.Changed("phone"), &merged.Phone, in.Phone)
			overlay(fl.Changed("email"), &merged.Email, in.Email)
			overlay(fl.Changed("address"), &merged.Address, in.Address)

			c, err := a.api.Customers.Update(ctx, id, merged)
			if err != nil {
				return toCLIError(fmt.Sprintf("update client %d", id), err)
			}
			cmd.Printf("Updated client %d (%s).\n", c.ID, c.Name())
			return nil
		},
	}
	registerCustomerFlags(cmd, &in)
	return cmd
}

func overlay[T any](changed bool, dst *T, v T) {
	if changed {
		*dst = v
	}
}

func clientsDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a client",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := idArg("client", args)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()
			if err := a.api.Customers.Delete(ctx, id); err != nil {
				return toCLIError(fmt.Sprintf("delete client %d", id), err)
			}
			cmd.Printf("Deleted client %d.\n", id)
			return nil
		},
	}
}

func clientsOrdersCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "orders <id>",
		Short: "List the orders of a client",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := idArg("client", args)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()
			orders, err := a.api.Customers.Orders(ctx, id)
			if err != nil {
				return toCLIError(fmt.Sprintf("list orders of client %d", id), err)
			}
			if len(orders) == 0 {
				cmd.Println("No orders found for this client.")
				return nil
			}
			renderOrders(cmd, orders)
			return nil
		},
	}
}
