package cmd

import (
	"strconv"

	"github.com/habedi/suds/client"
	"github.com/spf13/cobra"
)

func staffCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "staff",
		Short: "List staff accounts",
	}
	cmd.AddCommand(staffListCmd(a), staffDriversCmd(a))
	return cmd
}

func renderStaff(cmd *cobra.Command, staff []client.StaffMember) {
	table := newTable(cmd.OutOrStdout(), "ID", "Name", "Username", "Role", "Phone", "Email")
	for _, s := range staff {
		table.Append([]string{strconv.Itoa(s.ID), s.Name(), orNA(s.Username), orNA(s.Role), orNA(s.Phone), orNA(s.Email)})
	}
	table.Render()
}

func staffListCmd(a *app) *cobra.Command {
	var f listFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List staff members",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()
			res, err := fetchItems[client.StaffMember](ctx, a.api.Staff, &f)
			if err != nil {
				return toCLIError("list staff", err)
			}
			if f.asJSON {
				return printJSON(cmd.OutOrStdout(), res.items)
			}
			if len(res.items) == 0 {
				cmd.Println("No staff found.")
				return nil
			}
			renderStaff(cmd, res.items)
			printPageFooter(cmd.OutOrStdout(), len(res.items), res.total, res.hasNext)
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func staffDriversCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "drivers",
		Short: "List staff who can be assigned to deliveries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()
			drivers, err := a.api.Staff.Drivers(ctx)
			if err != nil {
				return toCLIError("list drivers", err)
			}
			if len(drivers) == 0 {
				cmd.Println("No drivers found.")
				return nil
			}
			renderStaff(cmd, drivers)
			return nil
		},
	}
}
