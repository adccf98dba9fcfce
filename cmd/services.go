package cmd

import (
	"fmt"
	"strconv"

	"github.com/habedi/suds/client"
	"github.com/habedi/suds/pkg/validation"
	"github.com/spf13/cobra"
)

func servicesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "services",
		Short: "Manage the priced services on offer",
	}
	cmd.AddCommand(
		servicesListCmd(a),
		servicesGetCmd(a),
		servicesCreateCmd(a),
		servicesUpdateCmd(a),
		servicesDeleteCmd(a),
		servicesSetActiveCmd(a, "activate", true),
		servicesSetActiveCmd(a, "deactivate", false),
	)
	return cmd
}

func servicesListCmd(a *app) *cobra.Command {
	var f listFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List services",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()
			res, err := fetchItems[client.Service](ctx, a.api.Services, &f)
			if err != nil {
				return toCLIError("list services", err)
			}
			if f.asJSON {
				return printJSON(cmd.OutOrStdout(), res.items)
			}
			if len(res.items) == 0 {
				cmd.Println("No services found.")
				return nil
			}
			table := newTable(cmd.OutOrStdout(), "ID", "Name", "Price", "Unit", "Active")
			for _, s := range res.items {
				table.Append([]string{strconv.Itoa(s.ID), s.Name, formatMoney(s.Price), s.Unit, yesNo(s.IsActive)})
			}
			table.Render()
			printPageFooter(cmd.OutOrStdout(), len(res.items), res.total, res.hasNext)
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func servicesGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one service",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := idArg("service", args)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()
			s, err := a.api.Services.Get(ctx, id)
			if err != nil {
				return toCLIError(fmt.Sprintf("fetch service %d", id), err)
			}
			cmd.Printf("ID: %d\nName: %s\nDescription: %s\nPrice: %s per %s\nActive: %s\n",
				s.ID, s.Name, orNA(oneLine(s.Description)), formatMoney(s.Price), s.Unit, yesNo(s.IsActive))
			return nil
		},
	}
}

type serviceFlags struct {
	in       client.ServiceInput
	price    string
	inactive bool
}

func (f *serviceFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.in.Name, "name", "", "Service name")
	fl.StringVar(&f.in.Description, "description", "", "Description")
	fl.StringVar(&f.price, "price", "", "Price per unit")
	fl.StringVar(&f.in.Unit, "unit", "", "Billing unit, e.g. kg or item")
	fl.BoolVar(&f.inactive, "inactive", false, "Create the service as inactive")
}

func servicesCreateCmd(a *app) *cobra.Command {
	var f serviceFlags
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Add a service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireFields("name", f.in.Name, "unit", f.in.Unit); err != nil {
				return err
			}
			if err := validation.ValidateAmount("price", f.price); err != nil {
				return validationError(err)
			}
			in := f.in
			in.Price = client.Amount(f.price)
			active := !f.inactive
			in.IsActive = &active

			ctx, cancel := commandContext(cmd)
			defer cancel()
			s, err := a.api.Services.Create(ctx, in)
			if err != nil {
				return toCLIError("create service", err)
			}
			cmd.Printf("Created service %d (%s).\n", s.ID, s.Name)
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func servicesUpdateCmd(a *app) *cobra.Command {
	var f serviceFlags
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a service",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := idArg("service", args)
			if err != nil {
				return err
			}
			fl := cmd.Flags()
			if fl.Changed("price") {
				if err := validation.ValidateAmount("price", f.price); err != nil {
					return validationError(err)
				}
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()
			cur, err := a.api.Services.Get(ctx, id)
			if err != nil {
				return toCLIError(fmt.Sprintf("fetch service %d", id), err)
			}
			active := cur.IsActive
			merged := client.ServiceInput{Name: cur.Name, Description: cur.Description, Price: cur.Price, Unit: cur.Unit, IsActive: &active}
			overlay(fl.Changed("name"), &merged.Name, f.in.Name)
			overlay(fl.Changed("description"), &merged.Description, f.in.Description)
			overlay(fl.Changed("price"), &merged.Price, client.Amount(f.price))
			overlay(fl.Changed("unit"), &merged.Unit, f.in.Unit)
			if fl.Changed("inactive") {
				active = !f.inactive
			}

			s, err := a.api.Services.Update(ctx, id, merged)
			if err != nil {
				return toCLIError(fmt.Sprintf("update service %d", id), err)
			}
			cmd.Printf("Updated service %d (%s).\n", s.ID, s.Name)
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func servicesDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a service",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := idArg("service", args)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()
			if err := a.api.Services.Delete(ctx, id); err != nil {
				return toCLIError(fmt.Sprintf("delete service %d", id), err)
			}
			cmd.Printf("Deleted service %d.\n", id)
			return nil
		},
	}
}

func servicesSetActiveCmd(a *app, use string, active bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: fmt.Sprintf("Mark a service as %sd", use),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := idArg("service", args)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()
			s, err := a.api.Services.SetActive(ctx, id, active)
			if err != nil {
				return toCLIError(fmt.Sprintf("%s service %d", use, id), err)
			}
			cmd.Printf("Service %d (%s) active: %s.\n", s.ID, s.Name, yesNo(s.IsActive))
			return nil
		},
	}
}
