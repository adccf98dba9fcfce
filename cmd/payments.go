package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/habedi/suds/client"
	"github.com/habedi/suds/pkg/validation"
	"github.com/spf13/cobra"
)

func paymentsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "payments",
		Short: "Record and review payments",
	}
	cmd.AddCommand(
		paymentsListCmd(a),
		paymentsGetCmd(a),
		paymentsCreateCmd(a),
		paymentsRecentCmd(a),
	)
	return cmd
}

func renderPayments(cmd *cobra.Command, payments []client.Payment) {
	table := newTable(cmd.OutOrStdout(), "ID", "Order", "Amount", "Method", "Reference", "Date", "Received by")
	for _, p := range payments {
		order := p.OrderNumber
		if order == "" {
			order = strconv.Itoa(p.Order)
		}
		table.Append([]string{
			strconv.Itoa(p.ID), order, formatMoney(p.Amount), string(p.PaymentMethod),
			orNA(p.ReferenceNumber), orNA(p.PaymentDate), orNA(p.ReceivedByName),
		})
	}
	table.Render()
}

func paymentsListCmd(a *app) *cobra.Command {
	var f listFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List payments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()
			res, err := fetchItems[client.Payment](ctx, a.api.Payments, &f)
			if err != nil {
				return toCLIError("list payments", err)
			}
			if f.asJSON {
				return printJSON(cmd.OutOrStdout(), res.items)
			}
			if len(res.items) == 0 {
				cmd.Println("No payments found.")
				return nil
			}
			renderPayments(cmd, res.items)
			printPageFooter(cmd.OutOrStdout(), len(res.items), res.total, res.hasNext)
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func paymentsGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one payment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := idArg("payment", args)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()
			p, err := a.api.Payments.Get(ctx, id)
			if err != nil {
				return toCLIError(fmt.Sprintf("fetch payment %d", id), err)
			}
			renderPayments(cmd, []client.Payment{*p})
			if p.Notes != "" {
				cmd.Printf("Notes: %s\n", oneLine(p.Notes))
			}
			return nil
		},
	}
}

func paymentsCreateCmd(a *app) *cobra.Command {
	var (
		orderID   int
		amount    string
		method    string
		reference string
		notes     string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Record a payment against an order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			method = strings.ToUpper(method)
			if err := validation.ValidateID("order", orderID); err != nil {
				return validationError(err)
			}
			if err := validation.ValidateQuantity("amount", amount); err != nil {
				return validationError(err)
			}
			if err := validation.ValidateChoice("payment method", method, methodChoices()); err != nil {
				return validationError(err)
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()
			p, err := a.api.Payments.Create(ctx, client.PaymentInput{
				Order:           orderID,
				Amount:          client.Amount(strings.TrimSpace(amount)),
				PaymentMethod:   client.PaymentMethod(method),
				ReferenceNumber: reference,
				Notes:           notes,
			})
			if err != nil {
				return toCLIError("record payment", err)
			}
			cmd.Printf("Recorded payment %d of %s for order %d.\n", p.ID, formatMoney(p.Amount), p.Order)
			return nil
		},
	}
	fl := cmd.Flags()
	fl.IntVar(&orderID, "order", 0, "ID of the order being paid")
	fl.StringVar(&amount, "amount", "", "Amount received")
	fl.StringVar(&method, "method", string(client.MethodCash), "Payment method: "+strings.Join(methodChoices(), ", "))
	fl.StringVar(&reference, "reference", "", "Receipt or transaction reference")
	fl.StringVar(&notes, "notes", "", "Free-text notes")
	return cmd
}

func paymentsRecentCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "recent",
		Short: "Show the most recent payments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()
			payments, err := a.api.Payments.Recent(ctx)
			if err != nil {
				return toCLIError("list recent payments", err)
			}
			if len(payments) == 0 {
				cmd.Println("No recent payments.")
				return nil
			}
			renderPayments(cmd, payments)
			return nil
		},
	}
}
