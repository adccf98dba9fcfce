package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/habedi/suds/client"
	"github.com/habedi/suds/pkg/pool"
	"github.com/habedi/suds/pkg/validation"
	"github.com/spf13/cobra"
)

var reportPeriods = []string{string(client.PeriodDaily), string(client.PeriodWeekly), string(client.PeriodMonthly)}

func reportsCmd(a *app) *cobra.Command {
	var (
		period          string
		date            string
		skipOutstanding bool
	)
	cmd := &cobra.Command{
		Use:   "reports",
		Short: "Show the sales report and outstanding demands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			period = strings.ToLower(period)
			if err := validation.ValidateChoice("period", period, reportPeriods); err != nil {
				return validationError(err)
			}
			if err := validation.ValidateDate("date", date); err != nil {
				return validationError(err)
			}
			if date != "" && period != string(client.PeriodDaily) {
				return validationError(fmt.Errorf("--date only applies to the daily period"))
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()

			var (
				report      *client.SalesReport
				outstanding []client.OutstandingDemand
			)
			tasks := []pool.Task{func(ctx context.Context) (err error) {
				report, err = a.api.Orders.SalesReport(ctx, client.ReportPeriod(period), date)
				return err
			}}
			if !skipOutstanding {
				tasks = append(tasks, func(ctx context.Context) (err error) {
					outstanding, err = a.api.Orders.OutstandingDemands(ctx)
					return err
				})
			}
			if errs := pool.Tasks(ctx, tasks...); len(errs) > 0 {
				return toCLIError("load reports", errors.Join(errs...))
			}

			printSalesReport(cmd, report)
			if !skipOutstanding {
				cmd.Println("\nOutstanding demands:")
				renderOutstanding(cmd, outstanding)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&period, "period", "p", string(client.PeriodMonthly), "Report period: daily, weekly or monthly")
	cmd.Flags().StringVar(&date, "date", "", "Day of a daily report (YYYY-MM-DD); defaults to today")
	cmd.Flags().BoolVar(&skipOutstanding, "no-outstanding", false, "Only show the sales report")
	return cmd
}

func printSalesReport(cmd *cobra.Command, r *client.SalesReport) {
	title := "Sales report (" + r.Period + ")"
	if r.StartDate != "" {
		title += ": " + r.StartDate
		if r.EndDate != "" && r.EndDate != r.StartDate {
			title += " to " + r.EndDate
		}
	}
	cmd.Println(title)
	table := newTable(cmd.OutOrStdout(), "Metric", "Value")
	table.Append([]string{"Total orders", itoa(r.TotalOrders)})
	table.Append([]string{"Completed orders", itoa(r.CompletedOrders)})
	table.Append([]string{"Completion rate", fmt.Sprintf("%.1f%%", r.CompletionRate())})
	table.Append([]string{"Total revenue", formatMoney(r.TotalRevenue)})
	table.Append([]string{"Payments received", formatMoney(r.TotalPayments)})
	table.Append([]string{"Collection rate", fmt.Sprintf("%.1f%%", r.CollectionRate())})
	if r.OutstandingBalance != "" {
		table.Append([]string{"Outstanding balance", formatMoney(r.OutstandingBalance)})
	}
	if r.AverageOrderValue != "" {
		table.Append([]string{"Average order value", formatMoney(r.AverageOrderValue)})
	}
	table.Render()
}
