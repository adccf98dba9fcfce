package cmd

import (
	"context"
	"errors"
	"time"

	"github.com/habedi/suds/client"
	"github.com/habedi/suds/pkg/pool"
	"github.com/spf13/cobra"
)

const (
	dashboardPageSize = 1000
	recentOrderCount  = 5
)

// now is replaced in tests.
var now = time.Now

type dashboardStats struct {
	todayOrders int
	pending     int
	ready       int
	revenue     float64
	lowStock    []client.InventoryItem
	recent      []client.Order
}

func dashboardCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show today's activity at a glance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()
			stats, err := loadDashboard(ctx, a.api)
			if err != nil {
				return toCLIError("load dashboard", err)
			}
			printDashboard(cmd, stats)
			return nil
		},
	}
}

// loadDashboard fetches all orders, today's orders and low stock concurrently.
func loadDashboard(ctx context.Context, api *client.Client) (*dashboardStats, error) {
	today := now().UTC().Format("2006-01-02")
	var (
		orders, todays []client.Order
		low            []client.InventoryItem
	)
	errs := pool.Tasks(ctx,
		func(ctx context.Context) (err error) {
			orders, err = api.Orders.ListAll(ctx, &client.ListParams{PageSize: dashboardPageSize})
			return err
		},
		func(ctx context.Context) (err error) {
			todays, err = api.Orders.ListAll(ctx, &client.ListParams{StartDate: today, PageSize: dashboardPageSize})
			return err
		},
		func(ctx context.Context) (err error) {
			low, err = api.Inventory.LowStock(ctx)
			return err
		},
	)
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	stats := &dashboardStats{todayOrders: len(todays), lowStock: low}
	for _, o := range orders {
		switch o.Status {
		case client.StatusPending:
			stats.pending++
		case client.StatusReady:
			stats.ready++
		}
		stats.revenue += o.AmountPaid.Float()
	}
	stats.recent = orders
	if len(orders) > recentOrderCount {
		stats.recent = orders[:recentOrderCount]
	}
	return stats, nil
}

func printDashboard(cmd *cobra.Command, s *dashboardStats) {
	table := newTable(cmd.OutOrStdout(), "Today's orders", "Pending", "Ready", "Revenue collected", "Low stock items")
	table.Append([]string{
		itoa(s.todayOrders), itoa(s.pending), itoa(s.ready),
		formatMoney(client.NewAmount(s.revenue)), itoa(len(s.lowStock)),
	})
	table.Render()

	if len(s.recent) > 0 {
		cmd.Println("\nRecent orders:")
		renderOrders(cmd, s.recent)
	}
	if len(s.lowStock) > 0 {
		cmd.Println("\nLow stock:")
		renderInventory(cmd, s.lowStock)
	}
}
