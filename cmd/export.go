package cmd

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/habedi/suds/client"
	"github.com/habedi/suds/pkg/hasher"
	"github.com/habedi/suds/pkg/pool"
	"github.com/habedi/suds/pkg/validation"
	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var exportFormats = []string{"json", "csv"}

type exportOptions struct {
	dir       string
	format    string
	threads   int
	checksum  string
	status    string
	startDate string
}

func exportCmd(a *app) *cobra.Command {
	var o exportOptions
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write full order records, with items and payments, to disk",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("threads") {
				o.threads = a.threads()
			}
			if err := o.validate(); err != nil {
				return validationError(err)
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()
			return exportOrders(ctx, cmd, a, o)
		},
	}
	fl := cmd.Flags()
	fl.StringVarP(&o.dir, "dir", "d", ".", "Directory to write the export to")
	fl.StringVarP(&o.format, "format", "f", "json", "Output format: json or csv")
	fl.IntVarP(&o.threads, "threads", "t", 5, "Number of orders to fetch concurrently")
	fl.StringVar(&o.checksum, "checksum", "sha256", "Checksum algorithm for the manifest, or \"none\"")
	fl.StringVar(&o.status, "status", "", "Only export orders with this status")
	fl.StringVar(&o.startDate, "start-date", "", "Only export orders placed on or after this date (YYYY-MM-DD)")
	return cmd
}

func (o *exportOptions) validate() error {
	if err := validation.ValidateChoice("format", o.format, exportFormats); err != nil {
		return err
	}
	if err := validation.ValidateThreadCount(o.threads); err != nil {
		return err
	}
	if o.checksum != "none" && !hasher.IsValid(o.checksum) {
		return fmt.Errorf("unsupported checksum algorithm: %s (must be one of: %s, none)", o.checksum, strings.Join(hasher.Algorithms, ", "))
	}
	if o.status != "" {
		if err := validation.ValidateChoice("status", o.status, statusChoices()); err != nil {
			return err
		}
	}
	return validation.ValidateDate("start date", o.startDate)
}

func exportOrders(ctx context.Context, cmd *cobra.Command, a *app, o exportOptions) error {
	params := &client.ListParams{Status: o.status, StartDate: o.startDate}
	var ids []int
	err := a.api.Orders.Walk(ctx, params, func(p *client.Page[client.Order]) error {
		for _, order := range p.Results {
			ids = append(ids, order.ID)
		}
		return nil
	})
	if err != nil {
		return toCLIError("list orders", err)
	}
	if len(ids) == 0 {
		cmd.Println("No orders to export.")
		return nil
	}
	if err := os.MkdirAll(o.dir, 0o755); err != nil {
		return internalError("create export directory", err)
	}
	log.Info().Int("orders", len(ids)).Str("dir", o.dir).Str("format", o.format).Msg("Exporting orders")

	bar := progressbar.NewOptions(len(ids),
		progressbar.OptionSetWriter(cmd.ErrOrStderr()),
		progressbar.OptionSetDescription("Exporting orders..."),
		progressbar.OptionSetWidth(20),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionClearOnFinish(),
	)

	var mu sync.Mutex
	orders := make([]client.Order, 0, len(ids))
	errs := pool.Run(ctx, ids, o.threads, func(ctx context.Context, id int) error {
		defer func() { _ = bar.Add(1) }()
		order, err := a.api.Orders.Get(ctx, id)
		if err != nil {
			log.Warn().Err(err).Int("order", id).Msg("Failed to fetch order")
			return fmt.Errorf("order %d: %w", id, err)
		}
		mu.Lock()
		orders = append(orders, *order)
		mu.Unlock()
		return nil
	})
	_ = bar.Finish()
	if ctx.Err() != nil {
		return internalError("export orders", ctx.Err())
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].ID < orders[j].ID })

	var files []string
	switch o.format {
	case "csv":
		files, err = writeOrdersCSV(o.dir, orders)
	default:
		files, err = writeOrdersJSON(o.dir, orders)
	}
	if err != nil {
		return internalError("write export", err)
	}
	if o.checksum != "none" {
		manifest, err := hasher.WriteManifest(o.dir, files, o.checksum)
		if err != nil {
			return internalError("write checksum manifest", err)
		}
		log.Debug().Str("manifest", manifest).Msg("Checksums written")
	}

	cmd.Printf("Exported %d of %d orders to %s.\n", len(orders), len(ids), o.dir)
	if len(errs) > 0 {
		for _, e := range errs {
			cmd.PrintErrln("  skipped:", e)
		}
		return toCLIError(fmt.Sprintf("export %d orders", len(errs)), errs[0])
	}
	return nil
}

func orderFileName(o client.Order) string {
	name := o.OrderNumber
	if name == "" {
		name = strconv.Itoa(o.ID)
	}
	return "order-" + strings.NewReplacer("/", "_", string(filepath.Separator), "_").Replace(name) + ".json"
}

func writeOrdersJSON(dir string, orders []client.Order) ([]string, error) {
	files := make([]string, 0, len(orders))
	for _, o := range orders {
		data, err := json.MarshalIndent(o, "", "  ")
		if err != nil {
			return nil, err
		}
		name := orderFileName(o)
		if err := os.WriteFile(filepath.Join(dir, name), append(data, '\n'), 0o644); err != nil {
			return nil, err
		}
		files = append(files, name)
	}
	return files, nil
}

// writeOrdersCSV writes orders.csv and order_items.csv, joined on order_id.
func writeOrdersCSV(dir string, orders []client.Order) ([]string, error) {
	orderRows := [][]string{{
		"order_id", "order_number", "client_id", "client_name", "status", "order_date", "due_date",
		"total_amount", "amount_paid", "balance_due", "is_paid",
	}}
	itemRows := [][]string{{"order_id", "service_id", "service_name", "quantity", "unit_price", "subtotal"}}
	for _, o := range orders {
		orderRows = append(orderRows, []string{
			strconv.Itoa(o.ID), o.OrderNumber, strconv.Itoa(o.Client), o.ClientName, string(o.Status), o.OrderDate, o.DueDate,
			o.TotalAmount.String(), o.AmountPaid.String(), o.BalanceDue.String(), strconv.FormatBool(o.IsPaid),
		})
		for _, it := range o.Items {
			itemRows = append(itemRows, []string{
				strconv.Itoa(o.ID), strconv.Itoa(it.Service), it.ServiceName,
				it.Quantity.String(), it.UnitPrice.String(), it.Subtotal.String(),
			})
		}
	}
	files := []string{"orders.csv", "order_items.csv"}
	for i, rows := range [][][]string{orderRows, itemRows} {
		if err := writeCSV(filepath.Join(dir, files[i]), rows); err != nil {
			return nil, err
		}
	}
	return files, nil
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
