package client

import (
	"context"
	"net/http"
	"net/url"
)

// OrdersAPI covers /orders/ and its custom actions.
type OrdersAPI struct{ crud[Order] }

func (a *OrdersAPI) Create(ctx context.Context, in OrderInput) (*Order, error) {
	return a.create(ctx, in)
}

func (a *OrdersAPI) Update(ctx context.Context, id int, in OrderInput) (*Order, error) {
	return a.update(ctx, id, in)
}

// UpdateStatus moves an order to another lifecycle state.
func (a *OrdersAPI) UpdateStatus(ctx context.Context, id int, status OrderStatus) (*Order, error) {
	return fetch[Order](ctx, a.c, &Request{
		Method: http.MethodPatch,
		Path:   idPath(a.path, id, "update_status"),
		Body:   map[string]OrderStatus{"status": status},
	})
}

// Recalculate asks the server to recompute the order total from its items.
func (a *OrdersAPI) Recalculate(ctx context.Context, id int) (*Order, error) {
	return fetch[Order](ctx, a.c, &Request{Method: http.MethodPost, Path: idPath(a.path, id, "recalculate_total")})
}

// OutstandingDemands lists orders that still have a balance due.
func (a *OrdersAPI) OutstandingDemands(ctx context.Context) ([]OutstandingDemand, error) {
	return fetchList[OutstandingDemand](ctx, a.c, a.path+"outstanding_demands/")
}

// ReportPeriod is the aggregation window of a sales report.
type ReportPeriod string

const (
	PeriodDaily   ReportPeriod = "daily"
	PeriodWeekly  ReportPeriod = "weekly"
	PeriodMonthly ReportPeriod = "monthly"
)

// SalesReport aggregates sales over period. date (YYYY-MM-DD) selects the
// day of a daily report and is ignored for other periods.
func (a *OrdersAPI) SalesReport(ctx context.Context, period ReportPeriod, date string) (*SalesReport, error) {
	q := url.Values{}
	if period != "" {
		q.Set("period", string(period))
	}
	if period == PeriodDaily && date != "" {
		q.Set("date", date)
	}
	return fetch[SalesReport](ctx, a.c, &Request{Method: http.MethodGet, Path: a.path + "sales_report/", Query: q})
}
