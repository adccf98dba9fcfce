package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/habedi/suds/auth"
	"github.com/habedi/suds/pkg/clierr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin_StoresCredentials(t *testing.T) {
	a, _ := newTestApp(t, "", "")
	out, err := run(a, "secret\n", "login", "-u", "admin")
	require.NoError(t, err)
	assert.Contains(t, out, "Login was successful.")

	creds, err := a.store.Get()
	require.NoError(t, err)
	assert.Equal(t, &auth.Credentials{Access: "A1", Refresh: "R1"}, creds)
}

func TestLogin_PromptsForUsername(t *testing.T) {
	a, _ := newTestApp(t, "", "")
	out, err := run(a, "admin\nsecret\n", "login")
	require.NoError(t, err)
	assert.Contains(t, out, "Username: ")
	assert.Contains(t, out, "Password: ")
}

func TestLogin_WrongPassword(t *testing.T) {
	a, _ := newTestApp(t, "", "")
	_, err := run(a, "nope\n", "login", "-u", "admin")
	require.Error(t, err)
	assert.Equal(t, clierr.ExitAuth, clierr.Code(err))
	assert.Contains(t, err.Error(), "invalid username or password")

	creds, err := a.store.Get()
	require.NoError(t, err)
	assert.Nil(t, creds)
}

func TestLogout_ClearsStore(t *testing.T) {
	a, f := newTestApp(t, "A1", "R1")
	out, err := run(a, "", "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged out.")

	calls := f.made("POST", "/api/auth/logout/")
	require.Len(t, calls, 1)
	assert.JSONEq(t, `{"refresh":"R1"}`, calls[0].Body)

	creds, err := a.store.Get()
	require.NoError(t, err)
	assert.Nil(t, creds)
}

func TestStatus(t *testing.T) {
	t.Run("not logged in", func(t *testing.T) {
		a, f := newTestApp(t, "", "")
		_, err := run(a, "", "status")
		require.Error(t, err)
		assert.Equal(t, clierr.ExitAuth, clierr.Code(err))
		assert.Equal(t, 0, f.count(), "status is local unless --verify is given")
	})

	t.Run("verify", func(t *testing.T) {
		a, f := newTestApp(t, "A1", "R1")
		out, err := run(a, "", "status", "--verify")
		require.NoError(t, err)
		assert.Contains(t, out, "Logged in: yes")
		assert.Contains(t, out, "Refresh token stored: yes")
		assert.Contains(t, out, "Session verified: yes")
		assert.Len(t, f.made("GET", "/api/staff/drivers/"), 1)
	})

	t.Run("verify with a dead session", func(t *testing.T) {
		a, _ := newTestApp(t, "stale", "R-old")
		out, err := run(a, "", "status", "--verify")
		require.Error(t, err)
		assert.Contains(t, out, "Session verified: no")
		assert.Equal(t, clierr.ExitAuth, clierr.Code(err))
	})
}

func TestSessionExpired_ExitsWithAuthCode(t *testing.T) {
	a, f := newTestApp(t, "stale", "R-old")
	_, err := run(a, "", "clients", "list")
	require.Error(t, err)
	assert.Equal(t, sessionExpiredMessage, err.Error())
	assert.Equal(t, clierr.ExitAuth, clierr.Code(err))
	assert.ErrorIs(t, err, auth.ErrSessionExpired)
	assert.Len(t, f.made("POST", "/api/auth/token/refresh/"), 1)

	creds, err := a.store.Get()
	require.NoError(t, err)
	assert.Nil(t, creds, "a rejected refresh ends the session")
}

func TestClientsList(t *testing.T) {
	a, f := newTestApp(t, "A1", "R1")
	out, err := run(a, "", "clients", "list", "--search", "amina")
	require.NoError(t, err)
	assert.Contains(t, out, "Amina Nakato")
	assert.Contains(t, out, "Peter Ouma")
	assert.Contains(t, out, "UGX 1,500.00")

	calls := f.made("GET", "/api/clients/")
	require.Len(t, calls, 1)
	assert.Equal(t, "search=amina", calls[0].Query)
}

func TestClientsList_JSON(t *testing.T) {
	a, _ := newTestApp(t, "A1", "R1")
	out, err := run(a, "", "customers", "list", "--json")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(out), "["))
	assert.Contains(t, out, `"first_name": "Amina"`)
}

func TestClientsGet_NotFound(t *testing.T) {
	a, _ := newTestApp(t, "A1", "R1")
	_, err := run(a, "", "clients", "get", "99")
	require.Error(t, err)
	assert.Equal(t, clierr.ExitNotFound, clierr.Code(err))
	assert.Contains(t, err.Error(), "fetch client 99")
}

func TestInvalidIDNeverReachesServer(t *testing.T) {
	a, f := newTestApp(t, "A1", "R1")
	for _, args := range [][]string{
		{"clients", "get", "abc"},
		{"orders", "get", "0"},
		{"inventory", "restock", "0", "5"},
	} {
		_, err := run(a, "", args...)
		require.Error(t, err, "%v", args)
		assert.Equal(t, clierr.ExitValidation, clierr.Code(err), "%v", args)
	}
	assert.Equal(t, 0, f.count())
}

func TestOrdersGet_ShowsItemsAndPayments(t *testing.T) {
	a, _ := newTestApp(t, "A1", "R1")
	out, err := run(a, "", "orders", "get", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "Order ORD-7 (ID 7)")
	assert.Contains(t, out, "Wash & Fold")
	assert.Contains(t, out, "3.00 kg")
	assert.Contains(t, out, "UGX 6,000.00")
	assert.Contains(t, out, "Balance due: UGX 5,000.00")
}

func TestOrdersList_ValidatesStatus(t *testing.T) {
	a, f := newTestApp(t, "A1", "R1")
	_, err := run(a, "", "orders", "list", "--status", "DONE")
	require.Error(t, err)
	assert.Equal(t, clierr.ExitValidation, clierr.Code(err))
	assert.Equal(t, 0, f.count())

	_, err = run(a, "", "orders", "list", "--status", "READY", "--start-date", "2026-10-01")
	require.NoError(t, err)
	calls := f.made("GET", "/api/orders/")
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0].Query, "status=READY")
	assert.Contains(t, calls[0].Query, "start_date=2026-10-01")
}

func TestOrdersCreate(t *testing.T) {
	a, f := newTestApp(t, "A1", "R1")
	out, err := run(a, "", "orders", "create",
		"--client", "1",
		"--item", "2:3",
		"--item", "4:1.5:3000",
		"--due", "2026-10-20",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "Created order ORD-9 (ID 9), total UGX 12,000.00.")

	calls := f.made("POST", "/api/orders/")
	require.Len(t, calls, 1)
	assert.JSONEq(t, `{
		"client": 1,
		"pickup_date": null,
		"due_date": "2026-10-20",
		"assigned_driver": null,
		"notes": "",
		"items": [
			{"service": 2, "quantity": "3"},
			{"service": 4, "quantity": "1.5", "unit_price": "3000"}
		]
	}`, calls[0].Body)
}

func TestOrdersCreate_RequiresItems(t *testing.T) {
	a, f := newTestApp(t, "A1", "R1")
	_, err := run(a, "", "orders", "create", "--client", "1")
	require.Error(t, err)
	assert.Equal(t, clierr.ExitValidation, clierr.Code(err))
	assert.Equal(t, 0, f.count())
}

func TestParseItem(t *testing.T) {
	item, err := parseItem("2:3")
	require.NoError(t, err)
	assert.Equal(t, 2, item.Service)
	assert.Equal(t, "3", string(item.Quantity))
	assert.Empty(t, item.UnitPrice)

	item, err = parseItem("5:0.5:1200")
	require.NoError(t, err)
	assert.Equal(t, "1200", string(item.UnitPrice))

	for _, bad := range []string{"", "2", "2:0", "x:1", "2:1:-5", "1:2:3:4"} {
		_, err := parseItem(bad)
		assert.Error(t, err, "%q", bad)
	}
}

func TestOrdersStatus(t *testing.T) {
	a, f := newTestApp(t, "A1", "R1")
	out, err := run(a, "", "orders", "status", "5", "ready")
	require.NoError(t, err)
	assert.Contains(t, out, "Order 5 is now READY.")

	calls := f.made("PATCH", "/api/orders/5/update_status/")
	require.Len(t, calls, 1)
	assert.JSONEq(t, `{"status":"READY"}`, calls[0].Body)

	_, err = run(a, "", "orders", "status", "5", "LOST")
	require.Error(t, err)
	assert.Equal(t, clierr.ExitValidation, clierr.Code(err))
}

func TestOrdersOutstanding(t *testing.T) {
	a, _ := newTestApp(t, "A1", "R1")
	out, err := run(a, "", "orders", "outstanding")
	require.NoError(t, err)
	assert.Contains(t, out, "ORD-1")
	assert.Contains(t, out, "(overdue)")
	assert.Contains(t, out, "Total outstanding: UGX 4,000.00 across 1 orders.")
}

func TestPaymentsCreate(t *testing.T) {
	a, f := newTestApp(t, "A1", "R1")
	out, err := run(a, "", "payments", "create", "--order", "1", "--amount", "2500", "--method", "mobile_money", "--reference", "MM-77")
	require.NoError(t, err)
	assert.Contains(t, out, "Recorded payment 21 of UGX 2,500.00 for order 1.")

	calls := f.made("POST", "/api/payments/")
	require.Len(t, calls, 1)
	assert.JSONEq(t, `{"order":1,"amount":"2500","payment_method":"MOBILE_MONEY","reference_number":"MM-77"}`, calls[0].Body)

	_, err = run(a, "", "payments", "create", "--order", "1", "--amount", "2500", "--method", "cheque")
	require.Error(t, err)
	assert.Equal(t, clierr.ExitValidation, clierr.Code(err))
}

func TestInventory(t *testing.T) {
	a, f := newTestApp(t, "A1", "R1")

	out, err := run(a, "", "inventory", "low-stock")
	require.NoError(t, err)
	assert.Contains(t, out, "Detergent")

	out, err = run(a, "", "inventory", "restock", "4", "10")
	require.NoError(t, err)
	assert.Contains(t, out, "Inventory item 4 now has 12.00 litres in stock.")
	calls := f.made("POST", "/api/inventory/4/restock/")
	require.Len(t, calls, 1)
	assert.JSONEq(t, `{"quantity":"10"}`, calls[0].Body)

	_, err = run(a, "", "inventory", "consume", "4", "0")
	require.Error(t, err)
	assert.Equal(t, clierr.ExitValidation, clierr.Code(err))
}

func TestStaffDrivers(t *testing.T) {
	a, _ := newTestApp(t, "A1", "R1")
	out, err := run(a, "", "staff", "drivers")
	require.NoError(t, err)
	assert.Contains(t, out, "Jo Okello")
	assert.Contains(t, out, "DRIVER")
}

func TestDashboard(t *testing.T) {
	now = func() time.Time { return time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { now = time.Now })

	a, f := newTestApp(t, "A1", "R1")
	stats, err := loadDashboard(t.Context(), a.api)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.todayOrders)
	assert.Equal(t, 2, stats.pending)
	assert.Equal(t, 1, stats.ready)
	assert.InDelta(t, 3500.50, stats.revenue, 0.001)
	assert.Len(t, stats.lowStock, 1)
	assert.Len(t, stats.recent, 3)

	var sawToday bool
	for _, c := range f.made("GET", "/api/orders/") {
		if strings.Contains(c.Query, "start_date=2026-10-18") {
			sawToday = true
		}
	}
	assert.True(t, sawToday)

	out, err := run(a, "", "dashboard")
	require.NoError(t, err)
	assert.Contains(t, out, "UGX 3,500.50")
	assert.Contains(t, out, "Recent orders:")
	assert.Contains(t, out, "Low stock:")
}

func TestReports(t *testing.T) {
	a, f := newTestApp(t, "A1", "R1")
	out, err := run(a, "", "reports", "--period", "weekly")
	require.NoError(t, err)
	assert.Contains(t, out, "Sales report (weekly)")
	assert.Contains(t, out, "75.0%")
	assert.Contains(t, out, "UGX 40,000.00")
	assert.Contains(t, out, "Outstanding demands:")
	assert.Contains(t, out, "ORD-1")

	calls := f.made("GET", "/api/orders/sales_report/")
	require.Len(t, calls, 1)
	assert.Equal(t, "period=weekly", calls[0].Query)

	_, err = run(a, "", "reports", "--period", "weekly", "--date", "2026-10-01")
	require.Error(t, err)
	assert.Equal(t, clierr.ExitValidation, clierr.Code(err))

	_, err = run(a, "", "reports", "--period", "daily", "--date", "2026-10-01", "--no-outstanding")
	require.NoError(t, err)
	calls = f.made("GET", "/api/orders/sales_report/")
	require.Len(t, calls, 2)
	assert.Contains(t, calls[1].Query, "date=2026-10-01")
	assert.Len(t, f.made("GET", "/api/orders/outstanding_demands/"), 1)
}

func TestOrdersExport_JSON(t *testing.T) {
	a, f := newTestApp(t, "A1", "R1")
	dir := t.TempDir()
	out, err := run(a, "", "orders", "export", "--dir", dir, "--threads", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 3 of 3 orders")

	for _, name := range []string{"order-ORD-1.json", "order-ORD-2.json", "order-ORD-3.json", "SHA256SUMS"} {
		assert.FileExists(t, filepath.Join(dir, name))
	}
	data, err := os.ReadFile(filepath.Join(dir, "order-ORD-2.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"order_number": "ORD-2"`)
	assert.Contains(t, string(data), `"unit_price": "2000.00"`)

	sums, err := os.ReadFile(filepath.Join(dir, "SHA256SUMS"))
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(string(sums)), "\n"), 3)
	assert.Len(t, f.made("GET", "/api/orders/1/"), 1)
}

func TestOrdersExport_CSV(t *testing.T) {
	a, _ := newTestApp(t, "A1", "R1")
	dir := t.TempDir()
	_, err := run(a, "", "orders", "export", "--dir", dir, "--format", "csv", "--checksum", "none")
	require.NoError(t, err)

	orders, err := os.ReadFile(filepath.Join(dir, "orders.csv"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(orders)), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "order_id,order_number"))
	assert.True(t, strings.HasPrefix(lines[1], "1,ORD-1,1,Amina Nakato,PENDING"))

	items, err := os.ReadFile(filepath.Join(dir, "order_items.csv"))
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(string(items)), "\n"), 4)
	assert.NoFileExists(t, filepath.Join(dir, "SHA256SUMS"))
}

func TestOrdersExport_InvalidOptions(t *testing.T) {
	a, f := newTestApp(t, "A1", "R1")
	for _, args := range [][]string{
		{"orders", "export", "--format", "xml"},
		{"orders", "export", "--threads", "50"},
		{"orders", "export", "--checksum", "crc32"},
	} {
		_, err := run(a, "", args...)
		require.Error(t, err, "%v", args)
		assert.Equal(t, clierr.ExitValidation, clierr.Code(err), "%v", args)
	}
	assert.Equal(t, 0, f.count())
}
