package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/habedi/suds/auth"
	"github.com/habedi/suds/client"
	"github.com/stretchr/testify/require"
)

type call struct {
	Method string
	Path   string
	Query  string
	Body   string
}

// fakeAPI serves a small laundry back office. Only the bearer token "A1"
// is accepted and refresh always fails, so any other token ends the session.
type fakeAPI struct {
	mu    sync.Mutex
	calls []call
}

func newTestApp(t *testing.T, access, refresh string) (*app, *fakeAPI) {
	t.Helper()
	f := &fakeAPI{}
	srv := httptest.NewServer(f.router())
	t.Cleanup(srv.Close)

	store := auth.NewMemoryStore()
	if access != "" || refresh != "" {
		require.NoError(t, store.Set(access, refresh))
	}
	api := client.New(srv.URL+"/api", store, client.WithHTTPClient(srv.Client()))
	return &app{store: store, api: api, auth: auth.NewService(store, api.Auth)}, f
}

// run executes the command line against a and returns everything written.
func run(a *app, stdin string, args ...string) (string, error) {
	root := createRootCmd(a)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func (f *fakeAPI) made(method, path string) []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []call
	for _, c := range f.calls {
		if c.Method == method && c.Path == path {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeAPI) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeAPI) router() http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)
			r.Body = io.NopCloser(bytes.NewReader(body))
			f.mu.Lock()
			f.calls = append(f.calls, call{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery, Body: string(body)})
			f.mu.Unlock()
			next.ServeHTTP(w, r)
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login/", func(w http.ResponseWriter, r *http.Request) {
			var in map[string]string
			_ = json.NewDecoder(r.Body).Decode(&in)
			if in["username"] != "admin" || in["password"] != "secret" {
				reply(w, http.StatusUnauthorized, map[string]string{"detail": "No active account found with the given credentials"})
				return
			}
			reply(w, http.StatusOK, map[string]string{"access": "A1", "refresh": "R1"})
		})
		r.Post("/auth/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
			reply(w, http.StatusUnauthorized, map[string]string{"detail": "Token is invalid or expired"})
		})

		r.Group(func(r chi.Router) {
			r.Use(func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					if r.Header.Get("Authorization") != "Bearer A1" {
						reply(w, http.StatusUnauthorized, map[string]string{"detail": "Given token not valid for any token type"})
						return
					}
					next.ServeHTTP(w, r)
				})
			})
			r.Post("/auth/logout/", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusResetContent)
			})
			r.Get("/staff/drivers/", func(w http.ResponseWriter, r *http.Request) {
				reply(w, http.StatusOK, []client.StaffMember{{ID: 3, FirstName: "Jo", LastName: "Okello", Role: "DRIVER"}})
			})

			r.Get("/clients/", func(w http.ResponseWriter, r *http.Request) {
				reply(w, http.StatusOK, map[string]any{
					"count": 2,
					"next":  nil,
					"results": []client.Customer{
						{ID: 1, FirstName: "Amina", LastName: "Nakato", Phone: "+256700000001", TotalOrders: 4, OutstandingBalance: "1500"},
						{ID: 2, FullName: "Peter Ouma", Phone: "+256700000002"},
					},
				})
			})
			r.Get("/clients/{id}/", func(w http.ResponseWriter, r *http.Request) {
				if chi.URLParam(r, "id") != "1" {
					reply(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
					return
				}
				reply(w, http.StatusOK, client.Customer{ID: 1, FirstName: "Amina", LastName: "Nakato", Phone: "+256700000001"})
			})

			r.Get("/orders/", func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Query().Get("start_date") != "" {
					reply(w, http.StatusOK, []client.Order{{ID: 3, OrderNumber: "ORD-3", Status: client.StatusPending}})
					return
				}
				reply(w, http.StatusOK, map[string]any{
					"count": 3,
					"next":  nil,
					"results": []client.Order{
						{ID: 1, OrderNumber: "ORD-1", ClientName: "Amina Nakato", Status: client.StatusPending, AmountPaid: "1000.00", TotalAmount: "5000.00", BalanceDue: "4000.00"},
						{ID: 2, OrderNumber: "ORD-2", ClientName: "Peter Ouma", Status: client.StatusReady, AmountPaid: "2500.50", TotalAmount: "2500.50", IsPaid: true},
						{ID: 3, OrderNumber: "ORD-3", ClientName: "Amina Nakato", Status: client.StatusPending},
					},
				})
			})
			r.Post("/orders/", func(w http.ResponseWriter, r *http.Request) {
				reply(w, http.StatusCreated, client.Order{ID: 9, OrderNumber: "ORD-9", TotalAmount: "12000.00"})
			})
			r.Get("/orders/outstanding_demands/", func(w http.ResponseWriter, r *http.Request) {
				reply(w, http.StatusOK, []client.Order{
					{ID: 1, OrderNumber: "ORD-1", ClientName: "Amina Nakato", BalanceDue: "4000.00", IsOverdue: true},
				})
			})
			r.Get("/orders/sales_report/", func(w http.ResponseWriter, r *http.Request) {
				reply(w, http.StatusOK, map[string]any{
					"period":           r.URL.Query().Get("period"),
					"total_orders":     4,
					"completed_orders": 3,
					"total_revenue":    "40000.00",
					"total_payments":   "30000.00",
				})
			})
			r.Get("/orders/{id}/", func(w http.ResponseWriter, r *http.Request) {
				id, _ := strconv.Atoi(chi.URLParam(r, "id"))
				if id == 404 {
					reply(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
					return
				}
				reply(w, http.StatusOK, client.Order{
					ID: id, OrderNumber: "ORD-" + strconv.Itoa(id), Client: 1, ClientName: "Amina Nakato",
					Status: client.StatusPending, TotalAmount: "6000.00", AmountPaid: "1000.00", BalanceDue: "5000.00",
					Items: []client.OrderItem{
						{Service: 2, ServiceName: "Wash & Fold", ServiceUnit: "kg", Quantity: "3", UnitPrice: "2000.00", Subtotal: "6000.00"},
					},
					Payments: []client.Payment{{ID: 8, Order: id, Amount: "1000.00", PaymentMethod: client.MethodCash}},
				})
			})
			r.Patch("/orders/{id}/update_status/", func(w http.ResponseWriter, r *http.Request) {
				var in struct {
					Status client.OrderStatus `json:"status"`
				}
				_ = json.NewDecoder(r.Body).Decode(&in)
				id, _ := strconv.Atoi(chi.URLParam(r, "id"))
				reply(w, http.StatusOK, client.Order{ID: id, Status: in.Status})
			})

			r.Post("/payments/", func(w http.ResponseWriter, r *http.Request) {
				var in client.PaymentInput
				_ = json.NewDecoder(r.Body).Decode(&in)
				reply(w, http.StatusCreated, client.Payment{ID: 21, Order: in.Order, Amount: in.Amount, PaymentMethod: in.PaymentMethod})
			})

			r.Get("/inventory/low_stock/", func(w http.ResponseWriter, r *http.Request) {
				reply(w, http.StatusOK, []client.InventoryItem{
					{ID: 4, Name: "Detergent", Category: client.CategoryDetergent, Quantity: "2", Unit: "litres", ReorderLevel: "5", NeedsReorder: true},
				})
			})
			r.Post("/inventory/{id}/restock/", func(w http.ResponseWriter, r *http.Request) {
				var in struct {
					Quantity client.Amount `json:"quantity"`
				}
				_ = json.NewDecoder(r.Body).Decode(&in)
				id, _ := strconv.Atoi(chi.URLParam(r, "id"))
				reply(w, http.StatusOK, client.InventoryItem{ID: id, Quantity: client.NewAmount(2 + in.Quantity.Float()), Unit: "litres"})
			})
		})
	})
	return r
}

func reply(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
