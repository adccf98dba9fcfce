package client_test

import (
	"encoding/json"
	"fmt"
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
)

type recordedRequest struct {
	Method    string
	Path      string
	Query     string
	Auth      string
	RequestID string
	Body      string
}

// fakeAPI is a minimal laundry API. Bearer tokens in validAccess are
// accepted; refreshToken is exchanged for nextAccess.
type fakeAPI struct {
	mu           sync.Mutex
	validAccess  map[string]bool
	refreshToken string
	nextAccess   string
	// acceptRefreshed controls whether nextAccess becomes valid after a refresh.
	acceptRefreshed bool
	refreshGate     chan struct{}
	refreshCalls    int
	requests        []recordedRequest
}

func newFakeAPI(t *testing.T) (*fakeAPI, *httptest.Server) {
	t.Helper()
	f := &fakeAPI{
		validAccess:     map[string]bool{},
		refreshToken:    "R1",
		nextAccess:      "A2",
		acceptRefreshed: true,
	}
	srv := httptest.NewServer(f.router())
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeAPI) newClient(srv *httptest.Server, store auth.CredentialStore) *client.Client {
	return client.New(srv.URL+"/api", store, client.WithHTTPClient(srv.Client()))
}

func (f *fakeAPI) accept(tokens ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, tok := range tokens {
		f.validAccess[tok] = true
	}
}

func (f *fakeAPI) refreshCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.refreshCalls
}

// recorded returns the requests made to path, in arrival order.
func (f *fakeAPI) recorded(path string) []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []recordedRequest
	for _, r := range f.requests {
		if r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

func (f *fakeAPI) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = r.Body.Close()
		r.Body = io.NopCloser(strings.NewReader(string(body)))
		f.mu.Lock()
		f.requests = append(f.requests, recordedRequest{
			Method:    r.Method,
			Path:      r.URL.Path,
			Query:     r.URL.RawQuery,
			Auth:      r.Header.Get("Authorization"),
			RequestID: r.Header.Get("X-Request-ID"),
			Body:      string(body),
		})
		f.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (f *fakeAPI) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		f.mu.Lock()
		ok := f.validAccess[token]
		f.mu.Unlock()
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Given token not valid for any token type"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (f *fakeAPI) router() http.Handler {
	r := chi.NewRouter()
	r.Use(f.record)
	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login/", f.login)
		r.Post("/auth/token/refresh/", f.refresh)

		r.Group(func(r chi.Router) {
			r.Use(f.requireAuth)
			r.Post("/auth/logout/", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusResetContent)
			})
			r.Post("/register/", func(w http.ResponseWriter, r *http.Request) {
				var in client.RegisterInput
				_ = json.NewDecoder(r.Body).Decode(&in)
				if in.Password == "" {
					writeJSON(w, http.StatusBadRequest, map[string][]string{"password": {"This field is required."}})
					return
				}
				writeJSON(w, http.StatusCreated, client.StaffMember{ID: 7, Username: in.Username, Role: in.Role})
			})
			r.Get("/staff/drivers/", func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusOK, []client.StaffMember{{ID: 3, FirstName: "Jo", LastName: "Driver", Role: "DRIVER"}})
			})
			r.Get("/orders/", f.listOrders)
			r.Get("/orders/outstanding_demands/", func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusOK, []client.Order{{ID: 1, OrderNumber: "ORD-1", BalanceDue: "5000.00"}})
			})
			r.Get("/orders/sales_report/", func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusOK, map[string]any{
					"period":           r.URL.Query().Get("period"),
					"total_orders":     4,
					"completed_orders": 3,
					"total_revenue":    "40000.00",
					"total_payments":   30000,
				})
			})
			r.Get("/orders/{id}/", func(w http.ResponseWriter, r *http.Request) {
				id, _ := strconv.Atoi(chi.URLParam(r, "id"))
				if id == 404 {
					writeJSON(w, http.StatusNotFound, map[string]string{"detail": "No Order matches the given query."})
					return
				}
				writeJSON(w, http.StatusOK, client.Order{ID: id, OrderNumber: fmt.Sprintf("ORD-%d", id), Status: client.StatusPending})
			})
			r.Patch("/orders/{id}/update_status/", func(w http.ResponseWriter, r *http.Request) {
				var in struct {
					Status client.OrderStatus `json:"status"`
				}
				_ = json.NewDecoder(r.Body).Decode(&in)
				id, _ := strconv.Atoi(chi.URLParam(r, "id"))
				writeJSON(w, http.StatusOK, client.Order{ID: id, Status: in.Status})
			})
			r.Patch("/services/{id}/", func(w http.ResponseWriter, r *http.Request) {
				var in struct {
					IsActive bool `json:"is_active"`
				}
				_ = json.NewDecoder(r.Body).Decode(&in)
				id, _ := strconv.Atoi(chi.URLParam(r, "id"))
				writeJSON(w, http.StatusOK, client.Service{ID: id, Name: "Ironing", Price: "1500.00", Unit: "item", IsActive: in.IsActive})
			})
			r.Post("/payments/", func(w http.ResponseWriter, r *http.Request) {
				var in client.PaymentInput
				_ = json.NewDecoder(r.Body).Decode(&in)
				writeJSON(w, http.StatusCreated, client.Payment{ID: 30, Order: in.Order, Amount: in.Amount, PaymentMethod: in.PaymentMethod})
			})
			r.Post("/clients/", func(w http.ResponseWriter, r *http.Request) {
				var in client.CustomerInput
				_ = json.NewDecoder(r.Body).Decode(&in)
				if in.Phone == "" {
					writeJSON(w, http.StatusBadRequest, map[string][]string{"phone": {"This field is required."}})
					return
				}
				writeJSON(w, http.StatusCreated, client.Customer{ID: 11, FirstName: in.FirstName, LastName: in.LastName, Phone: in.Phone})
			})
			r.Delete("/clients/{id}/", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNoContent)
			})
			r.Get("/inventory/low_stock/", func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusOK, []client.InventoryItem{
					{ID: 1, Name: "Detergent", Category: client.CategoryDetergent, Quantity: "2.00", ReorderLevel: "5.00", NeedsReorder: true},
				})
			})
			r.Post("/inventory/{id}/restock/", func(w http.ResponseWriter, r *http.Request) {
				var in struct {
					Quantity client.Amount `json:"quantity"`
				}
				_ = json.NewDecoder(r.Body).Decode(&in)
				id, _ := strconv.Atoi(chi.URLParam(r, "id"))
				writeJSON(w, http.StatusOK, client.InventoryItem{ID: id, Quantity: in.Quantity})
			})
		})
	})
	return r
}

func (f *fakeAPI) login(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	_ = json.NewDecoder(r.Body).Decode(&in)
	if in.Username != "admin" || in.Password != "secret" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "No active account found with the given credentials"})
		return
	}
	f.accept("A1")
	writeJSON(w, http.StatusOK, map[string]string{"access": "A1", "refresh": "R1"})
}

func (f *fakeAPI) refresh(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.refreshCalls++
	gate := f.refreshGate
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}

	var in struct {
		Refresh string `json:"refresh"`
	}
	_ = json.NewDecoder(r.Body).Decode(&in)

	f.mu.Lock()
	defer f.mu.Unlock()
	if in.Refresh == "" || in.Refresh != f.refreshToken {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Token is invalid or expired", "code": "token_not_valid"})
		return
	}
	if f.acceptRefreshed {
		f.validAccess[f.nextAccess] = true
	}
	writeJSON(w, http.StatusOK, map[string]string{"access": f.nextAccess})
}

// listOrders serves two pages. The next link points at another host so
// clients must only reuse its query.
func (f *fakeAPI) listOrders(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("page") == "2" {
		writeJSON(w, http.StatusOK, map[string]any{
			"count":    3,
			"next":     nil,
			"previous": "http://proxy.internal/api/orders/",
			"results":  []client.Order{{ID: 3, Status: client.StatusCompleted}},
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count":    3,
		"next":     "http://proxy.internal/api/orders/?page=2&status=" + r.URL.Query().Get("status"),
		"previous": nil,
		"results": []client.Order{
			{ID: 1, OrderNumber: "ORD-1", Status: client.StatusPending, AmountPaid: "1000.00"},
			{ID: 2, OrderNumber: "ORD-2", Status: client.StatusReady, AmountPaid: "500.50"},
		},
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
