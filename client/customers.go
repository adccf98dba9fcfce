package client

import (
	"context"
	"net/http"
)

// CustomersAPI covers /clients/.
type CustomersAPI struct{ crud[Customer] }

func (a *CustomersAPI) Create(ctx context.Context, in CustomerInput) (*Customer, error) {
	return a.create(ctx, in)
}

func (a *CustomersAPI) Update(ctx context.Context, id int, in CustomerInput) (*Customer, error) {
	return a.update(ctx, id, in)
}

func (a *CustomersAPI) Delete(ctx context.Context, id int) error {
	return a.remove(ctx, id)
}

// Orders lists the orders placed by one client.
func (a *CustomersAPI) Orders(ctx context.Context, id int) ([]Order, error) {
	return fetchList[Order](ctx, a.c, idPath(a.path, id, "orders"))
}

// Search is List filtered by a free-text term (name, phone or email).
func (a *CustomersAPI) Search(ctx context.Context, term string) (*Page[Customer], error) {
	return fetch[Page[Customer]](ctx, a.c, &Request{
		Method: http.MethodGet,
		Path:   a.path,
		Query:  (&ListParams{Search: term}).Values(),
	})
}
