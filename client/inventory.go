package client

import (
	"context"
	"net/http"
)

// InventoryAPI covers /inventory/.
type InventoryAPI struct{ crud[InventoryItem] }

func (a *InventoryAPI) Create(ctx context.Context, in InventoryInput) (*InventoryItem, error) {
	return a.create(ctx, in)
}

func (a *InventoryAPI) Update(ctx context.Context, id int, in InventoryInput) (*InventoryItem, error) {
	return a.update(ctx, id, in)
}

func (a *InventoryAPI) Delete(ctx context.Context, id int) error {
	return a.remove(ctx, id)
}

// LowStock lists items at or below their reorder level.
func (a *InventoryAPI) LowStock(ctx context.Context) ([]InventoryItem, error) {
	return fetchList[InventoryItem](ctx, a.c, a.path+"low_stock/")
}

// Restock adds quantity to an item's stock.
func (a *InventoryAPI) Restock(ctx context.Context, id int, quantity Amount) (*InventoryItem, error) {
	return a.adjust(ctx, id, "restock", quantity)
}

// Consume removes quantity from an item's stock.
func (a *InventoryAPI) Consume(ctx context.Context, id int, quantity Amount) (*InventoryItem, error) {
	return a.adjust(ctx, id, "consume", quantity)
}

func (a *InventoryAPI) adjust(ctx context.Context, id int, action string, quantity Amount) (*InventoryItem, error) {
	return fetch[InventoryItem](ctx, a.c, &Request{
		Method: http.MethodPost,
		Path:   idPath(a.path, id, action),
		Body:   map[string]Amount{"quantity": quantity},
	})
}
