package client

import "context"

// ServicesAPI covers /services/.
type ServicesAPI struct{ crud[Service] }

func (a *ServicesAPI) Create(ctx context.Context, in ServiceInput) (*Service, error) {
	return a.create(ctx, in)
}

func (a *ServicesAPI) Update(ctx context.Context, id int, in ServiceInput) (*Service, error) {
	return a.update(ctx, id, in)
}

func (a *ServicesAPI) Delete(ctx context.Context, id int) error {
	return a.remove(ctx, id)
}

// SetActive toggles whether a service can be put on new orders.
func (a *ServicesAPI) SetActive(ctx context.Context, id int, active bool) (*Service, error) {
	return a.patch(ctx, id, map[string]bool{"is_active": active})
}
