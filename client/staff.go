package client

import "context"

// StaffAPI covers /staff/. Accounts are created through Authenticator.Register.
type StaffAPI struct{ crud[StaffMember] }

// Drivers lists staff members who can be assigned to deliveries.
func (a *StaffAPI) Drivers(ctx context.Context) ([]StaffMember, error) {
	return fetchList[StaffMember](ctx, a.c, a.path+"drivers/")
}
