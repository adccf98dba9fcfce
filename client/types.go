package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Amount is a decimal value as the server sends it. Money and quantities
// arrive as JSON strings ("12.50"), older endpoints send bare numbers; both
// decode into the same representation.
type Amount string

// NewAmount formats f with two decimal places.
func NewAmount(f float64) Amount {
	return Amount(strconv.FormatFloat(f, 'f', 2, 64))
}

// UnmarshalJSON accepts a JSON string, a JSON number or null.
func (a *Amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*a = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = Amount(strings.TrimSpace(s))
		return nil
	}
	if _, err := strconv.ParseFloat(string(b), 64); err != nil {
		return fmt.Errorf("invalid amount %s", string(b))
	}
	*a = Amount(b)
	return nil
}

// MarshalJSON writes the value as a JSON string, or null when unset.
func (a Amount) MarshalJSON() ([]byte, error) {
	if a == "" {
		return []byte("null"), nil
	}
	return json.Marshal(string(a))
}

// Float returns the numeric value; unparsable or empty amounts are 0.
func (a Amount) Float() float64 {
	f, err := strconv.ParseFloat(string(a), 64)
	if err != nil {
		return 0
	}
	return f
}

func (a Amount) String() string {
	if a == "" {
		return "0.00"
	}
	return strconv.FormatFloat(a.Float(), 'f', 2, 64)
}

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusPending    OrderStatus = "PENDING"
	StatusInProgress OrderStatus = "IN_PROGRESS"
	StatusReady      OrderStatus = "READY"
	StatusCompleted  OrderStatus = "COMPLETED"
	StatusCancelled  OrderStatus = "CANCELLED"
)

// OrderStatuses lists every order status in lifecycle order.
var OrderStatuses = []OrderStatus{StatusPending, StatusInProgress, StatusReady, StatusCompleted, StatusCancelled}

// PaymentMethod is how a payment was received.
type PaymentMethod string

const (
	MethodCash         PaymentMethod = "CASH"
	MethodCard         PaymentMethod = "CARD"
	MethodMobileMoney  PaymentMethod = "MOBILE_MONEY"
	MethodBankTransfer PaymentMethod = "BANK_TRANSFER"
)

var PaymentMethods = []PaymentMethod{MethodCash, MethodCard, MethodMobileMoney, MethodBankTransfer}

// InventoryCategory groups supply items.
type InventoryCategory string

const (
	CategoryDetergent InventoryCategory = "DETERGENT"
	CategorySoftener  InventoryCategory = "SOFTENER"
	CategoryBag       InventoryCategory = "BAG"
	CategoryHanger    InventoryCategory = "HANGER"
	CategoryStarch    InventoryCategory = "STARCH"
	CategoryOther     InventoryCategory = "OTHER"
)

var InventoryCategories = []InventoryCategory{
	CategoryDetergent, CategorySoftener, CategoryBag, CategoryHanger, CategoryStarch, CategoryOther,
}

// Customer is a laundry client. The server calls this resource "clients".
type Customer struct {
	ID                 int    `json:"id"`
	FirstName          string `json:"first_name"`
	LastName           string `json:"last_name"`
	FullName           string `json:"full_name,omitempty"`
	Email              string `json:"email,omitempty"`
	Phone              string `json:"phone"`
	Address            string `json:"address,omitempty"`
	OutstandingBalance Amount `json:"outstanding_balance,omitempty"`
	TotalOrders        int    `json:"total_orders,omitempty"`
	CreatedAt          string `json:"created_at,omitempty"`
}

// Name returns the full name, falling back to first and last name.
func (c Customer) Name() string {
	if c.FullName != "" {
		return c.FullName
	}
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

type CustomerInput struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone"`
	Address   string `json:"address,omitempty"`
}

// Service is a priced laundry service such as "Wash & Fold" per kg.
type Service struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Price       Amount `json:"price"`
	Unit        string `json:"unit"`
	IsActive    bool   `json:"is_active"`
}

type ServiceInput struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Price       Amount `json:"price"`
	Unit        string `json:"unit"`
	IsActive    *bool  `json:"is_active,omitempty"`
}

type OrderItem struct {
	ID          int    `json:"id,omitempty"`
	Service     int    `json:"service"`
	ServiceName string `json:"service_name,omitempty"`
	ServiceUnit string `json:"service_unit,omitempty"`
	Quantity    Amount `json:"quantity"`
	UnitPrice   Amount `json:"unit_price"`
	Subtotal    Amount `json:"subtotal,omitempty"`
}

type Order struct {
	ID                 int         `json:"id"`
	OrderNumber        string      `json:"order_number"`
	Client             int         `json:"client"`
	ClientName         string      `json:"client_name,omitempty"`
	ClientPhone        string      `json:"client_phone,omitempty"`
	Status             OrderStatus `json:"status"`
	OrderDate          string      `json:"order_date,omitempty"`
	PickupDate         string      `json:"pickup_date,omitempty"`
	DueDate            string      `json:"due_date,omitempty"`
	CompletedDate      string      `json:"completed_date,omitempty"`
	AssignedDriver     *int        `json:"assigned_driver,omitempty"`
	AssignedDriverName string      `json:"assigned_driver_name,omitempty"`
	CreatedByName      string      `json:"created_by_name,omitempty"`
	Notes              string      `json:"notes,omitempty"`
	TotalAmount        Amount      `json:"total_amount"`
	AmountPaid         Amount      `json:"amount_paid"`
	BalanceDue         Amount      `json:"balance_due"`
	IsPaid             bool        `json:"is_paid"`
	IsOverdue          bool        `json:"is_overdue"`
	Items              []OrderItem `json:"items,omitempty"`
	Payments           []Payment   `json:"payments,omitempty"`
}

// OutstandingDemand is an order that still has a balance due.
type OutstandingDemand = Order

type OrderItemInput struct {
	Service   int    `json:"service"`
	Quantity  Amount `json:"quantity"`
	UnitPrice Amount `json:"unit_price,omitempty"`
}

// OrderInput is the payload for creating or replacing an order. Empty dates
// and a nil driver are sent as null.
type OrderInput struct {
	Client         int              `json:"client"`
	Status         OrderStatus      `json:"status,omitempty"`
	PickupDate     *string          `json:"pickup_date"`
	DueDate        *string          `json:"due_date"`
	AssignedDriver *int             `json:"assigned_driver"`
	Notes          string           `json:"notes"`
	Items          []OrderItemInput `json:"items"`
}

type Payment struct {
	ID              int           `json:"id"`
	Order           int           `json:"order"`
	OrderNumber     string        `json:"order_number,omitempty"`
	Amount          Amount        `json:"amount"`
	PaymentMethod   PaymentMethod `json:"payment_method"`
	ReferenceNumber string        `json:"reference_number,omitempty"`
	Notes           string        `json:"notes,omitempty"`
	PaymentDate     string        `json:"payment_date,omitempty"`
	ReceivedByName  string        `json:"received_by_name,omitempty"`
}

type PaymentInput struct {
	Order           int           `json:"order"`
	Amount          Amount        `json:"amount"`
	PaymentMethod   PaymentMethod `json:"payment_method"`
	ReferenceNumber string        `json:"reference_number,omitempty"`
	Notes           string        `json:"notes,omitempty"`
}

type InventoryItem struct {
	ID           int               `json:"id"`
	Name         string            `json:"name"`
	Category     InventoryCategory `json:"category"`
	Quantity     Amount            `json:"quantity"`
	Unit         string            `json:"unit"`
	ReorderLevel Amount            `json:"reorder_level"`
	CostPerUnit  Amount            `json:"cost_per_unit"`
	NeedsReorder bool              `json:"needs_reorder"`
	TotalValue   Amount            `json:"total_value,omitempty"`
}

type InventoryInput struct {
	Name         string            `json:"name"`
	Category     InventoryCategory `json:"category"`
	Quantity     Amount            `json:"quantity"`
	Unit         string            `json:"unit"`
	ReorderLevel Amount            `json:"reorder_level"`
	CostPerUnit  Amount            `json:"cost_per_unit"`
}

type StaffMember struct {
	ID        int    `json:"id"`
	Username  string `json:"username,omitempty"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Role      string `json:"role,omitempty"`
}

func (s StaffMember) Name() string {
	name := strings.TrimSpace(s.FirstName + " " + s.LastName)
	if name == "" {
		return s.Username
	}
	return name
}

// RegisterInput creates a staff account.
type RegisterInput struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Role      string `json:"role,omitempty"`
}

// SalesReport aggregates orders and payments over a period.
type SalesReport struct {
	Period             string `json:"period"`
	StartDate          string `json:"start_date,omitempty"`
	EndDate            string `json:"end_date,omitempty"`
	TotalOrders        int    `json:"total_orders"`
	CompletedOrders    int    `json:"completed_orders"`
	TotalRevenue       Amount `json:"total_revenue"`
	TotalPayments      Amount `json:"total_payments"`
	OutstandingBalance Amount `json:"outstanding_balance,omitempty"`
	AverageOrderValue  Amount `json:"average_order_value,omitempty"`
}

// CompletionRate is the percentage of completed orders, 0 when there are none.
func (r SalesReport) CompletionRate() float64 {
	if r.TotalOrders == 0 {
		return 0
	}
	return float64(r.CompletedOrders) / float64(r.TotalOrders) * 100
}

// CollectionRate is the percentage of revenue already paid.
func (r SalesReport) CollectionRate() float64 {
	revenue := r.TotalRevenue.Float()
	if revenue <= 0 {
		return 0
	}
	return r.TotalPayments.Float() / revenue * 100
}
