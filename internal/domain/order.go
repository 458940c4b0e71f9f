package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is one of a closed set of fulfilment states.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

var orderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// ParseOrderStatus normalizes s and checks it against the known statuses.
func ParseOrderStatus(s string) (OrderStatus, error) {
	v := OrderStatus(strings.ToLower(strings.TrimSpace(s)))
	for _, st := range orderStatuses {
		if st == v {
			return v, nil
		}
	}
	return "", ErrInvalidStatus
}

// Delivery windows offered at checkout.
const (
	DeliveryMorning   = "Morning (8AM - 12PM)"
	DeliveryAfternoon = "Afternoon (12PM - 4PM)"
	DeliveryEvening   = "Evening (4PM - 8PM)"
)

// Payment methods offered at checkout.
const (
	PaymentESewa  = "esewa"
	PaymentKhalti = "khalti"
)

// ShippingInfo is the customer input captured on the checkout form.
type ShippingInfo struct {
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	DeliveryTime  string `json:"deliveryTime,omitempty"`
	PaymentMethod string `json:"paymentMethod,omitempty"`
}

// OrderLine is the immutable snapshot of a cart entry at submission time.
type OrderLine struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"lineTotal"`
	Image     string          `json:"image,omitempty"`
}

// Order is a recorded checkout. Only Status changes after creation.
type Order struct {
	OrderNumber     string          `json:"orderNumber"`
	Date            time.Time       `json:"date"`
	Items           []OrderLine     `json:"items"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	DeliveryCharge  decimal.Decimal `json:"deliveryCharge"`
	Total           decimal.Decimal `json:"total"`
	Status          OrderStatus     `json:"status"`
	CustomerName    string          `json:"customerName"`
	CustomerPhone   string          `json:"customerPhone"`
	DeliveryAddress string          `json:"deliveryAddress"`
	DeliveryTime    string          `json:"deliveryTime"`
	PaymentMethod   string          `json:"paymentMethod"`
}

// SnapshotLines deep-copies cart entries into order lines.
func SnapshotLines(items []LineItem) []OrderLine {
	lines := make([]OrderLine, 0, len(items))
	for _, it := range items {
		qty := it.Quantity
		if qty < 1 {
			qty = 1
		}
		lines = append(lines, OrderLine{
			ID:        it.ID,
			Name:      it.Name,
			UnitPrice: it.EffectivePrice(),
			Quantity:  qty,
			LineTotal: it.LineTotal(),
			Image:     it.Image,
		})
	}
	return lines
}
