package order

import (
	"errors"

	"github.com/google/uuid"

	"github.com/gabyel-dev/CafeRealitea/api"
)

type OrderType string

const (
	DineIn   OrderType = "Dine In"
	Delivery OrderType = "Delivery"
)

type PaymentMethod string

const (
	Cash  PaymentMethod = "Cash"
	GCash PaymentMethod = "GCash"
)

var ErrEmptyOrder = errors.New("order has no items")

// Draft is the order being assembled at the register. One draft lives per
// order-management session; it is reset after a successful submission.
type Draft struct {
	Reference     uuid.UUID
	CustomerName  string
	OrderType     OrderType
	PaymentMethod PaymentMethod
	Items         []LineItem
	CustomerMoney float64
}

func NewDraft() *Draft {
	return &Draft{
		Reference:     uuid.New(),
		OrderType:     DineIn,
		PaymentMethod: Cash,
	}
}

// AddItem puts a menu item on the draft. Tapping an item that is already on
// the order bumps its quantity instead of adding a duplicate row.
func (d *Draft) AddItem(item api.MenuItem) {
	for i := range d.Items {
		if d.Items[i].ID == item.ID {
			d.Items[i].Quantity++
			return
		}
	}
	d.Items = append(d.Items, LineItem{
		ID:       item.ID,
		Name:     item.Name,
		Price:    item.Price,
		Quantity: 1,
	})
}

// RemoveItem drops one unit of the item; the row disappears when the last
// unit goes.
func (d *Draft) RemoveItem(itemID int) {
	for i := range d.Items {
		if d.Items[i].ID != itemID {
			continue
		}
		if d.Items[i].Quantity > 1 {
			d.Items[i].Quantity--
			return
		}
		d.Items = append(d.Items[:i], d.Items[i+1:]...)
		return
	}
}

func (d *Draft) Summary() Summary {
	return ComputeSummary(d.Items, d.CustomerMoney)
}

// CanSubmit reports whether the draft is complete enough to send. An empty
// cart blocks submission; underpayment does not.
func (d *Draft) CanSubmit() bool {
	return len(d.Items) > 0
}

// Submission builds the wire payload for POST /orders. Fails on an empty
// cart so the caller never has to special-case it.
func (d *Draft) Submission() (api.OrderSubmission, error) {
	if !d.CanSubmit() {
		return api.OrderSubmission{}, ErrEmptyOrder
	}
	summary := d.Summary()
	items := make([]api.OrderItem, 0, len(d.Items))
	for _, item := range d.Items {
		qty := item.Quantity
		if qty == 0 {
			qty = 1
		}
		items = append(items, api.OrderItem{
			ID:       item.ID,
			Name:     item.Name,
			Price:    item.Price,
			Quantity: qty,
		})
	}
	return api.OrderSubmission{
		Reference:     d.Reference.String(),
		CustomerName:  d.CustomerName,
		OrderType:     string(d.OrderType),
		PaymentMethod: string(d.PaymentMethod),
		Items:         items,
		Total:         summary.Total,
		CustomerMoney: d.CustomerMoney,
		Change:        summary.Change,
	}, nil
}

// Reset clears the draft for the next customer under a fresh reference.
func (d *Draft) Reset() {
	*d = *NewDraft()
}
