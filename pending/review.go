package pending

import (
	"context"
	"sync"

	"github.com/op/go-logging"

	"github.com/gabyel-dev/CafeRealitea/api"
)

var log = logging.MustGetLogger("log")

// API is the slice of the backend client the review flow needs.
type API interface {
	PendingOrders(ctx context.Context) ([]api.PendingOrder, error)
	PendingOrderDetails(ctx context.Context, id int) (*api.PendingOrderDetails, error)
	ConfirmPendingOrder(ctx context.Context, id int) error
	CancelPendingOrder(ctx context.Context, id int) error
}

// Alerter shows a user-visible message. Write failures always reach the
// user through it; read failures only get logged.
type Alerter interface {
	Alert(message string)
}

// Review drives the pending-orders screen: list, drill into one order,
// confirm or cancel it. Confirm and cancel refresh the list on success and
// leave everything untouched on failure (there is no optimistic update to
// roll back).
type Review struct {
	api   API
	alert Alerter

	mu       sync.Mutex
	orders   []api.PendingOrder
	selected *api.PendingOrderDetails
}

func NewReview(a API, alert Alerter) *Review {
	return &Review{api: a, alert: alert}
}

// Refresh reloads the list. On failure the previous list stays visible and
// the error is returned for an inline retry prompt.
func (r *Review) Refresh(ctx context.Context) error {
	orders, err := r.api.PendingOrders(ctx)
	if err != nil {
		log.Errorf("Error fetching pending orders: %v", err)
		return err
	}
	r.mu.Lock()
	r.orders = orders
	r.mu.Unlock()
	return nil
}

func (r *Review) Orders() []api.PendingOrder {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]api.PendingOrder, len(r.orders))
	copy(out, r.orders)
	return out
}

// View loads one order's details and marks it selected.
func (r *Review) View(ctx context.Context, id int) (*api.PendingOrderDetails, error) {
	details, err := r.api.PendingOrderDetails(ctx, id)
	if err != nil {
		log.Errorf("Error fetching order details: %v", err)
		return nil, err
	}
	r.mu.Lock()
	r.selected = details
	r.mu.Unlock()
	return details, nil
}

func (r *Review) Selected() *api.PendingOrderDetails {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.selected
}

// Confirm marks the order as a completed sale.
func (r *Review) Confirm(ctx context.Context, id int) {
	if err := r.api.ConfirmPendingOrder(ctx, id); err != nil {
		log.Errorf("Error confirming order %d: %v", id, err)
		r.alert.Alert("Could not confirm the order. Please try again.")
		return
	}
	r.alert.Alert("Order confirmed successfully!")
	r.afterDecision(ctx)
}

// Cancel discards the pending order.
func (r *Review) Cancel(ctx context.Context, id int) {
	if err := r.api.CancelPendingOrder(ctx, id); err != nil {
		log.Errorf("Error cancelling order %d: %v", id, err)
		r.alert.Alert("Could not cancel the order. Please try again.")
		return
	}
	r.alert.Alert("Order cancelled successfully!")
	r.afterDecision(ctx)
}

func (r *Review) afterDecision(ctx context.Context) {
	r.mu.Lock()
	r.selected = nil
	r.mu.Unlock()
	if err := r.Refresh(ctx); err != nil {
		log.Warningf("Pending list refresh after decision failed: %v", err)
	}
}
