package views

import (
	"fmt"
	"io"
	"sync"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/gabyel-dev/CafeRealitea/api"
	"github.com/gabyel-dev/CafeRealitea/dashboard"
	"github.com/gabyel-dev/CafeRealitea/notify"
	"github.com/gabyel-dev/CafeRealitea/order"
)

// Peso formats an amount for display: two decimals, thousands separators.
// Display formatting only; totals are never rounded before this point.
func Peso(amount float64) string {
	return "₱" + humanize.CommafWithDigits(amount, 2)
}

// Terminal renders every screen of the POS client as plain text. It also
// serves as the notification sink and the alert surface, so everything the
// user sees funnels through one writer.
type Terminal struct {
	mu  sync.Mutex
	out io.Writer
}

func NewTerminal(out io.Writer) *Terminal {
	return &Terminal{out: out}
}

func (t *Terminal) printf(format string, args ...any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.out, format, args...)
}

// Title prints the screen header, the counterpart of the page titles the
// web front-end set per view.
func (t *Terminal) Title(screen string) {
	t.printf("\n=== Café Realitea - %s ===\n", screen)
}

// Toast implements notify.Sink.
func (t *Terminal) Toast(e notify.Event) {
	t.printf("[notification] %s\n", e.Message)
}

// PendingCount implements notify.Sink.
func (t *Terminal) PendingCount(n int) {
	t.printf("[pending orders: %d]\n", n)
}

// Alert implements pending.Alerter.
func (t *Terminal) Alert(message string) {
	t.printf("!! %s\n", message)
}

// Error renders a read failure with its retry hint (the inline
// error-with-retry pattern).
func (t *Terminal) Error(what string, err error) {
	t.printf("Could not load %s: %v (retry with the same command)\n", what, err)
}

func (t *Terminal) RenderCatalog(categories []api.Category) {
	t.mu.Lock()
	defer t.mu.Unlock()
	w := tabwriter.NewWriter(t.out, 0, 4, 2, ' ', 0)
	for _, cat := range categories {
		fmt.Fprintf(w, "%s\t\t\n", cat.Name)
		for _, item := range cat.Items {
			fmt.Fprintf(w, "  [%d]\t%s\t%s\n", item.ID, item.Name, Peso(item.Price))
		}
	}
	w.Flush()
}

func (t *Terminal) RenderDraft(d *order.Draft) {
	t.mu.Lock()
	defer t.mu.Unlock()
	summary := d.Summary()
	w := tabwriter.NewWriter(t.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Customer:\t%s\n", d.CustomerName)
	fmt.Fprintf(w, "Type:\t%s\tPayment:\t%s\n", d.OrderType, d.PaymentMethod)
	for _, item := range d.Items {
		qty := item.Quantity
		if qty == 0 {
			qty = 1
		}
		fmt.Fprintf(w, "  %dx\t%s\t%s\n", qty, item.Name, Peso(item.Price*float64(qty)))
	}
	fmt.Fprintf(w, "Total:\t%s\n", Peso(summary.Total))
	fmt.Fprintf(w, "Tendered:\t%s\n", Peso(d.CustomerMoney))
	fmt.Fprintf(w, "Change:\t%s\n", Peso(summary.Change))
	if summary.Change < 0 {
		fmt.Fprintf(w, "Warning:\tcustomer money does not cover the total\n")
	}
	w.Flush()
}

func (t *Terminal) RenderOverview(o *dashboard.Overview) {
	t.mu.Lock()
	defer t.mu.Unlock()
	w := tabwriter.NewWriter(t.out, 0, 4, 2, ' ', 0)
	if o.CurrentMonth != nil {
		fmt.Fprintf(w, "This month:\t%s orders\t%s\n",
			humanize.Comma(int64(o.CurrentMonth.TotalOrders)), Peso(o.CurrentMonth.TotalSales))
	}
	for _, y := range o.Yearly {
		fmt.Fprintf(w, "%d\t%s orders\t%s\n", y.Year, humanize.Comma(int64(y.TotalOrders)), Peso(y.TotalSales))
	}
	if len(o.TopItems) > 0 {
		fmt.Fprintf(w, "Top items:\t\t\n")
		for _, item := range o.TopItems {
			fmt.Fprintf(w, "  %s\tsold %s\t%s\n", item.Name, humanize.Comma(int64(item.Sold)), Peso(item.Revenue))
		}
	}
	if len(o.RecentSales) > 0 {
		fmt.Fprintf(w, "Recent sales:\t\t\n")
		for _, sale := range o.RecentSales {
			fmt.Fprintf(w, "  #%d\t%s\t%s\n", sale.OrderID, sale.CustomerName, Peso(sale.Total))
		}
	}
	w.Flush()
}

func (t *Terminal) RenderSalesHistory(h *dashboard.SalesHistory) {
	t.mu.Lock()
	defer t.mu.Unlock()
	w := tabwriter.NewWriter(t.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Daily sales:\t\t\n")
	for _, d := range h.Daily {
		fmt.Fprintf(w, "  %s\t%d orders\t%s\n", d.Day, d.TotalOrders, Peso(d.TotalSales))
	}
	fmt.Fprintf(w, "Monthly sales:\t\t\n")
	for _, m := range h.Monthly {
		fmt.Fprintf(w, "  %s\t%d orders\t%s\n", m.Month, m.TotalOrders, Peso(m.TotalSales))
	}
	w.Flush()
}

func (t *Terminal) RenderPendingOrders(orders []api.PendingOrder) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(orders) == 0 {
		fmt.Fprintln(t.out, "No pending orders.")
		return
	}
	w := tabwriter.NewWriter(t.out, 0, 4, 2, ' ', 0)
	for _, o := range orders {
		fmt.Fprintf(w, "  #%d\t%s\t%s\t%s\t%s\n", o.ID, o.CustomerName, o.OrderType, o.PaymentMethod, Peso(o.Total))
	}
	w.Flush()
}

func (t *Terminal) RenderPendingDetails(d *api.PendingOrderDetails) {
	t.mu.Lock()
	defer t.mu.Unlock()
	w := tabwriter.NewWriter(t.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Order #%d\t\t\n", d.ID)
	fmt.Fprintf(w, "Customer:\t%s\tType:\t%s\n", d.CustomerName, d.OrderType)
	fmt.Fprintf(w, "Payment:\t%s\tTotal:\t%s\n", d.PaymentMethod, Peso(d.Total))
	for _, item := range d.Items {
		fmt.Fprintf(w, "  %dx\t%s\t%s\n", item.Quantity, item.Name, Peso(item.Price))
	}
	w.Flush()
}

func (t *Terminal) RenderOrderRecord(r *api.OrderRecord) {
	t.mu.Lock()
	defer t.mu.Unlock()
	w := tabwriter.NewWriter(t.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Order #%d\t%s\t\n", r.ID, r.Status)
	fmt.Fprintf(w, "Customer:\t%s\tType:\t%s\n", r.CustomerName, r.OrderType)
	fmt.Fprintf(w, "Payment:\t%s\tPlaced:\t%s\n", r.PaymentMethod, r.PlacedAt)
	for _, item := range r.Items {
		fmt.Fprintf(w, "  %dx\t%s\t%s\n", item.Quantity, item.Name, Peso(item.Price))
	}
	fmt.Fprintf(w, "Total:\t%s\n", Peso(r.Total))
	w.Flush()
}

func (t *Terminal) RenderAccounts(accounts []api.Account) {
	t.mu.Lock()
	defer t.mu.Unlock()
	w := tabwriter.NewWriter(t.out, 0, 4, 2, ' ', 0)
	for _, a := range accounts {
		fmt.Fprintf(w, "  [%d]\t%s %s\t%s\t%s\n", a.ID, a.FirstName, a.LastName, a.Email, a.Role)
	}
	w.Flush()
}
