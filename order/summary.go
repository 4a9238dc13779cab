package order

// LineItem is one row of an order draft. Quantity zero means "not set" and
// counts as one, matching how single-tap items were added in the register.
type LineItem struct {
	ID       int
	Name     string
	Price    float64
	Quantity int
}

type Summary struct {
	Total  float64
	Change float64
}

// ComputeSummary reduces the line items to a total and the change due.
// Plain float arithmetic, no rounding: the register rounds only at display
// time. Change may go negative when the customer underpays; callers decide
// what to do with that (the register shows it and lets the sale through).
func ComputeSummary(items []LineItem, customerMoney float64) Summary {
	var total float64
	for _, item := range items {
		qty := item.Quantity
		if qty == 0 {
			qty = 1
		}
		total += item.Price * float64(qty)
	}
	return Summary{Total: total, Change: customerMoney - total}
}
