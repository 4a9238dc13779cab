package dashboard

import (
	"context"
	"fmt"

	"github.com/gabyel-dev/CafeRealitea/api"
)

// API is the read-only reporting slice of the backend client.
type API interface {
	YearlySales(ctx context.Context) ([]api.YearlySales, error)
	MonthlySales(ctx context.Context) ([]api.MonthlySales, error)
	CurrentMonthSales(ctx context.Context) (*api.MonthlySales, error)
	DailySales(ctx context.Context) ([]api.DailySales, error)
	RecentSales(ctx context.Context) ([]api.RecentSale, error)
	TopItems(ctx context.Context) ([]api.TopItem, error)
}

// Overview is everything the dashboard landing screen shows.
type Overview struct {
	Yearly       []api.YearlySales
	CurrentMonth *api.MonthlySales
	TopItems     []api.TopItem
	RecentSales  []api.RecentSale
}

// SalesHistory backs the sales history screen.
type SalesHistory struct {
	Daily   []api.DailySales
	Monthly []api.MonthlySales
}

// Loader fetches reporting data. There is no logic here beyond fetching;
// on error the caller keeps whatever it was already showing and offers a
// retry.
type Loader struct {
	api API
}

func NewLoader(a API) *Loader {
	return &Loader{api: a}
}

func (l *Loader) Overview(ctx context.Context) (*Overview, error) {
	yearly, err := l.api.YearlySales(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not load yearly sales: %w", err)
	}
	current, err := l.api.CurrentMonthSales(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not load current month sales: %w", err)
	}
	top, err := l.api.TopItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not load top items: %w", err)
	}
	recent, err := l.api.RecentSales(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not load recent sales: %w", err)
	}
	return &Overview{
		Yearly:       yearly,
		CurrentMonth: current,
		TopItems:     top,
		RecentSales:  recent,
	}, nil
}

func (l *Loader) SalesHistory(ctx context.Context) (*SalesHistory, error) {
	daily, err := l.api.DailySales(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not load daily sales: %w", err)
	}
	monthly, err := l.api.MonthlySales(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not load monthly sales: %w", err)
	}
	return &SalesHistory{Daily: daily, Monthly: monthly}, nil
}
