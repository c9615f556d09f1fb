package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/scalebit/admin-console/internal/domain"
)

// Stats counts the four collections shown on the overview page. The four
// lists are fetched concurrently; the first failure cancels the rest.
func (c *Console) Stats(ctx context.Context) (domain.DashboardStats, error) {
	var stats domain.DashboardStats
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		users, err := c.api.ListUsers(gctx)
		stats.Users = len(users)
		return err
	})
	g.Go(func() error {
		products, err := c.api.ListProducts(gctx)
		stats.Products = len(products)
		return err
	})
	g.Go(func() error {
		orders, err := c.api.ListOrders(gctx)
		stats.Orders = len(orders)
		return err
	})
	g.Go(func() error {
		payments, err := c.api.ListPayments(gctx)
		stats.Payments = len(payments)
		return err
	})

	if err := g.Wait(); err != nil {
		return domain.DashboardStats{}, err
	}
	return stats, nil
}
