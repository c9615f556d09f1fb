package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/scalebit/admin-console/internal/domain"
	apperrors "github.com/scalebit/admin-console/pkg/util"
)

// ListProducts returns products whose name contains query, ignoring case.
func (c *Console) ListProducts(ctx context.Context, query string) ([]domain.Product, error) {
	products, err := c.api.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(strings.TrimSpace(query))
	return filter(products, func(p domain.Product) bool {
		return strings.Contains(strings.ToLower(p.Name), q)
	}), nil
}

func (c *Console) CreateProduct(ctx context.Context, session domain.Session, in domain.ProductInput) (*domain.Product, error) {
	if err := requireAdmin(session); err != nil {
		return nil, err
	}
	if err := validateProduct(&in); err != nil {
		return nil, err
	}
	return c.api.CreateProduct(ctx, in)
}

func (c *Console) UpdateProduct(ctx context.Context, session domain.Session, id int64, in domain.ProductInput) (*domain.Product, error) {
	if err := requireAdmin(session); err != nil {
		return nil, err
	}
	if err := validateProduct(&in); err != nil {
		return nil, err
	}
	return c.api.UpdateProduct(ctx, id, in)
}

func (c *Console) DeleteProduct(ctx context.Context, session domain.Session, id int64) error {
	if err := requireAdmin(session); err != nil {
		return err
	}
	return c.api.DeleteProduct(ctx, id)
}

// ListOrders returns orders whose id contains query.
func (c *Console) ListOrders(ctx context.Context, query string) ([]domain.Order, error) {
	orders, err := c.api.ListOrders(ctx)
	if err != nil {
		return nil, err
	}
	q := strings.TrimSpace(query)
	return filter(orders, func(o domain.Order) bool {
		return strings.Contains(strconv.FormatInt(o.ID, 10), q)
	}), nil
}

func (c *Console) CreateOrder(ctx context.Context, session domain.Session, in domain.OrderInput) (*domain.Order, error) {
	if err := requireAdmin(session); err != nil {
		return nil, err
	}
	if err := validateOrder(&in); err != nil {
		return nil, err
	}
	return c.api.CreateOrder(ctx, in)
}

func (c *Console) UpdateOrder(ctx context.Context, session domain.Session, id int64, in domain.OrderInput) (*domain.Order, error) {
	if err := requireAdmin(session); err != nil {
		return nil, err
	}
	if err := validateOrder(&in); err != nil {
		return nil, err
	}
	return c.api.UpdateOrder(ctx, id, in)
}

func (c *Console) DeleteOrder(ctx context.Context, session domain.Session, id int64) error {
	if err := requireAdmin(session); err != nil {
		return err
	}
	return c.api.DeleteOrder(ctx, id)
}

// ListPayments returns payments whose id contains query.
func (c *Console) ListPayments(ctx context.Context, query string) ([]domain.Payment, error) {
	payments, err := c.api.ListPayments(ctx)
	if err != nil {
		return nil, err
	}
	q := strings.TrimSpace(query)
	return filter(payments, func(p domain.Payment) bool {
		return strings.Contains(strconv.FormatInt(p.ID, 10), q)
	}), nil
}

func (c *Console) CreatePayment(ctx context.Context, session domain.Session, in domain.PaymentInput) (*domain.Payment, error) {
	if err := requireAdmin(session); err != nil {
		return nil, err
	}
	if err := c.validatePayment(&in); err != nil {
		return nil, err
	}
	return c.api.CreatePayment(ctx, in)
}

func (c *Console) UpdatePayment(ctx context.Context, session domain.Session, id int64, in domain.PaymentInput) (*domain.Payment, error) {
	if err := requireAdmin(session); err != nil {
		return nil, err
	}
	if err := c.validatePayment(&in); err != nil {
		return nil, err
	}
	return c.api.UpdatePayment(ctx, id, in)
}

func (c *Console) DeletePayment(ctx context.Context, session domain.Session, id int64) error {
	if err := requireAdmin(session); err != nil {
		return err
	}
	return c.api.DeletePayment(ctx, id)
}

func validateProduct(in *domain.ProductInput) error {
	in.Name = strings.TrimSpace(in.Name)
	details := map[string]any{}
	if in.Name == "" {
		details["name"] = "required"
	}
	if in.Price < 0 {
		details["price"] = "must not be negative"
	}
	if in.Stock < 0 {
		details["stock"] = "must not be negative"
	}
	return detailsError("invalid product", details)
}

func validateOrder(in *domain.OrderInput) error {
	in.Status = strings.TrimSpace(in.Status)
	details := map[string]any{}
	if in.UserID <= 0 {
		details["user_id"] = "required"
	}
	if in.ProductID <= 0 {
		details["product_id"] = "required"
	}
	if in.Quantity < 0 {
		details["quantity"] = "must not be negative"
	}
	if in.Status == "" {
		details["status"] = "required"
	}
	return detailsError("invalid order", details)
}

// validatePayment defaults a missing timestamp to now.
func (c *Console) validatePayment(in *domain.PaymentInput) error {
	in.Status = strings.TrimSpace(in.Status)
	details := map[string]any{}
	if in.OrderID <= 0 {
		details["order_id"] = "required"
	}
	if in.Amount < 0 {
		details["amount"] = "must not be negative"
	}
	if in.Status == "" {
		details["status"] = "required"
	}
	if err := detailsError("invalid payment", details); err != nil {
		return err
	}
	if in.Timestamp.IsZero() {
		in.Timestamp = c.now().UTC().Truncate(time.Second)
	}
	return nil
}

func detailsError(message string, details map[string]any) error {
	if len(details) == 0 {
		return nil
	}
	return apperrors.NewValidationError(message, details)
}

func filter[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}
