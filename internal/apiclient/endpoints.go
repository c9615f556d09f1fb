package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/scalebit/admin-console/internal/domain"
	apperrors "github.com/scalebit/admin-console/pkg/util"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// userRecord is the full-user PUT body used for role changes.
type userRecord struct {
	ID    int64       `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}

// Login exchanges credentials for a raw bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var out tokenResponse
	if _, err := c.doJSON(ctx, http.MethodPost, "/login", credentials{Email: email, Password: password}, &out); err != nil {
		return "", err
	}
	if out.Token == "" {
		return "", apperrors.NewUpstreamError(http.StatusBadGateway, "login response carried no token")
	}
	return out.Token, nil
}

// Register creates an account. The gateway does not log the caller in.
func (c *Client) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	return create[domain.User](ctx, c, "/register", registration{Name: name, Email: email, Password: password})
}

func (c *Client) ListUsers(ctx context.Context) ([]domain.User, error) {
	return list[domain.User](ctx, c, "/users")
}

func (c *Client) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	ok, err := c.doJSON(ctx, http.MethodGet, itemPath("/users", id), nil, &u)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.NewNotFound("user", map[string]any{"id": id})
	}
	return &u, nil
}

func (c *Client) CreateUser(ctx context.Context, in domain.NewUser) (*domain.User, error) {
	return create[domain.User](ctx, c, "/users", in)
}

func (c *Client) UpdateUser(ctx context.Context, id int64, in domain.UserUpdate) (*domain.User, error) {
	return update[domain.User](ctx, c, itemPath("/users", id), in)
}

// SetUserRole sends the whole user record with the new role, as the users
// service expects a full PUT body.
func (c *Client) SetUserRole(ctx context.Context, u domain.User, role domain.Role) (*domain.User, error) {
	body := userRecord{ID: u.ID, Name: u.Name, Email: u.Email, Role: role}
	return update[domain.User](ctx, c, itemPath("/users", u.ID), body)
}

func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	return c.remove(ctx, itemPath("/users", id))
}

func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return list[domain.Product](ctx, c, "/products")
}

func (c *Client) CreateProduct(ctx context.Context, in domain.ProductInput) (*domain.Product, error) {
	return create[domain.Product](ctx, c, "/products", in)
}

func (c *Client) UpdateProduct(ctx context.Context, id int64, in domain.ProductInput) (*domain.Product, error) {
	return update[domain.Product](ctx, c, itemPath("/products", id), in)
}

func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	return c.remove(ctx, itemPath("/products", id))
}

func (c *Client) ListOrders(ctx context.Context) ([]domain.Order, error) {
	return list[domain.Order](ctx, c, "/orders")
}

func (c *Client) CreateOrder(ctx context.Context, in domain.OrderInput) (*domain.Order, error) {
	return create[domain.Order](ctx, c, "/orders", in)
}

func (c *Client) UpdateOrder(ctx context.Context, id int64, in domain.OrderInput) (*domain.Order, error) {
	return update[domain.Order](ctx, c, itemPath("/orders", id), in)
}

func (c *Client) DeleteOrder(ctx context.Context, id int64) error {
	return c.remove(ctx, itemPath("/orders", id))
}

func (c *Client) ListPayments(ctx context.Context) ([]domain.Payment, error) {
	return list[domain.Payment](ctx, c, "/payments")
}

func (c *Client) CreatePayment(ctx context.Context, in domain.PaymentInput) (*domain.Payment, error) {
	return create[domain.Payment](ctx, c, "/payments", in)
}

func (c *Client) UpdatePayment(ctx context.Context, id int64, in domain.PaymentInput) (*domain.Payment, error) {
	return update[domain.Payment](ctx, c, itemPath("/payments", id), in)
}

func (c *Client) DeletePayment(ctx context.Context, id int64) error {
	return c.remove(ctx, itemPath("/payments", id))
}

func itemPath(collection string, id int64) string {
	return fmt.Sprintf("%s/%d", collection, id)
}

func list[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	var items []T
	if _, err := c.doJSON(ctx, http.MethodGet, path, nil, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// create returns nil without error when the gateway answers with an empty body.
func create[T any](ctx context.Context, c *Client, path string, in any) (*T, error) {
	return send[T](ctx, c, http.MethodPost, path, in)
}

func update[T any](ctx context.Context, c *Client, path string, in any) (*T, error) {
	return send[T](ctx, c, http.MethodPut, path, in)
}

func send[T any](ctx context.Context, c *Client, method, path string, in any) (*T, error) {
	var out T
	ok, err := c.doJSON(ctx, method, path, in, &out)
	if err != nil || !ok {
		return nil, err
	}
	return &out, nil
}

func (c *Client) remove(ctx context.Context, path string) error {
	_, err := c.doJSON(ctx, http.MethodDelete, path, nil, nil)
	return err
}
