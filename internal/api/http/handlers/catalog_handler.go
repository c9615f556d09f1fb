package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/scalebit/admin-console/internal/api/dto"
	"github.com/scalebit/admin-console/internal/domain"
)

// CatalogHandler serves the products, orders and payments pages.
type CatalogHandler struct{}

func NewCatalogHandler() *CatalogHandler {
	return &CatalogHandler{}
}

// ListProducts handles GET /products?q=.
func (h *CatalogHandler) ListProducts(c *fiber.Ctx) error {
	console, err := consoleFrom(c)
	if err != nil {
		return err
	}
	query := c.Query("q")
	products, err := console.ListProducts(c.UserContext(), query)
	if err != nil {
		return err
	}
	return data(c, fiber.StatusOK, dto.NewListView(products, query, sessionFrom(c)))
}

// CreateProduct handles POST /products.
func (h *CatalogHandler) CreateProduct(c *fiber.Ctx) error {
	console, err := consoleFrom(c)
	if err != nil {
		return err
	}
	var req dto.ProductRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	product, err := console.CreateProduct(c.UserContext(), sessionFrom(c), productInput(req))
	if err != nil {
		return err
	}
	return data(c, fiber.StatusCreated, product)
}

// UpdateProduct handles PUT /products/:id.
func (h *CatalogHandler) UpdateProduct(c *fiber.Ctx) error {
	console, err := consoleFrom(c)
	if err != nil {
		return err
	}
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var req dto.ProductRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	product, err := console.UpdateProduct(c.UserContext(), sessionFrom(c), id, productInput(req))
	if err != nil {
		return err
	}
	return data(c, fiber.StatusOK, product)
}

// DeleteProduct handles DELETE /products/:id.
func (h *CatalogHandler) DeleteProduct(c *fiber.Ctx) error {
	console, err := consoleFrom(c)
	if err != nil {
		return err
	}
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := console.DeleteProduct(c.UserContext(), sessionFrom(c), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListOrders handles GET /orders?q=.
func (h *CatalogHandler) ListOrders(c *fiber.Ctx) error {
	console, err := consoleFrom(c)
	if err != nil {
		return err
	}
	query := c.Query("q")
	orders, err := console.ListOrders(c.UserContext(), query)
	if err != nil {
		return err
	}
	return data(c, fiber.StatusOK, dto.NewListView(orders, query, sessionFrom(c)))
}

// CreateOrder handles POST /orders.
func (h *CatalogHandler) CreateOrder(c *fiber.Ctx) error {
	console, err := consoleFrom(c)
	if err != nil {
		return err
	}
	var req dto.OrderRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	order, err := console.CreateOrder(c.UserContext(), sessionFrom(c), orderInput(req))
	if err != nil {
		return err
	}
	return data(c, fiber.StatusCreated, order)
}

// UpdateOrder handles PUT /orders/:id.
func (h *CatalogHandler) UpdateOrder(c *fiber.Ctx) error {
	console, err := consoleFrom(c)
	if err != nil {
		return err
	}
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var req dto.OrderRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	order, err := console.UpdateOrder(c.UserContext(), sessionFrom(c), id, orderInput(req))
	if err != nil {
		return err
	}
	return data(c, fiber.StatusOK, order)
}

// DeleteOrder handles DELETE /orders/:id.
func (h *CatalogHandler) DeleteOrder(c *fiber.Ctx) error {
	console, err := consoleFrom(c)
	if err != nil {
		return err
	}
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := console.DeleteOrder(c.UserContext(), sessionFrom(c), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListPayments handles GET /payments?q=.
func (h *CatalogHandler) ListPayments(c *fiber.Ctx) error {
	console, err := consoleFrom(c)
	if err != nil {
		return err
	}
	query := c.Query("q")
	payments, err := console.ListPayments(c.UserContext(), query)
	if err != nil {
		return err
	}
	return data(c, fiber.StatusOK, dto.NewListView(payments, query, sessionFrom(c)))
}

// CreatePayment handles POST /payments.
func (h *CatalogHandler) CreatePayment(c *fiber.Ctx) error {
	console, err := consoleFrom(c)
	if err != nil {
		return err
	}
	var req dto.PaymentRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	payment, err := console.CreatePayment(c.UserContext(), sessionFrom(c), paymentInput(req))
	if err != nil {
		return err
	}
	return data(c, fiber.StatusCreated, payment)
}

// UpdatePayment handles PUT /payments/:id.
func (h *CatalogHandler) UpdatePayment(c *fiber.Ctx) error {
	console, err := consoleFrom(c)
	if err != nil {
		return err
	}
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var req dto.PaymentRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	payment, err := console.UpdatePayment(c.UserContext(), sessionFrom(c), id, paymentInput(req))
	if err != nil {
		return err
	}
	return data(c, fiber.StatusOK, payment)
}

// DeletePayment handles DELETE /payments/:id.
func (h *CatalogHandler) DeletePayment(c *fiber.Ctx) error {
	console, err := consoleFrom(c)
	if err != nil {
		return err
	}
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := console.DeletePayment(c.UserContext(), sessionFrom(c), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func productInput(req dto.ProductRequest) domain.ProductInput {
	return domain.ProductInput{Name: req.Name, Price: req.Price, Stock: req.Stock}
}

func orderInput(req dto.OrderRequest) domain.OrderInput {
	return domain.OrderInput{UserID: req.UserID, ProductID: req.ProductID, Quantity: req.Quantity, Status: req.Status}
}

func paymentInput(req dto.PaymentRequest) domain.PaymentInput {
	return domain.PaymentInput{OrderID: req.OrderID, Amount: req.Amount, Status: req.Status, Timestamp: req.Timestamp}
}
