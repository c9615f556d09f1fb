package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/scalebit/admin-console/internal/auth"
	"github.com/scalebit/admin-console/internal/domain"
)

func (a *App) dashboardCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "dashboard",
		Short:       "Show collection counts",
		Args:        cobra.NoArgs,
		Annotations: routed(auth.HomePath),
		RunE: func(cmd *cobra.Command, _ []string) error {
			stats, err := a.console.Stats(cmd.Context())
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), stats,
				[]string{"USERS", "PRODUCTS", "ORDERS", "PAYMENTS"},
				[][]string{{itoa(stats.Users), itoa(stats.Products), itoa(stats.Orders), itoa(stats.Payments)}})
		},
	}
}

func (a *App) usersCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "users", Short: "Manage users", Annotations: routed("/users")}

	var query string
	list := &cobra.Command{
		Use:   "list",
		Short: "List users, optionally filtered by name or email",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			users, err := a.console.ListUsers(cmd.Context(), query)
			if err != nil {
				return err
			}
			return a.renderUsers(cmd, users)
		},
	}
	list.Flags().StringVarP(&query, "query", "q", "", "search text")

	get := &cobra.Command{
		Use:   "get ID",
		Short: "Show one user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			user, err := a.console.GetUser(cmd.Context(), id)
			if err != nil {
				return err
			}
			return a.renderUsers(cmd, []domain.User{*user})
		},
	}

	var in domain.NewUser
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a user (admin)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := a.console.CreateUser(cmd.Context(), a.session, in)
			if err != nil {
				return err
			}
			return a.renderUser(cmd, user)
		},
	}
	create.Flags().StringVar(&in.Name, "name", "", "display name")
	create.Flags().StringVar(&in.Email, "email", "", "email")
	create.Flags().StringVar(&in.Password, "password", "", "initial password")

	var upd domain.UserUpdate
	update := &cobra.Command{
		Use:   "update ID",
		Short: "Edit a user's name and email (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			user, err := a.console.UpdateUser(cmd.Context(), a.session, id, upd)
			if err != nil {
				return err
			}
			return a.renderUser(cmd, user)
		},
	}
	update.Flags().StringVar(&upd.Name, "name", "", "display name")
	update.Flags().StringVar(&upd.Email, "email", "", "email")

	setRole := &cobra.Command{
		Use:   "set-role ID ROLE",
		Short: "Change another user's role to admin or user (admin)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			user, err := a.console.SetUserRole(cmd.Context(), a.session, id, domain.Role(args[1]))
			if err != nil {
				return err
			}
			return a.renderUser(cmd, user)
		},
	}

	del := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a user (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.console.DeleteUser(cmd.Context(), a.session, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "User %d deleted.\n", id)
			return nil
		},
	}

	cmd.AddCommand(list, get, create, update, setRole, del)
	return cmd
}

func (a *App) productsCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "products", Short: "Manage products", Annotations: routed("/products")}

	var query string
	list := &cobra.Command{
		Use:   "list",
		Short: "List products, optionally filtered by name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			products, err := a.console.ListProducts(cmd.Context(), query)
			if err != nil {
				return err
			}
			return a.renderProducts(cmd, products)
		},
	}
	list.Flags().StringVarP(&query, "query", "q", "", "search text")

	var in domain.ProductInput
	bind := func(c *cobra.Command) {
		c.Flags().StringVar(&in.Name, "name", "", "product name")
		c.Flags().Float64Var(&in.Price, "price", 0, "unit price")
		c.Flags().IntVar(&in.Stock, "stock", 0, "units in stock")
	}

	create := &cobra.Command{
		Use:   "create",
		Short: "Create a product (admin)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			product, err := a.console.CreateProduct(cmd.Context(), a.session, in)
			if err != nil {
				return err
			}
			return a.renderProducts(cmd, nonNil(product))
		},
	}
	bind(create)

	update := &cobra.Command{
		Use:   "update ID",
		Short: "Replace a product (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			product, err := a.console.UpdateProduct(cmd.Context(), a.session, id, in)
			if err != nil {
				return err
			}
			return a.renderProducts(cmd, nonNil(product))
		},
	}
	bind(update)

	del := a.deleteCommand("product", func(cmd *cobra.Command, id int64) error {
		return a.console.DeleteProduct(cmd.Context(), a.session, id)
	})

	cmd.AddCommand(list, create, update, del)
	return cmd
}

func (a *App) ordersCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "orders", Short: "Manage orders", Annotations: routed("/orders")}

	var query string
	list := &cobra.Command{
		Use:   "list",
		Short: "List orders, optionally filtered by id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			orders, err := a.console.ListOrders(cmd.Context(), query)
			if err != nil {
				return err
			}
			return a.renderOrders(cmd, orders)
		},
	}
	list.Flags().StringVarP(&query, "query", "q", "", "search text")

	var in domain.OrderInput
	bind := func(c *cobra.Command) {
		c.Flags().Int64Var(&in.UserID, "user-id", 0, "ordering user")
		c.Flags().Int64Var(&in.ProductID, "product-id", 0, "ordered product")
		c.Flags().IntVar(&in.Quantity, "quantity", 0, "quantity")
		c.Flags().StringVar(&in.Status, "status", "", "order status")
	}

	create := &cobra.Command{
		Use:   "create",
		Short: "Create an order (admin)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			order, err := a.console.CreateOrder(cmd.Context(), a.session, in)
			if err != nil {
				return err
			}
			return a.renderOrders(cmd, nonNil(order))
		},
	}
	bind(create)

	update := &cobra.Command{
		Use:   "update ID",
		Short: "Replace an order (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			order, err := a.console.UpdateOrder(cmd.Context(), a.session, id, in)
			if err != nil {
				return err
			}
			return a.renderOrders(cmd, nonNil(order))
		},
	}
	bind(update)

	del := a.deleteCommand("order", func(cmd *cobra.Command, id int64) error {
		return a.console.DeleteOrder(cmd.Context(), a.session, id)
	})

	cmd.AddCommand(list, create, update, del)
	return cmd
}

func (a *App) paymentsCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "payments", Short: "Manage payments", Annotations: routed("/payments")}

	var query string
	list := &cobra.Command{
		Use:   "list",
		Short: "List payments, optionally filtered by id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			payments, err := a.console.ListPayments(cmd.Context(), query)
			if err != nil {
				return err
			}
			return a.renderPayments(cmd, payments)
		},
	}
	list.Flags().StringVarP(&query, "query", "q", "", "search text")

	var in domain.PaymentInput
	var timestamp string
	bind := func(c *cobra.Command) {
		c.Flags().Int64Var(&in.OrderID, "order-id", 0, "paid order")
		c.Flags().Float64Var(&in.Amount, "amount", 0, "amount")
		c.Flags().StringVar(&in.Status, "status", "", "payment status")
		c.Flags().StringVar(&timestamp, "timestamp", "", "RFC3339 time (default now)")
	}
	parseTimestamp := func() error {
		if timestamp == "" {
			return nil
		}
		ts, err := time.Parse(time.RFC3339, timestamp)
		if err != nil {
			return fmt.Errorf("invalid --timestamp: %w", err)
		}
		in.Timestamp = ts
		return nil
	}

	create := &cobra.Command{
		Use:   "create",
		Short: "Record a payment (admin)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := parseTimestamp(); err != nil {
				return err
			}
			payment, err := a.console.CreatePayment(cmd.Context(), a.session, in)
			if err != nil {
				return err
			}
			return a.renderPayments(cmd, nonNil(payment))
		},
	}
	bind(create)

	update := &cobra.Command{
		Use:   "update ID",
		Short: "Replace a payment (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := parseTimestamp(); err != nil {
				return err
			}
			payment, err := a.console.UpdatePayment(cmd.Context(), a.session, id, in)
			if err != nil {
				return err
			}
			return a.renderPayments(cmd, nonNil(payment))
		},
	}
	bind(update)

	del := a.deleteCommand("payment", func(cmd *cobra.Command, id int64) error {
		return a.console.DeletePayment(cmd.Context(), a.session, id)
	})

	cmd.AddCommand(list, create, update, del)
	return cmd
}

func (a *App) deleteCommand(resource string, run func(*cobra.Command, int64) error) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: fmt.Sprintf("Delete a %s (admin)", resource),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := run(cmd, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s %d.\n", resource, id)
			return nil
		},
	}
}

func (a *App) renderUser(cmd *cobra.Command, user *domain.User) error {
	return a.renderUsers(cmd, nonNil(user))
}

func (a *App) renderUsers(cmd *cobra.Command, users []domain.User) error {
	rows := make([][]string, 0, len(users))
	for _, u := range users {
		rows = append(rows, []string{i64toa(u.ID), u.Name, u.Email, dash(string(u.Role))})
	}
	return a.render(cmd.OutOrStdout(), users, []string{"ID", "NAME", "EMAIL", "ROLE"}, rows)
}

func (a *App) renderProducts(cmd *cobra.Command, products []domain.Product) error {
	rows := make([][]string, 0, len(products))
	for _, p := range products {
		rows = append(rows, []string{i64toa(p.ID), p.Name, strconv.FormatFloat(p.Price, 'f', 2, 64), itoa(p.Stock)})
	}
	return a.render(cmd.OutOrStdout(), products, []string{"ID", "NAME", "PRICE", "STOCK"}, rows)
}

func (a *App) renderOrders(cmd *cobra.Command, orders []domain.Order) error {
	rows := make([][]string, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, []string{i64toa(o.ID), i64toa(o.UserID), i64toa(o.ProductID), itoa(o.Quantity), o.Status})
	}
	return a.render(cmd.OutOrStdout(), orders, []string{"ID", "USER", "PRODUCT", "QUANTITY", "STATUS"}, rows)
}

func (a *App) renderPayments(cmd *cobra.Command, payments []domain.Payment) error {
	rows := make([][]string, 0, len(payments))
	for _, p := range payments {
		rows = append(rows, []string{
			i64toa(p.ID), i64toa(p.OrderID), strconv.FormatFloat(p.Amount, 'f', 2, 64), p.Status,
			p.Timestamp.UTC().Format(time.RFC3339),
		})
	}
	return a.render(cmd.OutOrStdout(), payments, []string{"ID", "ORDER", "AMOUNT", "STATUS", "TIMESTAMP"}, rows)
}

// nonNil turns an optional gateway echo into a zero- or one-element slice.
func nonNil[T any](v *T) []T {
	if v == nil {
		return []T{}
	}
	return []T{*v}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func itoa(n int) string { return strconv.Itoa(n) }

func i64toa(n int64) string { return strconv.FormatInt(n, 10) }
