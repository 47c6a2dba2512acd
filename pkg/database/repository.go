package database

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"customer-analytics/pkg/models"
)

var identifier = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// Tables names the tables the repository reads from.
type Tables struct {
	Orders     string `env:"ORDERS" envDefault:"orders"`
	OrderItems string `env:"ORDER_ITEMS" envDefault:"order_items"`
	Products   string `env:"PRODUCTS" envDefault:"products"`
	Categories string `env:"CATEGORIES" envDefault:"categories"`
	Customers  string `env:"CUSTOMERS" envDefault:"customers"`
}

// DefaultTables matches the shop schema.
var DefaultTables = Tables{
	Orders:     "orders",
	OrderItems: "order_items",
	Products:   "products",
	Categories: "categories",
	Customers:  "customers",
}

func (t Tables) validate() error {
	for _, name := range []string{t.Orders, t.OrderItems, t.Products, t.Categories, t.Customers} {
		if !identifier.MatchString(name) {
			return fmt.Errorf("invalid table name %q", name)
		}
	}
	return nil
}

// Repository reads order, item and customer snapshots from a SQL store.
type Repository struct {
	db      *sql.DB
	dialect Dialect
	tables  Tables
	log     logrus.FieldLogger
}

// NewRepository checks the table names before they are interpolated into any query.
func NewRepository(db *sql.DB, dialect Dialect, tables Tables, log logrus.FieldLogger) (*Repository, error) {
	if err := tables.validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Repository{db: db, dialect: dialect, tables: tables, log: log}, nil
}

func (r *Repository) query(ctx context.Context, q string, args ...any) (*sql.Rows, error) {
	q = rebind(r.dialect, q)
	r.log.WithField("args", len(args)).Debug(strings.Join(strings.Fields(q), " "))
	return r.db.QueryContext(ctx, q, args...)
}

func (r *Repository) orderColumns(alias string) string {
	return fmt.Sprintf("%[1]s.id, %[1]s.customer_id, %[1]s.created_at, %[1]s.total, %[1]s.status", alias)
}

func scanOrder(rows *sql.Rows) (models.Order, error) {
	var (
		o        models.Order
		customer sql.NullString
		status   string
	)
	if err := rows.Scan(&o.ID, &customer, &o.CreatedAt, &o.Total, &status); err != nil {
		return o, err
	}
	if customer.Valid {
		id := customer.String
		o.CustomerID = &id
	}
	o.CreatedAt = o.CreatedAt.UTC()
	o.Status = models.OrderStatus(strings.ToUpper(status))
	return o, nil
}

// FindOrders returns the orders created in rng, oldest first.
func (r *Repository) FindOrders(ctx context.Context, rng models.DateRange, filter models.OrderFilter) ([]models.Order, error) {
	q := fmt.Sprintf(`
		SELECT %s
		FROM %s o
		WHERE o.created_at >= ? AND o.created_at <= ?`, r.orderColumns("o"), r.tables.Orders)
	args := []any{rng.Start.UTC(), rng.End.UTC()}
	if !filter.IncludeCancelled {
		q += ` AND o.status <> ?`
		args = append(args, string(models.StatusCancelled))
	}
	q += ` ORDER BY o.created_at`

	rows, err := r.query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var out []models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	r.log.WithField("orders", len(out)).Debug("orders loaded")
	return out, nil
}

// FindOrderItems returns the lines of the non-cancelled orders created in rng, with product and
// category names resolved.
func (r *Repository) FindOrderItems(ctx context.Context, rng models.DateRange) ([]models.OrderItem, error) {
	q := fmt.Sprintf(`
		SELECT oi.order_id, oi.product_id, COALESCE(p.name, ''), c.name, oi.quantity, oi.price
		FROM %s oi
		JOIN %s o ON o.id = oi.order_id
		LEFT JOIN %s p ON p.id = oi.product_id
		LEFT JOIN %s c ON c.id = p.category_id
		WHERE o.created_at >= ? AND o.created_at <= ? AND o.status <> ?`,
		r.tables.OrderItems, r.tables.Orders, r.tables.Products, r.tables.Categories)

	rows, err := r.query(ctx, q, rng.Start.UTC(), rng.End.UTC(), string(models.StatusCancelled))
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	var out []models.OrderItem
	for rows.Next() {
		var (
			it       models.OrderItem
			category sql.NullString
		)
		if err := rows.Scan(&it.OrderID, &it.ProductID, &it.ProductName, &category, &it.Quantity, &it.Price); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		it.Category = category.String
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	r.log.WithField("items", len(out)).Debug("order items loaded")
	return out, nil
}

// FindCustomers returns customers with their non-cancelled order history, oldest order first.
// A non-nil rng keeps the customers who signed up in it.
func (r *Repository) FindCustomers(ctx context.Context, rng *models.DateRange) ([]models.Customer, error) {
	where, args := "", []any{}
	if rng != nil {
		where = ` WHERE u.created_at >= ? AND u.created_at <= ?`
		args = append(args, rng.Start.UTC(), rng.End.UTC())
	}

	rows, err := r.query(ctx, fmt.Sprintf(`
		SELECT u.id, u.created_at, COALESCE(u.name, ''), COALESCE(u.email, '')
		FROM %s u%s
		ORDER BY u.created_at, u.id`, r.tables.Customers, where), args...)
	if err != nil {
		return nil, fmt.Errorf("query customers: %w", err)
	}
	var customers []models.Customer
	for rows.Next() {
		var c models.Customer
		if err := rows.Scan(&c.ID, &c.CreatedAt, &c.Name, &c.Email); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		c.CreatedAt = c.CreatedAt.UTC()
		customers = append(customers, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	q := fmt.Sprintf(`
		SELECT %s
		FROM %s o
		JOIN %s u ON u.id = o.customer_id%s`, r.orderColumns("o"), r.tables.Orders, r.tables.Customers, where)
	if where == "" {
		q += ` WHERE`
	} else {
		q += ` AND`
	}
	q += ` o.status <> ? ORDER BY o.created_at`
	args = append(args, string(models.StatusCancelled))

	orderRows, err := r.query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query customer orders: %w", err)
	}
	defer orderRows.Close()

	var orders []models.Order
	for orderRows.Next() {
		o, err := scanOrder(orderRows)
		if err != nil {
			return nil, fmt.Errorf("scan customer order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := orderRows.Err(); err != nil {
		return nil, err
	}

	attachOrders(customers, orders)
	r.log.WithFields(logrus.Fields{"customers": len(customers), "orders": len(orders)}).Debug("customers loaded")
	return customers, nil
}

// attachOrders hands every order to its customer; orders arrive sorted, so histories stay sorted.
func attachOrders(customers []models.Customer, orders []models.Order) {
	idx := make(map[string]int, len(customers))
	for i, c := range customers {
		idx[c.ID] = i
	}
	for _, o := range orders {
		if o.CustomerID == nil {
			continue
		}
		if i, ok := idx[*o.CustomerID]; ok {
			customers[i].Orders = append(customers[i].Orders, o)
		}
	}
}

// Ping checks the connection within timeout.
func (r *Repository) Ping(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}
