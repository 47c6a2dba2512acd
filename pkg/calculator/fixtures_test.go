package calculator

import (
	"fmt"
	"time"

	"customer-analytics/pkg/models"
)

var ref = time.Date(2024, 12, 20, 0, 0, 0, 0, time.UTC)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func daysAgo(n int) time.Time {
	return ref.AddDate(0, 0, -n)
}

func order(id, customer string, at time.Time, total float64) models.Order {
	o := models.Order{ID: id, CreatedAt: at, Total: total, Status: models.StatusCompleted}
	if customer != "" {
		o.CustomerID = &customer
	}
	return o
}

func cancelled(o models.Order) models.Order {
	o.Status = models.StatusCancelled
	return o
}

// customer builds a customer owning orders; orders without an id get one.
func customer(id string, signup time.Time, orders ...models.Order) models.Customer {
	for i := range orders {
		id := id
		orders[i].CustomerID = &id
		if orders[i].ID == "" {
			orders[i].ID = fmt.Sprintf("%s-o%d", id, i)
		}
	}
	return models.Customer{ID: id, Name: "Customer " + id, Email: id + "@test.com", CreatedAt: signup, Orders: orders}
}

func flatten(customers ...models.Customer) []models.Order {
	var out []models.Order
	for _, c := range customers {
		out = append(out, c.Orders...)
	}
	return out
}
