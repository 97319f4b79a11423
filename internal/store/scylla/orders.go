package scylla

import (
	"context"
	"time"

	"bocal_back_end/internal/database"
	"bocal_back_end/internal/models"
	"bocal_back_end/internal/store"

	"github.com/gocql/gocql"
	"github.com/google/uuid"
)

// Orders implémente store.OrderStore sur le keyspace orders.
//
// CreatePending écrit la commande, ses lignes et l'index orders_by_user dans
// un seul batch loggé : du point de vue du client, soit la commande complète
// existe, soit rien n'existe. Le passage pending → confirmed n'arrive
// qu'après le vidage du panier (voir internal/order).
type Orders struct{}

func (Orders) CreatePending(ctx context.Context, o models.Order, items []models.OrderItem) error {
	session, err := database.GetOrdersSession()
	if err != nil {
		return err
	}

	oid, err := uuid.Parse(o.ID)
	if err != nil {
		return err
	}
	orderUUID := gocql.UUID(oid)

	uid, err := uuid.Parse(o.UserID)
	if err != nil {
		return err
	}
	userUUID := gocql.UUID(uid)

	b := session.NewBatch(gocql.LoggedBatch).WithContext(ctx)
	b.Query(`INSERT INTO orders (order_id, user_id, address, total, status, created_at)
	         VALUES (?, ?, ?, ?, ?, ?)`,
		orderUUID, userUUID, o.Address, o.Total, models.OrderStatusPending, o.CreatedAt)

	for _, item := range items {
		pid, err := uuid.Parse(item.ProductID)
		if err != nil {
			return err
		}
		b.Query(`INSERT INTO order_items (order_id, product_id, name, quantity, unit_price)
		         VALUES (?, ?, ?, ?, ?)`,
			orderUUID, gocql.UUID(pid), item.Name, item.Quantity, item.UnitPrice)
	}

	b.Query(`INSERT INTO orders_by_user (user_id, created_at, order_id, address, total, status)
	         VALUES (?, ?, ?, ?, ?, ?)`,
		userUUID, o.CreatedAt, orderUUID, o.Address, o.Total, models.OrderStatusPending)

	return session.ExecuteBatch(b)
}

func (Orders) Confirm(ctx context.Context, o models.Order) error {
	session, err := database.GetOrdersSession()
	if err != nil {
		return err
	}

	oid, err := uuid.Parse(o.ID)
	if err != nil {
		return err
	}
	uid, err := uuid.Parse(o.UserID)
	if err != nil {
		return err
	}

	if err := session.Query("UPDATE orders SET status = ? WHERE order_id = ?",
		models.OrderStatusConfirmed, gocql.UUID(oid)).WithContext(ctx).Exec(); err != nil {
		return err
	}
	return session.Query(`UPDATE orders_by_user SET status = ?
	                      WHERE user_id = ? AND created_at = ? AND order_id = ?`,
		models.OrderStatusConfirmed, gocql.UUID(uid), o.CreatedAt, gocql.UUID(oid)).
		WithContext(ctx).Exec()
}

func (Orders) GetByID(ctx context.Context, id string) (models.Order, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return models.Order{}, err
	}

	oid, err := uuid.Parse(id)
	if err != nil {
		return models.Order{}, store.ErrNotFound
	}

	var (
		userUUID        gocql.UUID
		address, status string
		total           float64
		createdAt       time.Time
	)
	err = session.Query(`SELECT user_id, address, total, status, created_at
	                     FROM orders WHERE order_id = ?`, gocql.UUID(oid)).
		WithContext(ctx).Scan(&userUUID, &address, &total, &status, &createdAt)
	if err == gocql.ErrNotFound {
		return models.Order{}, store.ErrNotFound
	}
	if err != nil {
		return models.Order{}, err
	}

	return models.Order{
		ID:        id,
		UserID:    userUUID.String(),
		Address:   address,
		Total:     total,
		Status:    status,
		CreatedAt: createdAt,
	}, nil
}

func (Orders) ItemsByOrder(ctx context.Context, orderID string) ([]models.OrderItem, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return nil, err
	}

	oid, err := uuid.Parse(orderID)
	if err != nil {
		return nil, store.ErrNotFound
	}

	iter := session.Query(`SELECT product_id, name, quantity, unit_price
	                       FROM order_items WHERE order_id = ?`, gocql.UUID(oid)).
		WithContext(ctx).Iter()

	var items []models.OrderItem
	var (
		productUUID gocql.UUID
		name        string
		quantity    int
		unitPrice   float64
	)
	for iter.Scan(&productUUID, &name, &quantity, &unitPrice) {
		items = append(items, models.OrderItem{
			OrderID:   orderID,
			ProductID: productUUID.String(),
			Name:      name,
			Quantity:  quantity,
			UnitPrice: unitPrice,
		})
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	return items, nil
}

func (Orders) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return nil, err
	}

	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, store.ErrNotFound
	}

	iter := session.Query(`SELECT order_id, created_at, address, total, status
	                       FROM orders_by_user WHERE user_id = ?`, gocql.UUID(uid)).
		WithContext(ctx).Iter()

	var orders []models.Order
	var (
		orderUUID       gocql.UUID
		createdAt       time.Time
		address, status string
		total           float64
	)
	for iter.Scan(&orderUUID, &createdAt, &address, &total, &status) {
		orders = append(orders, models.Order{
			ID:        orderUUID.String(),
			UserID:    userID,
			Address:   address,
			Total:     total,
			Status:    status,
			CreatedAt: createdAt,
		})
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	return orders, nil
}

func (Orders) ListAll(ctx context.Context) ([]models.Order, error) {
	return scanOrders(ctx, func(models.Order) bool { return true })
}

func (Orders) ListPending(ctx context.Context, before time.Time) ([]models.Order, error) {
	return scanOrders(ctx, func(o models.Order) bool {
		return o.Status == models.OrderStatusPending && o.CreatedAt.Before(before)
	})
}

func scanOrders(ctx context.Context, keep func(models.Order) bool) ([]models.Order, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return nil, err
	}

	iter := session.Query(`SELECT order_id, user_id, address, total, status, created_at
	                       FROM orders`).WithContext(ctx).Iter()

	var orders []models.Order
	var (
		orderUUID, userUUID gocql.UUID
		address, status     string
		total               float64
		createdAt           time.Time
	)
	for iter.Scan(&orderUUID, &userUUID, &address, &total, &status, &createdAt) {
		o := models.Order{
			ID:        orderUUID.String(),
			UserID:    userUUID.String(),
			Address:   address,
			Total:     total,
			Status:    status,
			CreatedAt: createdAt,
		}
		if keep(o) {
			orders = append(orders, o)
		}
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	return orders, nil
}
