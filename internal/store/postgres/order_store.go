package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Gunvolt24/orders_sync/internal/domain"
	"github.com/Gunvolt24/orders_sync/internal/ports"
)

var _ ports.OrderStore = (*OrderStore)(nil)

// OrderStore — ports.OrderStore поверх pgxpool.
type OrderStore struct {
	pool *pgxpool.Pool
}

func NewOrderStore(pool *pgxpool.Pool) *OrderStore { return &OrderStore{pool: pool} }

// List — все заказы в порядке первого сохранения, позиции в исходном порядке.
// Два запроса: заказы и все позиции, склейка в памяти.
func (s *OrderStore) List(ctx context.Context) ([]domain.OrderEntity, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, user_id FROM orders ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}
	defer rows.Close()

	orders := make([]domain.OrderEntity, 0)
	byID := make(map[domain.OrderEntityID]int)
	for rows.Next() {
		var order domain.OrderEntity
		if err := rows.Scan(&order.ID, &order.UserID); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		order.ItemEntities = []domain.ItemEntity{}
		byID[order.ID] = len(orders)
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("orders rows: %w", err)
	}
	rows.Close()
	if len(orders) == 0 {
		return orders, nil
	}

	iRows, err := s.pool.Query(ctx, `
		SELECT order_id, id, product_id, quantity
		FROM order_items
		ORDER BY order_id, position
	`)
	if err != nil {
		return nil, fmt.Errorf("select items: %w", err)
	}
	defer iRows.Close()

	for iRows.Next() {
		var orderID domain.OrderEntityID
		var item domain.ItemEntity
		if err := iRows.Scan(&orderID, &item.ID, &item.ProductID, &item.Quantity); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		if idx, ok := byID[orderID]; ok {
			orders[idx].ItemEntities = append(orders[idx].ItemEntities, item)
		}
	}
	if err := iRows.Err(); err != nil {
		return nil, fmt.Errorf("items rows: %w", err)
	}
	return orders, nil
}

// Save — транзакционный upsert заказа; позиции заменяются целиком.
// Повторное сохранение не меняет место заказа в списке.
func (s *OrderStore) Save(ctx context.Context, order *domain.OrderEntity) error {
	if order == nil || order.ID == "" {
		return errors.New("order is empty or id is required")
	}
	if order.UserID == "" {
		return errors.New("user_id is required")
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		// после Commit Rollback вернёт ErrTxClosed
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			_ = rbErr
		}
	}()

	if _, err = tx.Exec(ctx, `
		INSERT INTO orders (id, user_id) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET user_id = EXCLUDED.user_id
	`, order.ID, order.UserID); err != nil {
		return fmt.Errorf("upsert order: %w", err)
	}

	if _, err = tx.Exec(ctx, `DELETE FROM order_items WHERE order_id = $1`, order.ID); err != nil {
		return fmt.Errorf("delete items: %w", err)
	}
	if len(order.ItemEntities) > 0 {
		if err = copyItems(ctx, tx, order.ID, order.ItemEntities); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// DeleteOrder удаляет заказ, позиции уходят каскадом.
func (s *OrderStore) DeleteOrder(ctx context.Context, orderID domain.OrderEntityID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM orders WHERE id = $1`, orderID)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("order %s: %w", orderID, domain.ErrNotFound)
	}
	return nil
}

func (s *OrderStore) DeleteItem(ctx context.Context, orderID domain.OrderEntityID, itemID domain.ItemEntityID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM order_items WHERE order_id = $1 AND id = $2`, orderID, itemID)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("order %s item %s: %w", orderID, itemID, domain.ErrNotFound)
	}
	return nil
}

// copyItems — вставка позиций через COPY с сохранением порядка.
func copyItems(ctx context.Context, tx pgx.Tx, orderID domain.OrderEntityID, items []domain.ItemEntity) error {
	rows := make([][]any, 0, len(items))
	for i, item := range items {
		rows = append(rows, []any{string(orderID), string(item.ID), string(item.ProductID), item.Quantity, i})
	}

	_, err := tx.CopyFrom(
		ctx,
		pgx.Identifier{"order_items"},
		[]string{"order_id", "id", "product_id", "quantity", "position"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("copy items: %w", err)
	}
	return nil
}
