package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/entradahq/entrada/internal/database"
	"github.com/entradahq/entrada/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type OrderRepository struct {
	db   *database.DB
	pool *pgxpool.Pool
}

func NewOrderRepository(db *database.DB) *OrderRepository {
	return &OrderRepository{db: db, pool: db.Pool}
}

const orderColumns = `id, user_email, event_id, event_title, qty, unit_price, service_fee, total, status, payment, created_at`

func scanOrderRow(scanner rowScanner) (*models.Order, error) {
	var order models.Order
	var payment []byte

	err := scanner.Scan(
		&order.ID, &order.UserEmail, &order.EventID, &order.EventTitle,
		&order.Qty, &order.UnitPrice, &order.ServiceFee, &order.Total,
		&order.Status, &payment, &order.CreatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	if len(payment) > 0 {
		if err := json.Unmarshal(payment, &order.Payment); err != nil {
			return nil, fmt.Errorf("failed to decode payment snapshot: %w", err)
		}
	}

	return &order, nil
}

// Place reserves tickets and inserts the order in a single transaction,
// so the decrement and the order commit or roll back together. Returns
// ErrNotEnoughTickets when qty exceeds the remaining allocation.
func (r *OrderRepository) Place(ctx context.Context, order *models.Order) (*models.Order, error) {
	order.ID = uuid.New().String()
	order.CreatedAt = time.Now()

	payment, err := json.Marshal(order.Payment)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payment snapshot: %w", err)
	}

	var placed *models.Order
	err = r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		reserve := `
			UPDATE events SET available_tickets = available_tickets - $1
			WHERE id = $2 AND available_tickets >= $1
		`
		result, err := tx.Exec(ctx, reserve, order.Qty, order.EventID)
		if err != nil {
			return database.MapPostgresError(err)
		}
		if result.RowsAffected() == 0 {
			return models.ErrNotEnoughTickets
		}

		insert := `
			INSERT INTO orders (id, user_email, event_id, event_title, qty, unit_price, service_fee, total, status, payment, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			RETURNING ` + orderColumns

		placed, err = scanOrderRow(tx.QueryRow(ctx, insert,
			order.ID, order.UserEmail, order.EventID, order.EventTitle,
			order.Qty, order.UnitPrice, order.ServiceFee, order.Total,
			order.Status, payment, order.CreatedAt,
		))
		return err
	})
	if err != nil {
		return nil, err
	}

	return placed, nil
}

// ListByUser returns the user's orders, newest first.
func (r *OrderRepository) ListByUser(ctx context.Context, userEmail string) ([]*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE user_email = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, userEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	orders := make([]*models.Order, 0)
	for rows.Next() {
		order, err := scanOrderRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return orders, nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	return scanOrderRow(r.pool.QueryRow(ctx, query, id))
}
