package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rushreport/rushreport/internal/models"
	"github.com/rushreport/rushreport/internal/repository/postgres"
)

const pgErrUniqueViolationCode = "23505"

const (
	insertOrderQuery = `
						INSERT INTO orders (id, book_title, author, grade_level, target_grade, length, is_rush, sample_text, customer_email, status, stripe_session_id)
						VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
						RETURNING id, book_title, author, grade_level, target_grade, length, is_rush, sample_text, customer_email, status, report_text, error_message, stripe_session_id, created_at, completed_at
`
	selectOrderByIDQuery = `
						SELECT id, book_title, author, grade_level, target_grade, length, is_rush, sample_text, customer_email, status, report_text, error_message, stripe_session_id, created_at, completed_at
						FROM orders
						WHERE id = $1
`
	selectPendingOrdersQuery = `
						SELECT id, book_title, author, grade_level, target_grade, length, is_rush, sample_text, customer_email, status, report_text, error_message, stripe_session_id, created_at, completed_at
						FROM orders
						WHERE status = 'pending'
						ORDER BY is_rush DESC, created_at ASC
						LIMIT $1
`
	claimOrderQuery = `
						UPDATE orders
						SET status = 'processing'
						WHERE id = $1 AND status = 'pending'
`
	completeOrderQuery = `
						UPDATE orders
						SET status = 'completed', report_text = $1, completed_at = $2
						WHERE id = $3 AND status = 'processing'
`
	failOrderQuery = `
						UPDATE orders
						SET status = 'failed', error_message = $1
						WHERE id = $2 AND status = 'processing'
`
)

// OrderRepository implements order persistence over postgres
type OrderRepository struct {
	db *postgres.DB
}

// NewOrderRepository creates new OrderRepository instance
func NewOrderRepository(db *postgres.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func scanOrder(row pgx.Row, order *models.Order) error {
	return row.Scan(
		&order.ID,
		&order.BookTitle,
		&order.Author,
		&order.GradeLevel,
		&order.TargetGrade,
		&order.Length,
		&order.IsRush,
		&order.SampleText,
		&order.CustomerEmail,
		&order.Status,
		&order.ReportText,
		&order.ErrorMessage,
		&order.StripeSessionID,
		&order.CreatedAt,
		&order.CompletedAt,
	)
}

// CreateOrder inserts new order to database
func (or *OrderRepository) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	row := or.db.QueryRow(ctx, insertOrderQuery,
		order.ID,
		order.BookTitle,
		order.Author,
		order.GradeLevel,
		order.TargetGrade,
		order.Length,
		order.IsRush,
		order.SampleText,
		order.CustomerEmail,
		order.Status,
		order.StripeSessionID,
	)
	if err := scanOrder(row, order); err != nil {
		if errCode := or.db.ErrorCode(err); errCode == pgErrUniqueViolationCode {
			return nil, models.ErrConflictData
		}
		return nil, err
	}

	return order, nil
}

// GetOrderByID returns order by id
func (or *OrderRepository) GetOrderByID(ctx context.Context, id string) (*models.Order, error) {
	order := models.Order{}
	if err := scanOrder(or.db.QueryRow(ctx, selectOrderByIDQuery, id), &order); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	return &order, nil
}

// GetPendingOrders returns up to limit pending orders, rush first then oldest first
func (or *OrderRepository) GetPendingOrders(ctx context.Context, limit int) ([]models.Order, error) {
	rows, err := or.db.Query(ctx, selectPendingOrdersQuery, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []models.Order{}

	for rows.Next() {
		order := models.Order{}
		if err := scanOrder(rows, &order); err != nil {
			continue
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}

// ClaimOrder transitions order from pending to processing.
// Returns ErrOrderNotPending when the order was already claimed.
func (or *OrderRepository) ClaimOrder(ctx context.Context, id string) error {
	cmd, err := or.db.Exec(ctx, claimOrderQuery, id)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return models.ErrOrderNotPending
	}

	return nil
}

// CompleteOrder stores report text and completion time, transitions order to completed
func (or *OrderRepository) CompleteOrder(ctx context.Context, id string, reportText string, completedAt time.Time) error {
	cmd, err := or.db.Exec(ctx, completeOrderQuery, reportText, completedAt, id)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return models.ErrDataNotFound
	}

	return nil
}

// FailOrder records failure message, transitions order to failed
func (or *OrderRepository) FailOrder(ctx context.Context, id string, message string) error {
	cmd, err := or.db.Exec(ctx, failOrderQuery, message, id)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return models.ErrDataNotFound
	}

	return nil
}
