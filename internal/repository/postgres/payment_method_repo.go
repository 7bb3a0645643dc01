package postgres

import (
	"context"
	"database/sql"
	"errors"

	"eventregistry/internal/domain"
)

type paymentMethodRepository struct {
	DB *sql.DB
}

func NewPaymentMethodRepository(db *sql.DB) domain.PaymentMethodRepository {
	return &paymentMethodRepository{
		DB: db,
	}
}

func (r *paymentMethodRepository) GetByID(ctx context.Context, id int) (*domain.PaymentMethod, error) {
	query := `SELECT id, name FROM payment_methods WHERE id = $1`
	m := &domain.PaymentMethod{}
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&m.ID, &m.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPaymentMethodNotFound
		}
		return nil, err
	}
	return m, nil
}

func (r *paymentMethodRepository) List(ctx context.Context) ([]*domain.PaymentMethod, error) {
	query := `SELECT id, name FROM payment_methods ORDER BY id`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	methods := make([]*domain.PaymentMethod, 0)
	for rows.Next() {
		m := &domain.PaymentMethod{}
		if err := rows.Scan(&m.ID, &m.Name); err != nil {
			return nil, err
		}
		methods = append(methods, m)
	}
	return methods, rows.Err()
}
