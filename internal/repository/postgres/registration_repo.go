package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"eventregistry/internal/domain"
)

type registrationRepository struct {
	DB *sql.DB
}

func NewRegistrationRepository(db *sql.DB) domain.RegistrationRepository {
	return &registrationRepository{
		DB: db,
	}
}

const registrationColumns = `event_id, participant_id, payment_method_id, note, headcount, email, created_at, updated_at`

func (r *registrationRepository) ListByEvent(ctx context.Context, eventID string) ([]*domain.Registration, error) {
	query := `
		SELECT ` + registrationColumns + `
		FROM registrations
		WHERE event_id = $1
		ORDER BY created_at
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	regs := make([]*domain.Registration, 0)
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, err
		}
		regs = append(regs, reg)
	}
	return regs, rows.Err()
}

func (r *registrationRepository) GetByEventAndParticipant(ctx context.Context, eventID, participantID string) (*domain.Registration, error) {
	query := `
		SELECT ` + registrationColumns + `
		FROM registrations
		WHERE event_id = $1 AND participant_id = $2
	`
	reg, err := scanRegistration(r.DB.QueryRowContext(ctx, query, eventID, participantID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRegistrationNotFound
		}
		return nil, err
	}
	return reg, nil
}

func (r *registrationRepository) Create(ctx context.Context, reg *domain.Registration) error {
	query := `
		INSERT INTO registrations (event_id, participant_id, payment_method_id, note, headcount, email, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.DB.ExecContext(ctx, query,
		reg.EventID, reg.ParticipantID, reg.PaymentMethodID,
		nullString(reg.Note), reg.Headcount, nullString(reg.Email),
		reg.CreatedAt, reg.UpdatedAt,
	)
	if err != nil {
		// 23505 on the (event_id, participant_id) primary key: a concurrent
		// duplicate submission lost the race.
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return domain.ErrDuplicateRegistration
		}
		return err
	}
	return nil
}

func (r *registrationRepository) Update(ctx context.Context, reg *domain.Registration) error {
	query := `
		UPDATE registrations
		SET payment_method_id = $3, note = $4, headcount = $5, email = $6, updated_at = $7
		WHERE event_id = $1 AND participant_id = $2
	`
	result, err := r.DB.ExecContext(ctx, query,
		reg.EventID, reg.ParticipantID, reg.PaymentMethodID,
		nullString(reg.Note), reg.Headcount, nullString(reg.Email),
		reg.UpdatedAt,
	)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrRegistrationNotFound
	}
	return nil
}

func (r *registrationRepository) Delete(ctx context.Context, eventID, participantID string) error {
	query := `DELETE FROM registrations WHERE event_id = $1 AND participant_id = $2`
	result, err := r.DB.ExecContext(ctx, query, eventID, participantID)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrRegistrationNotFound
	}
	return nil
}

func scanRegistration(row rowScanner) (*domain.Registration, error) {
	reg := &domain.Registration{}
	var noteNull, emailNull sql.NullString
	if err := row.Scan(
		&reg.EventID, &reg.ParticipantID, &reg.PaymentMethodID,
		&noteNull, &reg.Headcount, &emailNull,
		&reg.CreatedAt, &reg.UpdatedAt,
	); err != nil {
		return nil, err
	}
	reg.Note = noteNull.String
	reg.Email = emailNull.String
	return reg, nil
}
