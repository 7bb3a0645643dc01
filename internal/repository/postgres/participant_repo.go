package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"eventregistry/internal/domain"
)

type participantRepository struct {
	DB *sql.DB
}

func NewParticipantRepository(db *sql.DB) domain.ParticipantRepository {
	return &participantRepository{
		DB: db,
	}
}

const participantColumns = `id, kind, first_name, last_name, personal_code, legal_name, registry_code, created_at, updated_at`

func (r *participantRepository) GetByID(ctx context.Context, id string) (*domain.Participant, error) {
	query := `
		SELECT ` + participantColumns + `
		FROM participants
		WHERE id = $1
	`
	return r.getOne(ctx, query, id)
}

func (r *participantRepository) FindIndividualByCode(ctx context.Context, personalCode string) (*domain.Participant, error) {
	query := `
		SELECT ` + participantColumns + `
		FROM participants
		WHERE kind = 'individual' AND personal_code = $1
	`
	return r.getOne(ctx, query, personalCode)
}

func (r *participantRepository) FindCompanyByCode(ctx context.Context, registryCode string) (*domain.Participant, error) {
	query := `
		SELECT ` + participantColumns + `
		FROM participants
		WHERE kind = 'company' AND registry_code = $1
	`
	return r.getOne(ctx, query, registryCode)
}

func (r *participantRepository) Create(ctx context.Context, p *domain.Participant) error {
	query := `
		INSERT INTO participants (id, kind, first_name, last_name, personal_code, legal_name, registry_code, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.DB.ExecContext(ctx, query,
		p.ID, string(p.Kind),
		nullString(p.FirstName), nullString(p.LastName), nullString(p.PersonalCode),
		nullString(p.LegalName), nullString(p.RegistryCode),
		p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		// 23505: the unique code index lost a find-or-create race.
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return domain.ErrDuplicateParticipantCode
		}
		return err
	}
	return nil
}

func (r *participantRepository) Update(ctx context.Context, p *domain.Participant) error {
	query := `
		UPDATE participants
		SET first_name = $2, last_name = $3, personal_code = $4, legal_name = $5, registry_code = $6, updated_at = $7
		WHERE id = $1
	`
	result, err := r.DB.ExecContext(ctx, query,
		p.ID,
		nullString(p.FirstName), nullString(p.LastName), nullString(p.PersonalCode),
		nullString(p.LegalName), nullString(p.RegistryCode),
		p.UpdatedAt,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return domain.ErrDuplicateParticipantCode
		}
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrParticipantNotFound
	}
	return nil
}

func (r *participantRepository) getOne(ctx context.Context, query string, arg any) (*domain.Participant, error) {
	p := &domain.Participant{}
	var kind string
	var firstName, lastName, personalCode, legalName, registryCode sql.NullString
	err := r.DB.QueryRowContext(ctx, query, arg).Scan(
		&p.ID, &kind, &firstName, &lastName, &personalCode,
		&legalName, &registryCode, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrParticipantNotFound
		}
		return nil, err
	}
	p.Kind = domain.ParticipantKind(kind)
	p.FirstName = firstName.String
	p.LastName = lastName.String
	p.PersonalCode = personalCode.String
	p.LegalName = legalName.String
	p.RegistryCode = registryCode.String
	return p, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
