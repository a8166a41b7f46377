package database

import (
	"context"
	"database/sql"

	"github.com/outflowhq/engage-api/internal/entity"
)

type UserRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{DB: db}
}

// FindByCRMID resolve o owner pelo id que ele tem no CRM de origem.
// (nil, nil) quando ninguém no tenant tem esse id — "owner não encontrado"
// é resultado recuperável por registro, não exceção.
func (r *UserRepository) FindByCRMID(ctx context.Context, companyID, crmID string) (*entity.User, error) {
	query := `
		SELECT id, company_id, COALESCE(team_id, ''), crm_id, name, email
		FROM users
		WHERE company_id = $1 AND crm_id = $2
	`

	var user entity.User
	err := r.DB.QueryRowContext(ctx, query, companyID, crmID).Scan(
		&user.ID,
		&user.CompanyID,
		&user.TeamID,
		&user.CRMID,
		&user.Name,
		&user.Email,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}
