package database

import (
	"context"
	"database/sql"

	"github.com/outflowhq/engage-api/internal/entity"
)

type CadenceRepository struct {
	DB *sql.DB
}

func NewCadenceRepository(db *sql.DB) *CadenceRepository {
	return &CadenceRepository{DB: db}
}

func (r *CadenceRepository) FindByID(ctx context.Context, id string) (*entity.Cadence, error) {
	query := `
		SELECT id, company_id, user_id, COALESCE(team_id, ''), name, scope, status, created_at
		FROM cadences
		WHERE id = $1
	`

	var cadence entity.Cadence
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&cadence.ID,
		&cadence.CompanyID,
		&cadence.UserID,
		&cadence.TeamID,
		&cadence.Name,
		&cadence.Scope,
		&cadence.Status,
		&cadence.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, entity.ErrCadenceNotFound
	}
	if err != nil {
		return nil, err
	}

	return &cadence, nil
}
