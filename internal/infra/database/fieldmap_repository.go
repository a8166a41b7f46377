package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/outflowhq/engage-api/internal/entity"
)

type FieldMapRepository struct {
	DB *sql.DB
}

func NewFieldMapRepository(db *sql.DB) *FieldMapRepository {
	return &FieldMapRepository{DB: db}
}

// FindByCompanyID carrega a configuração de mapeamento do tenant.
// A config fica numa coluna JSONB editada pelo painel de admin.
func (r *FieldMapRepository) FindByCompanyID(ctx context.Context, companyID string) (*entity.FieldMap, error) {
	query := `SELECT config FROM field_maps WHERE company_id = $1`

	var config []byte
	err := r.DB.QueryRowContext(ctx, query, companyID).Scan(&config)
	if err == sql.ErrNoRows {
		return nil, entity.ErrFieldMapNotFound
	}
	if err != nil {
		return nil, err
	}

	var fm entity.FieldMap
	if err := json.Unmarshal(config, &fm); err != nil {
		return nil, fmt.Errorf("field map da empresa %s está corrompido: %w", companyID, err)
	}
	fm.CompanyID = companyID

	return &fm, nil
}
