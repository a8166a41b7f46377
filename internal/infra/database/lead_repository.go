package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log"

	"github.com/lib/pq"
	"github.com/outflowhq/engage-api/internal/entity"
)

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

func (r *LeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	query := `
		INSERT INTO leads (
			id, company_id, user_id, external_id, external_type,
			name, title, linkedin, account_name, emails, phones,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	emails, err := json.Marshal(lead.Emails)
	if err != nil {
		return err
	}
	phones, err := json.Marshal(lead.Phones)
	if err != nil {
		return err
	}

	_, err = r.DB.ExecContext(ctx, query,
		lead.ID,
		lead.CompanyID,
		lead.UserID,
		lead.ExternalID,
		lead.ExternalType,
		lead.Name,
		nullString(lead.Title),
		nullString(lead.LinkedIn),
		nullString(lead.AccountName),
		emails,
		phones,
		lead.CreatedAt,
		lead.UpdatedAt,
	)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			// unique (company_id, external_id, external_type)
			return entity.ErrLeadAlreadyExists
		}
		log.Printf("Erro crítico no banco: %v", err)
		return err
	}

	return nil
}

// FindByExternalID devolve (nil, nil) quando o lead não existe — ausência é
// resultado normal do dedup, não erro.
func (r *LeadRepository) FindByExternalID(ctx context.Context, companyID, externalID, externalType string) (*entity.Lead, error) {
	query := `
		SELECT id, company_id, user_id, external_id, external_type,
		       COALESCE(name, ''), COALESCE(title, ''), COALESCE(linkedin, ''),
		       COALESCE(account_name, ''), emails, phones, created_at, updated_at
		FROM leads
		WHERE company_id = $1 AND external_id = $2 AND external_type = $3
	`

	var (
		lead   entity.Lead
		emails []byte
		phones []byte
	)

	err := r.DB.QueryRowContext(ctx, query, companyID, externalID, externalType).Scan(
		&lead.ID,
		&lead.CompanyID,
		&lead.UserID,
		&lead.ExternalID,
		&lead.ExternalType,
		&lead.Name,
		&lead.Title,
		&lead.LinkedIn,
		&lead.AccountName,
		&emails,
		&phones,
		&lead.CreatedAt,
		&lead.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if len(emails) > 0 {
		if err := json.Unmarshal(emails, &lead.Emails); err != nil {
			return nil, err
		}
	}
	if len(phones) > 0 {
		if err := json.Unmarshal(phones, &lead.Phones); err != nil {
			return nil, err
		}
	}

	return &lead, nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
