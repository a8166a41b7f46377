package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/outflowhq/engage-api/internal/entity"
)

type LeadCadenceRepository struct {
	DB *sql.DB
}

func NewLeadCadenceRepository(db *sql.DB) *LeadCadenceRepository {
	return &LeadCadenceRepository{DB: db}
}

func (r *LeadCadenceRepository) Create(ctx context.Context, link *entity.LeadCadence) error {
	query := `
		INSERT INTO lead_cadences (id, lead_id, cadence_id, user_id, status, "order", created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.DB.ExecContext(ctx, query,
		link.ID,
		link.LeadID,
		link.CadenceID,
		link.UserID,
		link.Status,
		link.Order,
		link.CreatedAt,
		link.UpdatedAt,
	)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			// unique (lead_id, cadence_id) ou unique (user_id, cadence_id, "order")
			return entity.ErrLinkAlreadyExists
		}
		return err
	}

	return nil
}

// MaxOrderBelow busca o maior "order" persistido do par (user, cadence)
// abaixo do teto. Valores no teto ou acima são tratados como ausentes para
// nunca serem redistribuídos.
func (r *LeadCadenceRepository) MaxOrderBelow(ctx context.Context, userID, cadenceID string, cap int) (int, bool, error) {
	query := `
		SELECT COALESCE(MAX("order"), 0)
		FROM lead_cadences
		WHERE user_id = $1 AND cadence_id = $2 AND "order" < $3
	`

	var max int
	err := r.DB.QueryRowContext(ctx, query, userID, cadenceID, cap).Scan(&max)
	if err != nil {
		return 0, false, err
	}

	return max, max > 0, nil
}

func (r *LeadCadenceRepository) HasLink(ctx context.Context, leadID, cadenceID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM lead_cadences WHERE lead_id = $1 AND cadence_id = $2
		)
	`

	var exists bool
	err := r.DB.QueryRowContext(ctx, query, leadID, cadenceID).Scan(&exists)
	if err != nil {
		return false, err
	}

	return exists, nil
}

// StopActiveForLead para os vínculos ativos do lead em OUTRAS cadências
// (opção stop_previous_cadences do import).
func (r *LeadCadenceRepository) StopActiveForLead(ctx context.Context, leadID, exceptCadenceID string) error {
	query := `
		UPDATE lead_cadences
		SET status = $1, updated_at = NOW()
		WHERE lead_id = $2
		  AND cadence_id <> $3
		  AND status IN ($4, $5)
	`

	_, err := r.DB.ExecContext(ctx, query,
		entity.LeadCadenceStatusStopped,
		leadID,
		exceptCadenceID,
		entity.LeadCadenceStatusNotStarted,
		entity.LeadCadenceStatusInProgress,
	)
	return err
}

// CountByCadence devolve o total de vínculos por usuário — alimenta o
// recompute da visão de tarefas depois que uma janela vincula leads.
func (r *LeadCadenceRepository) CountByCadence(ctx context.Context, cadenceID string) (map[string]int, error) {
	query := `
		SELECT user_id, COUNT(*)
		FROM lead_cadences
		WHERE cadence_id = $1 AND status <> $2
		GROUP BY user_id
	`

	rows, err := r.DB.QueryContext(ctx, query, cadenceID, entity.LeadCadenceStatusStopped)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var userID string
		var n int
		if err := rows.Scan(&userID, &n); err != nil {
			return nil, err
		}
		counts[userID] = n
	}

	return counts, rows.Err()
}
