package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	LeadCadenceStatusNotStarted = "not_started"
	LeadCadenceStatusInProgress = "in_progress"
	LeadCadenceStatusStopped    = "stopped"
)

// LeadCadence vincula um Lead a uma Cadence. Order é um inteiro positivo,
// único e estritamente crescente por (user_id, cadence_id) — é ele que
// controla a sequência diária de tarefas.
type LeadCadence struct {
	ID        string    `json:"id"`
	LeadID    string    `json:"lead_id"`
	CadenceID string    `json:"cadence_id"`
	UserID    string    `json:"user_id"`
	Status    string    `json:"status"`
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewLeadCadence(leadID, cadenceID, userID string, order int) *LeadCadence {
	return &LeadCadence{
		ID:        uuid.New().String(),
		LeadID:    leadID,
		CadenceID: cadenceID,
		UserID:    userID,
		Status:    LeadCadenceStatusNotStarted,
		Order:     order,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}
