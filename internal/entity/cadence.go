package entity

import "time"

const (
	CadenceScopePersonal = "personal"
	CadenceScopeTeam     = "team"
	CadenceScopeCompany  = "company"
)

const (
	CadenceStatusDraft      = "draft"
	CadenceStatusInProgress = "in_progress"
	CadenceStatusPaused     = "paused"
)

// Cadence é uma campanha sequenciada de tarefas outbound.
type Cadence struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id"`
	UserID    string    `json:"user_id"` // dono (relevante para scope personal)
	TeamID    string    `json:"team_id,omitempty"`
	Name      string    `json:"name"`
	Scope     string    `json:"scope"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// AccessibleBy decide se o owner pode enrolar leads nesta cadência.
// Função pura: só olha o escopo já carregado, sem I/O.
func (c *Cadence) AccessibleBy(u *User) bool {
	if u == nil {
		return false
	}
	switch c.Scope {
	case CadenceScopePersonal:
		return c.UserID == u.ID
	case CadenceScopeTeam:
		return c.CompanyID == u.CompanyID && c.TeamID != "" && c.TeamID == u.TeamID
	case CadenceScopeCompany:
		return c.CompanyID == u.CompanyID
	}
	return false
}
