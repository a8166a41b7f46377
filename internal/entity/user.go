package entity

type User struct {
	ID        string `json:"id"`
	CompanyID string `json:"company_id"`
	TeamID    string `json:"team_id,omitempty"`
	CRMID     string `json:"crm_id"` // id do usuário no CRM de origem
	Name      string `json:"name"`
	Email     string `json:"email"`
}
