package entity

import (
	"time"

	"github.com/google/uuid"
)

// Tipos de origem suportados (espelham os providers de CRM conectados)
const (
	ExternalTypeSalesforce = "salesforce"
	ExternalTypeHubspot    = "hubspot"
	ExternalTypePipedrive  = "pipedrive"
)

type TypedEmail struct {
	Type  string `json:"type"` // work, personal
	Email string `json:"email"`
}

type TypedPhone struct {
	Type  string `json:"type"` // work, mobile, home
	Phone string `json:"phone"`
}

// Lead é o registro canônico de um prospect. Único por
// (company_id, external_id, external_type).
type Lead struct {
	ID           string       `json:"id"`
	CompanyID    string       `json:"company_id"`
	UserID       string       `json:"user_id"`
	ExternalID   string       `json:"external_id"`
	ExternalType string       `json:"external_type"`
	Name         string       `json:"name"`
	Title        string       `json:"title,omitempty"`
	LinkedIn     string       `json:"linkedin,omitempty"`
	AccountName  string       `json:"account_name,omitempty"`
	Emails       []TypedEmail `json:"emails,omitempty"`
	Phones       []TypedPhone `json:"phones,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// Factory
func NewLead(companyID, userID, externalID, externalType string) *Lead {
	return &Lead{
		ID:           uuid.New().String(),
		CompanyID:    companyID,
		UserID:       userID,
		ExternalID:   externalID,
		ExternalType: externalType,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
}
