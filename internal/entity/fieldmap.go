package entity

// TypedSource aponta um atributo multi-valorado (email, telefone) para a
// coluna de origem, preservando o tipo declarado pelo tenant.
type TypedSource struct {
	Type      string `json:"type"`
	SourceKey string `json:"source_key"`
}

// FieldMap é a configuração por tenant que traduz os nomes de campo do CRM
// de origem para os atributos canônicos do Lead.
type FieldMap struct {
	CompanyID  string        `json:"-"`
	Name       string        `json:"name"`
	Title      string        `json:"title"`
	LinkedIn   string        `json:"linkedin"`
	Account    string        `json:"account"`
	OwnerID    string        `json:"owner_id"`
	ExternalID string        `json:"external_id"`
	Emails     []TypedSource `json:"emails"`
	Phones     []TypedSource `json:"phones"`
}
