package usecase

// RawRecord é uma linha crua vinda da fonte externa: mapa opaco de
// coluna/propriedade -> valor. O FieldMap do tenant dá significado a ele.
type RawRecord map[string]string

type ImportOptions struct {
	LinkOnly             bool `json:"link_only"`
	StopPreviousCadences bool `json:"stop_previous_cadences"`
	Notify               bool `json:"notify"`
}

type ImportLeadsInput struct {
	CadenceID string
	CompanyID string
	SessionID string
	UserEmail string // quem iniciou o import (recebe o resumo por email)
	Provider  string // salesforce, hubspot, pipedrive
	Records   []RawRecord
	Options   ImportOptions
}

type ImportSuccess struct {
	LeadID     string `json:"lead_id"`
	CadenceID  string `json:"cadence_id"`
	ExternalID string `json:"external_id"`
}

type ImportError struct {
	ExternalID string `json:"external_id"`
	CadenceID  string `json:"cadence_id"`
	Message    string `json:"message"`
	Kind       string `json:"error_kind"`
}

// ImportReport é o resultado agregado do batch.
// TotalSuccess + TotalError == registros não-vazios do input.
type ImportReport struct {
	TotalSuccess int             `json:"total_success"`
	TotalError   int             `json:"total_error"`
	Successes    []ImportSuccess `json:"element_success"`
	Errors       []ImportError   `json:"element_error"`
}

// importOutcome é o resultado terminal de um registro dentro de uma janela.
type importOutcome struct {
	success *ImportSuccess
	failure *ImportError
	linked  bool // criou um vínculo novo nesta janela (dispara recompute)
	skipped bool // registro inteiramente vazio: não conta como nada
}
