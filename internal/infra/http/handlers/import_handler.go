package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/outflowhq/engage-api/internal/infra/http/middleware"
	"github.com/outflowhq/engage-api/internal/usecase"
)

type ImportHandler struct {
	ImportUC *usecase.ImportLeadsUseCase
}

func NewImportHandler(uc *usecase.ImportLeadsUseCase) *ImportHandler {
	return &ImportHandler{ImportUC: uc}
}

type ImportRequest struct {
	CompanyID string                `json:"company_id"`
	SessionID string                `json:"session_id"`
	UserEmail string                `json:"user_email"`
	Provider  string                `json:"provider"`
	Records   []usecase.RawRecord   `json:"records"`
	Options   usecase.ImportOptions `json:"options"`
}

type ImportAckResponse struct {
	Status    string `json:"status"`
	SessionID string `json:"session_id"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Handle: POST /cadences/{cadenceID}/import
// notify=true  -> ack imediato (202), progresso e relatório vão pelo canal
//                 out-of-band da sessão.
// notify=false -> a request bloqueia até o relatório final e o devolve.
func (h *ImportHandler) Handle(w http.ResponseWriter, r *http.Request) {
	cadenceID := chi.URLParam(r, "cadenceID")

	var req ImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "JSON inválido: "+err.Error())
		return
	}

	if req.CompanyID == "" || req.SessionID == "" {
		writeError(w, http.StatusBadRequest, "MISSING_FIELDS", "company_id and session_id are required")
		return
	}
	if len(req.Records) == 0 {
		writeError(w, http.StatusBadRequest, "EMPTY_BATCH", "records must not be empty")
		return
	}

	input := usecase.ImportLeadsInput{
		CadenceID: cadenceID,
		CompanyID: req.CompanyID,
		SessionID: req.SessionID,
		UserEmail: req.UserEmail,
		Provider:  req.Provider,
		Records:   req.Records,
		Options:   req.Options,
	}

	if !req.Options.Notify {
		middleware.RecordImportBatch("sync")
		report, err := h.ImportUC.Execute(r.Context(), input)
		if err != nil {
			writeImportError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(report)
		return
	}

	if err := h.ImportUC.ExecuteAsync(r.Context(), input); err != nil {
		writeImportError(w, err)
		return
	}

	middleware.RecordImportBatch("async")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(ImportAckResponse{
		Status:    "processing_started",
		SessionID: req.SessionID,
	})
}

// writeImportError traduz a taxonomia de setup para HTTP. Erro por registro
// nunca chega aqui — vai itemizado dentro do relatório.
func writeImportError(w http.ResponseWriter, err error) {
	if de, ok := err.(*usecase.DomainError); ok {
		status := http.StatusUnprocessableEntity
		if de.Code == "CADENCE_NOT_FOUND" {
			status = http.StatusNotFound
		}
		writeError(w, status, de.Code, de.Message)
		return
	}
	if te, ok := err.(*usecase.TechnicalError); ok {
		status := http.StatusInternalServerError
		if te.Code == "CREDENTIAL_ERROR" {
			status = http.StatusBadGateway
		}
		writeError(w, status, te.Code, te.Message)
		return
	}
	writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Code: code, Message: message})
}
