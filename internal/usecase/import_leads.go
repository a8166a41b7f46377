package usecase

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/outflowhq/engage-api/internal/entity"
	"github.com/outflowhq/engage-api/internal/infra/http/middleware"
	"github.com/outflowhq/engage-api/internal/infra/queue"
)

const (
	defaultWindowSize = 10
	defaultMaxOrder   = 100000
)

type ImportLeadsUseCase struct {
	LeadRepo     LeadRepositoryInterface
	UserRepo     UserRepositoryInterface
	CadenceRepo  CadenceRepositoryInterface
	LinkRepo     LeadCadenceRepositoryInterface
	FieldMaps    FieldMapProviderInterface
	Tokens       AccessTokenProviderInterface
	Notifier     ImportNotifierInterface
	Recompute    RecomputeNotifierInterface
	EmailService EmailService

	// WindowSize limita quantos registros ficam em voo ao mesmo tempo.
	// MaxOrder é o teto de order por (user, cadence).
	WindowSize int
	MaxOrder   int
}

func NewImportLeadsUseCase(
	leadRepo LeadRepositoryInterface,
	userRepo UserRepositoryInterface,
	cadenceRepo CadenceRepositoryInterface,
	linkRepo LeadCadenceRepositoryInterface,
	fieldMaps FieldMapProviderInterface,
	tokens AccessTokenProviderInterface,
	notifier ImportNotifierInterface,
	recompute RecomputeNotifierInterface,
	emailService EmailService,
) *ImportLeadsUseCase {
	return &ImportLeadsUseCase{
		LeadRepo:     leadRepo,
		UserRepo:     userRepo,
		CadenceRepo:  cadenceRepo,
		LinkRepo:     linkRepo,
		FieldMaps:    fieldMaps,
		Tokens:       tokens,
		Notifier:     notifier,
		Recompute:    recompute,
		EmailService: emailService,
		WindowSize:   defaultWindowSize,
		MaxOrder:     defaultMaxOrder,
	}
}

// batchSetup é tudo que o Execute resolve ANTES de abrir a primeira janela.
// Qualquer falha aqui aborta o batch inteiro com um erro único.
type batchSetup struct {
	cadence  *entity.Cadence
	fieldMap *entity.FieldMap
}

// Execute roda o batch de forma síncrona e devolve o relatório final.
// Usado quando o caller pediu notify=false (bloqueia até o fim).
func (uc *ImportLeadsUseCase) Execute(ctx context.Context, input ImportLeadsInput) (*ImportReport, error) {
	setup, err := uc.setup(ctx, input)
	if err != nil {
		return nil, err
	}
	return uc.run(ctx, setup, input), nil
}

// ExecuteAsync valida e resolve o setup de forma síncrona — para o caller
// receber o ack imediato ou o erro de setup — e dispara o processamento em
// background. O batch submetido sempre roda até o fim: o contexto da request
// morre junto com ela, por isso o run usa Background.
func (uc *ImportLeadsUseCase) ExecuteAsync(ctx context.Context, input ImportLeadsInput) error {
	setup, err := uc.setup(ctx, input)
	if err != nil {
		return err
	}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				// Resposta já foi enviada: o melhor que dá para fazer é
				// avisar no canal de notificação.
				log.Printf("❌ Import da sessão %s morreu no meio: %v", input.SessionID, r)
				uc.publishResult(context.Background(), input, &ImportReport{
					Errors: []ImportError{{
						CadenceID: input.CadenceID,
						Message:   fmt.Sprintf("import aborted: %v", r),
						Kind:      ErrKindPersist,
					}},
					TotalError: 1,
				})
			}
		}()
		uc.run(context.Background(), setup, input)
	}()

	return nil
}

func (uc *ImportLeadsUseCase) setup(ctx context.Context, input ImportLeadsInput) (*batchSetup, error) {
	cadence, err := uc.CadenceRepo.FindByID(ctx, input.CadenceID)
	if err != nil {
		return nil, &DomainError{
			Code:    "CADENCE_NOT_FOUND",
			Message: "cadência inválida: " + err.Error(),
		}
	}
	// Cadência de outro tenant é tão inválida quanto inexistente.
	if cadence.CompanyID != input.CompanyID {
		return nil, &DomainError{
			Code:    "CADENCE_NOT_FOUND",
			Message: "cadência não pertence à empresa",
		}
	}

	fieldMap, err := uc.FieldMaps.FindByCompanyID(ctx, input.CompanyID)
	if err != nil {
		return nil, &DomainError{
			Code:    "FIELD_MAP_NOT_FOUND",
			Message: "field map ausente: " + err.Error(),
		}
	}

	if _, err := uc.Tokens.GetAccessToken(ctx, input.CompanyID, input.Provider); err != nil {
		return nil, &TechnicalError{
			Code:    "CREDENTIAL_ERROR",
			Message: "falha ao obter credencial do CRM: " + err.Error(),
		}
	}

	return &batchSetup{cadence: cadence, fieldMap: fieldMap}, nil
}

// run é o executor de janelas. Consome o input na ordem dada, mantém no
// máximo WindowSize registros em voo e só abre a janela seguinte depois que
// a atual assentou por completo e foi dobrada no relatório.
func (uc *ImportLeadsUseCase) run(ctx context.Context, setup *batchSetup, input ImportLeadsInput) *ImportReport {
	report := &ImportReport{
		Successes: []ImportSuccess{},
		Errors:    []ImportError{},
	}
	size := len(input.Records)
	window := uc.windowSize()
	bctx := newBatchContext()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		settled  = make([]importOutcome, 0, window)
		inFlight = 0
	)

	// flushWindow espera a janela corrente assentar, dobra os resultados na
	// ordem de conclusão e dispara o recompute se a janela vinculou alguém.
	flushWindow := func() {
		wg.Wait()

		linked := false
		for _, out := range settled {
			uc.fold(report, out)
			if out.linked {
				linked = true
			}
		}
		settled = settled[:0]
		inFlight = 0

		if linked && setup.cadence.Status == entity.CadenceStatusInProgress {
			uc.publishRecompute(ctx, input, setup.cadence)
		}
	}

	for i, raw := range input.Records {
		uc.publishProgress(ctx, input.SessionID, i+1, size)

		if inFlight == window {
			flushWindow()
		}

		wg.Add(1)
		inFlight++
		go func(rec RawRecord) {
			defer wg.Done()
			out := uc.processRecord(ctx, bctx, setup, input, rec)
			mu.Lock()
			settled = append(settled, out)
			mu.Unlock()
		}(raw)
	}
	flushWindow()

	middleware.RecordImportedRecords(report.TotalSuccess, report.TotalError)
	uc.publishResult(ctx, input, report)

	if input.Options.Notify && uc.EmailService != nil && input.UserEmail != "" {
		if err := uc.EmailService.SendImportReport(input.UserEmail, setup.cadence.Name, report.TotalSuccess, report.TotalError); err != nil {
			log.Printf("⚠️ Falha ao enviar resumo do import por email: %v", err)
		}
	}

	return report
}

// processRecord é a máquina de estados de UM registro:
// Pending -> {Skipped|Invalid} -> OwnerResolved -> {OwnerMissing} ->
// AccessChecked -> {AccessDenied} -> Deduped -> {AlreadyPresent} ->
// Persisted+Linked | PersistError.
// Nada daqui escapa do registro: panic vira PersistError e os irmãos da
// janela seguem intactos.
func (uc *ImportLeadsUseCase) processRecord(ctx context.Context, bctx *batchContext, setup *batchSetup, input ImportLeadsInput, raw RawRecord) (out importOutcome) {
	var externalID string

	defer func() {
		if r := recover(); r != nil {
			out = uc.failure(externalID, input.CadenceID, fmt.Sprintf("unexpected error: %v", r), ErrKindPersist)
		}
	}()

	candidate := MapRecord(raw, setup.fieldMap)
	if candidate.IsEmpty() {
		return importOutcome{skipped: true}
	}
	externalID = candidate.ExternalID

	if violations := ValidateCandidate(candidate); len(violations) > 0 {
		return uc.failure(externalID, input.CadenceID, validationReason(violations), ErrKindValidation)
	}

	owner, err := bctx.resolveOwner(ctx, uc.UserRepo, input.CompanyID, candidate.OwnerCRMID)
	if err != nil {
		return uc.failure(externalID, input.CadenceID, err.Error(), ErrKindPersist)
	}
	if owner == nil {
		return uc.failure(externalID, input.CadenceID,
			fmt.Sprintf("owner %s not found", candidate.OwnerCRMID), ErrKindOwnerNotFound)
	}

	if !setup.cadence.AccessibleBy(owner) {
		return uc.failure(externalID, input.CadenceID,
			fmt.Sprintf("cadence %s is not accessible by owner %s", setup.cadence.ID, owner.ID), ErrKindCadenceAccess)
	}

	externalType := externalTypeFor(input.Provider)
	existing, err := uc.LeadRepo.FindByExternalID(ctx, input.CompanyID, candidate.ExternalID, externalType)
	if err != nil {
		return uc.failure(externalID, input.CadenceID, err.Error(), ErrKindPersist)
	}

	if existing != nil && !input.Options.LinkOnly {
		return uc.failure(externalID, input.CadenceID, "lead already present", ErrKindAlreadyPresent)
	}
	if existing != nil {
		// link-only: reaproveita o lead existente, mas vínculo duplicado
		// na mesma cadência continua sendo erro.
		hasLink, err := uc.LinkRepo.HasLink(ctx, existing.ID, setup.cadence.ID)
		if err != nil {
			return uc.failure(externalID, input.CadenceID, err.Error(), ErrKindPersist)
		}
		if hasLink {
			return uc.failure(externalID, input.CadenceID, "lead already linked to cadence", ErrKindAlreadyPresent)
		}
	}

	order, err := bctx.nextOrder(ctx, uc.LinkRepo, owner.ID, setup.cadence.ID, uc.maxOrder())
	if err == errOrderExhausted {
		return uc.failure(externalID, input.CadenceID,
			fmt.Sprintf("cadence order limit (%d) reached for owner %s", uc.maxOrder(), owner.ID), ErrKindOrderExhausted)
	}
	if err != nil {
		return uc.failure(externalID, input.CadenceID, err.Error(), ErrKindPersist)
	}

	lead := existing
	if lead == nil {
		lead = entity.NewLead(input.CompanyID, owner.ID, candidate.ExternalID, externalType)
		lead.Name = candidate.Name
		lead.Title = candidate.Title
		lead.LinkedIn = candidate.LinkedIn
		lead.AccountName = candidate.AccountName
		lead.Emails = candidate.Emails
		lead.Phones = candidate.Phones

		if err := uc.LeadRepo.Create(ctx, lead); err != nil {
			if err == entity.ErrLeadAlreadyExists {
				// Outro batch ganhou a corrida pelo mesmo external_id.
				return uc.failure(externalID, input.CadenceID, "lead already present", ErrKindAlreadyPresent)
			}
			return uc.failure(externalID, input.CadenceID, err.Error(), ErrKindPersist)
		}
	}

	if input.Options.StopPreviousCadences {
		if err := uc.LinkRepo.StopActiveForLead(ctx, lead.ID, setup.cadence.ID); err != nil {
			return uc.failure(externalID, input.CadenceID, err.Error(), ErrKindPersist)
		}
	}

	link := entity.NewLeadCadence(lead.ID, setup.cadence.ID, owner.ID, order)
	if err := uc.LinkRepo.Create(ctx, link); err != nil {
		if err == entity.ErrLinkAlreadyExists {
			return uc.failure(externalID, input.CadenceID, "lead already linked to cadence", ErrKindAlreadyPresent)
		}
		return uc.failure(externalID, input.CadenceID, err.Error(), ErrKindPersist)
	}

	return importOutcome{
		success: &ImportSuccess{
			LeadID:     lead.ID,
			CadenceID:  setup.cadence.ID,
			ExternalID: candidate.ExternalID,
		},
		linked: true,
	}
}

func (uc *ImportLeadsUseCase) fold(report *ImportReport, out importOutcome) {
	switch {
	case out.skipped:
	case out.success != nil:
		report.Successes = append(report.Successes, *out.success)
		report.TotalSuccess++
	case out.failure != nil:
		report.Errors = append(report.Errors, *out.failure)
		report.TotalError++
	}
}

func (uc *ImportLeadsUseCase) failure(externalID, cadenceID, message, kind string) importOutcome {
	return importOutcome{
		failure: &ImportError{
			ExternalID: externalID,
			CadenceID:  cadenceID,
			Message:    message,
			Kind:       kind,
		},
	}
}

// publishProgress nunca bloqueia o executor: falha de entrega é logada e
// engolida, jamais vira erro do pipeline.
func (uc *ImportLeadsUseCase) publishProgress(ctx context.Context, sessionID string, index, size int) {
	if uc.Notifier == nil {
		return
	}
	err := uc.Notifier.PublishProgress(ctx, sessionID, queue.ProgressPayload{
		SessionID: sessionID,
		Index:     index,
		Size:      size,
	})
	if err != nil {
		middleware.RecordNotificationError("progress")
		log.Printf("⚠️ Falha ao publicar progresso (sessão %s, %d/%d): %v", sessionID, index, size, err)
	}
}

func (uc *ImportLeadsUseCase) publishResult(ctx context.Context, input ImportLeadsInput, report *ImportReport) {
	if uc.Notifier == nil {
		return
	}

	payload := queue.ResultPayload{
		SessionID:      input.SessionID,
		TotalSuccess:   report.TotalSuccess,
		TotalError:     report.TotalError,
		ElementSuccess: make([]queue.ResultSuccess, 0, len(report.Successes)),
		ElementError:   make([]queue.ResultError, 0, len(report.Errors)),
	}
	for _, s := range report.Successes {
		payload.ElementSuccess = append(payload.ElementSuccess, queue.ResultSuccess{
			LeadID:     s.LeadID,
			CadenceID:  s.CadenceID,
			ExternalID: s.ExternalID,
		})
	}
	for _, e := range report.Errors {
		payload.ElementError = append(payload.ElementError, queue.ResultError{
			ExternalID: e.ExternalID,
			CadenceID:  e.CadenceID,
			Message:    e.Message,
			ErrorKind:  e.Kind,
		})
	}

	if err := uc.Notifier.PublishResult(ctx, input.SessionID, payload); err != nil {
		middleware.RecordNotificationError("result")
		log.Printf("⚠️ Falha ao publicar relatório final (sessão %s): %v", input.SessionID, err)
	}
}

func (uc *ImportLeadsUseCase) publishRecompute(ctx context.Context, input ImportLeadsInput, cadence *entity.Cadence) {
	if uc.Recompute == nil {
		return
	}
	err := uc.Recompute.PublishRecompute(ctx, queue.RecomputePayload{
		CadenceID: cadence.ID,
		CompanyID: input.CompanyID,
		Reason:    "leads_linked",
	})
	if err != nil {
		log.Printf("⚠️ Falha ao publicar recompute da cadência %s: %v", cadence.ID, err)
	}
}

func externalTypeFor(provider string) string {
	switch provider {
	case entity.ExternalTypeHubspot:
		return entity.ExternalTypeHubspot
	case entity.ExternalTypePipedrive:
		return entity.ExternalTypePipedrive
	default:
		return entity.ExternalTypeSalesforce
	}
}

func (uc *ImportLeadsUseCase) windowSize() int {
	if uc.WindowSize <= 0 {
		return defaultWindowSize
	}
	return uc.WindowSize
}

func (uc *ImportLeadsUseCase) maxOrder() int {
	if uc.MaxOrder <= 0 {
		return defaultMaxOrder
	}
	return uc.MaxOrder
}
