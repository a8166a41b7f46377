package worker

import (
	"context"
	"database/sql"
	"log"
	"time"

	"github.com/outflowhq/engage-api/internal/infra/queue"
)

type recomputePublisher interface {
	PublishRecompute(ctx context.Context, payload queue.RecomputePayload) error
}

// CadenceRefreshWorker varre periodicamente as cadências em andamento e
// republica recompute para cada uma — rede de segurança para o caso de uma
// notificação pós-janela ter se perdido (o canal não é exactly-once).
type CadenceRefreshWorker struct {
	db           *sql.DB
	producer     recomputePublisher
	tickInterval time.Duration
}

func NewCadenceRefreshWorker(db *sql.DB, producer recomputePublisher) *CadenceRefreshWorker {
	return &CadenceRefreshWorker{
		db:           db,
		producer:     producer,
		tickInterval: 1 * time.Hour,
	}
}

func (w *CadenceRefreshWorker) Start(ctx context.Context) {
	log.Println("🕒 Cadence Refresh Worker iniciado (1h)")

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.refreshActive(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Println("⚠️ Cadence Refresh Worker encerrado")
			return
		case <-ticker.C:
			w.refreshActive(ctx)
		}
	}
}

func (w *CadenceRefreshWorker) refreshActive(ctx context.Context) {
	query := `
		SELECT id, company_id
		FROM cadences
		WHERE status = 'in_progress'
	`

	rows, err := w.db.QueryContext(ctx, query)
	if err != nil {
		log.Printf("❌ Erro ao buscar cadências ativas: %v", err)
		return
	}
	defer rows.Close()

	refreshed := 0
	for rows.Next() {
		var cadenceID, companyID string
		if err := rows.Scan(&cadenceID, &companyID); err != nil {
			log.Printf("⚠️ Erro ao escanear cadência: %v", err)
			continue
		}

		err := w.producer.PublishRecompute(ctx, queue.RecomputePayload{
			CadenceID: cadenceID,
			CompanyID: companyID,
			Reason:    "scheduled_refresh",
		})
		if err != nil {
			log.Printf("⚠️ Falha ao publicar refresh da cadência %s: %v", cadenceID, err)
			continue
		}
		refreshed++
	}

	if refreshed > 0 {
		log.Printf("✅ %d cadência(s) agendadas para recompute", refreshed)
	}
}
