package queue

import (
	"context"
	"encoding/json"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
)

// CadenceCounts é o que o worker precisa do repositório de vínculos para
// reconstruir a visão de ordenação por usuário de uma cadência.
type CadenceCounts interface {
	CountByCadence(ctx context.Context, cadenceID string) (map[string]int, error)
}

// RecomputeWorker consome q.cadence.recompute e atualiza a visão de tarefas
// por (usuário, cadência) depois que uma janela de importação vincula leads.
type RecomputeWorker struct {
	Channel *amqp.Channel
	Links   CadenceCounts
}

func NewRecomputeWorker(ch *amqp.Channel, links CadenceCounts) *RecomputeWorker {
	return &RecomputeWorker{
		Channel: ch,
		Links:   links,
	}
}

func (w *RecomputeWorker) Start(queueName string) {
	msgs, err := w.Channel.Consume(
		queueName, // fila
		"",        // consumer
		false,     // auto-ack (manual é mais seguro)
		false,     // exclusive
		false,     // no-local
		false,     // no-wait
		nil,       // args
	)
	if err != nil {
		log.Fatalf("❌ Falha ao registrar consumidor RabbitMQ: %s", err)
	}

	forever := make(chan bool)

	go func() {
		for d := range msgs {
			var payload RecomputePayload
			if err := json.Unmarshal(d.Body, &payload); err != nil {
				log.Printf("❌ [RECOMPUTE] JSON Inválido: %s", err)
				// Mensagem podre (malformada). Rejeita sem requeue para não travar a fila.
				d.Nack(false, false)
				continue
			}

			if err := w.processMessage(context.Background(), payload); err != nil {
				log.Printf("❌ [RECOMPUTE] Erro ao recalcular cadência %s: %s", payload.CadenceID, err)
				d.Nack(false, false)
			} else {
				d.Ack(false)
			}
		}
	}()

	log.Printf(" [*] Recompute worker aguardando na fila '%s'", queueName)
	<-forever
}

func (w *RecomputeWorker) processMessage(ctx context.Context, payload RecomputePayload) error {
	counts, err := w.Links.CountByCadence(ctx, payload.CadenceID)
	if err != nil {
		return err
	}

	// O agendador de tarefas lê a tabela diretamente; aqui só materializamos
	// o total por usuário para o log operacional e para o painel.
	total := 0
	for userID, n := range counts {
		log.Printf("⚙️ [RECOMPUTE] cadence=%s user=%s links=%d", payload.CadenceID, userID, n)
		total += n
	}
	log.Printf("✅ [RECOMPUTE] cadence=%s total_links=%d (motivo: %s)", payload.CadenceID, total, payload.Reason)
	return nil
}
