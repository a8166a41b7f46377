package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ProgressPayload é emitido uma vez por registro, na ordem do input,
// quando o registro começa a ser processado.
type ProgressPayload struct {
	SessionID string `json:"session_id"`
	Index     int    `json:"index"` // posição 1-based no input
	Size      int    `json:"size"`
}

type ResultSuccess struct {
	LeadID     string `json:"lead_id"`
	CadenceID  string `json:"cadence_id"`
	ExternalID string `json:"external_id"`
}

type ResultError struct {
	ExternalID string `json:"external_id"`
	CadenceID  string `json:"cadence_id"`
	Message    string `json:"message"`
	ErrorKind  string `json:"error_kind"`
}

// ResultPayload carrega o relatório final da importação, emitido uma única
// vez depois que a última janela assenta.
type ResultPayload struct {
	SessionID      string          `json:"session_id"`
	TotalSuccess   int             `json:"total_success"`
	TotalError     int             `json:"total_error"`
	ElementSuccess []ResultSuccess `json:"element_success"`
	ElementError   []ResultError   `json:"element_error"`
}

type RecomputePayload struct {
	CadenceID string `json:"cadence_id"`
	CompanyID string `json:"company_id"`
	Reason    string `json:"reason"` // ex: "leads_linked"
}

type Notifier struct {
	Ch *amqp.Channel
}

func NewNotifier(ch *amqp.Channel) *Notifier {
	return &Notifier{Ch: ch}
}

func (n *Notifier) PublishProgress(ctx context.Context, sessionID string, payload ProgressPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("erro ao converter payload: %v", err)
	}

	// Progresso é descartável: se o assinante não estiver lá, perdeu.
	return n.Ch.PublishWithContext(ctx,
		ImportExchangeName,
		SessionKeyPrefix+sessionID,
		false, // Mandatory
		false, // Immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Transient,
		},
	)
}

func (n *Notifier) PublishResult(ctx context.Context, sessionID string, payload ResultPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("erro ao converter payload: %v", err)
	}

	return n.Ch.PublishWithContext(ctx,
		ImportExchangeName,
		SessionKeyPrefix+sessionID,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
}

type RecomputeProducer struct {
	Ch *amqp.Channel
}

func NewRecomputeProducer(ch *amqp.Channel) *RecomputeProducer {
	return &RecomputeProducer{Ch: ch}
}

func (p *RecomputeProducer) PublishRecompute(ctx context.Context, payload RecomputePayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("erro ao converter payload: %v", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		RecomputeExchangeName,
		RecomputeRoutingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("falha ao publicar no RabbitMQ: %v", err)
	}

	return nil
}
