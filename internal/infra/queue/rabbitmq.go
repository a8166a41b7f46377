package queue

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	// Canal out-of-band de importação: exchange topic, routing key por sessão.
	// O frontend (ou o gateway de websocket) faz bind de uma fila efêmera em
	// import.session.<session_id> para receber progresso e resultado final.
	ImportExchangeName = "ex.imports"
	SessionKeyPrefix   = "import.session."

	// Recompute: depois que uma janela vincula leads numa cadência em andamento,
	// o serviço de agendamento precisa recalcular a visão de tarefas por usuário.
	RecomputeExchangeName = "ex.cadence"
	RecomputeQueueName    = "q.cadence.recompute"
	RecomputeDLQName      = "q.cadence.recompute.dlq"
	RecomputeRoutingKey   = "k.recompute"
	DLXName               = "ex.dlx" // Dead Letter Exchange
)

type RabbitMQ struct {
	Conn *amqp.Connection
	Ch   *amqp.Channel
}

func NewRabbitMQ(user, pass, host, port string) (*RabbitMQ, error) {
	dsn := fmt.Sprintf("amqp://%s:%s@%s:%s/", user, pass, host, port)

	conn, err := amqp.Dial(dsn)
	if err != nil {
		return nil, fmt.Errorf("falha ao conectar no RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("falha ao abrir canal: %w", err)
	}

	if err := setupTopology(ch); err != nil {
		return nil, err
	}

	return &RabbitMQ{Conn: conn, Ch: ch}, nil
}

func setupTopology(ch *amqp.Channel) error {
	// Exchange de notificações de import (topic: uma key por sessão).
	// As filas dos assinantes são efêmeras e declaradas pelo consumidor.
	err := ch.ExchangeDeclare(ImportExchangeName, "topic", true, false, false, false, nil)
	if err != nil {
		return err
	}

	// DLX + DLQ do recompute
	err = ch.ExchangeDeclare(DLXName, "direct", true, false, false, false, nil)
	if err != nil {
		return err
	}

	_, err = ch.QueueDeclare(RecomputeDLQName, true, false, false, false, nil)
	if err != nil {
		return err
	}

	err = ch.QueueBind(RecomputeDLQName, RecomputeRoutingKey, DLXName, false, nil)
	if err != nil {
		return err
	}

	args := amqp.Table{
		"x-dead-letter-exchange":    DLXName,
		"x-dead-letter-routing-key": RecomputeRoutingKey,
	}

	err = ch.ExchangeDeclare(RecomputeExchangeName, "direct", true, false, false, false, nil)
	if err != nil {
		return err
	}

	_, err = ch.QueueDeclare(RecomputeQueueName, true, false, false, false, args)
	if err != nil {
		return err
	}

	return ch.QueueBind(RecomputeQueueName, RecomputeRoutingKey, RecomputeExchangeName, false, nil)
}
