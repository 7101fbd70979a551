package queue

import (
	"context"
	"encoding/json"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/arsdatascience/customer-engine/internal/infra/http/middleware"
)

// JourneyCompleter é o contrato mínimo que o worker precisa para fechar
// jornadas. Desacopla o consumidor do pacote de banco.
type JourneyCompleter interface {
	CompleteActiveByCustomer(ctx context.Context, customerID string) (int64, error)
}

// Worker consome conversões da fila e marca as jornadas ativas do cliente
// como completed. Roda fora do caminho da requisição de propósito: a
// conversão já foi commitada quando a mensagem existe.
type Worker struct {
	Channel  *amqp.Channel
	Journeys JourneyCompleter
	Log      *zap.Logger
}

func NewWorker(ch *amqp.Channel, journeys JourneyCompleter, log *zap.Logger) *Worker {
	return &Worker{
		Channel:  ch,
		Journeys: journeys,
		Log:      log,
	}
}

func (w *Worker) Start(queueName string) {
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
		w.Log.Fatal("falha ao registrar consumidor RabbitMQ", zap.Error(err))
	}

	forever := make(chan bool)

	go func() {
		for d := range msgs {
			var payload ConversionPayload
			if err := json.Unmarshal(d.Body, &payload); err != nil {
				w.Log.Error("mensagem malformada, descartando", zap.Error(err))
				// Sem requeue: JSON podre nunca vai melhorar.
				d.Nack(false, false)
				continue
			}

			if err := w.processMessage(context.Background(), payload); err != nil {
				w.Log.Error("falha ao processar conversão",
					zap.String("customer_id", payload.CustomerID),
					zap.Error(err))
				d.Nack(false, false)
			} else {
				d.Ack(false)
			}
		}
	}()

	w.Log.Info("worker aguardando mensagens", zap.String("queue", queueName))
	<-forever
}

func (w *Worker) processMessage(ctx context.Context, payload ConversionPayload) error {
	completed, err := w.Journeys.CompleteActiveByCustomer(ctx, payload.CustomerID)
	if err != nil {
		return err
	}

	if completed > 0 {
		middleware.RecordJourneysCompleted(completed)
		w.Log.Info("jornadas completadas por conversão",
			zap.String("customer_id", payload.CustomerID),
			zap.String("conversion_type", payload.ConversionType),
			zap.Int64("journeys", completed))
	}
	return nil
}
