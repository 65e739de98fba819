package notify

import (
	"encoding/json"

	"github.com/apex/log"
	amqp "github.com/rabbitmq/amqp091-go"
)

const DefaultQueue = "file_upload_notifications"

// AMQPNotifier publishes events as persistent messages to a durable queue.
// Every Publish opens a fresh connection; events are rare enough (one per
// ingested file) that pooling isn't worth carrying connection state for.
type AMQPNotifier struct {
	url   string
	queue string
}

func NewAMQPNotifier(url, queue string) *AMQPNotifier {
	if queue == "" {
		queue = DefaultQueue
	}
	return &AMQPNotifier{url: url, queue: queue}
}

func (n *AMQPNotifier) Publish(event Event) error {
	conn, err := amqp.Dial(n.url)
	if err != nil {
		// An unreachable broker downgrades to a logged no-op. The caller
		// still gets the error to count the failure, but nothing is retried.
		log.Errorf("Cannot connect to broker at %s, event for %s dropped: %s", n.url, event.FileName, err)
		return err
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		log.Errorf("Cannot open channel on broker, event for %s dropped: %s", event.FileName, err)
		return err
	}
	defer ch.Close()

	if _, err := ch.QueueDeclare(n.queue, true, false, false, false, nil); err != nil {
		log.Errorf("Cannot declare queue %s, event for %s dropped: %s", n.queue, event.FileName, err)
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	err = ch.Publish("", n.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
	if err != nil {
		log.Errorf("Publishing event for %s failed: %s", event.FileName, err)
		return err
	}

	return nil
}
