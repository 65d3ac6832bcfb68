package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
)

const transcodeQueue = "transcode_jobs"

// TranscodeJob is handed from the API server to the transcoding worker. The
// raw upload sits on shared storage at Path; everything else the worker needs
// it reads from the uploads collection by UploadID.
type TranscodeJob struct {
	UploadID string `json:"uploadId"`
	Path     string `json:"path"`
	Filename string `json:"filename"`
}

type Queue struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

func Connect(url string) (*Queue, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if _, err := ch.QueueDeclare(
		transcodeQueue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	log.Printf("RabbitMQ initialized, queue %q declared", transcodeQueue)
	return &Queue{conn: conn, ch: ch}, nil
}

func (q *Queue) Close() {
	if q.ch != nil {
		q.ch.Close()
	}
	if q.conn != nil {
		q.conn.Close()
	}
}

func (q *Queue) PublishTranscode(ctx context.Context, job TranscodeJob) error {
	body, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}
	return q.ch.PublishWithContext(ctx,
		"",             // default exchange
		transcodeQueue, // routing key = queue name
		false,          // mandatory
		false,          // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}

// ConsumeTranscode feeds jobs to handler until ctx is cancelled. A job is
// acked whatever the handler outcome; failures are recorded in the uploads
// collection, not redelivered.
func (q *Queue) ConsumeTranscode(ctx context.Context, handler func(context.Context, TranscodeJob)) error {
	if err := q.ch.Qos(1, 0, false); err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	msgs, err := q.ch.Consume(
		transcodeQueue,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to start consumer: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-msgs:
			if !ok {
				return fmt.Errorf("consumer channel closed")
			}
			var job TranscodeJob
			if err := json.Unmarshal(msg.Body, &job); err != nil {
				log.Println("Failed to unmarshal transcode job:", err)
				msg.Ack(false)
				continue
			}
			handler(ctx, job)
			msg.Ack(false)
		}
	}
}
