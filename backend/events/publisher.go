package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ResultSubmittedKey is the routing key of ResultSubmitted events.
const ResultSubmittedKey = "quiz.result.submitted"

// ResultSubmitted is published once per committed submission.
type ResultSubmitted struct {
	ResultID    uint      `json:"result_id"`
	QuizID      uint      `json:"quiz_id"`
	StudentID   uint      `json:"student_id"`
	Score       float64   `json:"score"`
	MaxScore    float64   `json:"max_score"`
	Percentage  float64   `json:"percentage"`
	TopScore    float64   `json:"top_score"`
	ScoreAvg    float64   `json:"score_avg"`
	SubmittedAt time.Time `json:"submitted_at"`
}

type Publisher interface {
	PublishResult(ctx context.Context, ev ResultSubmitted) error
}

// AMQP publishes to a durable topic exchange.
type AMQP struct {
	conn     *amqp.Connection
	mu       sync.Mutex // amqp channels are not safe for concurrent publishing
	channel  *amqp.Channel
	exchange string
}

func NewAMQPPublisher(url, exchange string) (*AMQP, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open amqp channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		exchange,
		"topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}

	return &AMQP{conn: conn, channel: ch, exchange: exchange}, nil
}

func (p *AMQP) PublishResult(ctx context.Context, ev ResultSubmitted) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.channel.PublishWithContext(ctx,
		p.exchange,
		ResultSubmittedKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    ev.SubmittedAt,
			Body:         body,
		})
}

func (p *AMQP) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.channel.Close(); err != nil {
		p.conn.Close()
		return err
	}
	return p.conn.Close()
}

// Nop drops every event; used when AMQP_URL is empty.
type Nop struct{}

func (Nop) PublishResult(context.Context, ResultSubmitted) error { return nil }
