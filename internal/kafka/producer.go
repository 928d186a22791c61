package kafka

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/civicgrid/complaint-service/internal/model"
	"github.com/segmentio/kafka-go"
)

// ComplaintEventProducer sends complaint events to Kafka (mockable in tests).
type ComplaintEventProducer interface {
	ProduceComplaintEvent(ctx context.Context, event string, payload map[string]interface{})
	ProduceComplaintEventAsync(event string, payload map[string]interface{})
}

// Producer writes complaint events to a Kafka topic. Best-effort: failures
// are logged, never surfaced to the API caller.
type Producer struct {
	writer *kafka.Writer
	topic  string
}

// NewProducer creates the producer. Empty brokers or topic make every method
// a no-op.
func NewProducer(brokers []string, topic string) *Producer {
	if len(brokers) == 0 || topic == "" {
		return &Producer{}
	}
	return &Producer{
		topic: topic,
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: 10 * time.Millisecond,
		},
	}
}

// ComplaintPayload builds the event payload for a complaint.
func ComplaintPayload(c *model.Complaint) map[string]interface{} {
	if c == nil {
		return nil
	}
	return map[string]interface{}{
		"complaint_id":   c.ID,
		"category":       c.Category,
		"department":     c.Department,
		"status":         string(c.Status),
		"priority_score": c.PriorityScore,
		"vote_count":     c.VoteCount,
		"needs_review":   c.NeedsReview,
		"submitted_by":   c.SubmittedBy,
	}
}

// ProduceComplaintEvent sends one event to the topic.
func (p *Producer) ProduceComplaintEvent(ctx context.Context, event string, payload map[string]interface{}) {
	if p.writer == nil {
		return
	}
	msg := map[string]interface{}{"event": event}
	for k, v := range payload {
		msg[k] = v
	}
	body, err := json.Marshal(msg)
	if err != nil {
		log.Printf("kafka: marshal complaint event: %v", err)
		return
	}
	if err := p.writer.WriteMessages(ctx, kafka.Message{Value: body}); err != nil {
		log.Printf("kafka: write complaint event: %v", err)
	}
}

// ProduceComplaintEventAsync fires the event in a goroutine with its own
// timeout so it survives request cancellation without blocking the response.
func (p *Producer) ProduceComplaintEventAsync(event string, payload map[string]interface{}) {
	if p.writer == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		p.ProduceComplaintEvent(ctx, event, payload)
	}()
}

// Close closes the writer.
func (p *Producer) Close() error {
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

// ParseBrokers splits "host1:9092,host2:9092" into a slice.
func ParseBrokers(s string) []string {
	var out []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
