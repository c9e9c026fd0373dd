package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/segmentio/kafka-go"
)

const EventTypeOrderPlaced = "order_placed"

type OrderPlacedLine struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
}

type OrderPlaced struct {
	OrderID  int64             `json:"order_id"`
	Lines    []OrderPlacedLine `json:"lines"`
	Total    string            `json:"total"`
	GiftWrap bool              `json:"gift_wrap"`
	PlacedAt time.Time         `json:"placed_at"`
}

func NewOrderPlaced(order *domain.Order, placedAt time.Time) OrderPlaced {
	event := OrderPlaced{
		OrderID:  order.ID,
		Lines:    make([]OrderPlacedLine, 0, len(order.Lines)),
		GiftWrap: order.GiftWrap,
		PlacedAt: placedAt,
	}
	cart := domain.NewCart()
	for _, line := range order.Lines {
		cart.AddItem(line.Product, line.Quantity)
		event.Lines = append(event.Lines, OrderPlacedLine{
			ProductID: line.Product.ID,
			Name:      line.Product.Name,
			Quantity:  line.Quantity,
			UnitPrice: line.Product.Price.StringFixed(2),
		})
	}
	event.Total = cart.ComputeTotalValue().StringFixed(2)
	return event
}

type Publisher interface {
	PublishOrderPlaced(ctx context.Context, event OrderPlaced) error
}

type NopPublisher struct{}

func (NopPublisher) PublishOrderPlaced(context.Context, OrderPlaced) error { return nil }

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer messageWriter
}

func NewKafkaPublisher(topic string, brokers ...string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
		// one event per checkout; flush it instead of waiting for a batch to fill
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: 2 * time.Second,
	}
	return &KafkaPublisher{writer: w}
}

func (p *KafkaPublisher) PublishOrderPlaced(ctx context.Context, event OrderPlaced) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal order placed event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(event.OrderID, 10)),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(EventTypeOrderPlaced)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish order %d: %w", event.OrderID, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
