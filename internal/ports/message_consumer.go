package ports

import "context"

// MessageConsumer — фоновый потребитель входящих заказов (Kafka).
type MessageConsumer interface {
	Run(ctx context.Context) error
	Close() error
}
