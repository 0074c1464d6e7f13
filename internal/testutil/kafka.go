//go:build integration

package testutil

import (
	"context"
	"errors"
	"fmt"
	"net"
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/Gunvolt24/orders_sync/internal/domain"
)

var reTopicUnsafe = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// UniqueTopicAndGroup — topic и group с наносекундным суффиксом.
func UniqueTopicAndGroup(base string) (topic, group string) {
	s := strings.ReplaceAll(time.Now().UTC().Format("20060102T150405.000000000"), ".", "")
	name := base + "-" + s
	return name, name + "-g"
}

// TopicFor — уникальный и уже созданный топик под тест (имя теста входит в имя топика).
func TopicFor(t testing.TB, ctx context.Context, env *KafkaEnv) (topic, group string) {
	t.Helper()
	topic, group = UniqueTopicAndGroup(env.BaseTopic + "-" + reTopicUnsafe.ReplaceAllString(t.Name(), "-"))
	if err := EnsureTopic(ctx, env.Brokers[0], topic); err != nil {
		t.Fatalf("ensure topic %s: %v", topic, err)
	}
	return topic, group
}

// EnsureTopic создаёт топик через контроллер кластера и ждёт его в метаданных.
// Уже существующий топик не ошибка. broker: "host:port" или "PLAINTEXT://host:port".
func EnsureTopic(ctx context.Context, broker, topic string) error {
	addr := brokerAddr(broker)

	conn, err := kafka.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	defer conn.Close()

	ctrl, err := conn.Controller()
	if err != nil {
		return fmt.Errorf("controller: %w", err)
	}

	admin, err := kafka.DialContext(ctx, "tcp", net.JoinHostPort(ctrl.Host, strconv.Itoa(ctrl.Port)))
	if err != nil {
		return fmt.Errorf("dial controller: %w", err)
	}
	defer admin.Close()

	err = admin.CreateTopics(kafka.TopicConfig{Topic: topic, NumPartitions: 1, ReplicationFactor: 1})
	if err != nil && !errors.Is(err, kafka.TopicAlreadyExists) {
		return fmt.Errorf("create topic %s: %w", topic, err)
	}

	return waitTopicReady(ctx, addr, topic)
}

// PublishOrders пишет заказы в формате сообщения, ключ — id заказа.
func PublishOrders(ctx context.Context, brokers []string, topic string, orders ...domain.OrderEntity) error {
	msgs := make([]kafka.Message, 0, len(orders))
	for i := range orders {
		msgs = append(msgs, kafka.Message{Key: []byte(orders[i].ID), Value: WireJSON(orders[i])})
	}
	return PublishRaw(ctx, brokers, topic, msgs...)
}

// PublishRaw — синхронная запись с подтверждением всех реплик.
func PublishRaw(ctx context.Context, brokers []string, topic string, msgs ...kafka.Message) error {
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		RequiredAcks: kafka.RequireAll,
		Balancer:     &kafka.Hash{},
	}
	defer w.Close()
	return w.WriteMessages(ctx, msgs...)
}

func brokerAddr(raw string) string {
	first := strings.TrimSpace(strings.Split(raw, ",")[0])
	if _, rest, ok := strings.Cut(first, "://"); ok {
		return rest
	}
	return first
}

func waitTopicReady(ctx context.Context, broker, topic string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var lastErr error
	for {
		c, err := kafka.DialContext(ctx, "tcp", broker)
		if err == nil {
			parts, perr := c.ReadPartitions(topic)
			_ = c.Close()
			if perr == nil && len(parts) > 0 {
				return nil
			}
			err = perr
		}
		lastErr = err

		select {
		case <-ctx.Done():
			return fmt.Errorf("topic %q not ready: %w", topic, errors.Join(ctx.Err(), lastErr))
		case <-time.After(200 * time.Millisecond):
		}
	}
}
