package kafka

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

// снимок заказа с длинными id укладывается в одну строку JSONL до 10 МБ
const maxMessageBytes = 10 << 20

// ConsumerConfig — параметры чтения топика со снимками заказов.
type ConsumerConfig struct {
	Brokers     []string
	Topic       string
	GroupID     string
	StartOffset string // first|last

	ProcessTimeout time.Duration
	RetryInitial   time.Duration
	RetryMax       time.Duration
}

// Validate — обязательные поля и допустимый StartOffset.
func (c *ConsumerConfig) Validate() error {
	var errs []error
	if len(c.Brokers) == 0 || strings.TrimSpace(c.Brokers[0]) == "" {
		errs = append(errs, errors.New("brokers are required"))
	}
	if strings.TrimSpace(c.Topic) == "" {
		errs = append(errs, errors.New("topic is required"))
	}
	if strings.TrimSpace(c.GroupID) == "" {
		errs = append(errs, errors.New("group id is required"))
	}
	switch normOffset(c.StartOffset) {
	case "", "first", "last":
	default:
		errs = append(errs, fmt.Errorf("start offset %q: want first|last", c.StartOffset))
	}
	if c.RetryMax > 0 && c.RetryInitial > c.RetryMax {
		errs = append(errs, fmt.Errorf("retry initial %s exceeds retry max %s", c.RetryInitial, c.RetryMax))
	}
	return errors.Join(errs...)
}

// ReaderConfig — kafka.Reader с ручным коммитом оффсетов (CommitInterval = 0).
func (c *ConsumerConfig) ReaderConfig() kafka.ReaderConfig {
	rc := kafka.ReaderConfig{
		Brokers:  c.Brokers,
		GroupID:  c.GroupID,
		Topic:    c.Topic,
		MaxBytes: maxMessageBytes,
	}
	if normOffset(c.StartOffset) == "first" {
		rc.StartOffset = kafka.FirstOffset
	} else {
		rc.StartOffset = kafka.LastOffset
	}
	return rc
}

func normOffset(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
