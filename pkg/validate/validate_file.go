package validate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Gunvolt24/orders_sync/internal/domain"
	"github.com/Gunvolt24/orders_sync/internal/ports"
	"github.com/Gunvolt24/orders_sync/pkg/ordersapi"
)

// InputFormat допустимые значения.
type InputFormat string

const (
	FormatAuto  InputFormat = "auto"
	FormatJSON  InputFormat = "json"
	FormatJSONL InputFormat = "jsonl"
)

// FormatFromPath — .jsonl даёт JSONL, всё остальное JSON.
func FormatFromPath(path string) InputFormat {
	if strings.EqualFold(filepath.Ext(path), ".jsonl") {
		return FormatJSONL
	}
	return FormatJSON
}

// Rejection — отброшенная запись: номер (с 1) и причина.
type Rejection struct {
	Record int
	Err    error
}

// Report — итог проверки набора заказов.
type Report struct {
	Valid    int
	Invalid  int
	Rejected []Rejection
}

func (r Report) String() string { return fmt.Sprintf("%d valid / %d invalid", r.Valid, r.Invalid) }

// Sink получает валидные заказы в порядке входа. Flush вызывается один раз в конце.
type Sink interface {
	Put(order *domain.OrderEntity) error
	Flush() error
}

// ValidateFile — ValidateReader над файлом; FormatAuto выбирается по расширению.
func ValidateFile(ctx context.Context, validator ports.OrderValidator, path string, format InputFormat, sink Sink) (Report, error) {
	if format == FormatAuto {
		format = FormatFromPath(path)
	}
	file, err := os.Open(path)
	if err != nil {
		return Report{}, fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	return ValidateReader(ctx, validator, file, format, sink)
}

// ValidateReader проверяет JSON (объект или массив) или JSONL.
// Невалидные записи массива и строки JSONL пропускаются и попадают в отчёт;
// невалидный одиночный объект — ошибка. Повтор id заказа отбрасывает повтор.
func ValidateReader(ctx context.Context, validator ports.OrderValidator, r io.Reader, format InputFormat, sink Sink) (Report, error) {
	c := newCollector(ctx, validator, sink)

	switch format {
	case FormatJSON:
		raw, err := io.ReadAll(r)
		if err != nil {
			return Report{}, fmt.Errorf("read input: %w", err)
		}
		if !isJSONArray(raw) {
			if err := c.add(1, raw); err != nil {
				return c.report, err
			}
			if n := len(c.report.Rejected); n > 0 {
				return c.report, c.report.Rejected[n-1].Err
			}
			break
		}
		var records []json.RawMessage
		if err := json.Unmarshal(raw, &records); err != nil {
			return Report{}, fmt.Errorf("invalid json: %w", err)
		}
		for i, rec := range records {
			if err := c.add(i+1, rec); err != nil {
				return c.report, err
			}
		}

	case FormatJSONL:
		if err := c.scanLines(r); err != nil {
			return c.report, err
		}

	default:
		return Report{}, fmt.Errorf("unsupported format: %s", format)
	}

	if err := sink.Flush(); err != nil {
		return c.report, fmt.Errorf("flush output: %w", err)
	}
	return c.report, nil
}

// collector — общий путь записи: разбор, валидация, дедупликация по id.
type collector struct {
	ctx       context.Context
	validator ports.OrderValidator
	sink      Sink
	seen      map[domain.OrderEntityID]struct{}
	report    Report
}

func newCollector(ctx context.Context, validator ports.OrderValidator, sink Sink) *collector {
	return &collector{ctx: ctx, validator: validator, sink: sink, seen: make(map[domain.OrderEntityID]struct{})}
}

// add возвращает ошибку только при сбое вывода.
func (c *collector) add(record int, raw []byte) error {
	order, err := ValidateOrderFromJSON(c.ctx, c.validator, raw)
	if err == nil {
		if _, dup := c.seen[order.ID]; dup {
			err = fmt.Errorf("%w: duplicate order id %q", ErrInvalidOrder, order.ID)
		}
	}
	if err != nil {
		c.report.Invalid++
		c.report.Rejected = append(c.report.Rejected, Rejection{Record: record, Err: err})
		return nil
	}

	c.seen[order.ID] = struct{}{}
	if err := c.sink.Put(order); err != nil {
		return err
	}
	c.report.Valid++
	return nil
}

// ---- sinks ----

type linesSink struct{ w io.Writer }

// NewLinesSink — канонический JSON заказа одной строкой (JSONL).
func NewLinesSink(w io.Writer) Sink { return linesSink{w: w} }

func (s linesSink) Put(order *domain.OrderEntity) error {
	line, err := json.Marshal(ordersapi.OrderFromDomain(order))
	if err != nil {
		return fmt.Errorf("marshal order: %w", err)
	}
	return writeLine(s.w, line)
}

func (linesSink) Flush() error { return nil }

type seedSink struct {
	w      io.Writer
	orders []domain.OrderEntity
}

// NewSeedSink — JSON-массив валидных заказов, формат ORDERS_LOCAL_SEED_PATH.
func NewSeedSink(w io.Writer) Sink { return &seedSink{w: w} }

func (s *seedSink) Put(order *domain.OrderEntity) error {
	s.orders = append(s.orders, order.Clone())
	return nil
}

func (s *seedSink) Flush() error {
	enc := json.NewEncoder(s.w)
	enc.SetIndent("", "  ")
	return enc.Encode(ordersapi.FromDomain(s.orders))
}

type sliceSink struct{ orders []domain.OrderEntity }

func (s *sliceSink) Put(order *domain.OrderEntity) error {
	s.orders = append(s.orders, *order)
	return nil
}

func (*sliceSink) Flush() error { return nil }
