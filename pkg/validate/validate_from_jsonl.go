package validate

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/Gunvolt24/orders_sync/internal/ports"
)

// строка JSONL может нести заказ с очень длинными id
const maxJSONLLine = 10 * 1024 * 1024

// ValidateJSONLStream — ValidateReader для JSONL. Номер записи в отчёте — номер строки.
func ValidateJSONLStream(ctx context.Context, validator ports.OrderValidator, r io.Reader, sink Sink) (Report, error) {
	return ValidateReader(ctx, validator, r, FormatJSONL, sink)
}

func (c *collector) scanLines(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxJSONLLine)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		if err := c.add(lineNo, line); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scan line %d: %w", lineNo+1, err)
	}
	return nil
}

func writeLine(w io.Writer, line []byte) error {
	if _, err := w.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("write valid line: %w", err)
	}
	return nil
}
