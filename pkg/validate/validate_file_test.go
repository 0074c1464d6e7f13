package validate

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Gunvolt24/orders_sync/internal/fixtures"
	"github.com/Gunvolt24/orders_sync/pkg/ordersapi"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}
	return path
}

func TestFormatFromPath(t *testing.T) {
	cases := map[string]InputFormat{
		"a.jsonl":      FormatJSONL,
		"A.JSONL":      FormatJSONL,
		"seed.json":    FormatJSON,
		"data.txt":     FormatJSON,
		"no-extension": FormatJSON,
	}
	for path, want := range cases {
		if got := FormatFromPath(path); got != want {
			t.Fatalf("FormatFromPath(%q)=%s, want %s", path, got, want)
		}
	}
}

func TestValidateFile_JSON_Single(t *testing.T) {
	path := writeTemp(t, "one.json", minimalValidOrderJSON("o-1", 2))

	var out bytes.Buffer
	report, err := ValidateFile(context.Background(), NewOrderValidator(), path, FormatAuto, NewLinesSink(&out))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.String() != "1 valid / 0 invalid" {
		t.Fatalf("unexpected report: %s", report)
	}
	if got := strings.TrimSpace(out.String()); got != `{"id":"o-1","user_id":"user-1","items":[{"id":"o-1-1","product_id":"p-1","quantity":2}]}` {
		t.Fatalf("unexpected canonical output: %s", got)
	}
}

func TestValidateFile_JSON_SingleInvalid(t *testing.T) {
	// неизвестное поле
	path := writeTemp(t, "bad.json", `{"unknown":1,`+minimalValidOrderJSON("o-x", 1)[1:])

	var out bytes.Buffer
	report, err := ValidateFile(context.Background(), NewOrderValidator(), path, FormatJSON, NewLinesSink(&out))
	if err == nil {
		t.Fatalf("expected error for invalid single order")
	}
	if report.Valid != 0 || report.Invalid != 1 || len(report.Rejected) != 1 || report.Rejected[0].Record != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if out.Len() != 0 {
		t.Fatalf("output must be empty for invalid single JSON")
	}
}

func TestValidateFile_JSON_ArrayRejections(t *testing.T) {
	content := "[" + minimalValidOrderJSON("o-1", 1) + "," +
		minimalValidOrderJSON("o-2", -1) + "," +
		minimalValidOrderJSON("o-1", 5) + "," +
		minimalValidOrderJSON("o-3", 3) + "]"
	path := writeTemp(t, "seed.json", content)

	var out bytes.Buffer
	report, err := ValidateFile(context.Background(), NewOrderValidator(), path, FormatAuto, NewLinesSink(&out))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.String() != "2 valid / 2 invalid" {
		t.Fatalf("unexpected report: %s", report)
	}
	if len(report.Rejected) != 2 || report.Rejected[0].Record != 2 || report.Rejected[1].Record != 3 {
		t.Fatalf("unexpected rejections: %+v", report.Rejected)
	}
	if !errors.Is(report.Rejected[1].Err, ErrInvalidOrder) || !strings.Contains(report.Rejected[1].Err.Error(), "duplicate") {
		t.Fatalf("duplicate must be rejected as invalid, got %v", report.Rejected[1].Err)
	}
	if lines := strings.Split(strings.TrimSpace(out.String()), "\n"); len(lines) != 2 {
		t.Fatalf("expected 2 output lines, got %d", len(lines))
	}
}

func TestValidateFile_JSONL_ExplicitFormatIgnoresExt(t *testing.T) {
	path := writeTemp(t, "data.txt", oneLineJSONL(minimalValidOrderJSON("o-1", 1))+"\n")

	report, err := ValidateFile(context.Background(), NewOrderValidator(), path, FormatJSONL, NewLinesSink(&bytes.Buffer{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Valid != 1 || report.Invalid != 0 {
		t.Fatalf("unexpected report: %s", report)
	}
}

func TestValidateFile_OpenError(t *testing.T) {
	_, err := ValidateFile(context.Background(), NewOrderValidator(), "no-such-file.json", FormatAuto, NewLinesSink(&bytes.Buffer{}))
	if err == nil || !strings.Contains(err.Error(), "open file") {
		t.Fatalf("expected open error, got %v", err)
	}
}

func TestValidateReader_UnsupportedFormat(t *testing.T) {
	_, err := ValidateReader(context.Background(), NewOrderValidator(), strings.NewReader("{}"), InputFormat("yaml"), NewLinesSink(&bytes.Buffer{}))
	if err == nil || !strings.Contains(err.Error(), "unsupported format") {
		t.Fatalf("expected unsupported format error, got: %v", err)
	}
}

// seed-вывод читается обратно как коллекция заказов
func TestSeedSink_RoundTripsFixtures(t *testing.T) {
	var in bytes.Buffer
	sink := NewLinesSink(&in)
	seed := fixtures.Orders()
	for i := range seed {
		if err := sink.Put(&seed[i]); err != nil {
			t.Fatalf("put: %v", err)
		}
	}

	var out bytes.Buffer
	report, err := ValidateReader(context.Background(), NewOrderValidator(), &in, FormatJSONL, NewSeedSink(&out))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Valid != len(seed) || report.Invalid != 0 {
		t.Fatalf("unexpected report: %s", report)
	}

	wire, err := ordersapi.DecodeOrders(&out)
	if err != nil {
		t.Fatalf("decode seed: %v", err)
	}
	got, err := ordersapi.ToDomain(wire)
	if err != nil {
		t.Fatalf("to domain: %v", err)
	}
	if len(got) != len(seed) || got[1].ItemEntities[0].Quantity != fixtures.SecondOrderFirstItemQuantity {
		t.Fatalf("seed output differs from fixtures: %+v", got)
	}
}
