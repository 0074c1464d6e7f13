package validate

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/Gunvolt24/orders_sync/pkg/ordersapi"
)

func TestValidateJSONLStream_Mixed(t *testing.T) {
	ctx := context.Background()
	validator := NewOrderValidator()

	line1 := oneLineJSONL(minimalValidOrderJSON("o-1", 1))
	line2 := oneLineJSONL(minimalValidOrderJSON("o-2", -4)) // отрицательное количество
	line3 := ""                                             // пустая строка — ок
	line4 := oneLineJSONL(minimalValidOrderJSON("o-3", 7))

	input := strings.Join([]string{line1, line2, line3, line4}, "\n")
	var out bytes.Buffer

	res, err := ValidateJSONLStream(ctx, validator, strings.NewReader(input), NewLinesSink(&out))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Valid != 2 || res.Invalid != 1 {
		t.Fatalf("unexpected counters: %+v", res)
	}
	if len(res.Rejected) != 1 || res.Rejected[0].Record != 2 {
		t.Fatalf("rejection must point at line 2: %+v", res.Rejected)
	}

	outLines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(outLines) != 2 {
		t.Fatalf("expected 2 output lines, got %d", len(outLines))
	}
	var o1, o2 ordersapi.Order
	if err := json.Unmarshal([]byte(outLines[0]), &o1); err != nil {
		t.Fatalf("unmarshal line1: %v", err)
	}
	if err := json.Unmarshal([]byte(outLines[1]), &o2); err != nil {
		t.Fatalf("unmarshal line2: %v", err)
	}
	if o1.ID != "o-1" || o2.ID != "o-3" {
		t.Fatalf("unexpected ids in output: %s, %s", o1.ID, o2.ID)
	}
}

func TestValidateJSONLStream_LargeLine(t *testing.T) {
	ctx := context.Background()
	validator := NewOrderValidator()

	bigProduct := strings.Repeat("X", 200_000) // > 64KB
	raw := `{"id":"o-big","user_id":"u","items":[{"id":"i","product_id":"` + bigProduct + `","quantity":1}]}`

	var out bytes.Buffer
	res, err := ValidateJSONLStream(ctx, validator, strings.NewReader(raw+"\n"), NewLinesSink(&out))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Valid != 1 || res.Invalid != 0 {
		t.Fatalf("unexpected counters: %+v", res)
	}
	if strings.Count(strings.TrimSpace(out.String()), "\n")+1 != 1 {
		t.Fatalf("expected 1 output line")
	}
}

// ------ функции-помощники ------

func oneLineJSONL(s string) string {
	var b bytes.Buffer
	_ = json.Compact(&b, []byte(s))
	return b.String()
}
